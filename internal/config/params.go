package config

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// ErrMissingParam is returned when a required parameter is absent or null.
var ErrMissingParam = errors.New("missing required parameter")

// Params is the parameter record of a section.
type Params map[string]cty.Value

// Has reports whether key is present with a non-null value.
func (p Params) Has(key string) bool {
	v, ok := p[key]
	return ok && !v.IsNull()
}

// Keys returns the parameter names in lexical order.
func (p Params) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// String returns the parameter converted to a string.
func (p Params) String(key string) (string, error) {
	var s string
	if err := p.decodeKey(key, &s); err != nil {
		return "", err
	}
	return s, nil
}

// StringMap returns the parameter converted to map(string). An absent
// parameter yields an empty map.
func (p Params) StringMap(key string) (map[string]string, error) {
	out := map[string]string{}
	if !p.Has(key) {
		return out, nil
	}
	if err := p.decodeKey(key, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Strings returns the parameter converted to list(string). An absent
// parameter yields nil.
func (p Params) Strings(key string) ([]string, error) {
	if !p.Has(key) {
		return nil, nil
	}
	var out []string
	if err := p.decodeKey(key, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (p Params) decodeKey(key string, target any) error {
	if !p.Has(key) {
		return fmt.Errorf("%w: %q", ErrMissingParam, key)
	}
	if err := decodeValue(p[key], target); err != nil {
		return fmt.Errorf("parameter %q: %w", key, err)
	}
	return nil
}

// Decode populates the tagged fields of the struct pointed to by target.
// Fields are bound with a `param:"name"` tag; adding ",optional" leaves the
// field untouched when the parameter is absent. Untagged fields are ignored.
func (p Params) Decode(target any) error {
	structVal := reflect.ValueOf(target)
	if structVal.Kind() != reflect.Ptr || structVal.IsNil() {
		return fmt.Errorf("decode target must be a non-nil pointer, got %T", target)
	}
	structVal = structVal.Elem()
	if structVal.Kind() != reflect.Struct {
		return fmt.Errorf("decode target must point to a struct, got %s", structVal.Kind())
	}
	structType := structVal.Type()

	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		fieldVal := structVal.Field(i)
		if !fieldVal.CanSet() {
			continue
		}

		tag := field.Tag.Get("param")
		if tag == "" || tag == "-" {
			continue
		}
		parts := strings.Split(tag, ",")
		name := parts[0]
		optional := len(parts) > 1 && parts[1] == "optional"

		if !p.Has(name) {
			if optional {
				continue
			}
			return fmt.Errorf("%w: %q", ErrMissingParam, name)
		}

		if err := decodeValue(p[name], fieldVal.Addr().Interface()); err != nil {
			return fmt.Errorf("parameter %q: %w", name, err)
		}
	}
	return nil
}

// decodeValue converts val into the cty type implied by the Go target and
// then decodes it.
func decodeValue(val cty.Value, goVal any) error {
	valPtr := reflect.ValueOf(goVal)
	if valPtr.Kind() != reflect.Ptr {
		return fmt.Errorf("target for decoding must be a pointer, got %T", goVal)
	}

	impliedType, err := gocty.ImpliedType(valPtr.Elem().Interface())
	if err != nil {
		return gocty.FromCtyValue(val, goVal)
	}

	converted, err := convert.Convert(val, impliedType)
	if err != nil {
		return fmt.Errorf("cannot convert %s to required type %s: %w", val.Type().FriendlyName(), impliedType.FriendlyName(), err)
	}
	return gocty.FromCtyValue(converted, goVal)
}
