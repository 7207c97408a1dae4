package print

import (
	"context"
	"fmt"
	"io"
	"os"
	"reflect"
	"slices"

	"github.com/specialistvlad/pipegrid/internal/component"
	"github.com/specialistvlad/pipegrid/internal/config"
	"github.com/specialistvlad/pipegrid/internal/ctxlog"
	"github.com/specialistvlad/pipegrid/internal/data"
	"github.com/specialistvlad/pipegrid/internal/registry"
	"github.com/zclconf/go-cty/cty"
)

const defaultLimit = 3

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input defines the parameters of a StreamViewer section.
type Input struct {
	// Keys lists the streams to show; all present keys when empty.
	Keys  []string `param:"keys,optional"`
	Limit int      `param:"limit,optional"`
	// Types optionally constrains listed keys with a type expression,
	// e.g. { tokens = "list(string)" }.
	Types map[string]string `param:"types,optional"`
}

// Viewer prints the first elements of selected streams on every pass. It
// neither changes nor adds anything to the DataDict.
type Viewer struct {
	component.Base
	input Input
	keys  []string
	out   io.Writer
}

// New is the constructor registered for the StreamViewer type.
func New(ctx context.Context, name string, params config.Params) (component.Component, error) {
	base, err := component.NewBase(name, params)
	if err != nil {
		return nil, err
	}
	v := &Viewer{Base: base, input: Input{Limit: defaultLimit}, out: os.Stdout}
	if err := params.Decode(&v.input); err != nil {
		return nil, err
	}
	if v.input.Limit < 1 {
		return nil, fmt.Errorf("limit must be positive, got %d", v.input.Limit)
	}

	for _, key := range v.input.Keys {
		def := data.Definition{Description: "shown by " + name}
		if expr, ok := v.input.Types[key]; ok {
			ty, err := data.ParseType(expr)
			if err != nil {
				return nil, fmt.Errorf("type of key '%s': %w", key, err)
			}
			def.Types = []cty.Type{ty}
		}
		v.keys = append(v.keys, v.DeclareInput(key, def))
	}
	for key := range v.input.Types {
		if !slices.Contains(v.input.Keys, key) {
			return nil, fmt.Errorf("type given for key '%s' which is not listed in keys", key)
		}
	}
	return v, nil
}

// Forward implements component.Component.
func (v *Viewer) Forward(ctx context.Context, dd data.DataDict) error {
	ctxlog.FromContext(ctx).Info("Printing streams")

	keys := v.keys
	if len(keys) == 0 {
		keys = dd.Keys()
	}

	fmt.Fprintf(v.out, "  %s:\n", v.Name())
	for _, k := range keys {
		value, ok := dd[k]
		if !ok {
			fmt.Fprintf(v.out, "      %s = (missing)\n", k)
			continue
		}
		fmt.Fprintf(v.out, "      %s = %s\n", k, sample(value, v.input.Limit))
	}
	return nil
}

// sample renders at most limit elements of a slice value.
func sample(value any, limit int) string {
	if value == nil {
		return "(null)"
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice {
		return fmt.Sprintf("%v", value)
	}
	verb := "%v"
	if rv.Type().Elem().Kind() == reflect.String {
		verb = "%q"
	}
	n := rv.Len()
	if n <= limit {
		return fmt.Sprintf(verb, value)
	}
	return fmt.Sprintf(verb+" ... (%d more)", rv.Slice(0, limit).Interface(), n-limit)
}

// Register registers the StreamViewer type.
func (m *Module) Register(r *registry.Registry) {
	r.Register(registry.Registration{
		Name:         registry.Namespace + ".debug.StreamViewer",
		Alias:        "StreamViewer",
		Capabilities: component.CapComponent,
		New:          New,
		Description:  "Prints a sample of selected streams.",
	})
}
