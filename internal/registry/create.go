package registry

import (
	"context"
	"fmt"

	"github.com/specialistvlad/pipegrid/internal/component"
	"github.com/specialistvlad/pipegrid/internal/config"
	"github.com/specialistvlad/pipegrid/internal/ctxlog"
)

// ConstructionError reports a failure raised while instantiating a component,
// as opposed to a problem with its configuration. Callers must not treat it as
// a recoverable, section-scoped error.
type ConstructionError struct {
	Section string
	Type    string
	Err     error
}

// Error implements the error interface.
func (e *ConstructionError) Error() string {
	return fmt.Sprintf("constructing component '%s' of type '%s': %v", e.Section, e.Type, e.Err)
}

// Unwrap exposes the underlying cause.
func (e *ConstructionError) Unwrap() error {
	return e.Err
}

// Lookup resolves the type of a section without instantiating it. All
// failures are ConfigurationErrors: the `type` key is absent, the name is
// unknown, the type is abstract, or it does not carry the Component
// capability.
func (r *Registry) Lookup(section string, params config.Params) (*Registration, error) {
	if !params.Has(TypeParam) {
		return nil, config.Errorf(section, "section does not contain the key '%s' defining the component type", TypeParam)
	}
	typeName, err := params.String(TypeParam)
	if err != nil {
		return nil, config.Errorf(section, "%w", err)
	}

	reg, err := r.Resolve(typeName)
	if err != nil {
		return nil, config.Errorf(section, "%w", err)
	}
	if reg.New == nil {
		return nil, config.Errorf(section, "%w: '%s'", ErrAbstractType, typeName)
	}
	if !reg.Capabilities.Has(component.CapComponent) {
		return nil, config.Errorf(section, "%w: '%s'", ErrNotComponent, typeName)
	}
	return reg, nil
}

// Instantiate constructs a component from a resolved registration. Errors from
// the constructor, and instances that do not implement the interfaces of
// their declared capabilities, are returned as ConstructionErrors.
func (r *Registry) Instantiate(ctx context.Context, reg *Registration, section string, params config.Params) (component.Component, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Instantiating component.", "section", section, "type", reg.Name)

	comp, err := reg.New(ctx, section, params)
	if err != nil {
		return nil, &ConstructionError{Section: section, Type: reg.Name, Err: err}
	}
	if comp == nil {
		return nil, &ConstructionError{Section: section, Type: reg.Name, Err: fmt.Errorf("constructor returned nil")}
	}

	if err := checkCapabilities(comp, reg.Capabilities); err != nil {
		return nil, &ConstructionError{Section: section, Type: reg.Name, Err: err}
	}
	return comp, nil
}

// Create resolves and instantiates the component described by a section.
func (r *Registry) Create(ctx context.Context, section string, params config.Params) (component.Component, *Registration, error) {
	reg, err := r.Lookup(section, params)
	if err != nil {
		return nil, nil, err
	}
	comp, err := r.Instantiate(ctx, reg, section, params)
	if err != nil {
		return nil, nil, err
	}
	return comp, reg, nil
}

func checkCapabilities(comp component.Component, caps component.Capability) error {
	if caps.Has(component.CapProblem) {
		if _, ok := comp.(component.Problem); !ok {
			return fmt.Errorf("%w: %T is tagged Problem", ErrCapabilityMismatch, comp)
		}
	}
	if caps.Has(component.CapModel) {
		if _, ok := comp.(component.Model); !ok {
			return fmt.Errorf("%w: %T is tagged Model", ErrCapabilityMismatch, comp)
		}
	}
	if caps.Has(component.CapLoss) {
		if _, ok := comp.(component.Loss); !ok {
			return fmt.Errorf("%w: %T is tagged Loss", ErrCapabilityMismatch, comp)
		}
	}
	return nil
}
