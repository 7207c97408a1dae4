package registry

import (
	"context"
	"fmt"
	"strings"

	"github.com/specialistvlad/pipegrid/internal/component"
	"github.com/specialistvlad/pipegrid/internal/ctxlog"
)

// Validate performs a consistency check of all registrations: qualified names
// live under the namespace, aliases are reachable, capability tags are
// coherent, and concrete entries have a constructor.
func (r *Registry) Validate(ctx context.Context) error {
	var errs []string
	logger := ctxlog.FromContext(ctx)

	for _, reg := range r.Registrations() {
		if !strings.HasPrefix(reg.Name, Namespace+".") {
			errs = append(errs, fmt.Sprintf("type '%s': qualified name must start with '%s.'", reg.Name, Namespace))
		}
		if reg.Alias != "" && strings.HasPrefix(reg.Alias, Namespace+".") {
			errs = append(errs, fmt.Sprintf("type '%s': alias '%s' is shadowed by the qualified namespace", reg.Name, reg.Alias))
		}

		roles := component.CapProblem | component.CapModel | component.CapLoss
		if reg.Capabilities&roles != 0 && !reg.Capabilities.Has(component.CapComponent) {
			errs = append(errs, fmt.Sprintf("type '%s': capabilities %s require Component", reg.Name, reg.Capabilities))
		}
		if reg.Capabilities.Has(component.CapProblem) && reg.Capabilities&(component.CapModel|component.CapLoss) != 0 {
			errs = append(errs, fmt.Sprintf("type '%s': a Problem cannot also be a Model or Loss", reg.Name))
		}

		if reg.New == nil && !isAbstractRoot(reg) {
			logger.Warn("Registered type has no constructor and can only be referenced, not instantiated.", "type", reg.Name)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("registry validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

func isAbstractRoot(reg *Registration) bool {
	return strings.HasPrefix(reg.Name, Namespace+".component.")
}
