package registry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/specialistvlad/pipegrid/internal/component"
	"github.com/specialistvlad/pipegrid/internal/config"
)

// Namespace is the prefix of fully-qualified type names.
const Namespace = "pipegrid"

// TypeParam is the section parameter naming the component type.
const TypeParam = "type"

var (
	ErrUnknownType        = errors.New("unknown component type")
	ErrAbstractType       = errors.New("type is abstract and cannot be instantiated")
	ErrNotComponent       = errors.New("type does not implement the Component capability")
	ErrCapabilityMismatch = errors.New("component does not implement the interface of its declared capability")
)

// Factory constructs a component for the named section.
type Factory func(ctx context.Context, name string, params config.Params) (component.Component, error)

// Registration describes a single registered type.
type Registration struct {
	// Name is the fully-qualified name, e.g. "pipegrid.text.SentenceTokenizer".
	Name string
	// Alias is the optional short name exposed at the root namespace.
	Alias string
	// Capabilities is the set of roles instances of this type can play.
	Capabilities component.Capability
	// New constructs an instance. Abstract registrations leave it nil.
	New Factory
	// Description is shown in listings.
	Description string
}

// TypeName returns the short name when one exists, the qualified one otherwise.
func (r *Registration) TypeName() string {
	if r.Alias != "" {
		return r.Alias
	}
	return r.Name
}

// Module is the interface that all component packages implement to register
// their types.
type Module interface {
	Register(r *Registry)
}

// Registry holds all registered types for a single application instance.
type Registry struct {
	qualified map[string]*Registration
	aliases   map[string]*Registration
}

// New creates a Registry pre-populated with the abstract root types
// Component, Problem, Model and Loss.
func New() *Registry {
	r := &Registry{
		qualified: make(map[string]*Registration),
		aliases:   make(map[string]*Registration),
	}
	r.Register(Registration{
		Name: Namespace + ".component.Component", Alias: "Component",
		Capabilities: component.CapComponent,
		Description:  "Abstract base of every pipeline element.",
	})
	r.Register(Registration{
		Name: Namespace + ".component.Problem", Alias: "Problem",
		Capabilities: component.CapComponent | component.CapProblem,
		Description:  "Abstract base of data sources.",
	})
	r.Register(Registration{
		Name: Namespace + ".component.Model", Alias: "Model",
		Capabilities: component.CapComponent | component.CapModel,
		Description:  "Abstract base of trainable components.",
	})
	r.Register(Registration{
		Name: Namespace + ".component.Loss", Alias: "Loss",
		Capabilities: component.CapComponent | component.CapLoss,
		Description:  "Abstract base of loss components.",
	})
	return r
}

// Register adds a type. Registering a qualified name or alias twice is a
// programming error and panics.
func (r *Registry) Register(reg Registration) {
	if reg.Name == "" {
		panic("registration without a qualified name")
	}
	if _, exists := r.qualified[reg.Name]; exists {
		panic(fmt.Sprintf("component type '%s' already registered", reg.Name))
	}
	if reg.Alias != "" {
		if _, exists := r.aliases[reg.Alias]; exists {
			panic(fmt.Sprintf("component alias '%s' already registered", reg.Alias))
		}
	}
	slog.Debug("Registering component type.", "name", reg.Name, "alias", reg.Alias, "capabilities", reg.Capabilities.String())

	entry := reg
	r.qualified[reg.Name] = &entry
	if reg.Alias != "" {
		r.aliases[reg.Alias] = &entry
	}
}

// Resolve finds the registration for a type name, qualified or aliased.
func (r *Registry) Resolve(typeName string) (*Registration, error) {
	var (
		reg *Registration
		ok  bool
	)
	if strings.HasPrefix(typeName, Namespace+".") {
		reg, ok = r.qualified[typeName]
	} else {
		reg, ok = r.aliases[typeName]
	}
	if !ok {
		return nil, fmt.Errorf("%w: '%s'", ErrUnknownType, typeName)
	}
	return reg, nil
}

// Registrations returns all registrations sorted by qualified name.
func (r *Registry) Registrations() []*Registration {
	out := make([]*Registration, 0, len(r.qualified))
	for _, reg := range r.qualified {
		out = append(out, reg)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
