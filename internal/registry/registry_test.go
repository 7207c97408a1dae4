package registry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/specialistvlad/pipegrid/internal/component"
	"github.com/specialistvlad/pipegrid/internal/config"
	"github.com/specialistvlad/pipegrid/internal/registry"
	"github.com/specialistvlad/pipegrid/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func typed(name string) config.Params {
	return config.Params{registry.TypeParam: cty.StringVal(name)}
}

func TestResolve_TwoTiers(t *testing.T) {
	t.Parallel()
	reg := testutil.NewRegistry(testutil.FakeType{Alias: "Encoder", Capabilities: component.CapComponent})

	byAlias, err := reg.Resolve("Encoder")
	require.NoError(t, err)
	byName, err := reg.Resolve("pipegrid.fake.Encoder")
	require.NoError(t, err)
	assert.Same(t, byAlias, byName)
	assert.Equal(t, "Encoder", byName.TypeName())

	// A qualified name is never looked up among aliases and vice versa.
	_, err = reg.Resolve("pipegrid.Encoder")
	require.ErrorIs(t, err, registry.ErrUnknownType)
	_, err = reg.Resolve("fake.Encoder")
	require.ErrorIs(t, err, registry.ErrUnknownType)
}

func TestRegister_DuplicatesPanic(t *testing.T) {
	t.Parallel()
	reg := testutil.NewRegistry(testutil.FakeType{Alias: "A", Capabilities: component.CapComponent})

	assert.Panics(t, func() {
		reg.Register(testutil.FakeType{Alias: "A", Capabilities: component.CapComponent}.Registration())
	})
	assert.Panics(t, func() {
		reg.Register(registry.Registration{Name: "pipegrid.other.A", Alias: "A"})
	})
	assert.Panics(t, func() {
		reg.Register(registry.Registration{Alias: "NoName"})
	})
}

func TestCreate(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	reg := testutil.NewRegistry(
		testutil.FakeType{Alias: "Stage", Capabilities: component.CapComponent},
		testutil.FakeType{Alias: "Helper", Capabilities: 0},
		testutil.FakeType{Alias: "Broken", Capabilities: component.CapComponent, NewErr: boom},
		testutil.FakeType{Alias: "Liar", Capabilities: component.CapComponent | component.CapModel, Plain: true},
		testutil.FakeType{Alias: "Dataset", Capabilities: component.CapComponent | component.CapProblem},
	)
	ctx, _ := testutil.LogContext()

	t.Run("alias", func(t *testing.T) {
		comp, r, err := reg.Create(ctx, "stage", typed("Stage"))
		require.NoError(t, err)
		assert.Equal(t, "stage", comp.Name())
		assert.Equal(t, "pipegrid.fake.Stage", r.Name)
	})

	t.Run("qualified name", func(t *testing.T) {
		comp, _, err := reg.Create(ctx, "stage", typed("pipegrid.fake.Stage"))
		require.NoError(t, err)
		assert.Equal(t, "stage", comp.Name())
	})

	t.Run("problem", func(t *testing.T) {
		comp, r, err := reg.Create(ctx, "data", typed("Dataset"))
		require.NoError(t, err)
		assert.True(t, r.Capabilities.Has(component.CapProblem))
		_, ok := comp.(component.Problem)
		assert.True(t, ok)
	})

	configErrors := []struct {
		name   string
		params config.Params
		target error
		substr string
	}{
		{name: "missing type", params: config.Params{}, substr: "does not contain the key 'type'"},
		{name: "null type", params: config.Params{registry.TypeParam: cty.NullVal(cty.String)}, substr: "does not contain the key 'type'"},
		{name: "unknown type", params: typed("Nope"), target: registry.ErrUnknownType},
		{name: "abstract type", params: typed("Model"), target: registry.ErrAbstractType},
		{name: "abstract qualified type", params: typed("pipegrid.component.Component"), target: registry.ErrAbstractType},
		{name: "not a component", params: typed("Helper"), target: registry.ErrNotComponent},
		{name: "type is not a string", params: config.Params{registry.TypeParam: cty.ListValEmpty(cty.String)}, substr: "parameter \"type\""},
	}
	for _, tc := range configErrors {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := reg.Create(ctx, "section", tc.params)
			require.Error(t, err)
			assert.True(t, config.IsConfigurationError(err), "expected a configuration error, got %v", err)
			if tc.target != nil {
				assert.ErrorIs(t, err, tc.target)
			}
			if tc.substr != "" {
				assert.Contains(t, err.Error(), tc.substr)
			}
			assert.Contains(t, err.Error(), "section 'section'")
		})
	}

	t.Run("constructor failure propagates", func(t *testing.T) {
		_, _, err := reg.Create(ctx, "broken", typed("Broken"))
		require.ErrorIs(t, err, boom)
		assert.False(t, config.IsConfigurationError(err))
		var cerr *registry.ConstructionError
		require.ErrorAs(t, err, &cerr)
		assert.Equal(t, "broken", cerr.Section)
	})

	t.Run("capability mismatch", func(t *testing.T) {
		_, _, err := reg.Create(ctx, "liar", typed("Liar"))
		require.ErrorIs(t, err, registry.ErrCapabilityMismatch)
		assert.False(t, config.IsConfigurationError(err))
	})
}

func TestValidate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("consistent registry", func(t *testing.T) {
		t.Parallel()
		reg := testutil.NewRegistry(
			testutil.FakeType{Alias: "A", Capabilities: component.CapComponent | component.CapModel | component.CapLoss},
			testutil.FakeType{Alias: "Helper"},
		)
		require.NoError(t, reg.Validate(ctx))
	})

	t.Run("inconsistent registrations", func(t *testing.T) {
		t.Parallel()
		reg := registry.New()
		reg.Register(registry.Registration{Name: "outside.Thing", Capabilities: component.CapComponent})
		reg.Register(registry.Registration{Name: "pipegrid.x.Shadow", Alias: "pipegrid.Shadow", Capabilities: component.CapComponent})
		reg.Register(registry.Registration{Name: "pipegrid.x.Orphan", Capabilities: component.CapModel})
		reg.Register(registry.Registration{Name: "pipegrid.x.Both", Capabilities: component.CapComponent | component.CapProblem | component.CapLoss})

		err := reg.Validate(ctx)
		require.Error(t, err)
		msg := err.Error()
		assert.Contains(t, msg, "type 'outside.Thing': qualified name must start with 'pipegrid.'")
		assert.Contains(t, msg, "alias 'pipegrid.Shadow' is shadowed")
		assert.Contains(t, msg, "type 'pipegrid.x.Orphan': capabilities Model require Component")
		assert.Contains(t, msg, "type 'pipegrid.x.Both': a Problem cannot also be a Model or Loss")
	})
}

func TestRegistrations_Sorted(t *testing.T) {
	t.Parallel()
	reg := testutil.NewRegistry(testutil.FakeType{Alias: "Z"}, testutil.FakeType{Alias: "B"})

	var names []string
	for _, r := range reg.Registrations() {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{
		"pipegrid.component.Component",
		"pipegrid.component.Loss",
		"pipegrid.component.Model",
		"pipegrid.component.Problem",
		"pipegrid.fake.B",
		"pipegrid.fake.Z",
	}, names)
}
