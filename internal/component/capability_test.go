package component

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCapability(t *testing.T) {
	t.Parallel()

	caps := CapComponent | CapModel | CapLoss
	assert.True(t, caps.Has(CapComponent))
	assert.True(t, caps.Has(CapModel|CapLoss))
	assert.False(t, caps.Has(CapProblem))
	assert.False(t, caps.Has(CapModel|CapProblem))

	assert.Equal(t, "Component|Model|Loss", caps.String())
	assert.Equal(t, "Component|Problem", (CapComponent | CapProblem).String())
	assert.Equal(t, "none", Capability(0).String())
}
