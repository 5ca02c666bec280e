package param

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pair is a minimal composite used to exercise the helpers.
type pair struct {
	a, b Space
}

func (p *pair) NumParameters() int { return CountUnique(p.CollectLeaves()) }
func (p *pair) CollectLeaves() []Space {
	return append(p.a.CollectLeaves(), p.b.CollectLeaves()...)
}
func (p *pair) NestedSpaces() []Space { return []Space{p.a, p.b} }
func (p *pair) IsLeaf() bool          { return false }
func (p *pair) SetIndices(_ ...int) error {
	return errors.WithStack(ErrUnsupported)
}

func TestCountUniqueByIdentity(t *testing.T) {
	shared := NewInteger(1, 3)
	twin := NewInteger(1, 3) // equal by value, distinct by identity
	p := &pair{a: &pair{a: shared, b: twin}, b: shared}

	leaves := p.CollectLeaves()
	assert.Len(t, leaves, 3)
	assert.Equal(t, 2, CountUnique(leaves))
	assert.Equal(t, []Space{shared, twin}, UniqueLeaves(p))
}

func TestAssignIndices(t *testing.T) {
	fixed := NewFixed(true)
	shared := NewContinuous(0, 1)
	b := NewBoolean()
	p := &pair{a: &pair{a: fixed, b: shared}, b: &pair{a: b, b: shared}}

	n, err := AssignIndices(p)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []int{0}, shared.Indices())
	assert.Equal(t, []int{1}, b.Indices())
	assert.Nil(t, fixed.Indices())
}

func TestAssignIndicesOnLeaf(t *testing.T) {
	s := NewInteger(0, 5)
	n, err := AssignIndices(s)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, []int{0}, s.Indices())
}

func TestToDot(t *testing.T) {
	shared := NewBoolean()
	p := &pair{a: shared, b: &pair{a: NewFixed(2), b: shared}}
	_, err := AssignIndices(p)
	require.NoError(t, err)

	dot, err := ToDot(p)
	require.NoError(t, err)
	assert.Contains(t, dot, "digraph G")
	assert.Contains(t, dot, `"boolean [0]"`)
	assert.Contains(t, dot, `"fixed(2)"`)
	// three distinct nodes below the root, shared leaf drawn once
	assert.Contains(t, dot, "n3")
	assert.NotContains(t, dot, "n4")
}
