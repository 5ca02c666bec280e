// Package param describes searchable parameter spaces.
//
// A space is either a leaf, which turns one or more entries of a flat sample
// vector into a value, or a composite that nests other spaces. The search
// engine flattens a composite into its unique leaves, assigns every leaf its
// positions in the sample vector and then asks the root space for a value once
// per trial.
package param

// Space is the untyped view of a parameter space.
//
// Implementations must be pointer types: leaves are deduplicated by identity,
// so two distinct leaves holding equal values still count twice.
type Space interface {
	// NumParameters is the number of sample vector entries the space consumes.
	NumParameters() int

	// CollectLeaves returns every leaf reachable from the space, in a fixed
	// order. Leaves shared between sub-spaces appear once per occurrence.
	CollectLeaves() []Space

	// NestedSpaces returns the direct children of a composite space.
	NestedSpaces() []Space

	IsLeaf() bool

	// SetIndices binds a leaf to its positions in the sample vector.
	// Composites return an error wrapping ErrUnsupported.
	SetIndices(indices ...int) error
}

// ParameterSpace is a space that produces values of type T.
type ParameterSpace[T any] interface {
	Space

	// Value resolves the space against a sample vector. Every entry the space
	// reads must be in [0, 1].
	Value(values []float64) (T, error)
}

// Indexed is implemented by leaves that expose their assigned indices.
type Indexed interface {
	Indices() []int
}
