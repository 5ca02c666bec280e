package layer

import (
	"sort"

	"github.com/pkg/errors"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// maebe threads the first error through a chain of graph operations.
type maebe struct {
	err error
}

func (m *maebe) do(f func() (*G.Node, error)) (retVal *G.Node) {
	if m.err != nil {
		return nil
	}
	if retVal, m.err = f(); m.err != nil {
		m.err = errors.WithStack(m.err)
	}
	return
}

// reduce applies f along each dimension, highest first.
func (m *maebe) reduce(input *G.Node, dims []int, f func(*G.Node, ...int) (*G.Node, error)) *G.Node {
	desc := make([]int, len(dims))
	copy(desc, dims)
	sort.Sort(sort.Reverse(sort.IntSlice(desc)))

	retVal := input
	for _, d := range desc {
		retVal = m.do(func() (*G.Node, error) { return f(retVal, d) })
	}
	return retVal
}

func (m *maebe) constant(dt tensor.Dtype, v float64) *G.Node {
	if m.err != nil {
		return nil
	}
	var s interface{}
	if s, m.err = scalar(dt, v); m.err != nil {
		return nil
	}
	return G.NewConstant(s)
}

func (m *maebe) reshape(input *G.Node, to tensor.Shape) (retVal *G.Node) {
	if m.err != nil {
		return nil
	}
	if retVal, m.err = G.Reshape(input, to); m.err != nil {
		m.err = errors.WithStack(m.err)
	}
	return
}

// Node adds the pooling of x to x's expression graph and returns the pooled node.
func (l GlobalPooling) Node(x *G.Node) (*G.Node, error) {
	shape := x.Shape()
	dims, err := l.dimsFor(shape.Dims())
	if err != nil {
		return nil, err
	}
	out, err := l.OutputShape(shape)
	if err != nil {
		return nil, err
	}

	var m maebe
	var retVal *G.Node
	switch l.poolingType {
	case Sum:
		retVal = m.reduce(x, dims, G.Sum)
	case Max:
		retVal = m.reduce(x, dims, G.Max)
	case Avg:
		retVal = m.reduce(x, dims, G.Mean)
	case PNorm:
		p := m.constant(x.Dtype(), float64(l.pnorm))
		inv := m.constant(x.Dtype(), 1/float64(l.pnorm))
		abs := m.do(func() (*G.Node, error) { return G.Abs(x) })
		powed := m.do(func() (*G.Node, error) { return G.Pow(abs, p) })
		summed := m.reduce(powed, dims, G.Sum)
		retVal = m.do(func() (*G.Node, error) { return G.Pow(summed, inv) })
	default:
		return nil, errors.Wrapf(ErrUnsupportedPooling, "%v", l.poolingType)
	}
	if !l.collapseDimensions {
		retVal = m.reshape(retVal, tensor.Shape(out))
	}
	if m.err != nil {
		return nil, m.err
	}
	return retVal, nil
}
