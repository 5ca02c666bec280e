package layer

import (
	"sort"

	"github.com/pkg/errors"
	"gorgonia.org/tensor"
)

type reduceFn func(t *tensor.Dense, along ...int) (*tensor.Dense, error)

// Apply pools x eagerly. x must hold float64 or float32 values.
//
// PNORM computes (Σ|x|^p)^(1/p) over the pooled dimensions.
func (l GlobalPooling) Apply(x *tensor.Dense) (retVal *tensor.Dense, err error) {
	shape := x.Shape()
	var dims, out []int
	if dims, err = l.dimsFor(shape.Dims()); err != nil {
		return nil, err
	}
	if out, err = l.OutputShape(shape); err != nil {
		return nil, err
	}

	switch l.poolingType {
	case Sum:
		retVal, err = reduce(x, dims, (*tensor.Dense).Sum)
	case Max:
		retVal, err = reduce(x, dims, (*tensor.Dense).Max)
	case Avg:
		retVal, err = l.avg(x, dims)
	case PNorm:
		retVal, err = l.norm(x, dims)
	default:
		return nil, errors.Wrapf(ErrUnsupportedPooling, "%v", l.poolingType)
	}
	if err != nil {
		return nil, err
	}

	if err = retVal.Reshape(out...); err != nil {
		return nil, errors.Wrapf(err, "reshape pooled output to %v", out)
	}
	return retVal, nil
}

func (l GlobalPooling) avg(x *tensor.Dense, dims []int) (*tensor.Dense, error) {
	summed, err := reduce(x, dims, (*tensor.Dense).Sum)
	if err != nil {
		return nil, err
	}
	count := 1
	for _, d := range dims {
		count *= x.Shape()[d]
	}
	n, err := scalar(x.Dtype(), float64(count))
	if err != nil {
		return nil, err
	}
	return asDense(tensor.Div(summed, n))
}

func (l GlobalPooling) norm(x *tensor.Dense, dims []int) (*tensor.Dense, error) {
	p, err := scalar(x.Dtype(), float64(l.pnorm))
	if err != nil {
		return nil, err
	}
	inv, err := scalar(x.Dtype(), 1/float64(l.pnorm))
	if err != nil {
		return nil, err
	}

	abs, err := asDense(tensor.Abs(x))
	if err != nil {
		return nil, err
	}
	powed, err := asDense(tensor.Pow(abs, p))
	if err != nil {
		return nil, err
	}
	summed, err := reduce(powed, dims, (*tensor.Dense).Sum)
	if err != nil {
		return nil, err
	}
	return asDense(tensor.Pow(summed, inv))
}

// reduce applies f one dimension at a time, highest first, so that the
// remaining dimension numbers stay valid.
func reduce(x *tensor.Dense, dims []int, f reduceFn) (retVal *tensor.Dense, err error) {
	desc := make([]int, len(dims))
	copy(desc, dims)
	sort.Sort(sort.Reverse(sort.IntSlice(desc)))

	retVal = x
	for _, d := range desc {
		if retVal, err = f(retVal, d); err != nil {
			return nil, errors.Wrapf(err, "reduce along %d", d)
		}
	}
	return retVal, nil
}

func scalar(dt tensor.Dtype, v float64) (interface{}, error) {
	switch dt {
	case tensor.Float64:
		return v, nil
	case tensor.Float32:
		return float32(v), nil
	}
	return nil, errors.Errorf("global pooling needs a float32 or float64 input, got %v", dt)
}

func asDense(t tensor.Tensor, err error) (*tensor.Dense, error) {
	if err != nil {
		return nil, errors.WithStack(err)
	}
	d, ok := t.(*tensor.Dense)
	if !ok {
		return nil, errors.Errorf("expected *tensor.Dense, got %T", t)
	}
	return d, nil
}
