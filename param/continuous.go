package param

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// Quantiler is an inverse cumulative distribution function.
// distuv.Uniform, distuv.Normal and distuv.LogNormal satisfy it.
type Quantiler interface {
	Quantile(p float64) float64
}

// Continuous maps a sample in [0, 1] through the quantile function of a
// distribution.
type Continuous struct {
	leaf
	dist Quantiler
}

// NewContinuous returns a space uniform over [min, max]. It panics if min > max.
func NewContinuous(min, max float64) *Continuous {
	if math.IsNaN(min) || math.IsNaN(max) || min > max {
		panic(fmt.Sprintf("param: invalid continuous range [%v, %v]", min, max))
	}
	return &Continuous{dist: distuv.Uniform{Min: min, Max: max}}
}

// NewContinuousDist returns a space drawing from dist. Only distuv.Uniform,
// distuv.Normal and distuv.LogNormal can be serialised.
func NewContinuousDist(dist Quantiler) *Continuous {
	if dist == nil {
		panic("param: nil distribution")
	}
	return &Continuous{dist: dist}
}

func (c *Continuous) Value(values []float64) (float64, error) {
	p, err := c.sample(values)
	if err != nil {
		return 0, err
	}
	return c.dist.Quantile(p), nil
}

func (c *Continuous) CollectLeaves() []Space { return []Space{c} }

// Distribution returns the underlying distribution.
func (c *Continuous) Distribution() Quantiler { return c.dist }

func (c *Continuous) String() string {
	switch d := c.dist.(type) {
	case distuv.Uniform:
		return fmt.Sprintf("continuous(uniform[%v, %v])", d.Min, d.Max)
	case distuv.Normal:
		return fmt.Sprintf("continuous(normal(%v, %v))", d.Mu, d.Sigma)
	case distuv.LogNormal:
		return fmt.Sprintf("continuous(lognormal(%v, %v))", d.Mu, d.Sigma)
	}
	return fmt.Sprintf("continuous(%T)", c.dist)
}
