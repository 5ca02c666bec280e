package param

// Boolean resolves to true for samples at or below 0.5.
type Boolean struct {
	leaf
}

func NewBoolean() *Boolean { return &Boolean{} }

func (s *Boolean) Value(values []float64) (bool, error) {
	p, err := s.sample(values)
	if err != nil {
		return false, err
	}
	return p <= 0.5, nil
}

func (s *Boolean) CollectLeaves() []Space { return []Space{s} }

func (s *Boolean) String() string { return "boolean" }
