package param

import (
	"fmt"
	"strconv"

	"github.com/awalterschulze/gographviz"
	"github.com/pkg/errors"
)

// ToDot renders the space tree in Graphviz dot format. A leaf shared between
// several sub-spaces is drawn once, with one incoming edge per parent.
func ToDot(s Space) (string, error) {
	g := gographviz.NewGraph()
	if err := g.SetName("G"); err != nil {
		return "", errors.WithStack(err)
	}
	if err := g.SetDir(true); err != nil {
		return "", errors.WithStack(err)
	}

	ids := make(map[Space]string)
	var walk func(s Space) (string, error)
	walk = func(s Space) (string, error) {
		if id, ok := ids[s]; ok {
			return id, nil
		}
		id := fmt.Sprintf("n%d", len(ids))
		ids[s] = id

		attrs := map[string]string{
			"label": strconv.Quote(label(s)),
			"shape": "box",
		}
		if s.IsLeaf() {
			attrs["shape"] = "ellipse"
		}
		if err := g.AddNode("G", id, attrs); err != nil {
			return "", errors.WithStack(err)
		}
		for _, kid := range s.NestedSpaces() {
			kidID, err := walk(kid)
			if err != nil {
				return "", err
			}
			if err := g.AddEdge(id, kidID, true, nil); err != nil {
				return "", errors.WithStack(err)
			}
		}
		return id, nil
	}
	if _, err := walk(s); err != nil {
		return "", err
	}
	return g.String(), nil
}

func label(s Space) string {
	var name string
	if st, ok := s.(fmt.Stringer); ok {
		name = st.String()
	} else {
		name = fmt.Sprintf("%T", s)
	}
	if ix, ok := s.(Indexed); ok {
		if indices := ix.Indices(); len(indices) > 0 {
			name = fmt.Sprintf("%s %v", name, indices)
		}
	}
	return name
}
