package layer

import (
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
)

// gorgonia.org/tensor depends on go4.org/unsafe/assume-no-moving-gc. Versions
// before the minimum below panic at init on newer Go runtimes, taking every
// binary that links this package down with them.
const minNoMovingGC = "v0.0.0-20231121144256-b99613f794b6"

func TestNoMovingGCVersion(t *testing.T) {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		t.Skip("no build info")
	}
	for _, dep := range info.Deps {
		if dep.Path != "go4.org/unsafe/assume-no-moving-gc" {
			continue
		}
		if dep.Replace != nil {
			dep = dep.Replace
		}
		assert.GreaterOrEqual(t, dep.Version, minNoMovingGC)
		return
	}
	t.Skip("assume-no-moving-gc is not linked")
}
