package param

import "github.com/pkg/errors"

// CountUnique counts leaves by identity.
func CountUnique(leaves []Space) int {
	seen := make(map[Space]struct{}, len(leaves))
	for _, l := range leaves {
		seen[l] = struct{}{}
	}
	return len(seen)
}

// UniqueLeaves returns the leaves of s deduplicated by identity, keeping the
// order of first occurrence.
func UniqueLeaves(s Space) []Space {
	leaves := s.CollectLeaves()
	seen := make(map[Space]struct{}, len(leaves))
	retVal := make([]Space, 0, len(leaves))
	for _, l := range leaves {
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		retVal = append(retVal, l)
	}
	return retVal
}

// AssignIndices hands out consecutive sample vector positions to the unique
// leaves of s and returns the length of the vector they span.
//
// This is the flattening the command line tool uses. A search engine is free
// to assign indices in its own way.
func AssignIndices(s Space) (int, error) {
	var n int
	for _, l := range UniqueLeaves(s) {
		k := l.NumParameters()
		indices := make([]int, k)
		for i := range indices {
			indices[i] = n + i
		}
		if err := l.SetIndices(indices...); err != nil {
			return 0, errors.Wrapf(err, "assign indices to %v", l)
		}
		n += k
	}
	return n, nil
}
