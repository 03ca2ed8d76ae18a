package compiler

import (
	"fmt"
	"sort"
	"strings"
)

// stateSet is a set of NFA states identified by their declaration index.
type stateSet map[int]struct{}

func newStateSet() stateSet {
	return map[int]struct{}{}
}

func (s stateSet) add(q int) stateSet {
	s[q] = struct{}{}
	return s
}

func (s stateSet) merge(t stateSet) stateSet {
	for q := range t {
		s.add(q)
	}
	return s
}

// hash is a canonical key; equal sets have equal hashes.
func (s stateSet) hash() string {
	if len(s) <= 0 {
		return ""
	}
	sorted := s.sort()
	var b strings.Builder
	fmt.Fprintf(&b, "%v", sorted[0])
	for _, q := range sorted[1:] {
		fmt.Fprintf(&b, ":%v", q)
	}
	return b.String()
}

func (s stateSet) sort() []int {
	sorted := make([]int, 0, len(s))
	for q := range s {
		sorted = append(sorted, q)
	}
	sort.Ints(sorted)
	return sorted
}
