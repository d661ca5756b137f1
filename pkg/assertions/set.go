/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: set.go
Description: Append-only, insertion-ordered assertion set.
*/

package assertions

// Set holds assertions in insertion order. It is not safe for concurrent use;
// parallel descriptions each own a Set and merge them afterwards.
type Set struct {
	items []Assertion
	index map[string]struct{}
}

// NewSet creates an empty set
func NewSet() *Set {
	return &Set{index: make(map[string]struct{})}
}

// Add appends a unless it is already present. Reports whether it was added.
func (s *Set) Add(a Assertion) bool {
	key := a.Key()
	if _, ok := s.index[key]; ok {
		return false
	}
	s.index[key] = struct{}{}
	s.items = append(s.items, a)
	return true
}

// Contains reports whether a is in the set
func (s *Set) Contains(a Assertion) bool {
	_, ok := s.index[a.Key()]
	return ok
}

// Len returns the number of assertions
func (s *Set) Len() int {
	return len(s.items)
}

// All returns the assertions in insertion order. The slice must not be modified.
func (s *Set) All() []Assertion {
	return s.items
}

// Merge appends every assertion of other not already present
func (s *Set) Merge(other *Set) {
	for _, a := range other.items {
		s.Add(a)
	}
}

// CountByKind returns how many assertions of each kind the set holds
func (s *Set) CountByKind() map[Kind]int {
	counts := make(map[Kind]int)
	for _, a := range s.items {
		counts[a.Kind]++
	}
	return counts
}

// Filter returns the assertions of the given kind in insertion order
func (s *Set) Filter(kind Kind) []Assertion {
	var out []Assertion
	for _, a := range s.items {
		if a.Kind == kind {
			out = append(out, a)
		}
	}
	return out
}
