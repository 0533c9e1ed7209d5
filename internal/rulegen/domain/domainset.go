package domain

import (
	"iter"
	"strings"
)

// DomainSet is an ordered collection of unique Domains. Insertion order is
// first-seen order; a second Add of an equal domain is a no-op.
type DomainSet struct {
	seen  map[string]struct{}
	order []Domain
}

// NewDomainSet returns an empty set with room for sizeHint entries.
func NewDomainSet(sizeHint int) *DomainSet {
	if sizeHint < 0 {
		sizeHint = 0
	}
	return &DomainSet{
		seen:  make(map[string]struct{}, sizeHint),
		order: make([]Domain, 0, sizeHint),
	}
}

// Add appends d unless an equal domain is already present. It returns true when d was added.
func (s *DomainSet) Add(d Domain) bool {
	key := strings.ToLower(string(d))
	if _, ok := s.seen[key]; ok {
		return false
	}
	s.seen[key] = struct{}{}
	s.order = append(s.order, d)
	return true
}

// Merge adds every domain of seq in order and reports how many were added
// and how many were already present.
func (s *DomainSet) Merge(seq iter.Seq[Domain]) (added, duplicates int) {
	for d := range seq {
		if s.Add(d) {
			added++
		} else {
			duplicates++
		}
	}
	return added, duplicates
}

// Contains reports whether an equal domain is present.
func (s *DomainSet) Contains(d Domain) bool {
	_, ok := s.seen[strings.ToLower(string(d))]
	return ok
}

// Len returns the number of domains.
func (s *DomainSet) Len() int { return len(s.order) }

// Domains returns a copy of the domains in insertion order.
func (s *DomainSet) Domains() []Domain {
	out := make([]Domain, len(s.order))
	copy(out, s.order)
	return out
}

// All iterates the domains in insertion order.
func (s *DomainSet) All() iter.Seq[Domain] {
	return func(yield func(Domain) bool) {
		for _, d := range s.order {
			if !yield(d) {
				return
			}
		}
	}
}

// Strings returns the domains as plain strings in insertion order.
func (s *DomainSet) Strings() []string {
	out := make([]string, len(s.order))
	for i, d := range s.order {
		out[i] = string(d)
	}
	return out
}
