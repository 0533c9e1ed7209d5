package pipeline

import (
	"slices"

	"github.com/haukened/dnr-rulegen/internal/rulegen/domain"
)

// Dedup merges sources in argument order, keeping the first occurrence of
// each domain.
func Dedup(sources ...[]domain.Domain) *domain.DomainSet {
	n := 0
	for _, s := range sources {
		n += len(s)
	}
	set := domain.NewDomainSet(n)
	for _, s := range sources {
		set.Merge(slices.Values(s))
	}
	return set
}
