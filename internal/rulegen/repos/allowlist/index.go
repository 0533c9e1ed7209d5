package allowlist

import (
	"sync/atomic"

	"github.com/haukened/dnr-rulegen/internal/rulegen/domain"
)

// Index answers whitelist membership. It applies a bloom → exact set pipeline:
// a definite bloom negative returns early, anything else is confirmed against
// the exact set. An Index is immutable after construction and safe for
// concurrent readers.
type Index struct {
	exact map[domain.Domain]struct{}
	bloom BloomFilter

	lookups        atomic.Uint64
	bloomNegatives atomic.Uint64
	exactHits      atomic.Uint64
}

// New builds an Index over domains. factory may be nil, in which case every
// lookup goes straight to the exact set.
func New(domains []domain.Domain, factory BloomFactory, fpRate float64) *Index {
	idx := &Index{exact: make(map[domain.Domain]struct{}, len(domains))}
	for _, d := range domains {
		idx.exact[d] = struct{}{}
	}
	if factory != nil {
		bf := factory.New(uint64(len(idx.exact)), fpRate)
		for d := range idx.exact {
			bf.Add([]byte(d))
		}
		idx.bloom = bf
	}
	return idx
}

// FromPolicy builds an Index over the policy's whitelisted domains.
func FromPolicy(p domain.FilterPolicy, factory BloomFactory, fpRate float64) *Index {
	return New(p.WhitelistedDomains(), factory, fpRate)
}

// Contains reports whether d is whitelisted.
func (i *Index) Contains(d domain.Domain) bool {
	i.lookups.Add(1)
	if i.bloom != nil && !i.bloom.MightContain([]byte(d)) {
		i.bloomNegatives.Add(1)
		return false
	}
	if _, ok := i.exact[d]; ok {
		i.exactHits.Add(1)
		return true
	}
	return false
}

// Len returns the number of whitelisted domains.
func (i *Index) Len() int { return len(i.exact) }

// Stats returns a snapshot of the lookup counters.
func (i *Index) Stats() IndexStats {
	return IndexStats{
		Size:           len(i.exact),
		Lookups:        i.lookups.Load(),
		BloomNegatives: i.bloomNegatives.Load(),
		ExactHits:      i.exactHits.Load(),
	}
}
