// Package bloom backs the whitelist index prefilter with bits-and-blooms.
package bloom

import (
	bitsbloom "github.com/bits-and-blooms/bloom/v3"

	"github.com/haukened/dnr-rulegen/internal/rulegen/repos/allowlist"
)

// filter adapts a bits-and-blooms filter to allowlist.BloomFilter. The index
// fills it before publishing itself and only reads it afterwards, so no lock
// is taken.
type filter struct {
	bf *bitsbloom.BloomFilter
}

func (f filter) Add(key []byte) { f.bf.Add(key) }

func (f filter) MightContain(key []byte) bool { return f.bf.Test(key) }

type factory struct {
	sizer allowlist.BloomSizer
}

// NewFactory returns a BloomFactory whose filters are dimensioned by NewSizer.
func NewFactory() allowlist.BloomFactory { return factory{sizer: NewSizer()} }

func (f factory) New(capacity uint64, fpRate float64) allowlist.BloomFilter {
	m, k := f.sizer.Size(capacity, fpRate)
	return filter{bf: bitsbloom.New(uint(m), uint(k))}
}
