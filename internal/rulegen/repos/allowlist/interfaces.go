package allowlist

// BloomSizer computes Bloom filter parameters from capacity (n) and target FP rate (p).
// It returns m (number of bits) and k (number of hash functions).
type BloomSizer interface {
	Size(n uint64, p float64) (m uint64, k uint8)
}

// BloomFilter is the minimal interface the index needs from a Bloom filter.
type BloomFilter interface {
	Add(key []byte)
	MightContain(key []byte) bool
}

// BloomFactory builds filters sized for a capacity and false-positive rate.
type BloomFactory interface {
	New(capacity uint64, fpRate float64) BloomFilter
}

// IndexStats exposes lookup counters.
type IndexStats struct {
	Size           int    // whitelisted domains
	Lookups        uint64 // Contains calls
	BloomNegatives uint64 // lookups answered by the bloom filter alone
	ExactHits      uint64 // lookups confirmed by the exact set
}
