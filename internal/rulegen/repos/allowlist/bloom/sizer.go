package bloom

import (
	"math"

	"github.com/haukened/dnr-rulegen/internal/rulegen/repos/allowlist"
)

// DefaultFPRate is used when the configured rate is outside (0, 1).
const DefaultFPRate = 0.01

// maxHashes bounds k for absurdly small rates.
const maxHashes = 64

type sizer struct {
	fallback float64
}

// NewSizer returns a BloomSizer falling back to DefaultFPRate.
func NewSizer() allowlist.BloomSizer { return sizer{fallback: DefaultFPRate} }

// Size dimensions a filter for n whitelisted domains at false-positive rate p:
//
//	m = ceil(-n ln p / (ln 2)^2)
//	k = round(m/n ln 2), within [1, 64]
//
// An empty whitelist is sized as a single entry.
func (s sizer) Size(n uint64, p float64) (uint64, uint8) {
	if n == 0 {
		n = 1
	}
	if math.IsNaN(p) || p <= 0 || p >= 1 {
		p = s.fallback
	}
	bitsPerKey := -math.Log(p) / (math.Ln2 * math.Ln2)
	m := uint64(math.Ceil(float64(n) * bitsPerKey))
	if m == 0 {
		m = 1
	}
	k := math.Round(float64(m) / float64(n) * math.Ln2)
	k = math.Min(math.Max(k, 1), maxHashes)
	return m, uint8(k)
}
