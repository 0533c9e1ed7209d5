package pipeline

import (
	"context"

	"github.com/haukened/dnr-rulegen/internal/rulegen/domain"
)

// Fetcher retrieves the raw bytes of one list source.
type Fetcher interface {
	Fetch(ctx context.Context, source string) ([]byte, error)
}

// Allowlist answers whitelist membership for a domain.
type Allowlist interface {
	Contains(d domain.Domain) bool
}

// policyAllowlist answers from the policy's whitelist map directly. Used when
// no Allowlist is supplied.
type policyAllowlist struct {
	domains map[domain.Domain]struct{}
}

func (p policyAllowlist) Contains(d domain.Domain) bool {
	_, ok := p.domains[d]
	return ok
}
