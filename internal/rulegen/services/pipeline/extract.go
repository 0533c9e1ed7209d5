package pipeline

import (
	"iter"

	"github.com/haukened/dnr-rulegen/internal/rulegen/common/log"
	"github.com/haukened/dnr-rulegen/internal/rulegen/domain"
)

// Candidate is a domain proposed for blocking together with the number of
// resources that justified it.
type Candidate struct {
	Domain   domain.Domain
	Evidence int
}

// Extractor turns evidence records into candidates under a FilterPolicy.
type Extractor struct {
	policy domain.FilterPolicy
	allow  Allowlist
	tally  *domain.Tally
	logger log.Logger
}

// NewExtractor returns an Extractor. allow may be nil, in which case the
// policy's whitelist map is consulted. Skips are counted into tally.
func NewExtractor(policy domain.FilterPolicy, allow Allowlist, tally *domain.Tally, logger log.Logger) *Extractor {
	if allow == nil {
		allow = policyAllowlist{domains: policy.WhitelistDomains}
	}
	if tally == nil {
		tally = new(domain.Tally)
	}
	return &Extractor{policy: policy, allow: allow, tally: tally, logger: logger}
}

// Extract lazily yields the candidates one record produces.
//
// Rules, in order:
//  1. a whitelisted domain yields nothing
//  2. a record in a whitelisted category yields nothing
//  3. a record without subdomains yields its domain when it has at least
//     MinResources resources
//  4. otherwise each non-whitelisted subdomain label with at least
//     MinResourcesPerSubdomain resources naming it yields label.domain
//
// The bare domain is never yielded for a record that declares subdomains.
func (e *Extractor) Extract(rec domain.EvidenceRecord) iter.Seq[Candidate] {
	return func(yield func(Candidate) bool) {
		if e.allow.Contains(rec.Domain) {
			e.skip(domain.SkipWhitelistedDomain, rec.Domain, "")
			return
		}
		if e.policy.CategoryWhitelisted(rec.Categories) {
			e.skip(domain.SkipWhitelistedCategory, rec.Domain, "")
			return
		}

		if len(rec.Subdomains) == 0 {
			if len(rec.Resources) < e.policy.MinResources {
				e.skip(domain.SkipMinResources, rec.Domain, "")
				return
			}
			yield(Candidate{Domain: rec.Domain, Evidence: len(rec.Resources)})
			return
		}

		for _, label := range rec.Subdomains {
			if e.policy.SubdomainWhitelisted(label) {
				e.skip(domain.SkipWhitelistedSubdomain, rec.Domain, label)
				continue
			}
			n := rec.ResourcesFor(label)
			if n < e.policy.MinResourcesPerSubdomain {
				e.skip(domain.SkipMinPerSubdomain, rec.Domain, label)
				continue
			}
			d, err := rec.Domain.Sub(label)
			if err != nil {
				e.skip(domain.SkipInvalidDomain, rec.Domain, label)
				continue
			}
			if !yield(Candidate{Domain: d, Evidence: n}) {
				return
			}
		}
	}
}

func (e *Extractor) skip(reason domain.SkipReason, d domain.Domain, label string) {
	e.tally.Add(reason)
	fields := map[string]any{"domain": d.String(), "reason": string(reason)}
	if label != "" {
		fields["subdomain"] = label
	}
	e.logger.Debug(fields, "candidate_filtered")
}
