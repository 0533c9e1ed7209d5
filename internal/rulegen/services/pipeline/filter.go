package pipeline

import (
	"iter"

	"github.com/haukened/dnr-rulegen/internal/rulegen/common/log"
	"github.com/haukened/dnr-rulegen/internal/rulegen/domain"
)

// Filter applies a FilterPolicy to both kinds of candidate input and counts
// what it removes. Inputs are never mutated. A Filter is not safe for
// concurrent use; the runner owns one per run.
type Filter struct {
	ext    *Extractor
	allow  Allowlist
	tally  domain.Tally
	logger log.Logger
}

// NewFilter returns a Filter for one run. allow may be nil.
func NewFilter(policy domain.FilterPolicy, allow Allowlist, logger log.Logger) *Filter {
	f := &Filter{logger: logger}
	f.ext = NewExtractor(policy, allow, &f.tally, logger)
	f.allow = f.ext.allow
	return f
}

// Domains drops whitelisted domains from parser output. Evidence thresholds
// do not apply to list domains.
func (f *Filter) Domains(seq iter.Seq[domain.Domain]) iter.Seq[domain.Domain] {
	return func(yield func(domain.Domain) bool) {
		for d := range seq {
			if f.allow.Contains(d) {
				f.tally.Add(domain.SkipWhitelistedDomain)
				f.logger.Debug(map[string]any{"domain": d.String(), "reason": string(domain.SkipWhitelistedDomain)}, "candidate_filtered")
				continue
			}
			if !yield(d) {
				return
			}
		}
	}
}

// Records yields every candidate of recs in record order.
func (f *Filter) Records(recs []domain.EvidenceRecord) iter.Seq[Candidate] {
	return func(yield func(Candidate) bool) {
		for _, rec := range recs {
			for c := range f.ext.Extract(rec) {
				if !yield(c) {
					return
				}
			}
		}
	}
}

// Tally returns the removal counts accumulated so far.
func (f *Filter) Tally() domain.Tally { return f.tally }

// CandidateDomains projects candidates onto their domains.
func CandidateDomains(seq iter.Seq[Candidate]) iter.Seq[domain.Domain] {
	return func(yield func(domain.Domain) bool) {
		for c := range seq {
			if !yield(c.Domain) {
				return
			}
		}
	}
}
