package pipeline

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"slices"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/haukened/dnr-rulegen/internal/rulegen/common/clock"
	"github.com/haukened/dnr-rulegen/internal/rulegen/common/log"
	"github.com/haukened/dnr-rulegen/internal/rulegen/common/utils"
	"github.com/haukened/dnr-rulegen/internal/rulegen/domain"
	"github.com/haukened/dnr-rulegen/internal/rulegen/repos/parsers"
)

// DefaultParallelism bounds concurrent fetches when Options leaves it unset.
const DefaultParallelism = 4

// Options tunes a Runner.
type Options struct {
	Parallelism int
}

// Inputs are the sources of one run. Lists are fetched and parsed; Records
// are already decoded evidence.
type Inputs struct {
	Lists        []string
	Records      []domain.EvidenceRecord
	SchemaErrors int // evidence files the caller skipped while decoding
}

// Runner drives one generation run: fetch, parse, filter, dedup and,
// through Build, compile.
type Runner struct {
	fetcher     Fetcher
	policy      domain.FilterPolicy
	allow       Allowlist
	parallelism int
	clock       clock.Clock
	logger      log.Logger
	newRunID    func() string
}

// NewRunner wires a Runner. allow may be nil.
func NewRunner(fetcher Fetcher, policy domain.FilterPolicy, allow Allowlist, opts Options, clk clock.Clock, logger log.Logger) *Runner {
	if opts.Parallelism <= 0 {
		opts.Parallelism = DefaultParallelism
	}
	return &Runner{
		fetcher:     fetcher,
		policy:      policy,
		allow:       allow,
		parallelism: opts.Parallelism,
		clock:       clk,
		logger:      logger,
		newRunID:    uuid.NewString,
	}
}

type listResult struct {
	domains []domain.Domain
	stats   parsers.ParseStats
	err     error
}

// Run fetches every list concurrently, then merges lists in declaration order
// followed by evidence candidates. A failing source is counted and its error
// is aggregated into Report.FetchErr; the run itself only fails when ctx is
// cancelled.
func (r *Runner) Run(ctx context.Context, in Inputs) (*domain.DomainSet, domain.Report, error) {
	start := r.clock.Now()
	report := domain.Report{RunID: r.newRunID(), Sources: len(in.Lists)}
	logger := r.logger.With(map[string]any{"run_id": report.RunID})
	logger.Info(map[string]any{"sources": len(in.Lists), "records": len(in.Records), "parallelism": r.parallelism}, "run_start")

	results := r.fetchAll(ctx, in.Lists, logger)
	if err := ctx.Err(); err != nil {
		return nil, report, err
	}

	filter := NewFilter(r.policy, r.allow, logger)
	hint := 0
	for _, res := range results {
		hint += len(res.domains)
	}
	set := domain.NewDomainSet(hint)

	for i, res := range results {
		src := in.Lists[i]
		if res.err != nil {
			report.SourcesFailed++
			report.FetchErr = multierr.Append(report.FetchErr, fmt.Errorf("source %s: %w", src, res.err))
			logger.Warn(map[string]any{"source": src, "error": res.err.Error()}, "source_failed")
			continue
		}
		report.SourcesOK++
		report.Parsed += res.stats.Parsed
		report.Skipped.Merge(res.stats.Skipped)

		passed := 0
		_, dupes := set.Merge(counting(filter.Domains(slices.Values(res.domains)), &passed))
		report.Candidates += passed
		report.Duplicates += dupes
	}

	report.Records = len(in.Records)
	report.SchemaErrors = in.SchemaErrors
	passed := 0
	_, dupes := set.Merge(counting(CandidateDomains(filter.Records(in.Records)), &passed))
	report.Candidates += passed
	report.Duplicates += dupes

	report.FilteredOut = filter.Tally()
	report.Deduplicated = set.Len()
	report.Apexes = utils.CountApexDomains(set.Strings())
	report.Duration = r.clock.Now().Sub(start)

	summary := report.Fields()
	delete(summary, "run_id")
	logger.Info(summary, "run_summary")
	return set, report, nil
}

// Build runs and compiles. On a capacity error the report is still returned
// and the overflow is logged.
func (r *Runner) Build(ctx context.Context, in Inputs, maxRules int) (domain.RuleDocument, domain.Report, error) {
	set, report, err := r.Run(ctx, in)
	if err != nil {
		return nil, report, err
	}
	doc, err := Compile(set, maxRules)
	if err != nil {
		var capErr *domain.CapacityError
		if errors.As(err, &capErr) {
			r.logger.Error(map[string]any{
				"run_id":   report.RunID,
				"count":    capErr.Count,
				"max":      capErr.Max,
				"overflow": capErr.Overflow(),
			}, "capacity_exceeded")
		}
		return nil, report, err
	}
	report.Compiled = len(doc)
	return doc, report, nil
}

// fetchAll retrieves and parses every source with bounded parallelism. Each
// result lands in the slot of its source so merge order never depends on
// completion order.
func (r *Runner) fetchAll(ctx context.Context, sources []string, logger log.Logger) []listResult {
	results := make([]listResult, len(sources))
	var g errgroup.Group
	g.SetLimit(r.parallelism)
	for i, src := range sources {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i].err = err
				return nil
			}
			body, err := r.fetcher.Fetch(ctx, src)
			if err != nil {
				results[i].err = err
				return nil
			}
			domains, stats, err := parsers.ParseRaw(domain.RawList{Source: src, Body: body}, logger)
			if err != nil {
				results[i].err = fmt.Errorf("parse: %w", err)
				return nil
			}
			results[i] = listResult{domains: domains, stats: stats}
			logger.Debug(map[string]any{"source": src, "bytes": len(body), "parsed": stats.Parsed}, "source_fetched")
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// counting passes seq through, counting the values it yields into n.
func counting[T any](seq iter.Seq[T], n *int) iter.Seq[T] {
	return func(yield func(T) bool) {
		for v := range seq {
			*n++
			if !yield(v) {
				return
			}
		}
	}
}
