package domain

import (
	"sort"
	"time"
)

// SkipReason tags why a line, record or candidate did not survive a stage.
type SkipReason string

const (
	// parse stage
	SkipBlank         SkipReason = "blank"
	SkipComment       SkipReason = "comment"
	SkipUnrecognized  SkipReason = "unrecognized"
	SkipNoHostname    SkipReason = "no_hostname"
	SkipInvalidDomain SkipReason = "invalid_domain"

	// policy stage
	SkipWhitelistedDomain    SkipReason = "whitelisted_domain"
	SkipWhitelistedCategory  SkipReason = "whitelisted_category"
	SkipWhitelistedSubdomain SkipReason = "whitelisted_subdomain"
	SkipMinResources         SkipReason = "min_resources"
	SkipMinPerSubdomain      SkipReason = "min_resources_per_subdomain"
)

// Tally counts occurrences per SkipReason. The zero value is ready to use.
// A Tally belongs to a single goroutine.
type Tally map[SkipReason]int

// Add increments reason by one, allocating lazily through the pointer.
func (t *Tally) Add(reason SkipReason) {
	if *t == nil {
		*t = make(Tally)
	}
	(*t)[reason]++
}

// Merge folds other into t.
func (t *Tally) Merge(other Tally) {
	for k, v := range other {
		if *t == nil {
			*t = make(Tally)
		}
		(*t)[k] += v
	}
}

// Total sums every reason.
func (t Tally) Total() int {
	n := 0
	for _, v := range t {
		n += v
	}
	return n
}

// Fields renders the tally for structured logging with stable key order.
func (t Tally) Fields() map[string]any {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, string(k))
	}
	sort.Strings(keys)
	out := make(map[string]any, len(keys))
	for _, k := range keys {
		out[k] = t[SkipReason(k)]
	}
	return out
}

// Report is the per-run diagnostic summary. Every stage adds its counters.
type Report struct {
	RunID string

	Sources       int // list sources declared
	SourcesOK     int
	SourcesFailed int
	FetchErr      error // aggregate of per-source failures, nil when none failed

	Parsed  int   // domains recognized by the format parser
	Skipped Tally // lines dropped by the parser

	Records      int // evidence records considered
	SchemaErrors int // evidence files skipped as malformed

	Candidates  int   // candidates surviving policy
	FilteredOut Tally // candidates removed by policy

	Duplicates   int
	Deduplicated int
	Apexes       int // distinct registrable domains in the set
	Compiled     int

	Duration time.Duration
}

// Fields renders the report as structured log fields.
func (r Report) Fields() map[string]any {
	f := map[string]any{
		"run_id":         r.RunID,
		"sources":        r.Sources,
		"sources_ok":     r.SourcesOK,
		"sources_failed": r.SourcesFailed,
		"parsed":         r.Parsed,
		"skipped":        r.Skipped.Fields(),
		"records":        r.Records,
		"schema_errors":  r.SchemaErrors,
		"candidates":     r.Candidates,
		"filtered_out":   r.FilteredOut.Fields(),
		"duplicates":     r.Duplicates,
		"deduplicated":   r.Deduplicated,
		"apexes":         r.Apexes,
		"compiled":       r.Compiled,
		"duration":       r.Duration.String(),
	}
	if r.FetchErr != nil {
		f["fetch_error"] = r.FetchErr.Error()
	}
	return f
}
