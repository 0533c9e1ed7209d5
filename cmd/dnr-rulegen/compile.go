package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/haukened/dnr-rulegen/internal/rulegen/common/log"
	"github.com/haukened/dnr-rulegen/internal/rulegen/config"
	"github.com/haukened/dnr-rulegen/internal/rulegen/domain"
	"github.com/haukened/dnr-rulegen/internal/rulegen/gateways/fetch"
	"github.com/haukened/dnr-rulegen/internal/rulegen/gateways/output"
	"github.com/haukened/dnr-rulegen/internal/rulegen/repos/allowlist"
	"github.com/haukened/dnr-rulegen/internal/rulegen/repos/allowlist/bloom"
	"github.com/haukened/dnr-rulegen/internal/rulegen/repos/evidence"
	"github.com/haukened/dnr-rulegen/internal/rulegen/services/pipeline"
)

var compileFlagKeys = map[string]string{
	"evidence":            "evidence",
	"whitelist":           "whitelist",
	"max-rules":           "max_rules",
	"output":              "output",
	"whitelist-category":  "whitelist_categories",
	"whitelist-subdomain": "whitelist_subdomains",
	"parallelism":         "parallelism",
}

// ErrNoSources is returned when a compile run has nothing to read.
var ErrNoSources = errors.New("no list sources or evidence given")

// ErrAllSourcesFailed is returned when every list source failed and no
// evidence was supplied, so the output would be empty.
var ErrAllSourcesFailed = errors.New("all list sources failed")

func newCompileCmd(app *Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compile [sources...]",
		Short: "Fetch blocklists and evidence and write a rule document",
		Long: `Fetches every source (http(s) URL or local path) concurrently, parses each
line in whichever list dialect it uses, applies the whitelist and evidence
thresholds, deduplicates in source order and writes one block rule per domain.

The run fails without writing anything when the domain count exceeds --max-rules.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var extra map[string]any
			if len(args) > 0 {
				extra = map[string]any{"sources": args}
			}
			cfg, logger, err := loadConfig(cmd.Flags(), compileFlagKeys, extra)
			if err != nil {
				return err
			}
			return app.compile(cmd.Context(), cfg, logger)
		},
	}
	f := cmd.Flags()
	f.String("evidence", "", "Tracker Radar checkout to extract candidates from")
	f.String("whitelist", "", "file or URL listing domains that are never blocked")
	f.Int("max-rules", config.DEFAULT_APP_CONFIG.MaxRules, "rule capacity of the target engine")
	f.StringP("output", "o", config.DEFAULT_APP_CONFIG.Output, "rule document destination")
	f.StringSlice("whitelist-category", nil, "evidence category to never block (repeatable)")
	f.StringSlice("whitelist-subdomain", nil, "subdomain label to never block (repeatable)")
	f.Int("parallelism", config.DEFAULT_APP_CONFIG.Parallelism, "concurrent source fetches")
	return cmd
}

func (app *Application) compile(ctx context.Context, cfg *config.AppConfig, logger log.Logger) error {
	if len(cfg.Sources) == 0 && cfg.Evidence == "" {
		return ErrNoSources
	}

	fetcher, err := fetch.NewSource(fetch.Options{
		Timeout:   cfg.FetchTimeout,
		Retries:   cfg.FetchRetries,
		CacheSize: cfg.FetchCacheSize,
	}, logger)
	if err != nil {
		return err
	}

	policy, index, err := buildPolicy(ctx, cfg, fetcher, logger)
	if err != nil {
		return err
	}

	inputs := pipeline.Inputs{Lists: cfg.Sources}
	if cfg.Evidence != "" {
		recs, stats, err := evidence.Load(evidence.Root(cfg.Evidence), logger)
		if err != nil {
			return err
		}
		inputs.Records = recs
		inputs.SchemaErrors = stats.SchemaErrors
	}

	runner := pipeline.NewRunner(fetcher, policy, index, pipeline.Options{Parallelism: cfg.Parallelism}, app.clock, logger)
	doc, report, err := runner.Build(ctx, inputs, cfg.MaxRules)
	if err != nil {
		return err
	}
	if report.Sources > 0 && report.SourcesOK == 0 && len(inputs.Records) == 0 {
		return fmt.Errorf("%w: %w", ErrAllSourcesFailed, report.FetchErr)
	}

	if err := output.WriteRules(doc, cfg.Output); err != nil {
		return err
	}

	stats := index.Stats()
	logger.Info(map[string]any{
		"run_id":                report.RunID,
		"output":                cfg.Output,
		"rules":                 len(doc),
		"whitelist_size":        stats.Size,
		"whitelist_lookups":     stats.Lookups,
		"whitelist_bloom_skips": stats.BloomNegatives,
	}, "rules_written")
	fmt.Fprintf(app.stdout, "Generated %d rules in %s (%d sources ok, %d failed)\n",
		len(doc), cfg.Output, report.SourcesOK, report.SourcesFailed)
	return nil
}

// buildPolicy loads the whitelist and returns the run's policy and index.
func buildPolicy(ctx context.Context, cfg *config.AppConfig, fetcher fetch.Fetcher, logger log.Logger) (domain.FilterPolicy, *allowlist.Index, error) {
	var whitelisted []domain.Domain
	if cfg.Whitelist != "" {
		body, err := fetcher.Fetch(ctx, cfg.Whitelist)
		if err != nil {
			return domain.FilterPolicy{}, nil, fmt.Errorf("whitelist: %w", err)
		}
		whitelisted, err = allowlist.Load(bytes.NewReader(body), cfg.Whitelist, logger)
		if err != nil {
			return domain.FilterPolicy{}, nil, fmt.Errorf("whitelist: %w", err)
		}
	}
	policy := domain.NewFilterPolicy(
		whitelisted,
		cfg.WhitelistCategories,
		cfg.WhitelistSubdomains,
		cfg.MinResources,
		cfg.MinResourcesPerSubdomain,
	)
	return policy, allowlist.FromPolicy(policy, bloom.NewFactory(), cfg.BloomFPRate), nil
}
