package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/haukened/dnr-rulegen/internal/rulegen/common/log"
	"github.com/haukened/dnr-rulegen/internal/rulegen/config"
	"github.com/haukened/dnr-rulegen/internal/rulegen/gateways/fetch"
	"github.com/haukened/dnr-rulegen/internal/rulegen/gateways/output"
	"github.com/haukened/dnr-rulegen/internal/rulegen/repos/evidence"
	"github.com/haukened/dnr-rulegen/internal/rulegen/services/pipeline"
)

var extractFlagKeys = map[string]string{
	"whitelist":           "whitelist",
	"whitelist-category":  "whitelist_categories",
	"whitelist-subdomain": "whitelist_subdomains",
}

func newExtractCmd(app *Application) *cobra.Command {
	var input, dest string
	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Turn a Tracker Radar checkout into a plain hosts list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig(cmd.Flags(), extractFlagKeys, nil)
			if err != nil {
				return err
			}
			return app.extract(cmd.Context(), cfg, logger, input, dest)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&input, "input", "i", "", "Tracker Radar checkout (the directory holding domains/)")
	f.StringVarP(&dest, "output", "o", "ddgtrackerradar.txt", "hosts list destination")
	f.String("whitelist", "", "file or URL listing domains that are never blocked")
	f.StringSlice("whitelist-category", nil, "evidence category to never block (repeatable)")
	f.StringSlice("whitelist-subdomain", nil, "subdomain label to never block (repeatable)")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func (app *Application) extract(ctx context.Context, cfg *config.AppConfig, logger log.Logger, input, dest string) error {
	recs, stats, err := evidence.Load(evidence.Root(input), logger)
	if err != nil {
		return err
	}

	fetcher, err := fetch.NewSource(fetch.Options{Timeout: cfg.FetchTimeout, Retries: cfg.FetchRetries}, logger)
	if err != nil {
		return err
	}
	policy, index, err := buildPolicy(ctx, cfg, fetcher, logger)
	if err != nil {
		return err
	}

	filter := pipeline.NewFilter(policy, index, logger)
	set := pipeline.Dedup()
	set.Merge(pipeline.CandidateDomains(filter.Records(recs)))

	header := []string{
		"ddgtrackerradar standard",
		"This host file is based on DuckDuckGo Tracker Radar.",
		"Generated at " + app.clock.Now().UTC().Format(time.RFC3339),
		"Generated by " + appName + " " + version,
	}
	if err := output.WriteHostList(set.Domains(), header, dest); err != nil {
		return err
	}

	fields := filter.Tally().Fields()
	fields["records"] = stats.Records
	fields["schema_errors"] = stats.SchemaErrors
	fields["hosts"] = set.Len()
	fields["output"] = dest
	logger.Info(fields, "extract_done")
	fmt.Fprintf(app.stdout, "Extracted %d hosts to %s\n", set.Len(), dest)
	return nil
}
