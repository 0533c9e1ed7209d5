package main

import (
	"bytes"
	"context"
	"fmt"
	"sync/atomic"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/haukened/dnr-rulegen/internal/rulegen/common/log"
	"github.com/haukened/dnr-rulegen/internal/rulegen/config"
	"github.com/haukened/dnr-rulegen/internal/rulegen/gateways/fetch"
	"github.com/haukened/dnr-rulegen/internal/rulegen/gateways/output"
	"github.com/haukened/dnr-rulegen/internal/rulegen/repos/manifest"
)

var mirrorFlagKeys = map[string]string{
	"parallelism": "parallelism",
}

func newMirrorCmd(app *Application) *cobra.Command {
	var manifestPath, dest string
	cmd := &cobra.Command{
		Use:   "mirror",
		Short: "Download every list a pack manifest names into a mirror tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig(cmd.Flags(), mirrorFlagKeys, nil)
			if err != nil {
				return err
			}
			return app.mirror(cmd.Context(), cfg, logger, manifestPath, dest)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&manifestPath, "manifest", "m", "", "pack manifest (.yaml, .json or .toml)")
	f.StringVarP(&dest, "output", "o", "", "mirror root, overriding the manifest's output")
	f.Int("parallelism", config.DEFAULT_APP_CONFIG.Parallelism, "concurrent downloads")
	_ = cmd.MarkFlagRequired("manifest")
	return cmd
}

func (app *Application) mirror(ctx context.Context, cfg *config.AppConfig, logger log.Logger, manifestPath, dest string) error {
	m, err := manifest.Load(manifestPath)
	if err != nil {
		return err
	}
	if dest == "" {
		dest = m.Output
	}
	if dest == "" {
		return fmt.Errorf("manifest %s has no output and --output was not given", manifestPath)
	}

	fetcher, err := fetch.NewSource(fetch.Options{Timeout: cfg.FetchTimeout, Retries: cfg.FetchRetries}, logger)
	if err != nil {
		return err
	}

	entries := m.Entries()
	errs := make([]error, len(entries))
	var downloaded atomic.Int32

	var g errgroup.Group
	g.SetLimit(cfg.Parallelism)
	for i, e := range entries {
		g.Go(func() error {
			fields := map[string]any{"pack": e.Pack, "config": e.Config, "url": e.URL}
			body, err := fetcher.Fetch(ctx, e.URL)
			if err == nil {
				err = output.WriteRaw(bytes.NewReader(body), e.Path(dest))
			}
			if err != nil {
				errs[i] = fmt.Errorf("%s/%s: %w", e.Pack, e.Config, err)
				fields["error"] = err.Error()
				logger.Warn(fields, "mirror_failed")
				return nil
			}
			downloaded.Add(1)
			logger.Debug(fields, "mirror_written")
			return nil
		})
	}
	_ = g.Wait()

	n := int(downloaded.Load())
	logger.Info(map[string]any{"downloaded": n, "total": len(entries), "output": dest}, "mirror_done")
	fmt.Fprintf(app.stdout, "Downloaded %d out of %d\n", n, len(entries))

	if err := ctx.Err(); err != nil {
		return err
	}
	if n == 0 && len(entries) > 0 {
		return fmt.Errorf("no lists downloaded: %w", multierr.Combine(errs...))
	}
	return nil
}
