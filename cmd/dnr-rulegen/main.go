package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/haukened/dnr-rulegen/internal/rulegen/common/clock"
	"github.com/haukened/dnr-rulegen/internal/rulegen/common/log"
	"github.com/haukened/dnr-rulegen/internal/rulegen/config"
)

const (
	version = "0.1.0-dev"
	appName = "dnr-rulegen"
)

// Application holds what every subcommand shares.
type Application struct {
	clock  clock.Clock
	stdout io.Writer
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app := &Application{clock: clock.RealClock{}, stdout: os.Stdout}
	if err := newRootCmd(app).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(app *Application) *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Compile domain blocklists into declarativeNetRequest rules",
		Long: `dnr-rulegen turns heterogeneous domain blocklists (hosts files, ABP
filters, wildcard and plain lists) and Tracker Radar evidence into a
deduplicated, capacity-checked declarativeNetRequest rule set.

Settings come from RULEGEN_* environment variables; flags override them.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(app.stdout)
	root.AddCommand(newCompileCmd(app), newExtractCmd(app), newMirrorCmd(app))
	return root
}

// loadConfig layers explicitly set flags over defaults and env, then
// configures the global logger. keys maps flag names to config keys.
func loadConfig(flags *pflag.FlagSet, keys map[string]string, extra map[string]any) (*config.AppConfig, log.Logger, error) {
	overrides := make(map[string]any, len(keys)+len(extra))
	for name, key := range keys {
		f := flags.Lookup(name)
		if f == nil || !f.Changed {
			continue
		}
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			overrides[key] = sv.GetSlice()
			continue
		}
		overrides[key] = f.Value.String()
	}
	for k, v := range extra {
		overrides[k] = v
	}

	cfg, err := config.Load(overrides)
	if err != nil {
		return nil, nil, fmt.Errorf("configuration error: %w", err)
	}
	if err := log.Configure(cfg.Env, cfg.LogLevel); err != nil {
		return nil, nil, fmt.Errorf("logging configuration error: %w", err)
	}
	logger := log.GetLogger()
	logger.Debug(map[string]any{
		"version":     version,
		"env":         cfg.Env,
		"log_level":   cfg.LogLevel,
		"max_rules":   cfg.MaxRules,
		"parallelism": cfg.Parallelism,
	}, "config_loaded")
	return cfg, logger, nil
}
