package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/subcommands"

	"sipreel/internal/config"
	"sipreel/internal/reel"
)

type fetchCmd struct {
	configPath string
	preset     string
}

func (*fetchCmd) Name() string     { return "fetch" }
func (*fetchCmd) Synopsis() string { return "refresh the cached price data for presets" }
func (*fetchCmd) Usage() string {
	return `sipreel fetch [-preset <name>] [-config <file>]

  Re-downloads price history and rewrites the CSV cache. Without -preset it
  refreshes every preset. Unlike the reel command, a fetch that cannot reach
  its sources fails instead of falling back to stale data.
`
}

func (c *fetchCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.configPath, "config", "sipreel.yml", "config file")
	f.StringVar(&c.preset, "preset", "", "single preset to refresh (default: all)")
}

func (c *fetchCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := os.MkdirAll(cfg.Data.Dir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	presets := reel.Presets()
	if c.preset != "" {
		p, err := reel.Lookup(c.preset)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
		presets = []reel.Preset{p}
	}

	status := subcommands.ExitSuccess
	for _, p := range presets {
		cache := filepath.Join(cfg.Data.Dir, p.CacheFile)
		aligned, err := reel.Refresh(ctx, p, cache)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			status = subcommands.ExitFailure
			continue
		}
		fmt.Printf("%s: %d months -> %s\n", p.Name, aligned.Len(), cache)
	}
	return status
}
