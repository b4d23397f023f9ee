package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"

	"sipreel/internal/config"
	"sipreel/internal/reel"
)

type reelCmd struct {
	configPath string
	preset     string
	list       bool
}

func (*reelCmd) Name() string     { return "reel" }
func (*reelCmd) Synopsis() string { return "render a SIP comparison reel for a preset" }
func (*reelCmd) Usage() string {
	return `sipreel reel -preset <name> [-config <file>]

  Fetches the preset's price data (falling back to the CSV cache when the
  sources are unreachable), runs the SIP valuation and encodes the animated
  comparison video. Use -list to see available presets.
`
}

func (c *reelCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.configPath, "config", "sipreel.yml", "config file")
	f.StringVar(&c.preset, "preset", "", "preset to render")
	f.BoolVar(&c.list, "list", false, "list presets and exit")
}

func (c *reelCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	if c.list {
		for _, p := range reel.Presets() {
			names := make([]string, len(p.Assets))
			for i, a := range p.Assets {
				names[i] = a.Name
			}
			fmt.Printf("%-12s %s (%s SIP, %s)\n", p.Name, p.Title,
				p.Locale.Format(p.Contribution), strings.Join(names, " vs "))
		}
		return subcommands.ExitSuccess
	}
	if c.preset == "" {
		fmt.Fprintln(os.Stderr, "Error: -preset is required (see -list)")
		return subcommands.ExitUsageError
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	if err := runPreset(ctx, cfg, c.preset); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
