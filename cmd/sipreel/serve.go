package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/subcommands"

	"sipreel/internal/config"
	"sipreel/internal/sched"
)

type serveCmd struct {
	configPath string
	runNow     bool
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "render presets on a cron schedule" }
func (*serveCmd) Usage() string {
	return `sipreel serve [-config <file>] [-now]

  Stays up and renders the configured presets on the schedule.cron config
  expression (default: monthly). -now also renders once immediately on
  startup. Stop with SIGINT or SIGTERM.
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.configPath, "config", "sipreel.yml", "config file")
	f.BoolVar(&c.runNow, "now", false, "also render once on startup")
}

func (c *serveCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	if len(cfg.Schedule.Presets) == 0 {
		fmt.Fprintln(os.Stderr, "Error: schedule.presets is empty, nothing to run")
		return subcommands.ExitUsageError
	}

	render := func(name string) func() {
		return func() {
			// Each render gets its own generous deadline so a hung fetch
			// cannot stall the next scheduled run.
			runCtx, cancel := context.WithTimeout(ctx, 30*time.Minute)
			defer cancel()
			if err := runPreset(runCtx, cfg, name); err != nil {
				log.Printf("serve: %s: %v", name, err)
			}
		}
	}

	s := sched.New()
	for _, name := range cfg.Schedule.Presets {
		if err := s.Add(cfg.Schedule.Cron, name, render(name)); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
	}
	if c.runNow {
		for _, name := range cfg.Schedule.Presets {
			render(name)()
		}
	}
	s.Start()
	<-ctx.Done()
	s.Stop()
	return subcommands.ExitSuccess
}
