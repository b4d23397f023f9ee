package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"sipreel/internal/config"
	"sipreel/internal/ledger"
)

type historyCmd struct {
	configPath string
	limit      int
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "show recent render runs from the ledger" }
func (*historyCmd) Usage() string {
	return `sipreel history [-n 20] [-config <file>]
`
}

func (c *historyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.configPath, "config", "sipreel.yml", "config file")
	f.IntVar(&c.limit, "n", 20, "number of runs to show")
}

func (c *historyCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	db, err := ledger.Open(cfg.Data.LedgerPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer db.Close()
	if err := ledger.InitSchema(db); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	runs, err := ledger.NewStore(db).RecentRuns(c.limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if len(runs) == 0 {
		fmt.Println("no runs recorded yet")
		return subcommands.ExitSuccess
	}
	for _, r := range runs {
		fmt.Printf("%s  %-12s %4d pts %5d frames  %-30s %s\n",
			r.CreatedAt.Format("2006-01-02 15:04"), r.Preset, r.Points, r.Frames, r.Output, r.Status)
	}
	return subcommands.ExitSuccess
}
