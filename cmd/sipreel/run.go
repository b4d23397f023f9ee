package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"sipreel/internal/caption"
	"sipreel/internal/config"
	"sipreel/internal/ledger"
	"sipreel/internal/notify"
	"sipreel/internal/reel"
)

// applyOverrides maps the optional config knobs onto a preset. Zero values
// (and -1 for hold) keep the preset's own numbers.
func applyOverrides(p reel.Preset, cfg *config.Config) reel.Preset {
	if cfg.Video.FPS > 0 {
		p.FPS = cfg.Video.FPS
	}
	if cfg.Video.DurationSec > 0 {
		p.DurationSec = cfg.Video.DurationSec
	}
	if cfg.Video.HoldSec >= 0 {
		p.HoldSec = cfg.Video.HoldSec
	}
	if cfg.Video.BitrateKbps > 0 {
		p.BitrateKbps = cfg.Video.BitrateKbps
	}
	if cfg.CurrencySymbol != "" {
		p.Locale = p.Locale.WithSymbol(cfg.CurrencySymbol)
	}
	return p
}

// runPreset renders one preset end to end: prepare, encode, record in the
// ledger and push notifications. Ledger, telegram and caption steps are all
// best-effort; only prepare/encode failures fail the run.
func runPreset(ctx context.Context, cfg *config.Config, name string) error {
	p, err := reel.Lookup(name)
	if err != nil {
		return err
	}
	p = applyOverrides(p, cfg)

	if err := os.MkdirAll(cfg.Output.Dir, 0o755); err != nil {
		return err
	}
	if err := os.MkdirAll(cfg.Data.Dir, 0o755); err != nil {
		return err
	}

	job, err := reel.Prepare(ctx, p, filepath.Join(cfg.Data.Dir, p.CacheFile))
	if err != nil {
		recordRun(cfg, ledger.Run{Preset: name, Status: "error: " + err.Error(), CreatedAt: time.Now()})
		return err
	}

	res, err := job.Run(ctx, reel.RunOptions{
		Output:     filepath.Join(cfg.Output.Dir, p.OutFile),
		FFmpegPath: cfg.Video.FFmpegPath,
		AudioPath:  cfg.Audio.Path,
	})
	if err != nil {
		recordRun(cfg, ledger.Run{Preset: name, Points: job.Series.Len(), Status: "error: " + err.Error(), CreatedAt: time.Now()})
		return err
	}

	recordRun(cfg, ledger.Run{
		Preset: name, Points: res.Points, Frames: res.Frames,
		Output: res.Output, Status: "ok", CreatedAt: time.Now(),
	})
	log.Printf("reel: done, %d frames -> %s", res.Frames, res.Output)
	if res.Muxed != "" {
		log.Printf("reel: audio version -> %s", res.Muxed)
	}

	announce(ctx, cfg, job, res)
	return nil
}

// recordRun appends to the run ledger, logging rather than failing.
func recordRun(cfg *config.Config, r ledger.Run) {
	db, err := ledger.Open(cfg.Data.LedgerPath)
	if err != nil {
		log.Printf("ledger: open %s: %v", cfg.Data.LedgerPath, err)
		return
	}
	defer db.Close()
	if err := ledger.InitSchema(db); err != nil {
		log.Printf("ledger: schema: %v", err)
		return
	}
	if err := ledger.NewStore(db).RecordRun(r); err != nil {
		log.Printf("ledger: record: %v", err)
	}
}

// announce sends the run summary (plus an optional generated caption) to the
// configured Telegram chat. Everything here is optional.
func announce(ctx context.Context, cfg *config.Config, job *reel.Job, res *reel.Result) {
	summary := job.Summary()

	text := fmt.Sprintf("Rendered %s: %s\n%s", job.Preset.Name, res.Output, summary)
	if cfg.OpenAIKey != "" {
		line, err := caption.NewGenerator(cfg.OpenAIKey).Caption(ctx, summary)
		if err != nil {
			log.Printf("caption: %v", err)
		} else {
			text += "\n\nCaption:\n" + line
		}
	}

	if cfg.Telegram.BotToken == "" {
		return
	}
	n, err := notify.New(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
	if err != nil {
		log.Printf("notify: %v", err)
		return
	}
	if err := n.SendWithRetry(text, 3); err != nil {
		log.Printf("notify: %v", err)
	}
}
