// Package reel wires the fetch, valuation, animation, render and encoder
// layers into complete comparison-video runs. The preset table replaces the
// per-pair scripts this tool grew out of: everything that differed between
// them is data here.
package reel

import (
	"fmt"
	"time"

	"sipreel/internal/fetch"
	"sipreel/internal/money"
	"sipreel/internal/series"
)

// Asset is one plotted series of a preset.
type Asset struct {
	Name  string
	Color string
	Fetch fetch.Func
}

// Preset fully describes one comparison reel.
type Preset struct {
	Name         string
	Title        string
	Assets       []Asset
	Locale       money.Locale
	Contribution float64
	Start        series.Month // zero month keeps the full history

	FPS         int
	DurationSec int
	HoldSec     int
	Width       int
	Height      int
	BitrateKbps int

	AudioStartSec int
	CacheFile     string
	OutFile       string
}

// Reel presentation is vertical 9:16.
const (
	reelWidth  = 1080
	reelHeight = 1920
)

// Session tokens for the investing.com candle endpoint. They expire; when
// they do, a run falls back to its CSV cache.
const (
	investingNiftyToken = "ff8d3e148bb69cb57471e08ad54e598d"
	investingBTCToken   = "f82926a90b7b613bb317d5358fafc045"
)

// Presets returns the built-in comparison reels.
func Presets() []Preset {
	return []Preset{
		{
			Name:  "nifty-gold",
			Title: "NIFTY 50 vs GOLD",
			Assets: []Asset{
				{Name: "NIFTY 50", Color: "#00d4aa", Fetch: fetch.Nifty},
				{Name: "GOLD", Color: "#ffd700", Fetch: fetch.ZerodhaIndex("GOLD995")},
			},
			Locale:       money.Indian,
			Contribution: 10000,
			FPS:          30, DurationSec: 19, HoldSec: 3,
			Width: reelWidth, Height: reelHeight, BitrateKbps: 8000,
			AudioStartSec: 16,
			CacheFile:     "nifty_vs_gold_data.csv",
			OutFile:       "nifty_vs_gold_reel.mp4",
		},
		{
			Name:  "gold-silver",
			Title: "GOLD vs SILVER",
			Assets: []Asset{
				{Name: "GOLD", Color: "#ffd700", Fetch: fetch.ZerodhaIndex("GOLD995")},
				{Name: "SILVER", Color: "#c0c0c0", Fetch: fetch.ZerodhaIndex("SILVER")},
			},
			Locale:       money.Indian,
			Contribution: 10000,
			FPS:          30, DurationSec: 15, HoldSec: 3,
			Width: reelWidth, Height: reelHeight, BitrateKbps: 8000,
			AudioStartSec: 16,
			CacheFile:     "gold_vs_silver_data.csv",
			OutFile:       "gold_vs_silver_reel.mp4",
		},
		{
			Name:  "nifty-btc",
			Title: "NIFTY vs BTC",
			Assets: []Asset{
				{Name: "NIFTY", Color: "#00d4aa", Fetch: fetch.InvestingMonthly(investingNiftyToken, "17944")},
				{Name: "BTC", Color: "#f7931a", Fetch: fetch.InvestingMonthly(investingBTCToken, "1057391")},
			},
			Locale:       money.US,
			Contribution: 100,
			Start:        series.Month{Year: 2020, Mon: time.January},
			FPS:          30, DurationSec: 15, HoldSec: 3,
			Width: reelWidth, Height: reelHeight, BitrateKbps: 8000,
			AudioStartSec: 16,
			CacheFile:     "nifty_vs_btc_data.csv",
			OutFile:       "nifty_vs_btc_reel.mp4",
		},
	}
}

// Lookup finds a preset by name.
func Lookup(name string) (Preset, error) {
	for _, p := range Presets() {
		if p.Name == name {
			return p, nil
		}
	}
	return Preset{}, fmt.Errorf("reel: unknown preset %q", name)
}
