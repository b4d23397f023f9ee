package reel

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"sipreel/internal/encoder"
	"sipreel/internal/fetch"
	"sipreel/internal/money"
	"sipreel/internal/series"
)

func stubFetch(start series.Month, prices ...float64) fetch.Func {
	return func(ctx context.Context) ([]series.Point, error) {
		pts := make([]series.Point, len(prices))
		m := start
		for i, p := range prices {
			pts[i] = series.Point{Month: m, Price: p}
			m = m.Next()
		}
		return pts, nil
	}
}

func failFetch(ctx context.Context) ([]series.Point, error) {
	return nil, errors.New("provider down")
}

func testPreset(a, b fetch.Func) Preset {
	return Preset{
		Name:  "test",
		Title: "A vs B",
		Assets: []Asset{
			{Name: "A", Color: "#00d4aa", Fetch: a},
			{Name: "B", Color: "#ffd700", Fetch: b},
		},
		Locale:       money.Indian,
		Contribution: 10000,
		FPS:          2, DurationSec: 1, HoldSec: 1,
		Width: 320, Height: 568, BitrateKbps: 1000,
	}
}

func TestPrepare(t *testing.T) {
	start := series.Month{Year: 2024, Mon: time.January}
	p := testPreset(
		stubFetch(start, 100, 110, 121),
		stubFetch(start, 50, 55, 60),
	)
	job, err := Prepare(context.Background(), p, "")
	if err != nil {
		t.Fatal(err)
	}
	if job.Series.Len() != 3 {
		t.Errorf("series length = %d, want 3", job.Series.Len())
	}
	if got := job.Valuation.Values[0][2]; got != 33100 {
		t.Errorf("A value[2] = %v, want 33100", got)
	}
	if got := job.Controller.Timeline().TotalFrames(); got != 4 {
		t.Errorf("total frames = %d, want 4", got)
	}
}

func TestPrepareClipsToStart(t *testing.T) {
	start := series.Month{Year: 2024, Mon: time.January}
	p := testPreset(
		stubFetch(start, 100, 110, 121, 130),
		stubFetch(start, 50, 55, 60, 65),
	)
	p.Start = series.Month{Year: 2024, Mon: time.March}
	job, err := Prepare(context.Background(), p, "")
	if err != nil {
		t.Fatal(err)
	}
	if job.Series.Len() != 2 {
		t.Errorf("series length = %d, want 2 after clip", job.Series.Len())
	}
	if job.Series.Months[0] != p.Start {
		t.Errorf("first month = %v, want %v", job.Series.Months[0], p.Start)
	}
}

func TestPrepareWritesCache(t *testing.T) {
	start := series.Month{Year: 2024, Mon: time.January}
	p := testPreset(
		stubFetch(start, 100, 110),
		stubFetch(start, 50, 55),
	)
	cache := filepath.Join(t.TempDir(), "cache.csv")
	if _, err := Prepare(context.Background(), p, cache); err != nil {
		t.Fatal(err)
	}
	got, err := series.LoadFile(cache)
	if err != nil {
		t.Fatal(err)
	}
	if got.Len() != 2 || got.Assets[0] != "A" {
		t.Errorf("cache content = %+v", got)
	}
}

func TestPrepareFallsBackToCache(t *testing.T) {
	start := series.Month{Year: 2024, Mon: time.January}
	good := testPreset(
		stubFetch(start, 100, 110),
		stubFetch(start, 50, 55),
	)
	cache := filepath.Join(t.TempDir(), "cache.csv")
	if _, err := Prepare(context.Background(), good, cache); err != nil {
		t.Fatal(err)
	}

	bad := testPreset(failFetch, failFetch)
	job, err := Prepare(context.Background(), bad, cache)
	if err != nil {
		t.Fatalf("fallback failed: %v", err)
	}
	if job.Series.Len() != 2 {
		t.Errorf("cached series length = %d, want 2", job.Series.Len())
	}
}

func TestPrepareFailsWithoutCache(t *testing.T) {
	p := testPreset(failFetch, failFetch)
	if _, err := Prepare(context.Background(), p, filepath.Join(t.TempDir(), "missing.csv")); err == nil {
		t.Error("prepare succeeded with no data source and no cache")
	}
}

func TestRenderToCountsAllFrames(t *testing.T) {
	start := series.Month{Year: 2024, Mon: time.January}
	p := testPreset(
		stubFetch(start, 100, 110, 121),
		stubFetch(start, 50, 55, 60),
	)
	job, err := Prepare(context.Background(), p, "")
	if err != nil {
		t.Fatal(err)
	}
	sink := &encoder.Null{}
	frames, err := job.RenderTo(context.Background(), sink)
	if err != nil {
		t.Fatal(err)
	}
	if want := job.Controller.Timeline().TotalFrames(); frames != want {
		t.Errorf("rendered %d frames, want %d", frames, want)
	}
	if sink.Frames != frames {
		t.Errorf("sink saw %d frames, reported %d", sink.Frames, frames)
	}
}

// A failed delivery must not poison the job: a second render over the same
// prepared state replays identical frames.
func TestRenderToRetryable(t *testing.T) {
	start := series.Month{Year: 2024, Mon: time.January}
	p := testPreset(
		stubFetch(start, 100, 110, 121),
		stubFetch(start, 50, 55, 60),
	)
	job, err := Prepare(context.Background(), p, "")
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := job.RenderTo(ctx, &encoder.Null{}); err == nil {
		t.Fatal("cancelled render succeeded")
	}

	sink := &encoder.Null{}
	frames, err := job.RenderTo(context.Background(), sink)
	if err != nil {
		t.Fatal(err)
	}
	if want := job.Controller.Timeline().TotalFrames(); frames != want {
		t.Errorf("retry rendered %d frames, want %d", frames, want)
	}
}

func TestSummary(t *testing.T) {
	start := series.Month{Year: 2024, Mon: time.January}
	p := testPreset(
		stubFetch(start, 100, 110, 121),
		stubFetch(start, 50, 55, 60),
	)
	job, err := Prepare(context.Background(), p, "")
	if err != nil {
		t.Fatal(err)
	}
	s := job.Summary()
	for _, want := range []string{"₹10.0K monthly SIP since 2024 January", "A ₹33.1K", "B "} {
		if !strings.Contains(s, want) {
			t.Errorf("summary %q missing %q", s, want)
		}
	}
}

func TestRefresh(t *testing.T) {
	start := series.Month{Year: 2024, Mon: time.January}
	p := testPreset(
		stubFetch(start, 100, 110),
		stubFetch(start, 50, 55),
	)
	cache := filepath.Join(t.TempDir(), "cache.csv")
	aligned, err := Refresh(context.Background(), p, cache)
	if err != nil {
		t.Fatal(err)
	}
	if aligned.Len() != 2 {
		t.Errorf("refreshed %d months, want 2", aligned.Len())
	}
	if _, err := series.LoadFile(cache); err != nil {
		t.Errorf("cache not written: %v", err)
	}
}

func TestRefreshDoesNotFallBack(t *testing.T) {
	start := series.Month{Year: 2024, Mon: time.January}
	good := testPreset(
		stubFetch(start, 100, 110),
		stubFetch(start, 50, 55),
	)
	cache := filepath.Join(t.TempDir(), "cache.csv")
	if _, err := Refresh(context.Background(), good, cache); err != nil {
		t.Fatal(err)
	}
	bad := testPreset(failFetch, failFetch)
	if _, err := Refresh(context.Background(), bad, cache); err == nil {
		t.Error("refresh fell back to stale cache")
	}
}

func TestPresetsLookup(t *testing.T) {
	for _, p := range Presets() {
		got, err := Lookup(p.Name)
		if err != nil {
			t.Errorf("Lookup(%q): %v", p.Name, err)
			continue
		}
		if got.Title != p.Title {
			t.Errorf("Lookup(%q).Title = %q", p.Name, got.Title)
		}
		if len(p.Assets) < 2 {
			t.Errorf("preset %q has %d assets", p.Name, len(p.Assets))
		}
		if p.FPS <= 0 || p.DurationSec <= 0 || p.Width <= 0 || p.Height <= 0 {
			t.Errorf("preset %q has invalid geometry/timing", p.Name)
		}
	}
	if _, err := Lookup("no-such-preset"); err == nil {
		t.Error("unknown preset accepted")
	}
}

func TestMuxedName(t *testing.T) {
	tests := []struct{ in, want string }{
		{"out/reel.mp4", "out/reel_with_audio.mp4"},
		{"reel.mkv", "reel.mkv.with_audio.mp4"},
	}
	for _, tt := range tests {
		if got := muxedName(tt.in); got != tt.want {
			t.Errorf("muxedName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func ExamplePreset() {
	p, _ := Lookup("nifty-gold")
	fmt.Println(p.Title)
	// Output: NIFTY 50 vs GOLD
}
