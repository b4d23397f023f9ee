// Package anim turns a valuation into a deterministic, finite sequence of
// renderable frame states: an animated reveal of the series followed by a
// hold on the final values.
package anim

import (
	"fmt"
	"iter"
	"math"

	"sipreel/internal/series"
	"sipreel/internal/sip"
)

// Phase is the controller state for a frame.
type Phase int

const (
	// PhaseAnimating frames reveal more of the series each frame.
	PhaseAnimating Phase = iota
	// PhaseHolding frames are frozen on the final data state. The phase is
	// terminal: once entered it lasts until the frame sequence is exhausted.
	PhaseHolding
)

func (p Phase) String() string {
	if p == PhaseHolding {
		return "holding"
	}
	return "animating"
}

// Timeline fixes the frame schedule of one video.
type Timeline struct {
	FPS         int
	DurationSec int // animated reveal
	HoldSec     int // trailing freeze on the final values
}

// NewTimeline validates the schedule. The animated portion must contain at
// least one frame; the hold may be empty.
func NewTimeline(fps, durationSec, holdSec int) (Timeline, error) {
	t := Timeline{FPS: fps, DurationSec: durationSec, HoldSec: holdSec}
	if fps <= 0 || durationSec <= 0 || holdSec < 0 {
		return Timeline{}, fmt.Errorf("anim: bad timeline fps=%d duration=%ds hold=%ds", fps, durationSec, holdSec)
	}
	return t, nil
}

// AnimationFrames is the number of frames in the animated reveal.
func (t Timeline) AnimationFrames() int { return t.FPS * t.DurationSec }

// TotalFrames is the full frame count including the hold phase.
func (t Timeline) TotalFrames() int { return t.FPS * (t.DurationSec + t.HoldSec) }

// FrameIndexError reports a frame index outside [0, TotalFrames).
type FrameIndexError struct {
	Index int
	Total int
}

func (e *FrameIndexError) Error() string {
	return fmt.Sprintf("anim: frame index %d out of range [0,%d)", e.Index, e.Total)
}

// AssetFrame is the state of one plotted series within a frame.
type AssetFrame struct {
	Name    string
	Visible []float64 // prefix of the value series, length NShow
	Value   float64   // value at the current month
	Return  float64   // percent return over invested capital; 0 in raw mode
}

// FrameState is everything a render sink needs to draw one frame. It is
// immutable once produced and fully determined by its frame index.
type FrameState struct {
	Index    int
	Phase    Phase
	Progress float64 // animated reveal progress in (0, 1]
	NShow    int     // visible point count, in [1, points]
	Label    string  // current period label
	Invested float64 // capital invested at the current month; 0 in raw mode
	Assets   []AssetFrame
}

// Controller maps frame indices to frame states over a fixed data set.
type Controller struct {
	tl       Timeline
	labels   []string
	names    []string
	rows     [][]float64
	invested []float64 // nil for raw (non-SIP) series
}

// NewController builds a controller over raw value rows, one per named
// series, with an optional invested row of the same length. Race videos pass
// nil invested; SIP reels use NewValuationController.
func NewController(tl Timeline, labels []string, names []string, rows [][]float64, invested []float64) (*Controller, error) {
	if len(labels) == 0 {
		return nil, sip.ErrEmptySeries
	}
	if len(names) != len(rows) {
		return nil, fmt.Errorf("anim: %d names for %d rows", len(names), len(rows))
	}
	for i, row := range rows {
		if len(row) != len(labels) {
			return nil, &sip.MisalignedSeriesError{Asset: names[i], Got: len(row), Want: len(labels)}
		}
	}
	if invested != nil && len(invested) != len(labels) {
		return nil, fmt.Errorf("anim: invested row has %d entries, want %d", len(invested), len(labels))
	}
	return &Controller{tl: tl, labels: labels, names: names, rows: rows, invested: invested}, nil
}

// NewValuationController builds a controller over a SIP valuation, using the
// aligned months as period labels.
func NewValuationController(tl Timeline, months []series.Month, v *sip.Valuation) (*Controller, error) {
	labels := make([]string, len(months))
	for i, m := range months {
		labels[i] = m.Label()
	}
	return NewController(tl, labels, v.Assets, v.Values, v.Invested)
}

// Points returns the number of data points per series.
func (c *Controller) Points() int { return len(c.labels) }

// Timeline returns the frame schedule.
func (c *Controller) Timeline() Timeline { return c.tl }

// FrameAt resolves a single frame. Indices outside [0, TotalFrames) are a
// programming error.
func (c *Controller) FrameAt(index int) (FrameState, error) {
	if index < 0 || index >= c.tl.TotalFrames() {
		return FrameState{}, &FrameIndexError{Index: index, Total: c.tl.TotalFrames()}
	}
	return c.frameAt(index), nil
}

func (c *Controller) frameAt(index int) FrameState {
	animFrames := c.tl.AnimationFrames()
	phase := PhaseAnimating
	effective := index
	if index >= animFrames {
		// Hold phase: freeze on the last animating frame's state.
		phase = PhaseHolding
		effective = animFrames - 1
	}
	progress := float64(effective+1) / float64(animFrames)
	n := len(c.labels)
	nShow := int(math.Floor(progress * float64(n)))
	if nShow < 1 {
		nShow = 1
	}
	if nShow > n {
		nShow = n
	}

	fs := FrameState{
		Index:    index,
		Phase:    phase,
		Progress: progress,
		NShow:    nShow,
		Label:    c.labels[nShow-1],
		Assets:   make([]AssetFrame, len(c.rows)),
	}
	if c.invested != nil {
		fs.Invested = c.invested[nShow-1]
	}
	for i, row := range c.rows {
		af := AssetFrame{
			Name:    c.names[i],
			Visible: row[:nShow],
			Value:   row[nShow-1],
		}
		if c.invested != nil && fs.Invested != 0 {
			af.Return = (af.Value - fs.Invested) / fs.Invested * 100
		}
		fs.Assets[i] = af
	}
	return fs
}

// Frames returns the lazy, finite sequence of all frame states in strictly
// increasing index order. The sequence is restartable: ranging over it again
// replays identical frames.
func (c *Controller) Frames() iter.Seq[FrameState] {
	return func(yield func(FrameState) bool) {
		total := c.tl.TotalFrames()
		for i := 0; i < total; i++ {
			if !yield(c.frameAt(i)) {
				return
			}
		}
	}
}
