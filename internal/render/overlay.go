package render

import (
	"fmt"

	"sipreel/internal/anim"
	"sipreel/internal/money"
)

// OverlayKind identifies what an overlay element represents.
type OverlayKind int

const (
	KindSubtitle OverlayKind = iota
	KindDate
	KindInvested
	KindValueBox
	KindPercent
	KindLineLabel
	KindProgress
)

// Overlay is one on-screen text element for a single frame. X and Y are
// normalized to the drawing area: (0,0) bottom-left, (1,1) top-right, so any
// sink can place them regardless of resolution.
type Overlay struct {
	Kind  OverlayKind
	Asset string // owning series, empty for shared elements
	Text  string
	X, Y  float64
	Color string
}

// OverlayConfig is the static part of the overlay layout for a run.
type OverlayConfig struct {
	Subtitle string            // e.g. "₹10K SIP every month since 2014 April"
	Locale   money.Locale
	Colors   map[string]string // asset name -> hex color
	Points   int               // total data points, for line-label placement
	YMin     float64           // fixed y-axis bottom, for line-label placement
	YMax     float64           // fixed y-axis top, for line-label placement
	Raw      bool              // raw race mode: no invested/percent elements
}

// Overlays resolves the full overlay list for one frame. Pure function of
// the frame state and config; the sink draws the result.
func Overlays(fs anim.FrameState, cfg OverlayConfig) []Overlay {
	out := make([]Overlay, 0, 4+3*len(fs.Assets))

	out = append(out, Overlay{Kind: KindSubtitle, Text: cfg.Subtitle, X: 0.5, Y: 1.05})
	out = append(out, Overlay{Kind: KindDate, Text: fs.Label, X: 0.32, Y: 0.91})

	if cfg.Raw {
		out = append(out, Overlay{
			Kind: KindProgress,
			Text: fmt.Sprintf("%.0f%%", fs.Progress*100),
			X:    0.98, Y: 0.02,
		})
	} else {
		out = append(out, Overlay{
			Kind: KindInvested,
			Text: "Total Invested: " + cfg.Locale.Format(fs.Invested),
			X:    0.32, Y: 0.95,
		})
	}

	k := len(fs.Assets)
	for i, af := range fs.Assets {
		color := cfg.Colors[af.Name]
		boxX := 0.5
		pctX := 0.5
		if k > 1 {
			f := float64(i) / float64(k-1)
			boxX = 0.15 + 0.70*f
			pctX = 0.08 + 0.84*f
		}
		if cfg.Raw {
			out = append(out, Overlay{
				Kind:  KindLineLabel,
				Asset: af.Name,
				Text:  fmt.Sprintf("%s: %.1f", af.Name, af.Value),
				X:     lineLabelX(fs.NShow, cfg.Points),
				Y:     lineLabelY(af.Value, cfg.YMin, cfg.YMax),
				Color: color,
			})
			continue
		}
		out = append(out, Overlay{
			Kind:  KindValueBox,
			Asset: af.Name,
			Text:  af.Name + "\n" + cfg.Locale.Format(af.Value),
			X:     boxX, Y: 0.91,
			Color: color,
		})
		out = append(out, Overlay{
			Kind:  KindPercent,
			Asset: af.Name,
			Text:  money.Percent(af.Return),
			X:     pctX, Y: 0.86,
			Color: color,
		})
		out = append(out, Overlay{
			Kind:  KindLineLabel,
			Asset: af.Name,
			Text:  cfg.Locale.Format(af.Value),
			X:     lineLabelX(fs.NShow, cfg.Points),
			Y:     lineLabelY(af.Value, cfg.YMin, cfg.YMax),
			Color: color,
		})
	}
	return out
}

// lineLabelX places a line-end label just right of the newest point. The
// x-axis is padded by 15% so the label never leaves the canvas.
func lineLabelX(nShow, points int) float64 {
	if points == 0 {
		return 0
	}
	return (float64(nShow-1) + 0.02*float64(points)) / (float64(points) * 1.15)
}

func lineLabelY(value, yMin, yMax float64) float64 {
	if yMax <= yMin {
		return 0
	}
	y := (value - yMin) / (yMax - yMin)
	if y > 1 {
		y = 1
	}
	if y < 0 {
		y = 0
	}
	return y
}
