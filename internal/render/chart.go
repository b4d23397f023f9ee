package render

import (
	"fmt"
	"strings"

	"github.com/vicanso/go-charts/v2"

	"sipreel/internal/anim"
	"sipreel/internal/money"
)

// ChartRenderer draws one PNG per frame with go-charts. The axes are fixed
// for the whole run (full x-label range, y from 0 to YMax) so only the
// plotted prefix and the overlay texts change between frames; points beyond
// the visible prefix are null values, which keeps the line growing inside a
// stable chart.
type ChartRenderer struct {
	Width   int
	Height  int
	Title   string
	XLabels []string
	YMin    float64
	YMax    float64
	Overlay OverlayConfig
}

// NewChartRenderer validates the fixed frame geometry.
func NewChartRenderer(width, height int, title string, xLabels []string, yMin, yMax float64, overlay OverlayConfig) (*ChartRenderer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("render: bad canvas %dx%d", width, height)
	}
	if len(xLabels) == 0 {
		return nil, fmt.Errorf("render: no x labels")
	}
	if yMax <= yMin {
		return nil, fmt.Errorf("render: y range [%g,%g] is empty", yMin, yMax)
	}
	return &ChartRenderer{
		Width:   width,
		Height:  height,
		Title:   title,
		XLabels: xLabels,
		YMin:    yMin,
		YMax:    yMax,
		Overlay: overlay,
	}, nil
}

// RenderFrame draws a single frame as PNG bytes.
//
// go-charts has no free-positioned text, so the overlay list is folded into
// the slots it does have: date and invested into the subtitle line, value
// boxes and percent returns into the legend entries.
func (r *ChartRenderer) RenderFrame(fs anim.FrameState) ([]byte, error) {
	n := len(r.XLabels)
	values := make([][]float64, len(fs.Assets))
	for i, af := range fs.Assets {
		row := make([]float64, n)
		copy(row, af.Visible)
		for j := fs.NShow; j < n; j++ {
			row[j] = charts.GetNullValue()
		}
		values[i] = row
	}

	overlays := Overlays(fs, r.Overlay)
	legend := r.legendNames(fs)

	seriesList := charts.NewSeriesListDataFromValues(values, charts.ChartTypeLine)
	for i := range seriesList {
		seriesList[i].Name = legend[i]
	}

	yMin := r.YMin
	yMax := r.YMax
	split := 6
	if n < 18 {
		split = n / 3
		if split < 2 {
			split = 2
		}
	}

	painter, err := charts.Render(charts.ChartOption{
		SeriesList: seriesList,
		Width:      r.Width,
		Height:     r.Height,
	},
		charts.TitleTextOptionFunc(r.Title, subtitleLine(overlays)),
		charts.XAxisOptionFunc(charts.XAxisOption{
			Data:        r.XLabels,
			BoundaryGap: charts.FalseFlag(),
			SplitNumber: split,
		}),
		charts.YAxisOptionFunc(charts.YAxisOption{Min: &yMin, Max: &yMax, DivideCount: 5}),
		charts.LegendOptionFunc(charts.LegendOption{Data: legend}),
		charts.ThemeOptionFunc(charts.ThemeDark),
	)
	if err != nil {
		return nil, fmt.Errorf("render: frame %d: %w", fs.Index, err)
	}
	buf, err := painter.Bytes()
	if err != nil {
		return nil, fmt.Errorf("render: frame %d bytes: %w", fs.Index, err)
	}
	return buf, nil
}

// legendNames builds one legend entry per asset carrying its current value
// and, in SIP mode, the percent return.
func (r *ChartRenderer) legendNames(fs anim.FrameState) []string {
	out := make([]string, len(fs.Assets))
	for i, af := range fs.Assets {
		if r.Overlay.Raw {
			out[i] = fmt.Sprintf("%s %.1f", af.Name, af.Value)
			continue
		}
		out[i] = fmt.Sprintf("%s %s %s", af.Name, r.Overlay.Locale.Format(af.Value), money.Percent(af.Return))
	}
	return out
}

// subtitleLine joins the shared overlay texts (subtitle, date, invested or
// progress) into the chart's second title line.
func subtitleLine(overlays []Overlay) string {
	var parts []string
	for _, o := range overlays {
		switch o.Kind {
		case KindSubtitle, KindDate, KindInvested, KindProgress:
			if o.Text != "" {
				parts = append(parts, o.Text)
			}
		}
	}
	return strings.Join(parts, " • ")
}
