package reel

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"

	"sipreel/internal/anim"
	"sipreel/internal/render"
)

// RaceData is a generic multi-series data set for race videos: the first CSV
// column supplies the x labels, every other column is a series to compare.
// No SIP valuation is applied; values are plotted as-is.
type RaceData struct {
	Labels []string
	Names  []string
	Rows   [][]float64
}

// LoadRaceCSV parses "time,Series1,Series2,..." rows.
func LoadRaceCSV(r io.Reader) (*RaceData, error) {
	cr := csv.NewReader(r)
	recs, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reel: read race csv: %w", err)
	}
	if len(recs) < 2 {
		return nil, fmt.Errorf("reel: race csv has no data rows")
	}
	header := recs[0]
	if len(header) < 2 {
		return nil, fmt.Errorf("reel: race csv needs at least one series column")
	}
	d := &RaceData{
		Names: header[1:],
		Rows:  make([][]float64, len(header)-1),
	}
	for n, rec := range recs[1:] {
		if len(rec) != len(header) {
			return nil, fmt.Errorf("reel: race csv row %d has %d fields, want %d", n+2, len(rec), len(header))
		}
		d.Labels = append(d.Labels, rec[0])
		for i, field := range rec[1:] {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("reel: race csv row %d, %s: %w", n+2, d.Names[i], err)
			}
			d.Rows[i] = append(d.Rows[i], v)
		}
	}
	return d, nil
}

// RaceOptions configures a race video.
type RaceOptions struct {
	Title       string
	FPS         int
	DurationSec int
	HoldSec     int
	Width       int
	Height      int
	BitrateKbps int
}

// RaceJob builds a rendering job over raw series data. The y-axis spans the
// full data range with 10% padding on both sides, fixed for the whole run.
func RaceJob(d *RaceData, opts RaceOptions) (*anim.Controller, *render.ChartRenderer, error) {
	tl, err := anim.NewTimeline(opts.FPS, opts.DurationSec, opts.HoldSec)
	if err != nil {
		return nil, nil, err
	}
	ctrl, err := anim.NewController(tl, d.Labels, d.Names, d.Rows, nil)
	if err != nil {
		return nil, nil, err
	}

	yMin, yMax := math.Inf(1), math.Inf(-1)
	for _, row := range d.Rows {
		for _, v := range row {
			if v < yMin {
				yMin = v
			}
			if v > yMax {
				yMax = v
			}
		}
	}
	pad := (yMax - yMin) * 0.1
	if pad == 0 {
		pad = math.Abs(yMax) * 0.1
		if pad == 0 {
			pad = 1
		}
	}
	yMin -= pad
	yMax += pad

	renderer, err := render.NewChartRenderer(opts.Width, opts.Height, opts.Title, d.Labels, yMin, yMax, render.OverlayConfig{
		Points: len(d.Labels),
		YMin:   yMin,
		YMax:   yMax,
		Raw:    true,
	})
	if err != nil {
		return nil, nil, err
	}
	return ctrl, renderer, nil
}

// SampleRaceData generates a deterministic demo data set, for trying the
// race command without an input file.
func SampleRaceData(points int) *RaceData {
	d := &RaceData{
		Names: []string{"Product A", "Product B", "Product C", "Product D"},
		Rows:  make([][]float64, 4),
	}
	drifts := []float64{1.5, 1.2, 1.0, 0.8}
	for i := 0; i < points; i++ {
		d.Labels = append(d.Labels, strconv.Itoa(i))
		for s := range d.Rows {
			prev := 0.0
			if i > 0 {
				prev = d.Rows[s][i-1]
			}
			wobble := 2 * math.Sin(float64(i)*0.7+float64(s)*1.3)
			d.Rows[s] = append(d.Rows[s], prev+drifts[s]+wobble)
		}
	}
	return d
}
