package series

import (
	"fmt"
	"sort"
	"time"
)

// Month is the period key at which prices are aligned across assets:
// a calendar month with no day component.
type Month struct {
	Year int
	Mon  time.Month
}

// MonthOf returns the month containing t.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Mon: t.Month()}
}

// ParseMonth parses the "2006-01" key form.
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Month{}, fmt.Errorf("parse month %q: %w", s, err)
	}
	return MonthOf(t), nil
}

// Key returns the stable "2006-01" form used in CSV caches.
func (m Month) Key() string { return m.Time().Format("2006-01") }

// Label returns the on-screen "2006 January" form.
func (m Month) Label() string { return m.Time().Format("2006 January") }

func (m Month) Time() time.Time {
	return time.Date(m.Year, m.Mon, 1, 0, 0, 0, 0, time.UTC)
}

func (m Month) Before(x Month) bool { return m.ordinal() < x.ordinal() }

func (m Month) Next() Month {
	return MonthOf(m.Time().AddDate(0, 1, 0))
}

func (m Month) IsZero() bool { return m.Year == 0 && m.Mon == 0 }

func (m Month) ordinal() int { return m.Year*12 + int(m.Mon) - 1 }

// Point is one monthly price observation.
type Point struct {
	Month Month
	Price float64
}

// Named is a raw per-asset series as delivered by a data source.
// Points may be unordered and may contain several observations per month.
type Named struct {
	Name   string
	Points []Point
}

// Aligned is the inner-joined, month-ordered price history shared by all
// compared assets. Months are strictly increasing with no duplicates, and
// every asset has exactly one price per month.
type Aligned struct {
	Months []Month
	Assets []string
	Prices [][]float64 // Prices[a][i] is the price of Assets[a] at Months[i]
}

// Len returns the number of aligned months.
func (a *Aligned) Len() int { return len(a.Months) }

// Merge inner-joins the given series on month. Several observations within
// one month collapse to the last one in chronological order, matching the
// monthly "last" aggregation of the data sources.
func Merge(named ...Named) (*Aligned, error) {
	if len(named) == 0 {
		return nil, fmt.Errorf("series: no series to merge")
	}

	byAsset := make([]map[Month]float64, len(named))
	for i, n := range named {
		if len(n.Points) == 0 {
			return nil, fmt.Errorf("series: %s has no points", n.Name)
		}
		pts := make([]Point, len(n.Points))
		copy(pts, n.Points)
		sort.SliceStable(pts, func(a, b int) bool { return pts[a].Month.Before(pts[b].Month) })
		m := make(map[Month]float64, len(pts))
		for _, p := range pts {
			m[p.Month] = p.Price // later observation wins
		}
		byAsset[i] = m
	}

	// months present in every asset
	var common []Month
	for mo := range byAsset[0] {
		in := true
		for _, m := range byAsset[1:] {
			if _, ok := m[mo]; !ok {
				in = false
				break
			}
		}
		if in {
			common = append(common, mo)
		}
	}
	if len(common) == 0 {
		return nil, fmt.Errorf("series: no overlapping months across %d series", len(named))
	}
	sort.Slice(common, func(i, j int) bool { return common[i].Before(common[j]) })

	out := &Aligned{
		Months: common,
		Assets: make([]string, len(named)),
		Prices: make([][]float64, len(named)),
	}
	for i, n := range named {
		out.Assets[i] = n.Name
		row := make([]float64, len(common))
		for j, mo := range common {
			row[j] = byAsset[i][mo]
		}
		out.Prices[i] = row
	}
	return out, nil
}

// Clip drops all months before from. A zero or too-early from leaves the
// series untouched; clipping past the end is an error.
func (a *Aligned) Clip(from Month) (*Aligned, error) {
	if from.IsZero() || len(a.Months) == 0 || !a.Months[0].Before(from) {
		return a, nil
	}
	start := sort.Search(len(a.Months), func(i int) bool { return !a.Months[i].Before(from) })
	if start == len(a.Months) {
		return nil, fmt.Errorf("series: no data at or after %s", from.Key())
	}
	out := &Aligned{
		Months: a.Months[start:],
		Assets: a.Assets,
		Prices: make([][]float64, len(a.Prices)),
	}
	for i, row := range a.Prices {
		out.Prices[i] = row[start:]
	}
	return out, nil
}
