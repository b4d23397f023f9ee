// Package sip computes the value of a fixed monthly investment applied to
// aligned price histories: each month's contribution grows independently by
// the ratio of the current price over the price on its investment date.
package sip

import (
	"errors"
	"fmt"
	"math"

	"sipreel/internal/series"
)

// ErrEmptySeries is returned when there is nothing to value.
var ErrEmptySeries = errors.New("sip: empty series")

// InvalidPriceError reports a non-positive or non-finite price, for which a
// growth ratio is undefined.
type InvalidPriceError struct {
	Asset string
	Index int
	Price float64
}

func (e *InvalidPriceError) Error() string {
	return fmt.Sprintf("sip: invalid price %g for %s at index %d", e.Price, e.Asset, e.Index)
}

// MisalignedSeriesError reports an asset whose price row does not match the
// aligned month count.
type MisalignedSeriesError struct {
	Asset string
	Got   int
	Want  int
}

func (e *MisalignedSeriesError) Error() string {
	return fmt.Sprintf("sip: %s has %d prices, want %d", e.Asset, e.Got, e.Want)
}

// Valuation holds the portfolio value of the periodic investment for every
// asset at every month, plus the capital invested so far. It is computed
// once per run and read-only afterwards.
type Valuation struct {
	Contribution float64
	Assets       []string
	Invested     []float64   // Invested[i] = (i+1) * Contribution
	Values       [][]float64 // Values[a][i], same asset order as the input
}

// Compute values a fixed monthly contribution against every asset in a.
//
// Value at month i is the sum over j <= i of contribution * (price[i] /
// price[j]). The implementation uses the equivalent running form
// value[i] = value[i-1] * (price[i] / price[i-1]) + contribution, which is
// algebraically identical to the double sum.
//
// All inputs are validated before anything is computed, so a bad price
// surfaces before a single frame could be rendered from the result.
func Compute(a *series.Aligned, contribution float64) (*Valuation, error) {
	if a == nil || a.Len() == 0 {
		return nil, ErrEmptySeries
	}
	if contribution <= 0 || math.IsNaN(contribution) || math.IsInf(contribution, 0) {
		return nil, fmt.Errorf("sip: contribution must be a positive amount, got %g", contribution)
	}
	n := a.Len()
	for ai, row := range a.Prices {
		if len(row) != n {
			return nil, &MisalignedSeriesError{Asset: a.Assets[ai], Got: len(row), Want: n}
		}
		for i, p := range row {
			if p <= 0 || math.IsNaN(p) || math.IsInf(p, 0) {
				return nil, &InvalidPriceError{Asset: a.Assets[ai], Index: i, Price: p}
			}
		}
	}

	v := &Valuation{
		Contribution: contribution,
		Assets:       append([]string(nil), a.Assets...),
		Invested:     make([]float64, n),
		Values:       make([][]float64, len(a.Prices)),
	}
	for i := 0; i < n; i++ {
		v.Invested[i] = float64(i+1) * contribution
	}
	for ai, row := range a.Prices {
		vals := make([]float64, n)
		vals[0] = contribution
		for i := 1; i < n; i++ {
			vals[i] = vals[i-1]*(row[i]/row[i-1]) + contribution
		}
		v.Values[ai] = vals
	}
	return v, nil
}
