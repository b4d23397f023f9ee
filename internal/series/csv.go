package series

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
)

// WriteCSV writes the merged series as "month,<ASSET>..." rows. The cache is
// what lets a render proceed when every data source is down.
func (a *Aligned) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	header := append([]string{"month"}, a.Assets...)
	if err := cw.Write(header); err != nil {
		return err
	}
	for i, mo := range a.Months {
		rec := make([]string, 0, len(a.Assets)+1)
		rec = append(rec, mo.Key())
		for _, row := range a.Prices {
			rec = append(rec, strconv.FormatFloat(row[i], 'f', -1, 64))
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV reads back what WriteCSV wrote.
func ReadCSV(r io.Reader) (*Aligned, error) {
	cr := csv.NewReader(r)
	recs, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("series: read csv: %w", err)
	}
	if len(recs) < 2 {
		return nil, fmt.Errorf("series: csv has no data rows")
	}
	header := recs[0]
	if len(header) < 2 || header[0] != "month" {
		return nil, fmt.Errorf("series: unexpected csv header %v", header)
	}
	assets := header[1:]
	out := &Aligned{
		Assets: assets,
		Prices: make([][]float64, len(assets)),
	}
	var prev Month
	for n, rec := range recs[1:] {
		if len(rec) != len(header) {
			return nil, fmt.Errorf("series: csv row %d has %d fields, want %d", n+2, len(rec), len(header))
		}
		mo, err := ParseMonth(rec[0])
		if err != nil {
			return nil, err
		}
		if n > 0 && !prev.Before(mo) {
			return nil, fmt.Errorf("series: csv months not strictly increasing at %s", rec[0])
		}
		prev = mo
		out.Months = append(out.Months, mo)
		for i, field := range rec[1:] {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("series: csv row %d, %s: %w", n+2, assets[i], err)
			}
			out.Prices[i] = append(out.Prices[i], v)
		}
	}
	return out, nil
}

// SaveFile writes the series to path, creating parent directories.
func (a *Aligned) SaveFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := a.WriteCSV(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// LoadFile reads a cached series from path.
func LoadFile(path string) (*Aligned, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadCSV(f)
}
