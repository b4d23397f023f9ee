// Package fetch retrieves monthly price histories from the external data
// providers. Everything here is glue around the providers' JSON endpoints;
// the rendering core only ever sees the merged series.
package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"sipreel/internal/series"
)

var backoffs = []time.Duration{200 * time.Millisecond, 500 * time.Millisecond, 1 * time.Second}

const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// getJSON fetches url and decodes the JSON body into out, retrying with
// backoff on transport errors, 429s and non-JSON bodies.
func getJSON(ctx context.Context, url string, headers map[string]string, out any) error {
	var lastErr error
	for attempt := 0; attempt < len(backoffs)+1; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		req.Header.Set("User-Agent", userAgent)
		req.Header.Set("Accept", "application/json, text/javascript, */*; q=0.01")
		for k, v := range headers {
			req.Header.Set(k, v)
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			lastErr = err
		} else {
			body, readErr := io.ReadAll(resp.Body)
			resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = fmt.Errorf("read response: %w", readErr)
			case resp.StatusCode == http.StatusTooManyRequests:
				lastErr = fmt.Errorf("%s returned 429", req.Host)
			case resp.StatusCode != http.StatusOK:
				lastErr = fmt.Errorf("%s returned %d: %s", req.Host, resp.StatusCode, preview(body))
			case strings.HasPrefix(strings.TrimSpace(string(body)), "<"):
				lastErr = fmt.Errorf("%s returned non-json body: %s", req.Host, preview(body))
			default:
				if err := json.Unmarshal(body, out); err != nil {
					lastErr = fmt.Errorf("parse %s json: %v; body: %s", req.Host, err, preview(body))
				} else {
					return nil
				}
			}
		}
		if attempt < len(backoffs) {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoffs[attempt]):
			}
		}
	}
	return lastErr
}

func preview(body []byte) string {
	s := string(body)
	if len(s) > 120 {
		s = s[:120]
	}
	return s
}

// monthlyLast downsamples a timestamped close series to one point per
// calendar month, keeping the last observation of each month. Non-positive
// closes are dropped the same way raw feeds are cleaned before charting.
func monthlyLast(ts []int64, closes []float64) []series.Point {
	n := len(ts)
	if len(closes) < n {
		n = len(closes)
	}
	var out []series.Point
	for i := 0; i < n; i++ {
		if closes[i] <= 0 {
			continue
		}
		mo := series.MonthOf(time.Unix(ts[i], 0).UTC())
		if len(out) > 0 && out[len(out)-1].Month == mo {
			out[len(out)-1].Price = closes[i]
			continue
		}
		out = append(out, series.Point{Month: mo, Price: closes[i]})
	}
	return out
}
