package fetch

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"sipreel/internal/series"
)

// Func fetches one asset's monthly price history.
type Func func(ctx context.Context) ([]series.Point, error)

// candleResp mirrors the moneycontrol/investing candle history response
// (trimmed to needed fields).
type candleResp struct {
	T []int64   `json:"t"`
	C []float64 `json:"c"`
}

// zerodhaResp mirrors the Zerodha fund house index history response
// (trimmed to needed fields).
type zerodhaResp struct {
	Data struct {
		Points []struct {
			TS  string  `json:"ts"`
			Val float64 `json:"val"`
		} `json:"points"`
	} `json:"data"`
}

// Nifty fetches the NIFTY index history (INR) from moneycontrol and
// downsamples it to monthly closes.
func Nifty(ctx context.Context) ([]series.Point, error) {
	q := url.Values{}
	q.Set("symbol", "in;NSX")
	q.Set("resolution", "1D")
	q.Set("to", fmt.Sprint(time.Now().Unix()))
	q.Set("countback", "10000")
	u := "https://priceapi.moneycontrol.com/techCharts/indianMarket/index/history?" + q.Encode()

	var resp candleResp
	if err := getJSON(ctx, u, nil, &resp); err != nil {
		return nil, fmt.Errorf("fetch nifty: %w", err)
	}
	pts := monthlyLast(resp.T, resp.C)
	if len(pts) == 0 {
		return nil, fmt.Errorf("fetch nifty: no data")
	}
	return pts, nil
}

// ZerodhaIndex fetches a Zerodha fund house index (e.g. GOLD995, SILVER) as
// monthly closes. The feed is already aggregated; points arrive with full
// timestamps and collapse to the last value of each month.
func ZerodhaIndex(code string) Func {
	return func(ctx context.Context) ([]series.Point, error) {
		q := url.Values{}
		q.Set("code", code)
		q.Set("duration", "max")
		q.Set("aggregate", "true")
		u := "https://api.zerodhafundhouse.com/api/v1/index/historical?" + q.Encode()

		var resp zerodhaResp
		if err := getJSON(ctx, u, nil, &resp); err != nil {
			return nil, fmt.Errorf("fetch %s: %w", code, err)
		}
		var out []series.Point
		for _, p := range resp.Data.Points {
			if p.Val <= 0 {
				continue
			}
			t, err := parseZerodhaTime(p.TS)
			if err != nil {
				return nil, fmt.Errorf("fetch %s: %w", code, err)
			}
			mo := series.MonthOf(t)
			if len(out) > 0 && out[len(out)-1].Month == mo {
				out[len(out)-1].Price = p.Val
				continue
			}
			out = append(out, series.Point{Month: mo, Price: p.Val})
		}
		if len(out) == 0 {
			return nil, fmt.Errorf("fetch %s: no data", code)
		}
		return out, nil
	}
}

func parseZerodhaTime(s string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", time.RFC3339, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// InvestingMonthly fetches a monthly-resolution history from the
// investing.com TV candle endpoint for the given numeric symbol id. The
// session token inside the URL expires; fetch failures fall back to the CSV
// cache upstream.
func InvestingMonthly(token string, symbolID string) Func {
	return func(ctx context.Context) ([]series.Point, error) {
		u := fmt.Sprintf("https://tvc4.investing.com/%s/0/56/56/23/history?symbol=%s&resolution=M&from=%d&to=%d",
			token, symbolID, time.Date(1996, 7, 1, 0, 0, 0, 0, time.UTC).Unix(), time.Now().Unix())
		headers := map[string]string{"Referer": "https://www.investing.com/"}

		var resp candleResp
		if err := getJSON(ctx, u, headers, &resp); err != nil {
			return nil, fmt.Errorf("fetch investing %s: %w", symbolID, err)
		}
		pts := monthlyLast(resp.T, resp.C)
		if len(pts) == 0 {
			return nil, fmt.Errorf("fetch investing %s: no data", symbolID)
		}
		return pts, nil
	}
}
