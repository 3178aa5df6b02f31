package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// YahooFetcher implements Fetcher using Yahoo Finance public chart API.
type YahooFetcher struct {
	Client *http.Client
}

// NewYahooFetcher creates a new Yahoo Finance fetcher.
func NewYahooFetcher(proxyURL string) *YahooFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &YahooFetcher{
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

// yahooChart is the response structure from Yahoo Finance chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Timezone  string `json:"timezone"`
				GMTOffset int    `json:"gmtoffset"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []interface{} `json:"close"`
				} `json:"quote"`
				AdjClose []struct {
					AdjClose []interface{} `json:"adjclose"`
				} `json:"adjclose"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}

// FetchHistory downloads the full daily price history for a ticker.
// The returned index carries the exchange timezone reported by Yahoo.
func (f *YahooFetcher) FetchHistory(ctx context.Context, ticker string) (*RawHistory, error) {
	u := fmt.Sprintf("https://query1.finance.yahoo.com/v8/finance/chart/%s?interval=1d&range=max&events=div%%2Csplit",
		url.PathEscape(ticker))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("yahoo read body: %w", err)
	}
	if resp.StatusCode == http.StatusNotFound {
		// Unknown symbol: no data, not a failure.
		return &RawHistory{}, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode, string(body))
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("yahoo decode: %w", err)
	}
	if chart.Chart.Error != nil {
		if chart.Chart.Error.Code == "Not Found" {
			return &RawHistory{}, nil
		}
		return nil, fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 {
		return &RawHistory{}, nil
	}

	result := chart.Chart.Result[0]

	// Bar timestamps are epoch seconds; present them in the exchange
	// timezone so index normalization is observable downstream.
	loc := time.UTC
	if result.Meta.Timezone != "" {
		if l, err := time.LoadLocation(result.Meta.Timezone); err == nil {
			loc = l
		} else {
			loc = time.FixedZone(result.Meta.Timezone, result.Meta.GMTOffset)
		}
	} else if result.Meta.GMTOffset != 0 {
		loc = time.FixedZone("exchange", result.Meta.GMTOffset)
	}

	var closes, adjCloses []interface{}
	if len(result.Indicators.Quote) > 0 {
		closes = result.Indicators.Quote[0].Close
	}
	if len(result.Indicators.AdjClose) > 0 {
		adjCloses = result.Indicators.AdjClose[0].AdjClose
	}

	hist := &RawHistory{Columns: map[string][]float64{}}
	for i, ts := range result.Timestamp {
		c, cok := 0.0, false
		if i < len(closes) {
			c, cok = toFloat(closes[i])
		}
		a, aok := 0.0, false
		if i < len(adjCloses) {
			a, aok = toFloat(adjCloses[i])
		}
		if !cok && !aok {
			continue // skip null bars (holidays etc.)
		}
		hist.Index = append(hist.Index, time.Unix(ts, 0).In(loc))
		if !cok {
			c = a
		}
		hist.Columns[ColClose] = append(hist.Columns[ColClose], c)
		if adjCloses != nil {
			if !aok {
				a = c
			}
			hist.Columns[ColAdjClose] = append(hist.Columns[ColAdjClose], a)
		}
	}
	if len(hist.Index) == 0 {
		return &RawHistory{}, nil
	}
	return hist, nil
}
