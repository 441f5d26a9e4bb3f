package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/hwwwwwdt/stock-predictor/internal/httpx"
	"github.com/hwwwwwdt/stock-predictor/internal/provider"
)

type Config struct {
	Name    string
	BaseURL string
}

// Client implements provider.Provider using the Yahoo Finance v8 chart API.
type Client struct {
	cfg    Config
	client *httpx.Client
}

func New(cfg Config, hc *httpx.Client) *Client {
	if cfg.Name == "" {
		cfg.Name = "Yahoo"
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://query1.finance.yahoo.com"
	}
	return &Client{cfg: cfg, client: hc}
}

var _ provider.Provider = (*Client)(nil)

func (c *Client) Name() string { return c.cfg.Name }

// chartResponse is the subset of the chart payload we read.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Currency           string   `json:"currency"`
				ShortName          string   `json:"shortName"`
				RegularMarketPrice *float64 `json:"regularMarketPrice"`
				PreviousClose      *float64 `json:"chartPreviousClose"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func (c *Client) fetchChart(ctx context.Context, ticker, interval, rng string) (*chartResponse, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=%s&range=%s",
		c.cfg.BaseURL, url.PathEscape(ticker), interval, rng)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("yahoo read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo: status %d: %s", resp.StatusCode, string(body))
	}

	var chart chartResponse
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("yahoo decode: %w", err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 {
		return nil, fmt.Errorf("yahoo: no data returned")
	}
	return &chart, nil
}

// Quote reads the current-quote fields out of the chart metadata.
func (c *Client) Quote(ctx context.Context, ticker string) (provider.Snapshot, error) {
	chart, err := c.fetchChart(ctx, ticker, "1d", "1d")
	if err != nil {
		return provider.Snapshot{}, err
	}
	meta := chart.Chart.Result[0].Meta
	return provider.Snapshot{
		Price:         meta.RegularMarketPrice,
		PreviousClose: meta.PreviousClose,
		Currency:      meta.Currency,
		ShortName:     meta.ShortName,
	}, nil
}

// rangeForMonths picks the smallest chart range covering the lookback.
func rangeForMonths(months int) string {
	switch {
	case months <= 1:
		return "1mo"
	case months <= 3:
		return "3mo"
	case months <= 6:
		return "6mo"
	case months <= 12:
		return "1y"
	default:
		return "2y"
	}
}

func (c *Client) History(ctx context.Context, ticker string, months int) ([]provider.Bar, error) {
	chart, err := c.fetchChart(ctx, ticker, "1d", rangeForMonths(months))
	if err != nil {
		return nil, err
	}
	result := chart.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, nil
	}
	closes := result.Indicators.Quote[0].Close

	bars := make([]provider.Bar, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(closes) || closes[i] == nil {
			continue // null bars on holidays
		}
		t := time.Unix(ts, 0).UTC()
		bars = append(bars, provider.Bar{
			Date:  time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC),
			Close: *closes[i],
		})
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
	return bars, nil
}
