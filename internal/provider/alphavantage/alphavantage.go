package alphavantage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/hwwwwwdt/stock-predictor/internal/httpx"
	"github.com/hwwwwwdt/stock-predictor/internal/provider"
)

type Config struct {
	Name    string
	BaseURL string
	APIKey  string
}

// Client implements provider.Provider using the Alpha Vantage query API.
// Quotes come from GLOBAL_QUOTE, history from TIME_SERIES_DAILY. Alpha
// Vantage does not report currency or display name, so those snapshot fields
// stay empty and the core's defaults apply.
type Client struct {
	cfg    Config
	client *httpx.Client
}

func New(cfg Config, hc *httpx.Client) *Client {
	if cfg.Name == "" {
		cfg.Name = "AlphaVantage"
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://www.alphavantage.co"
	}
	return &Client{cfg: cfg, client: hc}
}

var _ provider.Provider = (*Client)(nil)

func (c *Client) Name() string { return c.cfg.Name }

func (c *Client) query(ctx context.Context, params url.Values) ([]byte, error) {
	params.Set("apikey", c.cfg.APIKey)
	u := c.cfg.BaseURL + "/query?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("alphavantage fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("alphavantage read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("alphavantage: status %d: %s", resp.StatusCode, string(body))
	}
	return body, nil
}

type globalQuoteResponse struct {
	GlobalQuote struct {
		Symbol        string `json:"01. symbol"`
		Price         string `json:"05. price"`
		PreviousClose string `json:"08. previous close"`
	} `json:"Global Quote"`
	Note string `json:"Note"`
}

func (c *Client) Quote(ctx context.Context, ticker string) (provider.Snapshot, error) {
	body, err := c.query(ctx, url.Values{
		"function": {"GLOBAL_QUOTE"},
		"symbol":   {ticker},
	})
	if err != nil {
		return provider.Snapshot{}, err
	}

	var data globalQuoteResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return provider.Snapshot{}, fmt.Errorf("alphavantage decode: %w", err)
	}
	if data.Note != "" {
		return provider.Snapshot{}, fmt.Errorf("alphavantage api limit: %s", data.Note)
	}

	var snap provider.Snapshot
	if p, err := strconv.ParseFloat(data.GlobalQuote.Price, 64); err == nil {
		snap.Price = &p
	}
	if pc, err := strconv.ParseFloat(data.GlobalQuote.PreviousClose, 64); err == nil {
		snap.PreviousClose = &pc
	}
	// An unknown ticker yields an empty Global Quote object, which leaves the
	// snapshot empty and lets the core reject it.
	return snap, nil
}

type dailySeriesResponse struct {
	Series map[string]struct {
		Close string `json:"4. close"`
	} `json:"Time Series (Daily)"`
	Note string `json:"Note"`
}

func (c *Client) History(ctx context.Context, ticker string, months int) ([]provider.Bar, error) {
	body, err := c.query(ctx, url.Values{
		"function":   {"TIME_SERIES_DAILY"},
		"symbol":     {ticker},
		"outputsize": {"compact"},
	})
	if err != nil {
		return nil, err
	}

	var data dailySeriesResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("alphavantage decode: %w", err)
	}
	if data.Note != "" {
		return nil, fmt.Errorf("alphavantage api limit: %s", data.Note)
	}

	cutoff := time.Now().UTC().AddDate(0, -months, 0)
	bars := make([]provider.Bar, 0, len(data.Series))
	for ds, day := range data.Series {
		d, err := time.Parse("2006-01-02", ds)
		if err != nil || d.Before(cutoff) {
			continue
		}
		close, err := strconv.ParseFloat(day.Close, 64)
		if err != nil {
			continue
		}
		bars = append(bars, provider.Bar{Date: d, Close: close})
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
	return bars, nil
}
