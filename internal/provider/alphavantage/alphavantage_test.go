package alphavantage_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hwwwwwdt/stock-predictor/internal/httpx"
	"github.com/hwwwwwdt/stock-predictor/internal/provider/alphavantage"
)

func newClient(t *testing.T, handler http.HandlerFunc) *alphavantage.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return alphavantage.New(alphavantage.Config{BaseURL: srv.URL, APIKey: "demo"}, httpx.New(5*time.Second))
}

func TestQuote_ParsesGlobalQuote(t *testing.T) {
	t.Parallel()

	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "GLOBAL_QUOTE", r.URL.Query().Get("function"))
		require.Equal(t, "demo", r.URL.Query().Get("apikey"))
		fmt.Fprint(w, `{"Global Quote":{"01. symbol":"AAPL","05. price":"150.2500","08. previous close":"148.0000"}}`)
	})

	snap, err := c.Quote(t.Context(), "AAPL")
	require.NoError(t, err)
	require.NotNil(t, snap.Price)
	require.Equal(t, 150.25, *snap.Price)
	require.NotNil(t, snap.PreviousClose)
	require.Equal(t, 148.0, *snap.PreviousClose)
}

func TestQuote_UnknownTickerIsEmptySnapshot(t *testing.T) {
	t.Parallel()

	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"Global Quote":{}}`)
	})

	snap, err := c.Quote(t.Context(), "XXXX")
	require.NoError(t, err)
	require.True(t, snap.Empty())
}

func TestQuote_APILimitIsAnError(t *testing.T) {
	t.Parallel()

	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"Note":"Thank you for using Alpha Vantage! Our standard API rate limit is 25 requests per day."}`)
	})

	_, err := c.Quote(t.Context(), "AAPL")
	require.ErrorContains(t, err, "api limit")
}

func TestHistory_FiltersToLookbackWindow(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	recent1 := now.AddDate(0, 0, -10).Format("2006-01-02")
	recent2 := now.AddDate(0, 0, -5).Format("2006-01-02")
	stale := now.AddDate(0, -6, 0).Format("2006-01-02")

	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "TIME_SERIES_DAILY", r.URL.Query().Get("function"))
		fmt.Fprintf(w, `{"Time Series (Daily)":{
			%q:{"4. close":"101.5000"},
			%q:{"4. close":"99.2500"},
			%q:{"4. close":"50.0000"}}}`, recent2, recent1, stale)
	})

	bars, err := c.History(t.Context(), "AAPL", 3)
	require.NoError(t, err)
	require.Len(t, bars, 2)
	require.Equal(t, 99.25, bars[0].Close) // ascending order
	require.Equal(t, 101.5, bars[1].Close)
}
