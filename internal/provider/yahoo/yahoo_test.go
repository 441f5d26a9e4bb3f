package yahoo_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hwwwwwdt/stock-predictor/internal/httpx"
	"github.com/hwwwwwdt/stock-predictor/internal/provider/yahoo"
)

func newClient(t *testing.T, handler http.HandlerFunc) *yahoo.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return yahoo.New(yahoo.Config{BaseURL: srv.URL}, httpx.New(5*time.Second))
}

func TestQuote_ReadsChartMeta(t *testing.T) {
	t.Parallel()

	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v8/finance/chart/AAPL", r.URL.Path)
		require.Equal(t, "1d", r.URL.Query().Get("range"))
		fmt.Fprint(w, `{"chart":{"result":[{"meta":{
			"currency":"USD","shortName":"Apple Inc.",
			"regularMarketPrice":150.25,"chartPreviousClose":148.0}}]}}`)
	})

	snap, err := c.Quote(t.Context(), "AAPL")
	require.NoError(t, err)
	require.NotNil(t, snap.Price)
	require.Equal(t, 150.25, *snap.Price)
	require.NotNil(t, snap.PreviousClose)
	require.Equal(t, 148.0, *snap.PreviousClose)
	require.Equal(t, "USD", snap.Currency)
	require.Equal(t, "Apple Inc.", snap.ShortName)
}

func TestQuote_SparseMetaYieldsEmptySnapshot(t *testing.T) {
	t.Parallel()

	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"chart":{"result":[{"meta":{}}]}}`)
	})

	snap, err := c.Quote(t.Context(), "NOPE")
	require.NoError(t, err)
	require.True(t, snap.Empty())
}

func TestHistory_SkipsNullBarsAndNormalizesDates(t *testing.T) {
	t.Parallel()

	// three trading days, the middle one a null bar (holiday)
	ts := []int64{
		time.Date(2024, time.January, 2, 14, 30, 0, 0, time.UTC).Unix(),
		time.Date(2024, time.January, 3, 14, 30, 0, 0, time.UTC).Unix(),
		time.Date(2024, time.January, 4, 14, 30, 0, 0, time.UTC).Unix(),
	}
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "3mo", r.URL.Query().Get("range"))
		fmt.Fprintf(w, `{"chart":{"result":[{
			"timestamp":[%d,%d,%d],
			"indicators":{"quote":[{"close":[185.64,null,181.91]}]}}]}}`,
			ts[0], ts[1], ts[2])
	})

	bars, err := c.History(t.Context(), "AAPL", 3)
	require.NoError(t, err)
	require.Len(t, bars, 2)
	require.Equal(t, time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC), bars[0].Date)
	require.Equal(t, 185.64, bars[0].Close)
	require.Equal(t, time.Date(2024, time.January, 4, 0, 0, 0, 0, time.UTC), bars[1].Date)
}

func TestHistory_EmptyResultSet(t *testing.T) {
	t.Parallel()

	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"chart":{"result":[{"timestamp":[],"indicators":{"quote":[{"close":[]}]}}]}}`)
	})

	bars, err := c.History(t.Context(), "AAPL", 3)
	require.NoError(t, err)
	require.Empty(t, bars)
}

func TestFetch_SurfacesAPIError(t *testing.T) {
	t.Parallel()

	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`)
	})

	_, err := c.Quote(t.Context(), "XXXX")
	require.ErrorContains(t, err, "symbol may be delisted")
}

func TestFetch_SurfacesHTTPError(t *testing.T) {
	t.Parallel()

	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
	})

	_, err := c.History(t.Context(), "AAPL", 3)
	require.ErrorContains(t, err, "status 429")
}
