package stock

import (
	"sort"
	"strings"
	"time"

	"github.com/hwwwwwdt/stock-predictor/internal/provider"
)

const dateLayout = "2006-01-02"

// NormalizePriceHistory trims a raw daily series to the trailing maxDays
// observations and converts it to chronologically ascending price points.
// Duplicate dates collapse to the last value seen. The second return value is
// the trimmed window itself, which feeds the forecaster. A shorter series
// than maxDays is fine; an empty one is a not-found condition.
func NormalizePriceHistory(ticker string, bars []provider.Bar, maxDays int) ([]PricePoint, []provider.Bar, error) {
	if len(bars) == 0 {
		return nil, nil, &NotFoundError{Ticker: strings.ToUpper(ticker), Reason: "no historical data for ticker"}
	}

	sorted := make([]provider.Bar, len(bars))
	copy(sorted, bars)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	window := make([]provider.Bar, 0, len(sorted))
	for _, b := range sorted {
		if n := len(window); n > 0 && sameDay(window[n-1].Date, b.Date) {
			window[n-1] = b
			continue
		}
		window = append(window, b)
	}
	if len(window) > maxDays {
		window = window[len(window)-maxDays:]
	}

	points := make([]PricePoint, len(window))
	for i, b := range window {
		points[i] = PricePoint{Date: b.Date.Format(dateLayout), Price: round2(b.Close)}
	}
	return points, window, nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
