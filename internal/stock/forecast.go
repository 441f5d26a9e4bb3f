package stock

import (
	"time"

	"github.com/hwwwwwdt/stock-predictor/internal/provider"
)

var epoch = time.Date(1970, time.January, 1, 0, 0, 0, 0, time.UTC)

// ordinal maps a calendar date to a day count so that equal calendar spacing
// maps to equal numeric spacing. This is the model's sole feature.
func ordinal(t time.Time) int {
	return int(t.UTC().Sub(epoch).Hours() / 24)
}

// ForecastPrices fits price = slope*ordinal + intercept over the trimmed
// history window and projects the line onto the next `days` business days
// after the last observation. Saturdays and Sundays are skipped; market
// holidays are not, so a holiday may still receive a forecast point.
//
// The fit needs at least two distinct dates; otherwise ErrDegenerateModel is
// returned.
func ForecastPrices(window []provider.Bar, days int) ([]PricePoint, error) {
	xs := make([]float64, len(window))
	ys := make([]float64, len(window))
	distinct := make(map[int]struct{}, len(window))
	for i, b := range window {
		o := ordinal(b.Date)
		distinct[o] = struct{}{}
		xs[i] = float64(o)
		ys[i] = b.Close
	}
	if len(distinct) < 2 {
		return nil, ErrDegenerateModel
	}

	slope, intercept := fitLine(xs, ys)

	out := make([]PricePoint, 0, days)
	day := window[len(window)-1].Date
	for len(out) < days {
		day = day.AddDate(0, 0, 1)
		if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		price := slope*float64(ordinal(day)) + intercept
		out = append(out, PricePoint{Date: day.Format(dateLayout), Price: round2(price)})
	}
	return out, nil
}

// fitLine computes the least-squares degree-1 fit in centered form, which
// keeps the arithmetic stable for large day ordinals.
func fitLine(xs, ys []float64) (slope, intercept float64) {
	n := float64(len(xs))
	var xMean, yMean float64
	for i := range xs {
		xMean += xs[i]
		yMean += ys[i]
	}
	xMean /= n
	yMean /= n

	var num, den float64
	for i := range xs {
		dx := xs[i] - xMean
		num += dx * (ys[i] - yMean)
		den += dx * dx
	}
	slope = num / den
	intercept = yMean - slope*xMean
	return slope, intercept
}
