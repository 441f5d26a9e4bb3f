package stock

import (
	"math"
	"strings"

	"github.com/hwwwwwdt/stock-predictor/internal/provider"
)

// Defaults supplies the fallback values applied to sparse quote snapshots.
type Defaults struct {
	Currency string
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ValidateQuote decides whether a raw snapshot identifies a known ticker and,
// if so, derives the client-facing quote. A snapshot is valid iff it is
// non-empty and carries a live market price; no other field is mandatory.
func ValidateQuote(ticker string, snap provider.Snapshot, def Defaults) (Quote, error) {
	upper := strings.ToUpper(ticker)
	if snap.Empty() || snap.Price == nil {
		return Quote{}, &NotFoundError{Ticker: upper, Reason: "ticker not found"}
	}

	price := *snap.Price
	var previousClose float64
	if snap.PreviousClose != nil {
		previousClose = *snap.PreviousClose
	}

	change := round2(price - previousClose)
	changePercent := 0.0
	if previousClose != 0 {
		changePercent = round2(change / previousClose * 100)
	}

	currency := snap.Currency
	if currency == "" {
		currency = def.Currency
	}
	name := snap.ShortName
	if name == "" {
		name = upper
	}

	return Quote{
		Ticker:        upper,
		Name:          name,
		Price:         price,
		Currency:      currency,
		Change:        change,
		ChangePercent: changePercent,
	}, nil
}
