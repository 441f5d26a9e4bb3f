package provider

import (
	"context"
	"time"
)

// Snapshot is a raw current-quote payload as decoded at the upstream
// boundary. Optional fields stay nil when the upstream omitted them; a fully
// zero Snapshot means the upstream knew nothing about the ticker.
type Snapshot struct {
	Price         *float64
	PreviousClose *float64
	Currency      string
	ShortName     string
}

// Empty reports whether the upstream returned nothing usable.
func (s Snapshot) Empty() bool {
	return s.Price == nil && s.PreviousClose == nil && s.Currency == "" && s.ShortName == ""
}

// Bar is a single daily closing-price observation. Date is at midnight UTC.
type Bar struct {
	Date  time.Time
	Close float64
}

// Provider supplies current quote snapshots and daily closing-price history
// for a ticker. History covers at least the requested number of calendar
// months of daily bars.
//
//go:generate mockgen -package=stock_test -destination=../stock/mock_provider_test.go -source=provider.go Provider
type Provider interface {
	Name() string
	Quote(ctx context.Context, ticker string) (Snapshot, error)
	History(ctx context.Context, ticker string, months int) ([]Bar, error)
}
