package stock

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/hwwwwwdt/stock-predictor/internal/provider"
)

// Params holds the model constants for one service instance.
type Params struct {
	HistoricalDays  int
	PredictionDays  int
	LookbackMonths  int
	DefaultCurrency string
}

// DefaultParams mirrors the reference model configuration: a 30 trading-day
// window fetched from a 3-month lookback, projected 5 business days out.
func DefaultParams() Params {
	return Params{HistoricalDays: 30, PredictionDays: 5, LookbackMonths: 3, DefaultCurrency: "USD"}
}

// Service runs the quote-and-forecast pipeline against one market data
// provider. It holds no mutable state; concurrent requests are independent.
type Service struct {
	market provider.Provider
	params Params
}

func NewService(market provider.Provider, params Params) *Service {
	return &Service{market: market, params: params}
}

// GetStock answers the one query this system serves: the current quote, the
// trailing closing-price history and a linear-trend forecast for a ticker.
//
// The quote and history reads are independent, so they run concurrently; a
// quote validation failure cancels the sibling fetch. Upstream faults and
// empty answers both surface as the same not-found condition, with no
// retries and no partial responses.
func (s *Service) GetStock(ctx context.Context, ticker string) (Response, error) {
	var (
		quote      Quote
		historical []PricePoint
		window     []provider.Bar
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		snap, err := s.market.Quote(ctx, ticker)
		if err != nil {
			return &NotFoundError{Ticker: strings.ToUpper(ticker), Reason: "ticker not found"}
		}
		quote, err = ValidateQuote(ticker, snap, Defaults{Currency: s.params.DefaultCurrency})
		return err
	})
	g.Go(func() error {
		bars, err := s.market.History(ctx, ticker, s.params.LookbackMonths)
		if err != nil {
			return &NotFoundError{Ticker: strings.ToUpper(ticker), Reason: "no historical data for ticker"}
		}
		historical, window, err = NormalizePriceHistory(ticker, bars, s.params.HistoricalDays)
		return err
	})
	if err := g.Wait(); err != nil {
		return Response{}, err
	}

	predicted, err := ForecastPrices(window, s.params.PredictionDays)
	if err != nil {
		return Response{}, err
	}

	return Response{
		Status: "success",
		Data: ResponseData{
			Stock:      quote,
			Prediction: Prediction{HistoricalData: historical, PredictedData: predicted},
		},
	}, nil
}
