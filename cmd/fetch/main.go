package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/hwwwwwdt/stock-predictor/internal/config"
	"github.com/hwwwwwdt/stock-predictor/internal/httpx"
	"github.com/hwwwwwdt/stock-predictor/internal/provider"
	"github.com/hwwwwwdt/stock-predictor/internal/provider/alphavantage"
	"github.com/hwwwwwdt/stock-predictor/internal/provider/yahoo"
	"github.com/hwwwwwdt/stock-predictor/internal/stock"
)

// One-shot pipeline run: resolve a ticker through the same core the server
// uses and print the JSON envelope. Handy for smoke-testing an upstream from
// a shell.
func main() {
	var ticker string
	var timeoutSec int
	flag.StringVar(&ticker, "ticker", "AAPL", "ticker symbol to resolve")
	flag.IntVar(&timeoutSec, "timeout", 15, "request timeout seconds")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	httpClient := httpx.New(time.Duration(timeoutSec) * time.Second)

	var market provider.Provider
	switch cfg.Market.Provider {
	case "yahoo":
		market = yahoo.New(yahoo.Config{BaseURL: cfg.Yahoo.BaseURL}, httpClient)
	case "alphavantage":
		market = alphavantage.New(alphavantage.Config{
			BaseURL: cfg.AlphaVantage.BaseURL,
			APIKey:  cfg.AlphaVantage.APIKey,
		}, httpClient)
	default:
		log.Fatalf("unknown market provider %q", cfg.Market.Provider)
	}

	svc := stock.NewService(market, stock.Params{
		HistoricalDays:  cfg.Model.HistoricalDays,
		PredictionDays:  cfg.Model.PredictionDays,
		LookbackMonths:  cfg.Model.LookbackMonths,
		DefaultCurrency: cfg.Model.DefaultCurrency,
	})

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeoutSec)*time.Second)
	defer cancel()

	resp, err := svc.GetStock(ctx, ticker)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fetch %s: %v\n", ticker, err)
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(resp)
}
