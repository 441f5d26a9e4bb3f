package main

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/hwwwwwdt/stock-predictor/internal/config"
	"github.com/hwwwwwdt/stock-predictor/internal/httpx"
	"github.com/hwwwwwdt/stock-predictor/internal/provider"
	"github.com/hwwwwwdt/stock-predictor/internal/provider/alphavantage"
	"github.com/hwwwwwdt/stock-predictor/internal/provider/ratelimit"
	"github.com/hwwwwwdt/stock-predictor/internal/provider/yahoo"
	"github.com/hwwwwwdt/stock-predictor/internal/stock"
)

type errorResponse struct {
	Status string `json:"status"`
	Detail string `json:"detail"`
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	timeout := time.Duration(cfg.Server.RequestTimeoutSec) * time.Second
	httpClient := httpx.New(timeout)

	market, err := buildProvider(cfg, httpClient)
	if err != nil {
		log.Fatalf("provider: %v", err)
	}

	svc := stock.NewService(market, stock.Params{
		HistoricalDays:  cfg.Model.HistoricalDays,
		PredictionDays:  cfg.Model.PredictionDays,
		LookbackMonths:  cfg.Model.LookbackMonths,
		DefaultCurrency: cfg.Model.DefaultCurrency,
	})

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			writeError(w, http.StatusNotFound, "not found")
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{
			"status": "success",
			"data":   "stock-predictor is running",
		})
	})
	mux.HandleFunc("GET /api/stock/{ticker}", func(w http.ResponseWriter, r *http.Request) {
		handleGetStock(w, r, svc, timeout)
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           withJSONHeaders(cfg.Server.AllowedOrigins, withGzip(recoverPanic(mux))),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("server listening on :%s (provider=%s)", cfg.Server.Port, market.Name())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server: %v", err)
		}
	}()

	// graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

// buildProvider picks the configured upstream and wraps it with the
// configured rate limiting, preferring a token bucket with burst when an RPM
// is set and falling back to a minimum interval.
func buildProvider(cfg *config.Config, hc *httpx.Client) (provider.Provider, error) {
	var (
		p                    provider.Provider
		rpm, burst, interval int
	)
	switch cfg.Market.Provider {
	case "yahoo":
		p = yahoo.New(yahoo.Config{BaseURL: cfg.Yahoo.BaseURL}, hc)
		rpm, burst, interval = cfg.Yahoo.MaxRequestsPerMinute, cfg.Yahoo.Burst, cfg.Yahoo.MinRequestIntervalSec
	case "alphavantage":
		p = alphavantage.New(alphavantage.Config{
			BaseURL: cfg.AlphaVantage.BaseURL,
			APIKey:  cfg.AlphaVantage.APIKey,
		}, hc)
		rpm, burst, interval = cfg.AlphaVantage.MaxRequestsPerMinute, cfg.AlphaVantage.Burst, cfg.AlphaVantage.MinRequestIntervalSec
	default:
		return nil, fmt.Errorf("unknown market provider %q", cfg.Market.Provider)
	}

	if rpm > 0 {
		rate := float64(rpm) / 60.0
		if burst <= 0 {
			burst = 1
		}
		p = &ratelimit.TokenBucketProvider{P: p, TB: ratelimit.NewTokenBucket(rate, burst)}
	} else if interval > 0 {
		p = &ratelimit.MinInterval{P: p, Interval: time.Duration(interval) * time.Second}
	}
	return p, nil
}

func handleGetStock(w http.ResponseWriter, r *http.Request, svc *stock.Service, timeout time.Duration) {
	ticker := strings.TrimSpace(r.PathValue("ticker"))
	if ticker == "" {
		writeError(w, http.StatusBadRequest, "missing ticker")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	defer cancel()

	resp, err := svc.GetStock(ctx, ticker)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	w.WriteHeader(http.StatusOK)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(resp)
}

// statusFor translates core error kinds into wire status codes. The core
// never emits partial envelopes, so anything unrecognized is an upstream
// fault.
func statusFor(err error) int {
	switch {
	case stock.IsNotFound(err):
		return http.StatusNotFound
	case errors.Is(err, stock.ErrDegenerateModel):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}

func writeError(w http.ResponseWriter, code int, detail string) {
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(errorResponse{Status: "error", Detail: detail})
}

// withJSONHeaders sets the response content type and answers CORS for the
// configured frontend origins.
func withJSONHeaders(allowedOrigins []string, next http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = struct{}{}
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		if origin := r.Header.Get("Origin"); origin != "" {
			if _, ok := allowed[origin]; ok {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Credentials", "true")
				w.Header().Set("Access-Control-Allow-Methods", "GET,OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type,Authorization")
				w.Header().Add("Vary", "Origin")
			}
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withGzip compresses the response when the client supports gzip.
func withGzip(next http.Handler) http.Handler {
	var gzPool = sync.Pool{New: func() any {
		// Best speed keeps CPU low; the payloads are small JSON anyway.
		w, _ := gzip.NewWriterLevel(io.Discard, gzip.BestSpeed)
		return w
	}}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
			next.ServeHTTP(w, r)
			return
		}
		gz := gzPool.Get().(*gzip.Writer)
		gz.Reset(w)
		defer func() {
			_ = gz.Close()
			gz.Reset(io.Discard)
			gzPool.Put(gz)
		}()
		w.Header().Set("Content-Encoding", "gzip")
		w.Header().Add("Vary", "Accept-Encoding")
		next.ServeHTTP(gzipResponseWriter{ResponseWriter: w, Writer: gz}, r)
	})
}

type gzipResponseWriter struct {
	http.ResponseWriter
	Writer io.Writer
}

func (g gzipResponseWriter) Write(b []byte) (int, error) {
	return g.Writer.Write(b)
}

// recoverPanic protects handlers from panics.
func recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("panic serving %s: %v", r.URL.Path, rec)
				writeError(w, http.StatusInternalServerError, "internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}
