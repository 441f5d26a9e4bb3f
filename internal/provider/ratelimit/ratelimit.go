package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/hwwwwwdt/stock-predictor/internal/provider"
)

// MinInterval wraps a provider and enforces a minimum time between upstream
// calls, shared across both entry points. Concurrent calls wait until the
// interval has elapsed since the last call, or return early when the context
// is canceled.
type MinInterval struct {
	P        provider.Provider
	Interval time.Duration

	mu   sync.Mutex
	last time.Time
}

func (m *MinInterval) Name() string { return m.P.Name() }

func (m *MinInterval) wait(ctx context.Context) error {
	if m.Interval <= 0 {
		return nil
	}
	m.mu.Lock()
	wait := time.Until(m.last.Add(m.Interval))
	m.mu.Unlock()
	if wait > 0 {
		t := time.NewTimer(wait)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
	}
	return nil
}

func (m *MinInterval) touch() {
	if m.Interval <= 0 {
		return
	}
	m.mu.Lock()
	m.last = time.Now()
	m.mu.Unlock()
}

func (m *MinInterval) Quote(ctx context.Context, ticker string) (provider.Snapshot, error) {
	if err := m.wait(ctx); err != nil {
		return provider.Snapshot{}, err
	}
	snap, err := m.P.Quote(ctx, ticker)
	m.touch()
	return snap, err
}

func (m *MinInterval) History(ctx context.Context, ticker string, months int) ([]provider.Bar, error) {
	if err := m.wait(ctx); err != nil {
		return nil, err
	}
	bars, err := m.P.History(ctx, ticker, months)
	m.touch()
	return bars, err
}
