package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"StockCast/internal/domain/models"
	applogger "StockCast/pkg/logger"

	"golang.org/x/sync/singleflight"
)

// DefaultInitTimeout bounds one load-and-train run when SystemDeps leaves it unset.
const DefaultInitTimeout = 2 * time.Minute

// Registry keeps one initialized PredictionSystem per ticker for the life of
// the process. Concurrent first requests for a ticker share a single
// initialization; failed initializations are not kept.
type Registry struct {
	deps SystemDeps
	l    *applogger.Logger

	timeout time.Duration

	mu      sync.RWMutex
	systems map[string]*PredictionSystem
	group   singleflight.Group
}

func NewRegistry(deps SystemDeps) *Registry {
	timeout := deps.InitTimeout
	if timeout <= 0 {
		timeout = DefaultInitTimeout
	}
	return &Registry{
		deps:    deps,
		l:       deps.Logger,
		timeout: timeout,
		systems: make(map[string]*PredictionSystem),
	}
}

// Get returns the cached system for ticker, building it on first use.
func (r *Registry) Get(ctx context.Context, ticker string) (*PredictionSystem, error) {
	if s, ok := r.lookup(ticker); ok {
		return s, nil
	}
	s, shared, err := r.flight(ctx, initKey(ticker), func(ictx context.Context) (*PredictionSystem, error) {
		if s, ok := r.lookup(ticker); ok {
			return s, nil
		}
		s := NewPredictionSystem(ticker, r.deps)
		if err := s.Initialize(ictx); err != nil {
			return nil, err
		}
		r.mu.Lock()
		r.systems[ticker] = s
		r.mu.Unlock()
		return s, nil
	})
	if err != nil {
		return nil, fmt.Errorf("initialize %s: %w", ticker, err)
	}
	if shared && r.l != nil {
		r.l.Debug("registry shared initialization", applogger.String("ticker", ticker))
	}
	return s, nil
}

// Refresh re-initializes the cached system for ticker, or builds it if absent.
func (r *Registry) Refresh(ctx context.Context, ticker string) (*PredictionSystem, error) {
	s, ok := r.lookup(ticker)
	if !ok {
		return r.Get(ctx, ticker)
	}
	s, _, err := r.flight(ctx, refreshKey(ticker), func(ictx context.Context) (*PredictionSystem, error) {
		if err := s.Initialize(ictx); err != nil {
			return nil, err
		}
		return s, nil
	})
	if err != nil {
		return nil, fmt.Errorf("refresh %s: %w", ticker, err)
	}
	return s, nil
}

// flight runs fn once per key. fn gets a context detached from the caller
// and bounded by the init timeout, so one caller leaving does not cancel the
// work other callers wait on. A caller whose ctx ends stops waiting early.
func (r *Registry) flight(ctx context.Context, key string, fn func(context.Context) (*PredictionSystem, error)) (*PredictionSystem, bool, error) {
	ch := r.group.DoChan(key, func() (interface{}, error) {
		ictx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.timeout)
		defer cancel()
		return fn(ictx)
	})
	select {
	case <-ctx.Done():
		return nil, false, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Shared, res.Err
		}
		s, ok := res.Val.(*PredictionSystem)
		if !ok || s == nil {
			return nil, res.Shared, fmt.Errorf("%s: %w", key, models.ErrNotInitialized)
		}
		return s, res.Shared, nil
	}
}

func initKey(ticker string) string    { return "init:" + ticker }
func refreshKey(ticker string) string { return "refresh:" + ticker }

// Len returns the number of cached systems.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.systems)
}

// Tickers lists the cached tickers.
func (r *Registry) Tickers() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.systems))
	for t := range r.systems {
		out = append(out, t)
	}
	return out
}

func (r *Registry) lookup(ticker string) (*PredictionSystem, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.systems[ticker]
	return s, ok
}
