package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"StockCast/internal/domain/models"
	domrepo "StockCast/internal/domain/repository"
	"StockCast/internal/services/features"
	"StockCast/internal/services/forecast"
	"StockCast/internal/services/regression"
	applogger "StockCast/pkg/logger"
	"StockCast/pkg/util"
)

// PredictionSystem owns the feature table and the selected model of one ticker.
type PredictionSystem struct {
	ticker   string
	from     time.Time
	data     domrepo.MarketData
	selector *regression.Selector
	metrics  domrepo.Metrics
	l        *applogger.Logger
	now      func() time.Time

	mu        sync.RWMutex
	table     models.FeatureTable
	selection *regression.Selection
}

// SystemDeps carries the collaborators every PredictionSystem shares.
type SystemDeps struct {
	Data     domrepo.MarketData
	Selector *regression.Selector
	Metrics  domrepo.Metrics
	Logger   *applogger.Logger
	From     time.Time
	// InitTimeout bounds a registry initialization; zero means DefaultInitTimeout.
	InitTimeout time.Duration
}

func NewPredictionSystem(ticker string, deps SystemDeps) *PredictionSystem {
	sel := deps.Selector
	if sel == nil {
		sel = regression.NewSelector()
	}
	return &PredictionSystem{
		ticker:   ticker,
		from:     deps.From,
		data:     deps.Data,
		selector: sel,
		metrics:  deps.Metrics,
		l:        deps.Logger,
		now:      time.Now,
	}
}

// Ticker returns the identifier this system was built for.
func (s *PredictionSystem) Ticker() string { return s.ticker }

// Initialize loads the series, rebuilds features and selects a model. On
// failure the previously selected model, if any, is kept.
func (s *PredictionSystem) Initialize(ctx context.Context) error {
	start := time.Now()
	to := util.MidnightUTC(s.now())

	bars, err := s.data.Bars(ctx, s.ticker, s.from, to)
	if err != nil {
		s.recordError("load")
		return fmt.Errorf("load %s: %w", s.ticker, err)
	}
	if len(bars) == 0 {
		s.recordError("load")
		return fmt.Errorf("load %s: %w", s.ticker, models.ErrNoData)
	}

	table, err := features.Build(bars)
	if err != nil {
		s.recordError("features")
		return fmt.Errorf("features %s: %w", s.ticker, err)
	}

	sel, err := s.selector.Select(table)
	if err != nil {
		s.recordError("train")
		return fmt.Errorf("train %s: %w", s.ticker, err)
	}

	s.mu.Lock()
	s.table = table
	s.selection = sel
	s.mu.Unlock()

	elapsed := time.Since(start)
	if s.metrics != nil {
		s.metrics.RecordTraining(s.ticker, string(sel.Kind), elapsed.Seconds())
		for _, c := range sel.Candidates {
			s.metrics.RecordCandidateScore(s.ticker, string(c.Kind), c.Score)
		}
	}
	if s.l != nil {
		s.l.Info("prediction system initialized",
			applogger.String("ticker", s.ticker),
			applogger.Int("bars", len(bars)),
			applogger.Int("rows", len(table)),
			applogger.String("model", string(sel.Kind)),
			applogger.Float64("r2", sel.Score),
			applogger.Duration("duration_ms", elapsed),
		)
	}
	return nil
}

// Initialized reports whether a model has been selected.
func (s *PredictionSystem) Initialized() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selection != nil
}

// Selection returns the winning model summary.
func (s *PredictionSystem) Selection() (*regression.Selection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.selection == nil {
		return nil, models.ErrNotInitialized
	}
	return s.selection, nil
}

// LatestRow returns the most recent feature row.
func (s *PredictionSystem) LatestRow() (models.FeatureRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	last, ok := s.table.Last()
	if !ok {
		return models.FeatureRow{}, models.ErrNotInitialized
	}
	return last, nil
}

// LatestPredictors returns the predictors of the most recent row.
func (s *PredictionSystem) LatestPredictors() (models.Predictors, error) {
	last, err := s.LatestRow()
	if err != nil {
		return models.Predictors{}, err
	}
	return last.Predictors(), nil
}

// LatestPrice returns the most recent close.
func (s *PredictionSystem) LatestPrice() (float64, error) {
	last, err := s.LatestRow()
	if err != nil {
		return 0, err
	}
	return last.Close, nil
}

// PredictFuturePrices projects the selected model from the latest row.
func (s *PredictionSystem) PredictFuturePrices() (models.Forecast, error) {
	s.mu.RLock()
	sel := s.selection
	last, ok := s.table.Last()
	s.mu.RUnlock()
	if sel == nil || !ok {
		return nil, models.ErrNotInitialized
	}
	return forecast.Project(sel.Model, last.Predictors())
}

func (s *PredictionSystem) recordError(stage string) {
	if s.metrics != nil {
		s.metrics.RecordError(stage)
	}
}
