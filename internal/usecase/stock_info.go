package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"StockCast/internal/domain/models"
	domrepo "StockCast/internal/domain/repository"
	applogger "StockCast/pkg/logger"
)

// ErrInvalidTicker means the ticker is not part of the tradable universe.
var ErrInvalidTicker = errors.New("invalid ticker")

const (
	StageInitialize = "initialize"
	StagePredict    = "predict"
)

// StageError tags a failure with the pipeline stage it happened in.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("%s: %v", e.Stage, e.Err) }

func (e *StageError) Unwrap() error { return e.Err }

// StockInfoUseCase validates a ticker, obtains its trained system and
// produces the served forecast.
type StockInfoUseCase struct {
	universe domrepo.TickerUniverse
	registry *Registry
	pub      domrepo.ForecastPublisher
	metrics  domrepo.Metrics
	l        *applogger.Logger
}

func NewStockInfoUseCase(universe domrepo.TickerUniverse, registry *Registry, pub domrepo.ForecastPublisher, metrics domrepo.Metrics, l *applogger.Logger) *StockInfoUseCase {
	return &StockInfoUseCase{universe: universe, registry: registry, pub: pub, metrics: metrics, l: l}
}

// NormalizeTicker trims and upper-cases a raw ticker.
func NormalizeTicker(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// StockInfo returns the latest close and the horizon forecasts for ticker.
func (uc *StockInfoUseCase) StockInfo(ctx context.Context, ticker string) (*models.StockInfo, error) {
	ticker, err := uc.admit(ctx, ticker)
	if err != nil {
		return nil, err
	}

	sys, err := uc.registry.Get(ctx, ticker)
	if err != nil {
		return nil, &StageError{Stage: StageInitialize, Err: err}
	}
	return uc.serve(ctx, sys)
}

// Refresh retrains ticker on the latest data and serves the new forecast.
func (uc *StockInfoUseCase) Refresh(ctx context.Context, ticker string) (*models.StockInfo, error) {
	ticker, err := uc.admit(ctx, ticker)
	if err != nil {
		return nil, err
	}

	sys, err := uc.registry.Refresh(ctx, ticker)
	if err != nil {
		return nil, &StageError{Stage: StageInitialize, Err: err}
	}
	return uc.serve(ctx, sys)
}

// Stats reports how many models are cached and how large the universe is.
func (uc *StockInfoUseCase) Stats(ctx context.Context) (cached, tickers int, err error) {
	tickers, err = uc.universe.Size(ctx)
	return uc.registry.Len(), tickers, err
}

func (uc *StockInfoUseCase) admit(ctx context.Context, raw string) (string, error) {
	ticker := NormalizeTicker(raw)
	ok, err := uc.universe.Contains(ctx, ticker)
	if err != nil {
		return "", fmt.Errorf("ticker lookup: %w", err)
	}
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrInvalidTicker, ticker)
	}
	return ticker, nil
}

func (uc *StockInfoUseCase) serve(ctx context.Context, sys *PredictionSystem) (*models.StockInfo, error) {
	ticker := sys.Ticker()
	fc, err := sys.PredictFuturePrices()
	if err != nil {
		uc.recordError(StagePredict)
		return nil, &StageError{Stage: StagePredict, Err: err}
	}
	last, err := sys.LatestRow()
	if err != nil {
		uc.recordError(StagePredict)
		return nil, &StageError{Stage: StagePredict, Err: err}
	}

	if uc.metrics != nil {
		uc.metrics.RecordForecast(ticker)
		uc.metrics.RecordLastPrice(ticker, last.Close)
	}
	uc.publish(ctx, sys, last.Close, fc)

	return &models.StockInfo{
		Ticker:            ticker,
		Price:             last.Close,
		FuturePredictions: fc,
	}, nil
}

func (uc *StockInfoUseCase) publish(ctx context.Context, sys *PredictionSystem, price float64, fc models.Forecast) {
	if uc.pub == nil {
		return
	}
	sel, err := sys.Selection()
	if err != nil {
		return
	}
	values := make(map[string]float64, len(fc))
	for _, h := range fc {
		values[h.Label] = h.Value
	}
	ev := &models.ForecastEvent{
		Ticker:    sys.Ticker(),
		Price:     price,
		Model:     string(sel.Kind),
		Score:     sel.Score,
		Forecasts: values,
		Timestamp: time.Now().UTC(),
	}
	if err := uc.pub.Publish(ctx, ev); err != nil {
		uc.recordError("publish")
		if uc.l != nil {
			uc.l.Warn("forecast publish failed", applogger.String("ticker", sys.Ticker()), applogger.Error(err))
		}
	}
}

func (uc *StockInfoUseCase) recordError(kind string) {
	if uc.metrics != nil {
		uc.metrics.RecordError(kind)
	}
}
