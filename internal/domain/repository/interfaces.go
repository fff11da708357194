package repository

import (
	"context"
	"time"

	"StockCast/internal/domain/models"
)

// MarketData returns daily bars for a ticker in [from, to), ascending by date.
// An unknown ticker or an empty range yields models.ErrNoData.
type MarketData interface {
	Bars(ctx context.Context, ticker string, from, to time.Time) ([]models.Bar, error)
}

// TickerUniverse answers whether a ticker is tradable.
type TickerUniverse interface {
	Contains(ctx context.Context, ticker string) (bool, error)
	Size(ctx context.Context) (int, error)
}

// ForecastPublisher emits served forecasts to downstream consumers.
type ForecastPublisher interface {
	Publish(ctx context.Context, ev *models.ForecastEvent) error
	Close() error
}

// Metrics records training and serving observations.
type Metrics interface {
	RecordTraining(ticker, winner string, seconds float64)
	RecordCandidateScore(ticker, kind string, r2 float64)
	RecordForecast(ticker string)
	RecordError(kind string)
	RecordLastPrice(ticker string, price float64)
}
