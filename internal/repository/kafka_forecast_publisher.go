package repository

import (
	"context"

	"StockCast/internal/domain/models"
	pkgkafka "StockCast/pkg/kafka"
)

// KafkaForecastPublisher emits served forecasts keyed by ticker.
type KafkaForecastPublisher struct {
	producer *pkgkafka.Producer
}

func NewKafkaForecastPublisher(p *pkgkafka.Producer) *KafkaForecastPublisher {
	return &KafkaForecastPublisher{producer: p}
}

func (p *KafkaForecastPublisher) Publish(ctx context.Context, ev *models.ForecastEvent) error {
	return p.producer.Publish(ctx, ev.Ticker, ev)
}

func (p *KafkaForecastPublisher) Close() error {
	return p.producer.Close()
}

// NopForecastPublisher drops every event.
type NopForecastPublisher struct{}

func (NopForecastPublisher) Publish(context.Context, *models.ForecastEvent) error { return nil }

func (NopForecastPublisher) Close() error { return nil }
