//go:build wireinject
// +build wireinject

package di

import (
	"StockCast/internal/usecase"
	"StockCast/pkg/config"
	"StockCast/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideRedisClient,
		ProvideClickHouseClient,

		// Repositories
		ProvideMarketData,
		ProvideTickerUniverse,
		ProvideForecastPublisher,

		// Core
		ProvideSelector,
		ProvideSystemDeps,
		usecase.NewRegistry,
		usecase.NewStockInfoUseCase,

		// Transport
		ProvideStockInfoHandler,
		ProvideHTTPServer,
		ProvideApp,
	)
	return &server.App{}, nil
}
