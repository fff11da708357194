package di

import (
	"context"
	"fmt"
	"time"

	"StockCast/internal/domain/repository"
	"StockCast/internal/handler/api"
	internalrepo "StockCast/internal/repository"
	"StockCast/internal/service/cache"
	"StockCast/internal/service/ratelimit"
	"StockCast/internal/services/regression"
	"StockCast/internal/usecase"
	pkgch "StockCast/pkg/clickhouse"
	"StockCast/pkg/config"
	xhttp "StockCast/pkg/http"
	pkgkafka "StockCast/pkg/kafka"
	applogger "StockCast/pkg/logger"
	"StockCast/pkg/metrics"
	"StockCast/pkg/server"

	"github.com/redis/go-redis/v9"
)

func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	l.Info("configuration loaded",
		applogger.String("env", cfg.Environment),
		applogger.String("market_data", cfg.MarketData.Source),
		applogger.String("tickers", cfg.Tickers.Source),
		applogger.Any("model", cfg.Model),
	)
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New(nil)
}

// ProvideRedisClient returns nil when no component is configured to use Redis.
func ProvideRedisClient(cfg *config.Config) (*redis.Client, error) {
	if !cfg.UsesRedis() {
		return nil, nil
	}
	rdb := cache.NewRedisClient(cache.RedisConfig{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

// ProvideClickHouseClient returns nil unless bars are read from ClickHouse.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if cfg.MarketData.Source != "clickhouse" {
		return nil, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := pkgch.NewClient(ctx,
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	if cfg.ClickHouse.InitSchema {
		if err := client.InitSchema(ctx, internalrepo.DailyBarsSchema(cfg.ClickHouse.Database)); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("clickhouse schema: %w", err)
		}
	}
	return client, nil
}

func ProvideMarketData(cfg *config.Config, ch *pkgch.Client, l *applogger.Logger) repository.MarketData {
	if ch != nil {
		return internalrepo.NewCHMarketData(ch, l.With("clickhouse"))
	}
	return internalrepo.NewYahooMarketData(internalrepo.YahooConfig{
		BaseURL:   cfg.MarketData.Yahoo.BaseURL,
		Timeout:   cfg.MarketData.Yahoo.Timeout,
		Retries:   cfg.MarketData.Yahoo.Retries,
		UserAgent: cfg.MarketData.Yahoo.UserAgent,
	}, l.With("yahoo"))
}

func ProvideTickerUniverse(cfg *config.Config, rdb *redis.Client) (repository.TickerUniverse, error) {
	if cfg.Tickers.Source == "redis" {
		return internalrepo.NewRedisTickerUniverse(rdb, cfg.Tickers.RedisPrefix), nil
	}
	u, err := internalrepo.LoadFileTickerUniverse(cfg.Tickers.File)
	if err != nil {
		return nil, fmt.Errorf("ticker universe: %w", err)
	}
	return u, nil
}

// ProvideForecastPublisher returns a Kafka publisher, or a no-op when Kafka is disabled.
func ProvideForecastPublisher(cfg *config.Config) (repository.ForecastPublisher, error) {
	if !cfg.Kafka.Enabled {
		return internalrepo.NopForecastPublisher{}, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithTopic(cfg.Kafka.Topic),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithMaxAttempts(cfg.Kafka.MaxAttempts),
		pkgkafka.WithWriteTimeout(cfg.Kafka.WriteTimeout),
		pkgkafka.WithAsync(cfg.Kafka.Async),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return internalrepo.NewKafkaForecastPublisher(producer), nil
}

func ProvideSelector(cfg *config.Config) *regression.Selector {
	return regression.NewSelector(
		regression.WithSeed(cfg.Model.Seed),
		regression.WithTestFraction(cfg.Model.TestFraction),
	)
}

func ProvideSystemDeps(
	cfg *config.Config,
	data repository.MarketData,
	sel *regression.Selector,
	m repository.Metrics,
	l *applogger.Logger,
) usecase.SystemDeps {
	return usecase.SystemDeps{
		Data:     data,
		Selector: sel,
		Metrics:  m,
		Logger:   l.With("prediction"),
		From:     cfg.StartTime(),

		InitTimeout: cfg.Model.InitTimeout,
	}
}

func ProvideStockInfoHandler(
	cfg *config.Config,
	l *applogger.Logger,
	uc *usecase.StockInfoUseCase,
	rdb *redis.Client,
) *api.StockInfoEchoHandler {
	var co *api.CacheOption
	if cfg.Cache.Enabled {
		var c cache.BytesCache = cache.NewTTLCache()
		if cfg.Cache.Backend == "redis" && rdb != nil {
			c = cache.NewRedisCache(rdb)
		}
		co = &api.CacheOption{Cache: c, TTL: cfg.Cache.TTL, Prefix: cfg.Tickers.RedisPrefix}
	}
	return api.NewStockInfoEchoHandler(l.With("api"), uc, co)
}

func ProvideHTTPServer(cfg *config.Config, h *api.StockInfoEchoHandler, l *applogger.Logger) *xhttp.Server {
	opts := []xhttp.ServerOption{
		xhttp.WithHost(cfg.Server.Host),
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithSlowThreshold(cfg.Server.SlowThreshold),
		xhttp.WithCORS(cfg.Server.CORS),
	}
	if cfg.Metrics.Enabled {
		opts = append(opts, xhttp.WithMetricsPath(cfg.Metrics.Path))
	} else {
		opts = append(opts, xhttp.WithMetricsPath(""))
	}
	if cfg.RateLimit.Enabled {
		opts = append(opts, xhttp.WithRateLimit(ratelimit.New(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)))
	}
	return xhttp.NewServer(h, l.With("http"), opts...)
}

// ProvideApp assembles the lifecycle with every resource that needs closing.
func ProvideApp(
	srv *xhttp.Server,
	l *applogger.Logger,
	pub repository.ForecastPublisher,
	ch *pkgch.Client,
	rdb *redis.Client,
) *server.App {
	closers := []server.Closer{{Name: "forecast publisher", Close: pub.Close}}
	if ch != nil {
		closers = append(closers, server.Closer{Name: "clickhouse", Close: ch.Close})
	}
	if rdb != nil {
		closers = append(closers, server.Closer{Name: "redis", Close: rdb.Close})
	}
	return server.New(srv, l, closers...)
}
