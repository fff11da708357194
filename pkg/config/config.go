package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	applogger "StockCast/pkg/logger"
	"StockCast/pkg/util"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const envPrefix = "STOCKCAST_"

type Config struct {
	Environment string           `yaml:"environment" default:"development" validate:"oneof=development staging production"`
	Server      ServerConfig     `yaml:"server"`
	Log         applogger.Config `yaml:"log"`
	Metrics     MetricsConfig    `yaml:"metrics"`
	MarketData  MarketDataConfig `yaml:"market_data"`
	ClickHouse  ClickHouseConfig `yaml:"clickhouse"`
	Tickers     TickersConfig    `yaml:"tickers"`
	Model       ModelConfig      `yaml:"model"`
	Kafka       KafkaConfig      `yaml:"kafka"`
	Redis       RedisConfig      `yaml:"redis"`
	Cache       CacheConfig      `yaml:"cache"`
	RateLimit   RateLimitConfig  `yaml:"rate_limit"`
}

type ServerConfig struct {
	Host            string        `yaml:"host" default:"0.0.0.0"`
	Port            int           `yaml:"port" default:"5000" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" default:"120s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"15s"`
	SlowThreshold   time.Duration `yaml:"slow_threshold" default:"5s"`
	CORS            bool          `yaml:"cors" default:"true"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" default:"true"`
	Path    string `yaml:"path" default:"/metrics"`
}

type MarketDataConfig struct {
	Source    string      `yaml:"source" default:"yahoo" validate:"oneof=yahoo clickhouse"`
	StartDate string      `yaml:"start_date" default:"2020-01-01" validate:"datetime=2006-01-02"`
	Yahoo     YahooConfig `yaml:"yahoo"`
}

type YahooConfig struct {
	BaseURL   string        `yaml:"base_url" default:"https://query1.finance.yahoo.com" validate:"url"`
	Timeout   time.Duration `yaml:"timeout" default:"20s"`
	Retries   int           `yaml:"retries" default:"2" validate:"min=0,max=10"`
	UserAgent string        `yaml:"user_agent" default:"Mozilla/5.0 (compatible; StockCast/1.0)"`
}

type ClickHouseConfig struct {
	Host             string        `yaml:"host" default:"localhost"`
	Port             int           `yaml:"port" default:"9000"`
	Database         string        `yaml:"database" default:"stockcast"`
	User             string        `yaml:"user" default:"default"`
	Password         string        `yaml:"password"`
	UseHTTP          bool          `yaml:"use_http"`
	InitSchema       bool          `yaml:"init_schema" default:"true"`
	DialTimeout      time.Duration `yaml:"dial_timeout" default:"5s"`
	ReadTimeout      time.Duration `yaml:"read_timeout" default:"30s"`
	MaxExecutionTime time.Duration `yaml:"max_execution_time" default:"60s"`
}

type TickersConfig struct {
	Source      string `yaml:"source" default:"file" validate:"oneof=file redis"`
	File        string `yaml:"file" default:"tickers.txt"`
	RedisPrefix string `yaml:"redis_prefix" default:"stockcast"`
	NasdaqURL   string `yaml:"nasdaq_url" default:"https://www.nasdaqtrader.com/dynamic/SymDir/nasdaqlisted.txt" validate:"url"`
	OtherURL    string `yaml:"other_url" default:"https://www.nasdaqtrader.com/dynamic/SymDir/otherlisted.txt" validate:"url"`
}

type ModelConfig struct {
	Seed         uint64        `yaml:"seed" default:"42"`
	TestFraction float64       `yaml:"test_fraction" default:"0.2" validate:"gt=0,lt=1"`
	InitTimeout  time.Duration `yaml:"init_timeout" default:"2m"`
}

type KafkaConfig struct {
	Enabled      bool          `yaml:"enabled"`
	Brokers      []string      `yaml:"brokers" validate:"required_if=Enabled true"`
	Topic        string        `yaml:"topic" default:"stockcast.forecasts"`
	RequiredAcks int           `yaml:"required_acks" default:"-1"`
	Compression  string        `yaml:"compression" default:"snappy" validate:"oneof=gzip snappy lz4 zstd"`
	MaxAttempts  int           `yaml:"max_attempts" default:"3"`
	WriteTimeout time.Duration `yaml:"write_timeout" default:"10s"`
	Async        bool          `yaml:"async" default:"true"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr" default:"localhost:6379"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type CacheConfig struct {
	Enabled bool          `yaml:"enabled" default:"true"`
	Backend string        `yaml:"backend" default:"memory" validate:"oneof=memory redis"`
	TTL     time.Duration `yaml:"ttl" default:"15m"`
}

type RateLimitConfig struct {
	Enabled           bool    `yaml:"enabled" default:"true"`
	RequestsPerSecond float64 `yaml:"requests_per_second" default:"5" validate:"gt=0"`
	Burst             int     `yaml:"burst" default:"20" validate:"min=1"`
}

// StartTime parses MarketData.StartDate as a UTC midnight.
func (c *Config) StartTime() time.Time {
	return util.ParseDateDefault(c.MarketData.StartDate, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC))
}

// UsesRedis reports whether any component needs the Redis client.
func (c *Config) UsesRedis() bool {
	return c.Tickers.Source == "redis" || (c.Cache.Enabled && c.Cache.Backend == "redis")
}

// Default returns a config populated only from `default` tags.
func Default() *Config {
	var c Config
	_ = defaults.Set(&c)
	return &c
}

// Load reads and parses a YAML configuration file. A missing file yields defaults.
func Load(path string) (*Config, error) {
	c := Default()

	b, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(b, c); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// LoadWithEnv loads .env if present, then the YAML file, then applies
// STOCKCAST_* overrides.
func LoadWithEnv(path string) (*Config, error) {
	_ = godotenv.Load()

	c := Default()
	b, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(b, c); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := c.applyEnv(os.Getenv); err != nil {
		return nil, fmt.Errorf("env overrides: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	get := func(key string) (string, bool) {
		v := getenv(envPrefix + key)
		return v, v != ""
	}

	if v, ok := get("ENV"); ok {
		c.Environment = v
	}
	if v, ok := get("PORT"); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sPORT: %w", envPrefix, err)
		}
		c.Server.Port = port
	}
	if v, ok := get("LOG_LEVEL"); ok {
		c.Log.Level = v
	}
	if v, ok := get("MARKET_DATA_SOURCE"); ok {
		c.MarketData.Source = v
	}
	if v, ok := get("START_DATE"); ok {
		c.MarketData.StartDate = v
	}
	if v, ok := get("TICKERS_SOURCE"); ok {
		c.Tickers.Source = v
	}
	if v, ok := get("TICKERS_FILE"); ok {
		c.Tickers.File = v
	}
	if v, ok := get("CLICKHOUSE_HOST"); ok {
		c.ClickHouse.Host = v
	}
	if v, ok := get("CLICKHOUSE_PASSWORD"); ok {
		c.ClickHouse.Password = v
	}
	if v, ok := get("REDIS_ADDR"); ok {
		c.Redis.Addr = v
	}
	if v, ok := get("REDIS_PASSWORD"); ok {
		c.Redis.Password = v
	}
	if v, ok := get("KAFKA_BROKERS"); ok {
		c.Kafka.Brokers = util.SplitList(v)
		c.Kafka.Enabled = true
	}
	if v, ok := get("KAFKA_TOPIC"); ok {
		c.Kafka.Topic = v
	}
	if v, ok := get("MODEL_SEED"); ok {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%sMODEL_SEED: %w", envPrefix, err)
		}
		c.Model.Seed = seed
	}
	return nil
}

var validate = validator.New()

// Validate checks field rules and cross-field requirements.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	if c.MarketData.Source == "clickhouse" && c.ClickHouse.Host == "" {
		return fmt.Errorf("clickhouse.host is required when market_data.source is clickhouse")
	}
	if c.Tickers.Source == "file" && c.Tickers.File == "" {
		return fmt.Errorf("tickers.file is required when tickers.source is file")
	}
	return nil
}
