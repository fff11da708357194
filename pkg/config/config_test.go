package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeYAML(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	assert.Equal(t, 5000, c.Server.Port)
	assert.Equal(t, "yahoo", c.MarketData.Source)
	assert.Equal(t, uint64(42), c.Model.Seed)
	assert.Equal(t, 0.2, c.Model.TestFraction)
	assert.Equal(t, 2*time.Minute, c.Model.InitTimeout)
	assert.Equal(t, 15*time.Minute, c.Cache.TTL)
	assert.Equal(t, "info", c.Log.Level)
	assert.Equal(t, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), c.StartTime())
	assert.False(t, c.UsesRedis())
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := writeYAML(t, `
environment: production
server:
  port: 8088
market_data:
  source: clickhouse
  start_date: "2021-06-01"
clickhouse:
  host: ch.internal
tickers:
  source: redis
`)
	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "production", c.Environment)
	assert.Equal(t, 8088, c.Server.Port)
	assert.Equal(t, 120*time.Second, c.Server.WriteTimeout)
	assert.Equal(t, "ch.internal", c.ClickHouse.Host)
	assert.Equal(t, time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC), c.StartTime())
	assert.True(t, c.UsesRedis())
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "development", c.Environment)
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]string{
		"source":        "market_data:\n  source: csv\n",
		"start date":    "market_data:\n  start_date: 01/02/2020\n",
		"test fraction": "model:\n  test_fraction: 1.5\n",
		"kafka brokers": "kafka:\n  enabled: true\n",
		"yaml":          "server: [",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeYAML(t, body))
			assert.Error(t, err)
		})
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"STOCKCAST_PORT":          "9090",
		"STOCKCAST_KAFKA_BROKERS": "k1:9092,k2:9092",
		"STOCKCAST_MODEL_SEED":    "7",
		"STOCKCAST_TICKERS_FILE":  "/data/tickers.txt",
	}
	c := Default()
	require.NoError(t, c.applyEnv(func(k string) string { return env[k] }))

	assert.Equal(t, 9090, c.Server.Port)
	assert.True(t, c.Kafka.Enabled)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, c.Kafka.Brokers)
	assert.Equal(t, uint64(7), c.Model.Seed)
	assert.Equal(t, "/data/tickers.txt", c.Tickers.File)
	require.NoError(t, c.Validate())
}

func TestApplyEnv_BadNumber(t *testing.T) {
	c := Default()
	err := c.applyEnv(func(k string) string {
		if k == "STOCKCAST_PORT" {
			return "eighty"
		}
		return ""
	})
	assert.Error(t, err)
}

func TestLoadWithEnv(t *testing.T) {
	t.Setenv("STOCKCAST_ENV", "staging")
	c, err := LoadWithEnv(writeYAML(t, "server:\n  port: 7000\n"))
	require.NoError(t, err)
	assert.Equal(t, "staging", c.Environment)
	assert.Equal(t, 7000, c.Server.Port)
}
