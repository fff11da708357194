package repository

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"StockCast/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Sessions open 14:30 UTC; gmtoffset -14400 puts them on the same calendar day.
const chartBody = `{"chart":{"result":[{
  "meta":{"symbol":"AAPL","gmtoffset":-14400},
  "timestamp":[1704205800,1704292200,1704378600,1704465000],
  "indicators":{"quote":[{
    "open":[187.15,184.22,null,181.99],
    "high":[188.44,185.88,183.09,182.76],
    "low":[183.89,183.43,180.88,180.17],
    "close":[185.64,184.25,181.91,181.18],
    "volume":[82488700,58414500,71983600,62303300]
  }]}
}],"error":null}}`

func newYahoo(t *testing.T, h http.HandlerFunc) *YahooMarketData {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewYahooMarketData(YahooConfig{BaseURL: srv.URL, Timeout: 2 * time.Second}, nil)
}

func TestYahooMarketData_Bars(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	y := newYahoo(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v8/finance/chart/AAPL", r.URL.Path)
		assert.Equal(t, "1d", r.URL.Query().Get("interval"))
		assert.Equal(t, strconv.FormatInt(from.Unix(), 10), r.URL.Query().Get("period1"))
		assert.Equal(t, strconv.FormatInt(to.Unix(), 10), r.URL.Query().Get("period2"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(chartBody))
	})

	bars, err := y.Bars(context.Background(), "AAPL", from, to)
	require.NoError(t, err)
	require.Len(t, bars, 3, "the row with a null open is skipped")

	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), bars[0].Date)
	assert.Equal(t, models.Bar{
		Date: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
		Open: 181.99, High: 182.76, Low: 180.17, Close: 181.18, Volume: 62303300,
	}, bars[2])
	for i := 1; i < len(bars); i++ {
		assert.True(t, bars[i].Date.After(bars[i-1].Date))
	}
}

func TestYahooMarketData_RangeIsHalfOpen(t *testing.T) {
	y := newYahoo(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(chartBody))
	})
	from := time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)

	bars, err := y.Bars(context.Background(), "AAPL", from, to)
	require.NoError(t, err)
	require.Len(t, bars, 1)
	assert.Equal(t, from, bars[0].Date)
}

func TestYahooMarketData_UnknownTicker(t *testing.T) {
	y := newYahoo(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`))
	})
	_, err := y.Bars(context.Background(), "ZZZZ", time.Unix(0, 0), time.Now())
	assert.ErrorIs(t, err, models.ErrNoData)
}

func TestYahooMarketData_EmptyResult(t *testing.T) {
	y := newYahoo(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"chart":{"result":[{"meta":{"symbol":"X"},"timestamp":[],"indicators":{"quote":[{}]}}],"error":null}}`))
	})
	_, err := y.Bars(context.Background(), "X", time.Unix(0, 0), time.Now())
	assert.ErrorIs(t, err, models.ErrNoData)
}

func TestYahooMarketData_ServerError(t *testing.T) {
	y := newYahoo(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`upstream`))
	})
	_, err := y.Bars(context.Background(), "AAPL", time.Unix(0, 0), time.Now())
	require.Error(t, err)
	assert.NotErrorIs(t, err, models.ErrNoData)
}
