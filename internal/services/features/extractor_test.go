package features

import (
	"math"
	"testing"
	"time"

	"StockCast/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// trendWithDips rises one unit per day and dips every fifth day so that every
// RSI window holds at least one loss.
func trendWithDips(n int) []models.Bar {
	start := time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC)
	bars := make([]models.Bar, n)
	for i := range bars {
		c := 100 + float64(i)
		if i%5 == 0 {
			c -= 3
		}
		bars[i] = models.Bar{
			Date:   start.AddDate(0, 0, i),
			Open:   c - 0.5,
			High:   c + 1,
			Low:    c - 1,
			Close:  c,
			Volume: 1_000_000,
		}
	}
	return bars
}

func TestBuild_RowCountDropsWarmup(t *testing.T) {
	for _, n := range []int{100, 101, 250, 400} {
		table, err := Build(trendWithDips(n))
		require.NoError(t, err)
		assert.Len(t, table, n-(LongMAPeriod-1), "n=%d", n)
	}
}

func TestBuild_FirstRowAlignedWithLongWindow(t *testing.T) {
	bars := trendWithDips(150)
	table, err := Build(bars)
	require.NoError(t, err)

	first := table[0]
	assert.Equal(t, bars[99].Date, first.Date)

	var sum50, sum100 float64
	for i := 0; i < 100; i++ {
		sum100 += bars[i].Close
		if i >= 50 {
			sum50 += bars[i].Close
		}
	}
	assert.InDelta(t, sum50/50, first.MA50, 1e-9)
	assert.InDelta(t, sum100/100, first.MA100, 1e-9)
	assert.Equal(t, bars[99].Close, first.Close)
	assert.Equal(t, bars[99].Volume, first.Volume)
}

func TestBuild_RSIBounded(t *testing.T) {
	table, err := Build(trendWithDips(400))
	require.NoError(t, err)
	for _, r := range table {
		assert.GreaterOrEqual(t, r.RSI, 0.0)
		assert.LessOrEqual(t, r.RSI, 100.0)
	}
}

func TestBuild_ShortSeries(t *testing.T) {
	for _, n := range []int{1, 14, 50, 99} {
		_, err := Build(trendWithDips(n))
		assert.ErrorIs(t, err, models.ErrInsufficientData, "n=%d", n)
	}
}

func TestBuild_EmptySeries(t *testing.T) {
	_, err := Build(nil)
	assert.ErrorIs(t, err, models.ErrInsufficientData)
}

func TestBuild_NeverDecreasingCloseDropsEverything(t *testing.T) {
	bars := trendWithDips(300)
	for i := range bars {
		bars[i].Close = 100 + float64(i)
	}
	_, err := Build(bars)
	assert.ErrorIs(t, err, models.ErrInsufficientData)
}

func TestBuild_NonFiniteInputDropsRow(t *testing.T) {
	bars := trendWithDips(120)
	bars[110].Volume = math.NaN()
	table, err := Build(bars)
	require.NoError(t, err)
	assert.Len(t, table, 120-99-1)
	for _, r := range table {
		assert.NotEqual(t, bars[110].Date, r.Date)
	}
}

func TestTrailingMean(t *testing.T) {
	got := TrailingMean([]float64{1, 2, 3, 4, 5}, 3)
	require.Len(t, got, 5)
	assert.True(t, math.IsNaN(got[0]))
	assert.True(t, math.IsNaN(got[1]))
	assert.InDelta(t, 2.0, got[2], 1e-12)
	assert.InDelta(t, 3.0, got[3], 1e-12)
	assert.InDelta(t, 4.0, got[4], 1e-12)

	short := TrailingMean([]float64{1, 2}, 3)
	assert.True(t, math.IsNaN(short[0]))
	assert.True(t, math.IsNaN(short[1]))
}

func TestGainLoss(t *testing.T) {
	gain, loss := GainLoss([]float64{10, 12, 11, 11, 15})
	assert.Equal(t, []float64{0, 2, 0, 0, 4}, gain)
	assert.Equal(t, []float64{0, 0, 1, 0, 0}, loss)
}

func TestRSI(t *testing.T) {
	v, ok := RSI(1, 1)
	assert.True(t, ok)
	assert.InDelta(t, 50.0, v, 1e-12)

	v, ok = RSI(0, 2)
	assert.True(t, ok)
	assert.InDelta(t, 0.0, v, 1e-12)

	_, ok = RSI(3, 0)
	assert.False(t, ok)

	_, ok = RSI(math.NaN(), 1)
	assert.False(t, ok)
}
