package features

import (
	"fmt"
	"math"

	"StockCast/internal/domain/models"

	"github.com/cinar/indicator/v2/helper"
	"github.com/cinar/indicator/v2/trend"
)

const (
	ShortMAPeriod = 50
	LongMAPeriod  = 100
	RSIPeriod     = 14
)

// Build turns a raw daily series into a feature table. Rows whose rolling
// windows are incomplete, or whose RSI is undefined because the trailing
// mean loss is zero, are dropped.
func Build(bars []models.Bar) (models.FeatureTable, error) {
	if len(bars) == 0 {
		return nil, fmt.Errorf("build features from 0 bars: %w", models.ErrInsufficientData)
	}

	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}

	ma50 := TrailingMean(closes, ShortMAPeriod)
	ma100 := TrailingMean(closes, LongMAPeriod)
	gain, loss := GainLoss(closes)
	avgGain := TrailingMean(gain, RSIPeriod)
	avgLoss := TrailingMean(loss, RSIPeriod)

	out := make(models.FeatureTable, 0, len(bars))
	for i, b := range bars {
		rsi, ok := RSI(avgGain[i], avgLoss[i])
		if !ok {
			continue
		}
		row := models.FeatureRow{
			Date:   b.Date,
			Open:   b.Open,
			High:   b.High,
			Low:    b.Low,
			Volume: b.Volume,
			MA50:   ma50[i],
			MA100:  ma100[i],
			RSI:    rsi,
			Close:  b.Close,
		}
		if !complete(row) {
			continue
		}
		out = append(out, row)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("build features from %d bars: %w", len(bars), models.ErrInsufficientData)
	}
	return out, nil
}

// TrailingMean returns the simple moving average of xs over period, aligned to
// xs. Positions without a full window are NaN.
func TrailingMean(xs []float64, period int) []float64 {
	out := make([]float64, len(xs))
	for i := range out {
		out[i] = math.NaN()
	}
	if period <= 0 || len(xs) < period {
		return out
	}
	sma := trend.NewSmaWithPeriod[float64](period)
	res := helper.ChanToSlice(sma.Compute(helper.SliceToChan(xs)))
	// right-align: the last average belongs to the last input
	offset := len(xs) - len(res)
	for i, v := range res {
		out[offset+i] = v
	}
	return out
}

// GainLoss splits day-over-day close deltas into positive gains and absolute
// losses. The first element has no predecessor and counts as zero.
func GainLoss(closes []float64) (gain, loss []float64) {
	gain = make([]float64, len(closes))
	loss = make([]float64, len(closes))
	for i := 1; i < len(closes); i++ {
		d := closes[i] - closes[i-1]
		switch {
		case d > 0:
			gain[i] = d
		case d < 0:
			loss[i] = -d
		}
	}
	return gain, loss
}

// RSI computes 100 - 100/(1+gain/loss). It reports false when loss is zero
// or either input is undefined.
func RSI(avgGain, avgLoss float64) (float64, bool) {
	if math.IsNaN(avgGain) || math.IsNaN(avgLoss) || avgLoss == 0 {
		return 0, false
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs), true
}

func complete(r models.FeatureRow) bool {
	for _, v := range [...]float64{r.Open, r.High, r.Low, r.Volume, r.MA50, r.MA100, r.RSI, r.Close} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
