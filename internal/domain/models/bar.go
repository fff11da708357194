package models

import "time"

// Bar is one daily OHLCV observation of a ticker.
type Bar struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// FeatureRow is a fully defined training row. Close is the target.
type FeatureRow struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Volume float64
	MA50   float64
	MA100  float64
	RSI    float64
	Close  float64
}

// Predictors returns the predictor part of the row.
func (r FeatureRow) Predictors() Predictors {
	return Predictors{
		Open:   r.Open,
		High:   r.High,
		Low:    r.Low,
		Volume: r.Volume,
		MA50:   r.MA50,
		MA100:  r.MA100,
		RSI:    r.RSI,
	}
}

// FeatureTable is a chronological sequence of feature rows for one ticker.
type FeatureTable []FeatureRow

// Last returns the most recent row.
func (t FeatureTable) Last() (FeatureRow, bool) {
	if len(t) == 0 {
		return FeatureRow{}, false
	}
	return t[len(t)-1], true
}

// Matrix splits the table into the predictor matrix and the close target.
func (t FeatureTable) Matrix() ([][]float64, []float64) {
	x := make([][]float64, len(t))
	y := make([]float64, len(t))
	for i, r := range t {
		x[i] = r.Predictors().Vector()
		y[i] = r.Close
	}
	return x, y
}
