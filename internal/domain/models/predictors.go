package models

// PredictorNames is the fixed column order of Predictors.Vector.
var PredictorNames = []string{"open", "high", "low", "volume", "ma50", "ma100", "rsi"}

// Predictors holds the model inputs for a single prediction.
type Predictors struct {
	Open   float64
	High   float64
	Low    float64
	Volume float64
	MA50   float64
	MA100  float64
	RSI    float64
}

// Vector returns the predictors in PredictorNames order.
func (p Predictors) Vector() []float64 {
	return []float64{p.Open, p.High, p.Low, p.Volume, p.MA50, p.MA100, p.RSI}
}

// WithPrice assigns price to every price-linked predictor (open, high, low).
// Volume and the rolling indicators are left untouched.
func (p Predictors) WithPrice(price float64) Predictors {
	p.Open = price
	p.High = price
	p.Low = price
	return p
}
