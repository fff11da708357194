package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"
)

// HorizonForecast is a point forecast at one horizon step.
type HorizonForecast struct {
	Label   string
	Horizon int
	Value   float64
}

// Forecast is an ordered set of horizon forecasts, ascending by horizon.
type Forecast []HorizonForecast

// Value returns the forecast recorded under label.
func (f Forecast) Value(label string) (float64, bool) {
	for _, h := range f {
		if h.Label == label {
			return h.Value, true
		}
	}
	return 0, false
}

// MarshalJSON encodes the forecast as an object keyed by label, keeping horizon order.
func (f Forecast) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, h := range f {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(h.Label)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.WriteString(strconv.FormatFloat(h.Value, 'g', -1, 64))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// StockInfo is the payload served for a ticker.
type StockInfo struct {
	Ticker            string   `json:"ticker"`
	Price             float64  `json:"price"`
	FuturePredictions Forecast `json:"future_predictions"`
}

// ForecastEvent is published after a forecast has been served.
type ForecastEvent struct {
	Ticker    string             `json:"ticker"`
	Price     float64            `json:"price"`
	Model     string             `json:"model"`
	Score     float64            `json:"score"`
	Forecasts map[string]float64 `json:"forecasts"`
	Timestamp time.Time          `json:"timestamp"`
}
