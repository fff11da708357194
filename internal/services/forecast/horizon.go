package forecast

import (
	"fmt"

	"StockCast/internal/domain/models"
)

// Horizons are the forward steps forecast, in the order they are produced.
var Horizons = []int{3, 6, 9, 12}

// Predictor is the part of a fitted regressor the forecaster needs.
type Predictor interface {
	Predict(x []float64) float64
}

// Label names a horizon in the served payload.
func Label(h int) string { return fmt.Sprintf("%d months", h) }

// Project walks the horizons autoregressively: each prediction is fed back
// into the price-linked predictors before the next step. Volume and the
// rolling indicators stay frozen. last is never modified. model must be a
// fitted, non-nil value; only a nil interface is reported as ErrNotInitialized.
func Project(model Predictor, last models.Predictors) (models.Forecast, error) {
	if model == nil {
		return nil, models.ErrNotInitialized
	}
	cur := last
	out := make(models.Forecast, 0, len(Horizons))
	for _, h := range Horizons {
		pred := model.Predict(cur.Vector())
		out = append(out, models.HorizonForecast{Label: Label(h), Horizon: h, Value: pred})
		cur = cur.WithPrice(pred)
	}
	return out, nil
}
