package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain repository.Metrics using Prometheus.
type Recorder struct {
	trainings      *prometheus.CounterVec
	trainDuration  *prometheus.HistogramVec
	candidateScore *prometheus.GaugeVec
	forecasts      *prometheus.CounterVec
	errorsTotal    *prometheus.CounterVec
	lastPrice      *prometheus.GaugeVec
}

// New registers the recorder's collectors on reg; nil means the default registry.
func New(reg prometheus.Registerer) *Recorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Recorder{
		trainings: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockcast_trainings_total",
				Help: "Completed model selections by winning kind",
			},
			[]string{"model"},
		),
		trainDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stockcast_training_duration_seconds",
				Help:    "Wall time of load, feature build and model selection",
				Buckets: []float64{.1, .5, 1, 2, 5, 10, 20, 40},
			},
			[]string{"model"},
		),
		candidateScore: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "stockcast_candidate_r2",
				Help: "Held-out R² of each candidate at the last training",
			},
			[]string{"ticker", "model"},
		),
		forecasts: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockcast_forecasts_total",
				Help: "Forecasts served",
			},
			[]string{"ticker"},
		),
		errorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockcast_errors_total",
				Help: "Errors by pipeline stage",
			},
			[]string{"type"},
		),
		lastPrice: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "stockcast_last_price",
				Help: "Latest close used as forecast origin",
			},
			[]string{"ticker"},
		),
	}
}

// RecordTraining counts a finished selection and its duration.
func (r *Recorder) RecordTraining(_ string, winner string, seconds float64) {
	r.trainings.WithLabelValues(winner).Inc()
	r.trainDuration.WithLabelValues(winner).Observe(seconds)
}

func (r *Recorder) RecordCandidateScore(ticker, kind string, r2 float64) {
	r.candidateScore.WithLabelValues(ticker, kind).Set(r2)
}

func (r *Recorder) RecordForecast(ticker string) {
	r.forecasts.WithLabelValues(ticker).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

func (r *Recorder) RecordLastPrice(ticker string, price float64) {
	r.lastPrice.WithLabelValues(ticker).Set(price)
}
