package metrics

import (
	"testing"

	domrepo "StockCast/internal/domain/repository"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

var _ domrepo.Metrics = (*Recorder)(nil)

func TestRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := New(reg)

	r.RecordTraining("AAPL", "linear", 1.2)
	r.RecordTraining("MSFT", "linear", 0.8)
	r.RecordCandidateScore("AAPL", "boosted_tree", 0.91)
	r.RecordForecast("AAPL")
	r.RecordError("load")
	r.RecordLastPrice("AAPL", 189.25)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.trainings.WithLabelValues("linear")))
	assert.Equal(t, 0.91, testutil.ToFloat64(r.candidateScore.WithLabelValues("AAPL", "boosted_tree")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.forecasts.WithLabelValues("AAPL")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.errorsTotal.WithLabelValues("load")))
	assert.Equal(t, 189.25, testutil.ToFloat64(r.lastPrice.WithLabelValues("AAPL")))

	n, err := testutil.GatherAndCount(reg, "stockcast_training_duration_seconds")
	assert.NoError(t, err)
	assert.Equal(t, 1, n)
}
