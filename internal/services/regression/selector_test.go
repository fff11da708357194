package regression

import (
	"errors"
	"math"
	"testing"
	"time"

	"StockCast/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func linearTable(n int) models.FeatureTable {
	start := time.Date(2021, 1, 4, 0, 0, 0, 0, time.UTC)
	table := make(models.FeatureTable, n)
	for i := range table {
		o := 50 + float64(i%13) + 0.1*float64(i)
		h := o + float64(i%3)
		table[i] = models.FeatureRow{
			Date:   start.AddDate(0, 0, i),
			Open:   o,
			High:   h,
			Low:    o - 1,
			Volume: 1e6 + float64((i*37)%101),
			MA50:   o - 2,
			MA100:  o - 4,
			RSI:    float64(20 + i%60),
			Close:  0.6*o + 0.4*h + 0.5,
		}
	}
	return table
}

func TestSelector_PicksBestScore(t *testing.T) {
	sel, err := NewSelector().Select(linearTable(120))
	require.NoError(t, err)

	require.Len(t, sel.Candidates, len(Kinds))
	for i, c := range sel.Candidates {
		assert.Equal(t, Kinds[i], c.Kind)
		assert.GreaterOrEqual(t, sel.Score, c.Score)
	}
	assert.Equal(t, KindLinear, sel.Kind)
	assert.InDelta(t, 1.0, sel.Score, 1e-9)
	assert.NotNil(t, sel.Model)
}

func TestSelector_Deterministic(t *testing.T) {
	table := linearTable(90)
	a, err := NewSelector().Select(table)
	require.NoError(t, err)
	b, err := NewSelector().Select(table)
	require.NoError(t, err)

	assert.Equal(t, a.Kind, b.Kind)
	assert.Equal(t, a.Candidates, b.Candidates)
}

func TestSelector_InsufficientRows(t *testing.T) {
	_, err := NewSelector().Select(linearTable(MinTrainingRows - 1))
	assert.ErrorIs(t, err, models.ErrInsufficientData)
}

func TestSelector_FitErrorIsFatal(t *testing.T) {
	table := linearTable(40)
	for i := range table {
		table[i].RSI = math.Inf(1)
	}

	_, err := NewSelector().Select(table)
	require.Error(t, err)
	var fitErr *models.ModelFitError
	require.True(t, errors.As(err, &fitErr))
	assert.Equal(t, string(KindLinear), fitErr.Kind)
}

func TestSelector_WithKinds(t *testing.T) {
	sel, err := NewSelector(WithKinds(KindBoostedTree)).Select(linearTable(40))
	require.NoError(t, err)
	assert.Equal(t, KindBoostedTree, sel.Kind)
	assert.Len(t, sel.Candidates, 1)
}

func TestBestIndex_TiesGoToFirst(t *testing.T) {
	scores := []CandidateScore{
		{Kind: KindLinear, Score: 0.9},
		{Kind: KindBaggedTree, Score: 0.95},
		{Kind: KindBoostedTree, Score: 0.95},
	}
	assert.Equal(t, 1, bestIndex(scores))

	scores[0].Score = 0.95
	assert.Equal(t, 0, bestIndex(scores))

	undefined := []CandidateScore{{Score: math.Inf(-1)}, {Score: -3}}
	assert.Equal(t, 1, bestIndex(undefined))
}
