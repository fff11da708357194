package regression

import (
	"errors"
	"fmt"
	"math"
)

// Kind names one member of the closed candidate set.
type Kind string

const (
	KindLinear      Kind = "linear"
	KindBaggedTree  Kind = "bagged_tree"
	KindBoostedTree Kind = "boosted_tree"
)

// Kinds is the enumeration order used for fitting and tie-breaking.
var Kinds = []Kind{KindLinear, KindBaggedTree, KindBoostedTree}

// DefaultSeed seeds every stochastic estimator unless overridden.
const DefaultSeed uint64 = 42

// Regressor is a model that maps a predictor vector to a close price.
type Regressor interface {
	Fit(x [][]float64, y []float64) error
	Predict(x []float64) float64
}

// New builds an unfitted regressor of the given kind.
func New(kind Kind, seed uint64) (Regressor, error) {
	switch kind {
	case KindLinear:
		return NewLinear(), nil
	case KindBaggedTree:
		return NewBaggedTrees(BaggedTreeTrees, seed), nil
	case KindBoostedTree:
		return NewBoostedTrees(BoostedRounds, seed), nil
	default:
		return nil, fmt.Errorf("unknown regressor kind %q", kind)
	}
}

// PredictAll predicts every row of x.
func PredictAll(m Regressor, x [][]float64) []float64 {
	out := make([]float64, len(x))
	for i, row := range x {
		out[i] = m.Predict(row)
	}
	return out
}

var errEmptyTrainingSet = errors.New("empty training set")

// checkTrainingSet rejects ragged, empty or non-finite inputs.
func checkTrainingSet(x [][]float64, y []float64) error {
	if len(x) == 0 {
		return errEmptyTrainingSet
	}
	if len(x) != len(y) {
		return fmt.Errorf("x has %d rows, y has %d", len(x), len(y))
	}
	width := len(x[0])
	if width == 0 {
		return errors.New("no predictor columns")
	}
	for i, row := range x {
		if len(row) != width {
			return fmt.Errorf("row %d has %d columns, want %d", i, len(row), width)
		}
		for j, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("non-finite predictor at row %d column %d", i, j)
			}
		}
		if math.IsNaN(y[i]) || math.IsInf(y[i], 0) {
			return fmt.Errorf("non-finite target at row %d", i)
		}
	}
	return nil
}
