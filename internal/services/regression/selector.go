package regression

import (
	"fmt"
	"math"

	"StockCast/internal/domain/models"

	"gonum.org/v1/gonum/stat"
)

// MinTrainingRows is the smallest feature table the selector accepts.
const MinTrainingRows = 10

// CandidateScore is the held-out R² of one fitted candidate.
type CandidateScore struct {
	Kind  Kind    `json:"kind"`
	Score float64 `json:"score"`
}

// Selection is the outcome of a model selection run.
type Selection struct {
	Kind       Kind
	Model      Regressor
	Score      float64
	Candidates []CandidateScore
}

// SelectorOption configures Selector.
type SelectorOption func(*Selector)

// Selector fits every candidate kind and keeps the best by held-out R².
type Selector struct {
	seed         uint64
	testFraction float64
	kinds        []Kind
}

// WithSeed sets the seed used for the split and every stochastic candidate.
func WithSeed(seed uint64) SelectorOption {
	return func(s *Selector) { s.seed = seed }
}

// WithTestFraction sets the held-out share.
func WithTestFraction(f float64) SelectorOption {
	return func(s *Selector) {
		if f > 0 && f < 1 {
			s.testFraction = f
		}
	}
}

// WithKinds restricts the candidate set; order decides ties.
func WithKinds(kinds ...Kind) SelectorOption {
	return func(s *Selector) {
		if len(kinds) > 0 {
			s.kinds = kinds
		}
	}
}

func NewSelector(opts ...SelectorOption) *Selector {
	s := &Selector{
		seed:         DefaultSeed,
		testFraction: DefaultTestFraction,
		kinds:        Kinds,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Select splits the table, fits each candidate on the training rows and
// returns the one with the strictly greatest test R². Ties go to the kind
// listed first. A candidate that fails to fit aborts the selection.
func (s *Selector) Select(table models.FeatureTable) (*Selection, error) {
	if len(table) < MinTrainingRows {
		return nil, fmt.Errorf("select model on %d rows (need %d): %w", len(table), MinTrainingRows, models.ErrInsufficientData)
	}

	x, y := table.Matrix()
	trainIdx, testIdx := TrainTestSplit(len(table), s.testFraction, s.seed)
	xTrain, yTrain := takeRows(x, y, trainIdx)
	xTest, yTest := takeRows(x, y, testIdx)

	fitted := make([]Regressor, 0, len(s.kinds))
	scores := make([]CandidateScore, 0, len(s.kinds))
	for _, kind := range s.kinds {
		m, err := New(kind, s.seed)
		if err != nil {
			return nil, err
		}
		if err := m.Fit(xTrain, yTrain); err != nil {
			return nil, &models.ModelFitError{Kind: string(kind), Err: err}
		}
		fitted = append(fitted, m)
		scores = append(scores, CandidateScore{Kind: kind, Score: R2(yTest, PredictAll(m, xTest))})
	}

	i := bestIndex(scores)
	return &Selection{
		Kind:       scores[i].Kind,
		Model:      fitted[i],
		Score:      scores[i].Score,
		Candidates: scores,
	}, nil
}

// bestIndex returns the first index holding the greatest score.
func bestIndex(scores []CandidateScore) int {
	best := 0
	for i := 1; i < len(scores); i++ {
		if scores[i].Score > scores[best].Score {
			best = i
		}
	}
	return best
}

// R2 is the coefficient of determination of predictions against actual
// values. Undefined scores rank below every finite score.
func R2(actual, predicted []float64) float64 {
	if len(actual) == 0 || len(actual) != len(predicted) {
		return math.Inf(-1)
	}
	r2 := stat.RSquaredFrom(predicted, actual, nil)
	if math.IsNaN(r2) {
		return math.Inf(-1)
	}
	return r2
}
