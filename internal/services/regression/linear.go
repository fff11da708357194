package regression

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// rankTolerance is the relative singular value cutoff for the least squares solve.
const rankTolerance = 1e-10

// Linear is ordinary least squares with an intercept. Columns are centred and
// scaled before a minimum-norm SVD solve, so constant or collinear predictors
// are tolerated.
type Linear struct {
	coef      []float64
	intercept float64
}

func NewLinear() *Linear { return &Linear{} }

func (m *Linear) Fit(x [][]float64, y []float64) error {
	if err := checkTrainingSet(x, y); err != nil {
		return err
	}
	n, d := len(x), len(x[0])

	means := make([]float64, d)
	scales := make([]float64, d)
	col := make([]float64, n)
	for j := 0; j < d; j++ {
		for i := range x {
			col[i] = x[i][j]
		}
		means[j], scales[j] = stat.MeanStdDev(col, nil)
		if math.IsNaN(scales[j]) {
			scales[j] = 0
		}
	}
	ym := stat.Mean(y, nil)

	a := mat.NewDense(n, d, nil)
	b := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < d; j++ {
			if scales[j] > 0 {
				a.Set(i, j, (x[i][j]-means[j])/scales[j])
			}
		}
		b.Set(i, 0, y[i]-ym)
	}

	m.coef = make([]float64, d)
	var svd mat.SVD
	if ok := svd.Factorize(a, mat.SVDThin); !ok {
		return errors.New("svd factorization failed")
	}
	if rank := svd.Rank(rankTolerance); rank > 0 {
		var w mat.Dense
		svd.SolveTo(&w, b, rank)
		for j := 0; j < d; j++ {
			if scales[j] > 0 {
				m.coef[j] = w.At(j, 0) / scales[j]
			}
		}
	}

	m.intercept = ym
	for j := 0; j < d; j++ {
		m.intercept -= m.coef[j] * means[j]
	}
	return nil
}

func (m *Linear) Predict(x []float64) float64 {
	out := m.intercept
	for j, c := range m.coef {
		if j < len(x) {
			out += c * x[j]
		}
	}
	return out
}

// Coefficients returns a copy of the fitted slope per predictor and the intercept.
func (m *Linear) Coefficients() ([]float64, float64) {
	c := make([]float64, len(m.coef))
	copy(c, m.coef)
	return c, m.intercept
}
