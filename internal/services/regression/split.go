package regression

import (
	"math"
	"math/rand/v2"
)

// DefaultTestFraction is the share of rows held out for scoring.
const DefaultTestFraction = 0.2

// TrainTestSplit shuffles row indices with a seeded PRNG and holds out
// ceil(testFraction*n) of them. The same n, fraction and seed always give the
// same partition.
func TrainTestSplit(n int, testFraction float64, seed uint64) (train, test []int) {
	rng := rand.New(rand.NewPCG(seed, seed))
	perm := rng.Perm(n)
	nTest := int(math.Ceil(testFraction * float64(n)))
	if nTest > n {
		nTest = n
	}
	return perm[nTest:], perm[:nTest]
}

func takeRows(x [][]float64, y []float64, idx []int) ([][]float64, []float64) {
	xs := make([][]float64, len(idx))
	ys := make([]float64, len(idx))
	for i, j := range idx {
		xs[i] = x[j]
		ys[i] = y[j]
	}
	return xs, ys
}
