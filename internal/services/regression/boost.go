package regression

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat"
)

const (
	BoostedRounds       = 100
	BoostedMaxDepth     = 6
	BoostedLearningRate = 0.3
	BoostedLambda       = 1.0
	BoostedSubsample    = 1.0
)

// BoostedTrees is gradient boosting on squared loss. Each round fits a
// depth-limited tree to the current residuals with L2-shrunk leaves.
type BoostedTrees struct {
	rounds       int
	seed         uint64
	maxDepth     int
	learningRate float64
	lambda       float64
	subsample    float64

	base  float64
	trees []*tree
}

func NewBoostedTrees(rounds int, seed uint64) *BoostedTrees {
	return &BoostedTrees{
		rounds:       rounds,
		seed:         seed,
		maxDepth:     BoostedMaxDepth,
		learningRate: BoostedLearningRate,
		lambda:       BoostedLambda,
		subsample:    BoostedSubsample,
	}
}

func (m *BoostedTrees) Fit(x [][]float64, y []float64) error {
	if err := checkTrainingSet(x, y); err != nil {
		return err
	}
	rng := rand.New(rand.NewPCG(m.seed, m.seed))
	m.base = stat.Mean(y, nil)
	m.trees = make([]*tree, 0, m.rounds)

	pred := make([]float64, len(y))
	for i := range pred {
		pred[i] = m.base
	}
	resid := make([]float64, len(y))
	all := make([]int, len(y))
	for i := range all {
		all[i] = i
	}

	for r := 0; r < m.rounds; r++ {
		for i := range resid {
			resid[i] = y[i] - pred[i]
		}
		rows := all
		if m.subsample < 1 {
			rows = subsample(rng, len(y), m.subsample)
		}
		t := growTree(x, resid, rows, treeParams{maxDepth: m.maxDepth, minLeaf: 1, lambda: m.lambda})
		m.trees = append(m.trees, t)
		for i := range pred {
			pred[i] += m.learningRate * t.predict(x[i])
		}
	}
	return nil
}

func (m *BoostedTrees) Predict(x []float64) float64 {
	out := m.base
	for _, t := range m.trees {
		out += m.learningRate * t.predict(x)
	}
	return out
}

func subsample(rng *rand.Rand, n int, frac float64) []int {
	k := int(float64(n) * frac)
	if k < 1 {
		k = 1
	}
	return rng.Perm(n)[:k]
}
