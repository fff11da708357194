package regression

import "math/rand/v2"

// BaggedTreeTrees is the ensemble size of the bagged tree candidate.
const BaggedTreeTrees = 100

// BaggedTrees averages fully grown regression trees, each fit on a bootstrap
// sample of the training rows.
type BaggedTrees struct {
	n     int
	seed  uint64
	trees []*tree
}

func NewBaggedTrees(n int, seed uint64) *BaggedTrees {
	return &BaggedTrees{n: n, seed: seed}
}

func (m *BaggedTrees) Fit(x [][]float64, y []float64) error {
	if err := checkTrainingSet(x, y); err != nil {
		return err
	}
	rng := rand.New(rand.NewPCG(m.seed, m.seed))
	m.trees = make([]*tree, 0, m.n)
	sample := make([]int, len(x))
	for t := 0; t < m.n; t++ {
		for i := range sample {
			sample[i] = rng.IntN(len(x))
		}
		m.trees = append(m.trees, growTree(x, y, sample, treeParams{minLeaf: 1}))
	}
	return nil
}

func (m *BaggedTrees) Predict(x []float64) float64 {
	if len(m.trees) == 0 {
		return 0
	}
	sum := 0.0
	for _, t := range m.trees {
		sum += t.predict(x)
	}
	return sum / float64(len(m.trees))
}
