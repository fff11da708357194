package regression

import (
	"sort"
)

const leafNode = -1

type node struct {
	feature   int
	threshold float64
	left      int
	right     int
	value     float64
}

type treeParams struct {
	maxDepth int // 0 grows until leaves are pure or minimal
	minLeaf  int
	lambda   float64 // L2 shrinkage of leaf values
}

// tree is a binary regression tree stored as a flat node slice; node 0 is the root.
type tree struct {
	nodes []node
}

func (t *tree) predict(x []float64) float64 {
	i := 0
	for {
		n := &t.nodes[i]
		if n.left == leafNode {
			return n.value
		}
		if x[n.feature] <= n.threshold {
			i = n.left
		} else {
			i = n.right
		}
	}
}

type treeBuilder struct {
	x      [][]float64
	y      []float64
	params treeParams
	nodes  []node
	order  []int
}

// growTree fits a CART tree on the rows of x listed in idx, minimising squared error.
func growTree(x [][]float64, y []float64, idx []int, p treeParams) *tree {
	if p.minLeaf < 1 {
		p.minLeaf = 1
	}
	b := &treeBuilder{x: x, y: y, params: p, order: make([]int, len(idx))}
	rows := make([]int, len(idx))
	copy(rows, idx)
	b.grow(rows, 0)
	return &tree{nodes: b.nodes}
}

func (b *treeBuilder) grow(rows []int, depth int) int {
	id := len(b.nodes)
	sum := 0.0
	for _, r := range rows {
		sum += b.y[r]
	}
	b.nodes = append(b.nodes, node{left: leafNode, right: leafNode, value: sum / (float64(len(rows)) + b.params.lambda)})

	if b.params.maxDepth > 0 && depth >= b.params.maxDepth {
		return id
	}
	if len(rows) < 2*b.params.minLeaf || pure(b.y, rows) {
		return id
	}

	feature, threshold, ok := b.bestSplit(rows, sum)
	if !ok {
		return id
	}

	left := make([]int, 0, len(rows))
	right := make([]int, 0, len(rows))
	for _, r := range rows {
		if b.x[r][feature] <= threshold {
			left = append(left, r)
		} else {
			right = append(right, r)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		return id
	}

	l := b.grow(left, depth+1)
	r := b.grow(right, depth+1)
	b.nodes[id].feature = feature
	b.nodes[id].threshold = threshold
	b.nodes[id].left = l
	b.nodes[id].right = r
	return id
}

// bestSplit scans every predictor for the threshold maximising
// sumL²/(nL+λ) + sumR²/(nR+λ), which is the squared-error reduction.
func (b *treeBuilder) bestSplit(rows []int, total float64) (int, float64, bool) {
	n := len(rows)
	lambda := b.params.lambda
	parent := total * total / (float64(n) + lambda)
	bestGain := 1e-12 * (1 + parent)
	bestFeature, bestThreshold, found := 0, 0.0, false

	order := b.order[:n]
	width := len(b.x[rows[0]])
	for f := 0; f < width; f++ {
		copy(order, rows)
		sort.Slice(order, func(i, j int) bool { return b.x[order[i]][f] < b.x[order[j]][f] })

		left := 0.0
		for k := 1; k < n; k++ {
			left += b.y[order[k-1]]
			lo, hi := b.x[order[k-1]][f], b.x[order[k]][f]
			if lo == hi || k < b.params.minLeaf || n-k < b.params.minLeaf {
				continue
			}
			right := total - left
			gain := left*left/(float64(k)+lambda) + right*right/(float64(n-k)+lambda) - parent
			if gain > bestGain {
				bestGain = gain
				bestFeature = f
				bestThreshold = midpoint(lo, hi)
				found = true
			}
		}
	}
	return bestFeature, bestThreshold, found
}

func midpoint(lo, hi float64) float64 {
	m := lo + (hi-lo)/2
	if m >= hi {
		return lo
	}
	return m
}

func pure(y []float64, rows []int) bool {
	first := y[rows[0]]
	for _, r := range rows[1:] {
		if y[r] != first {
			return false
		}
	}
	return true
}
