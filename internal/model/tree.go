package model

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
)

// Tree is a CART-style decision tree classifier. All exported fields are
// part of the serialized artifact.
type Tree struct {
	MaxDepth        int
	MinSamplesSplit int
	MaxFeatures     int
	Criterion       string
	Seed            int64

	Classes []int // class codes in first-seen order
	Root    *Node
}

// Node is one tree node. Leaf nodes carry the class distribution.
type Node struct {
	Leaf      bool
	Feature   int     // split feature index
	Threshold float64 // x[Feature] <= Threshold goes left
	Left      *Node
	Right     *Node
	N         int       // samples that reached this node during Fit
	Probas    []float64 // leaf class distribution, aligned with Classes
	Pred      int       // index into Classes of the majority class
}

// NewTree returns an unfitted tree with the given hyperparameters
func NewTree(p Params) *Tree {
	criterion := p.Criterion
	if criterion == "" {
		criterion = "gini"
	}
	return &Tree{
		MaxDepth:        p.MaxDepth,
		MinSamplesSplit: max(p.MinSamplesSplit, 2),
		MaxFeatures:     p.MaxFeatures,
		Criterion:       criterion,
		Seed:            p.Seed,
	}
}

// Fit grows the tree on X (rows x features) and class codes y.
// Growth is deterministic for a fixed seed.
func (t *Tree) Fit(X [][]float64, y []int) error {
	if len(X) == 0 {
		return fmt.Errorf("tree: empty feature matrix")
	}
	if len(y) != len(X) {
		return fmt.Errorf("tree: %d rows but %d labels", len(X), len(y))
	}
	p := len(X[0])
	for i := range X {
		if len(X[i]) != p {
			return fmt.Errorf("tree: row %d has %d features, expected %d", i, len(X[i]), p)
		}
	}

	t.Classes = nil
	seen := map[int]bool{}
	for _, label := range y {
		if !seen[label] {
			seen[label] = true
			t.Classes = append(t.Classes, label)
		}
	}

	idx := make([]int, len(X))
	for i := range idx {
		idx[i] = i
	}

	rnd := rand.New(rand.NewSource(t.Seed))
	t.Root = t.grow(X, y, idx, 0, p, rnd)
	return nil
}

// Predict returns the majority class of the leaf each row lands in
func (t *Tree) Predict(X [][]float64) []int {
	out := make([]int, len(X))
	for i := range X {
		out[i] = t.Classes[t.leaf(X[i]).Pred]
	}
	return out
}

// PredictProba returns per-class probability rows aligned with Classes
func (t *Tree) PredictProba(X [][]float64) [][]float64 {
	out := make([][]float64, len(X))
	for i := range X {
		out[i] = t.leaf(X[i]).Probas
	}
	return out
}

func (t *Tree) leaf(x []float64) *Node {
	node := t.Root
	for !node.Leaf {
		if x[node.Feature] <= node.Threshold {
			node = node.Left
		} else {
			node = node.Right
		}
	}
	return node
}

func (t *Tree) grow(X [][]float64, y, idx []int, depth, p int, rnd *rand.Rand) *Node {
	counts := t.classCounts(y, idx)
	node := &Node{N: len(idx)}

	if pure(counts) || len(idx) < t.MinSamplesSplit || (t.MaxDepth > 0 && depth >= t.MaxDepth) {
		return t.toLeaf(node, counts)
	}

	feature, threshold, gain, leftIdx, rightIdx := t.bestSplit(X, y, idx, p, counts, rnd)
	if feature < 0 || gain <= 0 {
		return t.toLeaf(node, counts)
	}

	node.Feature = feature
	node.Threshold = threshold
	node.Left = t.grow(X, y, leftIdx, depth+1, p, rnd)
	node.Right = t.grow(X, y, rightIdx, depth+1, p, rnd)
	return node
}

func (t *Tree) toLeaf(node *Node, counts []int) *Node {
	node.Leaf = true
	node.Probas = probas(counts)
	node.Pred = argmax(counts)
	return node
}

// bestSplit scans candidate thresholds on a (possibly sampled) feature
// subset and returns the split with the highest impurity decrease.
func (t *Tree) bestSplit(X [][]float64, y, idx []int, p int, counts []int, rnd *rand.Rand) (feature int, threshold, gain float64, leftIdx, rightIdx []int) {
	feature = -1

	featIdx := make([]int, p)
	for j := range featIdx {
		featIdx[j] = j
	}
	if t.MaxFeatures > 0 && t.MaxFeatures < p {
		rnd.Shuffle(p, func(a, b int) { featIdx[a], featIdx[b] = featIdx[b], featIdx[a] })
		featIdx = featIdx[:t.MaxFeatures]
		sort.Ints(featIdx) // scan order stays deterministic
	}

	parent := t.impurity(counts)
	total := float64(len(idx))

	type pair struct {
		v float64
		i int
	}

	for _, f := range featIdx {
		pairs := make([]pair, len(idx))
		for k, ii := range idx {
			pairs[k] = pair{X[ii][f], ii}
		}
		sort.Slice(pairs, func(a, b int) bool { return pairs[a].v < pairs[b].v })

		for s := 1; s < len(pairs); s++ {
			if pairs[s].v == pairs[s-1].v {
				continue
			}
			left := make([]int, s)
			right := make([]int, len(pairs)-s)
			for k := 0; k < s; k++ {
				left[k] = pairs[k].i
			}
			for k := s; k < len(pairs); k++ {
				right[k-s] = pairs[k].i
			}

			lc := t.classCounts(y, left)
			rc := t.classCounts(y, right)
			weighted := float64(len(left))/total*t.impurity(lc) + float64(len(right))/total*t.impurity(rc)
			if g := parent - weighted; g > gain {
				gain = g
				feature = f
				threshold = (pairs[s-1].v + pairs[s].v) / 2
				leftIdx, rightIdx = left, right
			}
		}
	}
	return feature, threshold, gain, leftIdx, rightIdx
}

func (t *Tree) classCounts(y, idx []int) []int {
	counts := make([]int, len(t.Classes))
	for _, ii := range idx {
		counts[t.classIndex(y[ii])]++
	}
	return counts
}

func (t *Tree) classIndex(label int) int {
	for i, c := range t.Classes {
		if c == label {
			return i
		}
	}
	return 0
}

func (t *Tree) impurity(counts []int) float64 {
	if t.Criterion == "entropy" {
		return entropy(counts)
	}
	return gini(counts)
}

func gini(counts []int) float64 {
	n := 0.0
	for _, c := range counts {
		n += float64(c)
	}
	if n == 0 {
		return 0
	}
	res := 0.0
	for _, c := range counts {
		p := float64(c) / n
		res += p * (1 - p)
	}
	return res
}

func entropy(counts []int) float64 {
	n := 0.0
	for _, c := range counts {
		n += float64(c)
	}
	if n == 0 {
		return 0
	}
	res := 0.0
	for _, c := range counts {
		if c == 0 {
			continue
		}
		p := float64(c) / n
		res -= p * math.Log2(p)
	}
	return res
}

func pure(counts []int) bool {
	nonZero := 0
	for _, c := range counts {
		if c > 0 {
			nonZero++
		}
	}
	return nonZero <= 1
}

func probas(counts []int) []float64 {
	n := 0
	for _, c := range counts {
		n += c
	}
	p := make([]float64, len(counts))
	if n == 0 {
		return p
	}
	for i, c := range counts {
		p[i] = float64(c) / float64(n)
	}
	return p
}

func argmax(counts []int) int {
	best := 0
	for i := 1; i < len(counts); i++ {
		if counts[i] > counts[best] {
			best = i
		}
	}
	return best
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
