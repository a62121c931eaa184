package model

import (
	"fmt"
	"math/rand"
)

// Forest is a bagged ensemble of decision trees with majority voting.
// Trees are grown sequentially so a fixed seed yields an identical forest.
type Forest struct {
	NEstimators     int
	MaxDepth        int
	MinSamplesSplit int
	MaxFeatures     int
	Criterion       string
	Seed            int64

	Trees []*Tree
}

// NewForest returns an unfitted forest with the given hyperparameters
func NewForest(p Params) *Forest {
	n := p.NEstimators
	if n <= 0 {
		n = 50
	}
	return &Forest{
		NEstimators:     n,
		MaxDepth:        p.MaxDepth,
		MinSamplesSplit: max(p.MinSamplesSplit, 2),
		MaxFeatures:     p.MaxFeatures,
		Criterion:       p.Criterion,
		Seed:            p.Seed,
	}
}

// Fit grows NEstimators trees, each on a bootstrap resample of the data
func (f *Forest) Fit(X [][]float64, y []int) error {
	if len(X) == 0 {
		return fmt.Errorf("forest: empty feature matrix")
	}
	if len(y) != len(X) {
		return fmt.Errorf("forest: %d rows but %d labels", len(X), len(y))
	}

	n := len(X)
	f.Trees = make([]*Tree, f.NEstimators)

	for i := 0; i < f.NEstimators; i++ {
		// Each tree gets its own seed so the forest is reproducible
		// without the trees being clones of each other.
		treeSeed := f.Seed + int64(i)
		rnd := rand.New(rand.NewSource(treeSeed))

		bootX := make([][]float64, n)
		bootY := make([]int, n)
		for j := 0; j < n; j++ {
			k := rnd.Intn(n)
			bootX[j] = X[k]
			bootY[j] = y[k]
		}

		// A bootstrap resample can miss a class entirely; retry off the
		// full data keeps every tree aware of all classes seen by Fit.
		if !sameClassSet(bootY, y) {
			bootX = X
			bootY = y
		}

		tree := NewTree(Params{
			MaxDepth:        f.MaxDepth,
			MinSamplesSplit: f.MinSamplesSplit,
			MaxFeatures:     f.MaxFeatures,
			Criterion:       f.Criterion,
			Seed:            treeSeed,
		})
		if err := tree.Fit(bootX, bootY); err != nil {
			return fmt.Errorf("forest: tree %d: %w", i, err)
		}
		f.Trees[i] = tree
	}
	return nil
}

// Predict returns the majority vote across trees. Ties break toward the
// lowest class code so prediction is deterministic.
func (f *Forest) Predict(X [][]float64) []int {
	votes := make([]map[int]int, len(X))
	for i := range votes {
		votes[i] = make(map[int]int)
	}
	for _, tree := range f.Trees {
		for i, pred := range tree.Predict(X) {
			votes[i][pred]++
		}
	}

	out := make([]int, len(X))
	for i, v := range votes {
		best, bestCount := 0, -1
		for class, count := range v {
			if count > bestCount || (count == bestCount && class < best) {
				best, bestCount = class, count
			}
		}
		out[i] = best
	}
	return out
}

func sameClassSet(sample, full []int) bool {
	have := map[int]bool{}
	for _, c := range sample {
		have[c] = true
	}
	for _, c := range full {
		if !have[c] {
			return false
		}
	}
	return true
}
