package model

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

// separable builds a three-class dataset with well-separated clusters
func separable(seed int64, perClass int) (X [][]float64, y []int) {
	rnd := rand.New(rand.NewSource(seed))
	centers := [][]float64{{0, 0}, {10, 10}, {-10, 10}}
	for class, center := range centers {
		for i := 0; i < perClass; i++ {
			X = append(X, []float64{
				center[0] + rnd.NormFloat64(),
				center[1] + rnd.NormFloat64(),
			})
			y = append(y, class)
		}
	}
	return X, y
}

func TestTreeFitsSeparableData(t *testing.T) {
	X, y := separable(1, 20)

	tree := NewTree(Params{MaxDepth: 8, MinSamplesSplit: 2, Seed: 42})
	require.NoError(t, tree.Fit(X, y))

	preds := tree.Predict(X)
	require.Equal(t, y, preds, "a deep tree should fit separable clusters exactly")
}

func TestTreeDepthLimit(t *testing.T) {
	X, y := separable(2, 20)

	tree := NewTree(Params{MaxDepth: 1, Seed: 42})
	require.NoError(t, tree.Fit(X, y))

	// A stump has at most one internal node
	require.False(t, tree.Root.Leaf)
	require.True(t, tree.Root.Left.Leaf)
	require.True(t, tree.Root.Right.Leaf)
}

func TestTreeReproducible(t *testing.T) {
	X, y := separable(3, 15)

	a := NewTree(Params{MaxDepth: 6, MaxFeatures: 1, Seed: 7})
	b := NewTree(Params{MaxDepth: 6, MaxFeatures: 1, Seed: 7})
	require.NoError(t, a.Fit(X, y))
	require.NoError(t, b.Fit(X, y))

	probe, _ := separable(4, 10)
	require.Equal(t, a.Predict(probe), b.Predict(probe), "same seed must give the same tree")
}

func TestTreePredictProba(t *testing.T) {
	X, y := separable(5, 20)

	tree := NewTree(Params{MaxDepth: 8, Seed: 42})
	require.NoError(t, tree.Fit(X, y))

	for _, row := range tree.PredictProba(X) {
		require.Len(t, row, len(tree.Classes))
		sum := 0.0
		for _, p := range row {
			require.GreaterOrEqual(t, p, 0.0)
			sum += p
		}
		require.InDelta(t, 1.0, sum, 1e-9)
	}
}

func TestTreeEntropyCriterion(t *testing.T) {
	X, y := separable(6, 20)

	tree := NewTree(Params{MaxDepth: 8, Criterion: "entropy", Seed: 42})
	require.NoError(t, tree.Fit(X, y))
	require.Equal(t, y, tree.Predict(X))
}

func TestTreeFitValidation(t *testing.T) {
	tree := NewTree(Params{Seed: 42})
	require.Error(t, tree.Fit(nil, nil), "empty matrix must be rejected")
	require.Error(t, tree.Fit([][]float64{{1, 2}}, []int{0, 1}), "row/label mismatch must be rejected")
	require.Error(t, tree.Fit([][]float64{{1, 2}, {1}}, []int{0, 1}), "ragged rows must be rejected")
}

func TestTreeSingleClass(t *testing.T) {
	X := [][]float64{{1, 2}, {3, 4}, {5, 6}}
	y := []int{2, 2, 2}

	tree := NewTree(Params{MaxDepth: 4, Seed: 42})
	require.NoError(t, tree.Fit(X, y))
	require.True(t, tree.Root.Leaf, "a pure dataset yields a single leaf")
	require.Equal(t, []int{2, 2, 2}, tree.Predict(X))
}
