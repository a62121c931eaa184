// Package model implements the supervised classifiers used by the pipeline
package model

import (
	"encoding/gob"
	"fmt"
)

// Algorithm identifiers accepted in configuration
const (
	AlgorithmTree   = "tree"
	AlgorithmForest = "forest"
)

// Classifier maps feature vectors to predicted class codes.
// Implementations are read-only after Fit.
type Classifier interface {
	Fit(X [][]float64, y []int) error
	Predict(X [][]float64) []int
}

// Params holds the hyperparameters shared by the available algorithms
type Params struct {
	MaxDepth        int    // Tree depth limit (0 = unlimited)
	MinSamplesSplit int    // Minimum samples to attempt a split
	NEstimators     int    // Forest size
	MaxFeatures     int    // Features sampled per split (0 = all)
	Criterion       string // "gini" or "entropy"
	Seed            int64  // Seed for bootstrap and feature sampling
}

// New returns a classifier for the given algorithm identifier
func New(algorithm string, p Params) (Classifier, error) {
	switch algorithm {
	case AlgorithmTree:
		return NewTree(p), nil
	case AlgorithmForest:
		return NewForest(p), nil
	default:
		return nil, fmt.Errorf("unknown algorithm %q (must be %q or %q)", algorithm, AlgorithmTree, AlgorithmForest)
	}
}

func init() {
	// Concrete classifier types travel through the model artifact as a
	// gob-encoded Classifier value.
	gob.Register(&Tree{})
	gob.Register(&Forest{})
}
