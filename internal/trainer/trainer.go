// Package trainer fits a classifier on labeled feature vectors
package trainer

import (
	"fmt"
	"math/rand"

	"gnss-classifier/internal/dataset"
	"gnss-classifier/internal/features"
	"gnss-classifier/internal/model"
)

// TrainingError reports insufficient or degenerate labeled data.
// The pipeline treats it as terminal.
type TrainingError struct {
	Msg string
}

func (e *TrainingError) Error() string {
	return "training error: " + e.Msg
}

// Options configures a training run
type Options struct {
	Algorithm       string       // "tree" or "forest"
	Params          model.Params // Hyperparameters
	ValidationRatio float64      // Fraction of vectors held out
	Seed            int64        // Seed for the split (and the classifier)
	MinSamples      int          // Minimum labeled vectors required
}

// Result holds the fitted classifier and its training metrics
type Result struct {
	Classifier         model.Classifier
	Algorithm          string
	TrainCount         int
	ValidationCount    int
	TrainAccuracy      float64
	ValidationAccuracy float64
}

// Split returns a deterministic train/validation index split.
// The same n, ratio and seed always produce the same partition.
func Split(n int, ratio float64, seed int64) (trainIdx, valIdx []int) {
	perm := rand.New(rand.NewSource(seed)).Perm(n)
	nVal := int(float64(n) * ratio)
	if ratio > 0 && nVal == 0 && n > 1 {
		nVal = 1
	}
	valIdx = perm[:nVal]
	trainIdx = perm[nVal:]
	return trainIdx, valIdx
}

// Train validates the labeled dataset, performs the seeded split, fits the
// configured classifier on the training partition and measures accuracy on
// both partitions.
func Train(vectors []features.Vector, opts Options) (*Result, error) {
	labeled := make([]features.Vector, 0, len(vectors))
	for _, v := range vectors {
		if v.Label != dataset.LabelUnknown {
			labeled = append(labeled, v)
		}
	}

	if len(labeled) < opts.MinSamples {
		return nil, &TrainingError{
			Msg: fmt.Sprintf("%d labeled vectors, need at least %d", len(labeled), opts.MinSamples),
		}
	}

	present := map[dataset.Label]int{}
	for _, v := range labeled {
		present[v.Label]++
	}
	for _, class := range dataset.Classes {
		if present[class] == 0 {
			return nil, &TrainingError{
				Msg: fmt.Sprintf("class %s has zero examples", class),
			}
		}
	}

	X, labels := features.Matrix(labeled)
	y := make([]int, len(labels))
	for i, l := range labels {
		y[i] = int(l)
	}

	trainIdx, valIdx := Split(len(labeled), opts.ValidationRatio, opts.Seed)
	XTrain, yTrain := gather(X, y, trainIdx)
	XVal, yVal := gather(X, y, valIdx)

	clf, err := model.New(opts.Algorithm, opts.Params)
	if err != nil {
		return nil, err
	}
	if err := clf.Fit(XTrain, yTrain); err != nil {
		return nil, fmt.Errorf("failed to fit %s classifier: %w", opts.Algorithm, err)
	}

	result := &Result{
		Classifier:      clf,
		Algorithm:       opts.Algorithm,
		TrainCount:      len(trainIdx),
		ValidationCount: len(valIdx),
		TrainAccuracy:   accuracy(yTrain, clf.Predict(XTrain)),
	}
	if len(valIdx) > 0 {
		result.ValidationAccuracy = accuracy(yVal, clf.Predict(XVal))
	}
	return result, nil
}

func gather(X [][]float64, y []int, idx []int) ([][]float64, []int) {
	gx := make([][]float64, len(idx))
	gy := make([]int, len(idx))
	for i, ii := range idx {
		gx[i] = X[ii]
		gy[i] = y[ii]
	}
	return gx, gy
}

func accuracy(yTrue, yPred []int) float64 {
	if len(yTrue) == 0 {
		return 0
	}
	correct := 0
	for i := range yTrue {
		if yTrue[i] == yPred[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(yTrue))
}
