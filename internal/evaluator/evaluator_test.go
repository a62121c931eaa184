package evaluator

import (
	"math"
	"testing"

	"gnss-classifier/internal/dataset"
	"gnss-classifier/internal/features"

	"github.com/stretchr/testify/require"
)

// fixedClassifier replays a canned prediction sequence
type fixedClassifier struct {
	preds []int
}

func (f *fixedClassifier) Fit(X [][]float64, y []int) error { return nil }

func (f *fixedClassifier) Predict(X [][]float64) []int {
	return f.preds[:len(X)]
}

func labeledVectors(labels ...dataset.Label) []features.Vector {
	out := make([]features.Vector, len(labels))
	for i, l := range labels {
		out[i] = features.Vector{
			Names:  []string{"a"},
			Values: []float64{float64(i)},
			Label:  l,
		}
	}
	return out
}

func TestEvaluateKnownConfusion(t *testing.T) {
	// Truth:      LOS LOS LOS MP  MP  NLOS
	// Prediction: LOS LOS MP  MP  MP  NLOS
	vectors := labeledVectors(
		dataset.LabelLOS, dataset.LabelLOS, dataset.LabelLOS,
		dataset.LabelMultipath, dataset.LabelMultipath,
		dataset.LabelNLOS,
	)
	clf := &fixedClassifier{preds: []int{0, 0, 1, 1, 1, 2}}

	report, err := Evaluate(clf, vectors)
	require.NoError(t, err)

	require.Equal(t, 6, report.Count)
	require.InDelta(t, 5.0/6.0, report.Accuracy, 1e-9)

	// One miss at distance 1
	require.InDelta(t, math.Sqrt(1.0/6.0), report.RMSE, 1e-9)

	require.Equal(t, []string{"LOS", "MP", "NLOS"}, report.Classes)
	require.Equal(t, [][]int{
		{2, 1, 0},
		{0, 2, 0},
		{0, 0, 1},
	}, report.Confusion)

	los := report.PerClass[0]
	require.Equal(t, 3, los.Support)
	require.InDelta(t, 1.0, los.Precision, 1e-9)
	require.InDelta(t, 2.0/3.0, los.Recall, 1e-9)
	require.InDelta(t, 0.8, los.F1, 1e-9)

	mp := report.PerClass[1]
	require.Equal(t, 2, mp.Support)
	require.InDelta(t, 2.0/3.0, mp.Precision, 1e-9)
	require.InDelta(t, 1.0, mp.Recall, 1e-9)
	require.InDelta(t, 0.8, mp.F1, 1e-9)

	nlos := report.PerClass[2]
	require.Equal(t, 1, nlos.Support)
	require.InDelta(t, 1.0, nlos.Precision, 1e-9)
	require.InDelta(t, 1.0, nlos.Recall, 1e-9)

	require.InDelta(t, (1.0+2.0/3.0+1.0)/3.0, report.MacroPrecision, 1e-9)
	require.InDelta(t, (2.0/3.0+1.0+1.0)/3.0, report.MacroRecall, 1e-9)
}

func TestEvaluatePerfectPredictions(t *testing.T) {
	vectors := labeledVectors(dataset.LabelLOS, dataset.LabelMultipath, dataset.LabelNLOS)
	clf := &fixedClassifier{preds: []int{0, 1, 2}}

	report, err := Evaluate(clf, vectors)
	require.NoError(t, err)
	require.InDelta(t, 1.0, report.Accuracy, 1e-12)
	require.InDelta(t, 0.0, report.RMSE, 1e-12)
	require.InDelta(t, 1.0, report.MacroF1, 1e-12)
}

func TestEvaluateSkipsUnlabeled(t *testing.T) {
	vectors := labeledVectors(
		dataset.LabelLOS, dataset.LabelUnknown, dataset.LabelNLOS, dataset.LabelMultipath,
	)
	clf := &fixedClassifier{preds: []int{0, 2, 1}}

	report, err := Evaluate(clf, vectors)
	require.NoError(t, err)
	require.Equal(t, 3, report.Count, "unlabeled vectors are skipped")
}

func TestEvaluateIncludesAnomalyWhenPresent(t *testing.T) {
	vectors := labeledVectors(
		dataset.LabelLOS, dataset.LabelMultipath, dataset.LabelNLOS, dataset.LabelAnomaly,
	)
	clf := &fixedClassifier{preds: []int{0, 1, 2, 3}}

	report, err := Evaluate(clf, vectors)
	require.NoError(t, err)
	require.Equal(t, []string{"LOS", "MP", "NLOS", "ANOMALY"}, report.Classes)
	require.Len(t, report.Confusion, 4)
}

func TestEvaluateNoLabels(t *testing.T) {
	vectors := labeledVectors(dataset.LabelUnknown, dataset.LabelUnknown)
	_, err := Evaluate(&fixedClassifier{preds: []int{0, 0}}, vectors)
	require.Error(t, err)
}
