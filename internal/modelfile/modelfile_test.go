package modelfile

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"gnss-classifier/internal/dataset"
	"gnss-classifier/internal/model"

	"github.com/stretchr/testify/require"
)

func fittedArtifact(t *testing.T, algorithm string) (*Artifact, [][]float64) {
	t.Helper()

	X := [][]float64{
		{0.1, 0.2}, {0.2, 0.1}, {0.15, 0.25},
		{0.8, 0.9}, {0.9, 0.8}, {0.85, 0.95},
	}
	y := []int{0, 0, 0, 2, 2, 2}

	clf, err := model.New(algorithm, model.Params{MaxDepth: 4, NEstimators: 5, Seed: 42})
	require.NoError(t, err)
	require.NoError(t, clf.Fit(X, y))

	scaler, err := dataset.NewScaler(dataset.ScalerMinMax)
	require.NoError(t, err)
	require.NoError(t, scaler.Fit(X))

	return &Artifact{
		CreatedAt:    time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		Algorithm:    algorithm,
		Seed:         42,
		FeatureNames: []string{"cn0_mean", "cn0_std"},
		ClassNames:   []string{"LOS", "MP", "NLOS"},
		Scaler:       scaler,
		Classifier:   clf,
	}, X
}

func TestArtifactRoundTrip(t *testing.T) {
	for _, algorithm := range []string{model.AlgorithmTree, model.AlgorithmForest} {
		t.Run(algorithm, func(t *testing.T) {
			artifact, X := fittedArtifact(t, algorithm)
			path := filepath.Join(t.TempDir(), "model.gnssm")

			require.NoError(t, NewWriter().WriteFile(path, artifact))

			restored, err := ReadFile(path)
			require.NoError(t, err)
			require.Equal(t, FormatVersion, restored.FormatVersion)
			require.Equal(t, artifact.CreatedAt, restored.CreatedAt)
			require.Equal(t, artifact.Algorithm, restored.Algorithm)
			require.Equal(t, artifact.Seed, restored.Seed)
			require.Equal(t, artifact.FeatureNames, restored.FeatureNames)
			require.Equal(t, artifact.ClassNames, restored.ClassNames)

			// The restored scaler carries the fitted parameters
			require.Equal(t, artifact.Scaler.Transform(X), restored.Scaler.Transform(X))

			// The restored classifier predicts identically
			require.Equal(t, artifact.Classifier.Predict(X), restored.Classifier.Predict(X))
		})
	}
}

func TestReadFileRejectsWrongMagic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bogus.gnssm")
	require.NoError(t, os.WriteFile(path, []byte("NOTAMODELFILE"), 0644))

	_, err := ReadFile(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid model file format")
}

func TestReadFileRejectsFutureVersion(t *testing.T) {
	artifact, _ := fittedArtifact(t, model.AlgorithmTree)
	path := filepath.Join(t.TempDir(), "model.gnssm")
	require.NoError(t, NewWriter().WriteFile(path, artifact))

	// Corrupt the version field that follows the magic string
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	data[len("GNSSM")] = 0xFF
	data[len("GNSSM")+1] = 0xFF
	require.NoError(t, os.WriteFile(path, data, 0644))

	_, err = ReadFile(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "unsupported model format version")
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "absent.gnssm"))
	require.Error(t, err)
}
