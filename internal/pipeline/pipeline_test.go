package pipeline

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gnss-classifier/internal/config"
	"gnss-classifier/internal/dataset"
	"gnss-classifier/internal/modelfile"
	"gnss-classifier/internal/trainer"

	"github.com/stretchr/testify/require"
)

// syntheticDataset writes 100 labeled records: ten satellites with ten
// measurements each, five LOS, three multipath and two NLOS.
func syntheticDataset(t *testing.T) string {
	t.Helper()

	var b strings.Builder
	b.WriteString("timestamp,prn,cn0_dbhz,elevation_deg,pseudorange_m,pseudorange_rate_mps,range_accel_mps2,label\n")

	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	write := func(prn string, i int, cn0, elev, rate, accel float64, label string) {
		fmt.Fprintf(&b, "%s,%s,%.2f,%.2f,%.1f,%.2f,%.3f,%s\n",
			start.Add(time.Duration(i)*time.Second).Format(time.RFC3339),
			prn, cn0, elev, 20200000.0+float64(i)*10, rate, accel, label)
	}

	for sat := 1; sat <= 10; sat++ {
		prn := fmt.Sprintf("G%02d", sat)
		for i := 0; i < 10; i++ {
			jitter := float64(i%5) * 0.3
			sign := 1.0
			if i%2 == 1 {
				sign = -1
			}
			switch {
			case sat <= 5: // strong high-elevation satellites
				write(prn, i, 48+jitter, 45+float64(sat), sign*300, 0.5+jitter/10, "LOS")
			case sat <= 8: // multipath band
				write(prn, i, 35+jitter, 20+float64(sat-5), sign*800, 6+jitter, "MP")
			default: // obstructed low satellites
				write(prn, i, 15+jitter, 5+float64(sat-8), sign*1200, 8+jitter, "NLOS")
			}
		}
	}

	path := filepath.Join(t.TempDir(), "synthetic.csv")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0644))
	return path
}

func testConfig(t *testing.T, inputPath string) *config.Config {
	cfg := config.DefaultConfig()
	cfg.Input.Path = inputPath
	cfg.Output.Dir = t.TempDir()
	cfg.Training.NEstimators = 10
	return cfg
}

func TestPipelineEndToEnd(t *testing.T) {
	inputPath := syntheticDataset(t)
	cfg := testConfig(t, inputPath)

	p, err := New(cfg, false)
	require.NoError(t, err)

	outcome, err := p.Run()
	require.NoError(t, err)

	require.Equal(t, 100, outcome.LoadStats.ValidRows)
	require.Equal(t, 10, outcome.Segments, "100 records over 10 satellites give 10 windows")
	require.Equal(t, 10, outcome.Vectors)
	require.Equal(t, 7, outcome.Training.TrainCount, "70/30 split of 10 vectors")
	require.Equal(t, 3, outcome.Training.ValidationCount)
	require.Equal(t, 3, outcome.Report.Count)

	require.GreaterOrEqual(t, outcome.Report.Accuracy, 0.0)
	require.LessOrEqual(t, outcome.Report.Accuracy, 1.0)

	// Both artifacts land in the output directory
	require.FileExists(t, outcome.ModelPath)
	require.FileExists(t, outcome.ReportPath)

	artifact, err := modelfile.ReadFile(outcome.ModelPath)
	require.NoError(t, err)
	require.Equal(t, cfg.Training.Algorithm, artifact.Algorithm)
	require.Equal(t, []string{"LOS", "MP", "NLOS"}, artifact.ClassNames)
	require.NotNil(t, artifact.Scaler)
	require.NotNil(t, artifact.Classifier)
}

func TestPipelineReproducible(t *testing.T) {
	inputPath := syntheticDataset(t)

	run := func() *Outcome {
		cfg := testConfig(t, inputPath)
		p, err := New(cfg, false)
		require.NoError(t, err)
		outcome, err := p.Run()
		require.NoError(t, err)
		return outcome
	}

	a := run()
	b := run()

	require.Equal(t, a.Training.TrainAccuracy, b.Training.TrainAccuracy,
		"same input and seed must reproduce the same metrics")
	require.Equal(t, a.Training.ValidationAccuracy, b.Training.ValidationAccuracy)
	require.Equal(t, a.Report.Accuracy, b.Report.Accuracy)
	require.Equal(t, a.Report.Confusion, b.Report.Confusion)
}

func TestPipelineSeparableDataTrainsWell(t *testing.T) {
	inputPath := syntheticDataset(t)
	cfg := testConfig(t, inputPath)

	p, err := New(cfg, false)
	require.NoError(t, err)
	outcome, err := p.Run()
	require.NoError(t, err)

	// The three classes are far apart in C/N0 alone
	require.InDelta(t, 1.0, outcome.Training.TrainAccuracy, 1e-9)
}

func TestPipelineNoCompleteWindows(t *testing.T) {
	inputPath := syntheticDataset(t)
	cfg := testConfig(t, inputPath)
	cfg.Preprocess.WindowSize = 200
	cfg.Preprocess.Stride = 200

	p, err := New(cfg, false)
	require.NoError(t, err)

	_, err = p.Run()
	require.Error(t, err)

	var dataErr *dataset.DataError
	require.True(t, errors.As(err, &dataErr), "expected a DataError, got %T", err)
}

func TestPipelineUnlabeledData(t *testing.T) {
	var b strings.Builder
	b.WriteString("timestamp,prn,cn0_dbhz,elevation_deg\n")
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 20; i++ {
		fmt.Fprintf(&b, "%s,G09,%.1f,52.0\n",
			start.Add(time.Duration(i)*time.Second).Format(time.RFC3339), 45+float64(i%4))
	}
	inputPath := filepath.Join(t.TempDir(), "unlabeled.csv")
	require.NoError(t, os.WriteFile(inputPath, []byte(b.String()), 0644))

	cfg := testConfig(t, inputPath)
	p, err := New(cfg, false)
	require.NoError(t, err)

	_, err = p.Run()
	require.Error(t, err)

	var trainErr *trainer.TrainingError
	require.True(t, errors.As(err, &trainErr), "expected a TrainingError, got %T", err)
}

func TestNewValidatesConfig(t *testing.T) {
	_, err := New(nil, false)
	require.Error(t, err)

	cfg := config.DefaultConfig()
	_, err = New(cfg, false)
	require.Error(t, err, "missing input path must be rejected")

	cfg = config.DefaultConfig()
	cfg.Input.Path = "data.csv"
	cfg.Training.ValidationRatio = 1.0
	_, err = New(cfg, false)
	require.Error(t, err)

	cfg = config.DefaultConfig()
	cfg.Input.Path = "data.csv"
	cfg.Preprocess.Scaler = "robust"
	_, err = New(cfg, false)
	require.Error(t, err)

	cfg = config.DefaultConfig()
	cfg.Input.Path = "data.csv"
	cfg.Training.Algorithm = "svm"
	_, err = New(cfg, false)
	require.Error(t, err)
}
