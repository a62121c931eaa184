package evaluator

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"gnss-classifier/internal/dataset"

	"github.com/stretchr/testify/require"
)

func sampleReport(t *testing.T) *Report {
	t.Helper()
	vectors := labeledVectors(
		dataset.LabelLOS, dataset.LabelLOS, dataset.LabelMultipath, dataset.LabelNLOS,
	)
	report, err := Evaluate(&fixedClassifier{preds: []int{0, 1, 1, 2}}, vectors)
	require.NoError(t, err)
	report.Algorithm = "forest"
	return report
}

func TestExportJSON(t *testing.T) {
	report := sampleReport(t)
	path := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, report.Export("json", path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var restored Report
	require.NoError(t, json.Unmarshal(data, &restored))
	require.Equal(t, report.Accuracy, restored.Accuracy)
	require.Equal(t, report.Confusion, restored.Confusion)
	require.Equal(t, report.PerClass, restored.PerClass)
	require.Equal(t, "forest", restored.Algorithm)
}

func TestExportCSV(t *testing.T) {
	report := sampleReport(t)
	path := filepath.Join(t.TempDir(), "report.csv")
	require.NoError(t, report.Export("csv", path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)
	require.Contains(t, content, "# Per-Class Metrics")
	require.Contains(t, content, "# Confusion Matrix")
	require.Contains(t, content, "LOS")
	require.Contains(t, content, "NLOS")
}

func TestWriteText(t *testing.T) {
	report := sampleReport(t)

	var buf bytes.Buffer
	require.NoError(t, report.WriteText(&buf))

	out := buf.String()
	require.Contains(t, out, "GNSS Signal Classification Report")
	require.Contains(t, out, "Accuracy")
	require.Contains(t, out, "Macro F1")
	require.Contains(t, out, "LOS")
}

func TestExportUnsupportedFormat(t *testing.T) {
	report := sampleReport(t)
	err := report.Export("xml", filepath.Join(t.TempDir(), "report.xml"))
	require.Error(t, err)
}
