// Package evaluator measures classifier performance on held-out data
package evaluator

import (
	"fmt"
	"math"
	"time"

	"gnss-classifier/internal/dataset"
	"gnss-classifier/internal/features"
	"gnss-classifier/internal/model"
)

// ClassMetrics holds the per-class breakdown
type ClassMetrics struct {
	Class     string  `json:"class"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
	Support   int     `json:"support"` // ground-truth examples of this class
}

// Report is the complete metrics report for one evaluation run
type Report struct {
	Algorithm      string         `json:"algorithm"`
	EvaluatedAt    time.Time      `json:"evaluated_at"`
	Count          int            `json:"count"`
	Accuracy       float64        `json:"accuracy"`
	RMSE           float64        `json:"rmse"` // over numeric class codes
	Classes        []string       `json:"classes"`
	Confusion      [][]int        `json:"confusion"` // rows: truth, cols: prediction
	PerClass       []ClassMetrics `json:"per_class"`
	MacroPrecision float64        `json:"macro_precision"`
	MacroRecall    float64        `json:"macro_recall"`
	MacroF1        float64        `json:"macro_f1"`
}

// Evaluate runs the classifier over the labeled vectors and computes the
// metrics report. Unlabeled vectors are skipped; evaluating a dataset with
// no labeled vectors is an error.
func Evaluate(clf model.Classifier, vectors []features.Vector) (*Report, error) {
	labeled := make([]features.Vector, 0, len(vectors))
	for _, v := range vectors {
		if v.Label != dataset.LabelUnknown {
			labeled = append(labeled, v)
		}
	}
	if len(labeled) == 0 {
		return nil, fmt.Errorf("no labeled vectors to evaluate")
	}

	X, labels := features.Matrix(labeled)
	yTrue := make([]int, len(labels))
	for i, l := range labels {
		yTrue[i] = int(l)
	}
	yPred := clf.Predict(X)

	classes := make([]dataset.Label, len(dataset.Classes))
	copy(classes, dataset.Classes)
	// Anomaly joins the report only when it occurs in truth or prediction.
	if containsCode(yTrue, int(dataset.LabelAnomaly)) || containsCode(yPred, int(dataset.LabelAnomaly)) {
		classes = append(classes, dataset.LabelAnomaly)
	}

	report := &Report{
		EvaluatedAt: time.Now(),
		Count:       len(labeled),
		Classes:     make([]string, len(classes)),
		Confusion:   make([][]int, len(classes)),
	}
	codeIndex := make(map[int]int, len(classes))
	for i, c := range classes {
		report.Classes[i] = c.String()
		report.Confusion[i] = make([]int, len(classes))
		codeIndex[int(c)] = i
	}

	correct := 0
	sumSq := 0.0
	for i := range yTrue {
		if yTrue[i] == yPred[i] {
			correct++
		}
		d := float64(yTrue[i] - yPred[i])
		sumSq += d * d
		report.Confusion[codeIndex[yTrue[i]]][codeIndex[yPred[i]]]++
	}
	report.Accuracy = float64(correct) / float64(len(yTrue))
	report.RMSE = math.Sqrt(sumSq / float64(len(yTrue)))

	for i, c := range classes {
		tp, fp, fn := 0, 0, 0
		for j := range classes {
			if i == j {
				tp = report.Confusion[i][i]
				continue
			}
			fn += report.Confusion[i][j]
			fp += report.Confusion[j][i]
		}
		cm := ClassMetrics{Class: c.String(), Support: tp + fn}
		if tp+fp > 0 {
			cm.Precision = float64(tp) / float64(tp+fp)
		}
		if tp+fn > 0 {
			cm.Recall = float64(tp) / float64(tp+fn)
		}
		if cm.Precision+cm.Recall > 0 {
			cm.F1 = 2 * cm.Precision * cm.Recall / (cm.Precision + cm.Recall)
		}
		report.PerClass = append(report.PerClass, cm)

		report.MacroPrecision += cm.Precision
		report.MacroRecall += cm.Recall
		report.MacroF1 += cm.F1
	}
	n := float64(len(classes))
	report.MacroPrecision /= n
	report.MacroRecall /= n
	report.MacroF1 /= n

	return report, nil
}

func containsCode(codes []int, code int) bool {
	for _, c := range codes {
		if c == code {
			return true
		}
	}
	return false
}
