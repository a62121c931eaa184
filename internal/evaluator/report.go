// Package evaluator - Export functions for metrics reports
package evaluator

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
)

// ExportJSON writes the report as indented JSON
func (r *Report) ExportJSON(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create JSON report: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(r); err != nil {
		return fmt.Errorf("failed to encode JSON report: %w", err)
	}
	return nil
}

// ExportCSV writes the report as CSV sections for spreadsheet analysis
func (r *Report) ExportCSV(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create CSV report: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	writer.Write([]string{"# GNSS Signal Classification Report"})
	writer.Write([]string{"# Evaluated", r.EvaluatedAt.Format("2006-01-02 15:04:05")})
	writer.Write([]string{"# Algorithm", r.Algorithm})
	writer.Write([]string{"# Vectors", fmt.Sprintf("%d", r.Count)})
	writer.Write([]string{"# Accuracy", fmt.Sprintf("%.4f", r.Accuracy)})
	writer.Write([]string{"# RMSE", fmt.Sprintf("%.4f", r.RMSE)})
	writer.Write([]string{""})

	writer.Write([]string{"# Per-Class Metrics"})
	writer.Write([]string{"Class", "Precision", "Recall", "F1", "Support"})
	for _, cm := range r.PerClass {
		writer.Write([]string{
			cm.Class,
			fmt.Sprintf("%.4f", cm.Precision),
			fmt.Sprintf("%.4f", cm.Recall),
			fmt.Sprintf("%.4f", cm.F1),
			fmt.Sprintf("%d", cm.Support),
		})
	}
	writer.Write([]string{""})

	writer.Write([]string{"# Confusion Matrix (rows: truth, cols: prediction)"})
	writer.Write(append([]string{"truth\\pred"}, r.Classes...))
	for i, class := range r.Classes {
		row := []string{class}
		for _, v := range r.Confusion[i] {
			row = append(row, fmt.Sprintf("%d", v))
		}
		writer.Write(row)
	}

	return nil
}

// ExportText writes the human-readable report to a file
func (r *Report) ExportText(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create text report: %w", err)
	}
	defer file.Close()
	return r.WriteText(file)
}

// WriteText renders the report tables to the given writer
func (r *Report) WriteText(w io.Writer) error {
	fmt.Fprintf(w, "GNSS Signal Classification Report\n")
	fmt.Fprintf(w, "Evaluated: %s\n", r.EvaluatedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "Algorithm: %s\n", r.Algorithm)
	fmt.Fprintf(w, "Vectors:   %d\n\n", r.Count)

	summary := table.NewWriter()
	summary.SetOutputMirror(w)
	summary.AppendHeader(table.Row{"Metric", "Value"})
	summary.AppendRows([]table.Row{
		{"Accuracy", fmt.Sprintf("%.4f", r.Accuracy)},
		{"Macro Precision", fmt.Sprintf("%.4f", r.MacroPrecision)},
		{"Macro Recall", fmt.Sprintf("%.4f", r.MacroRecall)},
		{"Macro F1", fmt.Sprintf("%.4f", r.MacroF1)},
		{"RMSE", fmt.Sprintf("%.4f", r.RMSE)},
	})
	summary.Render()
	fmt.Fprintln(w)

	perClass := table.NewWriter()
	perClass.SetOutputMirror(w)
	perClass.AppendHeader(table.Row{"Class", "Precision", "Recall", "F1", "Support"})
	for _, cm := range r.PerClass {
		perClass.AppendRow(table.Row{
			cm.Class,
			fmt.Sprintf("%.4f", cm.Precision),
			fmt.Sprintf("%.4f", cm.Recall),
			fmt.Sprintf("%.4f", cm.F1),
			cm.Support,
		})
	}
	perClass.Render()
	fmt.Fprintln(w)

	confusion := table.NewWriter()
	confusion.SetOutputMirror(w)
	header := table.Row{"truth \\ pred"}
	for _, c := range r.Classes {
		header = append(header, c)
	}
	confusion.AppendHeader(header)
	for i, class := range r.Classes {
		row := table.Row{class}
		for _, v := range r.Confusion[i] {
			row = append(row, v)
		}
		confusion.AppendRow(row)
	}
	confusion.Render()

	return nil
}

// Export writes the report in the requested format
func (r *Report) Export(format, filename string) error {
	switch format {
	case "json":
		return r.ExportJSON(filename)
	case "csv":
		return r.ExportCSV(filename)
	case "text":
		return r.ExportText(filename)
	default:
		return fmt.Errorf("unsupported report format: %s", format)
	}
}
