// GNSS Evaluate - applies a trained model artifact to a labeled dataset
// This program loads a saved model, runs it over a held-out measurement
// file and exports the metrics report.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"gnss-classifier/internal/dataset"
	"gnss-classifier/internal/evaluator"
	"gnss-classifier/internal/features"
	"gnss-classifier/internal/modelfile"
	"gnss-classifier/internal/version"

	"github.com/spf13/cobra"
)

var (
	modelPath   string // Trained model artifact
	inputPath   string // Labeled measurement CSV
	outputDir   string // Output directory for the report
	format      string // Report format: text, csv or json
	windowSize  int    // Measurements per segment
	stride      int    // Step between consecutive windows
	showVersion bool   // Show version information
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "gnss-evaluate",
	Short: "Evaluate a trained GNSS classifier on held-out data",
	Long: `GNSS Evaluate loads a model artifact produced by the training pipeline and
measures it against a labeled measurement file that was not used in training.

The dataset goes through the same segmentation, feature extraction and
scaling recorded in the artifact, so the evaluation matches what the
classifier saw at training time.`,
	Run: func(cmd *cobra.Command, args []string) {
		if showVersion {
			fmt.Println(version.GetVersionInfo("GNSS Evaluate"))
			return
		}
		if err := runEvaluate(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.Flags().StringVarP(&modelPath, "model", "m", "", "trained model artifact")
	rootCmd.Flags().StringVarP(&inputPath, "input", "i", "", "labeled measurement CSV file")
	rootCmd.Flags().StringVarP(&outputDir, "output", "o", "./results", "output directory")
	rootCmd.Flags().StringVarP(&format, "format", "f", "text", "report format (text, csv, json)")
	rootCmd.Flags().IntVarP(&windowSize, "window", "w", 10, "measurements per segment")
	rootCmd.Flags().IntVar(&stride, "stride", 10, "step between consecutive windows")
	rootCmd.Flags().BoolVar(&showVersion, "version", false, "show version information")
	rootCmd.MarkFlagRequired("model")
	rootCmd.MarkFlagRequired("input")
}

// runEvaluate is the main application logic
func runEvaluate() error {
	fmt.Printf("Loading model artifact %s...\n", modelPath)
	artifact, err := modelfile.ReadFile(modelPath)
	if err != nil {
		return err
	}
	fmt.Printf("Model: %s, trained %s, %d features\n",
		artifact.Algorithm,
		artifact.CreatedAt.Format("2006-01-02 15:04:05"),
		len(artifact.FeatureNames))

	measurements, loadStats, err := dataset.Load(inputPath)
	if err != nil {
		return err
	}
	fmt.Printf("Loaded %d valid records (%d dropped)\n", loadStats.ValidRows, loadStats.DroppedRows)

	segmenter, err := dataset.NewSegmenter(windowSize, stride)
	if err != nil {
		return err
	}
	segments := segmenter.Segment(measurements)
	vectors, err := features.ExtractAll(segments)
	if err != nil {
		return err
	}
	fmt.Printf("Evaluating on %d feature vectors...\n", len(vectors))

	// Apply the scaling parameters stored at training time
	X, _ := features.Matrix(vectors)
	XScaled := artifact.Scaler.Transform(X)
	for i := range vectors {
		vectors[i].Values = XScaled[i]
	}

	report, err := evaluator.Evaluate(artifact.Classifier, vectors)
	if err != nil {
		return err
	}
	report.Algorithm = artifact.Algorithm

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	ext := map[string]string{"text": ".txt", "csv": ".csv", "json": ".json"}[format]
	if ext == "" {
		return fmt.Errorf("unsupported report format: %s", format)
	}
	reportPath := filepath.Join(outputDir, "report"+ext)
	if err := report.Export(format, reportPath); err != nil {
		return err
	}

	fmt.Printf("\n")
	if err := report.WriteText(os.Stdout); err != nil {
		return err
	}
	fmt.Printf("\nReport written to %s\n", reportPath)
	return nil
}

// main is the entry point of the application
func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
