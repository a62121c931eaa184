// GNSS Labeler - rule-based labeling of GNSS signal measurements
// This program assigns LOS/MP/NLOS labels to raw measurement files using
// domain-informed thresholds, producing training data for the classifier.
package main

import (
	"fmt"
	"os"

	"gnss-classifier/internal/dataset"
	"gnss-classifier/internal/labeler"
	"gnss-classifier/internal/version"

	"github.com/spf13/cobra"
)

var (
	inputPath   string // Measurement CSV to label
	outputPath  string // Destination for the labeled CSV
	showVersion bool   // Show version information
	verbose     bool   // Enable verbose logging
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "gnss-labeler",
	Short: "Rule-based LOS/MP/NLOS labeling of GNSS measurements",
	Long: `GNSS Labeler classifies GNSS signal observations into LOS, multipath (MP)
and NLOS categories using thresholds derived from physical signal behavior:
high C/N0 at high elevation with stable range dynamics indicates LOS, a mid
C/N0 band at low elevation with unstable dynamics indicates multipath, and
everything else is labeled NLOS (worst-case assumption).

The labeled output feeds supervised training and serves as a baseline for
comparison and data quality assessment.`,
	Run: func(cmd *cobra.Command, args []string) {
		if showVersion {
			fmt.Println(version.GetVersionInfo("GNSS Labeler"))
			return
		}
		if err := runLabeler(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.Flags().StringVarP(&inputPath, "input", "i", "", "measurement CSV file")
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "labeled.csv", "labeled output file")
	rootCmd.Flags().BoolVar(&showVersion, "version", false, "show version information")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.MarkFlagRequired("input")
}

// runLabeler is the main application logic
func runLabeler() error {
	fmt.Printf("Labeling %s...\n", inputPath)

	rules := labeler.DefaultRules()
	if verbose {
		fmt.Printf("LOS: C/N0 > %.0f dB-Hz, elevation >= %.0f°, |rate| <= %.0f m/s, |accel| <= %.1f m/s²\n",
			rules.LOSMinCN0, rules.LOSMinElevation, rules.LOSMaxRate, rules.LOSMaxAccel)
		fmt.Printf("MP:  C/N0 %.0f-%.0f dB-Hz, elevation %.0f-%.0f°, |rate| > %.0f m/s, |accel| > %.1f m/s²\n",
			rules.MPMinCN0, rules.MPMaxCN0, rules.MPMinElevation, rules.MPMaxElevation, rules.MPMinRate, rules.MPMinAccel)
	}

	summary, err := rules.LabelFile(inputPath, outputPath)
	if err != nil {
		return err
	}

	fmt.Printf("\nGNSS signal label distribution:\n")
	for _, label := range []dataset.Label{dataset.LabelLOS, dataset.LabelMultipath, dataset.LabelNLOS} {
		fmt.Printf("  %-4s %d samples\n", label, summary.Counts[label])
	}
	fmt.Printf("\nLabeled %d measurements, written to %s\n", summary.Total, outputPath)
	return nil
}

// main is the entry point of the application
func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
