// GNSS Import - converts recorded NMEA 0183 logs into measurement CSV files
// This program extracts per-satellite signal observations (PRN, elevation,
// azimuth, SNR) from GSV sentences in an NMEA log.
package main

import (
	"fmt"
	"os"

	"gnss-classifier/internal/nmeaconv"
	"gnss-classifier/internal/version"

	"github.com/spf13/cobra"
)

var (
	inputPath   string // NMEA log file
	outputPath  string // Destination measurement CSV
	showVersion bool   // Show version information
	verbose     bool   // Enable verbose logging
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "gnss-import",
	Short: "Convert NMEA 0183 logs into measurement CSV files",
	Long: `GNSS Import reads a recorded NMEA 0183 log file and writes one measurement
row per tracked satellite per GSV sentence. RMC and GGA sentences provide
the observation epoch.

NMEA carries no range observables, so the produced files contain signal
strength and geometry columns only. The importer works on recorded logs;
it does not talk to live receivers.`,
	Run: func(cmd *cobra.Command, args []string) {
		if showVersion {
			fmt.Println(version.GetVersionInfo("GNSS Import"))
			return
		}
		if err := runImport(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.Flags().StringVarP(&inputPath, "input", "i", "", "NMEA log file")
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "measurements.csv", "output CSV file")
	rootCmd.Flags().BoolVar(&showVersion, "version", false, "show version information")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.MarkFlagRequired("input")
}

// runImport is the main application logic
func runImport() error {
	fmt.Printf("Converting %s...\n", inputPath)

	stats, err := nmeaconv.Convert(inputPath, outputPath)
	if err != nil {
		return err
	}

	if verbose {
		fmt.Printf("Scanned %d lines, %d valid sentences, %d parse errors\n",
			stats.Lines, stats.Sentences, stats.ParseErrors)
	}
	fmt.Printf("Wrote %d measurements to %s\n", stats.Measurements, outputPath)
	return nil
}

// main is the entry point of the application
func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
