// GNSS Classifier - supervised classification of GNSS signal conditions
// This program runs the full batch pipeline over a measurement file:
// cleaning, segmentation, feature extraction, training and evaluation.
package main

import (
	"fmt"
	"os"

	"gnss-classifier/internal/config"
	"gnss-classifier/internal/dataset"
	"gnss-classifier/internal/pipeline"
	"gnss-classifier/internal/version"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Command line flag variables
var (
	cfgFile     string  // Configuration file path
	inputPath   string  // Measurement CSV file
	outputDir   string  // Output directory for artifact and report
	algorithm   string  // Classifier algorithm: tree or forest
	scaler      string  // Feature scaling: minmax or zscore
	windowSize  int     // Measurements per segment
	stride      int     // Step between consecutive windows
	maxDepth    int     // Tree depth limit
	nEstimators int     // Forest size
	valRatio    float64 // Validation hold-out fraction
	seed        int64   // Random seed for reproducible splits
	reportFmt   string  // Report format: text, csv or json
	describe    bool    // Print dataset summary statistics and exit
	verbose     bool    // Enable verbose logging
	showVersion bool    // Show version information
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "gnss-classifier",
	Short: "Supervised classification of GNSS signal propagation conditions",
	Long: `GNSS Classifier trains and evaluates a supervised classifier that detects
LOS, multipath and NLOS conditions from raw GNSS signal measurements.

The pipeline cleans and normalizes the measurements, windows them into
per-satellite segments, extracts time- and frequency-domain features,
fits the configured classifier on a seeded train/validation split and
reports accuracy, precision, recall, F1 and RMSE.`,
	Run: func(cmd *cobra.Command, args []string) {
		if showVersion {
			fmt.Println(version.GetVersionInfo("GNSS Classifier"))
			return
		}
		if err := runPipeline(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

// init initializes the CLI flags and configuration
func init() {
	cobra.OnInitialize(initConfig)

	// Persistent flags available to all commands
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "./config.yaml", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Command-specific flags
	rootCmd.Flags().StringVarP(&inputPath, "input", "i", "", "measurement CSV file")
	rootCmd.Flags().StringVarP(&outputDir, "output", "o", "./results", "output directory")
	rootCmd.Flags().StringVarP(&algorithm, "algorithm", "a", "forest", "classifier algorithm (tree, forest)")
	rootCmd.Flags().StringVar(&scaler, "scaler", "zscore", "feature scaling (minmax, zscore)")
	rootCmd.Flags().IntVarP(&windowSize, "window", "w", 10, "measurements per segment")
	rootCmd.Flags().IntVar(&stride, "stride", 10, "step between consecutive windows")
	rootCmd.Flags().IntVar(&maxDepth, "max-depth", 8, "tree depth limit (0 = unlimited)")
	rootCmd.Flags().IntVar(&nEstimators, "n-estimators", 50, "number of trees in the forest")
	rootCmd.Flags().Float64Var(&valRatio, "validation-ratio", 0.3, "validation hold-out fraction")
	rootCmd.Flags().Int64Var(&seed, "seed", 42, "random seed for reproducible splits")
	rootCmd.Flags().StringVar(&reportFmt, "report-format", "text", "report format (text, csv, json)")
	rootCmd.Flags().BoolVar(&describe, "describe", false, "print dataset summary statistics and exit")
	rootCmd.Flags().BoolVar(&showVersion, "version", false, "show version information")

	// Bind command line flags to viper configuration keys
	viper.BindPFlag("input.path", rootCmd.Flags().Lookup("input"))
	viper.BindPFlag("output.dir", rootCmd.Flags().Lookup("output"))
	viper.BindPFlag("training.algorithm", rootCmd.Flags().Lookup("algorithm"))
	viper.BindPFlag("preprocess.scaler", rootCmd.Flags().Lookup("scaler"))
	viper.BindPFlag("preprocess.window_size", rootCmd.Flags().Lookup("window"))
	viper.BindPFlag("preprocess.stride", rootCmd.Flags().Lookup("stride"))
	viper.BindPFlag("training.max_depth", rootCmd.Flags().Lookup("max-depth"))
	viper.BindPFlag("training.n_estimators", rootCmd.Flags().Lookup("n-estimators"))
	viper.BindPFlag("training.validation_ratio", rootCmd.Flags().Lookup("validation-ratio"))
	viper.BindPFlag("training.seed", rootCmd.Flags().Lookup("seed"))
	viper.BindPFlag("output.report_format", rootCmd.Flags().Lookup("report-format"))
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// initConfig reads in config file and ENV variables if set
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
	}

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// runPipeline is the main application logic
func runPipeline() error {
	cfg := config.DefaultConfig()
	// Config keys follow the yaml tags of the config structs
	if err := viper.Unmarshal(cfg, func(dc *mapstructure.DecoderConfig) { dc.TagName = "yaml" }); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Input.Path == "" {
		return fmt.Errorf("no input file: set input.path in the config file or use --input")
	}

	if describe {
		summary, err := dataset.Describe(cfg.Input.Path)
		if err != nil {
			return err
		}
		fmt.Printf("Dataset summary for %s:\n\n%s\n", cfg.Input.Path, summary)
		return nil
	}

	fmt.Printf("GNSS Classifier starting...\n")
	fmt.Printf("Input: %s\n", cfg.Input.Path)
	fmt.Printf("Algorithm: %s\n", cfg.Training.Algorithm)
	fmt.Printf("Window: %d (stride %d)\n", cfg.Preprocess.WindowSize, cfg.Preprocess.Stride)
	fmt.Printf("Output: %s\n\n", cfg.Output.Dir)

	p, err := pipeline.New(cfg, verbose)
	if err != nil {
		return err
	}

	outcome, err := p.Run()
	if err != nil {
		return err
	}

	fmt.Printf("\n")
	if err := outcome.Report.WriteText(os.Stdout); err != nil {
		return err
	}
	fmt.Printf("\nPipeline completed successfully.\n")
	return nil
}

// main is the entry point of the application
func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
