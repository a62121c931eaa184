// Package config provides configuration structures and defaults for the GNSS classifier
package config

type Config struct {
	Input      InputConfig      `yaml:"input"`      // Measurement file settings
	Preprocess PreprocessConfig `yaml:"preprocess"` // Cleaning, scaling and segmentation settings
	Training   TrainingConfig   `yaml:"training"`   // Classifier and split settings
	Output     OutputConfig     `yaml:"output"`     // Artifact and report settings
}

// InputConfig describes where the raw measurement data comes from
type InputConfig struct {
	Path     string `yaml:"path"`      // Path to the measurement CSV file
	LabelCol string `yaml:"label_col"` // Name of the label column
}

// PreprocessConfig contains cleaning and segmentation parameters
type PreprocessConfig struct {
	Scaler     string `yaml:"scaler"`      // Feature scaling: "minmax" or "zscore"
	WindowSize int    `yaml:"window_size"` // Number of measurements per segment
	Stride     int    `yaml:"stride"`      // Step between consecutive windows
}

// TrainingConfig contains classifier hyperparameters and split settings
type TrainingConfig struct {
	Algorithm       string  `yaml:"algorithm"`         // Classifier: "tree" or "forest"
	MaxDepth        int     `yaml:"max_depth"`         // Tree depth limit (0 = unlimited)
	MinSamplesSplit int     `yaml:"min_samples_split"` // Minimum samples to attempt a split
	NEstimators     int     `yaml:"n_estimators"`      // Number of trees in the forest
	MaxFeatures     int     `yaml:"max_features"`      // Features sampled per split (0 = all)
	Criterion       string  `yaml:"criterion"`         // Split criterion: "gini" or "entropy"
	ValidationRatio float64 `yaml:"validation_ratio"`  // Fraction of vectors held out for validation
	Seed            int64   `yaml:"seed"`              // Random seed for the split and the forest
	MinSamples      int     `yaml:"min_samples"`       // Minimum labeled vectors required to train
}

// OutputConfig contains output locations and the report format
type OutputConfig struct {
	Dir          string `yaml:"dir"`           // Output directory
	ModelFile    string `yaml:"model_file"`    // Model artifact filename
	ReportFormat string `yaml:"report_format"` // Report format: text, csv or json
}

// DefaultConfig returns a configuration with sensible default values
func DefaultConfig() *Config {
	return &Config{
		Input: InputConfig{
			Path:     "",      // No default input file
			LabelCol: "label", // Column written by the rule-based labeler
		},
		Preprocess: PreprocessConfig{
			Scaler:     "zscore", // Zero mean, unit variance
			WindowSize: 10,       // 10 measurements per segment
			Stride:     10,       // Non-overlapping windows
		},
		Training: TrainingConfig{
			Algorithm:       "forest", // Bagged trees by default
			MaxDepth:        8,        // Depth limit keeps trees small
			MinSamplesSplit: 2,        // Standard CART default
			NEstimators:     50,       // 50 trees
			MaxFeatures:     0,        // Consider all features at each split
			Criterion:       "gini",   // Gini impurity
			ValidationRatio: 0.3,      // 70/30 train/validation split
			Seed:            42,       // Fixed seed for reproducible splits
			MinSamples:      5,        // Refuse to train on fewer vectors
		},
		Output: OutputConfig{
			Dir:          "./results",   // Results directory
			ModelFile:    "model.gnssm", // Model artifact name
			ReportFormat: "text",        // Human-readable table by default
		},
	}
}
