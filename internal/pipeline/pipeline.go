// Package pipeline wires the processing stages into a single batch run:
// load, clean, segment, extract features, train, evaluate, persist.
package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gnss-classifier/internal/config"
	"gnss-classifier/internal/dataset"
	"gnss-classifier/internal/evaluator"
	"gnss-classifier/internal/features"
	"gnss-classifier/internal/model"
	"gnss-classifier/internal/modelfile"
	"gnss-classifier/internal/trainer"
)

// Pipeline executes one forward pass over a measurement file.
// Each stage owns its output and hands it to the next; nothing is shared.
type Pipeline struct {
	cfg     *config.Config
	verbose bool
}

// Outcome collects the artifacts of a completed run
type Outcome struct {
	LoadStats  *dataset.LoadStats
	Segments   int
	Vectors    int
	Training   *trainer.Result
	Report     *evaluator.Report
	ModelPath  string
	ReportPath string
}

// New validates the configuration and returns a ready pipeline
func New(cfg *config.Config, verbose bool) (*Pipeline, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if cfg.Input.Path == "" {
		return nil, fmt.Errorf("input path not specified")
	}
	if cfg.Training.ValidationRatio < 0 || cfg.Training.ValidationRatio >= 1 {
		return nil, fmt.Errorf("validation ratio must be in [0, 1), got %.2f", cfg.Training.ValidationRatio)
	}
	if _, err := dataset.NewScaler(cfg.Preprocess.Scaler); err != nil {
		return nil, err
	}
	if _, err := model.New(cfg.Training.Algorithm, model.Params{}); err != nil {
		return nil, err
	}
	return &Pipeline{cfg: cfg, verbose: verbose}, nil
}

// Run executes the pipeline. Any stage error is terminal and propagates
// unchanged so the caller can tell data, feature and training failures apart.
func (p *Pipeline) Run() (*Outcome, error) {
	cfg := p.cfg

	fmt.Printf("Loading measurements from %s...\n", cfg.Input.Path)
	measurements, loadStats, err := dataset.Load(cfg.Input.Path)
	if err != nil {
		return nil, err
	}
	fmt.Printf("Loaded %d valid records (%d dropped, %d labeled)\n",
		loadStats.ValidRows, loadStats.DroppedRows, loadStats.Labeled)

	segmenter, err := dataset.NewSegmenter(cfg.Preprocess.WindowSize, cfg.Preprocess.Stride)
	if err != nil {
		return nil, err
	}
	segments := segmenter.Segment(measurements)
	fmt.Printf("Segmented into %d windows (size %d, stride %d)\n",
		len(segments), cfg.Preprocess.WindowSize, cfg.Preprocess.Stride)
	if len(segments) == 0 {
		return nil, &dataset.DataError{
			Path: cfg.Input.Path,
			Msg:  fmt.Sprintf("no complete windows of size %d", cfg.Preprocess.WindowSize),
		}
	}

	vectors, err := features.ExtractAll(segments)
	if err != nil {
		return nil, err
	}
	fmt.Printf("Extracted %d feature vectors (%d features each)\n",
		len(vectors), len(features.Names()))

	labeled := make([]features.Vector, 0, len(vectors))
	for _, v := range vectors {
		if v.Label != dataset.LabelUnknown {
			labeled = append(labeled, v)
		}
	}
	if len(labeled) < len(vectors) && p.verbose {
		fmt.Printf("Skipping %d unlabeled vectors\n", len(vectors)-len(labeled))
	}
	if len(labeled) == 0 {
		return nil, &trainer.TrainingError{Msg: "dataset carries no labels"}
	}

	// Scaling parameters come from the training partition only; the same
	// seeded split is used again inside Train.
	trainIdx, valIdx := trainer.Split(len(labeled), cfg.Training.ValidationRatio, cfg.Training.Seed)
	scaled, scaler, err := p.scale(labeled, trainIdx)
	if err != nil {
		return nil, err
	}

	fmt.Printf("Training %s classifier on %d vectors (validating on %d)...\n",
		cfg.Training.Algorithm, len(trainIdx), len(valIdx))
	training, err := trainer.Train(scaled, trainer.Options{
		Algorithm: cfg.Training.Algorithm,
		Params: model.Params{
			MaxDepth:        cfg.Training.MaxDepth,
			MinSamplesSplit: cfg.Training.MinSamplesSplit,
			NEstimators:     cfg.Training.NEstimators,
			MaxFeatures:     cfg.Training.MaxFeatures,
			Criterion:       cfg.Training.Criterion,
			Seed:            cfg.Training.Seed,
		},
		ValidationRatio: cfg.Training.ValidationRatio,
		Seed:            cfg.Training.Seed,
		MinSamples:      cfg.Training.MinSamples,
	})
	if err != nil {
		return nil, err
	}
	fmt.Printf("Training accuracy %.4f, validation accuracy %.4f\n",
		training.TrainAccuracy, training.ValidationAccuracy)

	holdout := make([]features.Vector, len(valIdx))
	for i, ii := range valIdx {
		holdout[i] = scaled[ii]
	}
	report, err := evaluator.Evaluate(training.Classifier, holdout)
	if err != nil {
		return nil, fmt.Errorf("evaluation failed: %w", err)
	}
	report.Algorithm = cfg.Training.Algorithm

	outcome := &Outcome{
		LoadStats: loadStats,
		Segments:  len(segments),
		Vectors:   len(vectors),
		Training:  training,
		Report:    report,
	}
	if err := p.persist(outcome, scaler); err != nil {
		return nil, err
	}
	return outcome, nil
}

// scale fits the scaler on the training rows and transforms every vector
func (p *Pipeline) scale(labeled []features.Vector, trainIdx []int) ([]features.Vector, *dataset.Scaler, error) {
	scaler, err := dataset.NewScaler(p.cfg.Preprocess.Scaler)
	if err != nil {
		return nil, nil, err
	}

	X, _ := features.Matrix(labeled)
	XTrain := make([][]float64, len(trainIdx))
	for i, ii := range trainIdx {
		XTrain[i] = X[ii]
	}
	if err := scaler.Fit(XTrain); err != nil {
		return nil, nil, err
	}

	XScaled := scaler.Transform(X)
	scaled := make([]features.Vector, len(labeled))
	for i, v := range labeled {
		scaled[i] = features.Vector{Names: v.Names, Values: XScaled[i], Label: v.Label}
	}
	return scaled, scaler, nil
}

// persist writes the model artifact and the metrics report
func (p *Pipeline) persist(outcome *Outcome, scaler *dataset.Scaler) error {
	cfg := p.cfg
	if err := os.MkdirAll(cfg.Output.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	classNames := make([]string, len(dataset.Classes))
	for i, c := range dataset.Classes {
		classNames[i] = c.String()
	}

	outcome.ModelPath = filepath.Join(cfg.Output.Dir, cfg.Output.ModelFile)
	artifact := &modelfile.Artifact{
		FormatVersion: modelfile.FormatVersion,
		CreatedAt:     time.Now(),
		Algorithm:     cfg.Training.Algorithm,
		Seed:          cfg.Training.Seed,
		FeatureNames:  features.Names(),
		ClassNames:    classNames,
		Scaler:        scaler,
		Classifier:    outcome.Training.Classifier,
	}
	if err := modelfile.NewWriter().WriteFile(outcome.ModelPath, artifact); err != nil {
		return err
	}
	fmt.Printf("Model artifact written to %s\n", outcome.ModelPath)

	ext := map[string]string{"text": ".txt", "csv": ".csv", "json": ".json"}[cfg.Output.ReportFormat]
	if ext == "" {
		ext = ".txt"
	}
	outcome.ReportPath = filepath.Join(cfg.Output.Dir, "report"+ext)
	if err := outcome.Report.Export(cfg.Output.ReportFormat, outcome.ReportPath); err != nil {
		return err
	}
	fmt.Printf("Metrics report written to %s\n", outcome.ReportPath)

	return nil
}
