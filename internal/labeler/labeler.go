// Package labeler assigns LOS/MP/NLOS labels to measurements using
// domain-informed thresholds observed in oceanic GNSS environments.
// The produced labels feed supervised training and serve as a baseline.
package labeler

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"
	"time"

	"gnss-classifier/internal/dataset"
)

// Rules holds the classification thresholds
type Rules struct {
	LOSMinCN0       float64 // C/N0 above this suggests a direct path
	LOSMinElevation float64 // High elevation satellites are rarely obstructed
	LOSMaxRate      float64 // |pseudorange rate| bound for LOS
	LOSMaxAccel     float64 // |range acceleration| bound for LOS

	MPMinCN0       float64 // Multipath C/N0 band, lower bound
	MPMaxCN0       float64 // Multipath C/N0 band, upper bound
	MPMinElevation float64 // Multipath elevation band, lower bound
	MPMaxElevation float64 // Multipath elevation band, upper bound
	MPMinRate      float64 // |pseudorange rate| above this suggests multipath
	MPMinAccel     float64 // |range acceleration| above this suggests multipath
}

// DefaultRules returns the thresholds derived from physical signal
// behavior in oceanic environments
func DefaultRules() Rules {
	return Rules{
		LOSMinCN0:       45,
		LOSMinElevation: 30,
		LOSMaxRate:      500,
		LOSMaxAccel:     1.5,

		MPMinCN0:       26,
		MPMaxCN0:       45,
		MPMinElevation: 10,
		MPMaxElevation: 30,
		MPMinRate:      500,
		MPMinAccel:     4,
	}
}

// Label classifies a single measurement. Every measurement starts as NLOS
// (worst-case assumption) and is upgraded when the LOS or MP conditions hold.
func (r Rules) Label(m dataset.Measurement) dataset.Label {
	absRate := math.Abs(m.PseudorangeRate)
	absAccel := math.Abs(m.RangeAccel)

	if m.CN0 > r.LOSMinCN0 &&
		m.Elevation >= r.LOSMinElevation &&
		absRate <= r.LOSMaxRate &&
		absAccel <= r.LOSMaxAccel {
		return dataset.LabelLOS
	}

	if m.CN0 >= r.MPMinCN0 && m.CN0 <= r.MPMaxCN0 &&
		m.Elevation >= r.MPMinElevation && m.Elevation <= r.MPMaxElevation &&
		absRate > r.MPMinRate &&
		absAccel > r.MPMinAccel {
		return dataset.LabelMultipath
	}

	return dataset.LabelNLOS
}

// LabelAll returns a labeled copy of the measurements
func (r Rules) LabelAll(measurements []dataset.Measurement) []dataset.Measurement {
	out := make([]dataset.Measurement, len(measurements))
	for i, m := range measurements {
		m.Label = r.Label(m)
		out[i] = m
	}
	return out
}

// Summary reports the label distribution of a labeling run
type Summary struct {
	Total  int
	Counts map[dataset.Label]int
}

// LabelFile loads a measurement file, labels every valid record and writes
// the labeled dataset to outPath in the measurement CSV schema.
func (r Rules) LabelFile(inPath, outPath string) (*Summary, error) {
	measurements, _, err := dataset.Load(inPath)
	if err != nil {
		return nil, err
	}

	labeled := r.LabelAll(measurements)

	file, err := os.Create(outPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create labeled file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	writer.Write([]string{
		dataset.ColTimestamp, dataset.ColPRN, dataset.ColCN0, dataset.ColElevation,
		dataset.ColAzimuth, dataset.ColPseudorange, dataset.ColCarrierPhase,
		dataset.ColPseudorangeRate, dataset.ColRangeAccel, dataset.ColLabel,
	})

	summary := &Summary{Total: len(labeled), Counts: make(map[dataset.Label]int)}
	for _, m := range labeled {
		summary.Counts[m.Label]++
		if err := writer.Write([]string{
			m.Timestamp.UTC().Format(time.RFC3339),
			m.PRN,
			formatFloat(m.CN0),
			formatFloat(m.Elevation),
			formatFloat(m.Azimuth),
			formatFloat(m.Pseudorange),
			formatFloat(m.CarrierPhase),
			formatFloat(m.PseudorangeRate),
			formatFloat(m.RangeAccel),
			m.Label.String(),
		}); err != nil {
			return nil, fmt.Errorf("failed to write labeled record: %w", err)
		}
	}

	return summary, nil
}

// formatFloat renders a value for CSV output; absent optional fields
// (NaN) become empty cells
func formatFloat(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
