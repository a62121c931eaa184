// Package dataset loads, cleans and segments raw GNSS measurement files
package dataset

import (
	"fmt"
	"strings"
	"time"
)

// Label identifies the propagation condition of a measurement
type Label int

const (
	LabelLOS       Label = iota // Direct unobstructed signal path
	LabelMultipath              // Signal arrives via multiple paths
	LabelNLOS                   // Signal reaches the receiver via reflection only
	LabelAnomaly                // Receiver or tracking anomaly
	LabelUnknown   Label = -1   // Unlabeled measurement
)

// Classes lists the propagation conditions a classifier is trained on.
// Anomaly records are kept in the dataset but are not a required class.
var Classes = []Label{LabelLOS, LabelMultipath, LabelNLOS}

// String returns the canonical label name used in measurement files
func (l Label) String() string {
	switch l {
	case LabelLOS:
		return "LOS"
	case LabelMultipath:
		return "MP"
	case LabelNLOS:
		return "NLOS"
	case LabelAnomaly:
		return "ANOMALY"
	default:
		return "UNKNOWN"
	}
}

// ParseLabel converts a label column value into a Label.
// An empty value is a valid unlabeled measurement.
func ParseLabel(s string) (Label, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "LOS":
		return LabelLOS, nil
	case "MP", "MULTIPATH":
		return LabelMultipath, nil
	case "NLOS":
		return LabelNLOS, nil
	case "ANOMALY":
		return LabelAnomaly, nil
	case "":
		return LabelUnknown, nil
	default:
		return LabelUnknown, fmt.Errorf("unknown label %q", s)
	}
}

// Measurement is a single raw GNSS observation. Immutable once ingested.
type Measurement struct {
	Timestamp        time.Time // Observation epoch
	PRN              string    // Satellite identifier (e.g. "G09")
	CN0              float64   // Carrier-to-noise density ratio in dB-Hz
	Elevation        float64   // Satellite elevation angle in degrees
	Azimuth          float64   // Satellite azimuth in degrees
	Pseudorange      float64   // Measured satellite-receiver distance in meters
	CarrierPhase     float64   // Accumulated carrier phase in cycles
	PseudorangeRate  float64   // Range rate in m/s
	RangeAccel       float64   // Range acceleration in m/s²
	Label            Label     // Propagation condition, LabelUnknown if absent
}

// Segment is a fixed-length window of consecutive measurements for one satellite
type Segment struct {
	PRN          string        // Satellite the window belongs to
	Start        time.Time     // Timestamp of the first measurement
	Measurements []Measurement // Window contents, in time order
	Label        Label         // Majority label of the window
}

// DataError reports malformed or insufficient raw input.
// The pipeline treats it as terminal.
type DataError struct {
	Path string // Offending input file, if known
	Msg  string
}

func (e *DataError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("data error: %s: %s", e.Path, e.Msg)
	}
	return "data error: " + e.Msg
}
