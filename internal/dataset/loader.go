package dataset

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Column names expected in measurement CSV files. The header is matched
// case-insensitively; azimuth, carrier phase and label are optional.
const (
	ColTimestamp       = "timestamp"
	ColPRN             = "prn"
	ColCN0             = "cn0_dbhz"
	ColElevation       = "elevation_deg"
	ColAzimuth         = "azimuth_deg"
	ColPseudorange     = "pseudorange_m"
	ColCarrierPhase    = "carrier_phase_cycles"
	ColPseudorangeRate = "pseudorange_rate_mps"
	ColRangeAccel      = "range_accel_mps2"
	ColLabel           = "label"
)

// LoadStats summarizes the outcome of a load
type LoadStats struct {
	TotalRows   int // Data rows in the file
	ValidRows   int // Rows that survived cleaning
	DroppedRows int // Rows dropped for missing or unparsable mandatory fields
	Labeled     int // Valid rows carrying a recognized label
}

// Load reads a measurement CSV file, drops rows with missing or unparsable
// mandatory fields and returns the surviving measurements in file order.
// It returns a DataError when no valid rows remain.
func Load(path string) ([]Measurement, *LoadStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open measurement file: %w", err)
	}
	defer f.Close()

	// Read every column as a string so cleaning controls the parsing,
	// not the dataframe type inference.
	df := dataframe.ReadCSV(f, dataframe.HasHeader(true), dataframe.DetectTypes(false), dataframe.DefaultType(series.String))
	if df.Err != nil {
		return nil, nil, &DataError{Path: path, Msg: fmt.Sprintf("failed to parse CSV: %v", df.Err)}
	}

	cols := columnIndex(df.Names())
	for _, required := range []string{ColTimestamp, ColPRN, ColCN0, ColElevation} {
		if _, ok := cols[required]; !ok {
			return nil, nil, &DataError{Path: path, Msg: fmt.Sprintf("missing required column %q", required)}
		}
	}

	records := df.Records()
	if len(records) > 0 {
		records = records[1:] // drop header row
	}

	stats := &LoadStats{TotalRows: len(records)}
	measurements := make([]Measurement, 0, len(records))

	for _, rec := range records {
		m, ok := parseRecord(rec, cols)
		if !ok {
			stats.DroppedRows++
			continue
		}
		if m.Label != LabelUnknown {
			stats.Labeled++
		}
		measurements = append(measurements, m)
	}
	stats.ValidRows = len(measurements)

	if stats.ValidRows == 0 {
		return nil, nil, &DataError{Path: path, Msg: fmt.Sprintf("no valid records remain after cleaning (%d rows dropped)", stats.DroppedRows)}
	}

	return measurements, stats, nil
}

// Describe returns per-column summary statistics (count, mean, stddev,
// min, quartiles, max) of a measurement file, one row per statistic.
func Describe(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open measurement file: %w", err)
	}
	defer f.Close()

	df := dataframe.ReadCSV(f, dataframe.HasHeader(true))
	if df.Err != nil {
		return "", &DataError{Path: path, Msg: fmt.Sprintf("failed to parse CSV: %v", df.Err)}
	}
	return df.Describe().String(), nil
}

// columnIndex maps lower-cased header names to their position
func columnIndex(names []string) map[string]int {
	idx := make(map[string]int, len(names))
	for i, name := range names {
		idx[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return idx
}

// parseRecord converts one CSV row into a Measurement.
// Rows with missing or unparsable mandatory fields are rejected.
func parseRecord(rec []string, cols map[string]int) (Measurement, bool) {
	var m Measurement

	field := func(name string) (string, bool) {
		i, ok := cols[name]
		if !ok || i >= len(rec) {
			return "", false
		}
		return strings.TrimSpace(rec[i]), true
	}

	mandatory := func(name string) (float64, bool) {
		s, ok := field(name)
		if !ok || s == "" {
			return 0, false
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, false
		}
		return v, true
	}

	// Optional numeric fields default to NaN so downstream stages can
	// tell "absent" from a real zero.
	optional := func(name string) float64 {
		s, ok := field(name)
		if !ok || s == "" {
			return math.NaN()
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return math.NaN()
		}
		return v
	}

	ts, ok := field(ColTimestamp)
	if !ok || ts == "" {
		return m, false
	}
	t, err := parseTimestamp(ts)
	if err != nil {
		return m, false
	}
	m.Timestamp = t

	prn, ok := field(ColPRN)
	if !ok || prn == "" {
		return m, false
	}
	m.PRN = prn

	if m.CN0, ok = mandatory(ColCN0); !ok {
		return m, false
	}
	if m.Elevation, ok = mandatory(ColElevation); !ok {
		return m, false
	}

	// Range observables are absent in some sources (e.g. NMEA-derived
	// files), so they are optional per row.
	m.Pseudorange = optional(ColPseudorange)
	m.PseudorangeRate = optional(ColPseudorangeRate)
	m.RangeAccel = optional(ColRangeAccel)
	m.Azimuth = optional(ColAzimuth)
	m.CarrierPhase = optional(ColCarrierPhase)

	labelStr, _ := field(ColLabel)
	label, err := ParseLabel(labelStr)
	if err != nil {
		return m, false
	}
	m.Label = label

	return m, true
}

// parseTimestamp accepts RFC3339 or Unix epoch seconds (optionally fractional)
func parseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if sec, err := strconv.ParseFloat(s, 64); err == nil {
		whole, frac := math.Modf(sec)
		return time.Unix(int64(whole), int64(frac*1e9)).UTC(), nil
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}
