package dataset

import (
	"fmt"
	"math"
)

// Scaler kinds
const (
	ScalerMinMax = "minmax"
	ScalerZScore = "zscore"
)

// Scaler normalizes feature columns with parameters learned from the
// training partition only, so validation data never leaks into the fit.
// The learned parameters are stored in the model artifact and reused
// verbatim at evaluation time.
type Scaler struct {
	Kind string // "minmax" or "zscore"

	// Per-column parameters, populated by Fit
	Min  []float64 // minmax: column minima
	Max  []float64 // minmax: column maxima
	Mean []float64 // zscore: column means
	Std  []float64 // zscore: column standard deviations
}

// NewScaler returns a scaler of the requested kind
func NewScaler(kind string) (*Scaler, error) {
	switch kind {
	case ScalerMinMax, ScalerZScore:
		return &Scaler{Kind: kind}, nil
	default:
		return nil, fmt.Errorf("unknown scaler %q (must be %q or %q)", kind, ScalerMinMax, ScalerZScore)
	}
}

// Fit learns per-column parameters from X (rows x columns)
func (s *Scaler) Fit(X [][]float64) error {
	if len(X) == 0 {
		return fmt.Errorf("cannot fit scaler on empty matrix")
	}
	cols := len(X[0])

	switch s.Kind {
	case ScalerMinMax:
		s.Min = make([]float64, cols)
		s.Max = make([]float64, cols)
		for j := 0; j < cols; j++ {
			s.Min[j] = math.Inf(1)
			s.Max[j] = math.Inf(-1)
			for i := range X {
				v := X[i][j]
				if v < s.Min[j] {
					s.Min[j] = v
				}
				if v > s.Max[j] {
					s.Max[j] = v
				}
			}
		}
	case ScalerZScore:
		s.Mean = make([]float64, cols)
		s.Std = make([]float64, cols)
		for j := 0; j < cols; j++ {
			for i := range X {
				s.Mean[j] += X[i][j]
			}
			s.Mean[j] /= float64(len(X))
			v := 0.0
			for i := range X {
				d := X[i][j] - s.Mean[j]
				v += d * d
			}
			s.Std[j] = math.Sqrt(v / float64(len(X)))
		}
	}
	return nil
}

// Transform scales X using the fitted parameters. Constant columns map to 0.
func (s *Scaler) Transform(X [][]float64) [][]float64 {
	out := make([][]float64, len(X))
	for i := range X {
		row := make([]float64, len(X[i]))
		for j, v := range X[i] {
			switch s.Kind {
			case ScalerMinMax:
				if s.Max[j] != s.Min[j] {
					row[j] = (v - s.Min[j]) / (s.Max[j] - s.Min[j])
				}
			case ScalerZScore:
				if s.Std[j] != 0 {
					row[j] = (v - s.Mean[j]) / s.Std[j]
				}
			}
		}
		out[i] = row
	}
	return out
}

// Inverse undoes Transform for non-constant columns. Constant columns
// return the stored constant.
func (s *Scaler) Inverse(X [][]float64) [][]float64 {
	out := make([][]float64, len(X))
	for i := range X {
		row := make([]float64, len(X[i]))
		for j, v := range X[i] {
			switch s.Kind {
			case ScalerMinMax:
				if s.Max[j] != s.Min[j] {
					row[j] = v*(s.Max[j]-s.Min[j]) + s.Min[j]
				} else {
					row[j] = s.Min[j]
				}
			case ScalerZScore:
				if s.Std[j] != 0 {
					row[j] = v*s.Std[j] + s.Mean[j]
				} else {
					row[j] = s.Mean[j]
				}
			}
		}
		out[i] = row
	}
	return out
}
