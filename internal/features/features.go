// Package features computes fixed-width feature vectors from measurement segments
package features

import (
	"fmt"
	"math"
	"math/cmplx"

	"gnss-classifier/internal/dataset"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/stat"
)

// MinWindow is the shortest segment a spectrum can be computed from
const MinWindow = 4

// Vector is a fixed-width feature vector labeled by propagation condition.
// Names are shared across a dataset; Values[i] belongs to Names[i].
type Vector struct {
	Names  []string
	Values []float64
	Label  dataset.Label
}

// Map returns the feature name to value mapping
func (v Vector) Map() map[string]float64 {
	m := make(map[string]float64, len(v.Names))
	for i, name := range v.Names {
		m[name] = v.Values[i]
	}
	return m
}

// FeatureError reports a segment that cannot produce a feature vector.
// The pipeline treats it as terminal.
type FeatureError struct {
	PRN string // Satellite of the offending segment
	Msg string
}

func (e *FeatureError) Error() string {
	if e.PRN != "" {
		return fmt.Sprintf("feature error: segment %s: %s", e.PRN, e.Msg)
	}
	return "feature error: " + e.Msg
}

// series named for feature name prefixes
var seriesNames = []string{"cn0", "prr", "acc", "elev"}

// timeStats are computed per series, in this order
var timeStats = []string{"mean", "std", "skew", "min", "max", "rms"}

// Names returns the feature name set, in extraction order.
// Every vector produced by Extract shares exactly this set.
func Names() []string {
	names := make([]string, 0, len(seriesNames)*len(timeStats)+3)
	for _, s := range seriesNames {
		for _, st := range timeStats {
			names = append(names, s+"_"+st)
		}
	}
	names = append(names, "cn0_dom_bin", "cn0_dom_energy", "cn0_spec_energy")
	return names
}

// Extract computes the feature vector of one segment. The computation is
// deterministic: the same segment always yields the same vector.
// Segments shorter than MinWindow fail with a FeatureError.
func Extract(seg dataset.Segment) (Vector, error) {
	n := len(seg.Measurements)
	if n < MinWindow {
		return Vector{}, &FeatureError{
			PRN: seg.PRN,
			Msg: fmt.Sprintf("segment has %d measurements, minimum is %d", n, MinWindow),
		}
	}

	cn0 := make([]float64, n)
	prr := make([]float64, n)
	acc := make([]float64, n)
	elev := make([]float64, n)
	for i, m := range seg.Measurements {
		cn0[i] = m.CN0
		prr[i] = m.PseudorangeRate
		acc[i] = m.RangeAccel
		elev[i] = m.Elevation
	}

	values := make([]float64, 0, len(seriesNames)*len(timeStats)+3)
	for _, s := range [][]float64{cn0, prr, acc, elev} {
		values = append(values, timeDomain(s)...)
	}
	values = append(values, spectrum(cn0)...)

	return Vector{Names: Names(), Values: values, Label: seg.Label}, nil
}

// ExtractAll converts every segment, preserving order
func ExtractAll(segments []dataset.Segment) ([]Vector, error) {
	vectors := make([]Vector, len(segments))
	for i, seg := range segments {
		v, err := Extract(seg)
		if err != nil {
			return nil, err
		}
		vectors[i] = v
	}
	return vectors, nil
}

// Matrix splits vectors into a row-major feature matrix and a label slice
func Matrix(vectors []Vector) (X [][]float64, y []dataset.Label) {
	X = make([][]float64, len(vectors))
	y = make([]dataset.Label, len(vectors))
	for i, v := range vectors {
		X[i] = v.Values
		y[i] = v.Label
	}
	return X, y
}

// timeDomain computes mean, std, skew, min, max and RMS of a series.
// Absent observables (NaN) are skipped; a series with no finite values
// reports zeros so the vector width never changes.
func timeDomain(raw []float64) []float64 {
	x := raw[:0:0]
	for _, v := range raw {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			x = append(x, v)
		}
	}
	if len(x) == 0 {
		return make([]float64, len(timeStats))
	}

	mean := stat.Mean(x, nil)

	// Sample standard deviation needs two values; skewness of a constant
	// series is undefined. Report 0 in both cases so the vector stays finite.
	std := 0.0
	skew := 0.0
	if len(x) > 1 {
		std = stat.StdDev(x, nil)
	}
	if std > 0 && len(x) > 2 {
		skew = stat.Skew(x, nil)
	}

	min, max := x[0], x[0]
	sumSq := 0.0
	for _, v := range x {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
		sumSq += v * v
	}
	rms := math.Sqrt(sumSq / float64(len(x)))

	return []float64{mean, std, skew, min, max, rms}
}

// spectrum computes frequency-domain descriptors of a series: the dominant
// non-DC coefficient index, its fraction of the total spectral energy and
// the total spectral energy itself.
func spectrum(x []float64) []float64 {
	fft := fourier.NewFFT(len(x))
	coeff := fft.Coefficients(nil, x)

	total := 0.0
	domBin := 0
	domEnergy := 0.0
	for i, c := range coeff {
		if i == 0 {
			continue // DC carries the mean, already a time-domain feature
		}
		e := cmplx.Abs(c)
		e *= e
		total += e
		if e > domEnergy {
			domEnergy = e
			domBin = i
		}
	}

	fraction := 0.0
	if total > 0 {
		fraction = domEnergy / total
	}
	return []float64{float64(domBin), fraction, total}
}
