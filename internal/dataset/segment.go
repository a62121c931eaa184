package dataset

import (
	"fmt"
	"sort"
)

// Segmenter windows cleaned measurements into fixed-length segments
type Segmenter struct {
	WindowSize int // Measurements per segment
	Stride     int // Step between window starts
}

// NewSegmenter validates the window parameters
func NewSegmenter(windowSize, stride int) (*Segmenter, error) {
	if windowSize <= 0 {
		return nil, fmt.Errorf("window size must be positive, got %d", windowSize)
	}
	if stride <= 0 {
		return nil, fmt.Errorf("stride must be positive, got %d", stride)
	}
	return &Segmenter{WindowSize: windowSize, Stride: stride}, nil
}

// Segment groups measurements by satellite, orders each group by time and
// cuts fixed-length windows. Trailing measurements that do not fill a whole
// window are discarded. Satellites are emitted in sorted PRN order so the
// output is deterministic.
func (s *Segmenter) Segment(measurements []Measurement) []Segment {
	byPRN := make(map[string][]Measurement)
	for _, m := range measurements {
		byPRN[m.PRN] = append(byPRN[m.PRN], m)
	}

	prns := make([]string, 0, len(byPRN))
	for prn := range byPRN {
		prns = append(prns, prn)
	}
	sort.Strings(prns)

	var segments []Segment
	for _, prn := range prns {
		series := byPRN[prn]
		sort.SliceStable(series, func(i, j int) bool {
			return series[i].Timestamp.Before(series[j].Timestamp)
		})

		for start := 0; start+s.WindowSize <= len(series); start += s.Stride {
			window := series[start : start+s.WindowSize]
			segments = append(segments, Segment{
				PRN:          prn,
				Start:        window[0].Timestamp,
				Measurements: window,
				Label:        majorityLabel(window),
			})
		}
	}
	return segments
}

// majorityLabel picks the most frequent recognized label in a window.
// Ties break toward the worse condition (NLOS > MP > LOS), matching the
// worst-case assumption of the rule-based labeler.
func majorityLabel(window []Measurement) Label {
	counts := make(map[Label]int)
	for _, m := range window {
		if m.Label != LabelUnknown {
			counts[m.Label]++
		}
	}
	if len(counts) == 0 {
		return LabelUnknown
	}

	best := LabelUnknown
	bestCount := -1
	for _, label := range []Label{LabelNLOS, LabelMultipath, LabelLOS, LabelAnomaly} {
		if c := counts[label]; c > bestCount {
			best = label
			bestCount = c
		}
	}
	return best
}
