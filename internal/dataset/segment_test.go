package dataset

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func track(prn string, n int, label Label, start time.Time) []Measurement {
	out := make([]Measurement, n)
	for i := 0; i < n; i++ {
		out[i] = Measurement{
			Timestamp: start.Add(time.Duration(i) * time.Second),
			PRN:       prn,
			CN0:       40,
			Elevation: 45,
			Label:     label,
		}
	}
	return out
}

func TestSegmenterFixedWindows(t *testing.T) {
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	measurements := track("G09", 25, LabelLOS, start)

	seg, err := NewSegmenter(10, 10)
	require.NoError(t, err)

	segments := seg.Segment(measurements)
	require.Len(t, segments, 2, "25 measurements at window 10 stride 10 give 2 full windows")
	require.Equal(t, "G09", segments[0].PRN)
	require.Len(t, segments[0].Measurements, 10)
	require.Equal(t, start, segments[0].Start)
	require.Equal(t, start.Add(10*time.Second), segments[1].Start)
	require.Equal(t, LabelLOS, segments[0].Label)
}

func TestSegmenterGroupsByPRN(t *testing.T) {
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	// Interleave two satellites, out of PRN order
	var measurements []Measurement
	measurements = append(measurements, track("G12", 10, LabelMultipath, start)...)
	measurements = append(measurements, track("G03", 10, LabelLOS, start)...)

	seg, err := NewSegmenter(10, 10)
	require.NoError(t, err)

	segments := seg.Segment(measurements)
	require.Len(t, segments, 2)
	require.Equal(t, "G03", segments[0].PRN, "satellites are emitted in sorted PRN order")
	require.Equal(t, "G12", segments[1].PRN)
	require.Equal(t, LabelLOS, segments[0].Label)
	require.Equal(t, LabelMultipath, segments[1].Label)
}

func TestSegmenterOrdersByTime(t *testing.T) {
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	measurements := track("G09", 10, LabelLOS, start)

	// Shuffle by hand
	measurements[0], measurements[9] = measurements[9], measurements[0]
	measurements[3], measurements[7] = measurements[7], measurements[3]

	seg, err := NewSegmenter(10, 10)
	require.NoError(t, err)

	segments := seg.Segment(measurements)
	require.Len(t, segments, 1)
	window := segments[0].Measurements
	for i := 1; i < len(window); i++ {
		require.True(t, window[i-1].Timestamp.Before(window[i].Timestamp),
			"window must be time ordered at index %d", i)
	}
}

func TestSegmenterOverlappingStride(t *testing.T) {
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	measurements := track("G09", 20, LabelLOS, start)

	seg, err := NewSegmenter(10, 5)
	require.NoError(t, err)

	segments := seg.Segment(measurements)
	require.Len(t, segments, 3, "20 measurements at window 10 stride 5 give 3 windows")
}

func TestSegmenterDiscardsPartialTail(t *testing.T) {
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	measurements := track("G09", 9, LabelLOS, start)

	seg, err := NewSegmenter(10, 10)
	require.NoError(t, err)
	require.Empty(t, seg.Segment(measurements))
}

func TestMajorityLabelWorstCaseTie(t *testing.T) {
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	measurements := append(track("G09", 5, LabelLOS, start),
		track("G09", 5, LabelNLOS, start.Add(5*time.Second))...)

	seg, err := NewSegmenter(10, 10)
	require.NoError(t, err)

	segments := seg.Segment(measurements)
	require.Len(t, segments, 1)
	require.Equal(t, LabelNLOS, segments[0].Label, "ties break toward the worse condition")
}

func TestMajorityLabelIgnoresUnlabeled(t *testing.T) {
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	measurements := append(track("G09", 9, LabelUnknown, start),
		track("G09", 1, LabelMultipath, start.Add(9*time.Second))...)

	seg, err := NewSegmenter(10, 10)
	require.NoError(t, err)

	segments := seg.Segment(measurements)
	require.Len(t, segments, 1)
	require.Equal(t, LabelMultipath, segments[0].Label)
}

func TestNewSegmenterRejectsBadParameters(t *testing.T) {
	_, err := NewSegmenter(0, 10)
	require.Error(t, err)
	_, err = NewSegmenter(10, 0)
	require.Error(t, err)
	_, err = NewSegmenter(10, -1)
	require.Error(t, err)
}
