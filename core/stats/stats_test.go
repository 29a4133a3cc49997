package stats

import (
	"math"
	"testing"
)

func TestFromDurations(t *testing.T) {
	got := FromDurations("Canary-Song", []float64{2, 4, 6, 8})

	if got.NumSamples != 4 {
		t.Errorf("NumSamples = %d, want 4", got.NumSamples)
	}
	if got.TotalDuration != 20 {
		t.Errorf("TotalDuration = %v, want 20", got.TotalDuration)
	}
	if got.MeanDuration != 5 {
		t.Errorf("MeanDuration = %v, want 5", got.MeanDuration)
	}
	if got.MinDuration != 2 || got.MaxDuration != 8 {
		t.Errorf("min/max = %v/%v, want 2/8", got.MinDuration, got.MaxDuration)
	}
	if got.MedianDuration < 4 || got.MedianDuration > 6 {
		t.Errorf("MedianDuration = %v, want in [4, 6]", got.MedianDuration)
	}
	// Sample standard deviation of {2,4,6,8}.
	if want := math.Sqrt(20.0 / 3.0); math.Abs(got.StdDuration-want) > 1e-12 {
		t.Errorf("StdDuration = %v, want %v", got.StdDuration, want)
	}
}

func TestFromDurationsSingleSample(t *testing.T) {
	got := FromDurations("Zebra-Finch-Song", []float64{3.5})

	if got.NumSamples != 1 || got.TotalDuration != 3.5 {
		t.Errorf("n=%d total=%v, want 1 and 3.5", got.NumSamples, got.TotalDuration)
	}
	if got.StdDuration != 0 {
		t.Errorf("StdDuration = %v, want 0 for a single sample", got.StdDuration)
	}
	if got.MinDuration != 3.5 || got.MaxDuration != 3.5 || got.MeanDuration != 3.5 {
		t.Errorf("min/max/mean = %v/%v/%v, want 3.5 each",
			got.MinDuration, got.MaxDuration, got.MeanDuration)
	}
}
