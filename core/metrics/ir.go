// Package metrics implements information-retrieval style metrics for
// audio segmentation: segment boundaries from a prediction (the
// hypothesis) are scored against annotated boundaries (the reference)
// with a time tolerance.
package metrics

import (
	"fmt"
	"math"
	"sort"
)

// closeRelTol matches boundaries that differ only by float noise, the
// same role numpy's isclose plays in the reference tooling.
const closeRelTol = 1e-9

// ConcatStartsAndStops validates a segmentation and returns its
// boundary sequence: onsets and offsets interleaved in ascending
// order. It fails when lengths differ, a segment has zero or negative
// duration, or segments overlap.
func ConcatStartsAndStops(onsets, offsets []float64) ([]float64, error) {
	if len(onsets) != len(offsets) {
		return nil, fmt.Errorf("got %d onsets but %d offsets", len(onsets), len(offsets))
	}
	boundaries := make([]float64, 0, 2*len(onsets))
	for i := range onsets {
		if onsets[i] >= offsets[i] {
			return nil, fmt.Errorf("segment %d: onset %g is not before offset %g", i, onsets[i], offsets[i])
		}
		if i > 0 && offsets[i-1] > onsets[i] {
			return nil, fmt.Errorf("segment %d: onset %g overlaps previous offset %g", i, onsets[i], offsets[i-1])
		}
		boundaries = append(boundaries, onsets[i], offsets[i])
	}
	return boundaries, nil
}

// Boundaries returns the boundary sequence for possibly gap-free
// segmentations: when an offset coincides with the next onset the
// offset is dropped, so the shared instant counts as one boundary.
// Annotations with no silent gap between segments would otherwise fail
// ConcatStartsAndStops.
func Boundaries(onsets, offsets []float64) ([]float64, error) {
	if len(onsets) != len(offsets) {
		return nil, fmt.Errorf("got %d onsets but %d offsets", len(onsets), len(offsets))
	}
	var coincident bool
	for i := 0; i < len(offsets)-1; i++ {
		if isClose(offsets[i], onsets[i+1]) {
			coincident = true
			break
		}
	}
	if !coincident {
		return ConcatStartsAndStops(onsets, offsets)
	}

	keptOffsets := make([]float64, 0, len(offsets))
	for i, off := range offsets {
		if i < len(onsets)-1 && isClose(off, onsets[i+1]) {
			continue
		}
		keptOffsets = append(keptOffsets, off)
	}
	boundaries := make([]float64, 0, len(onsets)+len(keptOffsets))
	boundaries = append(boundaries, onsets...)
	boundaries = append(boundaries, keptOffsets...)
	sort.Float64s(boundaries)
	return boundaries, nil
}

func isClose(a, b float64) bool {
	return math.Abs(a-b) <= closeRelTol*math.Max(math.Abs(a), math.Abs(b))
}

// FindHits matches hypothesis boundaries to reference boundaries.
// Both sequences must be sorted ascending. Each reference boundary is
// matched by at most one hypothesis boundary within plus or minus
// tolerance seconds; matching is in-order and greedy.
func FindHits(hypothesis, reference []float64, tolerance float64) int {
	hits := 0
	j := 0
	for _, h := range hypothesis {
		for j < len(reference) && reference[j] < h-tolerance {
			j++
		}
		if j < len(reference) && math.Abs(reference[j]-h) <= tolerance {
			hits++
			j++
		}
	}
	return hits
}

// Precision returns hits/|hypothesis| and the hit count. An empty
// hypothesis yields zero precision.
func Precision(hypothesis, reference []float64, tolerance float64) (float64, int) {
	if len(hypothesis) == 0 {
		return 0, 0
	}
	hits := FindHits(hypothesis, reference, tolerance)
	return float64(hits) / float64(len(hypothesis)), hits
}

// Recall returns hits/|reference| and the hit count. An empty
// reference yields zero recall.
func Recall(hypothesis, reference []float64, tolerance float64) (float64, int) {
	if len(reference) == 0 {
		return 0, 0
	}
	hits := FindHits(hypothesis, reference, tolerance)
	return float64(hits) / float64(len(reference)), hits
}

// FScore returns the harmonic mean of precision and recall, and the
// hit count.
func FScore(hypothesis, reference []float64, tolerance float64) (float64, int) {
	p, hits := Precision(hypothesis, reference, tolerance)
	r, _ := Recall(hypothesis, reference, tolerance)
	if p+r == 0 {
		return 0, hits
	}
	return 2 * p * r / (p + r), hits
}
