// Package frames converts between segment annotations and frame-level
// vectors: per-frame class labels and boundary indicators, the inputs
// and targets for frame classification and boundary detection models.
package frames

import (
	"math"

	"cmacbench/model"
)

// Times returns the frame time grid for an audio file: frame i starts
// at i*step seconds, covering [0, duration).
func Times(duration, step float64) []float64 {
	n := int(math.Ceil(duration / step))
	times := make([]float64, n)
	for i := range times {
		times[i] = float64(i) * step
	}
	return times
}

// ToFrameLabels maps an annotation onto a frame time grid: each frame
// gets the class index of the segment containing its start time, or
// the background class. Assumes segments are sorted and
// non-overlapping, which QC guarantees.
func ToFrameLabels(a *model.Annotation, labelmap model.Labelmap, frameTimes []float64) []int {
	labels := make([]int, len(frameTimes))
	seg := 0
	for i, t := range frameTimes {
		for seg < a.Len() && a.Offsets[seg] <= t {
			seg++
		}
		if seg < a.Len() && a.Onsets[seg] <= t {
			labels[i] = labelmap[a.Labels[seg]]
		}
	}
	return labels
}

// BoundaryOneHot marks the frame nearest to each segment boundary of
// an annotation with 1, all other frames with 0.
func BoundaryOneHot(a *model.Annotation, frameTimes []float64) []int {
	onehot := make([]int, len(frameTimes))
	if len(frameTimes) == 0 {
		return onehot
	}
	mark := func(t float64) {
		best, bestDist := 0, math.Inf(1)
		for i, ft := range frameTimes {
			d := math.Abs(ft - t)
			if d < bestDist {
				best, bestDist = i, d
			}
		}
		onehot[best] = 1
	}
	for i := range a.Onsets {
		mark(a.Onsets[i])
		mark(a.Offsets[i])
	}
	return onehot
}

// ToLabels collapses a frame-label vector to the sequence of segment
// labels, dropping the background class.
func ToLabels(frameLabels []int, labelmap model.Labelmap) []string {
	inv := labelmap.Inverse()
	background := labelmap[model.BackgroundLabel]
	var labels []string
	prev := background
	for _, c := range frameLabels {
		if c != background && c != prev {
			labels = append(labels, inv[c])
		}
		prev = c
	}
	return labels
}

// ToSegments converts a frame-label vector back into segments. A
// segment is a maximal run of identical non-background classes; its
// onset is the time of its first frame and its offset the time of the
// first frame after it. When every frame is background, all returned
// slices are empty.
func ToSegments(frameLabels []int, labelmap model.Labelmap, frameTimes []float64) ([]string, []float64, []float64) {
	inv := labelmap.Inverse()
	background := labelmap[model.BackgroundLabel]

	labels := []string{}
	onsets := []float64{}
	offsets := []float64{}

	step := 0.0
	if len(frameTimes) > 1 {
		step = frameTimes[1] - frameTimes[0]
	}
	offsetTime := func(lastInd int) float64 {
		if lastInd+1 < len(frameTimes) {
			return frameTimes[lastInd+1]
		}
		return frameTimes[lastInd] + step
	}

	start := -1
	for i := 0; i <= len(frameLabels); i++ {
		cur := background
		if i < len(frameLabels) {
			cur = frameLabels[i]
		}
		inRun := start >= 0
		if inRun && (cur != frameLabels[start]) {
			labels = append(labels, inv[frameLabels[start]])
			onsets = append(onsets, frameTimes[start])
			offsets = append(offsets, offsetTime(i-1))
			start = -1
		}
		if start < 0 && cur != background && i < len(frameLabels) {
			start = i
		}
	}
	return labels, onsets, offsets
}

// MajorityVote cleans up a frame-label vector: within each run of
// non-background frames, every frame is reassigned to the majority
// class of the run. The result has a single class per segment,
// bordered by background on both sides.
func MajorityVote(frameLabels []int, labelmap model.Labelmap) []int {
	background := labelmap[model.BackgroundLabel]
	out := make([]int, len(frameLabels))
	copy(out, frameLabels)

	i := 0
	for i < len(out) {
		if out[i] == background {
			i++
			continue
		}
		j := i
		counts := map[int]int{}
		for j < len(out) && out[j] != background {
			counts[out[j]]++
			j++
		}
		winner, winCount := out[i], 0
		for c, n := range counts {
			if n > winCount || (n == winCount && c < winner) {
				winner, winCount = c, n
			}
		}
		for k := i; k < j; k++ {
			out[k] = winner
		}
		i = j
	}
	return out
}
