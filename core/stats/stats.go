// Package stats summarizes the prepared dataset: duration
// distributions per group as recorded in the sample inventory.
package stats

import (
	"fmt"
	"sort"

	"cmacbench/repository"

	"gonum.org/v1/gonum/stat"
)

// GroupSummary describes the duration distribution of one group's
// samples.
type GroupSummary struct {
	Group          string  `json:"group"`
	NumSamples     int     `json:"numSamples"`
	TotalDuration  float64 `json:"totalDurationS"`
	MeanDuration   float64 `json:"meanDurationS"`
	StdDuration    float64 `json:"stdDurationS"`
	MedianDuration float64 `json:"medianDurationS"`
	MinDuration    float64 `json:"minDurationS"`
	MaxDuration    float64 `json:"maxDurationS"`
}

// Summarize computes the duration summary for one group from the
// sample inventory.
func Summarize(samples repository.SampleRepository, group string) (*GroupSummary, error) {
	durations, err := samples.DurationsByGroup(group)
	if err != nil {
		return nil, err
	}
	if len(durations) == 0 {
		return nil, fmt.Errorf("no samples recorded for group %s", group)
	}
	return FromDurations(group, durations), nil
}

// FromDurations computes a summary from raw durations.
func FromDurations(group string, durations []float64) *GroupSummary {
	sorted := make([]float64, len(durations))
	copy(sorted, durations)
	sort.Float64s(sorted)

	mean, std := stat.MeanStdDev(sorted, nil)
	var total float64
	for _, d := range sorted {
		total += d
	}

	s := &GroupSummary{
		Group:          group,
		NumSamples:     len(sorted),
		TotalDuration:  total,
		MeanDuration:   mean,
		MedianDuration: stat.Quantile(0.5, stat.Empirical, sorted, nil),
		MinDuration:    sorted[0],
		MaxDuration:    sorted[len(sorted)-1],
	}
	// MeanStdDev returns NaN std for a single sample.
	if len(sorted) > 1 {
		s.StdDuration = std
	}
	return s
}
