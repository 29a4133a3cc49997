// Package eval scores a predicted segmentation against a reference
// annotation: boundaries within a time tolerance count as hits, and
// precision, recall and fscore are reported.
package eval

import (
	"fmt"

	"cmacbench/annot"
	"cmacbench/core/metrics"
)

// Result holds the boundary detection scores for one file pair.
type Result struct {
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	FScore    float64 `json:"fscore"`
	Hits      int     `json:"hits"`
	NumRef    int     `json:"numReferenceBoundaries"`
	NumHyp    int     `json:"numHypothesisBoundaries"`
	Tolerance float64 `json:"toleranceS"`
}

// Files scores the hypothesis annotation file against the reference
// annotation file with the given tolerance in seconds.
func Files(referencePath, hypothesisPath string, tolerance float64) (*Result, error) {
	ref, err := annot.Read(referencePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read reference: %w", err)
	}
	hyp, err := annot.Read(hypothesisPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read hypothesis: %w", err)
	}

	reference, err := metrics.Boundaries(ref.Onsets, ref.Offsets)
	if err != nil {
		return nil, fmt.Errorf("invalid reference segmentation: %w", err)
	}
	hypothesis, err := metrics.Boundaries(hyp.Onsets, hyp.Offsets)
	if err != nil {
		return nil, fmt.Errorf("invalid hypothesis segmentation: %w", err)
	}

	return Boundaries(hypothesis, reference, tolerance), nil
}

// Boundaries scores hypothesis boundaries against reference
// boundaries. Both must be sorted ascending.
func Boundaries(hypothesis, reference []float64, tolerance float64) *Result {
	p, hits := metrics.Precision(hypothesis, reference, tolerance)
	r, _ := metrics.Recall(hypothesis, reference, tolerance)
	f, _ := metrics.FScore(hypothesis, reference, tolerance)
	return &Result{
		Precision: p,
		Recall:    r,
		FScore:    f,
		Hits:      hits,
		NumRef:    len(reference),
		NumHyp:    len(hypothesis),
		Tolerance: tolerance,
	}
}
