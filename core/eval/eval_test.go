package eval

import (
	"path/filepath"
	"testing"

	"cmacbench/annot"
	"cmacbench/model"
)

func TestBoundariesPerfectPrediction(t *testing.T) {
	boundaries := []float64{0.1, 0.3, 0.5, 0.9}
	got := Boundaries(boundaries, boundaries, 0.004)
	if got.Precision != 1 || got.Recall != 1 || got.FScore != 1 {
		t.Errorf("perfect prediction scored p=%v r=%v f=%v, want all 1",
			got.Precision, got.Recall, got.FScore)
	}
	if got.Hits != 4 || got.NumRef != 4 || got.NumHyp != 4 {
		t.Errorf("counts = %d hits, %d ref, %d hyp, want 4 each",
			got.Hits, got.NumRef, got.NumHyp)
	}
}

func TestBoundariesPartialPrediction(t *testing.T) {
	reference := []float64{0.1, 0.3, 0.5, 0.9}
	hypothesis := []float64{0.1, 0.3}
	got := Boundaries(hypothesis, reference, 0.004)
	if got.Precision != 1 {
		t.Errorf("precision = %v, want 1", got.Precision)
	}
	if got.Recall != 0.5 {
		t.Errorf("recall = %v, want 0.5", got.Recall)
	}
	if want := 2 * 1.0 * 0.5 / 1.5; got.FScore != want {
		t.Errorf("fscore = %v, want %v", got.FScore, want)
	}
}

func TestFiles(t *testing.T) {
	dir := t.TempDir()
	refPath := filepath.Join(dir, "ref.syllable.csv")
	hypPath := filepath.Join(dir, "hyp.syllable.csv")

	ref := &model.Annotation{
		Onsets:  []float64{0.1, 0.5},
		Offsets: []float64{0.3, 0.9},
		Labels:  []string{"a", "b"},
	}
	// Predicted boundaries all within 4ms of the reference.
	hyp := &model.Annotation{
		Onsets:  []float64{0.101, 0.499},
		Offsets: []float64{0.299, 0.902},
		Labels:  []string{"a", "b"},
	}
	if err := annot.Write(refPath, ref); err != nil {
		t.Fatal(err)
	}
	if err := annot.Write(hypPath, hyp); err != nil {
		t.Fatal(err)
	}

	got, err := Files(refPath, hypPath, 0.004)
	if err != nil {
		t.Fatalf("Files: %v", err)
	}
	if got.FScore != 1 {
		t.Errorf("fscore = %v, want 1 (result: %+v)", got.FScore, got)
	}
	if got.Tolerance != 0.004 {
		t.Errorf("tolerance = %v, want 0.004", got.Tolerance)
	}
}

func TestFilesRejectsInvalidReference(t *testing.T) {
	dir := t.TempDir()
	refPath := filepath.Join(dir, "ref.syllable.csv")
	hypPath := filepath.Join(dir, "hyp.syllable.csv")

	bad := &model.Annotation{
		Onsets:  []float64{0.5},
		Offsets: []float64{0.1},
		Labels:  []string{"a"},
	}
	ok := &model.Annotation{
		Onsets:  []float64{0.1},
		Offsets: []float64{0.3},
		Labels:  []string{"a"},
	}
	if err := annot.Write(refPath, bad); err != nil {
		t.Fatal(err)
	}
	if err := annot.Write(hypPath, ok); err != nil {
		t.Fatal(err)
	}

	if _, err := Files(refPath, hypPath, 0.004); err == nil {
		t.Error("expected an error for an invalid reference segmentation, got nil")
	}
}
