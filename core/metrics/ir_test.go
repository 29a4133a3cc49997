package metrics

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestConcatStartsAndStops(t *testing.T) {
	got, err := ConcatStartsAndStops(
		[]float64{0.1, 0.5, 1.0},
		[]float64{0.3, 0.8, 1.4},
	)
	if err != nil {
		t.Fatalf("ConcatStartsAndStops: %v", err)
	}
	want := []float64{0.1, 0.3, 0.5, 0.8, 1.0, 1.4}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("boundaries mismatch (-want +got):\n%s", diff)
	}
}

func TestConcatStartsAndStopsRejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		onsets  []float64
		offsets []float64
	}{
		{"length mismatch", []float64{0.1}, []float64{0.2, 0.3}},
		{"zero duration", []float64{0.1, 0.5}, []float64{0.1, 0.8}},
		{"onset after offset", []float64{0.5}, []float64{0.2}},
		{"overlapping segments", []float64{0.1, 0.2}, []float64{0.4, 0.6}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ConcatStartsAndStops(tt.onsets, tt.offsets); err == nil {
				t.Error("expected an error, got nil")
			}
		})
	}
}

func TestBoundariesDropsCoincidentOffsets(t *testing.T) {
	// No gap between the first and second segments: the shared
	// instant must count as a single boundary.
	got, err := Boundaries(
		[]float64{0.1, 0.3, 1.0},
		[]float64{0.3, 0.6, 1.4},
	)
	if err != nil {
		t.Fatalf("Boundaries: %v", err)
	}
	want := []float64{0.1, 0.3, 0.6, 1.0, 1.4}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("boundaries mismatch (-want +got):\n%s", diff)
	}
}

func TestBoundariesWithGapsMatchesConcat(t *testing.T) {
	onsets := []float64{0.1, 0.5}
	offsets := []float64{0.3, 0.9}
	got, err := Boundaries(onsets, offsets)
	if err != nil {
		t.Fatalf("Boundaries: %v", err)
	}
	want, err := ConcatStartsAndStops(onsets, offsets)
	if err != nil {
		t.Fatalf("ConcatStartsAndStops: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("boundaries mismatch (-want +got):\n%s", diff)
	}
}

func TestFindHits(t *testing.T) {
	tests := []struct {
		name       string
		hypothesis []float64
		reference  []float64
		tolerance  float64
		want       int
	}{
		{
			name:       "exact match",
			hypothesis: []float64{0.1, 0.5, 1.0},
			reference:  []float64{0.1, 0.5, 1.0},
			tolerance:  0.004,
			want:       3,
		},
		{
			name:       "within tolerance",
			hypothesis: []float64{0.103, 0.497},
			reference:  []float64{0.1, 0.5},
			tolerance:  0.004,
			want:       2,
		},
		{
			name:       "outside tolerance",
			hypothesis: []float64{0.11},
			reference:  []float64{0.1},
			tolerance:  0.004,
			want:       0,
		},
		{
			name:       "reference matched at most once",
			hypothesis: []float64{0.099, 0.101},
			reference:  []float64{0.1},
			tolerance:  0.004,
			want:       1,
		},
		{
			name:       "empty hypothesis",
			hypothesis: nil,
			reference:  []float64{0.1},
			tolerance:  0.004,
			want:       0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FindHits(tt.hypothesis, tt.reference, tt.tolerance)
			if got != tt.want {
				t.Errorf("FindHits = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestPrecisionRecallFScore(t *testing.T) {
	hypothesis := []float64{0.1, 0.5, 2.0, 3.0}
	reference := []float64{0.1, 0.5, 1.0}
	tolerance := 0.004

	p, hits := Precision(hypothesis, reference, tolerance)
	if hits != 2 {
		t.Fatalf("hits = %d, want 2", hits)
	}
	if want := 2.0 / 4.0; p != want {
		t.Errorf("precision = %v, want %v", p, want)
	}

	r, _ := Recall(hypothesis, reference, tolerance)
	if want := 2.0 / 3.0; r != want {
		t.Errorf("recall = %v, want %v", r, want)
	}

	f, _ := FScore(hypothesis, reference, tolerance)
	if want := 2 * p * r / (p + r); f != want {
		t.Errorf("fscore = %v, want %v", f, want)
	}
}

func TestScoresOnEmptyInputs(t *testing.T) {
	if p, _ := Precision(nil, []float64{0.1}, 0.004); p != 0 {
		t.Errorf("precision on empty hypothesis = %v, want 0", p)
	}
	if r, _ := Recall([]float64{0.1}, nil, 0.004); r != 0 {
		t.Errorf("recall on empty reference = %v, want 0", r)
	}
	if f, _ := FScore(nil, nil, 0.004); f != 0 {
		t.Errorf("fscore on empty inputs = %v, want 0", f)
	}
}
