package frames

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"cmacbench/model"
)

// approxTimes absorbs float noise from building the frame grid by
// repeated multiplication.
var approxTimes = cmpopts.EquateApprox(0, 1e-12)

var testLabelmap = model.Labelmap{
	model.BackgroundLabel: 0,
	"a":                   1,
	"b":                   2,
}

func TestTimes(t *testing.T) {
	got := Times(0.005, 0.001)
	want := []float64{0, 0.001, 0.002, 0.003, 0.004}
	if diff := cmp.Diff(want, got, approxTimes); diff != "" {
		t.Errorf("frame times mismatch (-want +got):\n%s", diff)
	}

	// A partial last frame still gets a slot.
	if n := len(Times(0.0042, 0.001)); n != 5 {
		t.Errorf("got %d frames for 4.2ms at 1ms step, want 5", n)
	}
}

func TestToFrameLabels(t *testing.T) {
	a := &model.Annotation{
		Onsets:  []float64{0.0015, 0.0055},
		Offsets: []float64{0.0035, 0.0075},
		Labels:  []string{"a", "b"},
	}
	frameTimes := Times(0.010, 0.001)

	got := ToFrameLabels(a, testLabelmap, frameTimes)
	want := []int{0, 0, 1, 1, 0, 0, 2, 2, 0, 0}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("frame labels mismatch (-want +got):\n%s", diff)
	}
}

func TestBoundaryOneHot(t *testing.T) {
	a := &model.Annotation{
		Onsets:  []float64{0.0021},
		Offsets: []float64{0.0039},
		Labels:  []string{"a"},
	}
	frameTimes := Times(0.006, 0.001)

	got := BoundaryOneHot(a, frameTimes)
	want := []int{0, 0, 1, 0, 1, 0}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("boundary onehot mismatch (-want +got):\n%s", diff)
	}
}

func TestToLabels(t *testing.T) {
	frameLabels := []int{0, 1, 1, 0, 2, 2, 1, 0}
	got := ToLabels(frameLabels, testLabelmap)
	want := []string{"a", "b", "a"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("labels mismatch (-want +got):\n%s", diff)
	}
}

func TestToSegments(t *testing.T) {
	frameLabels := []int{0, 1, 1, 0, 2, 2}
	frameTimes := Times(0.006, 0.001)

	labels, onsets, offsets := ToSegments(frameLabels, testLabelmap, frameTimes)
	if diff := cmp.Diff([]string{"a", "b"}, labels); diff != "" {
		t.Errorf("labels mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]float64{0.001, 0.004}, onsets, approxTimes); diff != "" {
		t.Errorf("onsets mismatch (-want +got):\n%s", diff)
	}
	// The last run ends at the end of the vector, so its offset is
	// one step past the last frame.
	if diff := cmp.Diff([]float64{0.003, 0.006}, offsets, approxTimes); diff != "" {
		t.Errorf("offsets mismatch (-want +got):\n%s", diff)
	}
}

func TestToSegmentsAllBackground(t *testing.T) {
	labels, onsets, offsets := ToSegments([]int{0, 0, 0}, testLabelmap, Times(0.003, 0.001))
	if len(labels) != 0 || len(onsets) != 0 || len(offsets) != 0 {
		t.Errorf("expected empty segments, got %v %v %v", labels, onsets, offsets)
	}
}

func TestToSegmentsAdjacentClasses(t *testing.T) {
	// Two different classes with no background between them are two
	// segments sharing a boundary.
	frameLabels := []int{1, 1, 2, 2}
	frameTimes := Times(0.004, 0.001)

	labels, onsets, offsets := ToSegments(frameLabels, testLabelmap, frameTimes)
	if diff := cmp.Diff([]string{"a", "b"}, labels); diff != "" {
		t.Errorf("labels mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]float64{0, 0.002}, onsets, approxTimes); diff != "" {
		t.Errorf("onsets mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]float64{0.002, 0.004}, offsets, approxTimes); diff != "" {
		t.Errorf("offsets mismatch (-want +got):\n%s", diff)
	}
}

func TestMajorityVote(t *testing.T) {
	tests := []struct {
		name string
		in   []int
		want []int
	}{
		{
			name: "majority wins within a run",
			in:   []int{0, 1, 2, 1, 0, 2, 2, 2, 0},
			want: []int{0, 1, 1, 1, 0, 2, 2, 2, 0},
		},
		{
			name: "tie broken by lower class index",
			in:   []int{1, 2},
			want: []int{1, 1},
		},
		{
			name: "background untouched",
			in:   []int{0, 0, 0},
			want: []int{0, 0, 0},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MajorityVote(tt.in, testLabelmap)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("majority vote mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
