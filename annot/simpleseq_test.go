package annot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"cmacbench/model"
)

func TestReadWriteRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bird0.syllable.csv")
	want := &model.Annotation{
		Onsets:  []float64{0.1, 0.35, 1.2},
		Offsets: []float64{0.3, 0.9, 1.5},
		Labels:  []string{"a", "b", "a"},
	}

	if err := Write(path, want); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestReadZeroRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "silent.call.csv")
	if err := os.WriteFile(path, []byte("onset_s,offset_s,label\n"), 0644); err != nil {
		t.Fatal(err)
	}

	a, err := Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !a.Empty() {
		t.Errorf("expected empty annotation, got %d segments", a.Len())
	}
}

func TestReadRejectsBadInput(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"empty file", ""},
		{"wrong header", "start,stop,label\n0.1,0.2,a\n"},
		{"bad onset", "onset_s,offset_s,label\nx,0.2,a\n"},
		{"bad offset", "onset_s,offset_s,label\n0.1,y,a\n"},
		{"short row", "onset_s,offset_s,label\n0.1,0.2\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.syllable.csv")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := Read(path); err == nil {
				t.Error("expected an error, got nil")
			}
		})
	}
}

func TestReadMissingFile(t *testing.T) {
	if _, err := Read(filepath.Join(t.TempDir(), "nope.csv")); err == nil {
		t.Error("expected an error for a missing file, got nil")
	}
}
