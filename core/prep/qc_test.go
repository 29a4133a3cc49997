package prep

import (
	"os"
	"path/filepath"
	"testing"

	"cmacbench/cache"
	"cmacbench/model"
)

func TestBoundaryVerdict(t *testing.T) {
	tests := []struct {
		name string
		a    *model.Annotation
		want string
	}{
		{
			name: "valid segmentation",
			a: &model.Annotation{
				Onsets:  []float64{0.1, 0.5},
				Offsets: []float64{0.3, 0.9},
				Labels:  []string{"a", "b"},
			},
			want: cache.VerdictOK,
		},
		{
			name: "first onset negative",
			a: &model.Annotation{
				Onsets:  []float64{-0.1, 0.5},
				Offsets: []float64{0.3, 0.9},
				Labels:  []string{"a", "b"},
			},
			want: model.ReasonFirstOnsetLtZero,
		},
		{
			name: "later onset negative",
			a: &model.Annotation{
				Onsets:  []float64{0.1, -0.5},
				Offsets: []float64{0.3, 0.9},
				Labels:  []string{"a", "b"},
			},
			want: model.ReasonAnyOnsetLtZero,
		},
		{
			name: "offset negative",
			a: &model.Annotation{
				Onsets:  []float64{0.1},
				Offsets: []float64{-0.3},
				Labels:  []string{"a"},
			},
			want: model.ReasonAnyOffsetLtZero,
		},
		{
			name: "overlapping segments",
			a: &model.Annotation{
				Onsets:  []float64{0.1, 0.2},
				Offsets: []float64{0.4, 0.6},
				Labels:  []string{"a", "b"},
			},
			want: model.ReasonInvalidStartsStops,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := boundaryVerdict(tt.a); got != tt.want {
				t.Errorf("boundaryVerdict = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCensusAnimalDir(t *testing.T) {
	animalDir := t.TempDir()
	for _, name := range []string{"a.wav", "b.wav", "a.syllable.csv", "b.syllable.csv"} {
		if err := os.WriteFile(filepath.Join(animalDir, name), nil, 0644); err != nil {
			t.Fatal(err)
		}
	}

	wavPaths, unitCSVPaths, err := censusAnimalDir(animalDir, []model.Unit{model.UnitSyllable})
	if err != nil {
		t.Fatalf("censusAnimalDir: %v", err)
	}
	if len(wavPaths) != 2 || len(unitCSVPaths[model.UnitSyllable]) != 2 {
		t.Errorf("got %d wavs and %d csvs, want 2 and 2",
			len(wavPaths), len(unitCSVPaths[model.UnitSyllable]))
	}
}

func TestCensusAnimalDirMissingAnnot(t *testing.T) {
	animalDir := t.TempDir()
	for _, name := range []string{"a.wav", "b.wav", "a.syllable.csv"} {
		if err := os.WriteFile(filepath.Join(animalDir, name), nil, 0644); err != nil {
			t.Fatal(err)
		}
	}

	if _, _, err := censusAnimalDir(animalDir, []model.Unit{model.UnitSyllable}); err == nil {
		t.Error("expected an error when a wav has no annotation file, got nil")
	}
}
