package prep

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"cmacbench/annot"
	"cmacbench/model"
)

func writeTestAnnot(t *testing.T, path string, labels []string) {
	t.Helper()
	a := &model.Annotation{}
	for i, lbl := range labels {
		onset := float64(i)
		a.Onsets = append(a.Onsets, onset)
		a.Offsets = append(a.Offsets, onset+0.5)
		a.Labels = append(a.Labels, lbl)
	}
	if err := annot.Write(path, a); err != nil {
		t.Fatal(err)
	}
}

func TestGatherLabels(t *testing.T) {
	animalDir := t.TempDir()
	writeTestAnnot(t, filepath.Join(animalDir, "a.syllable.csv"), []string{"c", "a", "c"})
	writeTestAnnot(t, filepath.Join(animalDir, "b.syllable.csv"), []string{"b", "a"})
	// A different unit's file must not leak into the labelset.
	writeTestAnnot(t, filepath.Join(animalDir, "a.call.csv"), []string{"x"})

	got, err := gatherLabels(animalDir, model.UnitSyllable)
	if err != nil {
		t.Fatalf("gatherLabels: %v", err)
	}
	want := []string{"a", "b", "c"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("labels mismatch (-want +got):\n%s", diff)
	}
}

func TestGatherLabelsEmptyDir(t *testing.T) {
	got, err := gatherLabels(t.TempDir(), model.UnitSyllable)
	if err != nil {
		t.Fatalf("gatherLabels: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no labels, got %v", got)
	}
}

func TestLabelsetsRoundTrip(t *testing.T) {
	metadataDir := t.TempDir()
	labelsets := GroupLabelsets{
		"syllable": {
			"bird0": {"a", "b"},
			"bird1": {"a", "c", "d"},
		},
	}
	if err := writeJSON(filepath.Join(metadataDir, labelsetsFile), labelsets); err != nil {
		t.Fatalf("writeJSON: %v", err)
	}

	got, err := LoadLabelsets(metadataDir, model.BengaleseFinchSong)
	if err != nil {
		t.Fatalf("LoadLabelsets: %v", err)
	}
	want := map[string]map[string]*model.Labelset{
		"syllable": {
			"bird0": {Group: "Bengalese-Finch-Song", Unit: "syllable", AnimalID: "bird0", Labels: []string{"a", "b"}},
			"bird1": {Group: "Bengalese-Finch-Song", Unit: "syllable", AnimalID: "bird1", Labels: []string{"a", "c", "d"}},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("labelsets mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadLabelsetsMissingFile(t *testing.T) {
	if _, err := LoadLabelsets(t.TempDir(), model.BengaleseFinchSong); err == nil {
		t.Error("expected an error for missing labelsets metadata, got nil")
	}
}
