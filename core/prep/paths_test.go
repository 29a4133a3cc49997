package prep

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"cmacbench/config"
	"cmacbench/model"
)

func TestFromDir(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.wav", "a.wav", "a.syllable.csv", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "sub.wav"), 0755); err != nil {
		t.Fatal(err)
	}

	got, err := FromDir(dir, ".wav")
	if err != nil {
		t.Fatalf("FromDir: %v", err)
	}
	want := []string{filepath.Join(dir, "a.wav"), filepath.Join(dir, "b.wav")}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("paths mismatch (-want +got):\n%s", diff)
	}
}

func TestGroupRoot(t *testing.T) {
	cfg := &config.Config{
		DatasetRoot:    "data/CMACBench",
		RestrictedRoot: "data/DATA_WE_CANT_SHARE",
	}

	if got, want := GroupRoot(cfg, model.CanarySong), filepath.Join("data/CMACBench", "Canary-Song"); got != want {
		t.Errorf("GroupRoot(Canary-Song) = %q, want %q", got, want)
	}
	if got, want := GroupRoot(cfg, model.HumanSpeech), filepath.Join("data/DATA_WE_CANT_SHARE", "Human-Speech"); got != want {
		t.Errorf("GroupRoot(Human-Speech) = %q, want %q", got, want)
	}
}

func TestAnimalIDFromDir(t *testing.T) {
	tests := []struct {
		dirName string
		want    string
	}{
		{"Bengalese-Finch-Song-bl26lb16", "bl26lb16"},
		{"Buckeye-corpus-s01", "s01"},
		{"plain", "plain"},
	}
	for _, tt := range tests {
		if got := AnimalIDFromDir(tt.dirName); got != tt.want {
			t.Errorf("AnimalIDFromDir(%q) = %q, want %q", tt.dirName, got, tt.want)
		}
	}
}

func TestListAnimalDirs(t *testing.T) {
	groupDir := t.TempDir()
	for _, name := range []string{"Canary-Song-tweetynet1", "Canary-Song-tweetynet2", model.ReasonFirstOnsetLtZero} {
		if err := os.Mkdir(filepath.Join(groupDir, name), 0755); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(groupDir, "stray.csv"), nil, 0644); err != nil {
		t.Fatal(err)
	}

	got, err := ListAnimalDirs(groupDir, model.CanarySong)
	if err != nil {
		t.Fatalf("ListAnimalDirs: %v", err)
	}
	want := []string{
		filepath.Join(groupDir, "Canary-Song-tweetynet1"),
		filepath.Join(groupDir, "Canary-Song-tweetynet2"),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("dirs mismatch (-want +got):\n%s", diff)
	}
}

func TestListAnimalDirsHumanSpeechOnlyBuckeye(t *testing.T) {
	groupDir := t.TempDir()
	for _, name := range []string{"Buckeye-corpus-s01", "TIMIT-corpus-dr1"} {
		if err := os.Mkdir(filepath.Join(groupDir, name), 0755); err != nil {
			t.Fatal(err)
		}
	}

	got, err := ListAnimalDirs(groupDir, model.HumanSpeech)
	if err != nil {
		t.Fatalf("ListAnimalDirs: %v", err)
	}
	want := []string{filepath.Join(groupDir, "Buckeye-corpus-s01")}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("dirs mismatch (-want +got):\n%s", diff)
	}
}

func TestFindAnimalDir(t *testing.T) {
	candidates := []string{
		"data/CMACBench/Canary-Song/Canary-Song-tweetynet1",
		"data/CMACBench/Canary-Song/Canary-Song-tweetynet2",
	}

	got, err := FindAnimalDir(candidates, "tweetynet1")
	if err != nil {
		t.Fatalf("FindAnimalDir: %v", err)
	}
	if got != candidates[0] {
		t.Errorf("FindAnimalDir = %q, want %q", got, candidates[0])
	}

	if _, err := FindAnimalDir(candidates, "nope"); err == nil {
		t.Error("expected an error for an unknown id, got nil")
	}

	ambiguous := append(candidates, "data/raw/Canary-Song-tweetynet1")
	if _, err := FindAnimalDir(ambiguous, "tweetynet1"); err == nil {
		t.Error("expected an error for an ambiguous id, got nil")
	}
}

func TestWavStemAndAnnotPathFor(t *testing.T) {
	wavPath := filepath.Join("some", "dir", "song_2026_01_01.wav")
	if got := WavStem(wavPath); got != "song_2026_01_01" {
		t.Errorf("WavStem = %q", got)
	}
	want := filepath.Join("some", "dir", "song_2026_01_01.syllable.csv")
	if got := AnnotPathFor(wavPath, model.UnitSyllable); got != want {
		t.Errorf("AnnotPathFor = %q, want %q", got, want)
	}
}
