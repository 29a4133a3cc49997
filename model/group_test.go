package model

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseGroup(t *testing.T) {
	g, err := ParseGroup("Mouse-Pup-Call")
	if err != nil {
		t.Fatalf("ParseGroup: %v", err)
	}
	if g != MousePupCall {
		t.Errorf("ParseGroup = %v, want %v", g, MousePupCall)
	}

	if _, err := ParseGroup("Sperm-Whale-Click"); err == nil {
		t.Error("expected an error for an unknown group, got nil")
	}
}

func TestParseGroupsEmptyMeansAll(t *testing.T) {
	got, err := ParseGroups(nil)
	if err != nil {
		t.Fatalf("ParseGroups: %v", err)
	}
	if diff := cmp.Diff(AllGroups, got); diff != "" {
		t.Errorf("groups mismatch (-want +got):\n%s", diff)
	}
}

func TestGroupProperties(t *testing.T) {
	for _, g := range AllGroups {
		if len(g.Units()) == 0 {
			t.Errorf("group %s has no units", g)
		}
	}
	if !HumanSpeech.Restricted() {
		t.Error("Human-Speech must be restricted")
	}
	if BengaleseFinchSong.Restricted() {
		t.Error("Bengalese-Finch-Song must not be restricted")
	}
	if MousePupCall.HasLabelsetQC() {
		t.Error("Mouse-Pup-Call must not have labelset QC")
	}
	if !CanarySong.HasLabelsetQC() {
		t.Error("Canary-Song must have labelset QC")
	}
}

func TestNewLabelmap(t *testing.T) {
	ls := &Labelset{Labels: []string{"a", "b", "c"}}
	m := NewLabelmap(ls)

	if m[BackgroundLabel] != 0 {
		t.Errorf("background class = %d, want 0", m[BackgroundLabel])
	}
	want := Labelmap{BackgroundLabel: 0, "a": 1, "b": 2, "c": 3}
	if diff := cmp.Diff(want, m); diff != "" {
		t.Errorf("labelmap mismatch (-want +got):\n%s", diff)
	}

	inv := m.Inverse()
	if inv[2] != "b" {
		t.Errorf("Inverse()[2] = %q, want b", inv[2])
	}
}

func TestLabelsetContains(t *testing.T) {
	ls := &Labelset{Labels: []string{"a", "b", "c"}}
	if !ls.Contains("b") {
		t.Error("Contains(b) = false, want true")
	}
	if ls.Contains("z") {
		t.Error("Contains(z) = true, want false")
	}
}
