package prep

import (
	"fmt"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"cmacbench/model"
)

func splitTestEntries(n int) []*model.SplitEntry {
	entries := make([]*model.SplitEntry, n)
	for i := range entries {
		entries[i] = &model.SplitEntry{
			WavName:  fmt.Sprintf("song_%03d.wav", i),
			Duration: 1 + float64(i%7),
		}
	}
	return entries
}

func TestAssignSplitsCoversEveryEntry(t *testing.T) {
	entries := splitTestEntries(50)
	fractions := map[string]float64{
		model.SplitTrain: 0.8,
		model.SplitVal:   0.1,
		model.SplitTest:  0.1,
	}

	assignSplits(entries, fractions, 42)

	for _, e := range entries {
		switch e.Split {
		case model.SplitTrain, model.SplitVal, model.SplitTest:
		default:
			t.Fatalf("entry %s got split %q", e.WavName, e.Split)
		}
	}
}

func TestAssignSplitsBalancesDuration(t *testing.T) {
	entries := splitTestEntries(200)
	fractions := map[string]float64{
		model.SplitTrain: 0.8,
		model.SplitVal:   0.1,
		model.SplitTest:  0.1,
	}

	assignSplits(entries, fractions, 42)

	var total float64
	assigned := map[string]float64{}
	for _, e := range entries {
		total += e.Duration
		assigned[e.Split] += e.Duration
	}

	// The greedy assignment can miss a target by at most one sample's
	// duration; the longest sample here is 7 seconds.
	for split, fraction := range fractions {
		want := total * fraction
		if got := assigned[split]; math.Abs(got-want) > 7 {
			t.Errorf("split %s got %.1fs of audio, want about %.1fs", split, got, want)
		}
	}
}

func TestAssignSplitsIsReproducible(t *testing.T) {
	fractions := map[string]float64{
		model.SplitTrain: 0.8,
		model.SplitVal:   0.1,
		model.SplitTest:  0.1,
	}

	first := splitTestEntries(50)
	second := splitTestEntries(50)
	assignSplits(first, fractions, 42)
	assignSplits(second, fractions, 42)

	bySplit := func(entries []*model.SplitEntry) map[string]string {
		m := map[string]string{}
		for _, e := range entries {
			m[e.WavName] = e.Split
		}
		return m
	}
	if diff := cmp.Diff(bySplit(first), bySplit(second)); diff != "" {
		t.Errorf("same seed produced different splits (-first +second):\n%s", diff)
	}
}
