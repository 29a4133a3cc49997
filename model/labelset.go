package model

import "sort"

// BackgroundLabel is the class assigned to frames outside any
// annotated segment.
const BackgroundLabel = "background"

// Labelset is the set of labels permitted for one (group, unit, animal
// ID) combination. Labels outside the set fail QC.
type Labelset struct {
	Group    string   `json:"group"`
	Unit     string   `json:"unit"`
	AnimalID string   `json:"animalId"`
	Labels   []string `json:"labels"` // sorted, unique
}

// Contains reports whether lbl is in the labelset.
func (ls *Labelset) Contains(lbl string) bool {
	i := sort.SearchStrings(ls.Labels, lbl)
	return i < len(ls.Labels) && ls.Labels[i] == lbl
}

// Labelmap maps each label of a labelset to an integer class index.
// Index 0 is always the background class.
type Labelmap map[string]int

// NewLabelmap builds a labelmap from a labelset, inserting the
// background class at index 0.
func NewLabelmap(ls *Labelset) Labelmap {
	m := Labelmap{BackgroundLabel: 0}
	for i, lbl := range ls.Labels {
		m[lbl] = i + 1
	}
	return m
}

// Inverse returns the class-index-to-label mapping.
func (m Labelmap) Inverse() map[int]string {
	inv := make(map[int]string, len(m))
	for lbl, idx := range m {
		inv[idx] = lbl
	}
	return inv
}
