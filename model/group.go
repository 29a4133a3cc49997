package model

import "fmt"

// Unit is a level of annotation for a biosound group.
type Unit string

const (
	UnitSyllable Unit = "syllable"
	UnitCall     Unit = "call"
	UnitPhoneme  Unit = "phoneme"
)

// BiosoundGroup names one corpus of recordings of a single kind of
// acoustic communication.
type BiosoundGroup string

const (
	BengaleseFinchSong BiosoundGroup = "Bengalese-Finch-Song"
	CanarySong         BiosoundGroup = "Canary-Song"
	ZebraFinchSong     BiosoundGroup = "Zebra-Finch-Song"
	MousePupCall       BiosoundGroup = "Mouse-Pup-Call"
	HumanSpeech        BiosoundGroup = "Human-Speech"
)

// AllGroups lists every biosound group in the benchmark, in the order
// the pipeline processes them.
var AllGroups = []BiosoundGroup{
	BengaleseFinchSong,
	CanarySong,
	ZebraFinchSong,
	MousePupCall,
	HumanSpeech,
}

// groupUnits maps each group to its annotation units.
// Songbird song is annotated at the syllable level, mouse pup
// vocalizations at the call level, and speech at the phoneme level.
var groupUnits = map[BiosoundGroup][]Unit{
	BengaleseFinchSong: {UnitSyllable},
	CanarySong:         {UnitSyllable},
	ZebraFinchSong:     {UnitSyllable},
	MousePupCall:       {UnitCall},
	HumanSpeech:        {UnitPhoneme},
}

// Units returns the annotation units for a group.
func (g BiosoundGroup) Units() []Unit {
	return groupUnits[g]
}

// Restricted reports whether the group's data lives under the
// non-shareable root instead of the dataset root. Human speech corpora
// carry licenses that forbid redistribution.
func (g BiosoundGroup) Restricted() bool {
	return g == HumanSpeech
}

// HasLabelsetQC reports whether labels for this group are checked
// against a per-ID labelset. Mouse pup calls use a single call class,
// so there is no labelset to enforce.
func (g BiosoundGroup) HasLabelsetQC() bool {
	return g != MousePupCall
}

// ParseGroup validates a group name from user input.
func ParseGroup(s string) (BiosoundGroup, error) {
	for _, g := range AllGroups {
		if string(g) == s {
			return g, nil
		}
	}
	return "", fmt.Errorf("unknown biosound group: %q", s)
}

// ParseGroups validates a list of group names, returning all groups
// when the list is empty.
func ParseGroups(names []string) ([]BiosoundGroup, error) {
	if len(names) == 0 {
		return AllGroups, nil
	}
	groups := make([]BiosoundGroup, 0, len(names))
	for _, name := range names {
		g, err := ParseGroup(name)
		if err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, nil
}
