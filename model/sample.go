package model

import "time"

// Sample is one audio file together with its annotation files, one per
// unit of annotation. A sample is the atom of the benchmark: QC removes
// or keeps whole samples, and splits assign whole samples.
type Sample struct {
	ID         int64     `json:"id"`
	Group      string    `json:"group"`
	AnimalID   string    `json:"animalId"` // ID parsed from the per-animal directory name
	WavPath    string    `json:"-"`        // absolute path, not exposed in API
	WavName    string    `json:"wavName"`
	Duration   float64   `json:"duration"`   // seconds, probed from the audio file
	SampleRate int       `json:"sampleRate"` // Hz
	NumUnits   int       `json:"numUnits"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// AnnotFile pairs a unit with the path of its annotation CSV for one
// sample.
type AnnotFile struct {
	Unit Unit
	Path string
}

// QCReport records one quarantined sample: why it was removed and
// where it was moved.
type QCReport struct {
	ID        int64     `json:"id"`
	Group     string    `json:"group"`
	AnimalID  string    `json:"animalId"`
	Unit      string    `json:"unit"`
	WavName   string    `json:"wavName"`
	Reason    string    `json:"reason"`
	Quarantine string   `json:"quarantine"` // destination directory name
	RunID     string    `json:"runId"`
	CreatedAt time.Time `json:"createdAt"`
}

// QC quarantine reasons. Each reason is also the name of the
// subdirectory invalid samples are moved into.
const (
	ReasonFirstOnsetLtZero   = "first-onset-lt-zero"
	ReasonAnyOnsetLtZero     = "any-onset-lt-zero"
	ReasonAnyOffsetLtZero    = "any-offset-lt-zero"
	ReasonInvalidStartsStops = "invalid-starts-stops"
	ReasonLabelNotInLabelset = "labels-not-in-labelset"
)
