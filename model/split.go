package model

import "time"

// Split names.
const (
	SplitTrain = "train"
	SplitVal   = "val"
	SplitTest  = "test"
)

// SplitEntry assigns one sample to a dataset split for one
// (group, unit). The same columns are written to the split manifest
// CSVs and recorded in the inventory database.
type SplitEntry struct {
	ID        int64     `json:"id"`
	Group     string    `json:"group"`
	Unit      string    `json:"unit"`
	AnimalID  string    `json:"animalId"`
	WavName   string    `json:"wavName"`
	AnnotName string    `json:"annotName"`
	Split     string    `json:"split"`
	Duration  float64   `json:"duration"` // seconds
	CreatedAt time.Time `json:"createdAt"`
}
