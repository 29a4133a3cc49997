package model

import "time"

// Run statuses.
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// PrepRun records one invocation of the prep pipeline. Stored via GORM
// so runs are auditable after the fact, dry runs included.
type PrepRun struct {
	ID          string    `json:"id" gorm:"primaryKey;size:36"`
	Stage       string    `json:"stage" gorm:"size:16"`
	Groups      string    `json:"groups" gorm:"size:255"` // comma-separated
	DryRun      bool      `json:"dryRun"`
	Status      string    `json:"status" gorm:"size:16"`
	Error       string    `json:"error,omitempty" gorm:"type:text"`
	FilesSeen   int       `json:"filesSeen"`
	FilesMoved  int       `json:"filesMoved"` // quarantined during qc
	StartedAt   time.Time `json:"startedAt"`
	FinishedAt  time.Time `json:"finishedAt"`
}

// TableName keeps the GORM table name explicit.
func (PrepRun) TableName() string { return "prep_runs" }
