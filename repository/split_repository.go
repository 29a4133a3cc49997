package repository

import (
	"database/sql"
	"fmt"

	"cmacbench/db"
	"cmacbench/model"
)

// SplitRepository defines the interface for split manifest operations.
type SplitRepository interface {
	ReplaceEntries(group, unit string, entries []*model.SplitEntry) error
	GetEntries(group, unit string) ([]*model.SplitEntry, error)
}

// mysqlSplitRepository implements SplitRepository for MySQL.
type mysqlSplitRepository struct {
	DB *sql.DB
}

// NewMySQLSplitRepository creates a new instance of mysqlSplitRepository.
func NewMySQLSplitRepository() SplitRepository {
	return &mysqlSplitRepository{DB: db.DB}
}

// ReplaceEntries atomically replaces the split assignment for one
// (group, unit). Re-running the split stage must not leave stale rows.
func (r *mysqlSplitRepository) ReplaceEntries(group, unit string, entries []*model.SplitEntry) error {
	tx, err := r.DB.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction for ReplaceEntries: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM split_entries WHERE biosound_group = ? AND unit = ?`, group, unit); err != nil {
		return fmt.Errorf("failed to delete stale split entries: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO split_entries (biosound_group, unit, animal_id, wav_name, annot_name, split, duration)
	           VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare split entry insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		if _, err := stmt.Exec(e.Group, e.Unit, e.AnimalID, e.WavName, e.AnnotName, e.Split, e.Duration); err != nil {
			return fmt.Errorf("failed to insert split entry for %s: %w", e.WavName, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit split entries: %w", err)
	}
	return nil
}

// GetEntries retrieves the split assignment for one (group, unit).
func (r *mysqlSplitRepository) GetEntries(group, unit string) ([]*model.SplitEntry, error) {
	query := `SELECT id, biosound_group, unit, animal_id, wav_name, annot_name, split, duration, created_at
	           FROM split_entries WHERE biosound_group = ? AND unit = ? ORDER BY split, wav_name`
	rows, err := r.DB.Query(query, group, unit)
	if err != nil {
		return nil, fmt.Errorf("failed to query split entries for %s/%s: %w", group, unit, err)
	}
	defer rows.Close()

	var entries []*model.SplitEntry
	for rows.Next() {
		e := &model.SplitEntry{}
		err := rows.Scan(&e.ID, &e.Group, &e.Unit, &e.AnimalID, &e.WavName, &e.AnnotName,
			&e.Split, &e.Duration, &e.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan split entry row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
