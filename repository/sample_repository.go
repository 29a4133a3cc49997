package repository

import (
	"database/sql"
	"fmt"

	"cmacbench/db"
	"cmacbench/model"
)

// SampleRepository defines the interface for sample inventory operations.
type SampleRepository interface {
	UpsertSample(sample *model.Sample) error
	GetSamplesByGroup(group string) ([]*model.Sample, error)
	CountByGroup() (map[string]int, error)
	DurationsByGroup(group string) ([]float64, error)
	DeleteByGroup(group string) (int64, error)
}

// mysqlSampleRepository implements SampleRepository for MySQL.
type mysqlSampleRepository struct {
	DB *sql.DB
}

// NewMySQLSampleRepository creates a new instance of mysqlSampleRepository.
func NewMySQLSampleRepository() SampleRepository {
	return &mysqlSampleRepository{DB: db.DB}
}

// UpsertSample inserts a sample or refreshes its probed metadata when
// the (group, animal, wav) row already exists.
func (r *mysqlSampleRepository) UpsertSample(sample *model.Sample) error {
	query := `INSERT INTO samples (biosound_group, animal_id, wav_name, wav_path, duration, sample_rate, num_units)
	           VALUES (?, ?, ?, ?, ?, ?, ?)
	           ON DUPLICATE KEY UPDATE wav_path = VALUES(wav_path), duration = VALUES(duration),
	           sample_rate = VALUES(sample_rate), num_units = VALUES(num_units)`
	stmt, err := r.DB.Prepare(query)
	if err != nil {
		return fmt.Errorf("failed to prepare statement for UpsertSample: %w", err)
	}
	defer stmt.Close()

	_, err = stmt.Exec(sample.Group, sample.AnimalID, sample.WavName, sample.WavPath,
		sample.Duration, sample.SampleRate, sample.NumUnits)
	if err != nil {
		return fmt.Errorf("failed to execute UpsertSample for %s: %w", sample.WavName, err)
	}
	return nil
}

// GetSamplesByGroup retrieves all samples for a biosound group.
func (r *mysqlSampleRepository) GetSamplesByGroup(group string) ([]*model.Sample, error) {
	query := `SELECT id, biosound_group, animal_id, wav_name, wav_path, duration, sample_rate, num_units, created_at, updated_at
	           FROM samples WHERE biosound_group = ? ORDER BY animal_id, wav_name`
	rows, err := r.DB.Query(query, group)
	if err != nil {
		return nil, fmt.Errorf("failed to query samples for group %s: %w", group, err)
	}
	defer rows.Close()

	var samples []*model.Sample
	for rows.Next() {
		s := &model.Sample{}
		err := rows.Scan(&s.ID, &s.Group, &s.AnimalID, &s.WavName, &s.WavPath,
			&s.Duration, &s.SampleRate, &s.NumUnits, &s.CreatedAt, &s.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sample row: %w", err)
		}
		samples = append(samples, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sample rows: %w", err)
	}
	return samples, nil
}

// CountByGroup returns the number of samples per biosound group.
func (r *mysqlSampleRepository) CountByGroup() (map[string]int, error) {
	rows, err := r.DB.Query(`SELECT biosound_group, COUNT(*) FROM samples GROUP BY biosound_group`)
	if err != nil {
		return nil, fmt.Errorf("failed to count samples by group: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var group string
		var n int
		if err := rows.Scan(&group, &n); err != nil {
			return nil, fmt.Errorf("failed to scan count row: %w", err)
		}
		counts[group] = n
	}
	return counts, rows.Err()
}

// DurationsByGroup returns the probed durations of all samples in a group.
func (r *mysqlSampleRepository) DurationsByGroup(group string) ([]float64, error) {
	rows, err := r.DB.Query(`SELECT duration FROM samples WHERE biosound_group = ?`, group)
	if err != nil {
		return nil, fmt.Errorf("failed to query durations for group %s: %w", group, err)
	}
	defer rows.Close()

	var durations []float64
	for rows.Next() {
		var d float64
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("failed to scan duration row: %w", err)
		}
		durations = append(durations, d)
	}
	return durations, rows.Err()
}

// DeleteByGroup removes all inventory rows for a group; used when the
// clean stage removes generated data.
func (r *mysqlSampleRepository) DeleteByGroup(group string) (int64, error) {
	res, err := r.DB.Exec(`DELETE FROM samples WHERE biosound_group = ?`, group)
	if err != nil {
		return 0, fmt.Errorf("failed to delete samples for group %s: %w", group, err)
	}
	return res.RowsAffected()
}
