package repository

import (
	"database/sql"
	"fmt"

	"cmacbench/db"
	"cmacbench/model"
)

// QCReportRepository defines the interface for quarantine report operations.
type QCReportRepository interface {
	CreateReport(report *model.QCReport) (int64, error)
	GetReportsByGroup(group string) ([]*model.QCReport, error)
	CountByReason() (map[string]int, error)
}

// mysqlQCReportRepository implements QCReportRepository for MySQL.
type mysqlQCReportRepository struct {
	DB *sql.DB
}

// NewMySQLQCReportRepository creates a new instance of mysqlQCReportRepository.
func NewMySQLQCReportRepository() QCReportRepository {
	return &mysqlQCReportRepository{DB: db.DB}
}

// CreateReport records one quarantined sample.
func (r *mysqlQCReportRepository) CreateReport(report *model.QCReport) (int64, error) {
	query := `INSERT INTO qc_reports (biosound_group, animal_id, unit, wav_name, reason, quarantine, run_id)
	           VALUES (?, ?, ?, ?, ?, ?, ?)`
	stmt, err := r.DB.Prepare(query)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare statement for CreateReport: %w", err)
	}
	defer stmt.Close()

	res, err := stmt.Exec(report.Group, report.AnimalID, report.Unit, report.WavName,
		report.Reason, report.Quarantine, report.RunID)
	if err != nil {
		return 0, fmt.Errorf("failed to execute CreateReport: %w", err)
	}
	return res.LastInsertId()
}

// GetReportsByGroup retrieves all quarantine reports for a group.
func (r *mysqlQCReportRepository) GetReportsByGroup(group string) ([]*model.QCReport, error) {
	query := `SELECT id, biosound_group, animal_id, unit, wav_name, reason, quarantine, run_id, created_at
	           FROM qc_reports WHERE biosound_group = ? ORDER BY created_at DESC`
	rows, err := r.DB.Query(query, group)
	if err != nil {
		return nil, fmt.Errorf("failed to query qc reports for group %s: %w", group, err)
	}
	defer rows.Close()

	var reports []*model.QCReport
	for rows.Next() {
		rep := &model.QCReport{}
		err := rows.Scan(&rep.ID, &rep.Group, &rep.AnimalID, &rep.Unit, &rep.WavName,
			&rep.Reason, &rep.Quarantine, &rep.RunID, &rep.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan qc report row: %w", err)
		}
		reports = append(reports, rep)
	}
	return reports, rows.Err()
}

// CountByReason returns the number of quarantined samples per reason.
func (r *mysqlQCReportRepository) CountByReason() (map[string]int, error) {
	rows, err := r.DB.Query(`SELECT reason, COUNT(*) FROM qc_reports GROUP BY reason`)
	if err != nil {
		return nil, fmt.Errorf("failed to count qc reports by reason: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var reason string
		var n int
		if err := rows.Scan(&reason, &n); err != nil {
			return nil, fmt.Errorf("failed to scan reason count row: %w", err)
		}
		counts[reason] = n
	}
	return counts, rows.Err()
}
