package db

import (
	"database/sql"
	"fmt"
	"log"

	"cmacbench/config"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
)

var DB *sql.DB

// ConnectDB establishes a connection to the database.
func ConnectDB(cfg *config.Config) error {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)

	var err error
	DB, err = sql.Open("mysql", dsn)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}

	if err = DB.Ping(); err != nil {
		DB.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("Successfully connected to the database.")
	return nil
}

// InitDB initializes the inventory schema, creating tables if they
// don't exist.
func InitDB() error {
	if err := createSamplesTable(); err != nil {
		return err
	}
	if err := createQCReportsTable(); err != nil {
		return err
	}
	if err := createSplitEntriesTable(); err != nil {
		return err
	}
	log.Println("Database initialization completed.")
	return nil
}

func createSamplesTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS samples (
		id INT AUTO_INCREMENT PRIMARY KEY,
		biosound_group VARCHAR(64) NOT NULL,
		animal_id VARCHAR(64) NOT NULL,
		wav_name VARCHAR(255) NOT NULL,
		wav_path VARCHAR(767) NOT NULL,
		duration DOUBLE,
		sample_rate INT,
		num_units INT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		CONSTRAINT uq_group_wav UNIQUE (biosound_group, animal_id, wav_name)
	);
	`
	if _, err := DB.Exec(query); err != nil {
		return fmt.Errorf("failed to create samples table: %w", err)
	}
	log.Println("Samples table initialized successfully (or already exists).")
	return nil
}

func createQCReportsTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS qc_reports (
		id INT AUTO_INCREMENT PRIMARY KEY,
		biosound_group VARCHAR(64) NOT NULL,
		animal_id VARCHAR(64) NOT NULL,
		unit VARCHAR(32) NOT NULL,
		wav_name VARCHAR(255) NOT NULL,
		reason VARCHAR(64) NOT NULL,
		quarantine VARCHAR(64) NOT NULL,
		run_id VARCHAR(36) NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	`
	if _, err := DB.Exec(query); err != nil {
		return fmt.Errorf("failed to create qc_reports table: %w", err)
	}
	log.Println("QC reports table initialized successfully (or already exists).")
	return nil
}

func createSplitEntriesTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS split_entries (
		id INT AUTO_INCREMENT PRIMARY KEY,
		biosound_group VARCHAR(64) NOT NULL,
		unit VARCHAR(32) NOT NULL,
		animal_id VARCHAR(64) NOT NULL,
		wav_name VARCHAR(255) NOT NULL,
		annot_name VARCHAR(255) NOT NULL,
		split VARCHAR(8) NOT NULL,
		duration DOUBLE,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		CONSTRAINT uq_split_sample UNIQUE (biosound_group, unit, animal_id, wav_name)
	);
	`
	if _, err := DB.Exec(query); err != nil {
		return fmt.Errorf("failed to create split_entries table: %w", err)
	}
	log.Println("Split entries table initialized successfully (or already exists).")
	return nil
}
