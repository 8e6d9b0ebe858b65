package service

import (
	"database/sql"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/goccy/go-json"

	"theraplay/internal/database"
)

// ArchiveData is the top-level structure of a report archive file
type ArchiveData struct {
	Version    string          `json:"version"`
	ExportedAt time.Time       `json:"exported_at"`
	Reports    []ReportArchive `json:"reports"`
}

// ReportArchive is one performance report row as stored. The JSON columns
// are carried verbatim so an import re-inserts exactly what was exported.
type ReportArchive struct {
	ID               string     `json:"id"`
	ChildID          string     `json:"child_id"`
	ParentID         string     `json:"parent_id"`
	DoctorID         string     `json:"doctor_id"`
	SelectedGames    string     `json:"selected_games"`
	GameSessionsData string     `json:"game_sessions_data"`
	Status           string     `json:"status"`
	DoctorResponse   *string    `json:"doctor_response"`
	Verdict          *string    `json:"verdict"`
	ReviewedAt       *time.Time `json:"reviewed_at"`
	CreatedAt        time.Time  `json:"created_at"`
}

// ArchiveService handles report store export and restore operations
type ArchiveService struct {
	db *database.DB
}

// NewArchiveService creates a new archive service
func NewArchiveService(db *database.DB) *ArchiveService {
	return &ArchiveService{db: db}
}

// Export writes every stored report to a JSON archive file
func (s *ArchiveService) Export(outputPath string) error {
	log.Println("Starting report export...")

	archive := &ArchiveData{
		Version:    "1.0",
		ExportedAt: time.Now().UTC(),
	}

	if err := s.exportReports(archive); err != nil {
		return fmt.Errorf("failed to export reports: %w", err)
	}

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(archive); err != nil {
		return fmt.Errorf("failed to encode archive: %w", err)
	}

	log.Printf("Exported %d reports to %s", len(archive.Reports), outputPath)
	return nil
}

// Import restores reports from an archive file. Reports whose id already
// exists are left untouched.
func (s *ArchiveService) Import(inputPath string) error {
	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	return s.ImportFromReader(file)
}

// ImportFromReader restores reports from an archive stream
func (s *ArchiveService) ImportFromReader(reader io.Reader) error {
	var archive ArchiveData
	if err := json.NewDecoder(reader).Decode(&archive); err != nil {
		return fmt.Errorf("failed to decode archive: %w", err)
	}

	log.Printf("Archive version: %s, exported at: %s", archive.Version, archive.ExportedAt)

	imported, skipped := 0, 0
	for _, report := range archive.Reports {
		ok, err := s.importReport(report)
		if err != nil {
			return fmt.Errorf("failed to import report %s: %w", report.ID, err)
		}
		if ok {
			imported++
		} else {
			skipped++
		}
	}

	log.Printf("Import complete: %d imported, %d already present", imported, skipped)
	return nil
}

func (s *ArchiveService) exportReports(archive *ArchiveData) error {
	rows, err := s.db.Query(`
		SELECT id, child_id, parent_id, doctor_id, selected_games, game_sessions_data,
			status, doctor_response, verdict, reviewed_at, created_at
		FROM performance_reports ORDER BY created_at
	`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var report ReportArchive
		var response, verdict sql.NullString
		var reviewedAt sql.NullTime
		if err := rows.Scan(
			&report.ID, &report.ChildID, &report.ParentID, &report.DoctorID,
			&report.SelectedGames, &report.GameSessionsData,
			&report.Status, &response, &verdict, &reviewedAt, &report.CreatedAt,
		); err != nil {
			return err
		}
		if response.Valid {
			report.DoctorResponse = &response.String
		}
		if verdict.Valid {
			report.Verdict = &verdict.String
		}
		if reviewedAt.Valid {
			report.ReviewedAt = &reviewedAt.Time
		}
		archive.Reports = append(archive.Reports, report)
	}
	return rows.Err()
}

func (s *ArchiveService) importReport(report ReportArchive) (bool, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM performance_reports WHERE id = ?", report.ID).Scan(&count)
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	_, err = s.db.Exec(`
		INSERT INTO performance_reports
			(id, child_id, parent_id, doctor_id, selected_games, game_sessions_data,
			status, doctor_response, verdict, reviewed_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		report.ID, report.ChildID, report.ParentID, report.DoctorID,
		report.SelectedGames, report.GameSessionsData,
		report.Status, report.DoctorResponse, report.Verdict, report.ReviewedAt, report.CreatedAt,
	)
	if err != nil {
		return false, err
	}
	return true, nil
}
