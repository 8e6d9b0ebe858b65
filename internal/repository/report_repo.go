package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"theraplay/internal/database"
	"theraplay/internal/models"
)

// ErrSerialization is returned when report content cannot be encoded for
// storage or decoded from a stored row
var ErrSerialization = errors.New("report payload serialization failed")

// ReportRepository handles performance report database operations
type ReportRepository struct {
	db database.DBTX
}

// NewReportRepository creates a new report repository
func NewReportRepository(db database.DBTX) *ReportRepository {
	return &ReportRepository{db: db}
}

// Create persists a new report. The selected games and the session snapshot
// are stored as JSON and never rewritten afterwards.
func (r *ReportRepository) Create(report *models.PerformanceReport) error {
	selectedGames, err := json.Marshal(report.SelectedGames)
	if err != nil {
		return fmt.Errorf("%w: encode selected games: %v", ErrSerialization, err)
	}
	sessionsData, err := json.Marshal(report.GameSessionsData)
	if err != nil {
		return fmt.Errorf("%w: encode session snapshot: %v", ErrSerialization, err)
	}

	query := `
		INSERT INTO performance_reports
			(id, child_id, parent_id, doctor_id, selected_games, game_sessions_data, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.Exec(query,
		report.ID,
		report.ChildID,
		report.ParentID,
		report.DoctorID,
		string(selectedGames),
		string(sessionsData),
		string(report.Status),
		report.CreatedAt,
	)
	return err
}

const reportColumns = `
	id, child_id, parent_id, doctor_id, selected_games, game_sessions_data,
	status, doctor_response, verdict, reviewed_at, created_at
`

// GetByID retrieves a report by ID, or nil when it does not exist
func (r *ReportRepository) GetByID(reportID string) (*models.PerformanceReport, error) {
	query := "SELECT " + reportColumns + " FROM performance_reports WHERE id = ?"

	report, err := scanReport(r.db.QueryRow(query, reportID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return report, nil
}

// GetByChild retrieves all reports sent for a child, newest first
func (r *ReportRepository) GetByChild(childID string) ([]models.PerformanceReport, error) {
	query := "SELECT " + reportColumns + " FROM performance_reports WHERE child_id = ? ORDER BY created_at DESC"
	return r.queryReports(query, childID)
}

// GetByDoctor retrieves all reports addressed to a doctor, newest first
func (r *ReportRepository) GetByDoctor(doctorID string) ([]models.PerformanceReport, error) {
	query := "SELECT " + reportColumns + " FROM performance_reports WHERE doctor_id = ? ORDER BY created_at DESC"
	return r.queryReports(query, doctorID)
}

// GetByDoctorAndStatus retrieves a doctor's reports in the given lifecycle state, newest first
func (r *ReportRepository) GetByDoctorAndStatus(doctorID string, status models.ReportStatus) ([]models.PerformanceReport, error) {
	query := "SELECT " + reportColumns + " FROM performance_reports WHERE doctor_id = ? AND status = ? ORDER BY created_at DESC"
	return r.queryReports(query, doctorID, string(status))
}

// CountByDoctorAndStatus counts a doctor's reports in the given lifecycle state
func (r *ReportRepository) CountByDoctorAndStatus(doctorID string, status models.ReportStatus) (int, error) {
	var count int
	query := "SELECT COUNT(*) FROM performance_reports WHERE doctor_id = ? AND status = ?"
	err := r.db.QueryRow(query, doctorID, string(status)).Scan(&count)
	return count, err
}

// MarkReviewed applies the one-way review transition with an optimistic
// status precondition. Returns false when the report was not in PENDING, so
// at most one of any concurrent respond attempts can succeed.
func (r *ReportRepository) MarkReviewed(reportID, doctorResponse string, verdict models.Verdict, reviewedAt time.Time) (bool, error) {
	query := `
		UPDATE performance_reports
		SET status = ?, doctor_response = ?, verdict = ?, reviewed_at = ?
		WHERE id = ? AND status = ?
	`
	result, err := r.db.Exec(query,
		string(models.ReportStatusReviewed),
		doctorResponse,
		string(verdict),
		reviewedAt,
		reportID,
		string(models.ReportStatusPending),
	)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

func (r *ReportRepository) queryReports(query string, args ...interface{}) ([]models.PerformanceReport, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []models.PerformanceReport
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, *report)
	}
	return reports, rows.Err()
}

// rowScanner is satisfied by *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanReport(row rowScanner) (*models.PerformanceReport, error) {
	report := &models.PerformanceReport{}
	var (
		selectedGames  string
		sessionsData   string
		status         string
		doctorResponse sql.NullString
		verdict        sql.NullString
		reviewedAt     sql.NullTime
	)

	err := row.Scan(
		&report.ID,
		&report.ChildID,
		&report.ParentID,
		&report.DoctorID,
		&selectedGames,
		&sessionsData,
		&status,
		&doctorResponse,
		&verdict,
		&reviewedAt,
		&report.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(selectedGames), &report.SelectedGames); err != nil {
		return nil, fmt.Errorf("%w: decode selected games for report %s: %v", ErrSerialization, report.ID, err)
	}
	if err := json.Unmarshal([]byte(sessionsData), &report.GameSessionsData); err != nil {
		return nil, fmt.Errorf("%w: decode session snapshot for report %s: %v", ErrSerialization, report.ID, err)
	}

	report.Status = models.ReportStatus(status)
	if doctorResponse.Valid {
		report.DoctorResponse = &doctorResponse.String
	}
	if verdict.Valid {
		v := models.Verdict(verdict.String)
		report.Verdict = &v
	}
	if reviewedAt.Valid {
		t := reviewedAt.Time
		report.ReviewedAt = &t
	}

	return report, nil
}
