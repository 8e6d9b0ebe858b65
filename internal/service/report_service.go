package service

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"

	"theraplay/internal/metrics"
	"theraplay/internal/models"
)

// maxSnapshotSessions bounds the per-game snapshot attached to a report.
// Keeps report payloads small and clinician review effort predictable.
const maxSnapshotSessions = 3

// reportStore is the persistence surface the report service needs.
// Satisfied by *repository.ReportRepository.
type reportStore interface {
	Create(report *models.PerformanceReport) error
	GetByID(reportID string) (*models.PerformanceReport, error)
	GetByChild(childID string) ([]models.PerformanceReport, error)
	GetByDoctor(doctorID string) ([]models.PerformanceReport, error)
	GetByDoctorAndStatus(doctorID string, status models.ReportStatus) ([]models.PerformanceReport, error)
	CountByDoctorAndStatus(doctorID string, status models.ReportStatus) (int, error)
	MarkReviewed(reportID, doctorResponse string, verdict models.Verdict, reviewedAt time.Time) (bool, error)
}

// ReportNotifier sends report lifecycle notifications. Implemented by
// EmailService; nil disables notifications.
type ReportNotifier interface {
	NotifyReportSubmitted(ctx context.Context, report *models.PerformanceReport) error
	NotifyReportReviewed(ctx context.Context, report *models.PerformanceReport) error
}

// ReportService handles the performance report lifecycle: building the
// bounded session snapshot, the one-way review transition, and read-only
// projections for parents and doctors.
type ReportService struct {
	store      reportStore
	aggregator *AggregatorService
	notifier   ReportNotifier
	now        func() time.Time
}

// NewReportService creates a new report service. notifier may be nil.
func NewReportService(store reportStore, aggregator *AggregatorService, notifier ReportNotifier) *ReportService {
	return &ReportService{
		store:      store,
		aggregator: aggregator,
		notifier:   notifier,
		now:        time.Now,
	}
}

// BuildReport snapshots the child's most recent sessions for the selected
// game types and persists a new PENDING report addressed to the doctor.
//
// Sources that fail contribute an empty snapshot; creation only fails on
// invalid input or a store error, never on an upstream outage.
func (s *ReportService) BuildReport(ctx context.Context, childID, parentID, doctorID string, selectedGames []models.GameType) (*models.PerformanceReport, error) {
	selected := dedupeGameTypes(selectedGames)
	if len(selected) == 0 {
		return nil, ErrNoGamesSelected
	}
	for _, gt := range selected {
		if !gt.IsValid() {
			return nil, fmt.Errorf("%w: %q", models.ErrUnknownGameType, gt)
		}
	}

	snapshot := s.aggregator.FetchSessionsByType(ctx, childID, selected)
	for gt, sessions := range snapshot {
		snapshot[gt] = mostRecent(sessions, maxSnapshotSessions)
	}

	report := &models.PerformanceReport{
		ID:               uuid.New().String(),
		ChildID:          childID,
		ParentID:         parentID,
		DoctorID:         doctorID,
		SelectedGames:    selected,
		GameSessionsData: snapshot,
		Status:           models.ReportStatusPending,
		CreatedAt:        s.now().UTC(),
	}

	if err := s.store.Create(report); err != nil {
		return nil, err
	}
	metrics.ReportsCreated.Inc()

	if s.notifier != nil {
		if err := s.notifier.NotifyReportSubmitted(ctx, report); err != nil {
			log.Printf("Failed to notify doctor %s of report %s: %v", doctorID, report.ID, err)
		}
	}

	return report, nil
}

// RespondToReport records the owning doctor's response and verdict and moves
// the report to REVIEWED. This is the sole mutation path for a report; the
// store applies the transition with a status precondition, so under
// concurrent attempts at most one succeeds and the rest fail with
// ErrAlreadyReviewed.
func (s *ReportService) RespondToReport(ctx context.Context, reportID, doctorID, responseText string, verdict models.Verdict) (*models.PerformanceReport, error) {
	report, err := s.store.GetByID(reportID)
	if err != nil {
		return nil, err
	}
	if report == nil {
		return nil, fmt.Errorf("%w: %s", ErrReportNotFound, reportID)
	}
	if report.DoctorID != doctorID {
		return nil, ErrNotReportOwner
	}
	if report.IsReviewed() {
		return nil, ErrAlreadyReviewed
	}

	ok, err := s.store.MarkReviewed(reportID, responseText, verdict, s.now().UTC())
	if err != nil {
		return nil, err
	}
	if !ok {
		// Lost the race against a concurrent respond
		return nil, ErrAlreadyReviewed
	}
	metrics.ReportsReviewed.Inc()

	updated, err := s.store.GetByID(reportID)
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		if err := s.notifier.NotifyReportReviewed(ctx, updated); err != nil {
			log.Printf("Failed to notify parent %s of review for report %s: %v", updated.ParentID, reportID, err)
		}
	}

	return updated, nil
}

// GetReportsForChild lists every report sent for a child, newest first
func (s *ReportService) GetReportsForChild(childID string) ([]models.PerformanceReport, error) {
	return s.store.GetByChild(childID)
}

// GetPendingReportsForDoctor lists a doctor's unreviewed reports, newest first
func (s *ReportService) GetPendingReportsForDoctor(doctorID string) ([]models.PerformanceReport, error) {
	return s.store.GetByDoctorAndStatus(doctorID, models.ReportStatusPending)
}

// GetAllReportsForDoctor lists every report addressed to a doctor, newest first
func (s *ReportService) GetAllReportsForDoctor(doctorID string) ([]models.PerformanceReport, error) {
	return s.store.GetByDoctor(doctorID)
}

// GetPendingCount counts a doctor's unreviewed reports
func (s *ReportService) GetPendingCount(doctorID string) (int, error) {
	return s.store.CountByDoctorAndStatus(doctorID, models.ReportStatusPending)
}

// mostRecent sorts sessions newest-first and keeps at most limit of them
func mostRecent(sessions []models.GameSession, limit int) []models.GameSession {
	sorted := make([]models.GameSession, len(sessions))
	copy(sorted, sessions)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].DateTime.After(sorted[j].DateTime)
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}

func dedupeGameTypes(gameTypes []models.GameType) []models.GameType {
	seen := make(map[models.GameType]bool, len(gameTypes))
	var out []models.GameType
	for _, gt := range gameTypes {
		if !seen[gt] {
			seen[gt] = true
			out = append(out, gt)
		}
	}
	return out
}
