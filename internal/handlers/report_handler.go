package handlers

import (
	"context"
	"net/http"

	"github.com/goccy/go-json"

	"theraplay/internal/models"
)

// reportManager is the report lifecycle surface this handler needs
type reportManager interface {
	BuildReport(ctx context.Context, childID, parentID, doctorID string, selectedGames []models.GameType) (*models.PerformanceReport, error)
	RespondToReport(ctx context.Context, reportID, doctorID, responseText string, verdict models.Verdict) (*models.PerformanceReport, error)
	GetReportsForChild(childID string) ([]models.PerformanceReport, error)
	GetPendingReportsForDoctor(doctorID string) ([]models.PerformanceReport, error)
	GetAllReportsForDoctor(doctorID string) ([]models.PerformanceReport, error)
	GetPendingCount(doctorID string) (int, error)
}

// ReportHandler handles performance report HTTP requests
type ReportHandler struct {
	reports reportManager
}

// NewReportHandler creates a new report handler
func NewReportHandler(reports reportManager) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// CreateReport builds and persists a report addressed to a doctor. The
// requesting actor is recorded as the originating parent.
func (h *ReportHandler) CreateReport(w http.ResponseWriter, r *http.Request) {
	actor := GetActorFromContext(r.Context())
	if actor == nil {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}

	var req createReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.ChildID == "" || req.DoctorID == "" {
		respondWithError(w, http.StatusBadRequest, "childId and doctorId are required", nil)
		return
	}

	selectedGames := make([]models.GameType, 0, len(req.SelectedGames))
	for _, tag := range req.SelectedGames {
		gameType, err := models.ParseGameType(tag)
		if err != nil {
			respondWithServiceError(w, err)
			return
		}
		selectedGames = append(selectedGames, gameType)
	}

	report, err := h.reports.BuildReport(r.Context(), req.ChildID, actor.ID, req.DoctorID, selectedGames)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, report)
}

// RespondToReport records the requesting doctor's response and verdict
func (h *ReportHandler) RespondToReport(w http.ResponseWriter, r *http.Request) {
	actor := GetActorFromContext(r.Context())
	if actor == nil {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}

	reportID := r.PathValue("id")
	if reportID == "" {
		respondWithError(w, http.StatusBadRequest, "Missing report id", nil)
		return
	}

	var req respondToReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	verdict, err := models.ParseVerdict(req.Verdict)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	report, err := h.reports.RespondToReport(r.Context(), reportID, actor.ID, req.Response, verdict)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// GetChildReports lists every report sent for a child
func (h *ReportHandler) GetChildReports(w http.ResponseWriter, r *http.Request) {
	childID := r.PathValue("childId")
	if childID == "" {
		respondWithError(w, http.StatusBadRequest, "Missing child id", nil)
		return
	}

	reports, err := h.reports.GetReportsForChild(childID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reportListResponse{Reports: emptyIfNil(reports)})
}

// GetDoctorReports lists the requesting doctor's reports; ?status=pending
// narrows to unreviewed ones
func (h *ReportHandler) GetDoctorReports(w http.ResponseWriter, r *http.Request) {
	actor := GetActorFromContext(r.Context())
	if actor == nil {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}

	var (
		reports []models.PerformanceReport
		err     error
	)
	switch r.URL.Query().Get("status") {
	case "":
		reports, err = h.reports.GetAllReportsForDoctor(actor.ID)
	case "pending":
		reports, err = h.reports.GetPendingReportsForDoctor(actor.ID)
	default:
		respondWithError(w, http.StatusBadRequest, "Unknown status filter", nil)
		return
	}
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, reportListResponse{Reports: emptyIfNil(reports)})
}

// GetPendingCount returns the requesting doctor's pending review count
func (h *ReportHandler) GetPendingCount(w http.ResponseWriter, r *http.Request) {
	actor := GetActorFromContext(r.Context())
	if actor == nil {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}

	count, err := h.reports.GetPendingCount(actor.ID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pendingCountResponse{PendingCount: count})
}

func emptyIfNil(reports []models.PerformanceReport) []models.PerformanceReport {
	if reports == nil {
		return []models.PerformanceReport{}
	}
	return reports
}
