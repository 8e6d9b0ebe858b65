package handlers

import (
	"theraplay/internal/models"
)

// engagementResponse is the heatmap+stats payload for a child
type engagementResponse struct {
	ChildID string                 `json:"childId"`
	Heatmap []models.HeatmapDay    `json:"heatmap"`
	Stats   models.EngagementStats `json:"stats"`
}

// createReportRequest is the body for sending a report to a doctor
type createReportRequest struct {
	ChildID       string   `json:"childId"`
	DoctorID      string   `json:"doctorId"`
	SelectedGames []string `json:"selectedGames"`
}

// respondToReportRequest is the body for a doctor's review
type respondToReportRequest struct {
	Response string `json:"response"`
	Verdict  string `json:"verdict"`
}

// reportListResponse wraps a list of reports
type reportListResponse struct {
	Reports []models.PerformanceReport `json:"reports"`
}

// pendingCountResponse carries a doctor's pending review count
type pendingCountResponse struct {
	PendingCount int `json:"pendingCount"`
}
