package handlers

import (
	"context"
	"net/http"

	"theraplay/internal/models"
)

// engagementProvider is the analyzer surface this handler needs
type engagementProvider interface {
	GetEngagement(ctx context.Context, childID string) ([]models.HeatmapDay, models.EngagementStats)
}

// EngagementHandler serves heatmap and summary statistics for a child
type EngagementHandler struct {
	engagement engagementProvider
}

// NewEngagementHandler creates a new engagement handler
func NewEngagementHandler(engagement engagementProvider) *EngagementHandler {
	return &EngagementHandler{engagement: engagement}
}

// GetChildEngagement returns the child's heatmap and engagement stats.
// Upstream outages degrade to a sparse result; this endpoint never fails
// because one game service is down.
func (h *EngagementHandler) GetChildEngagement(w http.ResponseWriter, r *http.Request) {
	childID := r.PathValue("childId")
	if childID == "" {
		respondWithError(w, http.StatusBadRequest, "Missing child id", nil)
		return
	}

	heatmap, stats := h.engagement.GetEngagement(r.Context(), childID)

	writeJSON(w, http.StatusOK, engagementResponse{
		ChildID: childID,
		Heatmap: heatmap,
		Stats:   stats,
	})
}
