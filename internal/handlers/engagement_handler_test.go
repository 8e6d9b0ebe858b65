package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"theraplay/internal/models"
)

type stubEngagement struct {
	heatmap []models.HeatmapDay
	stats   models.EngagementStats
	gotID   string
}

func (s *stubEngagement) GetEngagement(ctx context.Context, childID string) ([]models.HeatmapDay, models.EngagementStats) {
	s.gotID = childID
	return s.heatmap, s.stats
}

func TestGetChildEngagement(t *testing.T) {
	stub := &stubEngagement{
		heatmap: []models.HeatmapDay{
			{
				Date:         time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC),
				GameCount:    2,
				TotalMinutes: 30,
				Intensity:    0.45,
				Games:        []string{"Dance Along", "Gesture Match"},
			},
		},
		stats: models.EngagementStats{
			TotalDaysPracticed:             1,
			CurrentStreak:                  1,
			TotalTimeMinutes:               30,
			AverageSessionTimePerActiveDay: 15,
		},
	}
	handler := NewEngagementHandler(stub)

	req := httptest.NewRequest(http.MethodGet, "/children/child-1/engagement", nil)
	req.SetPathValue("childId", "child-1")
	rec := httptest.NewRecorder()

	handler.GetChildEngagement(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", rec.Code, rec.Body)
	}
	if stub.gotID != "child-1" {
		t.Errorf("child id = %q, want child-1", stub.gotID)
	}

	var got engagementResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if got.ChildID != "child-1" {
		t.Errorf("childId = %q", got.ChildID)
	}
	if len(got.Heatmap) != 1 || got.Heatmap[0].GameCount != 2 {
		t.Errorf("heatmap = %+v", got.Heatmap)
	}
	if got.Stats.CurrentStreak != 1 || got.Stats.TotalTimeMinutes != 30 {
		t.Errorf("stats = %+v", got.Stats)
	}
}

func TestGetChildEngagementMissingID(t *testing.T) {
	handler := NewEngagementHandler(&stubEngagement{})

	req := httptest.NewRequest(http.MethodGet, "/children//engagement", nil)
	rec := httptest.NewRecorder()

	handler.GetChildEngagement(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
