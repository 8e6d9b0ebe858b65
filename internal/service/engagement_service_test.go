package service

import (
	"math"
	"reflect"
	"testing"
	"time"

	"theraplay/internal/models"
)

var analyzeNow = time.Date(2026, 8, 30, 14, 0, 0, 0, time.UTC)

// sessionOn builds a session n days before analyzeNow
func sessionOn(daysAgo int, gameType models.GameType) models.GameSession {
	return models.GameSession{
		SessionID: "s",
		ChildID:   "child-1",
		GameType:  gameType,
		DateTime:  analyzeNow.AddDate(0, 0, -daysAgo),
	}
}

func TestAnalyzeHeatmapCompleteness(t *testing.T) {
	tests := []struct {
		name     string
		sessions []models.GameSession
	}{
		{name: "no sessions", sessions: nil},
		{name: "one session", sessions: []models.GameSession{sessionOn(3, models.GameTypeDance)}},
		{
			name: "sessions outside window",
			sessions: []models.GameSession{
				sessionOn(200, models.GameTypeDance),
				sessionOn(84, models.GameTypeGaze),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			heatmap, _ := Analyze(tt.sessions, DefaultWindowDays, analyzeNow)

			if len(heatmap) != DefaultWindowDays {
				t.Fatalf("heatmap has %d entries, want %d", len(heatmap), DefaultWindowDays)
			}
			for i := 1; i < len(heatmap); i++ {
				if !heatmap[i].Date.Equal(heatmap[i-1].Date.AddDate(0, 0, 1)) {
					t.Fatalf("gap or duplicate between %v and %v", heatmap[i-1].Date, heatmap[i].Date)
				}
			}
			last := heatmap[len(heatmap)-1].Date
			if want := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC); !last.Equal(want) {
				t.Errorf("last day = %v, want %v", last, want)
			}
		})
	}
}

func TestAnalyzeIntensity(t *testing.T) {
	tests := []struct {
		name      string
		gameCount int
		want      float64
	}{
		{name: "zero sessions", gameCount: 0, want: 0},
		// 1 session: 1*0.2 + 15/60*0.1 = 0.225
		{name: "one session", gameCount: 1, want: 0.225},
		// 2 sessions: 2*0.2 + 30/60*0.1 = 0.45
		{name: "two sessions", gameCount: 2, want: 0.45},
		// 5 sessions would score 1.125, clamped
		{name: "clamped at one", gameCount: 5, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var sessions []models.GameSession
			for i := 0; i < tt.gameCount; i++ {
				sessions = append(sessions, sessionOn(0, models.GameTypeGesture))
			}

			heatmap, _ := Analyze(sessions, DefaultWindowDays, analyzeNow)
			today := heatmap[len(heatmap)-1]

			if math.Abs(today.Intensity-tt.want) > 1e-9 {
				t.Errorf("intensity = %v, want %v", today.Intensity, tt.want)
			}
			if today.Intensity < 0 || today.Intensity > 1 {
				t.Errorf("intensity %v out of [0,1]", today.Intensity)
			}
		})
	}
}

func TestAnalyzeStreak(t *testing.T) {
	tests := []struct {
		name       string
		activeDays []int // days ago with at least one session
		want       int
	}{
		{name: "no activity", activeDays: nil, want: 0},
		{name: "three days ending today", activeDays: []int{0, 1, 2}, want: 3},
		{name: "gap before today breaks streak", activeDays: []int{0, 1, 3, 4}, want: 2},
		{name: "today inactive yields zero", activeDays: []int{1, 2, 3}, want: 0},
		{name: "single session today", activeDays: []int{0}, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var sessions []models.GameSession
			for _, daysAgo := range tt.activeDays {
				sessions = append(sessions, sessionOn(daysAgo, models.GameTypeMirror))
			}

			_, stats := Analyze(sessions, DefaultWindowDays, analyzeNow)
			if stats.CurrentStreak != tt.want {
				t.Errorf("CurrentStreak = %d, want %d", stats.CurrentStreak, tt.want)
			}
		})
	}
}

// Five active days in the window, three of them consecutive ending today
func TestAnalyzeScenarioFiveActiveDays(t *testing.T) {
	sessions := []models.GameSession{
		sessionOn(0, models.GameTypeGesture),
		sessionOn(1, models.GameTypeDance),
		sessionOn(2, models.GameTypeGaze),
		sessionOn(10, models.GameTypeMirror),
		sessionOn(40, models.GameTypeRepeat),
	}

	_, stats := Analyze(sessions, DefaultWindowDays, analyzeNow)

	if stats.TotalDaysPracticed != 5 {
		t.Errorf("TotalDaysPracticed = %d, want 5", stats.TotalDaysPracticed)
	}
	if stats.CurrentStreak != 3 {
		t.Errorf("CurrentStreak = %d, want 3", stats.CurrentStreak)
	}
	if stats.TotalTimeMinutes != 75 {
		t.Errorf("TotalTimeMinutes = %d, want 75", stats.TotalTimeMinutes)
	}
	if stats.AverageSessionTimePerActiveDay != 15 {
		t.Errorf("AverageSessionTimePerActiveDay = %v, want 15", stats.AverageSessionTimePerActiveDay)
	}
}

func TestAnalyzeNoActiveDaysAvoidsDivisionByZero(t *testing.T) {
	_, stats := Analyze(nil, DefaultWindowDays, analyzeNow)

	if stats.AverageSessionTimePerActiveDay != 0 {
		t.Errorf("AverageSessionTimePerActiveDay = %v, want 0", stats.AverageSessionTimePerActiveDay)
	}
	if stats.TotalTimeMinutes != 0 || stats.TotalDaysPracticed != 0 {
		t.Errorf("unexpected stats for empty input: %+v", stats)
	}
}

func TestAnalyzeGamesPerDay(t *testing.T) {
	sessions := []models.GameSession{
		sessionOn(0, models.GameTypeDance),
		sessionOn(0, models.GameTypeDance),
		sessionOn(0, models.GameTypeGaze),
	}

	heatmap, _ := Analyze(sessions, DefaultWindowDays, analyzeNow)
	today := heatmap[len(heatmap)-1]

	if today.GameCount != 3 {
		t.Errorf("GameCount = %d, want 3", today.GameCount)
	}
	want := []string{"Dance Along", "Gaze Quest"}
	if !reflect.DeepEqual(today.Games, want) {
		t.Errorf("Games = %v, want %v", today.Games, want)
	}
}

func TestAnalyzeIsDeterministic(t *testing.T) {
	sessions := []models.GameSession{
		sessionOn(0, models.GameTypeGesture),
		sessionOn(2, models.GameTypeGaze),
		sessionOn(7, models.GameTypeDance),
	}

	heatmap1, stats1 := Analyze(sessions, DefaultWindowDays, analyzeNow)
	heatmap2, stats2 := Analyze(sessions, DefaultWindowDays, analyzeNow)

	if !reflect.DeepEqual(heatmap1, heatmap2) {
		t.Error("heatmap differs between identical calls")
	}
	if stats1 != stats2 {
		t.Errorf("stats differ between identical calls: %+v vs %+v", stats1, stats2)
	}
}
