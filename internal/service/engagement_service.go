package service

import (
	"context"
	"sort"
	"time"

	"theraplay/internal/models"
)

const (
	// DefaultWindowDays is the rolling heatmap window (12 weeks)
	DefaultWindowDays = 84

	// The game services record no real durations, so every session counts
	// as a fixed estimate. Charting downstream depends on this value.
	minutesPerSession = 15
)

// EngagementService derives heatmap and summary statistics from a child's
// merged session collection
type EngagementService struct {
	aggregator *AggregatorService
}

// NewEngagementService creates a new engagement service
func NewEngagementService(aggregator *AggregatorService) *EngagementService {
	return &EngagementService{aggregator: aggregator}
}

// GetEngagement fetches the child's sessions from every game service and
// analyzes them over the default window ending now
func (s *EngagementService) GetEngagement(ctx context.Context, childID string) ([]models.HeatmapDay, models.EngagementStats) {
	sessions := s.aggregator.FetchAllSessions(ctx, childID)
	return Analyze(sessions, DefaultWindowDays, time.Now())
}

// Analyze buckets sessions by UTC calendar day over the windowDays-day window
// ending at now's day, and derives per-day heatmap entries plus summary
// stats. Sessions before the window are excluded. Pure function: identical
// inputs produce identical outputs.
func Analyze(sessions []models.GameSession, windowDays int, now time.Time) ([]models.HeatmapDay, models.EngagementStats) {
	today := toDay(now)
	windowStart := today.AddDate(0, 0, -(windowDays - 1))

	byDay := make(map[time.Time][]models.GameSession)
	for _, session := range sessions {
		day := session.Day()
		if day.Before(windowStart) || day.After(today) {
			continue
		}
		byDay[day] = append(byDay[day], session)
	}

	heatmap := make([]models.HeatmapDay, 0, windowDays)
	var stats models.EngagementStats

	for i := 0; i < windowDays; i++ {
		day := windowStart.AddDate(0, 0, i)
		daySessions := byDay[day]

		gameCount := len(daySessions)
		totalMinutes := gameCount * minutesPerSession

		// Bounded heuristic engagement score; keep the formula as-is,
		// the heatmap UI depends on its range and shape
		intensity := float64(gameCount)*0.2 + float64(totalMinutes)/60.0*0.1
		if intensity > 1 {
			intensity = 1
		}

		heatmap = append(heatmap, models.HeatmapDay{
			Date:         day,
			GameCount:    gameCount,
			TotalMinutes: totalMinutes,
			Intensity:    intensity,
			Games:        distinctGameNames(daySessions),
		})

		if gameCount > 0 {
			stats.TotalDaysPracticed++
			stats.TotalTimeMinutes += totalMinutes
		}
	}

	// Streak: consecutive active days ending at the last day of the window
	for i := len(heatmap) - 1; i >= 0; i-- {
		if heatmap[i].GameCount == 0 {
			break
		}
		stats.CurrentStreak++
	}

	if stats.TotalDaysPracticed > 0 {
		stats.AverageSessionTimePerActiveDay = float64(stats.TotalTimeMinutes) / float64(stats.TotalDaysPracticed)
	}

	return heatmap, stats
}

// distinctGameNames lists the display names of the games played that day,
// sorted for deterministic output
func distinctGameNames(sessions []models.GameSession) []string {
	seen := make(map[string]bool)
	names := []string{}
	for _, session := range sessions {
		name := session.GameType.DisplayName()
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// toDay truncates a timestamp to its UTC calendar day
func toDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
