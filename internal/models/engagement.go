package models

import "time"

// HeatmapDay is one calendar day in the engagement heatmap window.
// Days without sessions still appear with GameCount = 0.
type HeatmapDay struct {
	Date         time.Time `json:"date"`
	GameCount    int       `json:"gameCount"`
	TotalMinutes int       `json:"totalMinutes"`
	Intensity    float64   `json:"intensity"`
	Games        []string  `json:"games"`
}

// EngagementStats summarizes practice activity over the heatmap window
type EngagementStats struct {
	TotalDaysPracticed             int     `json:"totalDaysPracticed"`
	CurrentStreak                  int     `json:"currentStreak"`
	TotalTimeMinutes               int     `json:"totalTimeMinutes"`
	AverageSessionTimePerActiveDay float64 `json:"averageSessionTimePerActiveDay"`
}
