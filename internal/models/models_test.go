package models

import (
	"testing"
	"time"
)

func TestParseGameType(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    GameType
		wantErr bool
	}{
		{
			name:  "gesture",
			input: "gesture",
			want:  GameTypeGesture,
		},
		{
			name:  "repeat",
			input: "repeat",
			want:  GameTypeRepeat,
		},
		{
			name:    "unknown tag",
			input:   "puzzle",
			wantErr: true,
		},
		{
			name:    "empty",
			input:   "",
			wantErr: true,
		},
		{
			name:    "case sensitive",
			input:   "Gesture",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseGameType(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseGameType(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseGameType(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestGameTypeDisplayName(t *testing.T) {
	for _, gt := range AllGameTypes {
		if gt.DisplayName() == string(gt) {
			t.Errorf("game type %q has no display name", gt)
		}
	}
}

func TestParseVerdict(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Verdict
		wantErr bool
	}{
		{
			name:  "screening needed",
			input: "SCREENING_NEEDED",
			want:  VerdictScreeningNeeded,
		},
		{
			name:  "not needed",
			input: "NOT_NEEDED",
			want:  VerdictNotNeeded,
		},
		{
			name:  "inconclusive",
			input: "INCONCLUSIVE",
			want:  VerdictInconclusive,
		},
		{
			name:    "lowercase rejected",
			input:   "inconclusive",
			wantErr: true,
		},
		{
			name:    "empty",
			input:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseVerdict(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseVerdict(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseVerdict(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestGameSessionDay(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)

	tests := []struct {
		name     string
		dateTime time.Time
		want     time.Time
	}{
		{
			name:     "midday utc",
			dateTime: time.Date(2026, 3, 14, 12, 30, 0, 0, time.UTC),
			want:     time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "local time crosses date line",
			dateTime: time.Date(2026, 3, 14, 2, 0, 0, 0, loc),
			want:     time.Date(2026, 3, 13, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := GameSession{SessionID: "s1", ChildID: "c1", DateTime: tt.dateTime}
			if got := s.Day(); !got.Equal(tt.want) {
				t.Errorf("Day() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestReportIsReviewed(t *testing.T) {
	report := PerformanceReport{Status: ReportStatusPending}
	if report.IsReviewed() {
		t.Error("pending report reported as reviewed")
	}

	report.Status = ReportStatusReviewed
	if !report.IsReviewed() {
		t.Error("reviewed report not reported as reviewed")
	}
}
