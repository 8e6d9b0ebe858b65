package models

import (
	"errors"
	"fmt"
	"time"
)

// ReportStatus is the lifecycle state of a performance report
type ReportStatus string

const (
	ReportStatusPending  ReportStatus = "PENDING"
	ReportStatusReviewed ReportStatus = "REVIEWED"
)

// Verdict is a clinician's categorical judgment closing a report's review
type Verdict string

const (
	VerdictScreeningNeeded Verdict = "SCREENING_NEEDED"
	VerdictNotNeeded       Verdict = "NOT_NEEDED"
	VerdictInconclusive    Verdict = "INCONCLUSIVE"
)

// ErrUnknownVerdict is returned when a verdict tag is not one of the defined values
var ErrUnknownVerdict = errors.New("unknown verdict")

// ParseVerdict validates a verdict tag from an API request
func ParseVerdict(s string) (Verdict, error) {
	switch v := Verdict(s); v {
	case VerdictScreeningNeeded, VerdictNotNeeded, VerdictInconclusive:
		return v, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownVerdict, s)
	}
}

// PerformanceReport is a durable artifact a parent sends to a clinician.
//
// SelectedGames and GameSessionsData are fixed at creation. The review fields
// change exactly once, when the owning doctor responds; there is no path back
// to PENDING.
type PerformanceReport struct {
	ID       string `json:"id"`
	ChildID  string `json:"childId"`
	ParentID string `json:"parentId"`
	DoctorID string `json:"doctorId"`

	SelectedGames    []GameType                 `json:"selectedGames"`
	GameSessionsData map[GameType][]GameSession `json:"gameSessionsData"`

	Status         ReportStatus `json:"status"`
	DoctorResponse *string      `json:"doctorResponse,omitempty"`
	Verdict        *Verdict     `json:"verdict,omitempty"`
	ReviewedAt     *time.Time   `json:"reviewedAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

// IsReviewed reports whether the report has already been adjudicated
func (r *PerformanceReport) IsReviewed() bool {
	return r.Status == ReportStatusReviewed
}
