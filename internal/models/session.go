package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

// GameType identifies which therapeutic game service a session came from
type GameType string

const (
	GameTypeGesture GameType = "gesture"
	GameTypeGaze    GameType = "gaze"
	GameTypeDance   GameType = "dance"
	GameTypeMirror  GameType = "mirror"
	GameTypeRepeat  GameType = "repeat"
)

// AllGameTypes lists every upstream game service, in deployment order
var AllGameTypes = []GameType{
	GameTypeGesture,
	GameTypeGaze,
	GameTypeDance,
	GameTypeMirror,
	GameTypeRepeat,
}

var gameDisplayNames = map[GameType]string{
	GameTypeGesture: "Gesture Match",
	GameTypeGaze:    "Gaze Quest",
	GameTypeDance:   "Dance Along",
	GameTypeMirror:  "Mirror Posture",
	GameTypeRepeat:  "Speech Repeat",
}

// ErrUnknownGameType is returned when a game type tag is not one of the five services
var ErrUnknownGameType = errors.New("unknown game type")

// ParseGameType validates a game type tag from an API request
func ParseGameType(s string) (GameType, error) {
	gt := GameType(s)
	if !gt.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownGameType, s)
	}
	return gt, nil
}

// IsValid reports whether the game type is one of the five known services
func (g GameType) IsValid() bool {
	_, ok := gameDisplayNames[g]
	return ok
}

// DisplayName returns the human-readable game name shown to parents and clinicians
func (g GameType) DisplayName() string {
	if name, ok := gameDisplayNames[g]; ok {
		return name
	}
	return string(g)
}

// GameSession is one play of one game by one child.
//
// The envelope fields are common across all five game services. Payload holds
// the service's game-specific fields (gesture counts, round scores, ...)
// exactly as the source returned them; this engine never interprets it.
// GameType is stamped by the aggregator at merge time and is the only type
// field downstream consumers should trust.
type GameSession struct {
	SessionID string          `json:"sessionId"`
	ChildID   string          `json:"childId"`
	GameType  GameType        `json:"gameType"`
	DateTime  time.Time       `json:"dateTime"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// Day returns the session's UTC calendar day, the bucket used by the analyzer
func (s GameSession) Day() time.Time {
	t := s.DateTime.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
