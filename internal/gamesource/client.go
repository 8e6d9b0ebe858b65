// Package gamesource talks to the five upstream game services. Each Client
// fetches raw play sessions for a child from one service and normalizes that
// service's native record shape into the common session envelope.
package gamesource

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"theraplay/internal/models"
)

// The services were built by different teams and disagree on field names.
// Candidate keys are tried in order; the first present wins.
var (
	idFieldCandidates   = []string{"sessionId", "session_id", "id"}
	timeFieldCandidates = []string{"dateTime", "date_time", "timestamp", "playedAt", "played_at", "createdAt", "created_at"}
)

// Client is the session source adapter for one upstream game service
type Client struct {
	gameType models.GameType
	baseURL  string
	http     *http.Client
	breaker  *gobreaker.CircuitBreaker[[]models.GameSession]
}

// New creates an adapter for the given game service. The timeout bounds every
// fetch independently of the caller's context.
func New(gameType models.GameType, baseURL string, timeout time.Duration) *Client {
	settings := gobreaker.Settings{
		Name:    string(gameType) + "-source",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Printf("Source %s circuit breaker %s -> %s", name, from, to)
		},
	}

	return &Client{
		gameType: gameType,
		baseURL:  baseURL,
		http:     &http.Client{Timeout: timeout},
		breaker:  gobreaker.NewCircuitBreaker[[]models.GameSession](settings),
	}
}

// GameType returns the game service this adapter fronts
func (c *Client) GameType() models.GameType {
	return c.gameType
}

// FetchSessions lists the child's sessions from this service. Records the
// service returns in its native shape are normalized into the common
// envelope; the full raw record is carried through as the opaque payload.
func (c *Client) FetchSessions(ctx context.Context, childID string) ([]models.GameSession, error) {
	return c.breaker.Execute(func() ([]models.GameSession, error) {
		return c.fetch(ctx, childID)
	})
}

func (c *Client) fetch(ctx context.Context, childID string) ([]models.GameSession, error) {
	endpoint := fmt.Sprintf("%s/children/%s/sessions", c.baseURL, url.PathEscape(childID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s source: %w", c.gameType, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch sessions from %s source: %w", c.gameType, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%s source returned status %d", c.gameType, resp.StatusCode)
	}

	var records []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode %s source response: %w", c.gameType, err)
	}

	sessions := make([]models.GameSession, 0, len(records))
	for _, record := range records {
		session, err := c.normalize(record, childID)
		if err != nil {
			// One malformed record should not sink the rest of the source
			log.Printf("Skipping malformed %s session record: %v", c.gameType, err)
			continue
		}
		sessions = append(sessions, session)
	}

	return sessions, nil
}

// normalize maps one native record onto the session envelope
func (c *Client) normalize(record json.RawMessage, childID string) (models.GameSession, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(record, &fields); err != nil {
		return models.GameSession{}, fmt.Errorf("not an object: %w", err)
	}

	sessionID, ok := firstString(fields, idFieldCandidates)
	if !ok {
		return models.GameSession{}, fmt.Errorf("no session id field")
	}

	raw, ok := firstString(fields, timeFieldCandidates)
	if !ok {
		return models.GameSession{}, fmt.Errorf("no timestamp field")
	}
	dateTime, err := parseTimestamp(raw)
	if err != nil {
		return models.GameSession{}, err
	}

	return models.GameSession{
		SessionID: sessionID,
		ChildID:   childID,
		GameType:  c.gameType,
		DateTime:  dateTime,
		Payload:   record,
	}, nil
}

// firstString returns the first candidate key present with a usable value.
// Numeric ids (some services use integer keys) are rendered as strings.
func firstString(fields map[string]json.RawMessage, candidates []string) (string, bool) {
	for _, key := range candidates {
		raw, ok := fields[key]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil && s != "" {
			return s, true
		}
		var n json.Number
		if err := json.Unmarshal(raw, &n); err == nil {
			return n.String(), true
		}
	}
	return "", false
}

// parseTimestamp accepts the ISO-8601 variants seen across the services
func parseTimestamp(raw string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable timestamp %q", raw)
}
