package service

import (
	"context"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"theraplay/internal/metrics"
	"theraplay/internal/models"
)

// SessionSource is one upstream game service adapter
type SessionSource interface {
	GameType() models.GameType
	FetchSessions(ctx context.Context, childID string) ([]models.GameSession, error)
}

// AggregatorService fans out to every game service and merges their sessions
// into one attributable collection.
//
// Each source is independently fault-tolerant: a source that errors, times
// out or has an open circuit breaker contributes nothing, and the merged
// fetch itself never fails. Ordering across sources is not guaranteed;
// consumers that need an order sort for themselves.
type AggregatorService struct {
	sources []SessionSource
}

// NewAggregatorService creates an aggregator over the given session sources
func NewAggregatorService(sources ...SessionSource) *AggregatorService {
	return &AggregatorService{sources: sources}
}

// FetchAllSessions returns the best-effort union of every source's sessions
// for the child, each stamped with its source's game type.
func (s *AggregatorService) FetchAllSessions(ctx context.Context, childID string) []models.GameSession {
	perSource := s.fetch(ctx, childID, s.sources)

	var merged []models.GameSession
	for _, sessions := range perSource {
		merged = append(merged, sessions...)
	}
	return merged
}

// FetchSessionsByType fetches sessions from the sources matching the selected
// game types only, keyed by game type. Selected types with no healthy source
// map to an empty slice.
func (s *AggregatorService) FetchSessionsByType(ctx context.Context, childID string, gameTypes []models.GameType) map[models.GameType][]models.GameSession {
	selected := make(map[models.GameType]bool, len(gameTypes))
	for _, gt := range gameTypes {
		selected[gt] = true
	}

	var sources []SessionSource
	for _, source := range s.sources {
		if selected[source.GameType()] {
			sources = append(sources, source)
		}
	}

	perSource := s.fetch(ctx, childID, sources)

	result := make(map[models.GameType][]models.GameSession, len(gameTypes))
	for _, gt := range gameTypes {
		result[gt] = []models.GameSession{}
	}
	for i, source := range sources {
		result[source.GameType()] = perSource[i]
	}
	return result
}

// fetch runs one task per source and captures each task's outcome locally;
// no error crosses the join.
func (s *AggregatorService) fetch(ctx context.Context, childID string, sources []SessionSource) [][]models.GameSession {
	results := make([][]models.GameSession, len(sources))

	g, ctx := errgroup.WithContext(ctx)
	for i, source := range sources {
		g.Go(func() error {
			start := time.Now()
			sessions, err := source.FetchSessions(ctx, childID)
			metrics.SourceFetchDuration.WithLabelValues(string(source.GameType())).Observe(time.Since(start).Seconds())

			if err != nil {
				// A single source outage degrades to an empty contribution
				metrics.SourceFetches.WithLabelValues(string(source.GameType()), "error").Inc()
				log.Printf("Source %s unavailable for child %s: %v", source.GameType(), childID, err)
				return nil
			}
			metrics.SourceFetches.WithLabelValues(string(source.GameType()), "ok").Inc()

			// The adapter's game type is authoritative, whatever the raw payload says
			for j := range sessions {
				sessions[j].GameType = source.GameType()
			}
			results[i] = sessions
			return nil
		})
	}
	g.Wait()

	return results
}
