package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Store turns raw schedule records into ordered games.
// It holds no cached state: every call reloads from the source.
type Store struct {
	source Source
	logger zerolog.Logger
	now    func() time.Time
}

// NewStore creates a schedule store reading from source
func NewStore(source Source, logger zerolog.Logger) *Store {
	return &Store{
		source: source,
		logger: logger.With().Str("component", "schedule").Logger(),
		now:    time.Now,
	}
}

// WithClock replaces the store clock. Used by tests and by callers pinning "now".
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

// Now returns the current time according to the store clock
func (s *Store) Now() time.Time {
	return s.now()
}

// LoadGames reads the schedule and returns every game whose date and time parse.
// Malformed records are logged and skipped.
func (s *Store) LoadGames(ctx context.Context) ([]Game, error) {
	records, err := s.source.Records(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading schedule: %w", err)
	}

	now := s.now()
	games := make([]Game, 0, len(records))
	for i, rec := range records {
		occursAt, err := ParseOccursAt(rec.Date, rec.Time, now)
		if err != nil {
			s.logger.Warn().
				Int("index", i).
				Str("date", rec.Date).
				Str("time", rec.Time).
				Str("opponent", rec.Opponent).
				Err(err).
				Msg("skipping malformed schedule record")
			continue
		}
		games = append(games, newGame(i, rec, occursAt))
	}

	return games, nil
}

// NextUpcoming returns the earliest game strictly after now.
// Equal start times resolve to the earlier record.
func NextUpcoming(games []Game, now time.Time) (Game, bool) {
	var best Game
	found := false
	for _, g := range games {
		if !g.OccursAt.After(now) {
			continue
		}
		if !found || g.OccursAt.Before(best.OccursAt) {
			best = g
			found = true
		}
	}
	return best, found
}

// MostRecentPast returns the latest game strictly before now.
// Equal start times resolve to the earlier record.
func MostRecentPast(games []Game, now time.Time) (Game, bool) {
	var best Game
	found := false
	for _, g := range games {
		if !g.OccursAt.Before(now) {
			continue
		}
		if !found || g.OccursAt.After(best.OccursAt) {
			best = g
			found = true
		}
	}
	return best, found
}

// DueIn returns the games whose calendar date is exactly leadDays after today, in schedule order
func DueIn(games []Game, today time.Time, leadDays int) []Game {
	var due []Game
	for _, g := range games {
		if DaysBetween(today, g.OccursAt) == leadDays {
			due = append(due, g)
		}
	}
	return due
}

// DaysBetween counts calendar days from one date to another, ignoring the time of day.
// Both values are read in their own location, so daylight-saving shifts do not skew the count.
func DaysBetween(from, to time.Time) int {
	a := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}
