package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/fortuna/danglers/internal/message"
	"github.com/fortuna/danglers/internal/metrics"
	"github.com/fortuna/danglers/internal/notify"
	"github.com/fortuna/danglers/internal/schedule"
	"github.com/rs/zerolog"
)

var errAlreadyClaimed = errors.New("reminder already claimed")

// Config holds scheduler configuration
type Config struct {
	Hour     int // Default: 12 (noon)
	Minute   int // Default: 0
	LeadDays int // Default: 3
}

// DefaultConfig returns default scheduler configuration
func DefaultConfig() *Config {
	return &Config{
		Hour:     12,
		Minute:   0,
		LeadDays: 3,
	}
}

// Validate checks the fire time and lead time
func (c *Config) Validate() error {
	if c.Hour < 0 || c.Hour > 23 {
		return fmt.Errorf("reminder hour %d out of range 0-23", c.Hour)
	}
	if c.Minute < 0 || c.Minute > 59 {
		return fmt.Errorf("reminder minute %d out of range 0-59", c.Minute)
	}
	if c.LeadDays < 0 {
		return fmt.Errorf("reminder lead days %d must not be negative", c.LeadDays)
	}
	return nil
}

// Claimer marks a reminder as sent so concurrent instances deliver it once
type Claimer interface {
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

// claimTTL outlives a single firing day
const claimTTL = 36 * time.Hour

// Scheduler fires game reminders once a day at a fixed wall-clock time
type Scheduler struct {
	store  *schedule.Store
	sink   notify.Sink
	config *Config
	logger zerolog.Logger

	claims  Claimer
	metrics *metrics.Metrics

	now   func() time.Time
	after func(time.Duration) <-chan time.Time

	mu       sync.Mutex
	lastFire time.Time
	nextFire time.Time
	lastSent int
}

// New creates a reminder scheduler
func New(store *schedule.Store, sink notify.Sink, config *Config, logger zerolog.Logger) (*Scheduler, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &Scheduler{
		store:  store,
		sink:   sink,
		config: config,
		logger: logger.With().Str("component", "scheduler").Logger(),
		now:    store.Now,
		after:  time.After,
	}, nil
}

// WithClaims enables cross-instance deduplication of reminders
func (s *Scheduler) WithClaims(c Claimer) *Scheduler {
	s.claims = c
	return s
}

// WithMetrics records reminder outcomes in m
func (s *Scheduler) WithMetrics(m *metrics.Metrics) *Scheduler {
	s.metrics = m
	return s
}

// NextFireTime is today's hour:minute in now's location, or the same time tomorrow
// when that moment is not strictly after now
func NextFireTime(now time.Time, hour, minute int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if !next.After(now) {
		next = time.Date(now.Year(), now.Month(), now.Day()+1, hour, minute, 0, 0, now.Location())
	}
	return next
}

// Start runs the daily loop until ctx is cancelled. The wait is recomputed from the
// clock on every iteration, so downtime never causes catch-up firings.
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info().
		Int("hour", s.config.Hour).
		Int("minute", s.config.Minute).
		Int("lead_days", s.config.LeadDays).
		Msg("reminder scheduler started")

	for {
		now := s.now()
		next := NextFireTime(now, s.config.Hour, s.config.Minute)
		wait := next.Sub(now)

		s.mu.Lock()
		s.nextFire = next
		s.mu.Unlock()

		s.logger.Info().
			Time("next_fire", next).
			Dur("wait", wait.Round(time.Second)).
			Msg("waiting for next reminder check")

		select {
		case <-ctx.Done():
			s.logger.Info().Msg("reminder scheduler stopped")
			return
		case <-s.after(wait):
			sent := s.Fire(ctx)
			s.logger.Info().Int("sent", sent).Msg("reminder check complete")
		}
	}
}

// Fire reloads the schedule and sends one reminder per game exactly LeadDays out.
// It returns how many reminders were delivered. Failures are logged and skipped.
func (s *Scheduler) Fire(ctx context.Context) int {
	today := s.now()

	s.mu.Lock()
	s.lastFire = today
	s.mu.Unlock()

	games, err := s.store.LoadGames(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("could not load schedule for reminders")
		return 0
	}

	sent := 0
	for _, game := range schedule.DueIn(games, today, s.config.LeadDays) {
		if err := s.remind(ctx, game); err != nil {
			if errors.Is(err, errAlreadyClaimed) {
				s.metrics.Reminder(metrics.ResultSkipped)
				s.logger.Debug().Str("opponent", game.Opponent).Msg("reminder already sent by another instance")
				continue
			}
			s.logger.Error().
				Err(err).
				Str("opponent", game.Opponent).
				Time("occurs_at", game.OccursAt).
				Msg("failed to send reminder")
			s.metrics.Reminder(metrics.ResultFailed)
			continue
		}
		sent++
		s.metrics.Reminder(metrics.ResultOK)
		s.logger.Info().
			Str("opponent", game.Opponent).
			Time("occurs_at", game.OccursAt).
			Msg("reminder sent")
	}

	s.mu.Lock()
	s.lastSent = sent
	s.mu.Unlock()

	return sent
}

// remind delivers one reminder, converting a panicking sink into an error
func (s *Scheduler) remind(ctx context.Context, game schedule.Game) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("sink panicked: %v", r)
		}
	}()

	subject := fmt.Sprintf("%s %s", game.OccursAt.Format("2006-01-02T15:04"), game.Opponent)
	if s.claims != nil {
		first, err := s.claims.Claim(ctx, "reminder:"+subject, claimTTL)
		if err != nil {
			s.logger.Warn().Err(err).Str("subject", subject).Msg("reminder claim failed, sending anyway")
		} else if !first {
			return errAlreadyClaimed
		}
	}
	return s.sink.Send(ctx, notify.New(notify.KindReminder, subject, message.Invite(game)))
}

// Status is a snapshot of the scheduler state
type Status struct {
	Hour     int       `json:"hour"`
	Minute   int       `json:"minute"`
	LeadDays int       `json:"lead_days"`
	NextFire time.Time `json:"next_fire,omitempty"`
	LastFire time.Time `json:"last_fire,omitempty"`
	LastSent int       `json:"last_sent"`
}

// Status returns current scheduler status
func (s *Scheduler) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.nextFire
	if next.IsZero() {
		next = NextFireTime(s.now(), s.config.Hour, s.config.Minute)
	}

	return Status{
		Hour:     s.config.Hour,
		Minute:   s.config.Minute,
		LeadDays: s.config.LeadDays,
		NextFire: next,
		LastFire: s.lastFire,
		LastSent: s.lastSent,
	}
}
