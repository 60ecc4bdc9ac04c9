package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fortuna/danglers/internal/boxscore"
	"github.com/fortuna/danglers/internal/message"
	"github.com/fortuna/danglers/internal/metrics"
	"github.com/fortuna/danglers/internal/narrative"
	"github.com/fortuna/danglers/internal/notify"
	"github.com/fortuna/danglers/internal/schedule"
	"github.com/rs/zerolog"
)

// ErrNoGame is returned when a query finds no matching game
var ErrNoGame = errors.New("no matching game")

// GameService answers schedule queries and builds recaps
type GameService struct {
	store      *schedule.Store
	fetcher    boxscore.Fetcher
	parser     *boxscore.Parser
	generator  *narrative.Generator
	sink       notify.Sink
	resultBase string
	metrics    *metrics.Metrics
	logger     zerolog.Logger
}

// Options bundles the collaborators of a GameService
type Options struct {
	Store         *schedule.Store
	Fetcher       boxscore.Fetcher
	Parser        *boxscore.Parser
	Generator     *narrative.Generator
	Sink          notify.Sink
	ResultBaseURL string
	Metrics       *metrics.Metrics
}

// NewGameService creates a new game service
func NewGameService(opts Options, logger zerolog.Logger) *GameService {
	generator := opts.Generator
	if generator == nil {
		generator = narrative.NewGenerator(nil)
		if opts.Parser != nil {
			generator.WithTeam(opts.Parser.Team())
		}
	}
	return &GameService{
		store:      opts.Store,
		fetcher:    opts.Fetcher,
		parser:     opts.Parser,
		generator:  generator,
		sink:       opts.Sink,
		resultBase: opts.ResultBaseURL,
		metrics:    opts.Metrics,
		logger:     logger.With().Str("component", "games").Logger(),
	}
}

// Team returns the tracked team name
func (s *GameService) Team() string {
	return s.parser.Team()
}

// ListGames returns every valid game in schedule order
func (s *GameService) ListGames(ctx context.Context) ([]schedule.Game, error) {
	games, err := s.store.LoadGames(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing games: %w", err)
	}
	return games, nil
}

// NextGame returns the earliest game after now
func (s *GameService) NextGame(ctx context.Context) (schedule.Game, error) {
	games, err := s.store.LoadGames(ctx)
	if err != nil {
		return schedule.Game{}, fmt.Errorf("fetching next game: %w", err)
	}
	game, ok := schedule.NextUpcoming(games, s.store.Now())
	if !ok {
		return schedule.Game{}, ErrNoGame
	}
	return game, nil
}

// PreviousGame returns the latest game before now
func (s *GameService) PreviousGame(ctx context.Context) (schedule.Game, error) {
	games, err := s.store.LoadGames(ctx)
	if err != nil {
		return schedule.Game{}, fmt.Errorf("fetching previous game: %w", err)
	}
	game, ok := schedule.MostRecentPast(games, s.store.Now())
	if !ok {
		return schedule.Game{}, ErrNoGame
	}
	return game, nil
}

// ListText renders every game as an invite, or the empty-schedule reply
func (s *GameService) ListText(ctx context.Context) ([]string, error) {
	games, err := s.ListGames(ctx)
	if err != nil {
		return nil, err
	}
	if len(games) == 0 {
		return []string{message.NoGames}, nil
	}
	texts := make([]string, len(games))
	for i, g := range games {
		texts[i] = message.Invite(g)
	}
	return texts, nil
}

// NextText renders the next game, or the no-upcoming reply
func (s *GameService) NextText(ctx context.Context) (string, error) {
	game, err := s.NextGame(ctx)
	if errors.Is(err, ErrNoGame) {
		return message.NoUpcoming, nil
	}
	if err != nil {
		return "", err
	}
	return message.Invite(game), nil
}

// Announce posts text to the team channel sinks
func (s *GameService) Announce(ctx context.Context, kind notify.Kind, subject, text string) (notify.Notification, error) {
	n := notify.New(kind, subject, text)
	if s.sink == nil {
		return n, fmt.Errorf("no notification sink configured")
	}
	if err := s.sink.Send(ctx, n); err != nil {
		return n, fmt.Errorf("announcing %s: %w", kind, err)
	}
	return n, nil
}

// JoinTexts joins rendered messages the way they appear in the channel
func JoinTexts(texts []string) string {
	return strings.Join(texts, "\n\n")
}
