package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/fortuna/danglers/internal/boxscore"
	"github.com/fortuna/danglers/internal/message"
	"github.com/fortuna/danglers/internal/metrics"
	"github.com/fortuna/danglers/internal/narrative"
	"github.com/fortuna/danglers/internal/schedule"
)

// Recap is a rendered game recap with the data behind it
type Recap struct {
	Game      *schedule.Game        `json:"game,omitempty"`
	Summary   *boxscore.GameSummary `json:"summary,omitempty"`
	Narrative *narrative.Narrative  `json:"narrative,omitempty"`
	Text      string                `json:"text"`
	Fetched   bool                  `json:"fetched"`
}

// PreviousRecap fetches the result document of the most recent game and renders its recap.
// A fetch failure is not an error: the recap carries the fetch-failed reply instead.
func (s *GameService) PreviousRecap(ctx context.Context) (*Recap, error) {
	game, err := s.PreviousGame(ctx)
	if errors.Is(err, ErrNoGame) {
		return &Recap{Text: message.NoPrevious}, nil
	}
	if err != nil {
		return nil, err
	}

	url := boxscore.ResultURL(s.resultBase, game.ResultLink)
	if url == "" || s.fetcher == nil {
		s.logger.Warn().Str("opponent", game.Opponent).Msg("previous game has no result link")
		return &Recap{Game: &game, Text: message.FetchFailed}, nil
	}

	doc, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		s.logger.Error().Err(err).Str("url", url).Msg("failed to fetch result document")
		s.metrics.Fetch(metrics.ResultFailed)
		return &Recap{Game: &game, Text: message.FetchFailed}, nil
	}

	s.metrics.Fetch(metrics.ResultOK)
	recap := s.render(game, doc)
	recap.Fetched = true
	return recap, nil
}

// RecapDocument renders a recap from a document the caller already has
func (s *GameService) RecapDocument(doc, opponent string) (*Recap, error) {
	if doc == "" {
		return nil, fmt.Errorf("empty result document")
	}
	game := schedule.Game{Opponent: opponent}
	return s.render(game, doc), nil
}

func (s *GameService) render(game schedule.Game, doc string) *Recap {
	summary := s.parser.Parse(doc)

	opponent := game.Opponent
	if opponent == "" {
		opponent = summary.OpponentName
		game.Opponent = opponent
	}

	story := s.generator.Narrate(summary, opponent)
	return &Recap{
		Game:      &game,
		Summary:   summary,
		Narrative: &story,
		Text:      message.Recap(s.parser.Team(), game, summary, story),
	}
}
