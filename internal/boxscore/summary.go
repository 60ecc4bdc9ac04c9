package boxscore

import (
	"strings"
)

// PlayerLabel is a roster entry split into jersey number and display name
type PlayerLabel struct {
	Number string `json:"number"`
	Name   string `json:"name"`
}

// String renders the label as it appears in recaps
func (p PlayerLabel) String() string {
	return p.Name
}

// ParsePlayerLabel splits a raw "#N. First Last" token. A trailing captaincy marker "C" is dropped.
// Tokens with fewer than two whitespace-separated parts return ok=false.
func ParsePlayerLabel(raw string) (PlayerLabel, bool) {
	parts := strings.Fields(raw)
	if len(parts) < 2 {
		return PlayerLabel{}, false
	}

	number := strings.TrimSuffix(strings.TrimPrefix(parts[0], "#"), ".")
	nameParts := parts[1:]
	if len(nameParts) > 1 && nameParts[len(nameParts)-1] == "C" {
		nameParts = nameParts[:len(nameParts)-1]
	}

	return PlayerLabel{
		Number: number,
		Name:   strings.Join(nameParts, " "),
	}, true
}

// Goal is a scoring event for the tracked team
type Goal struct {
	Scorer  PlayerLabel  `json:"scorer"`
	Assist1 *PlayerLabel `json:"assist1,omitempty"`
	Assist2 *PlayerLabel `json:"assist2,omitempty"`
	Period  string       `json:"period"`
	Clock   string       `json:"clock"`
}

// Assists returns the present assists in order
func (g Goal) Assists() []PlayerLabel {
	var out []PlayerLabel
	if g.Assist1 != nil {
		out = append(out, *g.Assist1)
	}
	if g.Assist2 != nil {
		out = append(out, *g.Assist2)
	}
	return out
}

// GoalieLine is one goalie's stat line
type GoalieLine struct {
	Player       PlayerLabel `json:"player"`
	ShotsAgainst int         `json:"shots_against"`
	GoalsAgainst int         `json:"goals_against"`
	SavePct      string      `json:"save_pct"`
}

// Saves returns shots against minus goals against
func (g GoalieLine) Saves() int {
	return g.ShotsAgainst - g.GoalsAgainst
}

// ShotsOnGoal holds the tracked team's shot totals
type ShotsOnGoal struct {
	PeriodTotals []string `json:"period_totals"`
	Total        string   `json:"total"`
}

// GameSummary is everything extracted from one result document. Every field is optional.
type GameSummary struct {
	SelfFinal            *int         `json:"self_final,omitempty"`
	OpponentFinal        *int         `json:"opponent_final,omitempty"`
	OpponentName         string       `json:"opponent_name,omitempty"`
	SelfPeriodScores     []string     `json:"self_period_scores,omitempty"`
	OpponentPeriodScores []string     `json:"opponent_period_scores,omitempty"`
	Goals                []Goal       `json:"goals,omitempty"`
	GoalieLines          []GoalieLine `json:"goalie_lines,omitempty"`
	ShotsOnGoal          *ShotsOnGoal `json:"shots_on_goal,omitempty"`
}

// HasFinal reports whether both final scores were read
func (s *GameSummary) HasFinal() bool {
	return s != nil && s.SelfFinal != nil && s.OpponentFinal != nil
}
