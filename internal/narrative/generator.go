package narrative

import (
	"math/rand"
	"time"

	"github.com/fortuna/danglers/internal/boxscore"
)

// PlayerPoints is a player's goal plus assist total for one game
type PlayerPoints struct {
	Player string `json:"player"`
	Number string `json:"number,omitempty"`
	Points int    `json:"points"`
}

// Narrative is the generated commentary for one game
type Narrative struct {
	Outcome   Outcome        `json:"outcome,omitempty"`
	HasResult bool           `json:"has_result"`
	Phrase    string         `json:"phrase,omitempty"`
	Points    []PlayerPoints `json:"points,omitempty"`
	MVPs      []PlayerPoints `json:"mvps,omitempty"`
	MVPPoints int            `json:"mvp_points,omitempty"`
}

// Generator builds narratives with an injectable source of randomness
type Generator struct {
	chooser Chooser
	team    string
}

// NewGenerator creates a generator. A nil chooser falls back to a time-seeded source.
func NewGenerator(chooser Chooser) *Generator {
	if chooser == nil {
		chooser = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Generator{chooser: chooser}
}

// WithTeam sets the name substituted for {team} in result phrases
func (g *Generator) WithTeam(team string) *Generator {
	g.team = team
	return g
}

// Narrate classifies the result, picks a phrase and computes point leaders
func (g *Generator) Narrate(summary *boxscore.GameSummary, opponent string) Narrative {
	var n Narrative
	if summary == nil {
		return n
	}

	if outcome, ok := Classify(summary); ok {
		n.Outcome = outcome
		n.HasResult = true
		n.Phrase = Phrase(outcome, *summary.SelfFinal, *summary.OpponentFinal, g.team, opponent, g.chooser)
	}

	n.Points = Points(summary.Goals)
	n.MVPs, n.MVPPoints = MVPs(n.Points)
	return n
}

// Classify compares the finals. ok is false when either final is missing.
func Classify(summary *boxscore.GameSummary) (Outcome, bool) {
	if !summary.HasFinal() {
		return "", false
	}
	self, opp := *summary.SelfFinal, *summary.OpponentFinal
	switch {
	case self > opp:
		return Win, true
	case self < opp:
		return Loss, true
	default:
		return Tie, true
	}
}

// Points credits one point per goal and per present assist, in first-appearance order.
// Players are told apart by number and name, so two skaters sharing a name stay separate.
func Points(goals []boxscore.Goal) []PlayerPoints {
	index := make(map[boxscore.PlayerLabel]int)
	var out []PlayerPoints

	credit := func(player boxscore.PlayerLabel) {
		if i, ok := index[player]; ok {
			out[i].Points++
			return
		}
		index[player] = len(out)
		out = append(out, PlayerPoints{Player: player.String(), Number: player.Number, Points: 1})
	}

	for _, goal := range goals {
		credit(goal.Scorer)
		for _, assist := range goal.Assists() {
			credit(assist)
		}
	}

	return out
}

// MVPs returns every player tied at the highest total. Nothing is returned unless that total exceeds 1.
func MVPs(points []PlayerPoints) ([]PlayerPoints, int) {
	top := 0
	for _, p := range points {
		if p.Points > top {
			top = p.Points
		}
	}
	if top <= 1 {
		return nil, 0
	}

	var leaders []PlayerPoints
	for _, p := range points {
		if p.Points == top {
			leaders = append(leaders, p)
		}
	}
	return leaders, top
}
