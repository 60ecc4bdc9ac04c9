package narrative

import (
	"strconv"
	"strings"
)

// Outcome is the result category of a game from the tracked team's side
type Outcome string

const (
	Win  Outcome = "win"
	Loss Outcome = "loss"
	Tie  Outcome = "tie"
)

// Chooser picks an index in [0, n). *rand.Rand satisfies it.
type Chooser interface {
	Intn(n int) int
}

// Templates use {self}, {opp}, {team} and {opponent}. Each one decides its own score order.
var winPhrases = []string{
	"{team} dusted {opponent} {self}-{opp}!",
	"W! We took down {opponent} {self} to {opp}.",
	"{opponent} never stood a chance. Final: {self}-{opp} for the good guys.",
	"Two points in the bank. We beat {opponent} {self}-{opp}.",
	"{opponent} went home with {opp}, we put up {self}. Victory!",
	"Sticks up! A {self}-{opp} win over {opponent}.",
	"Another one for the wall: {self}-{opp} over {opponent}.",
	"{opponent} got dangled. {self}-{opp}, {team} win!",
	"Handshake line was sweet tonight. We won {self}-{opp} against {opponent}.",
}

var lossPhrases = []string{
	"{opponent} got us this time, {opp}-{self}.",
	"Tough one. We fell to {opponent} {self}-{opp}.",
	"{opponent} edged us out {opp} to {self}. We'll get 'em next time.",
	"Not our night. Final: {opponent} {opp}, {team} {self}.",
	"We dropped one to {opponent}, {self}-{opp}. Shake it off.",
	"{opponent} {opp}, us {self}. Back to the drawing board.",
	"The bounces didn't go our way: {opp}-{self} loss to {opponent}.",
	"L vs {opponent} ({self}-{opp}). Beers taste the same though.",
	"{opponent} took it {opp}-{self}. Revenge is on the schedule.",
}

const tiePhrase = "All square with {opponent}: {self}-{opp}. Nobody goes home happy."

// Pool returns the templates for an outcome
func Pool(outcome Outcome) []string {
	switch outcome {
	case Win:
		return winPhrases
	case Loss:
		return lossPhrases
	case Tie:
		return []string{tiePhrase}
	}
	return nil
}

// Phrase renders a result line. Win and loss pick a template through chooser; tie has one fixed line.
func Phrase(outcome Outcome, self, opp int, team, opponent string, chooser Chooser) string {
	pool := Pool(outcome)
	if len(pool) == 0 {
		return ""
	}

	template := pool[0]
	if outcome != Tie && len(pool) > 1 && chooser != nil {
		template = pool[chooser.Intn(len(pool))]
	}

	return Render(template, self, opp, team, opponent)
}

// Render substitutes the placeholders of a template. An empty team renders as "We".
func Render(template string, self, opp int, team, opponent string) string {
	if team == "" {
		team = "We"
	}
	return strings.NewReplacer(
		"{self}", strconv.Itoa(self),
		"{opp}", strconv.Itoa(opp),
		"{team}", team,
		"{opponent}", opponent,
	).Replace(template)
}
