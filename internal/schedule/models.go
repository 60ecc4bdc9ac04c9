package schedule

import (
	"strings"
	"time"
)

// Record is one raw schedule entry as published in the schedule file
type Record struct {
	Date         string `json:"date"`
	Time         string `json:"time"`
	Opponent     string `json:"opponent"`
	OpponentLink string `json:"opponent_link"`
	HomeOrAway   string `json:"home_or_away"`
	Location     string `json:"location"`
	GameLink     string `json:"game_link"`
}

// Game is a normalized schedule entry with a resolved start time
type Game struct {
	Index        int       `json:"index"`
	Date         string    `json:"date"`
	Time         string    `json:"time"`
	OccursAt     time.Time `json:"occurs_at"`
	Opponent     string    `json:"opponent"`
	OpponentLink string    `json:"opponent_link,omitempty"`
	Venue        string    `json:"venue"`
	ResultLink   string    `json:"result_link,omitempty"`
	HomeOrAway   string    `json:"home_or_away"`
	IsHome       bool      `json:"is_home"`
}

func newGame(index int, rec Record, occursAt time.Time) Game {
	return Game{
		Index:        index,
		Date:         rec.Date,
		Time:         rec.Time,
		OccursAt:     occursAt,
		Opponent:     strings.TrimSpace(rec.Opponent),
		OpponentLink: strings.TrimSpace(rec.OpponentLink),
		Venue:        strings.TrimSpace(rec.Location),
		ResultLink:   strings.TrimSpace(rec.GameLink),
		HomeOrAway:   strings.TrimSpace(rec.HomeOrAway),
		IsHome:       strings.EqualFold(strings.TrimSpace(rec.HomeOrAway), "home"),
	}
}
