package message

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/fortuna/danglers/internal/boxscore"
	"github.com/fortuna/danglers/internal/narrative"
	"github.com/fortuna/danglers/internal/schedule"
)

// Fixed replies for queries that find nothing
const (
	FetchFailed = "Sorry, I couldn't fetch the box score for that game."
	NoUpcoming  = "No upcoming events found."
	NoPrevious  = "No previous games found."
	NoGames     = "No events found."
)

// Emoji shown on invites
const (
	HomeEmoji = ":dusty_danglers_night:"
	AwayEmoji = ":dusty_danglers_day:"
)

// Invite formats a schedule entry for reminders and next-game replies
func Invite(game schedule.Game) string {
	emoji := AwayEmoji
	if game.IsHome {
		emoji = HomeEmoji
	}
	return fmt.Sprintf("%s **%s vs %s**\n🕒 %s at %s\n📍 Location: %s",
		emoji, game.HomeOrAway, game.Opponent, game.Date, game.Time, game.Venue)
}

// Recap assembles the post-game message. Sections without data are left out.
func Recap(team string, game schedule.Game, summary *boxscore.GameSummary, story narrative.Narrative) string {
	if summary == nil {
		summary = &boxscore.GameSummary{}
	}

	var lines []string
	lines = append(lines, header(game, summary))

	if story.HasResult && story.Phrase != "" {
		lines = append(lines, story.Phrase)
	}

	if sog := summary.ShotsOnGoal; sog != nil {
		lines = append(lines, shotsLine(sog))
	}

	lines = append(lines, goalLines(team, summary.Goals)...)

	if len(story.MVPs) > 0 {
		lines = append(lines, mvpLine(story))
	}

	for _, g := range summary.GoalieLines {
		lines = append(lines, goalieLine(g))
	}

	return strings.Join(lines, "\n")
}

func header(game schedule.Game, summary *boxscore.GameSummary) string {
	opponent := game.Opponent
	if opponent == "" {
		opponent = summary.OpponentName
	}
	if game.Date == "" {
		return fmt.Sprintf("🏒 **Recap vs %s**", opponent)
	}
	return fmt.Sprintf("🏒 **Recap vs %s** (%s)", opponent, game.Date)
}

func shotsLine(sog *boxscore.ShotsOnGoal) string {
	if len(sog.PeriodTotals) == 0 {
		return fmt.Sprintf("🎯 Shots on goal: %s", sog.Total)
	}
	return fmt.Sprintf("🎯 Shots on goal: %s (Total: %s)", strings.Join(sog.PeriodTotals, " / "), sog.Total)
}

func goalLines(team string, goals []boxscore.Goal) []string {
	if len(goals) == 0 {
		who := team
		if who == "" {
			who = "us"
		}
		return []string{fmt.Sprintf("🚨 No goals for %s this game.", who)}
	}

	groups := make(map[string][]boxscore.Goal)
	var periods []string
	for _, g := range goals {
		if _, ok := groups[g.Period]; !ok {
			periods = append(periods, g.Period)
		}
		groups[g.Period] = append(groups[g.Period], g)
	}
	sort.SliceStable(periods, func(i, j int) bool {
		return periodRank(periods[i]) < periodRank(periods[j])
	})

	var lines []string
	for _, period := range periods {
		lines = append(lines, fmt.Sprintf("**%s**", PeriodName(period)))
		for _, g := range groups[period] {
			lines = append(lines, goalLine(g))
		}
	}
	return lines
}

func goalLine(g boxscore.Goal) string {
	assists := g.Assists()
	if len(assists) == 0 {
		return fmt.Sprintf("%s - %s (Unassisted)", g.Clock, g.Scorer.Name)
	}
	names := make([]string, len(assists))
	for i, a := range assists {
		names[i] = a.Name
	}
	return fmt.Sprintf("%s - %s (%s)", g.Clock, g.Scorer.Name, strings.Join(names, ", "))
}

func mvpLine(story narrative.Narrative) string {
	names := make([]string, len(story.MVPs))
	for i, p := range story.MVPs {
		names[i] = p.Player
	}
	label := "MVP"
	if len(names) > 1 {
		label = "MVPs"
	}
	return fmt.Sprintf("⭐ %s: %s (%d points)", label, strings.Join(names, ", "), story.MVPPoints)
}

func goalieLine(g boxscore.GoalieLine) string {
	line := fmt.Sprintf("🥅 %s: %d saves on %d shots", g.Player.Name, g.Saves(), g.ShotsAgainst)
	if g.SavePct != "" {
		line += fmt.Sprintf(" (%s)", g.SavePct)
	}
	if g.GoalsAgainst == 0 {
		line += " 🧱 Shutout!"
	}
	return line
}

// PeriodName turns a period cell into a heading
func PeriodName(period string) string {
	p := strings.ToUpper(strings.TrimSpace(period))
	switch p {
	case "OT":
		return "Overtime"
	case "SO":
		return "Shootout"
	}
	if strings.HasSuffix(p, "OT") {
		if n, err := strconv.Atoi(strings.TrimSuffix(p, "OT")); err == nil {
			return ordinal(n) + " Overtime"
		}
	}
	n, err := strconv.Atoi(leadingDigits(p))
	if err != nil {
		return period
	}
	return ordinal(n) + " Period"
}

// periodRank orders numbered periods first, then overtime, then shootout and anything else
func periodRank(period string) int {
	p := strings.ToUpper(strings.TrimSpace(period))
	switch {
	case p == "OT":
		return 1000
	case strings.HasSuffix(p, "OT"):
		if n, err := strconv.Atoi(strings.TrimSuffix(p, "OT")); err == nil {
			return 1000 + n
		}
		return 1000
	case p == "SO":
		return 2000
	}
	if n, err := strconv.Atoi(leadingDigits(p)); err == nil {
		return n
	}
	return 3000
}

func leadingDigits(s string) string {
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	return s[:end]
}

func ordinal(n int) string {
	suffix := "th"
	switch n % 100 {
	case 11, 12, 13:
	default:
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return strconv.Itoa(n) + suffix
}
