package boxscore

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"
)

// Section headings looked up in the result document
const (
	HeadingGoals       = "Goals"
	HeadingGoalies     = "Goalies"
	HeadingShotsOnGoal = "Shots on Goal"
)

const headingSelector = "h1, h2, h3, h4, h5, h6"

// Parser extracts the tracked team's box score from a result document
type Parser struct {
	team   string
	logger zerolog.Logger
}

// NewParser creates a parser that reports on team
func NewParser(team string, logger zerolog.Logger) *Parser {
	return &Parser{
		team:   strings.TrimSpace(team),
		logger: logger.With().Str("component", "boxscore").Logger(),
	}
}

// Team returns the tracked team name
func (p *Parser) Team() string {
	return p.team
}

// ParseHTML converts raw HTML to a goquery Document for parsing
func ParseHTML(htmlContent string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return doc, nil
}

// Parse reads a raw document. It never fails: unreadable input yields an empty summary.
func (p *Parser) Parse(htmlContent string) *GameSummary {
	doc, err := ParseHTML(htmlContent)
	if err != nil {
		p.logger.Warn().Err(err).Msg("result document unreadable")
		return &GameSummary{}
	}
	return p.ParseDocument(doc)
}

// ParseDocument extracts every section it can find. Sections are independent:
// a missing or broken one leaves its fields empty and the rest still populate.
func (p *Parser) ParseDocument(doc *goquery.Document) *GameSummary {
	summary := &GameSummary{}
	if doc == nil {
		return summary
	}

	goalsTable := findSectionTable(doc, HeadingGoals)
	goaliesTable := findSectionTable(doc, HeadingGoalies)
	shotsTable := findSectionTable(doc, HeadingShotsOnGoal)

	p.section("score", func() {
		p.parseScore(findScoreTable(doc, goalsTable, goaliesTable, shotsTable), summary)
	})
	p.section("goals", func() {
		summary.Goals = p.parseGoals(goalsTable)
	})
	p.section("goalies", func() {
		summary.GoalieLines = p.parseGoalies(goaliesTable)
	})
	p.section("shots", func() {
		summary.ShotsOnGoal = p.parseShots(shotsTable)
	})

	p.logger.Debug().
		Bool("final", summary.HasFinal()).
		Int("goals", len(summary.Goals)).
		Int("goalies", len(summary.GoalieLines)).
		Bool("shots", summary.ShotsOnGoal != nil).
		Msg("parsed result document")

	return summary
}

func (p *Parser) section(name string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error().Str("section", name).Interface("panic", r).Msg("section parse aborted")
		}
	}()
	fn()
}

func (p *Parser) parseScore(table *goquery.Selection, summary *GameSummary) {
	if table == nil {
		p.logger.Debug().Msg("score table not found")
		return
	}

	opponentSeen := false
	eachDataRow(table, func(row *goquery.Selection, cells []string) {
		if len(cells) < 2 || isTotalLabel(cells[len(cells)-1]) {
			return
		}
		name := cells[0]
		periods := append([]string(nil), cells[1:len(cells)-1]...)
		final := parseInt(cells[len(cells)-1])

		if p.matchesTeam(name) {
			summary.SelfPeriodScores = periods
			summary.SelfFinal = final
			return
		}
		if opponentSeen {
			return
		}
		// a row without a numeric final holds the slot only until a scored row appears
		opponentSeen = final != nil
		summary.OpponentName = name
		summary.OpponentPeriodScores = periods
		summary.OpponentFinal = final
	})
}

func (p *Parser) parseGoals(table *goquery.Selection) []Goal {
	if table == nil {
		p.logger.Debug().Msg("goals table not found")
		return nil
	}

	goals := []Goal{}
	eachDataRow(table, func(row *goquery.Selection, cells []string) {
		if len(cells) < 3 || !p.rowBelongsToTeam(row, cells) {
			return
		}
		scorer, ok := ParsePlayerLabel(cells[0])
		if !ok {
			p.logger.Debug().Str("scorer", cells[0]).Msg("skipping goal with unreadable scorer")
			return
		}

		goal := Goal{
			Scorer: scorer,
			Period: cells[len(cells)-2],
			Clock:  cells[len(cells)-1],
		}
		// Assist columns sit between the team column and the trailing period/clock pair.
		if len(cells)-2 > 2 {
			goal.Assist1 = optionalLabel(cells[2])
		}
		if len(cells)-2 > 3 {
			goal.Assist2 = optionalLabel(cells[3])
		}
		goals = append(goals, goal)
	})

	return goals
}

func (p *Parser) parseGoalies(table *goquery.Selection) []GoalieLine {
	if table == nil {
		p.logger.Debug().Msg("goalies table not found")
		return nil
	}

	lines := []GoalieLine{}
	eachDataRow(table, func(row *goquery.Selection, cells []string) {
		if len(cells) < 4 || !p.rowBelongsToTeam(row, cells) {
			return
		}
		player, ok := ParsePlayerLabel(cells[0])
		if !ok {
			return
		}
		shots := parseInt(cells[len(cells)-3])
		against := parseInt(cells[len(cells)-2])
		if shots == nil || against == nil {
			p.logger.Debug().Str("goalie", player.Name).Msg("skipping goalie line with unreadable numbers")
			return
		}
		lines = append(lines, GoalieLine{
			Player:       player,
			ShotsAgainst: *shots,
			GoalsAgainst: *against,
			SavePct:      cells[len(cells)-1],
		})
	})

	return lines
}

func (p *Parser) parseShots(table *goquery.Selection) *ShotsOnGoal {
	if table == nil {
		p.logger.Debug().Msg("shots on goal table not found")
		return nil
	}

	var shots *ShotsOnGoal
	eachDataRow(table, func(row *goquery.Selection, cells []string) {
		if shots != nil || len(cells) < 2 || !p.matchesTeam(cells[0]) {
			return
		}
		shots = &ShotsOnGoal{
			PeriodTotals: append([]string(nil), cells[1:len(cells)-1]...),
			Total:        cells[len(cells)-1],
		}
	})

	return shots
}

// matchesTeam reports whether text is the tracked team's name, ignoring case and spacing
func (p *Parser) matchesTeam(text string) bool {
	team := strings.Join(strings.Fields(p.team), " ")
	if team == "" {
		return false
	}
	return strings.EqualFold(strings.Join(strings.Fields(text), " "), team)
}

// rowBelongsToTeam checks the row's data-team marker, then its cells, then logo alt text
func (p *Parser) rowBelongsToTeam(row *goquery.Selection, cells []string) bool {
	if marker, ok := row.Attr("data-team"); ok {
		return p.matchesTeam(marker)
	}
	for _, cell := range cells[1:] {
		if p.matchesTeam(cell) {
			return true
		}
	}
	matched := false
	row.Find("img[alt]").EachWithBreak(func(_ int, img *goquery.Selection) bool {
		matched = p.matchesTeam(img.AttrOr("alt", ""))
		return !matched
	})
	return matched
}

// findScoreTable picks an explicitly marked score table, falling back to the first
// table whose header ends in a total column. Section tables are never considered.
func findScoreTable(doc *goquery.Document, exclude ...*goquery.Selection) *goquery.Selection {
	if t := doc.Find("table.score-table, table.boxscore, table.linescore, table#linescore").First(); t.Length() > 0 {
		return t
	}

	var found *goquery.Selection
	doc.Find("table").EachWithBreak(func(_ int, t *goquery.Selection) bool {
		for _, ex := range exclude {
			if ex != nil && t.IsSelection(ex) {
				return true
			}
		}
		header := cellTexts(t.Find("tr").First())
		if len(header) < 2 || !isTotalLabel(header[len(header)-1]) {
			return true
		}
		found = t
		return false
	})

	return found
}

// isTotalLabel reports whether a cell is the header of a total column
func isTotalLabel(text string) bool {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "t", "total", "final", "f":
		return true
	}
	return false
}

// findSectionTable returns the table titled by a caption or a th[colspan] banner row,
// or the first table following a heading, whose text equals title
func findSectionTable(doc *goquery.Document, title string) *goquery.Selection {
	var table *goquery.Selection
	doc.Find(headingSelector + ", caption, th[colspan]").EachWithBreak(func(_ int, h *goquery.Selection) bool {
		if !strings.EqualFold(cleanText(h), title) {
			return true
		}
		switch goquery.NodeName(h) {
		case "caption", "th":
			table = h.Closest("table")
		default:
			table = followingTable(h, 2)
		}
		return table == nil || table.Length() == 0
	})

	if table == nil || table.Length() == 0 {
		return nil
	}
	return table
}

// followingTable walks the heading's later siblings until a table or the next heading.
// When the heading is wrapped in its own container the walk continues from the container.
func followingTable(h *goquery.Selection, depth int) *goquery.Selection {
	for sib := h.Next(); sib.Length() > 0; sib = sib.Next() {
		if sib.Is(headingSelector) || sib.Find(headingSelector).Length() > 0 {
			return nil
		}
		if goquery.NodeName(sib) == "table" {
			return sib
		}
		if inner := sib.Find("table").First(); inner.Length() > 0 {
			return inner
		}
	}

	parent := h.Parent()
	if depth <= 0 || parent.Length() == 0 || parent.Is("body, html") {
		return nil
	}
	return followingTable(parent, depth-1)
}

// eachDataRow calls fn for every row holding at least one td cell
func eachDataRow(table *goquery.Selection, fn func(row *goquery.Selection, cells []string)) {
	table.Find("tr").Each(func(_ int, row *goquery.Selection) {
		if row.ChildrenFiltered("td").Length() == 0 {
			return
		}
		fn(row, cellTexts(row))
	})
}

func cellTexts(row *goquery.Selection) []string {
	var cells []string
	row.ChildrenFiltered("td, th").Each(func(_ int, cell *goquery.Selection) {
		cells = append(cells, cleanText(cell))
	})
	return cells
}

func cleanText(s *goquery.Selection) string {
	return strings.Join(strings.Fields(s.Text()), " ")
}

func parseInt(text string) *int {
	v, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return nil
	}
	return &v
}

func optionalLabel(text string) *PlayerLabel {
	label, ok := ParsePlayerLabel(text)
	if !ok {
		return nil
	}
	return &label
}
