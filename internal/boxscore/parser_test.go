package boxscore

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

const team = "Dusty Danglers"

const scoreTable = `
<table class="score-table">
  <tr><th>Team</th><th>1</th><th>2</th><th>3</th><th>T</th></tr>
  <tr><td>Dusty Danglers</td><td>1</td><td>2</td><td>2</td><td>5</td></tr>
  <tr><td>Ice Holes</td><td>0</td><td>1</td><td>2</td><td>3</td></tr>
</table>`

const goalsSection = `
<h3>Goals</h3>
<table>
  <tr><th>Scorer</th><th>Team</th><th>Assist</th><th>Assist</th><th>Per</th><th>Time</th></tr>
  <tr><td>#17. J. Doe C</td><td>Dusty Danglers</td><td>#9. A. Smith</td><td>#4. B. Jones</td><td>1</td><td>12:01</td></tr>
  <tr><td>#22. K. Lee</td><td>Ice Holes</td><td>#3. Q. Who</td><td></td><td>2</td><td>05:10</td></tr>
  <tr><td>#9. A. Smith</td><td>Dusty Danglers</td><td>#17. J. Doe C</td><td></td><td>2</td><td>08:44</td></tr>
  <tr><td>#4. B. Jones</td><td>Dusty Danglers</td><td>-</td><td>-</td><td>OT</td><td>01:30</td></tr>
</table>`

const goaliesSection = `
<div class="section"><h3>Goalies</h3></div>
<div class="wrap">
<table>
  <tr><th>Goalie</th><th>Team</th><th>SA</th><th>GA</th><th>SV%</th></tr>
  <tr><td>#30. M. Wall</td><td>Dusty Danglers</td><td>28</td><td>3</td><td>.893</td></tr>
  <tr><td>#1. T. Sieve</td><td>Ice Holes</td><td>31</td><td>5</td><td>.839</td></tr>
</table>
</div>`

const shotsSection = `
<h3>Shots on Goal</h3>
<table>
  <tr><th>Team</th><th>1</th><th>2</th><th>3</th><th>OT</th><th>T</th></tr>
  <tr><td>Ice Holes</td><td>9</td><td>10</td><td>12</td><td>0</td><td>31</td></tr>
  <tr><td>Dusty Danglers</td><td>10</td><td>8</td><td>11</td><td>2</td><td>31</td></tr>
</table>`

func page(parts ...string) string {
	return "<html><body>" + strings.Join(parts, "\n") + "</body></html>"
}

func newTestParser() *Parser {
	return NewParser(team, zerolog.Nop())
}

func TestParsePlayerLabel(t *testing.T) {
	tests := []struct {
		raw    string
		number string
		name   string
		ok     bool
	}{
		{"#17. J. Doe C", "17", "J. Doe", true},
		{"#9. A. Smith", "9", "A. Smith", true},
		{"  #4.   B.  Jones  ", "4", "B. Jones", true},
		{"#12. Carl", "12", "Carl", true},
		{"Unassisted", "", "", false},
		{"", "", "", false},
		{"-", "", "", false},
	}

	for _, tt := range tests {
		got, ok := ParsePlayerLabel(tt.raw)
		if ok != tt.ok {
			t.Errorf("ParsePlayerLabel(%q) ok = %v, want %v", tt.raw, ok, tt.ok)
			continue
		}
		if got.Number != tt.number || got.Name != tt.name {
			t.Errorf("ParsePlayerLabel(%q) = %+v, want #%s %s", tt.raw, got, tt.number, tt.name)
		}
	}
}

func TestParseFullDocument(t *testing.T) {
	summary := newTestParser().Parse(page(scoreTable, goalsSection, goaliesSection, shotsSection))

	if !summary.HasFinal() || *summary.SelfFinal != 5 || *summary.OpponentFinal != 3 {
		t.Fatalf("unexpected finals %+v", summary)
	}
	if summary.OpponentName != "Ice Holes" {
		t.Fatalf("opponent name = %q", summary.OpponentName)
	}
	if got := strings.Join(summary.SelfPeriodScores, ","); got != "1,2,2" {
		t.Fatalf("self periods = %s", got)
	}
	if got := strings.Join(summary.OpponentPeriodScores, ","); got != "0,1,2" {
		t.Fatalf("opponent periods = %s", got)
	}

	if len(summary.Goals) != 3 {
		t.Fatalf("expected 3 tracked goals, got %d", len(summary.Goals))
	}
	first := summary.Goals[0]
	if first.Scorer.Name != "J. Doe" || first.Scorer.Number != "17" {
		t.Fatalf("first scorer = %+v", first.Scorer)
	}
	if first.Assist1 == nil || first.Assist1.Name != "A. Smith" || first.Assist2 == nil || first.Assist2.Name != "B. Jones" {
		t.Fatalf("first assists = %+v %+v", first.Assist1, first.Assist2)
	}
	if first.Period != "1" || first.Clock != "12:01" {
		t.Fatalf("first period/clock = %s %s", first.Period, first.Clock)
	}
	if summary.Goals[1].Assist2 != nil {
		t.Fatalf("blank second assist should be absent")
	}
	last := summary.Goals[2]
	if last.Assist1 != nil || last.Assist2 != nil || last.Period != "OT" {
		t.Fatalf("unassisted overtime goal parsed as %+v", last)
	}

	if len(summary.GoalieLines) != 1 {
		t.Fatalf("expected 1 tracked goalie, got %d", len(summary.GoalieLines))
	}
	g := summary.GoalieLines[0]
	if g.Player.Name != "M. Wall" || g.ShotsAgainst != 28 || g.GoalsAgainst != 3 || g.SavePct != ".893" || g.Saves() != 25 {
		t.Fatalf("goalie line = %+v", g)
	}

	if summary.ShotsOnGoal == nil {
		t.Fatal("expected shots on goal")
	}
	if got := strings.Join(summary.ShotsOnGoal.PeriodTotals, ","); got != "10,8,11,2" || summary.ShotsOnGoal.Total != "31" {
		t.Fatalf("shots = %+v", summary.ShotsOnGoal)
	}
}

func TestParseMissingGoaliesKeepsGoals(t *testing.T) {
	summary := newTestParser().Parse(page(scoreTable, goalsSection, shotsSection))

	if len(summary.GoalieLines) != 0 {
		t.Fatalf("expected no goalie lines, got %+v", summary.GoalieLines)
	}
	if len(summary.Goals) != 3 {
		t.Fatalf("expected goals to still parse, got %d", len(summary.Goals))
	}
	if summary.ShotsOnGoal == nil {
		t.Fatal("expected shots to still parse")
	}
}

func TestParseNonNumericFinalOnlyDropsScore(t *testing.T) {
	broken := strings.Replace(scoreTable, "<td>5</td>", "<td>F/SO</td>", 1)
	summary := newTestParser().Parse(page(broken, goalsSection))

	if summary.SelfFinal != nil {
		t.Fatalf("expected self final to be absent, got %d", *summary.SelfFinal)
	}
	if summary.HasFinal() {
		t.Fatal("HasFinal should be false")
	}
	if len(summary.Goals) != 3 {
		t.Fatalf("goals should survive a broken score table, got %d", len(summary.Goals))
	}
}

func TestParseEmptyAndGarbageDocuments(t *testing.T) {
	for _, doc := range []string{"", "not html at all", "<html><body><h3>Goals</h3></body></html>"} {
		summary := newTestParser().Parse(doc)
		if summary == nil {
			t.Fatalf("nil summary for %q", doc)
		}
		if summary.HasFinal() || summary.Goals != nil || summary.GoalieLines != nil || summary.ShotsOnGoal != nil {
			t.Fatalf("expected empty summary for %q, got %+v", doc, summary)
		}
	}
}

func TestScoreTableFallbackIgnoresShotsTable(t *testing.T) {
	plain := strings.Replace(scoreTable, ` class="score-table"`, "", 1)

	summary := newTestParser().Parse(page(shotsSection, plain))
	if !summary.HasFinal() || *summary.SelfFinal != 5 {
		t.Fatalf("fallback score table not found: %+v", summary)
	}

	summary = newTestParser().Parse(page(shotsSection))
	if summary.SelfFinal != nil {
		t.Fatalf("shots table must not be read as a score table")
	}
}

func TestGoalRowsIdentifiedByMarker(t *testing.T) {
	doc := page(`
<h2>Goals</h2>
<table>
  <tr data-team="dusty danglers"><td>#8. P. Kane</td><td><img alt="DD"></td><td>#2. R. Roe</td><td></td><td>3</td><td>19:59</td></tr>
  <tr data-team="Ice Holes"><td>#8. X. Other</td><td>Dusty Danglers fan night</td><td></td><td></td><td>3</td><td>10:00</td></tr>
</table>`)

	summary := newTestParser().Parse(doc)
	if len(summary.Goals) != 1 || summary.Goals[0].Scorer.Name != "P. Kane" {
		t.Fatalf("marker-based row selection failed: %+v", summary.Goals)
	}
}

func TestResultURL(t *testing.T) {
	tests := []struct{ base, link, want string }{
		{"https://league.example.com/", "/games/12", "https://league.example.com/games/12"},
		{"https://league.example.com", "games/12", "https://league.example.com/games/12"},
		{"https://league.example.com", "https://other.example.com/x", "https://other.example.com/x"},
		{"https://league.example.com", "", ""},
	}
	for _, tt := range tests {
		if got := ResultURL(tt.base, tt.link); got != tt.want {
			t.Errorf("ResultURL(%q, %q) = %q, want %q", tt.base, tt.link, got, tt.want)
		}
	}
}

func TestHTTPFetcher(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, page(scoreTable))
	}))
	defer srv.Close()

	fetcher := NewHTTPFetcher(2 * time.Second)

	body, err := fetcher.Fetch(context.Background(), srv.URL+"/games/1")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if !strings.Contains(body, "Dusty Danglers") {
		t.Fatalf("unexpected body %q", body)
	}

	_, err = fetcher.Fetch(context.Background(), srv.URL+"/missing")
	if !errors.Is(err, ErrFetchFailed) {
		t.Fatalf("expected ErrFetchFailed, got %v", err)
	}
}

func TestScoreTableWithTdHeaderRow(t *testing.T) {
	doc := page(`
<table>
  <tr><td>Team</td><td>1</td><td>2</td><td>3</td><td>T</td></tr>
  <tr><td>Dusty Danglers</td><td>2</td><td>2</td><td>1</td><td>5</td></tr>
  <tr><td>Ice Holes</td><td>1</td><td>0</td><td>2</td><td>3</td></tr>
</table>`)

	summary := newTestParser().Parse(doc)
	if !summary.HasFinal() || *summary.SelfFinal != 5 || *summary.OpponentFinal != 3 {
		t.Fatalf("finals not read: %+v", summary)
	}
	if summary.OpponentName != "Ice Holes" {
		t.Fatalf("opponent = %q", summary.OpponentName)
	}
}

func TestScoredOpponentRowWinsOverUnscoredRow(t *testing.T) {
	doc := page(`
<table class="score-table">
  <tr><th>Team</th><th>1</th><th>2</th><th>3</th><th>T</th></tr>
  <tr><td>Standings</td><td></td><td></td><td></td><td>-</td></tr>
  <tr><td>Dusty Danglers</td><td>2</td><td>2</td><td>1</td><td>5</td></tr>
  <tr><td>Ice Holes</td><td>1</td><td>0</td><td>2</td><td>3</td></tr>
</table>`)

	summary := newTestParser().Parse(doc)
	if summary.OpponentName != "Ice Holes" || summary.OpponentFinal == nil || *summary.OpponentFinal != 3 {
		t.Fatalf("opponent row not picked: %+v", summary)
	}
}

func TestSectionFoundByBannerRow(t *testing.T) {
	doc := page(scoreTable, `
<table>
  <tr><th colspan="6">Goals</th></tr>
  <tr><td>#17. J. Doe C</td><td>Dusty Danglers</td><td>#9. A. Smith</td><td></td><td>1</td><td>12:01</td></tr>
  <tr><td>#22. K. Lee</td><td>Ice Holes</td><td></td><td></td><td>2</td><td>05:10</td></tr>
</table>`)

	summary := newTestParser().Parse(doc)
	if len(summary.Goals) != 1 || summary.Goals[0].Scorer.Name != "J. Doe" {
		t.Fatalf("banner section not read: %+v", summary.Goals)
	}
	if !summary.HasFinal() || *summary.SelfFinal != 5 {
		t.Fatalf("score table lost: %+v", summary)
	}
}

func TestOpponentNameContainingTeamName(t *testing.T) {
	doc := page(`
<table class="score-table">
  <tr><th>Team</th><th>1</th><th>2</th><th>3</th><th>T</th></tr>
  <tr><td>Dusty  Danglers</td><td>1</td><td>0</td><td>1</td><td>2</td></tr>
  <tr><td>Dusty Danglers Alumni</td><td>3</td><td>1</td><td>0</td><td>4</td></tr>
</table>`)

	summary := newTestParser().Parse(doc)
	if summary.SelfFinal == nil || *summary.SelfFinal != 2 {
		t.Fatalf("self final overwritten: %+v", summary)
	}
	if summary.OpponentName != "Dusty Danglers Alumni" || *summary.OpponentFinal != 4 {
		t.Fatalf("opponent = %q %v", summary.OpponentName, summary.OpponentFinal)
	}
}
