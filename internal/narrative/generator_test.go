package narrative

import (
	"strings"
	"testing"

	"github.com/fortuna/danglers/internal/boxscore"
)

// fixedChooser always returns the same index
type fixedChooser int

func (f fixedChooser) Intn(n int) int {
	return int(f) % n
}

func intPtr(v int) *int { return &v }

func label(name string) boxscore.PlayerLabel {
	return boxscore.PlayerLabel{Name: name}
}

func labelPtr(name string) *boxscore.PlayerLabel {
	l := label(name)
	return &l
}

func TestClassify(t *testing.T) {
	tests := []struct {
		self, opp *int
		want      Outcome
		ok        bool
	}{
		{intPtr(5), intPtr(3), Win, true},
		{intPtr(2), intPtr(4), Loss, true},
		{intPtr(5), intPtr(5), Tie, true},
		{nil, intPtr(5), "", false},
		{intPtr(1), nil, "", false},
	}
	for _, tt := range tests {
		got, ok := Classify(&boxscore.GameSummary{SelfFinal: tt.self, OpponentFinal: tt.opp})
		if got != tt.want || ok != tt.ok {
			t.Errorf("Classify = %q,%v want %q,%v", got, ok, tt.want, tt.ok)
		}
	}
}

func TestPoolSizes(t *testing.T) {
	if len(Pool(Win)) < 8 || len(Pool(Loss)) < 8 {
		t.Fatalf("win/loss pools must hold at least 8 templates")
	}
	if len(Pool(Tie)) != 1 {
		t.Fatalf("tie must have a single phrase")
	}
	for _, outcome := range []Outcome{Win, Loss} {
		for _, tmpl := range Pool(outcome) {
			for _, ph := range []string{"{self}", "{opp}", "{opponent}"} {
				if !strings.Contains(tmpl, ph) {
					t.Errorf("%s template %q missing %s", outcome, tmpl, ph)
				}
			}
		}
	}
}

func TestPhraseTieIsFixed(t *testing.T) {
	for i := 0; i < 5; i++ {
		got := Phrase(Tie, 5, 5, "Dusty Danglers", "Ice Holes", fixedChooser(i))
		want := Render(tiePhrase, 5, 5, "Dusty Danglers", "Ice Holes")
		if got != want {
			t.Fatalf("tie phrase = %q, want %q", got, want)
		}
	}
}

func TestPhraseWinSubstitutesExactValues(t *testing.T) {
	for i := range Pool(Win) {
		got := Phrase(Win, 5, 3, "Dusty Danglers", "Ice Holes", fixedChooser(i))
		want := Render(winPhrases[i], 5, 3, "Dusty Danglers", "Ice Holes")
		if got != want {
			t.Fatalf("phrase %d = %q, want %q", i, got, want)
		}
		if !strings.Contains(got, "Ice Holes") || !strings.Contains(got, "5") || !strings.Contains(got, "3") {
			t.Fatalf("phrase %d missing values: %q", i, got)
		}
		if strings.Contains(got, "{") {
			t.Fatalf("phrase %d left a placeholder: %q", i, got)
		}
	}
}

func TestRenderKeepsTemplateOrder(t *testing.T) {
	got := Render("{opponent} {opp}, us {self}", 2, 6, "Dusty Danglers", "Puck Norris")
	if got != "Puck Norris 6, us 2" {
		t.Fatalf("Render = %q", got)
	}
}

func TestPoints(t *testing.T) {
	goals := []boxscore.Goal{
		{Scorer: label("A"), Assist1: labelPtr("B"), Assist2: labelPtr("C")},
		{Scorer: label("B"), Assist1: labelPtr("A")},
		{Scorer: label("D")},
	}

	points := Points(goals)
	want := []PlayerPoints{{Player: "A", Points: 2}, {Player: "B", Points: 2}, {Player: "C", Points: 1}, {Player: "D", Points: 1}}
	if len(points) != len(want) {
		t.Fatalf("points = %+v", points)
	}
	for i := range want {
		if points[i] != want[i] {
			t.Fatalf("points[%d] = %+v, want %+v", i, points[i], want[i])
		}
	}
}

func TestMVPsListsEveryTiedLeader(t *testing.T) {
	leaders, top := MVPs([]PlayerPoints{{Player: "A", Points: 2}, {Player: "B", Points: 2}, {Player: "C", Points: 1}, {Player: "D", Points: 1}})
	if top != 2 || len(leaders) != 2 || leaders[0].Player != "A" || leaders[1].Player != "B" {
		t.Fatalf("MVPs = %+v, %d", leaders, top)
	}
}

func TestMVPsRequiresMoreThanOnePoint(t *testing.T) {
	leaders, top := MVPs([]PlayerPoints{{Player: "A", Points: 1}, {Player: "B", Points: 1}})
	if leaders != nil || top != 0 {
		t.Fatalf("expected no MVP, got %+v, %d", leaders, top)
	}
	if leaders, _ := MVPs(nil); leaders != nil {
		t.Fatal("expected no MVP for no points")
	}
}

func TestNarrate(t *testing.T) {
	gen := NewGenerator(fixedChooser(0)).WithTeam("Dusty Danglers")
	summary := &boxscore.GameSummary{
		SelfFinal:     intPtr(5),
		OpponentFinal: intPtr(3),
		Goals: []boxscore.Goal{
			{Scorer: label("A"), Assist1: labelPtr("B")},
			{Scorer: label("A")},
		},
	}

	n := gen.Narrate(summary, "Ice Holes")
	if !n.HasResult || n.Outcome != Win {
		t.Fatalf("unexpected outcome %+v", n)
	}
	if n.Phrase != Render(winPhrases[0], 5, 3, "Dusty Danglers", "Ice Holes") {
		t.Fatalf("phrase = %q", n.Phrase)
	}
	if len(n.MVPs) != 1 || n.MVPs[0].Player != "A" || n.MVPPoints != 2 {
		t.Fatalf("mvps = %+v", n.MVPs)
	}
}

func TestNarrateWithoutScores(t *testing.T) {
	n := NewGenerator(nil).Narrate(&boxscore.GameSummary{}, "Ice Holes")
	if n.HasResult || n.Phrase != "" || n.MVPs != nil {
		t.Fatalf("expected empty narrative, got %+v", n)
	}
}

func TestPhraseUsesTrackedTeamName(t *testing.T) {
	for i, template := range winPhrases {
		if !strings.Contains(template, "{team}") {
			continue
		}
		got := Phrase(Win, 4, 1, "Puck Bunnies", "Ice Holes", fixedChooser(i))
		if !strings.Contains(got, "Puck Bunnies") || strings.Contains(got, "Danglers") {
			t.Fatalf("phrase %d = %q", i, got)
		}
	}

	if got := Render("{team} win", 1, 0, "", "Ice Holes"); got != "We win" {
		t.Fatalf("empty team rendered %q", got)
	}
}

func TestPointsSeparatesPlayersByNumber(t *testing.T) {
	goals := []boxscore.Goal{
		{Scorer: boxscore.PlayerLabel{Number: "7", Name: "J. Smith"}, Assist1: &boxscore.PlayerLabel{Number: "12", Name: "J. Smith"}},
		{Scorer: boxscore.PlayerLabel{Number: "7", Name: "J. Smith"}},
	}

	points := Points(goals)
	want := []PlayerPoints{
		{Player: "J. Smith", Number: "7", Points: 2},
		{Player: "J. Smith", Number: "12", Points: 1},
	}
	if len(points) != len(want) {
		t.Fatalf("points = %+v", points)
	}
	for i := range want {
		if points[i] != want[i] {
			t.Fatalf("points[%d] = %+v, want %+v", i, points[i], want[i])
		}
	}
}
