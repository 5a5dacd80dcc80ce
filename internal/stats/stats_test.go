package stats

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/blockfall/internal/model"
	"github.com/verte-zerg/blockfall/internal/score"
)

func TestMovingAverage(t *testing.T) {
	got := MovingAverage([]float64{2, 4, 6, 8}, 2)
	want := []float64{2, 3, 5, 7}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("index %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline([]float64{0, 9}); got != " @" {
		t.Fatalf("unexpected sparkline %q", got)
	}
	if got := Sparkline([]float64{3, 3, 3}); got != "+++" {
		t.Fatalf("unexpected flat sparkline %q", got)
	}
	if Sparkline(nil) != "" {
		t.Fatalf("expected empty sparkline")
	}
}

func TestGameMetrics(t *testing.T) {
	ppm, rpm := GameMetrics(300, 6, 120000)
	if ppm != 150 || rpm != 3 {
		t.Fatalf("unexpected metrics %v %v", ppm, rpm)
	}
	if ppm, rpm := GameMetrics(300, 6, 0); ppm != 0 || rpm != 0 {
		t.Fatalf("expected zero metrics for empty duration")
	}
}

func TestHighScoreLinesShowsUnsetSlots(t *testing.T) {
	tbl := score.NewTable()
	tbl.InsertAt(0, score.Entry{Score: 1200, Initials: [2]byte{'A', 'B'}})
	tbl.InsertAt(1, score.Entry{Score: 40, Initials: [2]byte{0xFF, 0xFF}})
	lines := HighScoreLines(tbl)
	if len(lines) != score.Slots+1 {
		t.Fatalf("expected header plus %d rows, got %d", score.Slots, len(lines))
	}
	if !strings.Contains(lines[1], "1200") || !strings.Contains(lines[1], "AB") {
		t.Fatalf("unexpected first row %q", lines[1])
	}
	if !strings.Contains(lines[2], "??") {
		t.Fatalf("expected unprintable initials masked, got %q", lines[2])
	}
	if !strings.Contains(lines[5], "--") {
		t.Fatalf("expected unset slot, got %q", lines[5])
	}
}

func TestSummarize(t *testing.T) {
	games := []model.GameAggregate{
		{Score: 100, Rows: 2, DurationMs: 60000, Rank: -1},
		{Score: 300, Rows: 5, DurationMs: 30000, Rank: 0, Initials: "AB"},
	}
	s := Summarize(games)
	if s.Games != 2 || s.Best != 300 || s.AvgScore != 200 || s.TotalRows != 7 || s.Placed != 1 {
		t.Fatalf("unexpected summary %+v", s)
	}
	if s.PlayTime != 90*time.Second {
		t.Fatalf("unexpected play time %v", s.PlayTime)
	}
}

func TestRenderSummaryEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderSummary(&buf, nil); err != nil {
		t.Fatalf("render: %v", err)
	}
	if buf.String() != "No games found.\n" {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestRenderHistory(t *testing.T) {
	games := []model.GameAggregate{
		{EndedAt: time.Unix(0, 0), Score: 100, DurationMs: 60000, Rank: -1},
		{EndedAt: time.Unix(60, 0), Score: 900, DurationMs: 60000, Rank: 2, Initials: "ZZ"},
	}
	var buf bytes.Buffer
	if err := RenderHistory(&buf, games, 1); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "#3 ZZ") {
		t.Fatalf("expected placement column, got %q", out)
	}
	if !strings.Contains(out, "Score trend:  @") {
		t.Fatalf("expected trend line, got %q", out)
	}
}
