// Package stats contains high-score and game history summaries.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/verte-zerg/blockfall/internal/model"
	"github.com/verte-zerg/blockfall/internal/score"
)

const sparkChars = " .:-=+*#%@"

// GameMetrics computes points and cleared rows per minute for a game.
func GameMetrics(points uint32, rows int, durationMs int64) (ppm, rpm float64) {
	if durationMs <= 0 {
		return 0, 0
	}
	minutes := float64(durationMs) / 60000.0
	return float64(points) / minutes, float64(rows) / minutes
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := values[0], values[0]
	for _, v := range values[1:] {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		idx = max(0, min(idx, len(sparkChars)-1))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// HighScoreLines formats the ranked table. Unset slots show dashes.
func HighScoreLines(t score.Table) []string {
	rows := make([][]string, 0, score.Slots)
	for i, e := range t.Entries() {
		if e.Empty() {
			rows = append(rows, []string{fmt.Sprintf("%d", i+1), "-", "--"})
			continue
		}
		rows = append(rows, []string{fmt.Sprintf("%d", i+1), fmt.Sprintf("%d", e.Score), InitialsLabel(e.Initials)})
	}
	return formatTable([]string{"Rank", "Score", "Initials"}, rows, map[int]bool{0: true, 1: true})
}

// InitialsLabel renders stored initials, replacing bytes that do not print.
func InitialsLabel(in [2]byte) string {
	out := make([]byte, len(in))
	for i, c := range in {
		if c < 0x20 || c > 0x7e {
			c = '?'
		}
		out[i] = c
	}
	return string(out)
}

// RenderHighScores prints the ranked table.
func RenderHighScores(w io.Writer, t score.Table) error {
	if _, err := fmt.Fprintln(w, "High Scores"); err != nil {
		return err
	}
	for _, line := range HighScoreLines(t) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// Summary aggregates finished games.
type Summary struct {
	Games     int
	Best      uint32
	AvgScore  float64
	TotalRows int
	Placed    int
	PlayTime  time.Duration
}

// Summarize aggregates games.
func Summarize(games []model.GameAggregate) Summary {
	var s Summary
	var total float64
	for _, g := range games {
		s.Games++
		total += float64(g.Score)
		s.Best = max(s.Best, g.Score)
		s.TotalRows += g.Rows
		if g.Rank >= 0 {
			s.Placed++
		}
		s.PlayTime += time.Duration(g.DurationMs) * time.Millisecond
	}
	if s.Games > 0 {
		s.AvgScore = total / float64(s.Games)
	}
	return s
}

// RenderSummary prints a summary block for games.
func RenderSummary(w io.Writer, games []model.GameAggregate) error {
	if len(games) == 0 {
		_, err := fmt.Fprintln(w, "No games found.")
		return err
	}
	s := Summarize(games)
	lines := []string{
		"Summary",
		fmt.Sprintf("Games: %d", s.Games),
		fmt.Sprintf("Best score: %d", s.Best),
		fmt.Sprintf("Avg score: %.1f", s.AvgScore),
		fmt.Sprintf("Rows cleared: %d", s.TotalRows),
		fmt.Sprintf("Placed in table: %d", s.Placed),
		fmt.Sprintf("Play time: %s", s.PlayTime.Round(time.Second)),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// HistoryLines formats one row per game, oldest first.
func HistoryLines(games []model.GameAggregate) []string {
	rows := make([][]string, 0, len(games))
	for _, g := range games {
		rank := "-"
		if g.Rank >= 0 {
			rank = fmt.Sprintf("#%d %s", g.Rank+1, g.Initials)
		}
		ppm, _ := GameMetrics(g.Score, g.Rows, g.DurationMs)
		rows = append(rows, []string{
			g.EndedAt.Local().Format("2006-01-02 15:04"),
			fmt.Sprintf("%d", g.Score),
			fmt.Sprintf("%d", g.Rows),
			(time.Duration(g.DurationMs) * time.Millisecond).Round(time.Second).String(),
			fmt.Sprintf("%.1f", ppm),
			rank,
		})
	}
	return formatTable([]string{"Ended", "Score", "Rows", "Length", "Pts/min", "Placed"}, rows, map[int]bool{1: true, 2: true, 3: true, 4: true})
}

// RenderHistory prints the game table followed by a score trend line.
func RenderHistory(w io.Writer, games []model.GameAggregate, window int) error {
	if len(games) == 0 {
		return nil
	}
	for _, line := range HistoryLines(games) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "\nScore trend: %s\n", ScoreTrend(games, window)); err != nil {
		return err
	}
	return nil
}

// ScoreTrend is a sparkline of the moving-average score.
func ScoreTrend(games []model.GameAggregate, window int) string {
	values := make([]float64, len(games))
	for i, g := range games {
		values[i] = float64(g.Score)
	}
	return Sparkline(MovingAverage(values, window))
}
