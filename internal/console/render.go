package console

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/blockfall/internal/board"
	"github.com/verte-zerg/blockfall/internal/game"
	"github.com/verte-zerg/blockfall/internal/model"
	"github.com/verte-zerg/blockfall/internal/score"
	"github.com/verte-zerg/blockfall/internal/stats"
)

// frameEvery caps redraws of an unchanged status.
const frameEvery = 33 * time.Millisecond

const statusWidth = 22

var (
	wellStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	emptyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#3A3A3A"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	pausedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	overStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")).Bold(true)
	hintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))

	kindStyles = [board.Kinds]lipgloss.Style{
		board.KindI: lipgloss.NewStyle().Foreground(lipgloss.Color("#4FC3F7")),
		board.KindO: lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD54F")),
		board.KindT: lipgloss.NewStyle().Foreground(lipgloss.Color("#BA68C8")),
		board.KindS: lipgloss.NewStyle().Foreground(lipgloss.Color("#81C784")),
		board.KindZ: lipgloss.NewStyle().Foreground(lipgloss.Color("#E57373")),
		board.KindJ: lipgloss.NewStyle().Foreground(lipgloss.Color("#7986CB")),
		board.KindL: lipgloss.NewStyle().Foreground(lipgloss.Color("#FFB74D")),
	}
)

// Playfield supplies the cells to draw.
type Playfield interface {
	Cells() [board.Height][board.Width]board.Cell
}

// Renderer draws the game to a raw-mode terminal.
type Renderer struct {
	out   io.Writer
	field Playfield
	mute  game.Switch
	keys  model.KeyMap
	now   func() time.Time

	last     time.Time
	lastSt   game.Status
	lastMute bool
	drawn    bool
}

// NewRenderer returns a renderer writing to out.
func NewRenderer(out io.Writer, field Playfield, mute game.Switch, keys model.KeyMap) *Renderer {
	return &Renderer{out: out, field: field, mute: mute, keys: keys, now: time.Now}
}

// Frame implements game.View. Unchanged frames are redrawn at most every
// frameEvery.
func (r *Renderer) Frame(st game.Status) {
	now := r.now()
	muted := r.mute != nil && r.mute.On()
	if r.drawn && st == r.lastSt && muted == r.lastMute && now.Sub(r.last) < frameEvery {
		return
	}
	r.last, r.lastSt, r.lastMute, r.drawn = now, st, muted, true

	view := lipgloss.JoinHorizontal(lipgloss.Top,
		wellStyle.Render(r.well()),
		"  ",
		r.status(st, muted),
	)
	r.write(cursorHome + raw(view) + clearToEnd)
}

// GameOver implements game.View.
func (r *Renderer) GameOver(points uint32) {
	r.drawn = false
	msg := lipgloss.JoinVertical(lipgloss.Left,
		overStyle.Render("GAME OVER"),
		labelStyle.Render("Score: ")+valueStyle.Render(fmt.Sprintf("%d", points)),
	)
	r.write(clearScreen + raw(msg) + "\r\n")
}

// HighScores implements game.View.
func (r *Renderer) HighScores(t score.Table) {
	r.drawn = false
	var b strings.Builder
	b.WriteString(valueStyle.Render("High Scores"))
	b.WriteString("\n\n")
	for _, line := range stats.HighScoreLines(t) {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	b.WriteString(hintStyle.Render(r.hint()))
	r.write(clearScreen + raw(b.String()))
}

func (r *Renderer) hint() string {
	k := r.keys
	return fmt.Sprintf(
		"Buttons %s/%s/%s/%s (right/drop/rotate/left) · stick %s %s %s %s · arrows, space, p · mute %s · ctrl-c quits\nPress a button to play",
		keyName(k.Buttons[0]), keyName(k.Buttons[1]), keyName(k.Buttons[2]), keyName(k.Buttons[3]),
		keyName(k.StickLeft), keyName(k.StickRight), keyName(k.StickUp), keyName(k.StickDown),
		keyName(k.Mute),
	)
}

func (r *Renderer) well() string {
	cells := r.field.Cells()
	var b strings.Builder
	for y, row := range cells {
		if y > 0 {
			b.WriteByte('\n')
		}
		for _, c := range row {
			if c.Empty() {
				b.WriteString(emptyStyle.Render(" ·"))
				continue
			}
			b.WriteString(kindStyles[c.Kind()].Render("██"))
		}
	}
	return b.String()
}

func (r *Renderer) status(st game.Status, muted bool) string {
	lines := []string{
		statusLine("Score", fmt.Sprintf("%d", st.Score)),
		statusLine("Rows", fmt.Sprintf("%d", st.Rows)),
		statusLine("Drop every", fmt.Sprintf("%d ms", st.Interval)),
	}
	if muted {
		lines = append(lines, labelStyle.Render("muted"))
	}
	if st.Paused {
		lines = append(lines, "", pausedStyle.Render("PAUSED · press p"))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func statusLine(label, value string) string {
	pad := statusWidth - runewidth.StringWidth(label) - runewidth.StringWidth(value)
	if pad < 1 {
		pad = 1
	}
	return labelStyle.Render(label) + strings.Repeat(" ", pad) + valueStyle.Render(value)
}

func keyName(b byte) string {
	if b == ' ' {
		return "space"
	}
	return string(rune(b))
}

// raw converts line breaks for a terminal with output processing off.
func raw(s string) string {
	return strings.ReplaceAll(s, "\n", "\r\n")
}

func (r *Renderer) write(s string) {
	if _, err := io.WriteString(r.out, s); err != nil {
		_ = err
	}
}
