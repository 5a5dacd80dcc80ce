// Package scoresui provides the Bubble Tea high-score and history viewer.
package scoresui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/blockfall/internal/model"
	"github.com/verte-zerg/blockfall/internal/stats"
)

const (
	tabScores = iota
	tabHistory
)

const trendWindow = 5

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
)

// Loader fetches the data shown by the viewer.
type Loader func(ctx context.Context, cfg model.HistoryConfig) (stats.Report, error)

// Model implements the Bubble Tea scores UI.
type Model struct {
	load Loader
	cfg  model.HistoryConfig

	report stats.Report
	errMsg string

	tabs      []string
	activeTab int
	scores    viewport.Model
	history   table.Model

	width  int
	height int

	filterMode  bool
	filterInput textinput.Model
	filterError string
}

// NewModel constructs a scores UI model.
func NewModel(load Loader, cfg model.HistoryConfig) *Model {
	m := &Model{
		load:    load,
		cfg:     cfg,
		tabs:    []string{"High Scores", "History"},
		scores:  viewport.New(0, 0),
		history: table.New(table.WithStyles(historyTableStyles())),
	}
	m.filterInput = textinput.New()
	m.filterInput.Prompt = "Last N games: "
	m.filterInput.Cursor.SetMode(cursor.CursorBlink)
	m.refreshReport()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.filterMode {
			return m.updateFilter(msg)
		}
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l", "tab":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "r":
			m.refreshReport()
			return m, nil
		case "/":
			m.filterMode = true
			m.filterError = ""
			if m.cfg.Last > 0 {
				m.filterInput.SetValue(strconv.Itoa(m.cfg.Last))
			} else {
				m.filterInput.SetValue("")
			}
			return m, m.filterInput.Focus()
		case "g", "home":
			m.scores.GotoTop()
			m.history.GotoTop()
			return m, nil
		case "G", "end":
			m.scores.GotoBottom()
			m.history.GotoBottom()
			return m, nil
		}
		var cmd tea.Cmd
		if m.activeTab == tabHistory {
			m.history, cmd = m.history.Update(msg)
		} else {
			m.scores, cmd = m.scores.Update(msg)
		}
		return m, cmd
	}
	return m, nil
}

func (m *Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.filterMode = false
		m.filterInput.Blur()
		return m, nil
	case tea.KeyEnter:
		value := strings.TrimSpace(m.filterInput.Value())
		last := 0
		if value != "" {
			n, err := strconv.Atoi(value)
			if err != nil || n < 0 {
				m.filterError = "last must be a non-negative number"
				return m, nil
			}
			last = n
		}
		m.cfg.Last = last
		m.filterMode = false
		m.filterInput.Blur()
		m.refreshReport()
		return m, nil
	}
	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	var body string
	if m.activeTab == tabHistory {
		body = m.history.View()
	} else {
		body = m.scores.View()
	}
	return strings.Join([]string{m.renderTabs(), body, m.renderFooter()}, "\n")
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	next := (m.activeTab + delta + count) % count
	m.activeTab = next
	if m.activeTab == tabHistory {
		m.history.Focus()
	} else {
		m.history.Blur()
	}
}

func (m *Model) refreshReport() {
	report, err := m.load(context.Background(), m.cfg)
	if err != nil {
		m.errMsg = err.Error()
		return
	}
	m.errMsg = ""
	m.report = report
	m.scores.SetContent(m.renderScores())
	m.history.SetColumns(historyColumns())
	m.history.SetRows(historyRows(report.Games))
	m.history.GotoBottom()
}

func (m *Model) updateLayout() {
	bodyHeight := m.bodyHeight()
	m.scores.Width = m.width
	m.scores.Height = bodyHeight
	m.history.SetWidth(m.width)
	m.history.SetHeight(bodyHeight)
	m.filterInput.Width = max(10, m.width-lipgloss.Width(m.filterInput.Prompt)-2)
}

func (m *Model) bodyHeight() int {
	tabsHeight := lipgloss.Height(activeNavStyle.Render("X"))
	footerHeight := 1
	if m.errMsg != "" || m.filterError != "" {
		footerHeight++
	}
	return max(1, m.height-tabsHeight-footerHeight)
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderFooter() string {
	var lines []string
	if m.errMsg != "" {
		lines = append(lines, errorStyle.Render(m.errMsg))
	}
	if m.filterMode {
		line := m.filterInput.View()
		if m.filterError != "" {
			line += "  " + errorStyle.Render(m.filterError)
		}
		lines = append(lines, line)
		return strings.Join(lines, "\n")
	}
	lines = append(lines, headerStyle.Render("←/→ tabs · ↑/↓ scroll · / last N · r reload · q quit"))
	return strings.Join(lines, "\n")
}

func (m *Model) renderScores() string {
	s := stats.Summarize(m.report.Games)
	cards := []string{
		renderCard("Best", fmt.Sprintf("%d", s.Best)),
		renderCard("Games", fmt.Sprintf("%d", s.Games)),
		renderCard("Avg score", fmt.Sprintf("%.1f", s.AvgScore)),
		renderCard("Rows", fmt.Sprintf("%d", s.TotalRows)),
		renderCard("Play time", s.PlayTime.Round(time.Second).String()),
	}
	var b strings.Builder
	b.WriteString(strings.Join(stats.HighScoreLines(m.report.Table), "\n"))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	if len(m.report.Games) > 1 {
		b.WriteString("\n\n")
		b.WriteString(cardTitleStyle.Render("Score trend "))
		b.WriteString(stats.ScoreTrend(m.report.Games, trendWindow))
	}
	return b.String()
}

func renderCard(title, value string) string {
	return cardStyle.Render(cardTitleStyle.Render(title) + "\n" + cardValueStyle.Render(value))
}

func historyColumns() []table.Column {
	return []table.Column{
		{Title: "Ended", Width: 16},
		{Title: "Score", Width: 8},
		{Title: "Rows", Width: 5},
		{Title: "Length", Width: 8},
		{Title: "Placed", Width: 8},
	}
}

func historyRows(games []model.GameAggregate) []table.Row {
	rows := make([]table.Row, 0, len(games))
	for _, g := range games {
		placed := "-"
		if g.Rank >= 0 {
			placed = fmt.Sprintf("#%d %s", g.Rank+1, g.Initials)
		}
		rows = append(rows, table.Row{
			g.EndedAt.Local().Format("2006-01-02 15:04"),
			strconv.FormatUint(uint64(g.Score), 10),
			strconv.Itoa(g.Rows),
			(time.Duration(g.DurationMs) * time.Millisecond).Round(time.Second).String(),
			placed,
		})
	}
	return rows
}

func historyTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}
