// Package reportui provides the Bubble Tea report viewer.
package reportui

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/liftplot/internal/model"
	"github.com/verte-zerg/liftplot/internal/stats"
)

const (
	tabCharts = iota
	tabExercises
)

const (
	plotHeight = 14
)

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
	headerStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	pageTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

// Model implements the Bubble Tea report viewer.
type Model struct {
	report stats.Report
	charts []model.Chart
	unit   string

	tabs      []string
	activeTab int
	page      int
	viewport  viewport.Model
	exTable   table.Model

	width  int
	height int
}

// NewModel constructs a viewer over planned charts.
func NewModel(report stats.Report, charts []model.Chart, unit string) *Model {
	m := &Model{
		report:   report,
		charts:   charts,
		unit:     unit,
		tabs:     []string{"Charts", "Exercises"},
		viewport: viewport.New(0, 0),
	}
	m.initExerciseTable()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Page returns the index of the chart currently shown.
func (m *Model) Page() int {
	return m.page
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderPage()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.String() == "q" {
			return m, tea.Quit
		}
		switch msg.String() {
		case "tab":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "shift+tab":
			m.moveTab(-1)
			return m, tea.ClearScreen
		}
		if m.activeTab == tabExercises {
			var cmd tea.Cmd
			m.exTable, cmd = m.exTable.Update(msg)
			return m, cmd
		}
		switch msg.String() {
		case "left", "h":
			m.movePage(-1)
			return m, nil
		case "right", "l", " ":
			m.movePage(1)
			return m, nil
		case "g", "home":
			m.setPage(0)
			return m, nil
		case "G", "end":
			m.setPage(len(m.charts) - 1)
			return m, nil
		default:
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(), m.width, bodyHeight)
	footer := fitLines(m.renderHelp(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := lipgloss.Height(activeNavStyle.Render("X"))
	if tabsHeight < 1 {
		tabsHeight = 1
	}
	headerHeight = tabsHeight + 1
	footerHeight = 1
	bodyHeight = m.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	m.viewport.Width = m.width
	m.viewport.Height = bodyHeight
	m.exTable.SetWidth(m.width)
	m.exTable.SetHeight(maxInt(1, bodyHeight-1))
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	next := (m.activeTab + delta + count) % count
	m.activeTab = next
	if m.activeTab == tabExercises {
		m.exTable.Focus()
	} else {
		m.exTable.Blur()
	}
}

func (m *Model) movePage(delta int) {
	m.setPage(m.page + delta)
}

func (m *Model) setPage(page int) {
	if len(m.charts) == 0 {
		m.page = 0
		return
	}
	if page < 0 {
		page = 0
	}
	if page >= len(m.charts) {
		page = len(m.charts) - 1
	}
	if page == m.page {
		return
	}
	m.page = page
	m.renderPage()
	m.viewport.GotoTop()
}

func (m *Model) renderPage() {
	if len(m.charts) == 0 {
		m.viewport.SetContent("No charts: every series has too few points.")
		return
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	var buf bytes.Buffer
	if err := stats.RenderChartWithSize(&buf, m.charts[m.page], width, plotHeight, true); err != nil {
		m.viewport.SetContent(fmt.Sprintf("Failed to render chart: %v", err))
		return
	}
	m.viewport.SetContent(strings.TrimRight(buf.String(), "\n"))
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

func (m *Model) renderHeader() string {
	tabs := padLines(m.renderTabs(), m.width)
	return tabs + "\n" + padLine(m.renderPageLine(), m.width)
}

func (m *Model) renderPageLine() string {
	if m.activeTab == tabExercises {
		line := fmt.Sprintf("%d exercises, %d training days", len(m.report.Exercises), len(m.report.Workouts))
		return headerStyle.Render(truncateLine(line, m.width))
	}
	if len(m.charts) == 0 {
		return headerStyle.Render("Page 0/0")
	}
	line := fmt.Sprintf("Page %d/%d: %s", m.page+1, len(m.charts), m.charts[m.page].Title)
	return pageTitleStyle.Render(truncateLine(line, m.width))
}

func (m *Model) renderHelp() string {
	help := "Pages: left/right  First/last: g/G  Scroll: up/down  Tabs: tab  Quit: q"
	if m.activeTab == tabExercises {
		help = "Rows: up/down  Tabs: tab  Quit: q"
	}
	return headerStyle.Render(truncateLine(help, m.width))
}

func (m *Model) renderBody() string {
	if m.activeTab == tabExercises {
		if len(m.report.Exercises) == 0 {
			return "No exercises found."
		}
		return tableMutedStyle.Render(m.exTable.View())
	}
	return m.viewport.View()
}

func (m *Model) initExerciseTable() {
	cols, rows := buildExerciseTableData(m.report.Exercises, m.unit)
	m.exTable = table.New(
		table.WithColumns(cols),
		table.WithRows(rows),
		table.WithStyles(exerciseTableStyles()),
	)
}

func exerciseTableStyles() table.Styles {
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

func buildExerciseTableData(histories []model.ExerciseHistory, unit string) ([]table.Column, []table.Row) {
	nameWidth := len("Exercise")
	for _, h := range histories {
		nameWidth = maxInt(nameWidth, runewidth.StringWidth(h.Name))
	}
	columns := []table.Column{
		{Title: "Exercise", Width: minInt(nameWidth, 40)},
		{Title: "Sessions", Width: 8},
		{Title: "Sets", Width: 6},
		{Title: "Volume (" + unit + ")", Width: 14},
		{Title: "Best 1rm (" + unit + ")", Width: 14},
	}
	rows := make([]table.Row, 0, len(histories))
	for _, s := range stats.SummarizeExercises(histories) {
		rows = append(rows, table.Row{
			s.Name,
			fmt.Sprintf("%d", s.Sessions),
			fmt.Sprintf("%d", s.Sets),
			fmt.Sprintf("%.0f", s.Volume),
			fmt.Sprintf("%.1f", s.BestEstimate),
		})
	}
	return columns, rows
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func padLines(s string, width int) string {
	if width <= 0 || s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	return strings.Join(lines, "\n")
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 || runewidth.StringWidth(s) <= width {
		return s
	}
	if width <= 3 {
		return runewidth.Truncate(s, width, "")
	}
	return runewidth.Truncate(s, width, "...")
}
