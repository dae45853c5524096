package tables

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	venuedto "anticafe/internal/modules/venue/dto"
	"anticafe/internal/ui/report"
	"anticafe/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type TablesPort interface {
	CurrentStatistics(ctx context.Context) (venuedto.CurrentStatisticsOutput, error)
	Toggle(ctx context.Context, number int) (venuedto.ToggleOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

// RefreshedMsg carries a fresh reading of every table.
type RefreshedMsg struct {
	Stats venuedto.CurrentStatisticsOutput
	Err   error
}

// ToggledMsg reports the outcome of a toggle. Out may be set even when Err
// is, if the session ended but could not be journaled.
type ToggledMsg struct {
	Number int
	Out    venuedto.ToggleOutput
	Err    error
}

// ─── layout ──────────────────────────────────────────────────────────────────

const (
	cellWidth  = 22
	cellHeight = 4
	maxColumns = 5
)

type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Left   key.Binding
	Right  key.Binding
	Toggle key.Binding
}

var keys = keyMap{
	Up:     key.NewBinding(key.WithKeys("up", "k")),
	Down:   key.NewBinding(key.WithKeys("down", "j")),
	Left:   key.NewBinding(key.WithKeys("left", "h")),
	Right:  key.NewBinding(key.WithKeys("right", "l")),
	Toggle: key.NewBinding(key.WithKeys("enter", " ")),
}

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port     TablesPort
	currency string
	stats    venuedto.CurrentStatisticsOutput
	cursor   int
	err      error
	originY  int
	width    int
	height   int
}

func New(port TablesPort, currency string) Model {
	return Model{port: port, currency: currency}
}

func (m Model) Init() tea.Cmd {
	return m.Refresh()
}

// SetOrigin tells the view where its top edge sits on screen, for mouse
// hit-testing.
func (m *Model) SetOrigin(y int) { m.originY = y }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case RefreshedMsg:
		m.err = msg.Err
		if msg.Err == nil {
			m.stats = msg.Stats
			if m.cursor >= len(m.stats.Tables) {
				m.cursor = max(len(m.stats.Tables)-1, 0)
			}
		}

	case tea.KeyMsg:
		cols := m.columns()
		switch {
		case key.Matches(msg, keys.Left):
			m.move(-1)
		case key.Matches(msg, keys.Right):
			m.move(1)
		case key.Matches(msg, keys.Up):
			m.move(-cols)
		case key.Matches(msg, keys.Down):
			m.move(cols)
		case key.Matches(msg, keys.Toggle):
			if n, ok := m.Selected(); ok {
				return m, m.ToggleCmd(n)
			}
		}

	case tea.MouseMsg:
		if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		if idx, ok := m.CellAt(msg.X, msg.Y); ok {
			m.cursor = idx
			return m, m.ToggleCmd(m.stats.Tables[idx].Number)
		}
	}
	return m, nil
}

// Selected returns the table number under the cursor.
func (m Model) Selected() (int, bool) {
	if m.cursor < 0 || m.cursor >= len(m.stats.Tables) {
		return 0, false
	}
	return m.stats.Tables[m.cursor].Number, true
}

// CellAt maps screen coordinates to a table index.
func (m Model) CellAt(x, y int) (int, bool) {
	y -= m.originY
	if x < 0 || y < 0 {
		return 0, false
	}
	col, row := x/cellWidth, y/cellHeight
	cols := m.columns()
	if col >= cols {
		return 0, false
	}
	idx := row*cols + col
	if idx >= len(m.stats.Tables) {
		return 0, false
	}
	return idx, true
}

func (m Model) View() string {
	if m.err != nil {
		return theme.Error.Render("tables: " + m.err.Error())
	}
	if len(m.stats.Tables) == 0 {
		return theme.Muted.Render("Loading tables…")
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.renderGrid(), "", m.renderDetail())
}

// ─── commands ────────────────────────────────────────────────────────────────

func (m Model) Refresh() tea.Cmd {
	return func() tea.Msg {
		stats, err := m.port.CurrentStatistics(context.Background())
		return RefreshedMsg{Stats: stats, Err: err}
	}
}

func (m Model) ToggleCmd(number int) tea.Cmd {
	return func() tea.Msg {
		out, err := m.port.Toggle(context.Background(), number)
		return ToggledMsg{Number: number, Out: out, Err: err}
	}
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m Model) columns() int {
	cols := maxColumns
	if m.width > 0 {
		cols = min(maxColumns, max(m.width/cellWidth, 1))
	}
	return cols
}

func (m *Model) move(delta int) {
	next := m.cursor + delta
	if next >= 0 && next < len(m.stats.Tables) {
		m.cursor = next
	}
}

func (m Model) renderGrid() string {
	cols := m.columns()
	var rows []string
	var row []string
	for i, table := range m.stats.Tables {
		row = append(row, m.renderCell(i, table))
		if len(row) == cols || i == len(m.stats.Tables)-1 {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
			row = nil
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m Model) renderCell(idx int, table venuedto.TableOutput) string {
	style := theme.TableFree
	state := "free"
	if table.Occupied {
		style = theme.TableBusy
		state = fmt.Sprintf("%d min · %s", table.Minutes, report.Amount(table.Cost))
	}
	if idx == m.cursor {
		style = style.BorderStyle(lipgloss.ThickBorder()).BorderForeground(theme.Lavender)
	}
	return style.Width(cellWidth - 2).Render(fmt.Sprintf("Table %d\n%s", table.Number, state))
}

func (m Model) renderDetail() string {
	if m.cursor >= len(m.stats.Tables) {
		return ""
	}
	t := m.stats.Tables[m.cursor]
	var sb strings.Builder
	sb.WriteString(theme.Title.Render(fmt.Sprintf("Table %d", t.Number)) + "\n")
	if t.Occupied {
		sb.WriteString(theme.Muted.Render("status:  ") + theme.Hot.Render("occupied") + "\n")
		sb.WriteString(theme.Muted.Render("since:   ") + humanize.RelTime(t.StartedAt, m.stats.At, "ago", "from now") + "\n")
	} else {
		sb.WriteString(theme.Muted.Render("status:  ") + "free\n")
		if !t.EndedAt.IsZero() {
			sb.WriteString(theme.Muted.Render("freed:   ") + humanize.RelTime(t.EndedAt, m.stats.At, "ago", "from now") + "\n")
		}
	}
	sb.WriteString(fmt.Sprintf("%s%d minute\n", theme.Muted.Render("time:    "), t.Minutes))
	sb.WriteString(fmt.Sprintf("%s%s %s\n", theme.Muted.Render("sum:     "), report.Amount(t.Cost), m.currency))
	sb.WriteString(fmt.Sprintf("%s%s %s/min\n", theme.Muted.Render("rate:    "), report.Amount(t.Rate), m.currency))
	sb.WriteString("\n" + theme.Muted.Render("enter/space/click: toggle  ←↑↓→: move"))
	return theme.Pane.Render(sb.String())
}
