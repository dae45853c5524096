package stats

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	venuedto "anticafe/internal/modules/venue/dto"
	"anticafe/internal/ui/report"
	"anticafe/internal/ui/theme"
)

var lineStyles = map[report.Kind]lipgloss.Style{
	report.KindHeading: theme.Title,
	report.KindFree:    lipgloss.NewStyle().Foreground(theme.Green),
	report.KindBusy:    lipgloss.NewStyle().Foreground(theme.Peach),
	report.KindSummary: lipgloss.NewStyle().Foreground(theme.Text).Bold(true),
}

// Model shows one statistics report in a scrollable pane.
type Model struct {
	title    string
	currency string
	lines    []report.Line
	err      error
	viewport viewport.Model
	width    int
	height   int
}

func New(title, currency string) Model {
	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().Foreground(theme.Text).Padding(0, 1)
	return Model{title: title, currency: currency, viewport: vp}
}

func (m *Model) SetCurrent(stats venuedto.CurrentStatisticsOutput, err error) {
	m.set(func() []report.Line { return report.CurrentLines(stats, m.currency) }, err)
}

func (m *Model) SetArchive(stats venuedto.ArchivedStatisticsOutput, err error) {
	m.set(func() []report.Line { return report.ArchiveLines(stats, m.currency) }, err)
}

func (m *Model) set(lines func() []report.Line, err error) {
	m.err = err
	if err == nil {
		m.lines = lines()
	}
	m.viewport.SetContent(m.render())
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = size.Width
		m.height = size.Height
		m.viewport.Width = max(size.Width-4, 0)
		m.viewport.Height = max(size.Height-4, 0)
		m.viewport.SetContent(m.render())
		return m, nil
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	return theme.Pane.
		Width(max(m.width-2, 0)).
		Height(max(m.height-2, 0)).
		Render(m.viewport.View())
}

// Text is the report without styling.
func (m Model) Text() string {
	out := make([]string, 0, len(m.lines))
	for _, line := range m.lines {
		out = append(out, line.Text)
	}
	return strings.Join(out, "\n")
}

func (m Model) render() string {
	if m.err != nil {
		return theme.Error.Render(m.title + ": " + m.err.Error())
	}
	if len(m.lines) == 0 {
		return theme.Muted.Render("No data yet")
	}
	var sb strings.Builder
	for _, line := range m.lines {
		sb.WriteString(lineStyles[line.Kind].Render(line.Text) + "\n")
	}
	return sb.String()
}
