package journal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	venuedto "anticafe/internal/modules/venue/dto"
	apperrors "anticafe/internal/platform/errors"
	"anticafe/internal/ui/report"
	"anticafe/internal/ui/theme"
)

const historyLimit = 50

// ─── port ────────────────────────────────────────────────────────────────────

type JournalPort interface {
	History(ctx context.Context, limit int) ([]venuedto.SessionOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type LoadedMsg struct {
	Sessions []venuedto.SessionOutput
	At       time.Time
	Err      error
}

// ─── list item ───────────────────────────────────────────────────────────────

type sessionItem struct {
	session  venuedto.SessionOutput
	currency string
	now      time.Time
}

func (i sessionItem) Title() string {
	return fmt.Sprintf("Table %d · %s %s", i.session.Table, report.Amount(i.session.Cost), i.currency)
}

func (i sessionItem) Description() string {
	return fmt.Sprintf("%d minute · ended %s", i.session.Minutes, humanize.RelTime(i.session.EndedAt, i.now, "ago", "from now"))
}

func (i sessionItem) FilterValue() string { return fmt.Sprintf("table %d", i.session.Table) }

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port     JournalPort
	currency string
	list     list.Model
	spinner  spinner.Model
	loading  bool
	disabled bool
	width    int
	height   int
}

func New(port JournalPort, currency string) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Peach).BorderForeground(theme.Peach)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Peach)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Journal"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Peach)

	return Model{port: port, currency: currency, list: l, spinner: sp, loading: true}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.Reload(), m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width, msg.Height)

	case LoadedMsg:
		m.loading = false
		m.disabled = errors.Is(msg.Err, apperrors.ErrJournalDisabled)
		if msg.Err != nil {
			if !m.disabled {
				m.list.Title = "Journal · " + msg.Err.Error()
			}
			return m, nil
		}
		m.list.Title = "Journal"
		items := make([]list.Item, len(msg.Sessions))
		for i, s := range msg.Sessions {
			items[i] = sessionItem{session: s, currency: m.currency, now: msg.At}
		}
		cmds = append(cmds, m.list.SetItems(items))

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	if !m.loading {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	switch {
	case m.loading:
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Loading journal…")
	case m.disabled:
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			theme.Muted.Render("Journal index is disabled (journal.index: none)"))
	}
	return m.list.View()
}

// Filtering reports whether the list's search filter is currently active.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m Model) Reload() tea.Cmd {
	return func() tea.Msg {
		sessions, err := m.port.History(context.Background(), historyLimit)
		return LoadedMsg{Sessions: sessions, At: time.Now(), Err: err}
	}
}
