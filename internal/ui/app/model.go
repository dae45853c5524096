package app

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	venuedto "anticafe/internal/modules/venue/dto"
	"anticafe/internal/ui/components"
	"anticafe/internal/ui/report"
	"anticafe/internal/ui/theme"
	journalview "anticafe/internal/ui/views/journal"
	statsview "anticafe/internal/ui/views/stats"
	tablesview "anticafe/internal/ui/views/tables"
)

// ─── ports ───────────────────────────────────────────────────────────────────

type venuePort interface {
	Toggle(ctx context.Context, number int) (venuedto.ToggleOutput, error)
	Start(ctx context.Context, number int) (venuedto.ToggleOutput, error)
	End(ctx context.Context, number int) (venuedto.ToggleOutput, error)
	Current(ctx context.Context) (venuedto.CurrentStatisticsOutput, error)
	Archive(ctx context.Context) (venuedto.ArchivedStatisticsOutput, error)
	History(ctx context.Context, limit int) ([]venuedto.SessionOutput, error)
}

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabTables tabID = iota
	tabCurrent
	tabArchive
	tabJournal
	tabCount
)

var tabLabels = [tabCount]string{
	"Tables", "Current", "Archive", "Journal",
}

// tabBarHeight is the number of screen rows above the active view.
const tabBarHeight = 2

// refreshInterval drives the live minutes and costs.
const refreshInterval = time.Second

// hints must stay in sync with the switch in executePalette.
var paletteHints = []string{
	"table:toggle <n>",
	"table:start <n>",
	"table:end <n>",
	"stats:current",
	"stats:archive",
	"journal",
	"journal:reload",
}

// ─── async messages ───────────────────────────────────────────────────────────

type tickMsg time.Time

type archiveLoadedMsg struct {
	stats venuedto.ArchivedStatisticsOutput
	err   error
}

// ─── key bindings ─────────────────────────────────────────────────────────────

type keyMap struct {
	Tab     key.Binding
	Toggle  key.Binding
	Direct  key.Binding
	Move    key.Binding
	Help    key.Binding
	Palette key.Binding
	Quit    key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:     key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "next tab")),
		Toggle:  key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter/click", "toggle table")),
		Direct:  key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9", "0"), key.WithHelp("1-9,0", "toggle table n")),
		Move:    key.NewBinding(key.WithKeys("up", "down", "left", "right"), key.WithHelp("←↑↓→", "select table")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Help, k.Palette, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.Toggle, k.Direct, k.Move},
		{k.Help, k.Palette, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. It owns tab routing, the refresh tick,
// the help overlay and the command palette. Venue operations go through
// venuePort; rendering is delegated to sub-views.
type Model struct {
	venue    venuePort
	currency string

	tablesView  tablesview.Model
	currentView statsview.Model
	archiveView statsview.Model
	journalView journalview.Model

	current   venuedto.CurrentStatisticsOutput
	activeTab tabID
	keys      keyMap
	help      help.Model
	showHelp  bool
	palette   components.Palette
	status    string
	width     int
	height    int
}

// ─── constructor ─────────────────────────────────────────────────────────────

func NewModel(venue venuePort, currency string) Model {
	tables := tablesview.New(tablesPortBridge{p: venue}, currency)
	tables.SetOrigin(tabBarHeight)
	return Model{
		venue:       venue,
		currency:    currency,
		tablesView:  tables,
		currentView: statsview.New("Current", currency),
		archiveView: statsview.New("Archive", currency),
		journalView: journalview.New(journalPortBridge{p: venue}, currency),
		activeTab:   tabTables,
		keys:        defaultKeys(),
		help:        help.New(),
		palette:     components.NewPalette(paletteHints),
		status:      "ready",
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.tablesView.Init(),
		m.journalView.Init(),
		m.loadArchiveCmd(),
		tick(),
	)
}

// ─── update ───────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// The palette intercepts all input while open.
	if m.palette.Visible() {
		if _, isKey := msg.(tea.KeyMsg); isKey {
			var cmd tea.Cmd
			m.palette, cmd = m.palette.Update(msg)
			return m, cmd
		}
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		m.propagateSize()
		return m, nil

	case tickMsg:
		return m, tea.Batch(m.tablesView.Refresh(), tick())

	case tablesview.RefreshedMsg:
		if msg.Err == nil {
			m.current = msg.Stats
		}
		m.currentView.SetCurrent(msg.Stats, msg.Err)
		var cmd tea.Cmd
		m.tablesView, cmd = m.tablesView.Update(msg)
		return m, cmd

	case tablesview.ToggledMsg:
		m.status = toggleStatus(msg)
		cmds = append(cmds, m.tablesView.Refresh())
		if msg.Out.Session != nil {
			cmds = append(cmds, m.loadArchiveCmd(), m.journalView.Reload())
		}
		return m, tea.Batch(cmds...)

	case archiveLoadedMsg:
		m.archiveView.SetArchive(msg.stats, msg.err)
		return m, nil

	case journalview.LoadedMsg:
		var cmd tea.Cmd
		m.journalView, cmd = m.journalView.Update(msg)
		return m, cmd

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"
		return m, nil

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}

		// Yield to the journal list while its filter is open.
		if m.activeTab == tabJournal && m.journalView.Filtering() {
			break
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
			return m, nil
		case "shift+tab":
			m.activeTab = (m.activeTab + tabCount - 1) % tabCount
			return m, nil
		case "?":
			m.showHelp = !m.showHelp
			return m, nil
		case ":":
			return m, m.palette.Open()
		case "1", "2", "3", "4", "5", "6", "7", "8", "9", "0":
			if m.activeTab == tabTables {
				n, _ := strconv.Atoi(msg.String())
				if n == 0 {
					n = 10
				}
				return m, m.tablesView.ToggleCmd(n)
			}
		}

	case tea.MouseMsg:
		if m.activeTab != tabTables {
			return m, nil
		}
	}

	// Propagate the message to the active tab's sub-view.
	var tabCmd tea.Cmd
	switch m.activeTab {
	case tabTables:
		m.tablesView, tabCmd = m.tablesView.Update(msg)
	case tabCurrent:
		m.currentView, tabCmd = m.currentView.Update(msg)
	case tabArchive:
		m.archiveView, tabCmd = m.archiveView.Update(msg)
	case tabJournal:
		m.journalView, tabCmd = m.journalView.Update(msg)
	}
	cmds = append(cmds, tabCmd)

	return m, tea.Batch(cmds...)
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()
	contentH := max(m.height-lipgloss.Height(tabBar)-lipgloss.Height(statusBar), 1)

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).
			Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH,
			lipgloss.Center, lipgloss.Center, m.palette.View())
	default:
		content = lipgloss.NewStyle().Height(contentH).Render(m.activeView())
	}

	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

func (m Model) activeView() string {
	switch m.activeTab {
	case tabTables:
		return m.tablesView.View()
	case tabCurrent:
		return m.currentView.View()
	case tabArchive:
		return m.archiveView.View()
	case tabJournal:
		return m.journalView.View()
	}
	return ""
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		label := tabLabels[i]
		if i == m.activeTab {
			parts[i] = theme.Hot.Render(" " + label + " ")
		} else {
			parts[i] = theme.Muted.Render(" " + label + " ")
		}
	}
	sep := theme.Muted.Render(" │ ")
	bar := "anticafe  " + strings.Join(parts, sep)
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	if occupied := countOccupied(m.current.Tables); occupied > 0 {
		live := fmt.Sprintf("● %d/%d occupied · %s %s", occupied, len(m.current.Tables), report.Amount(m.current.Total), m.currency)
		left = theme.Hot.Render(live) + "  " + left
	}
	right := theme.Muted.Render("?:help  tab:switch  :::palette  q:quit")
	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

// ─── palette execution ────────────────────────────────────────────────────────

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return m, nil
	}

	switch parts[0] {
	case "table:toggle", "table:start", "table:end":
		if len(parts) != 2 {
			m.status = "usage: " + parts[0] + " <n>"
			return m, nil
		}
		n, err := strconv.Atoi(parts[1])
		if err != nil {
			m.status = "invalid table number: " + parts[1]
			return m, nil
		}
		m.activeTab = tabTables
		return m, m.transitionCmd(parts[0], n)

	case "stats:current":
		m.activeTab = tabCurrent
		return m, m.tablesView.Refresh()

	case "stats:archive":
		m.activeTab = tabArchive
		return m, m.loadArchiveCmd()

	case "journal":
		m.activeTab = tabJournal
		return m, nil

	case "journal:reload":
		m.activeTab = tabJournal
		return m, m.journalView.Reload()

	default:
		m.status = "unknown command: " + parts[0]
	}
	return m, nil
}

// ─── helpers ─────────────────────────────────────────────────────────────────

func (m *Model) propagateSize() {
	sz := tea.WindowSizeMsg{Width: m.width, Height: m.height - 4}
	m.tablesView, _ = m.tablesView.Update(sz)
	m.currentView, _ = m.currentView.Update(sz)
	m.archiveView, _ = m.archiveView.Update(sz)
	m.journalView, _ = m.journalView.Update(sz)
}

func countOccupied(tables []venuedto.TableOutput) int {
	n := 0
	for _, t := range tables {
		if t.Occupied {
			n++
		}
	}
	return n
}

func toggleStatus(msg tablesview.ToggledMsg) string {
	switch {
	case msg.Out.Table.Number == 0 && msg.Err != nil:
		return fmt.Sprintf("table %d: %v", msg.Number, msg.Err)
	case msg.Out.Session != nil:
		status := fmt.Sprintf("Table %d is free. %d minute, %s", msg.Out.Table.Number, msg.Out.Session.Minutes, report.Amount(msg.Out.Session.Cost))
		if msg.Err != nil {
			status += " (journal: " + msg.Err.Error() + ")"
		}
		return status
	case msg.Out.Restarted:
		return fmt.Sprintf("Table %d restarted; the open session was discarded unbilled.", msg.Out.Table.Number)
	default:
		return fmt.Sprintf("Table %d is occupied.", msg.Out.Table.Number)
	}
}

// ─── async commands ───────────────────────────────────────────────────────────

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) loadArchiveCmd() tea.Cmd {
	return func() tea.Msg {
		stats, err := m.venue.Archive(context.Background())
		return archiveLoadedMsg{stats: stats, err: err}
	}
}

func (m Model) transitionCmd(command string, number int) tea.Cmd {
	return func() tea.Msg {
		var (
			out venuedto.ToggleOutput
			err error
		)
		switch command {
		case "table:start":
			out, err = m.venue.Start(context.Background(), number)
		case "table:end":
			out, err = m.venue.End(context.Background(), number)
		default:
			out, err = m.venue.Toggle(context.Background(), number)
		}
		return tablesview.ToggledMsg{Number: number, Out: out, Err: err}
	}
}

// ─── port bridges ─────────────────────────────────────────────────────────────
// Each bridge narrows venuePort to the interface a sub-view needs.

type tablesPortBridge struct{ p venuePort }

func (b tablesPortBridge) CurrentStatistics(ctx context.Context) (venuedto.CurrentStatisticsOutput, error) {
	return b.p.Current(ctx)
}
func (b tablesPortBridge) Toggle(ctx context.Context, number int) (venuedto.ToggleOutput, error) {
	return b.p.Toggle(ctx, number)
}

type journalPortBridge struct{ p venuePort }

func (b journalPortBridge) History(ctx context.Context, limit int) ([]venuedto.SessionOutput, error) {
	return b.p.History(ctx, limit)
}
