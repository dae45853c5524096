package components

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"anticafe/internal/ui/theme"
)

// PaletteSubmitMsg carries the confirmed command line.
type PaletteSubmitMsg struct{ Input string }

type PaletteCancelMsg struct{}

var (
	paletteStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Peach).
			Background(theme.Mantle).
			Foreground(theme.Text).
			Padding(0, 1)

	hintStyle    = lipgloss.NewStyle().Foreground(theme.Subtext0)
	hintHotStyle = lipgloss.NewStyle().Foreground(theme.Peach)
	recallStyle  = lipgloss.NewStyle().Foreground(theme.Lavender).Italic(true)
)

const (
	maxHints   = 6
	maxHistory = 20

	// argMarker starts the argument placeholder in a hint ("<n>").
	argMarker = "<"
)

// Palette is the ":" command line. Tab completes the first matching hint,
// up and down walk previously submitted commands.
type Palette struct {
	input   textinput.Model
	hints   []string
	history []string
	recall  int
	visible bool
	width   int
}

func NewPalette(hints []string) Palette {
	ti := textinput.New()
	ti.Placeholder = "table:toggle 3"
	ti.CharLimit = 64
	return Palette{input: ti, hints: hints, recall: -1}
}

func (p Palette) Visible() bool { return p.visible }

// Open shows an empty palette and returns the focus command.
func (p *Palette) Open() tea.Cmd {
	p.visible = true
	p.recall = -1
	p.input.SetValue("")
	return p.input.Focus()
}

func (p *Palette) SetWidth(w int) { p.width = w }

func (p *Palette) close() {
	p.visible = false
	p.input.Blur()
}

func (p Palette) Update(msg tea.Msg) (Palette, tea.Cmd) {
	if !p.visible {
		return p, nil
	}
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.Type {
		case tea.KeyEsc:
			p.close()
			return p, func() tea.Msg { return PaletteCancelMsg{} }
		case tea.KeyEnter:
			line := strings.TrimSpace(p.input.Value())
			p.close()
			p.remember(line)
			return p, func() tea.Msg { return PaletteSubmitMsg{Input: line} }
		case tea.KeyTab:
			p.complete()
			return p, nil
		case tea.KeyUp:
			p.step(1)
			return p, nil
		case tea.KeyDown:
			p.step(-1)
			return p, nil
		}
	}
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	p.recall = -1
	return p, cmd
}

// remember keeps the newest command first and drops repeats.
func (p *Palette) remember(line string) {
	if line == "" {
		return
	}
	kept := []string{line}
	for _, h := range p.history {
		if h != line {
			kept = append(kept, h)
		}
	}
	if len(kept) > maxHistory {
		kept = kept[:maxHistory]
	}
	p.history = kept
}

// step moves through history; positive is older. Stepping below the newest
// entry clears the input.
func (p *Palette) step(delta int) {
	next := p.recall + delta
	switch {
	case next < 0:
		p.recall = -1
		p.input.SetValue("")
	case next < len(p.history):
		p.recall = next
		p.input.SetValue(p.history[next])
	default:
		return
	}
	p.input.CursorEnd()
}

// complete replaces the input with the command word of the first match,
// leaving the cursor where an argument goes.
func (p *Palette) complete() {
	matching := p.Matching()
	if len(matching) == 0 {
		return
	}
	hint := matching[0]
	if i := strings.Index(hint, argMarker); i >= 0 {
		hint = hint[:i]
	}
	p.input.SetValue(hint)
	p.input.CursorEnd()
}

// Matching returns up to maxHints hints starting with the current command word.
func (p Palette) Matching() []string {
	prefix := strings.ToLower(strings.TrimSpace(p.input.Value()))
	if word, _, found := strings.Cut(prefix, " "); found {
		prefix = word
	}
	var matching []string
	for _, h := range p.hints {
		if prefix == "" || strings.HasPrefix(h, prefix) {
			matching = append(matching, h)
			if len(matching) == maxHints {
				break
			}
		}
	}
	return matching
}

// History returns submitted commands, newest first.
func (p Palette) History() []string {
	return append([]string(nil), p.history...)
}

func (p Palette) View() string {
	if !p.visible {
		return ""
	}
	var sb strings.Builder
	title := "Command"
	if p.recall >= 0 {
		title += recallStyle.Render("  history " + strconv.Itoa(p.recall+1) + "/" + strconv.Itoa(len(p.history)))
	}
	sb.WriteString(theme.Title.Render(title) + "\n")
	sb.WriteString(": " + p.input.View() + "\n")
	if matching := p.Matching(); len(matching) > 0 {
		sb.WriteString("\n")
		for i, h := range matching {
			style := hintStyle
			if i == 0 {
				style = hintHotStyle
			}
			sb.WriteString(style.Render("  "+h) + "\n")
		}
		sb.WriteString(hintStyle.Render("  tab complete · ↑↓ history"))
	}

	w := p.width
	if w < 20 {
		w = 64
	}
	return paletteStyle.Width(w - 2).Render(sb.String())
}
