package components_test

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"anticafe/internal/ui/components"
)

func typeInto(p components.Palette, text string) components.Palette {
	for _, r := range text {
		p, _ = p.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return p
}

func TestPaletteSubmitsTrimmedInput(t *testing.T) {
	t.Parallel()
	p := components.NewPalette([]string{"table:toggle <n>", "stats:current"})
	p.Open()
	if !p.Visible() {
		t.Fatalf("palette must be visible after open")
	}
	p = typeInto(p, " table:toggle 3 ")
	p, cmd := p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if p.Visible() {
		t.Fatalf("palette must close on enter")
	}
	msg, ok := cmd().(components.PaletteSubmitMsg)
	if !ok || msg.Input != "table:toggle 3" {
		t.Fatalf("unexpected submit message: %#v", msg)
	}
}

func TestPaletteCancel(t *testing.T) {
	t.Parallel()
	p := components.NewPalette(nil)
	p.Open()
	p, cmd := p.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if p.Visible() {
		t.Fatalf("palette must close on esc")
	}
	if _, ok := cmd().(components.PaletteCancelMsg); !ok {
		t.Fatalf("expected cancel message")
	}
}

func TestPaletteMatchesByPrefix(t *testing.T) {
	t.Parallel()
	p := components.NewPalette([]string{"table:toggle <n>", "table:start <n>", "stats:current", "stats:archive"})
	p.Open()
	if got := len(p.Matching()); got != 4 {
		t.Fatalf("expected every hint for empty input, got %d", got)
	}
	p = typeInto(p, "stats")
	matching := p.Matching()
	if len(matching) != 2 || matching[0] != "stats:current" {
		t.Fatalf("unexpected matches: %v", matching)
	}
}

func submit(p components.Palette, line string) components.Palette {
	p.Open()
	p = typeInto(p, line)
	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return p
}

func TestPaletteTabCompletesCommandWord(t *testing.T) {
	t.Parallel()
	p := components.NewPalette([]string{"table:toggle <n>", "table:start <n>", "stats:current"})
	p.Open()
	p = typeInto(p, "table:s")
	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyTab})
	p = typeInto(p, "4")
	p, cmd := p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if msg := cmd().(components.PaletteSubmitMsg); msg.Input != "table:start 4" {
		t.Fatalf("unexpected completion %q", msg.Input)
	}
	if p.Visible() {
		t.Fatalf("palette must close on enter")
	}
}

func TestPaletteRecallsHistoryNewestFirst(t *testing.T) {
	t.Parallel()
	p := components.NewPalette(nil)
	p = submit(p, "table:toggle 1")
	p = submit(p, "stats:archive")
	p = submit(p, "table:toggle 1")
	if got := p.History(); len(got) != 2 || got[0] != "table:toggle 1" || got[1] != "stats:archive" {
		t.Fatalf("unexpected history %v", got)
	}

	p.Open()
	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyUp})
	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyUp})
	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyUp})
	p, cmd := p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if msg := cmd().(components.PaletteSubmitMsg); msg.Input != "stats:archive" {
		t.Fatalf("expected oldest entry, got %q", msg.Input)
	}

	p.Open()
	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyUp})
	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyDown})
	_, cmd = p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if msg := cmd().(components.PaletteSubmitMsg); msg.Input != "" {
		t.Fatalf("stepping past the newest entry must clear input, got %q", msg.Input)
	}
}
