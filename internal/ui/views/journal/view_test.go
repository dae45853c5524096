package journal_test

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	venuedto "anticafe/internal/modules/venue/dto"
	apperrors "anticafe/internal/platform/errors"
	"anticafe/internal/ui/views/journal"
)

type fakeJournal struct {
	sessions []venuedto.SessionOutput
	err      error
	limit    int
}

func (f *fakeJournal) History(_ context.Context, limit int) ([]venuedto.SessionOutput, error) {
	f.limit = limit
	return f.sessions, f.err
}

func TestJournalListsSessions(t *testing.T) {
	t.Parallel()
	now := time.Now()
	port := &fakeJournal{sessions: []venuedto.SessionOutput{
		{SessionID: "a", Table: 3, Minutes: 12, Cost: 60, EndedAt: now.Add(-2 * time.Hour)},
	}}
	m := journal.New(port, "rub")
	m, _ = m.Update(tea.WindowSizeMsg{Width: 80, Height: 20})
	m, _ = m.Update(m.Reload()())

	if port.limit != 50 {
		t.Fatalf("expected history limit 50, got %d", port.limit)
	}
	view := m.View()
	for _, fragment := range []string{"Table 3 · 60.0 rub", "12 minute · ended 2 hours ago"} {
		if !strings.Contains(view, fragment) {
			t.Fatalf("view missing %q:\n%s", fragment, view)
		}
	}
}

func TestJournalDisabledIndex(t *testing.T) {
	t.Parallel()
	m := journal.New(&fakeJournal{err: apperrors.ErrJournalDisabled}, "rub")
	m, _ = m.Update(tea.WindowSizeMsg{Width: 80, Height: 20})
	m, _ = m.Update(m.Reload()())
	if !strings.Contains(m.View(), "Journal index is disabled") {
		t.Fatalf("expected disabled notice:\n%s", m.View())
	}
}
