package out

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"anticafe/internal/modules/venue/domain"
	venueout "anticafe/internal/modules/venue/port/out"
	"anticafe/internal/platform/markdown"
)

const noteSchemaVersion = 1

type sessionNote struct {
	SchemaVersion int     `yaml:"schema_version"`
	ID            string  `yaml:"id"`
	Table         int     `yaml:"table"`
	StartedAt     string  `yaml:"started_at"`
	EndedAt       string  `yaml:"ended_at"`
	Minutes       int64   `yaml:"minutes"`
	Rate          float64 `yaml:"rate_per_minute"`
	Cost          float64 `yaml:"cost"`
}

// VaultSessionStore writes completed sessions as markdown notes under
// <dir>/sessions/YYYY/MM/DD.
type VaultSessionStore struct {
	dir      string
	currency string
}

func NewVaultSessionStore(dir, currency string) *VaultSessionStore {
	return &VaultSessionStore{dir: dir, currency: currency}
}

func (s *VaultSessionStore) Save(_ context.Context, record domain.SessionRecord) (string, error) {
	date := record.StartedAt()
	dir := filepath.Join(s.dir, "sessions", date.Format("2006"), date.Format("01"), date.Format("02"))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create session dir: %w", err)
	}
	name := fmt.Sprintf("%s-table-%02d-%s.md", date.Format("150405"), record.TableNumber(), shortID(record.ID()))
	path := filepath.Join(dir, name)

	meta := sessionNote{
		SchemaVersion: noteSchemaVersion,
		ID:            record.ID(),
		Table:         record.TableNumber(),
		StartedAt:     record.StartedAt().Format(time.RFC3339Nano),
		EndedAt:       record.EndedAt().Format(time.RFC3339Nano),
		Minutes:       record.Minutes(),
		Rate:          record.Rate(),
		Cost:          record.Cost(),
	}
	body := fmt.Sprintf("# Table %d\n\n- Time: %d minute\n- Sum: %.1f %s\n", record.TableNumber(), record.Minutes(), record.Cost(), s.currency)
	rendered, err := markdown.Render(meta, body)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(rendered), 0o644); err != nil {
		return "", fmt.Errorf("write session note: %w", err)
	}
	return path, nil
}

// shortID keeps note names unique when a table restarts within a second.
func shortID(id string) string {
	id = strings.ReplaceAll(id, "-", "")
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// List reads every session note back, oldest first.
func (s *VaultSessionStore) List(_ context.Context) ([]venueout.JournalEntry, error) {
	root := filepath.Join(s.dir, "sessions")
	paths := []string{}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ".md") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("walk session notes: %w", err)
	}
	sort.Strings(paths)

	out := make([]venueout.JournalEntry, 0, len(paths))
	for _, path := range paths {
		content, readErr := os.ReadFile(path)
		if readErr != nil {
			return nil, fmt.Errorf("read %s: %w", path, readErr)
		}
		note := sessionNote{}
		if _, decodeErr := markdown.Decode(string(content), &note); decodeErr != nil {
			return nil, fmt.Errorf("parse %s: %w", path, decodeErr)
		}
		entry, convErr := note.entry(path)
		if convErr != nil {
			return nil, fmt.Errorf("decode session %s: %w", path, convErr)
		}
		out = append(out, entry)
	}
	return out, nil
}

func (n sessionNote) entry(path string) (venueout.JournalEntry, error) {
	if n.ID == "" || n.Table <= 0 {
		return venueout.JournalEntry{}, fmt.Errorf("missing id or table")
	}
	started, err := time.Parse(time.RFC3339Nano, n.StartedAt)
	if err != nil {
		return venueout.JournalEntry{}, fmt.Errorf("started_at: %w", err)
	}
	ended, err := time.Parse(time.RFC3339Nano, n.EndedAt)
	if err != nil {
		return venueout.JournalEntry{}, fmt.Errorf("ended_at: %w", err)
	}
	return venueout.JournalEntry{
		SessionID: n.ID,
		Table:     n.Table,
		StartedAt: started,
		EndedAt:   ended,
		Minutes:   n.Minutes,
		Rate:      n.Rate,
		Cost:      n.Cost,
		Path:      path,
	}, nil
}
