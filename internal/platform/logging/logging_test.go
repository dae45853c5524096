package logging_test

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"anticafe/internal/platform/config"
	"anticafe/internal/platform/logging"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()
	cases := map[string]zerolog.Level{
		"debug":   zerolog.DebugLevel,
		"INFO":    zerolog.InfoLevel,
		"warn":    zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"off":     zerolog.Disabled,
		"unknown": zerolog.InfoLevel,
	}
	for in, want := range cases {
		if got := logging.ParseLevel(in); got != want {
			t.Fatalf("level %q: expected %s, got %s", in, want, got)
		}
	}
}

func TestNewJSONLoggerRespectsLevel(t *testing.T) {
	t.Parallel()
	buf := &bytes.Buffer{}
	logger := logging.New(config.LoggingConfig{Level: "warn", Format: "json"}, buf)
	logger.Info().Msg("hidden")
	logger.Warn().Int("table", 3).Msg("restarted")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected exactly one line, got %q", buf.String())
	}
	entry := map[string]any{}
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if entry["message"] != "restarted" || entry["table"] != float64(3) {
		t.Fatalf("unexpected entry: %v", entry)
	}
}

func TestOpenFileCreatesDirectory(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "logs", "anticafe.log")
	f, err := logging.OpenFile(config.LoggingConfig{File: path})
	if err != nil {
		t.Fatalf("open log file: %v", err)
	}
	defer func() { _ = f.Close() }()
	if _, err := logging.OpenFile(config.LoggingConfig{}); err == nil {
		t.Fatalf("empty file name should fail")
	}
}
