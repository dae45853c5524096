package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"anticafe/internal/platform/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.Venue.Tables)
	assert.Equal(t, 5.0, cfg.Venue.RatePerMinute)
	assert.Equal(t, "rub", cfg.Venue.CurrencyLabel)
	assert.Equal(t, config.IndexSQLite, cfg.Journal.Index)
	assert.Equal(t, filepath.Join(".", ".anticafe", "anticafe.db"), cfg.Journal.DBPath)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Empty(t, cfg.HTTP.Addr)
}

func TestLoadFileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "anticafe.yaml")
	content := "venue:\n  tables: 4\n  rate_per_minute: 2.5\njournal:\n  dir: " + dir + "\n  index: none\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv("ANTICAFE_VENUE_TABLES", "6")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 6, cfg.Venue.Tables)
	assert.Equal(t, 2.5, cfg.Venue.RatePerMinute)
	assert.Equal(t, config.IndexNone, cfg.Journal.Index)
	assert.Equal(t, filepath.Join(dir, ".anticafe", "anticafe.db"), cfg.Journal.DBPath)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"no tables":         "venue:\n  tables: 0\n",
		"negative rate":     "venue:\n  rate_per_minute: -1\n",
		"bad index":         "journal:\n  index: mongo\n",
		"postgres sans dsn": "journal:\n  index: postgres\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "anticafe.yaml")
			require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
			_, err := config.Load(path)
			require.Error(t, err)
		})
	}
}

func TestLoadMissingExplicitFileFails(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestResolvePath(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "anticafe.yaml")
	assert.Empty(t, config.ResolvePath(missing, false))
	assert.Equal(t, missing, config.ResolvePath(missing, true))

	require.NoError(t, os.WriteFile(missing, []byte("venue:\n  tables: 2\n"), 0o644))
	assert.Equal(t, missing, config.ResolvePath(missing, false))
}

func TestLoadDotEnv(t *testing.T) {
	require.NoError(t, config.LoadDotEnv(filepath.Join(t.TempDir(), ".env")))

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("ANTICAFE_TEST_DOTENV=loaded\n"), 0o644))
	t.Setenv("ANTICAFE_TEST_DOTENV", "")
	require.NoError(t, os.Unsetenv("ANTICAFE_TEST_DOTENV"))
	require.NoError(t, config.LoadDotEnv(path))
	assert.Equal(t, "loaded", os.Getenv("ANTICAFE_TEST_DOTENV"))
}
