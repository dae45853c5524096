package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DefaultFile = "anticafe.yaml"
	EnvPrefix   = "ANTICAFE"
)

// Journal index backends.
const (
	IndexSQLite   = "sqlite"
	IndexRedis    = "redis"
	IndexPostgres = "postgres"
	IndexNone     = "none"
)

type Config struct {
	Venue    VenueConfig    `mapstructure:"venue" yaml:"venue"`
	Journal  JournalConfig  `mapstructure:"journal" yaml:"journal"`
	Redis    RedisConfig    `mapstructure:"redis" yaml:"redis"`
	Postgres PostgresConfig `mapstructure:"postgres" yaml:"postgres"`
	Logging  LoggingConfig  `mapstructure:"logging" yaml:"logging"`
	HTTP     HTTPConfig     `mapstructure:"http" yaml:"http"`
}

type VenueConfig struct {
	Tables        int     `mapstructure:"tables" yaml:"tables"`
	RatePerMinute float64 `mapstructure:"rate_per_minute" yaml:"rate_per_minute"`
	CurrencyLabel string  `mapstructure:"currency_label" yaml:"currency_label"`
}

// JournalConfig controls where completed sessions are written.
// Session notes always go under Dir; Index selects the queryable projection.
type JournalConfig struct {
	Dir    string `mapstructure:"dir" yaml:"dir"`
	Index  string `mapstructure:"index" yaml:"index"`
	DBPath string `mapstructure:"db_path" yaml:"db_path"`
}

type RedisConfig struct {
	Addr      string `mapstructure:"addr" yaml:"addr"`
	Password  string `mapstructure:"password" yaml:"password"`
	DB        int    `mapstructure:"db" yaml:"db"`
	KeyPrefix string `mapstructure:"key_prefix" yaml:"key_prefix"`
}

type PostgresConfig struct {
	DSN string `mapstructure:"dsn" yaml:"dsn"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
	File   string `mapstructure:"file" yaml:"file"`
}

type HTTPConfig struct {
	Addr string `mapstructure:"addr" yaml:"addr"`
}

// Load reads configuration from the YAML file at path (skipped when path is
// empty) and from ANTICAFE_* environment variables.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// ResolvePath returns the config file to read. A missing default file is not
// an error; a missing explicit file is left for Load to report.
func ResolvePath(path string, explicit bool) string {
	if explicit {
		return path
	}
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

// LoadDotEnv exports variables from a .env file if one exists.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("venue.tables", 10)
	v.SetDefault("venue.rate_per_minute", 5.0)
	v.SetDefault("venue.currency_label", "rub")

	v.SetDefault("journal.dir", ".")
	v.SetDefault("journal.index", IndexSQLite)
	v.SetDefault("journal.db_path", "")

	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.key_prefix", "anticafe")

	v.SetDefault("postgres.dsn", "")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.file", "anticafe.log")

	v.SetDefault("http.addr", "")
}

func validate(cfg *Config) error {
	if cfg.Venue.Tables <= 0 {
		return fmt.Errorf("venue.tables must be positive, got %d", cfg.Venue.Tables)
	}
	if cfg.Venue.RatePerMinute < 0 {
		return fmt.Errorf("venue.rate_per_minute must be non-negative, got %v", cfg.Venue.RatePerMinute)
	}
	switch cfg.Journal.Index {
	case IndexSQLite, IndexRedis, IndexNone:
	case IndexPostgres:
		if cfg.Postgres.DSN == "" {
			return fmt.Errorf("postgres.dsn is required when journal.index is postgres")
		}
	default:
		return fmt.Errorf("journal.index must be one of sqlite|redis|postgres|none, got %q", cfg.Journal.Index)
	}
	if cfg.Journal.Dir == "" {
		cfg.Journal.Dir = "."
	}
	if cfg.Journal.DBPath == "" {
		cfg.Journal.DBPath = filepath.Join(cfg.Journal.Dir, ".anticafe", "anticafe.db")
	}
	return nil
}
