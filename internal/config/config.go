// Package config loads featurelab settings from a YAML file and
// FEATURELAB_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"nba-feature-lab/internal/domain"
	"nba-feature-lab/internal/features"
	"nba-feature-lab/internal/normalization"
	"nba-feature-lab/internal/teams"
)

// EnvPrefix prefixes environment overrides, e.g. FEATURELAB_SINK_DSN.
const EnvPrefix = "FEATURELAB"

// Source kinds.
const (
	SourceCSV      = "csv"
	SourcePostgres = "postgres"
	SourceSQLite   = "sqlite"
	SourceFixtures = "fixtures"
)

// Sink kinds.
const (
	SinkNone       = "none"
	SinkCSV        = "csv"
	SinkPostgres   = "postgres"
	SinkClickhouse = "clickhouse"
	SinkSQLite     = "sqlite"
)

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid configuration")

// Config is the full application configuration.
type Config struct {
	Pipeline    PipelineConfig `mapstructure:"pipeline"`
	Source      StoreConfig    `mapstructure:"source"`
	Sink        StoreConfig    `mapstructure:"sink"`
	OutputDir   string         `mapstructure:"output_dir"`
	Log         LogConfig      `mapstructure:"log"`
	MetricsAddr string         `mapstructure:"metrics_addr"`
}

// PipelineConfig mirrors features.Config plus input selection.
type PipelineConfig struct {
	WinWindow               int      `mapstructure:"win_window"`
	StatWindow              int      `mapstructure:"stat_window"`
	TrackedStats            []string `mapstructure:"tracked_stats"`
	RedundantStats          []string `mapstructure:"redundant_stats"`
	Workers                 int      `mapstructure:"workers"`
	MaxMissingOpponentRatio float64  `mapstructure:"max_missing_opponent_ratio"`

	// Seasons and Teams (abbreviations) restrict which tables are loaded.
	Seasons []string `mapstructure:"seasons"`
	Teams   []string `mapstructure:"teams"`
}

// StoreConfig selects a storage backend.
type StoreConfig struct {
	Kind string `mapstructure:"kind"`
	Path string `mapstructure:"path"` // csv directory or sqlite file
	DSN  string `mapstructure:"dsn"`  // postgres or clickhouse
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// New returns a viper instance with defaults and environment binding set.
func New() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func setDefaults(v *viper.Viper) {
	d := features.DefaultConfig()
	v.SetDefault("pipeline.win_window", d.WinWindow)
	v.SetDefault("pipeline.stat_window", d.StatWindow)
	v.SetDefault("pipeline.tracked_stats", statStrings(d.TrackedStats))
	v.SetDefault("pipeline.redundant_stats", statStrings(d.RedundantStats))
	v.SetDefault("pipeline.workers", 0)
	v.SetDefault("pipeline.max_missing_opponent_ratio", d.MaxMissingOpponentRatio)
	v.SetDefault("pipeline.seasons", []string{})
	v.SetDefault("pipeline.teams", []string{})

	v.SetDefault("source.kind", SourceCSV)
	v.SetDefault("source.path", "data/game_logs")
	v.SetDefault("source.dsn", "")

	v.SetDefault("sink.kind", SinkCSV)
	v.SetDefault("sink.path", "")
	v.SetDefault("sink.dsn", "")

	v.SetDefault("output_dir", "out")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("metrics_addr", "")
}

// Load reads path (if non-empty) over the defaults, applies environment
// overrides and validates the result.
func Load(v *viper.Viper, path string) (*Config, error) {
	if v == nil {
		v = New()
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks backend kinds and the feature configuration.
func (c *Config) Validate() error {
	switch c.Source.Kind {
	case SourceCSV, SourceSQLite:
		if c.Source.Path == "" {
			return fmt.Errorf("%w: source.path is required for %s source", ErrInvalid, c.Source.Kind)
		}
	case SourcePostgres:
		if c.Source.DSN == "" {
			return fmt.Errorf("%w: source.dsn is required for postgres source", ErrInvalid)
		}
	case SourceFixtures:
	default:
		return fmt.Errorf("%w: unknown source.kind %q", ErrInvalid, c.Source.Kind)
	}

	switch c.Sink.Kind {
	case SinkNone, SinkCSV:
	case SinkSQLite:
		if c.Sink.Path == "" {
			return fmt.Errorf("%w: sink.path is required for sqlite sink", ErrInvalid)
		}
	case SinkPostgres, SinkClickhouse:
		if c.Sink.DSN == "" {
			return fmt.Errorf("%w: sink.dsn is required for %s sink", ErrInvalid, c.Sink.Kind)
		}
	default:
		return fmt.Errorf("%w: unknown sink.kind %q", ErrInvalid, c.Sink.Kind)
	}

	if c.OutputDir == "" {
		return fmt.Errorf("%w: output_dir is required", ErrInvalid)
	}
	if _, err := c.FeatureConfig(); err != nil {
		return err
	}
	if _, err := c.Filter(); err != nil {
		return err
	}
	return nil
}

// FeatureConfig converts the pipeline section to a validated features.Config.
func (c *Config) FeatureConfig() (features.Config, error) {
	tracked, err := parseStats(c.Pipeline.TrackedStats)
	if err != nil {
		return features.Config{}, err
	}
	redundant, err := parseStats(c.Pipeline.RedundantStats)
	if err != nil {
		return features.Config{}, err
	}

	fc := features.Config{
		WinWindow:               c.Pipeline.WinWindow,
		StatWindow:              c.Pipeline.StatWindow,
		TrackedStats:            tracked,
		RedundantStats:          redundant,
		Workers:                 c.Pipeline.Workers,
		MaxMissingOpponentRatio: c.Pipeline.MaxMissingOpponentRatio,
	}
	if err := fc.Validate(); err != nil {
		return features.Config{}, err
	}
	return fc, nil
}

// Filter converts the season and team selection to a normalization.Filter.
func (c *Config) Filter() (normalization.Filter, error) {
	f := normalization.Filter{Seasons: c.Pipeline.Seasons}
	for _, code := range c.Pipeline.Teams {
		team, ok := teams.ByAbbreviation(code)
		if !ok {
			return normalization.Filter{}, fmt.Errorf("%w: unknown team %q in pipeline.teams", ErrInvalid, code)
		}
		f.TeamIDs = append(f.TeamIDs, team.ID)
	}
	return f, nil
}

func parseStats(names []string) ([]domain.StatName, error) {
	out := make([]domain.StatName, 0, len(names))
	for _, n := range names {
		s := domain.StatName(strings.ToUpper(strings.TrimSpace(n)))
		if !s.IsValid() {
			return nil, fmt.Errorf("%w: unknown stat %q", ErrInvalid, n)
		}
		out = append(out, s)
	}
	return out, nil
}

func statStrings(stats []domain.StatName) []string {
	out := make([]string, len(stats))
	for i, s := range stats {
		out[i] = string(s)
	}
	return out
}
