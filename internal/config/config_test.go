package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nba-feature-lab/internal/domain"
	"nba-feature-lab/internal/features"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "featurelab.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(New(), "")
	require.NoError(t, err)

	assert.Equal(t, SourceCSV, cfg.Source.Kind)
	assert.Equal(t, "data/game_logs", cfg.Source.Path)
	assert.Equal(t, SinkCSV, cfg.Sink.Kind)
	assert.Equal(t, "out", cfg.OutputDir)
	assert.Equal(t, "info", cfg.Log.Level)

	fc, err := cfg.FeatureConfig()
	require.NoError(t, err)
	assert.Equal(t, features.DefaultConfig(), fc)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
pipeline:
  win_window: 8
  stat_window: 3
  tracked_stats: [PTS, ast, REB]
  redundant_stats: [REB]
  workers: 4
  max_missing_opponent_ratio: 0.1
  seasons: ["2022-23"]
  teams: [NYK, NJN]
source:
  kind: sqlite
  path: /tmp/games.db
sink:
  kind: clickhouse
  dsn: clickhouse://localhost:9000/default
log:
  format: console
`)
	cfg, err := Load(New(), path)
	require.NoError(t, err)

	fc, err := cfg.FeatureConfig()
	require.NoError(t, err)
	assert.Equal(t, 8, fc.WinWindow)
	assert.Equal(t, 3, fc.StatWindow)
	assert.Equal(t, []domain.StatName{domain.StatPTS, domain.StatAST, domain.StatREB}, fc.TrackedStats)
	assert.Equal(t, []domain.StatName{domain.StatPTS, domain.StatAST}, fc.RetainedStats())
	assert.Equal(t, 4, fc.Workers)
	assert.InDelta(t, 0.1, fc.MaxMissingOpponentRatio, 1e-12)

	f, err := cfg.Filter()
	require.NoError(t, err)
	assert.Equal(t, []string{"2022-23"}, f.Seasons)
	// NJN resolves to the Brooklyn franchise.
	assert.Equal(t, []int64{1610612752, 1610612751}, f.TeamIDs)

	assert.Equal(t, SinkClickhouse, cfg.Sink.Kind)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, "sink:\n  kind: csv\n")
	t.Setenv("FEATURELAB_SINK_KIND", "postgres")
	t.Setenv("FEATURELAB_SINK_DSN", "postgres://u:p@localhost/db")
	t.Setenv("FEATURELAB_PIPELINE_STAT_WINDOW", "7")
	t.Setenv("FEATURELAB_OUTPUT_DIR", "/tmp/out")

	cfg, err := Load(New(), path)
	require.NoError(t, err)
	assert.Equal(t, SinkPostgres, cfg.Sink.Kind)
	assert.Equal(t, "postgres://u:p@localhost/db", cfg.Sink.DSN)
	assert.Equal(t, 7, cfg.Pipeline.StatWindow)
	assert.Equal(t, "/tmp/out", cfg.OutputDir)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown source", "source:\n  kind: ftp\n"},
		{"postgres source without dsn", "source:\n  kind: postgres\n"},
		{"clickhouse sink without dsn", "sink:\n  kind: clickhouse\n"},
		{"sqlite sink without path", "sink:\n  kind: sqlite\n"},
		{"unknown stat", "pipeline:\n  tracked_stats: [PTS, DUNKS]\n"},
		{"unknown team", "pipeline:\n  teams: [XYZ]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(New(), writeConfig(t, tt.body))
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}

	_, err := Load(New(), writeConfig(t, "pipeline:\n  stat_window: 0\n"))
	assert.ErrorIs(t, err, features.ErrInvalidConfig)

	_, err = Load(New(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
