package features

import (
	"fmt"
	"runtime"

	"nba-feature-lab/internal/domain"
)

// Default window widths and join tolerance.
const (
	DefaultWinWindow               = 10
	DefaultStatWindow              = 5
	DefaultMaxMissingOpponentRatio = 0.05
)

// DefaultRedundantStats are the makes columns. Each is determined by its
// attempts and percentage columns, so their rolling means add only collinearity.
var DefaultRedundantStats = []domain.StatName{
	domain.StatFGM,
	domain.StatFG3M,
	domain.StatFTM,
}

// Config controls the rolling windows and the output column set.
type Config struct {
	WinWindow      int               // prior games summed into the win count
	StatWindow     int               // prior games averaged per stat
	TrackedStats   []domain.StatName // stats that get a rolling mean
	RedundantStats []domain.StatName // tracked stats left out of the output

	// Workers bounds per-team parallelism in BuildRolling. 0 means GOMAXPROCS.
	Workers int

	// MaxMissingOpponentRatio is the share of rows without an opponent row
	// above which AlignOpponents aborts instead of dropping them.
	MaxMissingOpponentRatio float64
}

// DefaultConfig returns the standard 10-game win / 5-game stat configuration
// over all 18 box-score columns.
func DefaultConfig() Config {
	tracked := make([]domain.StatName, len(domain.AllStats))
	copy(tracked, domain.AllStats)
	redundant := make([]domain.StatName, len(DefaultRedundantStats))
	copy(redundant, DefaultRedundantStats)

	return Config{
		WinWindow:               DefaultWinWindow,
		StatWindow:              DefaultStatWindow,
		TrackedStats:            tracked,
		RedundantStats:          redundant,
		MaxMissingOpponentRatio: DefaultMaxMissingOpponentRatio,
	}
}

// Validate checks window widths and stat names.
func (c Config) Validate() error {
	if c.WinWindow < 1 {
		return fmt.Errorf("%w: win window must be >= 1, got %d", ErrInvalidConfig, c.WinWindow)
	}
	if c.StatWindow < 1 {
		return fmt.Errorf("%w: stat window must be >= 1, got %d", ErrInvalidConfig, c.StatWindow)
	}
	if len(c.TrackedStats) == 0 {
		return fmt.Errorf("%w: no tracked stats", ErrInvalidConfig)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must be >= 0, got %d", ErrInvalidConfig, c.Workers)
	}
	if c.MaxMissingOpponentRatio < 0 || c.MaxMissingOpponentRatio > 1 {
		return fmt.Errorf("%w: max missing opponent ratio must be in [0, 1], got %v", ErrInvalidConfig, c.MaxMissingOpponentRatio)
	}

	tracked := make(map[domain.StatName]struct{}, len(c.TrackedStats))
	for _, s := range c.TrackedStats {
		if !s.IsValid() {
			return fmt.Errorf("%w: unknown tracked stat %q", ErrInvalidConfig, s)
		}
		if _, dup := tracked[s]; dup {
			return fmt.Errorf("%w: tracked stat %q listed twice", ErrInvalidConfig, s)
		}
		tracked[s] = struct{}{}
	}
	for _, s := range c.RedundantStats {
		if _, ok := tracked[s]; !ok {
			return fmt.Errorf("%w: redundant stat %q is not tracked", ErrInvalidConfig, s)
		}
	}
	if len(c.RetainedStats()) == 0 {
		return fmt.Errorf("%w: every tracked stat is marked redundant", ErrInvalidConfig)
	}
	return nil
}

// RetainedStats returns the tracked stats minus the redundant ones, in tracked order.
func (c Config) RetainedStats() []domain.StatName {
	redundant := make(map[domain.StatName]struct{}, len(c.RedundantStats))
	for _, s := range c.RedundantStats {
		redundant[s] = struct{}{}
	}
	out := make([]domain.StatName, 0, len(c.TrackedStats))
	for _, s := range c.TrackedStats {
		if _, skip := redundant[s]; !skip {
			out = append(out, s)
		}
	}
	return out
}

// Schema returns the output column layout for this configuration.
func (c Config) Schema() domain.FeatureSchema {
	return domain.FeatureSchema{
		WinWindow:  c.WinWindow,
		StatWindow: c.StatWindow,
		Stats:      c.RetainedStats(),
	}
}

func (c Config) workers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.GOMAXPROCS(0)
}
