// Package pipeline builds the opponent-aligned feature table.
// Stages: load -> rolling windows -> opponent alignment -> sink.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"nba-feature-lab/internal/domain"
	"nba-feature-lab/internal/features"
	"nba-feature-lab/internal/idhash"
	"nba-feature-lab/internal/normalization"
	"nba-feature-lab/internal/observability"
	"nba-feature-lab/internal/storage"
)

// ErrNoSource is returned by New when Options.Source is nil.
var ErrNoSource = errors.New("pipeline: source store is required")

// Options for creating a Pipeline.
type Options struct {
	Config features.Config

	// Source provides the raw game log tables. Required.
	Source storage.GameLogStore
	Filter normalization.Filter

	// Sink receives the feature rows, replacing its previous contents.
	// Optional.
	Sink     storage.FeatureStore
	SinkName string

	Metrics *observability.Metrics
	Logger  *zap.Logger
}

// Pipeline runs one batch feature build.
type Pipeline struct {
	cfg      features.Config
	source   storage.GameLogStore
	filter   normalization.Filter
	sink     storage.FeatureStore
	sinkName string
	metrics  *observability.Metrics
	log      *zap.Logger
	clock    func() time.Time
}

// New validates opts and creates a Pipeline.
func New(opts Options) (*Pipeline, error) {
	if err := opts.Config.Validate(); err != nil {
		return nil, err
	}
	if opts.Source == nil {
		return nil, ErrNoSource
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	sinkName := opts.SinkName
	if sinkName == "" {
		sinkName = "default"
	}
	return &Pipeline{
		cfg:      opts.Config,
		source:   opts.Source,
		filter:   opts.Filter,
		sink:     opts.Sink,
		sinkName: sinkName,
		metrics:  opts.Metrics,
		log:      logger,
		clock:    func() time.Time { return time.Now().UTC() },
	}, nil
}

// WithClock sets a custom clock function for deterministic output.
func (p *Pipeline) WithClock(clock func() time.Time) *Pipeline {
	p.clock = clock
	return p
}

// Config returns the feature configuration the pipeline runs with.
func (p *Pipeline) Config() features.Config {
	return p.cfg
}

// RunResult summarizes one run. It is returned, partially filled, even
// when the run fails, so the failure can be reported.
type RunResult struct {
	StartedAt time.Time
	Duration  time.Duration
	Schema    domain.FeatureSchema

	InputDigest string // idhash.InputDigest of the tables read

	Tables      int
	InputRows   int
	Teams       int
	RollingRows int
	OutputRows  int
	Written     int

	// Drops merges loader and aligner drop counts.
	Drops features.DropCounts

	Rows             []*domain.FeatureRow
	MissingOpponents []*features.MissingOpponentError
	Rejected         []error
}

// Run reads the selected tables from the source store and builds features.
func (p *Pipeline) Run(ctx context.Context) (*RunResult, error) {
	tables, err := normalization.ReadTables(ctx, p.source, p.filter)
	if err != nil {
		res := p.newResult()
		p.finish(res, err)
		return res, err
	}
	return p.RunTables(ctx, tables)
}

// RunTables builds features from tables already in memory.
func (p *Pipeline) RunTables(ctx context.Context, tables []*domain.GameLogTable) (res *RunResult, err error) {
	res = p.newResult()
	defer func() { p.finish(res, err) }()

	// Stage 1: load and normalize
	res.InputDigest = idhash.InputDigest(tables)
	p.log.Info("loading game logs", zap.Int("tables", len(tables)), zap.String("input_digest", res.InputDigest))
	loaded, err := normalization.Load(tables, p.log)
	if err != nil {
		return res, fmt.Errorf("load game logs: %w", err)
	}
	res.Tables = loaded.Tables
	res.InputRows = loaded.InputRows
	res.Rejected = loaded.Rejected
	res.Drops.Merge(loaded.Drops)
	res.Teams = countTeams(loaded.Rows)
	if len(loaded.Rows) == 0 {
		return res, fmt.Errorf("load game logs: every row was malformed: %w", features.ErrEmptyInput)
	}

	// Stage 2: per-team rolling windows
	p.log.Info("building rolling features",
		zap.Int("rows", len(loaded.Rows)),
		zap.Int("teams", res.Teams),
	)
	rolled, err := features.BuildRolling(ctx, p.cfg, loaded.Rows)
	if err != nil {
		return res, err
	}
	res.RollingRows = len(rolled)

	// Stage 3: opponent alignment
	p.log.Info("aligning opponents", zap.Int("rows", len(rolled)))
	aligned, err := features.AlignOpponents(p.cfg, rolled, p.log)
	if aligned != nil {
		res.Drops.Merge(aligned.Drops)
		res.MissingOpponents = aligned.MissingOpponents
	}
	if err != nil {
		return res, fmt.Errorf("align opponents: %w", err)
	}
	res.Rows = aligned.Rows
	res.OutputRows = len(aligned.Rows)

	// Stage 4: sink
	if p.sink != nil {
		if err := p.write(ctx, aligned.Rows); err != nil {
			return res, err
		}
		res.Written = len(aligned.Rows)
	}
	return res, nil
}

func (p *Pipeline) newResult() *RunResult {
	return &RunResult{
		StartedAt: p.clock(),
		Schema:    p.cfg.Schema(),
		Drops:     make(features.DropCounts),
	}
}

// write replaces the sink contents with rows.
func (p *Pipeline) write(ctx context.Context, rows []*domain.FeatureRow) error {
	p.log.Info("writing features", zap.String("sink", p.sinkName), zap.Int("rows", len(rows)))
	if err := p.sink.Replace(ctx, rows); err != nil {
		return fmt.Errorf("write features: %w", err)
	}
	return nil
}

// finish stamps the duration, records metrics and logs the outcome.
func (p *Pipeline) finish(res *RunResult, err error) {
	res.Duration = p.clock().Sub(res.StartedAt)

	if m := p.metrics; m != nil {
		m.TablesLoaded.Add(float64(res.Tables))
		m.InputRows.Add(float64(res.InputRows))
		m.RecordDrops(res.Drops)
		m.OutputRows.Add(float64(res.OutputRows))
		m.RowsWritten.WithLabelValues(p.sinkName).Add(float64(res.Written))
		m.RollingTeams.Set(float64(res.Teams))
		m.RecordRun(res.Duration, err)
	}

	fields := []zap.Field{
		zap.Int("tables", res.Tables),
		zap.Int("input_rows", res.InputRows),
		zap.Int("output_rows", res.OutputRows),
		zap.Int("dropped", res.Drops.Total()),
		zap.Int("missing_opponents", len(res.MissingOpponents)),
		zap.Duration("duration", res.Duration),
	}
	if err != nil {
		p.log.Error("pipeline failed", append(fields, zap.Error(err))...)
		return
	}
	p.log.Info("pipeline completed", fields...)
}

func countTeams(rows []*domain.GameRow) int {
	seen := make(map[int64]struct{})
	for _, r := range rows {
		seen[r.TeamID] = struct{}{}
	}
	return len(seen)
}
