package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"nba-feature-lab/internal/config"
	"nba-feature-lab/internal/pipeline"
	"nba-feature-lab/internal/storage"
	"nba-feature-lab/internal/storage/clickhouse"
	"nba-feature-lab/internal/storage/csvfile"
	"nba-feature-lab/internal/storage/memory"
	"nba-feature-lab/internal/storage/migrations"
	"nba-feature-lab/internal/storage/postgres"
	"nba-feature-lab/internal/storage/sqlite"
)

func noop() {}

// openPostgres connects and brings the schema up to date.
func openPostgres(ctx context.Context, dsn string) (*postgres.Pool, error) {
	pool, err := postgres.NewPool(ctx, dsn, 0)
	if err != nil {
		return nil, err
	}
	applied, err := migrations.RunPostgresMigrations(ctx, pool, logger)
	if err != nil {
		pool.Close()
		return nil, err
	}
	if len(applied) > 0 {
		logger.Info("postgres migrations applied", zap.Strings("files", applied))
	}
	return pool, nil
}

// openSource returns the game log store named by sc and its close function.
func openSource(ctx context.Context, sc config.StoreConfig) (storage.GameLogStore, func(), error) {
	switch sc.Kind {
	case config.SourceCSV:
		return csvfile.NewGameLogStore(sc.Path), noop, nil

	case config.SourceFixtures:
		store := memory.NewGameLogStore()
		if err := pipeline.LoadFixtures(ctx, store); err != nil {
			return nil, nil, err
		}
		return store, noop, nil

	case config.SourcePostgres:
		pool, err := openPostgres(ctx, sc.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres source: %w", err)
		}
		return postgres.NewGameLogStore(pool), pool.Close, nil

	case config.SourceSQLite:
		db, err := sqlite.Open(ctx, sc.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite source: %w", err)
		}
		return sqlite.NewGameLogStore(db), func() { _ = db.Close() }, nil
	}
	return nil, nil, fmt.Errorf("%w: unknown source kind %q", config.ErrInvalid, sc.Kind)
}

// openSink returns the feature store named by sc. The csv and none kinds
// have no store: features.csv is written by the orchestrator.
func openSink(ctx context.Context, sc config.StoreConfig) (storage.FeatureStore, func(), error) {
	switch sc.Kind {
	case config.SinkNone, config.SinkCSV:
		return nil, noop, nil

	case config.SinkPostgres:
		pool, err := openPostgres(ctx, sc.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres sink: %w", err)
		}
		return postgres.NewFeatureStore(pool), pool.Close, nil

	case config.SinkClickhouse:
		conn, err := migrations.RunClickhouseMigrations(ctx, sc.DSN, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("open clickhouse sink: %w", err)
		}
		return clickhouse.NewFeatureStore(conn), func() { _ = conn.Close() }, nil

	case config.SinkSQLite:
		db, err := sqlite.Open(ctx, sc.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite sink: %w", err)
		}
		return sqlite.NewFeatureStore(db), func() { _ = db.Close() }, nil
	}
	return nil, nil, fmt.Errorf("%w: unknown sink kind %q", config.ErrInvalid, sc.Kind)
}

// openTeamStore returns the team store of a SQL source.
func openTeamStore(ctx context.Context, sc config.StoreConfig) (storage.TeamStore, func(), error) {
	switch sc.Kind {
	case config.SourcePostgres:
		pool, err := openPostgres(ctx, sc.DSN)
		if err != nil {
			return nil, nil, err
		}
		return postgres.NewTeamStore(pool), pool.Close, nil
	case config.SourceSQLite:
		db, err := sqlite.Open(ctx, sc.Path)
		if err != nil {
			return nil, nil, err
		}
		return sqlite.NewTeamStore(db), func() { _ = db.Close() }, nil
	}
	return nil, nil, fmt.Errorf("source kind %q has no team table; use postgres or sqlite", sc.Kind)
}
