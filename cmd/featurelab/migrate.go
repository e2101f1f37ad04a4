package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"nba-feature-lab/internal/config"
	"nba-feature-lab/internal/storage/migrations"
	"nba-feature-lab/internal/storage/postgres"
)

var (
	migratePostgresDSN   string
	migrateClickhouseDSN string
	migrateSQLitePath    string
	migrateDown          bool
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	Long: `Applies the embedded schema migrations. Targets default to the
configured source and sink; flags select targets explicitly. --down rolls
back SQLite migrations only.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		pgDSN, chDSN, sqlitePath := migratePostgresDSN, migrateClickhouseDSN, migrateSQLitePath
		if pgDSN == "" && chDSN == "" && sqlitePath == "" {
			pgDSN, chDSN, sqlitePath = configuredTargets(cfg)
		}
		if pgDSN == "" && chDSN == "" && sqlitePath == "" {
			return fmt.Errorf("no migration target: configure a postgres, clickhouse or sqlite source/sink or pass a target flag")
		}
		if migrateDown && (pgDSN != "" || chDSN != "") {
			return fmt.Errorf("--down is only supported for sqlite")
		}

		if pgDSN != "" {
			pool, err := postgres.NewPool(ctx, pgDSN, 0)
			if err != nil {
				return err
			}
			applied, err := migrations.RunPostgresMigrations(ctx, pool, logger)
			pool.Close()
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "postgres: %d migration(s) applied\n", len(applied))
			for _, name := range applied {
				fmt.Fprintf(out, "  - %s\n", name)
			}
		}

		if chDSN != "" {
			conn, err := migrations.RunClickhouseMigrations(ctx, chDSN, logger)
			if err != nil {
				return err
			}
			if err := conn.Close(); err != nil {
				return err
			}
			fmt.Fprintln(out, "clickhouse: schema up to date")
		}

		if sqlitePath != "" {
			m, err := migrations.NewSQLiteMigrator(sqlitePath)
			if err != nil {
				return err
			}
			defer m.Close()

			if migrateDown {
				err = m.Down()
			} else {
				err = m.Up()
			}
			if err != nil {
				return err
			}
			version, dirty, err := m.Version()
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "sqlite: %s at version %d (dirty=%t)\n", sqlitePath, version, dirty)
		}
		return nil
	},
}

func init() {
	f := migrateCmd.Flags()
	f.StringVar(&migratePostgresDSN, "postgres-dsn", "", "PostgreSQL DSN")
	f.StringVar(&migrateClickhouseDSN, "clickhouse-dsn", "", "ClickHouse DSN")
	f.StringVar(&migrateSQLitePath, "sqlite-path", "", "SQLite database file")
	f.BoolVar(&migrateDown, "down", false, "roll back all SQLite migrations")
}

// configuredTargets picks migration targets from the source and sink.
func configuredTargets(c *config.Config) (pgDSN, chDSN, sqlitePath string) {
	for _, sc := range []config.StoreConfig{c.Source, c.Sink} {
		switch sc.Kind {
		case config.SourcePostgres:
			if pgDSN == "" {
				pgDSN = sc.DSN
			}
		case config.SinkClickhouse:
			chDSN = sc.DSN
		case config.SourceSQLite:
			if sqlitePath == "" {
				sqlitePath = sc.Path
			}
		}
	}
	return pgDSN, chDSN, sqlitePath
}
