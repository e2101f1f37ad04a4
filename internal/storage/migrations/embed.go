package migrations

import "embed"

// PostgresFS embeds all PostgreSQL migration files.
//
//go:embed postgres/*.sql
var PostgresFS embed.FS

// ClickhouseFS embeds all ClickHouse migration files.
//
//go:embed clickhouse/*.sql
var ClickhouseFS embed.FS

// SQLiteFS embeds the versioned SQLite migrations in golang-migrate
// naming (N_name.up.sql / N_name.down.sql).
//
//go:embed sqlite/*.sql
var SQLiteFS embed.FS
