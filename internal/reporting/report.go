package reporting

import (
	"time"

	"nba-feature-lab/internal/metrics"
)

// Report summarizes one feature build run.
type Report struct {
	// Metadata
	GeneratedAt time.Time
	Status      string // "success" or "failed"
	Error       string

	Config      ConfigSection
	DataSummary DataSummary

	// Drops lists every drop reason in pipeline order, zero counts included.
	Drops []DropRow

	// MissingOpponents groups unmatched rows by absent opponent season,
	// sorted by (season, opponent code).
	MissingOpponents []MissingOpponentRow

	// Features summarizes the output columns; nil when no rows were produced.
	Features *metrics.Summary

	// Rejected holds malformed-row messages, in input order.
	Rejected []string

	Columns []string
}

// ConfigSection records the window configuration of the run.
type ConfigSection struct {
	WinWindow               int
	StatWindow              int
	RetainedStats           []string
	RedundantStats          []string
	MaxMissingOpponentRatio float64
}

// DataSummary contains input and output counts.
type DataSummary struct {
	InputDigest string
	Tables      int
	InputRows   int
	Teams       int
	RollingRows int
	OutputRows  int
	Written     int
	Duration    time.Duration

	// Output date range; zero when there are no output rows.
	DateRangeStart time.Time
	DateRangeEnd   time.Time
	Seasons        []string
}

// DropRow is one line of the drop table.
type DropRow struct {
	Reason string
	Count  int
}

// MissingOpponentRow names a season table that was needed but not loaded.
type MissingOpponentRow struct {
	Season         string
	OpponentCode   string
	OpponentTeamID int64 // 0 when the code is not a known franchise
	OpponentName   string
	ExpectedFile   string
	Rows           int
}
