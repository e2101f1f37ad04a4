package normalization

import (
	"fmt"

	"go.uber.org/zap"

	"nba-feature-lab/internal/domain"
	"nba-feature-lab/internal/features"
)

// LoadResult is the output of Load.
type LoadResult struct {
	Rows      []*domain.GameRow
	Tables    int
	InputRows int
	Drops     features.DropCounts

	// Rejected holds one error per malformed row, in input order.
	Rejected []error
}

type rowKey struct {
	teamID int64
	gameID string
}

// Load concatenates per-team-season tables into one chronological row set.
//
// Each row gets a parsed date, a binary target, a venue flag and the
// opponent code from MATCHUP. Rows that cannot be parsed are dropped and
// reported. A (team, game) pair seen twice keeps its first row.
//
// Output is ordered by (team_id, game_date, seq). Table order does not
// affect the result.
func Load(tables []*domain.GameLogTable, logger *zap.Logger) (*LoadResult, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	ordered := make([]*domain.GameLogTable, 0, len(tables))
	for _, t := range tables {
		if t != nil {
			ordered = append(ordered, t)
		}
	}
	sortTables(ordered)

	result := &LoadResult{
		Tables: len(ordered),
		Drops:  make(features.DropCounts),
	}
	seen := make(map[rowKey]struct{})

	seq := 0
	for _, table := range ordered {
		for _, log := range table.Rows {
			if log == nil {
				continue
			}
			result.InputRows++
			seq++

			row, reason, err := normalizeRow(log, table, seq)
			if err != nil {
				result.Drops.Add(reason)
				result.Rejected = append(result.Rejected, err)
				logger.Warn("dropping malformed row",
					zap.String("reason", string(reason)),
					zap.Int64("team_id", log.TeamID),
					zap.String("game_id", log.GameID),
					zap.Error(err),
				)
				continue
			}

			key := rowKey{teamID: row.TeamID, gameID: row.GameID}
			if _, dup := seen[key]; dup {
				result.Drops.Add(features.DropDuplicateRow)
				logger.Debug("dropping duplicate row",
					zap.Int64("team_id", row.TeamID),
					zap.String("game_id", row.GameID),
				)
				continue
			}
			seen[key] = struct{}{}
			result.Rows = append(result.Rows, row)
		}
	}

	if result.InputRows == 0 {
		return nil, features.ErrEmptyInput
	}

	SortGameRows(result.Rows)

	logger.Info("game logs loaded",
		zap.Int("tables", result.Tables),
		zap.Int("input_rows", result.InputRows),
		zap.Int("rows", len(result.Rows)),
		zap.Int("dropped", result.Drops.Total()),
	)
	return result, nil
}

// normalizeRow parses one raw game log row.
func normalizeRow(log *domain.GameLog, table *domain.GameLogTable, seq int) (*domain.GameRow, features.DropReason, error) {
	teamID := log.TeamID
	if teamID == 0 {
		teamID = table.TeamID
	}

	date, err := ParseGameDate(log.GameDate)
	if err != nil {
		return nil, features.DropMalformedDate, &features.MalformedDateError{
			TeamID: teamID,
			GameID: log.GameID,
			Value:  log.GameDate,
			Err:    err,
		}
	}

	result, err := ParseResult(log.WL)
	if err != nil {
		return nil, features.DropMalformedResult, fmt.Errorf("team %d game %s: %w", teamID, log.GameID, err)
	}

	isHome, opponent, err := ParseMatchup(log.Matchup)
	if err != nil {
		return nil, features.DropMalformedMatchup, fmt.Errorf("team %d game %s: %w", teamID, log.GameID, err)
	}

	season := log.Season
	if season == "" {
		season = table.Season
	}

	stats := make(map[domain.StatName]float64, len(domain.AllStats))
	for _, s := range domain.AllStats {
		if v, ok := log.Stat(s); ok {
			stats[s] = v
		}
	}

	return &domain.GameRow{
		GameID:       log.GameID,
		TeamID:       teamID,
		Season:       season,
		GameDate:     date,
		IsHome:       isHome,
		Result:       result,
		OpponentCode: opponent,
		Stats:        stats,
		Seq:          seq,
	}, "", nil
}
