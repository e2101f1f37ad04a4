package reporting

import (
	"sort"
	"time"

	"nba-feature-lab/internal/features"
	"nba-feature-lab/internal/metrics"
	"nba-feature-lab/internal/pipeline"
	"nba-feature-lab/internal/storage/csvfile"
	"nba-feature-lab/internal/teams"
)

// Status values.
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// Generator produces run reports.
type Generator struct {
	cfg features.Config
	now func() time.Time // Injectable clock for deterministic output
}

// NewGenerator creates a report generator for runs made with cfg.
func NewGenerator(cfg features.Config) *Generator {
	return &Generator{
		cfg: cfg,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Generate builds a report from a run result and the error the run
// returned, if any. res may be nil when the run failed before starting.
func (g *Generator) Generate(res *pipeline.RunResult, runErr error) *Report {
	r := &Report{
		GeneratedAt: g.now(),
		Status:      StatusSuccess,
		Config:      g.configSection(),
		Columns:     g.cfg.Schema().Columns(),
	}
	if runErr != nil {
		r.Status = StatusFailed
		r.Error = runErr.Error()
	}
	if res == nil {
		res = &pipeline.RunResult{}
	}

	r.DataSummary = generateDataSummary(res)
	for _, reason := range features.DropReasons {
		r.Drops = append(r.Drops, DropRow{Reason: string(reason), Count: res.Drops[reason]})
	}
	r.MissingOpponents = generateMissingOpponents(res.MissingOpponents)
	if len(res.Rows) > 0 {
		r.Features = metrics.Summarize(res.Schema, res.Rows)
	}
	for _, err := range res.Rejected {
		r.Rejected = append(r.Rejected, err.Error())
	}
	return r
}

func (g *Generator) configSection() ConfigSection {
	sec := ConfigSection{
		WinWindow:               g.cfg.WinWindow,
		StatWindow:              g.cfg.StatWindow,
		MaxMissingOpponentRatio: g.cfg.MaxMissingOpponentRatio,
	}
	for _, s := range g.cfg.RetainedStats() {
		sec.RetainedStats = append(sec.RetainedStats, string(s))
	}
	for _, s := range g.cfg.RedundantStats {
		sec.RedundantStats = append(sec.RedundantStats, string(s))
	}
	return sec
}

func generateDataSummary(res *pipeline.RunResult) DataSummary {
	s := DataSummary{
		InputDigest: res.InputDigest,
		Tables:      res.Tables,
		InputRows:   res.InputRows,
		Teams:       res.Teams,
		RollingRows: res.RollingRows,
		OutputRows:  res.OutputRows,
		Written:     res.Written,
		Duration:    res.Duration,
	}

	seasons := make(map[string]struct{})
	for _, row := range res.Rows {
		if s.DateRangeStart.IsZero() || row.GameDate.Before(s.DateRangeStart) {
			s.DateRangeStart = row.GameDate
		}
		if row.GameDate.After(s.DateRangeEnd) {
			s.DateRangeEnd = row.GameDate
		}
		seasons[row.Season] = struct{}{}
	}
	for season := range seasons {
		s.Seasons = append(s.Seasons, season)
	}
	sort.Strings(s.Seasons)
	return s
}

type missingKey struct {
	season string
	code   string
}

// generateMissingOpponents groups missing-opponent rows by the season table
// that would have resolved them.
func generateMissingOpponents(missing []*features.MissingOpponentError) []MissingOpponentRow {
	counts := make(map[missingKey]int)
	for _, m := range missing {
		counts[missingKey{season: m.Season, code: m.OpponentCode}]++
	}

	rows := make([]MissingOpponentRow, 0, len(counts))
	for k, n := range counts {
		row := MissingOpponentRow{Season: k.season, OpponentCode: k.code, Rows: n}
		if team, ok := teams.ByAbbreviation(k.code); ok {
			row.OpponentTeamID = team.ID
			row.OpponentName = team.FullName
			row.ExpectedFile = csvfile.FileName(team.ID, k.season)
		}
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Season != rows[j].Season {
			return rows[i].Season < rows[j].Season
		}
		return rows[i].OpponentCode < rows[j].OpponentCode
	})
	return rows
}
