package reporting

import (
	"fmt"
	"strings"
	"time"
)

// RunReportFile is the file name of the rendered report.
const RunReportFile = "RUN_REPORT.md"

// maxRejected caps the malformed-row list in the rendered report.
const maxRejected = 50

// RenderMarkdown renders report as Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# Feature Build Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Status: **%s**\n\n", strings.ToUpper(r.Status)))
	if r.Error != "" {
		sb.WriteString(fmt.Sprintf("Error: `%s`\n\n", r.Error))
	}

	// Configuration
	sb.WriteString("## Configuration\n\n")
	sb.WriteString("| Setting | Value |\n")
	sb.WriteString("|---------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Win Window | %d |\n", r.Config.WinWindow))
	sb.WriteString(fmt.Sprintf("| Stat Window | %d |\n", r.Config.StatWindow))
	sb.WriteString(fmt.Sprintf("| Retained Stats | %s |\n", strings.Join(r.Config.RetainedStats, ", ")))
	sb.WriteString(fmt.Sprintf("| Redundant Stats | %s |\n", joinOrNone(r.Config.RedundantStats)))
	sb.WriteString(fmt.Sprintf("| Max Missing Opponent Ratio | %.2f%% |\n", r.Config.MaxMissingOpponentRatio*100))
	sb.WriteString("\n")

	// Data Summary
	d := r.DataSummary
	sb.WriteString("## Data Summary\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Tables Loaded | %d |\n", d.Tables))
	sb.WriteString(fmt.Sprintf("| Input Rows | %d |\n", d.InputRows))
	sb.WriteString(fmt.Sprintf("| Teams | %d |\n", d.Teams))
	sb.WriteString(fmt.Sprintf("| Rolling Rows | %d |\n", d.RollingRows))
	sb.WriteString(fmt.Sprintf("| Output Rows | %d |\n", d.OutputRows))
	sb.WriteString(fmt.Sprintf("| Rows Written | %d |\n", d.Written))
	sb.WriteString(fmt.Sprintf("| Seasons | %s |\n", joinOrNone(d.Seasons)))
	if d.InputDigest != "" {
		sb.WriteString(fmt.Sprintf("| Input Digest | `%s` |\n", d.InputDigest))
	}
	if !d.DateRangeStart.IsZero() {
		sb.WriteString(fmt.Sprintf("| Date Range | %s to %s |\n",
			d.DateRangeStart.Format("2006-01-02"), d.DateRangeEnd.Format("2006-01-02")))
	}
	sb.WriteString(fmt.Sprintf("| Duration | %s |\n", d.Duration.Round(time.Millisecond)))
	sb.WriteString("\n")

	// Dropped Rows
	sb.WriteString("## Dropped Rows\n\n")
	sb.WriteString("| Reason | Rows |\n")
	sb.WriteString("|--------|------|\n")
	total := 0
	for _, drop := range r.Drops {
		sb.WriteString(fmt.Sprintf("| %s | %d |\n", drop.Reason, drop.Count))
		total += drop.Count
	}
	sb.WriteString(fmt.Sprintf("| **total** | %d |\n", total))
	sb.WriteString("\n")

	// Missing Opponents
	sb.WriteString("## Missing Opponents\n\n")
	if len(r.MissingOpponents) > 0 {
		sb.WriteString("| Season | Opponent | Team ID | Team | Expected File | Rows |\n")
		sb.WriteString("|--------|----------|---------|------|---------------|------|\n")
		for _, m := range r.MissingOpponents {
			teamID, name, file := "?", "unknown", "-"
			if m.OpponentTeamID != 0 {
				teamID = fmt.Sprintf("%d", m.OpponentTeamID)
				name = m.OpponentName
				file = m.ExpectedFile
			}
			sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s | %d |\n",
				m.Season, m.OpponentCode, teamID, name, file, m.Rows))
		}
	} else {
		sb.WriteString("Every game row found its opponent.\n")
	}
	sb.WriteString("\n")

	// Feature Summary
	if f := r.Features; f != nil {
		sb.WriteString("## Feature Summary\n\n")
		sb.WriteString(fmt.Sprintf("%d rows over %d games. Win rate %.3f, home win rate %.3f (%d home rows).\n\n",
			f.Rows, f.Games, f.WinRate, f.HomeWinRate, f.HomeRows))
		sb.WriteString("| Column | Count | Mean | Stddev | Min | P10 | Median | P90 | Max |\n")
		sb.WriteString("|--------|-------|------|--------|-----|-----|--------|-----|-----|\n")
		for _, c := range f.Columns {
			sb.WriteString(fmt.Sprintf("| %s | %d | %.3f | %.3f | %.3f | %.3f | %.3f | %.3f | %.3f |\n",
				c.Column, c.Count, c.Mean, c.Stddev, c.Min, c.P10, c.Median, c.P90, c.Max))
		}
		sb.WriteString("\n")
	}

	// Malformed Rows
	if len(r.Rejected) > 0 {
		sb.WriteString("## Malformed Rows\n\n")
		for i, msg := range r.Rejected {
			if i == maxRejected {
				sb.WriteString(fmt.Sprintf("- ... and %d more\n", len(r.Rejected)-maxRejected))
				break
			}
			sb.WriteString(fmt.Sprintf("- %s\n", msg))
		}
		sb.WriteString("\n")
	}

	// Output Columns
	sb.WriteString("## Output Columns\n\n")
	sb.WriteString(fmt.Sprintf("%d columns: `%s`\n", len(r.Columns), strings.Join(r.Columns, "`, `")))

	return sb.String()
}

func joinOrNone(xs []string) string {
	if len(xs) == 0 {
		return "none"
	}
	return strings.Join(xs, ", ")
}
