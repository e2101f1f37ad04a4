package reporting

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"nba-feature-lab/internal/domain"
)

// FeaturesFile is the file name of the feature table export.
const FeaturesFile = "features.csv"

// WriteFeaturesCSV writes rows as CSV with schema.Columns() as header.
// Floats use the shortest representation that parses back to the same value.
func WriteFeaturesCSV(w io.Writer, schema domain.FeatureSchema, rows []*domain.FeatureRow) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(schema.Columns()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	record := make([]string, 0, len(schema.Columns()))
	for _, r := range rows {
		values, err := schema.Vector(r)
		if err != nil {
			return err
		}

		record = record[:0]
		record = append(record,
			r.GameID,
			strconv.FormatInt(r.TeamID, 10),
			strconv.FormatInt(r.OpponentTeamID, 10),
			r.Season,
			r.GameDate.Format("2006-01-02"),
			formatBool(r.IsHome),
			strconv.Itoa(r.Target),
		)
		for _, v := range values {
			record = append(record, strconv.FormatFloat(v, 'g', -1, 64))
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write game %s team %d: %w", r.GameID, r.TeamID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatBool(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
