package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"nba-feature-lab/internal/config"
	"nba-feature-lab/internal/storage"
	"nba-feature-lab/internal/storage/csvfile"
)

var (
	importFrom         string
	importSkipExisting bool
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Copy a CSV game log directory into the SQL source store",
	Long: `Reads every <Team_Name>_<season>_games.csv file in --from and inserts
each table into the configured postgres or sqlite source, so later builds
can read from it.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		if importFrom == "" {
			return fmt.Errorf("--from is required")
		}
		if cfg.Source.Kind != config.SourcePostgres && cfg.Source.Kind != config.SourceSQLite {
			return fmt.Errorf("import needs a postgres or sqlite source, got %q", cfg.Source.Kind)
		}

		src := csvfile.NewGameLogStore(importFrom)
		keys, err := src.ListTeamSeasons(ctx)
		if err != nil {
			return err
		}

		dst, closeDst, err := openSource(ctx, cfg.Source)
		if err != nil {
			return err
		}
		defer closeDst()

		var imported, skipped, rows int
		for _, k := range keys {
			table, err := src.GetTable(ctx, k.TeamID, k.Season)
			if err != nil {
				return err
			}
			err = dst.InsertTable(ctx, table)
			switch {
			case errors.Is(err, storage.ErrDuplicateKey) && importSkipExisting:
				skipped++
				logger.Info("table exists, skipping", zap.Int64("team_id", k.TeamID), zap.String("season", k.Season))
				continue
			case err != nil:
				return fmt.Errorf("import team %d season %s: %w", k.TeamID, k.Season, err)
			}
			imported++
			rows += len(table.Rows)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d tables (%d rows), skipped %d\n", imported, rows, skipped)
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importFrom, "from", "", "CSV game log directory")
	importCmd.Flags().BoolVar(&importSkipExisting, "skip-existing", false, "skip tables already in the store")
}
