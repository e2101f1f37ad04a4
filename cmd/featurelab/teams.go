package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"nba-feature-lab/internal/storage/csvfile"
	"nba-feature-lab/internal/teams"
)

var (
	teamsOut   string
	teamsStore bool
)

var teamsCmd = &cobra.Command{
	Use:   "teams",
	Short: "Write the NBA team lookup table",
	Long: `Writes nba_team_lookup.csv (Team_ID, abbreviation) for the 30 current
franchises. With --store the teams are also upserted into the configured
postgres or sqlite source.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		all := teams.All()

		path := teamsOut
		if path == "" {
			path = filepath.Join(cfg.OutputDir, csvfile.LookupFileName)
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
		if err := csvfile.WriteTeamLookup(path, all); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d teams to %s\n", len(all), path)

		if !teamsStore {
			return nil
		}
		store, closeStore, err := openTeamStore(cmd.Context(), cfg.Source)
		if err != nil {
			return err
		}
		defer closeStore()
		if err := store.Upsert(cmd.Context(), all); err != nil {
			return fmt.Errorf("upsert teams: %w", err)
		}
		logger.Info("teams stored", zap.String("source", cfg.Source.Kind), zap.Int("teams", len(all)))
		fmt.Fprintf(cmd.OutOrStdout(), "Upserted %d teams into %s source\n", len(all), cfg.Source.Kind)
		return nil
	},
}

func init() {
	teamsCmd.Flags().StringVar(&teamsOut, "out", "", "lookup CSV path (default <output_dir>/nba_team_lookup.csv)")
	teamsCmd.Flags().BoolVar(&teamsStore, "store", false, "also upsert teams into the postgres or sqlite source")
}
