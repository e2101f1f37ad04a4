package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"nba-feature-lab/internal/config"
	"nba-feature-lab/internal/pipeline"
	"nba-feature-lab/internal/verification"
)

// maxListed caps each section of the verify output.
const maxListed = 20

var errVerifyFailed = errors.New("stored features do not match a rebuild")

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Rebuild features in memory and compare them with the sink",
	Long: `Runs the pipeline against the configured source without writing, then
compares every rebuilt row with the rows stored in the postgres, clickhouse
or sqlite sink. Exits non-zero on any divergent, missing or extra row, or
when a stored game's two rows do not mirror each other.`,
	RunE: runVerify,
}

func runVerify(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if cfg.Sink.Kind == config.SinkNone || cfg.Sink.Kind == config.SinkCSV {
		return fmt.Errorf("%w: verify needs a database sink, got %q", config.ErrInvalid, cfg.Sink.Kind)
	}

	featureCfg, err := cfg.FeatureConfig()
	if err != nil {
		return err
	}
	filter, err := cfg.Filter()
	if err != nil {
		return err
	}

	source, closeSource, err := openSource(ctx, cfg.Source)
	if err != nil {
		return err
	}
	defer closeSource()

	sink, closeSink, err := openSink(ctx, cfg.Sink)
	if err != nil {
		return err
	}
	defer closeSink()

	p, err := pipeline.New(pipeline.Options{
		Config: featureCfg,
		Source: source,
		Filter: filter,
		Logger: logger,
	})
	if err != nil {
		return err
	}
	res, err := p.Run(ctx)
	if err != nil {
		return fmt.Errorf("rebuild features: %w", err)
	}

	report, err := verification.NewStoreVerifier(sink, logger).Verify(ctx, res.Rows)
	if err != nil {
		return err
	}
	printVerification(cmd.OutOrStdout(), report)
	if !report.OK() {
		logger.Warn("feature sink diverges from rebuild", zap.String("sink", cfg.Sink.Kind))
		return errVerifyFailed
	}
	return nil
}

func printVerification(w io.Writer, r *verification.Report) {
	fmt.Fprintf(w, "Verified %d rebuilt rows against %d stored rows\n", r.RebuiltRows, r.StoredRows)
	fmt.Fprintf(w, "  Matched:   %d\n", r.MatchedRows)
	fmt.Fprintf(w, "  Divergent: %d\n", r.DivergentRows)
	fmt.Fprintf(w, "  Missing:   %d\n", len(r.MissingRows))
	fmt.Fprintf(w, "  Extra:     %d\n", len(r.ExtraRows))
	fmt.Fprintf(w, "  Pair violations: %d\n", len(r.Pairs))

	for i, res := range r.Results {
		if i == maxListed {
			fmt.Fprintf(w, "  ... and %d more divergent rows\n", len(r.Results)-maxListed)
			break
		}
		for _, d := range res.Divergences {
			fmt.Fprintf(w, "  %s/%d %s: rebuilt %v, stored %v\n", res.GameID, res.TeamID, d.Field, d.Expected, d.Actual)
		}
	}
	for i, k := range r.MissingRows {
		if i == maxListed {
			fmt.Fprintf(w, "  ... and %d more missing rows\n", len(r.MissingRows)-maxListed)
			break
		}
		fmt.Fprintf(w, "  missing %s\n", k)
	}
	for i, k := range r.ExtraRows {
		if i == maxListed {
			fmt.Fprintf(w, "  ... and %d more extra rows\n", len(r.ExtraRows)-maxListed)
			break
		}
		fmt.Fprintf(w, "  extra %s\n", k)
	}
	for i, pv := range r.Pairs {
		if i == maxListed {
			fmt.Fprintf(w, "  ... and %d more pair violations\n", len(r.Pairs)-maxListed)
			break
		}
		fmt.Fprintf(w, "  pair %s/%d: %s\n", pv.GameID, pv.TeamID, pv.Reason)
	}
}
