package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"nba-feature-lab/internal/config"
	"nba-feature-lab/internal/observability"
	"nba-feature-lab/internal/orchestrator"
	"nba-feature-lab/internal/pipeline"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Run the feature pipeline and write features and RUN_REPORT.md",
	Long: `Loads every team-season game log table from the source, computes
trailing win counts and stat means per team, joins each row with its
opponent's row and writes the result to the sink. A run report is always
written to the output directory.`,
	RunE: runBuild,
}

func init() {
	f := buildCmd.Flags()
	f.String("source", "", "source kind: csv, postgres, sqlite, fixtures")
	f.String("source-path", "", "csv directory or sqlite file to read game logs from")
	f.String("sink", "", "sink kind: csv, postgres, clickhouse, sqlite, none")
	f.String("sink-dsn", "", "postgres or clickhouse DSN for the sink")
	f.String("output-dir", "", "directory for RUN_REPORT.md and features.csv")
	f.String("metrics-addr", "", "Prometheus metrics HTTP address (empty to disable)")
	f.StringSlice("season", nil, "only load these seasons, e.g. 2022-23 (repeatable)")
	f.StringSlice("team", nil, "only load these teams by abbreviation (repeatable)")

	bindFlag(buildCmd, "source.kind", "source")
	bindFlag(buildCmd, "source.path", "source-path")
	bindFlag(buildCmd, "sink.kind", "sink")
	bindFlag(buildCmd, "sink.dsn", "sink-dsn")
	bindFlag(buildCmd, "output_dir", "output-dir")
	bindFlag(buildCmd, "metrics_addr", "metrics-addr")
	bindFlag(buildCmd, "pipeline.seasons", "season")
	bindFlag(buildCmd, "pipeline.teams", "team")
}

func runBuild(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	featureCfg, err := cfg.FeatureConfig()
	if err != nil {
		return err
	}
	filter, err := cfg.Filter()
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.NewMetrics(reg, "")
	if cfg.MetricsAddr != "" {
		shutdown := serveMetrics(cfg.MetricsAddr, reg)
		defer shutdown()
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
		Config:   featureCfg,
		Source:   source,
		Filter:   filter,
		Sink:     sink,
		SinkName: cfg.Sink.Kind,
		Metrics:  metrics,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	logger.Info("starting build",
		zap.String("source", cfg.Source.Kind),
		zap.String("sink", cfg.Sink.Kind),
		zap.Int("win_window", featureCfg.WinWindow),
		zap.Int("stat_window", featureCfg.StatWindow),
	)
	o := orchestrator.New(orchestrator.Options{
		Pipeline:  p,
		OutputDir: cfg.OutputDir,
		WriteCSV:  cfg.Sink.Kind == config.SinkCSV,
		Logger:    logger,
	})
	res, err := o.Run(ctx)
	if res != nil {
		printSummary(cmd.OutOrStdout(), res)
	}
	return err
}

// serveMetrics starts the metrics endpoint and returns its shutdown function.
func serveMetrics(addr string, gatherer prometheus.Gatherer) func() {
	srv := &http.Server{
		Addr:              addr,
		Handler:           observability.NewMux(gatherer),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("starting metrics server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server error", zap.Error(err))
		}
	}()
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}

func printSummary(w io.Writer, res *orchestrator.RunResult) {
	run := res.Run
	fmt.Fprintf(w, "Build %s:\n", res.Report.Status)
	if run != nil {
		fmt.Fprintf(w, "  Tables:      %d\n", run.Tables)
		fmt.Fprintf(w, "  Input rows:  %d\n", run.InputRows)
		fmt.Fprintf(w, "  Dropped:     %d\n", run.Drops.Total())
		fmt.Fprintf(w, "  Output rows: %d\n", run.OutputRows)
		if len(run.MissingOpponents) > 0 {
			fmt.Fprintf(w, "  Missing opponent rows: %d (see report)\n", len(run.MissingOpponents))
		}
	}
	fmt.Fprintf(w, "  - %s\n", res.ReportPath)
	if res.FeaturesPath != "" {
		fmt.Fprintf(w, "  - %s\n", res.FeaturesPath)
	}
}
