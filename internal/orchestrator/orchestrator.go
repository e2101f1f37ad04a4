// Package orchestrator runs a feature build end to end and writes its
// artifacts. Flow: pipeline run -> RUN_REPORT.md -> features.csv
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"nba-feature-lab/internal/pipeline"
	"nba-feature-lab/internal/reporting"
)

// Orchestrator coordinates one build and its file outputs.
type Orchestrator struct {
	pipeline  *pipeline.Pipeline
	reportGen *reporting.Generator
	outputDir string
	writeCSV  bool
	log       *zap.Logger
}

// Options for creating Orchestrator.
type Options struct {
	Pipeline  *pipeline.Pipeline
	OutputDir string

	// WriteCSV exports the feature table as features.csv next to the report.
	WriteCSV bool

	// Clock stamps the report. Defaults to time.Now in UTC.
	Clock  func() time.Time
	Logger *zap.Logger
}

// New creates a new Orchestrator.
func New(opts Options) *Orchestrator {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	gen := reporting.NewGenerator(opts.Pipeline.Config())
	if opts.Clock != nil {
		gen = gen.WithClock(opts.Clock)
	}
	return &Orchestrator{
		pipeline:  opts.Pipeline,
		reportGen: gen,
		outputDir: opts.OutputDir,
		writeCSV:  opts.WriteCSV,
		log:       logger,
	}
}

// RunResult contains results from orchestrator execution.
type RunResult struct {
	Run          *pipeline.RunResult
	Report       *reporting.Report
	ReportPath   string
	FeaturesPath string // empty unless features.csv was written
}

// Run executes the build. The report is written even when the pipeline
// fails; the pipeline error is then returned alongside the result.
func (o *Orchestrator) Run(ctx context.Context) (*RunResult, error) {
	if err := os.MkdirAll(o.outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	res, runErr := o.pipeline.Run(ctx)
	out := &RunResult{
		Run:        res,
		Report:     o.reportGen.Generate(res, runErr),
		ReportPath: filepath.Join(o.outputDir, reporting.RunReportFile),
	}

	if err := writeFileAtomic(out.ReportPath, []byte(reporting.RenderMarkdown(out.Report))); err != nil {
		return out, errors.Join(runErr, fmt.Errorf("write report: %w", err))
	}
	o.log.Info("report written", zap.String("path", out.ReportPath))

	if runErr != nil {
		return out, runErr
	}

	if o.writeCSV {
		path := filepath.Join(o.outputDir, reporting.FeaturesFile)
		if err := o.writeFeatures(path, res); err != nil {
			return out, fmt.Errorf("write features csv: %w", err)
		}
		out.FeaturesPath = path
		o.log.Info("features written", zap.String("path", path), zap.Int("rows", len(res.Rows)))
	}
	return out, nil
}

func (o *Orchestrator) writeFeatures(path string, res *pipeline.RunResult) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".features-*.csv")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := reporting.WriteFeaturesCSV(tmp, res.Schema, res.Rows); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// writeFileAtomic writes data to a temp file in the same directory and
// renames it over path.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
