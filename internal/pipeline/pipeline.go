package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"salescli/internal/config"
	"salescli/internal/exporter"
	"salescli/internal/infrastructure"
	"salescli/internal/table"
)

// Stage names used in logs and error messages
const (
	StageLoad     = "load"
	StageValidate = "validate"
	StageClean    = "clean"
	StageEnrich   = "enrich"
	StageReport   = "report"
)

// Runner executes the full pipeline: load, validate, clean, enrich, report.
// One Runner handles one execution at a time; it keeps no state between
// runs.
type Runner struct {
	cfg       *config.Config
	logger    *slog.Logger
	schema    Schema
	loader    *Loader
	validator *Validator
	cleaner   *Cleaner
	enricher  *Enricher
	writer    *exporter.Writer
}

// NewRunner wires the pipeline stages for the given configuration
func NewRunner(cfg *config.Config, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	schema := SalesSchema()
	return &Runner{
		cfg:       cfg,
		logger:    logger,
		schema:    schema,
		loader:    NewLoader(logger, schema),
		validator: NewValidator(logger, schema),
		cleaner:   NewCleaner(logger, schema),
		enricher:  NewEnricher(logger),
		writer:    exporter.NewWriter(logger),
	}
}

// Result describes a completed run: the report and where the two artifacts
// were written.
type Result struct {
	Report       *RunReport
	EnrichedPath string
	ReportPath   string
}

// Run executes the pipeline once. The stages run strictly in order, each
// consuming the previous stage's table; any stage error aborts the run with
// no artifact published.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	if infrastructure.GetRunID(ctx) == "" {
		ctx = infrastructure.WithRunID(ctx, uuid.New().String())
	}

	paths := r.cfg.GetPaths()
	if err := paths.EnsureDirectories(); err != nil {
		return nil, err
	}

	inputPath := paths.GetDataPath(r.cfg.Pipeline.InputFile)
	start := time.Now()
	r.logger.InfoContext(ctx, "pipeline started",
		slog.String("input", inputPath))

	loaded, err := r.runLoad(ctx, inputPath)
	if err != nil {
		return nil, err
	}

	findings, err := r.runValidate(ctx, loaded)
	if err != nil {
		return nil, err
	}

	cleaned, changes, err := r.runClean(ctx, loaded, findings)
	if err != nil {
		return nil, err
	}

	enriched, err := r.runEnrich(ctx, cleaned)
	if err != nil {
		return nil, err
	}

	report, err := BuildReport(r.schema, inputPath, loaded, enriched, findings, changes)
	if err != nil {
		return nil, err
	}

	enrichedPath := paths.GetOutputPath(r.cfg.Pipeline.EnrichedFile)
	if err := r.writer.WriteTable(enrichedPath, enriched); err != nil {
		return nil, err
	}
	reportPath := paths.GetOutputPath(r.cfg.Pipeline.ReportFile)
	if err := r.writer.WriteText(reportPath, report.Render()); err != nil {
		return nil, err
	}

	r.logger.InfoContext(ctx, "pipeline completed",
		slog.Int("rows_in", report.RowsBefore),
		slog.Int("rows_out", report.RowsAfter),
		slog.Int("findings", len(findings)),
		slog.Int("changes", len(changes)),
		slog.Duration("elapsed", time.Since(start)))

	return &Result{
		Report:       report,
		EnrichedPath: enrichedPath,
		ReportPath:   reportPath,
	}, nil
}

func (r *Runner) runLoad(ctx context.Context, path string) (*table.Table, error) {
	return timeStage(ctx, r.logger, StageLoad, func() (*table.Table, error) {
		return r.loader.Load(ctx, path)
	})
}

func (r *Runner) runValidate(ctx context.Context, t *table.Table) ([]Finding, error) {
	return timeStage(ctx, r.logger, StageValidate, func() ([]Finding, error) {
		return r.validator.Validate(ctx, t)
	})
}

func (r *Runner) runClean(ctx context.Context, t *table.Table, findings []Finding) (*table.Table, []Change, error) {
	start := time.Now()
	cleaned, changes, err := r.cleaner.Clean(ctx, t, findings)
	logStage(ctx, r.logger, StageClean, start, err)
	return cleaned, changes, err
}

func (r *Runner) runEnrich(ctx context.Context, t *table.Table) (*table.Table, error) {
	return timeStage(ctx, r.logger, StageEnrich, func() (*table.Table, error) {
		return r.enricher.Enrich(ctx, t)
	})
}

// timeStage wraps a stage call with duration logging
func timeStage[T any](ctx context.Context, logger *slog.Logger, stage string, fn func() (T, error)) (T, error) {
	start := time.Now()
	out, err := fn()
	logStage(ctx, logger, stage, start, err)
	return out, err
}

func logStage(ctx context.Context, logger *slog.Logger, stage string, start time.Time, err error) {
	if err != nil {
		logger.ErrorContext(ctx, "stage failed",
			slog.String("stage", stage),
			slog.Duration("elapsed", time.Since(start)),
			slog.String("error", err.Error()))
		return
	}
	logger.InfoContext(ctx, "stage completed",
		slog.String("stage", stage),
		slog.Duration("elapsed", time.Since(start)))
}
