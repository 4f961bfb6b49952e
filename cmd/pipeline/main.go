package main

import (
	"context"
	goerrors "errors"
	"flag"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"salescli/internal/config"
	"salescli/internal/errors"
	"salescli/internal/infrastructure"
	"salescli/internal/pipeline"
)

func main() {
	inPath := flag.String("in", "", "input dataset file (overrides configured data dir and input file)")
	outDir := flag.String("out", "", "output directory (overrides configured output dir)")
	configFile := flag.String("config", "", "optional YAML configuration file")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if *inPath != "" {
		cfg.Paths.DataDir = filepath.Dir(*inPath)
		cfg.Pipeline.InputFile = filepath.Base(*inPath)
	}
	if *outDir != "" {
		cfg.Paths.OutputDir = *outDir
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Error("Failed to initialize logger", "error", err)
		os.Exit(1)
	}
	defer infrastructure.CloseLogFile()

	ctx := infrastructure.WithRunID(context.Background(), uuid.New().String())

	result, err := pipeline.NewRunner(cfg, logger).Run(ctx)
	if err != nil {
		var appErr *errors.AppError
		if goerrors.As(err, &appErr) && appErr.Stage != "" {
			logger.ErrorContext(ctx, "pipeline failed",
				slog.String("stage", appErr.Stage),
				slog.String("error", err.Error()))
		} else {
			logger.ErrorContext(ctx, "pipeline failed",
				slog.String("error", err.Error()))
		}
		os.Exit(1)
	}

	logger.InfoContext(ctx, "artifacts written",
		slog.String("enriched", result.EnrichedPath),
		slog.String("report", result.ReportPath))
}
