package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"salescli/internal/analytics"
	"salescli/internal/config"
	"salescli/internal/infrastructure"
	"salescli/internal/pipeline"
)

func main() {
	inPath := flag.String("in", "", "enriched dataset file (defaults to the pipeline's output artifact)")
	outDir := flag.String("out", "", "output directory for the analytics CSVs (defaults to the configured output dir)")
	configFile := flag.String("config", "", "optional YAML configuration file")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	paths := cfg.GetPaths()
	if *inPath == "" {
		*inPath = paths.GetOutputPath(cfg.Pipeline.EnrichedFile)
	}
	if *outDir == "" {
		*outDir = cfg.Paths.OutputDir
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Error("Failed to initialize logger", "error", err)
		os.Exit(1)
	}
	defer infrastructure.CloseLogFile()

	ctx := infrastructure.WithRunID(context.Background(), uuid.New().String())

	loader := pipeline.NewLoader(logger, pipeline.SalesSchema())
	enriched, err := loader.Load(ctx, *inPath)
	if err != nil {
		logger.ErrorContext(ctx, "failed to load enriched dataset",
			slog.String("path", *inPath),
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	written, err := analytics.NewGenerator(logger).WriteAll(ctx, enriched, *outDir)
	if err != nil {
		logger.ErrorContext(ctx, "analytics generation failed",
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.InfoContext(ctx, "analytics artifacts written",
		slog.Int("count", len(written)))
}
