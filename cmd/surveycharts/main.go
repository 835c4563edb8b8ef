package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"surveycharts/internal/config"
	apperrors "surveycharts/internal/errors"
	"surveycharts/internal/infrastructure"
	"surveycharts/internal/operations"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// cliFlags holds the command line overrides
type cliFlags struct {
	configPath string
	dataDir    string
	outDir     string
	format     string
	summary    bool
	set        map[string]bool
}

func parseFlags(args []string, stderr io.Writer) (*cliFlags, error) {
	f := &cliFlags{set: make(map[string]bool)}

	fs := flag.NewFlagSet(config.AppName, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&f.configPath, "config", "", "path to a YAML config file (defaults to surveycharts.yaml when present)")
	fs.StringVar(&f.dataDir, "data", "", "directory of survey .csv/.xlsx files (defaults to ./data)")
	fs.StringVar(&f.outDir, "out", "", "directory for chart images (defaults to ./charts)")
	fs.StringVar(&f.format, "format", "", "chart image format: png or svg")
	fs.BoolVar(&f.summary, "summary", false, "also write summary.csv and summary.xlsx")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	fs.Visit(func(fl *flag.Flag) { f.set[fl.Name] = true })
	return f, nil
}

// apply copies explicitly set flags over cfg
func (f *cliFlags) apply(cfg *config.Config) {
	if f.set["data"] {
		cfg.Paths.DataDir = f.dataDir
	}
	if f.set["out"] {
		cfg.Paths.ChartsDir = f.outDir
	}
	if f.set["format"] {
		cfg.Report.Format = f.format
	}
	if f.set["summary"] {
		cfg.Summary.Enabled = f.summary
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	flags, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 1
	}

	cfg, err := config.Load(flags.configPath)
	if err != nil {
		fmt.Fprintf(stderr, "failed to load configuration: %v\n", err)
		return 1
	}
	flags.apply(cfg)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "invalid configuration: %v\n", err)
		return 1
	}

	paths, err := config.GetPaths(cfg)
	if err != nil {
		fmt.Fprintf(stderr, "failed to resolve paths: %v\n", err)
		return 1
	}
	cfg.Logging.FilePath = paths.GetLogPath(cfg.Logging.FilePath)

	logger, closeLog, err := infrastructure.NewLogger(cfg.Logging, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "failed to initialize logger: %v\n", err)
		return 1
	}
	defer closeLog()
	prevLogger := slog.Default()
	slog.SetDefault(logger)
	defer slog.SetDefault(prevLogger)

	ctx = infrastructure.EnsureTraceID(ctx)
	logger.InfoContext(ctx, "Starting survey chart generation",
		slog.String("version", config.AppVersion),
		slog.String("format", cfg.Report.Format),
		slog.Bool("summary", cfg.Summary.Enabled))
	paths.LogPathResolution(logger)

	if err := paths.EnsureDirectories(cfg.Summary.Enabled); err != nil {
		logFailure(ctx, logger, "Failed to create output directories",
			apperrors.NewStorageError("failed to create output directories", err))
		return 1
	}

	telemetry, err := infrastructure.InitializeTelemetry(cfg.Telemetry, logger)
	if err != nil {
		logFailure(ctx, logger, "Failed to initialize telemetry", err)
		return 1
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Telemetry shutdown failed", slog.String("error", err.Error()))
		}
	}()

	pipeline, err := operations.NewReportPipeline(cfg, paths, telemetry, logger)
	if err != nil {
		logFailure(ctx, logger, "Failed to build report pipeline", err)
		return 1
	}

	result, err := pipeline.Execute(ctx)
	fmt.Fprintln(stdout, renderSummary(result, paths))
	if err != nil {
		logFailure(ctx, logger, "Survey chart generation failed", err)
		return 1
	}

	logger.InfoContext(ctx, "Survey chart generation completed",
		slog.Int("charts", result.ChartCount()),
		slog.Duration("duration", result.Duration))
	return 0
}

// logFailure logs err once with its AppError type and context
func logFailure(ctx context.Context, logger *slog.Logger, msg string, err error) {
	args := []any{"error", err.Error()}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		args = append(args, appErr.LogAttrs()...)
	}
	logger.ErrorContext(ctx, msg, args...)
}
