package operations

import (
	"log/slog"

	"surveycharts/internal/chart"
	"surveycharts/internal/config"
	apperrors "surveycharts/internal/errors"
	"surveycharts/internal/exporter"
	"surveycharts/internal/files"
	"surveycharts/internal/infrastructure"
	"surveycharts/internal/survey"
)

// NewReportPipeline wires the five report steps from configuration:
// load, question charts, category charts, global chart and summary.
func NewReportPipeline(cfg *config.Config, paths *config.Paths, telemetry *infrastructure.Telemetry, logger *slog.Logger) (*Manager, error) {
	style, err := chart.NewStyle(cfg.Report)
	if err != nil {
		return nil, apperrors.NewConfigError("invalid chart settings", err)
	}

	renderer := chart.NewRenderer(files.NewManager(paths.ChartsDir), style, chart.Options{
		Workers:   cfg.Report.Workers,
		Telemetry: telemetry,
		Logger:    logger,
	})

	var summary *exporter.SummaryExporter
	if cfg.Summary.Enabled {
		summary = exporter.NewSummaryExporter(paths, logger)
	}

	m := NewManager(telemetry, logger)
	steps := []Step{
		NewLoadStep(survey.NewLoader(cfg.Report.BaselineFile, logger), paths.DataDir, telemetry),
		NewQuestionChartsStep(renderer),
		NewCategoryChartsStep(renderer, survey.CategoryMode(cfg.Report.CategoryMode)),
		NewGlobalChartStep(renderer, survey.RespondentMode(cfg.Report.GlobalRespondents), cfg.Report.GlobalFile),
		NewSummaryStep(summary),
	}
	for _, step := range steps {
		if err := m.RegisterStep(step); err != nil {
			return nil, err
		}
	}
	return m, nil
}
