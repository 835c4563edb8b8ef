package operations

import (
	"context"
	"fmt"

	"surveycharts/internal/chart"
	apperrors "surveycharts/internal/errors"
	"surveycharts/internal/exporter"
	"surveycharts/internal/infrastructure"
	"surveycharts/internal/survey"
)

// LoadStep reads every survey table from the data directory
type LoadStep struct {
	BaseStage
	loader    *survey.Loader
	dataDir   string
	telemetry *infrastructure.Telemetry
}

// NewLoadStep creates the load step
func NewLoadStep(loader *survey.Loader, dataDir string, telemetry *infrastructure.Telemetry) *LoadStep {
	return &LoadStep{
		BaseStage: NewBaseStage(StepIDLoad, StepNameLoad),
		loader:    loader,
		dataDir:   dataDir,
		telemetry: telemetry,
	}
}

// Execute loads the dataset into state
func (s *LoadStep) Execute(ctx context.Context, state *OperationState) error {
	ds, err := s.loader.Load(ctx, s.dataDir)
	if err != nil {
		return err
	}
	state.SetDataset(ds)
	s.telemetry.RecordLoad(ctx, ds.Len(), ds.RowCount())
	state.GetStep(s.ID()).SetMessage(fmt.Sprintf("%d sources, %d questions", ds.Len(), ds.RowCount()))
	return nil
}

// QuestionChartsStep writes one chart per question
type QuestionChartsStep struct {
	BaseStage
	renderer *chart.Renderer
}

// NewQuestionChartsStep creates the per-question step
func NewQuestionChartsStep(renderer *chart.Renderer) *QuestionChartsStep {
	return &QuestionChartsStep{
		BaseStage: NewBaseStage(StepIDQuestionCharts, StepNameQuestionCharts),
		renderer:  renderer,
	}
}

// Execute renders every question of the loaded dataset
func (s *QuestionChartsStep) Execute(ctx context.Context, state *OperationState) error {
	ds, err := requireDataset(state, s.ID())
	if err != nil {
		return err
	}
	outputs, err := s.renderer.RenderQuestions(ctx, ds)
	if err != nil {
		return err
	}
	state.AddOutputs(survey.ScopeQuestion, outputs...)
	state.GetStep(s.ID()).SetMessage(fmt.Sprintf("%d charts", len(outputs)))
	return nil
}

// CategoryChartsStep writes one chart per source
type CategoryChartsStep struct {
	BaseStage
	renderer *chart.Renderer
	mode     survey.CategoryMode
}

// NewCategoryChartsStep creates the per-source step
func NewCategoryChartsStep(renderer *chart.Renderer, mode survey.CategoryMode) *CategoryChartsStep {
	return &CategoryChartsStep{
		BaseStage: NewBaseStage(StepIDCategoryCharts, StepNameCategoryCharts),
		renderer:  renderer,
		mode:      mode,
	}
}

// Execute renders one chart for each source
func (s *CategoryChartsStep) Execute(ctx context.Context, state *OperationState) error {
	ds, err := requireDataset(state, s.ID())
	if err != nil {
		return err
	}
	outputs, err := s.renderer.RenderCategories(ctx, ds, s.mode)
	if err != nil {
		return err
	}
	state.AddOutputs(survey.ScopeCategory, outputs...)
	state.GetStep(s.ID()).SetMessage(fmt.Sprintf("%d charts (%s)", len(outputs), s.mode))
	return nil
}

// GlobalChartStep writes the chart across all sources
type GlobalChartStep struct {
	BaseStage
	renderer *chart.Renderer
	mode     survey.RespondentMode
	fileName string
}

// NewGlobalChartStep creates the global step
func NewGlobalChartStep(renderer *chart.Renderer, mode survey.RespondentMode, fileName string) *GlobalChartStep {
	return &GlobalChartStep{
		BaseStage: NewBaseStage(StepIDGlobalChart, StepNameGlobalChart),
		renderer:  renderer,
		mode:      mode,
		fileName:  fileName,
	}
}

// Execute renders the global chart
func (s *GlobalChartStep) Execute(ctx context.Context, state *OperationState) error {
	ds, err := requireDataset(state, s.ID())
	if err != nil {
		return err
	}
	out, err := s.renderer.RenderGlobal(ctx, ds, s.mode, s.fileName)
	if err != nil {
		return err
	}
	state.AddOutputs(survey.ScopeGlobal, out)
	state.GetStep(s.ID()).SetMessage(out.File)
	return nil
}

// SummaryStep exports the summary table of every written chart
type SummaryStep struct {
	BaseStage
	exporter *exporter.SummaryExporter
}

// NewSummaryStep creates the summary step. A nil exporter disables it.
func NewSummaryStep(exp *exporter.SummaryExporter) *SummaryStep {
	return &SummaryStep{
		BaseStage: NewBaseStage(StepIDSummary, StepNameSummary),
		exporter:  exp,
	}
}

// SkipReason reports why the step will not run
func (s *SummaryStep) SkipReason() string {
	if s.exporter == nil {
		return SkipReasonSummaryDisabled
	}
	return ""
}

// Execute writes summary.csv and summary.xlsx
func (s *SummaryStep) Execute(ctx context.Context, state *OperationState) error {
	written, err := s.exporter.Export(ctx, state.AllOutputs())
	if err != nil {
		return err
	}
	state.SetSummaryFiles(written)
	state.GetStep(s.ID()).SetMessage(fmt.Sprintf("%d files", len(written)))
	return nil
}

func requireDataset(state *OperationState, stepID string) (*survey.Dataset, error) {
	ds := state.Dataset()
	if ds == nil {
		return nil, apperrors.NewValidationError("no survey data loaded").WithContext("step", stepID)
	}
	return ds, nil
}
