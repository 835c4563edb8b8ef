package operations

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"surveycharts/internal/infrastructure"
	"surveycharts/internal/survey"
)

// Result reports one finished run
type Result struct {
	ID           string
	Status       OperationStatusValue
	Duration     time.Duration
	Steps        []*StepState
	Charts       map[survey.Scope][]string
	SummaryFiles []string
	Sources      int
	Questions    int
	Error        error
}

// ChartCount returns the number of charts written across all scopes
func (r *Result) ChartCount() int {
	n := 0
	for _, files := range r.Charts {
		n += len(files)
	}
	return n
}

// Manager runs registered steps in order. The first failing step stops
// the run and every later step is marked skipped.
type Manager struct {
	steps     []Step
	ids       map[string]bool
	telemetry *infrastructure.Telemetry
	logger    *slog.Logger
}

// NewManager creates an operation manager
func NewManager(telemetry *infrastructure.Telemetry, logger *slog.Logger) *Manager {
	return &Manager{
		ids:       make(map[string]bool),
		telemetry: telemetry,
		logger:    infrastructure.WithComponent(logger, "operations"),
	}
}

// RegisterStep appends a step to the run order
func (m *Manager) RegisterStep(step Step) error {
	if step == nil {
		return fmt.Errorf("step cannot be nil")
	}
	if step.ID() == "" {
		return fmt.Errorf("step ID cannot be empty")
	}
	if m.ids[step.ID()] {
		return fmt.Errorf("step %s already registered", step.ID())
	}
	m.ids[step.ID()] = true
	m.steps = append(m.steps, step)
	return nil
}

// StepIDs returns the registered step IDs in run order
func (m *Manager) StepIDs() []string {
	ids := make([]string, len(m.steps))
	for i, s := range m.steps {
		ids[i] = s.ID()
	}
	return ids
}

// Execute runs every step once and returns the run result. The returned
// error is the failing step's error.
func (m *Manager) Execute(ctx context.Context) (*Result, error) {
	ctx = infrastructure.EnsureTraceID(ctx)
	state := NewOperationState(infrastructure.GetTraceID(ctx))

	for _, step := range m.steps {
		state.AddStep(NewStepState(step.ID(), step.Name()))
	}

	ctx, span := m.telemetry.StartSpan(ctx, "operation.execute",
		attribute.String("operation.id", state.ID),
		attribute.Int("operation.steps", len(m.steps)))
	defer span.End()

	state.Start()
	m.logger.InfoContext(ctx, "operation_start",
		slog.String("operation_id", state.ID),
		slog.Any("steps", m.StepIDs()))

	err := m.executeSequential(ctx, state)
	if err != nil {
		state.Fail(err)
		infrastructure.RecordError(span, err)
	} else {
		state.Complete()
	}

	result := m.createResult(state)
	m.logger.InfoContext(ctx, "operation_finished",
		slog.String("operation_id", state.ID),
		slog.String("status", string(result.Status)),
		slog.Int("charts", result.ChartCount()),
		slog.Duration("duration", result.Duration))

	return result, err
}

func (m *Manager) executeSequential(ctx context.Context, state *OperationState) error {
	for i, step := range m.steps {
		stepState := state.GetStep(step.ID())

		if skipper, ok := step.(Skipper); ok {
			if reason := skipper.SkipReason(); reason != "" {
				stepState.Skip(reason)
				m.logger.InfoContext(ctx, "stage_skipped",
					slog.String("operation_id", state.ID),
					slog.String("step", step.ID()),
					slog.String("reason", reason))
				continue
			}
		}

		m.logger.InfoContext(ctx, "executing_stage",
			slog.String("operation_id", state.ID),
			slog.String("step", step.ID()),
			slog.Int("stage_number", i+1),
			slog.Int("total_stages", len(m.steps)))

		if err := m.executeStep(ctx, state, step, stepState); err != nil {
			for _, rest := range m.steps[i+1:] {
				if rs := state.GetStep(rest.ID()); rs.GetStatus() == StepStatusPending {
					rs.Skip(SkipReasonPreviousFailed)
				}
			}
			return fmt.Errorf("step %s failed: %w", step.ID(), err)
		}
	}
	return nil
}

func (m *Manager) executeStep(ctx context.Context, state *OperationState, step Step, stepState *StepState) error {
	ctx, span := m.telemetry.StartSpan(ctx, "operation.step."+step.ID(),
		attribute.String("operation.id", state.ID),
		attribute.String("step.id", step.ID()))
	defer span.End()

	stepState.Start()
	err := ctx.Err()
	if err == nil {
		err = step.Execute(ctx, state)
	}
	m.telemetry.RecordStep(ctx, step.ID(), stepState.Duration(), err)

	if err != nil {
		stepState.Fail(err)
		infrastructure.RecordError(span, err)
		m.logger.ErrorContext(ctx, "stage_failed",
			slog.String("operation_id", state.ID),
			slog.String("step", step.ID()),
			slog.String("error", err.Error()))
		return err
	}

	stepState.Complete()
	m.logger.InfoContext(ctx, "stage_completed_successfully",
		slog.String("operation_id", state.ID),
		slog.String("step", step.ID()),
		slog.String("message", stepState.GetMessage()),
		slog.Duration("duration", stepState.Duration()))
	return nil
}

func (m *Manager) createResult(state *OperationState) *Result {
	result := &Result{
		ID:           state.ID,
		Status:       state.Status,
		Duration:     state.Duration(),
		Charts:       make(map[survey.Scope][]string),
		SummaryFiles: state.SummaryFiles(),
		Error:        state.Error,
	}
	for _, s := range state.Steps() {
		result.Steps = append(result.Steps, s.Clone())
	}
	for _, out := range state.AllOutputs() {
		scope := out.Distribution.Scope
		result.Charts[scope] = append(result.Charts[scope], out.File)
	}
	if ds := state.Dataset(); ds != nil {
		result.Sources = ds.Len()
		result.Questions = ds.RowCount()
	}
	return result
}
