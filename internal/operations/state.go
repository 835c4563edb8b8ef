package operations

import (
	"sync"
	"time"

	"surveycharts/internal/chart"
	"surveycharts/internal/survey"
)

// OperationStatusValue represents the overall operation status enum
type OperationStatusValue string

const (
	OperationStatusPending   OperationStatusValue = "pending"
	OperationStatusRunning   OperationStatusValue = "running"
	OperationStatusCompleted OperationStatusValue = "completed"
	OperationStatusFailed    OperationStatusValue = "failed"
)

// OperationState is the shared state of one pipeline run. Steps hand
// their results to later steps through it.
type OperationState struct {
	mu sync.RWMutex

	ID        string
	Status    OperationStatusValue
	StartTime time.Time
	EndTime   *time.Time
	Error     error

	steps map[string]*StepState
	order []string

	dataset      *survey.Dataset
	outputs      map[survey.Scope][]chart.Output
	summaryFiles []string
}

// NewOperationState creates a new operation state
func NewOperationState(id string) *OperationState {
	return &OperationState{
		ID:        id,
		Status:    OperationStatusPending,
		StartTime: time.Now(),
		steps:     make(map[string]*StepState),
		outputs:   make(map[survey.Scope][]chart.Output),
	}
}

// Start marks the operation as running
func (p *OperationState) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Status = OperationStatusRunning
	p.StartTime = time.Now()
}

// Complete marks the operation as completed
func (p *OperationState) Complete() {
	p.mu.Lock()
	defer p.mu.Unlock()
	now := time.Now()
	p.EndTime = &now
	p.Status = OperationStatusCompleted
}

// Fail marks the operation as failed
func (p *OperationState) Fail(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	now := time.Now()
	p.EndTime = &now
	p.Status = OperationStatusFailed
	p.Error = err
}

// AddStep registers a step state, keeping registration order
func (p *OperationState) AddStep(state *StepState) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.steps[state.ID]; !ok {
		p.order = append(p.order, state.ID)
	}
	p.steps[state.ID] = state
}

// GetStep returns the state of a specific Step
func (p *OperationState) GetStep(id string) *StepState {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.steps[id]
}

// Steps returns the step states in registration order
func (p *OperationState) Steps() []*StepState {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]*StepState, 0, len(p.order))
	for _, id := range p.order {
		out = append(out, p.steps[id])
	}
	return out
}

// SetDataset stores the loaded survey data
func (p *OperationState) SetDataset(ds *survey.Dataset) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.dataset = ds
}

// Dataset returns the loaded survey data, nil before the load step
func (p *OperationState) Dataset() *survey.Dataset {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.dataset
}

// AddOutputs records written charts for scope
func (p *OperationState) AddOutputs(scope survey.Scope, outputs ...chart.Output) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.outputs[scope] = append(p.outputs[scope], outputs...)
}

// Outputs returns the charts written for scope
func (p *OperationState) Outputs(scope survey.Scope) []chart.Output {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]chart.Output(nil), p.outputs[scope]...)
}

// AllOutputs returns every written chart, question scope first
func (p *OperationState) AllOutputs() []chart.Output {
	var all []chart.Output
	for _, scope := range []survey.Scope{survey.ScopeQuestion, survey.ScopeCategory, survey.ScopeGlobal} {
		all = append(all, p.Outputs(scope)...)
	}
	return all
}

// SetSummaryFiles stores the written summary file paths
func (p *OperationState) SetSummaryFiles(paths []string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.summaryFiles = paths
}

// SummaryFiles returns the written summary file paths
func (p *OperationState) SummaryFiles() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]string(nil), p.summaryFiles...)
}

// Duration returns the duration of the operation execution
func (p *OperationState) Duration() time.Duration {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.EndTime != nil {
		return p.EndTime.Sub(p.StartTime)
	}
	return time.Since(p.StartTime)
}
