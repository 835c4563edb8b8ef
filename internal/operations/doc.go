// Package operations runs the survey report as an ordered list of steps.
//
// A Manager executes its registered steps sequentially against a shared
// OperationState: the load step stores the dataset, the chart steps append
// their outputs, and the summary step exports everything written so far.
// Each step carries a StepState (pending, active, completed, failed or
// skipped) and runs inside its own span with its duration recorded as a
// metric. The first failure ends the run and later steps are skipped.
//
// NewReportPipeline builds the standard pipeline from configuration:
//
//	m, err := operations.NewReportPipeline(cfg, paths, telemetry, logger)
//	result, err := m.Execute(ctx)
package operations
