package operations

// Step identifiers, in execution order
const (
	StepIDLoad           = "load"
	StepIDQuestionCharts = "question_charts"
	StepIDCategoryCharts = "category_charts"
	StepIDGlobalChart    = "global_chart"
	StepIDSummary        = "summary"
)

// Step names
const (
	StepNameLoad           = "Load Survey Data"
	StepNameQuestionCharts = "Question Charts"
	StepNameCategoryCharts = "Category Charts"
	StepNameGlobalChart    = "Global Chart"
	StepNameSummary        = "Summary Export"
)

// Skip reasons
const (
	SkipReasonSummaryDisabled = "summary export disabled"
	SkipReasonPreviousFailed  = "previous step failed"
)
