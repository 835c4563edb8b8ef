package survey

import (
	"fmt"
	"strings"

	apperrors "surveycharts/internal/errors"
)

// Scope names the level a distribution summarizes
type Scope string

const (
	ScopeQuestion Scope = "question"
	ScopeCategory Scope = "category"
	ScopeGlobal   Scope = "global"
)

// CategoryMode selects how a per-source chart is aggregated
type CategoryMode string

const (
	// CategoryFirstRow charts only the first row of each source
	CategoryFirstRow CategoryMode = "first-row"
	// CategorySum charts the sum of every row of the source
	CategorySum CategoryMode = "sum"
)

// RespondentMode selects the respondent figure on the global chart
type RespondentMode string

const (
	// RespondentsMaxRow reports the largest single-row total of any source
	RespondentsMaxRow RespondentMode = "max-row"
	// RespondentsSum reports the total of every row of every source
	RespondentsSum RespondentMode = "sum"
)

// GlobalTitle is the title of the all-sources chart
const GlobalTitle = "Overall Response Distribution (All Categories)"

// Distribution is one chartable set of counts
type Distribution struct {
	Scope       Scope
	Source      string
	Index       int // row index for question scope, -1 otherwise
	Title       string
	Counts      Counts
	Respondents int
}

// Slices returns the positive category shares
func (d Distribution) Slices() []Slice {
	return d.Counts.Slices()
}

// QuestionDistributions returns one distribution per row of t
func QuestionDistributions(t *Table) []Distribution {
	out := make([]Distribution, 0, len(t.Rows))
	for i, r := range t.Rows {
		out = append(out, Distribution{
			Scope:       ScopeQuestion,
			Source:      t.Source,
			Index:       i,
			Title:       r.Question,
			Counts:      r.Counts,
			Respondents: r.Counts.Total(),
		})
	}
	return out
}

// CategoryDistribution summarizes one source
func CategoryDistribution(t *Table, mode CategoryMode) (Distribution, error) {
	d := Distribution{
		Scope:  ScopeCategory,
		Source: t.Source,
		Index:  -1,
		Title:  fmt.Sprintf("Overall Response Distribution for %s", CapitalizeSource(t.Source)),
	}

	switch mode {
	case CategorySum:
		d.Counts = t.Sum()
	case CategoryFirstRow, "":
		if len(t.Rows) == 0 {
			return d, apperrors.NewValidationError("source has no rows").WithContext("source", t.Source)
		}
		d.Counts = t.Rows[0].Counts
	default:
		return d, apperrors.NewValidationError(fmt.Sprintf("unknown category mode %q", mode))
	}

	d.Respondents = d.Counts.Total()
	return d, nil
}

// GlobalDistribution sums every row of every source
func GlobalDistribution(ds *Dataset, mode RespondentMode) (Distribution, error) {
	d := Distribution{Scope: ScopeGlobal, Index: -1, Title: GlobalTitle}

	maxRow := 0
	for _, t := range ds.Tables() {
		d.Counts = d.Counts.Add(t.Sum())
		if m := t.MaxRowTotal(); m > maxRow {
			maxRow = m
		}
	}

	switch mode {
	case RespondentsMaxRow, "":
		d.Respondents = maxRow
	case RespondentsSum:
		d.Respondents = d.Counts.Total()
	default:
		return d, apperrors.NewValidationError(fmt.Sprintf("unknown respondent mode %q", mode))
	}
	return d, nil
}

// CapitalizeSource upper-cases the first letter and lower-cases the rest
func CapitalizeSource(s string) string {
	if s == "" {
		return s
	}
	r := []rune(strings.ToLower(s))
	r[0] = []rune(strings.ToUpper(string(r[0])))[0]
	return string(r)
}
