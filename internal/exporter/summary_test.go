package exporter

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"surveycharts/internal/chart"
	"surveycharts/internal/survey"
)

func testOutputs() []chart.Output {
	return []chart.Output{
		{
			Distribution: survey.Distribution{
				Scope: survey.ScopeQuestion, Source: "staff", Index: 0, Title: "Q1",
				Counts: survey.Counts{2, 0, 1, 3, 0}, Respondents: 6,
			},
			File: "staff_1.png",
		},
		{
			Distribution: survey.Distribution{
				Scope: survey.ScopeCategory, Source: "staff", Index: -1,
				Title:  "Overall Response Distribution for Staff",
				Counts: survey.Counts{2, 0, 1, 3, 0}, Respondents: 6,
			},
			File: "staff.png",
		},
		{
			Distribution: survey.Distribution{
				Scope: survey.ScopeGlobal, Index: -1, Title: survey.GlobalTitle,
				Counts: survey.Counts{0, 0, 0, 0, 0}, Respondents: 0,
			},
			File: "all_categories.png",
		},
	}
}

func TestSummaryHeaders(t *testing.T) {
	assert.Equal(t, []string{
		"scope", "source", "index", "title",
		"sd", "d", "n/us", "a", "sa",
		"respondents",
		"sd_pct", "d_pct", "n/us_pct", "a_pct", "sa_pct",
		"chart_file",
	}, SummaryHeaders())
}

func TestSummaryRecords(t *testing.T) {
	records := SummaryRecords(testOutputs())
	require.Len(t, records, 3)

	assert.Equal(t, []string{
		"question", "staff", "1", "Q1",
		"2", "0", "1", "3", "0",
		"6",
		"33.33", "0.00", "16.67", "50.00", "0.00",
		"staff_1.png",
	}, records[0])

	assert.Equal(t, "", records[1][2], "category rows carry no index")
	assert.Equal(t, "global", records[2][0])
	assert.Equal(t, "0.00", records[2][10])
	for _, r := range records {
		assert.Len(t, r, len(SummaryHeaders()))
	}
}

func TestSummaryExporter_Export(t *testing.T) {
	_, paths := setupTestEnv(t)
	exp := NewSummaryExporter(paths, nil)

	written, err := exp.Export(context.Background(), testOutputs())
	require.NoError(t, err)
	require.Len(t, written, 2)
	assert.Equal(t, filepath.Join(paths.SummaryDir, "summary.csv"), written[0])
	assert.Equal(t, filepath.Join(paths.SummaryDir, "summary.xlsx"), written[1])

	records := readCSVFile(t, written[0])
	require.Len(t, records, 4)
	assert.Equal(t, SummaryHeaders(), records[0])

	f, err := excelize.OpenFile(written[1])
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SummarySheet}, f.GetSheetList())
	rows, err := f.GetRows(SummarySheet)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, SummaryHeaders(), rows[0])
	assert.Equal(t, "staff_1.png", rows[1][15])
	assert.Equal(t, "33.33", rows[1][10])

	styleID, err := f.GetCellStyle(SummarySheet, "A1")
	require.NoError(t, err)
	style, err := f.GetStyle(styleID)
	require.NoError(t, err)
	require.NotNil(t, style.Font)
	assert.True(t, style.Font.Bold)
}
