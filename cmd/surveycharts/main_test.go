package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"surveycharts/internal/config"
	"surveycharts/internal/operations"
	"surveycharts/internal/survey"
)

func setupRun(t *testing.T) (dataDir, outDir, base string) {
	t.Helper()
	base = t.TempDir()
	dataDir = filepath.Join(base, "data")
	outDir = filepath.Join(base, "charts")
	require.NoError(t, os.MkdirAll(dataDir, 0755))

	t.Setenv("SURVEY_LOGGING_OUTPUT", "console")
	t.Setenv("SURVEY_LOGGING_LEVEL", "info")
	t.Setenv("SURVEY_REPORT_DPI", "30")
	t.Setenv("SURVEY_SUMMARY_DIR", filepath.Join(base, "reports"))
	t.Setenv("SURVEY_TELEMETRY_METRICS_FILE", filepath.Join(base, "metrics", "surveycharts.prom"))
	return dataDir, outDir, base
}

func TestParseFlags(t *testing.T) {
	var stderr bytes.Buffer
	f, err := parseFlags([]string{"-data", "in", "-format", "svg", "-summary"}, &stderr)
	require.NoError(t, err)

	cfg := config.Default()
	f.apply(cfg)
	assert.Equal(t, "in", cfg.Paths.DataDir)
	assert.Equal(t, "charts", cfg.Paths.ChartsDir, "unset flags keep config values")
	assert.Equal(t, "svg", cfg.Report.Format)
	assert.True(t, cfg.Summary.Enabled)

	_, err = parseFlags([]string{"-unknown"}, &stderr)
	assert.Error(t, err)
}

func TestRun_Success(t *testing.T) {
	dataDir, outDir, base := setupRun(t)
	header := "question,sd,d,n/us,a,sa\n"
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "staff.csv"), []byte(header+"Q1,2,0,1,3,0\nQ2,0,0,0,0,0\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "original.csv"), []byte(header+"Q1,1,1,1,1,1\n"), 0644))

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-data", dataDir, "-out", outDir, "-summary"}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	for _, name := range []string{"staff_1.png", "staff_2.png", "staff.png", "all_categories.png"} {
		assert.FileExists(t, filepath.Join(outDir, name))
	}
	assert.NoFileExists(t, filepath.Join(outDir, "original.png"))
	assert.FileExists(t, filepath.Join(base, "reports", config.SummaryCSVName))
	assert.FileExists(t, filepath.Join(base, "reports", config.SummaryXLSXName))

	out := stdout.String()
	assert.Contains(t, out, "Charts: 2 question, 1 category, 1 global")
	assert.Contains(t, out, "completed")

	metrics, err := os.ReadFile(filepath.Join(base, "metrics", "surveycharts.prom"))
	require.NoError(t, err)
	assert.Contains(t, string(metrics), "survey_charts_rendered")
	assert.Contains(t, string(metrics), "survey_rows_loaded")
}

func TestRun_Failure(t *testing.T) {
	dataDir, outDir, _ := setupRun(t)
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "staff.csv"), []byte("question,sd,d\nQ1,1,1\n"), 0644))

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-data", dataDir, "-out", outDir}, &stdout, &stderr)
	assert.Equal(t, 1, code)
	assert.Contains(t, stdout.String(), "failed")
	assert.Contains(t, stderr.String(), "Survey chart generation failed")
}

func TestRun_FileLogging(t *testing.T) {
	dataDir, outDir, base := setupRun(t)
	t.Setenv("SURVEY_LOGGING_OUTPUT", "file")
	t.Setenv("SURVEY_PATHS_LOGS_DIR", filepath.Join(base, "logs"))
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "staff.csv"), []byte("question,sd,d,n/us,a,sa\nQ1,0,0,0,6,0\n"), 0644))

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-data", dataDir, "-out", outDir}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	content, err := os.ReadFile(filepath.Join(base, "logs", config.DefaultLogFile))
	require.NoError(t, err)
	assert.Contains(t, string(content), "Survey chart generation completed")
	assert.NotContains(t, stderr.String(), "Survey chart generation completed")
}

func TestRun_MissingDataDir(t *testing.T) {
	_, outDir, base := setupRun(t)

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-data", filepath.Join(base, "nope"), "-out", outDir}, &stdout, &stderr)
	assert.Equal(t, 1, code)
}

func TestRun_BadConfig(t *testing.T) {
	setupRun(t)

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-format", "gif"}, &stdout, &stderr)
	assert.Equal(t, 1, code)
	assert.True(t, strings.Contains(stderr.String(), "configuration"))

	code = run(context.Background(), []string{"-config", "/does/not/exist.yaml"}, &stdout, &stderr)
	assert.Equal(t, 1, code)
}

func TestRenderSummary(t *testing.T) {
	step := operations.NewStepState(operations.StepIDLoad, operations.StepNameLoad)
	step.Start()
	step.SetMessage("2 sources, 5 questions")
	step.Complete()

	skipped := operations.NewStepState(operations.StepIDSummary, operations.StepNameSummary)
	skipped.Skip(operations.SkipReasonSummaryDisabled)

	result := &operations.Result{
		ID:     "run-1",
		Status: operations.OperationStatusCompleted,
		Steps:  []*operations.StepState{step.Clone(), skipped.Clone()},
		Charts: map[survey.Scope][]string{
			survey.ScopeQuestion: {"a_1.png", "a_2.png"},
			survey.ScopeGlobal:   {"all_categories.png"},
		},
		Sources:   2,
		Questions: 5,
	}

	out := renderSummary(result, &config.Paths{ChartsDir: "/tmp/charts"})
	assert.Contains(t, out, "run-1")
	assert.Contains(t, out, operations.StepNameLoad)
	assert.Contains(t, out, "2 sources, 5 questions")
	assert.Contains(t, out, operations.SkipReasonSummaryDisabled)
	assert.Contains(t, out, "Charts: 2 question, 0 category, 1 global")
	assert.Contains(t, out, "/tmp/charts")

	assert.Equal(t, "", renderSummary(nil, nil))
}
