package exporter

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"surveycharts/internal/config"
)

func setupTestEnv(t *testing.T) (*CSVWriter, *config.Paths) {
	t.Helper()
	tempDir := t.TempDir()
	paths := &config.Paths{
		WorkingDir: tempDir,
		SummaryDir: filepath.Join(tempDir, "reports"),
	}
	return NewCSVWriter(paths), paths
}

func readCSVFile(t *testing.T, path string) [][]string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})
	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	return records
}

func TestCSVWriter_WriteCSV(t *testing.T) {
	writer, paths := setupTestEnv(t)

	tests := []struct {
		name    string
		file    string
		options WriteOptions
		want    [][]string
		bom     bool
	}{
		{
			name: "headers and records",
			file: "basic.csv",
			options: WriteOptions{
				Headers: []string{"a", "b"},
				Records: [][]string{{"1", "2"}, {"3", "4"}},
			},
			want: [][]string{{"a", "b"}, {"1", "2"}, {"3", "4"}},
		},
		{
			name: "quoted fields with bom",
			file: "quoted.csv",
			options: WriteOptions{
				Headers:   []string{"title"},
				Records:   [][]string{{"Q1, \"really\""}},
				BOMPrefix: true,
			},
			want: [][]string{{"title"}, {"Q1, \"really\""}},
			bom:  true,
		},
		{
			name:    "records only",
			file:    "nested/records.csv",
			options: WriteOptions{Records: [][]string{{"x"}}},
			want:    [][]string{{"x"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, err := writer.WriteCSV(tt.file, tt.options)
			require.NoError(t, err)
			assert.Equal(t, filepath.Join(paths.SummaryDir, tt.file), path)

			raw, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, tt.bom, bytes.HasPrefix(raw, []byte{0xEF, 0xBB, 0xBF}))
			assert.Equal(t, tt.want, readCSVFile(t, path))
		})
	}
}

func TestCSVWriter_Overwrites(t *testing.T) {
	writer, _ := setupTestEnv(t)

	_, err := writer.WriteSimpleCSV("s.csv", []string{"h"}, [][]string{{"1"}, {"2"}})
	require.NoError(t, err)
	path, err := writer.WriteSimpleCSV("s.csv", []string{"h"}, [][]string{{"3"}})
	require.NoError(t, err)

	assert.Equal(t, [][]string{{"h"}, {"3"}}, readCSVFile(t, path))
}

func TestCSVWriter_AbsolutePath(t *testing.T) {
	writer, _ := setupTestEnv(t)
	abs := filepath.Join(t.TempDir(), "abs.csv")

	path, err := writer.WriteSimpleCSV(abs, nil, [][]string{{"v"}})
	require.NoError(t, err)
	assert.Equal(t, abs, path)
	assert.FileExists(t, abs)
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "33.33", formatFloat(100.0/3))
	assert.Equal(t, "0.00", formatFloat(0))
	assert.Equal(t, "42", formatInt(42))
	assert.Equal(t, 16.67, roundTo(100.0/6, 2))
}
