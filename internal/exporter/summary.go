package exporter

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"surveycharts/internal/chart"
	"surveycharts/internal/config"
	apperrors "surveycharts/internal/errors"
	"surveycharts/internal/files"
	"surveycharts/internal/survey"
)

// SummarySheet is the worksheet name in summary.xlsx
const SummarySheet = "Summary"

// SummaryExporter writes the per-chart summary as CSV and XLSX
type SummaryExporter struct {
	csvWriter *CSVWriter
	manager   *files.Manager
	logger    *slog.Logger
}

// NewSummaryExporter creates an exporter writing into paths.SummaryDir
func NewSummaryExporter(paths *config.Paths, logger *slog.Logger) *SummaryExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &SummaryExporter{
		csvWriter: NewCSVWriter(paths),
		manager:   files.NewManager(paths.SummaryDir),
		logger:    logger.With("component", "summary"),
	}
}

// SummaryHeaders returns the column names shared by both formats
func SummaryHeaders() []string {
	headers := []string{"scope", "source", "index", "title"}
	for _, c := range survey.Categories() {
		headers = append(headers, c.Key())
	}
	headers = append(headers, "respondents")
	for _, c := range survey.Categories() {
		headers = append(headers, c.Key()+"_pct")
	}
	return append(headers, "chart_file")
}

// summaryRow is one chart's record before formatting
type summaryRow struct {
	scope       string
	source      string
	index       int // 1-based; 0 for non-question scopes
	title       string
	counts      survey.Counts
	respondents int
	percents    [survey.NumCategories]float64
	file        string
}

func buildRows(outputs []chart.Output) []summaryRow {
	rows := make([]summaryRow, 0, len(outputs))
	for _, out := range outputs {
		d := out.Distribution
		row := summaryRow{
			scope:       string(d.Scope),
			source:      d.Source,
			title:       d.Title,
			counts:      d.Counts,
			respondents: d.Respondents,
			file:        out.File,
		}
		if d.Scope == survey.ScopeQuestion {
			row.index = d.Index + 1
		}
		for _, sl := range d.Slices() {
			row.percents[sl.Category] = sl.Percent
		}
		rows = append(rows, row)
	}
	return rows
}

// SummaryRecords formats outputs as CSV records
func SummaryRecords(outputs []chart.Output) [][]string {
	rows := buildRows(outputs)
	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		index := ""
		if row.index > 0 {
			index = formatInt(row.index)
		}
		record := []string{row.scope, row.source, index, row.title}
		for _, cat := range survey.Categories() {
			record = append(record, formatInt(row.counts.Get(cat)))
		}
		record = append(record, formatInt(row.respondents))
		for _, p := range row.percents {
			record = append(record, formatFloat(p))
		}
		records = append(records, append(record, row.file))
	}
	return records
}

// Export writes summary.csv and summary.xlsx and returns their paths
func (s *SummaryExporter) Export(ctx context.Context, outputs []chart.Output) ([]string, error) {
	csvPath, err := s.csvWriter.WriteSimpleCSV(config.SummaryCSVName, SummaryHeaders(), SummaryRecords(outputs))
	if err != nil {
		return nil, apperrors.NewStorageError("failed to write summary csv", err).
			WithContext("file", config.SummaryCSVName)
	}

	xlsxPath, err := s.manager.WriteFile(config.SummaryXLSXName, func(w io.Writer) error {
		return writeWorkbook(w, outputs)
	})
	if err != nil {
		return nil, apperrors.NewStorageError("failed to write summary workbook", err).
			WithContext("file", config.SummaryXLSXName)
	}

	s.logger.InfoContext(ctx, "Summary exported",
		slog.Int("records", len(outputs)),
		slog.String("csv", csvPath),
		slog.String("xlsx", xlsxPath))

	return []string{csvPath, xlsxPath}, nil
}

func writeWorkbook(w io.Writer, outputs []chart.Output) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SummarySheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	headers := SummaryHeaders()
	headerRow := make([]interface{}, len(headers))
	for i, h := range headers {
		headerRow[i] = h
	}
	if err := f.SetSheetRow(SummarySheet, "A1", &headerRow); err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	lastHeader, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(SummarySheet, "A1", lastHeader, bold); err != nil {
		return fmt.Errorf("failed to style header row: %w", err)
	}
	if err := f.SetColWidth(SummarySheet, "D", "D", 60); err != nil {
		return fmt.Errorf("failed to size title column: %w", err)
	}

	for i, row := range buildRows(outputs) {
		values := []interface{}{row.scope, row.source}
		if row.index > 0 {
			values = append(values, row.index)
		} else {
			values = append(values, nil)
		}
		values = append(values, row.title)
		for _, cat := range survey.Categories() {
			values = append(values, row.counts.Get(cat))
		}
		values = append(values, row.respondents)
		for _, p := range row.percents {
			values = append(values, roundTo(p, 2))
		}
		values = append(values, row.file)

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SummarySheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	return f.Write(w)
}
