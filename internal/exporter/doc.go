// Package exporter writes the tabular run summary: one record per rendered
// chart with its counts, respondent figure and percentage shares.
//
// CSVWriter handles the CSV side with a UTF-8 BOM for Excel compatibility.
// SummaryExporter builds the records once and writes both summary.csv and
// a summary.xlsx workbook with a bold header row.
//
// Example usage:
//
//	summary := exporter.NewSummaryExporter(paths, nil)
//	files, err := summary.Export(ctx, outputs)
package exporter
