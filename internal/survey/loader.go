package survey

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "surveycharts/internal/errors"
	"surveycharts/internal/files"
)

// QuestionColumn is the header of the question text column
const QuestionColumn = "question"

// missingValues are the cell spellings read as an absent count
var missingValues = map[string]bool{
	"":     true,
	"nan":  true,
	"-nan": true,
	"na":   true,
	"n/a":  true,
	"#n/a": true,
	"null": true,
	"none": true,
}

// Loader reads every survey table in a directory
type Loader struct {
	discovery *files.Discovery
	logger    *slog.Logger
}

// NewLoader creates a loader that skips the baseline file by name
func NewLoader(baseline string, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		discovery: files.NewDiscovery("", baseline),
		logger:    logger.With("component", "loader"),
	}
}

// Load reads all .csv and .xlsx files in dir. The first bad file aborts
// the load.
func (l *Loader) Load(ctx context.Context, dir string) (*Dataset, error) {
	found, err := l.discovery.FindTabularFiles(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperrors.NewNotFoundError("data directory", err).WithContext("dir", dir)
		}
		return nil, apperrors.NewStorageError("failed to scan data directory", err).WithContext("dir", dir)
	}

	seen := make(map[string]string, len(found))
	tables := make([]*Table, 0, len(found))
	for _, f := range found {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		source := f.Source()
		if prev, ok := seen[source]; ok {
			return nil, apperrors.NewValidationError("duplicate source name").
				WithContext("source", source).
				WithContext("files", prev+", "+f.Name)
		}
		seen[source] = f.Name

		table, err := l.LoadFile(f)
		if err != nil {
			return nil, err
		}
		tables = append(tables, table)

		l.logger.InfoContext(ctx, "Loaded survey source",
			slog.String("source", table.Source),
			slog.String("file", f.Name),
			slog.Int("rows", len(table.Rows)))
	}

	ds := NewDataset(tables...)
	l.logger.InfoContext(ctx, "Survey data loaded",
		slog.String("dir", dir),
		slog.Int("sources", ds.Len()),
		slog.Int("rows", ds.RowCount()))
	return ds, nil
}

// LoadFile reads a single table, choosing the reader by extension
func (l *Loader) LoadFile(f files.FileInfo) (*Table, error) {
	file, err := os.Open(f.Path)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to open table", err).WithContext("file", f.Name)
	}
	defer file.Close()

	read := ReadCSV
	if f.Ext == files.ExtXLSX {
		read = ReadXLSX
	}

	table, err := read(f.Source(), file)
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return nil, appErr.WithContext("file", f.Name)
		}
		return nil, err
	}
	table.Path = f.Path
	return table, nil
}

// ReadCSV parses a CSV survey table from r
func ReadCSV(source string, r io.Reader) (*Table, error) {
	records, err := csvRecords(r)
	if err != nil {
		return nil, apperrors.NewParsingError("failed to read csv", err).WithContext("source", source)
	}
	return ParseRecords(source, records)
}

func csvRecords(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	return reader.ReadAll()
}

// ReadXLSX parses the first sheet of a workbook read from r
func ReadXLSX(source string, r io.Reader) (*Table, error) {
	records, err := xlsxRecords(r)
	if err != nil {
		return nil, apperrors.NewParsingError("failed to read workbook", err).WithContext("source", source)
	}
	return ParseRecords(source, records)
}

// xlsxRecords returns the rows of the first sheet
func xlsxRecords(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}

// ParseRecords builds a table from raw records whose first record is the
// header. Blank records are skipped; short records read as missing cells.
func ParseRecords(source string, records [][]string) (*Table, error) {
	if len(records) == 0 {
		return nil, apperrors.NewValidationError("table has no header row").WithContext("source", source)
	}

	columns, err := mapHeader(records[0])
	if err != nil {
		return nil, err.WithContext("source", source)
	}

	table := &Table{Source: source}
	for i, record := range records[1:] {
		if isBlank(record) {
			continue
		}
		// 1-based line number in the file, header included
		line := i + 2

		row := Row{
			Index:    len(table.Rows),
			Question: strings.TrimSpace(cell(record, columns.question)),
		}
		for _, cat := range Categories() {
			n, err := parseCount(cell(record, columns.counts[cat]))
			if err != nil {
				return nil, apperrors.NewParsingError("invalid response count", err).
					WithContext("source", source).
					WithContext("row", line).
					WithContext("column", cat.Key())
			}
			row.Counts[cat] = n
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

type columnMap struct {
	question int
	counts   [NumCategories]int
}

func mapHeader(header []string) (columnMap, *apperrors.AppError) {
	cols := columnMap{question: -1}
	for i := range cols.counts {
		cols.counts[i] = -1
	}

	for j, raw := range header {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(raw, "\ufeff")))
		if name == "" {
			continue
		}
		if name == QuestionColumn {
			if cols.question >= 0 {
				return cols, apperrors.NewValidationError("duplicate column").WithContext("column", name)
			}
			cols.question = j
			continue
		}
		cat, err := ParseCategory(name)
		if err != nil {
			return cols, apperrors.NewValidationError(err.Error()).WithContext("column", raw)
		}
		if cols.counts[cat] >= 0 {
			return cols, apperrors.NewValidationError("duplicate column").WithContext("column", name)
		}
		cols.counts[cat] = j
	}

	if cols.question < 0 {
		return cols, apperrors.NewValidationError("missing required column").WithContext("column", QuestionColumn)
	}
	for _, cat := range Categories() {
		if cols.counts[cat] < 0 {
			return cols, apperrors.NewValidationError("missing required column").WithContext("column", cat.Key())
		}
	}
	return cols, nil
}

func cell(record []string, j int) string {
	if j < 0 || j >= len(record) {
		return ""
	}
	return record[j]
}

func isBlank(record []string) bool {
	for _, c := range record {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// parseCount reads a count cell. Missing values are zero and decimals are
// truncated toward zero.
func parseCount(raw string) (int, error) {
	s := strings.TrimSpace(raw)
	if missingValues[strings.ToLower(s)] {
		return 0, nil
	}

	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 {
			return 0, fmt.Errorf("negative count %d", n)
		}
		if n > math.MaxInt32 {
			return 0, fmt.Errorf("count out of range: %q", s)
		}
		return n, nil
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", s)
	}
	if math.IsNaN(f) {
		return 0, nil
	}
	if math.IsInf(f, 0) || f > math.MaxInt32 {
		return 0, fmt.Errorf("count out of range: %q", s)
	}
	if f < 0 {
		return 0, fmt.Errorf("negative count %q", s)
	}
	return int(f), nil
}
