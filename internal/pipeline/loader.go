package pipeline

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"salescli/internal/errors"
	"salescli/internal/table"
)

// Loader reads the raw sales dataset from disk into a table. It fails with
// SOURCE_NOT_FOUND when the path does not exist and SCHEMA_MISMATCH when
// the header lacks required columns; it performs no retries.
type Loader struct {
	logger *slog.Logger
	schema Schema
}

// NewLoader creates a loader for the given schema
func NewLoader(logger *slog.Logger, schema Schema) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger, schema: schema}
}

// Load reads the file at path into a table. CSV is the primary format;
// .xlsx workbooks are read from their first sheet.
func (l *Loader) Load(ctx context.Context, path string) (*table.Table, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, errors.NewSourceNotFoundError(path, err).WithStage(StageLoad)
	}

	var (
		records [][]string
		err     error
	)
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		records, err = readXLSX(path)
	} else {
		records, err = readCSV(path)
	}
	if err != nil {
		return nil, errors.NewParsingError(fmt.Sprintf("failed to read %s", path), err).WithStage(StageLoad)
	}

	if len(records) == 0 {
		return nil, errors.NewSchemaMismatchError("input file has no header row", nil).WithStage(StageLoad)
	}

	header := make([]string, len(records[0]))
	for i, name := range records[0] {
		header[i] = strings.TrimSpace(name)
	}

	var missing []string
	for _, name := range l.schema.RequiredColumns() {
		found := false
		for _, h := range header {
			if h == name {
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, errors.NewSchemaMismatchError(
			fmt.Sprintf("required columns missing from header: %s", strings.Join(missing, ", ")), nil).
			WithStage(StageLoad).
			WithContext("missing_columns", missing)
	}

	t, err := table.New(header)
	if err != nil {
		return nil, errors.NewSchemaMismatchError("invalid header", err).WithStage(StageLoad)
	}
	for i, row := range records[1:] {
		if err := t.AppendRow(row); err != nil {
			return nil, errors.NewParsingError(fmt.Sprintf("row %d malformed", i+1), err).WithStage(StageLoad)
		}
	}

	l.logger.InfoContext(ctx, "dataset loaded",
		slog.String("path", path),
		slog.Int("rows", t.NumRows()),
		slog.Int("columns", t.NumColumns()))

	return t, nil
}

// readCSV reads all rows of a CSV file, tolerating a UTF-8 BOM and ragged
// row lengths (short rows are padded by the table).
func readCSV(path string) ([][]string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	content = bytes.TrimPrefix(content, []byte{0xEF, 0xBB, 0xBF})

	reader := csv.NewReader(bytes.NewReader(content))
	reader.FieldsPerRecord = -1
	return reader.ReadAll()
}

// readXLSX reads the first sheet of a workbook, first row as header
func readXLSX(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	return f.GetRows(sheets[0])
}
