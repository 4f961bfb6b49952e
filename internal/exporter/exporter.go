// Package exporter writes the pipeline's output artifacts. Every write is
// all-or-nothing: content goes to a temporary file in the destination
// directory which is renamed over the final name only after a successful
// flush and sync, so a failed run never leaves a truncated artifact behind.
package exporter

import (
	"encoding/csv"
	"log/slog"
	"os"
	"path/filepath"

	"salescli/internal/errors"
	"salescli/internal/table"
)

// Writer writes CSV and text artifacts atomically
type Writer struct {
	logger *slog.Logger
}

// NewWriter creates an artifact writer
func NewWriter(logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{logger: logger}
}

// WriteTable serializes a table to CSV at path: header row first, then the
// data rows in table order.
func (w *Writer) WriteTable(path string, t *table.Table) error {
	records := make([][]string, 0, t.NumRows()+1)
	records = append(records, t.Columns())
	for i := 0; i < t.NumRows(); i++ {
		records = append(records, t.Row(i).Cells())
	}

	err := w.writeAtomic(path, func(f *os.File) error {
		cw := csv.NewWriter(f)
		if err := cw.WriteAll(records); err != nil {
			return err
		}
		return cw.Error()
	})
	if err != nil {
		return err
	}

	w.logger.Info("table written",
		slog.String("path", path),
		slog.Int("rows", t.NumRows()),
		slog.Int("columns", t.NumColumns()))
	return nil
}

// WriteText writes a plain-text artifact at path
func (w *Writer) WriteText(path string, content string) error {
	err := w.writeAtomic(path, func(f *os.File) error {
		_, err := f.WriteString(content)
		return err
	})
	if err != nil {
		return err
	}

	w.logger.Info("text artifact written",
		slog.String("path", path),
		slog.Int("bytes", len(content)))
	return nil
}

// writeAtomic runs write against a temp file next to path and renames it
// into place on success. On any failure the temp file is removed and the
// final name is left untouched.
func (w *Writer) writeAtomic(path string, write func(*os.File) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.NewWriteFailureError("failed to create output directory", err).
			WithContext("path", path)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return errors.NewWriteFailureError("failed to create temporary file", err).
			WithContext("path", path)
	}
	tmpName := tmp.Name()

	cleanup := func(cause error, message string) error {
		tmp.Close()
		os.Remove(tmpName)
		return errors.NewWriteFailureError(message, cause).WithContext("path", path)
	}

	if err := write(tmp); err != nil {
		return cleanup(err, "failed to write artifact content")
	}
	if err := tmp.Sync(); err != nil {
		return cleanup(err, "failed to sync artifact")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.NewWriteFailureError("failed to close artifact", err).WithContext("path", path)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return errors.NewWriteFailureError("failed to publish artifact", err).WithContext("path", path)
	}
	return nil
}
