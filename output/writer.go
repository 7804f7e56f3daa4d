package output

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Table is a rectangular export: one header row and any number of rows.
type Table struct {
	Sheet   string
	Headers []string
	Rows    [][]string
}

type Writer interface {
	Write(path string, table Table) error
}

func WriterForFormat(format string) (Writer, error) {
	switch normalizeFormat(format) {
	case "csv":
		return &CSVWriter{}, nil
	case "excel", "xlsx":
		return &ExcelWriter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// FormatFromPath infers the output format from the file extension.
func FormatFromPath(path string) (string, error) {
	switch ext := normalizeFormat(filepath.Ext(path)); ext {
	case ".csv":
		return "csv", nil
	case ".xlsx":
		return "xlsx", nil
	default:
		return "", fmt.Errorf("cannot infer output format from extension %q (use .csv or .xlsx)", ext)
	}
}

// WriteFile writes table to path in the format implied by its extension.
func WriteFile(path string, table Table) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	writer, err := WriterForFormat(format)
	if err != nil {
		return err
	}
	return writer.Write(path, table)
}

func normalizeFormat(value string) string {
	return strings.TrimSpace(strings.ToLower(value))
}
