package importer

import (
	"fmt"
	"path/filepath"
	"strings"
)

type Reader interface {
	Read(path string) ([]Record, error)
}

func ReaderForFormat(format string) (Reader, error) {
	switch normalizeHeader(format) {
	case "csv", "tsv":
		return &CSVReader{}, nil
	case "excel", "xlsx", "xlsm":
		return &ExcelReader{}, nil
	default:
		return nil, fmt.Errorf("unsupported input format: %s", format)
	}
}

// InferFormat returns format when set, otherwise the format implied by the
// file extension.
func InferFormat(path, format string) (string, error) {
	if strings.TrimSpace(format) != "" {
		return strings.ToLower(strings.TrimSpace(format)), nil
	}

	switch extension := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")); extension {
	case "csv", "tsv", "txt":
		return "csv", nil
	case "xlsx", "xlsm":
		return "excel", nil
	case "json":
		return "json", nil
	default:
		return "", fmt.Errorf("unsupported file extension for %s", path)
	}
}

func buildRecords(headers []string, rows [][]string, firstRowNumber int) []Record {
	normalizedHeaders := make([]string, len(headers))
	for i, header := range headers {
		normalizedHeaders[i] = normalizeHeader(header)
	}

	records := make([]Record, 0, len(rows))
	for i, row := range rows {
		values := make(map[string]string, len(normalizedHeaders))
		for col, header := range normalizedHeaders {
			if header == "" {
				continue
			}
			if col < len(row) {
				values[header] = row[col]
			} else {
				values[header] = ""
			}
		}
		records = append(records, Record{RowNumber: firstRowNumber + i, Values: values})
	}
	return records
}
