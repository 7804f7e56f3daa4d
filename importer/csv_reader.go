package importer

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// CSVReader reads delimited text. UTF-16 and UTF-8 files with a byte order
// mark are decoded transparently, and the delimiter is detected from the
// header line unless Comma is set.
type CSVReader struct {
	Comma rune
}

func (r *CSVReader) Read(path string) ([]Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv file %s: %w", path, err)
	}
	defer file.Close()

	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	buffered := bufio.NewReader(transform.NewReader(file, decoder))

	comma := r.Comma
	if comma == 0 {
		peek, _ := buffered.Peek(4096)
		comma = detectDelimiter(string(peek))
	}

	reader := csv.NewReader(buffered)
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	rows := make([][]string, 0, 128)
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row %d: %w", len(rows)+2, err)
		}
		rows = append(rows, row)
	}

	return buildRecords(headers, rows, 2), nil
}

func detectDelimiter(sample string) rune {
	header, _, _ := strings.Cut(sample, "\n")
	best, bestCount := ',', strings.Count(header, ",")
	for _, candidate := range []rune{';', '\t'} {
		if count := strings.Count(header, string(candidate)); count > bestCount {
			best, bestCount = candidate, count
		}
	}
	return best
}
