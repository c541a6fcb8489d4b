package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Load reads a raw table from r, picking the format from the file name
// extension. Supported: .csv and .xlsx. Legacy BIFF .xls is not: excelize
// only reads the OOXML format.
func Load(r io.Reader, filename string) (*Table, error) {
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".csv":
		return ReadCSV(r)
	case ".xlsx":
		return ReadXLSX(r)
	default:
		return nil, fmt.Errorf("unsupported file format: %s", strings.TrimPrefix(ext, "."))
	}
}

// LoadFile opens and reads a ledger file from disk.
func LoadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open ledger file: %w", err)
	}
	defer f.Close()
	return Load(f, path)
}

// ReadCSV parses a CSV stream into a Table. The first record is the header;
// ragged rows are tolerated and padded or truncated to the header width.
func ReadCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("read csv: empty file")
	}

	t := &Table{Columns: records[0]}
	for _, rec := range records[1:] {
		t.Rows = append(t.Rows, fitRow(rec, len(t.Columns)))
	}
	return t, nil
}

// ReadXLSX parses the first sheet of an Excel workbook into a Table.
func ReadXLSX(r io.Reader) (*Table, error) {
	wb, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer wb.Close()

	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := wb.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %s is empty", sheets[0])
	}

	t := &Table{Columns: rows[0]}
	for _, row := range rows[1:] {
		t.Rows = append(t.Rows, fitRow(row, len(t.Columns)))
	}
	return t, nil
}

func fitRow(row []string, width int) []string {
	out := make([]string, width)
	copy(out, row)
	return out
}
