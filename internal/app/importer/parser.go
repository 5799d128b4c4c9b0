package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"github.com/yigit/certdesk/internal/pkg/apperrors"
)

// Parser reads a roster file into header-keyed rows.
type Parser interface {
	Parse(path string) ([]map[string]string, error)
}

// ParserFor picks a parser by file extension.
func ParserFor(path string) (Parser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return CSVParser{}, nil
	case ".xlsx", ".xlsm":
		return XLSXParser{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", apperrors.ErrUnsupportedFileType, filepath.Ext(path))
	}
}

// CSVParser reads comma separated files; a UTF-8 byte order mark is ignored.
type CSVParser struct{}

func (CSVParser) Parse(path string) ([]map[string]string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	b = bytes.TrimPrefix(b, []byte{0xEF, 0xBB, 0xBF})

	r := csv.NewReader(bytes.NewReader(b))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var table [][]string
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse csv: %w", err)
		}
		table = append(table, rec)
	}
	return rowsFromTable(table), nil
}

// XLSXParser reads the first worksheet of an Excel workbook.
type XLSXParser struct{}

func (XLSXParser) Parse(path string) ([]map[string]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("workbook %s has no sheets", filepath.Base(path))
	}
	table, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return rowsFromTable(table), nil
}

// rowsFromTable keys every data row by the header row. Short rows are padded with empty
// values and columns without a header are dropped.
func rowsFromTable(table [][]string) []map[string]string {
	if len(table) == 0 {
		return []map[string]string{}
	}
	headers := table[0]

	rows := make([]map[string]string, 0, len(table)-1)
	for _, rec := range table[1:] {
		row := make(map[string]string, len(headers))
		for i, h := range headers {
			if strings.TrimSpace(h) == "" {
				continue
			}
			if i < len(rec) {
				row[h] = rec[i]
			} else {
				row[h] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows
}
