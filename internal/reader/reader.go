// Package reader turns raw document bytes into the tabular or textual content
// the extraction engine consumes.
package reader

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"docparser/internal/domain"
	"docparser/internal/port"
)

type documentReader struct{}

// New returns a DocumentReader that dispatches on the declared file type.
func New() port.DocumentReader {
	return &documentReader{}
}

func (r *documentReader) Read(ctx context.Context, fileType domain.FileType, data []byte) (*domain.DocumentContent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch fileType {
	case domain.FileTypePDF:
		text, err := ReadPDF(ctx, data)
		if err != nil {
			return nil, err
		}
		return &domain.DocumentContent{Kind: domain.ContentText, Text: text}, nil
	case domain.FileTypeExcel:
		sheets, err := ReadWorkbook(data)
		if err != nil {
			return nil, err
		}
		return &domain.DocumentContent{Kind: domain.ContentSheets, Sheets: sheets}, nil
	case domain.FileTypeCSV:
		table, err := ReadCSV(data)
		if err != nil {
			return nil, err
		}
		return &domain.DocumentContent{Kind: domain.ContentTable, Table: table}, nil
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedFileType, fileType)
	}
}

// ParseCell types a raw cell: blank is empty, a finite number is numeric,
// anything else is text.
func ParseCell(raw string) domain.CellValue {
	s := strings.TrimSpace(raw)
	if s == "" {
		return domain.CellValue{}
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return domain.TextCell(raw)
	}
	if math.IsNaN(n) {
		return domain.CellValue{}
	}
	if math.IsInf(n, 0) {
		return domain.TextCell(raw)
	}
	return domain.NumberCell(n)
}

// buildTable treats the first row as the header and types the remaining rows.
// Blank header names become "Unnamed: <i>" and repeated names get a ".<n>" suffix.
func buildTable(rows [][]string, skipBlank bool) *domain.Table {
	if len(rows) == 0 {
		return &domain.Table{Columns: []string{}, Rows: []domain.Record{}}
	}

	width := 0
	for _, r := range rows {
		if len(r) > width {
			width = len(r)
		}
	}

	columns := make([]string, width)
	seen := make(map[string]int, width)
	for i := 0; i < width; i++ {
		name := ""
		if i < len(rows[0]) {
			name = strings.TrimSpace(rows[0][i])
		}
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		if n, dup := seen[name]; dup {
			seen[name] = n + 1
			name = fmt.Sprintf("%s.%d", name, n+1)
		} else {
			seen[name] = 0
		}
		columns[i] = name
	}

	records := make([]domain.Record, 0, len(rows)-1)
	for _, raw := range rows[1:] {
		if skipBlank && isBlank(raw) {
			continue
		}
		rec := make(domain.Record, width)
		for i, col := range columns {
			var cell domain.CellValue
			if i < len(raw) {
				cell = ParseCell(raw[i])
			}
			rec[i] = domain.Field{Column: col, Value: cell}
		}
		records = append(records, rec)
	}
	return &domain.Table{Columns: columns, Rows: records}
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
