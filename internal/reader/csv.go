package reader

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"docparser/internal/domain"
)

// utf8BOM is stripped so spreadsheet exports keep a clean first column name.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadCSV parses delimited text with a header row. Blank lines are skipped.
func ReadCSV(data []byte) (*domain.Table, error) {
	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading csv: %w", err)
	}
	return buildTable(rows, true), nil
}
