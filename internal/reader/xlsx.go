package reader

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"docparser/internal/domain"
)

// ReadWorkbook loads every sheet of an xlsx workbook in workbook order.
func ReadWorkbook(data []byte) ([]domain.Sheet, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	names := f.GetSheetList()
	sheets := make([]domain.Sheet, 0, len(names))
	for _, name := range names {
		rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("reading sheet %q: %w", name, err)
		}
		sheets = append(sheets, domain.Sheet{Name: name, Table: *buildTable(rows, false)})
	}
	return sheets, nil
}
