package reader_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"docparser/internal/domain"
	"docparser/internal/reader"
)

func TestParseCell(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want domain.CellValue
	}{
		{"blank", "   ", domain.CellValue{}},
		{"integer", "42", domain.NumberCell(42)},
		{"decimal", "-3.5", domain.NumberCell(-3.5)},
		{"exponent", "1e3", domain.NumberCell(1000)},
		{"nan marker", "NaN", domain.CellValue{}},
		{"infinity stays text", "inf", domain.TextCell("inf")},
		{"text", "Revenue", domain.TextCell("Revenue")},
		{"grouped digits stay text", "1,200", domain.TextCell("1,200")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, reader.ParseCell(tt.raw))
		})
	}
}

func TestReadCSV(t *testing.T) {
	data := []byte("\xEF\xBB\xBFitem,amount,,amount\nrevenue,100,x,1\n\nEPS,2.5\n")

	table, err := reader.ReadCSV(data)

	require.NoError(t, err)
	assert.Equal(t, []string{"item", "amount", "Unnamed: 2", "amount.1"}, table.Columns)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, domain.Record{
		{Column: "item", Value: domain.TextCell("revenue")},
		{Column: "amount", Value: domain.NumberCell(100)},
		{Column: "Unnamed: 2", Value: domain.TextCell("x")},
		{Column: "amount.1", Value: domain.NumberCell(1)},
	}, table.Rows[0])

	v, ok := table.Rows[1].Get("amount.1")
	assert.True(t, ok)
	assert.Equal(t, domain.CellEmpty, v.Kind)
}

func TestReadCSV_Empty(t *testing.T) {
	table, err := reader.ReadCSV(nil)

	require.NoError(t, err)
	assert.Empty(t, table.Columns)
	assert.Empty(t, table.Rows)
}

func TestReadWorkbook(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"Metric", "Value"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{"Revenue", 500}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]interface{}{"EPS", 3.2}))
	_, err := f.NewSheet("Ratios")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("Ratios", "A1", &[]interface{}{"Ratio", "FY24"}))
	require.NoError(t, f.SetSheetRow("Ratios", "A2", &[]interface{}{"Current ratio"}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	sheets, err := reader.ReadWorkbook(buf.Bytes())

	require.NoError(t, err)
	require.Len(t, sheets, 2)
	assert.Equal(t, "Sheet1", sheets[0].Name)
	assert.Equal(t, []string{"Metric", "Value"}, sheets[0].Table.Columns)
	require.Len(t, sheets[0].Table.Rows, 2)
	assert.Equal(t, domain.NumberCell(500), sheets[0].Table.Rows[0][1].Value)
	assert.Equal(t, domain.NumberCell(3.2), sheets[0].Table.Rows[1][1].Value)

	assert.Equal(t, "Ratios", sheets[1].Name)
	require.Len(t, sheets[1].Table.Rows, 1)
	assert.Equal(t, domain.CellEmpty, sheets[1].Table.Rows[0][1].Value.Kind)
}

func TestReadWorkbook_NotAWorkbook(t *testing.T) {
	_, err := reader.ReadWorkbook([]byte("plain text, not a zip"))
	assert.Error(t, err)
}

func TestReadPDF_Invalid(t *testing.T) {
	_, err := reader.ReadPDF(context.Background(), []byte("not a pdf"))
	assert.Error(t, err)
}

func TestDocumentReader_Dispatch(t *testing.T) {
	r := reader.New()

	content, err := r.Read(context.Background(), domain.FileTypeCSV, []byte("a,b\n1,2\n"))
	require.NoError(t, err)
	assert.Equal(t, domain.ContentTable, content.Kind)
	require.NotNil(t, content.Table)
	assert.Len(t, content.Table.Rows, 1)

	_, err = r.Read(context.Background(), domain.FileType("docx"), nil)
	assert.ErrorIs(t, err, domain.ErrUnsupportedFileType)
}

func TestDocumentReader_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := reader.New().Read(ctx, domain.FileTypeCSV, []byte("a\n1\n"))
	assert.ErrorIs(t, err, context.Canceled)
}
