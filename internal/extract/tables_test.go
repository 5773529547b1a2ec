package extract_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docparser/internal/domain"
	"docparser/internal/extract"
)

func TestDetectTables_ThreeRowsClosedByText(t *testing.T) {
	text := "Income statement\n" +
		"  Revenue   100  200  300\n" +
		"  Costs      40   80  120\n" +
		"  Profit     60  120  180\n" +
		"Notes follow"

	tables := extract.DetectTables(text)

	require.Len(t, tables, 1)
	assert.Equal(t, domain.TableKindExtracted, tables[0].Type)
	assert.Equal(t, 0.6, tables[0].Confidence)
	assert.Equal(t, []string{
		"Revenue   100  200  300",
		"Costs      40   80  120",
		"Profit     60  120  180",
	}, tables[0].Rows)
}

func TestDetectTables_TwoRowsDiscarded(t *testing.T) {
	text := "Header\n Q1 10 20 30\n Q2 11 21 31\nFooter"

	tables := extract.DetectTables(text)

	assert.NotNil(t, tables)
	assert.Empty(t, tables)
}

func TestDetectTables_TrailingRunNotFlushed(t *testing.T) {
	text := "Header\n Q1 10 20 30\n Q2 11 21 31\n Q3 12 22 32"

	assert.Empty(t, extract.DetectTables(text))
}

func TestDetectTables_MultipleRunsInOrder(t *testing.T) {
	text := "A\n a 1 2 3\n b 4 5 6\n c 7 8 9\nB\n d 1 1 1\nC\n e 2 2 2\n f 3 3 3\n g 4 4 4\n h 5 5 5\nend"

	tables := extract.DetectTables(text)

	require.Len(t, tables, 2)
	assert.Equal(t, []string{"a 1 2 3", "b 4 5 6", "c 7 8 9"}, tables[0].Rows)
	assert.Len(t, tables[1].Rows, 4)
	assert.Equal(t, "e 2 2 2", tables[1].Rows[0])
}

func TestDetectTables_EmptyText(t *testing.T) {
	tables := extract.DetectTables("")
	assert.NotNil(t, tables)
	assert.Empty(t, tables)
}

func TestDetectTables_NonBreakingSpaceColumns(t *testing.T) {
	text := "Segments\n" +
		"Retail\u00a0100\u00a0200\u00a0300\n" +
		"Online\u00a040\u00a080\u00a0120\n" +
		"Total\u00a0140\u00a0280\u00a0420\n" +
		"End"

	tables := extract.DetectTables(text)

	require.Len(t, tables, 1)
	assert.Len(t, tables[0].Rows, 3)
	assert.Equal(t, "Retail\u00a0100\u00a0200\u00a0300", tables[0].Rows[0])
}
