package extract

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"docparser/internal/domain"
)

// RenderTable dumps a table as fixed-width text: a header line of column
// names, then one line per row prefixed by its zero-based index. Columns are
// right-aligned and separated by two spaces.
func RenderTable(t domain.Table) string {
	if len(t.Columns) == 0 || len(t.Rows) == 0 {
		return fmt.Sprintf("Empty DataFrame\nColumns: [%s]\nIndex: []", strings.Join(t.Columns, ", "))
	}

	cells := make([][]string, len(t.Rows))
	widths := make([]int, len(t.Columns))
	for c, name := range t.Columns {
		widths[c] = utf8.RuneCountInString(name)
	}
	for r, row := range t.Rows {
		cells[r] = make([]string, len(t.Columns))
		for c := range t.Columns {
			var v domain.CellValue
			if c < len(row) {
				v = row[c].Value
			}
			s := v.String()
			cells[r][c] = s
			if n := utf8.RuneCountInString(s); n > widths[c] {
				widths[c] = n
			}
		}
	}
	indexWidth := len(strconv.Itoa(len(t.Rows) - 1))

	var b strings.Builder
	b.WriteString(strings.Repeat(" ", indexWidth))
	for c, name := range t.Columns {
		fmt.Fprintf(&b, "  %*s", widths[c], name)
	}
	for r := range cells {
		fmt.Fprintf(&b, "\n%-*d", indexWidth, r)
		for c, s := range cells[r] {
			fmt.Fprintf(&b, "  %*s", widths[c], s)
		}
	}
	return b.String()
}
