package csvexport

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"docparser/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns defines the CSV header row.
var columns = []string{
	"Document ID",
	"Metric",
	"Value",
	"Unit",
	"Period",
	"Source",
	"Confidence",
	"Parsed At",
}

// Writer wraps csv.Writer for exporting extracted metrics as CSV.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteRecord writes one row per metric of the record, in extraction order.
// Failed parses produce no rows.
func (w *Writer) WriteRecord(rec *domain.ParseRecord) error {
	for i := range rec.Metrics {
		if err := w.csv.Write(metricToRow(rec, &rec.Metrics[i])); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

func metricToRow(rec *domain.ParseRecord, m *domain.FinancialMetric) []string {
	row := make([]string, len(columns))
	row[0] = rec.DocumentID
	row[1] = m.Name
	row[2] = strconv.FormatFloat(m.Value, 'f', -1, 64)
	row[3] = string(m.Unit)
	row[4] = m.Period
	row[5] = m.Source
	row[6] = strconv.FormatFloat(m.Confidence, 'f', 2, 64)
	row[7] = rec.CreatedAt.UTC().Format(time.RFC3339)
	return row
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a document id for use in Content-Disposition.
// Replaces non-alphanumeric chars (except - _) with _, collapses consecutive
// underscores, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	if s == "" {
		s = "document"
	}
	return s
}

// BuildFilename returns a sanitized filename for Content-Disposition header.
// Format: {sanitized_document_id}_metrics_{YYYY-MM-DD}.csv
func BuildFilename(documentID string, parsedAt time.Time) string {
	return fmt.Sprintf("%s_metrics_%s.csv", SanitizeFilename(documentID), parsedAt.UTC().Format("2006-01-02"))
}
