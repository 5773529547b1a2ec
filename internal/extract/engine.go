package extract

import (
	"context"
	"fmt"
	"strings"

	"docparser/internal/domain"
	"docparser/internal/port"
)

// PathConfidence is the fixed result confidence of each extraction path.
// It is a per-path constant, not a score derived from the matches.
var PathConfidence = map[domain.ContentKind]float64{
	domain.ContentText:   0.8,
	domain.ContentSheets: 0.9,
	domain.ContentTable:  0.9,
}

// SingleTableLabel names the table produced by the single-table path.
const SingleTableLabel = "csv_data"

// Engine composes the table detector and metric extractor over one
// document's content. It holds no mutable state and is safe for concurrent use.
type Engine struct {
	registry *Registry
}

// NewEngine creates an Engine over registry, or the default registry when nil.
func NewEngine(registry *Registry) *Engine {
	if registry == nil {
		registry = DefaultRegistry()
	}
	return &Engine{registry: registry}
}

// ExtractDocument acquires content through r and extracts it. Acquisition
// failures are returned as *domain.ExtractionFailedError.
func (e *Engine) ExtractDocument(ctx context.Context, r port.DocumentReader, fileType domain.FileType, data []byte) (*domain.ExtractionResult, error) {
	content, err := r.Read(ctx, fileType, data)
	if err != nil {
		return nil, &domain.ExtractionFailedError{FileType: fileType, Err: err}
	}
	return e.Extract(content), nil
}

// Extract dispatches content to the path selected by its Kind.
func (e *Engine) Extract(content *domain.DocumentContent) *domain.ExtractionResult {
	switch content.Kind {
	case domain.ContentSheets:
		return e.FromSheets(content.Sheets)
	case domain.ContentTable:
		if content.Table == nil {
			return e.FromTable(domain.Table{})
		}
		return e.FromTable(*content.Table)
	default:
		return e.FromText(content.Text)
	}
}

// FromText runs table detection and metric extraction over unstructured text.
func (e *Engine) FromText(text string) *domain.ExtractionResult {
	return &domain.ExtractionResult{
		ExtractedText: text,
		Tables:        DetectTables(text),
		Metrics:       e.ExtractMetrics(text),
		Confidence:    PathConfidence[domain.ContentText],
	}
}

// FromSheets renders each sheet to text, passes its table through verbatim
// and extracts metrics sheet by sheet, in sheet order.
func (e *Engine) FromSheets(sheets []domain.Sheet) *domain.ExtractionResult {
	result := &domain.ExtractionResult{
		Tables:     make([]domain.CandidateTable, 0, len(sheets)),
		Metrics:    make([]domain.FinancialMetric, 0),
		Confidence: PathConfidence[domain.ContentSheets],
	}

	var text strings.Builder
	for _, s := range sheets {
		rendered := RenderTable(s.Table)
		fmt.Fprintf(&text, "Sheet: %s\n%s\n\n", s.Name, rendered)
		result.Tables = append(result.Tables, sheetTable(s.Name, s.Table))
		result.Metrics = append(result.Metrics, e.ExtractMetrics(rendered)...)
	}
	result.ExtractedText = text.String()
	return result
}

// FromTable handles a single unlabelled table, such as a CSV file.
func (e *Engine) FromTable(t domain.Table) *domain.ExtractionResult {
	rendered := RenderTable(t)
	return &domain.ExtractionResult{
		ExtractedText: rendered,
		Tables:        []domain.CandidateTable{sheetTable(SingleTableLabel, t)},
		Metrics:       e.ExtractMetrics(rendered),
		Confidence:    PathConfidence[domain.ContentTable],
	}
}

func sheetTable(name string, t domain.Table) domain.CandidateTable {
	return domain.CandidateTable{
		Type:      domain.TableKindSheet,
		SheetName: name,
		Columns:   t.Columns,
		Data:      t.Rows,
	}
}
