package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// FinancialMetric is a single named financial quantity extracted from a document.
type FinancialMetric struct {
	Name       string  `json:"name"`
	Value      float64 `json:"value"`
	Unit       Unit    `json:"unit"`
	Period     string  `json:"period"`
	Source     string  `json:"source"`
	Confidence float64 `json:"confidence"`
}

// CandidateTable is a tabular region of a document. Text-derived tables carry
// raw Rows and a Confidence; sheet tables carry SheetName, Columns and Data.
type CandidateTable struct {
	Type       TableKind `json:"type"`
	Rows       []string  `json:"rows,omitempty"`
	Confidence float64   `json:"confidence,omitempty"`
	SheetName  string    `json:"sheet_name,omitempty"`
	Columns    []string  `json:"columns,omitempty"`
	Data       []Record  `json:"data,omitempty"`
}

// MarshalJSON writes the shape selected by Type. Sheet tables always carry
// columns and data; text-derived tables always carry rows and confidence.
func (t CandidateTable) MarshalJSON() ([]byte, error) {
	if t.Type == TableKindSheet {
		columns, data := t.Columns, t.Data
		if columns == nil {
			columns = []string{}
		}
		if data == nil {
			data = []Record{}
		}
		return json.Marshal(struct {
			Type      TableKind `json:"type"`
			SheetName string    `json:"sheet_name"`
			Columns   []string  `json:"columns"`
			Data      []Record  `json:"data"`
		}{t.Type, t.SheetName, columns, data})
	}

	rows := t.Rows
	if rows == nil {
		rows = []string{}
	}
	return json.Marshal(struct {
		Type       TableKind `json:"type"`
		Rows       []string  `json:"rows"`
		Confidence float64   `json:"confidence"`
	}{t.Type, rows, t.Confidence})
}

// ExtractionResult aggregates everything extracted from one document.
type ExtractionResult struct {
	ExtractedText string            `json:"extracted_text"`
	Tables        []CandidateTable  `json:"tables"`
	Metrics       []FinancialMetric `json:"metrics"`
	Confidence    float64           `json:"confidence"`
}

// Table is an already-tabular source: ordered column names and row records.
type Table struct {
	Columns []string
	Rows    []Record
}

// Sheet is a named table inside a workbook.
type Sheet struct {
	Name  string
	Table Table
}

// DocumentContent is what a reader hands to the extraction engine. Kind
// selects which of Text, Sheets or Table is populated.
type DocumentContent struct {
	Kind   ContentKind
	Text   string
	Sheets []Sheet
	Table  *Table
}

// ParseRecord is the persisted outcome of one parse request.
type ParseRecord struct {
	ID            uuid.UUID         `json:"id"`
	DocumentID    string            `json:"document_id"`
	FileType      FileType          `json:"file_type"`
	SourcePath    string            `json:"source_path"`
	ArchiveKey    string            `json:"archive_key,omitempty"`
	ExtractedText string            `json:"extracted_text"`
	Tables        []CandidateTable  `json:"tables"`
	Metrics       []FinancialMetric `json:"metrics"`
	Confidence    float64           `json:"confidence"`
	Success       bool              `json:"success"`
	Error         string            `json:"error,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
}
