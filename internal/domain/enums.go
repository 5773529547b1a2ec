package domain

import "strings"

// FileType represents the document formats the parser can read.
type FileType string

const (
	FileTypePDF   FileType = "pdf"
	FileTypeExcel FileType = "excel"
	FileTypeCSV   FileType = "csv"
)

// fileTypeAliases maps request-supplied file type names to FileType.
var fileTypeAliases = map[string]FileType{
	"pdf":   FileTypePDF,
	"excel": FileTypeExcel,
	"xlsx":  FileTypeExcel,
	"xls":   FileTypeExcel,
	"csv":   FileTypeCSV,
}

// AllowedExtensions maps upload file extensions (without dot) to FileType.
var AllowedExtensions = map[string]FileType{
	"pdf":  FileTypePDF,
	"xlsx": FileTypeExcel,
	"xls":  FileTypeExcel,
	"csv":  FileTypeCSV,
}

// ParseFileType resolves a case-insensitive file type name.
func ParseFileType(s string) (FileType, error) {
	ft, ok := fileTypeAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", ErrUnsupportedFileType
	}
	return ft, nil
}

// Label returns the display name used in error messages.
func (f FileType) Label() string {
	switch f {
	case FileTypePDF:
		return "PDF"
	case FileTypeExcel:
		return "Excel"
	case FileTypeCSV:
		return "CSV"
	default:
		return string(f)
	}
}

// Unit is the unit-of-measure tag attached to an extracted metric.
type Unit string

const (
	UnitBillions   Unit = "billions"
	UnitMillions   Unit = "millions"
	UnitThousands  Unit = "thousands"
	UnitPercentage Unit = "percentage"
	UnitRatio      Unit = "ratio"
	UnitUnits      Unit = "units"
)

// Metric names produced by the default pattern registry.
const (
	MetricRevenue         = "revenue"
	MetricNetIncome       = "net_income"
	MetricEPS             = "eps"
	MetricPERatio         = "pe_ratio"
	MetricPBRatio         = "pb_ratio"
	MetricDebtToEquity    = "debt_to_equity"
	MetricCurrentRatio    = "current_ratio"
	MetricGrossMargin     = "gross_margin"
	MetricOperatingMargin = "operating_margin"
	MetricNetMargin       = "net_margin"
	MetricROE             = "roe"
	MetricROA             = "roa"
	MetricCashFlow        = "cash_flow"
	MetricMarketCap       = "market_cap"
)

const (
	PeriodCurrent            = "current"
	SourceDocumentExtraction = "document_extraction"
)

// ContentKind identifies the extraction path chosen for a document.
type ContentKind string

const (
	ContentText   ContentKind = "text"
	ContentSheets ContentKind = "sheets"
	ContentTable  ContentKind = "table"
)

// TableKind distinguishes heuristically detected tables from tables whose
// boundaries come from the source structure.
type TableKind string

const (
	TableKindExtracted TableKind = "extracted_table"
	TableKindSheet     TableKind = "sheet_table"
)
