package extract

import (
	"regexp"
	"strings"

	"docparser/internal/domain"
)

// TableConfidence is assigned to tables detected in unstructured text.
const TableConfidence = 0.6

// minTableRows is the run length a table must exceed to be emitted.
const minTableRows = 2

var numericRow = regexp.MustCompile(`[\s\p{Zs}]+\d+.*\d+.*\d+`)

// DetectTables groups consecutive lines carrying at least three numbers into
// candidate tables. A run is emitted when a non-numeric line closes it and it
// holds more than two lines. A run still open at end of input is not emitted;
// only a closing non-numeric line flushes a run. Leading separators may be
// ASCII or Unicode spaces.
func DetectTables(text string) []domain.CandidateTable {
	tables := make([]domain.CandidateTable, 0)
	var run []string

	for _, line := range strings.Split(text, "\n") {
		if numericRow.MatchString(line) {
			run = append(run, strings.TrimSpace(line))
			continue
		}
		if len(run) == 0 {
			continue
		}
		if len(run) > minTableRows {
			tables = append(tables, domain.CandidateTable{
				Type:       domain.TableKindExtracted,
				Rows:       run,
				Confidence: TableConfidence,
			})
		}
		run = nil
	}
	return tables
}
