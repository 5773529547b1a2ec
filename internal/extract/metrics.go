package extract

import (
	"math"
	"strconv"
	"strings"

	"docparser/internal/domain"
)

// MetricConfidence is assigned to every metric found by pattern matching.
const MetricConfidence = 0.7

// ExtractMetrics scans text against every registry rule, in registry order
// and then match order. Captures that do not parse as a finite number are
// dropped. Duplicates are kept.
func (e *Engine) ExtractMetrics(text string) []domain.FinancialMetric {
	lower := strings.ToLower(text)
	metrics := make([]domain.FinancialMetric, 0)

	for _, rule := range e.registry.rules {
		for _, m := range rule.FindAll(lower) {
			value, ok := parseValue(m.Value)
			if !ok {
				continue
			}
			metrics = append(metrics, domain.FinancialMetric{
				Name:       rule.Metric,
				Value:      value,
				Unit:       ResolveUnit(m.Context),
				Period:     domain.PeriodCurrent,
				Source:     domain.SourceDocumentExtraction,
				Confidence: MetricConfidence,
			})
		}
	}
	return metrics
}

func parseValue(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}
