// Package extract turns raw document text and tabular data into typed
// financial metrics and candidate tables.
package extract

import (
	"fmt"
	"regexp"

	"docparser/internal/domain"
)

// RuleDef declares a metric pattern before compilation. Pattern must contain
// exactly one capture group holding the numeric value.
type RuleDef struct {
	Metric  string
	Pattern string
}

// Rule is a compiled registry entry.
type Rule struct {
	Metric  string
	Pattern *regexp.Regexp
}

// Match is one hit of a Rule: the captured number text and the full matched span.
type Match struct {
	Value   string
	Context string
}

// FindAll returns every non-overlapping match of the rule in text, in
// left-to-right order.
func (r Rule) FindAll(text string) []Match {
	hits := r.Pattern.FindAllStringSubmatch(text, -1)
	matches := make([]Match, 0, len(hits))
	for _, h := range hits {
		matches = append(matches, Match{Value: h[1], Context: h[0]})
	}
	return matches
}

// Registry is an ordered, read-only set of metric rules.
type Registry struct {
	rules []Rule
}

const magnitudeSuffix = `[\s\p{Zs}]*(?:million|billion|thousand|M|B|K)?`

var defaultRuleDefs = []RuleDef{
	{domain.MetricRevenue, `(?:revenue|sales|net sales|total revenue)[\s\p{Zs}:$]*([0-9,]+\.?[0-9]*)` + magnitudeSuffix},
	{domain.MetricNetIncome, `(?:net income|net profit|net earnings)[\s\p{Zs}:$]*([0-9,]+\.?[0-9]*)` + magnitudeSuffix},
	{domain.MetricEPS, `(?:earnings per share|eps)[\s\p{Zs}:$]*([0-9,]+\.?[0-9]*)`},
	{domain.MetricPERatio, `(?:p/e ratio|pe ratio|price.earnings)[\s\p{Zs}:]*([0-9,]+\.?[0-9]*)`},
	{domain.MetricPBRatio, `(?:p/b ratio|pb ratio|price.book)[\s\p{Zs}:]*([0-9,]+\.?[0-9]*)`},
	{domain.MetricDebtToEquity, `(?:debt.to.equity|debt/equity|d/e)[\s\p{Zs}:]*([0-9,]+\.?[0-9]*)`},
	{domain.MetricCurrentRatio, `(?:current ratio)[\s\p{Zs}:]*([0-9,]+\.?[0-9]*)`},
	{domain.MetricGrossMargin, `(?:gross margin|gross profit margin)[\s\p{Zs}:]*([0-9,]+\.?[0-9]*)%?`},
	{domain.MetricOperatingMargin, `(?:operating margin|operating profit margin)[\s\p{Zs}:]*([0-9,]+\.?[0-9]*)%?`},
	{domain.MetricNetMargin, `(?:net margin|net profit margin)[\s\p{Zs}:]*([0-9,]+\.?[0-9]*)%?`},
	{domain.MetricROE, `(?:return on equity|roe)[\s\p{Zs}:]*([0-9,]+\.?[0-9]*)%?`},
	{domain.MetricROA, `(?:return on assets|roa)[\s\p{Zs}:]*([0-9,]+\.?[0-9]*)%?`},
	{domain.MetricCashFlow, `(?:cash flow|operating cash flow)[\s\p{Zs}:$]*([0-9,]+\.?[0-9]*)` + magnitudeSuffix},
	{domain.MetricMarketCap, `(?:market cap|market capitalization)[\s\p{Zs}:$]*([0-9,]+\.?[0-9]*)` + magnitudeSuffix},
}

var defaultRegistry = mustRegistry(defaultRuleDefs...)

// DefaultRegistry returns the process-wide registry of financial metric rules.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// NewRegistry compiles defs in order. Patterns are matched case-insensitively.
func NewRegistry(defs ...RuleDef) (*Registry, error) {
	rules := make([]Rule, 0, len(defs))
	for _, d := range defs {
		re, err := regexp.Compile(`(?i)` + d.Pattern)
		if err != nil {
			return nil, fmt.Errorf("compiling pattern for %s: %w", d.Metric, err)
		}
		if re.NumSubexp() != 1 {
			return nil, fmt.Errorf("pattern for %s must have exactly one capture group, has %d", d.Metric, re.NumSubexp())
		}
		rules = append(rules, Rule{Metric: d.Metric, Pattern: re})
	}
	return &Registry{rules: rules}, nil
}

func mustRegistry(defs ...RuleDef) *Registry {
	r, err := NewRegistry(defs...)
	if err != nil {
		panic(err)
	}
	return r
}

// Rules returns the registry entries in iteration order.
func (r *Registry) Rules() []Rule {
	out := make([]Rule, len(r.rules))
	copy(out, r.rules)
	return out
}

// Metrics returns the metric names in iteration order.
func (r *Registry) Metrics() []string {
	names := make([]string, len(r.rules))
	for i, rule := range r.rules {
		names[i] = rule.Metric
	}
	return names
}
