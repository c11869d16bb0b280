package pricing

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// currencyNoise strips currency symbols, thousands separators and spacing
	currencyNoise = regexp.MustCompile(`[£$€,\s]`)
	// numberToken captures the first decimal-or-integer token
	numberToken = regexp.MustCompile(`\d+(?:\.\d+)?`)
)

// Parser turns heterogeneous currency-formatted strings into a numeric
// value in the reference currency unit. An unparseable string is reported
// as such, never coerced to zero.
type Parser struct {
	// MinValid is the exclusive lower bound for a price to count toward
	// aggregation. Zero keeps the default ">0" rule.
	MinValid float64
}

// NewParser creates a Parser with the given minimum valid price.
func NewParser(minValid float64) Parser {
	return Parser{MinValid: minValid}
}

// Parse extracts the price value from a raw string. For ranged values
// ("X to Y") the lower bound wins. The boolean is false when no numeric
// token survives stripping.
func (p Parser) Parse(raw string) (float64, bool) {
	cleaned := currencyNoise.ReplaceAllString(raw, "")
	cleaned = strings.ReplaceAll(cleaned, "EUR", "")
	cleaned = strings.ReplaceAll(cleaned, "GBP", "")
	cleaned = strings.ReplaceAll(cleaned, "USD", "")

	// Ranged prices keep only the first bound.
	if idx := strings.Index(strings.ToLower(cleaned), "to"); idx > 0 {
		cleaned = cleaned[:idx]
	}

	token := numberToken.FindString(cleaned)
	if token == "" {
		return 0, false
	}

	value, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return 0, false
	}

	return value, true
}

// ValidForAggregation reports whether a parsed price may contribute to
// price statistics.
func (p Parser) ValidForAggregation(value float64) bool {
	return value > p.MinValid
}
