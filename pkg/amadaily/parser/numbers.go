package parser

import (
	"regexp"
	"strings"

	"github.com/rbastia/amadaily/pkg/amadaily/models"
	"github.com/shopspring/decimal"
)

var firstNumberRe = regexp.MustCompile(`\d+(?:\.\d+)?|\.\d+`)

// ParseFirstNumber returns the first numeric token in s, tolerating noise
// such as "8 hrs". ok is false when s holds no number.
func ParseFirstNumber(s string) (d decimal.Decimal, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, false
	}
	if d, err := decimal.NewFromString(s); err == nil {
		return d, true
	}
	m := firstNumberRe.FindString(s)
	if m == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(m)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// cellNumber reads a numeric cell, defaulting to zero.
func cellNumber(c models.Cell) decimal.Decimal {
	if c.Kind == models.CellNumber {
		return decimal.NewFromFloat(c.Number)
	}
	d, _ := ParseFirstNumber(c.String())
	return d
}
