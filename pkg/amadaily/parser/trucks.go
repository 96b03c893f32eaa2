package parser

import (
	"regexp"
	"strings"
)

// truckWidths are tried in order when splitting concatenated numeric truck ids.
var truckWidths = []int{3, 4, 2}

var truckTokenRe = regexp.MustCompile(`[A-Za-z]*\d+`)

// NormalizeTrucks splits concatenated truck identifiers into a ", " list,
// e.g. "125126" becomes "125, 126" and "T12T13" becomes "T12, T13".
// Already delimited input, single tokens and strings that do not tokenize
// losslessly (trailing letters, as in "12AB34CD") are returned unchanged.
func NormalizeTrucks(s string) string {
	if s == "" || strings.ContainsAny(s, ", /-") {
		return s
	}

	if isDigits(s) && len(s) >= 6 {
		for _, width := range truckWidths {
			if len(s)%width != 0 || len(s)/width < 2 {
				continue
			}
			parts := make([]string, 0, len(s)/width)
			for i := 0; i < len(s); i += width {
				parts = append(parts, s[i:i+width])
			}
			if allNonZero(parts) {
				return strings.Join(parts, ", ")
			}
		}
	}

	tokens := truckTokenRe.FindAllString(s, -1)
	if len(tokens) > 1 && strings.Join(tokens, "") == s {
		return strings.Join(tokens, ", ")
	}
	return s
}

func allNonZero(parts []string) bool {
	for _, p := range parts {
		if strings.TrimLeft(p, "0") == "" {
			return false
		}
	}
	return true
}
