// Package reconcile merges labor summaries and job sheet records into one daily report.
package reconcile

import "strings"

// NormalizeJob returns the canonical join key for a job name: trimmed,
// trailing commas removed, whitespace runs collapsed, lower-cased.
// Punctuation inside tokens is kept so distinct identifiers stay distinct.
func NormalizeJob(raw string) string {
	s := strings.Join(strings.Fields(raw), " ")
	for {
		trimmed := strings.TrimSpace(strings.TrimRight(s, ","))
		if trimmed == s {
			break
		}
		s = trimmed
	}
	return strings.ToLower(s)
}
