package output

import (
	"strconv"
	"strings"
)

// MaxSheetNameLen is Excel's sheet name limit.
const MaxSheetNameLen = 31

const forbiddenSheetChars = `[]:*?/\`

// SanitizeSheetName strips characters Excel forbids, trims surrounding
// spaces and apostrophes, and truncates to MaxSheetNameLen runes.
func SanitizeSheetName(name string) string {
	name = strings.Map(func(r rune) rune {
		if strings.ContainsRune(forbiddenSheetChars, r) {
			return -1
		}
		return r
	}, name)
	name = strings.Trim(name, " '")
	if name == "" {
		name = "Sheet"
	}
	return truncateRunes(name, MaxSheetNameLen)
}

// SheetNames sanitizes names and disambiguates case-insensitive collisions
// with numeric suffixes ("Job", "Job_2", ...) while staying within the limit.
func SheetNames(names []string) []string {
	used := make(map[string]bool, len(names))
	out := make([]string, len(names))
	for i, raw := range names {
		base := SanitizeSheetName(raw)
		name := base
		for n := 2; used[strings.ToLower(name)]; n++ {
			suffix := "_" + strconv.Itoa(n)
			name = strings.TrimRight(truncateRunes(base, MaxSheetNameLen-len(suffix)), " ") + suffix
		}
		used[strings.ToLower(name)] = true
		out[i] = name
	}
	return out
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
