package output

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeSheetName(t *testing.T) {
	tests := map[string]string{
		"ARA3A":                 "ARA3A",
		"Lot [7]: North/South?": "Lot 7 NorthSouth",
		"  'Oak Lane'  ":        "Oak Lane",
		"*?":                    "Sheet",
		"":                      "Sheet",
	}
	for in, want := range tests {
		assert.Equal(t, want, SanitizeSheetName(in), "SanitizeSheetName(%q)", in)
	}

	long := strings.Repeat("é", 40)
	assert.Equal(t, MaxSheetNameLen, utf8.RuneCountInString(SanitizeSheetName(long)))
}

func TestSheetNamesDisambiguates(t *testing.T) {
	got := SheetNames([]string{"All", "ARA3A", "ara3a", "ARA3A", "all"})
	assert.Equal(t, []string{"All", "ARA3A", "ara3a_2", "ARA3A_3", "all_2"}, got)
}

func TestSheetNamesStayWithinLimit(t *testing.T) {
	long := strings.Repeat("x", 40)
	got := SheetNames([]string{long, long})

	assert.Len(t, got[0], MaxSheetNameLen)
	assert.Len(t, got[1], MaxSheetNameLen)
	assert.True(t, strings.HasSuffix(got[1], "_2"))
	assert.NotEqual(t, got[0], got[1])
}
