package parser

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/rbastia/amadaily/pkg/amadaily/models"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// LoadCSVGrid reads a delimited export into a Grid. UTF-8 and UTF-16 input
// with a byte order mark are both accepted.
func LoadCSVGrid(r io.Reader, comma rune) (*models.Grid, error) {
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	csvReader := csv.NewReader(transform.NewReader(r, decoder))
	csvReader.Comma = comma
	csvReader.FieldsPerRecord = -1
	csvReader.LazyQuotes = true

	var rows [][]string
	for {
		record, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read delimited row %d: %w", len(rows)+1, err)
		}
		rows = append(rows, record)
	}
	return gridFromText(rows), nil
}
