package connectors

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/verityio/data-reconciler/cmd/recon"
)

// loadCSV parses delimited content from r. The first record is the
// header; column types are inferred from the values.
func loadCSV(r io.Reader, name string) (*recon.Table, error) {
	reader := csv.NewReader(r)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyFile, name)
	}

	header := records[0]
	body := records[1:]

	types := make([]string, len(header))
	for col := range header {
		types[col] = inferColumnType(body, col)
	}

	columns := make([]recon.Column, len(header))
	for i, h := range header {
		columns[i] = recon.Column{Name: h, Type: types[i]}
	}

	rows := make([][]interface{}, len(body))
	for r, record := range body {
		row := make([]interface{}, len(header))
		for col := range header {
			if col < len(record) {
				row[col] = parseValue(record[col], types[col])
			}
		}
		rows[r] = row
	}

	return recon.NewTable(name, columns, rows)
}

// inferColumnType classifies a column by its non-empty values. Every value
// must agree for a numeric or boolean type; anything mixed stays text.
func inferColumnType(records [][]string, col int) string {
	isInteger := true
	isDouble := true
	isBoolean := true
	seen := false

	for _, record := range records {
		if col >= len(record) {
			continue
		}
		v := strings.TrimSpace(record[col])
		if v == "" {
			continue
		}
		seen = true
		if _, err := strconv.ParseInt(v, 10, 64); err != nil {
			isInteger = false
		}
		if _, err := strconv.ParseFloat(v, 64); err != nil {
			isDouble = false
		}
		if !isBooleanLiteral(v) {
			isBoolean = false
		}
		if !isInteger && !isDouble && !isBoolean {
			return "text"
		}
	}
	switch {
	case !seen:
		return "text"
	case isBoolean:
		return "boolean"
	case isInteger:
		return "integer"
	case isDouble:
		return "double"
	default:
		return "text"
	}
}

func isBooleanLiteral(v string) bool {
	switch strings.ToLower(v) {
	case "true", "false":
		return true
	default:
		return false
	}
}

// parseValue converts one CSV cell into its typed form. Empty cells are
// nulls.
func parseValue(raw, declared string) interface{} {
	v := strings.TrimSpace(raw)
	if v == "" {
		return nil
	}
	switch declared {
	case "integer":
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	case "double":
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	case "boolean":
		if b, err := strconv.ParseBool(strings.ToLower(v)); err == nil {
			return b
		}
	}
	return v
}
