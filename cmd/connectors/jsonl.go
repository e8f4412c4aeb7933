package connectors

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/verityio/data-reconciler/cmd/recon"
)

// jsonlMaxLineSize bounds a single JSONL record.
const jsonlMaxLineSize = 16 * 1024 * 1024

// loadJSONL parses newline-delimited JSON objects from r. Columns are
// collected in first-seen order across all records; keys a record lacks
// become nulls. Numbers that parse as integers stay integers.
func loadJSONL(r io.Reader, name string) (*recon.Table, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), jsonlMaxLineSize)

	var columnOrder []string
	columnIndex := make(map[string]int)
	var records []map[string]interface{}

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		decoder := json.NewDecoder(bytes.NewReader(line))
		decoder.UseNumber()
		var record map[string]interface{}
		if err := decoder.Decode(&record); err != nil {
			return nil, fmt.Errorf("failed to parse JSON on line %d: %w", lineNum, err)
		}

		// Map iteration order is random; register new keys sorted so
		// column order is stable for a given set of records.
		var newKeys []string
		for key := range record {
			if _, ok := columnIndex[key]; !ok {
				newKeys = append(newKeys, key)
			}
		}
		sort.Strings(newKeys)
		for _, key := range newKeys {
			columnIndex[key] = len(columnOrder)
			columnOrder = append(columnOrder, key)
		}

		records = append(records, record)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read JSONL: %w", err)
	}
	if len(columnOrder) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyFile, name)
	}

	rows := make([][]interface{}, len(records))
	types := make([]string, len(columnOrder))
	for i, record := range records {
		row := make([]interface{}, len(columnOrder))
		for col, key := range columnOrder {
			value, err := convertJSONValue(record[key])
			if err != nil {
				return nil, fmt.Errorf("column %q: %w", key, err)
			}
			row[col] = value
			types[col] = mergeJSONType(types[col], value)
		}
		rows[i] = row
	}

	columns := make([]recon.Column, len(columnOrder))
	for i, key := range columnOrder {
		declared := types[i]
		if declared == "" {
			declared = "text"
		}
		columns[i] = recon.Column{Name: key, Type: declared}
	}

	return recon.NewTable(name, columns, rows)
}

// convertJSONValue maps a decoded JSON value to the connector's typed
// form: int64, float64, bool, string or nil. Nested objects and arrays
// are rejected.
func convertJSONValue(v interface{}) (interface{}, error) {
	switch value := v.(type) {
	case nil:
		return nil, nil
	case json.Number:
		if n, err := value.Int64(); err == nil {
			return n, nil
		}
		f, err := value.Float64()
		if err != nil {
			return nil, fmt.Errorf("invalid number %q: %w", value.String(), err)
		}
		return f, nil
	case bool, string:
		return value, nil
	default:
		return nil, fmt.Errorf("unsupported JSON value type %T", v)
	}
}

// mergeJSONType folds one value's type into a column's running type.
// Mixed integer and double widens to double; any other mix is text.
func mergeJSONType(current string, value interface{}) string {
	var observed string
	switch value.(type) {
	case nil:
		return current
	case int64:
		observed = "integer"
	case float64:
		observed = "double"
	case bool:
		observed = "boolean"
	default:
		observed = "text"
	}

	switch {
	case current == "" || current == observed:
		return observed
	case (current == "integer" && observed == "double") || (current == "double" && observed == "integer"):
		return "double"
	default:
		return "text"
	}
}
