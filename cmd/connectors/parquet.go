package connectors

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/parquet-go/parquet-go"

	"github.com/verityio/data-reconciler/cmd/recon"
)

// loadParquet reads a whole Parquet stream into memory. Parquet needs an
// io.ReaderAt, so the stream is buffered first. Column names and types
// come from the file schema; nested columns use their leaf name.
func loadParquet(r io.Reader, name string) (*recon.Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read parquet data: %w", err)
	}

	file, err := parquet.OpenFile(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}

	schema := file.Schema()
	columnPaths := schema.Columns()
	if len(columnPaths) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyFile, name)
	}

	columns := make([]recon.Column, len(columnPaths))
	for i, path := range columnPaths {
		leaf, _ := schema.Lookup(path...)
		columns[i] = recon.Column{
			Name: path[len(path)-1],
			Type: parquetColumnType(leaf.Node.Type().Kind()),
		}
	}

	var rows [][]interface{}
	for _, rowGroup := range file.RowGroups() {
		groupRows, err := readParquetRowGroup(rowGroup, len(columns))
		if err != nil {
			return nil, err
		}
		rows = append(rows, groupRows...)
	}

	return recon.NewTable(name, columns, rows)
}

func readParquetRowGroup(rowGroup parquet.RowGroup, columnCount int) ([][]interface{}, error) {
	reader := rowGroup.Rows()
	defer reader.Close()

	var rows [][]interface{}
	batch := make([]parquet.Row, 256)
	for {
		n, err := reader.ReadRows(batch)
		for i := 0; i < n; i++ {
			row := make([]interface{}, columnCount)
			for _, value := range batch[i] {
				col := value.Column()
				if col < 0 || col >= columnCount {
					continue
				}
				row[col] = parquetValue(value)
			}
			rows = append(rows, row)
		}
		if errors.Is(err, io.EOF) || n == 0 {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read parquet rows: %w", err)
		}
	}
	return rows, nil
}

// parquetColumnType maps a parquet physical type to the connector's
// declared type vocabulary.
func parquetColumnType(kind parquet.Kind) string {
	switch kind {
	case parquet.Boolean:
		return "boolean"
	case parquet.Int32, parquet.Int64:
		return "integer"
	case parquet.Float, parquet.Double:
		return "double"
	default:
		return "text"
	}
}

// parquetValue converts one parquet value to the connector's typed form.
// Integer widths collapse to int64 and float widths to float64 so values
// compare consistently across connectors.
func parquetValue(value parquet.Value) interface{} {
	if value.IsNull() {
		return nil
	}
	switch value.Kind() {
	case parquet.Boolean:
		return value.Boolean()
	case parquet.Int32:
		return int64(value.Int32())
	case parquet.Int64:
		return value.Int64()
	case parquet.Float:
		return float64(value.Float())
	case parquet.Double:
		return value.Double()
	default:
		return string(value.ByteArray())
	}
}
