package connectors

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/verityio/data-reconciler/cmd/compressors"
)

const csvFixture = "id,name,amount,active\n1,alice,10.5,true\n2,bob,,false\n3,,30.25,true\n"

func writeFixture(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	return path
}

func TestCSVConnectorLoad(t *testing.T) {
	t.Run("PlainFile", func(t *testing.T) {
		path := writeFixture(t, "users.csv", []byte(csvFixture))
		connector := NewFileConnector(path, nil)
		if connector.Name() != "users" {
			t.Fatalf("expected name users, got %q", connector.Name())
		}

		table, err := connector.Load(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if table.RowCount() != 3 {
			t.Fatalf("expected 3 rows, got %d", table.RowCount())
		}

		cols := table.Columns()
		wantTypes := map[string]string{"id": "integer", "name": "text", "amount": "double", "active": "boolean"}
		for _, c := range cols {
			if wantTypes[c.Name] != c.Type {
				t.Fatalf("column %s inferred as %q, want %q", c.Name, c.Type, wantTypes[c.Name])
			}
		}

		v, _ := table.ValueAt(0, "id")
		if v != int64(1) {
			t.Fatalf("integer cells should parse to int64, got %T %v", v, v)
		}
		v, _ = table.ValueAt(1, "amount")
		if v != nil {
			t.Fatalf("empty cells should load as nulls, got %v", v)
		}
		v, _ = table.ValueAt(2, "active")
		if v != true {
			t.Fatalf("boolean cells should parse to bool, got %T %v", v, v)
		}
	})

	t.Run("CompressedFiles", func(t *testing.T) {
		for ext, compression := range map[string]string{".gz": "gzip", ".zst": "zstd", ".lz4": "lz4"} {
			codec, err := compressors.GetCodec(compression)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			compressed, err := codec.Compress([]byte(csvFixture), codec.DefaultLevel())
			if err != nil {
				t.Fatalf("%s: compression failed: %v", compression, err)
			}
			path := writeFixture(t, "users.csv"+ext, compressed)

			table, err := NewFileConnector(path, nil).Load(context.Background())
			if err != nil {
				t.Fatalf("%s: unexpected error: %v", compression, err)
			}
			if table.RowCount() != 3 {
				t.Fatalf("%s: expected 3 rows, got %d", compression, table.RowCount())
			}
			if table.Name() != "users" {
				t.Fatalf("%s: compression extension should not leak into the name, got %q", compression, table.Name())
			}
		}
	})

	t.Run("EmptyFile", func(t *testing.T) {
		path := writeFixture(t, "empty.csv", nil)
		if _, err := NewFileConnector(path, nil).Load(context.Background()); err == nil {
			t.Fatal("a file without a header should fail")
		}
	})

	t.Run("MissingFile", func(t *testing.T) {
		if _, err := NewFileConnector("/does/not/exist.csv", nil).Load(context.Background()); err == nil {
			t.Fatal("a missing file should fail")
		}
	})

	t.Run("HeaderOnly", func(t *testing.T) {
		path := writeFixture(t, "header.csv", []byte("id,name\n"))
		table, err := NewFileConnector(path, nil).Load(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if table.RowCount() != 0 {
			t.Fatalf("expected 0 rows, got %d", table.RowCount())
		}
		if len(table.Columns()) != 2 {
			t.Fatalf("expected 2 columns, got %d", len(table.Columns()))
		}
	})
}

func TestInferColumnType(t *testing.T) {
	cases := []struct {
		name    string
		values  []string
		want    string
	}{
		{"AllIntegers", []string{"1", "2", "-3"}, "integer"},
		{"MixedNumeric", []string{"1", "2.5"}, "double"},
		{"Booleans", []string{"true", "FALSE"}, "boolean"},
		{"MixedText", []string{"1", "abc"}, "text"},
		{"EmptiesIgnored", []string{"", "7", ""}, "integer"},
		{"AllEmpty", []string{"", ""}, "text"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			records := make([][]string, len(c.values))
			for i, v := range c.values {
				records[i] = []string{v}
			}
			if got := inferColumnType(records, 0); got != c.want {
				t.Fatalf("inferred %q, want %q", got, c.want)
			}
		})
	}
}
