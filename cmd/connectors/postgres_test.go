package connectors

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPostgresConnectorLoad(t *testing.T) {
	t.Run("WholeTable", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("failed to create mock: %v", err)
		}
		defer db.Close()

		columns := []*sqlmock.Column{
			sqlmock.NewColumn("id").OfType("INT8", int64(0)),
			sqlmock.NewColumn("name").OfType("TEXT", ""),
			sqlmock.NewColumn("amount").OfType("FLOAT8", float64(0)),
		}
		rows := sqlmock.NewRowsWithColumnDefinition(columns...).
			AddRow(int64(1), "alice", 10.5).
			AddRow(int64(2), "bob", nil)
		mock.ExpectQuery(`SELECT \* FROM "users"`).WillReturnRows(rows)

		connector := NewPostgresConnector(DatabaseConfig{}, "users", "", nil).WithDB(db)
		table, err := connector.Load(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if table.RowCount() != 2 {
			t.Fatalf("expected 2 rows, got %d", table.RowCount())
		}
		cols := table.Columns()
		if len(cols) != 3 {
			t.Fatalf("expected 3 columns, got %d", len(cols))
		}
		if cols[0].Type != "int8" || cols[2].Type != "float8" {
			t.Fatalf("driver type names should be lowercased: %+v", cols)
		}
		v, _ := table.ValueAt(0, "name")
		if v != "alice" {
			t.Fatalf("expected alice, got %v", v)
		}
		v, _ = table.ValueAt(1, "amount")
		if v != nil {
			t.Fatalf("expected nil for a SQL NULL, got %v", v)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Fatalf("unmet expectations: %v", err)
		}
	})

	t.Run("CustomQuery", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("failed to create mock: %v", err)
		}
		defer db.Close()

		rows := sqlmock.NewRows([]string{"total"}).AddRow(int64(42))
		mock.ExpectQuery("SELECT count").WillReturnRows(rows)

		connector := NewPostgresConnector(DatabaseConfig{}, "", "SELECT count(*) AS total FROM users", nil).WithDB(db)
		table, err := connector.Load(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if table.RowCount() != 1 {
			t.Fatalf("expected 1 row, got %d", table.RowCount())
		}
		if cols := table.Columns(); cols[0].Type != "text" {
			t.Fatalf("missing driver type should fall back to text, got %q", cols[0].Type)
		}
	})

	t.Run("ByteSlicesBecomeStrings", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("failed to create mock: %v", err)
		}
		defer db.Close()

		rows := sqlmock.NewRows([]string{"payload"}).AddRow([]byte("raw"))
		mock.ExpectQuery(`SELECT \* FROM "blobs"`).WillReturnRows(rows)

		connector := NewPostgresConnector(DatabaseConfig{}, "blobs", "", nil).WithDB(db)
		table, err := connector.Load(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		v, _ := table.ValueAt(0, "payload")
		if v != "raw" {
			t.Fatalf("expected byte slice converted to string, got %T %v", v, v)
		}
	})

	t.Run("QueryError", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("failed to create mock: %v", err)
		}
		defer db.Close()

		mock.ExpectQuery(`SELECT \* FROM "missing"`).WillReturnError(errTest)

		connector := NewPostgresConnector(DatabaseConfig{}, "missing", "", nil).WithDB(db)
		if _, err := connector.Load(context.Background()); err == nil {
			t.Fatal("expected the query error to propagate")
		}
	})
}

func TestPostgresConnectorName(t *testing.T) {
	if got := NewPostgresConnector(DatabaseConfig{}, "users", "", nil).Name(); got != "users" {
		t.Fatalf("expected users, got %q", got)
	}
	if got := NewPostgresConnector(DatabaseConfig{}, "", "SELECT 1", nil).Name(); got != "query" {
		t.Fatalf("expected query, got %q", got)
	}
}
