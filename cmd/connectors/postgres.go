package connectors

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/lib/pq"
	"github.com/verityio/data-reconciler/cmd/recon"
)

// DatabaseConfig holds PostgreSQL connection settings
type DatabaseConfig struct {
	Host     string `mapstructure:"host" json:"host"`
	Port     int    `mapstructure:"port" json:"port"`
	User     string `mapstructure:"user" json:"user"`
	Password string `mapstructure:"password" json:"-"`
	Name     string `mapstructure:"name" json:"name"`
	SSLMode  string `mapstructure:"sslmode" json:"sslmode,omitempty"`
}

// PostgresConnector loads a table or query result from PostgreSQL.
type PostgresConnector struct {
	config DatabaseConfig
	table  string
	query  string
	logger *slog.Logger

	// db overrides the connection when already established
	db *sql.DB
}

// NewPostgresConnector creates a connector for one table or one query.
// When query is empty the whole table is read.
func NewPostgresConnector(config DatabaseConfig, table, query string, logger *slog.Logger) *PostgresConnector {
	return &PostgresConnector{config: config, table: table, query: query, logger: logger}
}

// Name identifies the source in logs and reports
func (c *PostgresConnector) Name() string {
	if c.table != "" {
		return c.table
	}
	return "query"
}

// WithDB attaches an existing connection; Load will not open another.
func (c *PostgresConnector) WithDB(db *sql.DB) *PostgresConnector {
	c.db = db
	return c
}

// Load reads the full table into memory. Column types come from the
// driver's reported database type names.
func (c *PostgresConnector) Load(ctx context.Context) (*recon.Table, error) {
	db := c.db
	if db == nil {
		conn, err := c.connect(ctx)
		if err != nil {
			return nil, err
		}
		defer conn.Close()
		db = conn
	}

	query := c.query
	if query == "" {
		query = fmt.Sprintf("SELECT * FROM %s", pq.QuoteIdentifier(c.table))
	}
	if c.logger != nil {
		c.logger.Debug(fmt.Sprintf("Loading %s with query: %s", c.Name(), query))
	}

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", c.Name(), err)
	}
	defer rows.Close()

	columnTypes, err := rows.ColumnTypes()
	if err != nil {
		return nil, fmt.Errorf("failed to read column types: %w", err)
	}
	columns := make([]recon.Column, len(columnTypes))
	for i, ct := range columnTypes {
		declared := strings.ToLower(ct.DatabaseTypeName())
		if declared == "" {
			declared = "text"
		}
		columns[i] = recon.Column{Name: ct.Name(), Type: declared}
	}

	var data [][]interface{}
	values := make([]interface{}, len(columns))
	pointers := make([]interface{}, len(columns))
	for i := range values {
		pointers[i] = &values[i]
	}
	for rows.Next() {
		if err := rows.Scan(pointers...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		row := make([]interface{}, len(columns))
		for i, v := range values {
			if b, ok := v.([]byte); ok {
				row[i] = string(b)
			} else {
				row[i] = v
			}
		}
		data = append(data, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed while reading rows: %w", err)
	}

	return recon.NewTable(c.Name(), columns, data)
}

// connect opens and verifies a connection.
func (c *PostgresConnector) connect(ctx context.Context) (*sql.DB, error) {
	sslMode := c.config.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	// lib/pq handles password escaping internally, so no URL encoding here.
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s search_path=public",
		c.config.Host,
		c.config.Port,
		c.config.User,
		c.config.Password,
		c.config.Name,
		sslMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}
