package recon

import (
	"fmt"
	"math"
	"math/rand"
	"strconv"
	"strings"
	"time"
)

// DefaultSeed is used whenever a caller does not supply its own seed, so
// repeated runs over the same data pick the same samples.
const DefaultSeed int64 = 42

// Column describes one column of a tabular source: its name and the
// declared type string reported by the connector that produced it.
type Column struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Source is a read-only view over one side of a dataset pair. Rows are
// addressed by position; positions are stable for the lifetime of the
// source. Implementations must be safe for concurrent reads.
type Source interface {
	// RowCount returns the number of rows in the source.
	RowCount() int

	// Columns returns the ordered column descriptors.
	Columns() []Column

	// ValueAt returns the value at the given row for the named column.
	// The second return is false when the column does not exist.
	ValueAt(row int, column string) (interface{}, bool)
}

// Table is the canonical in-memory Source implementation. Connectors
// materialize both sides of a dataset pair into Tables; the engine never
// mutates a Table after construction.
type Table struct {
	name    string
	columns []Column
	index   map[string]int
	rows    [][]interface{}
}

// NewTable builds a Table from ordered columns and row data. Each row must
// have exactly one value per column.
func NewTable(name string, columns []Column, rows [][]interface{}) (*Table, error) {
	index := make(map[string]int, len(columns))
	for i, c := range columns {
		if _, dup := index[c.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate column %q", ErrInvalidSource, c.Name)
		}
		index[c.Name] = i
	}
	for i, row := range rows {
		if len(row) != len(columns) {
			return nil, fmt.Errorf("%w: row %d has %d values, want %d", ErrInvalidSource, i, len(row), len(columns))
		}
	}
	return &Table{name: name, columns: columns, index: index, rows: rows}, nil
}

// Name returns the label the connector gave this table.
func (t *Table) Name() string { return t.name }

func (t *Table) RowCount() int { return len(t.rows) }

func (t *Table) Columns() []Column {
	cols := make([]Column, len(t.columns))
	copy(cols, t.columns)
	return cols
}

func (t *Table) ValueAt(row int, column string) (interface{}, bool) {
	i, ok := t.index[column]
	if !ok || row < 0 || row >= len(t.rows) {
		return nil, false
	}
	return t.rows[row][i], true
}

// columnIndex returns the position of a column, or -1.
func (t *Table) columnIndex(column string) int {
	i, ok := t.index[column]
	if !ok {
		return -1
	}
	return i
}

// Slice returns a view of rows [lo, hi). The backing row data is shared;
// callers must treat the result as read-only.
func (t *Table) Slice(lo, hi int) *Table {
	if lo < 0 {
		lo = 0
	}
	if hi > len(t.rows) {
		hi = len(t.rows)
	}
	if lo > hi {
		lo = hi
	}
	return &Table{
		name:    t.name,
		columns: t.columns,
		index:   t.index,
		rows:    t.rows[lo:hi],
	}
}

// Filter returns a new Table holding the rows for which keep returns true.
func (t *Table) Filter(keep func(row int) bool) *Table {
	var rows [][]interface{}
	for i := range t.rows {
		if keep(i) {
			rows = append(rows, t.rows[i])
		}
	}
	return &Table{name: t.name, columns: t.columns, index: t.index, rows: rows}
}

// SampleFraction draws each row independently with probability p, without
// replacement, using a deterministic generator seeded with seed.
func (t *Table) SampleFraction(p float64, seed int64) *Table {
	if p >= 1.0 {
		return t
	}
	if p <= 0 {
		return t.Slice(0, 0)
	}
	rng := rand.New(rand.NewSource(seed))
	return t.Filter(func(int) bool { return rng.Float64() < p })
}

// Materialize copies an arbitrary Source into a Table. Sources that are
// already Tables are returned as-is.
func Materialize(name string, src Source) *Table {
	if t, ok := src.(*Table); ok {
		return t
	}
	cols := src.Columns()
	rows := make([][]interface{}, src.RowCount())
	for r := range rows {
		row := make([]interface{}, len(cols))
		for c, col := range cols {
			v, _ := src.ValueAt(r, col.Name)
			row[c] = v
		}
		rows[r] = row
	}
	index := make(map[string]int, len(cols))
	for i, c := range cols {
		index[c.Name] = i
	}
	return &Table{name: name, columns: cols, index: index, rows: rows}
}

// systemColumns are bookkeeping columns connectors may attach; they never
// participate in content comparison, fingerprinting, or statistics.
var systemColumns = map[string]bool{
	"__row_id":      true,
	"__fingerprint": true,
	"__chunk_id":    true,
}

func isSystemColumn(name string) bool { return systemColumns[name] }

// commonColumns returns the column names present on both sources, in the
// first source's declared order, excluding system columns. Names are
// compared case-sensitively.
func commonColumns(a, b Source) []string {
	present := make(map[string]bool)
	for _, c := range b.Columns() {
		present[c.Name] = true
	}
	var common []string
	for _, c := range a.Columns() {
		if isSystemColumn(c.Name) {
			continue
		}
		if present[c.Name] {
			common = append(common, c.Name)
		}
	}
	return common
}

// Sentinel tokens substituted into canonical row strings.
const (
	nullSentinel = "__NULL__"
	nanSentinel  = "__NAN__"
)

// canonicalString renders a single value the way the fingerprinter and the
// chunk comparator both need it: nil becomes the null sentinel, NaN the
// not-a-number sentinel, everything else its plain string form.
func canonicalString(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return nullSentinel
	case string:
		return x
	case float64:
		if math.IsNaN(x) {
			return nanSentinel
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		if math.IsNaN(float64(x)) {
			return nanSentinel
		}
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		return x.UTC().Format(time.RFC3339Nano)
	case []byte:
		return string(x)
	default:
		return fmt.Sprintf("%v", x)
	}
}

// contentKey joins the canonical forms of the named columns for one row.
func contentKey(src Source, row int, columns []string) string {
	parts := make([]string, len(columns))
	for i, col := range columns {
		v, _ := src.ValueAt(row, col)
		parts[i] = canonicalString(v)
	}
	return strings.Join(parts, keyDelimiter)
}

const keyDelimiter = "|"

// toFloat reports the numeric interpretation of a value. NaN values are
// numeric but unusable for statistics, so they return ok=false too.
func toFloat(v interface{}) (float64, bool) {
	switch x := v.(type) {
	case nil:
		return 0, false
	case float64:
		if math.IsNaN(x) {
			return 0, false
		}
		return x, true
	case float32:
		if math.IsNaN(float64(x)) {
			return 0, false
		}
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case bool:
		return 0, false
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil || math.IsNaN(f) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// numericTypes match the declared type strings connectors emit for
// numeric columns, in both PostgreSQL and inferred-CSV spellings.
var numericTypes = map[string]bool{
	"int": true, "integer": true, "bigint": true, "smallint": true,
	"int2": true, "int4": true, "int8": true,
	"float": true, "float4": true, "float8": true, "real": true,
	"double": true, "double precision": true, "numeric": true, "decimal": true,
}

func isNumericType(declared string) bool {
	return numericTypes[strings.ToLower(strings.TrimSpace(declared))]
}
