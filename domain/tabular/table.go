package tabular

import (
	"fmt"
)

// Table is an ordered collection of equal-length, uniquely named columns
type Table struct {
	columns  []*Column
	index    map[string]int
	rowCount int
}

// NewTable builds a table, enforcing unique names and a shared row count.
// rowCount is needed for tables without columns.
func NewTable(rowCount int, columns ...*Column) (*Table, error) {
	if rowCount < 0 {
		return nil, fmt.Errorf("row count must not be negative, got %d", rowCount)
	}
	index := make(map[string]int, len(columns))
	for i, col := range columns {
		if col == nil {
			return nil, fmt.Errorf("column %d is nil", i)
		}
		if _, dup := index[col.Name]; dup {
			return nil, fmt.Errorf("duplicate column name %q", col.Name)
		}
		if col.Len() != rowCount {
			return nil, fmt.Errorf("column %q has %d rows, table has %d", col.Name, col.Len(), rowCount)
		}
		index[col.Name] = i
	}
	return &Table{columns: columns, index: index, rowCount: rowCount}, nil
}

// RowCount returns the number of data rows
func (t *Table) RowCount() int {
	return t.rowCount
}

// Columns returns the columns in header order
func (t *Table) Columns() []*Column {
	return t.columns
}

// ColumnNames returns the column names in header order
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.columns))
	for i, col := range t.columns {
		names[i] = col.Name
	}
	return names
}

// Schema returns the names and declared types of the table's columns
func (t *Table) Schema() Schema {
	fields := make([]Field, len(t.columns))
	for i, col := range t.columns {
		fields[i] = Field{Name: col.Name, Type: col.Type}
	}
	return Schema{Fields: fields, RowCount: t.rowCount}
}

// Column resolves a column by exact, case-sensitive name
func (t *Table) Column(name string) (*Column, error) {
	if name == "" {
		return nil, ErrEmptyColumnName
	}
	i, ok := t.index[name]
	if !ok {
		return nil, &ColumnNotFoundError{Requested: name, Available: t.ColumnNames()}
	}
	return t.columns[i], nil
}

// ResolveIndex finds name in an ordered header, for callers that never build a Table
func ResolveIndex(header []string, name string) (int, error) {
	if name == "" {
		return -1, ErrEmptyColumnName
	}
	for i, h := range header {
		if h == name {
			return i, nil
		}
	}
	available := make([]string, len(header))
	copy(available, header)
	return -1, &ColumnNotFoundError{Requested: name, Available: available}
}
