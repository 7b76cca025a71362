package tabular

import (
	"fmt"
	"strconv"
)

// ColumnType is the declared type of a column, inferred from a bounded sample
type ColumnType string

const (
	TypeInteger ColumnType = "integer"
	TypeFloat   ColumnType = "float"
	TypeString  ColumnType = "string"
	TypeBoolean ColumnType = "boolean"
	TypeNull    ColumnType = "null"
)

// IsNumeric reports whether values of this type convert directly to float64
func (t ColumnType) IsNumeric() bool {
	return t == TypeInteger || t == TypeFloat
}

// Kind tags the content of a single cell
type Kind uint8

const (
	KindMissing Kind = iota
	KindInteger
	KindFloat
	KindString
	KindBoolean
)

func (k Kind) String() string {
	switch k {
	case KindMissing:
		return "missing"
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindBoolean:
		return "boolean"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Value is a single cell: missing, or exactly one typed payload.
// The zero Value is missing.
type Value struct {
	kind Kind
	i    int64
	f    float64
	s    string
	b    bool
}

// Missing returns the explicit missing marker
func Missing() Value { return Value{} }

// Int creates an integer value
func Int(i int64) Value { return Value{kind: KindInteger, i: i} }

// Float creates a float value
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// String creates a string value. An empty string is a value, not a missing marker.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Bool creates a boolean value
func Bool(b bool) Value { return Value{kind: KindBoolean, b: b} }

func (v Value) Kind() Kind       { return v.kind }
func (v Value) IsMissing() bool  { return v.kind == KindMissing }
func (v Value) AsInt() int64     { return v.i }
func (v Value) AsFloat() float64 { return v.f }
func (v Value) AsString() string { return v.s }
func (v Value) AsBool() bool     { return v.b }

// Raw renders the value the way it would appear in the source file
func (v Value) Raw() string {
	switch v.kind {
	case KindInteger:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindString:
		return v.s
	case KindBoolean:
		return strconv.FormatBool(v.b)
	}
	return ""
}

func (v Value) String() string {
	if v.kind == KindMissing {
		return "<missing>"
	}
	return v.Raw()
}

// Column is a named, typed sequence of cells
type Column struct {
	Name   string
	Type   ColumnType
	Values []Value
}

// Len returns the number of rows in the column, missing entries included
func (c *Column) Len() int {
	return len(c.Values)
}

// MissingCount returns the number of missing entries
func (c *Column) MissingCount() int {
	n := 0
	for _, v := range c.Values {
		if v.IsMissing() {
			n++
		}
	}
	return n
}

// Field describes one column of a schema
type Field struct {
	Name string     `json:"name"`
	Type ColumnType `json:"type"`
}

// Schema is the ordered list of fields of a table
type Schema struct {
	Fields   []Field `json:"fields"`
	RowCount int     `json:"row_count"`
}

// Names returns the field names in order
func (s Schema) Names() []string {
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
	}
	return names
}
