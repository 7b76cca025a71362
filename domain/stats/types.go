package stats

import (
	"fmt"
	"strings"
)

// ============================================================================
// NUMERIC COLUMN
// ============================================================================

// NumericColumn is a column coerced to float64. Valid[i] == false marks row i
// as missing; Values[i] is then meaningless.
// INVARIANT: len(Values) == len(Valid)
type NumericColumn struct {
	Name   string
	Values []float64
	Valid  []bool
}

// NewNumericColumn allocates a column of n rows, all missing
func NewNumericColumn(name string, n int) *NumericColumn {
	return &NumericColumn{
		Name:   name,
		Values: make([]float64, n),
		Valid:  make([]bool, n),
	}
}

// Set stores a present value at row i
func (c *NumericColumn) Set(i int, v float64) {
	c.Values[i] = v
	c.Valid[i] = true
}

// Len returns the row count, missing entries included
func (c *NumericColumn) Len() int {
	return len(c.Valid)
}

// Present returns the non-missing values in row order
func (c *NumericColumn) Present() []float64 {
	present := make([]float64, 0, len(c.Values))
	for i, ok := range c.Valid {
		if ok {
			present = append(present, c.Values[i])
		}
	}
	return present
}

// ============================================================================
// STATISTICS
// ============================================================================

// Statistics is the five-value summary of one column.
// Count is the row count, missing entries included. A nil aggregate is absent:
// the column had no present values.
type Statistics struct {
	Count int      `json:"count"`
	Min   *float64 `json:"min"`
	Max   *float64 `json:"max"`
	Sum   *float64 `json:"sum"`
	Mean  *float64 `json:"mean"`
}

// HasValues reports whether any present value contributed to the aggregates
func (s Statistics) HasValues() bool {
	return s.Sum != nil
}

// Present wraps v as a present aggregate
func Present(v float64) *float64 {
	return &v
}

// ============================================================================
// EXECUTION STRATEGY
// ============================================================================

// Strategy selects how a computation is executed. Both produce identical results.
type Strategy string

const (
	// StrategyLazy builds a plan and streams the file, projecting one column
	StrategyLazy Strategy = "lazy"
	// StrategyEager loads the whole table before computing
	StrategyEager Strategy = "eager"
)

// ParseStrategy accepts "lazy" or "eager" (case-insensitive); "" means lazy
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case "", StrategyLazy:
		return StrategyLazy, nil
	case StrategyEager:
		return StrategyEager, nil
	}
	return "", fmt.Errorf("unknown strategy %q (want lazy or eager)", s)
}

// ============================================================================
// ERRORS
// ============================================================================

// TypeCoercionError reports the first value that could not become a float64.
// Row is 1-based and counts data rows only (the header is not row 1).
type TypeCoercionError struct {
	Column     string
	Row        int
	Value      string
	SourceType string
}

func (e *TypeCoercionError) Error() string {
	return fmt.Sprintf("cannot convert %s value %q at row %d of column %q to a number",
		e.SourceType, e.Value, e.Row, e.Column)
}
