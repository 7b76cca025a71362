package engine

import (
	"colstats/adapters/datareadiness/coercer"
	domainStats "colstats/domain/stats"
	"colstats/domain/tabular"
)

// CoerceValue converts one cell to float64.
// present is false for a missing cell; ok is false when the cell is not numeric.
func CoerceValue(v tabular.Value) (f float64, present bool, ok bool) {
	switch v.Kind() {
	case tabular.KindMissing:
		return 0, false, true
	case tabular.KindInteger:
		return float64(v.AsInt()), true, true
	case tabular.KindFloat:
		return v.AsFloat(), true, true
	case tabular.KindString:
		if f, ok := coercer.ParseNumber(v.AsString()); ok {
			return f, true, true
		}
	}
	// booleans are not numbers
	return 0, false, false
}

// NewCoercionError describes a cell that CoerceValue rejected. row is 0-based.
func NewCoercionError(column string, row int, v tabular.Value) *domainStats.TypeCoercionError {
	return &domainStats.TypeCoercionError{
		Column:     column,
		Row:        row + 1,
		Value:      v.Raw(),
		SourceType: v.Kind().String(),
	}
}

// Coerce converts a whole column to float64. It is all-or-nothing: the first
// non-numeric, non-missing value fails the call and no partial column is returned.
func (e *StatsEngine) Coerce(col *tabular.Column) (*domainStats.NumericColumn, error) {
	numeric := domainStats.NewNumericColumn(col.Name, col.Len())

	for i, v := range col.Values {
		f, present, ok := CoerceValue(v)
		if !ok {
			e.logger.Debug("[StatsEngine] column %q (%s) rejected at row %d", col.Name, col.Type, i+1)
			return nil, NewCoercionError(col.Name, i, v)
		}
		if present {
			numeric.Set(i, f)
		}
	}

	return numeric, nil
}
