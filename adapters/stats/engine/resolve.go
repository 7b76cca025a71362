package engine

import (
	stderrors "errors"

	"colstats/domain/tabular"
	"colstats/internal/errors"
)

// Resolve selects a column by exact, case-sensitive name. The table is not modified.
func (e *StatsEngine) Resolve(table *tabular.Table, name string) (*tabular.Column, error) {
	col, err := table.Column(name)
	if err != nil {
		e.logger.Debug("[StatsEngine] cannot resolve column %q: %v", name, err)
		return nil, ResolveError(err)
	}
	return col, nil
}

// ResolveError attaches the error code for a failed column lookup
func ResolveError(err error) error {
	if stderrors.Is(err, tabular.ErrEmptyColumnName) {
		return errors.WithCode(errors.CodeInvalidInput, err)
	}
	return errors.WithCode(errors.CodeColumnNotFound, err)
}
