package tabular

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyColumnName is returned when resolution is asked for ""
var ErrEmptyColumnName = errors.New("column name must not be empty")

// ColumnNotFoundError carries the requested name and every name the table has,
// so a typo can be fixed without opening the file.
type ColumnNotFoundError struct {
	Requested string
	Available []string
}

func (e *ColumnNotFoundError) Error() string {
	quoted := make([]string, len(e.Available))
	for i, name := range e.Available {
		quoted[i] = fmt.Sprintf("%q", name)
	}
	return fmt.Sprintf("column %q not found; available columns: [%s]", e.Requested, strings.Join(quoted, ", "))
}
