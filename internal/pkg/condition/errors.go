package condition

import (
	"errors"
	"fmt"
)

// ErrUnknownColumn matches any *UnknownColumnError.
var ErrUnknownColumn = errors.New("unknown column")

// UnknownColumnError reports a value-set column that the table does not have.
type UnknownColumnError struct {
	Table  string
	Column string
}

func (e *UnknownColumnError) Error() string {
	return fmt.Sprintf("table %q does not have a column named %q", e.Table, e.Column)
}

// Is makes errors.Is(err, ErrUnknownColumn) hold.
func (e *UnknownColumnError) Is(target error) bool {
	return target == ErrUnknownColumn
}
