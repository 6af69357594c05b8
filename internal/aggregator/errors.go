package aggregator

import (
	"errors"
	"fmt"
)

// ErrDegenerateInput signals an internal invariant violation, such as an
// empty record set reaching an aggregator. Callers treat it as fatal.
var ErrDegenerateInput = errors.New("degenerate input")

// NoDataError is returned when no conversation falls in the target year.
type NoDataError struct {
	Year int
}

func (e *NoDataError) Error() string {
	return fmt.Sprintf("No conversations found for %d", e.Year)
}
