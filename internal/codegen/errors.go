package codegen

import (
	"errors"
	"strings"
)

// CycleError reports an insertion point whose expansion transitively
// contains a marker for itself.
type CycleError struct {
	// Path lists the points from the first occurrence of the repeated point
	// to its second occurrence, e.g. ["A", "B", "A"].
	Path []string
}

// Error implements the error interface.
func (e *CycleError) Error() string {
	return "insertion cycle: " + strings.Join(e.Path, " -> ")
}

// IsCycleError returns true if err is or wraps a *CycleError.
func IsCycleError(err error) bool {
	var ce *CycleError
	return errors.As(err, &ce)
}
