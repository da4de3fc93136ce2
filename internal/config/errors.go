package config

import (
	"errors"
	"fmt"

	"cuelang.org/go/cue/token"
)

// Error codes for document loading.
const (
	ErrCodeGeneric      = "E001" // Generic/unknown error
	ErrCodeReadFailed   = "E002" // File could not be read
	ErrCodeEmpty        = "E003" // Document is empty
	ErrCodeParseFailed  = "E004" // YAML syntax error
	ErrCodeNotFound     = "E005" // Path not found
	ErrCodeSchema       = "E006" // Schema violation
	ErrCodeDecodeFailed = "E007" // Typed decoding failed

	ErrCodeUnknownAction = "E101" // Action kind not supported
	ErrCodeDuplicateID   = "E102" // Entity id used twice
	ErrCodeUnknownTarget = "E103" // Action references an undeclared switch
	ErrCodeReservedID    = "E104" // Entity id clashes with a generated identifier
)

// LoadError represents an error that occurred while loading a document.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
	Err     error
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Errors flattens err into its individual load errors. Errors that are not
// *LoadError values are wrapped with ErrCodeGeneric.
func Errors(err error) []*LoadError {
	if err == nil {
		return nil
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var out []*LoadError
		for _, e := range joined.Unwrap() {
			out = append(out, Errors(e)...)
		}
		return out
	}
	var le *LoadError
	if errors.As(err, &le) {
		return []*LoadError{le}
	}
	return []*LoadError{{Code: ErrCodeGeneric, Message: err.Error(), Err: err}}
}
