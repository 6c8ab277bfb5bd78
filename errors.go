package goshape

import (
	"errors"

	"github.com/goshape/goshape/internal/describe"
)

// ErrValidation is the sentinel all validation failures wrap. Callers can
// branch with errors.Is without inspecting the error list.
var ErrValidation = errors.New("goshape: validation failed")

// ErrorItem is a single validation finding. InstancePath locates the
// offending value in the input document; SchemaPath locates the keyword
// that rejected it.
type ErrorItem struct {
	Message      string `json:"message"`
	InstancePath string `json:"instancePath"`
	SchemaPath   string `json:"schemaPath"`
}

// SchemaValidationError carries the complete, ordered list of findings for
// one Load call.
type SchemaValidationError struct {
	Errors []ErrorItem
}

func (e *SchemaValidationError) Error() string { return ErrValidation.Error() }

func (e *SchemaValidationError) Unwrap() error { return ErrValidation }

// DescribeError reports a declared type with no schema representation. It
// is returned by New at construction time, never by Load.
type DescribeError = describe.Error

// AsValidationError extracts the finding list when err is a validation
// failure.
func AsValidationError(err error) (*SchemaValidationError, bool) {
	var ve *SchemaValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
