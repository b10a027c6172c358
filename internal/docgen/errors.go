package docgen

import "fmt"

// PreconditionError means the document cannot be generated yet because
// required data is missing or incomplete. The user can correct it.
type PreconditionError struct {
	Reason string
}

func (e *PreconditionError) Error() string {
	return e.Reason
}

func preconditionf(format string, args ...any) error {
	return &PreconditionError{Reason: fmt.Sprintf(format, args...)}
}

// TemplateError means the template archive could not be read or is
// malformed. The operator has to fix the installation.
type TemplateError struct {
	Name string
	Err  error
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("template %s: %v", e.Name, e.Err)
}

func (e *TemplateError) Unwrap() error {
	return e.Err
}

// ConversionError carries the external converter's failure verbatim.
type ConversionError struct {
	Err error
}

func (e *ConversionError) Error() string {
	return e.Err.Error()
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}
