package enumshare

import (
	"github.com/cockroachdb/errors"
)

// ValidationError reports a candidate that cannot be exported. It is not
// fatal: the batch continues with the other candidates.
type ValidationError struct {
	// Name is the candidate as it was requested, usually a qualified name.
	Name string

	// Reason is a human-readable explanation.
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// GenerationError reports an enum that passed validation but could not be
// normalized or written.
type GenerationError struct {
	// Name is the enum short name.
	Name string
	Err  error
}

func (e *GenerationError) Error() string {
	return e.Name + ": " + e.Err.Error()
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// ConfigurationError stops a run before any enum is processed. The
// returned error carries a hint; use errors.GetAllHints to read it.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string {
	return e.Message
}

func configurationError(message, hint string) error {
	return errors.WithHint(&ConfigurationError{Message: message}, hint)
}
