package snapshot

import (
	"fmt"
)

// WriteError represents output persistence failures. A failed day file does
// not roll back siblings already written; the error names the path that
// broke.
type WriteError struct {
	Path    string
	Message string
	Err     error
}

func NewWriteError(path, message string) *WriteError {
	return &WriteError{
		Path:    path,
		Message: message,
	}
}

func (e *WriteError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("snapshot write failed for %s: %s", e.Path, e.Message)
	}
	return fmt.Sprintf("snapshot write failed: %s", e.Message)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

func (e *WriteError) WithCause(err error) *WriteError {
	e.Err = err
	return e
}
