package workspace

import (
	"errors"
	"fmt"
)

var (
	ErrCompilation     = errors.New("can't produce compilation")
	ErrWorkspaceClosed = errors.New("workspace is closed")
)

// CompilationError is a failure to turn a ProjectInfo into a Compilation:
// an unreadable document, a missing metadata reference.
// Path is the file that failed, in the current environment (already remapped).
type CompilationError struct {
	Path string
	Err  error
}

func (e *CompilationError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%v: %v", ErrCompilation, e.Err)
	}
	return fmt.Sprintf("%v: %s: %v", ErrCompilation, e.Path, e.Err)
}

func (e *CompilationError) Unwrap() []error {
	return []error{ErrCompilation, e.Err}
}
