package main

import "fmt"

// ExitError signals a non-zero exit code without forcing os.Exit in RunE handlers.
// Errors that are not ExitError come from cobra itself (bad flags or arguments) and are usage errors.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

func failed(err error) error {
	if err == nil {
		return nil
	}
	return &ExitError{Code: 1, Err: err}
}
