package cmdline

import (
	"errors"
	"fmt"
)

// ErrParse is wrapped by every ParseError for errors.Is().
var ErrParse = errors.New("command line parse error")

// ParseError is a command line rejected by a Parser: unknown switch, missing or malformed value,
// unreadable rule set and the like.
type ParseError struct {
	Arg string // the offending argument, if any
	Msg string
	Err error // underlying error, e.g. a failed rule set read
}

func (e *ParseError) Error() string {
	if e == nil {
		return ""
	}
	msg := ErrParse.Error()
	if e.Arg != "" {
		msg += fmt.Sprintf(": %s", e.Arg)
	}
	if e.Msg != "" {
		msg += ": " + e.Msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrParse, e.Err}
	}
	return []error{ErrParse}
}

func newParseError(arg string, format string, a ...any) *ParseError {
	return &ParseError{Arg: arg, Msg: fmt.Sprintf(format, a...)}
}
