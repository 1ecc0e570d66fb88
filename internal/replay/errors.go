package replay

import (
	"errors"
	"fmt"
)

var (
	ErrDeserialization = errors.New("can't deserialize invocation")
	ErrUnsupportedTool = errors.New("unsupported tool")
)

// DeserializationError is a serialized invocation that is not well-formed JSON or lacks a required field.
type DeserializationError struct {
	Field string // the missing or malformed field, "" if the text itself is malformed
	Err   error
}

func (e *DeserializationError) Error() string {
	switch {
	case e.Field != "" && e.Err != nil:
		return fmt.Sprintf("%v: %s: %v", ErrDeserialization, e.Field, e.Err)
	case e.Field != "":
		return fmt.Sprintf("%v: required field %s is missing", ErrDeserialization, e.Field)
	default:
		return fmt.Sprintf("%v: %v", ErrDeserialization, e.Err)
	}
}

func (e *DeserializationError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrDeserialization}
	}
	return []error{ErrDeserialization, e.Err}
}

type UnsupportedToolError struct {
	Tool string
}

func (e *UnsupportedToolError) Error() string {
	return fmt.Sprintf("%v %q, expected one of: csc, vbc", ErrUnsupportedTool, e.Tool)
}

func (e *UnsupportedToolError) Unwrap() error {
	return ErrUnsupportedTool
}
