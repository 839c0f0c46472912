package layout

import (
	"errors"
	"fmt"
)

// Causes wrapped by *Error; match them with errors.Is.
var (
	ErrAlignUnsupported = errors.New("alignment cannot be expressed without repr(align)")
	ErrBitsOverflow     = errors.New("bit range does not fit its storage unit")
)

// Error names the aggregate or field whose native layout cannot be
// reproduced.
type Error struct {
	Name   string
	Detail string
	Err    error
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return e.Name + ": " + e.Err.Error()
	}
	return fmt.Sprintf("%s: %v (%s)", e.Name, e.Err, e.Detail)
}

func (e *Error) Unwrap() error { return e.Err }

func alignError(name string, align int) error {
	return &Error{Name: name, Err: ErrAlignUnsupported, Detail: fmt.Sprintf("align %d", align)}
}

func overflowError(name string, r BitRange, unitBytes int) error {
	return &Error{
		Name:   name,
		Err:    ErrBitsOverflow,
		Detail: fmt.Sprintf("bits %d..%d, unit %d bytes", r.Offset, r.Offset+r.Width, unitBytes),
	}
}
