package scheduler

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds. Every error returned by this package wraps exactly one of them,
// so callers can branch with errors.Is.
var (
	ErrParse        = errors.New("parse error")
	ErrGraphInvalid = errors.New("invalid graph")
	ErrConfig       = errors.New("invalid configuration")
)

// Error is a scheduling failure of a given kind.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Msg == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %s", e.Kind.Error(), e.Msg)
}

func (e *Error) Unwrap() error { return e.Kind }

// ParseError reports a malformed dependency instruction.
// Line is 1-based; zero means the position is unknown.
type ParseError struct {
	Line   int
	Text   string
	Reason string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s: line %d: %s: %q", ErrParse, e.Line, e.Reason, e.Text)
	}
	return fmt.Sprintf("%s: %s: %q", ErrParse, e.Reason, e.Text)
}

func (e *ParseError) Unwrap() error { return ErrParse }

func invalidf(format string, args ...any) error {
	return &Error{Kind: ErrGraphInvalid, Msg: fmt.Sprintf(format, args...)}
}

func configf(format string, args ...any) error {
	return &Error{Kind: ErrConfig, Msg: fmt.Sprintf(format, args...)}
}

func unresolvedError(pending []string) error {
	return invalidf("cycle or dangling prerequisite among %d unresolved tasks: %s",
		len(pending), strings.Join(pending, ", "))
}
