package pigeon

import (
	"errors"
	"fmt"
	"strings"
)

// Kind is a stable category for programmatic error handling.
//
// Callers should branch on Kind/RuleID rather than matching error strings.
type Kind string

const (
	KindParse      Kind = "Parse"
	KindResource   Kind = "Resource"
	KindValidation Kind = "Validation"
	KindCID        Kind = "CID"
	KindInternal   Kind = "Internal"
)

// MaxDiagnosticLen caps the length of a rendered diagnostic.
const MaxDiagnosticLen = 256

const truncationMarker = "..."

// Error is the package's structured error type.
//
// RuleID is a stable identifier (e.g. PGN-STR-021, PGN-VAL-101) naming the
// violated grammar rule. Line is the 1-based input line active when the
// error was detected, or 0 when the error is not tied to an input position.
//
// Message is intended for humans; do not match on it.
type Error struct {
	Kind    Kind
	RuleID  string
	Line    int
	Message string
	Cause   error
}

// Error renders the diagnostic as "Error, line <N>: <message>", capped at
// MaxDiagnosticLen bytes.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	var s string
	if e.Line > 0 {
		s = fmt.Sprintf("Error, line %d: %s", e.Line, e.Message)
	} else {
		s = "Error: " + e.Message
	}
	return truncate(s, MaxDiagnosticLen)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func newError(kind Kind, ruleID string, line int, msg string) error {
	return &Error{Kind: kind, RuleID: ruleID, Line: line, Message: msg}
}

func wrapError(kind Kind, ruleID string, line int, msg string, cause error) error {
	if cause == nil {
		return newError(kind, ruleID, line, msg)
	}
	return &Error{Kind: kind, RuleID: ruleID, Line: line, Message: msg, Cause: cause}
}

// IsKind reports whether err is (or wraps) a *Error with the given Kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}

// RuleID returns the stable RuleID for a structured error, or "" if unknown.
func RuleID(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return ""
	}
	return e.RuleID
}

// LineOf returns the input line a structured error was reported at, or 0.
func LineOf(err error) int {
	var e *Error
	if !errors.As(err, &e) {
		return 0
	}
	return e.Line
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit-len(truncationMarker)] + truncationMarker
}

// excerptLimit bounds input text quoted back inside a diagnostic.
const excerptLimit = 64

func excerpt(b []byte) string {
	var sb strings.Builder
	sb.WriteByte('\'')
	n := len(b)
	if n > excerptLimit {
		n = excerptLimit
	}
	for _, c := range b[:n] {
		if isPrint(c) {
			sb.WriteByte(c)
		} else {
			fmt.Fprintf(&sb, "\\x%02x", c)
		}
	}
	if len(b) > excerptLimit {
		sb.WriteString(truncationMarker)
	}
	sb.WriteByte('\'')
	return sb.String()
}

func describeByte(c byte) string {
	if isPrint(c) {
		return fmt.Sprintf("'%c'", c)
	}
	return fmt.Sprintf("0x%02x", c)
}
