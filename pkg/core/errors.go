package core

import (
	"errors"
	"fmt"
)

// =============================================================================
// Parse errors
// =============================================================================

// ErrorKind classifies a fatal parse failure.
type ErrorKind int

// Error kinds.
const (
	// SyntaxError indicates input that matches no production of the grammar.
	SyntaxError ErrorKind = iota
	// UnsupportedCondition indicates an if-condition of unrecognized shape.
	UnsupportedCondition
	// DuplicateIdentifier indicates a name collision within one scope.
	DuplicateIdentifier
	// InvalidDecorator indicates an illegal decorator placement or combination.
	InvalidDecorator
	// InvalidParameterForm indicates a star-argument ordering violation.
	InvalidParameterForm
	// UnknownMutatedParameter indicates `x := T` for a name that is not a parameter.
	UnknownMutatedParameter
)

// String returns the string representation of the error kind.
func (k ErrorKind) String() string {
	switch k {
	case SyntaxError:
		return "SyntaxError"
	case UnsupportedCondition:
		return "UnsupportedCondition"
	case DuplicateIdentifier:
		return "DuplicateIdentifier"
	case InvalidDecorator:
		return "InvalidDecorator"
	case InvalidParameterForm:
		return "InvalidParameterForm"
	case UnknownMutatedParameter:
		return "UnknownMutatedParameter"
	default:
		return "unknown"
	}
}

// Error is a fatal parse error. Line is 1-based; 0 means the error concerns
// the whole module rather than a single line.
type Error struct {
	Kind    ErrorKind
	Line    int
	Message string
}

func (e *Error) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s at line %d: %s", e.Kind, e.Line, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Errorf creates an Error of the given kind.
func Errorf(kind ErrorKind, line int, format string, args ...any) *Error {
	return &Error{Kind: kind, Line: line, Message: fmt.Sprintf(format, args...)}
}

// IsKind reports whether err is (or wraps) an *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
