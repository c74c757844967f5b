package codec

import (
	"errors"
	"fmt"

	"gorm.io/sqldialect/sqltypes"
)

// MaxNestingLevel deepest aggregate nesting accepted by the codecs. A value at
// level n is escaped with 2^(n+1) repeated characters in the composite format.
const MaxNestingLevel = 8

var (
	// ErrNestingTooDeep aggregate nesting exceeds MaxNestingLevel
	ErrNestingTooDeep = errors.New("aggregate nesting too deep")
	// ErrNoEmbeddable codec created without an embeddable
	ErrNoEmbeddable = errors.New("codec requires an embeddable")
)

// SyntaxError malformed composite, array or JSON text
type SyntaxError struct {
	Format string
	Offset int
	// Char offending character, 0 at end of input
	Char byte
	// Expected characters acceptable at Offset, if known
	Expected string
	Msg      string
}

func (e *SyntaxError) Error() string {
	if e.Expected != "" || e.Msg == "" {
		if e.Char == 0 {
			return fmt.Sprintf("%s syntax error at position %d: unexpected end of input, expecting one of [%s]", e.Format, e.Offset, e.Expected)
		}
		return fmt.Sprintf("%s syntax error at position %d: unexpected char [%c], expecting one of [%s]", e.Format, e.Offset, e.Char, e.Expected)
	}
	if e.Char == 0 {
		return fmt.Sprintf("%s syntax error at position %d: %s", e.Format, e.Offset, e.Msg)
	}
	return fmt.Sprintf("%s syntax error at position %d near [%c]: %s", e.Format, e.Offset, e.Char, e.Msg)
}

func syntaxError(format, s string, offset int, expected string) *SyntaxError {
	err := &SyntaxError{Format: format, Offset: offset, Expected: expected}
	if offset < len(s) {
		err.Char = s[offset]
	}
	return err
}

func malformed(format, s string, offset int, msg string, args ...interface{}) *SyntaxError {
	err := &SyntaxError{Format: format, Offset: offset, Msg: fmt.Sprintf(msg, args...)}
	if offset < len(s) {
		err.Char = s[offset]
	}
	return err
}

// UnsupportedKindError a field type the codec has no representation for
type UnsupportedKindError struct {
	Format string
	Field  string
	Kind   sqltypes.Code
}

func (e *UnsupportedKindError) Error() string {
	return fmt.Sprintf("unsupported type %s nested in %s (field %s)", e.Kind, e.Format, e.Field)
}

// ValueError a value that cannot be converted to or from its field type
type ValueError struct {
	Field string
	Kind  sqltypes.Code
	Value interface{}
	Err   error
}

func (e *ValueError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid %s value %#v for field %s: %v", e.Kind, e.Value, e.Field, e.Err)
	}
	return fmt.Sprintf("invalid %s value %#v for field %s", e.Kind, e.Value, e.Field)
}

func (e *ValueError) Unwrap() error {
	return e.Err
}
