// Package errtranslator classifies driver errors into a vendor neutral
// taxonomy of lock, constraint, timeout and grammar failures.
package errtranslator

import (
	"errors"
	"strings"
)

// ErrTranslator translates a driver error, returning err itself when it is
// not recognised
type ErrTranslator interface {
	Translate(err error) error
}

// Classifier recognises extracted details, setting Kind, Constraint and
// ConstraintName of the returned error; nil if not recognised
type Classifier func(d Details) *Error

// Translator vendor classifier followed by the SQLSTATE class fallback
type Translator struct {
	Vendor   string
	classify Classifier
}

var _ ErrTranslator = (*Translator)(nil)

// New creates a translator running classify before the SQLSTATE fallback
func New(vendor string, classify Classifier) *Translator {
	return &Translator{Vendor: vendor, classify: classify}
}

// Classify returns the classified error or nil
func (t *Translator) Classify(err error, sql string) *Error {
	if err == nil {
		return nil
	}

	var translated *Error
	if errors.As(err, &translated) {
		return translated
	}

	d, ok := Extract(err)
	if !ok {
		return nil
	}

	result := t.ClassifyDetails(d, sql)
	if result != nil {
		result.Err = err
	}
	return result
}

// ClassifyDetails classifies already extracted details, e.g. a code and
// message copied from a server log; nil if not recognised
func (t *Translator) ClassifyDetails(d Details, sql string) *Error {
	var result *Error
	if t != nil && t.classify != nil {
		result = t.classify(d)
	}
	if result == nil {
		result = classifySQLState(d)
	}
	if result == nil {
		return nil
	}

	result.Code = d.Code
	result.SQLState = d.SQLState
	result.Message = d.Message
	result.SQL = sql
	return result
}

// Translate implements ErrTranslator
func (t *Translator) Translate(err error) error {
	if translated := t.Classify(err, ""); translated != nil {
		return translated
	}
	return err
}

// classifySQLState standard SQLSTATE classes
func classifySQLState(d Details) *Error {
	state := d.SQLState
	switch {
	case len(state) != 5:
		return nil
	case strings.HasPrefix(state, "23"):
		return &Error{Kind: ConstraintViolation, Constraint: sqlStateConstraint(state), ConstraintName: d.Constraint}
	case state == "40001":
		return &Error{Kind: LockAcquisition}
	case strings.HasPrefix(state, "42"):
		return &Error{Kind: SQLGrammar}
	}
	return nil
}

func sqlStateConstraint(state string) ConstraintKind {
	switch state {
	case "23505":
		return Unique
	case "23502":
		return NotNull
	case "23503":
		return ForeignKey
	case "23514":
		return Check
	}
	return OtherConstraint
}

// ExtractUsingTemplate text between the first begin and the next end in
// message, "" when begin or end is missing. An empty end extends to the end
// of the message.
func ExtractUsingTemplate(begin, end, message string) string {
	start := strings.Index(message, begin)
	if start < 0 {
		return ""
	}
	start += len(begin)
	if end == "" {
		return message[start:]
	}
	stop := strings.Index(message[start:], end)
	if stop < 0 {
		return ""
	}
	return message[start : start+stop]
}

func constraint(kind ConstraintKind, name string) *Error {
	return &Error{Kind: ConstraintViolation, Constraint: kind, ConstraintName: name}
}
