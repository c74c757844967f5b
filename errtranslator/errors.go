package errtranslator

import (
	"errors"
	"fmt"
	"strings"
)

// Kind category of a translated database error
type Kind int

const (
	Unknown Kind = iota
	// LockTimeout a lock could not be acquired within the wait time
	LockTimeout
	// LockAcquisition deadlock or unavailable resource, the transaction may be retried
	LockAcquisition
	// PessimisticLock a pessimistic lock request failed
	PessimisticLock
	ConstraintViolation
	QueryTimeout
	SQLGrammar
)

var kindNames = map[Kind]string{
	Unknown:             "unknown",
	LockTimeout:         "lock timeout",
	LockAcquisition:     "lock acquisition",
	PessimisticLock:     "pessimistic lock",
	ConstraintViolation: "constraint violation",
	QueryTimeout:        "query timeout",
	SQLGrammar:          "sql grammar",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ConstraintKind kind of violated constraint
type ConstraintKind int

const (
	OtherConstraint ConstraintKind = iota
	Unique
	NotNull
	ForeignKey
	Check
)

func (k ConstraintKind) String() string {
	switch k {
	case Unique:
		return "unique"
	case NotNull:
		return "not-null"
	case ForeignKey:
		return "foreign-key"
	case Check:
		return "check"
	}
	return "other"
}

var (
	// ErrDuplicatedKey occurs when there is a unique key constraint violation
	ErrDuplicatedKey = errors.New("duplicated key not allowed")
	// ErrForeignKeyViolated occurs when there is a foreign key constraint violation
	ErrForeignKeyViolated = errors.New("violates foreign key constraint")
	// ErrCheckConstraintViolated occurs when there is a check constraint violation
	ErrCheckConstraintViolated = errors.New("violates check constraint")
	// ErrNotNullViolated occurs when null is written to a not null column
	ErrNotNullViolated = errors.New("violates not-null constraint")
	// ErrConstraintViolation any constraint violation
	ErrConstraintViolation = errors.New("constraint violation")
	ErrLockTimeout         = errors.New("lock timeout")
	ErrLockAcquisition     = errors.New("lock acquisition failed")
	ErrPessimisticLock     = errors.New("pessimistic lock failed")
	ErrQueryTimeout        = errors.New("query timeout")
	ErrSQLGrammar          = errors.New("sql grammar error")
)

var kindErrors = map[Kind]error{
	LockTimeout:         ErrLockTimeout,
	LockAcquisition:     ErrLockAcquisition,
	PessimisticLock:     ErrPessimisticLock,
	ConstraintViolation: ErrConstraintViolation,
	QueryTimeout:        ErrQueryTimeout,
	SQLGrammar:          ErrSQLGrammar,
}

var constraintErrors = map[ConstraintKind]error{
	Unique:     ErrDuplicatedKey,
	NotNull:    ErrNotNullViolated,
	ForeignKey: ErrForeignKeyViolated,
	Check:      ErrCheckConstraintViolated,
}

// Error classified database error, wrapping the driver error
type Error struct {
	Kind           Kind
	Constraint     ConstraintKind
	ConstraintName string
	// Code vendor error number, 0 if the driver reports none
	Code     int
	SQLState string
	SQL      string
	Message  string
	Err      error
}

func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Kind.String())
	if e.Kind == ConstraintViolation {
		sb.WriteString(" (")
		sb.WriteString(e.Constraint.String())
		if e.ConstraintName != "" {
			sb.WriteByte(' ')
			sb.WriteString(e.ConstraintName)
		}
		sb.WriteByte(')')
	}
	if e.Message != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Message)
	}
	if e.SQL != "" {
		sb.WriteString(" [")
		sb.WriteString(e.SQL)
		sb.WriteByte(']')
	}
	return sb.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel of the error kind and, for constraint
// violations, of the constraint kind
func (e *Error) Is(target error) bool {
	if target == kindErrors[e.Kind] {
		return true
	}
	return e.Kind == ConstraintViolation && target == constraintErrors[e.Constraint]
}
