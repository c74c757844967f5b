package sqldialect

import (
	"errors"

	"gorm.io/sqldialect/dialect"
	"gorm.io/sqldialect/errtranslator"
)

var (
	// ErrMissingVendor config names no vendor
	ErrMissingVendor = errors.New("vendor required")
	// ErrInvalidConfig config value cannot be used
	ErrInvalidConfig = errors.New("invalid config")
	// ErrUnknownVendor unknown vendor or driver name
	ErrUnknownVendor = dialect.ErrUnknownVendor
	// ErrUnsupportedVersion server older than the vendor minimum
	ErrUnsupportedVersion = dialect.ErrUnsupportedVersion
)

// Classified database errors, matched with errors.Is on the result of
// TranslateError
var (
	ErrDuplicatedKey           = errtranslator.ErrDuplicatedKey
	ErrForeignKeyViolated      = errtranslator.ErrForeignKeyViolated
	ErrCheckConstraintViolated = errtranslator.ErrCheckConstraintViolated
	ErrNotNullViolated         = errtranslator.ErrNotNullViolated
	ErrConstraintViolation     = errtranslator.ErrConstraintViolation
	ErrLockTimeout             = errtranslator.ErrLockTimeout
	ErrLockAcquisition         = errtranslator.ErrLockAcquisition
	ErrPessimisticLock         = errtranslator.ErrPessimisticLock
	ErrQueryTimeout            = errtranslator.ErrQueryTimeout
	ErrSQLGrammar              = errtranslator.ErrSQLGrammar
)
