package errtranslator

import (
	"errors"
	"strconv"

	mssql "github.com/denisenkom/go-mssqldb"
	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgconn"
	"github.com/lib/pq"
	"modernc.org/sqlite"
)

// Details vendor neutral view of a driver error
type Details struct {
	// Code vendor error number
	Code     int
	SQLState string
	Message  string
	// Constraint name, when the driver reports it
	Constraint string
}

type sqlStater interface {
	SQLState() string
}

type stringCoder interface {
	Code() string
}

type intCoder interface {
	Code() int
}

type numberer interface {
	Number() uint16
}

type sqlErrorNumberer interface {
	SQLErrorNumber() int32
}

// Extract finds the first known driver error in the chain of err
func Extract(err error) (Details, bool) {
	if err == nil {
		return Details{}, false
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return Details{SQLState: string(pqErr.Code), Message: pqErr.Message, Constraint: pqErr.Constraint}, true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return Details{SQLState: pgErr.Code, Message: pgErr.Message, Constraint: pgErr.ConstraintName}, true
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		d := Details{Code: int(myErr.Number), Message: myErr.Message}
		if myErr.SQLState != [5]byte{} {
			d.SQLState = string(myErr.SQLState[:])
		}
		return d, true
	}

	var msErr mssql.Error
	if errors.As(err, &msErr) {
		return Details{Code: int(msErr.Number), Message: msErr.Message}, true
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return Details{Code: liteErr.Code(), Message: liteErr.Error()}, true
	}

	return extractByInterface(err)
}

// extractByInterface drivers without a typed case, e.g. pgx v5 or godror
func extractByInterface(err error) (Details, bool) {
	if e, ok := asError[sqlStater](err); ok {
		return Details{SQLState: e.SQLState(), Message: err.Error()}, true
	}
	if e, ok := asError[intCoder](err); ok {
		return Details{Code: e.Code(), Message: err.Error()}, true
	}
	if e, ok := asError[numberer](err); ok {
		return Details{Code: int(e.Number()), Message: err.Error()}, true
	}
	if e, ok := asError[sqlErrorNumberer](err); ok {
		return Details{Code: int(e.SQLErrorNumber()), Message: err.Error()}, true
	}
	if e, ok := asError[stringCoder](err); ok {
		code := e.Code()
		if n, convErr := strconv.Atoi(code); convErr == nil && len(code) != 5 {
			return Details{Code: n, Message: err.Error()}, true
		}
		return Details{SQLState: code, Message: err.Error()}, true
	}
	return Details{}, false
}

func asError[T any](err error) (T, bool) {
	var target T
	for err != nil {
		if e, ok := err.(T); ok {
			return e, true
		}
		err = errors.Unwrap(err)
	}
	return target, false
}
