package errtranslator

import "strings"

// Vendor translators, keyed the same way as dialect vendors
var (
	PostgreSQL  = New("postgresql", classifyPostgreSQL)
	CockroachDB = New("cockroachdb", classifyCockroachDB)
	MySQL       = New("mysql", classifyMySQL)
	Oracle      = New("oracle", classifyOracle)
	SQLServer   = New("sqlserver", classifySQLServer)
	HANA        = New("hana", classifyHANA)
	H2          = New("h2", classifyH2)
	SQLite      = New("sqlite", classifySQLite)
	DB2         = New("db2", classifyDB2)
	Spanner     = New("spanner", classifySpanner)
)

var vendors = map[string]*Translator{}

func init() {
	for _, t := range []*Translator{PostgreSQL, CockroachDB, MySQL, Oracle, SQLServer, HANA, H2, SQLite, DB2, Spanner} {
		vendors[t.Vendor] = t
	}
}

// For translator of a vendor, the SQLSTATE-only translator for unknown vendors
func For(vendor string) *Translator {
	if t, ok := vendors[strings.ToLower(vendor)]; ok {
		return t
	}
	return New(vendor, nil)
}

func classifyPostgreSQL(d Details) *Error {
	switch d.SQLState {
	case "40P01":
		return &Error{Kind: LockAcquisition}
	case "55P03":
		return &Error{Kind: PessimisticLock}
	case "57014":
		return &Error{Kind: QueryTimeout}
	}
	if strings.HasPrefix(d.SQLState, "23") {
		return constraint(sqlStateConstraint(d.SQLState), postgresConstraintName(d))
	}
	return nil
}

func postgresConstraintName(d Details) string {
	if d.Constraint != "" {
		return d.Constraint
	}
	switch d.SQLState {
	case "23514":
		return ExtractUsingTemplate(`violates check constraint "`, `"`, d.Message)
	case "23505":
		return ExtractUsingTemplate(`violates unique constraint "`, `"`, d.Message)
	case "23503":
		return ExtractUsingTemplate(`violates foreign key constraint "`, `"`, d.Message)
	case "23502":
		return ExtractUsingTemplate(`null value in column "`, `" violates not-null constraint`, d.Message)
	}
	return ""
}

func classifyCockroachDB(d Details) *Error {
	if d.SQLState == "40001" {
		// restart transaction
		return &Error{Kind: LockAcquisition}
	}
	return classifyPostgreSQL(d)
}

func classifyMySQL(d Details) *Error {
	switch d.Code {
	case 1205, 3572:
		return &Error{Kind: PessimisticLock}
	case 1206, 1207:
		return &Error{Kind: LockAcquisition}
	case 1062:
		return constraint(Unique, ExtractUsingTemplate(" for key '", "'", d.Message))
	case 1451, 1452:
		return constraint(ForeignKey, ExtractUsingTemplate("CONSTRAINT `", "`", d.Message))
	case 1048:
		return constraint(NotNull, "")
	case 3819:
		return constraint(Check, ExtractUsingTemplate("Check constraint '", "'", d.Message))
	}
	switch d.SQLState {
	case "41000":
		return &Error{Kind: LockTimeout}
	case "40001":
		return &Error{Kind: LockAcquisition}
	}
	return nil
}

func classifyOracle(d Details) *Error {
	switch d.Code {
	case 30006, 54, 4021:
		return &Error{Kind: LockTimeout}
	case 60, 4020:
		return &Error{Kind: LockAcquisition}
	case 1013:
		return &Error{Kind: QueryTimeout}
	case 1:
		return constraint(Unique, ExtractUsingTemplate("(", ")", d.Message))
	case 2291, 2292:
		return constraint(ForeignKey, ExtractUsingTemplate("(", ")", d.Message))
	case 2290:
		return constraint(Check, ExtractUsingTemplate("(", ")", d.Message))
	case 1400, 1407:
		return constraint(NotNull, "")
	}
	return nil
}

func classifySQLServer(d Details) *Error {
	switch d.Code {
	case 1222:
		return &Error{Kind: LockTimeout}
	case 1205:
		return &Error{Kind: LockAcquisition}
	case 2627:
		return constraint(Unique, ExtractUsingTemplate("constraint '", "'", d.Message))
	case 2601:
		return constraint(Unique, ExtractUsingTemplate("unique index '", "'", d.Message))
	case 547:
		kind := ForeignKey
		if strings.Contains(d.Message, "CHECK constraint") {
			kind = Check
		}
		return constraint(kind, ExtractUsingTemplate(`constraint "`, `"`, d.Message))
	case 515:
		return constraint(NotNull, "")
	case 208, 207, 102, 156:
		return &Error{Kind: SQLGrammar}
	}
	if d.SQLState == "HY008" {
		return &Error{Kind: QueryTimeout}
	}
	return nil
}

func classifyHANA(d Details) *Error {
	switch {
	case d.Code == 131 || d.Code == 146:
		return &Error{Kind: LockTimeout}
	case d.Code == 132 || d.Code == 133:
		return &Error{Kind: LockAcquisition}
	case d.Code == 257 || (d.Code >= 259 && d.Code <= 263):
		return &Error{Kind: SQLGrammar}
	case d.Code == 301:
		return constraint(Unique, "")
	case d.Code == 287:
		return constraint(NotNull, "")
	case d.Code == 461 || d.Code == 462:
		return constraint(ForeignKey, "")
	}
	return nil
}

func classifyH2(d Details) *Error {
	switch d.Code {
	case 50200:
		return &Error{Kind: LockTimeout}
	case 40001:
		return &Error{Kind: LockAcquisition}
	case 57014:
		return &Error{Kind: QueryTimeout}
	case 23505:
		return constraint(Unique, h2ConstraintName(d.Message))
	case 23502:
		return constraint(NotNull, "")
	case 23503, 23506:
		return constraint(ForeignKey, h2ConstraintName(d.Message))
	case 23513, 23514:
		return constraint(Check, h2ConstraintName(d.Message))
	}
	return nil
}

func h2ConstraintName(message string) string {
	name := ExtractUsingTemplate("violation: ", " ", message)
	return strings.Trim(name, `"`)
}

// SQLite primary and extended result codes
const (
	sqliteBusy                 = 5
	sqliteLocked               = 6
	sqliteInterrupt            = 9
	sqliteConstraint           = 19
	sqliteConstraintCheck      = 275
	sqliteConstraintForeignKey = 787
	sqliteConstraintNotNull    = 1299
	sqliteConstraintPrimaryKey = 1555
	sqliteConstraintUnique     = 2067
)

func classifySQLite(d Details) *Error {
	switch d.Code & 0xff {
	case sqliteBusy, sqliteLocked:
		return &Error{Kind: LockAcquisition}
	case sqliteInterrupt:
		return &Error{Kind: QueryTimeout}
	case sqliteConstraint:
	default:
		return nil
	}

	switch d.Code {
	case sqliteConstraintUnique, sqliteConstraintPrimaryKey:
		return constraint(Unique, "")
	case sqliteConstraintNotNull:
		return constraint(NotNull, "")
	case sqliteConstraintForeignKey:
		return constraint(ForeignKey, "")
	case sqliteConstraintCheck:
		return constraint(Check, ExtractUsingTemplate("CHECK constraint failed: ", "", d.Message))
	}
	return constraint(OtherConstraint, "")
}

func classifyDB2(d Details) *Error {
	switch d.Code {
	case -952:
		return &Error{Kind: LockTimeout}
	case -911, -913:
		return &Error{Kind: LockAcquisition}
	case -803:
		return constraint(Unique, "")
	case -407:
		return constraint(NotNull, "")
	case -530, -531, -532:
		return constraint(ForeignKey, "")
	case -545:
		return constraint(Check, "")
	case -204, -206:
		return &Error{Kind: SQLGrammar}
	}
	return nil
}

// gRPC status codes reported by the Spanner client
const (
	grpcDeadlineExceeded = 4
	grpcAlreadyExists    = 6
	grpcAborted          = 10
)

func classifySpanner(d Details) *Error {
	switch d.Code {
	case grpcAborted:
		return &Error{Kind: LockAcquisition}
	case grpcDeadlineExceeded:
		return &Error{Kind: QueryTimeout}
	case grpcAlreadyExists:
		return constraint(Unique, "")
	}
	return nil
}
