package sqltypes

import (
	"fmt"
	"strings"
)

// Code abstract SQL type code, independent of any database product
type Code int

const (
	Unknown Code = iota
	Boolean
	Bit
	TinyInt
	SmallInt
	Integer
	BigInt
	Float
	Real
	Double
	Decimal
	Numeric
	Char
	NChar
	Varchar
	NVarchar
	LongVarchar
	LongNVarchar
	Clob
	NClob
	Binary
	Varbinary
	LongVarbinary
	Blob
	Date
	Time
	TimeWithTimeZone
	TimeUTC
	Timestamp
	TimestampWithTimeZone
	TimestampUTC
	Interval
	UUID
	Enum
	NamedEnum
	JSON
	Struct
	Array
)

var codeNames = [...]string{
	Unknown:               "unknown",
	Boolean:               "boolean",
	Bit:                   "bit",
	TinyInt:               "tinyint",
	SmallInt:              "smallint",
	Integer:               "integer",
	BigInt:                "bigint",
	Float:                 "float",
	Real:                  "real",
	Double:                "double",
	Decimal:               "decimal",
	Numeric:               "numeric",
	Char:                  "char",
	NChar:                 "nchar",
	Varchar:               "varchar",
	NVarchar:              "nvarchar",
	LongVarchar:           "longvarchar",
	LongNVarchar:          "longnvarchar",
	Clob:                  "clob",
	NClob:                 "nclob",
	Binary:                "binary",
	Varbinary:             "varbinary",
	LongVarbinary:         "longvarbinary",
	Blob:                  "blob",
	Date:                  "date",
	Time:                  "time",
	TimeWithTimeZone:      "time_with_timezone",
	TimeUTC:               "time_utc",
	Timestamp:             "timestamp",
	TimestampWithTimeZone: "timestamp_with_timezone",
	TimestampUTC:          "timestamp_utc",
	Interval:              "interval",
	UUID:                  "uuid",
	Enum:                  "enum",
	NamedEnum:             "named_enum",
	JSON:                  "json",
	Struct:                "struct",
	Array:                 "array",
}

func (c Code) String() string {
	if c >= 0 && int(c) < len(codeNames) {
		return codeNames[c]
	}
	return fmt.Sprintf("code(%d)", int(c))
}

// Codes returns all known codes except Unknown
func Codes() []Code {
	codes := make([]Code, 0, len(codeNames)-1)
	for c := Boolean; int(c) < len(codeNames); c++ {
		codes = append(codes, c)
	}
	return codes
}

// ParseCode looks a code up by its name, accepting a few common aliases
func ParseCode(name string) (Code, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	switch name {
	case "bool":
		return Boolean, nil
	case "int", "int4":
		return Integer, nil
	case "int8":
		return BigInt, nil
	case "int2":
		return SmallInt, nil
	case "text", "string":
		return LongVarchar, nil
	case "bytes", "bytea":
		return Varbinary, nil
	case "timestamptz":
		return TimestampWithTimeZone, nil
	case "timetz":
		return TimeWithTimeZone, nil
	}
	for c, n := range codeNames {
		if n == name && Code(c) != Unknown {
			return Code(c), nil
		}
	}
	return Unknown, fmt.Errorf("unknown sql type %q", name)
}

// IsInteger integral numeric types
func (c Code) IsInteger() bool {
	switch c {
	case TinyInt, SmallInt, Integer, BigInt:
		return true
	}
	return false
}

// IsFloat approximate numeric types
func (c Code) IsFloat() bool {
	switch c {
	case Float, Real, Double:
		return true
	}
	return false
}

// IsDecimal exact numeric types
func (c Code) IsDecimal() bool {
	return c == Decimal || c == Numeric
}

// IsNumeric any numeric type
func (c Code) IsNumeric() bool {
	return c.IsInteger() || c.IsFloat() || c.IsDecimal()
}

// IsShortCharacter character types with a declared length; these may carry
// booleans as Y/N
func (c Code) IsShortCharacter() bool {
	switch c {
	case Char, NChar, Varchar, NVarchar:
		return true
	}
	return false
}

// IsCharacter any textual type, including lobs and enums stored as text
func (c Code) IsCharacter() bool {
	switch c {
	case Char, NChar, Varchar, NVarchar, LongVarchar, LongNVarchar, Clob, NClob, Enum, NamedEnum:
		return true
	}
	return false
}

// IsBinary any binary type
func (c Code) IsBinary() bool {
	switch c {
	case Binary, Varbinary, LongVarbinary, Blob:
		return true
	}
	return false
}

// IsLob large object types
func (c Code) IsLob() bool {
	switch c {
	case Clob, NClob, Blob:
		return true
	}
	return false
}

// IsDate date without time
func (c Code) IsDate() bool {
	return c == Date
}

// IsTime time of day types
func (c Code) IsTime() bool {
	switch c {
	case Time, TimeWithTimeZone, TimeUTC:
		return true
	}
	return false
}

// IsTimestamp date and time types
func (c Code) IsTimestamp() bool {
	switch c {
	case Timestamp, TimestampWithTimeZone, TimestampUTC:
		return true
	}
	return false
}

// IsTemporal any date, time or timestamp type
func (c Code) IsTemporal() bool {
	return c.IsDate() || c.IsTime() || c.IsTimestamp()
}

// HasOffset types whose values carry a zone offset
func (c Code) HasOffset() bool {
	switch c {
	case TimeWithTimeZone, TimeUTC, TimestampWithTimeZone, TimestampUTC:
		return true
	}
	return false
}

// IsAggregate types that hold a whole embeddable in one column
func (c Code) IsAggregate() bool {
	return c == Struct || c == JSON
}
