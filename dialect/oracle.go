package dialect

import (
	"time"

	"gorm.io/sqldialect/sqltypes"
)

func configureOracle(b *Builder) {
	v := b.Version()

	if v.IsSameOrAfter(23) {
		b.ColumnType(sqltypes.Boolean, "boolean")
	} else {
		b.ColumnType(sqltypes.Boolean, "number(1,0)")
	}
	b.ColumnType(sqltypes.Bit, "number(1,0)").
		ColumnType(sqltypes.TinyInt, "number(3,0)").
		ColumnType(sqltypes.SmallInt, "number(5,0)").
		ColumnType(sqltypes.Integer, "number(10,0)").
		ColumnType(sqltypes.BigInt, "number(19,0)").
		ColumnType(sqltypes.Float, "float(53)").
		CapacityColumnType(sqltypes.Float, 24, "float(24)").
		ColumnType(sqltypes.Real, "float(24)").
		ColumnType(sqltypes.Double, "float(53)").
		ColumnType(sqltypes.Decimal, "number($p,$s)").
		ColumnType(sqltypes.Numeric, "number($p,$s)").
		ColumnType(sqltypes.Char, "char($l char)").
		ColumnType(sqltypes.NChar, "nchar($l)").
		ColumnType(sqltypes.Varchar, "clob").
		CapacityColumnType(sqltypes.Varchar, 4000, "varchar2($l char)").
		ColumnType(sqltypes.NVarchar, "nclob").
		CapacityColumnType(sqltypes.NVarchar, 4000, "nvarchar2($l)").
		ColumnType(sqltypes.Binary, "blob").
		CapacityColumnType(sqltypes.Binary, 2000, "raw($l)").
		ColumnType(sqltypes.Varbinary, "blob").
		CapacityColumnType(sqltypes.Varbinary, 2000, "raw($l)").
		ColumnType(sqltypes.LongVarbinary, "blob").
		ColumnType(sqltypes.Time, "timestamp($p)").
		ColumnType(sqltypes.TimeWithTimeZone, "timestamp($p) with time zone").
		ColumnType(sqltypes.TimeUTC, "timestamp($p) with time zone").
		ColumnType(sqltypes.Interval, "interval day to second($p)").
		ColumnType(sqltypes.UUID, "raw(16)").
		ColumnType(sqltypes.Enum, "number(3,0)").
		ColumnType(sqltypes.NamedEnum, "varchar2($l char)")
	if v.IsSameOrAfter(21) {
		b.ColumnType(sqltypes.JSON, "json")
	} else {
		b.ColumnType(sqltypes.JSON, "blob")
	}

	b.CastType(sqltypes.Varchar, "varchar2($l char)").
		CastType(sqltypes.NVarchar, "nvarchar2($l)").
		CastType(sqltypes.Varbinary, "raw($l)").
		CastType(sqltypes.Binary, "raw($l)")

	maxIdentifier := 128
	if !v.IsSameOrAfter(12, 2) {
		maxIdentifier = 30
	}
	b.Folding(FoldUpper).
		MaxIdentifierLength(maxIdentifier).
		MaxVarcharLength(4000).
		NativePrecision(1e9)

	b.Template(CurrentTime, "localtimestamp").
		Template(CurrentTimestamp, "localtimestamp").
		Template(CurrentTimestampWithTimeZone, "current_timestamp").
		Template(CurrentTimestampSelect, "select systimestamp from dual").
		Template(CurrentSchemaCommand, "select sys_context('USERENV','CURRENT_SCHEMA') from dual").
		Template(CascadeConstraints, " cascade constraints").
		Template(NoColumnsInsert, "values (default)").
		Template(IdentityColumn, "generated by default on null as identity").
		Template(SequenceNextVal, "select ?1.nextval from dual")
	if v.IsSameOrAfter(23) {
		b.Template(CurrentTimestampSelect, "select systimestamp")
	}

	b.Enable(NoWaitLocks, SkipLockedLocks, WaitLocks, AliasLocks, Sequences, WindowFunctions, CommentOn, JSONAggregates).
		EnableIf(v.IsSameOrAfter(12), IdentityColumns, Lateral, FetchWithTies).
		EnableIf(v.IsSameOrAfter(23), IfExistsBeforeTableName)

	if v.IsSameOrAfter(12) {
		b.Limit(LimitStyle{Strategy: OffsetFetchClause})
	} else {
		b.Limit(LimitStyle{Strategy: RowNumClause})
	}
	literals := LiteralStyle{Binary: hexBinary("hextoraw('", "')", true), DateTime: oracleDateTime}
	if v.IsSameOrAfter(23) {
		literals.Boolean = keywordBoolean
	} else {
		literals.Boolean = numericBoolean
	}
	b.Locking(LockStyle{Write: " for update"}).
		Literals(literals).
		Temporal(oracleTemporal{}).
		SelectNull(oracleNull).
		Aggregate(sqltypes.JSON, JSONCodec)

	b.Functions().
		Register("substring", "substr(?1,?2,?3)").
		Register("locate", "instr(?2,?1)").
		Register("length", "length(?1)").
		Register("bitand", "bitand(?1,?2)")
}

// oracleDateTime ANSI literals, except times which Oracle only has as part
// of a date
func oracleDateTime(w Writer, t time.Time, precision sqltypes.TemporalType, withTimeZone bool) {
	if precision == sqltypes.TimeType {
		quoted(w, "to_date(", t.Format("15:04:05"), ",'hh24:mi:ss')")
		return
	}
	ansiDateTime(w, t, precision, withTimeZone)
}

func oracleNull(d *Dialect, code sqltypes.Code) string {
	switch {
	case code.IsCharacter():
		return "to_char(null)"
	case code.IsNumeric(), code == sqltypes.Boolean:
		return "to_number(null)"
	case code.IsTemporal():
		return "to_date(null)"
	}
	return "null"
}

type oracleTemporal struct{}

func (oracleTemporal) Extract(unit sqltypes.TemporalUnit) string {
	switch unit {
	case sqltypes.DayOfWeek:
		return "to_number(to_char(?2,'D'))"
	case sqltypes.DayOfMonth:
		return "to_number(to_char(?2,'DD'))"
	case sqltypes.DayOfYear:
		return "to_number(to_char(?2,'DDD'))"
	case sqltypes.Week:
		return "to_number(to_char(?2,'IW'))"
	case sqltypes.Quarter:
		return "to_number(to_char(?2,'Q'))"
	case sqltypes.Epoch:
		return "trunc((cast(?2 as date)-date '1970-01-01')*86400)"
	case sqltypes.Nanosecond, sqltypes.Native:
		return "extract(second from ?2)"
	}
	return "extract(?1 from ?2)"
}

func (oracleTemporal) TimestampAdd(unit sqltypes.TemporalUnit, temporalType sqltypes.TemporalType, nativeNanos int64) (string, bool) {
	switch unit {
	case sqltypes.Year:
		return "add_months(?3,12*(?2))", true
	case sqltypes.Quarter:
		return "add_months(?3,3*(?2))", true
	case sqltypes.Month:
		return "add_months(?3,?2)", true
	case sqltypes.Week:
		return "(?3+numtodsinterval(7*(?2),'day'))", true
	case sqltypes.Day, sqltypes.Hour, sqltypes.Minute, sqltypes.Second:
		return "(?3+numtodsinterval(?2,'?1'))", true
	case sqltypes.Nanosecond:
		return "(?3+numtodsinterval((?2)/1e9,'second'))", true
	case sqltypes.Native:
		return "(?3+numtodsinterval(?2,'second'))", true
	}
	return "", false
}

func (oracleTemporal) TimestampDiff(unit sqltypes.TemporalUnit, from, to sqltypes.TemporalType, nativeNanos int64) (string, bool) {
	switch unit {
	case sqltypes.Year:
		return "trunc(months_between(?3,?2)/12)", true
	case sqltypes.Quarter:
		return "trunc(months_between(?3,?2)/3)", true
	case sqltypes.Month:
		return "trunc(months_between(?3,?2))", true
	case sqltypes.DayOfWeek, sqltypes.DayOfMonth, sqltypes.DayOfYear, sqltypes.Epoch:
		return "", false
	}
	return "trunc((cast(?3 as date)-cast(?2 as date))" + sqltypes.Day.ConversionFactor(unit, nativeNanos) + ")", true
}
