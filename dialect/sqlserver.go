package dialect

import (
	"time"

	"gorm.io/sqldialect/sqltypes"
)

func configureSQLServer(b *Builder) {
	v := b.Version()

	b.ColumnType(sqltypes.Boolean, "bit").
		ColumnType(sqltypes.TinyInt, "smallint").
		ColumnType(sqltypes.Float, "float").
		ColumnType(sqltypes.Double, "float").
		ColumnType(sqltypes.Decimal, "numeric($p,$s)").
		ColumnType(sqltypes.Varchar, "varchar(max)").
		CapacityColumnType(sqltypes.Varchar, 8000, "varchar($l)").
		ColumnType(sqltypes.NVarchar, "nvarchar(max)").
		CapacityColumnType(sqltypes.NVarchar, 4000, "nvarchar($l)").
		ColumnType(sqltypes.LongVarchar, "varchar(max)").
		ColumnType(sqltypes.LongNVarchar, "nvarchar(max)").
		ColumnType(sqltypes.Clob, "varchar(max)").
		ColumnType(sqltypes.NClob, "nvarchar(max)").
		ColumnType(sqltypes.Varbinary, "varbinary(max)").
		CapacityColumnType(sqltypes.Varbinary, 8000, "varbinary($l)").
		ColumnType(sqltypes.LongVarbinary, "varbinary(max)").
		ColumnType(sqltypes.Blob, "varbinary(max)").
		ColumnType(sqltypes.Time, "time($p)").
		ColumnType(sqltypes.TimeWithTimeZone, "datetimeoffset($p)").
		ColumnType(sqltypes.TimeUTC, "datetimeoffset($p)").
		ColumnType(sqltypes.Timestamp, "datetime2($p)").
		ColumnType(sqltypes.TimestampWithTimeZone, "datetimeoffset($p)").
		ColumnType(sqltypes.TimestampUTC, "datetimeoffset($p)").
		ColumnType(sqltypes.UUID, "uniqueidentifier").
		ColumnType(sqltypes.Enum, "smallint")
	if v.IsSameOrAfter(13) {
		b.ColumnType(sqltypes.JSON, "nvarchar(max)")
	}

	b.CastType(sqltypes.Varchar, "varchar(max)").
		CastType(sqltypes.NVarchar, "nvarchar(max)").
		CastType(sqltypes.Varbinary, "varbinary(max)")

	b.Quotes('[', ']').
		MaxIdentifierLength(128).
		MaxVarcharLength(8000).
		NativePrecision(100)

	b.Template(CurrentTime, "convert(time,getdate())").
		Template(CurrentDate, "convert(date,getdate())").
		Template(CurrentTimestamp, "sysdatetime()").
		Template(CurrentTimestampWithTimeZone, "sysdatetimeoffset()").
		Template(CurrentTimestampSelect, "select current_timestamp").
		Template(CurrentSchemaCommand, "select schema_name()").
		Template(NoColumnsInsert, "default values").
		Template(IdentityColumn, "identity not null").
		Template(SequenceNextVal, "select next value for ?1")

	b.Enable(NoWaitLocks, SkipLockedLocks, IdentityColumns, WindowFunctions, Returning, Lateral).
		EnableIf(v.IsSameOrAfter(11), Sequences).
		EnableIf(v.IsSameOrAfter(13), JSONAggregates, IfExistsBeforeTableName)

	if v.IsSameOrAfter(11) {
		b.Limit(LimitStyle{Strategy: OffsetFetchClause, OrderBy: " order by @@version", AlwaysOffset: true})
	} else {
		b.Limit(LimitStyle{Strategy: TopClause})
	}
	b.Locking(LockStyle{Write: " with (updlock,holdlock,rowlock)", Hints: true}).
		Literals(LiteralStyle{Binary: hexBinary("0x", "", true), Boolean: numericBoolean, DateTime: sqlServerDateTime}).
		Temporal(sqlServerTemporal{big: v.IsSameOrAfter(13)}).
		Aggregate(sqltypes.JSON, JSONCodec)

	b.Functions().
		RegisterVarargs("concat", "(?*)", "+", 1).
		Register("length", "len(?1)").
		Register("locate", "charindex(?1,?2)").
		Register("mod", "(?1 % ?2)").
		Register("substring", "substring(?1,?2,?3)").
		Register("trim", "ltrim(rtrim(?1))").
		Register("bitand", "(?1&?2)")
}

func sqlServerDateTime(w Writer, t time.Time, precision sqltypes.TemporalType, withTimeZone bool) {
	text := temporalText(t, precision, withTimeZone)
	switch {
	case precision == sqltypes.DateType:
		quoted(w, "cast(", text, " as date)")
	case precision == sqltypes.TimeType && !withTimeZone:
		quoted(w, "cast(", text, " as time)")
	case withTimeZone:
		quoted(w, "cast(", text, " as datetimeoffset)")
	default:
		quoted(w, "cast(", text, " as datetime2)")
	}
}

type sqlServerTemporal struct {
	// big datediff_big is available
	big bool
}

func (sqlServerTemporal) Extract(unit sqltypes.TemporalUnit) string {
	switch unit {
	case sqltypes.DayOfWeek:
		return "datepart(weekday,?2)"
	case sqltypes.DayOfMonth:
		return "datepart(day,?2)"
	case sqltypes.DayOfYear:
		return "datepart(dayofyear,?2)"
	case sqltypes.Week:
		return "datepart(iso_week,?2)"
	case sqltypes.Epoch:
		return "datediff(second,'1970-01-01',?2)"
	case sqltypes.Native:
		return "(datepart(nanosecond,?2)/100)"
	}
	return "datepart(?1,?2)"
}

func (sqlServerTemporal) TimestampAdd(unit sqltypes.TemporalUnit, temporalType sqltypes.TemporalType, nativeNanos int64) (string, bool) {
	switch unit {
	case sqltypes.Native:
		return "dateadd(nanosecond,(?2)*100,?3)", true
	case sqltypes.DayOfWeek, sqltypes.DayOfMonth, sqltypes.DayOfYear, sqltypes.Epoch:
		return "", false
	}
	return "dateadd(?1,?2,?3)", true
}

func (t sqlServerTemporal) TimestampDiff(unit sqltypes.TemporalUnit, from, to sqltypes.TemporalType, nativeNanos int64) (string, bool) {
	fn := "datediff"
	if t.big {
		fn = "datediff_big"
	}
	switch unit {
	case sqltypes.Native:
		return fn + "(nanosecond,?2,?3)/100", true
	case sqltypes.DayOfWeek, sqltypes.DayOfMonth, sqltypes.DayOfYear, sqltypes.Epoch:
		return "", false
	}
	return fn + "(?1,?2,?3)", true
}
