package dialect

import (
	"time"

	"gorm.io/sqldialect/sqltypes"
)

func configureSpanner(b *Builder) {
	b.ColumnType(sqltypes.Boolean, "bool").
		ColumnType(sqltypes.Bit, "bool").
		ColumnType(sqltypes.TinyInt, "int64").
		ColumnType(sqltypes.SmallInt, "int64").
		ColumnType(sqltypes.Integer, "int64").
		ColumnType(sqltypes.BigInt, "int64").
		ColumnType(sqltypes.Float, "float64").
		ColumnType(sqltypes.Real, "float64").
		ColumnType(sqltypes.Double, "float64").
		ColumnType(sqltypes.Decimal, "numeric").
		ColumnType(sqltypes.Numeric, "numeric").
		ColumnType(sqltypes.Char, "string($l)").
		ColumnType(sqltypes.NChar, "string($l)").
		ColumnType(sqltypes.Varchar, "string($l)").
		ColumnType(sqltypes.NVarchar, "string($l)").
		ColumnType(sqltypes.LongVarchar, "string(max)").
		ColumnType(sqltypes.LongNVarchar, "string(max)").
		ColumnType(sqltypes.Clob, "string(max)").
		ColumnType(sqltypes.NClob, "string(max)").
		ColumnType(sqltypes.Binary, "bytes($l)").
		ColumnType(sqltypes.Varbinary, "bytes($l)").
		ColumnType(sqltypes.LongVarbinary, "bytes(max)").
		ColumnType(sqltypes.Blob, "bytes(max)").
		ColumnType(sqltypes.Time, "timestamp").
		ColumnType(sqltypes.TimeWithTimeZone, "timestamp").
		ColumnType(sqltypes.TimeUTC, "timestamp").
		ColumnType(sqltypes.Timestamp, "timestamp").
		ColumnType(sqltypes.TimestampWithTimeZone, "timestamp").
		ColumnType(sqltypes.TimestampUTC, "timestamp").
		ColumnType(sqltypes.UUID, "string(36)").
		ColumnType(sqltypes.Enum, "int64").
		ColumnType(sqltypes.NamedEnum, "string($l)").
		ColumnType(sqltypes.JSON, "json")

	b.Quotes('`', '`').
		MaxIdentifierLength(128).
		MaxVarcharLength(2621440).
		NativePrecision(1000)

	b.Template(CurrentTimestampSelect, "select current_timestamp()").
		Template(CurrentTimestamp, "current_timestamp()").
		Template(CurrentTimestampWithTimeZone, "current_timestamp()").
		Template(CurrentDate, "current_date()").
		Template(SequenceNextVal, "select get_next_sequence_value(sequence ?1)")

	b.Enable(Sequences, WindowFunctions, Returning, JSONAggregates)

	b.Limit(LimitStyle{Strategy: LimitOffsetClause, Unbounded: "9223372036854775807"}).
		Locking(LockStyle{}).
		Literals(LiteralStyle{Binary: base64Binary, Boolean: keywordBoolean, DateTime: spannerDateTime}).
		Temporal(spannerTemporal{}).
		Aggregate(sqltypes.JSON, JSONCodec)

	b.Functions().
		Register("locate", "strpos(?2,?1)").
		Register("length", "char_length(?1)").
		Register("substring", "substr(?1,?2,?3)").
		RegisterVarargs("concat", "concat(?*)", ",", 1).
		Register("bitand", "(?1&?2)")
}

// spannerDateTime dates are dates, everything else is a timestamp literal
// carrying its offset
func spannerDateTime(w Writer, t time.Time, precision sqltypes.TemporalType, withTimeZone bool) {
	if precision == sqltypes.DateType {
		quoted(w, "date ", t.Format(dateLayout), "")
		return
	}
	quoted(w, "timestamp ", t.Format(timestampLayout+offsetLayout), "")
}

type spannerTemporal struct{}

func (spannerTemporal) Extract(unit sqltypes.TemporalUnit) string {
	switch unit {
	case sqltypes.DayOfWeek:
		return "extract(dayofweek from ?2)"
	case sqltypes.DayOfMonth:
		return "extract(day from ?2)"
	case sqltypes.DayOfYear:
		return "extract(dayofyear from ?2)"
	case sqltypes.Week:
		return "extract(isoweek from ?2)"
	case sqltypes.Epoch:
		return "unix_seconds(?2)"
	case sqltypes.Native:
		return "extract(microsecond from ?2)"
	}
	return "extract(?1 from ?2)"
}

func (spannerTemporal) TimestampAdd(unit sqltypes.TemporalUnit, temporalType sqltypes.TemporalType, nativeNanos int64) (string, bool) {
	if temporalType == sqltypes.DateType {
		switch unit {
		case sqltypes.Year, sqltypes.Quarter, sqltypes.Month, sqltypes.Week, sqltypes.Day:
			return "date_add(?3,interval ?2 ?1)", true
		}
		return "", false
	}
	switch unit {
	case sqltypes.Week:
		return "timestamp_add(?3,interval 7*(?2) day)", true
	case sqltypes.Day, sqltypes.Hour, sqltypes.Minute, sqltypes.Second, sqltypes.Nanosecond:
		return "timestamp_add(?3,interval ?2 ?1)", true
	case sqltypes.Native:
		return "timestamp_add(?3,interval ?2 microsecond)", true
	}
	return "", false
}

func (spannerTemporal) TimestampDiff(unit sqltypes.TemporalUnit, from, to sqltypes.TemporalType, nativeNanos int64) (string, bool) {
	if from == sqltypes.DateType && to == sqltypes.DateType {
		switch unit {
		case sqltypes.Year, sqltypes.Quarter, sqltypes.Month, sqltypes.Week, sqltypes.Day:
			return "date_diff(?3,?2,?1)", true
		}
		return "", false
	}
	switch unit {
	case sqltypes.Week:
		return "(timestamp_diff(?3,?2,day)/7)", true
	case sqltypes.Day, sqltypes.Hour, sqltypes.Minute, sqltypes.Second, sqltypes.Nanosecond:
		return "timestamp_diff(?3,?2,?1)", true
	case sqltypes.Native:
		return "timestamp_diff(?3,?2,microsecond)", true
	}
	return "", false
}
