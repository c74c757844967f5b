package dialect

import "gorm.io/sqldialect/sqltypes"

func configureHANA(b *Builder) {
	b.ColumnType(sqltypes.Float, "double").
		CapacityColumnType(sqltypes.Float, 24, "real").
		ColumnType(sqltypes.Double, "double").
		ColumnType(sqltypes.Char, "nvarchar($l)").
		ColumnType(sqltypes.NChar, "nvarchar($l)").
		ColumnType(sqltypes.Varchar, "nclob").
		CapacityColumnType(sqltypes.Varchar, 5000, "nvarchar($l)").
		ColumnType(sqltypes.NVarchar, "nclob").
		CapacityColumnType(sqltypes.NVarchar, 5000, "nvarchar($l)").
		ColumnType(sqltypes.LongVarchar, "nclob").
		ColumnType(sqltypes.LongNVarchar, "nclob").
		ColumnType(sqltypes.Clob, "nclob").
		ColumnType(sqltypes.Varbinary, "blob").
		CapacityColumnType(sqltypes.Varbinary, 5000, "varbinary($l)").
		ColumnType(sqltypes.TimeWithTimeZone, "time").
		ColumnType(sqltypes.TimeUTC, "time").
		ColumnType(sqltypes.Timestamp, "timestamp").
		ColumnType(sqltypes.TimestampWithTimeZone, "timestamp").
		ColumnType(sqltypes.TimestampUTC, "timestamp").
		ColumnType(sqltypes.UUID, "varbinary(16)").
		ColumnType(sqltypes.JSON, "nclob").
		CastType(sqltypes.Varchar, "nvarchar($l)").
		CastType(sqltypes.NVarchar, "nvarchar($l)")

	b.Keywords(hanaKeywords...).
		Folding(FoldUpper).
		MaxIdentifierLength(127).
		MaxVarcharLength(5000).
		NativePrecision(1e9)

	b.Template(CurrentTimestampSelect, "select current_timestamp from sys.dummy").
		Template(CurrentSchemaCommand, "select current_schema from sys.dummy").
		Template(CascadeConstraints, " cascade").
		Template(NoColumnsInsert, "values (null)").
		Template(IdentityColumn, "generated by default as identity").
		Template(SequenceNextVal, "select ?1.nextval from sys.dummy")

	b.Enable(NoWaitLocks, WaitLocks, AliasLocks, Sequences, IdentityColumns, WindowFunctions, JSONAggregates, CommentOn).
		EnableIf(b.Version().IsSameOrAfter(2, 0, 30), SkipLockedLocks)
	if b.Version().IsSameOrAfter(4) {
		b.Keywords(hanaCloudKeywords...)
	}

	b.Limit(LimitStyle{Strategy: LimitOffsetClause, Unbounded: "2147483647"}).
		Locking(LockStyle{Write: " for update", Read: " for share lock"}).
		Literals(LiteralStyle{Binary: hexBinary("X'", "'", true), Boolean: keywordBoolean, DateTime: utcDateTime}).
		Temporal(hanaTemporal{}).
		Aggregate(sqltypes.JSON, JSONCodec)

	b.Functions().
		Register("substring", "substring(?1,?2,?3)").
		Register("locate", "locate(?2,?1)").
		Register("length", "length(?1)").
		Register("bitand", "bitand(?1,?2)")
}

// DefaultLobPrefetchSize HANA max_lob_prefetch_size default, in bytes
const DefaultLobPrefetchSize = 1024

// InlineLob reports whether a lob of n bytes fits the lob prefetch and is
// read with its row instead of through a locator
func (d *Dialect) InlineLob(n int64) bool {
	size := d.info.LobPrefetchSize
	if size <= 0 {
		size = DefaultLobPrefetchSize
	}
	return n < int64(size)
}

type hanaTemporal struct{}

func (hanaTemporal) Extract(unit sqltypes.TemporalUnit) string {
	switch unit {
	case sqltypes.DayOfWeek:
		return "(mod(weekday(?2)+1,7)+1)"
	case sqltypes.DayOfMonth:
		return "dayofmonth(?2)"
	case sqltypes.DayOfYear:
		return "dayofyear(?2)"
	case sqltypes.Week:
		return "isoweek(?2)"
	case sqltypes.Quarter:
		return "quarter(?2)"
	case sqltypes.Epoch:
		return "seconds_between('1970-01-01',?2)"
	case sqltypes.Nanosecond, sqltypes.Native:
		return "extract(second from ?2)"
	}
	return "extract(?1 from ?2)"
}

func (hanaTemporal) TimestampAdd(unit sqltypes.TemporalUnit, temporalType sqltypes.TemporalType, nativeNanos int64) (string, bool) {
	switch unit {
	case sqltypes.Year:
		return "add_years(?3,?2)", true
	case sqltypes.Quarter:
		return "add_months(?3,3*(?2))", true
	case sqltypes.Month:
		return "add_months(?3,?2)", true
	case sqltypes.Week:
		return "add_days(?3,7*(?2))", true
	case sqltypes.Day:
		return "add_days(?3,?2)", true
	case sqltypes.Hour:
		return "add_seconds(?3,3600*(?2))", true
	case sqltypes.Minute:
		return "add_seconds(?3,60*(?2))", true
	case sqltypes.Second, sqltypes.Native:
		return "add_seconds(?3,?2)", true
	case sqltypes.Nanosecond:
		return "add_nano100(?3,(?2)/100)", true
	}
	return "", false
}

func (hanaTemporal) TimestampDiff(unit sqltypes.TemporalUnit, from, to sqltypes.TemporalType, nativeNanos int64) (string, bool) {
	switch unit {
	case sqltypes.Year:
		return "years_between(?2,?3)", true
	case sqltypes.Quarter:
		return "(months_between(?2,?3)/3)", true
	case sqltypes.Month:
		return "months_between(?2,?3)", true
	case sqltypes.Week:
		return "(days_between(?2,?3)/7)", true
	case sqltypes.Day:
		return "days_between(?2,?3)", true
	case sqltypes.Nanosecond:
		return "(nano100_between(?2,?3)*100)", true
	case sqltypes.DayOfWeek, sqltypes.DayOfMonth, sqltypes.DayOfYear, sqltypes.Epoch:
		return "", false
	}
	return "(seconds_between(?2,?3)" + sqltypes.Second.ConversionFactor(unit, nativeNanos) + ")", true
}
