package dialect

import "gorm.io/sqldialect/sqltypes"

func configureDB2(b *Builder) {
	v := b.Version()

	b.ColumnType(sqltypes.Boolean, "smallint").
		ColumnType(sqltypes.Bit, "smallint").
		ColumnType(sqltypes.TinyInt, "smallint").
		ColumnType(sqltypes.Float, "double").
		CapacityColumnType(sqltypes.Float, 24, "real").
		ColumnType(sqltypes.Double, "double").
		ColumnType(sqltypes.NChar, "graphic($l)").
		ColumnType(sqltypes.Varchar, "clob").
		CapacityColumnType(sqltypes.Varchar, 32672, "varchar($l)").
		ColumnType(sqltypes.NVarchar, "dbclob").
		CapacityColumnType(sqltypes.NVarchar, 16336, "vargraphic($l)").
		ColumnType(sqltypes.NClob, "dbclob").
		ColumnType(sqltypes.Binary, "blob").
		CapacityColumnType(sqltypes.Binary, 254, "binary($l)").
		ColumnType(sqltypes.Varbinary, "blob").
		CapacityColumnType(sqltypes.Varbinary, 32672, "varbinary($l)").
		ColumnType(sqltypes.TimeWithTimeZone, "time").
		ColumnType(sqltypes.TimeUTC, "time").
		ColumnType(sqltypes.Timestamp, "timestamp($p)").
		ColumnType(sqltypes.TimestampWithTimeZone, "timestamp($p)").
		ColumnType(sqltypes.TimestampUTC, "timestamp($p)").
		ColumnType(sqltypes.UUID, "binary(16)").
		ColumnType(sqltypes.Enum, "smallint").
		ColumnType(sqltypes.JSON, "blob")
	if v.IsSameOrAfter(11, 1) {
		b.ColumnType(sqltypes.Boolean, "boolean")
	}

	b.CastType(sqltypes.Varchar, "varchar($l)").
		CastType(sqltypes.Varbinary, "varbinary($l)")

	b.Folding(FoldUpper).
		MaxIdentifierLength(128).
		MaxVarcharLength(32672).
		NativePrecision(1000)

	b.Template(CurrentTimestampSelect, "values current timestamp").
		Template(CurrentSchemaCommand, "values current schema").
		Template(NoColumnsInsert, "values (default)").
		Template(IdentityColumn, "not null generated by default as identity").
		Template(SequenceNextVal, "values nextval for ?1")

	b.Enable(SkipLockedLocks, Sequences, IdentityColumns, WindowFunctions, CommentOn, JSONAggregates).
		EnableIf(v.IsSameOrAfter(11, 1), FetchWithTies)

	b.Limit(LimitStyle{Strategy: OffsetFetchClause}).
		Locking(LockStyle{
			Write:      " for read only with rs use and keep update locks",
			Read:       " for read only with rs use and keep share locks",
			SkipLocked: " skip locked data",
		}).
		Literals(LiteralStyle{Binary: hexBinary("BX'", "'", true), Boolean: db2Boolean(v.IsSameOrAfter(11, 1))}).
		Temporal(db2Temporal{}).
		SelectNull(castNull("cast(null as ", ")")).
		Aggregate(sqltypes.JSON, JSONCodec)

	b.Functions().
		Register("substring", "substr(?1,?2,?3)").
		Register("locate", "locate(?1,?2)").
		Register("length", "length(?1)").
		Register("bitand", "bitand(?1,?2)")
}

func db2Boolean(keywords bool) func(w Writer, v bool) {
	if keywords {
		return keywordBoolean
	}
	return numericBoolean
}

type db2Temporal struct{}

func (db2Temporal) Extract(unit sqltypes.TemporalUnit) string {
	switch unit {
	case sqltypes.DayOfWeek:
		return "dayofweek(?2)"
	case sqltypes.DayOfMonth:
		return "day(?2)"
	case sqltypes.DayOfYear:
		return "dayofyear(?2)"
	case sqltypes.Week:
		return "week_iso(?2)"
	case sqltypes.Quarter:
		return "quarter(?2)"
	case sqltypes.Epoch:
		return "((days(?2)-days('1970-01-01'))*86400+midnight_seconds(?2))"
	case sqltypes.Native:
		return "microsecond(?2)"
	case sqltypes.Nanosecond:
		return "(microsecond(?2)*1000)"
	}
	return "extract(?1 from ?2)"
}

func (db2Temporal) TimestampAdd(unit sqltypes.TemporalUnit, temporalType sqltypes.TemporalType, nativeNanos int64) (string, bool) {
	switch unit {
	case sqltypes.Quarter:
		return "(?3+3*(?2) months)", true
	case sqltypes.Week:
		return "(?3+7*(?2) days)", true
	case sqltypes.Nanosecond:
		return "(?3+(?2)/1000 microseconds)", true
	case sqltypes.Native:
		return "(?3+(?2) microseconds)", true
	case sqltypes.DayOfWeek, sqltypes.DayOfMonth, sqltypes.DayOfYear, sqltypes.Epoch:
		return "", false
	}
	return "(?3+(?2) ?1s)", true
}

func (db2Temporal) TimestampDiff(unit sqltypes.TemporalUnit, from, to sqltypes.TemporalType, nativeNanos int64) (string, bool) {
	switch unit {
	case sqltypes.Year:
		return "trunc(months_between(?3,?2)/12)", true
	case sqltypes.Quarter:
		return "trunc(months_between(?3,?2)/3)", true
	case sqltypes.Month:
		return "trunc(months_between(?3,?2))", true
	case sqltypes.Week:
		return "((days(?3)-days(?2))/7)", true
	case sqltypes.Day:
		return "(days(?3)-days(?2))", true
	case sqltypes.DayOfWeek, sqltypes.DayOfMonth, sqltypes.DayOfYear, sqltypes.Epoch:
		return "", false
	}
	return "(seconds_between(?3,?2)" + sqltypes.Second.ConversionFactor(unit, nativeNanos) + ")", true
}
