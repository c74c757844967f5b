package dialect

import "gorm.io/sqldialect/sqltypes"

func configureH2(b *Builder) {
	v := b.Version()

	b.ColumnType(sqltypes.Float, "float($p)").
		ColumnType(sqltypes.Varchar, "varchar($l)").
		ColumnType(sqltypes.NVarchar, "varchar($l)").
		ColumnType(sqltypes.NChar, "char($l)").
		ColumnType(sqltypes.LongVarchar, "character large object").
		ColumnType(sqltypes.Clob, "character large object").
		ColumnType(sqltypes.NClob, "character large object").
		ColumnType(sqltypes.Binary, "binary($l)").
		ColumnType(sqltypes.LongVarbinary, "binary large object").
		ColumnType(sqltypes.Blob, "binary large object").
		ColumnType(sqltypes.UUID, "uuid").
		ColumnType(sqltypes.Interval, "interval second($p,9)").
		ColumnType(sqltypes.JSON, "json")
	if v.IsSameOrAfter(2) {
		b.ColumnType(sqltypes.Time, "time($p)").
			ColumnType(sqltypes.TimeWithTimeZone, "time($p) with time zone")
	}

	b.Folding(FoldUpper).
		MaxIdentifierLength(256).
		MaxVarcharLength(1048576).
		NativePrecision(1)

	b.Template(CurrentTimestampSelect, "call current_timestamp").
		Template(CurrentSchemaCommand, "call schema()").
		Template(CascadeConstraints, " cascade").
		Template(NoColumnsInsert, "default values").
		Template(CaseInsensitiveLike, "ilike").
		Template(IdentityColumn, "generated by default as identity").
		Template(SequenceNextVal, "call next value for ?1")

	b.Enable(Sequences, IdentityColumns, WindowFunctions, IfExistsBeforeTableName, CommentOn, JSONAggregates).
		EnableIf(v.IsSameOrAfter(2), FetchWithTies, NoWaitLocks, SkipLockedLocks, WaitLocks)

	b.Limit(LimitStyle{Strategy: OffsetFetchClause}).
		Locking(LockStyle{Write: " for update"}).
		Temporal(h2Temporal{}).
		Aggregate(sqltypes.JSON, JSONCodec)

	b.Functions().
		Register("locate", "locate(?1,?2)").
		Register("bitand", "bitand(?1,?2)")
}

type h2Temporal struct{}

func (h2Temporal) Extract(unit sqltypes.TemporalUnit) string {
	switch unit {
	case sqltypes.DayOfWeek:
		return "day_of_week(?2)"
	case sqltypes.DayOfMonth:
		return "day_of_month(?2)"
	case sqltypes.DayOfYear:
		return "day_of_year(?2)"
	case sqltypes.Week:
		return "iso_week(?2)"
	case sqltypes.Native:
		return "extract(nanosecond from ?2)"
	}
	return "extract(?1 from ?2)"
}

func (h2Temporal) TimestampAdd(unit sqltypes.TemporalUnit, temporalType sqltypes.TemporalType, nativeNanos int64) (string, bool) {
	switch unit {
	case sqltypes.Native:
		return "dateadd(nanosecond,?2,?3)", true
	case sqltypes.DayOfWeek, sqltypes.DayOfMonth, sqltypes.DayOfYear, sqltypes.Epoch:
		return "", false
	}
	return "dateadd(?1,?2,?3)", true
}

func (h2Temporal) TimestampDiff(unit sqltypes.TemporalUnit, from, to sqltypes.TemporalType, nativeNanos int64) (string, bool) {
	switch unit {
	case sqltypes.Native:
		return "datediff(nanosecond,?2,?3)", true
	case sqltypes.DayOfWeek, sqltypes.DayOfMonth, sqltypes.DayOfYear, sqltypes.Epoch:
		return "", false
	}
	return "datediff(?1,?2,?3)", true
}
