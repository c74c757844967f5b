package dialect

import (
	"gorm.io/sqldialect/sqltypes"
)

func configurePostgreSQL(b *Builder) {
	v := b.Version()

	b.ColumnType(sqltypes.TinyInt, "smallint").
		ColumnType(sqltypes.Float, "float8").
		CapacityColumnType(sqltypes.Float, 24, "float4").
		ColumnType(sqltypes.Real, "float4").
		ColumnType(sqltypes.Double, "float8").
		ColumnType(sqltypes.NChar, "char($l)").
		ColumnType(sqltypes.Varchar, "text").
		CapacityColumnType(sqltypes.Varchar, 10485760, "varchar($l)").
		ColumnType(sqltypes.NVarchar, "text").
		CapacityColumnType(sqltypes.NVarchar, 10485760, "varchar($l)").
		ColumnType(sqltypes.LongVarchar, "text").
		ColumnType(sqltypes.LongNVarchar, "text").
		ColumnType(sqltypes.Clob, "oid").
		ColumnType(sqltypes.NClob, "oid").
		ColumnType(sqltypes.Blob, "oid").
		ColumnType(sqltypes.Binary, "bytea").
		ColumnType(sqltypes.Varbinary, "bytea").
		ColumnType(sqltypes.LongVarbinary, "bytea").
		ColumnType(sqltypes.Time, "time($p)").
		ColumnType(sqltypes.TimeWithTimeZone, "time($p) with time zone").
		ColumnType(sqltypes.TimeUTC, "time($p) with time zone").
		ColumnType(sqltypes.Interval, "interval second($p)").
		ColumnType(sqltypes.UUID, "uuid").
		ColumnType(sqltypes.Enum, "smallint")
	if v.IsSameOrAfter(9, 4) {
		b.ColumnType(sqltypes.JSON, "jsonb")
	} else {
		b.ColumnType(sqltypes.JSON, "json")
	}

	for _, code := range []sqltypes.Code{sqltypes.Char, sqltypes.NChar, sqltypes.Varchar, sqltypes.NVarchar, sqltypes.LongVarchar, sqltypes.LongNVarchar, sqltypes.Clob, sqltypes.NClob} {
		b.CastType(code, "text")
	}
	for _, code := range []sqltypes.Code{sqltypes.Binary, sqltypes.Varbinary, sqltypes.LongVarbinary, sqltypes.Blob} {
		b.CastType(code, "bytea")
	}

	b.Folding(FoldLower).
		MaxIdentifierLength(63).
		MaxVarcharLength(10485760).
		NativePrecision(1e9)

	b.Template(CurrentTime, "localtime").
		Template(CurrentTimestamp, "localtimestamp").
		Template(CurrentTimestampWithTimeZone, "current_timestamp").
		Template(CurrentTimestampSelect, "select now()").
		Template(CurrentSchemaCommand, "select current_schema()").
		Template(CascadeConstraints, " cascade").
		Template(NoColumnsInsert, "default values").
		Template(CaseInsensitiveLike, "ilike").
		Template(IdentityColumn, "generated by default as identity").
		Template(SequenceNextVal, "select nextval('?1')")

	b.Enable(ForShare, AliasLocks, StructAggregates, Sequences, Returning, WindowFunctions, IfExistsBeforeTableName, CommentOn).
		EnableIf(v.IsSameOrAfter(8, 1), NoWaitLocks).
		EnableIf(v.IsSameOrAfter(9, 3), Lateral).
		EnableIf(v.IsSameOrAfter(9, 4), JSONAggregates).
		EnableIf(v.IsSameOrAfter(9, 5), SkipLockedLocks).
		EnableIf(v.IsSameOrAfter(10), IdentityColumns).
		EnableIf(v.IsSameOrAfter(13), FetchWithTies)

	if v.IsSameOrAfter(8, 4) {
		b.Limit(LimitStyle{Strategy: OffsetFetchClause})
	} else {
		b.Limit(LimitStyle{Strategy: LimitOffsetClause})
	}
	b.Locking(LockStyle{Write: " for update", Read: " for share"}).
		Literals(LiteralStyle{Binary: hexBinary(`bytea '\x`, "'", false), Boolean: keywordBoolean, DateTime: ansiDateTime}).
		Temporal(postgresTemporal{}).
		SelectNull(castNull("null::", "")).
		Aggregate(sqltypes.Struct, StructCodec).
		Aggregate(sqltypes.JSON, JSONCodec)

	b.Functions().
		Register("substring", "substr(?1,?2,?3)").
		Register("locate", "strpos(?2,?1)").
		Register("length", "length(?1)").
		Register("bitand", "(?1&?2)").
		RegisterVarargs("concat", "concat(?*)", ",", 1)
}

// castNull typed null written around the cast type of the code, e.g.
// null::text
func castNull(prefix, suffix string) func(d *Dialect, code sqltypes.Code) string {
	return func(d *Dialect, code sqltypes.Code) string {
		castType, ok := d.CastType(code)
		if !ok {
			return "null"
		}
		return prefix + castType + suffix
	}
}

type postgresTemporal struct{}

func (postgresTemporal) Extract(unit sqltypes.TemporalUnit) string {
	switch unit {
	case sqltypes.DayOfWeek:
		return "(extract(dow from ?2)+1)"
	case sqltypes.DayOfMonth:
		return "extract(day from ?2)"
	case sqltypes.DayOfYear:
		return "extract(doy from ?2)"
	case sqltypes.Nanosecond:
		return "(extract(microseconds from ?2)*1e3)"
	case sqltypes.Native:
		return "extract(second from ?2)"
	}
	return "extract(?1 from ?2)"
}

func (postgresTemporal) TimestampAdd(unit sqltypes.TemporalUnit, temporalType sqltypes.TemporalType, nativeNanos int64) (string, bool) {
	var pattern string
	switch unit {
	case sqltypes.Nanosecond:
		pattern = "(?3+(?2)/1e3*interval '1 microsecond')"
	case sqltypes.Native:
		pattern = "(?3+(?2)*interval '1 second')"
	case sqltypes.Quarter:
		pattern = "(?3+(?2)*interval '3 month')"
	case sqltypes.Week:
		pattern = "(?3+(?2)*interval '7 day')"
	case sqltypes.DayOfWeek, sqltypes.DayOfMonth, sqltypes.DayOfYear, sqltypes.Epoch:
		return "", false
	default:
		pattern = "(?3+(?2)*interval '1 ?1')"
	}
	if temporalType == sqltypes.DateType && unit.IsDateUnit() {
		return "cast(" + pattern + " as date)", true
	}
	return pattern, true
}

func (postgresTemporal) TimestampDiff(unit sqltypes.TemporalUnit, from, to sqltypes.TemporalType, nativeNanos int64) (string, bool) {
	switch unit {
	case sqltypes.Year:
		return "extract(year from age(?3,?2))", true
	case sqltypes.Quarter:
		return "(extract(year from age(?3,?2))*4+trunc(extract(month from age(?3,?2))/3))", true
	case sqltypes.Month:
		return "(extract(year from age(?3,?2))*12+extract(month from age(?3,?2)))", true
	case sqltypes.DayOfWeek, sqltypes.DayOfMonth, sqltypes.DayOfYear, sqltypes.Epoch:
		return "", false
	}
	if from == sqltypes.DateType && to == sqltypes.DateType {
		return "(?3-?2)" + sqltypes.Day.ConversionFactor(unit, nativeNanos), true
	}
	return "extract(epoch from ?3-?2)" + sqltypes.Second.ConversionFactor(unit, nativeNanos), true
}
