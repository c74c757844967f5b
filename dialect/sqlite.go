package dialect

import "gorm.io/sqldialect/sqltypes"

func configureSQLite(b *Builder) {
	v := b.Version()

	b.ColumnType(sqltypes.Boolean, "integer").
		ColumnType(sqltypes.Bit, "integer").
		ColumnType(sqltypes.TinyInt, "integer").
		ColumnType(sqltypes.SmallInt, "integer").
		ColumnType(sqltypes.BigInt, "integer").
		ColumnType(sqltypes.Float, "real").
		ColumnType(sqltypes.Double, "real").
		ColumnType(sqltypes.Decimal, "numeric").
		ColumnType(sqltypes.Numeric, "numeric").
		ColumnType(sqltypes.Char, "text").
		ColumnType(sqltypes.NChar, "text").
		ColumnType(sqltypes.Varchar, "text").
		ColumnType(sqltypes.NVarchar, "text").
		ColumnType(sqltypes.LongVarchar, "text").
		ColumnType(sqltypes.LongNVarchar, "text").
		ColumnType(sqltypes.Clob, "text").
		ColumnType(sqltypes.NClob, "text").
		ColumnType(sqltypes.Binary, "blob").
		ColumnType(sqltypes.Varbinary, "blob").
		ColumnType(sqltypes.Date, "date").
		ColumnType(sqltypes.Time, "time").
		ColumnType(sqltypes.TimeWithTimeZone, "time").
		ColumnType(sqltypes.TimeUTC, "time").
		ColumnType(sqltypes.Timestamp, "datetime").
		ColumnType(sqltypes.TimestampWithTimeZone, "datetime").
		ColumnType(sqltypes.TimestampUTC, "datetime").
		ColumnType(sqltypes.UUID, "blob").
		ColumnType(sqltypes.Enum, "integer").
		ColumnType(sqltypes.NamedEnum, "text").
		ColumnType(sqltypes.JSON, "text")

	b.MaxIdentifierLength(0).
		MaxVarcharLength(1000000000).
		NativePrecision(1e9)

	b.Template(CurrentDate, "date('now')").
		Template(CurrentTime, "time('now')").
		Template(CurrentTimestamp, "datetime('now')").
		Template(CurrentTimestampWithTimeZone, "datetime('now')").
		Template(CurrentTimestampSelect, "select datetime('now')").
		Template(NoColumnsInsert, "default values").
		Template(IdentityColumn, "integer")

	b.Enable(IdentityColumns, IfExistsBeforeTableName).
		EnableIf(v.IsSameOrAfter(3, 25), WindowFunctions).
		EnableIf(v.IsSameOrAfter(3, 35), Returning).
		EnableIf(v.IsSameOrAfter(3, 38), JSONAggregates)

	b.Limit(LimitStyle{Strategy: LimitOffsetClause, Unbounded: "-1"}).
		Locking(LockStyle{}).
		Literals(LiteralStyle{Binary: hexBinary("X'", "'", true), Boolean: numericBoolean, DateTime: plainDateTime}).
		Temporal(sqliteTemporal{}).
		Aggregate(sqltypes.JSON, JSONCodec)

	b.Functions().
		Register("substring", "substr(?1,?2,?3)").
		Register("locate", "instr(?2,?1)").
		Register("length", "length(?1)").
		Register("mod", "(?1 % ?2)").
		Register("bitand", "(?1&?2)")
}

var sqliteFormats = map[sqltypes.TemporalUnit]string{
	sqltypes.Year:       "cast(strftime('%Y',?2) as integer)",
	sqltypes.Quarter:    "((cast(strftime('%m',?2) as integer)+2)/3)",
	sqltypes.Month:      "cast(strftime('%m',?2) as integer)",
	sqltypes.Week:       "cast(strftime('%W',?2) as integer)",
	sqltypes.Day:        "cast(strftime('%d',?2) as integer)",
	sqltypes.Hour:       "cast(strftime('%H',?2) as integer)",
	sqltypes.Minute:     "cast(strftime('%M',?2) as integer)",
	sqltypes.Second:     "cast(strftime('%f',?2) as real)",
	sqltypes.Nanosecond: "(cast(strftime('%f',?2) as real)*1e9)",
	sqltypes.Native:     "cast(strftime('%f',?2) as real)",
	sqltypes.DayOfWeek:  "(cast(strftime('%w',?2) as integer)+1)",
	sqltypes.DayOfMonth: "cast(strftime('%d',?2) as integer)",
	sqltypes.DayOfYear:  "cast(strftime('%j',?2) as integer)",
	sqltypes.Epoch:      "cast(strftime('%s',?2) as integer)",
}

type sqliteTemporal struct{}

func (sqliteTemporal) Extract(unit sqltypes.TemporalUnit) string {
	if pattern, ok := sqliteFormats[unit]; ok {
		return pattern
	}
	return "extract(?1 from ?2)"
}

func (sqliteTemporal) TimestampAdd(unit sqltypes.TemporalUnit, temporalType sqltypes.TemporalType, nativeNanos int64) (string, bool) {
	fn := "datetime"
	if temporalType == sqltypes.DateType {
		fn = "date"
	}
	switch unit {
	case sqltypes.Quarter:
		return fn + "(?3,(3*(?2))||' months')", true
	case sqltypes.Week:
		return fn + "(?3,(7*(?2))||' days')", true
	case sqltypes.Nanosecond:
		return fn + "(?3,((?2)/1e9)||' seconds')", true
	case sqltypes.Native:
		return fn + "(?3,(?2)||' seconds')", true
	case sqltypes.DayOfWeek, sqltypes.DayOfMonth, sqltypes.DayOfYear, sqltypes.Epoch:
		return "", false
	}
	return fn + "(?3,(?2)||' ?1s')", true
}

func (sqliteTemporal) TimestampDiff(unit sqltypes.TemporalUnit, from, to sqltypes.TemporalType, nativeNanos int64) (string, bool) {
	switch unit {
	case sqltypes.Year:
		return "(strftime('%Y',?3)-strftime('%Y',?2))", true
	case sqltypes.Quarter:
		return "(((strftime('%Y',?3)-strftime('%Y',?2))*12+(strftime('%m',?3)-strftime('%m',?2)))/3)", true
	case sqltypes.Month:
		return "((strftime('%Y',?3)-strftime('%Y',?2))*12+(strftime('%m',?3)-strftime('%m',?2)))", true
	case sqltypes.DayOfWeek, sqltypes.DayOfMonth, sqltypes.DayOfYear, sqltypes.Epoch:
		return "", false
	}
	return "((julianday(?3)-julianday(?2))" + sqltypes.Day.ConversionFactor(unit, nativeNanos) + ")", true
}
