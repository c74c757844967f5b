package dialect

import "gorm.io/sqldialect/sqltypes"

const mysqlMaxVarbinaryLength = 65535

func configureMySQL(b *Builder) {
	v := b.Version()
	info := b.Info()
	maxVarchar := mysqlMaxVarbinaryLength / info.BytesPerCharacter

	b.ColumnType(sqltypes.Boolean, "bit").
		ColumnType(sqltypes.Float, "float").
		ColumnType(sqltypes.Real, "real").
		ColumnType(sqltypes.Double, "double precision").
		ColumnType(sqltypes.NChar, "char($l) character set utf8").
		ColumnType(sqltypes.Varchar, "longtext").
		CapacityColumnType(sqltypes.Varchar, int64(maxVarchar), "varchar($l)").
		CapacityColumnType(sqltypes.Varchar, 65535, "text").
		CapacityColumnType(sqltypes.Varchar, 16777215, "mediumtext").
		ColumnType(sqltypes.NVarchar, "longtext character set utf8").
		CapacityColumnType(sqltypes.NVarchar, int64(maxVarchar), "varchar($l) character set utf8").
		ColumnType(sqltypes.LongVarchar, "longtext").
		ColumnType(sqltypes.LongNVarchar, "longtext character set utf8").
		ColumnType(sqltypes.Clob, "longtext").
		ColumnType(sqltypes.NClob, "longtext character set utf8").
		ColumnType(sqltypes.Varbinary, "longblob").
		CapacityColumnType(sqltypes.Varbinary, mysqlMaxVarbinaryLength, "varbinary($l)").
		CapacityColumnType(sqltypes.Varbinary, 16777215, "mediumblob").
		ColumnType(sqltypes.LongVarbinary, "longblob").
		ColumnType(sqltypes.Blob, "longblob").
		ColumnType(sqltypes.Time, "time($p)").
		ColumnType(sqltypes.TimeWithTimeZone, "time($p)").
		ColumnType(sqltypes.TimeUTC, "time($p)").
		ColumnType(sqltypes.Timestamp, "datetime($p)").
		ColumnType(sqltypes.TimestampWithTimeZone, "timestamp($p)").
		ColumnType(sqltypes.TimestampUTC, "timestamp($p)").
		ColumnType(sqltypes.UUID, "binary(16)").
		ColumnType(sqltypes.JSON, "json")

	for _, code := range []sqltypes.Code{sqltypes.TinyInt, sqltypes.SmallInt, sqltypes.Integer, sqltypes.BigInt, sqltypes.Boolean, sqltypes.Bit} {
		b.CastType(code, "signed")
	}
	for _, code := range []sqltypes.Code{sqltypes.Char, sqltypes.NChar, sqltypes.Varchar, sqltypes.NVarchar, sqltypes.LongVarchar, sqltypes.LongNVarchar, sqltypes.Clob, sqltypes.NClob} {
		b.CastType(code, "char")
	}
	for _, code := range []sqltypes.Code{sqltypes.Binary, sqltypes.Varbinary, sqltypes.LongVarbinary, sqltypes.Blob} {
		b.CastType(code, "binary")
	}
	floatCast := "decimal($p,$s)"
	if v.IsSameOrAfter(8, 0, 17) {
		floatCast = "double"
	}
	b.CastType(sqltypes.Float, floatCast).
		CastType(sqltypes.Real, floatCast).
		CastType(sqltypes.Double, floatCast).
		CastType(sqltypes.Timestamp, "datetime($p)")

	b.Quotes('`', '`').
		Keywords("key").
		MaxIdentifierLength(64).
		MaxVarcharLength(maxVarchar).
		NativePrecision(1000)

	b.Template(CurrentTimestamp, "current_timestamp(6)").
		Template(CurrentTimestampWithTimeZone, "current_timestamp(6)").
		Template(CurrentTimestampSelect, "select now()").
		Template(CurrentSchemaCommand, "select database()").
		Template(NoColumnsInsert, "values ( )").
		Template(IdentityColumn, "not null auto_increment")

	b.Enable(IdentityColumns, JSONAggregates, WindowFunctions, IfExistsBeforeTableName).
		EnableIf(v.IsSameOrAfter(8), NoWaitLocks, SkipLockedLocks, AliasLocks, ForShare, Lateral)

	locks := LockStyle{Write: " for update", Read: " lock in share mode"}
	if v.IsSameOrAfter(8) {
		locks.Read = " for share"
	}
	b.Locking(locks).
		Limit(LimitStyle{Strategy: LimitOffsetClause, Unbounded: "18446744073709551615"}).
		Literals(LiteralStyle{EscapeBackslash: !info.NoBackslashEscapes, Binary: hexBinary("X'", "'", true), Boolean: keywordBoolean, DateTime: utcDateTime}).
		Temporal(mysqlTemporal{}).
		Aggregate(sqltypes.JSON, JSONCodec)

	b.Functions().
		RegisterVarargs("concat", "concat(?*)", ",", 1).
		Register("locate", "locate(?1,?2)").
		Register("substring", "substring(?1,?2,?3)").
		Register("length", "char_length(?1)").
		Register("bitand", "(?1&?2)")
}

type mysqlTemporal struct{}

func (mysqlTemporal) Extract(unit sqltypes.TemporalUnit) string {
	switch unit {
	case sqltypes.DayOfWeek:
		return "dayofweek(?2)"
	case sqltypes.DayOfMonth:
		return "dayofmonth(?2)"
	case sqltypes.DayOfYear:
		return "dayofyear(?2)"
	case sqltypes.Week:
		return "weekofyear(?2)"
	case sqltypes.Epoch:
		return "unix_timestamp(?2)"
	case sqltypes.Nanosecond:
		return "(extract(microsecond from ?2)*1e3)"
	case sqltypes.Native:
		return "extract(microsecond from ?2)"
	}
	return "extract(?1 from ?2)"
}

func (mysqlTemporal) TimestampAdd(unit sqltypes.TemporalUnit, temporalType sqltypes.TemporalType, nativeNanos int64) (string, bool) {
	switch unit {
	case sqltypes.Nanosecond:
		return "timestampadd(microsecond,(?2)/1e3,?3)", true
	case sqltypes.Native:
		return "timestampadd(microsecond,?2,?3)", true
	case sqltypes.DayOfWeek, sqltypes.DayOfMonth, sqltypes.DayOfYear, sqltypes.Epoch:
		return "", false
	}
	return "timestampadd(?1,?2,?3)", true
}

func (mysqlTemporal) TimestampDiff(unit sqltypes.TemporalUnit, from, to sqltypes.TemporalType, nativeNanos int64) (string, bool) {
	switch unit {
	case sqltypes.Nanosecond:
		return "timestampdiff(microsecond,?2,?3)*1e3", true
	case sqltypes.Native:
		return "timestampdiff(microsecond,?2,?3)", true
	case sqltypes.DayOfWeek, sqltypes.DayOfMonth, sqltypes.DayOfYear, sqltypes.Epoch:
		return "", false
	}
	return "timestampdiff(?1,?2,?3)", true
}
