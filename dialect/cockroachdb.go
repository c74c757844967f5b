package dialect

import "gorm.io/sqldialect/sqltypes"

func configureCockroachDB(b *Builder) {
	configurePostgreSQL(b)
	v := b.Version()

	b.ColumnType(sqltypes.Clob, "string").
		ColumnType(sqltypes.NClob, "string").
		ColumnType(sqltypes.Blob, "bytes").
		ColumnType(sqltypes.JSON, "jsonb").
		MaxIdentifierLength(0).
		Keywords(cockroachKeywords...).
		Enable(NoWaitLocks, SkipLockedLocks, JSONAggregates, IdentityColumns, Lateral).
		Disable(FetchWithTies, StructAggregates).
		EnableIf(v.IsSameOrAfter(23, 1), StructAggregates)

	b.Functions().
		Register("length", "char_length(?1)")
}
