package dialect_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"gorm.io/sqldialect/dialect"
)

func TestLimitOffset(t *testing.T) {
	const query = "select * from t"

	for _, tt := range []struct {
		vendor        dialect.Vendor
		version       string
		sql           string
		limit, offset int
		want          string
	}{
		{dialect.PostgreSQL, "", query, 10, 20, query + " offset 20 rows fetch next 10 rows only"},
		{dialect.PostgreSQL, "", query, 10, 0, query + " fetch first 10 rows only"},
		{dialect.PostgreSQL, "", query, 0, 0, query},
		{dialect.PostgreSQL, "8.3", query, 10, 20, query + " limit 10 offset 20"},
		{dialect.MySQL, "", query, 10, 20, query + " limit 10 offset 20"},
		{dialect.MySQL, "", query, 0, 5, query + " limit 18446744073709551615 offset 5"},
		{dialect.SQLite, "", query, 0, 5, query + " limit -1 offset 5"},
		{dialect.SQLServer, "", "select a from t", 10, 0, "select a from t order by @@version offset 0 rows fetch next 10 rows only"},
		{dialect.SQLServer, "", "select a from t order by a", 10, 5, "select a from t order by a offset 5 rows fetch next 10 rows only"},
		{dialect.SQLServer, "10", "select distinct a from t", 5, 0, "select distinct top (5) a from t"},
		{dialect.SQLServer, "10", "select a from t", 5, 0, "select top (5) a from t"},
		{dialect.Oracle, "11.2", query, 10, 0, "select * from (" + query + ") where rownum <= 10"},
		{dialect.Oracle, "11.2", query, 10, 20, "select * from (select row_.*, rownum rownum_ from (" + query + ") row_ where rownum <= 30) where rownum_ > 20"},
		{dialect.Oracle, "11.2", query, 0, 20, "select * from (select row_.*, rownum rownum_ from (" + query + ") row_) where rownum_ > 20"},
		{dialect.Oracle, "", query, 10, 20, query + " offset 20 rows fetch next 10 rows only"},
	} {
		got, ok := mustDialect(t, tt.vendor, tt.version).LimitOffset(tt.sql, tt.limit, tt.offset)
		if assert.True(t, ok, "%s %d %d", tt.vendor, tt.limit, tt.offset) {
			assert.Equal(t, tt.want, got)
		}
	}

	_, ok := mustDialect(t, dialect.SQLServer, "10").LimitOffset(query, 10, 5)
	assert.False(t, ok)
	_, ok = mustDialect(t, dialect.PostgreSQL, "").LimitOffset(query, -1, 0)
	assert.False(t, ok)

	assert.Equal(t, dialect.TopClause, mustDialect(t, dialect.SQLServer, "10").LimitStrategy())
	assert.Equal(t, "rownum", dialect.RowNumClause.String())
}
