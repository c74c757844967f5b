package dialect_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"gorm.io/sqldialect/dialect"
	"gorm.io/sqldialect/functions"
	"gorm.io/sqldialect/sqltypes"
)

func TestExtractPattern(t *testing.T) {
	pg := mustDialect(t, dialect.PostgreSQL, "")
	assert.Equal(t, "(extract(dow from ?2)+1)", pg.ExtractPattern(sqltypes.DayOfWeek))
	assert.Equal(t, "extract(?1 from ?2)", pg.ExtractPattern(sqltypes.Year))

	assert.Equal(t, "dayofweek(?2)", mustDialect(t, dialect.MySQL, "").ExtractPattern(sqltypes.DayOfWeek))
	assert.Equal(t, "datepart(?1,?2)", mustDialect(t, dialect.SQLServer, "").ExtractPattern(sqltypes.Hour))
	assert.Equal(t, "cast(strftime('%j',?2) as integer)", mustDialect(t, dialect.SQLite, "").ExtractPattern(sqltypes.DayOfYear))

	got, err := dialect.RenderTemporal(pg.ExtractPattern(sqltypes.DayOfWeek), sqltypes.DayOfWeek, "created_at")
	assert.NoError(t, err)
	assert.Equal(t, "(extract(dow from created_at)+1)", got)

	got, err = dialect.RenderTemporal(pg.ExtractPattern(sqltypes.Month), sqltypes.Month, "d")
	assert.NoError(t, err)
	assert.Equal(t, "extract(month from d)", got)
}

func TestTimestampAddPattern(t *testing.T) {
	for _, tt := range []struct {
		vendor       dialect.Vendor
		unit         sqltypes.TemporalUnit
		temporalType sqltypes.TemporalType
		want         string
	}{
		{dialect.PostgreSQL, sqltypes.Week, sqltypes.TimestampType, "(?3+(?2)*interval '7 day')"},
		{dialect.PostgreSQL, sqltypes.Month, sqltypes.DateType, "cast((?3+(?2)*interval '1 ?1') as date)"},
		{dialect.PostgreSQL, sqltypes.Hour, sqltypes.DateType, "(?3+(?2)*interval '1 ?1')"},
		{dialect.MySQL, sqltypes.Nanosecond, sqltypes.TimestampType, "timestampadd(microsecond,(?2)/1e3,?3)"},
		{dialect.MySQL, sqltypes.Day, sqltypes.TimestampType, "timestampadd(?1,?2,?3)"},
		{dialect.Oracle, sqltypes.Year, sqltypes.TimestampType, "add_months(?3,12*(?2))"},
		{dialect.SQLServer, sqltypes.Native, sqltypes.TimestampType, "dateadd(nanosecond,(?2)*100,?3)"},
		{dialect.SQLite, sqltypes.Day, sqltypes.DateType, "date(?3,(?2)||' ?1s')"},
		{dialect.H2, sqltypes.Native, sqltypes.TimestampType, "dateadd(nanosecond,?2,?3)"},
	} {
		got, ok := mustDialect(t, tt.vendor, "").TimestampAddPattern(tt.unit, tt.temporalType)
		if assert.True(t, ok, "%s %s", tt.vendor, tt.unit) {
			assert.Equal(t, tt.want, got, "%s %s", tt.vendor, tt.unit)
		}
	}

	_, ok := mustDialect(t, dialect.Oracle, "").TimestampAddPattern(sqltypes.DayOfWeek, sqltypes.TimestampType)
	assert.False(t, ok)
	_, ok = mustDialect(t, dialect.Spanner, "").TimestampAddPattern(sqltypes.Month, sqltypes.TimestampType)
	assert.False(t, ok)

	pattern, _ := mustDialect(t, dialect.PostgreSQL, "").TimestampAddPattern(sqltypes.Month, sqltypes.DateType)
	got, err := dialect.RenderTemporal(pattern, sqltypes.Month, "3", "due")
	assert.NoError(t, err)
	assert.Equal(t, "cast((due+(3)*interval '1 month') as date)", got)
}

func TestTimestampDiffPattern(t *testing.T) {
	for _, tt := range []struct {
		vendor   dialect.Vendor
		unit     sqltypes.TemporalUnit
		from, to sqltypes.TemporalType
		want     string
	}{
		{dialect.PostgreSQL, sqltypes.Hour, sqltypes.TimestampType, sqltypes.TimestampType, "extract(epoch from ?3-?2)/3600"},
		{dialect.PostgreSQL, sqltypes.Native, sqltypes.TimestampType, sqltypes.TimestampType, "extract(epoch from ?3-?2)"},
		{dialect.PostgreSQL, sqltypes.Day, sqltypes.DateType, sqltypes.DateType, "(?3-?2)"},
		{dialect.PostgreSQL, sqltypes.Week, sqltypes.DateType, sqltypes.DateType, "(?3-?2)/7"},
		{dialect.PostgreSQL, sqltypes.Year, sqltypes.DateType, sqltypes.DateType, "extract(year from age(?3,?2))"},
		{dialect.MySQL, sqltypes.Native, sqltypes.TimestampType, sqltypes.TimestampType, "timestampdiff(microsecond,?2,?3)"},
		{dialect.SQLServer, sqltypes.Day, sqltypes.TimestampType, sqltypes.TimestampType, "datediff_big(?1,?2,?3)"},
		{dialect.Oracle, sqltypes.Hour, sqltypes.TimestampType, sqltypes.TimestampType, "trunc((cast(?3 as date)-cast(?2 as date))*24)"},
		{dialect.SQLite, sqltypes.Hour, sqltypes.TimestampType, sqltypes.TimestampType, "((julianday(?3)-julianday(?2))*24)"},
		{dialect.HANA, sqltypes.Minute, sqltypes.TimestampType, sqltypes.TimestampType, "(seconds_between(?2,?3)/60)"},
	} {
		got, ok := mustDialect(t, tt.vendor, "").TimestampDiffPattern(tt.unit, tt.from, tt.to)
		if assert.True(t, ok, "%s %s", tt.vendor, tt.unit) {
			assert.Equal(t, tt.want, got, "%s %s", tt.vendor, tt.unit)
		}
	}

	got, _ := mustDialect(t, dialect.SQLServer, "12").TimestampDiffPattern(sqltypes.Day, sqltypes.TimestampType, sqltypes.TimestampType)
	assert.Equal(t, "datediff(?1,?2,?3)", got)

	_, ok := mustDialect(t, dialect.PostgreSQL, "").TimestampDiffPattern(sqltypes.Epoch, sqltypes.TimestampType, sqltypes.TimestampType)
	assert.False(t, ok)

	rendered, err := dialect.RenderTemporal("timestampdiff(?1,?2,?3)", sqltypes.Day, "a", "b")
	assert.NoError(t, err)
	assert.Equal(t, "timestampdiff(day,a,b)", rendered)

	_, err = dialect.RenderTemporal("timestampdiff(?1,?2,?3)", sqltypes.Day, "a")
	assert.True(t, errors.Is(err, functions.ErrArgumentCount))
}
