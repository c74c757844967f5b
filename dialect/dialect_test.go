package dialect_test

import (
	"errors"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gorm.io/sqldialect/dialect"
	"gorm.io/sqldialect/errtranslator"
)

func TestParseVendor(t *testing.T) {
	for name, want := range map[string]dialect.Vendor{
		"Postgres":   dialect.PostgreSQL,
		"postgresql": dialect.PostgreSQL,
		"pgx":        dialect.PostgreSQL,
		"crdb":       dialect.CockroachDB,
		"mariadb":    dialect.MySQL,
		" MySQL ":    dialect.MySQL,
		"godror":     dialect.Oracle,
		"mssql":      dialect.SQLServer,
		"hdb":        dialect.HANA,
		"h2":         dialect.H2,
		"sqlite3":    dialect.SQLite,
		"db2":        dialect.DB2,
		"spanner":    dialect.Spanner,
	} {
		got, err := dialect.ParseVendor(name)
		if assert.NoError(t, err, name) {
			assert.Equal(t, want, got, name)
		}
	}

	_, err := dialect.ParseVendor("access")
	assert.True(t, errors.Is(err, dialect.ErrUnknownVendor))
}

func TestVendors(t *testing.T) {
	assert.Equal(t, []dialect.Vendor{
		dialect.CockroachDB, dialect.DB2, dialect.H2, dialect.HANA, dialect.MySQL,
		dialect.Oracle, dialect.PostgreSQL, dialect.Spanner, dialect.SQLite, dialect.SQLServer,
	}, dialect.Vendors())

	assert.Equal(t, "SQL Server", dialect.SQLServer.Product())
	assert.Equal(t, dialect.V(8), dialect.MySQL.DefaultVersion())
	assert.Equal(t, dialect.V(5, 7), dialect.MySQL.MinimumVersion())
}

func TestNewEveryVendor(t *testing.T) {
	for _, vendor := range dialect.Vendors() {
		for _, version := range []dialect.Version{vendor.MinimumVersion(), vendor.DefaultVersion()} {
			d, err := dialect.New(vendor, dialect.Info{Version: version})
			require.NoError(t, err, "%s %s", vendor, version)
			assert.Equal(t, vendor, d.Vendor())
			assert.Equal(t, version, d.Version())
			assert.NotZero(t, d.Functions().Len())
			assert.NotEmpty(t, d.Types().Codes())

			now, err := d.Functions().Render("current_timestamp")
			assert.NoError(t, err)
			want, _ := d.Template(dialect.CurrentTimestamp)
			assert.Equal(t, want, now)
		}
	}
}

func TestNew(t *testing.T) {
	d, err := dialect.ForName("postgres", "15.2")
	require.NoError(t, err)
	assert.Equal(t, "PostgreSQL 15.2", d.Name())
	assert.Equal(t, "PostgreSQL 15.2", d.String())

	d, err = dialect.New(dialect.PostgreSQL, dialect.Info{})
	require.NoError(t, err)
	assert.Equal(t, dialect.V(12), d.Version())
	assert.Equal(t, 4, d.Info().BytesPerCharacter)

	_, err = dialect.New(dialect.PostgreSQL, dialect.Info{Version: dialect.V(7, 4)})
	assert.True(t, errors.Is(err, dialect.ErrUnsupportedVersion))

	_, err = dialect.New("access", dialect.Info{})
	assert.True(t, errors.Is(err, dialect.ErrUnknownVendor))

	_, err = dialect.ForName("mysql", "latest")
	assert.Error(t, err)
}

func TestFeatures(t *testing.T) {
	pg94 := mustDialect(t, dialect.PostgreSQL, "9.4")
	pg95 := mustDialect(t, dialect.PostgreSQL, "9.5")
	assert.False(t, pg94.Supports(dialect.SkipLockedLocks))
	assert.True(t, pg95.Supports(dialect.SkipLockedLocks))
	assert.True(t, pg94.Supports(dialect.JSONAggregates))
	assert.False(t, mustDialect(t, dialect.PostgreSQL, "9.3").Supports(dialect.JSONAggregates))

	assert.False(t, mustDialect(t, dialect.CockroachDB, "22.2").Supports(dialect.StructAggregates))
	assert.True(t, mustDialect(t, dialect.CockroachDB, "23.1").Supports(dialect.StructAggregates))

	mysql := mustDialect(t, dialect.MySQL, "")
	assert.False(t, mysql.Supports(dialect.StructAggregates))
	assert.False(t, mysql.Supports(dialect.Sequences))
	assert.True(t, mysql.Supports(dialect.SkipLockedLocks))
	assert.False(t, mustDialect(t, dialect.MySQL, "5.7").Supports(dialect.SkipLockedLocks))

	assert.Equal(t, "skip_locked_locks", dialect.SkipLockedLocks.String())
	assert.Len(t, dialect.Features(), 15)
}

func TestTemplates(t *testing.T) {
	pg := mustDialect(t, dialect.PostgreSQL, "")
	mysql := mustDialect(t, dialect.MySQL, "")
	oracle := mustDialect(t, dialect.Oracle, "")
	hana := mustDialect(t, dialect.HANA, "")

	assert.Equal(t, " cascade", pg.CascadeConstraints())
	assert.Equal(t, "", mysql.CascadeConstraints())
	assert.Equal(t, " cascade constraints", oracle.CascadeConstraints())

	assert.Equal(t, "default values", pg.NoColumnsInsert())
	assert.Equal(t, "values ( )", mysql.NoColumnsInsert())
	assert.Equal(t, "values (default)", oracle.NoColumnsInsert())

	assert.Equal(t, "ilike", pg.CaseInsensitiveLike())
	assert.Equal(t, "like", mysql.CaseInsensitiveLike())

	s, ok := hana.CurrentTimestampSelectString()
	assert.True(t, ok)
	assert.Equal(t, "select current_timestamp from sys.dummy", s)
	s, ok = mysql.CurrentSchemaCommand()
	assert.True(t, ok)
	assert.Equal(t, "select database()", s)

	s, ok = pg.SequenceNextValString("order_seq")
	assert.True(t, ok)
	assert.Equal(t, "select nextval('order_seq')", s)
	s, ok = oracle.SequenceNextValString("order_seq")
	assert.True(t, ok)
	assert.Equal(t, "select order_seq.nextval from dual", s)
	_, ok = mysql.SequenceNextValString("order_seq")
	assert.False(t, ok)

	s, ok = pg.IdentityColumnString()
	assert.True(t, ok)
	assert.Equal(t, "generated by default as identity", s)
	_, ok = mustDialect(t, dialect.PostgreSQL, "9.6").IdentityColumnString()
	assert.False(t, ok)
	s, _ = mysql.IdentityColumnString()
	assert.Equal(t, "not null auto_increment", s)
}

func TestFunctions(t *testing.T) {
	for _, tt := range []struct {
		vendor dialect.Vendor
		name   string
		args   []string
		want   string
	}{
		{dialect.PostgreSQL, "locate", []string{"'a'", "s"}, "strpos(s,'a')"},
		{dialect.PostgreSQL, "current_timestamp", nil, "localtimestamp"},
		{dialect.PostgreSQL, "coalesce", []string{"a", "b"}, "coalesce(a,b)"},
		{dialect.MySQL, "concat", []string{"a", "b"}, "concat(a,b)"},
		{dialect.MySQL, "locate", []string{"'a'", "s"}, "locate('a',s)"},
		{dialect.SQLServer, "concat", []string{"a", "b", "c"}, "(a+b+c)"},
		{dialect.SQLServer, "length", []string{"s"}, "len(s)"},
		{dialect.SQLServer, "mod", []string{"a", "b"}, "(a % b)"},
		{dialect.Oracle, "locate", []string{"'a'", "s"}, "instr(s,'a')"},
		{dialect.Oracle, "concat", []string{"a", "b"}, "(a||b)"},
		{dialect.SQLite, "substring", []string{"s", "1", "2"}, "substr(s,1,2)"},
		{dialect.H2, "current_date", nil, "current_date"},
	} {
		d := mustDialect(t, tt.vendor, "")
		got, err := d.Functions().Render(tt.name, tt.args...)
		if assert.NoError(t, err, "%s %s", tt.vendor, tt.name) {
			assert.Equal(t, tt.want, got, "%s %s", tt.vendor, tt.name)
		}
	}
}

func TestTranslateError(t *testing.T) {
	pg := mustDialect(t, dialect.PostgreSQL, "")

	err := pg.TranslateError(&pq.Error{Code: "23505", Constraint: "users_email_key"}, "insert into users")
	assert.True(t, errors.Is(err, errtranslator.ErrDuplicatedKey))
	var translated *errtranslator.Error
	if assert.True(t, errors.As(err, &translated)) {
		assert.Equal(t, "users_email_key", translated.ConstraintName)
		assert.Equal(t, "insert into users", translated.SQL)
	}

	plain := errors.New("connection reset")
	assert.Equal(t, plain, pg.TranslateError(plain, ""))
	assert.Nil(t, pg.ClassifyError(plain, ""))
}
