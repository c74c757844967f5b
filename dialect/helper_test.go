package dialect_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"gorm.io/sqldialect/dialect"
)

func mustDialect(t *testing.T, vendor dialect.Vendor, version string) *dialect.Dialect {
	t.Helper()

	var info dialect.Info
	if version != "" {
		info.Version = dialect.MustParseVersion(version)
	}
	d, err := dialect.New(vendor, info)
	require.NoError(t, err)
	return d
}
