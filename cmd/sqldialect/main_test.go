package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gorm.io/sqldialect"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	err := newApp(&buf).Run(append([]string{name}, args...))
	return buf.String(), err
}

func TestCommands(t *testing.T) {
	for _, tt := range []struct {
		args []string
		want string
	}{
		{[]string{"--vendor", "postgresql", "column-type", "--type", "varchar", "--length", "20"}, "varchar(20)\n"},
		{[]string{"-d", "pg", "-s", "9.3", "column-type", "-t", "json"}, "json\n"},
		{[]string{"--vendor", "oracle", "lock", "--skip-locked"}, "for update skip locked\n"},
		{[]string{"--vendor", "postgresql", "lock", "--mode", "read", "--nowait"}, "for share nowait\n"},
		{[]string{"--vendor", "mssql", "lock", "--table", "orders"}, "orders with (updlock,holdlock,rowlock)\n"},
		{[]string{"--vendor", "mysql", "encode-literal", `O'Brien \`}, `'O''Brien \\'` + "\n"},
		{[]string{"--vendor", "postgresql", "encode-literal", "--kind", "binary", "00ff"}, `bytea '\x00ff'` + "\n"},
		{[]string{"--vendor", "sqlserver", "encode-literal", "--kind", "boolean", "true"}, "1\n"},
		{[]string{"--vendor", "postgresql", "encode-literal", "--kind", "date", "2024-02-29"}, "date '2024-02-29'\n"},
		{[]string{"--vendor", "postgresql", "encode-literal", "--kind", "timestamp", "2024-01-02 03:04:05"}, "timestamp '2024-01-02 03:04:05'\n"},
		{[]string{"--vendor", "mysql", "translate", "--code", "2006"}, "unrecognized\n"},
	} {
		out, err := run(t, tt.args...)
		if assert.NoError(t, err, "%v", tt.args) {
			assert.Equal(t, tt.want, out, "%v", tt.args)
		}
	}
}

func TestVendorsCommand(t *testing.T) {
	out, err := run(t, "vendors")
	require.NoError(t, err)
	assert.Contains(t, out, "VENDOR")
	assert.Contains(t, out, "postgresql")
	assert.Contains(t, out, "SQL Server")
}

func TestTranslateCommand(t *testing.T) {
	out, err := run(t, "--vendor", "postgresql", "translate", "--sqlstate", "23505",
		"--message", `duplicate key value violates unique constraint "users_email_key"`)
	require.NoError(t, err)
	assert.Contains(t, out, "constraint violation")
	assert.Contains(t, out, "unique")
	assert.Contains(t, out, "users_email_key")

	out, err = run(t, "--vendor", "sqlserver", "translate", "--code", "1222")
	require.NoError(t, err)
	assert.Contains(t, out, "lock timeout")
}

func TestConfigFlag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sqldialect.yaml")
	require.NoError(t, os.WriteFile(path, []byte("vendor: mysql\nversion: \"5.7\"\n"), 0o600))

	out, err := run(t, "--config", path, "lock", "--mode", "read")
	require.NoError(t, err)
	assert.Equal(t, "lock in share mode\n", out)

	out, err = run(t, "--config", path, "--vendor", "postgresql", "lock")
	require.NoError(t, err)
	assert.Equal(t, "for update\n", out)
}

func TestCommandErrors(t *testing.T) {
	t.Setenv(sqldialect.EnvVendor, "")

	_, err := run(t, "column-type", "--type", "varchar")
	assert.True(t, errors.Is(err, sqldialect.ErrMissingVendor))

	for _, args := range [][]string{
		{"--vendor", "postgresql", "column-type", "--type", "nonsense"},
		{"--vendor", "postgresql", "column-type", "--type", "struct"},
		{"--vendor", "postgresql", "lock", "--nowait", "--skip-locked"},
		{"--vendor", "postgresql", "lock", "--mode", "exclusive"},
		{"--vendor", "postgresql", "translate"},
		{"--vendor", "postgresql", "encode-literal"},
		{"--vendor", "postgresql", "encode-literal", "--kind", "binary", "zz"},
		{"--vendor", "postgresql", "encode-literal", "--kind", "money", "1"},
		{"--config", "/does/not/exist.yaml", "lock"},
	} {
		_, err := run(t, args...)
		assert.Error(t, err, "%v", args)
	}
}
