package sqldialect_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gorm.io/sqldialect"
	"gorm.io/sqldialect/dialect"
	"gorm.io/sqldialect/logger"
)

const configYAML = `
vendor: oracle
version: "12.2"
time_zone: UTC
log:
  level: info
  slow_threshold: 250ms
  format: logrus
`

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sqldialect.yaml")
	require.NoError(t, os.WriteFile(path, []byte(configYAML), 0o600))

	config, err := sqldialect.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "oracle", config.Vendor)
	assert.Equal(t, "12.2", config.Version)
	assert.Equal(t, "UTC", config.TimeZone)
	assert.Equal(t, sqldialect.LogConfig{Level: "info", SlowThreshold: 250 * time.Millisecond, Format: "logrus"}, config.Log)

	db, err := sqldialect.Open(config)
	require.NoError(t, err)
	assert.Equal(t, dialect.Oracle, db.Dialect().Vendor())
	assert.IsType(t, &logger.LogrusLogger{}, db.Logger)
	assert.Equal(t, logger.Info, db.Logger.(*logger.LogrusLogger).LogLevel)
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := sqldialect.LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.True(t, errors.Is(err, os.ErrNotExist))

	_, err = sqldialect.ParseConfig([]byte("vendor: [unclosed"))
	assert.True(t, errors.Is(err, sqldialect.ErrInvalidConfig))
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(sqldialect.EnvVendor, "db2")
	t.Setenv(sqldialect.EnvVersion, "11.1")
	t.Setenv(logger.EnvLogLevel, "error")
	t.Setenv(sqldialect.EnvLogColorful, "true")

	config, err := sqldialect.ParseConfig([]byte(configYAML))
	require.NoError(t, err)
	assert.Equal(t, "db2", config.Vendor)
	assert.Equal(t, "11.1", config.Version)
	assert.Equal(t, "error", config.Log.Level)
	assert.True(t, config.Log.Colorful)
}

func TestLogFormats(t *testing.T) {
	for format, want := range map[string]interface{}{
		"zap":     &logger.ZapLogger{},
		"zerolog": &logger.ZerologLogger{},
		"logrus":  &logger.LogrusLogger{},
	} {
		db, err := sqldialect.Open(&sqldialect.Config{Vendor: "sqlite", Log: sqldialect.LogConfig{Level: "silent", Format: format}})
		require.NoError(t, err, format)
		assert.IsType(t, want, db.Logger, format)
	}

	db, err := sqldialect.Open(&sqldialect.Config{Vendor: "sqlite", Log: sqldialect.LogConfig{Level: "warn", Format: "slog"}})
	require.NoError(t, err)
	assert.NotNil(t, db.Logger)
}
