package logger

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func newZerologBuffer(level LogLevel) (*bytes.Buffer, Interface) {
	var buf bytes.Buffer
	return &buf, NewZerologLogger(zerolog.New(&buf), Config{LogLevel: level, SlowThreshold: 100 * time.Millisecond})
}

func TestZerologLogger_LogMode(t *testing.T) {
	_, logger := newZerologBuffer(Error)

	infoLogger := logger.LogMode(Info)
	assert.Equal(t, Info, infoLogger.(*ZerologLogger).LogLevel)
	assert.Equal(t, Error, logger.(*ZerologLogger).LogLevel)
}

func TestZerologLogger_LogLevels(t *testing.T) {
	ctx := WithVendor(context.Background(), "mysql")
	buf, logger := newZerologBuffer(Warn)

	logger.Info(ctx, "hidden")
	assert.Empty(t, buf.String())

	logger.Warn(ctx, "probe fell back to defaults", "bytes_per_character", 4)
	assert.Contains(t, buf.String(), `"level":"warn"`)
	assert.Contains(t, buf.String(), `"vendor":"mysql"`)
	assert.Contains(t, buf.String(), "probe fell back to defaults")
	assert.Contains(t, buf.String(), "bytes_per_character")

	buf.Reset()
	logger.Error(context.Background(), "no context")
	assert.Contains(t, buf.String(), "no context")
	assert.NotContains(t, buf.String(), "vendor")
}

func TestZerologLogger_Trace(t *testing.T) {
	ctx := context.Background()
	buf, logger := newZerologBuffer(Info)

	logger.Trace(ctx, time.Now(), func() (string, int64) {
		return "select current_schema()", 1
	}, nil)
	assert.Contains(t, buf.String(), "probe executed")
	assert.Contains(t, buf.String(), `"rows":1`)

	buf.Reset()
	logger.Trace(ctx, time.Now().Add(-time.Second), func() (string, int64) {
		return "select version()", -1
	}, nil)
	assert.Contains(t, buf.String(), "slow probe")
	assert.NotContains(t, buf.String(), "rows")

	buf.Reset()
	logger.Trace(ctx, time.Now(), func() (string, int64) {
		return "select version()", 0
	}, assert.AnError)
	assert.Contains(t, buf.String(), `"level":"error"`)
	assert.Contains(t, buf.String(), assert.AnError.Error())

	buf.Reset()
	logger.LogMode(Silent).Trace(ctx, time.Now(), func() (string, int64) {
		return "select version()", 0
	}, assert.AnError)
	assert.Empty(t, buf.String())
}

func TestZerologLevel(t *testing.T) {
	assert.Equal(t, zerolog.Disabled, ZerologLevel(Silent))
	assert.Equal(t, zerolog.ErrorLevel, ZerologLevel(Error))
	assert.Equal(t, zerolog.WarnLevel, ZerologLevel(Warn))
	assert.Equal(t, zerolog.InfoLevel, ZerologLevel(Info))
}
