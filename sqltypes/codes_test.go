package sqltypes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCode(t *testing.T) {
	for _, c := range Codes() {
		parsed, err := ParseCode(c.String())
		require.NoError(t, err, c.String())
		assert.Equal(t, c, parsed)
	}

	aliases := map[string]Code{
		"bool":        Boolean,
		"INT":         Integer,
		"text":        LongVarchar,
		"bytea":       Varbinary,
		"timestamptz": TimestampWithTimeZone,
	}
	for name, want := range aliases {
		got, err := ParseCode(name)
		require.NoError(t, err)
		assert.Equal(t, want, got, name)
	}

	_, err := ParseCode("geometry")
	assert.Error(t, err)
}

func TestClassification(t *testing.T) {
	assert.True(t, SmallInt.IsInteger())
	assert.False(t, Decimal.IsInteger())
	assert.True(t, Decimal.IsNumeric())
	assert.True(t, Varchar.IsShortCharacter())
	assert.False(t, Clob.IsShortCharacter())
	assert.True(t, NamedEnum.IsCharacter())
	assert.True(t, Blob.IsBinary())
	assert.True(t, TimestampUTC.IsTemporal())
	assert.True(t, TimestampUTC.HasOffset())
	assert.False(t, Timestamp.HasOffset())
	assert.True(t, Struct.IsAggregate())
	assert.Equal(t, "code(99)", Code(99).String())
}

func TestConversionFactor(t *testing.T) {
	tests := []struct {
		from, to TemporalUnit
		want     string
	}{
		{Year, Month, "*12"},
		{Year, Quarter, "*4"},
		{Quarter, Month, "*3"},
		{Month, Quarter, "/3"},
		{Day, Week, "/7"},
		{Epoch, Hour, "/3600"},
		{Epoch, Minute, "/60"},
		{Epoch, Second, ""},
		{Epoch, Nanosecond, "*1000000000"},
		{Second, Second, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.from.ConversionFactor(tt.to, 1e9), "%v -> %v", tt.from, tt.to)
	}

	u, err := ParseTemporalUnit("Day_Of_Week")
	require.NoError(t, err)
	assert.Equal(t, DayOfWeek, u)
}
