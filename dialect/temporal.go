package dialect

import (
	"fmt"

	"gorm.io/sqldialect/functions"
	"gorm.io/sqldialect/sqltypes"
)

// TemporalPatterns renders extract(), timestampadd() and timestampdiff().
// Patterns take the unit as ?1 and the operands as ?2 and ?3: the value for
// extract, the amount and the value for timestampadd, and the start and end
// for timestampdiff.
type TemporalPatterns interface {
	Extract(unit sqltypes.TemporalUnit) string
	TimestampAdd(unit sqltypes.TemporalUnit, temporalType sqltypes.TemporalType, nativeNanos int64) (string, bool)
	TimestampDiff(unit sqltypes.TemporalUnit, from, to sqltypes.TemporalType, nativeNanos int64) (string, bool)
}

// ExtractPattern pattern extracting a field from ?2
func (d *Dialect) ExtractPattern(unit sqltypes.TemporalUnit) string {
	return d.temporal.Extract(unit)
}

// TimestampAddPattern pattern adding ?2 units to ?3, false for units that
// cannot be added
func (d *Dialect) TimestampAddPattern(unit sqltypes.TemporalUnit, temporalType sqltypes.TemporalType) (string, bool) {
	return d.temporal.TimestampAdd(unit, temporalType, d.nativePrecision)
}

// TimestampDiffPattern pattern of the difference ?3 - ?2 in units
func (d *Dialect) TimestampDiffPattern(unit sqltypes.TemporalUnit, from, to sqltypes.TemporalType) (string, bool) {
	return d.temporal.TimestampDiff(unit, from, to, d.nativePrecision)
}

// RenderTemporal substitutes the unit and the operands into a temporal pattern
func RenderTemporal(pattern string, unit sqltypes.TemporalUnit, operands ...string) (string, error) {
	p, err := functions.NewPattern(unit.String(), pattern)
	if err != nil {
		return "", err
	}
	args := append([]string{unit.String()}, operands...)
	if p.Arity > len(args) {
		return "", fmt.Errorf("%w: pattern %q needs %d operands", functions.ErrArgumentCount, pattern, p.Arity-1)
	}
	p.Arity = len(args)
	return p.Render(args...)
}

func isFieldUnit(unit sqltypes.TemporalUnit) bool {
	switch unit {
	case sqltypes.DayOfWeek, sqltypes.DayOfMonth, sqltypes.DayOfYear, sqltypes.Epoch:
		return true
	}
	return false
}

// nativeUnit name of the native precision as a SQL unit
func nativeUnit(nativeNanos int64) string {
	switch nativeNanos {
	case 1e9:
		return "second"
	case 1e6:
		return "millisecond"
	case 1e3:
		return "microsecond"
	}
	return "nanosecond"
}

type ansiTemporal struct{}

func (ansiTemporal) Extract(unit sqltypes.TemporalUnit) string {
	return "extract(?1 from ?2)"
}

func (ansiTemporal) TimestampAdd(unit sqltypes.TemporalUnit, temporalType sqltypes.TemporalType, nativeNanos int64) (string, bool) {
	switch {
	case isFieldUnit(unit):
		return "", false
	case unit == sqltypes.Native:
		return "timestampadd(" + nativeUnit(nativeNanos) + ",?2,?3)", true
	}
	return "timestampadd(?1,?2,?3)", true
}

func (ansiTemporal) TimestampDiff(unit sqltypes.TemporalUnit, from, to sqltypes.TemporalType, nativeNanos int64) (string, bool) {
	switch {
	case isFieldUnit(unit):
		return "", false
	case unit == sqltypes.Native:
		return "timestampdiff(" + nativeUnit(nativeNanos) + ",?2,?3)", true
	}
	return "timestampdiff(?1,?2,?3)", true
}
