package sqltypes

import (
	"fmt"
	"strings"
)

// TemporalType precision of a temporal value
type TemporalType int

const (
	DateType TemporalType = iota + 1
	TimeType
	TimestampType
)

func (t TemporalType) String() string {
	switch t {
	case DateType:
		return "date"
	case TimeType:
		return "time"
	case TimestampType:
		return "timestamp"
	}
	return "none"
}

// TemporalUnit unit used by extract(), timestampadd() and timestampdiff()
type TemporalUnit int

const (
	Year TemporalUnit = iota + 1
	Quarter
	Month
	Week
	Day
	Hour
	Minute
	Second
	Nanosecond
	DayOfWeek
	DayOfMonth
	DayOfYear
	Epoch
	// Native the dialect's own fractional second precision
	Native
)

var unitNames = map[TemporalUnit]string{
	Year:       "year",
	Quarter:    "quarter",
	Month:      "month",
	Week:       "week",
	Day:        "day",
	Hour:       "hour",
	Minute:     "minute",
	Second:     "second",
	Nanosecond: "nanosecond",
	DayOfWeek:  "day_of_week",
	DayOfMonth: "day_of_month",
	DayOfYear:  "day_of_year",
	Epoch:      "epoch",
	Native:     "native",
}

func (u TemporalUnit) String() string {
	if n, ok := unitNames[u]; ok {
		return n
	}
	return fmt.Sprintf("unit(%d)", int(u))
}

// ParseTemporalUnit looks a unit up by name
func ParseTemporalUnit(name string) (TemporalUnit, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for u, n := range unitNames {
		if n == name {
			return u, nil
		}
	}
	return 0, fmt.Errorf("unknown temporal unit %q", name)
}

// IsDateUnit units that are meaningful for dates
func (u TemporalUnit) IsDateUnit() bool {
	switch u {
	case Year, Quarter, Month, Week, Day, DayOfWeek, DayOfMonth, DayOfYear:
		return true
	}
	return false
}

// ConversionFactor returns the SQL fragment that converts a difference
// expressed in u into the unit to. nativeNanos is the dialect's native
// precision in nanoseconds, used when either unit is Native.
func (u TemporalUnit) ConversionFactor(to TemporalUnit, nativeNanos int64) string {
	if u == to {
		return ""
	}
	switch u {
	case Year:
		if to == Quarter {
			return "*4"
		}
		if to == Month {
			return "*12"
		}
	case Quarter:
		if to == Month {
			return "*3"
		}
		if to == Year {
			return "/4"
		}
	case Month:
		if to == Quarter {
			return "/3"
		}
		if to == Year {
			return "/12"
		}
	case Day:
		if to == Week {
			return "/7"
		}
	}
	from, ok1 := u.nanos(nativeNanos)
	target, ok2 := to.nanos(nativeNanos)
	if !ok1 || !ok2 {
		return ""
	}
	switch {
	case from > target:
		return fmt.Sprintf("*%d", from/target)
	case from < target:
		return fmt.Sprintf("/%d", target/from)
	}
	return ""
}

func (u TemporalUnit) nanos(native int64) (int64, bool) {
	switch u {
	case Week:
		return 7 * 24 * 3600 * 1e9, true
	case Day:
		return 24 * 3600 * 1e9, true
	case Hour:
		return 3600 * 1e9, true
	case Minute:
		return 60 * 1e9, true
	case Second, Epoch:
		return 1e9, true
	case Nanosecond:
		return 1, true
	case Native:
		return native, true
	}
	return 0, false
}
