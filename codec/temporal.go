package codec

import (
	"database/sql"
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/jinzhu/now"

	"gorm.io/sqldialect/sqltypes"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04:05.999999999"
)

// longest offset first, "" parses values without an offset
var offsetLayouts = []string{"Z07:00:00", "Z07:00", "Z07", ""}

// formatTemporal renders t for a column of the given kind. Values without an
// offset are rendered as the wall clock in loc; iso selects the 'T'
// separator and 'Z' for UTC used in JSON documents.
func formatTemporal(code sqltypes.Code, t time.Time, loc *time.Location, iso bool) string {
	sep, offset := " ", "-07:00"
	if iso {
		sep, offset = "T", "Z07:00"
	}
	switch code {
	case sqltypes.Date:
		return t.In(loc).Format(dateLayout)
	case sqltypes.Time:
		return t.In(loc).Format(timeLayout)
	case sqltypes.TimeWithTimeZone:
		return t.Format(timeLayout + offset)
	case sqltypes.TimeUTC:
		return t.UTC().Format(timeLayout + offset)
	case sqltypes.Timestamp:
		return t.In(loc).Format(dateLayout + sep + timeLayout)
	case sqltypes.TimestampWithTimeZone:
		return t.Format(dateLayout + sep + timeLayout + offset)
	case sqltypes.TimestampUTC:
		return t.UTC().Format(dateLayout + sep + timeLayout + offset)
	}
	return t.Format(time.RFC3339Nano)
}

// parseTemporal accepts both the composite (space separated) and ISO forms,
// with or without an offset suffix
func parseTemporal(code sqltypes.Code, s string, loc *time.Location) (time.Time, error) {
	switch {
	case code == sqltypes.Date:
		if t, err := time.ParseInLocation(dateLayout, s, loc); err == nil {
			return t, nil
		}
		// some servers render dates with a time part
		t, err := parseLayouts(s, loc, dateLayout+" "+timeLayout, dateLayout+"T"+timeLayout)
		if err != nil {
			return time.Time{}, err
		}
		y, m, d := t.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, loc), nil
	case code.IsTime():
		t, err := parseLayouts(s, loc, timeLayout)
		if err != nil {
			return time.Time{}, err
		}
		if code == sqltypes.TimeUTC {
			t = t.UTC()
		}
		return t, nil
	case code.IsTimestamp():
		t, err := parseLayouts(s, loc, dateLayout+" "+timeLayout, dateLayout+"T"+timeLayout)
		if err != nil {
			return time.Time{}, err
		}
		if code == sqltypes.TimestampUTC {
			t = t.UTC()
		}
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%s is not a temporal type", code)
}

func parseLayouts(s string, loc *time.Location, bases ...string) (t time.Time, err error) {
	for _, base := range bases {
		for _, offset := range offsetLayouts {
			if t, err = time.ParseInLocation(base+offset, s, loc); err == nil {
				return t, nil
			}
		}
	}
	return t, err
}

// toTime accepts time.Time, *time.Time, sql.NullTime, strings parsed
// relative to loc and driver.Valuer implementations yielding one of these
func toTime(value interface{}, loc *time.Location) (time.Time, bool, error) {
	switch v := value.(type) {
	case time.Time:
		return v, true, nil
	case *time.Time:
		if v == nil {
			return time.Time{}, false, nil
		}
		return *v, true, nil
	case sql.NullTime:
		return v.Time, v.Valid, nil
	case string:
		t, err := now.New(time.Now().In(loc)).Parse(v)
		if err != nil {
			return time.Time{}, false, err
		}
		return t, true, nil
	case []byte:
		return toTime(string(v), loc)
	case driver.Valuer:
		dv, err := v.Value()
		if err != nil {
			return time.Time{}, false, err
		}
		if dv == nil {
			return time.Time{}, false, nil
		}
		if _, ok := dv.(driver.Valuer); ok {
			return time.Time{}, false, fmt.Errorf("recursive valuer %T", dv)
		}
		return toTime(dv, loc)
	}
	return time.Time{}, false, fmt.Errorf("unsupported temporal value %T", value)
}
