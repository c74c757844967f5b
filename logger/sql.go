package logger

import (
	"database/sql/driver"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"gorm.io/sqldialect/dialect"
	"gorm.io/sqldialect/sqltypes"
)

func isPrintable(s []byte) bool {
	for _, r := range s {
		if !unicode.IsPrint(rune(r)) {
			return false
		}
	}
	return true
}

// ExplainSQL inlines vars into sql as literals of d, for logging only.
// Placeholders are ? unless numericPlaceholder captures the 1 based index,
// e.g. `\$(\d+)` or `@p(\d+)`.
func ExplainSQL(d *dialect.Dialect, sql string, numericPlaceholder *regexp.Regexp, vars ...interface{}) string {
	literals := make([]string, len(vars))
	for idx, v := range vars {
		if valuer, ok := v.(driver.Valuer); ok {
			v, _ = valuer.Value()
		}

		var sb strings.Builder
		switch v := v.(type) {
		case nil:
			sb.WriteString("NULL")
		case bool:
			d.AppendBooleanLiteral(&sb, v)
		case time.Time:
			d.AppendDateTimeLiteral(&sb, v, sqltypes.TimestampType, false)
		case *time.Time:
			if v == nil {
				sb.WriteString("NULL")
			} else {
				d.AppendDateTimeLiteral(&sb, *v, sqltypes.TimestampType, false)
			}
		case []byte:
			if isPrintable(v) {
				d.AppendStringLiteral(&sb, string(v))
			} else {
				d.AppendBinaryLiteral(&sb, v)
			}
		case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
			fmt.Fprintf(&sb, "%d", v)
		case float64, float32:
			fmt.Fprintf(&sb, "%.6f", v)
		case string:
			d.AppendStringLiteral(&sb, v)
		default:
			d.AppendStringLiteral(&sb, fmt.Sprint(v))
		}
		literals[idx] = sb.String()
	}

	if numericPlaceholder == nil {
		var sb strings.Builder
		next := 0
		for i := 0; i < len(sql); i++ {
			if sql[i] == '?' && next < len(literals) {
				sb.WriteString(literals[next])
				next++
				continue
			}
			sb.WriteByte(sql[i])
		}
		return sb.String()
	}

	return numericPlaceholder.ReplaceAllStringFunc(sql, func(m string) string {
		sub := numericPlaceholder.FindStringSubmatch(m)
		if len(sub) < 2 {
			return m
		}
		n, err := strconv.Atoi(sub[1])
		if err != nil || n < 1 || n > len(literals) {
			return m
		}
		return literals[n-1]
	})
}
