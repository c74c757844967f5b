package dialect

import (
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/sqldialect/codec"
	"gorm.io/sqldialect/sqltypes"
)

// Writer target of the literal appenders, e.g. *strings.Builder or
// *bytes.Buffer
type Writer interface {
	WriteByte(c byte) error
	WriteString(s string) (int, error)
}

// ErrInvalidLiteral text is not a string literal of the dialect
var ErrInvalidLiteral = errors.New("invalid string literal")

// LiteralStyle literal renderers of a dialect
type LiteralStyle struct {
	// EscapeBackslash string literals double backslashes too
	EscapeBackslash bool
	Binary          func(w Writer, b []byte)
	Boolean         func(w Writer, v bool)
	DateTime        func(w Writer, t time.Time, precision sqltypes.TemporalType, withTimeZone bool)
}

const (
	dateLayout      = "2006-01-02"
	timeLayout      = "15:04:05.999999999"
	timestampLayout = "2006-01-02 15:04:05.999999999"
	offsetLayout    = "-07:00"
)

// AppendStringLiteral writes s as a quoted SQL string
func (d *Dialect) AppendStringLiteral(w Writer, s string) {
	w.WriteByte('\'')
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\'' || (c == '\\' && d.literals.EscapeBackslash) {
			w.WriteByte(c)
		}
		w.WriteByte(c)
	}
	w.WriteByte('\'')
}

// AppendBinaryLiteral writes b as a binary literal
func (d *Dialect) AppendBinaryLiteral(w Writer, b []byte) {
	d.literals.Binary(w, b)
}

// AppendBooleanLiteral writes v as a boolean literal
func (d *Dialect) AppendBooleanLiteral(w Writer, v bool) {
	d.literals.Boolean(w, v)
}

// AppendDateTimeLiteral writes t as a date, time or timestamp literal
func (d *Dialect) AppendDateTimeLiteral(w Writer, t time.Time, precision sqltypes.TemporalType, withTimeZone bool) {
	d.literals.DateTime(w, t, precision, withTimeZone)
}

// AppendAggregateLiteral writes the text representation of an aggregate
// value as a SQL string literal, null for a nil value
func (d *Dialect) AppendAggregateLiteral(w Writer, c codec.Codec, v interface{}) error {
	if v == nil {
		w.WriteString("null")
		return nil
	}
	text, err := c.Encode(v)
	if err != nil {
		return err
	}
	d.AppendStringLiteral(w, text)
	return nil
}

// ParseStringLiteral reverse of AppendStringLiteral. The surrounding quotes
// are optional, so the bare body of a literal is accepted as well.
func (d *Dialect) ParseStringLiteral(literal string) (string, error) {
	body := literal
	if len(body) >= 2 && body[0] == '\'' && body[len(body)-1] == '\'' {
		body = body[1 : len(body)-1]
	}

	var sb strings.Builder
	sb.Grow(len(body))
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c == '\'' || (c == '\\' && d.literals.EscapeBackslash) {
			if i+1 >= len(body) || body[i+1] != c {
				return "", fmt.Errorf("%w: unescaped %c at position %d of %s", ErrInvalidLiteral, c, i, literal)
			}
			i++
		}
		sb.WriteByte(c)
	}
	return sb.String(), nil
}

// DecodeAggregateLiteral reverse of AppendAggregateLiteral, null decodes to nil
func (d *Dialect) DecodeAggregateLiteral(c codec.Codec, literal string) (interface{}, error) {
	literal = strings.TrimSpace(literal)
	if strings.EqualFold(literal, "null") {
		return nil, nil
	}
	text, err := d.ParseStringLiteral(literal)
	if err != nil {
		return nil, err
	}
	return c.Decode(text)
}

func ansiLiterals() LiteralStyle {
	return LiteralStyle{
		Binary:   hexBinary("X'", "'", true),
		Boolean:  keywordBoolean,
		DateTime: ansiDateTime,
	}
}

func hexBinary(prefix, suffix string, upper bool) func(w Writer, b []byte) {
	return func(w Writer, b []byte) {
		w.WriteString(prefix)
		text := hex.EncodeToString(b)
		if upper {
			text = strings.ToUpper(text)
		}
		w.WriteString(text)
		w.WriteString(suffix)
	}
}

func base64Binary(w Writer, b []byte) {
	w.WriteString("from_base64('")
	w.WriteString(base64.StdEncoding.EncodeToString(b))
	w.WriteString("')")
}

func keywordBoolean(w Writer, v bool) {
	if v {
		w.WriteString("true")
	} else {
		w.WriteString("false")
	}
}

func numericBoolean(w Writer, v bool) {
	if v {
		w.WriteByte('1')
	} else {
		w.WriteByte('0')
	}
}

func temporalText(t time.Time, precision sqltypes.TemporalType, withTimeZone bool) string {
	var layout string
	switch precision {
	case sqltypes.DateType:
		return t.Format(dateLayout)
	case sqltypes.TimeType:
		layout = timeLayout
	default:
		layout = timestampLayout
	}
	if withTimeZone {
		layout += offsetLayout
	}
	return t.Format(layout)
}

func quoted(w Writer, prefix, text, suffix string) {
	w.WriteString(prefix)
	w.WriteByte('\'')
	w.WriteString(text)
	w.WriteByte('\'')
	w.WriteString(suffix)
}

// ansiDateTime date '...', time [with time zone] '...', timestamp [with time zone] '...'
func ansiDateTime(w Writer, t time.Time, precision sqltypes.TemporalType, withTimeZone bool) {
	text := temporalText(t, precision, withTimeZone)
	switch precision {
	case sqltypes.DateType:
		quoted(w, "date ", text, "")
	case sqltypes.TimeType:
		if withTimeZone {
			quoted(w, "time with time zone ", text, "")
		} else {
			quoted(w, "time ", text, "")
		}
	default:
		if withTimeZone {
			quoted(w, "timestamp with time zone ", text, "")
		} else {
			quoted(w, "timestamp ", text, "")
		}
	}
}

// utcDateTime ANSI literals for dialects without zoned types, zoned values
// are converted to UTC
func utcDateTime(w Writer, t time.Time, precision sqltypes.TemporalType, withTimeZone bool) {
	if withTimeZone {
		t = t.UTC()
	}
	ansiDateTime(w, t, precision, false)
}

// plainDateTime temporal values as string literals
func plainDateTime(w Writer, t time.Time, precision sqltypes.TemporalType, withTimeZone bool) {
	quoted(w, "", temporalText(t, precision, withTimeZone), "")
}
