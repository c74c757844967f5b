package codec

import (
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"gorm.io/sqldialect/schema"
	"gorm.io/sqldialect/sqltypes"
)

// JSON reads and writes JSON objects, {"col":value,...}, for an embeddable.
// Keys are column names, written in declaration order.
type JSON struct {
	embeddable *schema.Embeddable
	opts       *Options
}

// NewJSON creates the JSON codec of an embeddable, opts may be nil
func NewJSON(e *schema.Embeddable, opts *Options) *JSON {
	return &JSON{embeddable: e, opts: opts}
}

// Embeddable the schema the codec works on
func (j *JSON) Embeddable() *schema.Embeddable {
	return j.embeddable
}

// Encode renders a value of the embeddable as a JSON object, nil encodes as
// null
func (j *JSON) Encode(v interface{}) (string, error) {
	if j.embeddable == nil {
		return "", ErrNoEmbeddable
	}
	if isNil(v) {
		return "null", nil
	}
	a := &jsonAppender{}
	if err := j.encodeObject(a, j.embeddable, v, 0); err != nil {
		return "", err
	}
	return a.String(), nil
}

// Decode parses a JSON object into the domain representation of the
// embeddable; null and the empty string decode as nil
func (j *JSON) Decode(s string) (interface{}, error) {
	return j.decode(s, true)
}

// DecodeValues parses a JSON object into its flat value array in
// declaration order
func (j *JSON) DecodeValues(s string) ([]interface{}, error) {
	v, err := j.decode(s, false)
	if v == nil || err != nil {
		return nil, err
	}
	return v.([]interface{}), nil
}

func (j *JSON) decode(s string, returnEmbeddable bool) (interface{}, error) {
	if j.embeddable == nil {
		return nil, ErrNoEmbeddable
	}
	begin := skipSpace(s, 0)
	if begin == len(s) || (strings.HasPrefix(s[begin:], "null") && skipSpace(s, begin+4) == len(s)) {
		return nil, nil
	}

	d := &jsonDecoder{s: s, opts: j.opts, loc: j.opts.location(), returnEmbeddable: returnEmbeddable}
	values := make([]interface{}, j.embeddable.JdbcValueCount())
	end, err := d.decodeObject(j.embeddable, begin, 0, values)
	if err != nil {
		return nil, err
	}
	if skipSpace(s, end) != len(s) {
		return nil, malformed("json", s, end, "trailing characters after object")
	}
	return d.finish(j.embeddable, values)
}

type jsonAppender struct {
	sb strings.Builder
}

func (a *jsonAppender) WriteByte(c byte) error {
	return a.sb.WriteByte(c)
}

func (a *jsonAppender) WriteString(s string) (int, error) {
	return a.sb.WriteString(s)
}

// quoted writes s as a JSON string
func (a *jsonAppender) quoted(s string) {
	a.sb.WriteByte('"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '"':
			a.sb.WriteString(`\"`)
		case '\\':
			a.sb.WriteString(`\\`)
		case '\b':
			a.sb.WriteString(`\b`)
		case '\t':
			a.sb.WriteString(`\t`)
		case '\n':
			a.sb.WriteString(`\n`)
		case '\f':
			a.sb.WriteString(`\f`)
		case '\r':
			a.sb.WriteString(`\r`)
		default:
			if c < 0x20 {
				fmt.Fprintf(&a.sb, `\u%04x`, c)
			} else {
				a.sb.WriteByte(c)
			}
		}
	}
	a.sb.WriteByte('"')
}

func (a *jsonAppender) String() string {
	return a.sb.String()
}

func (j *JSON) encodeObject(a *jsonAppender, e *schema.Embeddable, v interface{}, level int) error {
	if level > MaxNestingLevel {
		return ErrNestingTooDeep
	}
	first := true
	a.WriteByte('{')
	if err := j.encodeMembers(a, e, v, level, "", &first); err != nil {
		return err
	}
	a.WriteByte('}')
	return nil
}

// encodeMembers writes the members of e, prefix being the column prefix of
// the flattened embeddables enclosing it
func (j *JSON) encodeMembers(a *jsonAppender, e *schema.Embeddable, v interface{}, level int, prefix string, first *bool) error {
	attrs, err := attributeValues(e, v)
	if err != nil {
		return err
	}

	loc := j.opts.location()
	for d, field := range e.Fields {
		var value interface{}
		if attrs != nil {
			value = attrs[d]
		}

		if field.IsFlattened() {
			if isNil(value) {
				continue
			}
			if err := j.encodeMembers(a, field.Embedded, value, level, prefix+field.EmbeddedPrefix, first); err != nil {
				return err
			}
			continue
		}

		if !*first {
			a.WriteByte(',')
		}
		*first = false
		a.quoted(prefix + field.Column)
		a.WriteByte(':')

		if isNil(value) {
			a.WriteString("null")
			continue
		}
		if field.IsEmbedded() {
			if err := j.encodeObject(a, field.Embedded, value, level+1); err != nil {
				return err
			}
			continue
		}

		leaf, err := normalize(field, value, jsonFormat, loc)
		if err == errNull {
			a.WriteString("null")
			continue
		} else if err != nil {
			return err
		}
		if err := writeJSONLeaf(a, leaf, loc); err != nil {
			return err
		}
	}
	return nil
}

func writeJSONLeaf(a *jsonAppender, leaf leafValue, loc *time.Location) error {
	field := leaf.field
	switch v := leaf.value.(type) {
	case bool:
		switch {
		case field.Type.IsInteger():
			if v {
				a.WriteByte('1')
			} else {
				a.WriteByte('0')
			}
		case field.Type.IsCharacter():
			if v {
				a.quoted("Y")
			} else {
				a.quoted("N")
			}
		default:
			a.WriteString(strconv.FormatBool(v))
		}
	case string:
		if field.IsEnum() && field.Type.IsInteger() {
			ordinal, _ := field.EnumOrdinal(v)
			a.WriteString(strconv.Itoa(ordinal))
		} else {
			a.quoted(v)
		}
	case int64:
		a.WriteString(strconv.FormatInt(v, 10))
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return invalid(field, v, errors.New("not representable in JSON"))
		}
		a.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
	case decimal.Decimal:
		a.quoted(v.String())
	case []byte:
		a.quoted(strings.ToUpper(hex.EncodeToString(v)))
	case uuid.UUID:
		a.quoted(v.String())
	case time.Time:
		a.quoted(formatTemporal(field.Type, v, loc, true))
	case []interface{}:
		elem := field.ElementField()
		a.WriteByte('[')
		for i, value := range v {
			if i > 0 {
				a.WriteByte(',')
			}
			el, err := normalize(elem, value, jsonFormat, loc)
			if err == errNull {
				a.WriteString("null")
				continue
			} else if err != nil {
				return err
			}
			if err := writeJSONLeaf(a, el, loc); err != nil {
				return err
			}
		}
		a.WriteByte(']')
	default:
		return &UnsupportedKindError{Format: jsonFormat.String(), Field: field.String(), Kind: field.Type}
	}
	return nil
}

type jsonState int

const (
	keyStart jsonState = iota
	keyQuote
	keyEnd
	valueStart
	valueQuote
	valueEnd
)

// expected characters of a state, \s standing for whitespace
func (state jsonState) expected() string {
	switch state {
	case keyStart, valueStart:
		return `"\s`
	case keyEnd:
		return `:\s`
	case valueEnd:
		return `,}\s`
	}
	return `"`
}

type jsonDecoder struct {
	s                string
	opts             *Options
	loc              *time.Location
	returnEmbeddable bool
}

// decodeObject parses one object starting at begin into values, one slot
// per physical column, and returns the offset after its '}'
func (d *jsonDecoder) decodeObject(e *schema.Embeddable, begin, level int, values []interface{}) (int, error) {
	const f = "json"
	s := d.s
	if level > MaxNestingLevel {
		return begin, ErrNestingTooDeep
	}
	if begin >= len(s) || s[begin] != '{' {
		return begin, syntaxError(f, s, begin, "{")
	}

	var (
		state      = keyStart
		empty      = true
		selectable = -1
		field      *schema.Field
		start      int
		escaped    bool
	)
	for i := begin + 1; i < len(s); i++ {
		c := s[i]
		switch state {
		case keyStart:
			switch {
			case c == '"':
				state, start, escaped = keyQuote, i+1, false
			case c == '}' && empty:
				return i + 1, nil
			case !isSpace(c):
				return i, syntaxError(f, s, i, state.expected())
			}
		case keyQuote:
			switch c {
			case '\\':
				i++
				escaped = true
			case '"':
				name := s[start:i]
				if escaped {
					var err error
					if name, err = unescape(name); err != nil {
						return start, malformed(f, s, start, "%v", err)
					}
				}
				if selectable = e.SelectableIndex(name); selectable < 0 {
					return start, fmt.Errorf("could not find selectable [%s] in embeddable [%s]", name, e.Name)
				}
				field = e.Selectable(selectable)
				state = keyEnd
			}
		case keyEnd:
			switch {
			case c == ':':
				state = valueStart
			case !isSpace(c):
				return i, syntaxError(f, s, i, state.expected())
			}
		case valueStart:
			switch {
			case c == '"':
				state, start, escaped = valueQuote, i+1, false
			case c == '{':
				if !field.IsEmbedded() {
					return i, fmt.Errorf("JSON starts sub-object for a non-aggregate type at index %d. Selectable [%s] is of type [%s]", i, field.Column, field.Type)
				}
				sub := make([]interface{}, field.Embedded.JdbcValueCount())
				end, err := d.decodeObject(field.Embedded, i, level+1, sub)
				if err != nil {
					return end, err
				}
				if values[selectable], err = d.finish(field.Embedded, sub); err != nil {
					return end, err
				}
				i, state = end-1, valueEnd
			case c == '[':
				if field.Type != sqltypes.Array {
					return i, fmt.Errorf("JSON starts array for a non-array type at index %d. Selectable [%s] is of type [%s]", i, field.Column, field.Type)
				}
				array, end, err := d.decodeArray(field.ElementField(), i)
				if err != nil {
					return end, err
				}
				values[selectable] = array
				i, state = end-1, valueEnd
			case isSpace(c):
			default:
				literal, end, err := consumeLiteral(s, i)
				if err != nil {
					return end, err
				}
				if literal != "null" {
					if field.IsEmbedded() {
						return i, malformed(f, s, i, "literal %s for aggregate %s", literal, field)
					}
					if values[selectable], err = parseLeaf(field, literal, false, jsonFormat, d.loc); err != nil {
						return i, err
					}
				} else {
					values[selectable] = nil
				}
				i, state = end-1, valueEnd
			}
		case valueQuote:
			switch c {
			case '\\':
				i++
				escaped = true
			case '"':
				text := s[start:i]
				if escaped {
					var err error
					if text, err = unescape(text); err != nil {
						return start, malformed(f, s, start, "%v", err)
					}
				}
				value, err := d.quotedValue(field, text, level)
				if err != nil {
					return start, err
				}
				values[selectable] = value
				state = valueEnd
			}
		case valueEnd:
			switch {
			case c == ',':
				state, empty = keyStart, false
			case c == '}':
				return i + 1, nil
			case !isSpace(c):
				return i, syntaxError(f, s, i, state.expected())
			}
		}
	}
	return len(s), syntaxError(f, s, len(s), state.expected())
}

// quotedValue a JSON string value; aggregates may be given as JSON or
// composite text inside a string
func (d *jsonDecoder) quotedValue(field *schema.Field, text string, level int) (interface{}, error) {
	if !field.IsEmbedded() {
		if field.Type == sqltypes.Array {
			return parseArray(field.ElementField(), text, d.loc)
		}
		return parseLeaf(field, text, true, jsonFormat, d.loc)
	}

	sub := make([]interface{}, field.Embedded.JdbcValueCount())
	begin := skipSpace(text, 0)
	switch {
	case begin < len(text) && text[begin] == '{':
		nd := &jsonDecoder{s: text, opts: d.opts, loc: d.loc, returnEmbeddable: d.returnEmbeddable}
		end, err := nd.decodeObject(field.Embedded, begin, level+1, sub)
		if err != nil {
			return nil, err
		}
		if skipSpace(text, end) != len(text) {
			return nil, malformed("json", text, end, "trailing characters after object")
		}
	case begin < len(text) && text[begin] == '(':
		cd := &compositeDecoder{s: text, opts: d.opts, loc: d.loc, returnEmbeddable: d.returnEmbeddable}
		end, err := cd.decodeStruct(field.Embedded, begin, 0, sub)
		if err != nil {
			return nil, err
		}
		if skipSpace(text, end) != len(text) {
			return nil, malformed("composite", text, end, "trailing characters after struct")
		}
	default:
		return nil, fmt.Errorf("string value for aggregate %s is neither a JSON object nor a struct literal", field)
	}
	return d.finish(field.Embedded, sub)
}

func (d *jsonDecoder) decodeArray(elem *schema.Field, begin int) ([]interface{}, int, error) {
	const f = "json"
	s := d.s
	values := []interface{}{}
	i := skipSpace(s, begin+1)
	if i < len(s) && s[i] == ']' {
		return values, i + 1, nil
	}

	for {
		if i >= len(s) {
			return nil, i, syntaxError(f, s, i, `"]`)
		}
		switch c := s[i]; {
		case c == '"':
			start, escaped := i+1, false
			for i = start; i < len(s) && s[i] != '"'; i++ {
				if s[i] == '\\' {
					i++
					escaped = true
				}
			}
			if i >= len(s) {
				return nil, i, malformed(f, s, i, "unterminated string")
			}
			text := s[start:i]
			if escaped {
				var err error
				if text, err = unescape(text); err != nil {
					return nil, start, malformed(f, s, start, "%v", err)
				}
			}
			value, err := parseLeaf(elem, text, true, jsonFormat, d.loc)
			if err != nil {
				return nil, start, err
			}
			values = append(values, value)
			i++
		case c == '[' || c == '{':
			return nil, i, malformed(f, s, i, "nested arrays and objects are not supported in arrays")
		default:
			literal, end, err := consumeLiteral(s, i)
			if err != nil {
				return nil, end, err
			}
			var value interface{}
			if literal != "null" {
				if value, err = parseLeaf(elem, literal, false, jsonFormat, d.loc); err != nil {
					return nil, i, err
				}
			}
			values = append(values, value)
			i = end
		}

		i = skipSpace(s, i)
		if i >= len(s) {
			return nil, i, syntaxError(f, s, i, ",]")
		}
		switch s[i] {
		case ',':
			i = skipSpace(s, i+1)
		case ']':
			return values, i + 1, nil
		default:
			return nil, i, syntaxError(f, s, i, ",]")
		}
	}
}

func (d *jsonDecoder) finish(e *schema.Embeddable, values []interface{}) (interface{}, error) {
	return finish(e, values, d.returnEmbeddable)
}

// consumeLiteral reads null, true, false or a number starting at i
func consumeLiteral(s string, i int) (string, int, error) {
	const f = "json"
	for _, keyword := range []string{"null", "true", "false"} {
		if strings.HasPrefix(s[i:], keyword) {
			return keyword, i + len(keyword), nil
		}
	}

	j := i
	if j < len(s) && s[j] == '-' {
		j++
	}
	switch {
	case j < len(s) && s[j] == '0':
		j++
	case j < len(s) && s[j] >= '1' && s[j] <= '9':
		j = skipDigits(s, j)
	default:
		return "", j, syntaxError(f, s, j, "0123456789")
	}
	if j < len(s) && s[j] == '.' {
		if k := skipDigits(s, j+1); k > j+1 {
			j = k
		} else {
			return "", j + 1, syntaxError(f, s, j+1, "0123456789")
		}
	}
	if j < len(s) && (s[j] == 'e' || s[j] == 'E') {
		j++
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		if k := skipDigits(s, j); k > j {
			j = k
		} else {
			return "", j, syntaxError(f, s, j, "0123456789")
		}
	}
	return s[i:j], j, nil
}

func skipDigits(s string, i int) int {
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	return i
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func skipSpace(s string, i int) int {
	for i < len(s) && isSpace(s[i]) {
		i++
	}
	return i
}

// unescape resolves JSON string escapes, including surrogate pairs
func unescape(s string) (string, error) {
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' {
			sb.WriteByte(c)
			continue
		}
		i++
		if i >= len(s) {
			return "", errors.New("truncated escape sequence")
		}
		switch s[i] {
		case '"', '\\', '/':
			sb.WriteByte(s[i])
		case 'b':
			sb.WriteByte('\b')
		case 'f':
			sb.WriteByte('\f')
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case 't':
			sb.WriteByte('\t')
		case 'u':
			r, err := hex4(s, i+1)
			if err != nil {
				return "", err
			}
			i += 4
			if utf16.IsSurrogate(r) {
				if i+2 < len(s) && s[i+1] == '\\' && s[i+2] == 'u' {
					if r2, err := hex4(s, i+3); err == nil {
						if dec := utf16.DecodeRune(r, r2); dec != utf8.RuneError {
							r = dec
							i += 6
						}
					}
				}
			}
			sb.WriteRune(r)
		default:
			return "", fmt.Errorf("invalid escape sequence \\%c", s[i])
		}
	}
	return sb.String(), nil
}

func hex4(s string, i int) (rune, error) {
	if i+4 > len(s) {
		return 0, errors.New("truncated unicode escape")
	}
	n, err := strconv.ParseUint(s[i:i+4], 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid unicode escape %s", s[i:i+4])
	}
	return rune(n), nil
}
