package codec

import (
	"encoding/hex"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"gorm.io/sqldialect/schema"
	"gorm.io/sqldialect/sqltypes"
)

// Composite reads and writes the PostgreSQL composite type text format,
// (v1,"v2",...), for an embeddable
type Composite struct {
	embeddable *schema.Embeddable
	opts       *Options
}

// NewComposite creates the composite codec of an embeddable, opts may be nil
func NewComposite(e *schema.Embeddable, opts *Options) *Composite {
	return &Composite{embeddable: e, opts: opts}
}

// Embeddable the schema the codec works on
func (c *Composite) Embeddable() *schema.Embeddable {
	return c.embeddable
}

// Encode renders a value of the embeddable: a Record, a map, a struct, or a
// declaration ordered value array as returned by DecodeValues. nil encodes
// as the empty string.
func (c *Composite) Encode(v interface{}) (string, error) {
	if c.embeddable == nil {
		return "", ErrNoEmbeddable
	}
	if isNil(v) {
		return "", nil
	}
	a := newCompositeAppender()
	if err := c.encodeStruct(a, c.embeddable, v, 0); err != nil {
		return "", err
	}
	return a.String(), nil
}

// Decode parses a composite value into the domain representation of the
// embeddable; the empty string decodes as nil
func (c *Composite) Decode(s string) (interface{}, error) {
	return c.decode(s, true)
}

// DecodeValues parses a composite value into its flat value array in
// declaration order, nested aggregates are value arrays themselves
func (c *Composite) DecodeValues(s string) ([]interface{}, error) {
	v, err := c.decode(s, false)
	if v == nil || err != nil {
		return nil, err
	}
	return v.([]interface{}), nil
}

func (c *Composite) decode(s string, returnEmbeddable bool) (interface{}, error) {
	if c.embeddable == nil {
		return nil, ErrNoEmbeddable
	}
	if s == "" {
		return nil, nil
	}
	d := &compositeDecoder{s: s, opts: c.opts, loc: c.opts.location(), returnEmbeddable: returnEmbeddable}
	values := make([]interface{}, c.embeddable.JdbcValueCount())
	end, err := d.decodeStruct(c.embeddable, 0, 0, values)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(s[end:]) != "" {
		return nil, malformed("composite", s, end, "trailing characters after struct")
	}
	return d.finish(c.embeddable, values)
}

// compositeAppender writes composite text; quote is the number of times a
// quote or backslash is repeated at the current nesting and doubles with
// every quoted level
type compositeAppender struct {
	sb    strings.Builder
	quote int
}

func newCompositeAppender() *compositeAppender {
	return &compositeAppender{quote: 1}
}

func (a *compositeAppender) quoteStart() {
	a.repeat('"', a.quote)
	a.quote <<= 1
}

func (a *compositeAppender) quoteEnd() {
	a.quote >>= 1
	a.repeat('"', a.quote)
}

func (a *compositeAppender) repeat(c byte, n int) {
	for i := 0; i < n; i++ {
		a.sb.WriteByte(c)
	}
}

func (a *compositeAppender) WriteByte(c byte) error {
	if c == '"' || c == '\\' {
		a.repeat(c, a.quote)
		return nil
	}
	return a.sb.WriteByte(c)
}

func (a *compositeAppender) WriteString(s string) (int, error) {
	for i := 0; i < len(s); i++ {
		a.WriteByte(s[i])
	}
	return len(s), nil
}

func (a *compositeAppender) String() string {
	return a.sb.String()
}

func (c *Composite) encodeStruct(a *compositeAppender, e *schema.Embeddable, v interface{}, level int) error {
	if level > MaxNestingLevel {
		return ErrNestingTooDeep
	}
	first := true
	a.WriteByte('(')
	if err := c.encodeValues(a, e, v, level, &first); err != nil {
		return err
	}
	a.WriteByte(')')
	return nil
}

// encodeValues walks the fields in physical order; flattened nested
// embeddables continue the separator bookkeeping of their parent
func (c *Composite) encodeValues(a *compositeAppender, e *schema.Embeddable, v interface{}, level int, first *bool) error {
	attrs, err := attributeValues(e, v)
	if err != nil {
		return err
	}

	loc := c.opts.location()
	for p := range e.Fields {
		d := e.DeclarationIndex(p)
		field := e.Fields[d]
		var value interface{}
		if attrs != nil {
			value = attrs[d]
		}

		if field.IsFlattened() {
			if err := c.encodeValues(a, field.Embedded, value, level, first); err != nil {
				return err
			}
			continue
		}

		if !*first {
			a.WriteByte(',')
		}
		*first = false
		if isNil(value) {
			continue
		}

		if field.IsEmbedded() {
			a.quoteStart()
			if field.Type == sqltypes.JSON {
				j := &JSON{embeddable: field.Embedded, opts: c.opts}
				ja := &jsonAppender{}
				if err := j.encodeObject(ja, field.Embedded, value, level+1); err != nil {
					return err
				}
				a.WriteString(ja.String())
			} else if err := c.encodeStruct(a, field.Embedded, value, level+1); err != nil {
				return err
			}
			a.quoteEnd()
			continue
		}

		leaf, err := normalize(field, value, compositeFormat, loc)
		if err == errNull {
			continue
		} else if err != nil {
			return err
		}
		text, quoted, err := compositeText(leaf, loc)
		if err != nil {
			return err
		}
		if quoted {
			a.quoteStart()
			a.WriteString(text)
			a.quoteEnd()
		} else {
			a.WriteString(text)
		}
	}
	return nil
}

// compositeText logical text of a leaf and whether it must be quoted
func compositeText(leaf leafValue, loc *time.Location) (string, bool, error) {
	field := leaf.field
	switch v := leaf.value.(type) {
	case bool:
		switch {
		case field.Type.IsInteger():
			if v {
				return "1", false, nil
			}
			return "0", false, nil
		case field.Type.IsCharacter():
			if v {
				return "Y", false, nil
			}
			return "N", false, nil
		}
		if v {
			return "t", false, nil
		}
		return "f", false, nil
	case string:
		if field.IsEnum() && field.Type.IsInteger() {
			ordinal, _ := field.EnumOrdinal(v)
			return strconv.Itoa(ordinal), false, nil
		}
		return v, true, nil
	case int64:
		return strconv.FormatInt(v, 10), false, nil
	case float64:
		return formatFloat(v), false, nil
	case decimal.Decimal:
		return v.String(), false, nil
	case []byte:
		return `\x` + hex.EncodeToString(v), true, nil
	case uuid.UUID:
		return v.String(), false, nil
	case time.Time:
		return formatTemporal(field.Type, v, loc, false), true, nil
	case []interface{}:
		text, err := formatArray(field.ElementField(), v, loc)
		return text, true, err
	}
	return "", false, &UnsupportedKindError{Format: compositeFormat.String(), Field: field.String(), Kind: field.Type}
}

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

type compositeDecoder struct {
	s                string
	opts             *Options
	loc              *time.Location
	returnEmbeddable bool
}

// decodeStruct parses exactly one tuple starting at begin into values, one
// slot per physical column, and returns the offset after its ')'. Fields
// quoted at level n are delimited by 2^n quotes and escape quotes and
// backslashes with 2^(n+1) repeated characters.
func (d *compositeDecoder) decodeStruct(e *schema.Embeddable, begin, level int, values []interface{}) (int, error) {
	const f = "composite"
	s := d.s
	if level > MaxNestingLevel {
		return begin, ErrNestingTooDeep
	}
	if begin >= len(s) || s[begin] != '(' {
		return begin, syntaxError(f, s, begin, "(")
	}

	var (
		boundary = 1 << level
		column   = 0
		i        = begin + 1
	)
	if len(values) == 0 {
		if i < len(s) && s[i] == ')' {
			return i + 1, nil
		}
		return i, syntaxError(f, s, i, ")")
	}

	for {
		if column >= len(values) {
			return i, malformed(f, s, i, "more than %d elements for %s", len(values), e.Name)
		}
		field := e.Selectable(column)
		if i >= len(s) {
			return i, syntaxError(f, s, i, `",)`)
		}

		switch s[i] {
		case '"':
			if !repeatsChar(s, i, boundary, '"') {
				return i, malformed(f, s, i, "expected %d quotes at nesting level %d", boundary, level)
			}
			i += boundary
			if field.IsEmbedded() && field.Type != sqltypes.JSON && i < len(s) && s[i] == '(' {
				sub := make([]interface{}, field.Embedded.JdbcValueCount())
				end, err := d.decodeStruct(field.Embedded, i, level+1, sub)
				if err != nil {
					return end, err
				}
				if values[column], err = d.finish(field.Embedded, sub); err != nil {
					return end, err
				}
				if !repeatsChar(s, end, boundary, '"') {
					return end, malformed(f, s, end, "expected %d closing quotes after nested struct", boundary)
				}
				i = end + boundary
			} else {
				text, end, err := d.quoted(i, level)
				if err != nil {
					return end, err
				}
				if values[column], err = d.quotedValue(field, text, level); err != nil {
					return end, err
				}
				i = end
			}
		default:
			start := i
			for i < len(s) && s[i] != ',' && s[i] != ')' {
				if c := s[i]; c == '"' || c == '(' || c == '\\' {
					return i, syntaxError(f, s, i, ",)")
				}
				i++
			}
			if start == i {
				values[column] = nil
			} else if field.IsEmbedded() {
				return start, malformed(f, s, start, "unquoted value for aggregate %s", field)
			} else {
				var err error
				if values[column], err = parseLeaf(field, s[start:i], false, compositeFormat, d.loc); err != nil {
					return start, err
				}
			}
		}
		column++

		if i >= len(s) {
			return i, syntaxError(f, s, i, ",)")
		}
		switch s[i] {
		case ',':
			i++
		case ')':
			if column != len(values) {
				return i, malformed(f, s, i, "%d elements for %s, expected %d", column, e.Name, len(values))
			}
			return i + 1, nil
		default:
			return i, syntaxError(f, s, i, ",)")
		}
	}
}

// quoted reads the content of a quoted field whose opening quotes end right
// before start, returning the unescaped text and the offset after the
// closing quotes
func (d *compositeDecoder) quoted(start, level int) (string, int, error) {
	const f = "composite"
	var (
		s        = d.s
		boundary = 1 << level
		escape   = boundary << 1
		sb       strings.Builder
		from     = start
	)
	for i := start; i < len(s); {
		switch s[i] {
		case '"':
			if repeatsChar(s, i, escape, '"') {
				sb.WriteString(s[from:i])
				sb.WriteByte('"')
				i += escape
				from = i
				continue
			}
			if repeatsChar(s, i, boundary, '"') {
				sb.WriteString(s[from:i])
				return sb.String(), i + boundary, nil
			}
			return "", i, malformed(f, s, i, "expected %d quotes at nesting level %d", boundary, level)
		case '\\':
			if !repeatsChar(s, i, escape, '\\') {
				return "", i, malformed(f, s, i, "truncated escape, expected %d backslashes", escape)
			}
			sb.WriteString(s[from:i])
			sb.WriteByte('\\')
			i += escape
			from = i
		default:
			i++
		}
	}
	return "", len(s), malformed(f, s, len(s), "unterminated quoted value")
}

func (d *compositeDecoder) quotedValue(field *schema.Field, text string, level int) (interface{}, error) {
	if !field.IsEmbedded() {
		return parseLeaf(field, text, true, compositeFormat, d.loc)
	}
	sub := make([]interface{}, field.Embedded.JdbcValueCount())
	if field.Type == sqltypes.JSON {
		jd := &jsonDecoder{s: text, opts: d.opts, loc: d.loc, returnEmbeddable: d.returnEmbeddable}
		end, err := jd.decodeObject(field.Embedded, skipSpace(text, 0), level+1, sub)
		if err != nil {
			return nil, err
		}
		if skipSpace(text, end) != len(text) {
			return nil, malformed("json", text, end, "trailing characters after object")
		}
		return jd.finish(field.Embedded, sub)
	}
	// nested struct in an unescaped representation
	nd := &compositeDecoder{s: text, opts: d.opts, loc: d.loc, returnEmbeddable: d.returnEmbeddable}
	end, err := nd.decodeStruct(field.Embedded, 0, 0, sub)
	if err != nil {
		return nil, err
	}
	if end != len(text) {
		return nil, malformed("composite", text, end, "trailing characters after struct")
	}
	return nd.finish(field.Embedded, sub)
}

// finish orders physical values into declaration order and, unless raw
// values were requested, instantiates the embeddable
func (d *compositeDecoder) finish(e *schema.Embeddable, values []interface{}) (interface{}, error) {
	return finish(e, values, d.returnEmbeddable)
}

func finish(e *schema.Embeddable, values []interface{}, returnEmbeddable bool) (interface{}, error) {
	ordered, err := e.OrderJdbcValues(values)
	if err != nil {
		return nil, err
	}
	if !returnEmbeddable {
		return ordered, nil
	}
	return e.Assemble(ordered)
}

func repeatsChar(s string, start, times int, c byte) bool {
	if start+times > len(s) {
		return false
	}
	for i := start; i < start+times; i++ {
		if s[i] != c {
			return false
		}
	}
	return true
}
