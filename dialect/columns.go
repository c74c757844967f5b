package dialect

import (
	"strconv"
	"strings"

	"gorm.io/sqldialect/schema"
	"gorm.io/sqldialect/sqltypes"
)

const (
	DefaultLength             = 255
	DefaultDecimalPrecision   = 38
	DefaultDecimalScale       = 2
	DefaultFloatPrecision     = 53
	DefaultTimestampPrecision = 6
)

// Size length, precision and scale substituted for $l, $p and $s
type Size struct {
	Length    int64
	Precision int
	Scale     int
}

type columnType struct {
	pattern string
	// capacity largest length (precision for numeric types) the pattern
	// holds, 0 for unbounded
	capacity int64
}

func resolveSize(code sqltypes.Code, size Size) Size {
	if size.Length <= 0 {
		size.Length = DefaultLength
	}
	if size.Precision <= 0 {
		switch {
		case code.IsDecimal():
			size.Precision = DefaultDecimalPrecision
			if size.Scale == 0 {
				size.Scale = DefaultDecimalScale
			}
		case code.IsFloat():
			size.Precision = DefaultFloatPrecision
		case code.IsTemporal():
			size.Precision = DefaultTimestampPrecision
		}
	}
	return size
}

func substitute(pattern string, size Size) string {
	if !strings.Contains(pattern, "$") {
		return pattern
	}
	return strings.NewReplacer(
		"$l", strconv.FormatInt(size.Length, 10),
		"$p", strconv.Itoa(size.Precision),
		"$s", strconv.Itoa(size.Scale),
	).Replace(pattern)
}

// ColumnType DDL type of a column, false when the dialect has no type for code
func (d *Dialect) ColumnType(code sqltypes.Code, size Size) (string, bool) {
	types := d.columnTypes[code]
	if len(types) == 0 {
		return "", false
	}

	size = resolveSize(code, size)
	capacity := size.Length
	if code.IsNumeric() {
		capacity = int64(size.Precision)
	}
	for _, t := range types {
		if t.capacity == 0 || capacity <= t.capacity {
			return substitute(t.pattern, size), true
		}
	}
	return substitute(types[len(types)-1].pattern, size), true
}

// CastType type name usable in cast(... as ...)
func (d *Dialect) CastType(code sqltypes.Code) (string, bool) {
	if pattern, ok := d.castTypes[code]; ok {
		return substitute(pattern, resolveSize(code, Size{})), true
	}
	return d.ColumnType(code, Size{})
}

// MaxVarcharLength longest varchar, in characters
func (d *Dialect) MaxVarcharLength() int {
	return d.maxVarcharLength
}

// SelectClauseNullString typed null for a select clause, e.g. in unions
func (d *Dialect) SelectClauseNullString(code sqltypes.Code) string {
	if d.selectNull != nil {
		return d.selectNull(d, code)
	}
	return "null"
}

// CreateTypeSQL create type statements of an embeddable stored as a struct
// aggregate, nested struct types first
func (d *Dialect) CreateTypeSQL(e *schema.Embeddable) ([]string, bool) {
	if !d.Supports(StructAggregates) {
		return nil, false
	}

	var stmts []string
	if !d.appendCreateType(&stmts, map[string]bool{}, e) {
		return nil, false
	}
	return stmts, true
}

func (d *Dialect) appendCreateType(stmts *[]string, seen map[string]bool, e *schema.Embeddable) bool {
	if seen[e.TypeName] {
		return true
	}
	seen[e.TypeName] = true

	var sb strings.Builder
	sb.WriteString("create type ")
	sb.WriteString(e.TypeName)
	sb.WriteString(" as (")
	for i, field := range e.Selectables() {
		if i > 0 {
			sb.WriteString(", ")
		}
		typ, ok := d.attributeType(stmts, seen, field)
		if !ok {
			return false
		}
		sb.WriteString(d.QuoteIfKeyword(field.Column))
		sb.WriteByte(' ')
		sb.WriteString(typ)
	}
	sb.WriteByte(')')

	*stmts = append(*stmts, sb.String())
	return true
}

func (d *Dialect) attributeType(stmts *[]string, seen map[string]bool, field *schema.Field) (string, bool) {
	size := Size{Length: int64(field.Length), Precision: field.Precision, Scale: field.Scale}
	switch {
	case field.IsEmbedded() && field.Type == sqltypes.Struct:
		if !d.appendCreateType(stmts, seen, field.Embedded) {
			return "", false
		}
		return field.Embedded.TypeName, true
	case field.Type == sqltypes.Array:
		elem, ok := d.ColumnType(field.ElementType, size)
		return elem + " array", ok
	}
	return d.ColumnType(field.Type, size)
}
