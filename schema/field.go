package schema

import (
	"fmt"
	"reflect"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"gorm.io/sqldialect/sqltypes"
)

var (
	TimeReflectType    = reflect.TypeOf(time.Time{})
	DecimalReflectType = reflect.TypeOf(decimal.Decimal{})
	UUIDReflectType    = reflect.TypeOf(uuid.UUID{})
	BytesReflectType   = reflect.TypeOf([]byte(nil))
	BoolReflectType    = reflect.TypeOf(false)
)

// Field one attribute of an embeddable, either a leaf or a nested embeddable
type Field struct {
	Name   string
	Column string
	Type   sqltypes.Code

	// GoType domain representation of the value, nil means the canonical
	// representation of Type. A bool GoType on an integer or character
	// column selects the 1/0 or Y/N encodings.
	GoType reflect.Type

	// EnumValues names of an enum by ordinal; integer columns store the
	// ordinal, character columns the name
	EnumValues []string

	// ElementType element type of an Array field
	ElementType sqltypes.Code

	// Embedded nested schema; Aggregate reports whether it is stored as a
	// single aggregate column rather than flattened into the parent
	Embedded       *Embeddable
	Aggregate      bool
	// EmbeddedPrefix prepended to the columns of a flattened Embedded
	EmbeddedPrefix string

	Length    int
	Precision int
	Scale     int
	NotNull   bool

	TagSettings map[string]string
	StructField reflect.StructField
	Owner       *Embeddable
	index       int
}

// Leaf a scalar field of the given type
func Leaf(name string, code sqltypes.Code) *Field {
	return &Field{Name: name, Type: code}
}

// BooleanLeaf a boolean attribute stored in a column of the given type:
// Boolean/Bit natively, integer columns as 1/0, character columns as Y/N
func BooleanLeaf(name string, code sqltypes.Code) *Field {
	return &Field{Name: name, Type: code, GoType: BoolReflectType}
}

// EnumLeaf an enum attribute; integer columns hold the ordinal
func EnumLeaf(name string, code sqltypes.Code, values ...string) *Field {
	return &Field{Name: name, Type: code, EnumValues: values}
}

// ArrayLeaf a plural attribute holding elements of the given type
func ArrayLeaf(name string, element sqltypes.Code) *Field {
	return &Field{Name: name, Type: sqltypes.Array, ElementType: element}
}

// Nested a nested embeddable; aggregate nests keep their own column
func Nested(name string, embeddable *Embeddable, aggregate bool) *Field {
	code := sqltypes.Unknown
	if aggregate {
		code = sqltypes.Struct
	}
	return &Field{Name: name, Type: code, Embedded: embeddable, Aggregate: aggregate}
}

// WithColumn sets the selectable name
func (field *Field) WithColumn(column string) *Field {
	field.Column = column
	return field
}

// WithPrefix sets the prefix of the columns a flattened nested embeddable
// contributes to its parent
func (field *Field) WithPrefix(prefix string) *Field {
	field.EmbeddedPrefix = prefix
	return field
}

// WithSize sets length, precision and scale used when rendering DDL
func (field *Field) WithSize(length, precision, scale int) *Field {
	field.Length, field.Precision, field.Scale = length, precision, scale
	return field
}

// Index declaration index inside the owning embeddable
func (field *Field) Index() int {
	return field.index
}

// IsEmbedded nested embeddable, aggregate or not
func (field *Field) IsEmbedded() bool {
	return field.Embedded != nil
}

// IsFlattened nested embeddable whose columns are inlined into the parent
func (field *Field) IsFlattened() bool {
	return field.Embedded != nil && !field.Aggregate
}

// IsBoolean whether the domain value is a bool
func (field *Field) IsBoolean() bool {
	if field.GoType != nil {
		t := field.GoType
		for t.Kind() == reflect.Ptr {
			t = t.Elem()
		}
		return t.Kind() == reflect.Bool
	}
	return field.Type == sqltypes.Boolean || field.Type == sqltypes.Bit
}

// IsEnum whether the domain value is an enum constant
func (field *Field) IsEnum() bool {
	return len(field.EnumValues) > 0
}

// EnumOrdinal ordinal of the named constant
func (field *Field) EnumOrdinal(name string) (int, bool) {
	for i, v := range field.EnumValues {
		if v == name {
			return i, true
		}
	}
	return -1, false
}

// EnumName constant name by ordinal
func (field *Field) EnumName(ordinal int64) (string, error) {
	if ordinal < 0 || ordinal >= int64(len(field.EnumValues)) {
		return "", fmt.Errorf("enum ordinal %d out of range for field %s", ordinal, field.Name)
	}
	return field.EnumValues[ordinal], nil
}

// ElementField synthetic leaf describing one element of an Array field
func (field *Field) ElementField() *Field {
	elem := &Field{Name: field.Name, Column: field.Column, Type: field.ElementType}
	if field.GoType != nil && (field.GoType.Kind() == reflect.Slice || field.GoType.Kind() == reflect.Array) && field.GoType != BytesReflectType {
		elem.GoType = field.GoType.Elem()
	}
	return elem
}

func (field *Field) String() string {
	if field.Owner != nil {
		return field.Owner.Name + "." + field.Name
	}
	return field.Name
}

func inferType(t reflect.Type) (sqltypes.Code, bool) {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	switch t {
	case TimeReflectType:
		return sqltypes.TimestampWithTimeZone, true
	case DecimalReflectType:
		return sqltypes.Numeric, true
	case UUIDReflectType:
		return sqltypes.UUID, true
	case BytesReflectType:
		return sqltypes.Varbinary, true
	}
	switch t.Kind() {
	case reflect.Bool:
		return sqltypes.Boolean, true
	case reflect.Int8, reflect.Uint8:
		return sqltypes.TinyInt, true
	case reflect.Int16, reflect.Uint16:
		return sqltypes.SmallInt, true
	case reflect.Int32, reflect.Uint32, reflect.Int, reflect.Uint:
		return sqltypes.Integer, true
	case reflect.Int64, reflect.Uint64:
		return sqltypes.BigInt, true
	case reflect.Float32:
		return sqltypes.Real, true
	case reflect.Float64:
		return sqltypes.Double, true
	case reflect.String:
		return sqltypes.Varchar, true
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return sqltypes.Varbinary, true
		}
		return sqltypes.Array, true
	}
	return sqltypes.Unknown, false
}
