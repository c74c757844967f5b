package schema

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	// ErrInvalidOrderMapping order mapping is not a permutation of the field indexes
	ErrInvalidOrderMapping = errors.New("invalid order mapping")
	// ErrValueCount wrong number of values for an embeddable
	ErrValueCount = errors.New("value count mismatch")
	// ErrDuplicatedColumn two selectables share a column name
	ErrDuplicatedColumn = errors.New("duplicated column")
)

// Embeddable ordered, typed schema of a nested record. It is built once by
// NewEmbeddable or Parse and must not be modified afterwards; all methods are
// safe for concurrent use.
type Embeddable struct {
	Name string
	// TypeName name of the database type when the embeddable is stored as
	// an aggregate (struct) column
	TypeName string
	Fields   []*Field
	// ModelType the Go struct the embeddable is materialized as, nil for *Record
	ModelType reflect.Type

	FieldsByName   map[string]*Field
	FieldsByColumn map[string]*Field

	// orderMapping[physical] = declaration index, inverse[declaration] = physical
	orderMapping []int
	inverse      []int
	// offsets[physical] first flat value slot of the physical field
	offsets     []int
	selectables []*Field
	columns     map[string]int
	valueCount  int
}

// NewEmbeddable builds a record-backed embeddable. orderMapping, when not
// nil, maps physical column positions to declaration indexes and must be a
// permutation of 0..len(fields)-1.
func NewEmbeddable(name string, fields []*Field, orderMapping []int) (*Embeddable, error) {
	return newEmbeddable(name, NamingStrategy{}.TypeName(name), nil, fields, orderMapping)
}

// MustEmbeddable like NewEmbeddable but panics on invalid input, for schemas
// declared in package variables
func MustEmbeddable(name string, fields []*Field, orderMapping []int) *Embeddable {
	e, err := NewEmbeddable(name, fields, orderMapping)
	if err != nil {
		panic(err)
	}
	return e
}

func newEmbeddable(name, typeName string, modelType reflect.Type, fields []*Field, orderMapping []int) (*Embeddable, error) {
	e := &Embeddable{
		Name:           name,
		TypeName:       typeName,
		Fields:         fields,
		ModelType:      modelType,
		FieldsByName:   make(map[string]*Field, len(fields)),
		FieldsByColumn: make(map[string]*Field, len(fields)),
	}

	for idx, field := range fields {
		if field.Name == "" {
			return nil, fmt.Errorf("embeddable %s: field %d has no name", name, idx)
		}
		if _, ok := e.FieldsByName[field.Name]; ok {
			return nil, fmt.Errorf("embeddable %s: duplicated field %s", name, field.Name)
		}
		if field.Column == "" {
			field.Column = NamingStrategy{}.ColumnName(name, field.Name)
		}
		field.Owner = e
		field.index = idx
		e.FieldsByName[field.Name] = field
		e.FieldsByColumn[field.Column] = field
	}

	if orderMapping != nil {
		inverse, err := invert(orderMapping, len(fields))
		if err != nil {
			return nil, fmt.Errorf("embeddable %s: %w", name, err)
		}
		e.orderMapping = append([]int(nil), orderMapping...)
		e.inverse = inverse
	}

	e.offsets = make([]int, len(fields))
	for p := range fields {
		field := e.PhysicalField(p)
		e.offsets[p] = e.valueCount
		if field.IsFlattened() {
			for _, selectable := range field.Embedded.selectables {
				if field.EmbeddedPrefix != "" {
					prefixed := *selectable
					prefixed.Column = field.EmbeddedPrefix + selectable.Column
					selectable = &prefixed
				}
				e.selectables = append(e.selectables, selectable)
			}
			e.valueCount += field.Embedded.valueCount
		} else {
			e.selectables = append(e.selectables, field)
			e.valueCount++
		}
	}

	e.columns = make(map[string]int, len(e.selectables))
	for i, selectable := range e.selectables {
		if _, ok := e.columns[selectable.Column]; ok {
			return nil, fmt.Errorf("embeddable %s: %w %s", name, ErrDuplicatedColumn, selectable.Column)
		}
		e.columns[selectable.Column] = i
	}

	return e, nil
}

func invert(mapping []int, n int) ([]int, error) {
	if len(mapping) != n {
		return nil, fmt.Errorf("%w: %d entries for %d fields", ErrInvalidOrderMapping, len(mapping), n)
	}
	inverse := make([]int, n)
	for i := range inverse {
		inverse[i] = -1
	}
	for physical, decl := range mapping {
		if decl < 0 || decl >= n {
			return nil, fmt.Errorf("%w: index %d out of range", ErrInvalidOrderMapping, decl)
		}
		if inverse[decl] != -1 {
			return nil, fmt.Errorf("%w: index %d repeated", ErrInvalidOrderMapping, decl)
		}
		inverse[decl] = physical
	}
	return inverse, nil
}

func (e *Embeddable) String() string {
	if e.ModelType != nil {
		return fmt.Sprintf("%v.%v", e.ModelType.PkgPath(), e.ModelType.Name())
	}
	return e.Name
}

// LookUpField finds a field by column or attribute name
func (e *Embeddable) LookUpField(name string) *Field {
	if field, ok := e.FieldsByColumn[name]; ok {
		return field
	}
	if field, ok := e.FieldsByName[name]; ok {
		return field
	}
	return nil
}

// OrderMapping physical position -> declaration index, nil for the identity
func (e *Embeddable) OrderMapping() []int {
	return append([]int(nil), e.orderMapping...)
}

// PhysicalIndex declaration index -> physical position
func (e *Embeddable) PhysicalIndex(decl int) int {
	if e.inverse == nil {
		return decl
	}
	return e.inverse[decl]
}

// DeclarationIndex physical position -> declaration index
func (e *Embeddable) DeclarationIndex(physical int) int {
	if e.orderMapping == nil {
		return physical
	}
	return e.orderMapping[physical]
}

// PhysicalField field stored at the given physical position of this level
func (e *Embeddable) PhysicalField(physical int) *Field {
	return e.Fields[e.DeclarationIndex(physical)]
}

// PhysicalFields fields of this level in column order
func (e *Embeddable) PhysicalFields() []*Field {
	fields := make([]*Field, len(e.Fields))
	for p := range fields {
		fields[p] = e.PhysicalField(p)
	}
	return fields
}

// JdbcValueCount number of physical columns once flattened nested
// embeddables are inlined; an aggregate nested embeddable counts as one
func (e *Embeddable) JdbcValueCount() int {
	return e.valueCount
}

// Selectable leaf (or aggregate) field behind the i-th physical column
func (e *Embeddable) Selectable(i int) *Field {
	if i < 0 || i >= len(e.selectables) {
		return nil
	}
	return e.selectables[i]
}

// SelectableIndex physical column index of a column name, -1 when absent
func (e *Embeddable) SelectableIndex(column string) int {
	if i, ok := e.columns[column]; ok {
		return i
	}
	return -1
}

// Selectables every physical column in order
func (e *Embeddable) Selectables() []*Field {
	return append([]*Field(nil), e.selectables...)
}

// MaxDepth deepest chain of aggregate nested embeddables below this one
func (e *Embeddable) MaxDepth() int {
	depth := 0
	for _, field := range e.Fields {
		if field.Embedded == nil {
			continue
		}
		d := field.Embedded.MaxDepth()
		if field.Aggregate {
			d++
		}
		if d > depth {
			depth = d
		}
	}
	return depth
}

// OrderJdbcValues permutes a flat value array read in physical column order
// into declaration order, recursing into flattened nested embeddables
func (e *Embeddable) OrderJdbcValues(physical []interface{}) ([]interface{}, error) {
	if len(physical) != e.valueCount {
		return nil, fmt.Errorf("%w: %s expects %d values, got %d", ErrValueCount, e.Name, e.valueCount, len(physical))
	}
	if e.orderMapping == nil && !e.hasFlattened() {
		return append([]interface{}(nil), physical...), nil
	}

	ordered := make([]interface{}, 0, len(physical))
	for d, field := range e.Fields {
		start := e.offsets[e.PhysicalIndex(d)]
		if field.IsFlattened() {
			sub, err := field.Embedded.OrderJdbcValues(physical[start : start+field.Embedded.valueCount])
			if err != nil {
				return nil, err
			}
			ordered = append(ordered, sub...)
		} else {
			ordered = append(ordered, physical[start])
		}
	}
	return ordered, nil
}

// PhysicalJdbcValues reverse of OrderJdbcValues
func (e *Embeddable) PhysicalJdbcValues(ordered []interface{}) ([]interface{}, error) {
	if len(ordered) != e.valueCount {
		return nil, fmt.Errorf("%w: %s expects %d values, got %d", ErrValueCount, e.Name, e.valueCount, len(ordered))
	}
	attrs, err := e.Attributes(ordered)
	if err != nil {
		return nil, err
	}
	physical := make([]interface{}, 0, len(ordered))
	for p := range e.Fields {
		d := e.DeclarationIndex(p)
		if field := e.Fields[d]; field.IsFlattened() {
			sub, err := field.Embedded.PhysicalJdbcValues(attrs[d].([]interface{}))
			if err != nil {
				return nil, err
			}
			physical = append(physical, sub...)
		} else {
			physical = append(physical, attrs[d])
		}
	}
	return physical, nil
}

func (e *Embeddable) hasFlattened() bool {
	for _, field := range e.Fields {
		if field.IsFlattened() {
			return true
		}
	}
	return false
}

// Attributes groups a declaration ordered flat array by field, flattened
// nested embeddables receive their own sub slice
func (e *Embeddable) Attributes(flat []interface{}) ([]interface{}, error) {
	if len(flat) != e.valueCount {
		return nil, fmt.Errorf("%w: %s expects %d values, got %d", ErrValueCount, e.Name, e.valueCount, len(flat))
	}
	attrs := make([]interface{}, len(e.Fields))
	pos := 0
	for d, field := range e.Fields {
		if field.IsFlattened() {
			n := field.Embedded.valueCount
			attrs[d] = flat[pos : pos+n : pos+n]
			pos += n
		} else {
			attrs[d] = flat[pos]
			pos++
		}
	}
	return attrs, nil
}

// Assemble builds the domain value from a declaration ordered flat array.
// A flattened nested embeddable whose columns are all null is nil.
func (e *Embeddable) Assemble(flat []interface{}) (interface{}, error) {
	attrs, err := e.Attributes(flat)
	if err != nil {
		return nil, err
	}
	for d, field := range e.Fields {
		if field.Embedded == nil {
			continue
		}
		sub, ok := attrs[d].([]interface{})
		if !ok {
			continue
		}
		if field.IsFlattened() && allNil(sub) {
			attrs[d] = nil
			continue
		}
		if attrs[d], err = field.Embedded.Assemble(sub); err != nil {
			return nil, err
		}
	}
	return e.Instantiate(func(i int) interface{} { return attrs[i] })
}

func allNil(values []interface{}) bool {
	for _, v := range values {
		if v != nil {
			return false
		}
	}
	return true
}

// Instantiate creates the domain value, access returns the value of the
// field with the given declaration index
func (e *Embeddable) Instantiate(access func(i int) interface{}) (interface{}, error) {
	if e.ModelType == nil {
		record := make(Record, len(e.Fields))
		for i, field := range e.Fields {
			record[field.Name] = access(i)
		}
		return record, nil
	}

	reflectValue := reflect.New(e.ModelType)
	for i, field := range e.Fields {
		if err := field.Set(reflectValue.Elem(), access(i)); err != nil {
			return nil, err
		}
	}
	return reflectValue.Interface(), nil
}

// Values declaration indexed attribute values of a domain value, the
// inverse of Instantiate. Records, plain maps and structs are accepted.
func (e *Embeddable) Values(v interface{}) ([]interface{}, error) {
	values := make([]interface{}, len(e.Fields))
	switch data := v.(type) {
	case Record:
		for i, field := range e.Fields {
			values[i] = data[field.Name]
		}
		return values, nil
	case map[string]interface{}:
		for i, field := range e.Fields {
			if value, ok := data[field.Name]; ok {
				values[i] = value
			} else {
				values[i] = data[field.Column]
			}
		}
		return values, nil
	}

	reflectValue := reflect.ValueOf(v)
	for reflectValue.Kind() == reflect.Ptr {
		if reflectValue.IsNil() {
			return nil, fmt.Errorf("nil %v for embeddable %s", reflectValue.Type(), e.Name)
		}
		reflectValue = reflectValue.Elem()
	}
	if reflectValue.Kind() != reflect.Struct || (e.ModelType != nil && reflectValue.Type() != e.ModelType) {
		return nil, fmt.Errorf("unsupported data %T for embeddable %s", v, e.Name)
	}
	for i, field := range e.Fields {
		if e.ModelType == nil {
			fv := reflectValue.FieldByName(field.Name)
			if !fv.IsValid() {
				return nil, fmt.Errorf("embeddable %s: %T has no field %s", e.Name, v, field.Name)
			}
			values[i] = valueOf(fv)
			continue
		}
		values[i] = field.Get(reflectValue)
	}
	return values, nil
}
