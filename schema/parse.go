package schema

import (
	"database/sql"
	"fmt"
	"go/ast"
	"reflect"
	"strconv"
	"sync"

	"gorm.io/sqldialect/sqltypes"
)

// TagName struct tag read by Parse
const TagName = "sqldialect"

// TypeNamer lets a struct choose the name of its aggregate type
type TypeNamer interface {
	TypeName() string
}

// Parse builds the embeddable of a struct, results are cached in cacheStore
// by type. Supported tag settings:
//
//	column:name;type:varchar;size:20;precision:10;scale:2;order:1;aggregate;embeddedPrefix:p_;enum:A,B;element:integer;not null;-
func Parse(dest interface{}, cacheStore *sync.Map, namer Namer) (*Embeddable, error) {
	if dest == nil {
		return nil, fmt.Errorf("unsupported data %+v when parsing embeddable", dest)
	}

	modelType, ok := dest.(reflect.Type)
	if !ok {
		modelType = reflect.ValueOf(dest).Type()
	}
	for modelType.Kind() == reflect.Slice || modelType.Kind() == reflect.Ptr {
		modelType = modelType.Elem()
	}

	if modelType.Kind() != reflect.Struct {
		if modelType.PkgPath() == "" {
			return nil, fmt.Errorf("unsupported data %+v when parsing embeddable", dest)
		}
		return nil, fmt.Errorf("unsupported data type %v when parsing embeddable", modelType.PkgPath())
	}
	if namer == nil {
		namer = NamingStrategy{}
	}

	return parse(modelType, cacheStore, namer, map[reflect.Type]bool{})
}

func parse(modelType reflect.Type, cacheStore *sync.Map, namer Namer, parsing map[reflect.Type]bool) (*Embeddable, error) {
	if v, ok := cacheStore.Load(modelType); ok {
		return v.(*Embeddable), nil
	}
	if parsing[modelType] {
		return nil, fmt.Errorf("embeddable %v contains itself", modelType)
	}
	parsing[modelType] = true
	defer delete(parsing, modelType)

	var (
		fields     []*Field
		positions  []int
		hasOrder   bool
		modelValue = reflect.New(modelType)
		typeName   = namer.TypeName(modelType.Name())
	)
	if tn, ok := modelValue.Interface().(TypeNamer); ok {
		typeName = tn.TypeName()
	}

	for i := 0; i < modelType.NumField(); i++ {
		fieldStruct := modelType.Field(i)
		if !ast.IsExported(fieldStruct.Name) {
			continue
		}

		tagSetting := ParseTagSetting(fieldStruct.Tag.Get(TagName), ";")
		if _, ok := tagSetting["-"]; ok {
			continue
		}

		field, err := parseField(modelType, fieldStruct, tagSetting, cacheStore, namer, parsing)
		if err != nil {
			return nil, err
		}

		position := -1
		if val, ok := tagSetting["ORDER"]; ok {
			if position, err = strconv.Atoi(val); err != nil {
				return nil, fmt.Errorf("invalid order %q on %v.%s", val, modelType, fieldStruct.Name)
			}
			hasOrder = true
		}
		positions = append(positions, position)
		fields = append(fields, field)
	}

	var orderMapping []int
	if hasOrder {
		orderMapping = make([]int, len(fields))
		for i := range orderMapping {
			orderMapping[i] = -1
		}
		for decl, position := range positions {
			if position < 0 || position >= len(fields) {
				return nil, fmt.Errorf("%w: %v.%s has order %d", ErrInvalidOrderMapping, modelType, fields[decl].Name, position)
			}
			if orderMapping[position] != -1 {
				return nil, fmt.Errorf("%w: %v position %d used twice", ErrInvalidOrderMapping, modelType, position)
			}
			orderMapping[position] = decl
		}
	}

	e, err := newEmbeddable(modelType.Name(), typeName, modelType, fields, orderMapping)
	if err != nil {
		return nil, err
	}

	if v, loaded := cacheStore.LoadOrStore(modelType, e); loaded {
		return v.(*Embeddable), nil
	}
	return e, nil
}

func parseField(modelType reflect.Type, fieldStruct reflect.StructField, tagSetting map[string]string, cacheStore *sync.Map, namer Namer, parsing map[reflect.Type]bool) (*Field, error) {
	field := &Field{
		Name:        fieldStruct.Name,
		Column:      tagSetting["COLUMN"],
		GoType:      fieldStruct.Type,
		StructField: fieldStruct,
		TagSettings: tagSetting,
	}
	if field.Column == "" {
		field.Column = namer.ColumnName(modelType.Name(), fieldStruct.Name)
	}

	fieldType := fieldStruct.Type
	for fieldType.Kind() == reflect.Ptr {
		fieldType = fieldType.Elem()
	}

	if val, ok := tagSetting["TYPE"]; ok {
		code, err := sqltypes.ParseCode(val)
		if err != nil {
			return nil, fmt.Errorf("%v.%s: %w", modelType, fieldStruct.Name, err)
		}
		field.Type = code
	}

	if fieldType.Kind() == reflect.Struct && !isLeafStruct(fieldType) {
		embedded, err := parse(fieldType, cacheStore, namer, parsing)
		if err != nil {
			return nil, err
		}
		field.Embedded = embedded
		field.Aggregate = field.Type.IsAggregate()
		if val, ok := tagSetting["AGGREGATE"]; ok && checkTruth(val) {
			field.Aggregate = true
		}
		if field.Aggregate && field.Type == sqltypes.Unknown {
			field.Type = sqltypes.Struct
		}
		if !field.Aggregate {
			field.Type = sqltypes.Unknown
			field.EmbeddedPrefix = tagSetting["EMBEDDEDPREFIX"]
		}
		return field, nil
	}

	if field.Type == sqltypes.Unknown {
		code, ok := inferType(fieldType)
		if !ok {
			return nil, fmt.Errorf("unsupported field type %v of %v.%s", fieldStruct.Type, modelType, fieldStruct.Name)
		}
		field.Type = code
	}

	if field.Type == sqltypes.Array {
		if val, ok := tagSetting["ELEMENT"]; ok {
			code, err := sqltypes.ParseCode(val)
			if err != nil {
				return nil, fmt.Errorf("%v.%s: %w", modelType, fieldStruct.Name, err)
			}
			field.ElementType = code
		} else if fieldType.Kind() == reflect.Slice || fieldType.Kind() == reflect.Array {
			code, ok := inferType(fieldType.Elem())
			if !ok || code == sqltypes.Array {
				return nil, fmt.Errorf("unsupported element type %v of %v.%s", fieldType.Elem(), modelType, fieldStruct.Name)
			}
			field.ElementType = code
		}
	}

	field.EnumValues = toList(tagSetting["ENUM"])

	var err error
	if val, ok := tagSetting["SIZE"]; ok {
		if field.Length, err = strconv.Atoi(val); err != nil {
			return nil, fmt.Errorf("invalid size %q on %v.%s", val, modelType, fieldStruct.Name)
		}
	}
	if val, ok := tagSetting["PRECISION"]; ok {
		if field.Precision, err = strconv.Atoi(val); err != nil {
			return nil, fmt.Errorf("invalid precision %q on %v.%s", val, modelType, fieldStruct.Name)
		}
	}
	if val, ok := tagSetting["SCALE"]; ok {
		if field.Scale, err = strconv.Atoi(val); err != nil {
			return nil, fmt.Errorf("invalid scale %q on %v.%s", val, modelType, fieldStruct.Name)
		}
	}
	if val, ok := tagSetting["NOT NULL"]; ok && checkTruth(val) {
		field.NotNull = true
	}

	return field, nil
}

func isLeafStruct(t reflect.Type) bool {
	switch t {
	case TimeReflectType, DecimalReflectType, UUIDReflectType:
		return true
	}
	return reflect.PointerTo(t).Implements(scannerType)
}

var scannerType = reflect.TypeOf((*sql.Scanner)(nil)).Elem()

// Get reads the field from a struct value of the owning embeddable; nil
// pointers read as nil and enums stored in integer Go types as their name
func (field *Field) Get(structValue reflect.Value) interface{} {
	return field.valueOf(structValue.FieldByIndex(field.StructField.Index))
}

func (field *Field) valueOf(fv reflect.Value) interface{} {
	for fv.Kind() == reflect.Ptr {
		if fv.IsNil() {
			return nil
		}
		fv = fv.Elem()
	}
	if field.IsEnum() {
		switch fv.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			if name, err := field.EnumName(fv.Int()); err == nil {
				return name
			}
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			if name, err := field.EnumName(int64(fv.Uint())); err == nil {
				return name
			}
		}
	}
	if fv.Kind() == reflect.Slice && fv.IsNil() {
		return nil
	}
	return fv.Interface()
}

func valueOf(fv reflect.Value) interface{} {
	return (&Field{}).valueOf(fv)
}

// Set assigns v, a codec value, to the field of an addressable struct value
func (field *Field) Set(structValue reflect.Value, v interface{}) error {
	fv := structValue.FieldByIndex(field.StructField.Index)
	if err := field.assign(fv, v); err != nil {
		return fmt.Errorf("failed to set value %#v to field %s: %w", v, field, err)
	}
	return nil
}

func (field *Field) assign(fv reflect.Value, v interface{}) error {
	if v == nil {
		fv.Set(reflect.Zero(fv.Type()))
		return nil
	}

	rv := reflect.ValueOf(v)
	if rv.Type().AssignableTo(fv.Type()) {
		fv.Set(rv)
		return nil
	}

	switch fv.Kind() {
	case reflect.Ptr:
		elem := reflect.New(fv.Type().Elem())
		if err := field.assign(elem.Elem(), v); err != nil {
			return err
		}
		fv.Set(elem)
		return nil
	case reflect.Slice:
		if values, ok := v.([]interface{}); ok && fv.Type() != BytesReflectType {
			slice := reflect.MakeSlice(fv.Type(), len(values), len(values))
			for i, value := range values {
				if err := field.assign(slice.Index(i), value); err != nil {
					return err
				}
			}
			fv.Set(slice)
			return nil
		}
	}

	if rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			fv.Set(reflect.Zero(fv.Type()))
			return nil
		}
		return field.assign(fv, rv.Elem().Interface())
	}

	if fv.CanAddr() {
		if scanner, ok := fv.Addr().Interface().(sql.Scanner); ok {
			return scanner.Scan(v)
		}
	}

	if field.IsEnum() {
		switch fv.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			if name, ok := v.(string); ok {
				ordinal, found := field.EnumOrdinal(name)
				if !found {
					return fmt.Errorf("unknown enum constant %q", name)
				}
				return field.assign(fv, int64(ordinal))
			}
		case reflect.String:
			if rv.Kind() >= reflect.Int && rv.Kind() <= reflect.Int64 {
				name, err := field.EnumName(rv.Int())
				if err != nil {
					return err
				}
				fv.SetString(name)
				return nil
			}
		}
	}

	if fv.Kind() == reflect.String && rv.Kind() != reflect.String {
		return fmt.Errorf("cannot convert %T to %v", v, fv.Type())
	}
	if rv.Type().ConvertibleTo(fv.Type()) {
		fv.Set(rv.Convert(fv.Type()))
		return nil
	}
	return fmt.Errorf("cannot convert %T to %v", v, fv.Type())
}
