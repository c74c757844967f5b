package codec

import (
	"database/sql/driver"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"gorm.io/sqldialect/schema"
	"gorm.io/sqldialect/sqltypes"
)

type format int

const (
	compositeFormat format = iota
	jsonFormat
)

func (f format) String() string {
	if f == jsonFormat {
		return "json"
	}
	return "composite"
}

var errNull = errors.New("null")

// leafValue canonical representation of a leaf value: bool, int64, float64,
// decimal.Decimal, string, []byte, uuid.UUID, time.Time or []interface{}
type leafValue struct {
	field *schema.Field
	value interface{}
}

func invalid(field *schema.Field, value interface{}, err error) error {
	return &ValueError{Field: field.String(), Kind: field.Type, Value: value, Err: err}
}

// normalize converts a domain value into the canonical representation of
// its field, errNull is returned for values that encode as null
func normalize(field *schema.Field, value interface{}, f format, loc *time.Location) (leafValue, error) {
	if value == nil {
		return leafValue{}, errNull
	}
	code := field.Type

	switch {
	case field.IsBoolean():
		b, ok, err := toBool(value)
		if err != nil {
			return leafValue{}, invalid(field, value, err)
		} else if !ok {
			return leafValue{}, errNull
		}
		return leafValue{field, b}, nil
	case field.IsEnum():
		name, ok, err := toEnum(field, value)
		if err != nil {
			return leafValue{}, invalid(field, value, err)
		} else if !ok {
			return leafValue{}, errNull
		}
		return leafValue{field, name}, nil
	case code.IsInteger():
		i, ok, err := toInt64(value)
		if err != nil {
			return leafValue{}, invalid(field, value, err)
		} else if !ok {
			return leafValue{}, errNull
		}
		return leafValue{field, i}, nil
	case code.IsFloat():
		fl, ok, err := toFloat64(value)
		if err != nil {
			return leafValue{}, invalid(field, value, err)
		} else if !ok {
			return leafValue{}, errNull
		}
		return leafValue{field, fl}, nil
	case code.IsDecimal():
		d, ok, err := toDecimal(value)
		if err != nil {
			return leafValue{}, invalid(field, value, err)
		} else if !ok {
			return leafValue{}, errNull
		}
		return leafValue{field, d}, nil
	case code.IsCharacter(), code == sqltypes.Interval, code == sqltypes.JSON:
		s, ok, err := toString(value)
		if err != nil {
			return leafValue{}, invalid(field, value, err)
		} else if !ok {
			return leafValue{}, errNull
		}
		return leafValue{field, s}, nil
	case code.IsBinary():
		b, ok, err := toBytes(value)
		if err != nil {
			return leafValue{}, invalid(field, value, err)
		} else if !ok {
			return leafValue{}, errNull
		}
		return leafValue{field, b}, nil
	case code == sqltypes.UUID:
		u, ok, err := toUUID(value)
		if err != nil {
			return leafValue{}, invalid(field, value, err)
		} else if !ok {
			return leafValue{}, errNull
		}
		return leafValue{field, u}, nil
	case code.IsTemporal():
		t, ok, err := toTime(value, loc)
		if err != nil {
			return leafValue{}, invalid(field, value, err)
		} else if !ok {
			return leafValue{}, errNull
		}
		return leafValue{field, t}, nil
	case code == sqltypes.Array:
		if field.ElementType == sqltypes.Array || field.ElementType.IsAggregate() || field.ElementType == sqltypes.Unknown {
			return leafValue{}, &UnsupportedKindError{Format: f.String(), Field: field.String(), Kind: field.ElementType}
		}
		values, ok, err := toSlice(value)
		if err != nil {
			return leafValue{}, invalid(field, value, err)
		} else if !ok {
			return leafValue{}, errNull
		}
		return leafValue{field, values}, nil
	}
	return leafValue{}, &UnsupportedKindError{Format: f.String(), Field: field.String(), Kind: code}
}

// unwrap resolves pointers and driver.Valuer implementations, reporting
// false for nil
func unwrap(value interface{}) (interface{}, bool, error) {
	for i := 0; i < 8; i++ {
		if value == nil {
			return nil, false, nil
		}
		switch value.(type) {
		case time.Time, decimal.Decimal, uuid.UUID, []byte:
			return value, true, nil
		}
		if valuer, ok := value.(driver.Valuer); ok {
			rv := reflect.ValueOf(value)
			if rv.Kind() == reflect.Ptr && rv.IsNil() {
				return nil, false, nil
			}
			v, err := valuer.Value()
			if err != nil {
				return nil, false, err
			}
			value = v
			continue
		}
		rv := reflect.ValueOf(value)
		if rv.Kind() != reflect.Ptr {
			return value, true, nil
		}
		if rv.IsNil() {
			return nil, false, nil
		}
		value = rv.Elem().Interface()
	}
	return nil, false, fmt.Errorf("too many indirections for %T", value)
}

func toBool(value interface{}) (bool, bool, error) {
	value, ok, err := unwrap(value)
	if !ok || err != nil {
		return false, ok, err
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Bool:
		return rv.Bool(), true, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0, true, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint() != 0, true, nil
	case reflect.String:
		b, err := parseBool(rv.String())
		return b, err == nil, err
	}
	return false, false, fmt.Errorf("cannot convert %T to bool", value)
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "t", "true", "y", "yes", "1", "on":
		return true, nil
	case "f", "false", "n", "no", "0", "off":
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean literal %q", s)
}

func toInt64(value interface{}) (int64, bool, error) {
	value, ok, err := unwrap(value)
	if !ok || err != nil {
		return 0, ok, err
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), true, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return 0, false, fmt.Errorf("%d overflows int64", u)
		}
		return int64(u), true, nil
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if f != math.Trunc(f) || f > math.MaxInt64 || f < math.MinInt64 {
			return 0, false, fmt.Errorf("%v is not an integer", f)
		}
		return int64(f), true, nil
	case reflect.Bool:
		if rv.Bool() {
			return 1, true, nil
		}
		return 0, true, nil
	case reflect.String:
		i, err := strconv.ParseInt(strings.TrimSpace(rv.String()), 10, 64)
		return i, err == nil, err
	}
	if d, ok := value.(decimal.Decimal); ok && d.IsInteger() {
		return d.IntPart(), true, nil
	}
	return 0, false, fmt.Errorf("cannot convert %T to integer", value)
}

func toFloat64(value interface{}) (float64, bool, error) {
	value, ok, err := unwrap(value)
	if !ok || err != nil {
		return 0, ok, err
	}
	if d, ok := value.(decimal.Decimal); ok {
		f, _ := d.Float64()
		return f, true, nil
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true, nil
	case reflect.String:
		f, err := strconv.ParseFloat(strings.TrimSpace(rv.String()), 64)
		return f, err == nil, err
	}
	return 0, false, fmt.Errorf("cannot convert %T to float", value)
}

func toDecimal(value interface{}) (decimal.Decimal, bool, error) {
	value, ok, err := unwrap(value)
	if !ok || err != nil {
		return decimal.Decimal{}, ok, err
	}
	if d, ok := value.(decimal.Decimal); ok {
		return d, true, nil
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return decimal.Decimal{}, false, fmt.Errorf("%v is not a decimal", f)
		}
		return decimal.NewFromFloat(f), true, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return decimal.NewFromInt(rv.Int()), true, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		d, err := decimal.NewFromString(strconv.FormatUint(rv.Uint(), 10))
		return d, err == nil, err
	case reflect.String:
		d, err := decimal.NewFromString(strings.TrimSpace(rv.String()))
		return d, err == nil, err
	}
	return decimal.Decimal{}, false, fmt.Errorf("cannot convert %T to decimal", value)
}

func toString(value interface{}) (string, bool, error) {
	value, ok, err := unwrap(value)
	if !ok || err != nil {
		return "", ok, err
	}
	switch v := value.(type) {
	case string:
		return v, true, nil
	case []byte:
		return string(v), true, nil
	case fmt.Stringer:
		return v.String(), true, nil
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.String:
		return rv.String(), true, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), true, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10), true, nil
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'g', -1, 64), true, nil
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool()), true, nil
	}
	return "", false, fmt.Errorf("cannot convert %T to string", value)
}

func toBytes(value interface{}) ([]byte, bool, error) {
	value, ok, err := unwrap(value)
	if !ok || err != nil {
		return nil, ok, err
	}
	switch v := value.(type) {
	case []byte:
		return v, true, nil
	case string:
		return []byte(v), true, nil
	}
	rv := reflect.ValueOf(value)
	if (rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array) && rv.Type().Elem().Kind() == reflect.Uint8 {
		b := make([]byte, rv.Len())
		reflect.Copy(reflect.ValueOf(b), rv)
		return b, true, nil
	}
	return nil, false, fmt.Errorf("cannot convert %T to bytes", value)
}

func toUUID(value interface{}) (uuid.UUID, bool, error) {
	value, ok, err := unwrap(value)
	if !ok || err != nil {
		return uuid.Nil, ok, err
	}
	switch v := value.(type) {
	case uuid.UUID:
		return v, true, nil
	case [16]byte:
		return uuid.UUID(v), true, nil
	case []byte:
		if len(v) == 16 {
			u, err := uuid.FromBytes(v)
			return u, err == nil, err
		}
		u, err := uuid.ParseBytes(v)
		return u, err == nil, err
	case string:
		u, err := uuid.Parse(v)
		return u, err == nil, err
	}
	return uuid.Nil, false, fmt.Errorf("cannot convert %T to uuid", value)
}

func toEnum(field *schema.Field, value interface{}) (string, bool, error) {
	value, ok, err := unwrap(value)
	if !ok || err != nil {
		return "", ok, err
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.String:
		name := rv.String()
		if _, found := field.EnumOrdinal(name); !found {
			return "", false, fmt.Errorf("unknown constant %q", name)
		}
		return name, true, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		name, err := field.EnumName(rv.Int())
		return name, err == nil, err
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		name, err := field.EnumName(int64(rv.Uint()))
		return name, err == nil, err
	}
	return "", false, fmt.Errorf("cannot convert %T to enum", value)
}

func toSlice(value interface{}) ([]interface{}, bool, error) {
	if values, ok := value.([]interface{}); ok {
		return values, true, nil
	}
	value, ok, err := unwrap(value)
	if !ok || err != nil {
		return nil, ok, err
	}
	if values, ok := value.([]interface{}); ok {
		return values, true, nil
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false, fmt.Errorf("cannot convert %T to array", value)
	}
	if rv.Kind() == reflect.Slice && rv.IsNil() {
		return nil, false, nil
	}
	values := make([]interface{}, rv.Len())
	for i := range values {
		values[i] = rv.Index(i).Interface()
	}
	return values, true, nil
}

// parseLeaf decodes the textual form of a leaf into its canonical value.
// quoted reports whether the text came from a quoted field.
func parseLeaf(field *schema.Field, text string, quoted bool, f format, loc *time.Location) (interface{}, error) {
	code := field.Type

	switch {
	case field.IsBoolean():
		b, err := parseBool(text)
		if err != nil {
			return nil, invalid(field, text, err)
		}
		return b, nil
	case field.IsEnum():
		if code.IsInteger() {
			ordinal, err := strconv.ParseInt(text, 10, 64)
			if err != nil {
				return nil, invalid(field, text, err)
			}
			name, err := field.EnumName(ordinal)
			if err != nil {
				return nil, invalid(field, text, err)
			}
			return name, nil
		}
		if _, found := field.EnumOrdinal(text); !found {
			return nil, invalid(field, text, fmt.Errorf("unknown constant %q", text))
		}
		return text, nil
	case code.IsInteger():
		i, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return nil, invalid(field, text, err)
		}
		return i, nil
	case code.IsFloat():
		fl, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, invalid(field, text, err)
		}
		return fl, nil
	case code.IsDecimal():
		d, err := decimal.NewFromString(text)
		if err != nil {
			return nil, invalid(field, text, err)
		}
		return d, nil
	case code.IsCharacter(), code == sqltypes.Interval, code == sqltypes.JSON:
		return text, nil
	case code.IsBinary():
		if f == compositeFormat {
			if !strings.HasPrefix(text, `\x`) {
				return nil, invalid(field, text, errors.New(`missing \x prefix`))
			}
			text = text[2:]
		}
		b, err := hex.DecodeString(text)
		if err != nil {
			return nil, invalid(field, text, err)
		}
		return b, nil
	case code == sqltypes.UUID:
		u, err := uuid.Parse(text)
		if err != nil {
			return nil, invalid(field, text, err)
		}
		return u, nil
	case code.IsTemporal():
		t, err := parseTemporal(code, text, loc)
		if err != nil {
			return nil, invalid(field, text, err)
		}
		return t, nil
	case code == sqltypes.Array:
		if f == compositeFormat && quoted {
			return parseArray(field.ElementField(), text, loc)
		}
	}
	return nil, &UnsupportedKindError{Format: f.String(), Field: field.String(), Kind: code}
}
