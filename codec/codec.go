// Package codec converts nested records (embeddables) to and from the two
// textual representations databases use for structured columns: the
// PostgreSQL composite type text format and JSON objects.
package codec

import (
	"reflect"

	"gorm.io/sqldialect/schema"
)

// Codec textual representation of an embeddable
type Codec interface {
	Embeddable() *schema.Embeddable
	Encode(v interface{}) (string, error)
	Decode(s string) (interface{}, error)
	DecodeValues(s string) ([]interface{}, error)
}

var (
	_ Codec = (*Composite)(nil)
	_ Codec = (*JSON)(nil)
)

// attributeValues declaration indexed field values of v, which is either a
// declaration ordered flat value array or a domain value; nil for nil v
func attributeValues(e *schema.Embeddable, v interface{}) ([]interface{}, error) {
	if isNil(v) {
		return nil, nil
	}
	if flat, ok := v.([]interface{}); ok {
		return e.Attributes(flat)
	}
	return e.Values(v)
}

func isNil(v interface{}) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
