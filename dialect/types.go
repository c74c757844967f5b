package dialect

import (
	"sort"

	"gorm.io/sqldialect/codec"
	"gorm.io/sqldialect/schema"
	"gorm.io/sqldialect/sqltypes"
)

// AggregateCodec creates the codec of an embeddable stored in one column
type AggregateCodec func(e *schema.Embeddable, opts *codec.Options) codec.Codec

// StructCodec composite type text, as used by PostgreSQL record I/O
func StructCodec(e *schema.Embeddable, opts *codec.Options) codec.Codec {
	return codec.NewComposite(e, opts)
}

// JSONCodec JSON object text
func JSONCodec(e *schema.Embeddable, opts *codec.Options) codec.Codec {
	return codec.NewJSON(e, opts)
}

// TypeHandler what a dialect knows about one type code
type TypeHandler struct {
	Code sqltypes.Code
	// ColumnType DDL type with default size, empty for struct types, which
	// are named after their embeddable
	ColumnType string
	CastType   string
	Aggregate  AggregateCodec
}

// TypeRegistry frozen type code to handler registry
type TypeRegistry struct {
	handlers map[sqltypes.Code]TypeHandler
	codes    []sqltypes.Code
}

func newTypeRegistry(d *Dialect, aggregates map[sqltypes.Code]AggregateCodec) *TypeRegistry {
	r := &TypeRegistry{handlers: map[sqltypes.Code]TypeHandler{}}
	for code := range d.columnTypes {
		columnType, _ := d.ColumnType(code, Size{})
		castType, _ := d.CastType(code)
		r.handlers[code] = TypeHandler{Code: code, ColumnType: columnType, CastType: castType}
	}
	for code, aggregate := range aggregates {
		if code == sqltypes.Struct && !d.Supports(StructAggregates) {
			continue
		}
		if code == sqltypes.JSON && !d.Supports(JSONAggregates) {
			continue
		}
		handler := r.handlers[code]
		handler.Code = code
		handler.Aggregate = aggregate
		r.handlers[code] = handler
	}
	for code := range r.handlers {
		r.codes = append(r.codes, code)
	}
	sort.Slice(r.codes, func(i, j int) bool { return r.codes[i] < r.codes[j] })
	return r
}

// Lookup handler of a type code
func (r *TypeRegistry) Lookup(code sqltypes.Code) (TypeHandler, bool) {
	h, ok := r.handlers[code]
	return h, ok
}

// Codec aggregate codec for an embeddable stored in a column of type code
func (r *TypeRegistry) Codec(code sqltypes.Code, e *schema.Embeddable, opts *codec.Options) (codec.Codec, bool) {
	h, ok := r.handlers[code]
	if !ok || h.Aggregate == nil {
		return nil, false
	}
	return h.Aggregate(e, opts), true
}

// Codes registered type codes, sorted
func (r *TypeRegistry) Codes() []sqltypes.Code {
	return append([]sqltypes.Code(nil), r.codes...)
}
