package dialect

import (
	"errors"
	"fmt"
	"sort"

	"gorm.io/sqldialect/errtranslator"
	"gorm.io/sqldialect/functions"
	"gorm.io/sqldialect/sqltypes"
)

// Builder assembles a Dialect. It starts from ANSI defaults; vendor setup
// overrides them and Build freezes the result. A Builder is not safe for
// concurrent use.
type Builder struct {
	dialect    Dialect
	functions  *functions.Builder
	aggregates map[sqltypes.Code]AggregateCodec
	errs       []error
}

// NewBuilder creates a builder seeded with ANSI defaults
func NewBuilder(vendor Vendor, info Info) *Builder {
	if info.BytesPerCharacter <= 0 {
		info.BytesPerCharacter = 4
	}

	b := &Builder{
		dialect: Dialect{
			vendor:              vendor,
			version:             info.Version,
			info:                info,
			columnTypes:         map[sqltypes.Code][]columnType{},
			castTypes:           map[sqltypes.Code]string{},
			features:            map[Feature]bool{},
			templates:           map[Template]string{},
			keywords:            map[string]struct{}{},
			openQuote:           '"',
			closeQuote:          '"',
			maxIdentifierLength: 128,
			maxVarcharLength:    255,
			nativePrecision:     1000,
			limit:               LimitStyle{Strategy: OffsetFetchClause},
			locks:               LockStyle{Write: " for update"},
			literals:            ansiLiterals(),
			temporal:            ansiTemporal{},
		},
		functions:  functions.NewBuilder(),
		aggregates: map[sqltypes.Code]AggregateCodec{},
	}
	ansiDefaults(b)
	b.Keywords(ansiKeywords...)
	return b
}

func ansiDefaults(b *Builder) {
	b.ColumnType(sqltypes.Boolean, "boolean").
		ColumnType(sqltypes.Bit, "bit").
		ColumnType(sqltypes.TinyInt, "tinyint").
		ColumnType(sqltypes.SmallInt, "smallint").
		ColumnType(sqltypes.Integer, "integer").
		ColumnType(sqltypes.BigInt, "bigint").
		ColumnType(sqltypes.Float, "float($p)").
		ColumnType(sqltypes.Real, "real").
		ColumnType(sqltypes.Double, "double precision").
		ColumnType(sqltypes.Decimal, "decimal($p,$s)").
		ColumnType(sqltypes.Numeric, "numeric($p,$s)").
		ColumnType(sqltypes.Char, "char($l)").
		ColumnType(sqltypes.NChar, "nchar($l)").
		ColumnType(sqltypes.Varchar, "varchar($l)").
		ColumnType(sqltypes.NVarchar, "nvarchar($l)").
		ColumnType(sqltypes.LongVarchar, "clob").
		ColumnType(sqltypes.LongNVarchar, "nclob").
		ColumnType(sqltypes.Clob, "clob").
		ColumnType(sqltypes.NClob, "nclob").
		ColumnType(sqltypes.Binary, "binary($l)").
		ColumnType(sqltypes.Varbinary, "varbinary($l)").
		ColumnType(sqltypes.LongVarbinary, "blob").
		ColumnType(sqltypes.Blob, "blob").
		ColumnType(sqltypes.Date, "date").
		ColumnType(sqltypes.Time, "time").
		ColumnType(sqltypes.TimeWithTimeZone, "time with time zone").
		ColumnType(sqltypes.TimeUTC, "time with time zone").
		ColumnType(sqltypes.Timestamp, "timestamp($p)").
		ColumnType(sqltypes.TimestampWithTimeZone, "timestamp($p) with time zone").
		ColumnType(sqltypes.TimestampUTC, "timestamp($p) with time zone").
		ColumnType(sqltypes.UUID, "binary(16)").
		ColumnType(sqltypes.Enum, "tinyint").
		ColumnType(sqltypes.NamedEnum, "varchar($l)")

	b.Template(CurrentDate, "current_date").
		Template(CurrentTime, "current_time").
		Template(CurrentTimestamp, "current_timestamp").
		Template(CurrentTimestampWithTimeZone, "current_timestamp").
		Template(NoColumnsInsert, "values ( )").
		Template(CaseInsensitiveLike, "like")

	b.functions.
		RegisterVarargs("coalesce", "coalesce(?*)", ",", 1).
		Register("nullif", "nullif(?1,?2)").
		Register("lower", "lower(?1)").
		Register("upper", "upper(?1)").
		Register("abs", "abs(?1)").
		Register("mod", "mod(?1,?2)").
		Register("sqrt", "sqrt(?1)").
		Register("round", "round(?1,?2)").
		Register("length", "character_length(?1)").
		Register("substring", "substring(?1,?2,?3)").
		Register("trim", "trim(?1)").
		Register("locate", "position(?1 in ?2)").
		RegisterVarargs("concat", "(?*)", "||", 1)
}

// Info server facts the builder was created with
func (b *Builder) Info() Info {
	return b.dialect.info
}

// Version of the database the dialect is built for
func (b *Builder) Version() Version {
	return b.dialect.version
}

// ColumnType sets the DDL pattern of a type code, replacing capacity
// dependent variants
func (b *Builder) ColumnType(code sqltypes.Code, pattern string) *Builder {
	b.dialect.columnTypes[code] = []columnType{{pattern: pattern}}
	return b
}

// CapacityColumnType adds a pattern used up to capacity, e.g. varchar up to
// the maximum varchar length before falling back to text
func (b *Builder) CapacityColumnType(code sqltypes.Code, capacity int64, pattern string) *Builder {
	if capacity <= 0 {
		b.errs = append(b.errs, fmt.Errorf("column type %s: capacity must be positive", code))
		return b
	}
	types := append(b.dialect.columnTypes[code], columnType{pattern: pattern, capacity: capacity})
	sort.SliceStable(types, func(i, j int) bool {
		if types[i].capacity == 0 || types[j].capacity == 0 {
			return types[j].capacity == 0 && types[i].capacity != 0
		}
		return types[i].capacity < types[j].capacity
	})
	b.dialect.columnTypes[code] = types
	return b
}

// CastType sets the type name used in cast(... as ...)
func (b *Builder) CastType(code sqltypes.Code, pattern string) *Builder {
	b.dialect.castTypes[code] = pattern
	return b
}

// Enable turns capabilities on
func (b *Builder) Enable(features ...Feature) *Builder {
	for _, f := range features {
		b.dialect.features[f] = true
	}
	return b
}

// EnableIf turns capabilities on when cond holds
func (b *Builder) EnableIf(cond bool, features ...Feature) *Builder {
	if cond {
		b.Enable(features...)
	}
	return b
}

// Disable turns capabilities off
func (b *Builder) Disable(features ...Feature) *Builder {
	for _, f := range features {
		delete(b.dialect.features, f)
	}
	return b
}

// Template sets a vendor fragment, an empty string removes it
func (b *Builder) Template(t Template, s string) *Builder {
	if s == "" {
		delete(b.dialect.templates, t)
	} else {
		b.dialect.templates[t] = s
	}
	return b
}

// Quotes sets the identifier quote characters
func (b *Builder) Quotes(openQuote, closeQuote byte) *Builder {
	b.dialect.openQuote, b.dialect.closeQuote = openQuote, closeQuote
	return b
}

// Folding sets how unquoted identifiers are stored
func (b *Builder) Folding(f Folding) *Builder {
	b.dialect.folding = f
	return b
}

// MaxIdentifierLength 0 means unlimited
func (b *Builder) MaxIdentifierLength(n int) *Builder {
	b.dialect.maxIdentifierLength = n
	return b
}

// MaxVarcharLength longest varchar in characters
func (b *Builder) MaxVarcharLength(n int) *Builder {
	b.dialect.maxVarcharLength = n
	return b
}

// NativePrecision smallest stored fraction of a second in nanoseconds
func (b *Builder) NativePrecision(nanos int64) *Builder {
	b.dialect.nativePrecision = nanos
	return b
}

// Limit sets the pagination strategy
func (b *Builder) Limit(style LimitStyle) *Builder {
	b.dialect.limit = style
	return b
}

// Locking sets the lock clause strings
func (b *Builder) Locking(style LockStyle) *Builder {
	b.dialect.locks = style
	return b
}

// Literals sets the literal renderers; nil fields keep the current ones
func (b *Builder) Literals(style LiteralStyle) *Builder {
	current := b.dialect.literals
	if style.Binary == nil {
		style.Binary = current.Binary
	}
	if style.Boolean == nil {
		style.Boolean = current.Boolean
	}
	if style.DateTime == nil {
		style.DateTime = current.DateTime
	}
	b.dialect.literals = style
	return b
}

// Temporal sets the extract, timestampadd and timestampdiff patterns
func (b *Builder) Temporal(patterns TemporalPatterns) *Builder {
	b.dialect.temporal = patterns
	return b
}

// SelectNull sets how a typed null is written in a select clause
func (b *Builder) SelectNull(f func(d *Dialect, code sqltypes.Code) string) *Builder {
	b.dialect.selectNull = f
	return b
}

// Aggregate registers the codec of an aggregate column type
func (b *Builder) Aggregate(code sqltypes.Code, codec AggregateCodec) *Builder {
	if !code.IsAggregate() {
		b.errs = append(b.errs, fmt.Errorf("aggregate codec for non aggregate type %s", code))
		return b
	}
	b.aggregates[code] = codec
	return b
}

// Functions the function registry under construction
func (b *Builder) Functions() *functions.Builder {
	return b.functions
}

// Errors sets the error translator
func (b *Builder) Errors(t *errtranslator.Translator) *Builder {
	b.dialect.errors = t
	return b
}

// Build freezes the dialect
func (b *Builder) Build() (*Dialect, error) {
	for _, t := range []Template{CurrentDate, CurrentTime, CurrentTimestamp} {
		if s, ok := b.dialect.templates[t]; ok {
			b.functions.Register(t.String(), s)
		}
	}

	registry, err := b.functions.Build()
	if err != nil {
		b.errs = append(b.errs, err)
	}
	if len(b.errs) > 0 {
		return nil, fmt.Errorf("dialect %s: %w", b.dialect.vendor, errors.Join(b.errs...))
	}

	d := b.dialect
	d.columnTypes = make(map[sqltypes.Code][]columnType, len(b.dialect.columnTypes))
	for code, types := range b.dialect.columnTypes {
		d.columnTypes[code] = append([]columnType(nil), types...)
	}
	d.castTypes = copyMap(b.dialect.castTypes)
	d.features = copyMap(b.dialect.features)
	d.templates = copyMap(b.dialect.templates)
	d.keywords = copyMap(b.dialect.keywords)
	if d.errors == nil {
		d.errors = errtranslator.For(string(d.vendor))
	}
	d.functions = registry
	d.types = newTypeRegistry(&d, b.aggregates)
	return &d, nil
}

func copyMap[K comparable, V any](m map[K]V) map[K]V {
	c := make(map[K]V, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}
