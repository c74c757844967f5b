package codec_test

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gorm.io/sqldialect/codec"
	"gorm.io/sqldialect/schema"
	"gorm.io/sqldialect/sqltypes"
)

func assertDeepEqual(t *testing.T, want, got interface{}) {
	t.Helper()
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

// outer{a:int, b:text, c:inner{x:int, y:text}} with c stored as a nested struct
func workedExample() *schema.Embeddable {
	inner := schema.MustEmbeddable("inner", []*schema.Field{
		schema.Leaf("x", sqltypes.Integer),
		schema.Leaf("y", sqltypes.Varchar),
	}, nil)
	return schema.MustEmbeddable("outer", []*schema.Field{
		schema.Leaf("a", sqltypes.Integer),
		schema.Leaf("b", sqltypes.Varchar),
		schema.Nested("c", inner, true),
	}, nil)
}

func workedValue() schema.Record {
	return schema.Record{"a": int64(1), "b": "O'Brien", "c": schema.Record{"x": int64(2), "y": "hi"}}
}

func allKinds() *schema.Embeddable {
	return schema.MustEmbeddable("kinds", []*schema.Field{
		schema.BooleanLeaf("flag", sqltypes.Boolean),
		schema.BooleanLeaf("yes", sqltypes.Integer),
		schema.BooleanLeaf("yn", sqltypes.Char),
		schema.Leaf("small", sqltypes.SmallInt),
		schema.Leaf("big", sqltypes.BigInt),
		schema.Leaf("ratio", sqltypes.Double),
		schema.Leaf("price", sqltypes.Numeric),
		schema.Leaf("name", sqltypes.Varchar),
		schema.Leaf("empty", sqltypes.Varchar),
		schema.Leaf("missing", sqltypes.Varchar),
		schema.Leaf("data", sqltypes.Varbinary),
		schema.Leaf("id", sqltypes.UUID),
		schema.Leaf("day", sqltypes.Date),
		schema.Leaf("clock", sqltypes.Time),
		schema.Leaf("at", sqltypes.Timestamp),
		schema.Leaf("atz", sqltypes.TimestampWithTimeZone),
		schema.Leaf("utc", sqltypes.TimestampUTC),
		schema.EnumLeaf("status", sqltypes.Integer, "A", "B", "C"),
		schema.EnumLeaf("kind", sqltypes.Varchar, "X", "Y"),
		schema.ArrayLeaf("tags", sqltypes.Varchar),
		schema.ArrayLeaf("nums", sqltypes.Integer),
	}, nil)
}

func allKindsValue() schema.Record {
	return schema.Record{
		"flag":    true,
		"yes":     true,
		"yn":      false,
		"small":   int64(-7),
		"big":     int64(1 << 40),
		"ratio":   1.5,
		"price":   decimal.RequireFromString("12.34"),
		"name":    `He said "hi" \ bye, (ok)`,
		"empty":   "",
		"missing": nil,
		"data":    []byte{0x00, 0xff, 0x10},
		"id":      uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8"),
		"day":     time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
		"clock":   time.Date(0, 1, 1, 13, 45, 30, 0, time.UTC),
		"at":      time.Date(2024, 1, 2, 3, 4, 5, 6000, time.UTC),
		"atz":     time.Date(2024, 1, 2, 3, 4, 5, 0, time.FixedZone("", 2*3600)),
		"utc":     time.Date(2023, 12, 31, 23, 59, 59, 999000000, time.UTC),
		"status":  "C",
		"kind":    "Y",
		"tags":    []interface{}{"a", nil, `q"b`},
		"nums":    []interface{}{int64(1), int64(2)},
	}
}

func chain(depth int) *schema.Embeddable {
	e := schema.MustEmbeddable("level0", []*schema.Field{schema.Leaf("v", sqltypes.Varchar)}, nil)
	for i := 1; i <= depth; i++ {
		e = schema.MustEmbeddable(fmt.Sprintf("level%d", i), []*schema.Field{schema.Nested("n", e, true)}, nil)
	}
	return e
}

func chainValue(depth int, v interface{}) schema.Record {
	r := schema.Record{"v": v}
	for i := 1; i <= depth; i++ {
		r = schema.Record{"n": r}
	}
	return r
}

func TestCompositeWorkedExample(t *testing.T) {
	c := codec.NewComposite(workedExample(), nil)

	text, err := c.Encode(workedValue())
	require.NoError(t, err)
	assert.Equal(t, `(1,"O'Brien","(2,""hi"")")`, text)

	for _, s := range []string{text, `(1,"O'Brien","(2,hi)")`} {
		v, err := c.Decode(s)
		require.NoError(t, err, s)
		assertDeepEqual(t, workedValue(), v)
	}

	values, err := c.DecodeValues(text)
	require.NoError(t, err)
	assertDeepEqual(t, []interface{}{int64(1), "O'Brien", []interface{}{int64(2), "hi"}}, values)

	again, err := c.Encode(values)
	require.NoError(t, err)
	assert.Equal(t, text, again)
}

func TestCompositeRoundTripAllKinds(t *testing.T) {
	c := codec.NewComposite(allKinds(), nil)

	text, err := c.Encode(allKindsValue())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(text, `(t,1,N,-7,1099511627776,1.5,12.34,"He said ""hi"" \\ bye, (ok)","",,"\\x00ff10",6ba7b810-9dad-11d1-80b4-00c04fd430c8,"2024-02-29",`), text)
	assert.Contains(t, text, `,2,"Y","{""a"",NULL,""q\\""b""}","{1,2}")`)

	v, err := c.Decode(text)
	require.NoError(t, err)
	assertDeepEqual(t, allKindsValue(), v)
}

func TestCompositeQuoteSymmetry(t *testing.T) {
	for n := 0; n <= 3; n++ {
		t.Run(fmt.Sprintf("level%d", n), func(t *testing.T) {
			c := codec.NewComposite(chain(n), nil)
			text, err := c.Encode(chainValue(n, `a"b`))
			require.NoError(t, err)

			boundary := strings.Repeat(`"`, 1<<n)
			escaped := "a" + strings.Repeat(`"`, 1<<(n+1)) + "b"
			assert.Contains(t, text, "("+boundary+"a")
			assert.Contains(t, text, escaped)

			v, err := c.Decode(text)
			require.NoError(t, err)
			assertDeepEqual(t, chainValue(n, `a"b`), v)

			broken := strings.Replace(text, escaped, "a"+strings.Repeat(`"`, 1<<(n+1)-1)+"b", 1)
			_, err = c.Decode(broken)
			assert.Error(t, err, broken)
		})
	}

	text, err := codec.NewComposite(chain(0), nil).Encode(chainValue(0, `a"b`))
	require.NoError(t, err)
	assert.Equal(t, `("a""b")`, text)

	text, err = codec.NewComposite(chain(1), nil).Encode(chainValue(1, `a"b`))
	require.NoError(t, err)
	assert.Equal(t, `("(""a""""b"")")`, text)

	text, err = codec.NewComposite(chain(1), nil).Encode(chainValue(1, `a\b`))
	require.NoError(t, err)
	assert.Equal(t, `("(""a\\\\b"")")`, text)
}

func TestCompositeNesting(t *testing.T) {
	deepest := chain(codec.MaxNestingLevel)
	c := codec.NewComposite(deepest, nil)
	text, err := c.Encode(chainValue(codec.MaxNestingLevel, "v"))
	require.NoError(t, err)
	v, err := c.Decode(text)
	require.NoError(t, err)
	assertDeepEqual(t, chainValue(codec.MaxNestingLevel, "v"), v)

	_, err = codec.NewComposite(chain(codec.MaxNestingLevel+1), nil).Encode(chainValue(codec.MaxNestingLevel+1, "v"))
	assert.True(t, errors.Is(err, codec.ErrNestingTooDeep), "got %v", err)

	_, err = codec.NewJSON(chain(codec.MaxNestingLevel+1), nil).Encode(chainValue(codec.MaxNestingLevel+1, "v"))
	assert.True(t, errors.Is(err, codec.ErrNestingTooDeep), "got %v", err)
}

func TestCompositeFlattenedAndOrderMapping(t *testing.T) {
	point := schema.MustEmbeddable("point", []*schema.Field{
		schema.Leaf("x", sqltypes.Integer),
		schema.Leaf("y", sqltypes.Integer),
	}, nil)
	e := schema.MustEmbeddable("located", []*schema.Field{
		schema.Leaf("a", sqltypes.Integer),
		schema.Nested("pos", point, false),
		schema.Leaf("b", sqltypes.Varchar),
	}, []int{2, 0, 1})
	c := codec.NewComposite(e, nil)

	value := schema.Record{"a": int64(1), "pos": schema.Record{"x": int64(2), "y": int64(3)}, "b": "z"}
	text, err := c.Encode(value)
	require.NoError(t, err)
	assert.Equal(t, `("z",1,2,3)`, text)

	v, err := c.Decode(text)
	require.NoError(t, err)
	assertDeepEqual(t, value, v)

	values, err := c.DecodeValues(text)
	require.NoError(t, err)
	assertDeepEqual(t, []interface{}{int64(1), int64(2), int64(3), "z"}, values)

	again, err := c.Encode(values)
	require.NoError(t, err)
	assert.Equal(t, text, again)

	text, err = c.Encode(schema.Record{"a": int64(1), "b": "z"})
	require.NoError(t, err)
	assert.Equal(t, `("z",1,,)`, text)

	v, err = c.Decode(text)
	require.NoError(t, err)
	assertDeepEqual(t, schema.Record{"a": int64(1), "pos": nil, "b": "z"}, v)
}

func TestCompositeNulls(t *testing.T) {
	c := codec.NewComposite(workedExample(), nil)

	text, err := c.Encode(nil)
	require.NoError(t, err)
	assert.Equal(t, "", text)

	v, err := c.Decode("")
	require.NoError(t, err)
	assert.Nil(t, v)

	text, err = c.Encode(schema.Record{})
	require.NoError(t, err)
	assert.Equal(t, "(,,)", text)

	v, err = c.Decode(text)
	require.NoError(t, err)
	assertDeepEqual(t, schema.Record{"a": nil, "b": nil, "c": nil}, v)

	v, err = c.Decode(`(,"",)`)
	require.NoError(t, err)
	assertDeepEqual(t, schema.Record{"a": nil, "b": "", "c": nil}, v)
}

func TestCompositeRejectsMalformedInput(t *testing.T) {
	c := codec.NewComposite(workedExample(), nil)

	for _, s := range []string{
		`(1,"x"`,
		`1,"x",)`,
		`(1,"x",(2,hi))`,
		`(1,"x")`,
		`(1,"x",,4)`,
		`(1,"x\y",)`,
		`(1,"x",)junk`,
		`(1,"x","(2,hi)"`,
		`(1,x"y,)`,
		`(1,"x","(2,"hi")")`,
	} {
		v, err := c.Decode(s)
		assert.Error(t, err, s)
		assert.Nil(t, v, s)
	}

	_, err := c.Decode(`(1,"x"`)
	var syntaxErr *codec.SyntaxError
	require.True(t, errors.As(err, &syntaxErr))
	assert.Equal(t, 6, syntaxErr.Offset)
	assert.Equal(t, "composite syntax error at position 6: unexpected end of input, expecting one of [,)]", err.Error())

	_, err = c.Decode(`(a,"x",)`)
	var valueErr *codec.ValueError
	assert.True(t, errors.As(err, &valueErr), "got %v", err)
}

func TestCompositeUnsupportedKind(t *testing.T) {
	e := schema.MustEmbeddable("unsupported", []*schema.Field{
		schema.ArrayLeaf("matrix", sqltypes.Array),
	}, nil)

	_, err := codec.NewComposite(e, nil).Encode(schema.Record{"matrix": []interface{}{}})
	var kindErr *codec.UnsupportedKindError
	require.True(t, errors.As(err, &kindErr), "got %v", err)
	assert.Equal(t, sqltypes.Array, kindErr.Kind)
	assert.Equal(t, "unsupported.matrix", kindErr.Field)
}

func TestCompositeTimeZone(t *testing.T) {
	e := schema.MustEmbeddable("stamp", []*schema.Field{
		schema.Leaf("at", sqltypes.Timestamp),
		schema.Leaf("day", sqltypes.Date),
	}, nil)
	c := codec.NewComposite(e, &codec.Options{TimeZone: time.FixedZone("EST", -5*3600)})

	at := time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)
	text, err := c.Encode(schema.Record{"at": at, "day": "2024-03-01"})
	require.NoError(t, err)
	assert.Equal(t, `("2024-01-02 05:00:00","2024-03-01")`, text)

	v, err := c.Decode(text)
	require.NoError(t, err)
	record := v.(schema.Record)
	assert.True(t, at.Equal(record["at"].(time.Time)))
	assert.Equal(t, "2024-03-01", record["day"].(time.Time).Format("2006-01-02"))

	v, err = c.Decode(`("2024-01-02 05:00:00+01:00","2024-03-01 00:00:00")`)
	require.NoError(t, err)
	record = v.(schema.Record)
	assert.True(t, time.Date(2024, 1, 2, 4, 0, 0, 0, time.UTC).Equal(record["at"].(time.Time)))
}

type address struct {
	Street string
	Zip    int32
}

type employee struct {
	Name string
	Home address `sqldialect:"embeddedPrefix:home_"`
	Work address `sqldialect:"embeddedPrefix:work_"`
}

type customer struct {
	Name    string
	Active  bool     `sqldialect:"type:char"`
	Address *address `sqldialect:"aggregate"`
	Balance decimal.Decimal
}

func TestCompositeStruct(t *testing.T) {
	e, err := schema.Parse(&customer{}, &sync.Map{}, nil)
	require.NoError(t, err)

	c := codec.NewComposite(e, nil)
	value := &customer{Name: "Ann", Active: true, Address: &address{Street: "Main St", Zip: 12345}, Balance: decimal.RequireFromString("10.5")}

	text, err := c.Encode(value)
	require.NoError(t, err)
	assert.Equal(t, `("Ann",Y,"(""Main St"",12345)",10.5)`, text)

	v, err := c.Decode(text)
	require.NoError(t, err)
	assertDeepEqual(t, value, v)

	v, err = c.Decode(`("Bob",N,,)`)
	require.NoError(t, err)
	assertDeepEqual(t, &customer{Name: "Bob"}, v)
}

func TestCompositeRepeatedFlattened(t *testing.T) {
	e, err := schema.Parse(&employee{}, &sync.Map{}, nil)
	require.NoError(t, err)

	c := codec.NewComposite(e, nil)
	value := &employee{Name: "Ann", Home: address{Street: "Main", Zip: 1}, Work: address{Street: "Dock", Zip: 2}}
	text, err := c.Encode(value)
	require.NoError(t, err)
	assert.Equal(t, `("Ann","Main",1,"Dock",2)`, text)

	v, err := c.Decode(text)
	require.NoError(t, err)
	assertDeepEqual(t, value, v)
}
