package codec_test

import (
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gorm.io/sqldialect/codec"
	"gorm.io/sqldialect/schema"
	"gorm.io/sqldialect/sqltypes"
)

func TestJSONWorkedExample(t *testing.T) {
	j := codec.NewJSON(workedExample(), nil)

	text, err := j.Encode(workedValue())
	require.NoError(t, err)
	assert.Equal(t, `{"a":1,"b":"O'Brien","c":{"x":2,"y":"hi"}}`, text)

	v, err := j.Decode(text)
	require.NoError(t, err)
	assertDeepEqual(t, workedValue(), v)

	v, err = j.Decode(` { "c" : { "y" : "hi" , "x" : 2 } , "b" : "O'Brien" ,"a":1 } `)
	require.NoError(t, err)
	assertDeepEqual(t, workedValue(), v)

	values, err := j.DecodeValues(text)
	require.NoError(t, err)
	assertDeepEqual(t, []interface{}{int64(1), "O'Brien", []interface{}{int64(2), "hi"}}, values)
}

func TestJSONRoundTripAllKinds(t *testing.T) {
	j := codec.NewJSON(allKinds(), nil)

	text, err := j.Encode(allKindsValue())
	require.NoError(t, err)
	assert.Equal(t, `{"flag":true,"yes":1,"yn":"N","small":-7,"big":1099511627776,"ratio":1.5,"price":"12.34",`+
		`"name":"He said \"hi\" \\ bye, (ok)","empty":"","missing":null,"data":"00FF10",`+
		`"id":"6ba7b810-9dad-11d1-80b4-00c04fd430c8","day":"2024-02-29","clock":"13:45:30",`+
		`"at":"2024-01-02T03:04:05.000006","atz":"2024-01-02T03:04:05+02:00","utc":"2023-12-31T23:59:59.999Z",`+
		`"status":2,"kind":"Y","tags":["a",null,"q\"b"],"nums":[1,2]}`, text)

	v, err := j.Decode(text)
	require.NoError(t, err)
	assertDeepEqual(t, allKindsValue(), v)

	value := allKindsValue()
	value["ratio"] = math.NaN()
	_, err = j.Encode(value)
	var valueErr *codec.ValueError
	assert.True(t, errors.As(err, &valueErr), "got %v", err)
}

func TestJSONEscapes(t *testing.T) {
	j := codec.NewJSON(chain(0), nil)

	text, err := j.Encode(schema.Record{"v": "a\"b\\c\n\t\x01/"})
	require.NoError(t, err)
	assert.Equal(t, `{"v":"a\"b\\c\n\t\u0001/"}`, text)

	v, err := j.Decode(text)
	require.NoError(t, err)
	assertDeepEqual(t, schema.Record{"v": "a\"b\\c\n\t\x01/"}, v)

	v, err = j.Decode(`{"v":"caf\u00e9 \ud83d\ude00 \/"}`)
	require.NoError(t, err)
	assertDeepEqual(t, schema.Record{"v": "café 😀 /"}, v)

	_, err = j.Decode(`{"v":"bad \q"}`)
	assert.Error(t, err)
}

func TestJSONNulls(t *testing.T) {
	j := codec.NewJSON(workedExample(), nil)

	text, err := j.Encode(nil)
	require.NoError(t, err)
	assert.Equal(t, "null", text)

	for _, s := range []string{"null", " null ", ""} {
		v, err := j.Decode(s)
		require.NoError(t, err)
		assert.Nil(t, v)
	}

	text, err = j.Encode(schema.Record{})
	require.NoError(t, err)
	assert.Equal(t, `{"a":null,"b":null,"c":null}`, text)

	for _, s := range []string{text, "{}", "{ }"} {
		v, err := j.Decode(s)
		require.NoError(t, err, s)
		assertDeepEqual(t, schema.Record{"a": nil, "b": nil, "c": nil}, v)
	}
}

func TestJSONFlattened(t *testing.T) {
	point := schema.MustEmbeddable("point", []*schema.Field{
		schema.Leaf("x", sqltypes.Integer),
		schema.Leaf("y", sqltypes.Integer),
	}, nil)
	e := schema.MustEmbeddable("located", []*schema.Field{
		schema.Leaf("a", sqltypes.Integer),
		schema.Nested("pos", point, false),
		schema.Leaf("b", sqltypes.Varchar),
	}, []int{2, 0, 1})
	j := codec.NewJSON(e, nil)

	value := schema.Record{"a": int64(1), "pos": schema.Record{"x": int64(2), "y": int64(3)}, "b": "z"}
	text, err := j.Encode(value)
	require.NoError(t, err)
	assert.Equal(t, `{"a":1,"x":2,"y":3,"b":"z"}`, text)

	v, err := j.Decode(text)
	require.NoError(t, err)
	assertDeepEqual(t, value, v)

	text, err = j.Encode(schema.Record{"a": int64(1), "b": "z"})
	require.NoError(t, err)
	assert.Equal(t, `{"a":1,"b":"z"}`, text)

	v, err = j.Decode(text)
	require.NoError(t, err)
	assertDeepEqual(t, schema.Record{"a": int64(1), "pos": nil, "b": "z"}, v)
}

func TestJSONAggregateAsString(t *testing.T) {
	j := codec.NewJSON(workedExample(), nil)
	want := schema.Record{"a": int64(1), "b": "x", "c": schema.Record{"x": int64(2), "y": "hi"}}

	for _, s := range []string{
		`{"a":1,"b":"x","c":"(2,hi)"}`,
		`{"a":1,"b":"x","c":"{\"x\":2,\"y\":\"hi\"}"}`,
	} {
		v, err := j.Decode(s)
		require.NoError(t, err, s)
		assertDeepEqual(t, want, v)
	}

	_, err := j.Decode(`{"c":"2,hi"}`)
	assert.Error(t, err)
}

func TestJSONErrors(t *testing.T) {
	j := codec.NewJSON(workedExample(), nil)

	_, err := j.Decode(`{"zz":1}`)
	assert.EqualError(t, err, "could not find selectable [zz] in embeddable [outer]")

	_, err = j.Decode(`{"a":{"x":1}}`)
	assert.EqualError(t, err, "JSON starts sub-object for a non-aggregate type at index 5. Selectable [a] is of type [integer]")

	_, err = j.Decode(`{"a":[1]}`)
	assert.EqualError(t, err, "JSON starts array for a non-array type at index 5. Selectable [a] is of type [integer]")

	_, err = j.Decode(`{"a":01}`)
	assert.EqualError(t, err, `json syntax error at position 6: unexpected char [1], expecting one of [,}\s]`)

	_, err = j.Decode(`{"a":1`)
	assert.EqualError(t, err, `json syntax error at position 6: unexpected end of input, expecting one of [,}\s]`)

	for _, s := range []string{
		`{"a":1,}`,
		`{"a":tru}`,
		`{"a":1} x`,
		`{"b":"unterminated}`,
		`[1]`,
		`{"a" 1}`,
		`{"a":1.}`,
		`{"a":-}`,
		`{"a":1e}`,
		`{"a":"1"x}`,
		`{a:1}`,
	} {
		v, err := j.Decode(s)
		assert.Error(t, err, s)
		assert.Nil(t, v, s)
	}

	v, err := j.Decode(`{"a":-12e2,"b":null}`)
	assert.Error(t, err, "integer column rejects exponent literals")
	assert.Nil(t, v)

	ratio := codec.NewJSON(schema.MustEmbeddable("ratio", []*schema.Field{schema.Leaf("r", sqltypes.Double)}, nil), nil)
	v, err = ratio.Decode(`{"r":-12.5e2}`)
	require.NoError(t, err)
	assertDeepEqual(t, schema.Record{"r": -1250.0}, v)
}

func TestJSONStruct(t *testing.T) {
	e, err := schema.Parse(&customer{}, &sync.Map{}, nil)
	require.NoError(t, err)

	j := codec.NewJSON(e, nil)
	value := &customer{Name: "Ann", Active: true, Address: &address{Street: "Main St", Zip: 12345}, Balance: decimal.RequireFromString("10.5")}

	text, err := j.Encode(value)
	require.NoError(t, err)
	assert.Equal(t, `{"name":"Ann","active":"Y","address":{"street":"Main St","zip":12345},"balance":"10.5"}`, text)

	v, err := j.Decode(text)
	require.NoError(t, err)
	assertDeepEqual(t, value, v)
}

func TestJSONAggregateInComposite(t *testing.T) {
	inner := schema.MustEmbeddable("inner", []*schema.Field{
		schema.Leaf("x", sqltypes.Integer),
		schema.Leaf("y", sqltypes.Varchar),
	}, nil)
	doc := schema.Nested("doc", inner, true)
	doc.Type = sqltypes.JSON
	e := schema.MustEmbeddable("holder", []*schema.Field{schema.Leaf("id", sqltypes.Integer), doc}, nil)

	c := codec.NewComposite(e, nil)
	value := schema.Record{"id": int64(7), "doc": schema.Record{"x": int64(1), "y": `a"b`}}
	text, err := c.Encode(value)
	require.NoError(t, err)
	assert.Equal(t, `(7,"{""x"":1,""y"":""a\\""b""}")`, text)

	v, err := c.Decode(text)
	require.NoError(t, err)
	assertDeepEqual(t, value, v)
}

func TestJSONRepeatedFlattened(t *testing.T) {
	e, err := schema.Parse(&employee{}, &sync.Map{}, nil)
	require.NoError(t, err)

	j := codec.NewJSON(e, nil)
	value := &employee{Name: "Ann", Home: address{Street: "Main", Zip: 1}, Work: address{Street: "Dock", Zip: 2}}
	text, err := j.Encode(value)
	require.NoError(t, err)
	assert.Equal(t, `{"name":"Ann","home_street":"Main","home_zip":1,"work_street":"Dock","work_zip":2}`, text)

	v, err := j.Decode(text)
	require.NoError(t, err)
	assertDeepEqual(t, value, v)

	_, err = j.Decode(`{"name":"Ann","street":"Main"}`)
	assert.EqualError(t, err, "could not find selectable [street] in embeddable [employee]")

	type twins struct {
		Home address
		Work address
	}
	_, err = schema.Parse(&twins{}, &sync.Map{}, nil)
	assert.True(t, errors.Is(err, schema.ErrDuplicatedColumn), "got %v", err)
}
