package schema_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gorm.io/sqldialect/schema"
	"gorm.io/sqldialect/sqltypes"
)

type Point struct {
	X int64
	Y string `sqldialect:"type:varchar;size:40"`
}

type Status int

type Shipment struct {
	ID       int32
	Weight   decimal.Decimal `sqldialect:"precision:10;scale:2"`
	Fragile  bool            `sqldialect:"type:char;size:1"`
	Status   Status          `sqldialect:"type:integer;enum:PENDING,SENT,DELIVERED"`
	Origin   Point
	Target   *Point `sqldialect:"aggregate;column:target_point"`
	Tags     []string
	SentAt   *time.Time `sqldialect:"type:timestamp_with_timezone"`
	internal string
	Ignored  string `sqldialect:"-"`
}

type Ordered struct {
	A int64  `sqldialect:"order:2"`
	B string `sqldialect:"order:0"`
	C bool   `sqldialect:"order:1"`
}

func (Ordered) TypeName() string { return "ordered_t" }

type Address struct {
	Street string
	City   string
}

type Person struct {
	Name string
	Home Address `sqldialect:"embeddedPrefix:home_"`
	Work Address `sqldialect:"embeddedPrefix:work_"`
}

func columns(e *schema.Embeddable) []string {
	var names []string
	for _, field := range e.Selectables() {
		names = append(names, field.Column)
	}
	return names
}

func TestNewEmbeddableRejectsBadOrderMapping(t *testing.T) {
	fields := func() []*schema.Field {
		return []*schema.Field{
			schema.Leaf("a", sqltypes.Integer),
			schema.Leaf("b", sqltypes.Varchar),
			schema.Leaf("c", sqltypes.Date),
		}
	}

	for _, mapping := range [][]int{{0, 1}, {0, 1, 1}, {0, 1, 3}, {-1, 0, 1}} {
		_, err := schema.NewEmbeddable("bad", fields(), mapping)
		assert.True(t, errors.Is(err, schema.ErrInvalidOrderMapping), "mapping %v", mapping)
	}

	_, err := schema.NewEmbeddable("dup", []*schema.Field{
		schema.Leaf("a", sqltypes.Integer),
		schema.Leaf("a", sqltypes.Integer),
	}, nil)
	assert.Error(t, err)

	e, err := schema.NewEmbeddable("good", fields(), []int{2, 0, 1})
	require.NoError(t, err)
	assert.Equal(t, []int{2, 0, 1}, e.OrderMapping())
	for decl := 0; decl < 3; decl++ {
		assert.Equal(t, decl, e.DeclarationIndex(e.PhysicalIndex(decl)))
	}
	assert.Equal(t, "c", e.PhysicalField(0).Name)
	assert.Equal(t, "good", e.TypeName)
}

func nestedEmbeddable(t *testing.T) *schema.Embeddable {
	inner := schema.MustEmbeddable("inner", []*schema.Field{
		schema.Leaf("x", sqltypes.Integer),
		schema.Leaf("y", sqltypes.Varchar),
	}, []int{1, 0})

	outer, err := schema.NewEmbeddable("outer", []*schema.Field{
		schema.Leaf("a", sqltypes.Integer),
		schema.Nested("flat", inner, false),
		schema.Leaf("b", sqltypes.Varchar),
		schema.Nested("agg", inner, true),
	}, []int{2, 1, 0, 3})
	require.NoError(t, err)
	return outer
}

func TestSelectables(t *testing.T) {
	outer := nestedEmbeddable(t)

	assert.Equal(t, 5, outer.JdbcValueCount())
	var columns []string
	for _, field := range outer.Selectables() {
		columns = append(columns, field.Column)
	}
	assert.Equal(t, []string{"b", "y", "x", "a", "agg"}, columns)
	assert.Equal(t, 1, outer.SelectableIndex("y"))
	assert.Equal(t, -1, outer.SelectableIndex("missing"))
	assert.Nil(t, outer.Selectable(5))
	assert.Equal(t, 1, outer.MaxDepth())
}

func TestOrderJdbcValues(t *testing.T) {
	outer := nestedEmbeddable(t)
	physical := []interface{}{"b", "y", int64(2), int64(1), nil}

	ordered, err := outer.OrderJdbcValues(physical)
	require.NoError(t, err)
	assert.Equal(t, []interface{}{int64(1), int64(2), "y", "b", nil}, ordered)

	back, err := outer.PhysicalJdbcValues(ordered)
	require.NoError(t, err)
	assert.Equal(t, physical, back)

	_, err = outer.OrderJdbcValues(physical[:3])
	assert.True(t, errors.Is(err, schema.ErrValueCount))
}

func TestAssembleRecord(t *testing.T) {
	outer := nestedEmbeddable(t)

	v, err := outer.Assemble([]interface{}{int64(1), int64(2), "y", "b", []interface{}{int64(3), "z"}})
	require.NoError(t, err)
	assert.Equal(t, schema.Record{
		"a":    int64(1),
		"flat": schema.Record{"x": int64(2), "y": "y"},
		"b":    "b",
		"agg":  schema.Record{"x": int64(3), "y": "z"},
	}, v)

	v, err = outer.Assemble([]interface{}{int64(1), nil, nil, "b", nil})
	require.NoError(t, err)
	assert.Nil(t, v.(schema.Record)["flat"])
	assert.Nil(t, v.(schema.Record)["agg"])

	values, err := outer.Values(v)
	require.NoError(t, err)
	assert.Equal(t, []interface{}{int64(1), nil, "b", nil}, values)

	values, err = outer.Values(map[string]interface{}{"a": 7, "b": "c"})
	require.NoError(t, err)
	assert.Equal(t, []interface{}{7, nil, "c", nil}, values)
}

func TestParse(t *testing.T) {
	cacheStore := &sync.Map{}
	e, err := schema.Parse(&Shipment{}, cacheStore, schema.NamingStrategy{})
	require.NoError(t, err)

	assert.Equal(t, "Shipment", e.Name)
	assert.Equal(t, "shipment", e.TypeName)
	require.Len(t, e.Fields, 8)

	weight := e.LookUpField("weight")
	require.NotNil(t, weight)
	assert.Equal(t, sqltypes.Numeric, weight.Type)
	assert.Equal(t, 10, weight.Precision)
	assert.Equal(t, 2, weight.Scale)

	fragile := e.LookUpField("Fragile")
	assert.Equal(t, sqltypes.Char, fragile.Type)
	assert.True(t, fragile.IsBoolean())

	status := e.LookUpField("status")
	assert.Equal(t, sqltypes.Integer, status.Type)
	assert.Equal(t, []string{"PENDING", "SENT", "DELIVERED"}, status.EnumValues)

	origin := e.LookUpField("origin")
	assert.True(t, origin.IsFlattened())
	assert.Equal(t, sqltypes.Varchar, origin.Embedded.LookUpField("y").Type)

	target := e.LookUpField("target_point")
	assert.True(t, target.Aggregate)
	assert.Equal(t, sqltypes.Struct, target.Type)
	assert.Same(t, origin.Embedded, target.Embedded)

	tags := e.LookUpField("tags")
	assert.Equal(t, sqltypes.Array, tags.Type)
	assert.Equal(t, sqltypes.Varchar, tags.ElementType)

	assert.Nil(t, e.LookUpField("ignored"))
	assert.Equal(t, 9, e.JdbcValueCount())

	again, err := schema.Parse(Shipment{}, cacheStore, schema.NamingStrategy{})
	require.NoError(t, err)
	assert.Same(t, e, again)

	_, err = schema.Parse(42, cacheStore, schema.NamingStrategy{})
	assert.Error(t, err)
}

func TestParseOrder(t *testing.T) {
	e, err := schema.Parse(&Ordered{}, &sync.Map{}, nil)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 0}, e.OrderMapping())
	assert.Equal(t, "ordered_t", e.TypeName)

	type Broken struct {
		A int `sqldialect:"order:0"`
		B int `sqldialect:"order:0"`
	}
	_, err = schema.Parse(&Broken{}, &sync.Map{}, nil)
	assert.True(t, errors.Is(err, schema.ErrInvalidOrderMapping))
}

func TestStructValuesAndInstantiate(t *testing.T) {
	e, err := schema.Parse(&Shipment{}, &sync.Map{}, nil)
	require.NoError(t, err)

	sent := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	shipment := Shipment{
		ID:      7,
		Weight:  decimal.RequireFromString("12.50"),
		Fragile: true,
		Status:  2,
		Origin:  Point{X: 1, Y: "a"},
		Tags:    []string{"x", "y"},
		SentAt:  &sent,
	}

	values, err := e.Values(&shipment)
	require.NoError(t, err)
	assert.Equal(t, int32(7), values[0])
	assert.Equal(t, "DELIVERED", values[3])
	assert.Nil(t, values[5])
	assert.Equal(t, sent, values[7])

	v, err := e.Instantiate(func(i int) interface{} {
		switch i {
		case 0:
			return int64(7)
		case 3:
			return "DELIVERED"
		case 4:
			return shipment.Origin
		case 5:
			return &Point{X: 2, Y: "b"}
		case 6:
			return []interface{}{"x", "y"}
		case 7:
			return sent
		}
		return values[i]
	})
	require.NoError(t, err)

	got := v.(*Shipment)
	assert.Equal(t, int32(7), got.ID)
	assert.True(t, got.Weight.Equal(shipment.Weight))
	assert.Equal(t, Status(2), got.Status)
	assert.Equal(t, &Point{X: 2, Y: "b"}, got.Target)
	assert.Equal(t, []string{"x", "y"}, got.Tags)
	assert.Equal(t, sent, *got.SentAt)

	_, err = e.Instantiate(func(i int) interface{} {
		if i == 3 {
			return "LOST"
		}
		return nil
	})
	assert.Error(t, err)
}

func TestEmbeddedPrefix(t *testing.T) {
	address := schema.MustEmbeddable("address", []*schema.Field{
		schema.Leaf("street", sqltypes.Varchar),
		schema.Leaf("city", sqltypes.Varchar),
	}, nil)

	_, err := schema.NewEmbeddable("person", []*schema.Field{
		schema.Nested("home", address, false),
		schema.Nested("work", address, false),
	}, nil)
	assert.True(t, errors.Is(err, schema.ErrDuplicatedColumn), "got %v", err)

	_, err = schema.NewEmbeddable("person", []*schema.Field{
		schema.Leaf("street", sqltypes.Varchar),
		schema.Nested("home", address, false),
	}, nil)
	assert.True(t, errors.Is(err, schema.ErrDuplicatedColumn), "got %v", err)

	person, err := schema.NewEmbeddable("person", []*schema.Field{
		schema.Nested("home", address, false).WithPrefix("home_"),
		schema.Nested("work", address, false).WithPrefix("work_"),
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"home_street", "home_city", "work_street", "work_city"}, columns(person))
	assert.Equal(t, 2, person.SelectableIndex("work_street"))
	assert.Equal(t, -1, person.SelectableIndex("street"))
	assert.Equal(t, "street", address.Selectable(0).Column)

	// prefixes of nested flattened embeddables compose
	contact, err := schema.NewEmbeddable("contact", []*schema.Field{
		schema.Leaf("name", sqltypes.Varchar),
		schema.Nested("person", person, false).WithPrefix("p_"),
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "p_home_street", "p_home_city", "p_work_street", "p_work_city"}, columns(contact))

	// aggregate nests keep their own column
	_, err = schema.NewEmbeddable("route", []*schema.Field{
		schema.Nested("from", address, true),
		schema.Nested("to", address, true),
	}, nil)
	assert.NoError(t, err)
}

func TestParseEmbeddedPrefix(t *testing.T) {
	e, err := schema.Parse(&Person{}, &sync.Map{}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "home_street", "home_city", "work_street", "work_city"}, columns(e))
	assert.Equal(t, "home_", e.LookUpField("Home").EmbeddedPrefix)

	type Twins struct {
		Home Address
		Work Address
	}
	_, err = schema.Parse(&Twins{}, &sync.Map{}, nil)
	assert.True(t, errors.Is(err, schema.ErrDuplicatedColumn), "got %v", err)
}
