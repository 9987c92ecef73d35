package ir

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/oasir/oaserrors"
)

// kindVisitor returns the Kind reported by the visited method.
type kindVisitor struct{}

func (kindVisitor) VisitNumeric(*Numeric) Kind           { return KindNumeric }
func (kindVisitor) VisitString(*String) Kind             { return KindString }
func (kindVisitor) VisitBoolean(*Boolean) Kind           { return KindBoolean }
func (kindVisitor) VisitObject(*Object) Kind             { return KindObject }
func (kindVisitor) VisitArray(*Array) Kind               { return KindArray }
func (kindVisitor) VisitRecord(*Record) Kind             { return KindRecord }
func (kindVisitor) VisitUnion(*Union) Kind               { return KindUnion }
func (kindVisitor) VisitIntersection(*Intersection) Kind { return KindIntersection }
func (kindVisitor) VisitAny(*Any) Kind                   { return KindAny }
func (kindVisitor) VisitNever(*Never) Kind               { return KindNever }
func (kindVisitor) VisitRef(*Ref) Kind                   { return KindRef }

func TestVisit(t *testing.T) {
	nodes := []Node{
		&Numeric{}, &String{}, &Boolean{}, &Object{}, &Array{}, &Record{},
		&Union{}, &Intersection{}, &Any{}, &Never{}, &Ref{Name: "Pet"},
	}
	for _, n := range nodes {
		t.Run(n.Kind().String(), func(t *testing.T) {
			assert.Equal(t, n.Kind(), Visit[Kind](n, kindVisitor{}))
		})
	}
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "numeric", KindNumeric.String())
	assert.Equal(t, "ref", KindRef.String())
	assert.Equal(t, "unknown", Kind(99).String())
	assert.Equal(t, "open", Open.String())
	assert.Equal(t, "closed", Closed.String())
}

func TestParseExtensibility(t *testing.T) {
	e, err := ParseExtensibility("open")
	require.NoError(t, err)
	assert.Equal(t, Open, e)

	e, err = ParseExtensibility("closed")
	require.NoError(t, err)
	assert.Equal(t, Closed, e)

	_, err = ParseExtensibility("ajar")
	assert.ErrorIs(t, err, oaserrors.ErrConfig)
}

func TestNullLiteral(t *testing.T) {
	n := NullLiteral()
	assert.True(t, IsNullLiteral(n))
	assert.True(t, IsNullable(n))
	assert.False(t, IsNullLiteral(&Never{}))
	assert.False(t, IsNullLiteral(&String{Base: Base{Nullable: true}}))
	assert.True(t, IsNullable(&Ref{Name: "A", Nullable: true}))
	assert.False(t, IsNullable(nil))
}

func petModel() *Object {
	props := NewProperties()
	props.Set("id", &Numeric{Integer: true})
	props.Set("owner", &Ref{Name: "Owner", Pointer: "#/components/schemas/Owner"})
	props.Set("tags", &Array{Items: &Ref{Name: "Tag"}})
	props.Set("extra", &Record{Key: StringKey(), Value: &Ref{Name: "Owner"}})
	return &Object{Properties: props, Required: []string{"id"}}
}

func TestReferences(t *testing.T) {
	pet := petModel()
	assert.Equal(t, []string{"Owner", "Tag"}, References(pet))
	assert.Equal(t, []string{"Owner", "Tag"}, ReferencesSorted(pet))
	assert.Len(t, Refs(pet), 3)

	composed := &Object{
		AllOf: []Node{&Ref{Name: "Base"}},
		OneOf: []Node{&Ref{Name: "Cat"}, &Ref{Name: "Dog"}},
	}
	assert.Equal(t, []string{"Base", "Cat", "Dog"}, References(composed))
	assert.Empty(t, References(&String{}))
}

func TestWalkSkipsChildren(t *testing.T) {
	var kinds []Kind
	Walk(petModel(), func(n Node) bool {
		kinds = append(kinds, n.Kind())
		return n.Kind() != KindArray
	})
	assert.Equal(t, []Kind{KindObject, KindNumeric, KindRef, KindArray, KindRecord, KindRef}, kinds)
}

func TestClone(t *testing.T) {
	pet := petModel()
	pet.Discriminator = &Discriminator{PropertyName: "kind", Mapping: map[string]string{"a": "#/a"}}
	clone := Clone(pet).(*Object)

	require.NotSame(t, pet, clone)
	assert.Equal(t, pet, clone)

	clone.Required[0] = "changed"
	clone.Discriminator.Mapping["a"] = "#/b"
	owner, _ := clone.Properties.Get("owner")
	owner.(*Ref).Nullable = true

	assert.Equal(t, "id", pet.Required[0])
	assert.Equal(t, "#/a", pet.Discriminator.Mapping["a"])
	orig, _ := pet.Properties.Get("owner")
	assert.False(t, orig.(*Ref).Nullable)

	lo := 1.0
	num := &Numeric{Minimum: &lo, Enum: []float64{1, 2}}
	numClone := Clone(num).(*Numeric)
	*numClone.Minimum = 5
	numClone.Enum[0] = 9
	assert.Equal(t, 1.0, *num.Minimum)
	assert.Equal(t, []float64{1, 2}, num.Enum)

	assert.Nil(t, Clone(nil))
	assert.Nil(t, CloneModel(nil))
}

func TestSetProperty(t *testing.T) {
	props := NewProperties()
	props.Set("a", &String{})
	props.Set("b", &String{})
	SetProperty(props, "a", &Numeric{})
	SetProperty(props, "c", &Boolean{})

	var keys []string
	for k := range props.Keys() {
		keys = append(keys, k)
	}
	assert.Equal(t, []string{"a", "b", "c"}, keys)
	a, _ := props.Get("a")
	assert.Equal(t, KindNumeric, a.Kind())
	assert.Equal(t, 3, props.Len())
}

// =============================================================================
// Registry
// =============================================================================

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Add("Zebra", "#/components/schemas/Zebra", &String{}))
	require.NoError(t, r.Add("Pet", "#/components/schemas/Pet", petModel()))

	err := r.Add("Pet", "#/components/schemas/Pet", &String{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, oaserrors.ErrDoubleNormalization))
	var dn *oaserrors.DoubleNormalizationError
	require.ErrorAs(t, err, &dn)
	assert.Equal(t, "Pet", dn.Name)

	assert.False(t, r.Ensure("Pet", "", &Any{}))
	assert.True(t, r.Ensure("UnknownObject", "", &Record{Key: StringKey(), Value: &Any{}}))

	assert.Equal(t, []string{"Zebra", "Pet", "UnknownObject"}, r.Names())
	assert.Equal(t, 3, r.Len())

	m, ok := r.Get("Pet")
	require.True(t, ok)
	assert.Equal(t, KindObject, m.Kind())
	e, ok := r.Lookup("Zebra")
	require.True(t, ok)
	assert.Equal(t, "#/components/schemas/Zebra", e.Pointer)
	assert.False(t, r.Has("Missing"))
}

func TestRegistryZeroValueAndNil(t *testing.T) {
	var r Registry
	require.NoError(t, r.Add("A", "", &Any{}))
	assert.True(t, r.Has("A"))

	var nilReg *Registry
	assert.Equal(t, 0, nilReg.Len())
	assert.Nil(t, nilReg.Names())
	assert.False(t, nilReg.Has("A"))
}

func TestRegistryConcurrentAdd(t *testing.T) {
	r := NewRegistry()
	var wg sync.WaitGroup
	errs := make(chan error, 100)
	for i := range 100 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- r.Add(fmt.Sprintf("S%d", i%10), "", &Any{})
		}()
	}
	wg.Wait()
	close(errs)

	failures := 0
	for err := range errs {
		if err != nil {
			failures++
		}
	}
	assert.Equal(t, 90, failures)
	assert.Equal(t, 10, r.Len())
}

// =============================================================================
// JSON
// =============================================================================

func TestMarshalJSONKindTag(t *testing.T) {
	data, err := json.Marshal(petModel())
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "object", decoded["kind"])

	props := decoded["properties"].(map[string]any)
	assert.Equal(t, "numeric", props["id"].(map[string]any)["kind"])
	assert.Equal(t, true, props["id"].(map[string]any)["integer"])
	assert.Equal(t, "ref", props["owner"].(map[string]any)["kind"])
	assert.Equal(t, "Owner", props["owner"].(map[string]any)["name"])
	assert.Equal(t, "array", props["tags"].(map[string]any)["kind"])

	data, err = json.Marshal(NullLiteral())
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"never","nullable":true}`, string(data))

	data, err = json.Marshal(&String{Enum: []string{"a"}, Extensibility: Open})
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"string","enum":["a"],"extensibility":"open"}`, string(data))
}

func TestMarshalJSONEveryVariant(t *testing.T) {
	tests := []struct {
		node Node
		want string
	}{
		{&Numeric{Base: Base{Description: "count"}, Integer: true}, `{"kind":"numeric","description":"count","integer":true,"extensibility":"closed"}`},
		{&String{Format: "x"}, `{"kind":"string","format":"x","extensibility":"closed"}`},
		{&Boolean{Base: Base{ReadOnly: true}}, `{"kind":"boolean","readOnly":true,"extensibility":"closed"}`},
		{&Object{}, `{"kind":"object"}`},
		{&Array{Items: &Any{}}, `{"kind":"array","items":{"kind":"any"}}`},
		{&Record{Key: StringKey(), Value: &Never{}}, `{"kind":"record","key":{"kind":"string","extensibility":"closed"},"value":{"kind":"never"}}`},
		{&Union{Schemas: []Node{&Ref{Name: "A"}}}, `{"kind":"union","schemas":[{"kind":"ref","name":"A"}]}`},
		{&Intersection{Base: Base{Nullable: true}, Schemas: []Node{}}, `{"kind":"intersection","nullable":true,"schemas":[]}`},
		{&Any{}, `{"kind":"any"}`},
		{&Never{}, `{"kind":"never"}`},
		{&Ref{Name: "Pet", Deferred: true}, `{"kind":"ref","name":"Pet","deferred":true}`},
	}
	for _, tt := range tests {
		t.Run(tt.node.Kind().String(), func(t *testing.T) {
			data, err := json.Marshal(tt.node)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(data))
		})
	}
}

func TestMarshalJSONEntry(t *testing.T) {
	data, err := json.Marshal(&Entry{Name: "Tag", Model: &String{Enum: []string{"a"}}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Tag","model":{"kind":"string","enum":["a"],"extensibility":"closed"}}`, string(data))
}

func TestOperationParametersGroup(t *testing.T) {
	p := &OperationParameters{
		Path:   &Group{List: []*Parameter{{Name: "id", In: LocationPath}}},
		Query:  &Group{},
		Header: &Group{},
		Cookie: &Group{},
	}
	assert.Equal(t, 1, p.Group(LocationPath).Len())
	assert.Equal(t, 0, p.Group(LocationQuery).Len())
	assert.Nil(t, p.Group(Location("body")))
	var g *Group
	assert.Equal(t, 0, g.Len())
}
