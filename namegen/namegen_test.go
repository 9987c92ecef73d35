package namegen

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/oasir/ir"
)

func TestDefaultComponent(t *testing.T) {
	tests := []struct {
		pointer string
		want    string
	}{
		{"#/components/schemas/Pet", "Pet"},
		{"#/components/schemas/pet_owner", "pet_owner"},
		{"#/components/schemas/pet-owner", "PetOwner"},
		{"#/components/schemas/Pet.v2", "PetV2"},
		{"#/components/schemas/200", "Schema200"},
		{"#/definitions/Legacy", "Legacy"},
		{"models/pet.yaml#/$defs/Tag", "Tag"},
		{"models/pet.yaml#/Pet", "Pet"},
		{"models/pet.yaml#", "Pet"},
		{"shared/owner-record.json#", "OwnerRecord"},
		{"https://example.com/schemas/thing.yaml#", "Thing"},
		{"#", "Root"},
		{"#/components/schemas/Pet/properties/owner", "ComponentsSchemasPetPropertiesOwner"},
		{"#/components/schemas/a~1b", "AB"},
	}
	g := Default()
	for _, tt := range tests {
		t.Run(tt.pointer, func(t *testing.T) {
			assert.Equal(t, tt.want, g.Component(tt.pointer))
		})
	}
}

func TestDefaultVirtualNames(t *testing.T) {
	g := Default()

	assert.Equal(t, "GetThingParamSchema", g.ParameterGroup("getThing", ir.LocationPath))
	assert.Equal(t, "GetThingQuerySchema", g.ParameterGroup("getThing", ir.LocationQuery))
	assert.Equal(t, "GetThingHeaderSchema", g.ParameterGroup("getThing", ir.LocationHeader))
	assert.Equal(t, "GetThingCookieSchema", g.ParameterGroup("getThing", ir.LocationCookie))
	assert.Equal(t, "CreatePetBody", g.RequestBody("create-pet"))
	assert.Equal(t, "GetThing200Response", g.Response("getThing", "200"))
	assert.Equal(t, "GetThingDefaultResponse", g.Response("getThing", "default"))
	assert.Equal(t, "GetThing2XXResponse", g.Response("getThing", "2XX"))
	assert.Equal(t, "PetOwnerAddress", g.Inline("Pet", "owner", "address"))
	assert.Equal(t, "getThingsId", g.OperationID("get", "/things/{id}"))
	assert.Equal(t, "UnknownObject", g.Unknown())
	assert.Equal(t, "OperationBody", g.RequestBody(""))
}

func TestDocumentStem(t *testing.T) {
	assert.Equal(t, "Root", DocumentStem(""))
	assert.Equal(t, "Common", DocumentStem("common.yaml"))
	assert.Equal(t, "V1", DocumentStem("https://example.com/specs/v1/"))
}

func TestUnique(t *testing.T) {
	taken := map[string]bool{"Pet": true, "Pet2": true}
	has := func(s string) bool { return taken[s] }

	assert.Equal(t, "Owner", Unique("Owner", has))
	assert.Equal(t, "Pet3", Unique("Pet", has))
}

func TestIsIdentifier(t *testing.T) {
	assert.True(t, IsIdentifier("Pet"))
	assert.True(t, IsIdentifier("_pet2"))
	assert.False(t, IsIdentifier("2pet"))
	assert.False(t, IsIdentifier("pet-owner"))
	assert.False(t, IsIdentifier(""))
}

// =============================================================================
// Templates
// =============================================================================

func TestNewTemplate(t *testing.T) {
	g, err := NewTemplate(`{{if eq .Kind "component"}}Api{{end}}{{.Default}}`, nil)
	require.NoError(t, err)

	assert.Equal(t, "ApiPet", g.Component("#/components/schemas/Pet"))
	assert.Equal(t, "GetThingParamSchema", g.ParameterGroup("getThing", ir.LocationPath))
	assert.Equal(t, "GetThing200Response", g.Response("getThing", "200"))
	assert.Equal(t, "UnknownObject", g.Unknown())
	assert.Equal(t, "getThingsId", g.OperationID("get", "/things/{id}"))
}

func TestNewTemplateFuncs(t *testing.T) {
	tests := []struct {
		tmpl string
		want string
	}{
		{`{{.Default | snake}}`, "pet_owner"},
		{`{{.Default | upper}}`, "PETOWNER"},
		{`{{title "pet owner"}}`, "PetOwner"},
		{`{{trimPrefix .Default "Pet"}}`, "Owner"},
		{`{{join "_" "a" "b"}}`, "a_b"},
		{`{{replace .Default "Owner" "Keeper"}}`, "PetKeeper"},
		{`{{.Default}}Model`, "PetOwnerModel"},
		{`{{/* empty */}}`, "PetOwner"},
	}
	for _, tt := range tests {
		t.Run(tt.tmpl, func(t *testing.T) {
			g, err := NewTemplate(tt.tmpl, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, g.Component("#/components/schemas/PetOwner"))
		})
	}
}

func TestNewTemplateInvalid(t *testing.T) {
	_, err := NewTemplate(`{{.Default`, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid name template")

	_, err = NewTemplate(`{{.Missing}}`, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "execution failed")
}

type prefixGenerator struct{ Generator }

func (p prefixGenerator) Component(pointer string) string {
	return "X" + p.Generator.Component(pointer)
}

func TestNewTemplateWrapsBase(t *testing.T) {
	g, err := NewTemplate(`{{.Default}}`, prefixGenerator{Default()})
	require.NoError(t, err)
	assert.Equal(t, "XPet", g.Component("#/components/schemas/Pet"))
}

func TestTemplateGeneratorConcurrent(t *testing.T) {
	g, err := NewTemplate(`{{.Default}}`, nil)
	require.NoError(t, err)
	done := make(chan string, 20)
	for i := range 20 {
		go func() { done <- g.Response("op", fmt.Sprint(200+i)) }()
	}
	seen := make(map[string]bool)
	for range 20 {
		seen[<-done] = true
	}
	assert.Len(t, seen, 20)
}
