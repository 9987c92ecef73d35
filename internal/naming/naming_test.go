package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWords(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"", nil},
		{"getThing", []string{"get", "Thing"}},
		{"get-thing", []string{"get", "thing"}},
		{"APIKey", []string{"API", "Key"}},
		{"/things/{id}/parts", []string{"things", "id", "parts"}},
		{"v2Client", []string{"v2", "Client"}},
		{"2XX", []string{"2", "XX"}},
		{"über_user", []string{"über", "user"}},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, Words(tt.input))
		})
	}
}

func TestToPascalCase(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty string", input: "", want: ""},
		{name: "camelCase operation id", input: "getThing", want: "GetThing"},
		{name: "kebab operation id", input: "get-thing", want: "GetThing"},
		{name: "snake operation id", input: "list_all_pets", want: "ListAllPets"},
		{name: "url template", input: "/things/{id}", want: "ThingsId"},
		{name: "acronym kept", input: "getAPIKey", want: "GetAPIKey"},
		{name: "dotted name", input: "Pet.v2", want: "PetV2"},
		{name: "already pascal", input: "UserProfile", want: "UserProfile"},
		{name: "spaces", input: "pet store item", want: "PetStoreItem"},
		{name: "only separators", input: "/-_", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToPascalCase(tt.input))
		})
	}
}

func TestToCamelCase(t *testing.T) {
	assert.Equal(t, "getThing", ToCamelCase("GetThing"))
	assert.Equal(t, "apiKey", ToCamelCase("API key"))
	assert.Equal(t, "", ToCamelCase(""))
}

func TestSnakeAndKebab(t *testing.T) {
	assert.Equal(t, "get_api_key", ToSnakeCase("GetAPIKey"))
	assert.Equal(t, "get-api-key", ToKebabCase("GetAPIKey"))
	assert.Equal(t, "things_id", ToSnakeCase("/things/{id}"))
}

func TestToTitleCase(t *testing.T) {
	assert.Equal(t, "Hello", ToTitleCase("hello"))
	assert.Equal(t, "", ToTitleCase(""))
}

func TestIdentifier(t *testing.T) {
	assert.Equal(t, "Status200", Identifier("200", "Status"))
	assert.Equal(t, "Default", Identifier("default", "Status"))
	assert.Equal(t, "Anon", Identifier("{}", "Anon"))
	assert.Equal(t, "PetV2", Identifier("pet.v2", "X"))
}
