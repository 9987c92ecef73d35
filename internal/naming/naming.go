// Package naming provides case conversion for synthesized schema and operation names.
//
// Inputs are arbitrary document fragments: operation ids ("get-thing"),
// URL templates ("/things/{id}"), pointer segments ("Pet.v2") and status
// codes ("2XX"). Every rune that is neither a letter nor a digit acts as a
// word separator and is dropped from the result.
package naming

import (
	"strings"
	"unicode"
)

// Words splits s into words. Separators are any non letter/digit rune, and a
// lower-to-upper transition ("userId") or the end of an acronym ("APIKey")
// starts a new word.
func Words(s string) []string {
	var words []string
	var cur []rune
	flush := func() {
		if len(cur) > 0 {
			words = append(words, string(cur))
			cur = cur[:0]
		}
	}

	runes := []rune(s)
	for i, r := range runes {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush()
			continue
		}
		if unicode.IsUpper(r) && len(cur) > 0 {
			prev := cur[len(cur)-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				flush()
			}
		}
		cur = append(cur, r)
	}
	flush()
	return words
}

// ToPascalCase converts a string to PascalCase.
// The first rune of every word is upper-cased; the rest are kept as written,
// so acronyms survive ("getAPIKey" -> "GetAPIKey").
// Example: "get-thing" -> "GetThing"
// Example: "/things/{id}" -> "ThingsId"
func ToPascalCase(s string) string {
	var b strings.Builder
	for _, w := range Words(s) {
		b.WriteString(ToTitleCase(w))
	}
	return b.String()
}

// ToCamelCase converts a string to camelCase.
// Example: "GetThing" -> "getThing"
func ToCamelCase(s string) string {
	words := Words(s)
	if len(words) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(strings.ToLower(words[0]))
	for _, w := range words[1:] {
		b.WriteString(ToTitleCase(w))
	}
	return b.String()
}

// ToSnakeCase converts a string to snake_case.
// Example: "GetAPIKey" -> "get_api_key"
func ToSnakeCase(s string) string {
	return joinLower(Words(s), "_")
}

// ToKebabCase converts a string to kebab-case.
// Example: "GetAPIKey" -> "get-api-key"
func ToKebabCase(s string) string {
	return joinLower(Words(s), "-")
}

// ToTitleCase converts the first letter to uppercase.
// Example: "hello" -> "Hello"
func ToTitleCase(s string) string {
	if s == "" {
		return ""
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// Identifier returns a PascalCase name that starts with a letter.
// A leading digit gets fallback prepended; an input with no letters or
// digits yields fallback alone.
// Example: Identifier("200", "Status") -> "Status200"
func Identifier(s, fallback string) string {
	name := ToPascalCase(s)
	if name == "" {
		return fallback
	}
	if unicode.IsDigit([]rune(name)[0]) {
		return fallback + name
	}
	return name
}

func joinLower(words []string, sep string) string {
	for i, w := range words {
		words[i] = strings.ToLower(w)
	}
	return strings.Join(words, sep)
}
