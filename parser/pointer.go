package parser

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v4"
)

// SplitPointer splits a canonical pointer into its document key and fragment.
// "common.yaml#/components/schemas/Pet" yields ("common.yaml", "/components/schemas/Pet").
func SplitPointer(pointer string) (docKey, fragment string) {
	docKey, fragment, _ = strings.Cut(pointer, "#")
	return docKey, fragment
}

// DocumentKey returns the document key part of a canonical pointer.
// The root document's key is empty.
func DocumentKey(pointer string) string {
	key, _ := SplitPointer(pointer)
	return key
}

// JoinPointer builds a canonical pointer from a document key and unescaped
// fragment tokens.
func JoinPointer(docKey string, tokens ...string) string {
	var b strings.Builder
	b.WriteString(docKey)
	b.WriteByte('#')
	for _, t := range tokens {
		b.WriteByte('/')
		b.WriteString(escapeJSONPointer(t))
	}
	return b.String()
}

// Child appends one unescaped token to a canonical pointer.
func Child(pointer, token string) string {
	return pointer + "/" + escapeJSONPointer(token)
}

// PointerTokens returns the unescaped tokens of a pointer fragment.
// Percent-encoding is undone first, then "~1" and "~0" per RFC 6901.
func PointerTokens(fragment string) ([]string, error) {
	if unescaped, err := url.PathUnescape(fragment); err == nil {
		fragment = unescaped
	}
	if fragment == "" || fragment == "/" {
		return nil, nil
	}
	if !strings.HasPrefix(fragment, "/") {
		return nil, fmt.Errorf("pointer fragment %q must start with '/'", fragment)
	}
	parts := strings.Split(fragment[1:], "/")
	for i, p := range parts {
		parts[i] = unescapeJSONPointer(p)
	}
	return parts, nil
}

// canonicalFragment re-escapes a fragment so equal locations compare equal.
func canonicalFragment(fragment string) (string, error) {
	tokens, err := PointerTokens(fragment)
	if err != nil {
		return "", err
	}
	if len(tokens) == 0 {
		return "", nil
	}
	var b strings.Builder
	for _, t := range tokens {
		b.WriteByte('/')
		b.WriteString(escapeJSONPointer(t))
	}
	return b.String(), nil
}

func unescapeJSONPointer(s string) string {
	s = strings.ReplaceAll(s, "~1", "/")
	return strings.ReplaceAll(s, "~0", "~")
}

func escapeJSONPointer(s string) string {
	s = strings.ReplaceAll(s, "~", "~0")
	return strings.ReplaceAll(s, "/", "~1")
}

// deref follows document wrappers and aliases to the content node.
func deref(n *yaml.Node) *yaml.Node {
	for n != nil {
		switch n.Kind {
		case yaml.DocumentNode:
			if len(n.Content) == 0 {
				return nil
			}
			n = n.Content[0]
		case yaml.AliasNode:
			n = n.Alias
		default:
			return n
		}
	}
	return nil
}

// mappingValue returns the value node for key in a mapping node.
func mappingValue(n *yaml.Node, key string) *yaml.Node {
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return deref(n.Content[i+1])
		}
	}
	return nil
}

// lookupNode walks RFC 6901 tokens from root.
func lookupNode(root *yaml.Node, tokens []string) (*yaml.Node, error) {
	current := deref(root)
	for i, tok := range tokens {
		if current == nil {
			return nil, fmt.Errorf("empty node at /%s", strings.Join(tokens[:i], "/"))
		}
		switch current.Kind {
		case yaml.MappingNode:
			next := mappingValue(current, tok)
			if next == nil {
				return nil, fmt.Errorf("missing key %q at /%s", tok, strings.Join(tokens[:i], "/"))
			}
			current = next
		case yaml.SequenceNode:
			index, err := strconv.Atoi(tok)
			if err != nil || index < 0 {
				return nil, fmt.Errorf("invalid array index %q (must be a non-negative integer)", tok)
			}
			if index >= len(current.Content) {
				return nil, fmt.Errorf("array index %d out of bounds (length %d)", index, len(current.Content))
			}
			current = deref(current.Content[index])
		default:
			return nil, fmt.Errorf("cannot traverse into scalar at /%s", strings.Join(tokens[:i], "/"))
		}
	}
	return current, nil
}
