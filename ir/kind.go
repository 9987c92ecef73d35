package ir

import "github.com/erraggy/oasir/oaserrors"

// Kind identifies a variant of the closed model set.
type Kind int

const (
	KindNumeric Kind = iota
	KindString
	KindBoolean
	KindObject
	KindArray
	KindRecord
	KindUnion
	KindIntersection
	KindAny
	KindNever
	// KindRef is reported for *Ref nodes.
	KindRef
)

var kindNames = [...]string{
	KindNumeric:      "numeric",
	KindString:       "string",
	KindBoolean:      "boolean",
	KindObject:       "object",
	KindArray:        "array",
	KindRecord:       "record",
	KindUnion:        "union",
	KindIntersection: "intersection",
	KindAny:          "any",
	KindNever:        "never",
	KindRef:          "ref",
}

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Extensibility says whether an enum admits values beyond its listed ones.
type Extensibility int

const (
	// Closed enums admit only their listed values.
	Closed Extensibility = iota
	// Open enums admit any value of the underlying type.
	Open
)

// String returns "closed" or "open".
func (e Extensibility) String() string {
	if e == Open {
		return "open"
	}
	return "closed"
}

// MarshalText implements encoding.TextMarshaler.
func (e Extensibility) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

// ParseExtensibility parses "open" or "closed".
func ParseExtensibility(s string) (Extensibility, error) {
	switch s {
	case "open":
		return Open, nil
	case "closed":
		return Closed, nil
	}
	return Closed, &oaserrors.ConfigError{Option: "enumExtensibility", Value: s, Message: "must be open or closed"}
}
