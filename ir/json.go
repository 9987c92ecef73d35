package ir

import (
	"bytes"

	"github.com/goccy/go-json"
)

// Every variant marshals as a JSON object tagged with its "kind", so an
// IR tree can be dumped and inspected without losing the variant.

// tagged marshals v, a method-free alias of a variant, and writes the kind
// as the first member of the resulting object.
func tagged(k Kind, v any) ([]byte, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	body = bytes.TrimSpace(body)

	var buf bytes.Buffer
	buf.Grow(len(body) + 24)
	buf.WriteString(`{"kind":"`)
	buf.WriteString(k.String())
	buf.WriteByte('"')
	if len(body) > 2 {
		buf.WriteByte(',')
		buf.Write(body[1:])
	} else {
		buf.WriteByte('}')
	}
	return buf.Bytes(), nil
}

func (n *Numeric) MarshalJSON() ([]byte, error) {
	type alias Numeric
	return tagged(KindNumeric, (*alias)(n))
}

func (n *String) MarshalJSON() ([]byte, error) {
	type alias String
	return tagged(KindString, (*alias)(n))
}

func (n *Boolean) MarshalJSON() ([]byte, error) {
	type alias Boolean
	return tagged(KindBoolean, (*alias)(n))
}

func (n *Object) MarshalJSON() ([]byte, error) {
	type alias Object
	return tagged(KindObject, (*alias)(n))
}

func (n *Array) MarshalJSON() ([]byte, error) {
	type alias Array
	return tagged(KindArray, (*alias)(n))
}

func (n *Record) MarshalJSON() ([]byte, error) {
	type alias Record
	return tagged(KindRecord, (*alias)(n))
}

func (n *Union) MarshalJSON() ([]byte, error) {
	type alias Union
	return tagged(KindUnion, (*alias)(n))
}

func (n *Intersection) MarshalJSON() ([]byte, error) {
	type alias Intersection
	return tagged(KindIntersection, (*alias)(n))
}

func (n *Any) MarshalJSON() ([]byte, error) {
	type alias Any
	return tagged(KindAny, (*alias)(n))
}

func (n *Never) MarshalJSON() ([]byte, error) {
	type alias Never
	return tagged(KindNever, (*alias)(n))
}

func (n *Ref) MarshalJSON() ([]byte, error) {
	type alias Ref
	return tagged(KindRef, (*alias)(n))
}
