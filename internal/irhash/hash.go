// Package irhash computes structural hashes and signatures of IR nodes.
//
// Structural comparison ignores annotations (description, deprecated and
// default) and focuses on what constrains a value. It is what the reducer
// uses to deduplicate union and intersection branches.
package irhash

import (
	"fmt"
	"hash/fnv"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/erraggy/oasir/ir"
)

// Hash returns the fnv-64a hash of the structural signature of n.
// Nodes with the same structure have the same hash. Collisions are
// possible; use Equal to confirm.
func Hash(n ir.Node) uint64 {
	h := fnv.New64a()
	write(h, n)
	return h.Sum64()
}

// Signature returns the structural signature of n.
func Signature(n ir.Node) string {
	var sb strings.Builder
	write(&sb, n)
	return sb.String()
}

// Equal reports whether a and b are structurally identical.
func Equal(a, b ir.Node) bool {
	return Signature(a) == Signature(b)
}

// Dedupe removes structurally repeated nodes, keeping the first occurrence.
func Dedupe(nodes []ir.Node) []ir.Node {
	if len(nodes) < 2 {
		return nodes
	}
	buckets := make(map[uint64][]string, len(nodes))
	out := make([]ir.Node, 0, len(nodes))
	for _, n := range nodes {
		sig := Signature(n)
		h := fnv.New64a()
		_, _ = io.WriteString(h, sig)
		key := h.Sum64()
		if slices.Contains(buckets[key], sig) {
			continue
		}
		buckets[key] = append(buckets[key], sig)
		out = append(out, n)
	}
	return out
}

func writeString(w io.Writer, s string) {
	_, _ = io.WriteString(w, s)
}

func writeFloat(w io.Writer, label string, f *float64) {
	if f == nil {
		return
	}
	writeString(w, label)
	writeString(w, strconv.FormatFloat(*f, 'g', -1, 64))
	writeString(w, ";")
}

func writeInt(w io.Writer, label string, i *int) {
	if i == nil {
		return
	}
	writeString(w, label)
	writeString(w, strconv.Itoa(*i))
	writeString(w, ";")
}

func writeBase(w io.Writer, b *ir.Base) {
	if b.Nullable {
		writeString(w, "nullable;")
	}
	if b.ReadOnly {
		writeString(w, "readOnly;")
	}
	if b.WriteOnly {
		writeString(w, "writeOnly;")
	}
}

func writeList(w io.Writer, label string, nodes []ir.Node) {
	if len(nodes) == 0 {
		return
	}
	writeString(w, label)
	writeString(w, "[")
	for _, n := range nodes {
		write(w, n)
		writeString(w, ",")
	}
	writeString(w, "]")
}

// write emits the signature of n. IR trees are acyclic: recursion only
// happens through refs, which are written by name.
func write(w io.Writer, n ir.Node) {
	switch x := n.(type) {
	case nil:
		writeString(w, "nil")
	case *ir.Ref:
		writeString(w, "ref(")
		writeString(w, x.Name)
		if x.Nullable {
			writeString(w, ";nullable")
		}
		writeString(w, ")")
	case *ir.Numeric:
		writeString(w, "numeric(")
		writeBase(w, &x.Base)
		if x.Integer {
			writeString(w, "integer;")
		}
		writeString(w, "format:"+x.Format+";")
		writeFloat(w, "multipleOf:", x.MultipleOf)
		writeFloat(w, "minimum:", x.Minimum)
		writeFloat(w, "maximum:", x.Maximum)
		writeFloat(w, "exclusiveMinimum:", x.ExclusiveMinimum)
		writeFloat(w, "exclusiveMaximum:", x.ExclusiveMaximum)
		if len(x.Enum) > 0 {
			writeString(w, "enum:")
			for _, v := range x.Enum {
				writeString(w, strconv.FormatFloat(v, 'g', -1, 64)+",")
			}
			writeString(w, x.Extensibility.String()+";")
		}
		writeString(w, ")")
	case *ir.String:
		writeStringModel(w, x)
	case *ir.Boolean:
		writeString(w, "boolean(")
		writeBase(w, &x.Base)
		if len(x.Enum) > 0 {
			writeString(w, "enum:"+strings.Join(x.Enum, ",")+";"+x.Extensibility.String())
		}
		writeString(w, ")")
	case *ir.Object:
		writeString(w, "object(")
		writeBase(w, &x.Base)
		if x.Properties.Len() > 0 {
			keys := make([]string, 0, x.Properties.Len())
			for k := range x.Properties.Keys() {
				keys = append(keys, k)
			}
			slices.Sort(keys)
			writeString(w, "properties:{")
			for _, k := range keys {
				p, _ := x.Properties.Get(k)
				writeString(w, strconv.Quote(k)+":")
				write(w, p)
				writeString(w, ",")
			}
			writeString(w, "}")
		}
		if len(x.Required) > 0 {
			required := slices.Clone(x.Required)
			slices.Sort(required)
			writeString(w, "required:"+strings.Join(required, ",")+";")
		}
		if ap := x.AdditionalProperties; ap != nil {
			writeString(w, fmt.Sprintf("additional:%t:", ap.Allowed))
			if ap.Schema != nil {
				write(w, ap.Schema)
			}
			writeString(w, ";")
		}
		writeList(w, "allOf:", x.AllOf)
		writeList(w, "oneOf:", x.OneOf)
		writeList(w, "anyOf:", x.AnyOf)
		writeDiscriminator(w, x.Discriminator)
		writeString(w, ")")
	case *ir.Array:
		writeString(w, "array(")
		writeBase(w, &x.Base)
		if x.UniqueItems {
			writeString(w, "unique;")
		}
		writeInt(w, "minItems:", x.MinItems)
		writeInt(w, "maxItems:", x.MaxItems)
		writeString(w, "items:")
		write(w, x.Items)
		writeString(w, ")")
	case *ir.Record:
		writeString(w, "record(")
		writeBase(w, &x.Base)
		if x.Key != nil {
			writeStringModel(w, x.Key)
		}
		writeString(w, ":")
		write(w, x.Value)
		writeString(w, ")")
	case *ir.Union:
		writeString(w, "union(")
		writeBase(w, &x.Base)
		writeList(w, "", x.Schemas)
		writeDiscriminator(w, x.Discriminator)
		writeString(w, ")")
	case *ir.Intersection:
		writeString(w, "intersection(")
		writeBase(w, &x.Base)
		writeList(w, "", x.Schemas)
		writeString(w, ")")
	case *ir.Any:
		writeString(w, "any(")
		writeBase(w, &x.Base)
		writeString(w, ")")
	case *ir.Never:
		writeString(w, "never(")
		writeBase(w, &x.Base)
		writeString(w, ")")
	default:
		writeString(w, fmt.Sprintf("unknown(%T)", n))
	}
}

func writeDiscriminator(w io.Writer, d *ir.Discriminator) {
	if d == nil {
		return
	}
	writeString(w, "discriminator:"+d.PropertyName)
	keys := make([]string, 0, len(d.Mapping))
	for k := range d.Mapping {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		writeString(w, ","+k+"="+d.Mapping[k])
	}
	writeString(w, ";")
}

func writeStringModel(w io.Writer, x *ir.String) {
	writeString(w, "string(")
	writeBase(w, &x.Base)
	writeString(w, "format:"+x.Format+";")
	writeInt(w, "minLength:", x.MinLength)
	writeInt(w, "maxLength:", x.MaxLength)
	if x.Pattern != "" {
		writeString(w, "pattern:"+strconv.Quote(x.Pattern)+";")
	}
	if len(x.Enum) > 0 {
		writeString(w, "enum:")
		for _, v := range x.Enum {
			writeString(w, strconv.Quote(v)+",")
		}
		writeString(w, x.Extensibility.String()+";")
	}
	writeString(w, ")")
}
