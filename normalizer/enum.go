package normalizer

import (
	"fmt"
	"math"
	"strings"

	"github.com/erraggy/oasir/ir"
	"github.com/erraggy/oasir/parser"
)

// extensibleEnumKey marks an enum as open. Its value is either true or the
// list of known values.
const extensibleEnumKey = "x-extensible-enum"

// enumValues returns the raw enum of s. An x-extensible-enum list takes
// precedence over enum, and const is a single-value enum.
func (n *Normalizer) enumValues(s *parser.Schema) ([]any, bool) {
	if list, ok := s.Extensions[extensibleEnumKey].([]any); ok {
		return list, true
	}
	if s.HasEnum {
		return s.Enum, true
	}
	if s.HasConst {
		return []any{s.Const}, true
	}
	return nil, false
}

func (n *Normalizer) enumExtensibility(s *parser.Schema) ir.Extensibility {
	switch v := s.Extensions[extensibleEnumKey].(type) {
	case []any:
		return ir.Open
	case bool:
		if v {
			return ir.Open
		}
		return ir.Closed
	}
	return n.extensibility
}

// inferEnumType picks the type of an untyped enum: number when every
// non-null value is a number, then boolean, otherwise string.
func inferEnumType(values []any) string {
	allNumbers, allBools, found := true, true, false
	for _, v := range values {
		if v == nil {
			continue
		}
		found = true
		if _, ok := toFloat(v); !ok {
			allNumbers = false
		}
		if _, ok := v.(bool); !ok {
			allBools = false
		}
	}
	switch {
	case !found:
		return "string"
	case allNumbers:
		return "number"
	case allBools:
		return "boolean"
	}
	return "string"
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case int:
		return float64(x), true
	case int8:
		return float64(x), true
	case int16:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint8:
		return float64(x), true
	case uint16:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	case float32:
		return float64(x), true
	case float64:
		return x, true
	}
	return 0, false
}

// numericEnum keeps the finite numbers of values.
func numericEnum(values []any) ([]float64, bool) {
	var out []float64
	hasNull := false
	for _, v := range values {
		if v == nil {
			hasNull = true
			continue
		}
		f, ok := toFloat(v)
		if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
			continue
		}
		out = append(out, f)
	}
	return out, hasNull
}

// stringEnum stringifies every non-null value.
func stringEnum(values []any) ([]string, bool) {
	var out []string
	hasNull := false
	for _, v := range values {
		switch x := v.(type) {
		case nil:
			hasNull = true
		case string:
			out = append(out, x)
		default:
			out = append(out, fmt.Sprint(x))
		}
	}
	return out, hasNull
}

// booleanEnum keeps the distinct values that stringify to true or false.
func booleanEnum(values []any) ([]string, bool) {
	var out []string
	hasNull := false
	seen := make(map[string]bool, 2)
	for _, v := range values {
		if v == nil {
			hasNull = true
			continue
		}
		s := strings.ToLower(fmt.Sprint(v))
		if (s == "true" || s == "false") && !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out, hasNull
}
