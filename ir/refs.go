package ir

import "slices"

// References returns the names of the refs directly reachable from n,
// without following any ref, deduplicated and in first-seen order.
func References(n Node) []string {
	var names []string
	seen := make(map[string]bool)
	Walk(n, func(c Node) bool {
		if r, ok := c.(*Ref); ok && !seen[r.Name] {
			seen[r.Name] = true
			names = append(names, r.Name)
		}
		return true
	})
	return names
}

// Refs returns every *Ref nested in n, in depth-first order.
func Refs(n Node) []*Ref {
	var out []*Ref
	Walk(n, func(c Node) bool {
		if r, ok := c.(*Ref); ok {
			out = append(out, r)
		}
		return true
	})
	return out
}

// ReferencesSorted is References in lexical order.
func ReferencesSorted(n Node) []string {
	names := References(n)
	slices.Sort(names)
	return names
}
