package parser

import (
	"sync"

	"github.com/erraggy/oasir/oaserrors"
	"go.yaml.in/yaml/v4"
)

// RefResolver resolves canonical pointers against the loaded document set.
//
// All documents reachable from the root were loaded before the resolver was
// handed out, so resolution never performs I/O. Decoded objects are memoized
// per pointer: resolving the same pointer twice returns the same value.
// A RefResolver is safe for concurrent use.
type RefResolver struct {
	mu         sync.Mutex
	loader     *loader
	sourceName string
	maxDepth   int

	schemas    map[string]*Schema
	parameters map[string]*Parameter
	bodies     map[string]*RequestBody
	responses  map[string]*Response
	pathItems  map[string]*PathItem
}

func newRefResolver(l *loader, sourceName string, maxDepth int) *RefResolver {
	if maxDepth <= 0 {
		maxDepth = MaxRefDepth
	}
	return &RefResolver{
		loader:     l,
		sourceName: sourceName,
		maxDepth:   maxDepth,
		schemas:    make(map[string]*Schema),
		parameters: make(map[string]*Parameter),
		bodies:     make(map[string]*RequestBody),
		responses:  make(map[string]*Response),
		pathItems:  make(map[string]*PathItem),
	}
}

// Documents returns the keys of all loaded documents in load order.
// The root document is always first, with key "".
func (r *RefResolver) Documents() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.loader.order...)
}

// Location returns the file path (relative to the base directory) or URL of
// a document key. The root document of a byte-sourced parse has no location.
func (r *RefResolver) Location(docKey string) string {
	return r.loader.location(docKey)
}

// Canonicalize rewrites ref, as written inside the document docKey, into a
// canonical pointer.
func (r *RefResolver) Canonicalize(docKey, ref string) (string, error) {
	return r.loader.canonicalize(docKey, ref)
}

// node returns the yaml node a canonical pointer designates.
func (r *RefResolver) node(pointer string) (*yaml.Node, string, error) {
	docKey, fragment := SplitPointer(pointer)
	doc, ok := r.loader.docs[docKey]
	if !ok {
		return nil, "", &oaserrors.ReferenceError{
			Ref:     pointer,
			RefType: refType(docKey),
			Message: "document " + r.loader.location(docKey) + " was not loaded",
		}
	}
	tokens, err := PointerTokens(fragment)
	if err != nil {
		return nil, "", &oaserrors.ReferenceError{Ref: pointer, RefType: refType(docKey), Message: err.Error()}
	}
	n, err := lookupNode(doc.root, tokens)
	if err != nil {
		return nil, "", &oaserrors.ReferenceError{Ref: pointer, RefType: refType(docKey), Message: "target not found", Cause: err}
	}
	return n, JoinPointer(docKey, tokens...), nil
}

func refType(docKey string) string {
	switch {
	case docKey == "":
		return "local"
	case isHTTP(docKey):
		return "http"
	default:
		return "file"
	}
}

// Resolve returns the raw yaml node a canonical pointer designates.
func (r *RefResolver) Resolve(pointer string) (*yaml.Node, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, _, err := r.node(pointer)
	return n, err
}

// ResolveSchema decodes the schema at a canonical pointer. A "$ref" schema
// is returned as written; following it is the caller's concern.
func (r *RefResolver) ResolveSchema(pointer string) (*Schema, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, canonical, err := r.node(pointer)
	if err != nil {
		return nil, err
	}
	return r.decodeSchema(canonical, n)
}

// ResolveParameter follows a chain of "$ref" parameters starting at pointer
// and returns the first concrete parameter.
func (r *RefResolver) ResolveParameter(pointer string) (*Parameter, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return followChain(r, pointer, r.decodeParameter, func(p *Parameter) string { return p.Ref })
}

// ResolveRequestBody follows a chain of "$ref" request bodies.
func (r *RefResolver) ResolveRequestBody(pointer string) (*RequestBody, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return followChain(r, pointer, r.decodeRequestBody, func(b *RequestBody) string { return b.Ref })
}

// ResolveResponse follows a chain of "$ref" responses.
func (r *RefResolver) ResolveResponse(pointer string) (*Response, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return followChain(r, pointer, r.decodeResponse, func(resp *Response) string { return resp.Ref })
}

// ResolvePathItem follows a chain of "$ref" path items.
func (r *RefResolver) ResolvePathItem(pointer string) (*PathItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return followChain(r, pointer, r.decodePathItem, func(p *PathItem) string { return p.Ref })
}

// followChain must be called with r.mu held.
func followChain[T any](r *RefResolver, pointer string, decode func(string, *yaml.Node) (T, error), ref func(T) string) (T, error) {
	var zero T
	seen := make(map[string]bool)
	for depth := 0; ; depth++ {
		if depth >= r.maxDepth {
			return zero, &oaserrors.ResourceLimitError{ResourceType: "ref_depth", Limit: int64(r.maxDepth), Message: pointer}
		}
		if seen[pointer] {
			return zero, &oaserrors.ReferenceError{Ref: pointer, RefType: refType(DocumentKey(pointer)), IsCircular: true}
		}
		seen[pointer] = true

		n, canonical, err := r.node(pointer)
		if err != nil {
			return zero, err
		}
		v, err := decode(canonical, n)
		if err != nil {
			return zero, err
		}
		next := ref(v)
		if next == "" {
			return v, nil
		}
		pointer = next
	}
}
