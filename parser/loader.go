package parser

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/erraggy/oasir"
	"github.com/erraggy/oasir/oaserrors"
	"go.yaml.in/yaml/v4"
)

const (
	// MaxRefDepth is the maximum length of a $ref chain between reusable objects
	// (a parameter whose $ref points to another $ref parameter, and so on).
	MaxRefDepth = 100

	// MaxCachedDocuments is the maximum number of documents loaded for one root
	// document, the root included.
	MaxCachedDocuments = 100

	// MaxFileSize is the maximum size (in bytes) of any single document.
	MaxFileSize = 10 * 1024 * 1024 // 10MB
)

// HTTPFetcher fetches the body of an http(s) document.
type HTTPFetcher func(ctx context.Context, url string) ([]byte, error)

// NewHTTPFetcher returns an HTTPFetcher backed by client (http.DefaultClient
// when nil). Responses other than 200 are an error.
func NewHTTPFetcher(client *http.Client) HTTPFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return func(ctx context.Context, u string) ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", oasir.UserAgent())
		resp, err := client.Do(req)
		if err != nil {
			return nil, err
		}
		defer func() { _ = resp.Body.Close() }()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("GET %s: unexpected status %s", u, resp.Status)
		}
		return io.ReadAll(io.LimitReader(resp.Body, MaxFileSize+1))
	}
}

// document is one loaded source, keyed by its canonical document key.
type document struct {
	key  string
	root *yaml.Node
}

// loader reads documents and keeps them by key. It is only used while a
// document set is being loaded; afterwards the resolver is read-only.
type loader struct {
	baseDir string
	// rootFile is the root document's slash path relative to baseDir, or "".
	rootFile string
	// rootURL is set when the root document itself was fetched over http.
	rootURL *url.URL

	fetch       HTTPFetcher
	maxDocs     int
	maxFileSize int64
	logger      Logger

	docs  map[string]*document
	order []string
}

func isHTTP(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// canonicalize rewrites ref, written inside the document with key docKey,
// into a canonical pointer.
func (l *loader) canonicalize(docKey, ref string) (string, error) {
	target, fragment, _ := strings.Cut(ref, "#")
	frag, err := canonicalFragment(fragment)
	if err != nil {
		return "", &oaserrors.ReferenceError{Ref: ref, RefType: "local", Message: err.Error()}
	}
	if target == "" {
		return docKey + "#" + frag, nil
	}

	key, err := l.documentKeyFor(docKey, target)
	if err != nil {
		return "", err
	}
	return key + "#" + frag, nil
}

func (l *loader) documentKeyFor(docKey, target string) (string, error) {
	base := l.location(docKey)
	if isHTTP(target) || isHTTP(base) {
		return l.urlKey(base, target)
	}

	var joined string
	if filepath.IsAbs(target) {
		absBase, err := filepath.Abs(l.baseDir)
		if err != nil {
			return "", fmt.Errorf("failed to resolve base directory: %w", err)
		}
		rel, err := filepath.Rel(absBase, target)
		if err != nil {
			return "", &oaserrors.ReferenceError{Ref: target, RefType: "file", IsPathTraversal: true, Cause: err}
		}
		joined = filepath.ToSlash(rel)
	} else {
		dir := "."
		if base != "" {
			dir = path.Dir(base)
		}
		joined = path.Join(dir, filepath.ToSlash(target))
	}

	if joined == ".." || strings.HasPrefix(joined, "../") {
		return "", &oaserrors.ReferenceError{
			Ref:             target,
			RefType:         "file",
			IsPathTraversal: true,
			Message:         "reference escapes base directory " + l.baseDir,
		}
	}
	if joined == l.rootFile {
		return "", nil
	}
	return joined, nil
}

func (l *loader) urlKey(base, target string) (string, error) {
	ref, err := url.Parse(target)
	if err != nil {
		return "", &oaserrors.ReferenceError{Ref: target, RefType: "http", Cause: err}
	}
	if !ref.IsAbs() {
		baseURL, err := url.Parse(base)
		if err != nil {
			return "", &oaserrors.ReferenceError{Ref: target, RefType: "http", Cause: err}
		}
		ref = baseURL.ResolveReference(ref)
	}
	ref.Fragment = ""
	if l.rootURL != nil && ref.String() == l.rootURL.String() {
		return "", nil
	}
	return ref.String(), nil
}

// location returns the file path (relative to baseDir) or URL of a document key.
func (l *loader) location(docKey string) string {
	if docKey != "" {
		return docKey
	}
	if l.rootURL != nil {
		return l.rootURL.String()
	}
	return l.rootFile
}

// read returns the raw bytes of the document with the given key.
func (l *loader) read(ctx context.Context, key string) ([]byte, error) {
	loc := l.location(key)
	if isHTTP(loc) {
		if l.fetch == nil {
			return nil, &oaserrors.ReferenceError{Ref: loc, RefType: "http", Message: "http references require an HTTP fetcher"}
		}
		data, err := l.fetch(ctx, loc)
		if err != nil {
			return nil, &oaserrors.ReferenceError{Ref: loc, RefType: "http", Cause: err}
		}
		if int64(len(data)) > l.maxFileSize {
			return nil, &oaserrors.ResourceLimitError{ResourceType: "file_size", Limit: l.maxFileSize, Actual: int64(len(data)), Message: loc}
		}
		return data, nil
	}

	file := filepath.Join(l.baseDir, filepath.FromSlash(loc))
	info, err := os.Stat(file)
	if err != nil {
		return nil, &oaserrors.ReferenceError{Ref: loc, RefType: "file", Message: "cannot read document", Cause: err}
	}
	if info.Size() > l.maxFileSize {
		return nil, &oaserrors.ResourceLimitError{ResourceType: "file_size", Limit: l.maxFileSize, Actual: info.Size(), Message: loc}
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, &oaserrors.ReferenceError{Ref: loc, RefType: "file", Message: "cannot read document", Cause: err}
	}
	return data, nil
}

// add parses data as the document with the given key.
func (l *loader) add(key string, data []byte) (*document, error) {
	if len(l.docs) >= l.maxDocs {
		return nil, &oaserrors.ResourceLimitError{
			ResourceType: "cached_documents",
			Limit:        int64(l.maxDocs),
			Actual:       int64(len(l.docs) + 1),
			Message:      "while loading " + l.location(key),
		}
	}
	var root yaml.Node
	if err := yaml.NewDecoder(bytes.NewReader(data)).Decode(&root); err != nil {
		if err == io.EOF {
			return nil, &oaserrors.ParseError{Path: l.location(key), Message: "document is empty"}
		}
		return nil, &oaserrors.ParseError{Path: l.location(key), Message: "invalid YAML or JSON", Cause: err}
	}
	doc := &document{key: key, root: &root}
	l.docs[key] = doc
	l.order = append(l.order, key)
	l.logger.Debug("loaded document", "key", key, "location", l.location(key), "bytes", len(data))
	return doc, nil
}

// loadAll loads every document reachable through $ref from the already
// added root document. Each document is read and parsed at most once.
func (l *loader) loadAll(ctx context.Context) error {
	queue := []string{""}
	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("parser: loading documents: %w", err)
		}
		key := queue[0]
		queue = queue[1:]

		doc := l.docs[key]
		var refs []string
		collectRefs(doc.root, &refs)
		for _, ref := range refs {
			canonical, err := l.canonicalize(key, ref)
			if err != nil {
				return err
			}
			target := DocumentKey(canonical)
			if _, loaded := l.docs[target]; loaded {
				continue
			}
			data, err := l.read(ctx, target)
			if err != nil {
				return err
			}
			if _, err := l.add(target, data); err != nil {
				return err
			}
			queue = append(queue, target)
		}
	}
	return nil
}

// collectRefs appends every "$ref" string value found under n.
func collectRefs(n *yaml.Node, refs *[]string) {
	if n == nil {
		return
	}
	switch n.Kind {
	case yaml.DocumentNode, yaml.SequenceNode:
		for _, c := range n.Content {
			collectRefs(c, refs)
		}
	case yaml.MappingNode:
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, v := n.Content[i], n.Content[i+1]
			if k.Value == "$ref" && v.Kind == yaml.ScalarNode {
				*refs = append(*refs, v.Value)
				continue
			}
			collectRefs(v, refs)
		}
	}
}
