package compiler

import (
	"context"
	"fmt"
	"strings"

	"github.com/speakeasy-api/openapi/sequencedmap"
	"golang.org/x/sync/errgroup"

	"github.com/erraggy/oasir/internal/issues"
	"github.com/erraggy/oasir/ir"
	"github.com/erraggy/oasir/namegen"
	"github.com/erraggy/oasir/normalizer"
	"github.com/erraggy/oasir/parser"
)

// Operation is a compiled operation.
type Operation struct {
	ID         string                  `json:"operationId"`
	Method     string                  `json:"method"`
	Path       string                  `json:"path"`
	Summary    string                  `json:"summary,omitempty"`
	Tags       []string                `json:"tags,omitempty"`
	Deprecated bool                    `json:"deprecated,omitempty"`
	Parameters *ir.OperationParameters `json:"parameters"`
	Body       *Body                   `json:"requestBody,omitempty"`
	Responses  []*Response             `json:"responses,omitempty"`
	Pointer    string                  `json:"pointer,omitempty"`
}

// Body is the JSON request body of an operation. Schema is a reference:
// to a named schema when the body schema is a $ref, otherwise to the
// virtual <OperationId>Body schema.
type Body struct {
	MediaType   string  `json:"mediaType"`
	Required    bool    `json:"required"`
	Description string  `json:"description,omitempty"`
	Schema      ir.Node `json:"schema"`
}

// Response is one declared response. Schema is nil when the response has no
// JSON content.
type Response struct {
	Status      string  `json:"status"`
	Description string  `json:"description,omitempty"`
	MediaType   string  `json:"mediaType,omitempty"`
	Schema      ir.Node `json:"schema,omitempty"`
}

// provisional marks names handed out while operations run concurrently.
const provisional = "\x00"

type opTask struct {
	method string
	path   string
	item   *parser.PathItem
	op     *parser.Operation
	id     string
}

// opResult is the output of one operation, kept apart from the shared
// registries until all operations finished.
type opResult struct {
	op      *Operation
	virtual *ir.Registry
	issues  *issues.Collector
	pending []string
}

// operations compiles every operation of doc in path order.
func (r *compilation) operations(ctx context.Context, doc *parser.Document) ([]*Operation, error) {
	tasks, err := r.collect(doc)
	if err != nil {
		return nil, err
	}

	results := make([]*opResult, len(tasks))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)
	for i, t := range tasks {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := r.operation(t)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ops := make([]*Operation, 0, len(results))
	for _, res := range results {
		if err := r.settle(res); err != nil {
			return nil, err
		}
		ops = append(ops, res.op)
	}
	return ops, nil
}

// collect lists the operations of doc and assigns their ids. Declared ids
// take precedence over synthesized ones; a repeated id gets a numeric
// suffix and a warning.
func (r *compilation) collect(doc *parser.Document) ([]*opTask, error) {
	var tasks []*opTask
	declared := make(map[string]bool)
	for urlPath, item := range doc.Paths.All() {
		if item == nil {
			continue
		}
		if item.Ref != "" {
			resolved, err := r.resolver.ResolvePathItem(item.Ref)
			if err != nil {
				return nil, fmt.Errorf("compiler: path %s: %w", urlPath, err)
			}
			item = resolved
		}
		for _, method := range parser.Methods {
			op := item.Operation(method)
			if op == nil {
				continue
			}
			if op.OperationID != "" {
				declared[op.OperationID] = true
			}
			tasks = append(tasks, &opTask{method: method, path: urlPath, item: item, op: op})
		}
	}

	taken := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		id := t.op.OperationID
		if id == "" {
			id = namegen.Unique(r.names.OperationID(t.method, t.path), func(s string) bool {
				return taken[s] || declared[s]
			})
		} else if taken[id] {
			unique := namegen.Unique(id, func(s string) bool { return taken[s] || declared[s] })
			message := fmt.Sprintf("duplicate operationId %q renamed to %q", id, unique)
			r.issues.Warn(t.op.Pointer, "operationId", message, id)
			r.logger.Warn(message, "path", t.op.Pointer)
			id = unique
		}
		taken[id] = true
		t.id = id
	}
	return tasks, nil
}

// operation normalizes one operation against private registries. Pointers
// the catalog has not named yet get provisional names, fixed by settle.
func (r *compilation) operation(t *opTask) (*opResult, error) {
	res := &opResult{virtual: ir.NewRegistry(), issues: &issues.Collector{}}
	requested := make(map[string]bool)
	namer := normalizer.RefNamerFunc(func(pointer string) (string, error) {
		if name, ok := r.catalog.lookup(pointer); ok {
			return name, nil
		}
		if !requested[pointer] {
			requested[pointer] = true
			res.pending = append(res.pending, pointer)
		}
		return provisional + pointer, nil
	})
	norm, err := r.normalizer(namer, res.virtual, res.issues)
	if err != nil {
		return nil, err
	}

	raw := make([]*parser.Parameter, 0, len(t.item.Parameters)+len(t.op.Parameters))
	raw = append(raw, t.item.Parameters...)
	raw = append(raw, t.op.Parameters...)
	params, err := norm.Parameters(t.id, raw)
	if err != nil {
		return nil, fmt.Errorf("compiler: operation %s: %w", t.id, err)
	}

	op := &Operation{
		ID:         t.id,
		Method:     t.method,
		Path:       t.path,
		Summary:    t.op.Summary,
		Tags:       t.op.Tags,
		Deprecated: t.op.Deprecated,
		Parameters: params,
		Pointer:    t.op.Pointer,
	}
	if t.op.RequestBody != nil {
		body, err := r.requestBody(norm, res, t.id, t.op.RequestBody)
		if err != nil {
			return nil, fmt.Errorf("compiler: operation %s: request body: %w", t.id, err)
		}
		op.Body = body
	}
	for status, resp := range t.op.Responses.All() {
		if resp == nil {
			continue
		}
		out, err := r.response(norm, res, t.id, status, resp)
		if err != nil {
			return nil, fmt.Errorf("compiler: operation %s: response %s: %w", t.id, status, err)
		}
		op.Responses = append(op.Responses, out)
	}
	res.op = op
	return res, nil
}

func (r *compilation) requestBody(norm *normalizer.Normalizer, res *opResult, id string, rb *parser.RequestBody) (*Body, error) {
	if rb.Ref != "" {
		resolved, err := r.resolver.ResolveRequestBody(rb.Ref)
		if err != nil {
			return nil, err
		}
		rb = resolved
	}
	mediaType, raw := jsonContent(rb.Content)
	if raw == nil {
		if rb.Content.Len() > 0 {
			res.issues.Warn(rb.Pointer, "content", "request body has no JSON media type with a schema and is skipped", nil)
		}
		return nil, nil
	}
	schema, err := r.payload(norm, res, r.names.RequestBody(id), raw)
	if err != nil {
		return nil, err
	}
	return &Body{
		MediaType:   mediaType,
		Required:    rb.Required,
		Description: rb.Description,
		Schema:      schema,
	}, nil
}

func (r *compilation) response(norm *normalizer.Normalizer, res *opResult, id, status string, resp *parser.Response) (*Response, error) {
	if resp.Ref != "" {
		resolved, err := r.resolver.ResolveResponse(resp.Ref)
		if err != nil {
			return nil, err
		}
		resp = resolved
	}
	out := &Response{Status: status, Description: resp.Description}
	mediaType, raw := jsonContent(resp.Content)
	if raw == nil {
		return out, nil
	}
	schema, err := r.payload(norm, res, r.names.Response(id, status), raw)
	if err != nil {
		return nil, err
	}
	out.MediaType = mediaType
	out.Schema = schema
	return out, nil
}

// payload normalizes a body schema. A $ref stays a reference to the named
// schema; anything inline is registered as a virtual schema called name.
func (r *compilation) payload(norm *normalizer.Normalizer, res *opResult, name string, raw *parser.Schema) (ir.Node, error) {
	if raw.Ref != "" {
		return norm.Schema(raw)
	}
	model, err := norm.Model(raw)
	if err != nil {
		return nil, err
	}
	if err := res.virtual.Add(name, raw.Pointer, model); err != nil {
		return nil, err
	}
	return &ir.Ref{Name: name, Virtual: true}, nil
}

// settle names the pointers res requested, replaces its provisional names
// and merges its virtual schemas and diagnostics into the shared ones.
// Results are settled in operation order.
func (r *compilation) settle(res *opResult) error {
	final := make(map[string]string, len(res.pending))
	for _, pointer := range res.pending {
		final[provisional+pointer] = r.catalog.assign(pointer)
	}
	if len(final) > 0 {
		op := res.op
		for _, p := range op.Parameters.All {
			rename(p.Schema, final)
		}
		if op.Body != nil {
			rename(op.Body.Schema, final)
		}
		for _, resp := range op.Responses {
			rename(resp.Schema, final)
		}
		for _, e := range res.virtual.All() {
			rename(e.Model, final)
		}
	}

	unknown := r.names.Unknown()
	entries := res.virtual.All()
	moved := make(map[string]string)
	for _, e := range entries {
		if e.Name == unknown {
			continue
		}
		if name := r.catalog.reserve(e.Name, r.virtual.Has); name != e.Name {
			moved[e.Name] = name
		}
	}
	if len(moved) > 0 {
		renameVirtual(res, moved)
	}
	for _, e := range entries {
		if e.Name == unknown {
			r.virtual.Ensure(e.Name, e.Pointer, e.Model)
			continue
		}
		name := e.Name
		if to, ok := moved[name]; ok {
			message := fmt.Sprintf("schema name %q is taken; synthesized schema renamed to %q", name, to)
			r.issues.Warn(res.op.Pointer, "name", message, name)
			r.logger.Warn(message, "operation", res.op.ID)
			name = to
		}
		if err := r.virtual.Add(name, e.Pointer, e.Model); err != nil {
			return fmt.Errorf("compiler: operation %s: %w", res.op.ID, err)
		}
	}
	for _, issue := range res.issues.Issues() {
		r.issues.Add(issue)
	}
	return nil
}

// rename rewrites reference names and discriminator mapping targets found
// in final, in place.
func rename(n ir.Node, final map[string]string) {
	ir.Walk(n, func(n ir.Node) bool {
		var d *ir.Discriminator
		switch x := n.(type) {
		case *ir.Ref:
			if name, ok := final[x.Name]; ok {
				x.Name = name
			}
		case *ir.Object:
			d = x.Discriminator
		case *ir.Union:
			d = x.Discriminator
		}
		if d != nil {
			for value, target := range d.Mapping {
				if name, ok := final[target]; ok {
					d.Mapping[value] = name
				}
			}
		}
		return true
	})
}

// renameVirtual rewrites the virtual refs and group names of res that are
// keys of moved. Refs to named schemas are left alone.
func renameVirtual(res *opResult, moved map[string]string) {
	visit := func(n ir.Node) {
		ir.Walk(n, func(n ir.Node) bool {
			if ref, ok := n.(*ir.Ref); ok && ref.Virtual {
				if name, ok := moved[ref.Name]; ok {
					ref.Name = name
				}
			}
			return true
		})
	}
	op := res.op
	if params := op.Parameters; params != nil {
		for _, g := range []*ir.Group{params.Path, params.Query, params.Header, params.Cookie} {
			if g == nil {
				continue
			}
			if name, ok := moved[g.Name]; ok {
				g.Name = name
			}
			if g.VirtualRef != nil {
				visit(g.VirtualRef)
			}
		}
	}
	if op.Body != nil {
		visit(op.Body.Schema)
	}
	for _, resp := range op.Responses {
		visit(resp.Schema)
	}
	for _, e := range res.virtual.All() {
		visit(e.Model)
	}
}

// jsonContent returns the first JSON-like media type that has a schema.
func jsonContent(content *sequencedmap.Map[string, *parser.MediaType]) (string, *parser.Schema) {
	for mediaType, media := range content.All() {
		if media == nil || media.Schema == nil || !isJSON(mediaType) {
			continue
		}
		return mediaType, media.Schema
	}
	return "", nil
}

func isJSON(mediaType string) bool {
	mt, _, _ := strings.Cut(strings.ToLower(mediaType), ";")
	mt = strings.TrimSpace(mt)
	switch mt {
	case "application/json", "application/*", "*/*":
		return true
	}
	return strings.HasSuffix(mt, "+json")
}
