package compiler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/erraggy/oasir/internal/issues"
	"github.com/erraggy/oasir/ir"
	"github.com/erraggy/oasir/namegen"
	"github.com/erraggy/oasir/normalizer"
	"github.com/erraggy/oasir/oaserrors"
	"github.com/erraggy/oasir/parser"
)

// Compiler turns parse results into a [Result]. A Compiler holds only its
// settings and may be reused, including concurrently.
type Compiler struct {
	names         namegen.Generator
	logger        parser.Logger
	extensibility ir.Extensibility
	concurrency   int
}

// New returns a Compiler configured by opts. Source options such as
// WithFilePath are ignored; they only apply to CompileWithOptions.
func New(opts ...Option) (*Compiler, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("compiler: invalid options: %w", err)
	}
	return newCompiler(cfg), nil
}

func newCompiler(cfg *config) *Compiler {
	return &Compiler{
		names:         cfg.names,
		logger:        parser.OrNop(cfg.logger),
		extensibility: cfg.extensibility,
		concurrency:   cfg.concurrency,
	}
}

// CompileWithOptions parses the document named by WithFilePath or WithBytes
// and compiles it.
//
// Example:
//
//	res, err := compiler.CompileWithOptions(ctx,
//	    compiler.WithFilePath("openapi.yaml"),
//	    compiler.WithConcurrency(4),
//	)
func CompileWithOptions(ctx context.Context, opts ...Option) (*Result, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("compiler: invalid options: %w", err)
	}
	var parseOpts []parser.Option
	switch {
	case cfg.filePath != nil && cfg.bytes != nil:
		return nil, fmt.Errorf("compiler: invalid options: %w",
			&oaserrors.ConfigError{Option: "source", Message: "WithFilePath and WithBytes are mutually exclusive"})
	case cfg.filePath != nil:
		parseOpts = append(parseOpts, parser.WithFilePath(*cfg.filePath))
	case cfg.bytes != nil:
		parseOpts = append(parseOpts, parser.WithBytes(cfg.bytes))
	default:
		return nil, fmt.Errorf("compiler: invalid options: %w",
			&oaserrors.ConfigError{Option: "source", Message: "must specify WithFilePath or WithBytes"})
	}
	if cfg.logger != nil {
		parseOpts = append(parseOpts, parser.WithLogger(cfg.logger))
	}
	parseOpts = append(parseOpts, cfg.parserOpts...)

	pr, err := parser.ParseContext(ctx, parseOpts...)
	if err != nil {
		return nil, err
	}
	return newCompiler(cfg).Compile(ctx, pr)
}

// Compile normalizes every named schema and operation of pr and builds the
// dependency graph. Diagnostics never fail a compile; any error does.
func (c *Compiler) Compile(ctx context.Context, pr *parser.ParseResult) (*Result, error) {
	if pr == nil || pr.Document == nil || pr.Resolver == nil {
		return nil, &oaserrors.ConfigError{Option: "parseResult", Message: "parse result must carry a document and a resolver"}
	}
	start := time.Now()

	run := &compilation{
		Compiler: c,
		resolver: pr.Resolver,
		catalog:  newCatalog(c.names),
		named:    ir.NewRegistry(),
		virtual:  ir.NewRegistry(),
		issues:   &issues.Collector{},
	}
	norm, err := run.normalizer(run.catalog, run.virtual, run.issues)
	if err != nil {
		return nil, err
	}
	run.norm = norm

	if components := pr.Document.Components; components != nil {
		for _, s := range components.Schemas.All() {
			if s == nil {
				continue
			}
			run.catalog.assign(s.Pointer)
		}
	}
	if err := run.drain(ctx); err != nil {
		return nil, err
	}

	ops, err := run.operations(ctx, pr.Document)
	if err != nil {
		return nil, err
	}
	if err := run.drain(ctx); err != nil {
		return nil, err
	}

	res := newResult(pr, run, ops)
	c.logger.Debug("compiled document",
		"source", pr.SourcePath,
		"schemas", run.named.Len(),
		"virtual", run.virtual.Len(),
		"operations", len(ops),
		"circular", len(res.graph.Circular()),
		"elapsed", time.Since(start),
	)
	return res, nil
}

// compilation is the state of one Compile call.
type compilation struct {
	*Compiler
	resolver *parser.RefResolver
	catalog  *catalog
	norm     *normalizer.Normalizer
	named    *ir.Registry
	virtual  *ir.Registry
	issues   *issues.Collector
}

func (r *compilation) normalizer(namer normalizer.RefNamer, virtual *ir.Registry, collector *issues.Collector) (*normalizer.Normalizer, error) {
	n, err := normalizer.New(r.resolver,
		normalizer.WithRefNamer(namer),
		normalizer.WithNames(r.names),
		normalizer.WithVirtualRegistry(virtual),
		normalizer.WithIssues(collector),
		normalizer.WithLogger(r.logger),
		normalizer.WithEnumExtensibility(r.extensibility),
	)
	if err != nil {
		return nil, fmt.Errorf("compiler: %w", err)
	}
	return n, nil
}

// drain normalizes queued pointers until the queue is empty. Normalizing a
// schema may queue the pointers it references.
func (r *compilation) drain(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		pointer, name, ok := r.catalog.next()
		if !ok {
			return nil
		}
		raw, err := r.resolver.ResolveSchema(pointer)
		if err != nil {
			return fmt.Errorf("compiler: schema %s: %w", name, err)
		}
		model, err := r.norm.Model(raw)
		if err != nil {
			return fmt.Errorf("compiler: schema %s: %w", name, err)
		}
		if err := r.named.Add(name, pointer, model); err != nil {
			return fmt.Errorf("compiler: %w", err)
		}
		r.logger.Debug("normalized schema", "name", name, "pointer", pointer)
	}
}

// catalog names referenced pointers and queues them for normalization.
type catalog struct {
	mu        sync.Mutex
	names     namegen.Generator
	byPointer map[string]string
	taken     map[string]bool
	queue     []string
}

func newCatalog(names namegen.Generator) *catalog {
	return &catalog{
		names:     names,
		byPointer: make(map[string]string),
		taken:     make(map[string]bool),
	}
}

// NameRef implements normalizer.RefNamer.
func (c *catalog) NameRef(pointer string) (string, error) {
	return c.assign(pointer), nil
}

// assign returns the name of pointer. A pointer seen for the first time is
// named and queued.
func (c *catalog) assign(pointer string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if name, ok := c.byPointer[pointer]; ok {
		return name
	}
	name := c.names.Component(pointer)
	if c.taken[name] {
		if doc := parser.DocumentKey(pointer); doc != "" {
			name = namegen.DocumentStem(doc) + name
		}
		name = namegen.Unique(name, func(s string) bool { return c.taken[s] })
	}
	c.taken[name] = true
	c.byPointer[pointer] = name
	c.queue = append(c.queue, pointer)
	return name
}

// reserve claims base, or the first numbered variant of it that is neither
// a schema name nor inUse, for a synthesized schema.
func (c *catalog) reserve(base string, inUse func(string) bool) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	name := namegen.Unique(base, func(s string) bool { return c.taken[s] || inUse(s) })
	c.taken[name] = true
	return name
}

func (c *catalog) lookup(pointer string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	name, ok := c.byPointer[pointer]
	return name, ok
}

func (c *catalog) next() (pointer, name string, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.queue) == 0 {
		return "", "", false
	}
	pointer = c.queue[0]
	c.queue = c.queue[1:]
	return pointer, c.byPointer[pointer], true
}
