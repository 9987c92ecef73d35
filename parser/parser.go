package parser

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/erraggy/oasir/oaserrors"
)

// Parser loads an OpenAPI 3.x document together with every document it
// references, and decodes the root into a [Document].
type Parser struct {
	// BaseDir confines file references. Defaults to the root document's
	// directory, or the working directory for byte input.
	BaseDir string
	// HTTPFetcher fetches http(s) documents. When nil, http references fail.
	HTTPFetcher HTTPFetcher
	// LoadTimeout bounds the whole loading phase. Zero means no timeout.
	LoadTimeout time.Duration
	// MaxCachedDocuments limits the number of loaded documents (0 = MaxCachedDocuments).
	MaxCachedDocuments int
	// MaxFileSize limits the size of each document (0 = MaxFileSize).
	MaxFileSize int64
	// MaxRefDepth limits $ref chains between reusable objects (0 = MaxRefDepth).
	MaxRefDepth int
	// Logger receives load events. Defaults to NopLogger.
	Logger Logger
}

// ParseResult is a loaded document set.
type ParseResult struct {
	// SourcePath is the root document's path or URL ("" for byte input).
	SourcePath string
	// Version is the root document's "openapi" field.
	Version string
	// Document is the decoded root document.
	Document *Document
	// Resolver resolves canonical pointers across all loaded documents.
	Resolver *RefResolver
	// LoadTime is how long loading and decoding took.
	LoadTime time.Duration
}

// New creates a Parser with default settings.
func New() *Parser {
	return &Parser{}
}

func (p *Parser) log() Logger {
	return OrNop(p.Logger)
}

func (p *Parser) newLoader(baseDir, rootFile string, rootURL *url.URL) *loader {
	maxDocs := p.MaxCachedDocuments
	if maxDocs <= 0 {
		maxDocs = MaxCachedDocuments
	}
	maxSize := p.MaxFileSize
	if maxSize <= 0 {
		maxSize = MaxFileSize
	}
	return &loader{
		baseDir:     baseDir,
		rootFile:    rootFile,
		rootURL:     rootURL,
		fetch:       p.HTTPFetcher,
		maxDocs:     maxDocs,
		maxFileSize: maxSize,
		logger:      p.log(),
		docs:        make(map[string]*document),
	}
}

// Parse loads the document at specPath, which is a file path or an http(s) URL.
func (p *Parser) Parse(ctx context.Context, specPath string) (*ParseResult, error) {
	if isHTTP(specPath) {
		u, err := url.Parse(specPath)
		if err != nil {
			return nil, &oaserrors.ConfigError{Option: "path", Value: specPath, Cause: err}
		}
		l := p.newLoader(p.BaseDir, "", u)
		return p.run(ctx, l, specPath, func(ctx context.Context) ([]byte, error) {
			return l.read(ctx, "")
		})
	}

	absPath, err := filepath.Abs(specPath)
	if err != nil {
		return nil, &oaserrors.ConfigError{Option: "path", Value: specPath, Cause: err}
	}
	baseDir := p.BaseDir
	if baseDir == "" {
		baseDir = filepath.Dir(absPath)
	}
	absBase, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, &oaserrors.ConfigError{Option: "baseDir", Value: baseDir, Cause: err}
	}
	rel, err := filepath.Rel(absBase, absPath)
	if err != nil {
		return nil, &oaserrors.ConfigError{Option: "baseDir", Value: baseDir, Cause: err}
	}
	l := p.newLoader(absBase, filepath.ToSlash(rel), nil)
	return p.run(ctx, l, specPath, func(context.Context) ([]byte, error) {
		info, err := os.Stat(absPath)
		if err != nil {
			return nil, &oaserrors.ParseError{Path: specPath, Message: "cannot read document", Cause: err}
		}
		if info.Size() > l.maxFileSize {
			return nil, &oaserrors.ResourceLimitError{ResourceType: "file_size", Limit: l.maxFileSize, Actual: info.Size(), Message: specPath}
		}
		data, err := os.ReadFile(absPath)
		if err != nil {
			return nil, &oaserrors.ParseError{Path: specPath, Message: "cannot read document", Cause: err}
		}
		return data, nil
	})
}

// ParseBytes loads a document from data. Relative file references resolve
// against BaseDir, or the working directory when BaseDir is empty.
func (p *Parser) ParseBytes(ctx context.Context, data []byte) (*ParseResult, error) {
	baseDir := p.BaseDir
	if baseDir == "" {
		baseDir = "."
	}
	absBase, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, &oaserrors.ConfigError{Option: "baseDir", Value: baseDir, Cause: err}
	}
	l := p.newLoader(absBase, "", nil)
	return p.run(ctx, l, "", func(context.Context) ([]byte, error) {
		if int64(len(data)) > l.maxFileSize {
			return nil, &oaserrors.ResourceLimitError{ResourceType: "file_size", Limit: l.maxFileSize, Actual: int64(len(data))}
		}
		return data, nil
	})
}

func (p *Parser) run(ctx context.Context, l *loader, source string, readRoot func(context.Context) ([]byte, error)) (*ParseResult, error) {
	start := time.Now()
	if p.LoadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.LoadTimeout)
		defer cancel()
	}

	data, err := readRoot(ctx)
	if err != nil {
		return nil, err
	}
	root, err := l.add("", data)
	if err != nil {
		return nil, err
	}
	if err := l.loadAll(ctx); err != nil {
		return nil, err
	}

	resolver := newRefResolver(l, source, p.MaxRefDepth)
	doc, err := resolver.decodeDocument("", root.root)
	if err != nil {
		return nil, err
	}

	result := &ParseResult{
		SourcePath: source,
		Version:    doc.OpenAPI,
		Document:   doc,
		Resolver:   resolver,
		LoadTime:   time.Since(start),
	}
	p.log().Debug("parsed document",
		"source", source,
		"version", doc.OpenAPI,
		"documents", len(l.order),
		"elapsed", result.LoadTime)
	return result, nil
}

// ParseWithOptions parses a document using functional options.
//
// Example:
//
//	result, err := parser.ParseWithOptions(
//	    parser.WithFilePath("openapi.yaml"),
//	    parser.WithLoadTimeout(10*time.Second),
//	)
func ParseWithOptions(opts ...Option) (*ParseResult, error) {
	return ParseContext(context.Background(), opts...)
}

// ParseContext is ParseWithOptions with a caller supplied context.
func ParseContext(ctx context.Context, opts ...Option) (*ParseResult, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("parser: invalid options: %w", err)
	}
	p := &Parser{
		BaseDir:            cfg.baseDir,
		HTTPFetcher:        cfg.httpFetcher,
		LoadTimeout:        cfg.loadTimeout,
		MaxCachedDocuments: cfg.maxCachedDocuments,
		MaxFileSize:        cfg.maxFileSize,
		MaxRefDepth:        cfg.maxRefDepth,
		Logger:             cfg.logger,
	}
	if cfg.filePath != nil {
		return p.Parse(ctx, *cfg.filePath)
	}
	return p.ParseBytes(ctx, cfg.bytes)
}
