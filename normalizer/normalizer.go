package normalizer

import (
	"fmt"

	"github.com/erraggy/oasir/internal/issues"
	"github.com/erraggy/oasir/internal/severity"
	"github.com/erraggy/oasir/ir"
	"github.com/erraggy/oasir/namegen"
	"github.com/erraggy/oasir/oaserrors"
	"github.com/erraggy/oasir/parser"
)

// Resolver is the read interface the normalizers need from the reference
// resolver. [*parser.RefResolver] implements it.
type Resolver interface {
	ResolveSchema(pointer string) (*parser.Schema, error)
	ResolveParameter(pointer string) (*parser.Parameter, error)
}

// locator is implemented by resolvers that can name the file behind a
// document key.
type locator interface {
	Location(docKey string) string
}

// RefNamer assigns the name an [*ir.Ref] carries for a canonical pointer.
// The compiler's implementation also schedules the target for normalization.
type RefNamer interface {
	NameRef(pointer string) (string, error)
}

// RefNamerFunc adapts a function to RefNamer.
type RefNamerFunc func(pointer string) (string, error)

// NameRef implements RefNamer.
func (f RefNamerFunc) NameRef(pointer string) (string, error) { return f(pointer) }

// Normalizer converts raw schemas and parameters into the IR. It holds no
// per-schema state and is safe for concurrent use when its RefNamer is.
type Normalizer struct {
	resolver      Resolver
	namer         RefNamer
	names         namegen.Generator
	virtual       *ir.Registry
	issues        *issues.Collector
	logger        parser.Logger
	extensibility ir.Extensibility
}

// Option configures a Normalizer.
type Option func(*config) error

type config struct {
	namer         RefNamer
	names         namegen.Generator
	virtual       *ir.Registry
	issues        *issues.Collector
	logger        parser.Logger
	extensibility ir.Extensibility
}

// WithRefNamer sets how referenced pointers are named. The default names
// each pointer with the name generator's Component policy.
func WithRefNamer(n RefNamer) Option {
	return func(cfg *config) error {
		cfg.namer = n
		return nil
	}
}

// WithNames sets the synthetic name generator.
func WithNames(g namegen.Generator) Option {
	return func(cfg *config) error {
		if g == nil {
			return &oaserrors.ConfigError{Option: "names", Message: "name generator must not be nil"}
		}
		cfg.names = g
		return nil
	}
}

// WithVirtualRegistry sets the registry virtual schemas are added to.
func WithVirtualRegistry(r *ir.Registry) Option {
	return func(cfg *config) error {
		cfg.virtual = r
		return nil
	}
}

// WithIssues sets the diagnostic collector.
func WithIssues(c *issues.Collector) Option {
	return func(cfg *config) error {
		cfg.issues = c
		return nil
	}
}

// WithLogger sets the logger. Every diagnostic is also logged at warn or
// info level.
func WithLogger(l parser.Logger) Option {
	return func(cfg *config) error {
		cfg.logger = l
		return nil
	}
}

// WithEnumExtensibility sets the extensibility of enums that do not declare
// one through x-extensible-enum.
func WithEnumExtensibility(e ir.Extensibility) Option {
	return func(cfg *config) error {
		if e != ir.Open && e != ir.Closed {
			return &oaserrors.ConfigError{Option: "enumExtensibility", Value: e, Message: "must be open or closed"}
		}
		cfg.extensibility = e
		return nil
	}
}

// New returns a Normalizer reading through resolver.
func New(resolver Resolver, opts ...Option) (*Normalizer, error) {
	if resolver == nil {
		return nil, &oaserrors.ConfigError{Option: "resolver", Message: "resolver must not be nil"}
	}
	cfg := &config{extensibility: ir.Closed}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, fmt.Errorf("normalizer: invalid options: %w", err)
		}
	}
	if cfg.names == nil {
		cfg.names = namegen.Default()
	}
	if cfg.namer == nil {
		names := cfg.names
		cfg.namer = RefNamerFunc(func(pointer string) (string, error) {
			return names.Component(pointer), nil
		})
	}
	if cfg.virtual == nil {
		cfg.virtual = ir.NewRegistry()
	}
	if cfg.issues == nil {
		cfg.issues = &issues.Collector{}
	}
	return &Normalizer{
		resolver:      resolver,
		namer:         cfg.namer,
		names:         cfg.names,
		virtual:       cfg.virtual,
		issues:        cfg.issues,
		logger:        parser.OrNop(cfg.logger),
		extensibility: cfg.extensibility,
	}, nil
}

// Virtual returns the registry of virtual schemas created so far.
func (n *Normalizer) Virtual() *ir.Registry { return n.virtual }

// Issues returns the diagnostics recorded so far.
func (n *Normalizer) Issues() []issues.Issue { return n.issues.Issues() }

func (n *Normalizer) report(sev severity.Severity, pointer string, line, column int, field, message string, value any) {
	issue := issues.Issue{
		Path:     pointer,
		Field:    field,
		Message:  message,
		Severity: sev,
		Value:    value,
		Line:     line,
		Column:   column,
	}
	if loc, ok := n.resolver.(locator); ok {
		issue.File = loc.Location(parser.DocumentKey(pointer))
	}
	n.issues.Add(issue)
	if sev == severity.SeverityWarning {
		n.logger.Warn(message, "path", pointer, "field", field)
	} else {
		n.logger.Info(message, "path", pointer, "field", field)
	}
}

func (n *Normalizer) warn(s *parser.Schema, field, message string, value any) {
	n.report(severity.SeverityWarning, s.Pointer, s.Line, s.Column, field, message, value)
}

// unknownObject returns a virtual ref to the well-known unconstrained
// object, registering it on first use.
func (n *Normalizer) unknownObject() *ir.Ref {
	name := n.names.Unknown()
	n.virtual.Ensure(name, "", &ir.Record{Key: ir.StringKey(), Value: &ir.Any{}})
	return &ir.Ref{Name: name, Virtual: true}
}
