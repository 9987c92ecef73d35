package reducer

import (
	"github.com/erraggy/oasir/ir"
	"github.com/erraggy/oasir/namegen"
	"github.com/erraggy/oasir/oaserrors"
	"github.com/erraggy/oasir/parser"
)

// NullStyle selects how nullability appears in reduced expressions.
type NullStyle int

const (
	// NullAsWrapper sets Nullable on the produced node. This is the default.
	NullAsWrapper NullStyle = iota
	// NullAsBranch adds an explicit null literal branch.
	NullAsBranch
)

var nullStyleNames = map[NullStyle]string{
	NullAsWrapper: "wrapper",
	NullAsBranch:  "branch",
}

func (s NullStyle) String() string {
	if name, ok := nullStyleNames[s]; ok {
		return name
	}
	return "unknown"
}

// ParseNullStyle parses "wrapper" or "branch".
func ParseNullStyle(s string) (NullStyle, error) {
	for style, name := range nullStyleNames {
		if name == s {
			return style, nil
		}
	}
	return NullAsWrapper, &oaserrors.ConfigError{Option: "nullStyle", Value: s, Message: "must be wrapper or branch"}
}

// Option configures a Reducer.
type Option func(*config) error

type config struct {
	nullStyle  NullStyle
	mergeAllOf bool
	hoist      bool
	circular   func(name string) bool
	names      namegen.Generator
	schemas    []*ir.Registry
	logger     parser.Logger
}

// WithNullStyle sets how nullability is represented.
func WithNullStyle(s NullStyle) Option {
	return func(cfg *config) error {
		if _, ok := nullStyleNames[s]; !ok {
			return &oaserrors.ConfigError{Option: "nullStyle", Value: s, Message: "must be wrapper or branch"}
		}
		cfg.nullStyle = s
		return nil
	}
}

// WithMergeAllOf merges allOf branches into one object when every branch
// is an object with properties only.
func WithMergeAllOf(enabled bool) Option {
	return func(cfg *config) error {
		cfg.mergeAllOf = enabled
		return nil
	}
}

// WithHoistInline materializes inline objects nested in a named schema as
// virtual schemas. It only applies to [Reducer.ReduceNamed].
func WithHoistInline(enabled bool) Option {
	return func(cfg *config) error {
		cfg.hoist = enabled
		return nil
	}
}

// WithCircular sets the predicate that marks refs Deferred, usually
// the IsCircular method of a dependency graph.
func WithCircular(circular func(name string) bool) Option {
	return func(cfg *config) error {
		cfg.circular = circular
		return nil
	}
}

// WithNames sets the generator used to name hoisted schemas.
func WithNames(g namegen.Generator) Option {
	return func(cfg *config) error {
		if g == nil {
			return &oaserrors.ConfigError{Option: "names", Message: "name generator must not be nil"}
		}
		cfg.names = g
		return nil
	}
}

// WithSchemas sets the registries virtual refs are materialized from.
// Their names are also reserved when naming hoisted schemas.
func WithSchemas(registries ...*ir.Registry) Option {
	return func(cfg *config) error {
		cfg.schemas = append(cfg.schemas, registries...)
		return nil
	}
}

// WithLogger sets the logger.
func WithLogger(l parser.Logger) Option {
	return func(cfg *config) error {
		cfg.logger = l
		return nil
	}
}
