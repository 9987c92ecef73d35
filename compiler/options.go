package compiler

import (
	"runtime"

	"github.com/erraggy/oasir/ir"
	"github.com/erraggy/oasir/namegen"
	"github.com/erraggy/oasir/oaserrors"
	"github.com/erraggy/oasir/parser"
)

// Option configures a Compiler.
type Option func(*config) error

type config struct {
	names         namegen.Generator
	logger        parser.Logger
	extensibility ir.Extensibility
	concurrency   int

	// Source options, used by CompileWithOptions only.
	filePath   *string
	bytes      []byte
	parserOpts []parser.Option
}

func applyOptions(opts ...Option) (*config, error) {
	cfg := &config{
		extensibility: ir.Closed,
		concurrency:   runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	if cfg.names == nil {
		cfg.names = namegen.Default()
	}
	return cfg, nil
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

// WithNameTemplate renders every synthetic name through tmpl on top of the
// default policy. See [namegen.NewTemplate].
func WithNameTemplate(tmpl string) Option {
	return func(cfg *config) error {
		g, err := namegen.NewTemplate(tmpl, nil)
		if err != nil {
			return &oaserrors.ConfigError{Option: "nameTemplate", Message: "invalid template", Cause: err}
		}
		cfg.names = g
		return nil
	}
}

// WithLogger sets the logger used by the compiler and its normalizers.
func WithLogger(l parser.Logger) Option {
	return func(cfg *config) error {
		cfg.logger = l
		return nil
	}
}

// WithEnumExtensibility sets the extensibility of enums that do not
// declare one.
func WithEnumExtensibility(e ir.Extensibility) Option {
	return func(cfg *config) error {
		if e != ir.Open && e != ir.Closed {
			return &oaserrors.ConfigError{Option: "enumExtensibility", Value: e, Message: "must be open or closed"}
		}
		cfg.extensibility = e
		return nil
	}
}

// WithConcurrency bounds how many operations are normalized at once.
// Defaults to GOMAXPROCS.
func WithConcurrency(n int) Option {
	return func(cfg *config) error {
		if n < 1 {
			return &oaserrors.ConfigError{Option: "concurrency", Value: n, Message: "must be at least 1"}
		}
		cfg.concurrency = n
		return nil
	}
}

// WithFilePath sets the document CompileWithOptions parses.
func WithFilePath(path string) Option {
	return func(cfg *config) error {
		cfg.filePath = &path
		return nil
	}
}

// WithBytes sets the document bytes CompileWithOptions parses.
func WithBytes(data []byte) Option {
	return func(cfg *config) error {
		cfg.bytes = data
		return nil
	}
}

// WithParserOptions passes extra options to the parser used by
// CompileWithOptions.
func WithParserOptions(opts ...parser.Option) Option {
	return func(cfg *config) error {
		cfg.parserOpts = append(cfg.parserOpts, opts...)
		return nil
	}
}
