package parser

import (
	"time"

	"github.com/erraggy/oasir/oaserrors"
)

// Option is a function that configures a parse operation
type Option func(*parseConfig) error

// parseConfig holds configuration for a parse operation
type parseConfig struct {
	// Input source (exactly one must be set)
	filePath *string
	bytes    []byte

	baseDir     string
	httpFetcher HTTPFetcher
	loadTimeout time.Duration
	logger      Logger

	// Resource limits (0 means use default)
	maxCachedDocuments int
	maxFileSize        int64
	maxRefDepth        int
}

// applyOptions applies option functions and validates configuration
func applyOptions(opts ...Option) (*parseConfig, error) {
	cfg := &parseConfig{}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	switch {
	case cfg.filePath == nil && cfg.bytes == nil:
		return nil, &oaserrors.ConfigError{Message: "must specify an input source (use WithFilePath or WithBytes)"}
	case cfg.filePath != nil && cfg.bytes != nil:
		return nil, &oaserrors.ConfigError{Message: "must specify exactly one input source"}
	}
	return cfg, nil
}

// WithFilePath specifies a file path or http(s) URL as the input source
func WithFilePath(path string) Option {
	return func(cfg *parseConfig) error {
		cfg.filePath = &path
		return nil
	}
}

// WithBytes specifies a byte slice as the input source
func WithBytes(data []byte) Option {
	return func(cfg *parseConfig) error {
		if data == nil {
			data = []byte{}
		}
		cfg.bytes = data
		return nil
	}
}

// WithBaseDir sets the directory that file references are confined to
func WithBaseDir(dir string) Option {
	return func(cfg *parseConfig) error {
		cfg.baseDir = dir
		return nil
	}
}

// WithHTTPFetcher enables http(s) references through fetcher
func WithHTTPFetcher(fetcher HTTPFetcher) Option {
	return func(cfg *parseConfig) error {
		cfg.httpFetcher = fetcher
		return nil
	}
}

// WithLoadTimeout bounds the loading phase
func WithLoadTimeout(d time.Duration) Option {
	return func(cfg *parseConfig) error {
		if d < 0 {
			return &oaserrors.ConfigError{Option: "loadTimeout", Value: d, Message: "must not be negative"}
		}
		cfg.loadTimeout = d
		return nil
	}
}

// WithLogger sets the logger for load events
func WithLogger(l Logger) Option {
	return func(cfg *parseConfig) error {
		cfg.logger = l
		return nil
	}
}

// WithMaxCachedDocuments limits how many documents may be loaded
func WithMaxCachedDocuments(n int) Option {
	return func(cfg *parseConfig) error {
		if n < 0 {
			return &oaserrors.ConfigError{Option: "maxCachedDocuments", Value: n, Message: "must not be negative"}
		}
		cfg.maxCachedDocuments = n
		return nil
	}
}

// WithMaxFileSize limits the size of each document
func WithMaxFileSize(n int64) Option {
	return func(cfg *parseConfig) error {
		if n < 0 {
			return &oaserrors.ConfigError{Option: "maxFileSize", Value: n, Message: "must not be negative"}
		}
		cfg.maxFileSize = n
		return nil
	}
}

// WithMaxRefDepth limits $ref chains between reusable objects
func WithMaxRefDepth(n int) Option {
	return func(cfg *parseConfig) error {
		if n < 0 {
			return &oaserrors.ConfigError{Option: "maxRefDepth", Value: n, Message: "must not be negative"}
		}
		cfg.maxRefDepth = n
		return nil
	}
}
