package mcpserver

import (
	"log/slog"
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/erraggy/oasir/ir"
	"github.com/erraggy/oasir/reducer"
)

// serverConfig holds all configurable MCP server defaults.
// Loaded once at startup from environment variables via loadConfig().
type serverConfig struct {
	// Cache settings.
	CacheEnabled       bool
	CacheMaxSize       int
	CacheFileTTL       time.Duration
	CacheURLTTL        time.Duration
	CacheContentTTL    time.Duration
	CacheSweepInterval time.Duration

	// Listing defaults.
	ListLimit int
	MaxLimit  int

	// Input limits.
	MaxInlineSize   int64
	AllowPrivateIPs bool
	LoadTimeout     time.Duration

	// Compiler and reducer defaults.
	Concurrency       int
	EnumExtensibility ir.Extensibility
	NullStyle         reducer.NullStyle
}

// cfg is the active server configuration, initialized at package load time.
var cfg = loadConfig()

// loadConfig reads configuration from OASIR_* environment variables.
// Invalid values log a warning and fall back to the hardcoded default.
func loadConfig() *serverConfig {
	return &serverConfig{
		CacheEnabled:       envBool("OASIR_CACHE_ENABLED", true),
		CacheMaxSize:       envInt("OASIR_CACHE_MAX_SIZE", 10),
		CacheFileTTL:       envDuration("OASIR_CACHE_FILE_TTL", 15*time.Minute),
		CacheURLTTL:        envDuration("OASIR_CACHE_URL_TTL", 5*time.Minute),
		CacheContentTTL:    envDuration("OASIR_CACHE_CONTENT_TTL", 15*time.Minute),
		CacheSweepInterval: envDuration("OASIR_CACHE_SWEEP_INTERVAL", 60*time.Second),
		ListLimit:          envInt("OASIR_LIST_LIMIT", 100),
		MaxLimit:           envInt("OASIR_MAX_LIMIT", 1000),
		MaxInlineSize:      int64(envInt("OASIR_MAX_INLINE_SIZE", 10*1024*1024)),
		AllowPrivateIPs:    envBool("OASIR_ALLOW_PRIVATE_IPS", false),
		LoadTimeout:        envDuration("OASIR_LOAD_TIMEOUT", 30*time.Second),
		Concurrency:        envInt("OASIR_CONCURRENCY", runtime.GOMAXPROCS(0)),
		EnumExtensibility:  envExtensibility("OASIR_ENUM_EXTENSIBILITY", ir.Closed),
		NullStyle:          envNullStyle("OASIR_NULL_STYLE", reducer.NullAsWrapper),
	}
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("invalid bool env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return b
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		slog.Warn("invalid int env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		slog.Warn("invalid duration env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return d
}

func envExtensibility(key string, fallback ir.Extensibility) ir.Extensibility {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	e, err := ir.ParseExtensibility(v)
	if err != nil {
		slog.Warn("invalid enum extensibility env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return e
}

func envNullStyle(key string, fallback reducer.NullStyle) reducer.NullStyle {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	s, err := reducer.ParseNullStyle(v)
	if err != nil {
		slog.Warn("invalid null style env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return s
}
