// Package commands provides the cobra command tree of the oasir CLI.
package commands

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/erraggy/oasir"
	"github.com/erraggy/oasir/compiler"
	"github.com/erraggy/oasir/ir"
	"github.com/erraggy/oasir/parser"
)

// Configuration keys. Each is also read from OASIR_<KEY> with dashes
// replaced by underscores, and from the file named by --config.
const (
	keyFormat            = "format"
	keyVerbose           = "verbose"
	keyNameTemplate      = "name-template"
	keyEnumExtensibility = "enum-extensibility"
	keyConcurrency       = "concurrency"
	keyLoadTimeout       = "load-timeout"
	keyNullStyle         = "null-style"
	keyMergeAllOf        = "merge-allof"
	keyHoistInline       = "hoist-inline"
)

// app is the state shared by the commands of one root command.
type app struct {
	v          *viper.Viper
	configFile string
	logger     parser.Logger
}

// NewRootCommand builds the oasir command tree with a fresh configuration.
func NewRootCommand() *cobra.Command {
	a := &app{v: newViper(), logger: parser.NopLogger{}}

	root := &cobra.Command{
		Use:   "oasir",
		Short: "Compile OpenAPI schema definitions into a canonical IR",
		Long: `oasir compiles the schema definitions of an OpenAPI 3.x document into a
canonical intermediate representation for code generators.

It normalizes component and inline schemas, synthesizes virtual schemas for
operation parameters and inline bodies, orders every schema by dependency
with circular references isolated, and reduces schemas into a compact
union/intersection algebra.

Settings are read from flags, OASIR_* environment variables and an optional
config file, in that order of precedence.`,
		Version:       oasir.Version(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "config file (yaml, json or toml)")
	flags.StringP(keyFormat, "f", FormatJSON, "output format: json or yaml")
	flags.BoolP(keyVerbose, "v", false, "log debug output to stderr")
	flags.String(keyNameTemplate, "", "text/template for synthetic names, executed with .Kind and .Default")
	flags.String(keyEnumExtensibility, "closed", "extensibility of enums without x-extensible-enum: open or closed")
	flags.Int(keyConcurrency, 0, "operations normalized at once (0 uses GOMAXPROCS)")
	flags.Duration(keyLoadTimeout, 30*time.Second, "timeout for loading each document")
	for _, key := range []string{keyFormat, keyVerbose, keyNameTemplate, keyEnumExtensibility, keyConcurrency, keyLoadTimeout} {
		_ = a.v.BindPFlag(key, flags.Lookup(key))
	}

	root.AddCommand(
		a.newCompileCommand(),
		a.newOrderCommand(),
		a.newParamsCommand(),
		a.newReduceCommand(),
		newMCPCommand(),
		newVersionCommand(),
	)
	return root
}

// Execute runs the root command and reports any error on stderr.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	root := NewRootCommand()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := root.ExecuteContext(ctx); err != nil {
		Writef(stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("OASIR")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	v.SetDefault(keyFormat, FormatJSON)
	v.SetDefault(keyEnumExtensibility, "closed")
	v.SetDefault(keyLoadTimeout, 30*time.Second)
	v.SetDefault(keyNullStyle, "wrapper")
	return v
}

// setup reads the config file and builds the logger.
func (a *app) setup(cmd *cobra.Command) error {
	if a.configFile != "" {
		a.v.SetConfigFile(a.configFile)
		if err := a.v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config %s: %w", a.configFile, err)
		}
	}
	if err := ValidateOutputFormat(a.v.GetString(keyFormat)); err != nil {
		return err
	}
	a.logger = NewZapLogger(cmd.ErrOrStderr(), a.v.GetBool(keyVerbose))
	return nil
}

// compile loads and compiles source, a path, URL or "-" for stdin.
func (a *app) compile(cmd *cobra.Command, source string) (*compiler.Result, error) {
	ext, err := ir.ParseExtensibility(a.v.GetString(keyEnumExtensibility))
	if err != nil {
		return nil, err
	}
	opts := []compiler.Option{
		compiler.WithLogger(a.logger),
		compiler.WithEnumExtensibility(ext),
		compiler.WithParserOptions(
			parser.WithHTTPFetcher(parser.NewHTTPFetcher(nil)),
			parser.WithLoadTimeout(a.v.GetDuration(keyLoadTimeout)),
			parser.WithLogger(a.logger),
		),
	}
	if tmpl := a.v.GetString(keyNameTemplate); tmpl != "" {
		opts = append(opts, compiler.WithNameTemplate(tmpl))
	}
	if n := a.v.GetInt(keyConcurrency); n > 0 {
		opts = append(opts, compiler.WithConcurrency(n))
	}

	if source == StdinFilePath {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		opts = append(opts, compiler.WithBytes(data))
	} else {
		opts = append(opts, compiler.WithFilePath(source))
	}

	start := time.Now()
	res, err := compiler.CompileWithOptions(cmd.Context(), opts...)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("compile finished",
		"source", FormatSpecPath(source),
		"schemas", res.AllNamedSchemas().Len(),
		"virtual", res.VirtualSchemas().Len(),
		"elapsed", time.Since(start).String(),
	)
	return res, nil
}

func (a *app) render(cmd *cobra.Command, v any) error {
	return RenderDetail(cmd.OutOrStdout(), v, a.v.GetString(keyFormat))
}
