// Package cli implements the xsltgo command line.
package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/hsiuhsiu/libxslt-go/pkg/xslt"
	"github.com/hsiuhsiu/libxslt-go/pkg/xslt/logging"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	LogLevel   string
	Format     string // "json" | "text"
	ConfigPath string

	config *FileConfig
	log    *zap.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the xsltgo CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "xsltgo",
		Short: "Apply XSLT stylesheets with libxslt",
		Long: `xsltgo compiles XSLT 1.0 stylesheets and applies them to XML documents
using libxml2 and libxslt, and reports parser diagnostics for XML files.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			cfg, err := LoadConfig(opts.ConfigPath)
			if err != nil {
				return WrapExitError(ExitCommandError, "load config", err)
			}
			opts.config = cfg

			level, err := resolveLevel(opts, cfg)
			if err != nil {
				return WrapExitError(ExitCommandError, "log level", err)
			}
			log, err := newLogger(level)
			if err != nil {
				return WrapExitError(ExitCommandError, "init logger", err)
			}
			opts.log = log
			xslt.SetLogger(logging.NewZap(log))
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.log != nil {
				_ = opts.log.Sync()
			}
		},
	}

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return WrapExitError(ExitCommandError, "flags", err)
	})

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "log level (debug|info|warn|error), overrides the config file")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "YAML configuration file")

	cmd.AddCommand(NewTransformCommand(opts))
	cmd.AddCommand(NewCheckCommand(opts))
	cmd.AddCommand(NewVersionCommand(opts))

	return cmd
}

// resolveLevel picks the logger level. --verbose wins, then --log-level,
// then log_level from the config file. The default is warn.
func resolveLevel(opts *RootOptions, cfg *FileConfig) (zapcore.Level, error) {
	if opts.Verbose {
		return zapcore.DebugLevel, nil
	}
	name := opts.LogLevel
	if name == "" && cfg != nil {
		name = cfg.LogLevel
	}
	if name == "" {
		return zapcore.WarnLevel, nil
	}
	return zapcore.ParseLevel(name)
}

// newLogger writes console-encoded records to stderr so stdout stays clean
// for transformation output.
func newLogger(level zapcore.Level) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = []string{"stderr"}
	cfg.DisableStacktrace = true
	cfg.Level = zap.NewAtomicLevelAt(level)
	return cfg.Build()
}
