package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hsiuhsiu/libxslt-go/pkg/xslt"
)

// TransformOptions holds flags for the transform command.
type TransformOptions struct {
	Stylesheet  string
	Input       string
	Output      string
	Params      []string
	XPathParams []string
	ParamsFile  string
	Options     []string
	Async       bool
	Document    bool
}

// NewTransformCommand creates the transform command.
func NewTransformCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TransformOptions{}

	cmd := &cobra.Command{
		Use:   "transform",
		Short: "Apply a stylesheet to an XML document",
		Long: `Compile the stylesheet and apply it to the input document.

String parameters given with --param are quoted for you; --xpath-param values
are passed to the engine as XPath expressions. Inputs ending in .zst are
decompressed before parsing.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTransform(cmd.Context(), rootOpts, opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&opts.Stylesheet, "stylesheet", "s", "", "XSLT stylesheet file (required)")
	cmd.Flags().StringVarP(&opts.Input, "input", "i", "", "source XML file (required)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write the result here instead of stdout")
	cmd.Flags().StringArrayVarP(&opts.Params, "param", "p", nil, "string parameter name=value (repeatable)")
	cmd.Flags().StringArrayVar(&opts.XPathParams, "xpath-param", nil, "XPath parameter name=expression (repeatable)")
	cmd.Flags().StringVar(&opts.ParamsFile, "params-file", "", "YAML mapping of string parameters")
	cmd.Flags().StringSliceVar(&opts.Options, "option", nil, "parser option for both inputs, e.g. nonet,huge")
	cmd.Flags().BoolVar(&opts.Async, "async", false, "compile and apply on the worker pool")
	cmd.Flags().BoolVar(&opts.Document, "document", false, "transform into a result document, then serialize it")
	_ = cmd.MarkFlagRequired("stylesheet")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func runTransform(ctx context.Context, rootOpts *RootOptions, opts *TransformOptions, w io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := rootOpts.config
	if cfg == nil {
		cfg = &FileConfig{}
	}
	log := rootOpts.log
	if log == nil {
		log = zap.NewNop()
	}

	parseOpts, err := ParseOptionFlags(cfg.Parse, opts.Options)
	if err != nil {
		return WrapExitError(ExitCommandError, "parser options", err)
	}
	params, err := collectParams(cfg, opts)
	if err != nil {
		return WrapExitError(ExitCommandError, "parameters", err)
	}

	sheetDoc, err := LoadDocument(opts.Stylesheet, parseOpts)
	if err != nil {
		return WrapExitError(ExitCommandError, "load stylesheet", err)
	}
	defer sheetDoc.Close()
	src, err := LoadDocument(opts.Input, parseOpts)
	if err != nil {
		return WrapExitError(ExitCommandError, "load input", err)
	}
	defer src.Close()

	if cfg.Library.RegisterExtensions {
		xslt.RegisterExtensionFunctions()
	}

	start := time.Now()
	var out string
	if opts.Async {
		out, err = transformAsync(ctx, cfg.Library, sheetDoc, src, params, opts.Document)
	} else {
		out, err = transformSync(sheetDoc, src, params, opts.Document)
	}
	if err != nil {
		return WrapExitError(ExitFailure, "transform", err)
	}
	log.Debug("transformed",
		zap.String("stylesheet", opts.Stylesheet),
		zap.String("input", opts.Input),
		zap.Int("params", len(params)),
		zap.Bool("async", opts.Async),
		zap.Duration("elapsed", time.Since(start)))

	return writeOutput(opts.Output, w, out)
}

func transformSync(sheetDoc, src *xslt.Document, params []xslt.Param, document bool) (string, error) {
	ss, err := xslt.CompileStylesheet(sheetDoc)
	if err != nil {
		return "", err
	}
	defer ss.Close()

	if !document {
		return xslt.ApplyStylesheet(ss, src, params, true, nil)
	}
	result, err := xslt.NewDocument()
	if err != nil {
		return "", err
	}
	defer result.Close()
	if _, err := xslt.ApplyStylesheet(ss, src, params, false, result); err != nil {
		return "", err
	}
	out, _ := xslt.SerializeResult(result, ss)
	return out, nil
}

func transformAsync(ctx context.Context, libCfg xslt.Config, sheetDoc, src *xslt.Document, params []xslt.Param, document bool) (string, error) {
	lib, err := xslt.Open(libCfg)
	if err != nil {
		return "", err
	}
	defer lib.Close()

	ss, err := lib.CompileStylesheetAsync(sheetDoc, nil).Wait(ctx)
	if err != nil {
		return "", err
	}
	defer ss.Close()

	if !document {
		return lib.ApplyStylesheetAsync(ss, src, params, true, nil, nil).Wait(ctx)
	}
	result, err := xslt.NewDocument()
	if err != nil {
		return "", err
	}
	defer result.Close()
	if _, err := lib.ApplyStylesheetAsync(ss, src, params, false, result, nil).Wait(ctx); err != nil {
		return "", err
	}
	out, _ := xslt.SerializeResult(result, ss)
	return out, nil
}

// collectParams merges parameters from the config file, the params file and
// flags. Later sources override earlier ones by name.
func collectParams(cfg *FileConfig, opts *TransformOptions) ([]xslt.Param, error) {
	sources := [][]xslt.Param{cfg.Params.Literal(), cfg.XPathParams}

	if opts.ParamsFile != "" {
		fromFile, err := LoadParamsFile(opts.ParamsFile)
		if err != nil {
			return nil, err
		}
		sources = append(sources, fromFile)
	}
	literal, err := ParseParamFlags(opts.Params, false)
	if err != nil {
		return nil, err
	}
	xpath, err := ParseParamFlags(opts.XPathParams, true)
	if err != nil {
		return nil, err
	}
	sources = append(sources, literal, xpath)

	return mergeParams(sources...), nil
}

func mergeParams(sources ...[]xslt.Param) []xslt.Param {
	index := make(map[string]int)
	var out []xslt.Param
	for _, src := range sources {
		for _, p := range src {
			if i, ok := index[p.Name]; ok {
				out[i] = p
				continue
			}
			index[p.Name] = len(out)
			out = append(out, p)
		}
	}
	return out
}

func writeOutput(path string, w io.Writer, out string) error {
	if path == "" {
		_, err := io.WriteString(w, out)
		return err
	}
	if err := os.WriteFile(path, []byte(out), 0o644); err != nil { // #nosec G306 -- transformation output is not secret
		return WrapExitError(ExitCommandError, "write output", err)
	}
	return nil
}

// describeError adds the parser position to parse failures.
func describeError(err error) string {
	var pe *xslt.ParseError
	if errors.As(err, &pe) {
		return pe.ErrorRecord.String()
	}
	return fmt.Sprint(err)
}
