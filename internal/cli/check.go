package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hsiuhsiu/libxslt-go/pkg/xslt"
)

// CheckOptions holds flags for the check command.
type CheckOptions struct {
	Options []string
	Strict  bool
}

// CheckReport describes one checked file.
type CheckReport struct {
	File        string             `json:"file"`
	OK          bool               `json:"ok"`
	Root        string             `json:"root,omitempty"`
	Nodes       int                `json:"nodes,omitempty"`
	Digest      string             `json:"digest,omitempty"`
	Diagnostics []xslt.ErrorRecord `json:"diagnostics,omitempty"`
	Error       string             `json:"error,omitempty"`
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CheckOptions{}

	cmd := &cobra.Command{
		Use:   "check <file>...",
		Short: "Parse XML files and report diagnostics",
		Long: `Parse each file with the selected parser options and report the root
element, node count, XXH3 digest and every diagnostic libxml2 emitted.

Exits non-zero when any file fails to parse, or with --strict when any file
produced diagnostics.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(rootOpts, opts, args, newFormatter(rootOpts, cmd))
		},
	}

	cmd.Flags().StringSliceVar(&opts.Options, "option", nil, "parser option, e.g. recover,nonet")
	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "fail on recovered diagnostics too")

	return cmd
}

func runCheck(rootOpts *RootOptions, opts *CheckOptions, files []string, f *OutputFormatter) error {
	base := xslt.ParseOptions{}
	if rootOpts.config != nil {
		base = rootOpts.config.Parse
	}
	parseOpts, err := ParseOptionFlags(base, opts.Options)
	if err != nil {
		return WrapExitError(ExitCommandError, "parser options", err)
	}

	reports := make([]CheckReport, 0, len(files))
	failed := 0
	for _, file := range files {
		r := CheckFile(file, parseOpts)
		if !r.OK || (opts.Strict && len(r.Diagnostics) > 0) {
			failed++
		}
		reports = append(reports, r)
	}

	if f.Format == "json" {
		if err := f.JSON(reports); err != nil {
			return err
		}
	} else {
		for _, r := range reports {
			f.Printf("%s", FormatReport(r))
		}
	}

	if failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d of %d file(s) failed", failed, len(files)))
	}
	return nil
}

// CheckFile parses path and summarizes the outcome.
func CheckFile(path string, opts xslt.ParseOptions) CheckReport {
	r := CheckReport{File: path}

	doc, err := LoadDocument(path, opts)
	if err != nil {
		r.Error = describeError(err)
		var pe *xslt.ParseError
		if errors.As(err, &pe) {
			r.Diagnostics = []xslt.ErrorRecord{pe.ErrorRecord}
		}
		return r
	}
	defer doc.Close()

	r.OK = true
	r.Root = doc.RootName()
	r.Diagnostics = doc.Errors()
	if n, err := doc.NodeCount(); err == nil {
		r.Nodes = n
	}
	if d, err := doc.Digest(); err == nil {
		r.Digest = fmt.Sprintf("%016x", d)
	}
	return r
}

// FormatReport renders r as text, one line per diagnostic.
func FormatReport(r CheckReport) string {
	var s string
	if r.OK {
		s = fmt.Sprintf("%s: ok root=%s nodes=%d xxh3=%s\n", r.File, r.Root, r.Nodes, r.Digest)
	} else {
		s = fmt.Sprintf("%s: FAILED %s\n", r.File, r.Error)
	}
	for _, d := range r.Diagnostics {
		s += "  " + d.String() + "\n"
	}
	return s
}
