package cli

import (
	"github.com/spf13/cobra"

	"github.com/hsiuhsiu/libxslt-go/pkg/xslt"
)

// VersionInfo is the payload of the version command.
type VersionInfo struct {
	Wrapper string `json:"wrapper"`
	Engine  string `json:"engine,omitempty"`
}

// NewVersionCommand creates the version command.
func NewVersionCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print wrapper and libxslt versions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := VersionInfo{Wrapper: xslt.WrapperVersion(), Engine: xslt.EngineVersion()}
			f := newFormatter(rootOpts, cmd)
			if f.Format == "json" {
				return f.JSON(info)
			}
			engine := info.Engine
			if engine == "" {
				engine = "unavailable (built without cgo)"
			}
			f.Printf("xsltgo %s\nlibxslt %s\n", info.Wrapper, engine)
			return nil
		},
	}
}
