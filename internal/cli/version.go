package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is overridden at build time with -ldflags "-X ...cli.Version=...".
var Version = "0.2.0"

// VersionInfo is the JSON payload of the version command.
type VersionInfo struct {
	Version string `json:"version"`
}

// NewVersionCommand creates the version command.
func NewVersionCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "version",
		Short:         "Print the ArduHome version and exit",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(rootOpts, cmd.OutOrStdout(), cmd.ErrOrStderr())
			if formatter.JSON() {
				return formatter.Success(VersionInfo{Version: Version})
			}
			fmt.Fprintf(formatter.Writer, "Version: %s\n", Version)
			return nil
		},
	}
}
