package cmd

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Version is the release tag stamped at build time:
//
//	-ldflags="-X github.com/macvmio/machinepull/cmd/machinepull/cmd.Version=v1.2.3"
//
// Unstamped binaries fall back to the module version from build info.
var Version string

func init() {
	if Version != "" {
		return
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		Version = info.Main.Version
	}
}

// NewCmdVersion creates the version subcommand.
func NewCmdVersion() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			v := Version
			if v == "" {
				v = "(unknown)"
			}
			fmt.Fprintln(cmd.OutOrStdout(), v)
		},
	}
}
