package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/macvmio/machinepull/pkg/pull"
)

func InitializeCommands() *cobra.Command {
	cobra.OnInitialize(initConfig)
	var rootCmd = &cobra.Command{
		Use:   "machinepull",
		Short: "Download container and virtual machine images.",
		Long: `Machinepull downloads container (TAR) and virtual machine (RAW) disk images
over HTTP(S) into a local image root, verifying their integrity or
authenticity on the way.`,
		SilenceErrors:              true,
		SuggestionsMinimumDistance: 2,
	}
	rootCmd.Version = Version

	pf := rootCmd.PersistentFlags()
	pf.Bool("force", false, "Force creation of image")
	pf.String("image-root", "/var/lib/machines", "Image root directory")
	pf.String("verify", "signature", "Verify downloaded image, one of: 'no', 'checksum', 'signature'")
	pf.Bool("settings", true, "Download settings file with image")
	pf.Bool("roothash", true, "Download root hash file with image")
	pf.Bool("roothash-signature", true, "Download root hash signature file with image")
	pf.Bool("verity", true, "Download verity file with image")
	_ = viper.BindPFlag("image_root", pf.Lookup("image-root"))
	_ = viper.BindPFlag("verify", pf.Lookup("verify"))

	rootCmd.AddCommand(
		NewCmdTar(),
		NewCmdRaw(),
		NewCmdList(),
		NewCmdVersion(),
	)

	return rootCmd
}

func Execute(rootCmd *cobra.Command) {
	if err := rootCmd.Execute(); err != nil {
		var exitErr *pull.ExitError
		if errors.As(err, &exitErr) {
			// The driver already logged the abort notice.
			if !exitErr.Interrupted {
				fmt.Fprintf(os.Stderr, "Error: %s\n", err)
			}
			os.Exit(exitErr.Code)
		}
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
