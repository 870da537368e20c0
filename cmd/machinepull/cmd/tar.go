package cmd

import (
	"github.com/spf13/cobra"

	"github.com/macvmio/machinepull/pkg/puller"
)

func NewCmdTar() *cobra.Command {
	c := newPullCommand(puller.TarFormat)
	c.Long = `Downloads a TAR archive image from an HTTP(S) URL, verifies it and
extracts it into the image root under its local name.`
	return c
}
