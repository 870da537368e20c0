package cmd

import (
	"github.com/spf13/cobra"

	"github.com/macvmio/machinepull/pkg/puller"
)

func NewCmdRaw() *cobra.Command {
	c := newPullCommand(puller.RawFormat)
	c.Long = `Downloads a RAW disk image from an HTTP(S) URL, verifies it and installs
it into the image root under its local name.`
	return c
}
