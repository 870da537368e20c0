package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/docker/go-units"
	"github.com/spf13/cobra"

	"github.com/macvmio/machinepull/pkg/registry"
)

func NewCmdList() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Short:   "List locally stored images",
		Args:    cobra.NoArgs,
		Aliases: []string{"ls"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			images, err := registry.NewDirectory(cfg.ImageRoot).List()
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 2, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tTYPE\tSIZE\tCREATED\tORIGIN")
			for _, img := range images {
				created := "-"
				if !img.CreatedAt.IsZero() {
					created = img.CreatedAt.Format("2006-01-02 15:04")
				}
				origin := img.URL
				if origin == "" {
					origin = "-"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					img.Name, img.Type, units.HumanSize(float64(img.Size)), created, origin)
			}
			return w.Flush()
		},
	}
}
