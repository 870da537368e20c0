package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/macvmio/machinepull/pkg/pull"
	"github.com/macvmio/machinepull/pkg/registry"
)

// newPullCommand builds the verb for one image format; tar and raw only
// differ in their Format value.
func newPullCommand(format pull.Format) *cobra.Command {
	return &cobra.Command{
		Use:   format.Name + " URL [NAME]",
		Short: fmt.Sprintf("Download a %s image", strings.ToUpper(format.Name)),
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return runPull(cmd, format, args)
		},
	}
}

func runPull(cmd *cobra.Command, format pull.Format, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	verify, err := pull.ParseVerify(cfg.Verify)
	if err != nil {
		return err
	}
	flags, err := pullFlagsFrom(cmd)
	if err != nil {
		return err
	}

	url := args[0]
	explicit := ""
	if len(args) >= 2 {
		explicit = args[1]
	}
	localName, err := pull.ResolveLocalName(url, explicit, len(args) >= 2, format.Suffixes)
	if err != nil {
		return err
	}

	if localName != "" {
		store := registry.NewDirectory(cfg.ImageRoot)
		finder := pull.FinderFunc(func(name string) error {
			_, err := store.Find(name)
			return err
		})
		if err := pull.CheckLocalName(finder, localName, flags); err != nil {
			return err
		}
		logf("Pulling '%s', saving as '%s'.", url, localName)
	} else {
		logf("Pulling '%s'.", url)
	}

	req := &pull.Request{
		URL:       url,
		LocalName: localName,
		ImageRoot: cfg.ImageRoot,
		Flags:     flags,
		Verify:    verify,
	}
	outcome, err := pull.Run(cmd.Context(), format, req, pull.WithLogFunc(logf))
	if err != nil {
		return err
	}
	logf("Exiting.")
	return outcome.Err()
}

// pullFlagsFrom assembles the artifact selection from the boolean flags.
// PullRoothash is applied after PullRoothashSignature so that disabling
// the root hash always disables its signature too.
func pullFlagsFrom(cmd *cobra.Command) (pull.Flags, error) {
	pf := cmd.Flags()

	f := pull.DefaultFlags
	for _, b := range []struct {
		name string
		flag pull.Flags
	}{
		{"settings", pull.PullSettings},
		{"verity", pull.PullVerity},
		{"roothash-signature", pull.PullRoothashSignature},
		{"roothash", pull.PullRoothash},
		{"force", pull.PullForce},
	} {
		on, err := pf.GetBool(b.name)
		if err != nil {
			return 0, err
		}
		f = f.Set(b.flag, on)
	}
	return f, nil
}

func logf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
}
