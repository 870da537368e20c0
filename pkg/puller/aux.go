package puller

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/macvmio/machinepull/pkg/pull"
)

// Optional artifacts downloaded next to the image payload, keyed by the
// flag requesting them. The artifact URL is the payload URL with its
// compression and format suffixes swapped for the artifact suffix.
var auxArtifacts = []struct {
	flag   pull.Flags
	suffix string
}{
	{pull.PullSettings, ".nspawn"},
	{pull.PullRoothash, ".roothash"},
	{pull.PullRoothashSignature, ".roothash.p7s"},
	{pull.PullVerity, ".verity"},
}

// fetchAuxiliary downloads the artifacts selected by flags concurrently
// into the workspace. A 404 on an artifact is a soft miss, not a failure.
// It returns artifact suffix -> temp path for everything that was found.
//
// TODO: match fetched artifacts against the SHA256SUMS listing when the
// request carries a verification mode; today only the payload is checked.
func (p *Puller) fetchAuxiliary(ctx context.Context, payloadURL string, flags pull.Flags) (map[string]string, error) {
	base := pull.StripSuffixes(payloadURL, p.suffixes)

	var mu sync.Mutex
	found := make(map[string]string)

	g, ctx := errgroup.WithContext(ctx)
	for _, a := range auxArtifacts {
		if !flags.Has(a.flag) {
			continue
		}
		a := a
		g.Go(func() error {
			url := base + a.suffix
			dst := filepath.Join(p.tmpDir, "aux"+a.suffix)
			status, err := p.fetchToFile(ctx, url, dst)
			if err != nil {
				return err
			}
			if status != http.StatusOK {
				p.opts.logf("No artifact found at %s, skipping.", url)
				return nil
			}
			mu.Lock()
			found[a.suffix] = dst
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return found, nil
}

// installAuxiliary moves fetched artifacts next to the installed image.
// Failures only cost the sidecar, never the image.
func (p *Puller) installAuxiliary(localName string, artifacts map[string]string) {
	for suffix, tmp := range artifacts {
		dst := filepath.Join(p.store.Root(), localName+suffix)
		if err := os.Rename(tmp, dst); err != nil {
			p.opts.logf("Unable to install %s artifact: %v", suffix, err)
		}
	}
}
