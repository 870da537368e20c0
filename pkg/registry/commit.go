package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/magiconair/properties"
)

const metaDirName = ".machinepull"

// Metadata is the optional provenance recorded next to an installed image.
type Metadata struct {
	URL      string
	PulledAt time.Time
}

func (d *Directory) metaDir() string {
	return filepath.Join(d.root, metaDirName)
}

func (d *Directory) metaPath(name string) string {
	return filepath.Join(d.metaDir(), name+".properties")
}

// Commit installs a pulled image from its temporary location under its
// final name. The whole step runs under a file lock on the image root and
// re-checks for an existing image, so two concurrent pulls of the same
// name cannot both win; the caller's earlier conflict check remains
// best-effort only.
func (d *Directory) Commit(name, typ, srcPath string, force bool, meta Metadata) error {
	if err := os.MkdirAll(d.metaDir(), 0o755); err != nil {
		return fmt.Errorf("unable to create metadata directory: %w", err)
	}

	lock := flock.New(filepath.Join(d.metaDir(), "lock"))
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("unable to lock image root %q: %w", d.root, err)
	}
	defer lock.Unlock()

	dst := filepath.Join(d.root, name)
	if typ == TypeRaw {
		dst = d.rawPath(name)
	}

	if _, err := os.Lstat(dst); err == nil {
		if !force {
			return fmt.Errorf("%w: %q", ErrExists, name)
		}
		if err := os.RemoveAll(dst); err != nil {
			return fmt.Errorf("unable to remove existing image %q: %w", name, err)
		}
	}
	if err := os.Rename(srcPath, dst); err != nil {
		return fmt.Errorf("unable to install image %q: %w", name, err)
	}

	d.writeMetadata(name, meta)
	return nil
}

// writeMetadata records provenance as a properties sidecar. Failures are
// swallowed: the image itself is already in place and usable.
func (d *Directory) writeMetadata(name string, meta Metadata) {
	p := properties.NewProperties()
	_, _, _ = p.Set("url", meta.URL)
	_, _, _ = p.Set("pulled_at", meta.PulledAt.UTC().Format(time.RFC3339))

	f, err := os.Create(d.metaPath(name))
	if err != nil {
		return
	}
	defer f.Close()
	_, _ = p.Write(f, properties.UTF8)
}

func (d *Directory) attachMetadata(img *Image) {
	p, err := properties.LoadFile(d.metaPath(img.Name), properties.UTF8)
	if err != nil {
		return
	}
	img.URL = p.GetString("url", "")
	if ts, err := time.Parse(time.RFC3339, p.GetString("pulled_at", "")); err == nil {
		img.CreatedAt = ts
	}
}
