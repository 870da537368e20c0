package puller

import (
	"archive/tar"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/macvmio/machinepull/pkg/pull"
)

// installTar extracts the payload archive into a staging directory inside
// the workspace and commits it under the local name.
func installTar(ctx context.Context, p *Puller, req *pull.Request, payloadPath string) error {
	stagingDir := filepath.Join(p.tmpDir, "rootfs")
	if err := os.MkdirAll(stagingDir, 0o755); err != nil {
		return fmt.Errorf("%w: unable to create staging directory: %v", errStorage, err)
	}

	f, err := os.Open(payloadPath)
	if err != nil {
		return fmt.Errorf("%w: %v", errStorage, err)
	}
	defer f.Close()

	r, err := decompressor(f, req.URL)
	if err != nil {
		return fmt.Errorf("%w: %v", errVerification, err)
	}
	if err := extractTar(ctx, r, stagingDir); err != nil {
		return fmt.Errorf("%w: extraction of %s failed: %v", errVerification, req.URL, err)
	}

	return p.commit(req, stagingDir)
}

// extractTar unpacks the archive into dir, refusing entries that would
// escape it.
func extractTar(ctx context.Context, r io.Reader, dir string) error {
	tr := tar.NewReader(r)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		dst, err := entryDestination(dir, hdr.Name)
		if err != nil {
			return err
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(dst, os.FileMode(hdr.Mode)&0o777|0o700); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
				return err
			}
			if err := removeStaleEntry(dst); err != nil {
				return err
			}
			out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, os.FileMode(hdr.Mode)&0o777)
			if err != nil {
				return err
			}
			if _, err := io.Copy(out, tr); err != nil {
				out.Close()
				return err
			}
			if err := out.Close(); err != nil {
				return err
			}
		case tar.TypeSymlink:
			if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
				return err
			}
			if err := removeStaleEntry(dst); err != nil {
				return err
			}
			if err := os.Symlink(hdr.Linkname, dst); err != nil {
				return err
			}
		case tar.TypeLink:
			target, err := entryDestination(dir, hdr.Linkname)
			if err != nil {
				return fmt.Errorf("archive entry %q links outside the image directory: %v", hdr.Name, err)
			}
			if err := os.Link(target, dst); err != nil {
				return err
			}
		default:
			// Device nodes and the like are skipped; images pulled here
			// are rootless payloads.
		}
	}
}

// entryDestination resolves an archive member name under dir. Beyond the
// lexical escape check it walks the already extracted parent chain with
// Lstat and refuses names that cross a symlink, which would redirect the
// write outside dir even though the name itself is local.
func entryDestination(dir, name string) (string, error) {
	name = filepath.FromSlash(name)
	if !filepath.IsLocal(name) {
		return "", fmt.Errorf("archive entry %q escapes the image directory", name)
	}
	parent := dir
	elems := strings.Split(name, string(filepath.Separator))
	for _, elem := range elems[:len(elems)-1] {
		if elem == "" {
			continue
		}
		parent = filepath.Join(parent, elem)
		fi, err := os.Lstat(parent)
		if errors.Is(err, fs.ErrNotExist) {
			break
		}
		if err != nil {
			return "", err
		}
		if fi.Mode()&fs.ModeSymlink != 0 {
			return "", fmt.Errorf("archive entry %q traverses a symlink", name)
		}
	}
	return filepath.Join(dir, name), nil
}

// removeStaleEntry unlinks a previously extracted non-directory at path so
// that a later entry under the same name is created fresh instead of being
// opened through whatever sits there, a symlink in particular.
func removeStaleEntry(path string) error {
	fi, err := os.Lstat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if fi.IsDir() {
		return nil
	}
	return os.Remove(path)
}
