// Package registry maintains the local image root directory: locating
// installed images by name, listing them, and committing freshly pulled
// images into place.
//
// The layout follows the machine image convention: a directory per tar
// image, a <name>.raw file per raw image. Sidecar metadata lives under
// .machinepull/ inside the root and is strictly best-effort; images placed
// there by other tools are still found.
package registry

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Image types stored in the image root.
const (
	TypeTar = "tar"
	TypeRaw = "raw"
)

var (
	// ErrNotFound wraps fs.ErrNotExist so callers can use errors.Is
	// against either sentinel.
	ErrNotFound = fmt.Errorf("image not found: %w", fs.ErrNotExist)
	// ErrExists is returned by Commit when the target name appeared
	// between the caller's pre-flight check and the commit.
	ErrExists = fmt.Errorf("image already exists")
)

// Image describes one locally installed image.
type Image struct {
	Name      string
	Type      string
	Path      string
	Size      int64
	CreatedAt time.Time
	// URL is the origin the image was pulled from, when known.
	URL string
}

// Directory is an image registry backed by a single root directory.
type Directory struct {
	root string
}

func NewDirectory(root string) *Directory {
	return &Directory{root: root}
}

func (d *Directory) Root() string { return d.root }

func (d *Directory) rawPath(name string) string {
	return filepath.Join(d.root, name+".raw")
}

// Find looks up an installed image by name. The returned error wraps
// fs.ErrNotExist when no image of that name exists.
func (d *Directory) Find(name string) (*Image, error) {
	if fi, err := os.Stat(filepath.Join(d.root, name)); err == nil && fi.IsDir() {
		img := &Image{Name: name, Type: TypeTar, Path: filepath.Join(d.root, name), CreatedAt: fi.ModTime()}
		d.attachMetadata(img)
		return img, nil
	}
	if fi, err := os.Stat(d.rawPath(name)); err == nil && fi.Mode().IsRegular() {
		img := &Image{Name: name, Type: TypeRaw, Path: d.rawPath(name), Size: fi.Size(), CreatedAt: fi.ModTime()}
		d.attachMetadata(img)
		return img, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
}

// List returns all installed images sorted by name. A missing image root
// yields an empty list.
func (d *Directory) List() ([]*Image, error) {
	entries, err := os.ReadDir(d.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("unable to read image root %q: %w", d.root, err)
	}

	var images []*Image
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		switch {
		case e.IsDir():
			img := &Image{Name: name, Type: TypeTar, Path: filepath.Join(d.root, name)}
			if fi, err := e.Info(); err == nil {
				img.CreatedAt = fi.ModTime()
			}
			img.Size = directorySize(img.Path)
			d.attachMetadata(img)
			images = append(images, img)
		case strings.HasSuffix(name, ".raw"):
			img := &Image{Name: strings.TrimSuffix(name, ".raw"), Type: TypeRaw, Path: filepath.Join(d.root, name)}
			if fi, err := e.Info(); err == nil {
				img.Size = fi.Size()
				img.CreatedAt = fi.ModTime()
			}
			d.attachMetadata(img)
			images = append(images, img)
		}
	}
	sort.Slice(images, func(i, j int) bool { return images[i].Name < images[j].Name })
	return images, nil
}

func directorySize(dir string) int64 {
	var total int64
	_ = filepath.WalkDir(dir, func(_ string, entry fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if fi, err := entry.Info(); err == nil && fi.Mode().IsRegular() {
			total += fi.Size()
		}
		return nil
	})
	return total
}
