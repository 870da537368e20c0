package pull

import (
	"errors"
	"fmt"
	"io/fs"
)

var (
	// ErrNameAlreadyExists is returned when a pull would overwrite an
	// existing local image and force-overwrite is not set.
	ErrNameAlreadyExists = fmt.Errorf("image already exists")
	// ErrRegistryLookupFailed wraps registry errors other than "not found".
	ErrRegistryLookupFailed = fmt.Errorf("failed to check whether image exists")
)

// Finder looks up a local image by name. Implementations return an error
// wrapping fs.ErrNotExist when no image of that name exists.
type Finder interface {
	Find(name string) error
}

// FinderFunc adapts a function to the Finder interface.
type FinderFunc func(name string) error

func (f FinderFunc) Find(name string) error { return f(name) }

// CheckLocalName verifies that pulling into name would not clobber an
// existing image. With PullForce set the lookup is skipped entirely.
//
// This is a best-effort pre-flight check only: no lock is held between it
// and the eventual install, which re-checks on commit.
func CheckLocalName(finder Finder, name string, flags Flags) error {
	if flags.Has(PullForce) {
		return nil
	}
	err := finder.Find(name)
	if err == nil {
		return fmt.Errorf("%w: %q", ErrNameAlreadyExists, name)
	}
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("%w: %q: %v", ErrRegistryLookupFailed, name, err)
}
