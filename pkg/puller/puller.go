// Package puller implements the download/verify/store engines behind the
// tar and raw pull verbs. A Puller runs one operation asynchronously and
// reports a single integer outcome code on its Done channel; the driver in
// pkg/pull owns its lifecycle.
package puller

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/macvmio/machinepull/pkg/pull"
	"github.com/macvmio/machinepull/pkg/registry"
)

// Outcome codes delivered on Done. The orchestration layer only relays
// their magnitude as the process exit status.
const (
	outcomeNetwork      = 1
	outcomeVerification = 2
	outcomeStorage      = 3
)

var (
	errVerification = errors.New("verification failed")
	errStorage      = errors.New("storage failed")
)

var (
	tarSuffixes = []string{".tar", ".tgz"}
	rawSuffixes = []string{".raw", ".img", ".qcow2"}
)

// TarFormat and RawFormat are the two supported image formats, wired into
// the generic orchestration in pkg/pull.
var (
	TarFormat = pull.Format{
		Name:     "tar",
		Suffixes: tarSuffixes,
		Mask:     pull.MaskTar,
		New: func(imageRoot string) (pull.Puller, error) {
			return NewTar(imageRoot), nil
		},
	}
	RawFormat = pull.Format{
		Name:     "raw",
		Suffixes: rawSuffixes,
		Mask:     pull.MaskRaw,
		New: func(imageRoot string) (pull.Puller, error) {
			return NewRaw(imageRoot), nil
		},
	}
)

// installFunc materializes a verified payload file under its local name.
type installFunc func(ctx context.Context, p *Puller, req *pull.Request, payloadPath string) error

// Puller downloads one image, verifies it and installs it into the image
// root. At most one Start per instance.
type Puller struct {
	store    *registry.Directory
	typ      string
	suffixes []string
	mask     pull.Flags
	install  installFunc

	opts   *options
	tmpDir string

	started bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	done    chan int
}

// NewTar allocates a puller for tar archive images installing into imageRoot.
func NewTar(imageRoot string, opt ...Option) *Puller {
	return newPuller(imageRoot, registry.TypeTar, tarSuffixes, pull.MaskTar, installTar, opt...)
}

// NewRaw allocates a puller for raw disk images installing into imageRoot.
func NewRaw(imageRoot string, opt ...Option) *Puller {
	return newPuller(imageRoot, registry.TypeRaw, rawSuffixes, pull.MaskRaw, installRaw, opt...)
}

func newPuller(imageRoot, typ string, suffixes []string, mask pull.Flags, install installFunc, opt ...Option) *Puller {
	return &Puller{
		store:    registry.NewDirectory(imageRoot),
		typ:      typ,
		suffixes: suffixes,
		mask:     mask,
		install:  install,
		opts:     makeOptions(opt...),
		tmpDir:   filepath.Join(imageRoot, ".machinepull", "tmp", "pull-"+uuid.NewString()),
		done:     make(chan int, 1),
	}
}

// Done delivers the operation's outcome code exactly once: 0 on success,
// a positive magnitude otherwise.
func (p *Puller) Done() <-chan int {
	return p.done
}

// Start validates the request synchronously and kicks off the asynchronous
// pull. A returned error means nothing asynchronous was started.
func (p *Puller) Start(ctx context.Context, req *pull.Request) error {
	if p.started {
		return errors.New("puller already started")
	}
	if err := pull.ValidateURL(req.URL); err != nil {
		return err
	}
	if req.LocalName != "" && !pull.LocalNameIsValid(req.LocalName) {
		return fmt.Errorf("%w: %q", pull.ErrInvalidLocalName, req.LocalName)
	}

	flags := req.Flags.Mask(p.mask)
	ctx, p.cancel = context.WithCancel(ctx)
	p.started = true
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		err := p.run(ctx, req, flags)
		if err != nil && ctx.Err() == nil {
			p.opts.logf("Failed to pull %s: %v", req.URL, err)
		}
		p.done <- outcomeCode(err)
	}()
	return nil
}

// Close cancels any in-flight work, waits for it to wind down and removes
// the puller's temporary workspace. A partially downloaded image never
// survives under its final name.
func (p *Puller) Close() error {
	if p.cancel != nil {
		p.cancel()
	}
	p.wg.Wait()
	return os.RemoveAll(p.tmpDir)
}

func (p *Puller) run(ctx context.Context, req *pull.Request, flags pull.Flags) error {
	if err := os.MkdirAll(p.tmpDir, 0o755); err != nil {
		return fmt.Errorf("%w: unable to create workspace: %v", errStorage, err)
	}

	payloadPath, digest, err := p.fetchPayload(ctx, req.URL)
	if err != nil {
		return err
	}
	if req.Verify != pull.VerifyNone {
		if err := p.verifyPayload(ctx, req, digest); err != nil {
			return err
		}
	}

	// Dry pull: downloaded and verified, nothing to persist.
	if req.LocalName == "" {
		return nil
	}

	aux, err := p.fetchAuxiliary(ctx, req.URL, flags)
	if err != nil {
		return err
	}
	if err := p.install(ctx, p, req, payloadPath); err != nil {
		return err
	}
	p.installAuxiliary(req.LocalName, aux)
	return nil
}

func (p *Puller) commit(req *pull.Request, srcPath string) error {
	meta := registry.Metadata{URL: req.URL, PulledAt: time.Now()}
	err := p.store.Commit(req.LocalName, p.typ, srcPath, req.Flags.Has(pull.PullForce), meta)
	if err != nil {
		return fmt.Errorf("%w: %v", errStorage, err)
	}
	return nil
}

func outcomeCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errVerification):
		return outcomeVerification
	case errors.Is(err, errStorage):
		return outcomeStorage
	default:
		return outcomeNetwork
	}
}
