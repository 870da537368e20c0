package puller

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/macvmio/machinepull/pkg/pull"
)

// installRaw materializes the payload as a single disk image file inside
// the workspace and commits it under <name>.raw. Compressed payloads are
// decompressed; plain ones are renamed in place.
func installRaw(ctx context.Context, p *Puller, req *pull.Request, payloadPath string) error {
	staged := filepath.Join(p.tmpDir, "image.raw")

	if !pull.HasCompressionSuffix(req.URL) {
		if err := os.Rename(payloadPath, staged); err != nil {
			return fmt.Errorf("%w: %v", errStorage, err)
		}
		return p.commit(req, staged)
	}

	src, err := os.Open(payloadPath)
	if err != nil {
		return fmt.Errorf("%w: %v", errStorage, err)
	}
	defer src.Close()

	r, err := decompressor(src, req.URL)
	if err != nil {
		return fmt.Errorf("%w: %v", errVerification, err)
	}

	dst, err := os.OpenFile(staged, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("%w: %v", errStorage, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, contextReader{ctx: ctx, r: r}); err != nil {
		return fmt.Errorf("%w: decompression of %s failed: %v", errVerification, req.URL, err)
	}
	if err := dst.Sync(); err != nil {
		return fmt.Errorf("%w: %v", errStorage, err)
	}
	return p.commit(req, staged)
}

// contextReader aborts a long copy once its context is cancelled.
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c contextReader) Read(b []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(b)
}
