package puller

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
)

const (
	// maxPayloadBytes caps a single image download (64 GiB).
	maxPayloadBytes int64 = 64 << 30
	// maxChecksumBytes caps the checksum listing download (1 MiB).
	maxChecksumBytes int64 = 1 << 20
)

// fetchPayload downloads the image payload into the puller's workspace,
// computing its SHA-256 along the way.
func (p *Puller) fetchPayload(ctx context.Context, url string) (path, digest string, err error) {
	dst := filepath.Join(p.tmpDir, "payload")
	f, err := os.Create(dst)
	if err != nil {
		return "", "", fmt.Errorf("%w: unable to create download file: %v", errStorage, err)
	}
	defer f.Close()

	resp, err := p.get(ctx, url)
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()

	p.opts.logf("Downloading %s.", url)

	h := sha256.New()
	body := io.TeeReader(io.LimitReader(resp.Body, maxPayloadBytes+1), h)

	var w io.Writer = f
	if p.opts.showProgress {
		w = &progressWriter{w: f, total: resp.ContentLength, logf: p.opts.logf}
	}
	written, err := io.Copy(w, body)
	if err != nil {
		return "", "", fmt.Errorf("download of %s failed: %w", url, err)
	}
	if written > maxPayloadBytes {
		return "", "", fmt.Errorf("download of %s exceeds %d bytes", url, maxPayloadBytes)
	}
	if err := f.Sync(); err != nil {
		return "", "", fmt.Errorf("%w: unable to sync download: %v", errStorage, err)
	}
	return dst, hex.EncodeToString(h.Sum(nil)), nil
}

// fetchToFile downloads url into dst. It reports the HTTP status code so
// callers can treat 404 on optional artifacts as a soft miss.
func (p *Puller) fetchToFile(ctx context.Context, url, dst string) (int, error) {
	resp, err := p.getAnyStatus(ctx, url)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return resp.StatusCode, nil
	}

	f, err := os.Create(dst)
	if err != nil {
		return 0, fmt.Errorf("%w: unable to create download file: %v", errStorage, err)
	}
	defer f.Close()
	if _, err := io.Copy(f, io.LimitReader(resp.Body, maxPayloadBytes)); err != nil {
		return 0, fmt.Errorf("download of %s failed: %w", url, err)
	}
	return http.StatusOK, nil
}

// fetchBytes downloads a small artifact fully into memory.
func (p *Puller) fetchBytes(ctx context.Context, url string, limit int64) ([]byte, int, error) {
	resp, err := p.getAnyStatus(ctx, url)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, resp.StatusCode, nil
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, limit))
	if err != nil {
		return nil, 0, fmt.Errorf("download of %s failed: %w", url, err)
	}
	return body, http.StatusOK, nil
}

func (p *Puller) get(ctx context.Context, url string) (*http.Response, error) {
	resp, err := p.getAnyStatus(ctx, url)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("HTTP GET %s: status %s", url, resp.Status)
	}
	return resp, nil
}

func (p *Puller) getAnyStatus(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("unable to build request for %s: %w", url, err)
	}
	resp, err := p.opts.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP GET %s: %w", url, err)
	}
	return resp, nil
}
