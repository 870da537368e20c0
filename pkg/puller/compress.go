package puller

import (
	"compress/bzip2"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// decompressor wraps r with the decompression the URL's suffix announces.
// Plain payloads pass through untouched.
func decompressor(r io.Reader, url string) (io.Reader, error) {
	switch {
	case strings.HasSuffix(url, ".gz"), strings.HasSuffix(url, ".tgz"):
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("unable to open gzip stream: %w", err)
		}
		return zr, nil
	case strings.HasSuffix(url, ".zst"):
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("unable to open zstd stream: %w", err)
		}
		return zr.IOReadCloser(), nil
	case strings.HasSuffix(url, ".bz2"):
		return bzip2.NewReader(r), nil
	case strings.HasSuffix(url, ".xz"):
		xr, err := xz.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("unable to open xz stream: %w", err)
		}
		return xr, nil
	default:
		return r, nil
	}
}
