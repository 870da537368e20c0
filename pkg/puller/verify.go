package puller

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/exec"
	"path"
	"path/filepath"
	"strings"

	"github.com/macvmio/machinepull/pkg/pull"
)

const (
	checksumFileName  = "SHA256SUMS"
	signatureFileName = "SHA256SUMS.gpg"
)

// verifyPayload establishes the integrity of the downloaded payload against
// the checksum listing published next to it, and in signature mode the
// authenticity of that listing via a detached signature. The signature
// check itself is delegated to the external gpg binary.
func (p *Puller) verifyPayload(ctx context.Context, req *pull.Request, digest string) error {
	fileName, sumsURL, err := checksumLocation(req.URL)
	if err != nil {
		return err
	}

	sums, status, err := p.fetchBytes(ctx, sumsURL, maxChecksumBytes)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("%w: no %s at %s (status %d)", errVerification, checksumFileName, sumsURL, status)
	}

	want, ok := checksumFor(sums, fileName)
	if !ok {
		return fmt.Errorf("%w: %s carries no entry for %q", errVerification, checksumFileName, fileName)
	}
	if !strings.EqualFold(want, digest) {
		return fmt.Errorf("%w: checksum mismatch for %q", errVerification, fileName)
	}
	p.opts.logf("SHA256 checksum of %s is valid.", fileName)

	if req.Verify != pull.VerifySignature {
		return nil
	}
	return p.verifySignature(ctx, sums, sumsURL)
}

// verifySignature fetches the detached signature of the checksum listing
// and runs gpg over both.
func (p *Puller) verifySignature(ctx context.Context, sums []byte, sumsURL string) error {
	sigURL := strings.TrimSuffix(sumsURL, checksumFileName) + signatureFileName
	sig, status, err := p.fetchBytes(ctx, sigURL, maxChecksumBytes)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("%w: no %s at %s (status %d)", errVerification, signatureFileName, sigURL, status)
	}

	sumsPath := filepath.Join(p.tmpDir, checksumFileName)
	sigPath := filepath.Join(p.tmpDir, signatureFileName)
	if err := os.WriteFile(sumsPath, sums, 0o600); err != nil {
		return fmt.Errorf("%w: %v", errStorage, err)
	}
	if err := os.WriteFile(sigPath, sig, 0o600); err != nil {
		return fmt.Errorf("%w: %v", errStorage, err)
	}

	cmd := exec.CommandContext(ctx, p.opts.gpgBinary, "--verify", sigPath, sumsPath)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%w: signature check failed: %s: %v", errVerification, strings.TrimSpace(string(out)), err)
	}
	p.opts.logf("Signature of %s is valid.", checksumFileName)
	return nil
}

// checksumLocation returns the payload's file name and the URL of the
// checksum listing published in the same directory.
func checksumLocation(rawURL string) (fileName, sumsURL string, err error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", "", fmt.Errorf("%w: %q: %v", pull.ErrInvalidURL, rawURL, err)
	}
	fileName = path.Base(u.Path)
	u.Path = path.Join(path.Dir(u.Path), checksumFileName)
	u.RawQuery = ""
	u.Fragment = ""
	return fileName, u.String(), nil
}

// checksumFor scans a SHA256SUMS style listing ("<hex>  <name>" per line,
// optionally "*<name>" for binary mode) for the given file name.
func checksumFor(sums []byte, fileName string) (string, bool) {
	for _, line := range strings.Split(string(sums), "\n") {
		fields := strings.Fields(line)
		if len(fields) != 2 {
			continue
		}
		name := strings.TrimPrefix(fields[1], "*")
		if name == fileName {
			return fields[0], true
		}
	}
	return "", false
}
