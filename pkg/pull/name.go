package pull

import (
	"fmt"
	"net/url"
	"strings"
)

var (
	// ErrInvalidURL is returned for source URLs that are not valid
	// absolute HTTP or HTTPS URLs.
	ErrInvalidURL = fmt.Errorf("invalid URL")
	// ErrNameDerivationFailed is returned when no local name was given and
	// the URL carries no usable final path component to derive one from.
	ErrNameDerivationFailed = fmt.Errorf("failed to derive local name from URL")
	// ErrInvalidLocalName is returned for local names that do not satisfy
	// hostname-label syntax.
	ErrInvalidLocalName = fmt.Errorf("invalid local image name")
)

// Compression suffixes stripped before a format suffix.
var compressionSuffixes = []string{".xz", ".gz", ".bz2", ".zst"}

// HasCompressionSuffix reports whether name ends in one of the compression
// suffixes recognized during name resolution.
func HasCompressionSuffix(name string) bool {
	for _, s := range compressionSuffixes {
		if strings.HasSuffix(name, s) {
			return true
		}
	}
	return false
}

const maxLocalNameLength = 64

// ValidateURL checks that rawURL is a syntactically valid absolute
// HTTP(S) URL.
func ValidateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%w: %q: %v", ErrInvalidURL, rawURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidURL, rawURL)
	}
	return nil
}

// URLLastComponent returns the final path component of rawURL, with any
// trailing slashes removed first.
func URLLastComponent(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrInvalidURL, rawURL, err)
	}
	p := strings.TrimRight(u.Path, "/")
	last := p[strings.LastIndex(p, "/")+1:]
	if last == "" {
		return "", fmt.Errorf("%w: %q", ErrNameDerivationFailed, rawURL)
	}
	return last, nil
}

// StripSuffixes removes at most one compression suffix and then at most one
// of the given format suffixes from name.
func StripSuffixes(name string, formatSuffixes []string) string {
	for _, s := range compressionSuffixes {
		if trimmed := strings.TrimSuffix(name, s); trimmed != name {
			name = trimmed
			break
		}
	}
	for _, s := range formatSuffixes {
		if trimmed := strings.TrimSuffix(name, s); trimmed != name {
			return trimmed
		}
	}
	return name
}

// LocalNameIsValid reports whether name satisfies hostname-label syntax:
// letters, digits, hyphen, underscore and dot, at most 64 bytes, not empty,
// not "." or "..", and not beginning or ending with a hyphen or beginning
// with a dot.
func LocalNameIsValid(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	if len(name) > maxLocalNameLength {
		return false
	}
	if name[0] == '-' || name[0] == '.' || name[len(name)-1] == '-' {
		return false
	}
	for _, c := range []byte(name) {
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case c == '-' || c == '_' || c == '.':
		default:
			return false
		}
	}
	return true
}

// ResolveLocalName produces the validated local name for a pull, or "" when
// the image should not be persisted under a name.
//
// The explicit argument wins when given; an explicit empty string or a
// single dash means "no name" (dry pull). Otherwise the name is derived
// from the final path component of rawURL. Known compression and format
// suffixes are stripped before validation.
func ResolveLocalName(rawURL, explicit string, explicitGiven bool, formatSuffixes []string) (string, error) {
	if err := ValidateURL(rawURL); err != nil {
		return "", err
	}

	local := explicit
	if !explicitGiven {
		derived, err := URLLastComponent(rawURL)
		if err != nil {
			return "", err
		}
		local = derived
	}
	if local == "" || local == "-" {
		return "", nil
	}

	local = StripSuffixes(local, formatSuffixes)
	if !LocalNameIsValid(local) {
		return "", fmt.Errorf("%w: %q", ErrInvalidLocalName, local)
	}
	return local, nil
}
