package pull

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateURL(t *testing.T) {
	for _, url := range []string{
		"http://example.com/foo.tar",
		"https://example.com/images/foo.raw.xz",
	} {
		assert.NoError(t, ValidateURL(url), url)
	}
	for _, url := range []string{
		"",
		"ftp://example.com/foo.tar",
		"file:///etc/passwd",
		"example.com/foo.tar",
		"https://",
		"://bad",
	} {
		assert.ErrorIs(t, ValidateURL(url), ErrInvalidURL, url)
	}
}

func TestURLLastComponent(t *testing.T) {
	last, err := URLLastComponent("https://example.com/images/foo.tar.xz")
	require.NoError(t, err)
	assert.Equal(t, "foo.tar.xz", last)

	last, err = URLLastComponent("https://example.com/images/foo/")
	require.NoError(t, err)
	assert.Equal(t, "foo", last)

	for _, url := range []string{
		"https://example.com",
		"https://example.com/",
		"https://example.com///",
	} {
		_, err := URLLastComponent(url)
		assert.ErrorIs(t, err, ErrNameDerivationFailed, url)
	}
}

func TestStripSuffixes(t *testing.T) {
	tarSuffixes := []string{".tar", ".tgz"}
	rawSuffixes := []string{".raw", ".img", ".qcow2"}

	assert.Equal(t, "foo", StripSuffixes("foo.tar.xz", tarSuffixes))
	assert.Equal(t, "foo", StripSuffixes("foo.tar.gz", tarSuffixes))
	assert.Equal(t, "foo", StripSuffixes("foo.tgz", tarSuffixes))
	assert.Equal(t, "foo", StripSuffixes("foo.tar", tarSuffixes))
	assert.Equal(t, "foo", StripSuffixes("foo", tarSuffixes))
	assert.Equal(t, "foo", StripSuffixes("foo.raw.zst", rawSuffixes))
	assert.Equal(t, "foo", StripSuffixes("foo.qcow2", rawSuffixes))
	// Only one suffix of each class is stripped.
	assert.Equal(t, "foo.tar", StripSuffixes("foo.tar.tar", tarSuffixes))
}

func TestHasCompressionSuffix(t *testing.T) {
	for _, name := range []string{"foo.tar.xz", "foo.tar.gz", "foo.raw.bz2", "foo.raw.zst"} {
		assert.True(t, HasCompressionSuffix(name), name)
	}
	for _, name := range []string{"foo.tar", "foo.raw", "foo", "foo.gz.tar"} {
		assert.False(t, HasCompressionSuffix(name), name)
	}
}

func TestLocalNameIsValid(t *testing.T) {
	for _, name := range []string{
		"foo",
		"my.image-1",
		"Fedora_41",
		"a",
		strings.Repeat("x", 64),
	} {
		assert.True(t, LocalNameIsValid(name), name)
	}
	for _, name := range []string{
		"",
		".",
		"..",
		"-bad",
		"bad-",
		".hidden",
		"has space",
		"has/slash",
		strings.Repeat("x", 65),
	} {
		assert.False(t, LocalNameIsValid(name), name)
	}
}

func TestResolveLocalName(t *testing.T) {
	tarSuffixes := []string{".tar", ".tgz"}

	t.Run("derived from URL with suffix stripped", func(t *testing.T) {
		name, err := ResolveLocalName("https://example.com/images/foo.tar.xz", "", false, tarSuffixes)
		require.NoError(t, err)
		assert.Equal(t, "foo", name)
	})

	t.Run("explicit name wins", func(t *testing.T) {
		name, err := ResolveLocalName("https://example.com/images/foo.tar.xz", "bar.tar", true, tarSuffixes)
		require.NoError(t, err)
		assert.Equal(t, "bar", name)
	})

	t.Run("dash means no name", func(t *testing.T) {
		name, err := ResolveLocalName("https://example.com/x.raw", "-", true, []string{".raw"})
		require.NoError(t, err)
		assert.Equal(t, "", name)
	})

	t.Run("empty explicit name means no name", func(t *testing.T) {
		name, err := ResolveLocalName("https://example.com/x.raw", "", true, []string{".raw"})
		require.NoError(t, err)
		assert.Equal(t, "", name)
	})

	t.Run("invalid URL", func(t *testing.T) {
		_, err := ResolveLocalName("ftp://example.com/foo.tar", "", false, tarSuffixes)
		assert.ErrorIs(t, err, ErrInvalidURL)
	})

	t.Run("no usable trailing component", func(t *testing.T) {
		_, err := ResolveLocalName("https://example.com/", "", false, tarSuffixes)
		assert.ErrorIs(t, err, ErrNameDerivationFailed)
	})

	t.Run("invalid explicit name", func(t *testing.T) {
		_, err := ResolveLocalName("https://example.com/foo.tar", "-bad", true, tarSuffixes)
		assert.ErrorIs(t, err, ErrInvalidLocalName)
	})
}
