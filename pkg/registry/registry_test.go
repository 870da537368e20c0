package registry

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirectory_FindNotFound(t *testing.T) {
	d := NewDirectory(t.TempDir())

	_, err := d.Find("missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestDirectory_CommitAndFindRaw(t *testing.T) {
	root := t.TempDir()
	d := NewDirectory(root)

	src := filepath.Join(root, ".machinepull", "tmp", "image.raw")
	require.NoError(t, os.MkdirAll(filepath.Dir(src), 0o755))
	require.NoError(t, os.WriteFile(src, []byte("diskdata"), 0o644))

	meta := Metadata{URL: "https://example.com/images/foo.raw", PulledAt: time.Now()}
	require.NoError(t, d.Commit("foo", TypeRaw, src, false, meta))

	img, err := d.Find("foo")
	require.NoError(t, err)
	assert.Equal(t, TypeRaw, img.Type)
	assert.Equal(t, filepath.Join(root, "foo.raw"), img.Path)
	assert.Equal(t, int64(8), img.Size)
	assert.Equal(t, "https://example.com/images/foo.raw", img.URL)

	t.Run("recommit without force fails", func(t *testing.T) {
		src2 := filepath.Join(root, ".machinepull", "tmp", "image2.raw")
		require.NoError(t, os.WriteFile(src2, []byte("other"), 0o644))
		err := d.Commit("foo", TypeRaw, src2, false, meta)
		assert.ErrorIs(t, err, ErrExists)
	})

	t.Run("recommit with force replaces", func(t *testing.T) {
		src3 := filepath.Join(root, ".machinepull", "tmp", "image3.raw")
		require.NoError(t, os.WriteFile(src3, []byte("replaced"), 0o644))
		require.NoError(t, d.Commit("foo", TypeRaw, src3, true, meta))
		content, err := os.ReadFile(filepath.Join(root, "foo.raw"))
		require.NoError(t, err)
		assert.Equal(t, "replaced", string(content))
	})
}

func TestDirectory_CommitAndFindTar(t *testing.T) {
	root := t.TempDir()
	d := NewDirectory(root)

	src := filepath.Join(root, ".machinepull", "tmp", "rootfs")
	require.NoError(t, os.MkdirAll(src, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "hello.txt"), []byte("hi"), 0o644))

	require.NoError(t, d.Commit("bar", TypeTar, src, false, Metadata{URL: "https://example.com/bar.tar.gz"}))

	img, err := d.Find("bar")
	require.NoError(t, err)
	assert.Equal(t, TypeTar, img.Type)
	assert.FileExists(t, filepath.Join(root, "bar", "hello.txt"))
}

func TestDirectory_List(t *testing.T) {
	root := t.TempDir()
	d := NewDirectory(root)

	images, err := d.List()
	require.NoError(t, err)
	assert.Empty(t, images)

	require.NoError(t, os.MkdirAll(filepath.Join(root, "tarimg"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "tarimg", "f"), []byte("xyz"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "rawimg.raw"), []byte("1234"), 0o644))
	// Hidden bookkeeping and unrelated files are not images.
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".machinepull"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("x"), 0o644))

	images, err = d.List()
	require.NoError(t, err)
	require.Len(t, images, 2)
	assert.Equal(t, "rawimg", images[0].Name)
	assert.Equal(t, TypeRaw, images[0].Type)
	assert.Equal(t, int64(4), images[0].Size)
	assert.Equal(t, "tarimg", images[1].Name)
	assert.Equal(t, TypeTar, images[1].Type)
	assert.Equal(t, int64(3), images[1].Size)
}

func TestDirectory_ListMissingRoot(t *testing.T) {
	d := NewDirectory(filepath.Join(t.TempDir(), "does-not-exist"))
	images, err := d.List()
	require.NoError(t, err)
	assert.Empty(t, images)
}
