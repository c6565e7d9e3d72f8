package fs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uniquest/uniquest"
	"github.com/uniquest/uniquest/fs"
)

func touch(t *testing.T, path string, data string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
}

func TestSelect(t *testing.T) {
	t.Parallel()

	t.Run("literal paths keep pdfs and skip other types", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		pdf := filepath.Join(dir, "fees.PDF")
		txt := filepath.Join(dir, "notes.txt")
		touch(t, pdf, "%PDF")
		touch(t, txt, "hi")

		sel, err := fs.Select([]string{pdf, txt})
		require.NoError(t, err)
		assert.Equal(t, []string{pdf}, sel.Files)
		require.Len(t, sel.Skipped, 1)
		assert.Equal(t, txt, sel.Skipped[0].Path)
		assert.Equal(t, "unsupported file type", sel.Skipped[0].Reason)
	})

	t.Run("recursive glob", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		touch(t, filepath.Join(dir, "a.pdf"), "")
		touch(t, filepath.Join(dir, "sub", "b.pdf"), "")
		touch(t, filepath.Join(dir, "sub", "c.docx"), "")

		sel, err := fs.Select([]string{filepath.Join(dir, "**", "*.pdf")})
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{
			filepath.Join(dir, "a.pdf"),
			filepath.Join(dir, "sub", "b.pdf"),
		}, sel.Files)
		assert.Empty(t, sel.Skipped)
	})

	t.Run("duplicates are dropped", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		p := filepath.Join(dir, "a.pdf")
		touch(t, p, "")

		sel, err := fs.Select([]string{p, filepath.Join(dir, "*.pdf")})
		require.NoError(t, err)
		assert.Equal(t, []string{p}, sel.Files)
	})

	t.Run("pattern without matches is skipped", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		sel, err := fs.Select([]string{filepath.Join(dir, "*.pdf")})
		require.NoError(t, err)
		assert.Empty(t, sel.Files)
		require.Len(t, sel.Skipped, 1)
		assert.Equal(t, "no matches", sel.Skipped[0].Reason)
	})

	t.Run("any extension", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		touch(t, filepath.Join(dir, "a.txt"), "")
		sel, err := fs.Select([]string{filepath.Join(dir, "*")}, fs.WithExtensions())
		require.NoError(t, err)
		assert.Len(t, sel.Files, 1)
	})

	t.Run("directory is skipped", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		sel, err := fs.Select([]string{dir})
		require.NoError(t, err)
		assert.Empty(t, sel.Files)
		assert.Equal(t, "is a directory", sel.Skipped[0].Reason)
	})

	t.Run("missing path", func(t *testing.T) {
		t.Parallel()
		_, err := fs.Select([]string{filepath.Join(t.TempDir(), "nope.pdf")})
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("invalid pattern", func(t *testing.T) {
		t.Parallel()
		_, err := fs.Select([]string{"[unclosed*.pdf"})
		assert.Error(t, err)
	})
}

func TestRead(t *testing.T) {
	t.Parallel()

	t.Run("loads name and contents", func(t *testing.T) {
		t.Parallel()
		p := filepath.Join(t.TempDir(), "Handbook.pdf")
		touch(t, p, "%PDF-1.4")
		f, err := fs.Read(p)
		require.NoError(t, err)
		assert.Equal(t, uniquest.File{Name: "Handbook.pdf", Data: []byte("%PDF-1.4")}, f)
	})

	t.Run("rejects oversized files", func(t *testing.T) {
		t.Parallel()
		p := filepath.Join(t.TempDir(), "big.pdf")
		fh, err := os.Create(p)
		require.NoError(t, err)
		require.NoError(t, fh.Truncate(uniquest.MaxUploadSize+1))
		require.NoError(t, fh.Close())

		_, err = fs.Read(p)
		assert.ErrorIs(t, err, uniquest.ErrFileTooLarge)
	})
}
