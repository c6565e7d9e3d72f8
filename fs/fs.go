// Package fs selects and loads documents from the local filesystem for
// upload. Arguments may be plain paths or doublestar glob patterns.
package fs

import (
	"fmt"
	iofs "io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/uniquest/uniquest"
)

// DefaultExtensions are the file types the ingestion service accepts.
var DefaultExtensions = []string{".pdf"}

// Skipped is an argument or file that was left out of a selection.
type Skipped struct {
	Path   string
	Reason string
}

// Selection is the outcome of expanding upload arguments.
type Selection struct {
	Files   []string
	Skipped []Skipped
}

type selector struct {
	extensions []string
}

// Option configures [Select].
type Option func(*selector)

// WithExtensions restricts the selection to files with one of exts,
// compared case-insensitively. No extensions means any file.
func WithExtensions(exts ...string) Option {
	return func(s *selector) { s.extensions = exts }
}

// Select expands args into a de-duplicated list of files, in argument
// order. Patterns that match nothing and files of the wrong type are
// reported in Skipped. A missing literal path or a malformed pattern is an
// error.
func Select(args []string, opts ...Option) (*Selection, error) {
	s := &selector{extensions: DefaultExtensions}
	for _, o := range opts {
		o(s)
	}

	sel := &Selection{}
	seen := make(map[string]bool)
	add := func(path string) {
		if seen[path] {
			return
		}
		seen[path] = true
		if !s.accepts(path) {
			sel.Skipped = append(sel.Skipped, Skipped{Path: path, Reason: "unsupported file type"})
			return
		}
		sel.Files = append(sel.Files, path)
	}

	for _, arg := range args {
		if !hasMeta(arg) {
			info, err := os.Stat(arg)
			if err != nil {
				return nil, fmt.Errorf("fs: %w", err)
			}
			if info.IsDir() {
				sel.Skipped = append(sel.Skipped, Skipped{Path: arg, Reason: "is a directory"})
				continue
			}
			add(filepath.Clean(arg))
			continue
		}

		matches, err := glob(arg)
		if err != nil {
			return nil, err
		}
		if len(matches) == 0 {
			sel.Skipped = append(sel.Skipped, Skipped{Path: arg, Reason: "no matches"})
			continue
		}
		for _, m := range matches {
			add(m)
		}
	}
	return sel, nil
}

func (s *selector) accepts(path string) bool {
	if len(s.extensions) == 0 {
		return true
	}
	ext := filepath.Ext(path)
	return slices.ContainsFunc(s.extensions, func(e string) bool {
		return strings.EqualFold(e, ext)
	})
}

func hasMeta(p string) bool {
	return strings.ContainsAny(p, "*?[{")
}

// glob walks the static prefix of pattern and returns matching regular
// files as OS paths.
func glob(pattern string) ([]string, error) {
	slashed := filepath.ToSlash(pattern)
	if !doublestar.ValidatePattern(slashed) {
		return nil, fmt.Errorf("fs: invalid glob pattern: %s", pattern)
	}
	base, rest := doublestar.SplitPattern(slashed)

	var matches []string
	err := doublestar.GlobWalk(os.DirFS(filepath.FromSlash(base)), rest, func(path string, d iofs.DirEntry) error {
		if d.IsDir() {
			return nil
		}
		matches = append(matches, filepath.Join(filepath.FromSlash(base), filepath.FromSlash(path)))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("fs: %w", err)
	}
	return matches, nil
}

// Read loads path as an upload. Files over [uniquest.MaxUploadSize] are
// rejected before they are read.
func Read(path string) (uniquest.File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return uniquest.File{}, fmt.Errorf("fs: %w", err)
	}
	if info.Size() > uniquest.MaxUploadSize {
		return uniquest.File{}, fmt.Errorf("fs: %s is %d bytes: %w", path, info.Size(), uniquest.ErrFileTooLarge)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return uniquest.File{}, fmt.Errorf("fs: %w", err)
	}
	return uniquest.File{Name: filepath.Base(path), Data: data}, nil
}
