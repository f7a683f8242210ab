// Package convert implements the PNG to JPEG batch pipeline: input discovery,
// the batch size cap, output path derivation, per-file conversion and the
// batch runner that aggregates outcomes and reports progress.
package convert

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// PathKind discriminates candidate paths
type PathKind int

const (
	KindFile PathKind = iota
	KindDirectory
)

func (k PathKind) String() string {
	if k == KindDirectory {
		return "directory"
	}
	return "file"
}

// CandidatePath is a path supplied by the caller, not yet validated as an image
type CandidatePath struct {
	Path string
	Kind PathKind
}

// ConvertibleFile is an input that passed the PNG extension check.
// Only Expand produces these.
type ConvertibleFile struct {
	Path string
}

// NewCandidate makes path absolute and classifies it by following symlinks.
// A path that cannot be stat'ed is classified as a file so that it still
// goes through the extension check and, if accepted, fails at decode time.
func NewCandidate(path string) CandidatePath {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = filepath.Clean(path)
	}

	kind := KindFile
	if info, err := os.Stat(abs); err == nil && info.IsDir() {
		kind = KindDirectory
	}
	return CandidatePath{Path: abs, Kind: kind}
}

// IsConvertible reports whether path has a png extension, ignoring case.
func IsConvertible(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".png")
}

// IsHidden reports whether a directory entry name is hidden.
func IsHidden(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}

// Expand turns candidates into convertible files.
//
// File candidates are kept iff their extension is png. Directory candidates
// are scanned recursively in lexical order, skipping hidden entries and
// visiting each real directory at most once so symlink cycles terminate.
// A file reached more than once is emitted at its first occurrence only.
func Expand(paths []CandidatePath) ([]ConvertibleFile, error) {
	e := &expander{
		visited: make(map[string]bool),
		seen:    make(map[string]bool),
	}

	for _, c := range paths {
		switch c.Kind {
		case KindDirectory:
			if err := e.walkDir(c.Path); err != nil {
				if errors.Is(err, fs.ErrNotExist) {
					continue
				}
				return nil, fmt.Errorf("scan %s: %w", c.Path, err)
			}
		default:
			if IsConvertible(c.Path) {
				e.add(c.Path)
			}
		}
	}
	return e.files, nil
}

type expander struct {
	visited map[string]bool // canonical directory paths already scanned
	seen    map[string]bool // canonical file paths already emitted
	files   []ConvertibleFile
}

func (e *expander) add(path string) {
	key := canonical(path)
	if e.seen[key] {
		return
	}
	e.seen[key] = true
	e.files = append(e.files, ConvertibleFile{Path: path})
}

func (e *expander) walkDir(dir string) error {
	resolved, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return err
	}
	if e.visited[resolved] {
		return nil
	}
	e.visited[resolved] = true

	// os.ReadDir returns entries sorted by name
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if IsHidden(entry.Name()) {
			continue
		}
		path := filepath.Join(dir, entry.Name())

		mode := entry.Type()
		if mode&fs.ModeSymlink != 0 {
			info, err := os.Stat(path)
			if err != nil {
				continue // dangling link
			}
			mode = info.Mode().Type()
		}

		switch {
		case mode.IsDir():
			// Unreadable subdirectories are skipped, not fatal
			_ = e.walkDir(path)
		case mode.IsRegular() && IsConvertible(path):
			e.add(path)
		}
	}
	return nil
}

func canonical(path string) string {
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		return resolved
	}
	return filepath.Clean(path)
}
