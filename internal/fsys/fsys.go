// Package fsys is the server's view of the filesystem and the resolver
// that keeps every served path inside the root directory.
package fsys

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FS is the set of filesystem calls the request pipeline makes. Paths are
// absolute paths in the host's syntax.
type FS interface {
	// Canonicalize returns the absolute, symlink-free form of path. It
	// fails if any component does not exist.
	Canonicalize(path string) (string, error)
	Stat(path string) (fs.FileInfo, error)
	ReadFile(path string) ([]byte, error)
	ReadDir(path string) ([]fs.DirEntry, error)
}

// OS is the host filesystem.
type OS struct{}

func (OS) Canonicalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}

func (OS) Stat(path string) (fs.FileInfo, error)      { return os.Stat(path) }
func (OS) ReadFile(path string) ([]byte, error)       { return os.ReadFile(path) }
func (OS) ReadDir(path string) ([]fs.DirEntry, error) { return os.ReadDir(path) }

// Resolved is a canonical path known to lie inside the root it was
// resolved against. Only Resolve creates one.
type Resolved struct {
	path string
}

// String returns the filesystem path.
func (r Resolved) String() string { return r.path }

// Resolve maps uri, a slash-separated path relative to root, onto the
// filesystem. It fails if the path does not exist or if, once symlinks and
// ".." are resolved, it is not root or below root.
func Resolve(fsys FS, root, uri string) (Resolved, bool) {
	canonRoot, err := fsys.Canonicalize(root)
	if err != nil {
		return Resolved{}, false
	}

	// no lexical cleaning here: ".." must be resolved against real
	// symlinks by Canonicalize, not textually
	joined := root
	if uri != "" {
		joined = strings.TrimRight(root, string(filepath.Separator)) +
			string(filepath.Separator) + filepath.FromSlash(uri)
	}

	path, err := fsys.Canonicalize(joined)
	if err != nil {
		return Resolved{}, false
	}
	if !Within(canonRoot, path) {
		return Resolved{}, false
	}
	return Resolved{path: path}, true
}

// Within reports whether path equals root or is a descendant of it. Both
// must be clean absolute paths.
func Within(root, path string) bool {
	if path == root {
		return true
	}
	prefix := root
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	return strings.HasPrefix(path, prefix)
}
