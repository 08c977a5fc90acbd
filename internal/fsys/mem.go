package fsys

import (
	"errors"
	"io/fs"
	"path"
	"strings"
	"testing/fstest"
)

var errSymlinkLoop = errors.New("too many levels of symbolic links")

// Mem is an in-memory FS for tests. Keys are slash paths without the
// leading "/", so "srv/index.html" is served as "/srv/index.html". A file
// whose mode has fs.ModeSymlink set is a symlink to the path in its Data.
type Mem struct {
	Files fstest.MapFS
}

func key(name string) string {
	k := strings.TrimPrefix(name, "/")
	if k == "" {
		return "."
	}
	return k
}

func (m Mem) Canonicalize(name string) (string, error) {
	return m.canonicalize(name, 0)
}

func (m Mem) canonicalize(name string, links int) (string, error) {
	if links > 40 {
		return "", &fs.PathError{Op: "canonicalize", Path: name, Err: errSymlinkLoop}
	}
	if !path.IsAbs(name) {
		return "", &fs.PathError{Op: "canonicalize", Path: name, Err: fs.ErrInvalid}
	}

	resolved := "/"
	parts := strings.Split(name, "/")
	for i, part := range parts {
		switch part {
		case "", ".":
			continue
		case "..":
			resolved = path.Dir(resolved)
			continue
		}

		next := path.Join(resolved, part)
		if f, ok := m.Files[key(next)]; ok && f.Mode&fs.ModeSymlink != 0 {
			target := string(f.Data)
			if !path.IsAbs(target) {
				target = resolved + "/" + target
			}
			rest := strings.Join(parts[i+1:], "/")
			return m.canonicalize(target+"/"+rest, links+1)
		}

		info, err := fs.Stat(m.Files, key(next))
		if err != nil {
			return "", &fs.PathError{Op: "canonicalize", Path: name, Err: fs.ErrNotExist}
		}
		if !info.IsDir() && strings.Join(parts[i+1:], "") != "" {
			return "", &fs.PathError{Op: "canonicalize", Path: name, Err: fs.ErrInvalid}
		}
		resolved = next
	}
	return resolved, nil
}

func (m Mem) Stat(name string) (fs.FileInfo, error) {
	canon, err := m.Canonicalize(name)
	if err != nil {
		return nil, err
	}
	return fs.Stat(m.Files, key(canon))
}

func (m Mem) ReadFile(name string) ([]byte, error) {
	canon, err := m.Canonicalize(name)
	if err != nil {
		return nil, err
	}
	return fs.ReadFile(m.Files, key(canon))
}

func (m Mem) ReadDir(name string) ([]fs.DirEntry, error) {
	canon, err := m.Canonicalize(name)
	if err != nil {
		return nil, err
	}
	return fs.ReadDir(m.Files, key(canon))
}
