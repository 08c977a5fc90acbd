// Package listing builds the entry list for a directory index page.
package listing

import (
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/cooperbraun13/webserver/internal/fsys"
)

// Parent is the synthetic entry linking to the parent directory.
const Parent = "../"

// List returns the names of dir's direct children: subdirectories first,
// each suffixed with "/", then regular files. Both groups are sorted
// byte-wise. Anything else (devices, sockets, dangling links) is left out.
// When parent is set the list starts with Parent.
func List(disk fsys.FS, dir string, parent bool) ([]string, error) {
	entries, err := disk.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var dirs, files []string
	for _, e := range entries {
		mode := e.Type()
		if mode&fs.ModeSymlink != 0 {
			// classify by target; the entry stays a name, never a path
			// that is followed
			info, err := disk.Stat(filepath.Join(dir, e.Name()))
			if err != nil {
				continue
			}
			mode = info.Mode().Type()
		}

		switch {
		case mode.IsDir():
			dirs = append(dirs, e.Name()+"/")
		case mode.IsRegular():
			files = append(files, e.Name())
		}
	}
	sort.Strings(dirs)
	sort.Strings(files)

	out := make([]string, 0, len(dirs)+len(files)+1)
	if parent {
		out = append(out, Parent)
	}
	out = append(out, dirs...)
	return append(out, files...), nil
}
