// Package router decides which page answers a request.
package router

import (
	"log"
	"mime"
	"path/filepath"

	"github.com/cooperbraun13/webserver/internal/config"
	"github.com/cooperbraun13/webserver/internal/fsys"
	"github.com/cooperbraun13/webserver/internal/listing"
	"github.com/cooperbraun13/webserver/internal/page"
	"github.com/cooperbraun13/webserver/internal/request"
)

// IndexFile is served in place of a directory that contains it.
const IndexFile = "index.html"

// Select returns the page for req. It never fails: every problem becomes
// an error page.
func Select(disk fsys.FS, req *request.Request, cfg *config.Config) page.Page {
	// non-local peers never touch the filesystem
	if cfg.LocalOnly && !req.IsLocal {
		return page.Error{Status: page.Forbidden}
	}

	path, ok := fsys.Resolve(disk, cfg.Root, req.URI)
	if !ok {
		return page.Error{Status: page.NotFound}
	}

	info, err := disk.Stat(path.String())
	if err != nil {
		return page.Error{Status: page.NotFound}
	}

	if info.IsDir() {
		// the client must ask for the slash form before it sees any
		// directory content, or its relative links break
		if !req.Dir {
			return page.Redirect{Target: "/" + req.URI + "/"}
		}

		// index.html may itself be a link, so it is resolved like any
		// other path
		if index, ok := fsys.Resolve(disk, cfg.Root, joinURI(req.URI, IndexFile)); ok {
			if info, err := disk.Stat(index.String()); err == nil && info.Mode().IsRegular() {
				return serveFile(disk, index.String())
			}
		}

		if !cfg.DirectoryIndex {
			return page.Error{Status: page.NotFound}
		}
		entries, err := listing.List(disk, path.String(), req.URI != "")
		if err != nil {
			log.Printf("list error for %s: %v", path, err)
			return page.Error{Status: page.InternalServerError}
		}
		return page.Index{URI: req.URI, Entries: entries}
	}

	// trailing slash means directory, a file cannot satisfy it
	if req.Dir {
		return page.Error{Status: page.NotFound}
	}
	return serveFile(disk, path.String())
}

func joinURI(dir, name string) string {
	if dir == "" {
		return name
	}
	return dir + "/" + name
}

func serveFile(disk fsys.FS, path string) page.Page {
	body, err := disk.ReadFile(path)
	if err != nil {
		log.Printf("read error for %s: %v", path, err)
		return page.Error{Status: page.InternalServerError}
	}
	return page.File{MediaType: MediaType(path), Body: body}
}

// MediaType infers a Content-Type from name's extension. It returns ""
// when the extension is unknown.
func MediaType(name string) string {
	return mime.TypeByExtension(filepath.Ext(name))
}
