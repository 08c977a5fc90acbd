// Package response serializes pages into HTTP/1.1 responses.
package response

import (
	"bytes"
	"embed"
	"fmt"
	"html"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/cooperbraun13/webserver/internal/config"
	"github.com/cooperbraun13/webserver/internal/page"
)

// HTMLType is the Content-Type of every generated page.
const HTMLType = "text/html; charset=utf-8"

//go:embed templates/*.html
var templates embed.FS

var (
	pageTmpl     = mustTemplate("page.html")
	indexTmpl    = mustTemplate("index.html")
	entryTmpl    = mustTemplate("entry.html")
	redirectTmpl = mustTemplate("redirect.html")
	errorTmpl    = mustTemplate("error.html")
)

func mustTemplate(name string) string {
	b, err := templates.ReadFile("templates/" + name)
	if err != nil {
		panic(err)
	}
	return string(b)
}

// Render replaces every {{key}} in tmpl with vars[key]. Values are
// inserted as given and never scanned for placeholders themselves.
func Render(tmpl string, vars map[string]string) string {
	pairs := make([]string, 0, 2*len(vars))
	for k, v := range vars {
		pairs = append(pairs, "{{"+k+"}}", v)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

// Build returns the complete response for p: status line, headers, blank
// line and body.
func Build(p page.Page, cfg *config.Config) []byte {
	status := page.StatusOf(p)

	var (
		mediaType string
		location  string
		body      []byte
	)
	switch p := p.(type) {
	case page.File:
		mediaType = p.MediaType
		body = p.Body
	case page.Index:
		mediaType = HTMLType
		body = indexBody(p)
	case page.Redirect:
		mediaType = HTMLType
		location = escapePath(p.Target)
		body = redirectBody(status, location)
	case page.Error:
		mediaType = HTMLType
		body = errorBody(status)
	default:
		panic(fmt.Sprintf("response: unknown page %T", p))
	}

	var b bytes.Buffer
	fmt.Fprintf(&b, "HTTP/1.1 %d %s\r\n", status.Code(), status.Reason())
	writeField(&b, "Connection", "close")
	if cfg.CrossOriginIsolation {
		writeField(&b, "Cross-Origin-Opener-Policy", "same-origin")
		writeField(&b, "Cross-Origin-Embedder-Policy", "require-corp")
	}
	if location != "" {
		writeField(&b, "Location", location)
	}
	if mediaType != "" {
		writeField(&b, "Content-Type", mediaType)
	}
	writeField(&b, "Content-Length", strconv.Itoa(len(body)))
	b.WriteString("\r\n")
	b.Write(body)
	return b.Bytes()
}

// Write sends the response for p to w in a single call.
func Write(w io.Writer, p page.Page, cfg *config.Config) error {
	_, err := w.Write(Build(p, cfg))
	return err
}

func writeField(b *bytes.Buffer, key, value string) {
	fmt.Fprintf(b, "%s: %s\r\n", key, value)
}

// escapePath percent-encodes a decoded path so that it is safe in a
// header line and as a link.
func escapePath(p string) string {
	return (&url.URL{Path: p}).EscapedPath()
}

func document(title, content string) []byte {
	return []byte(Render(pageTmpl, map[string]string{
		"title":   html.EscapeString(title),
		"content": content,
	}))
}

func indexBody(p page.Index) []byte {
	dir := "/"
	if p.URI != "" {
		dir = "/" + p.URI + "/"
	}

	var entries strings.Builder
	for _, name := range p.Entries {
		// "./" keeps a name like "a:b" from reading as a URL scheme
		href := "./" + url.PathEscape(strings.TrimSuffix(name, "/"))
		if name == "../" {
			href = "../"
		} else if strings.HasSuffix(name, "/") {
			href += "/"
		}
		entries.WriteString(Render(entryTmpl, map[string]string{
			"href": html.EscapeString(href),
			"name": html.EscapeString(name),
		}))
	}

	content := Render(indexTmpl, map[string]string{
		"url":     html.EscapeString(dir),
		"entries": entries.String(),
	})
	return document("Index of "+dir, content)
}

func redirectBody(status page.Status, target string) []byte {
	content := Render(redirectTmpl, map[string]string{
		"code":   strconv.Itoa(status.Code()),
		"reason": html.EscapeString(status.Reason()),
		"url":    html.EscapeString(target),
	})
	return document(fmt.Sprintf("%d %s", status.Code(), status.Reason()), content)
}

func errorBody(status page.Status) []byte {
	content := Render(errorTmpl, map[string]string{
		"code":   strconv.Itoa(status.Code()),
		"reason": html.EscapeString(status.Reason()),
	})
	return document(fmt.Sprintf("%d %s", status.Code(), status.Reason()), content)
}
