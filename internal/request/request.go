// Package request reads and normalizes the request line of an HTTP GET.
package request

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"unicode/utf8"
)

// MaxLineSize bounds how many bytes are read while looking for the end of
// the request line.
const MaxLineSize = 8192

var (
	ErrMalformedRequest  = errors.New("malformed request")
	ErrUnsupportedMethod = errors.New("unsupported method")
)

// Request is one parsed GET request.
type Request struct {
	URI     string // decoded, query stripped, without leading or trailing "/"
	Dir     bool   // target ended in "/" or named the root
	IsLocal bool   // peer is a loopback address
}

// Read returns the first line of r without its terminator. At most
// MaxLineSize bytes are consumed.
func Read(r io.Reader) (string, error) {
	reader := bufio.NewReader(io.LimitReader(r, MaxLineSize))
	line, err := reader.ReadString('\n')
	if err != nil {
		if err != io.EOF || line == "" {
			return "", fmt.Errorf("%w: failed to read request line: %v", ErrMalformedRequest, err)
		}
		if len(line) >= MaxLineSize {
			return "", fmt.Errorf("%w: request line exceeds %d bytes", ErrMalformedRequest, MaxLineSize)
		}
	}
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	return line, nil
}

// Parse turns a request line such as "GET /docs/ HTTP/1.1" into a Request.
func Parse(line string, isLocal bool) (*Request, error) {
	// split into [method, URI, version]
	parts := strings.Fields(line)
	if len(parts) != 3 {
		return nil, fmt.Errorf("%w: %q", ErrMalformedRequest, line)
	}
	method, target, version := parts[0], parts[1], parts[2]

	if method != "GET" {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedMethod, method)
	}
	if !strings.HasPrefix(version, "HTTP/") {
		return nil, fmt.Errorf("%w: bad version %q", ErrMalformedRequest, version)
	}

	uri, dir := Normalize(target)
	return &Request{URI: uri, Dir: dir, IsLocal: isLocal}, nil
}

// Normalize decodes a request target and reduces it to a slash-trimmed
// relative path. dir reports whether the path names a directory form,
// that is it ended in "/" or is empty.
func Normalize(target string) (uri string, dir bool) {
	uri = Decode(target)
	if i := strings.IndexAny(uri, "?#&"); i >= 0 {
		uri = uri[:i]
	}
	uri = strings.ReplaceAll(uri, `\`, "/")
	dir = strings.HasSuffix(uri, "/")
	uri = strings.Trim(uri, "/")
	return uri, dir || uri == ""
}

// Decode percent-decodes s. Malformed escapes are kept as they are and
// bytes that do not form valid UTF-8 become U+FFFD.
func Decode(s string) string {
	if !strings.Contains(s, "%") {
		return strings.ToValidUTF8(s, string(utf8.RuneError))
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '%' && i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]) {
			b.WriteByte(unhex(s[i+1])<<4 | unhex(s[i+2]))
			i += 2
			continue
		}
		b.WriteByte(s[i])
	}
	return strings.ToValidUTF8(b.String(), string(utf8.RuneError))
}

func isHex(c byte) bool {
	return '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}

func unhex(c byte) byte {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}

// IsLoopback reports whether addr is a loopback address. Anything that
// cannot be interpreted as an IP address is treated as remote.
func IsLoopback(addr net.Addr) bool {
	if addr == nil {
		return false
	}
	var ip net.IP
	switch a := addr.(type) {
	case *net.TCPAddr:
		ip = a.IP
	case *net.UDPAddr:
		ip = a.IP
	case *net.IPAddr:
		ip = a.IP
	default:
		host, _, err := net.SplitHostPort(addr.String())
		if err != nil {
			return false
		}
		ip = net.ParseIP(host)
	}
	return ip != nil && ip.IsLoopback()
}

// ReadConn reads and parses the request line sent on conn.
func ReadConn(conn net.Conn) (*Request, error) {
	line, err := Read(conn)
	if err != nil {
		return nil, err
	}
	return Parse(line, IsLoopback(conn.RemoteAddr()))
}
