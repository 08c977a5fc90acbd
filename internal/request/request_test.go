package request

import (
	"errors"
	"net"
	"strings"
	"testing"
)

func expectEqual(t *testing.T, expect, actual string) {
	t.Helper()
	if expect != actual {
		t.Errorf("Got %q, want %q", actual, expect)
	}
}

func TestRead(t *testing.T) {
	line, err := Read(strings.NewReader("GET / HTTP/1.1\r\nHost: localhost\r\n\r\n"))
	if err != nil {
		t.Fatal(err)
	}
	expectEqual(t, "GET / HTTP/1.1", line)

	// a client that half-closes after the line without a terminator
	line, err = Read(strings.NewReader("GET /a HTTP/1.0"))
	if err != nil {
		t.Fatal(err)
	}
	expectEqual(t, "GET /a HTTP/1.0", line)
}

func TestReadLimits(t *testing.T) {
	long := "GET /" + strings.Repeat("a", MaxLineSize) + " HTTP/1.1\r\n"
	if _, err := Read(strings.NewReader(long)); !errors.Is(err, ErrMalformedRequest) {
		t.Errorf("long line: err = %v, want ErrMalformedRequest", err)
	}
	if _, err := Read(strings.NewReader("")); !errors.Is(err, ErrMalformedRequest) {
		t.Errorf("empty stream: err = %v, want ErrMalformedRequest", err)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		line string
		uri  string
		dir  bool
	}{
		{"GET / HTTP/1.1", "", true},
		{"GET /index.html HTTP/1.1", "index.html", false},
		{"GET /docs HTTP/1.1", "docs", false},
		{"GET /docs/ HTTP/1.1", "docs", true},
		{"GET //a//b// HTTP/1.0", "a//b", true},
		{"GET /a%20b.txt HTTP/1.1", "a b.txt", false},
		{"GET /search?q=1 HTTP/1.1", "search", false},
		{"GET /dir/?q=1 HTTP/1.1", "dir", true},
		{"GET /page#top HTTP/1.1", "page", false},
		{"GET /a&b HTTP/1.1", "a", false},
		{"GET /what%3Fnot HTTP/1.1", "what", false},
		{`GET /a\b\ HTTP/1.1`, "a/b", true},
		{"GET /%2e%2e/%2e%2e/etc/passwd HTTP/1.1", "../../etc/passwd", false},
		{"GET /%zz%4 HTTP/1.1", "%zz%4", false},
		{"GET /%ff HTTP/1.1", "\uFFFD", false},
		{"GET /caf%C3%A9 HTTP/1.1", "café", false},
		{"  GET\t/x   HTTP/1.1  ", "x", false},
	}
	for _, tt := range tests {
		req, err := Parse(tt.line, true)
		if err != nil {
			t.Errorf("Parse(%q): %v", tt.line, err)
			continue
		}
		expectEqual(t, tt.uri, req.URI)
		if req.Dir != tt.dir {
			t.Errorf("Parse(%q).Dir = %v, want %v", tt.line, req.Dir, tt.dir)
		}
		if !req.IsLocal {
			t.Errorf("Parse(%q).IsLocal = false", tt.line)
		}
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		line string
		err  error
	}{
		{"BADLINE", ErrMalformedRequest},
		{"GET /", ErrMalformedRequest},
		{"GET / HTTP/1.1 extra", ErrMalformedRequest},
		{"", ErrMalformedRequest},
		{"GET / FTP/1.0", ErrMalformedRequest},
		{"get / HTTP/1.1", ErrUnsupportedMethod},
		{"POST / HTTP/1.1", ErrUnsupportedMethod},
		{"HEAD / HTTP/1.1", ErrUnsupportedMethod},
	}
	for _, tt := range tests {
		_, err := Parse(tt.line, true)
		if !errors.Is(err, tt.err) {
			t.Errorf("Parse(%q) err = %v, want %v", tt.line, err, tt.err)
		}
	}
}

func TestDecodeIdempotent(t *testing.T) {
	targets := []string{
		"/a%20b",
		"/%3C%3E%22%27",
		"/%2Fetc%2Fpasswd",
		"/%E6%97%A5%E6%9C%AC",
		"/plain",
	}
	for _, target := range targets {
		once := Decode(target)
		expectEqual(t, once, Decode(once))
	}
}

func TestIsLoopback(t *testing.T) {
	tests := []struct {
		addr net.Addr
		want bool
	}{
		{&net.TCPAddr{IP: net.ParseIP("127.0.0.1"), Port: 1}, true},
		{&net.TCPAddr{IP: net.ParseIP("127.8.9.10"), Port: 1}, true},
		{&net.TCPAddr{IP: net.ParseIP("::1"), Port: 1}, true},
		{&net.TCPAddr{IP: net.ParseIP("::ffff:127.0.0.1"), Port: 1}, true},
		{&net.TCPAddr{IP: net.ParseIP("192.168.1.2"), Port: 1}, false},
		{&net.TCPAddr{IP: net.ParseIP("::2"), Port: 1}, false},
		{&net.UnixAddr{Name: "/tmp/sock", Net: "unix"}, false},
		{nil, false},
	}
	for _, tt := range tests {
		if got := IsLoopback(tt.addr); got != tt.want {
			t.Errorf("IsLoopback(%v) = %v, want %v", tt.addr, got, tt.want)
		}
	}
}

func TestReadConn(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	go client.Write([]byte("GET /docs/ HTTP/1.1\r\nHost: x\r\n\r\n"))

	req, err := ReadConn(server)
	if err != nil {
		t.Fatal(err)
	}
	expectEqual(t, "docs", req.URI)
	if !req.Dir {
		t.Error("Dir = false, want true")
	}
	// pipe addresses are not IP addresses
	if req.IsLocal {
		t.Error("IsLocal = true for pipe peer")
	}
}
