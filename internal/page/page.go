// Package page defines the outcomes the router can produce for a request.
package page

// Status is an HTTP response status the server can send.
type Status int

const (
	OK                  Status = 200
	Found               Status = 302
	Forbidden           Status = 403
	NotFound            Status = 404
	InternalServerError Status = 500
)

// Code returns the numeric status code.
func (s Status) Code() int { return int(s) }

// Reason returns the fixed reason phrase.
func (s Status) Reason() string {
	switch s {
	case OK:
		return "OK"
	case Found:
		return "Found"
	case Forbidden:
		return "Forbidden"
	case NotFound:
		return "Not Found"
	case InternalServerError:
		return "Internal Server Error"
	default:
		return "Unknown"
	}
}

// Page is one of File, Index, Redirect or Error. The set is closed: the
// marker method is unexported so no other package can add a case.
type Page interface {
	page()
}

// File is the contents of a regular file. MediaType is empty when none
// could be inferred.
type File struct {
	MediaType string
	Body      []byte
}

// Index is a generated listing of the directory at URI.
type Index struct {
	URI     string
	Entries []string
}

// Redirect sends the client to Target.
type Redirect struct {
	Target string
}

// Error is an error page for Status.
type Error struct {
	Status Status
}

// StatusOf returns the response status implied by p.
func StatusOf(p Page) Status {
	switch p := p.(type) {
	case File, Index:
		return OK
	case Redirect:
		return Found
	case Error:
		return p.Status
	default:
		panic("page: unknown page type")
	}
}

func (File) page()     {}
func (Index) page()    {}
func (Redirect) page() {}
func (Error) page()    {}
