// Package server runs the accept loop and the worker pool that answer
// requests.
package server

import (
	"errors"
	"io"
	"log"
	"net"
	"sync"
	"time"

	"github.com/cooperbraun13/webserver/internal/config"
	"github.com/cooperbraun13/webserver/internal/fsys"
	"github.com/cooperbraun13/webserver/internal/page"
	"github.com/cooperbraun13/webserver/internal/request"
	"github.com/cooperbraun13/webserver/internal/response"
	"github.com/cooperbraun13/webserver/internal/router"
)

// lingerTimeout bounds how long a closed-for-writing connection is drained
// so the client reads the response before the socket goes away.
const lingerTimeout = time.Second

// Server answers one GET request per connection.
type Server struct {
	cfg   *config.Config
	disk  fsys.FS
	sched *Scheduler
}

// New returns a server for a validated cfg reading files through disk.
func New(cfg *config.Config, disk fsys.FS) *Server {
	return &Server{
		cfg:   cfg,
		disk:  disk,
		sched: NewScheduler(cfg.Buffers, cfg.SchedAlg),
	}
}

// Serve accepts connections on ln until ln is closed, then waits for the
// queued requests to finish and returns nil.
func (s *Server) Serve(ln net.Listener) error {
	log.Printf("listening on %s (threads=%d, buffers=%d, sched=%s, root=%s)",
		ln.Addr(), s.cfg.Threads, s.cfg.Buffers, s.cfg.SchedAlg, s.cfg.Root)

	// start worker pool
	var wg sync.WaitGroup
	for i := 0; i < s.cfg.Threads; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			s.worker(id)
		}(i)
	}

	var admitting sync.WaitGroup
	defer func() {
		admitting.Wait()
		s.sched.Close()
		wg.Wait()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			log.Printf("accept error: %v", err)
			continue
		}

		// this goroutine parses and enqueues, then exits
		// workers do the rest
		admitting.Add(1)
		go func(c net.Conn) {
			defer admitting.Done()
			s.admit(c)
		}(conn)
	}
}

// admit reads the request line from conn and queues it. Requests that do
// not parse are dropped without a response.
func (s *Server) admit(conn net.Conn) {
	if s.cfg.ReadTimeout > 0 {
		conn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout))
	}

	req, err := request.ReadConn(conn)
	if err != nil {
		log.Printf("bad request from %s: %v", conn.RemoteAddr(), err)
		linger(conn)
		conn.Close()
		return
	}

	job := &Job{Conn: conn, Request: req, Size: s.sizeHint(req)}
	if !s.sched.Enqueue(job) {
		conn.Close()
	}
}

// sizeHint is the size of the file req names, or 0 for anything that is
// not a plain reachable file.
func (s *Server) sizeHint(req *request.Request) int64 {
	if s.cfg.LocalOnly && !req.IsLocal {
		return 0
	}
	path, ok := fsys.Resolve(s.disk, s.cfg.Root, req.URI)
	if !ok {
		return 0
	}
	info, err := s.disk.Stat(path.String())
	if err != nil || !info.Mode().IsRegular() {
		return 0
	}
	return info.Size()
}

func (s *Server) worker(id int) {
	for job := s.sched.Dequeue(); job != nil; job = s.sched.Dequeue() {
		s.handle(id, job)
	}
}

func (s *Server) handle(id int, job *Job) {
	defer job.Conn.Close()

	p := router.Select(s.disk, job.Request, s.cfg)
	if s.cfg.ReadTimeout > 0 {
		job.Conn.SetWriteDeadline(time.Now().Add(s.cfg.ReadTimeout))
	}
	if err := response.Write(job.Conn, p, s.cfg); err != nil {
		log.Printf("write error for /%s: %v", job.Request.URI, err)
		return
	}
	log.Printf("worker %d handled /%s: %d", id, job.Request.URI, page.StatusOf(p).Code())
	linger(job.Conn)
}

// linger half-closes conn and discards whatever the client still sends,
// such as the unread header block, so closing does not reset the
// connection before the response is read.
func linger(conn net.Conn) {
	tc, ok := conn.(*net.TCPConn)
	if !ok {
		return
	}
	if err := tc.CloseWrite(); err != nil {
		return
	}
	tc.SetReadDeadline(time.Now().Add(lingerTimeout))
	io.Copy(io.Discard, io.LimitReader(tc, 64<<10))
}
