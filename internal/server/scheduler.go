package server

import (
	"net"
	"sync"

	"github.com/cooperbraun13/webserver/internal/request"
)

// Job is one parsed request waiting for a worker.
type Job struct {
	Conn    net.Conn         // connection to the client, closed by the worker
	Request *request.Request // the parsed request line
	Size    int64            // size hint of the target, used by SFF
}

// Scheduler is a bounded buffer of jobs shared by the accept loop and the
// workers. A mutex guards the buffer and two condition variables put
// producers and consumers to sleep.
type Scheduler struct {
	mu       sync.Mutex
	notEmpty *sync.Cond // signals workers when jobs arrive
	notFull  *sync.Cond // signals producers when space opens up
	buf      []*Job
	capacity int
	schedAlg string // "FCFS" or "SFF"
	closed   bool
}

func NewScheduler(capacity int, schedAlg string) *Scheduler {
	s := &Scheduler{
		buf:      make([]*Job, 0, capacity),
		capacity: capacity,
		schedAlg: schedAlg,
	}
	// both condition variables share the same mutex
	s.notEmpty = sync.NewCond(&s.mu)
	s.notFull = sync.NewCond(&s.mu)
	return s
}

// Enqueue adds job, blocking while the buffer is full. It reports false
// if the scheduler was closed and the job was not queued.
func (s *Scheduler) Enqueue(job *Job) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for len(s.buf) >= s.capacity && !s.closed {
		s.notFull.Wait()
	}
	if s.closed {
		return false
	}
	s.buf = append(s.buf, job)
	s.notEmpty.Signal()
	return true
}

// Dequeue removes the next job, blocking while the buffer is empty. FCFS
// takes the oldest job; SFF takes the one with the smallest size hint and
// the oldest among equals. After Close it drains the remaining jobs and
// then returns nil.
func (s *Scheduler) Dequeue() *Job {
	s.mu.Lock()
	defer s.mu.Unlock()

	for len(s.buf) == 0 {
		if s.closed {
			return nil
		}
		s.notEmpty.Wait()
	}

	idx := 0
	if s.schedAlg == "SFF" {
		for i := 1; i < len(s.buf); i++ {
			if s.buf[i].Size < s.buf[idx].Size {
				idx = i
			}
		}
	}

	job := s.buf[idx]
	s.buf = append(s.buf[:idx], s.buf[idx+1:]...)
	s.notFull.Signal()
	return job
}

// Len returns the number of queued jobs.
func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.buf)
}

// Close wakes every blocked producer and consumer. Queued jobs are still
// handed out by Dequeue.
func (s *Scheduler) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.notEmpty.Broadcast()
	s.notFull.Broadcast()
}
