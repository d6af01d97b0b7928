package platform

import (
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sys/unix"
)

// ErrQueueClosed is returned by Wait after Close.
var ErrQueueClosed = errors.New("event queue closed")

// Queue is a FIFO of events paired with a pipe, so consumers can block on a
// file descriptor the way they would on a display connection. Producers may
// run on any goroutine; Pending, NextEvent and Wait belong to one consumer.
type Queue struct {
	mu     sync.Mutex
	events []Event
	err    error
	closed bool

	// fdMu keeps wake from writing to a descriptor Close has released.
	fdMu  sync.RWMutex
	fdsOK bool
	r     int
	w     int
}

// NewQueue allocates the wake pipe.
func NewQueue() (*Queue, error) {
	var p [2]int
	if err := unix.Pipe2(p[:], unix.O_NONBLOCK|unix.O_CLOEXEC); err != nil {
		return nil, fmt.Errorf("create wake pipe: %w", err)
	}
	return &Queue{r: p[0], w: p[1], fdsOK: true}, nil
}

// Push appends ev and wakes the consumer. Events pushed after Close are
// released immediately.
func (q *Queue) Push(ev Event) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		ev.Release()
		return
	}
	q.events = append(q.events, ev)
	q.mu.Unlock()
	q.wake()
}

// Fail records a fatal producer error. The next Wait returns it.
func (q *Queue) Fail(err error) {
	q.mu.Lock()
	if q.err == nil {
		q.err = err
	}
	q.mu.Unlock()
	q.wake()
}

// Pending reports whether an event is queued.
func (q *Queue) Pending() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.events) > 0
}

// NextEvent pops the oldest event.
func (q *Queue) NextEvent() (Event, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.events) == 0 {
		return Event{}, false
	}
	ev := q.events[0]
	q.events[0] = Event{}
	q.events = q.events[1:]
	return ev, true
}

// Fd returns the read end of the wake pipe.
func (q *Queue) Fd() int {
	return q.r
}

// Interrupt wakes a blocked Wait without queueing an event.
func (q *Queue) Interrupt() {
	q.wake()
}

// Wait blocks until the pipe is readable, then drains it. It returns early
// if events are already queued, and returns the producer error recorded by
// Fail, if any.
func (q *Queue) Wait() error {
	if err := q.failure(); err != nil {
		return err
	}
	if q.Pending() {
		return nil
	}

	fds := []unix.PollFd{{Fd: int32(q.r), Events: unix.POLLIN}}
	for {
		_, err := unix.Poll(fds, -1)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return fmt.Errorf("poll: %w", err)
		}
		break
	}
	if fds[0].Revents&(unix.POLLERR|unix.POLLNVAL) != 0 {
		return fmt.Errorf("poll: descriptor error (revents=%#x)", fds[0].Revents)
	}

	q.drain()
	return q.failure()
}

// Close releases queued events and the pipe.
func (q *Queue) Close() error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true
	pending := q.events
	q.events = nil
	if q.err == nil {
		q.err = ErrQueueClosed
	}
	q.mu.Unlock()

	for _, ev := range pending {
		ev.Release()
	}
	// Wake a blocked consumer before the descriptors go away.
	q.wake()

	q.fdMu.Lock()
	defer q.fdMu.Unlock()
	q.fdsOK = false
	return errors.Join(unix.Close(q.w), unix.Close(q.r))
}

func (q *Queue) failure() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.err
}

func (q *Queue) wake() {
	q.fdMu.RLock()
	defer q.fdMu.RUnlock()
	if !q.fdsOK {
		return
	}
	// A full pipe already guarantees a wakeup; EAGAIN is fine.
	_, _ = unix.Write(q.w, []byte{1})
}

func (q *Queue) drain() {
	var buf [64]byte
	for {
		n, err := unix.Read(q.r, buf[:])
		if n <= 0 || err != nil {
			return
		}
	}
}
