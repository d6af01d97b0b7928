//go:build linux

package platform

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/1broseidon/edges/internal/geometry"
	"github.com/1broseidon/edges/internal/x11"
)

// DefaultPollInterval is how often the pointer sampler queries the server.
const DefaultPollInterval = 8 * time.Millisecond

// LinuxOptions configures a LinuxBackend.
type LinuxOptions struct {
	// Display overrides $DISPLAY when non-empty.
	Display string
	// PollInterval is the pointer sampling period.
	PollInterval time.Duration
	Logger       *slog.Logger
}

// motion is the payload behind an EventRawMotion. Instances are pooled and
// returned through Event.Release.
type motion struct {
	at geometry.Point
}

// LinuxBackend implements Backend on X11. A reader goroutine forwards
// RandR screen changes and a sampler goroutine turns pointer movement into
// raw-motion events. Both feed one Queue.
type LinuxBackend struct {
	conn     *x11.Connection
	queue    *Queue
	interval time.Duration
	logger   *slog.Logger

	pool sync.Pool

	stop      chan struct{}
	sampling  sync.WaitGroup
	reading   sync.WaitGroup
	closeOnce sync.Once
}

var _ Backend = (*LinuxBackend)(nil)

// NewLinuxBackend opens the display and starts event delivery.
func NewLinuxBackend(opts LinuxOptions) (*LinuxBackend, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	interval := opts.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	conn, err := x11.NewConnection(opts.Display)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	if err := conn.SelectScreenChanges(); err != nil {
		logger.Warn("screen change notifications unavailable", "error", err)
	}

	queue, err := NewQueue()
	if err != nil {
		conn.Close()
		return nil, err
	}

	b := &LinuxBackend{
		conn:     conn,
		queue:    queue,
		interval: interval,
		logger:   logger,
		stop:     make(chan struct{}),
	}
	b.pool.New = func() any { return new(motion) }

	b.reading.Add(1)
	b.sampling.Add(1)
	go b.readEvents()
	go b.samplePointer()
	return b, nil
}

func (b *LinuxBackend) readEvents() {
	defer b.reading.Done()
	for {
		kind, err := b.conn.WaitEvent()
		if err != nil {
			var perr *x11.ProtocolError
			if errors.As(err, &perr) {
				b.logger.Debug("x11 error event", "error", perr)
				continue
			}
			select {
			case <-b.stop:
			default:
				b.queue.Fail(err)
			}
			return
		}
		if kind == x11.KindScreenChange {
			b.queue.Push(NewEvent(EventScreenChange, nil))
		}
	}
}

func (b *LinuxBackend) samplePointer() {
	defer b.sampling.Done()

	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()

	last, haveLast := geometry.Point{}, false
	for {
		select {
		case <-b.stop:
			return
		case <-ticker.C:
		}

		p, err := b.QueryPointer()
		if err != nil {
			select {
			case <-b.stop:
			default:
				b.queue.Fail(err)
			}
			return
		}
		if haveLast && p == last {
			continue
		}
		last, haveLast = p, true

		m := b.pool.Get().(*motion)
		m.at = p
		b.queue.Push(NewEvent(EventRawMotion, func() {
			m.at = geometry.Point{}
			b.pool.Put(m)
		}))
	}
}

// Monitors returns the RandR monitor rectangles.
func (b *LinuxBackend) Monitors() ([]geometry.Rect, error) {
	mons, err := b.conn.GetMonitors()
	if err != nil {
		return nil, err
	}
	rects := make([]geometry.Rect, 0, len(mons))
	for _, m := range mons {
		rects = append(rects, geometry.Rect{X: m.X, Y: m.Y, Width: m.Width, Height: m.Height})
	}
	return rects, nil
}

// MonitorNames returns output names parallel to Monitors.
func (b *LinuxBackend) MonitorNames() ([]string, error) {
	mons, err := b.conn.GetMonitors()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(mons))
	for _, m := range mons {
		names = append(names, m.Name)
	}
	return names, nil
}

func (b *LinuxBackend) RootSize() (geometry.Size, error) {
	w, h, err := b.conn.RootSize()
	if err != nil {
		return geometry.Size{}, err
	}
	return geometry.Size{Width: w, Height: h}, nil
}

func (b *LinuxBackend) QueryPointer() (geometry.Point, error) {
	x, y, err := b.conn.QueryPointer()
	if err != nil {
		return geometry.Point{}, err
	}
	return geometry.Point{X: x, Y: y}, nil
}

func (b *LinuxBackend) Pending() bool            { return b.queue.Pending() }
func (b *LinuxBackend) NextEvent() (Event, bool) { return b.queue.NextEvent() }
func (b *LinuxBackend) Wait() error              { return b.queue.Wait() }
func (b *LinuxBackend) Fd() int                  { return b.queue.Fd() }
func (b *LinuxBackend) Interrupt()               { b.queue.Interrupt() }

// Close stops event delivery, disconnects from the server and releases
// any events still queued.
func (b *LinuxBackend) Close() error {
	b.closeOnce.Do(func() {
		close(b.stop)
		// The sampler must not have a request in flight when the
		// connection goes away.
		b.sampling.Wait()
		b.conn.Close()
		b.reading.Wait()
		b.queue.Close()
	})
	return nil
}
