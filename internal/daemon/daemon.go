// Package daemon runs the pointer event loop: it drains motion events,
// resolves the active monitor, feeds samples through the tracker and hands
// confirmed edge hits to the dispatcher.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/1broseidon/edges/internal/action"
	"github.com/1broseidon/edges/internal/edge"
	"github.com/1broseidon/edges/internal/geometry"
	"github.com/1broseidon/edges/internal/platform"
	"github.com/1broseidon/edges/internal/tracker"
)

// MaxDelay is the upper bound on the confirmation delay.
const MaxDelay = time.Second

// Settings are the tunables that may change while the loop runs.
type Settings struct {
	// Delay is how long a hit must hold before it dispatches.
	Delay time.Duration
	// DeadZoneRatio sizes the corner dead zone along each edge.
	DeadZoneRatio float64
}

func (s Settings) normalized() Settings {
	if s.Delay < 0 {
		s.Delay = 0
	}
	if s.Delay > MaxDelay {
		s.Delay = MaxDelay
	}
	if s.DeadZoneRatio < 0 || s.DeadZoneRatio >= 0.5 {
		s.DeadZoneRatio = edge.DefaultDeadZoneRatio
	}
	return s
}

// Config holds what New needs to build a Daemon.
type Config struct {
	Backend    platform.Backend
	Dispatcher *action.Dispatcher
	Settings   Settings
	Logger     *slog.Logger

	// OnLaunchError, if set, is called after a command fails to start.
	OnLaunchError func(zone edge.Zone, err error)
}

// Daemon owns the event loop. Run must be called from a single goroutine;
// Stop, Status, Monitors, Apply and Trigger are safe from any goroutine.
type Daemon struct {
	backend       platform.Backend
	dispatcher    *action.Dispatcher
	logger        *slog.Logger
	onLaunchError func(edge.Zone, error)

	settings atomic.Pointer[Settings]
	tracker  *tracker.Tracker
	monitors []geometry.Rect

	stopped  atomic.Bool
	done     chan struct{}
	stopOnce sync.Once

	dispatches atomic.Uint64
	startedAt  time.Time
	status     atomic.Pointer[Status]
}

// New enumerates monitors and prepares the loop. A display with no
// monitors is an error.
func New(cfg Config) (*Daemon, error) {
	if cfg.Backend == nil {
		return nil, errors.New("daemon: backend is required")
	}
	if cfg.Dispatcher == nil {
		return nil, errors.New("daemon: dispatcher is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	monitors, err := cfg.Backend.Monitors()
	if err != nil {
		return nil, fmt.Errorf("enumerate monitors: %w", err)
	}
	if len(monitors) == 0 {
		return nil, geometry.ErrNoMonitors
	}

	d := &Daemon{
		backend:       cfg.Backend,
		dispatcher:    cfg.Dispatcher,
		logger:        logger,
		onLaunchError: cfg.OnLaunchError,
		tracker:       tracker.New(),
		monitors:      monitors,
		done:          make(chan struct{}),
		startedAt:     time.Now(),
	}
	d.Apply(cfg.Settings)
	d.publish(edge.None)
	return d, nil
}

// Apply replaces the loop settings. Out-of-range values are clamped.
func (d *Daemon) Apply(s Settings) {
	s = s.normalized()
	d.settings.Store(&s)
}

// Settings returns the settings in effect.
func (d *Daemon) Settings() Settings {
	return *d.settings.Load()
}

// Stop asks Run to return. It wakes a blocked wait and cuts short a
// pending confirmation delay.
func (d *Daemon) Stop() {
	d.stopped.Store(true)
	d.stopOnce.Do(func() { close(d.done) })
	d.backend.Interrupt()
}

// Run processes events until Stop is called or ctx is done. It returns nil
// on a requested stop and an error when the display connection fails or
// the pointer is found outside every monitor.
func (d *Daemon) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-ctx.Done():
			d.Stop()
		case <-d.done:
		}
	}()

	d.logger.Info("event loop started", "monitors", len(d.monitors), "delay", d.Settings().Delay)
	defer d.logger.Info("event loop stopped")

	for !d.stopped.Load() {
		for d.backend.Pending() {
			ev, ok := d.backend.NextEvent()
			if !ok {
				break
			}
			if err := d.handle(ctx, ev); err != nil {
				return err
			}
			if d.stopped.Load() {
				return nil
			}
		}

		if err := d.backend.Wait(); err != nil {
			if d.stopped.Load() {
				return nil
			}
			return fmt.Errorf("wait for events: %w", err)
		}
	}
	return nil
}

func (d *Daemon) handle(ctx context.Context, ev platform.Event) error {
	defer ev.Release()

	switch ev.Type {
	case platform.EventRawMotion:
		return d.processMotion(ctx)
	case platform.EventScreenChange:
		d.refreshMonitors()
	}
	return nil
}

func (d *Daemon) processMotion(ctx context.Context) error {
	p, err := d.backend.QueryPointer()
	if err != nil {
		return err
	}
	root, err := d.backend.RootSize()
	if err != nil {
		return err
	}
	bounds, err := geometry.Resolve(p, d.monitors, root)
	if err != nil {
		return err
	}

	s := d.Settings()
	offset := edge.Offset(bounds.YMax, s.DeadZoneRatio)

	dec := d.tracker.Observe(p, bounds, offset)
	switch dec.Action {
	case tracker.Suppress:
		d.logger.Debug("sample suppressed", "x", p.X, "y", p.Y)
		d.publish(edge.None)
		return nil
	case tracker.Ignore:
		d.publish(edge.None)
		return nil
	}

	if s.Delay > 0 && !d.sleep(ctx, s.Delay) {
		return nil
	}

	again, err := d.backend.QueryPointer()
	if err != nil {
		return err
	}
	zone, held := d.tracker.Confirm(again)
	if !held {
		d.logger.Debug("edge not held", "edge", zone.String(), "x", again.X, "y", again.Y)
		d.publish(edge.None)
		return nil
	}

	d.logger.Debug("edge hit", "edge", zone.String(), "x", again.X, "y", again.Y)
	d.dispatch(ctx, zone)
	d.publish(zone)
	return nil
}

// sleep waits for delay and reports false if the daemon was stopped first.
func (d *Daemon) sleep(ctx context.Context, delay time.Duration) bool {
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-d.done:
		return false
	case <-ctx.Done():
		return false
	}
}

func (d *Daemon) dispatch(ctx context.Context, zone edge.Zone) {
	err := d.dispatcher.Dispatch(ctx, zone)
	if err == nil {
		d.dispatches.Add(1)
		return
	}
	d.logger.Warn("command failed", "edge", zone.String(), "error", err)
	if d.onLaunchError != nil {
		d.onLaunchError(zone, err)
	}
}

func (d *Daemon) refreshMonitors() {
	monitors, err := d.backend.Monitors()
	if err != nil {
		d.logger.Warn("re-enumerate monitors", "error", err)
		return
	}
	if len(monitors) == 0 {
		d.logger.Warn("screen change reported no monitors; keeping previous layout")
		return
	}
	d.monitors = monitors
	d.logger.Info("monitor layout changed", "monitors", len(monitors))
	d.publish(edge.None)
}

// Trigger dispatches zone immediately, bypassing detection.
func (d *Daemon) Trigger(ctx context.Context, zone edge.Zone) error {
	if !zone.Valid() {
		return fmt.Errorf("invalid edge %q", zone.String())
	}
	if err := d.dispatcher.Dispatch(ctx, zone); err != nil {
		return err
	}
	d.dispatches.Add(1)
	return nil
}
