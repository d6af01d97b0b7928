package daemon

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/1broseidon/edges/internal/action"
	"github.com/1broseidon/edges/internal/edge"
	"github.com/1broseidon/edges/internal/geometry"
	"github.com/1broseidon/edges/internal/platform"
)

type fakeBackend struct {
	*platform.Queue

	mu       sync.Mutex
	monitors []geometry.Rect
	root     geometry.Size
	samples  []geometry.Point
	last     geometry.Point
	queries  int

	onQuery  func(n int)
	onIdle   func()
	released atomic.Int32
	pushed   int
}

func newFakeBackend(t *testing.T, samples ...geometry.Point) *fakeBackend {
	t.Helper()
	q, err := platform.NewQueue()
	if err != nil {
		t.Fatalf("NewQueue: %v", err)
	}
	t.Cleanup(func() { q.Close() })
	return &fakeBackend{
		Queue:    q,
		monitors: []geometry.Rect{{X: 0, Y: 0, Width: 1920, Height: 1080}},
		root:     geometry.Size{Width: 1920, Height: 1080},
		samples:  samples,
	}
}

func (f *fakeBackend) Monitors() ([]geometry.Rect, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]geometry.Rect(nil), f.monitors...), nil
}

func (f *fakeBackend) RootSize() (geometry.Size, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.root, nil
}

// QueryPointer replays the scripted samples, then keeps returning the last.
func (f *fakeBackend) QueryPointer() (geometry.Point, error) {
	f.mu.Lock()
	if len(f.samples) > 0 {
		f.last = f.samples[0]
		f.samples = f.samples[1:]
	}
	f.queries++
	n, p, hook := f.queries, f.last, f.onQuery
	f.mu.Unlock()

	if hook != nil {
		hook(n)
	}
	return p, nil
}

func (f *fakeBackend) Wait() error {
	if f.onIdle != nil && !f.Pending() {
		f.onIdle()
	}
	return f.Queue.Wait()
}

func (f *fakeBackend) push(t platform.EventType, n int) {
	for i := 0; i < n; i++ {
		f.pushed++
		f.Push(platform.NewEvent(t, func() { f.released.Add(1) }))
	}
}

type launch struct {
	args  []string
	block bool
}

type fakeLauncher struct {
	mu    sync.Mutex
	calls []launch
	err   error
}

func (l *fakeLauncher) Launch(_ context.Context, args []string, block bool) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, launch{args: args, block: block})
	return l.err
}

func (l *fakeLauncher) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.calls)
}

func newTestDaemon(t *testing.T, b *fakeBackend, l *fakeLauncher, delay time.Duration) *Daemon {
	t.Helper()
	table, err := action.NewTable(map[string]string{"top-left": "lock-screen"})
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	d, err := New(Config{
		Backend:    b,
		Dispatcher: action.NewDispatcher(table, l, false, nil),
		Settings:   Settings{Delay: delay, DeadZoneRatio: edge.DefaultDeadZoneRatio},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return d
}

// runUntilIdle runs the loop until every queued event has been handled.
func runUntilIdle(t *testing.T, d *Daemon, b *fakeBackend) error {
	t.Helper()
	b.onIdle = d.Stop

	errCh := make(chan error, 1)
	go func() { errCh <- d.Run(context.Background()) }()

	select {
	case err := <-errCh:
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return")
		return nil
	}
}

func TestRun_CornerDispatchesOnce(t *testing.T) {
	b := newFakeBackend(t,
		geometry.Point{X: 5, Y: 5},
		geometry.Point{X: 0, Y: 0},
		geometry.Point{X: 0, Y: 0}, // post-delay re-sample
		geometry.Point{X: 0, Y: 0},
	)
	b.push(platform.EventRawMotion, 3)

	l := &fakeLauncher{}
	d := newTestDaemon(t, b, l, 0)

	if err := runUntilIdle(t, d, b); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if l.count() != 1 {
		t.Fatalf("launches = %d, want 1", l.count())
	}
	if got := l.calls[0].args; len(got) != 1 || got[0] != "lock-screen" {
		t.Fatalf("args = %v, want [lock-screen]", got)
	}

	st := d.Status()
	if st.Dispatches != 1 {
		t.Fatalf("Dispatches = %d, want 1", st.Dispatches)
	}
	if st.LastEdge != "top-left" {
		t.Fatalf("LastEdge = %q, want top-left", st.LastEdge)
	}
	if st.Last != (geometry.Point{X: 0, Y: 0}) {
		t.Fatalf("Last = %+v, want origin", st.Last)
	}
}

func TestRun_TransientTouchDoesNotDispatch(t *testing.T) {
	b := newFakeBackend(t,
		geometry.Point{X: 0, Y: 0},
		geometry.Point{X: 500, Y: 500},
	)
	b.push(platform.EventRawMotion, 1)

	l := &fakeLauncher{}
	d := newTestDaemon(t, b, l, 50*time.Millisecond)

	start := time.Now()
	if err := runUntilIdle(t, d, b); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 50*time.Millisecond {
		t.Fatalf("loop returned after %v, before the confirmation delay", elapsed)
	}
	if l.count() != 0 {
		t.Fatalf("launches = %d, want 0", l.count())
	}
	if got := d.Status().Last; got != (geometry.Point{X: 500, Y: 500}) {
		t.Fatalf("Last = %+v, want post-delay sample", got)
	}
}

func TestRun_StationaryPointerDispatchesOnce(t *testing.T) {
	b := newFakeBackend(t, geometry.Point{X: 1919, Y: 540})
	b.push(platform.EventRawMotion, 10)

	l := &fakeLauncher{}
	table, _ := action.NewTable(map[string]string{"right": "next-desktop"})
	d, err := New(Config{
		Backend:    b,
		Dispatcher: action.NewDispatcher(table, l, false, nil),
		Settings:   Settings{DeadZoneRatio: edge.DefaultDeadZoneRatio},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := runUntilIdle(t, d, b); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if l.count() != 1 {
		t.Fatalf("launches = %d, want 1", l.count())
	}
}

func TestRun_ReleasesEveryEvent(t *testing.T) {
	b := newFakeBackend(t,
		geometry.Point{X: 5, Y: 5},
		geometry.Point{X: 0, Y: 0},
		geometry.Point{X: 0, Y: 0},
	)
	b.push(platform.EventRawMotion, 4) // ignore, confirm, suppress, suppress
	b.push(platform.EventOther, 2)
	b.push(platform.EventScreenChange, 1)

	d := newTestDaemon(t, b, &fakeLauncher{}, 0)
	if err := runUntilIdle(t, d, b); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := int(b.released.Load()); got != b.pushed {
		t.Fatalf("released %d of %d events", got, b.pushed)
	}
}

func TestRun_PointerOutsideMonitorsIsFatal(t *testing.T) {
	b := newFakeBackend(t, geometry.Point{X: 100, Y: 1500})
	b.monitors = []geometry.Rect{
		{X: 0, Y: 0, Width: 1920, Height: 1080},
		{X: 1920, Y: 0, Width: 1920, Height: 1080},
	}
	b.root = geometry.Size{Width: 3840, Height: 2160}
	b.push(platform.EventRawMotion, 1)

	d := newTestDaemon(t, b, &fakeLauncher{}, 0)
	err := runUntilIdle(t, d, b)
	if !errors.Is(err, geometry.ErrPointerOutsideAnyMonitor) {
		t.Fatalf("Run error = %v, want ErrPointerOutsideAnyMonitor", err)
	}
	var outside *geometry.OutsideError
	if !errors.As(err, &outside) || outside.Point != (geometry.Point{X: 100, Y: 1500}) {
		t.Fatalf("Run error = %#v, want OutsideError for the sample", err)
	}
	if b.released.Load() != 1 {
		t.Fatalf("released = %d, want 1", b.released.Load())
	}
}

func TestRun_WaitFailureIsFatal(t *testing.T) {
	b := newFakeBackend(t)
	boom := errors.New("connection lost")
	b.Fail(boom)

	d := newTestDaemon(t, b, &fakeLauncher{}, 0)
	err := d.Run(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("Run error = %v, want %v", err, boom)
	}
}

func TestStop_InterruptsConfirmationDelay(t *testing.T) {
	b := newFakeBackend(t, geometry.Point{X: 0, Y: 0})
	queried := make(chan struct{})
	var once sync.Once
	b.onQuery = func(int) { once.Do(func() { close(queried) }) }
	b.push(platform.EventRawMotion, 1)

	l := &fakeLauncher{}
	d := newTestDaemon(t, b, l, MaxDelay)

	errCh := make(chan error, 1)
	go func() { errCh <- d.Run(context.Background()) }()

	<-queried
	start := time.Now()
	d.Stop()

	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after Stop")
	}
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Fatalf("Stop took %v", elapsed)
	}
	if l.count() != 0 {
		t.Fatalf("launches = %d, want 0", l.count())
	}
}

func TestRun_ContextCancelStops(t *testing.T) {
	b := newFakeBackend(t)
	d := newTestDaemon(t, b, &fakeLauncher{}, 0)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- d.Run(ctx) }()
	cancel()

	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRun_ScreenChangeRefreshesMonitors(t *testing.T) {
	b := newFakeBackend(t)
	d := newTestDaemon(t, b, &fakeLauncher{}, 0)

	b.mu.Lock()
	b.monitors = []geometry.Rect{
		{X: 0, Y: 0, Width: 1920, Height: 1080},
		{X: 1920, Y: 0, Width: 2560, Height: 1440},
	}
	b.mu.Unlock()
	b.push(platform.EventScreenChange, 1)

	if err := runUntilIdle(t, d, b); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := d.Monitors(); len(got) != 2 || got[1].Width != 2560 {
		t.Fatalf("Monitors = %+v, want refreshed layout", got)
	}
}

func TestRun_LaunchFailureKeepsRunning(t *testing.T) {
	b := newFakeBackend(t,
		geometry.Point{X: 0, Y: 0},
		geometry.Point{X: 0, Y: 0},
		geometry.Point{X: 700, Y: 700},
		geometry.Point{X: 0, Y: 0},
		geometry.Point{X: 0, Y: 0},
	)
	b.push(platform.EventRawMotion, 3)

	l := &fakeLauncher{err: errors.New("exec: not found")}
	table, _ := action.NewTable(map[string]string{"top-left": "missing-binary"})

	var failures []edge.Zone
	d, err := New(Config{
		Backend:       b,
		Dispatcher:    action.NewDispatcher(table, l, false, nil),
		Settings:      Settings{DeadZoneRatio: edge.DefaultDeadZoneRatio},
		OnLaunchError: func(z edge.Zone, _ error) { failures = append(failures, z) },
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := runUntilIdle(t, d, b); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if l.count() != 2 {
		t.Fatalf("launches = %d, want 2", l.count())
	}
	if len(failures) != 2 || failures[0] != edge.TopLeft {
		t.Fatalf("failures = %v", failures)
	}
	if d.Status().Dispatches != 0 {
		t.Fatalf("Dispatches = %d, want 0", d.Status().Dispatches)
	}
}

func TestNew_NoMonitors(t *testing.T) {
	b := newFakeBackend(t)
	b.monitors = nil
	table, _ := action.NewTable(nil)
	_, err := New(Config{Backend: b, Dispatcher: action.NewDispatcher(table, &fakeLauncher{}, false, nil)})
	if !errors.Is(err, geometry.ErrNoMonitors) {
		t.Fatalf("New error = %v, want ErrNoMonitors", err)
	}
}

func TestApply_ClampsSettings(t *testing.T) {
	b := newFakeBackend(t)
	d := newTestDaemon(t, b, &fakeLauncher{}, 0)

	d.Apply(Settings{Delay: 5 * time.Second, DeadZoneRatio: 0.7})
	got := d.Settings()
	if got.Delay != MaxDelay {
		t.Fatalf("Delay = %v, want %v", got.Delay, MaxDelay)
	}
	if got.DeadZoneRatio != edge.DefaultDeadZoneRatio {
		t.Fatalf("DeadZoneRatio = %v, want default", got.DeadZoneRatio)
	}

	d.Apply(Settings{Delay: -time.Second, DeadZoneRatio: 0.1})
	got = d.Settings()
	if got.Delay != 0 || got.DeadZoneRatio != 0.1 {
		t.Fatalf("Settings = %+v", got)
	}
}

func TestTrigger(t *testing.T) {
	b := newFakeBackend(t)
	l := &fakeLauncher{}
	d := newTestDaemon(t, b, l, 0)

	if err := d.Trigger(context.Background(), edge.TopLeft); err != nil {
		t.Fatalf("Trigger: %v", err)
	}
	if err := d.Trigger(context.Background(), edge.Bottom); err != nil {
		t.Fatalf("Trigger unconfigured: %v", err)
	}
	if err := d.Trigger(context.Background(), edge.None); err == nil {
		t.Fatal("Trigger(None) should fail")
	}
	if l.count() != 1 {
		t.Fatalf("launches = %d, want 1", l.count())
	}
	if got := d.Status().Dispatches; got != 2 {
		t.Fatalf("Dispatches = %d, want 2", got)
	}
}
