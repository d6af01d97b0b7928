package platform

import (
	"errors"
	"testing"
	"time"
)

func newTestQueue(t *testing.T) *Queue {
	t.Helper()
	q, err := NewQueue()
	if err != nil {
		t.Fatalf("NewQueue: %v", err)
	}
	t.Cleanup(func() { q.Close() })
	return q
}

func TestQueue_FIFO(t *testing.T) {
	q := newTestQueue(t)
	q.Push(NewEvent(EventRawMotion, nil))
	q.Push(NewEvent(EventScreenChange, nil))

	if !q.Pending() {
		t.Fatal("expected pending events")
	}
	ev, ok := q.NextEvent()
	if !ok || ev.Type != EventRawMotion {
		t.Fatalf("first event = %v, %v", ev.Type, ok)
	}
	ev, ok = q.NextEvent()
	if !ok || ev.Type != EventScreenChange {
		t.Fatalf("second event = %v, %v", ev.Type, ok)
	}
	if q.Pending() {
		t.Fatal("queue should be empty")
	}
	if _, ok := q.NextEvent(); ok {
		t.Fatal("NextEvent on empty queue returned an event")
	}
}

func TestQueue_WaitWakesOnPush(t *testing.T) {
	q := newTestQueue(t)

	done := make(chan error, 1)
	go func() { done <- q.Wait() }()

	select {
	case <-done:
		t.Fatal("Wait returned before any event")
	case <-time.After(50 * time.Millisecond):
	}

	q.Push(NewEvent(EventRawMotion, nil))
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Wait error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Wait did not wake on Push")
	}
	if !q.Pending() {
		t.Fatal("expected the pushed event to be pending")
	}
}

func TestQueue_Interrupt(t *testing.T) {
	q := newTestQueue(t)

	done := make(chan error, 1)
	go func() { done <- q.Wait() }()
	q.Interrupt()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Wait error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Interrupt did not wake Wait")
	}
	if q.Pending() {
		t.Fatal("Interrupt must not queue an event")
	}
}

func TestQueue_FailSurfacesFromWait(t *testing.T) {
	q := newTestQueue(t)
	boom := errors.New("connection lost")
	q.Fail(boom)

	if err := q.Wait(); !errors.Is(err, boom) {
		t.Fatalf("Wait error = %v, want %v", err, boom)
	}
}

func TestQueue_CloseReleasesPending(t *testing.T) {
	q, err := NewQueue()
	if err != nil {
		t.Fatalf("NewQueue: %v", err)
	}
	released := 0
	q.Push(NewEvent(EventRawMotion, func() { released++ }))
	q.Push(NewEvent(EventRawMotion, func() { released++ }))

	if err := q.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if released != 2 {
		t.Fatalf("released %d events, want 2", released)
	}

	q.Push(NewEvent(EventRawMotion, func() { released++ }))
	if released != 3 {
		t.Fatal("events pushed after Close must be released immediately")
	}
	if err := q.Wait(); !errors.Is(err, ErrQueueClosed) {
		t.Fatalf("Wait after Close = %v, want ErrQueueClosed", err)
	}
}
