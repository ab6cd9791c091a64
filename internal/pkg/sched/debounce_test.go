package sched

import (
	"sync/atomic"
	"testing"
	"time"
)

const quiet = 20 * time.Millisecond

func TestDebouncerCoalescesBursts(t *testing.T) {
	var fired atomic.Int32
	d := NewDebouncer(quiet)

	for i := 0; i < 5; i++ {
		d.Debounce(func() { fired.Add(1) })
		time.Sleep(2 * time.Millisecond)
	}

	time.Sleep(3 * quiet)
	if got := fired.Load(); got != 1 {
		t.Fatalf("burst fired %d times, want 1", got)
	}
}

func TestDebouncerCancelPreventsFire(t *testing.T) {
	var fired atomic.Int32
	d := NewDebouncer(quiet)

	d.Debounce(func() { fired.Add(1) })
	d.Cancel()

	time.Sleep(3 * quiet)
	if got := fired.Load(); got != 0 {
		t.Fatalf("cancelled debounce fired %d times", got)
	}
}

func TestArenaKeepsPerIDTimersIndependent(t *testing.T) {
	var first, second atomic.Int32
	arena := NewArena(quiet)

	arena.Schedule(1, func() { first.Add(1) })
	arena.Schedule(2, func() { second.Add(1) })

	// Keep resetting id 1 while id 2 runs out its quiet period.
	for i := 0; i < 5; i++ {
		time.Sleep(quiet / 2)
		arena.Schedule(1, func() { first.Add(1) })
	}

	time.Sleep(3 * quiet)
	if second.Load() != 1 {
		t.Fatalf("id 2 fired %d times, want 1", second.Load())
	}
	if first.Load() != 1 {
		t.Fatalf("id 1 fired %d times, want exactly 1 after the resets settle", first.Load())
	}
}

func TestArenaCancelDropsPendingTask(t *testing.T) {
	var fired atomic.Int32
	arena := NewArena(quiet)

	arena.Schedule(7, func() { fired.Add(1) })
	if !arena.Pending(7) {
		t.Fatal("task not pending after Schedule")
	}
	arena.Cancel(7)
	if arena.Pending(7) {
		t.Fatal("task still pending after Cancel")
	}

	time.Sleep(3 * quiet)
	if got := fired.Load(); got != 0 {
		t.Fatalf("cancelled task fired %d times", got)
	}
}

func TestArenaShutdownCancelsEverything(t *testing.T) {
	var fired atomic.Int32
	arena := NewArena(quiet)

	for id := 1; id <= 3; id++ {
		arena.Schedule(id, func() { fired.Add(1) })
	}
	arena.Shutdown()

	time.Sleep(3 * quiet)
	if got := fired.Load(); got != 0 {
		t.Fatalf("tasks fired after Shutdown: %d", got)
	}
}
