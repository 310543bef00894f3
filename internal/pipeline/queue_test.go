package pipeline

import (
	"testing"
	"time"

	"github.com/five82/gitflix/internal/config"
)

func TestFrameQueueFIFOOrdering(t *testing.T) {
	q := NewFrameQueue[int](4)
	for i := 0; i < 4; i++ {
		if !q.Push(i) {
			t.Fatalf("Push(%d) returned false", i)
		}
	}
	q.Close()

	for i := 0; i < 4; i++ {
		got, ok := q.Pop()
		if !ok {
			t.Fatalf("Pop %d: queue closed early", i)
		}
		if got != i {
			t.Fatalf("Pop %d = %d, want %d", i, got, i)
		}
	}
	if _, ok := q.Pop(); ok {
		t.Fatalf("Pop after drain should report ok=false")
	}
}

func TestFrameQueueCancelUnblocksPush(t *testing.T) {
	q := NewFrameQueue[int](1)
	q.Push(0) // fill the queue

	unblocked := make(chan bool, 1)
	go func() {
		unblocked <- q.Push(1) // blocks until cancel
	}()

	q.Cancel()

	select {
	case ok := <-unblocked:
		if ok {
			t.Fatalf("Push after cancel should return false")
		}
	case <-time.After(time.Second):
		t.Fatalf("Push did not unblock after Cancel")
	}
}

func TestFrameQueueCancelUnblocksPop(t *testing.T) {
	q := NewFrameQueue[int](1)

	unblocked := make(chan bool, 1)
	go func() {
		_, ok := q.Pop() // blocks until cancel
		unblocked <- ok
	}()

	q.Cancel()

	select {
	case ok := <-unblocked:
		if ok {
			t.Fatalf("Pop after cancel on an empty queue should report ok=false")
		}
	case <-time.After(time.Second):
		t.Fatalf("Pop did not unblock after Cancel")
	}
}

func TestPacerHoldsTargetInterval(t *testing.T) {
	cfg := config.NewConfig()
	cfg.TargetFPS = 100 // 10ms interval keeps the test fast

	p := NewPacer(cfg)
	start := time.Now()
	const frames = 5
	for i := 0; i < frames; i++ {
		p.Wait() // the first call returns immediately, the rest pace
	}
	elapsed := time.Since(start)

	want := (frames - 1) * 10 * time.Millisecond
	if elapsed < want {
		t.Fatalf("%d paced frames took %v, want at least %v", frames, elapsed, want)
	}
}
