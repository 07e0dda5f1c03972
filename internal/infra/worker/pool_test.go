// File: internal/infra/worker/pool_test.go
package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func testLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

func TestPool_RunsSubmittedTasks(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := NewPool(2, testLogger())
	p.Start(ctx)
	defer p.Stop()

	var ran atomic.Int32
	done := make(chan struct{})
	for i := 0; i < 5; i++ {
		err := p.Submit(func(context.Context) error {
			if ran.Add(1) == 5 {
				close(done)
			}
			return nil
		})
		if err != nil {
			t.Fatalf("Submit #%d: %v", i, err)
		}
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("only %d of 5 tasks ran", ran.Load())
	}
}

func TestPool_RejectsWhenSaturated(t *testing.T) {
	t.Parallel()

	// Not started: the buffered queue (workers*4) fills and Submit must
	// fail fast instead of blocking.
	p := NewPool(1, testLogger())

	noop := func(context.Context) error { return nil }
	for i := 0; i < 4; i++ {
		if err := p.Submit(noop); err != nil {
			t.Fatalf("Submit #%d: %v", i, err)
		}
	}
	if err := p.Submit(noop); !errors.Is(err, ErrQueueFull) {
		t.Fatalf("want ErrQueueFull, got %v", err)
	}
}

func TestPool_NilTask(t *testing.T) {
	t.Parallel()

	p := NewPool(1, testLogger())
	if err := p.Submit(nil); err == nil {
		t.Fatal("expected error for nil task")
	}
}

func TestPool_StopWaitsForWorkers(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := NewPool(2, testLogger())
	p.Start(ctx)

	started := make(chan struct{})
	release := make(chan struct{})
	var finished atomic.Bool
	if err := p.Submit(func(context.Context) error {
		close(started)
		<-release
		finished.Store(true)
		return nil
	}); err != nil {
		t.Fatal(err)
	}

	<-started
	go func() {
		time.Sleep(50 * time.Millisecond)
		close(release)
	}()
	p.Stop()
	if !finished.Load() {
		t.Fatal("Stop returned before the in-flight task finished")
	}
}

func TestPool_TaskErrorDoesNotKillWorker(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := NewPool(1, testLogger())
	p.Start(ctx)
	defer p.Stop()

	if err := p.Submit(func(context.Context) error { return errors.New("boom") }); err != nil {
		t.Fatal(err)
	}

	done := make(chan struct{})
	if err := p.Submit(func(context.Context) error { close(done); return nil }); err != nil {
		t.Fatal(err)
	}
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("worker died after a failing task")
	}
}
