package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestTickerLoopRunsInitialTaskAndStopsOnCancel(t *testing.T) {
	var runs atomic.Int32

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)

	go func() {
		done <- TickerLoop(ctx, TickerConfig{
			Name: "test",
			Tasks: []TickerTask{{
				Name:     "task",
				Interval: time.Hour,
				Run:      func(context.Context) { runs.Add(1) },
			}},
		})
	}()

	// Initial run happens before the first tick.
	deadline := time.After(2 * time.Second)

	for runs.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("initial task never ran")
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}

	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not stop after cancel")
	}

	if runs.Load() != 1 {
		t.Fatalf("expected exactly one run, got %d", runs.Load())
	}
}

func TestTickerLoopFiresOnInterval(t *testing.T) {
	var runs atomic.Int32

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_ = TickerLoop(ctx, TickerConfig{
		Name: "test",
		Tasks: []TickerTask{{
			Name:     "fast",
			Interval: 50 * time.Millisecond,
			Run:      func(context.Context) { runs.Add(1) },
		}},
	})

	// Initial run plus several ticks within a second.
	if runs.Load() < 3 {
		t.Fatalf("expected multiple runs, got %d", runs.Load())
	}
}

func TestWaitReturnsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := Wait(ctx, time.Hour); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
