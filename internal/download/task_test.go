package download

import (
	"context"
	"errors"
	"image"
	"sync/atomic"
	"testing"
)

type fetcherFunc func(ctx context.Context, url string) (image.Image, error)

func (f fetcherFunc) Fetch(ctx context.Context, url string) (image.Image, error) {
	return f(ctx, url)
}

type sinkFunc func(img image.Image, path string) error

func (f sinkFunc) Store(img image.Image, path string) error {
	return f(img, path)
}

func testImage() image.Image {
	return image.NewRGBA(image.Rect(0, 0, 1, 1))
}

// countingFetcher counts invocations and delegates to fn.
type countingFetcher struct {
	calls atomic.Int32
	fn    func(url string) (image.Image, error)
}

func (c *countingFetcher) Fetch(_ context.Context, url string) (image.Image, error) {
	c.calls.Add(1)
	return c.fn(url)
}

func newTestTask(fetcher Fetcher, sink Sink, policy RetryPolicy) *task {
	return &task{
		url:       "http://example.com/photo.jpg",
		path:      "/tmp/does-not-matter/photo.jpg",
		total:     1,
		policy:    policy,
		fetcher:   fetcher,
		sink:      sink,
		exists:    func(string) bool { return false },
		ensureDir: func(string) error { return nil },
		completed: new(atomic.Int64),
	}
}

func TestTask_Success(t *testing.T) {
	fetcher := &countingFetcher{fn: func(string) (image.Image, error) {
		return testImage(), nil
	}}
	tsk := newTestTask(fetcher, sinkFunc(func(image.Image, string) error { return nil }),
		RetryPolicy{MaxAttempts: 3})

	if got := tsk.run(context.Background()); got != OutcomeSucceeded {
		t.Fatalf("run() = %v, want %v", got, OutcomeSucceeded)
	}
	if calls := fetcher.calls.Load(); calls != 1 {
		t.Errorf("fetcher called %d times, want 1", calls)
	}
	if n := tsk.completed.Load(); n != 1 {
		t.Errorf("completed counter = %d, want 1", n)
	}
}

func TestTask_AttemptBound(t *testing.T) {
	fetcher := &countingFetcher{fn: func(string) (image.Image, error) {
		return nil, errors.New("connection refused")
	}}
	tsk := newTestTask(fetcher, sinkFunc(func(image.Image, string) error { return nil }),
		RetryPolicy{MaxAttempts: 3})

	if got := tsk.run(context.Background()); got != OutcomePermanentlyFailed {
		t.Fatalf("run() = %v, want %v", got, OutcomePermanentlyFailed)
	}
	if calls := fetcher.calls.Load(); calls != 3 {
		t.Errorf("fetcher called %d times, want exactly 3", calls)
	}
	if n := tsk.completed.Load(); n != 0 {
		t.Errorf("completed counter = %d, want 0", n)
	}
}

func TestTask_ZeroAttempts(t *testing.T) {
	fetcher := &countingFetcher{fn: func(string) (image.Image, error) {
		return testImage(), nil
	}}
	tsk := newTestTask(fetcher, sinkFunc(func(image.Image, string) error { return nil }),
		RetryPolicy{MaxAttempts: 0})

	if got := tsk.run(context.Background()); got != OutcomePermanentlyFailed {
		t.Fatalf("run() = %v, want %v", got, OutcomePermanentlyFailed)
	}
	if calls := fetcher.calls.Load(); calls != 0 {
		t.Errorf("fetcher called %d times, want 0", calls)
	}
}

func TestTask_SkipExisting(t *testing.T) {
	fetcher := &countingFetcher{fn: func(string) (image.Image, error) {
		return testImage(), nil
	}}
	tsk := newTestTask(fetcher, sinkFunc(func(image.Image, string) error { return nil }),
		RetryPolicy{MaxAttempts: 3})
	tsk.exists = func(string) bool { return true }

	if got := tsk.run(context.Background()); got != OutcomeSkipped {
		t.Fatalf("run() = %v, want %v", got, OutcomeSkipped)
	}
	if calls := fetcher.calls.Load(); calls != 0 {
		t.Errorf("fetcher called %d times, want 0", calls)
	}
	if n := tsk.completed.Load(); n != 1 {
		t.Errorf("completed counter = %d, want 1 (skips count as success)", n)
	}
}

func TestTask_SinkFailureRetried(t *testing.T) {
	fetcher := &countingFetcher{fn: func(string) (image.Image, error) {
		return testImage(), nil
	}}

	var stores int
	sink := sinkFunc(func(image.Image, string) error {
		stores++
		if stores < 3 {
			return errors.New("disk full")
		}
		return nil
	})

	tsk := newTestTask(fetcher, sink, RetryPolicy{MaxAttempts: 5})

	if got := tsk.run(context.Background()); got != OutcomeSucceeded {
		t.Fatalf("run() = %v, want %v", got, OutcomeSucceeded)
	}
	// Sink failures consume attempts exactly like fetch failures.
	if calls := fetcher.calls.Load(); calls != 3 {
		t.Errorf("fetcher called %d times, want 3", calls)
	}
}

func TestTask_SinkFailureExhaustsAttempts(t *testing.T) {
	fetcher := &countingFetcher{fn: func(string) (image.Image, error) {
		return testImage(), nil
	}}
	sink := sinkFunc(func(image.Image, string) error {
		return errors.New("permission denied")
	})

	tsk := newTestTask(fetcher, sink, RetryPolicy{MaxAttempts: 2})

	if got := tsk.run(context.Background()); got != OutcomePermanentlyFailed {
		t.Fatalf("run() = %v, want %v", got, OutcomePermanentlyFailed)
	}
	if calls := fetcher.calls.Load(); calls != 2 {
		t.Errorf("fetcher called %d times, want 2", calls)
	}
}

func TestTask_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fetcher := &countingFetcher{fn: func(string) (image.Image, error) {
		return testImage(), nil
	}}
	tsk := newTestTask(fetcher, sinkFunc(func(image.Image, string) error { return nil }),
		RetryPolicy{MaxAttempts: 3})

	if got := tsk.run(ctx); got != OutcomePermanentlyFailed {
		t.Fatalf("run() = %v, want %v", got, OutcomePermanentlyFailed)
	}
	if calls := fetcher.calls.Load(); calls != 0 {
		t.Errorf("fetcher called %d times, want 0", calls)
	}
}
