package download

import (
	"context"
	"fmt"
	"image"
	"path/filepath"
	"sync/atomic"
	"time"
)

// Fetcher turns a URL into decoded image data.
//
// Any error (network, non-2xx response, decode failure) is treated the
// same way: the attempt failed and may be retried.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (image.Image, error)
}

// Sink persists decoded image data to a path.
type Sink interface {
	Store(img image.Image, path string) error
}

// task is one URL's complete download-with-retry unit of work. All of its
// mutable state is local to the worker executing it.
type task struct {
	url     string
	path    string
	attempt int
	total   int

	policy       RetryPolicy
	outputFolder string

	fetcher   Fetcher
	sink      Sink
	exists    func(path string) bool
	ensureDir func(path string) error

	completed *atomic.Int64
	progress  func(ProgressEvent)
}

// run executes the bounded retry loop for a single URL and returns its
// terminal outcome. Retries are driven purely by attempt count: fetch and
// store failures both loop back through the exhaustion check.
func (t *task) run(ctx context.Context) Outcome {
	for {
		if t.exists(t.path) {
			n := t.completed.Add(1)
			t.report(LevelWarning, fmt.Sprintf("[Completed: %d/%d] image %s already downloaded", n, t.total, filepath.Base(t.path)))
			return OutcomeSkipped
		}

		if t.policy.Exhausted(t.attempt) {
			t.report(LevelInfo, fmt.Sprintf("cannot download %s after %d attempts", filepath.Base(t.path), t.attempt))
			return OutcomePermanentlyFailed
		}

		if err := t.ensureDir(t.outputFolder); err != nil {
			t.report(LevelWarning, fmt.Sprintf("creating output folder: %v", err))
			t.attempt++
			continue
		}

		if !t.sleep(ctx) {
			return OutcomePermanentlyFailed
		}

		t.attempt++
		img, err := t.fetcher.Fetch(ctx, t.url)
		if err != nil {
			t.report(LevelInfo, fmt.Sprintf("[attempt: %d/%d] failed downloading %s: %v", t.attempt, t.policy.MaxAttempts, filepath.Base(t.path), err))
			continue
		}
		t.report(LevelDebug, fmt.Sprintf("[attempt: %d/%d] fetched %s", t.attempt, t.policy.MaxAttempts, filepath.Base(t.path)))

		if err := t.sink.Store(img, t.path); err != nil {
			t.report(LevelWarning, fmt.Sprintf("[attempt: %d/%d] failed saving %s: %v", t.attempt, t.policy.MaxAttempts, filepath.Base(t.path), err))
			continue
		}

		n := t.completed.Add(1)
		t.report(LevelSuccess, fmt.Sprintf("[Completed: %d/%d] saved %s", n, t.total, filepath.Base(t.path)))
		return OutcomeSucceeded
	}
}

// sleep applies the retry delay. It returns false if the context was
// cancelled while waiting.
func (t *task) sleep(ctx context.Context) bool {
	delay := t.policy.NextDelay(t.attempt)
	if delay <= 0 {
		return ctx.Err() == nil
	}
	t.report(LevelDebug, fmt.Sprintf("sleeping %s on attempt %d", delay, t.attempt))

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func (t *task) report(level ProgressLevel, msg string) {
	if t.progress != nil {
		t.progress(ProgressEvent{Message: msg, Level: level, URL: t.url})
	}
}
