package download

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/srihari-humbarwadi/imgfetch/internal/store"
)

// Options configures a Dispatcher.
type Options struct {
	// Workers bounds the number of tasks in flight at once.
	// Default: 1 (sequential).
	Workers int

	// Policy governs per-task delays and attempt exhaustion.
	Policy RetryPolicy

	// OutputFolder is where images are saved. It is created lazily and
	// idempotently by the workers.
	OutputFolder string

	// Fetcher retrieves and decodes images. Required.
	Fetcher Fetcher

	// Sink persists decoded images. Required.
	Sink Sink

	// Exists reports whether a destination file is already present.
	// Default: store.Exists.
	Exists func(path string) bool

	// EnsureDir creates the output folder if missing.
	// Default: store.EnsureDir.
	EnsureDir func(path string) error

	// OnProgress receives progress events. Optional.
	OnProgress func(ProgressEvent)
}

// Dispatcher owns the bounded worker pool and runs one task per URL,
// collecting outcomes as tasks complete.
//
// All shared state (the completion counter and the outcome map) is scoped
// to a single Run invocation.
type Dispatcher struct {
	opts  Options
	runID string

	completed atomic.Int64

	mu      sync.Mutex
	results RunResult
}

// NewDispatcher creates a Dispatcher, applying defaults for unset options.
func NewDispatcher(opts Options) *Dispatcher {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.Exists == nil {
		opts.Exists = store.Exists
	}
	if opts.EnsureDir == nil {
		opts.EnsureDir = store.EnsureDir
	}
	return &Dispatcher{
		opts:  opts,
		runID: uuid.NewString(),
	}
}

// RunID identifies this dispatcher's run in logs and progress output.
func (d *Dispatcher) RunID() string {
	return d.runID
}

// Completed returns the number of tasks finished successfully so far,
// including skips of already-downloaded files. It is safe to call from
// any goroutine while a run is in flight, and is intended for progress
// display only.
func (d *Dispatcher) Completed() int64 {
	return d.completed.Load()
}

// Run submits one task per URL onto the pool and blocks until every task
// has either completed or been declared timed out. It returns one Outcome
// per distinct URL.
//
// A task that exceeds the per-task timeout (Policy.Timeout()) is recorded
// as OutcomeTimedOut and its pool slot is released; the underlying attempt
// is not interrupted and may keep running in the background until its
// context is cancelled. A computed timeout of zero disables the bound.
//
// No single URL's failure affects the processing of the others. The error
// return is non-nil only when ctx was cancelled.
func (d *Dispatcher) Run(ctx context.Context, urls []string) (RunResult, error) {
	d.completed.Store(0)
	d.mu.Lock()
	d.results = make(RunResult, len(urls))
	d.mu.Unlock()

	timeout := d.opts.Policy.Timeout()
	total := len(urls)

	g := new(errgroup.Group)
	g.SetLimit(d.opts.Workers)

	for _, u := range urls {
		u := u
		g.Go(func() error {
			d.runOne(ctx, u, total, timeout)
			return nil
		})
	}

	// Workers never return errors; failures surface as outcomes.
	_ = g.Wait()

	d.mu.Lock()
	results := make(RunResult, len(d.results))
	for k, v := range d.results {
		results[k] = v
	}
	d.mu.Unlock()

	return results, ctx.Err()
}

// runOne executes a single task inside a pool slot, bounding how long the
// slot waits for the task to finish.
func (d *Dispatcher) runOne(ctx context.Context, rawURL string, total int, timeout time.Duration) {
	name, err := fileNameFromURL(rawURL)
	if err != nil {
		d.progress(ProgressEvent{Message: fmt.Sprintf("skipping unusable url: %v", err), Level: LevelError, URL: rawURL})
		d.record(rawURL, OutcomePermanentlyFailed)
		return
	}

	t := &task{
		url:          rawURL,
		path:         filepath.Join(d.opts.OutputFolder, name),
		total:        total,
		policy:       d.opts.Policy,
		outputFolder: d.opts.OutputFolder,
		fetcher:      d.opts.Fetcher,
		sink:         d.opts.Sink,
		exists:       d.opts.Exists,
		ensureDir:    d.opts.EnsureDir,
		completed:    &d.completed,
		progress:     d.opts.OnProgress,
	}

	done := make(chan Outcome, 1)
	go func() {
		done <- t.run(ctx)
	}()

	var expired <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		expired = timer.C
	}

	select {
	case outcome := <-done:
		d.record(rawURL, outcome)
	case <-expired:
		d.progress(ProgressEvent{Message: fmt.Sprintf("timed out after %s", timeout), Level: LevelWarning, URL: rawURL})
		d.record(rawURL, OutcomeTimedOut)
	}
}

func (d *Dispatcher) record(url string, outcome Outcome) {
	d.mu.Lock()
	d.results[url] = outcome
	d.mu.Unlock()
}

func (d *Dispatcher) progress(event ProgressEvent) {
	if d.opts.OnProgress != nil {
		d.opts.OnProgress(event)
	}
}

// fileNameFromURL derives the destination file name from the basename of
// the URL's path component.
func fileNameFromURL(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse url: %w", err)
	}

	base := path.Base(u.Path)
	if base == "." || base == "/" {
		return "", fmt.Errorf("url %q has no file name", rawURL)
	}

	name := store.SanitizeFileName(base)
	if name == "" {
		return "", fmt.Errorf("url %q has no file name", rawURL)
	}
	return name, nil
}
