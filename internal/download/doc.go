// Package download implements the concurrent download-retry-completion
// engine: a bounded worker pool that fetches a list of image URLs,
// applies a per-task retry policy, enforces a per-task timeout and
// aggregates final per-URL outcomes.
//
// # Dispatcher
//
// The Dispatcher coordinates one run over a URL list:
//
//	d := download.NewDispatcher(download.Options{
//	    Workers:      4,
//	    Policy:       download.RetryPolicy{MaxAttempts: 5, SleepTime: time.Second},
//	    OutputFolder: "images",
//	    Fetcher:      client,
//	    Sink:         sink,
//	    OnProgress:   func(e download.ProgressEvent) { fmt.Println(e.Message) },
//	})
//
//	results, err := d.Run(ctx, urls)
//
// # Task lifecycle
//
// Each URL becomes one task. A task first checks whether its destination
// file already exists (skip, counted as success - this makes reruns over a
// partially downloaded list idempotent), then loops: exhaustion check,
// delay, fetch, store. Fetch and store errors both consume an attempt and
// retry; only attempt count decides when to give up.
//
// # Timeouts
//
// Before submitting, the Dispatcher computes a per-task timeout of
// Policy.MaxDelay() * MaxAttempts. A task that does not finish within
// that bound is recorded as OutcomeTimedOut and its pool slot released.
// The underlying attempt is not interrupted; it winds down on its own
// once the run's context is cancelled.
//
// # Shared state
//
// The completion counter is an atomic integer scoped to one run,
// incremented exactly once per successful (or skipped) task and read only
// for progress display. The outcome map is mutex-guarded; every submitted
// URL ends up with exactly one Outcome.
package download
