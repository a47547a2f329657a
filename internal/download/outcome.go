package download

// Outcome is the terminal classification of a single URL's download task.
type Outcome int

const (
	// OutcomeSucceeded means the image was fetched and written to disk.
	OutcomeSucceeded Outcome = iota

	// OutcomeSkipped means the destination file already existed, so the
	// task finished without fetching. Treated as a success.
	OutcomeSkipped

	// OutcomePermanentlyFailed means every allowed attempt failed.
	OutcomePermanentlyFailed

	// OutcomeTimedOut means the task did not finish within the computed
	// per-task timeout.
	OutcomeTimedOut
)

// Success reports whether the outcome counts as a completed download.
func (o Outcome) Success() bool {
	return o == OutcomeSucceeded || o == OutcomeSkipped
}

// String returns a human-readable name for the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeSucceeded:
		return "succeeded"
	case OutcomeSkipped:
		return "skipped"
	case OutcomePermanentlyFailed:
		return "failed"
	case OutcomeTimedOut:
		return "timed out"
	default:
		return "unknown"
	}
}

// RunResult maps each distinct input URL to its final Outcome.
//
// A RunResult always contains exactly one entry per distinct URL that was
// submitted, regardless of completion order. When the input list contains
// duplicate URLs the entry reflects the last task to finish.
type RunResult map[string]Outcome
