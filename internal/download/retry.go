package download

import (
	"math/rand"
	"time"
)

// RetryPolicy decides how long a task waits before each attempt and when
// its attempts are exhausted.
//
// With RandomSleepTime set, each delay is drawn uniformly from
// [MinSleepTime, MaxSleepTime). Otherwise every delay is the fixed
// SleepTime. A zero delay causes no suspension.
type RetryPolicy struct {
	// MaxAttempts is the number of fetch attempts allowed before a URL
	// is marked as failed. Zero means fail immediately without fetching.
	MaxAttempts int

	// SleepTime is the fixed delay applied before each attempt.
	SleepTime time.Duration

	// MinSleepTime and MaxSleepTime bound the randomized delay.
	// Used only when RandomSleepTime is set.
	MinSleepTime time.Duration
	MaxSleepTime time.Duration

	// RandomSleepTime randomizes the delay between MinSleepTime and
	// MaxSleepTime instead of using the fixed SleepTime.
	RandomSleepTime bool
}

// NextDelay returns the delay to apply before the given attempt.
//
// The delay does not currently depend on the attempt number; the parameter
// exists so a policy can grow backoff behavior without changing callers.
func (p RetryPolicy) NextDelay(attempt int) time.Duration {
	if !p.RandomSleepTime {
		return p.SleepTime
	}
	if p.MaxSleepTime <= p.MinSleepTime {
		return p.MinSleepTime
	}
	return p.MinSleepTime + time.Duration(rand.Int63n(int64(p.MaxSleepTime-p.MinSleepTime)))
}

// Exhausted reports whether the given attempt count has used up all
// allowed attempts. The attempt count is incremented before each fetch,
// so with MaxAttempts = N exactly N fetches happen before giving up.
func (p RetryPolicy) Exhausted(attempt int) bool {
	return attempt == p.MaxAttempts
}

// MaxDelay returns the worst-case delay for a single attempt.
func (p RetryPolicy) MaxDelay() time.Duration {
	if p.RandomSleepTime {
		return p.MaxSleepTime
	}
	return p.SleepTime
}

// Timeout returns the worst-case wall-clock bound for one task: the
// maximum per-attempt delay times the number of allowed attempts.
func (p RetryPolicy) Timeout() time.Duration {
	return p.MaxDelay() * time.Duration(p.MaxAttempts)
}
