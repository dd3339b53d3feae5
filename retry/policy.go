// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retry

import (
	"time"
)

// A Policy is a resolved set of retry settings.
type Policy struct {
	// Enabled indicates whether retries are done at all.
	Enabled bool

	// Retries is the maximum number of attempts after the first.
	Retries int

	// DoNotRetry lists the HTTP status codes which are never retried.
	DoNotRetry []int

	// Factor is the exponential backoff factor.
	Factor float64

	// MinTimeout is the wait before the first retry.
	MinTimeout time.Duration

	// MaxTimeout caps the wait before any retry. Zero or less means no
	// cap.
	MaxTimeout time.Duration

	// Randomize multiplies each wait by a random factor in [1, 2).
	Randomize bool
}

// DefaultPolicy holds the values used for settings which are not set.
// Retry is disabled by default.
var DefaultPolicy = Policy{
	Enabled:    false,
	DoNotRetry: []int{400, 401, 403, 404, 422, 451},
	Retries:    3,
	Factor:     2,
	MinTimeout: time.Second,
	MaxTimeout: 0,
	Randomize:  false,
}

// Decider returns the decider implementing p: retry until Retries
// retries are used up, unless the status is in DoNotRetry or the error
// is not Retryable.
func (p Policy) Decider() DeciderFunc {
	return Times(p.Retries).
		And(StatusCode(p.DoNotRetry...).Not()).
		And(Retryable)
}

// Waiter returns the backoff schedule of p. Out of range values are
// clamped: a negative MinTimeout to zero, a MinTimeout above a
// positive MaxTimeout to MaxTimeout, and a non-positive Factor to the
// default factor.
func (p Policy) Waiter() Waiter {
	base, max, factor := p.MinTimeout, p.MaxTimeout, p.Factor
	if base < 0 {
		base = 0
	}
	if max > 0 && base > max {
		base = max
	}
	if !(factor > 0) {
		factor = DefaultPolicy.Factor
	}
	var jitter any
	if p.Randomize {
		jitter = time.Now()
	}
	return NewExpWaiter(base, max, factor, jitter)
}
