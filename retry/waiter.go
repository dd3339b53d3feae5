// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retry

import (
	"math"
	"math/rand"
	"sync"
	"time"
)

// A Waiter specifies how long to wait before retrying a failed request
// attempt.
//
// Implementations of Waiter must be safe for concurrent use by multiple
// goroutines.
//
// The retry plugin never calls the Waiter if the Decider returned false.
type Waiter interface {
	// Wait returns the wait before retry number n, where the first
	// retry has n equal to 1.
	Wait(n int) time.Duration
}

// NewFixedWaiter constructs a Waiter that always returns the given
// duration.
//
// Use NewFixedWaiter to obtain a constant retry backoff.
func NewFixedWaiter(d time.Duration) Waiter {
	return fixedWaiter(d)
}

type fixedWaiter time.Duration

func (w fixedWaiter) Wait(_ int) time.Duration {
	return time.Duration(w)
}

// NewExpWaiter constructs a Waiter implementing an exponential backoff
// formula with optional jitter.
//
// The wait before retry n is:
//
//	min(random * base * factor**(n-1), max)
//
// Parameter base must not be negative and factor must be positive. A max
// of zero or less means the wait is not capped, and otherwise max must be
// at least base.
//
// Parameter jitter controls random. To make a waiter that does not
// jitter, with random equal to 1, pass nil for jitter. Otherwise random
// is a number in [1, 2), and you may specify either a random number
// generator seed value (as a time.Time, int, or int64) or a random number
// generator (as a rand.Source or *rand.Rand).
func NewExpWaiter(base, max time.Duration, factor float64, jitter any) Waiter {
	if base < 0 {
		panic("fetchx/retry: base must not be negative")
	}
	if max > 0 && max < base {
		panic("fetchx/retry: max must be at least base")
	}
	if !(factor > 0) {
		panic("fetchx/retry: factor must be positive")
	}
	r := jitterToRand(jitter)
	return &jitterExpWaiter{
		base:   base,
		max:    max,
		factor: factor,
		rand:   r,
	}
}

type jitterExpWaiter struct {
	base   time.Duration
	max    time.Duration
	factor float64
	rand   *rand.Rand
	lock   sync.Mutex
}

func (w *jitterExpWaiter) Wait(n int) time.Duration {
	if n < 1 {
		n = 1
	}
	d := float64(w.base) * math.Pow(w.factor, float64(n-1))
	if w.rand != nil {
		w.lock.Lock()
		d *= 1 + w.rand.Float64()
		w.lock.Unlock()
	}
	if w.max > 0 && d > float64(w.max) {
		return w.max
	}
	if d >= math.MaxInt64 || math.IsNaN(d) {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(d)
}

func jitterToRand(jitter any) *rand.Rand {
	var s rand.Source
	switch j := jitter.(type) {
	case nil:
		return nil
	case time.Time:
		s = rand.NewSource(j.UnixNano())
	case int:
		s = rand.NewSource(int64(j))
	case int64:
		s = rand.NewSource(j)
	case *rand.Rand:
		if j == nil {
			panic("fetchx/retry: jitter may not be a typed nil")
		}
		return j
	case rand.Source:
		s = j
	default:
		panic("fetchx/retry: invalid jitter type")
	}
	return rand.New(s)
}
