// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retry

import (
	"context"
	"errors"

	"github.com/gogama/fetchx/request"
	"github.com/gogama/fetchx/transient"
)

// An Attempt is the outcome of one failed attempt to send a request.
type Attempt struct {
	// Index is the zero-based index of the attempt. The first attempt
	// has index 0, the first retry index 1.
	Index int

	// Options are the request options.
	Options *request.Options

	// Response is the response received, if any.
	Response *request.Response

	// Err is the failure. A response with an error status is
	// reported as a *request.RequestError.
	Err error
}

// Status returns the status of the attempt's response, or zero if no
// response was received.
func (a *Attempt) Status() int {
	if a.Response != nil {
		return a.Response.Status
	}
	var re *request.RequestError
	if errors.As(a.Err, &re) {
		return re.Status
	}
	return 0
}

// A Decider decides if a retry should be done after a failed attempt.
//
// Implementations of Decider must be safe for concurrent use by
// multiple goroutines.
type Decider interface {
	Decide(a *Attempt) bool
}

// The DeciderFunc type is an adapter to allow the use of ordinary
// functions as retry deciders. It implements the Decider interface, and
// also provides the logical composition methods And, Or, and Not.
type DeciderFunc func(a *Attempt) bool

// Retryable is a decider that indicates a retry unless the attempt
// failed with a timeout or a cancellation.
var Retryable DeciderFunc = func(a *Attempt) bool {
	return !Terminal(a.Err)
}

// Transient is a decider that indicates a retry when the attempt failed
// because the connection was refused or reset. Timeouts are terminal and
// never transient for this decider.
var Transient DeciderFunc = func(a *Attempt) bool {
	c := transient.Categorize(a.Err)
	return c == transient.ConnRefused || c == transient.ConnReset
}

// Decide returns true if a retry should be done, and false otherwise.
func (f DeciderFunc) Decide(a *Attempt) bool {
	return f(a)
}

// And composes two retry deciders into a new decider which returns true
// if both sub-deciders return true, and false otherwise.
//
// Short-circuit logic is used, so g will not be evaluated if f returns
// false.
func (f DeciderFunc) And(g DeciderFunc) DeciderFunc {
	return func(a *Attempt) bool {
		return f(a) && g(a)
	}
}

// Or composes two retry deciders into a new decider which returns
// true if either of the two sub-deciders returns true, but false if
// they both return false.
//
// Short-circuit logic is used, so g will not be evaluated if f returns
// true.
func (f DeciderFunc) Or(g DeciderFunc) DeciderFunc {
	return func(a *Attempt) bool {
		return f(a) || g(a)
	}
}

// Not returns a decider which returns the opposite of f.
func (f DeciderFunc) Not() DeciderFunc {
	return func(a *Attempt) bool {
		return !f(a)
	}
}

// Times constructs a retry decider which allows up to n retries. The
// returned decider returns true while the attempt index is less than n.
func Times(n int) DeciderFunc {
	return func(a *Attempt) bool {
		return a.Index < n
	}
}

// StatusCode constructs a retry decider which returns true if the
// attempt's status is contained in the list ss.
func StatusCode(ss ...int) DeciderFunc {
	ss2 := make([]int, len(ss))
	copy(ss2, ss)
	return func(a *Attempt) bool {
		status := a.Status()
		for _, s := range ss2 {
			if status == s {
				return true
			}
		}
		return false
	}
}

// Terminal reports whether err ends a request without retry: a
// *request.TimeoutError or a context cancellation.
func Terminal(err error) bool {
	var te *request.TimeoutError
	return errors.As(err, &te) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}
