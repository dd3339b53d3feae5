// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package transient

import (
	"errors"
	"syscall"
)

// A Category is the transience category of an error, as reported by
// Categorize.
//
// Not means a retry after the error is very unlikely to succeed, or that
// the error is not a network condition at all. Every other category means
// a retry has some prospect of success.
type Category int

const (
	// Not indicates any non-transient error.
	Not Category = iota
	// Timeout indicates a client-side timeout, such as a
	// *request.TimeoutError or an exceeded context deadline. Categorize
	// returns Timeout if the error or any of its wrapped causes has a
	// Timeout method that reports true.
	Timeout
	// ConnRefused indicates the remote host refused the connection. It
	// happens while a service is restarting and not yet listening.
	// Categorize returns ConnRefused for wrapped syscall.ECONNREFUSED.
	ConnRefused
	// ConnReset indicates the remote host reset a previously active
	// connection, often a load balancer or a service shut down mid
	// response. Categorize returns ConnReset for wrapped
	// syscall.ECONNRESET.
	ConnReset
)

var names = [...]string{
	Not:         "",
	Timeout:     "timeout",
	ConnRefused: "connection_refused",
	ConnReset:   "connection_reset",
}

// String returns the attribute value used to label errors of category c.
// Not has the empty name.
func (c Category) String() string {
	if c < 0 || int(c) >= len(names) {
		return ""
	}
	return names[c]
}

// Categorize returns the transience category of err. A nil error and a
// non-transient error both produce Not.
//
// Categorize looks at the causes wrapped within err, not just err itself,
// but never consults a Temporary method.
func Categorize(err error) Category {
	if err == nil {
		return Not
	}

	var t hasTimeout
	if errors.As(err, &t) && t.Timeout() {
		return Timeout
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		switch errno {
		case syscall.ECONNRESET:
			return ConnReset
		case syscall.ECONNREFUSED:
			return ConnRefused
		}
	}

	return Not
}

type hasTimeout interface {
	Timeout() bool
}
