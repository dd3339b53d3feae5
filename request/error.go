// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"errors"
	"strconv"
	"strings"
)

type classified interface {
	error
	classified()
}

// Classified reports whether err is, or wraps, an *Error, *RequestError,
// or *TimeoutError.
func Classified(err error) bool {
	var c classified
	return errors.As(err, &c)
}

// Error is the root of the error taxonomy, used for simple programmatic
// failures.
type Error struct {
	Message string
}

// NewError returns an *Error with the given message.
func NewError(message string) *Error {
	return &Error{Message: message}
}

func (e *Error) Error() string {
	return e.Message
}

func (*Error) classified() {}

// A RequestError reports an HTTP response with an error status, or a
// failure to send the request.
type RequestError struct {
	// Message describes the failure, for example "Request failed".
	Message string

	// Status is the HTTP status code, or zero if no response was
	// received.
	Status int

	// StatusText is the reason phrase of the response.
	StatusText string

	// Request is the request that failed.
	Request *Options

	// Response is the response received, if any.
	Response *Response

	// Err is the underlying error, if any.
	Err error
}

// Error returns "[METHOD] url (status statusText) message", omitting
// the parts which are not known.
func (e *RequestError) Error() string {
	parts := make([]string, 0, 3)
	if e.Request != nil {
		parts = append(parts, e.Request.String())
	}
	if e.Status != 0 {
		s := "(" + strconv.Itoa(e.Status)
		if e.StatusText != "" {
			s += " " + e.StatusText
		}
		parts = append(parts, s+")")
	}
	if e.Message != "" {
		parts = append(parts, e.Message)
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

// Unwrap returns the underlying error.
func (e *RequestError) Unwrap() error {
	return e.Err
}

func (*RequestError) classified() {}

// A TimeoutError reports that a request's timeout elapsed before the
// response arrived.
type TimeoutError struct {
	// Request is the request that timed out.
	Request *Options
}

func (e *TimeoutError) Error() string {
	return "Request Timeout"
}

// Timeout returns true. It lets a *TimeoutError satisfy the net.Error
// style of timeout detection.
func (e *TimeoutError) Timeout() bool {
	return true
}

func (*TimeoutError) classified() {}
