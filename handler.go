// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package fetchx

import (
	"net/http"

	"github.com/gogama/fetchx/hook"
	"github.com/gogama/fetchx/request"
)

// Hooks holds a Client's interception points. Each field is an
// independent chain of before, after, error, and wrap interceptors.
//
// Every Client owns its own Hooks. A Client derived with Defaults or
// Extend starts with fresh Hooks and reinstalls its plugins.
type Hooks struct {
	// Request runs once per call around the entire request.
	Request hook.Hook[*request.Options, *request.Response]

	// Retry runs around each retried attempt. Its method is the next
	// layer of the Request hook.
	Retry hook.Hook[*request.Options, *request.Response]

	// ParseOptions builds the *http.Request for every attempt.
	ParseOptions hook.Hook[*request.Options, *http.Request]

	// ParseError turns a failed attempt into the error returned.
	ParseError hook.Hook[*ParseErrorInput, error]

	// ParseResponse decodes a received response.
	ParseResponse hook.Hook[*ParseResponseInput, *request.Response]
}

// Len returns the number of interceptors installed in stage s of the
// hook identified by evt.
func (h *Hooks) Len(evt Event, s hook.Stage) int {
	switch evt {
	case RequestHook:
		return h.Request.Len(s)
	case RetryHook:
		return h.Retry.Len(s)
	case ParseOptionsHook:
		return h.ParseOptions.Len(s)
	case ParseErrorHook:
		return h.ParseError.Len(s)
	case ParseResponseHook:
		return h.ParseResponse.Len(s)
	}
	return 0
}

// ParseErrorInput is the input of the ParseError hook.
type ParseErrorInput struct {
	// Err is the failure. When Aborted is true, Err is the reason the
	// request's signal was aborted, for example a *request.TimeoutError.
	Err error

	// Options are the options of the failed request.
	Options *request.Options

	// Aborted indicates the attempt failed because the call context,
	// the request's signal, or its timeout was done.
	Aborted bool
}

// ParseResponseInput is the input of the ParseResponse hook.
type ParseResponseInput struct {
	// HTTPResponse is the response received. Its body is closed after
	// the hook returns unless the result's Data is the body itself.
	HTTPResponse *http.Response

	// Options are the options of the request.
	Options *request.Options
}
