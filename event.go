// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package fetchx

// An Event identifies one of the hooks a Client runs while making a
// request. Install interceptors on the matching Hooks field to extend a
// Client with custom functionality.
type Event int

const (
	// RequestHook identifies the outermost hook, run once per call
	// around the whole request, including any retries.
	//
	// Its options are the resolved request options, and its result is
	// the decoded response.
	RequestHook Event = iota
	// RetryHook identifies the hook run around each retried attempt,
	// but not around the first attempt. It only runs if a retry plugin
	// is installed.
	RetryHook
	// ParseOptionsHook identifies the hook run before every attempt to
	// build the *http.Request from the request options.
	ParseOptionsHook
	// ParseErrorHook identifies the hook run when an attempt fails
	// before a response is received. Its result is the error returned
	// to the caller.
	ParseErrorHook
	// ParseResponseHook identifies the hook run when an attempt
	// receives a response, to decode it into a response envelope.
	ParseResponseHook
	// eventSentinel provides the total number of events typed as an
	// Event.
	eventSentinel

	// numEvents provides the total number of events types as an int.
	numEvents = int(eventSentinel)
)

var eventNames = []string{
	"request",
	"retry",
	"parse-options",
	"parse-error",
	"parse-response",
}

// Events returns a slice containing all events, in the order in which
// their hooks are first run during a request.
func Events() []Event {
	return []Event{
		RequestHook,
		RetryHook,
		ParseOptionsHook,
		ParseErrorHook,
		ParseResponseHook,
	}
}

// Name returns the hook name of the event, for example "parse-options".
func (evt Event) Name() string {
	return eventNames[evt]
}

// String returns the hook name of the event.
func (evt Event) String() string {
	return evt.Name()
}
