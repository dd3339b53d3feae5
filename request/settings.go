// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// HTTPDoer is the interface for the transport a request is sent with.
// *http.Client implements HTTPDoer.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// ResponseType selects how a response body is decoded into
// Response.Data.
type ResponseType string

const (
	// ResponseJSON decodes the body as JSON into an any value.
	ResponseJSON ResponseType = "json"
	// ResponseText decodes the body into a string.
	ResponseText ResponseType = "text"
	// ResponseBlob reads the body into a Blob.
	ResponseBlob ResponseType = "blob"
	// ResponseStream leaves the body unread. Data is the open
	// io.ReadCloser, which the caller must close.
	ResponseStream ResponseType = "stream"
	// ResponseFormData parses the body into a *multipart.Form.
	ResponseFormData ResponseType = "formData"
	// ResponseArrayBuffer reads the body into a []byte.
	ResponseArrayBuffer ResponseType = "arrayBuffer"
)

var responseTypes = []ResponseType{
	ResponseJSON,
	ResponseText,
	ResponseBlob,
	ResponseStream,
	ResponseFormData,
	ResponseArrayBuffer,
}

// ResponseTypes returns all response types.
func ResponseTypes() []ResponseType {
	out := make([]ResponseType, len(responseTypes))
	copy(out, responseTypes)
	return out
}

// Normalize returns the canonical spelling of t. Matching is case
// insensitive, so "arraybuffer" normalizes to ResponseArrayBuffer. An
// unknown type normalizes to the empty string.
func (t ResponseType) Normalize() ResponseType {
	for _, u := range responseTypes {
		if strings.EqualFold(string(t), string(u)) {
			return u
		}
	}
	return ""
}

// Settings tune how a single request is sent. The zero value sends with
// http.DefaultClient, no timeout, JSON body serialization, and an error for
// 4xx and 5xx responses.
//
// Pointer fields distinguish "not set" from the zero value, so that
// settings layered by Merge override only what they set.
type Settings struct {
	// Signal cancels the request when it is done, in addition to the
	// context passed to the client. Its cause is returned as the error.
	Signal context.Context

	// Timeout is the time allowed for the response headers to arrive,
	// after which the request fails with a *TimeoutError. A nil Timeout
	// means no timeout and a non-positive one times out immediately.
	Timeout *time.Duration

	// ResponseType forces how the response body is decoded. Empty means
	// derive it from the response's Content-Type.
	ResponseType ResponseType

	// AutoParseRequestBody controls JSON serialization of non-raw bodies.
	// Nil means true.
	AutoParseRequestBody *bool

	// ThrowResponseError controls whether a 4xx or 5xx response is
	// returned as a *RequestError. Nil means true.
	ThrowResponseError *bool

	// HTTPDoer sends the request. Nil means http.DefaultClient.
	HTTPDoer HTTPDoer
}

// Merge returns new settings holding s overridden by every field set in
// newer. Neither s nor newer is modified, and either may be nil.
func (s *Settings) Merge(newer *Settings) *Settings {
	if s == nil && newer == nil {
		return nil
	}
	out := &Settings{}
	if s != nil {
		*out = *s
	}
	if newer == nil {
		return out
	}
	if newer.Signal != nil {
		out.Signal = newer.Signal
	}
	if newer.Timeout != nil {
		out.Timeout = newer.Timeout
	}
	if newer.ResponseType != "" {
		out.ResponseType = newer.ResponseType
	}
	if newer.AutoParseRequestBody != nil {
		out.AutoParseRequestBody = newer.AutoParseRequestBody
	}
	if newer.ThrowResponseError != nil {
		out.ThrowResponseError = newer.ThrowResponseError
	}
	if newer.HTTPDoer != nil {
		out.HTTPDoer = newer.HTTPDoer
	}
	return out
}

// AutoParse reports whether non-raw bodies are serialized as JSON.
func (s *Settings) AutoParse() bool {
	return s == nil || s.AutoParseRequestBody == nil || *s.AutoParseRequestBody
}

// Throw reports whether 4xx and 5xx responses are returned as errors.
func (s *Settings) Throw() bool {
	return s == nil || s.ThrowResponseError == nil || *s.ThrowResponseError
}

// Doer returns the HTTPDoer to send with.
func (s *Settings) Doer() HTTPDoer {
	if s == nil || s.HTTPDoer == nil {
		return http.DefaultClient
	}
	return s.HTTPDoer
}
