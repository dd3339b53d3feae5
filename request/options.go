// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"net/http"
	"strings"

	"golang.org/x/net/http/httpguts"
)

// Options describe one resolved HTTP request.
//
// Options are created fresh for each call, so hooks may modify them in
// place. A retried request is sent from the same Options, so changes made
// while sending one attempt are visible to the next.
type Options struct {
	// Method is the upper-case HTTP method.
	Method string

	// URL is the expanded request URL.
	URL string

	// Headers holds request headers keyed by lower-case name. It is
	// ignored when Header is set.
	Headers map[string]string

	// Header, if set, is sent as it is, and takes the place of Headers.
	Header http.Header

	// Body is the request body. A string, []byte, or io.Reader is sent
	// as it is; url.Values is sent form encoded; any other value is
	// serialized as JSON.
	Body any

	// Settings tune how the request is sent. May be nil.
	Settings *Settings

	// Extra holds pass-through values which are not part of the
	// request itself, for use by plugins.
	Extra map[string]any
}

// Setting returns the request's settings, never nil.
func (o *Options) Setting() *Settings {
	if o == nil || o.Settings == nil {
		return &Settings{}
	}
	return o.Settings
}

// Value returns the pass-through value stored under key.
func (o *Options) Value(key string) any {
	if o == nil {
		return nil
	}
	return o.Extra[key]
}

// SetValue stores a pass-through value under key.
func (o *Options) SetValue(key string, value any) {
	if o.Extra == nil {
		o.Extra = make(map[string]any)
	}
	o.Extra[key] = value
}

// HeaderValue returns the value of the named request header, looking in
// Header when it is set and in Headers otherwise.
func (o *Options) HeaderValue(name string) string {
	if o.Header != nil {
		return o.Header.Get(name)
	}
	return o.Headers[strings.ToLower(name)]
}

// SetHeader sets the named request header, in Header when it is set and
// in Headers otherwise.
func (o *Options) SetHeader(name, value string) {
	if o.Header != nil {
		o.Header.Set(name, value)
		return
	}
	if o.Headers == nil {
		o.Headers = make(map[string]string)
	}
	o.Headers[strings.ToLower(name)] = value
}

// String returns the method and URL.
func (o *Options) String() string {
	return "[" + o.Method + "] " + o.URL
}

// ValidMethod reports whether method is a valid HTTP method token.
func ValidMethod(method string) bool {
	/*
	     Method         = "OPTIONS"                ; Section 9.2
	                    | "GET"                    ; Section 9.3
	                    | "HEAD"                   ; Section 9.4
	                    | "POST"                   ; Section 9.5
	                    | "PUT"                    ; Section 9.6
	                    | "DELETE"                 ; Section 9.7
	                    | "TRACE"                  ; Section 9.8
	                    | "CONNECT"                ; Section 9.9
	                    | extension-method
	   extension-method = token
	     token          = 1*<any CHAR except CTLs or separators>
	*/
	return len(method) > 0 && strings.IndexFunc(method, isNotToken) == -1
}

func isNotToken(r rune) bool {
	return !httpguts.IsTokenRune(r)
}
