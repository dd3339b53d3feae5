// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package endpoint resolves routes and layered default parameters into
request options.

An Endpoint holds an immutable snapshot of default Parameters. Deriving a
new Endpoint with Defaults never changes the original, so one base
endpoint may be shared by many goroutines and specialized freely:

	api := endpoint.New(endpoint.Parameters{
		BaseURL: "https://api.example.com",
		Headers: map[string]string{"Accept": "application/json"},
		Params:  map[string]any{"lang": "en"},
	})
	o := api.Resolve("GET /users/{id}", endpoint.Parameters{
		Params: map[string]any{"id": 42},
	})
	// o.URL == "https://api.example.com/users/42?lang=en"

The URL is an RFC6570 URI template. Parameters which the template does not
reference are appended to the query string.
*/
package endpoint

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/gogama/fetchx/request"
	"github.com/gogama/fetchx/uritemplate"
)

// Parameters describe a request, or defaults for requests, before
// resolution. Empty fields inherit from the defaults they are merged onto.
type Parameters struct {
	// BaseURL is prepended to URL unless URL is absolute.
	BaseURL string

	// Method is the HTTP method. Case is not significant.
	Method string

	// URL is an RFC6570 URI template. Colon path parameters such as
	// "/users/:id" are accepted as a synonym for "/users/{id}".
	URL string

	// Headers are merged case-insensitively onto inherited headers. An
	// empty value removes an inherited header.
	Headers map[string]string

	// Header, if set, replaces all inherited headers and is sent as it
	// is.
	Header http.Header

	// Body is the request body.
	Body any

	// Params are the URI template values. They are merged recursively
	// onto inherited values, and a nil value removes an inherited one.
	Params map[string]any

	// Request holds the settings for sending the request. Fields set
	// here override inherited ones.
	Request *request.Settings

	// Extra holds pass-through values for plugins. They merge like
	// Params, except that a value implementing Merger merges itself
	// with the value replacing it.
	Extra map[string]any
}

// A Merger is an Extra value which knows how to merge a newer value onto
// itself. MergeWith must not modify the receiver.
type Merger interface {
	MergeWith(newer any) any
}

// An Endpoint resolves routes against a snapshot of default Parameters.
// An Endpoint is immutable and safe for concurrent use.
type Endpoint struct {
	defaults Parameters
}

var root = &Endpoint{defaults: Parameters{Method: "GET"}}

// New returns an endpoint whose defaults are p merged onto the library
// defaults, an empty base URL and the GET method.
func New(p Parameters) *Endpoint {
	return root.Defaults(p)
}

// Defaults returns a new endpoint whose defaults are p merged onto e's.
func (e *Endpoint) Defaults(p Parameters) *Endpoint {
	return &Endpoint{defaults: merge(e.defaults, p)}
}

// DefaultParameters returns a copy of e's defaults.
func (e *Endpoint) DefaultParameters() Parameters {
	return e.defaults.clone()
}

// Merge merges route and p onto e's defaults.
//
// The route is either empty, a URL, or a method and URL separated by
// whitespace, for example "POST /users". A method or URL set in p takes
// precedence over the route's.
func (e *Endpoint) Merge(route string, p Parameters) Parameters {
	method, url := splitRoute(route)
	if p.Method == "" {
		p.Method = method
	}
	if p.URL == "" {
		p.URL = url
	}
	return merge(e.defaults, p)
}

// Resolve merges route and p onto e's defaults and parses the result.
// Resolution never fails: a missing URL resolves to "/" and a missing
// method to GET.
func (e *Endpoint) Resolve(route string, p Parameters) *request.Options {
	return Parse(e.Merge(route, p))
}

// Parse resolves fully merged parameters into request options.
func (e *Endpoint) Parse(p Parameters) *request.Options {
	return Parse(p)
}

var (
	colonParam = regexp.MustCompile(`(^|/):([A-Za-z_]\w*)`)
	absolute   = regexp.MustCompile(`(?i)^http`)
)

// Parse resolves fully merged parameters into request options.
func Parse(p Parameters) *request.Options {
	url := p.URL
	if url == "" {
		url = "/"
	}
	url = colonParam.ReplaceAllString(url, "${1}{${2}}")
	if !absolute.MatchString(url) {
		url = p.BaseURL + url
	}

	method := strings.ToUpper(p.Method)
	if method == "" {
		method = http.MethodGet
	}

	o := &request.Options{
		Method:   method,
		URL:      uritemplate.ExpandAll(url, p.Params),
		Body:     p.Body,
		Settings: p.Request.Merge(nil),
		Extra:    copyMap(p.Extra),
	}
	if p.Header != nil {
		o.Header = p.Header.Clone()
	} else if len(p.Headers) > 0 {
		o.Headers = copyHeaders(p.Headers)
	}
	return o
}

func splitRoute(route string) (method, url string) {
	f := strings.Fields(route)
	switch len(f) {
	case 0:
		return "", ""
	case 1:
		return "", f[0]
	default:
		return f[0], f[1]
	}
}
