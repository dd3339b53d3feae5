// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package fetchx

import (
	"context"

	"github.com/gogama/fetchx/endpoint"
	"github.com/gogama/fetchx/request"
)

// Doer is the interface that wraps the basic Do method.
//
// Do resolves a route and parameters into a request, sends it, and
// returns the decoded response (and error, if any). Client implements the
// Doer interface, and any other Doer implementation must behave
// substantially the same as Client.Do.
type Doer interface {
	Do(ctx context.Context, route string, p endpoint.Parameters) (*request.Response, error)
}

// Get uses the specified Doer to issue a GET to the specified URL
// template, using the same policies as d.Do.
//
// Template parameters, headers and settings are taken from p. Any method
// set in p is replaced with GET.
func Get(ctx context.Context, d Doer, url string, p endpoint.Parameters) (*request.Response, error) {
	return verb(ctx, d, "GET", url, p)
}

// Head uses the specified Doer to issue a HEAD to the specified URL
// template, using the same policies as d.Do.
func Head(ctx context.Context, d Doer, url string, p endpoint.Parameters) (*request.Response, error) {
	return verb(ctx, d, "HEAD", url, p)
}

// Post uses the specified Doer to issue a POST to the specified URL
// template with the given body, using the same policies as d.Do.
//
// The body may be nil for an empty body, one of string, []byte,
// io.Reader, and url.Values to be sent as is, or any other value to be
// encoded as JSON.
func Post(ctx context.Context, d Doer, url string, body any, p endpoint.Parameters) (*request.Response, error) {
	p.Body = body
	return verb(ctx, d, "POST", url, p)
}

// Put uses the specified Doer to issue a PUT to the specified URL
// template with the given body, using the same policies as d.Do.
func Put(ctx context.Context, d Doer, url string, body any, p endpoint.Parameters) (*request.Response, error) {
	p.Body = body
	return verb(ctx, d, "PUT", url, p)
}

// Patch uses the specified Doer to issue a PATCH to the specified URL
// template with the given body, using the same policies as d.Do.
func Patch(ctx context.Context, d Doer, url string, body any, p endpoint.Parameters) (*request.Response, error) {
	p.Body = body
	return verb(ctx, d, "PATCH", url, p)
}

// Delete uses the specified Doer to issue a DELETE to the specified URL
// template, using the same policies as d.Do.
func Delete(ctx context.Context, d Doer, url string, p endpoint.Parameters) (*request.Response, error) {
	return verb(ctx, d, "DELETE", url, p)
}

func verb(ctx context.Context, d Doer, method, url string, p endpoint.Parameters) (*request.Response, error) {
	p.Method = method
	p.URL = url
	return d.Do(ctx, "", p)
}

// Get issues a GET to the specified URL template. See package function
// Get.
func (c *Client) Get(ctx context.Context, url string, p endpoint.Parameters) (*request.Response, error) {
	return Get(ctx, c, url, p)
}

// Head issues a HEAD to the specified URL template.
func (c *Client) Head(ctx context.Context, url string, p endpoint.Parameters) (*request.Response, error) {
	return Head(ctx, c, url, p)
}

// Post issues a POST to the specified URL template with the given body.
// See package function Post for the body types supported.
func (c *Client) Post(ctx context.Context, url string, body any, p endpoint.Parameters) (*request.Response, error) {
	return Post(ctx, c, url, body, p)
}

// Put issues a PUT to the specified URL template with the given body.
func (c *Client) Put(ctx context.Context, url string, body any, p endpoint.Parameters) (*request.Response, error) {
	return Put(ctx, c, url, body, p)
}

// Patch issues a PATCH to the specified URL template with the given body.
func (c *Client) Patch(ctx context.Context, url string, body any, p endpoint.Parameters) (*request.Response, error) {
	return Patch(ctx, c, url, body, p)
}

// Delete issues a DELETE to the specified URL template.
func (c *Client) Delete(ctx context.Context, url string, p endpoint.Parameters) (*request.Response, error) {
	return Delete(ctx, c, url, p)
}
