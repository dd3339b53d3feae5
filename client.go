// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package fetchx

import (
	"context"

	"github.com/gogama/fetchx/endpoint"
	"github.com/gogama/fetchx/request"

	"github.com/rs/zerolog"
)

// An HTTPDoer implements a Do method in the same manner as the GoLang
// standard library http.Client from the net/http package. Set one in
// request.Settings to control how requests are sent.
type HTTPDoer = request.HTTPDoer

// Options configure a new Client.
type Options struct {
	// Parameters are the client's default request parameters: base URL,
	// method, headers, template parameters, body, and request settings.
	endpoint.Parameters

	// UserAgent, if set, is sent as the User-Agent header.
	UserAgent string

	// Logger receives the client's log output. Nil means no logging.
	Logger *zerolog.Logger
}

// A Client resolves routes into requests and sends them through its
// hooks. A Client is safe for concurrent use by multiple goroutines, and
// its defaults are immutable: Defaults and Extend return new clients and
// never modify the original.
//
// A Client is higher-level than an HTTPDoer. The HTTPDoer is responsible
// for all details of sending the HTTP request and receiving the response,
// while Client adds the following features on top:
//
// • Client expands RFC6570 URI templates against layered default
// parameters;
//
// • Client serializes JSON request bodies and decodes response bodies
// according to their content type;
//
// • Client applies request timeouts and cancellation signals;
//
// • Client reports HTTP error statuses and transport failures as typed
// errors from package request; and
//
// • Client runs user-provided interceptors at each stage of a request,
// allowing new features such as retry to be mixed in as plugins.
type Client struct {
	endpoint *endpoint.Endpoint
	hooks    *Hooks
	plugins  []Plugin
	logger   *zerolog.Logger
}

var nopLogger = zerolog.Nop()

// New returns a client with the given options and plugins. Plugins are
// installed in order, and a plugin whose name repeats an earlier one's is
// ignored.
func New(opts Options, plugins ...Plugin) *Client {
	p := opts.Parameters
	if opts.UserAgent != "" {
		headers := make(map[string]string, len(p.Headers)+1)
		for k, v := range p.Headers {
			headers[k] = v
		}
		headers["user-agent"] = opts.UserAgent
		p.Headers = headers
	}
	logger := opts.Logger
	if logger == nil {
		logger = &nopLogger
	}
	return newClient(endpoint.New(p), logger, dedupe(nil, plugins))
}

func newClient(e *endpoint.Endpoint, logger *zerolog.Logger, plugins []Plugin) *Client {
	c := &Client{
		endpoint: e,
		hooks:    &Hooks{},
		plugins:  plugins,
		logger:   logger,
	}
	for _, p := range c.plugins {
		p.Install(c)
	}
	return c
}

// Defaults returns a new client whose default parameters are p merged
// onto c's. The new client has its own hooks, with c's plugins installed.
func (c *Client) Defaults(p endpoint.Parameters) *Client {
	return newClient(c.endpoint.Defaults(p), c.logger, c.plugins)
}

// Extend returns a new client with the same defaults as c and with
// plugins added after c's. The new client has its own hooks.
func (c *Client) Extend(plugins ...Plugin) *Client {
	return newClient(c.endpoint, c.logger, dedupe(c.plugins, plugins))
}

// Hooks returns the client's hooks, for installing interceptors.
func (c *Client) Hooks() *Hooks {
	return c.hooks
}

// Endpoint returns the endpoint holding the client's defaults.
func (c *Client) Endpoint() *endpoint.Endpoint {
	return c.endpoint
}

// Logger returns the client's logger. It is never nil.
func (c *Client) Logger() *zerolog.Logger {
	return c.logger
}

// Plugins returns the client's plugins in installation order.
func (c *Client) Plugins() []Plugin {
	out := make([]Plugin, len(c.plugins))
	copy(out, c.plugins)
	return out
}

// Do resolves route and p against the client's defaults and sends the
// request.
//
// The route is either empty, a URL template, or a method and URL template
// separated by whitespace, for example "GET /users/{id}". A method or URL
// set in p takes precedence over the route's.
//
// A nil error means a response was received and, unless
// ThrowResponseError is false, that its status is below 400. Every error
// is one of *request.Error, *request.RequestError, or
// *request.TimeoutError, except that when ctx or the request signal is
// done the error is the signal's cause.
func (c *Client) Do(ctx context.Context, route string, p endpoint.Parameters) (*request.Response, error) {
	if ctx == nil {
		return nil, request.NewError("fetchx: nil context")
	}
	o := c.endpoint.Resolve(route, p)
	c.logger.Debug().
		Str("method", o.Method).
		Str("url", o.URL).
		Msg("fetchx: resolved request")
	return c.Send(ctx, o)
}

// Send sends already resolved request options through the client's
// hooks.
func (c *Client) Send(ctx context.Context, o *request.Options) (*request.Response, error) {
	return c.hooks.Request.Run(ctx, c.send, o)
}

func (c *Client) send(ctx context.Context, o *request.Options) (*request.Response, error) {
	return send(ctx, c.hooks, o)
}
