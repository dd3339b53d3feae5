// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package requestid provides a fetchx plugin which tags each request with
// a unique ID header. Retried attempts carry the same ID as the first.
package requestid

import (
	"context"

	"github.com/gogama/fetchx"
	"github.com/gogama/fetchx/request"

	"github.com/google/uuid"
)

// Name is the name of the request ID plugin.
const Name = "requestid"

// DefaultHeader is the header the ID is sent in unless WithHeader is
// given.
const DefaultHeader = "x-request-id"

// ExtraKey is the Extra key the ID of a request is stored under.
const ExtraKey = "requestid"

// An Option configures the plugin.
type Option func(*Plugin)

// WithHeader sets the name of the header the ID is sent in.
func WithHeader(name string) Option {
	return func(p *Plugin) {
		p.header = name
	}
}

// WithGenerator sets the function generating IDs.
func WithGenerator(f func() string) Option {
	return func(p *Plugin) {
		p.generate = f
	}
}

// A Plugin sets a request ID header. Create one with New.
type Plugin struct {
	header   string
	generate func() string
}

// New returns a request ID plugin which generates random UUIDs.
func New(opts ...Option) *Plugin {
	p := &Plugin{
		header:   DefaultHeader,
		generate: func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name returns "requestid".
func (p *Plugin) Name() string {
	return Name
}

// Install installs the plugin into c.
func (p *Plugin) Install(c *fetchx.Client) {
	c.Hooks().Request.Before(p.before)
}

func (p *Plugin) before(_ context.Context, o *request.Options) error {
	id := o.HeaderValue(p.header)
	if id == "" {
		id = p.generate()
		o.SetHeader(p.header, id)
	}
	o.SetValue(ExtraKey, id)
	return nil
}

// FromOptions returns the request ID of o, if any.
func FromOptions(o *request.Options) string {
	id, _ := o.Value(ExtraKey).(string)
	return id
}
