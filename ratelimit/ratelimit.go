// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package ratelimit provides a fetchx plugin which limits the rate at
// which a client sends request attempts, retries included.
package ratelimit

import (
	"context"

	"github.com/gogama/fetchx"
	"github.com/gogama/fetchx/abort"
	"github.com/gogama/fetchx/request"

	"golang.org/x/time/rate"
)

// Name is the name of the rate limit plugin.
const Name = "ratelimit"

// A Plugin delays attempts to stay within a rate limit. Create one with
// New or NewLimit.
//
// Every client the plugin is installed into, including clients derived
// with Defaults and Extend, shares the same limiter.
type Plugin struct {
	limiter *rate.Limiter
}

// New returns a plugin which waits on limiter before every attempt.
func New(limiter *rate.Limiter) *Plugin {
	if limiter == nil {
		panic("fetchx/ratelimit: nil limiter")
	}
	return &Plugin{limiter: limiter}
}

// NewLimit returns a plugin allowing r attempts per second with bursts
// of at most burst attempts.
func NewLimit(r float64, burst int) *Plugin {
	return New(rate.NewLimiter(rate.Limit(r), burst))
}

// Name returns "ratelimit".
func (p *Plugin) Name() string {
	return Name
}

// Limiter returns the plugin's limiter.
func (p *Plugin) Limiter() *rate.Limiter {
	return p.limiter
}

// Install installs the plugin into c.
func (p *Plugin) Install(c *fetchx.Client) {
	c.Hooks().ParseOptions.Before(p.wait)
}

// wait blocks until the limiter allows an attempt. If the call context
// or the request signal is done first, it fails with the abort reason.
func (p *Plugin) wait(ctx context.Context, o *request.Options) error {
	signal, cancel := abort.Merge(ctx, o.Setting().Signal)
	defer cancel()
	if err := p.limiter.Wait(signal); err != nil {
		if signal.Err() != nil {
			return context.Cause(signal)
		}
		return &request.RequestError{Message: err.Error(), Request: o, Err: err}
	}
	return nil
}
