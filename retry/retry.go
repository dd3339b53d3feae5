// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retry

import (
	"context"
	"time"

	"github.com/gogama/fetchx"
	"github.com/gogama/fetchx/hook"
	"github.com/gogama/fetchx/request"
)

// Name is the name of the retry plugin.
const Name = "retry"

// A Plugin retries failed requests. Create one with New.
type Plugin struct {
	settings Settings
	decider  Decider
	waiter   Waiter
}

// An Option customizes a Plugin.
type Option func(*Plugin)

// WithDecider makes the plugin decide retries with d instead of the
// decider built from the policy, so Retries is no longer consulted.
// Responses with a DoNotRetry status are still returned without asking
// d, and an aborted request is never retried.
func WithDecider(d Decider) Option {
	return func(p *Plugin) {
		p.decider = d
	}
}

// WithWaiter makes the plugin wait w.Wait(n) before retry n instead of
// using the policy's exponential backoff.
func WithWaiter(w Waiter) Option {
	return func(p *Plugin) {
		p.waiter = w
	}
}

// New returns a retry plugin with the given settings layered over
// DefaultPolicy.
func New(s Settings, opts ...Option) *Plugin {
	p := &Plugin{settings: Settings{}.Merge(s)}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name returns "retry".
func (p *Plugin) Name() string {
	return Name
}

// Settings returns the plugin's settings.
func (p *Plugin) Settings() Settings {
	return Settings{}.Merge(p.settings)
}

// Install installs the plugin into c. It installs nothing unless retry
// is enabled by the plugin's settings merged with the retry settings in
// c's default Extra values.
func (p *Plugin) Install(c *fetchx.Client) {
	global := p.settings
	if s, ok := settingsOf(c.Endpoint().DefaultParameters().Extra[ExtraKey]); ok {
		global = global.Merge(s)
	}
	if !global.Policy().Enabled {
		return
	}
	r := &retrier{client: c, settings: p.settings, decider: p.decider, waiter: p.waiter}
	c.Hooks().Request.Wrap(r.wrap)
}

type retrier struct {
	client   *fetchx.Client
	settings Settings
	decider  Decider
	waiter   Waiter
}

func (r *retrier) policy(o *request.Options) Policy {
	s := r.settings
	if v, ok := settingsOf(o.Value(ExtraKey)); ok {
		s = s.Merge(v)
	}
	return s.Policy()
}

func (r *retrier) wrap(ctx context.Context, next hook.Method[*request.Options, *request.Response], o *request.Options) (*request.Response, error) {
	policy := r.policy(o)
	if !policy.Enabled {
		return next(ctx, o)
	}
	var decider Decider = policy.Decider()
	if r.decider != nil {
		decider = r.decider
	}
	waiter := r.waiter
	if waiter == nil {
		waiter = policy.Waiter()
	}
	logger := r.client.Logger()

	for i := 0; ; i++ {
		var resp *request.Response
		var err error
		if i == 0 {
			resp, err = next(ctx, o)
		} else {
			resp, err = r.client.Hooks().Retry.Run(ctx, next, o)
		}

		a := &Attempt{Index: i, Options: o, Response: resp, Err: err}
		doNotRetry := StatusCode(policy.DoNotRetry...)(a)
		if err == nil {
			if resp == nil || resp.Status < 400 || doNotRetry {
				return resp, nil
			}
			a.Err = &request.RequestError{
				Message:    "Request failed",
				Status:     resp.Status,
				StatusText: resp.StatusText,
				Request:    o,
				Response:   resp,
			}
		}

		if doNotRetry || aborted(ctx, o) || !decider.Decide(a) {
			return nil, a.Err
		}

		d := waiter.Wait(i + 1)
		logger.Debug().
			Str("method", o.Method).
			Str("url", o.URL).
			Int("attempt", i+2).
			Dur("wait", d).
			AnErr("cause", a.Err).
			Msg("fetchx/retry: retrying request")
		if err := sleep(ctx, o.Setting().Signal, d); err != nil {
			return nil, err
		}
	}
}

func aborted(ctx context.Context, o *request.Options) bool {
	if ctx.Err() != nil {
		return true
	}
	signal := o.Setting().Signal
	return signal != nil && signal.Err() != nil
}

// sleep waits for d, returning early with the abort reason if ctx or
// signal is done first.
func sleep(ctx context.Context, signal context.Context, d time.Duration) error {
	var done <-chan struct{}
	if signal != nil {
		done = signal.Done()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return context.Cause(ctx)
	case <-done:
		return context.Cause(signal)
	}
}
