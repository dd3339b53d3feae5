// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package abort provides cancellation signals with a reason, and merging
// of several signals into one.
//
// A signal is a context.Context. The abort reason travels as the context's
// cause, so context.Cause returns it.
package abort

import (
	"context"
	"sync"
)

type controllerKey struct{}

// A Controller owns a cancellable signal. The first call to Abort wins:
// its reason becomes the signal's reason and later calls have no effect.
//
// Listeners registered by Merge are notified synchronously, in
// registration order, from within Abort. When the parent context is
// cancelled first, they are notified from a separate goroutine.
type Controller struct {
	ctx    context.Context
	cancel context.CancelCauseFunc

	mu        sync.Mutex
	fired     bool
	listeners []*listener
}

type listener struct {
	f func(error)
}

// NewController returns a new controller whose signal is derived from
// parent. A nil parent means context.Background.
func NewController(parent context.Context) *Controller {
	if parent == nil {
		parent = context.Background()
	}
	c := &Controller{}
	c.ctx, c.cancel = context.WithCancelCause(context.WithValue(parent, controllerKey{}, c))
	context.AfterFunc(c.ctx, c.fire)
	return c
}

// Context returns the controller's signal.
func (c *Controller) Context() context.Context {
	return c.ctx
}

// Abort aborts the signal with reason, which defaults to context.Canceled
// when nil. Abort reports whether this call aborted the signal.
func (c *Controller) Abort(reason error) bool {
	if reason == nil {
		reason = context.Canceled
	}
	c.mu.Lock()
	if c.fired || c.ctx.Err() != nil {
		c.mu.Unlock()
		return false
	}
	c.fired = true
	ls := c.listeners
	c.listeners = nil
	c.cancel(reason)
	c.mu.Unlock()

	notify(ls, context.Cause(c.ctx))
	return true
}

// Aborted reports whether the signal has been aborted.
func (c *Controller) Aborted() bool {
	return c.ctx.Err() != nil
}

// Reason returns the abort reason, or nil if the signal is not aborted.
func (c *Controller) Reason() error {
	return Reason(c.ctx)
}

func (c *Controller) fire() {
	c.mu.Lock()
	if c.fired {
		c.mu.Unlock()
		return
	}
	c.fired = true
	ls := c.listeners
	c.listeners = nil
	c.mu.Unlock()

	notify(ls, context.Cause(c.ctx))
}

func notify(ls []*listener, reason error) {
	for _, l := range ls {
		l.f(reason)
	}
}

// listen registers f to be called with the abort reason. If the controller
// has already fired, f is called immediately. The returned function
// unregisters f.
func (c *Controller) listen(f func(error)) func() {
	c.mu.Lock()
	if c.fired {
		c.mu.Unlock()
		f(context.Cause(c.ctx))
		return func() {}
	}
	l := &listener{f: f}
	c.listeners = append(c.listeners, l)
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		for i := range c.listeners {
			if c.listeners[i] == l {
				c.listeners = append(c.listeners[:i], c.listeners[i+1:]...)
				return
			}
		}
	}
}

func (c *Controller) listenerCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.listeners)
}

// controllerOf returns the controller owning ctx, if ctx is exactly a
// controller's signal.
func controllerOf(ctx context.Context) *Controller {
	c, ok := ctx.Value(controllerKey{}).(*Controller)
	if ok && c.ctx == ctx {
		return c
	}
	return nil
}

// Aborted reports whether ctx is non-nil and done.
func Aborted(ctx context.Context) bool {
	return ctx != nil && ctx.Err() != nil
}

// Reason returns the reason ctx was aborted, or nil if ctx is nil or not
// done.
func Reason(ctx context.Context) error {
	if !Aborted(ctx) {
		return nil
	}
	return context.Cause(ctx)
}
