// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package hook provides an ordered interception chain around a single
operation.

A Hook has four stages. Before interceptors run first, in registration
order, and may modify the options. Wrap interceptors replace the operation:
the most recently registered wrap is outermost and decides whether and how
to call the next layer. After interceptors run in registration order on
success. Error interceptors run in registration order on any failure and
may recover by returning a result with a nil error.

	var h hook.Hook[*Options, *Result]
	h.Before(func(ctx context.Context, o *Options) error {
		o.Header.Set("X-Trace", "1")
		return nil
	})
	res, err := h.Run(ctx, send, opts)
*/
package hook

import (
	"context"
	"sync"
)

// A Method is the operation a Hook runs around.
type Method[O, R any] func(ctx context.Context, o O) (R, error)

// A BeforeFunc runs before the operation. A non-nil error skips the
// operation.
type BeforeFunc[O any] func(ctx context.Context, o O) error

// An AfterFunc runs after the operation succeeds. A non-nil error turns
// the call into a failure.
type AfterFunc[O, R any] func(ctx context.Context, r R, o O) error

// An ErrorFunc runs when the call fails. Returning a nil error recovers
// the call with the returned result. Returning a non-nil error replaces
// the error seen by later ErrorFuncs and the caller.
type ErrorFunc[O, R any] func(ctx context.Context, err error, o O) (R, error)

// A WrapFunc runs in place of the next layer, which it may call any
// number of times.
type WrapFunc[O, R any] func(ctx context.Context, next Method[O, R], o O) (R, error)

// Stage identifies the stage an interceptor was registered in.
type Stage int

const (
	// Before is the stage of BeforeFunc interceptors.
	Before Stage = iota
	// After is the stage of AfterFunc interceptors.
	After
	// Error is the stage of ErrorFunc interceptors.
	Error
	// Wrap is the stage of WrapFunc interceptors.
	Wrap
	numStages
)

var stageNames = []string{"before", "after", "error", "wrap"}

// Name returns the lower-case name of the stage.
func (s Stage) Name() string {
	return stageNames[s]
}

// String returns the name of the stage.
func (s Stage) String() string {
	return s.Name()
}

// Stages returns a slice of all stages.
func Stages() []Stage {
	return []Stage{Before, After, Error, Wrap}
}

// A Registration identifies one registered interceptor, for removal.
type Registration struct {
	stage Stage
	id    uint64
}

// Stage returns the stage the interceptor was registered in.
func (r Registration) Stage() Stage {
	return r.stage
}

type entry[F any] struct {
	id uint64
	f  F
}

// A Hook is an ordered interception chain. The zero value is an empty
// Hook ready to use. A Hook is safe for concurrent use, and Run works
// from a snapshot, so registering or removing interceptors never affects
// calls already in flight.
type Hook[O, R any] struct {
	mu     sync.Mutex
	seq    uint64
	before []entry[BeforeFunc[O]]
	after  []entry[AfterFunc[O, R]]
	errs   []entry[ErrorFunc[O, R]]
	wraps  []entry[WrapFunc[O, R]]
}

func (h *Hook[O, R]) next() uint64 {
	h.seq++
	return h.seq
}

// Before registers f in the before stage.
func (h *Hook[O, R]) Before(f BeforeFunc[O]) Registration {
	if f == nil {
		panic("fetchx/hook: nil BeforeFunc")
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.next()
	h.before = append(h.before, entry[BeforeFunc[O]]{id, f})
	return Registration{Before, id}
}

// After registers f in the after stage.
func (h *Hook[O, R]) After(f AfterFunc[O, R]) Registration {
	if f == nil {
		panic("fetchx/hook: nil AfterFunc")
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.next()
	h.after = append(h.after, entry[AfterFunc[O, R]]{id, f})
	return Registration{After, id}
}

// Error registers f in the error stage.
func (h *Hook[O, R]) Error(f ErrorFunc[O, R]) Registration {
	if f == nil {
		panic("fetchx/hook: nil ErrorFunc")
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.next()
	h.errs = append(h.errs, entry[ErrorFunc[O, R]]{id, f})
	return Registration{Error, id}
}

// Wrap registers f in the wrap stage. The most recently registered wrap
// is the outermost.
func (h *Hook[O, R]) Wrap(f WrapFunc[O, R]) Registration {
	if f == nil {
		panic("fetchx/hook: nil WrapFunc")
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.next()
	h.wraps = append(h.wraps, entry[WrapFunc[O, R]]{id, f})
	return Registration{Wrap, id}
}

func remove[F any](entries []entry[F], id uint64) ([]entry[F], bool) {
	for i := range entries {
		if entries[i].id == id {
			out := make([]entry[F], 0, len(entries)-1)
			out = append(out, entries[:i]...)
			return append(out, entries[i+1:]...), true
		}
	}
	return entries, false
}

// Remove unregisters the interceptor identified by r, reporting whether it
// was registered.
func (h *Hook[O, R]) Remove(r Registration) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	var ok bool
	switch r.stage {
	case Before:
		h.before, ok = remove(h.before, r.id)
	case After:
		h.after, ok = remove(h.after, r.id)
	case Error:
		h.errs, ok = remove(h.errs, r.id)
	case Wrap:
		h.wraps, ok = remove(h.wraps, r.id)
	}
	return ok
}

// Len returns the number of interceptors registered in stage s.
func (h *Hook[O, R]) Len(s Stage) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	switch s {
	case Before:
		return len(h.before)
	case After:
		return len(h.after)
	case Error:
		return len(h.errs)
	case Wrap:
		return len(h.wraps)
	}
	return 0
}

type snapshot[O, R any] struct {
	before []entry[BeforeFunc[O]]
	after  []entry[AfterFunc[O, R]]
	errs   []entry[ErrorFunc[O, R]]
	wraps  []entry[WrapFunc[O, R]]
}

func (h *Hook[O, R]) snapshot() snapshot[O, R] {
	h.mu.Lock()
	defer h.mu.Unlock()
	// Registration and removal never modify a backing array in place
	// beyond its current length, so sharing the slices is safe.
	return snapshot[O, R]{h.before, h.after, h.errs, h.wraps}
}

// Run calls m with o through the interceptor chain.
func (h *Hook[O, R]) Run(ctx context.Context, m Method[O, R], o O) (R, error) {
	s := h.snapshot()
	r, err := s.run(ctx, m, o)
	if err == nil {
		return r, nil
	}
	for _, e := range s.errs {
		var rr R
		rr, err = e.f(ctx, err, o)
		if err == nil {
			return rr, nil
		}
	}
	var zero R
	return zero, err
}

func (s *snapshot[O, R]) run(ctx context.Context, m Method[O, R], o O) (R, error) {
	var zero R
	for _, e := range s.before {
		if err := e.f(ctx, o); err != nil {
			return zero, err
		}
	}

	call := m
	for _, e := range s.wraps {
		next, wrap := call, e.f
		call = func(ctx context.Context, o O) (R, error) {
			return wrap(ctx, next, o)
		}
	}
	r, err := call(ctx, o)
	if err != nil {
		return zero, err
	}

	for _, e := range s.after {
		if err = e.f(ctx, r, o); err != nil {
			return zero, err
		}
	}
	return r, nil
}
