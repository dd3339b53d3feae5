// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package abort

import "context"

// Merge returns a signal derived from ctx which also aborts when any of
// signals does. Nil signals are ignored.
//
// The merged signal is already aborted if an input is. Otherwise it aborts
// exactly once, with the reason of the first input to abort. Signals that
// belong to a Controller are observed synchronously, so when two such
// signals abort one after the other the merged reason is always the first
// one's. Every listener attached to the inputs is removed once the merged
// signal is done, whether it aborted or the returned CancelFunc was called.
func Merge(ctx context.Context, signals ...context.Context) (context.Context, context.CancelFunc) {
	m := NewController(ctx)
	cancel := func() { m.Abort(context.Canceled) }

	var stops []func()
	for _, s := range signals {
		if s == nil {
			continue
		}
		if s.Err() != nil {
			m.Abort(context.Cause(s))
			break
		}
		if c := controllerOf(s); c != nil {
			stops = append(stops, c.listen(func(reason error) { m.Abort(reason) }))
			continue
		}
		s := s
		stop := context.AfterFunc(s, func() { m.Abort(context.Cause(s)) })
		stops = append(stops, func() { stop() })
	}

	if len(stops) > 0 {
		context.AfterFunc(m.ctx, func() {
			for _, stop := range stops {
				stop()
			}
		})
	}
	return m.Context(), cancel
}
