// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retry

import "time"

// ExtraKey is the endpoint.Parameters Extra key holding per-call or
// default retry Settings.
const ExtraKey = "retry"

// Settings configure retries. Nil fields are not set, and inherit from
// the settings they are merged onto, and finally from DefaultPolicy.
//
// Settings implement endpoint.Merger, so Settings stored under ExtraKey
// in client defaults and in a call's parameters merge field by field.
type Settings struct {
	// Enabled turns retry on or off.
	Enabled *bool

	// Retries is the maximum number of attempts after the first.
	Retries *int

	// DoNotRetry lists the HTTP status codes which are never retried. A
	// non-nil empty slice allows every status to be retried.
	DoNotRetry []int

	// Factor is the exponential backoff factor.
	Factor *float64

	// MinTimeout is the wait before the first retry.
	MinTimeout *time.Duration

	// MaxTimeout caps the wait before any retry. A non-positive value
	// means no cap.
	MaxTimeout *time.Duration

	// Randomize multiplies each wait by a random factor in [1, 2).
	Randomize *bool
}

// Int returns a pointer to n.
func Int(n int) *int {
	return &n
}

// Float returns a pointer to f.
func Float(f float64) *float64 {
	return &f
}

// Merge returns s overridden by every field set in newer.
func (s Settings) Merge(newer Settings) Settings {
	if newer.Enabled != nil {
		s.Enabled = newer.Enabled
	}
	if newer.Retries != nil {
		s.Retries = newer.Retries
	}
	if newer.DoNotRetry != nil {
		s.DoNotRetry = cloneInts(newer.DoNotRetry)
	}
	if newer.Factor != nil {
		s.Factor = newer.Factor
	}
	if newer.MinTimeout != nil {
		s.MinTimeout = newer.MinTimeout
	}
	if newer.MaxTimeout != nil {
		s.MaxTimeout = newer.MaxTimeout
	}
	if newer.Randomize != nil {
		s.Randomize = newer.Randomize
	}
	return s
}

// MergeWith merges newer onto s if it is a Settings or a non-nil
// *Settings. Any other value replaces s.
func (s Settings) MergeWith(newer any) any {
	if n, ok := settingsOf(newer); ok {
		return s.Merge(n)
	}
	return newer
}

// Policy resolves s onto DefaultPolicy.
func (s Settings) Policy() Policy {
	p := DefaultPolicy
	p.DoNotRetry = cloneInts(p.DoNotRetry)
	if s.Enabled != nil {
		p.Enabled = *s.Enabled
	}
	if s.Retries != nil {
		p.Retries = *s.Retries
	}
	if s.DoNotRetry != nil {
		p.DoNotRetry = cloneInts(s.DoNotRetry)
	}
	if s.Factor != nil {
		p.Factor = *s.Factor
	}
	if s.MinTimeout != nil {
		p.MinTimeout = *s.MinTimeout
	}
	if s.MaxTimeout != nil {
		p.MaxTimeout = *s.MaxTimeout
	}
	if s.Randomize != nil {
		p.Randomize = *s.Randomize
	}
	return p
}

func settingsOf(v any) (Settings, bool) {
	switch x := v.(type) {
	case Settings:
		return x, true
	case *Settings:
		if x != nil {
			return *x, true
		}
	}
	return Settings{}, false
}

func cloneInts(s []int) []int {
	if s == nil {
		return nil
	}
	out := make([]int, len(s))
	copy(out, s)
	return out
}
