// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package logging provides a fetchx plugin which logs requests with
// zerolog.
//
// Each request is logged at debug level when it starts, at info level
// when it completes, and at warn level when it fails. Retried attempts
// are logged at debug level.
package logging

import (
	"context"
	"errors"
	"time"

	"github.com/gogama/fetchx"
	"github.com/gogama/fetchx/hook"
	"github.com/gogama/fetchx/request"

	"github.com/rs/zerolog"
)

// Name is the name of the logging plugin.
const Name = "logging"

// A Plugin logs requests. Create one with New.
type Plugin struct {
	logger *zerolog.Logger
}

// New returns a logging plugin. If logger is nil, the plugin logs to the
// logger of each client it is installed into.
func New(logger *zerolog.Logger) *Plugin {
	return &Plugin{logger: logger}
}

// Name returns "logging".
func (p *Plugin) Name() string {
	return Name
}

// Install installs the plugin into c.
func (p *Plugin) Install(c *fetchx.Client) {
	logger := p.logger
	if logger == nil {
		logger = c.Logger()
	}
	l := &requestLogger{logger: logger}
	c.Hooks().Request.Wrap(l.wrap)
	c.Hooks().Retry.Before(l.retry)
}

type requestLogger struct {
	logger *zerolog.Logger
}

func (l *requestLogger) wrap(ctx context.Context, next hook.Method[*request.Options, *request.Response], o *request.Options) (*request.Response, error) {
	l.logger.Debug().
		Str("method", o.Method).
		Str("url", o.URL).
		Msg("request started")

	start := time.Now()
	resp, err := next(ctx, o)
	elapsed := time.Since(start)

	if err != nil {
		e := l.logger.Warn().
			Str("method", o.Method).
			Str("url", o.URL).
			Dur("duration", elapsed).
			Err(err)
		var re *request.RequestError
		if errors.As(err, &re) && re.Status != 0 {
			e = e.Int("status", re.Status)
		}
		e.Msg("request failed")
		return resp, err
	}

	e := l.logger.Info().
		Str("method", o.Method).
		Str("url", o.URL).
		Dur("duration", elapsed)
	if resp != nil {
		e = e.Int("status", resp.Status)
	}
	e.Msg("request completed")
	return resp, nil
}

func (l *requestLogger) retry(_ context.Context, o *request.Options) error {
	l.logger.Debug().
		Str("method", o.Method).
		Str("url", o.URL).
		Msg("request retried")
	return nil
}
