// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package config

import (
	"io"
	"os"
	"time"

	"github.com/gogama/fetchx"
	"github.com/gogama/fetchx/endpoint"
	"github.com/gogama/fetchx/ratelimit"
	"github.com/gogama/fetchx/request"
	"github.com/gogama/fetchx/retry"

	"github.com/rs/zerolog"
)

// Client returns a client configured by c, logging to standard error.
//
// The retry plugin is always installed with c's retry settings, and the
// rate limit plugin when a rate is configured. They are followed by
// plugins.
func (c *Config) Client(plugins ...fetchx.Plugin) *fetchx.Client {
	logger := c.Logger(os.Stderr)
	return fetchx.New(fetchx.Options{
		Parameters: c.Parameters(),
		UserAgent:  c.UserAgent,
		Logger:     &logger,
	}, append(c.Plugins(), plugins...)...)
}

// Parameters returns the default request parameters configured by c.
func (c *Config) Parameters() endpoint.Parameters {
	s := &request.Settings{
		ResponseType:         request.ResponseType(c.Request.ResponseType).Normalize(),
		AutoParseRequestBody: request.Bool(c.Request.AutoParseRequestBody),
		ThrowResponseError:   request.Bool(c.Request.ThrowResponseError),
	}
	if c.Request.Timeout > 0 {
		s.Timeout = request.Duration(c.Request.Timeout)
	}
	return endpoint.Parameters{
		BaseURL: c.BaseURL,
		Method:  c.Method,
		Headers: c.Headers,
		Params:  c.Params,
		Request: s,
	}
}

// RetrySettings returns the retry settings configured by c.
func (c *Config) RetrySettings() retry.Settings {
	r := c.Retry
	doNotRetry := r.DoNotRetry
	if doNotRetry == nil {
		doNotRetry = []int{}
	}
	return retry.Settings{
		Enabled:    request.Bool(r.Enabled),
		Retries:    retry.Int(r.Retries),
		DoNotRetry: doNotRetry,
		Factor:     retry.Float(r.Factor),
		MinTimeout: request.Duration(r.MinTimeout),
		MaxTimeout: request.Duration(r.MaxTimeout),
		Randomize:  request.Bool(r.Randomize),
	}
}

// Plugins returns the plugins configured by c.
func (c *Config) Plugins() []fetchx.Plugin {
	plugins := []fetchx.Plugin{retry.New(c.RetrySettings())}
	if c.RateLimit.Rate > 0 {
		burst := c.RateLimit.Burst
		if burst < 1 {
			burst = 1
		}
		plugins = append(plugins, ratelimit.NewLimit(c.RateLimit.Rate, burst))
	}
	return plugins
}

// Logger returns a logger writing to w at the configured level, in
// console format if Pretty is set. An unknown level means info.
func (c *Config) Logger(w io.Writer) zerolog.Logger {
	var l zerolog.Logger
	if c.Log.Pretty {
		l = zerolog.New(zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.RFC3339,
		}).With().Timestamp().Logger()
	} else {
		l = zerolog.New(w).With().Timestamp().Logger()
	}

	level, err := zerolog.ParseLevel(c.Log.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	return l.Level(level)
}
