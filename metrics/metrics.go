// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package metrics provides a fetchx plugin which records OpenTelemetry
// metrics for requests.
//
// Metrics recorded:
//   - http.client.request.duration: histogram of request durations in
//     seconds, including retries
//   - http.client.requests: counter of completed requests
//   - http.client.retries: counter of retried attempts
//
// Attributes are http.request.method, and http.response.status_code or
// error.type.
package metrics

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/gogama/fetchx"
	"github.com/gogama/fetchx/hook"
	"github.com/gogama/fetchx/request"
	"github.com/gogama/fetchx/transient"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Name is the name of the metrics plugin.
const Name = "metrics"

const meterName = "github.com/gogama/fetchx/metrics"

const (
	metricRequestDuration = "http.client.request.duration"
	metricRequests        = "http.client.requests"
	metricRetries         = "http.client.retries"

	attrHTTPRequestMethod  = "http.request.method"
	attrHTTPResponseStatus = "http.response.status_code"
	attrErrorType          = "error.type"
)

var durationBuckets = []float64{
	0.005, 0.01, 0.025, 0.05, 0.075, 0.1, 0.25, 0.5, 0.75, 1, 2.5, 5, 7.5, 10,
}

// An Option configures the plugin.
type Option func(*Plugin)

// WithMeterProvider sets the meter provider. The default is the global
// meter provider.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(p *Plugin) {
		p.provider = mp
	}
}

// A Plugin records request metrics. Create one with New.
type Plugin struct {
	provider metric.MeterProvider
}

// New returns a metrics plugin.
func New(opts ...Option) *Plugin {
	p := &Plugin{}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name returns "metrics".
func (p *Plugin) Name() string {
	return Name
}

// Install installs the plugin into c. If the instruments cannot be
// created, the failure is logged and nothing is installed.
func (p *Plugin) Install(c *fetchx.Client) {
	provider := p.provider
	if provider == nil {
		provider = otel.GetMeterProvider()
	}
	r, err := newRecorder(provider.Meter(meterName))
	if err != nil {
		c.Logger().Warn().Err(err).Msg("fetchx/metrics: instruments not installed")
		return
	}
	c.Hooks().Request.Wrap(r.wrap)
	c.Hooks().Retry.Before(r.retry)
}

type recorder struct {
	duration metric.Float64Histogram
	requests metric.Int64Counter
	retries  metric.Int64Counter
}

func newRecorder(m metric.Meter) (*recorder, error) {
	duration, err := m.Float64Histogram(metricRequestDuration,
		metric.WithDescription("Duration of HTTP client requests"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBuckets...),
	)
	if err != nil {
		return nil, err
	}
	requests, err := m.Int64Counter(metricRequests,
		metric.WithDescription("Number of HTTP client requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}
	retries, err := m.Int64Counter(metricRetries,
		metric.WithDescription("Number of retried HTTP client attempts"),
		metric.WithUnit("{attempt}"),
	)
	if err != nil {
		return nil, err
	}
	return &recorder{duration: duration, requests: requests, retries: retries}, nil
}

func (r *recorder) wrap(ctx context.Context, next hook.Method[*request.Options, *request.Response], o *request.Options) (*request.Response, error) {
	start := time.Now()
	resp, err := next(ctx, o)
	elapsed := time.Since(start)

	attrs := metric.WithAttributes(resultAttributes(o, resp, err)...)
	r.duration.Record(ctx, elapsed.Seconds(), attrs)
	r.requests.Add(ctx, 1, attrs)
	return resp, err
}

func (r *recorder) retry(ctx context.Context, o *request.Options) error {
	r.retries.Add(ctx, 1, metric.WithAttributes(attribute.String(attrHTTPRequestMethod, o.Method)))
	return nil
}

func resultAttributes(o *request.Options, resp *request.Response, err error) []attribute.KeyValue {
	attrs := []attribute.KeyValue{attribute.String(attrHTTPRequestMethod, o.Method)}
	status := 0
	if resp != nil {
		status = resp.Status
	}
	var re *request.RequestError
	if errors.As(err, &re) && re.Status != 0 {
		status = re.Status
	}
	if status != 0 {
		attrs = append(attrs, attribute.Int(attrHTTPResponseStatus, status))
	}
	switch {
	case err == nil:
	case status != 0:
		attrs = append(attrs, attribute.String(attrErrorType, strconv.Itoa(status)))
	default:
		attrs = append(attrs, attribute.String(attrErrorType, errorType(err)))
	}
	return attrs
}

func errorType(err error) string {
	var te *request.TimeoutError
	switch {
	case errors.As(err, &te):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	}
	if c := transient.Categorize(err); c != transient.Not {
		return c.String()
	}
	return "_OTHER"
}
