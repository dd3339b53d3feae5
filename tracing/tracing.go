// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package tracing provides a fetchx plugin which records an OpenTelemetry
// client span around each request, and propagates the span context in
// the request headers.
package tracing

import (
	"context"
	"errors"

	"github.com/gogama/fetchx"
	"github.com/gogama/fetchx/hook"
	"github.com/gogama/fetchx/request"
	"github.com/gogama/fetchx/transient"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// Name is the name of the tracing plugin.
const Name = "tracing"

const tracerName = "github.com/gogama/fetchx/tracing"

const (
	attrHTTPRequestMethod  = "http.request.method"
	attrHTTPResponseStatus = "http.response.status_code"
	attrURLFull            = "url.full"
	attrErrorType          = "error.type"
)

// An Option configures the plugin.
type Option func(*Plugin)

// WithTracerProvider sets the tracer provider. The default is the global
// tracer provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(p *Plugin) {
		p.provider = tp
	}
}

// WithPropagator sets the propagator injecting the span context into the
// request headers. The default is the global propagator.
func WithPropagator(tm propagation.TextMapPropagator) Option {
	return func(p *Plugin) {
		p.propagator = tm
	}
}

// A Plugin traces requests. Create one with New.
type Plugin struct {
	provider   trace.TracerProvider
	propagator propagation.TextMapPropagator
}

// New returns a tracing plugin.
func New(opts ...Option) *Plugin {
	p := &Plugin{}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name returns "tracing".
func (p *Plugin) Name() string {
	return Name
}

// Install installs the plugin into c.
func (p *Plugin) Install(c *fetchx.Client) {
	provider := p.provider
	if provider == nil {
		provider = otel.GetTracerProvider()
	}
	propagator := p.propagator
	if propagator == nil {
		propagator = otel.GetTextMapPropagator()
	}
	t := &tracer{tracer: provider.Tracer(tracerName), propagator: propagator}
	c.Hooks().Request.Wrap(t.wrap)
	c.Hooks().Retry.Before(t.retry)
}

type tracer struct {
	tracer     trace.Tracer
	propagator propagation.TextMapPropagator
}

func (t *tracer) wrap(ctx context.Context, next hook.Method[*request.Options, *request.Response], o *request.Options) (*request.Response, error) {
	ctx, span := t.tracer.Start(ctx, "HTTP "+o.Method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String(attrHTTPRequestMethod, o.Method),
			attribute.String(attrURLFull, o.URL),
		),
	)
	defer span.End()

	t.propagator.Inject(ctx, carrier{o})
	resp, err := next(ctx, o)

	if err != nil {
		var re *request.RequestError
		if errors.As(err, &re) && re.Status != 0 {
			span.SetAttributes(attribute.Int(attrHTTPResponseStatus, re.Status))
		}
		span.SetAttributes(attribute.String(attrErrorType, errorType(err)))
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return resp, err
	}
	if resp != nil {
		span.SetAttributes(attribute.Int(attrHTTPResponseStatus, resp.Status))
	}
	return resp, nil
}

// retry counts retried attempts on the request span.
func (t *tracer) retry(ctx context.Context, _ *request.Options) error {
	span := trace.SpanFromContext(ctx)
	span.AddEvent("retry")
	return nil
}

func errorType(err error) string {
	var te *request.TimeoutError
	var re *request.RequestError
	switch {
	case errors.As(err, &te):
		return "timeout"
	case errors.As(err, &re) && re.Status != 0:
		return "status"
	case errors.Is(err, context.Canceled):
		return "canceled"
	}
	if c := transient.Categorize(err); c != transient.Not {
		return c.String()
	}
	if re != nil {
		return "request"
	}
	return "other"
}

// carrier adapts request options to a propagation.TextMapCarrier.
type carrier struct {
	o *request.Options
}

func (c carrier) Get(key string) string {
	return c.o.HeaderValue(key)
}

func (c carrier) Set(key, value string) {
	c.o.SetHeader(key, value)
}

func (c carrier) Keys() []string {
	if c.o.Header != nil {
		return propagation.HeaderCarrier(c.o.Header).Keys()
	}
	return propagation.MapCarrier(c.o.Headers).Keys()
}
