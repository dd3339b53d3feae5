// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package metrics

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/gogama/fetchx"
	"github.com/gogama/fetchx/endpoint"
	"github.com/gogama/fetchx/request"
	"github.com/gogama/fetchx/retry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

type statusDoer []int

func (d *statusDoer) Do(req *http.Request) (*http.Response, error) {
	status := (*d)[0]
	if len(*d) > 1 {
		*d = (*d)[1:]
	}
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader("")),
		Request:    req,
	}, nil
}

func setup(t *testing.T, d request.HTTPDoer, plugins ...fetchx.Plugin) (*fetchx.Client, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() {
		_ = provider.Shutdown(context.Background())
	})
	plugins = append(plugins, New(WithMeterProvider(provider)))
	cl := fetchx.New(fetchx.Options{Parameters: endpoint.Parameters{
		BaseURL: "http://example.test",
		Request: &request.Settings{HTTPDoer: d},
	}}, plugins...)
	return cl, reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	out := map[string]metricdata.Metrics{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func TestPlugin(t *testing.T) {
	t.Run("requests", func(t *testing.T) {
		d := statusDoer{200, 200, 404}
		cl, reader := setup(t, &d)
		for i := 0; i < 3; i++ {
			_, _ = cl.Do(context.Background(), "/", endpoint.Parameters{})
		}

		ms := collect(t, reader)
		require.Contains(t, ms, metricRequests)
		sum, ok := ms[metricRequests].Data.(metricdata.Sum[int64])
		require.True(t, ok)
		counts := map[int64]int64{}
		for _, dp := range sum.DataPoints {
			v, _ := dp.Attributes.Value(attrHTTPResponseStatus)
			counts[v.AsInt64()] = dp.Value
			if v.AsInt64() == 404 {
				et, ok := dp.Attributes.Value(attrErrorType)
				assert.True(t, ok)
				assert.Equal(t, "404", et.AsString())
			}
		}
		assert.Equal(t, map[int64]int64{200: 2, 404: 1}, counts)

		require.Contains(t, ms, metricRequestDuration)
		hist, ok := ms[metricRequestDuration].Data.(metricdata.Histogram[float64])
		require.True(t, ok)
		var n uint64
		for _, dp := range hist.DataPoints {
			n += dp.Count
		}
		assert.Equal(t, uint64(3), n)
	})
	t.Run("retries", func(t *testing.T) {
		d := statusDoer{503, 503, 200}
		cl, reader := setup(t, &d, retry.New(retry.Settings{
			Enabled:    request.Bool(true),
			MinTimeout: request.Duration(time.Millisecond),
		}))
		_, err := cl.Do(context.Background(), "/", endpoint.Parameters{})
		require.NoError(t, err)

		ms := collect(t, reader)
		require.Contains(t, ms, metricRetries)
		sum := ms[metricRetries].Data.(metricdata.Sum[int64])
		require.Len(t, sum.DataPoints, 1)
		assert.Equal(t, int64(2), sum.DataPoints[0].Value)
	})
}

func TestResultAttributes(t *testing.T) {
	o := &request.Options{Method: "GET"}
	toMap := func(kvs []attribute.KeyValue) map[string]string {
		m := map[string]string{}
		for _, kv := range kvs {
			m[string(kv.Key)] = kv.Value.Emit()
		}
		return m
	}
	assert.Equal(t, map[string]string{"http.request.method": "GET", "http.response.status_code": "204"},
		toMap(resultAttributes(o, &request.Response{Status: 204}, nil)))
	assert.Equal(t, map[string]string{"http.request.method": "GET", "error.type": "timeout"},
		toMap(resultAttributes(o, nil, &request.TimeoutError{})))
	assert.Equal(t, map[string]string{"http.request.method": "GET", "error.type": "canceled"},
		toMap(resultAttributes(o, nil, context.Canceled)))
	assert.Equal(t, map[string]string{"http.request.method": "GET", "error.type": "_OTHER"},
		toMap(resultAttributes(o, nil, errors.New("x"))))
	assert.Equal(t, map[string]string{"http.request.method": "GET", "error.type": "connection_refused"},
		toMap(resultAttributes(o, nil, &request.RequestError{Message: "Request failed", Err: syscall.ECONNREFUSED})))
}

func TestName(t *testing.T) {
	assert.Equal(t, "metrics", New().Name())
}
