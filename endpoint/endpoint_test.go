// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package endpoint

import (
	"net/http"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/gogama/fetchx/request"
	"github.com/gogama/fetchx/uritemplate"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("library defaults", func(t *testing.T) {
		assert.Equal(t, Parameters{Method: "GET"}, New(Parameters{}).DefaultParameters())
	})
	t.Run("defaults", func(t *testing.T) {
		e := New(Parameters{
			BaseURL: "/x-fetch",
			Headers: map[string]string{"X-Custom-Header": "x-fetch"},
			Params:  map[string]any{"id": 1},
			Body:    "x-fetch",
			Extra:   map[string]any{"ext": "ext"},
		})
		d := e.DefaultParameters()
		assert.Equal(t, "/x-fetch", d.BaseURL)
		assert.Equal(t, "GET", d.Method)
		assert.Equal(t, map[string]string{"x-custom-header": "x-fetch"}, d.Headers)
		assert.Equal(t, map[string]any{"id": 1}, d.Params)
		assert.IsType(t, "", d.Body)
		assert.Equal(t, "ext", d.Extra["ext"])
	})
}

func TestEndpoint(t *testing.T) {
	t.Run("override defaults", testEndpointOverrideDefaults)
	t.Run("structured", testEndpointStructured)
	t.Run("route", testEndpointRoute)
	t.Run("RFC6570", testEndpointRFC6570)
	t.Run("not shared", testEndpointNotShared)
	t.Run("native header", testEndpointNativeHeader)
	t.Run("empty url", testEndpointEmptyURL)
	t.Run("absolute url", testEndpointAbsoluteURL)
	t.Run("colon params", testEndpointColonParams)
	t.Run("removal", testEndpointRemoval)
	t.Run("settings", testEndpointSettings)
	t.Run("merger", testEndpointMerger)
	t.Run("chain", testEndpointChain)
	t.Run("concurrent", testEndpointConcurrent)
}

func testEndpointOverrideDefaults(t *testing.T) {
	e := New(Parameters{
		BaseURL: "/x-fetch",
		Params:  map[string]any{"id": 1, "age": 100},
		Body:    "old-x-fetch",
	})
	o := e.Resolve("", Parameters{
		URL:    "/user/{id}{?age}",
		Method: "POST",
		Params: map[string]any{"id": 2, "age": 200},
	})
	assert.Equal(t, "/x-fetch/user/2?age=200", o.URL)
	assert.Equal(t, "POST", o.Method)
	assert.Equal(t, "old-x-fetch", o.Body)

	o = e.Resolve("", Parameters{URL: "/user/{id}{?age}", Body: "new-x-fetch"})
	assert.Equal(t, "new-x-fetch", o.Body)

	o = e.Resolve("GET /user/{id}{?age}", Parameters{Params: map[string]any{"id": 2, "age": 200}})
	assert.Equal(t, "/x-fetch/user/2?age=200", o.URL)
}

func testEndpointStructured(t *testing.T) {
	e := New(Parameters{BaseURL: "/x-fetch", Params: map[string]any{"id": 1}})
	o := e.Resolve("", Parameters{
		URL:    "/user/{id}{?age}",
		Method: "get",
		Params: map[string]any{"age": 100, "name": "xiaohuohumax"},
	})
	assert.Equal(t, "/x-fetch/user/1?age=100&name=xiaohuohumax", o.URL)
	assert.Equal(t, "GET", o.Method)
}

func testEndpointRoute(t *testing.T) {
	e := New(Parameters{BaseURL: "/x-fetch", Params: map[string]any{"id": 1}})
	o := e.Resolve("GET /user/{id}{?age}", Parameters{
		Params: map[string]any{"age": 100, "name": "xiaohuohumax"},
	})
	assert.Equal(t, "/x-fetch/user/1?age=100&name=xiaohuohumax", o.URL)
	assert.Equal(t, "GET", o.Method)

	assert.Equal(t, "GET", e.Resolve("/user/{id}", Parameters{}).Method)
	assert.Equal(t, "DELETE", e.Resolve("  delete \t /user/{id} ", Parameters{}).Method)

	o = e.Resolve("POST /user", Parameters{Method: "PUT", URL: "/other"})
	assert.Equal(t, "PUT", o.Method)
	assert.Equal(t, "/x-fetch/other?id=1", o.URL)
}

func testEndpointRFC6570(t *testing.T) {
	keys := uritemplate.Pairs{{Key: "semi", Value: ";"}, {Key: "dot", Value: "."}, {Key: "comma", Value: ","}}
	testCases := []struct {
		template string
		params   map[string]any
		expected string
	}{
		{"{+path}/here", map[string]any{"path": "/foo/bar"}, "/foo/bar/here"},
		{"{;x,y,empty}", map[string]any{"x": 1024, "y": 768, "empty": ""}, ";x=1024;y=768;empty"},
		{"{?x,y,empty}", map[string]any{"x": 1024, "y": 768, "empty": ""}, "?x=1024&y=768&empty="},
		{"X{.keys*}", map[string]any{"keys": keys}, "X.semi=%3B.dot=..comma=%2C"},
		{"{/list*,path:4}", map[string]any{"list": []string{"red", "green", "blue"}, "path": "/foo"}, "/red/green/blue/%2Ffoo"},
	}
	for _, c := range testCases {
		o := New(Parameters{}).Resolve("", Parameters{URL: "/base" + c.template, Params: c.params})
		assert.Equal(t, "/base"+c.expected, o.URL, c.template)
		o = New(Parameters{}).Resolve("/base"+c.template, Parameters{Params: c.params})
		assert.Equal(t, "/base"+c.expected, o.URL, c.template)
		o = New(Parameters{Params: c.params}).Resolve("/base"+c.template, Parameters{})
		assert.Equal(t, "/base"+c.expected, o.URL, c.template)
	}
}

func testEndpointNotShared(t *testing.T) {
	base := New(Parameters{Params: map[string]any{"page": 1, "filter": map[string]any{"a": "1"}}})
	e1 := base.Defaults(Parameters{BaseURL: "/x-fetch"})
	e2 := base.Defaults(Parameters{BaseURL: "/x-fetch"})
	assert.NotSame(t, e1, e2)

	e3 := e1.Defaults(Parameters{Params: map[string]any{"page": 2, "filter": map[string]any{"b": "2"}}})
	assert.Equal(t, map[string]any{"page": 1, "filter": map[string]any{"a": "1"}}, e1.DefaultParameters().Params)
	assert.Equal(t, map[string]any{"page": 2, "filter": map[string]any{"a": "1", "b": "2"}}, e3.DefaultParameters().Params)

	d := e2.DefaultParameters()
	d.Params["page"] = 99
	d.Params["filter"].(map[string]any)["a"] = "changed"
	assert.Equal(t, map[string]any{"page": 1, "filter": map[string]any{"a": "1"}}, e2.DefaultParameters().Params)

	o := e2.Resolve("/", Parameters{})
	o.Extra = map[string]any{"x": 1}
	assert.Nil(t, e2.DefaultParameters().Extra)
}

func testEndpointNativeHeader(t *testing.T) {
	h := http.Header{"X-Custom-Header": []string{"x-fetch"}}
	e := New(Parameters{Headers: map[string]string{"x-default": "1"}})
	o := e.Resolve("/user", Parameters{Header: h})
	require.NotNil(t, o.Header)
	assert.Nil(t, o.Headers)
	assert.Equal(t, h, o.Header)
	o.Header.Set("X-Other", "2")
	assert.Empty(t, h.Get("X-Other"))

	o = New(Parameters{Header: h}).Resolve("/user", Parameters{Headers: map[string]string{"Accept": "text/plain"}})
	assert.Nil(t, o.Header)
	assert.Equal(t, map[string]string{"accept": "text/plain"}, o.Headers)
}

func testEndpointEmptyURL(t *testing.T) {
	o := New(Parameters{}).Resolve("", Parameters{})
	assert.Equal(t, "/", o.URL)
	assert.Equal(t, "GET", o.Method)
	assert.Nil(t, o.Headers)
	assert.Nil(t, o.Body)
	assert.Equal(t, "/api/", New(Parameters{BaseURL: "/api"}).Resolve("", Parameters{}).URL)
}

func testEndpointAbsoluteURL(t *testing.T) {
	e := New(Parameters{BaseURL: "https://api.example.com"})
	assert.Equal(t, "http://other.example.com/x", e.Resolve("http://other.example.com/x", Parameters{}).URL)
	assert.Equal(t, "HTTPS://other.example.com/x", e.Resolve("HTTPS://other.example.com/x", Parameters{}).URL)
	assert.Equal(t, "https://api.example.com/x", e.Resolve("/x", Parameters{}).URL)
	assert.Equal(t, "http://localhost:8080/x", New(Parameters{}).Resolve("http://localhost:8080/x", Parameters{}).URL)
}

func testEndpointColonParams(t *testing.T) {
	e := New(Parameters{})
	o := e.Resolve("GET /users/:id/posts/:post_id", Parameters{Params: map[string]any{"id": 1, "post_id": 2}})
	assert.Equal(t, "/users/1/posts/2", o.URL)
}

func testEndpointRemoval(t *testing.T) {
	e := New(Parameters{
		Headers: map[string]string{"X-A": "a", "X-B": "b"},
		Params:  map[string]any{"lang": "en", "page": 1},
		Extra:   map[string]any{"trace": true},
	})
	o := e.Resolve("/x", Parameters{
		Headers: map[string]string{"x-a": ""},
		Params:  map[string]any{"lang": nil},
		Extra:   map[string]any{"trace": nil},
	})
	assert.Equal(t, map[string]string{"x-b": "b"}, o.Headers)
	assert.Equal(t, "/x?page=1", o.URL)
	assert.Empty(t, o.Extra)
}

func testEndpointSettings(t *testing.T) {
	e := New(Parameters{Request: &request.Settings{
		Timeout:      request.Duration(time.Second),
		ResponseType: request.ResponseText,
	}})
	o := e.Resolve("/x", Parameters{Request: &request.Settings{
		ThrowResponseError: request.Bool(false),
	}})
	require.NotNil(t, o.Settings)
	assert.Equal(t, time.Second, *o.Settings.Timeout)
	assert.Equal(t, request.ResponseText, o.Settings.ResponseType)
	assert.False(t, o.Settings.Throw())

	o.Settings.ResponseType = request.ResponseBlob
	assert.Equal(t, request.ResponseText, e.DefaultParameters().Request.ResponseType)
}

type counter struct {
	n int
}

func (c *counter) MergeWith(newer any) any {
	if n, ok := newer.(*counter); ok {
		return &counter{c.n + n.n}
	}
	return newer
}

func testEndpointMerger(t *testing.T) {
	e := New(Parameters{Extra: map[string]any{"c": &counter{1}}})
	e = e.Defaults(Parameters{Extra: map[string]any{"c": &counter{2}}})
	o := e.Resolve("/", Parameters{Extra: map[string]any{"c": &counter{3}}})
	assert.Equal(t, &counter{6}, o.Extra["c"])

	o = e.Resolve("/", Parameters{Extra: map[string]any{"c": "replaced"}})
	assert.Equal(t, "replaced", o.Extra["c"])
}

func testEndpointChain(t *testing.T) {
	a := Parameters{BaseURL: "/api", Params: map[string]any{"a": 1}}
	b := Parameters{Headers: map[string]string{"X-B": "b"}, Params: map[string]any{"b": 2}}
	chained := New(Parameters{}).Defaults(a).Defaults(b)
	single := New(Parameters{
		BaseURL: "/api",
		Headers: map[string]string{"X-B": "b"},
		Params:  map[string]any{"a": 1, "b": 2},
	})
	assert.Equal(t, single.DefaultParameters(), chained.DefaultParameters())
	assert.Equal(t, single.Resolve("/x/{a}", Parameters{}), chained.Resolve("/x/{a}", Parameters{}))
}

func testEndpointConcurrent(t *testing.T) {
	base := New(Parameters{BaseURL: "/api", Params: map[string]any{"page": 1}})
	var wg sync.WaitGroup
	urls := make([]string, 50)
	for i := range urls {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			e := base.Defaults(Parameters{Params: map[string]any{"page": i}})
			urls[i] = e.Resolve("/items", Parameters{}).URL
		}(i)
	}
	wg.Wait()
	for i, u := range urls {
		assert.Equal(t, "/api/items?page="+strconv.Itoa(i), u)
	}
	assert.Equal(t, "/api/items?page=1", base.Resolve("/items", Parameters{}).URL)
}
