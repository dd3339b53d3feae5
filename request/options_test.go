// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOptions(t *testing.T) {
	t.Run("Setting", func(t *testing.T) {
		var nilOptions *Options
		assert.NotNil(t, nilOptions.Setting())
		assert.NotNil(t, (&Options{}).Setting())
		s := &Settings{ResponseType: ResponseBlob}
		assert.Same(t, s, (&Options{Settings: s}).Setting())
	})
	t.Run("Value", func(t *testing.T) {
		var nilOptions *Options
		assert.Nil(t, nilOptions.Value("foo"))
		o := &Options{}
		assert.Nil(t, o.Value("foo"))
		o.SetValue("foo", 10)
		assert.Equal(t, 10, o.Value("foo"))
	})
	t.Run("headers", func(t *testing.T) {
		o := &Options{}
		o.SetHeader("X-Foo", "bar")
		assert.Equal(t, map[string]string{"x-foo": "bar"}, o.Headers)
		assert.Equal(t, "bar", o.HeaderValue("X-FOO"))

		o.Header = http.Header{}
		o.SetHeader("x-baz", "qux")
		assert.Equal(t, "qux", o.Header.Get("X-Baz"))
		assert.Equal(t, "qux", o.HeaderValue("X-Baz"))
		assert.Empty(t, o.HeaderValue("x-foo"))
	})
	t.Run("String", func(t *testing.T) {
		o := &Options{Method: "GET", URL: "https://example.com"}
		assert.Equal(t, "[GET] https://example.com", o.String())
	})
}

func TestValidMethod(t *testing.T) {
	for _, m := range []string{"GET", "POST", "PROPFIND", "get", "M-SEARCH"} {
		assert.True(t, ValidMethod(m), m)
	}
	for _, m := range []string{"", "GET POST", "GET\n", "(GET)", "GÉT"} {
		assert.False(t, ValidMethod(m), m)
	}
}
