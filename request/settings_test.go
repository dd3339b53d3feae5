// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponseType(t *testing.T) {
	t.Run("Normalize", func(t *testing.T) {
		for _, rt := range ResponseTypes() {
			assert.Equal(t, rt, rt.Normalize())
		}
		assert.Equal(t, ResponseArrayBuffer, ResponseType("arraybuffer").Normalize())
		assert.Equal(t, ResponseFormData, ResponseType("FORMDATA").Normalize())
		assert.Equal(t, ResponseType(""), ResponseType("xml").Normalize())
	})
	t.Run("ResponseTypes copy", func(t *testing.T) {
		rts := ResponseTypes()
		rts[0] = "foo"
		assert.Equal(t, ResponseJSON, ResponseTypes()[0])
	})
}

func TestSettings(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		var s *Settings
		assert.Nil(t, s.Merge(nil))
		assert.True(t, s.AutoParse())
		assert.True(t, s.Throw())
		assert.Same(t, http.DefaultClient, s.Doer())
	})
	t.Run("Merge", func(t *testing.T) {
		ctx := context.Background()
		doer := &http.Client{}
		base := &Settings{
			Timeout:      Duration(time.Second),
			ResponseType: ResponseText,
			HTTPDoer:     doer,
		}
		newer := &Settings{
			Signal:             ctx,
			ThrowResponseError: Bool(false),
			Timeout:            Duration(0),
		}
		merged := base.Merge(newer)
		require.NotNil(t, merged)
		assert.NotSame(t, base, merged)
		assert.Equal(t, ctx, merged.Signal)
		assert.Equal(t, time.Duration(0), *merged.Timeout)
		assert.Equal(t, ResponseText, merged.ResponseType)
		assert.True(t, merged.AutoParse())
		assert.False(t, merged.Throw())
		assert.Same(t, doer, merged.Doer())

		assert.Equal(t, time.Second, *base.Timeout, "base modified")
		assert.Nil(t, base.Signal, "base modified")

		fromNil := (*Settings)(nil).Merge(newer)
		assert.Equal(t, newer, fromNil)
		assert.NotSame(t, newer, fromNil)
		toNil := base.Merge(nil)
		assert.Equal(t, base, toNil)
		assert.NotSame(t, base, toNil)
	})
}
