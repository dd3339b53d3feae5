// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package transient

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"syscall"
	"testing"

	"github.com/gogama/fetchx/request"

	"github.com/stretchr/testify/assert"
)

func TestCategorize(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		cat  Category
	}{
		{"nil", nil, Not},
		{"plain", errors.New("foo"), Not},
		{"empty wrapper", wrapper{}, Not},
		{"wrapped plain", wrapper{errors.New("bar")}, Not},
		{"canceled", context.Canceled, Not},
		{"request error", &request.RequestError{Message: "Request failed", Status: 503}, Not},
		{"etimedout", syscall.ETIMEDOUT, Timeout},
		{"timeout", timeout{}, Timeout},
		{"url etimedout", &url.Error{Err: syscall.ETIMEDOUT}, Timeout},
		{"deadline", context.DeadlineExceeded, Timeout},
		{"timeout error", &request.TimeoutError{}, Timeout},
		{"timeout beats errno", timeoutWrapper{true, syscall.ECONNRESET}, Timeout},
		{"reset", syscall.ECONNRESET, ConnReset},
		{"wrapped reset", wrapper{syscall.ECONNRESET}, ConnReset},
		{"not timeout reset", timeoutWrapper{false, syscall.ECONNRESET}, ConnReset},
		{"refused", syscall.ECONNREFUSED, ConnRefused},
		{"request error refused", &request.RequestError{Message: "x", Err: &url.Error{Err: syscall.ECONNREFUSED}}, ConnRefused},
		{"deep refused", &url.Error{Err: wrapper{timeoutWrapper{false, syscall.ECONNREFUSED}}}, ConnRefused},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.cat, Categorize(testCase.err))
		})
	}
}

func TestCategoryString(t *testing.T) {
	assert.Equal(t, "", Not.String())
	assert.Equal(t, "timeout", Timeout.String())
	assert.Equal(t, "connection_refused", ConnRefused.String())
	assert.Equal(t, "connection_reset", ConnReset.String())
	assert.Equal(t, "", Category(-1).String())
	assert.Equal(t, "", Category(99).String())
}

type timeout struct{}

func (err timeout) Error() string {
	return "timeout"
}

func (timeout) Timeout() bool {
	return true
}

type wrapper struct {
	wrappedError error
}

func (err wrapper) Error() string {
	return fmt.Sprintf("wrapper - wraps %v", err.wrappedError)
}

func (err wrapper) Unwrap() error {
	return err.wrappedError
}

type timeoutWrapper struct {
	timeout      bool
	wrappedError error
}

func (err timeoutWrapper) Error() string {
	return fmt.Sprintf("timeoutWrapper - timeout %t, wraps %v", err.timeout, err.wrappedError)
}

func (err timeoutWrapper) Timeout() bool {
	return err.timeout
}

func (err timeoutWrapper) Unwrap() error {
	return err.wrappedError
}
