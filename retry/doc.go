// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package retry provides a fetchx plugin which retries failed requests
// with exponential backoff.
//
// Retry is disabled by default. Enable it when installing the plugin:
//
//	client := fetchx.New(opts, retry.New(retry.Settings{
//		Enabled:    request.Bool(true),
//		Retries:    retry.Int(5),
//		MinTimeout: request.Duration(100 * time.Millisecond),
//	}))
//
// Settings may also be given per call, or as client defaults, under the
// Extra key "retry". They are layered field by field over the plugin's
// settings:
//
//	resp, err := client.Do(ctx, "GET /flaky", endpoint.Parameters{
//		Extra: map[string]any{
//			retry.ExtraKey: retry.Settings{Retries: retry.Int(1)},
//		},
//	})
//
// A retry is attempted when an attempt fails with an error, or returns a
// status of 400 or above, unless the status is listed in DoNotRetry, the
// failure is a timeout or cancellation, or the retries are used up. The
// wait before retry n is MinTimeout * Factor^(n-1), optionally randomized
// and capped at MaxTimeout.
//
// WithDecider and WithWaiter replace the policy's decider and backoff,
// for example to retry only transient network failures at a fixed pace:
//
//	retry.New(settings,
//		retry.WithDecider(retry.Times(3).And(retry.Transient)),
//		retry.WithWaiter(retry.NewFixedWaiter(time.Second)))
//
// The first attempt runs directly. Each retried attempt runs through the
// client's Retry hook, so interceptors installed there see retries only.
package retry
