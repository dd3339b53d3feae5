// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package request contains the core types Options (describes a resolved
HTTP request), Settings (tunes how it is sent), and Response (describes
the decoded result), and the error types returned when a request fails.

Options are produced by an endpoint from a route and parameters, and are
handed to every hook involved in sending the request:

	o := &request.Options{
		Method:  "POST",
		URL:     "https://example.com/users",
		Headers: map[string]string{"content-type": "application/json"},
		Body:    map[string]any{"name": "gopher"},
		Settings: &request.Settings{
			Timeout: request.Duration(5 * time.Second),
		},
	}

Every error returned by a client belongs to a small taxonomy rooted at
Error. A RequestError describes an HTTP level failure or a transport
failure, and carries the request and, if one was received, the response.
A TimeoutError is returned only when a configured timeout elapses.

	resp, err := client.Do(ctx, "GET /users/{id}", params)
	var reqErr *request.RequestError
	if errors.As(err, &reqErr) && reqErr.Status == 404 {
		...
	}
*/
package request
