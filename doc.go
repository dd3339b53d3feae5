// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package fetchx provides an HTTP client which resolves URI templated routes
against layered defaults, decodes responses by content type, and runs
pluggable interceptors around every stage of a request.

Create a Client to begin making requests.

	client := fetchx.New(fetchx.Options{
		Parameters: endpoint.Parameters{
			BaseURL: "https://api.example.com",
		},
		UserAgent: "my-app/1.0",
	})
	resp, err := client.Do(ctx, "GET /repos/{owner}/{repo}", endpoint.Parameters{
		Params: map[string]any{"owner": "gogama", "repo": "fetchx"},
	})
	...
	resp, err := client.Post(ctx, "/issues", map[string]any{"title": "x"},
		endpoint.Parameters{})

Parameters not used by the URL template are added to the query string, so
"GET /search" with Params {"q": "cats"} requests "/search?q=cats".

Derive clients with more specific defaults using Defaults. The original
client is never changed:

	authed := client.Defaults(endpoint.Parameters{
		Headers: map[string]string{"authorization": "token " + tok},
	})

For control over how the client sends HTTP requests and receives HTTP
responses, set a custom HTTPDoer, for example a GoLang standard HTTP
client, in the request settings:

	client := fetchx.New(fetchx.Options{
		Parameters: endpoint.Parameters{
			Request: &request.Settings{
				HTTPDoer: &http.Client{...},
				Timeout:  request.Duration(10 * time.Second),
			},
		},
	})

To add behavior such as retry, install plugins:

	client := fetchx.New(opts, retry.New(retry.Settings{
		Enabled: request.Bool(true),
	}), logging.New(logger))

To hook into the fine-grained details of request execution, register an
interceptor on one of the client's hooks:

	client.Hooks().ParseOptions.Before(
		func(_ context.Context, o *request.Options) error {
			o.SetHeader("x-trace", "1")
			return nil
		})

Every error returned by a Client is one of *request.Error,
*request.RequestError, and *request.TimeoutError, except that a request
aborted through its context or signal fails with the abort reason.

Package fetchx provides the Doer interface and the helper functions Get,
Head, Post, Put, Patch, and Delete for working with a Doer.
*/
package fetchx
