// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"encoding/json"
	"fmt"
)

// A Response is the decoded result of a request.
type Response struct {
	// URL is the URL the request was sent to.
	URL string

	// Status is the HTTP status code.
	Status int

	// StatusText is the reason phrase, for example "Not Found".
	StatusText string

	// Header holds the response headers keyed by lower-case name.
	// Repeated headers are joined with ", ".
	Header map[string]string

	// Data is the decoded body. Its type depends on the response type:
	//
	// • json: any, as decoded by encoding/json.
	// • text: string.
	// • blob: Blob.
	// • arrayBuffer: []byte.
	// • formData: *multipart.Form.
	// • stream: io.ReadCloser, which the caller must close.
	//
	// Data is nil for 204 and 304 responses.
	Data any
}

// A Blob is a response body together with its media type.
type Blob struct {
	Type string
	Data []byte
}

// Size returns the length of the blob's data.
func (b Blob) Size() int {
	return len(b.Data)
}

// DataAs returns the response data as a T. Data that already has type T
// is returned as it is. JSON text held in a []byte, Blob, or string is
// unmarshalled into T, and any other data is converted to T by a JSON
// round trip.
func DataAs[T any](r *Response) (T, error) {
	var v T
	if r == nil || r.Data == nil {
		return v, nil
	}
	if t, ok := r.Data.(T); ok {
		return t, nil
	}
	var b []byte
	switch x := r.Data.(type) {
	case []byte:
		b = x
	case Blob:
		b = x.Data
	case string:
		b = []byte(x)
	default:
		var err error
		if b, err = json.Marshal(x); err != nil {
			return v, fmt.Errorf("fetchx/request: data not convertible to %T: %w", v, err)
		}
	}
	if err := json.Unmarshal(b, &v); err != nil {
		return v, fmt.Errorf("fetchx/request: data not convertible to %T: %w", v, err)
	}
	return v, nil
}
