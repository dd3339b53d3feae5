// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package fetchx

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gogama/fetchx/abort"
	"github.com/gogama/fetchx/request"

	"golang.org/x/net/http/httpguts"
)

const (
	contentTypeJSON = "application/json"
	contentTypeForm = "application/x-www-form-urlencoded"
	maxFormMemory   = 32 << 20
)

// send makes one attempt to send o, running the ParseOptions,
// ParseError, and ParseResponse hooks in turn.
func send(ctx context.Context, h *Hooks, o *request.Options) (*request.Response, error) {
	req, err := h.ParseOptions.Run(ctx, parseOptions, o)
	if err != nil {
		return nil, err
	}

	s := o.Setting()
	var timer *time.Timer
	var timeout context.Context
	if s.Timeout != nil {
		c := abort.NewController(nil)
		timeout = c.Context()
		timer = time.AfterFunc(max(*s.Timeout, 0), func() {
			c.Abort(&request.TimeoutError{Request: o})
		})
	}
	signal, cancel := abort.Merge(ctx, s.Signal, timeout)

	resp, err := s.Doer().Do(req.WithContext(signal))
	if timer != nil {
		timer.Stop()
	}
	if err != nil {
		in := &ParseErrorInput{Err: err, Options: o}
		if signal.Err() != nil {
			in.Err, in.Aborted = context.Cause(signal), true
		}
		cancel()
		perr, herr := h.ParseError.Run(ctx, parseError, in)
		if herr != nil {
			return nil, herr
		}
		if perr == nil {
			perr = in.Err
		}
		return nil, perr
	}

	// The signal stays live until the body is closed, so that decoding
	// the body, or reading a returned stream, is not cut short.
	body := &releaseBody{ReadCloser: resp.Body, release: cancel}
	resp.Body = body
	r, err := h.ParseResponse.Run(ctx, parseResponse, &ParseResponseInput{HTTPResponse: resp, Options: o})
	if err != nil || !keepsBody(r, body) {
		_ = body.Close()
	}
	return r, err
}

type releaseBody struct {
	io.ReadCloser
	once    sync.Once
	release func()
}

func (b *releaseBody) Close() error {
	err := b.ReadCloser.Close()
	b.once.Do(b.release)
	return err
}

func keepsBody(r *request.Response, body io.ReadCloser) bool {
	if r == nil {
		return false
	}
	rc, ok := r.Data.(io.ReadCloser)
	return ok && rc == body
}

func optionsError(o *request.Options, err error) error {
	return &request.RequestError{Message: err.Error(), Request: o, Err: err}
}

func parseOptions(ctx context.Context, o *request.Options) (*http.Request, error) {
	if !request.ValidMethod(o.Method) {
		return nil, optionsError(o, fmt.Errorf("invalid method %q", o.Method))
	}
	header, err := buildHeader(o)
	if err != nil {
		return nil, optionsError(o, err)
	}
	if header.Get("Content-Type") == "" {
		if _, ok := o.Body.(url.Values); ok {
			header.Set("Content-Type", contentTypeForm)
		} else {
			header.Set("Content-Type", contentTypeJSON)
		}
	}
	if header.Get("Accept") == "" {
		header.Set("Accept", contentTypeJSON)
	}
	body, err := buildBody(o, header)
	if err != nil {
		return nil, optionsError(o, err)
	}
	req, err := http.NewRequestWithContext(ctx, o.Method, o.URL, body)
	if err != nil {
		return nil, optionsError(o, err)
	}
	req.Header = header
	return req, nil
}

func buildHeader(o *request.Options) (http.Header, error) {
	if o.Header != nil {
		return o.Header.Clone(), nil
	}
	h := make(http.Header, len(o.Headers)+2)
	for name, value := range o.Headers {
		if !httpguts.ValidHeaderFieldName(name) {
			return nil, fmt.Errorf("invalid header name %q", name)
		}
		if !httpguts.ValidHeaderFieldValue(value) {
			return nil, fmt.Errorf("invalid value for header %q", name)
		}
		h.Add(name, value)
	}
	return h, nil
}

func buildBody(o *request.Options, header http.Header) (io.Reader, error) {
	if o.Method == http.MethodGet || o.Method == http.MethodHead {
		return nil, nil
	}
	switch x := o.Body.(type) {
	case nil:
		return nil, nil
	case string:
		return strings.NewReader(x), nil
	case []byte:
		return bytes.NewReader(x), nil
	case url.Values:
		return strings.NewReader(x.Encode()), nil
	case io.Reader:
		// Buffer once so that a retried attempt sends the same body.
		b, err := request.BodyBytes(x)
		if err != nil {
			return nil, err
		}
		o.Body = b
		return bytes.NewReader(b), nil
	}
	mt := mediaType(header.Get("Content-Type"))
	if !isJSON(mt) || !o.Setting().AutoParse() {
		return nil, fmt.Errorf("cannot send body of type %T as %q", o.Body, mt)
	}
	b, err := json.Marshal(o.Body)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(b), nil
}

func mediaType(contentType string) string {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	return mt
}

func isJSON(mt string) bool {
	return mt == contentTypeJSON || strings.HasSuffix(mt, "+json")
}

func parseError(_ context.Context, in *ParseErrorInput) (error, error) {
	err := in.Err
	if in.Aborted || request.Classified(err) {
		return err, nil
	}
	message := "Unknown Error"
	if err != nil {
		message = err.Error()
		if cause := errors.Unwrap(err); cause != nil {
			message = cause.Error()
		}
	}
	return &request.RequestError{Message: message, Request: in.Options, Err: err}, nil
}

func parseResponse(_ context.Context, in *ParseResponseInput) (*request.Response, error) {
	hr, o := in.HTTPResponse, in.Options
	r := &request.Response{
		URL:        o.URL,
		Status:     hr.StatusCode,
		StatusText: statusText(hr),
		Header:     flattenHeader(hr.Header),
	}
	if hr.StatusCode == http.StatusNoContent || hr.StatusCode == http.StatusNotModified {
		return r, nil
	}

	r.Data = decodeBody(hr, o.Setting().ResponseType)

	var message string
	if o.Method == http.MethodHead {
		if hr.StatusCode < 400 {
			return r, nil
		}
		message = "HEAD request failed"
	} else if hr.StatusCode >= 400 && hr.StatusCode < 600 {
		message = "Request failed"
	}
	if message != "" && o.Setting().Throw() {
		return nil, &request.RequestError{
			Message:    message,
			Status:     r.Status,
			StatusText: r.StatusText,
			Request:    o,
			Response:   r,
		}
	}
	return r, nil
}

func statusText(hr *http.Response) string {
	code := strconv.Itoa(hr.StatusCode)
	if s := strings.TrimSpace(strings.TrimPrefix(hr.Status, code)); s != "" {
		return s
	}
	return http.StatusText(hr.StatusCode)
}

func flattenHeader(h http.Header) map[string]string {
	m := make(map[string]string, len(h))
	for name, values := range h {
		m[strings.ToLower(name)] = strings.Join(values, ", ")
	}
	return m
}

func responseType(contentType string) request.ResponseType {
	if contentType == "" {
		return request.ResponseArrayBuffer
	}
	mt := mediaType(contentType)
	switch {
	case isJSON(mt):
		return request.ResponseJSON
	case mt == "multipart/form-data" || mt == contentTypeForm:
		return request.ResponseFormData
	case strings.HasPrefix(mt, "text/"):
		return request.ResponseText
	default:
		return request.ResponseBlob
	}
}

// decodeBody decodes the response body. Decoding failures yield the empty
// value of the expected type.
func decodeBody(hr *http.Response, rt request.ResponseType) any {
	contentType := hr.Header.Get("Content-Type")
	t := responseType(contentType)
	if n := rt.Normalize(); n != "" {
		t = n
	}

	switch t {
	case request.ResponseStream:
		return hr.Body
	case request.ResponseFormData:
		return decodeForm(hr.Body, contentType)
	}

	b, err := io.ReadAll(hr.Body)
	switch t {
	case request.ResponseJSON:
		var v any
		if err != nil || json.Unmarshal(b, &v) != nil {
			return map[string]any{}
		}
		return v
	case request.ResponseText:
		if err != nil {
			return ""
		}
		return string(b)
	case request.ResponseBlob:
		if err != nil {
			return request.Blob{}
		}
		return request.Blob{Type: contentType, Data: b}
	default:
		if err != nil {
			return []byte{}
		}
		return b
	}
}

func decodeForm(body io.Reader, contentType string) *multipart.Form {
	empty := &multipart.Form{Value: map[string][]string{}, File: map[string][]*multipart.FileHeader{}}
	mt, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return empty
	}
	switch mt {
	case "multipart/form-data":
		boundary := params["boundary"]
		if boundary == "" {
			return empty
		}
		form, err := multipart.NewReader(body, boundary).ReadForm(maxFormMemory)
		if err != nil {
			return empty
		}
		return form
	case contentTypeForm:
		b, err := io.ReadAll(body)
		if err != nil {
			return empty
		}
		values, err := url.ParseQuery(string(b))
		if err != nil {
			return empty
		}
		empty.Value = values
		return empty
	}
	return empty
}
