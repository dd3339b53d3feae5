// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package endpoint

import "strings"

// merge returns newer merged onto older. Neither is modified, and the
// result shares no maps or slices with either, except a native
// http.Header, which is passed through.
func merge(older, newer Parameters) Parameters {
	out := older.clone()
	if newer.BaseURL != "" {
		out.BaseURL = newer.BaseURL
	}
	if newer.Method != "" {
		out.Method = newer.Method
	}
	if newer.URL != "" {
		out.URL = newer.URL
	}
	switch {
	case newer.Header != nil:
		out.Header = newer.Header
		out.Headers = nil
	case newer.Headers != nil:
		if out.Header != nil {
			out.Header = nil
			out.Headers = nil
		}
		out.Headers = mergeHeaders(out.Headers, newer.Headers)
	}
	if newer.Body != nil {
		out.Body = newer.Body
	}
	if newer.Params != nil {
		out.Params = mergeMap(out.Params, newer.Params)
	}
	if newer.Request != nil {
		out.Request = out.Request.Merge(newer.Request)
	}
	if newer.Extra != nil {
		out.Extra = mergeMap(out.Extra, newer.Extra)
	}
	return out
}

func (p Parameters) clone() Parameters {
	out := p
	out.Headers = copyHeaders(p.Headers)
	out.Params = copyMap(p.Params)
	out.Extra = copyMap(p.Extra)
	out.Request = p.Request.Merge(nil)
	return out
}

func copyHeaders(h map[string]string) map[string]string {
	if h == nil {
		return nil
	}
	out := make(map[string]string, len(h))
	for k, v := range h {
		out[k] = v
	}
	return out
}

func mergeHeaders(older, newer map[string]string) map[string]string {
	out := copyHeaders(older)
	if out == nil {
		out = make(map[string]string, len(newer))
	}
	for k, v := range newer {
		k = strings.ToLower(k)
		if v == "" {
			delete(out, k)
			continue
		}
		out[k] = v
	}
	return out
}

func mergeMap(older, newer map[string]any) map[string]any {
	out := copyMap(older)
	if out == nil {
		out = make(map[string]any, len(newer))
	}
	for k, v := range newer {
		if v == nil {
			delete(out, k)
			continue
		}
		if nm, ok := v.(map[string]any); ok {
			om, _ := out[k].(map[string]any)
			out[k] = mergeMap(om, nm)
			continue
		}
		if m, ok := out[k].(Merger); ok {
			out[k] = m.MergeWith(v)
			continue
		}
		out[k] = copyValue(v)
	}
	return out
}

func copyMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v any) any {
	switch x := v.(type) {
	case map[string]any:
		return copyMap(x)
	case map[string]string:
		return copyHeaders(x)
	case []any:
		out := make([]any, len(x))
		for i := range x {
			out[i] = copyValue(x[i])
		}
		return out
	case []string:
		out := make([]string, len(x))
		copy(out, x)
		return out
	}
	return v
}
