// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package uritemplate

import (
	"sort"
	"strings"
)

// Names returns the variable names referenced by template, in order of
// first appearance and without duplicates. Operators and value modifiers
// are stripped.
func Names(template string) []string {
	var names []string
	seen := make(map[string]bool)
	for rest := template; ; {
		i := strings.IndexByte(rest, '{')
		if i < 0 {
			break
		}
		j := strings.IndexByte(rest[i+1:], '}')
		if j < 0 {
			break
		}
		if j == 0 {
			rest = rest[i+2:]
			continue
		}
		expr := rest[i+1 : i+1+j]
		rest = rest[i+2+j:]
		if strings.IndexByte(operators, expr[0]) >= 0 {
			expr = expr[1:]
		}
		for _, s := range strings.Split(expr, ",") {
			name := parseVarSpec(strings.TrimSpace(s)).name
			if name == "" || seen[name] {
				continue
			}
			seen[name] = true
			names = append(names, name)
		}
	}
	return names
}

// ExpandAll expands template like Expand, then appends each key of values
// which template does not reference as a form-style query continuation.
// List values are exploded and undefined values are skipped. The first
// appended key begins the query with '?' when the expanded template has
// none.
//
// Unreferenced keys are appended in sorted order.
func ExpandAll(template string, values map[string]any) string {
	uri := Expand(template, values)

	referenced := make(map[string]bool)
	for _, name := range Names(template) {
		referenced[name] = true
	}
	var extra []string
	for k := range values {
		if !referenced[k] && toValue(values[k]).defined() {
			extra = append(extra, k)
		}
	}
	if len(extra) == 0 {
		return uri
	}
	sort.Strings(extra)

	var b strings.Builder
	b.WriteString(uri)
	for i, k := range extra {
		op := "&"
		if i == 0 && !strings.Contains(uri, "?") {
			op = "?"
		}
		b.WriteString("{" + op + k)
		if toValue(values[k]).kind == list {
			b.WriteByte('*')
		}
		b.WriteByte('}')
	}
	return Expand(b.String(), values)
}
