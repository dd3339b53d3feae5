// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package uritemplate expands RFC6570 URI templates, levels 1 through 4.

Expand substitutes template expressions using a map of values:

	uri := uritemplate.Expand("/users/{id}{?fields*}", map[string]any{
		"id":     42,
		"fields": []string{"name", "email"},
	})
	// "/users/42?fields=name&fields=email"

ExpandAll additionally appends every value the template does not reference
as a query continuation, so defaulted parameters are never silently lost:

	uri := uritemplate.ExpandAll("/users/{id}", map[string]any{
		"id":   42,
		"page": 2,
	})
	// "/users/42?page=2"

Values may be strings, booleans, numbers, slices, or maps. Maps expand in
sorted key order; use Pairs when a specific order is needed. A nil value is
undefined and expands to nothing.
*/
package uritemplate
