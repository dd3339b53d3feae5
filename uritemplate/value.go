// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package uritemplate

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
)

// A Pair is one member of an associative value.
type Pair struct {
	Key   string
	Value any
}

// Pairs is an associative value which expands in the order given, unlike a
// Go map, which expands in sorted key order.
type Pairs []Pair

type kind int

const (
	undefined kind = iota
	scalar
	list
	assoc
)

type value struct {
	kind  kind
	str   string
	items []any
	pairs Pairs
}

func (v value) empty() bool {
	return v.kind == scalar && v.str == ""
}

// defined reports whether v has anything to expand. A list or an
// associative value with no defined members is undefined.
func (v value) defined() bool {
	switch v.kind {
	case undefined:
		return false
	case list:
		for _, item := range v.items {
			if _, ok := memberString(item); ok {
				return true
			}
		}
		return false
	case assoc:
		for _, p := range v.pairs {
			if _, ok := memberString(p.Value); ok {
				return true
			}
		}
		return false
	}
	return true
}

func toValue(x any) value {
	switch x := x.(type) {
	case nil:
		return value{}
	case string:
		return value{kind: scalar, str: x}
	case []byte:
		return value{kind: scalar, str: string(x)}
	case bool:
		return value{kind: scalar, str: strconv.FormatBool(x)}
	case int:
		return value{kind: scalar, str: strconv.Itoa(x)}
	case int64:
		return value{kind: scalar, str: strconv.FormatInt(x, 10)}
	case float64:
		return value{kind: scalar, str: strconv.FormatFloat(x, 'f', -1, 64)}
	case float32:
		return value{kind: scalar, str: strconv.FormatFloat(float64(x), 'f', -1, 32)}
	case Pairs:
		return value{kind: assoc, pairs: x}
	case []Pair:
		return value{kind: assoc, pairs: x}
	case []any:
		return value{kind: list, items: x}
	case []string:
		items := make([]any, len(x))
		for i := range x {
			items[i] = x[i]
		}
		return value{kind: list, items: items}
	case map[string]any:
		keys := sortedKeys(x)
		pairs := make(Pairs, len(keys))
		for i, k := range keys {
			pairs[i] = Pair{k, x[k]}
		}
		return value{kind: assoc, pairs: pairs}
	case map[string]string:
		keys := sortedKeys(x)
		pairs := make(Pairs, len(keys))
		for i, k := range keys {
			pairs[i] = Pair{k, x[k]}
		}
		return value{kind: assoc, pairs: pairs}
	case fmt.Stringer:
		if rv := reflect.ValueOf(x); rv.Kind() == reflect.Pointer && rv.IsNil() {
			return value{}
		}
		return value{kind: scalar, str: x.String()}
	}
	return reflectValue(reflect.ValueOf(x))
}

func reflectValue(rv reflect.Value) value {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return value{}
		}
		return toValue(rv.Elem().Interface())
	case reflect.String:
		return value{kind: scalar, str: rv.String()}
	case reflect.Bool:
		return value{kind: scalar, str: strconv.FormatBool(rv.Bool())}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return value{kind: scalar, str: strconv.FormatInt(rv.Int(), 10)}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return value{kind: scalar, str: strconv.FormatUint(rv.Uint(), 10)}
	case reflect.Float32:
		return value{kind: scalar, str: strconv.FormatFloat(rv.Float(), 'f', -1, 32)}
	case reflect.Float64:
		return value{kind: scalar, str: strconv.FormatFloat(rv.Float(), 'f', -1, 64)}
	case reflect.Slice, reflect.Array:
		items := make([]any, rv.Len())
		for i := range items {
			items[i] = rv.Index(i).Interface()
		}
		return value{kind: list, items: items}
	case reflect.Map:
		pairs := make(Pairs, 0, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			pairs = append(pairs, Pair{fmt.Sprint(iter.Key().Interface()), iter.Value().Interface()})
		}
		sort.Slice(pairs, func(i, j int) bool { return pairs[i].Key < pairs[j].Key })
		return value{kind: assoc, pairs: pairs}
	}
	return value{kind: scalar, str: fmt.Sprint(rv.Interface())}
}

// memberString renders a list member or map value. Composite members are not
// exploded a second time.
func memberString(x any) (string, bool) {
	v := toValue(x)
	switch v.kind {
	case undefined:
		return "", false
	case scalar:
		return v.str, true
	}
	return fmt.Sprint(x), true
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
