// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package uritemplate

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

const operators = "+#./;?&"

// Expand expands template using values.
//
// Text outside expressions is copied with reserved encoding, and an
// expression which is never closed is copied literally.
func Expand(template string, values map[string]any) string {
	var b strings.Builder
	for i := 0; i < len(template); {
		switch template[i] {
		case '{':
			j := strings.IndexAny(template[i+1:], "{}")
			if j > 0 && template[i+1+j] == '}' {
				b.WriteString(expandExpression(template[i+1:i+1+j], values))
				i += j + 2
				continue
			}
			b.WriteByte('{')
			i++
		case '}':
			b.WriteByte('}')
			i++
		default:
			j := strings.IndexAny(template[i:], "{}")
			if j < 0 {
				j = len(template) - i
			}
			b.WriteString(encodeReserved(template[i : i+j]))
			i += j
		}
	}
	return b.String()
}

type varSpec struct {
	name    string
	explode bool
	prefix  int
}

func parseVarSpec(s string) varSpec {
	spec := varSpec{name: s, prefix: -1}
	i := strings.IndexAny(s, ":*")
	if i < 0 {
		return spec
	}
	spec.name = s[:i]
	if s[i] == '*' {
		spec.explode = true
		return spec
	}
	j := i + 1
	for j < len(s) && s[j] >= '0' && s[j] <= '9' {
		j++
	}
	if j > i+1 {
		spec.prefix, _ = strconv.Atoi(s[i+1 : j])
	}
	return spec
}

func expandExpression(expr string, values map[string]any) string {
	var op byte
	if strings.IndexByte(operators, expr[0]) >= 0 {
		op = expr[0]
		expr = expr[1:]
	}

	var parts []string
	for _, s := range strings.Split(expr, ",") {
		parts = append(parts, expandVar(op, parseVarSpec(s), values)...)
	}

	if op == 0 || op == '+' {
		return strings.Join(parts, ",")
	}
	sep := string(op)
	switch op {
	case '?':
		sep = "&"
	case '#':
		sep = ","
	}
	if len(parts) == 0 {
		return ""
	}
	return string(op) + strings.Join(parts, sep)
}

func isKeyOperator(op byte) bool {
	return op == ';' || op == '?' || op == '&'
}

func expandVar(op byte, spec varSpec, values map[string]any) []string {
	v := toValue(values[spec.name])
	if !v.defined() {
		v = value{}
	}
	key := ""
	if isKeyOperator(op) {
		key = spec.name
	}

	if v.kind == undefined || v.empty() {
		switch {
		case op == ';':
			if v.kind != undefined {
				return []string{encodeUnreserved(spec.name)}
			}
		case v.kind == undefined:
		case op == '?' || op == '&':
			return []string{encodeUnreserved(spec.name) + "="}
		default:
			return []string{""}
		}
		return nil
	}

	var out []string
	switch v.kind {
	case scalar:
		s := v.str
		if spec.prefix >= 0 {
			s = truncate(s, spec.prefix)
		}
		out = append(out, encodeValue(op, s, key))
	case list:
		if spec.explode {
			for _, item := range v.items {
				if s, ok := memberString(item); ok {
					out = append(out, encodeValue(op, s, key))
				}
			}
			return out
		}
		var tmp []string
		for _, item := range v.items {
			if s, ok := memberString(item); ok {
				tmp = append(tmp, encodeValue(op, s, ""))
			}
		}
		out = joinMembers(out, op, spec.name, tmp)
	case assoc:
		if spec.explode {
			for _, p := range v.pairs {
				if s, ok := memberString(p.Value); ok {
					out = append(out, encodeValue(op, s, p.Key))
				}
			}
			return out
		}
		var tmp []string
		for _, p := range v.pairs {
			if s, ok := memberString(p.Value); ok {
				tmp = append(tmp, encodeUnreserved(p.Key), encodeValue(op, s, ""))
			}
		}
		out = joinMembers(out, op, spec.name, tmp)
	}
	return out
}

func joinMembers(out []string, op byte, name string, members []string) []string {
	if isKeyOperator(op) {
		return append(out, encodeUnreserved(name)+"="+strings.Join(members, ","))
	}
	if len(members) != 0 {
		return append(out, strings.Join(members, ","))
	}
	return out
}

func encodeValue(op byte, s, key string) string {
	if op == '+' || op == '#' {
		s = encodeReserved(s)
	} else {
		s = encodeUnreserved(s)
	}
	if key != "" {
		return encodeUnreserved(key) + "=" + s
	}
	return s
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for n > 0 {
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
		n--
	}
	return s[:i]
}
