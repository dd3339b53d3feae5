// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package fetchx

// A Plugin adds a capability to a Client by installing interceptors into
// its hooks.
//
// Install is called once for each Client the plugin is part of, including
// clients derived with Defaults and Extend, so it must not assume it runs
// only once. Name identifies the plugin: a client never installs two
// plugins with the same name.
type Plugin interface {
	Name() string
	Install(c *Client)
}

type pluginFunc struct {
	name    string
	install func(*Client)
}

func (p *pluginFunc) Name() string {
	return p.name
}

func (p *pluginFunc) Install(c *Client) {
	p.install(c)
}

// NewPlugin returns a plugin with the given name which installs itself by
// calling install.
func NewPlugin(name string, install func(c *Client)) Plugin {
	if install == nil {
		panic("fetchx: nil install func")
	}
	return &pluginFunc{name: name, install: install}
}

// dedupe returns existing followed by each of added whose name is not
// yet present. Nil plugins are dropped.
func dedupe(existing, added []Plugin) []Plugin {
	out := make([]Plugin, 0, len(existing)+len(added))
	seen := make(map[string]bool, len(existing)+len(added))
	for _, list := range [][]Plugin{existing, added} {
		for _, p := range list {
			if p == nil || seen[p.Name()] {
				continue
			}
			seen[p.Name()] = true
			out = append(out, p)
		}
	}
	return out
}
