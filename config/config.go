// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package config loads fetchx client configuration from YAML and the
// environment, and builds ready to use clients from it.
//
// Configuration is layered with the following priority:
//  1. Environment variables prefixed FETCHX_ (highest priority)
//  2. YAML configuration, from a file or bytes
//  3. Default values (lowest priority)
//
// Environment variable names are the configuration keys in upper case
// with "_" for ".", for example FETCHX_RETRY_MINTIMEOUT for
// retry.minTimeout. Under FETCHX_HEADERS_ the remaining "_" become "-",
// so FETCHX_HEADERS_X_API_KEY sets the x-api-key header.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	env "github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of environment variables read by Load and
// Parse.
const EnvPrefix = "FETCHX_"

// Config is the configuration of a client.
type Config struct {
	BaseURL   string            `koanf:"baseUrl" validate:"omitempty,url"`
	Method    string            `koanf:"method" validate:"omitempty,httpmethod"`
	UserAgent string            `koanf:"userAgent"`
	Headers   map[string]string `koanf:"headers"`
	Params    map[string]any    `koanf:"params"`
	Request   RequestConfig     `koanf:"request"`
	Retry     RetryConfig       `koanf:"retry"`
	Log       LogConfig         `koanf:"log"`
	RateLimit RateLimitConfig   `koanf:"rateLimit"`
}

// RequestConfig holds per-request settings.
type RequestConfig struct {
	// Timeout is the time allowed for response headers. Zero means no
	// timeout.
	Timeout              time.Duration `koanf:"timeout" validate:"gte=0"`
	ResponseType         string        `koanf:"responseType" validate:"omitempty,responsetype"`
	AutoParseRequestBody bool          `koanf:"autoParseRequestBody"`
	ThrowResponseError   bool          `koanf:"throwResponseError"`
}

// RetryConfig holds retry settings.
type RetryConfig struct {
	Enabled    bool          `koanf:"enabled"`
	Retries    int           `koanf:"retries" validate:"gte=0"`
	DoNotRetry []int         `koanf:"doNotRetry" validate:"dive,gte=100,lte=599"`
	Factor     float64       `koanf:"factor" validate:"gt=0"`
	MinTimeout time.Duration `koanf:"minTimeout" validate:"gte=0"`
	MaxTimeout time.Duration `koanf:"maxTimeout" validate:"gte=0"`
	Randomize  bool          `koanf:"randomize"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error fatal panic disabled"`
	Pretty bool   `koanf:"pretty"`
}

// RateLimitConfig holds client-side rate limit settings. A zero Rate
// disables rate limiting.
type RateLimitConfig struct {
	Rate  float64 `koanf:"rate" validate:"gte=0"`
	Burst int     `koanf:"burst" validate:"gte=0"`
}

var defaults = map[string]any{
	"baseUrl":   "",
	"method":    "GET",
	"userAgent": "",

	"request.timeout":              "0s",
	"request.responseType":         "",
	"request.autoParseRequestBody": true,
	"request.throwResponseError":   true,

	"retry.enabled":    false,
	"retry.retries":    3,
	"retry.doNotRetry": []int{400, 401, 403, 404, 422, 451},
	"retry.factor":     2.0,
	"retry.minTimeout": "1s",
	"retry.maxTimeout": "0s",
	"retry.randomize":  false,

	"log.level":  "info",
	"log.pretty": false,

	"rateLimit.rate":  0.0,
	"rateLimit.burst": 1,
}

// envKeys maps environment style keys, such as "retry_mintimeout", to
// configuration keys.
var envKeys = func() map[string]string {
	m := make(map[string]string, len(defaults))
	for k := range defaults {
		m[strings.ReplaceAll(strings.ToLower(k), ".", "_")] = k
	}
	return m
}()

// Load loads configuration from the YAML file at path, layered over the
// defaults and under the environment. An empty path loads no file.
func Load(path string) (*Config, error) {
	return load(func(k *koanf.Koanf) error {
		if path == "" {
			return nil
		}
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
		return nil
	})
}

// Parse loads configuration from YAML bytes, layered over the defaults
// and under the environment.
func Parse(b []byte) (*Config, error) {
	return load(func(k *koanf.Koanf) error {
		if len(b) == 0 {
			return nil
		}
		if err := k.Load(rawbytes.Provider(b), yaml.Parser()); err != nil {
			return fmt.Errorf("failed to parse config: %w", err)
		}
		return nil
	})
}

func load(source func(*koanf.Koanf) error) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if err := source(k); err != nil {
		return nil, err
	}

	if err := k.Load(env.Provider(".", env.Opt{
		Prefix:        EnvPrefix,
		TransformFunc: envKey,
		EnvironFunc:   os.Environ,
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// envKey converts an environment variable to a configuration key. An
// empty key skips the variable.
func envKey(name, value string) (string, any) {
	key := strings.ToLower(strings.TrimPrefix(name, EnvPrefix))
	switch {
	case strings.HasPrefix(key, "headers_"):
		return "headers." + strings.ReplaceAll(strings.TrimPrefix(key, "headers_"), "_", "-"), value
	case strings.HasPrefix(key, "params_"):
		return "params." + strings.TrimPrefix(key, "params_"), value
	}
	k, ok := envKeys[key]
	if !ok {
		return "", nil
	}
	if _, ok := defaults[k].([]int); ok {
		return k, strings.Split(value, ",")
	}
	return k, value
}
