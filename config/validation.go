// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/gogama/fetchx/request"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("koanf"), ",", 2)[0]
		if name == "" {
			return f.Name
		}
		return name
	})
	if err := v.RegisterValidation("httpmethod", func(fl validator.FieldLevel) bool {
		return request.ValidMethod(strings.ToUpper(fl.Field().String()))
	}); err != nil {
		panic(err)
	}
	if err := v.RegisterValidation("responsetype", func(fl validator.FieldLevel) bool {
		return request.ResponseType(fl.Field().String()).Normalize() != ""
	}); err != nil {
		panic(err)
	}
	return v
}

// Validate checks cfg, returning an error describing every invalid
// field.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		var ve validator.ValidationErrors
		if !errors.As(err, &ve) {
			return err
		}
		msgs := make([]string, len(ve))
		for i, fe := range ve {
			msgs[i] = fmt.Sprintf("%s: failed %q validation with value %v", fe.Namespace(), fe.Tag(), fe.Value())
		}
		return errors.New(strings.Join(msgs, "; "))
	}

	if r := cfg.Retry; r.MaxTimeout > 0 && r.MaxTimeout < r.MinTimeout {
		return fmt.Errorf("retry: maxTimeout %s is less than minTimeout %s", r.MaxTimeout, r.MinTimeout)
	}
	return nil
}
