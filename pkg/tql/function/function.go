// Licensed to Apache Software Foundation (ASF) under one or more contributor
// license agreements. See the NOTICE file distributed with
// this work for additional information regarding copyright
// ownership. Apache Software Foundation (ASF) licenses this file to you under
// the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

// Package function implements the filter function library. Every function is
// registered with a fixed signature validated against the type system before
// evaluation, and every implementation is pure and null-safe: a null argument
// yields a defined result instead of a failure.
package function

import (
	"sort"

	"github.com/quilldb/quill/pkg/diagnostics"
	"github.com/quilldb/quill/pkg/edm"
)

// Impl is a pure function over typed values.
type Impl func(args []edm.Value) (edm.Value, error)

// Signature describes a registered function: ordered parameter types, the
// number of trailing optional parameters, and the return type.
type Signature struct {
	fn       Impl
	Name     string
	Params   []edm.Type
	Return   edm.Type
	Optional int
}

// MinArgs returns the minimum accepted argument count.
func (s Signature) MinArgs() int { return len(s.Params) - s.Optional }

// MaxArgs returns the maximum accepted argument count.
func (s Signature) MaxArgs() int { return len(s.Params) }

// Validate checks an argument type list against the signature and returns
// the function's return type. Null is accepted for any parameter; numeric
// parameters accept any numeric type via promotion.
func (s Signature) Validate(args []edm.Type) (edm.Type, error) {
	if len(args) < s.MinArgs() || len(args) > s.MaxArgs() {
		return edm.TypeNull, diagnostics.Newf(diagnostics.KindFunction, diagnostics.CodeFunctionArity,
			"function %q expects %d to %d arguments, got %d", s.Name, s.MinArgs(), s.MaxArgs(), len(args))
	}
	for i, arg := range args {
		want := s.Params[i]
		if arg == edm.TypeNull {
			continue
		}
		if want.IsNumeric() && arg.IsNumeric() {
			continue
		}
		if arg != want {
			return edm.TypeNull, diagnostics.Newf(diagnostics.KindType, diagnostics.CodeTypeBadArgument,
				"function %q argument %d expects %s, got %s", s.Name, i+1, want, arg)
		}
	}
	return s.Return, nil
}

// Call validates the runtime argument types and invokes the implementation.
// Validated arguments are coerced to the declared parameter types first, so
// an implementation reads the representation its signature promises even when
// the caller passed a promotable numeric type.
func (s Signature) Call(args []edm.Value) (edm.Value, error) {
	types := make([]edm.Type, len(args))
	for i, a := range args {
		types[i] = a.Type()
	}
	if _, err := s.Validate(types); err != nil {
		return edm.Null, err
	}
	coerced := make([]edm.Value, len(args))
	for i, a := range args {
		v, err := edm.Convert(a, s.Params[i])
		if err != nil {
			return edm.Null, diagnostics.Newf(diagnostics.KindType, diagnostics.CodeTypeBadArgument,
				"function %q argument %d expects %s, got %s", s.Name, i+1, s.Params[i], a.Type())
		}
		coerced[i] = v
	}
	return s.fn(coerced)
}

var registry = map[string]Signature{}

func register(name string, params []edm.Type, optional int, ret edm.Type, fn Impl) {
	registry[name] = Signature{Name: name, Params: params, Optional: optional, Return: ret, fn: fn}
}

// Exists reports whether a function with the given name is registered.
func Exists(name string) bool {
	_, ok := registry[name]
	return ok
}

// Lookup returns the signature registered under name.
func Lookup(name string) (Signature, bool) {
	s, ok := registry[name]
	return s, ok
}

// Names returns all registered function names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// UnknownError builds the error for an unregistered function name, with a
// fuzzy-matched suggestion when one is close enough.
func UnknownError(name string) *diagnostics.Error {
	e := diagnostics.Newf(diagnostics.KindFunction, diagnostics.CodeFunctionUnknown,
		"unknown function %q", name)
	if s := diagnostics.Suggest(name, Names()); s != "" {
		e = e.WithSuggestion(s)
	}
	return e
}
