/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

// Package naming provides the property naming policies used by the serializer.
package naming

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"dirpx.dev/dtx/apis"
)

const (
	// CamelCaseName is the config name of the camelCase policy.
	CamelCaseName = "camel"
	// DefaultName is the config name of the identity policy.
	DefaultName = "default"
)

// ErrUnknownPolicy is returned by FromName for an unsupported policy name.
var ErrUnknownPolicy = errors.New("dtx(naming): unknown naming policy")

// FromName returns the policy registered under name.
func FromName(name string) (apis.NamingPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case CamelCaseName, "camelcase":
		return CamelCase(), nil
	case DefaultName, "":
		return Default(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownPolicy, name)
}

// Default returns the policy that keeps Go field names unchanged.
func Default() apis.NamingPolicy { return defaultPolicy{} }

// CamelCase returns an acronym friendly camelCase policy:
//
//	SomeNumber -> someNumber
//	ID         -> id
//	HTTPServer -> httpServer
func CamelCase() apis.NamingPolicy { return camelCasePolicy{} }

type defaultPolicy struct{}

// Ensure defaultPolicy implements apis.NamingPolicy.
var _ apis.NamingPolicy = defaultPolicy{}

func (defaultPolicy) Name() string                    { return DefaultName }
func (defaultPolicy) PropertyName(name string) string { return name }

type camelCasePolicy struct{}

// Ensure camelCasePolicy implements apis.NamingPolicy.
var _ apis.NamingPolicy = camelCasePolicy{}

func (camelCasePolicy) Name() string { return CamelCaseName }

// PropertyName lowercases the leading run of upper case letters. When the run is
// followed by a lower case letter, its last letter starts the next word.
func (camelCasePolicy) PropertyName(name string) string {
	if r, _ := utf8.DecodeRuneInString(name); !unicode.IsUpper(r) {
		return name
	}

	rs := []rune(name)
	run := 0
	for run < len(rs) && unicode.IsUpper(rs[run]) {
		run++
	}
	n := run
	if run > 1 && run < len(rs) && unicode.IsLower(rs[run]) {
		n = run - 1
	}
	for i := 0; i < n; i++ {
		rs[i] = unicode.ToLower(rs[i])
	}
	return string(rs)
}
