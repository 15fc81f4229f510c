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

package reflect

import (
	"errors"
	"reflect"
	"runtime/debug"
	"strings"
	"sync"
)

var (
	// ErrReflectNilType is returned when a nil reflect.Type is provided.
	ErrReflectNilType = errors.New("reflect: nil reflect.Type provided")
	// ErrReflectTypeNotNamed indicates that the provided type (after stripping pointers)
	// is not a named type (e.g., anonymous struct, func, slice literal type).
	ErrReflectTypeNotNamed = errors.New("reflect: type is not a named type")
)

// maxIndirect bounds pointer stripping; ***T is already unusual.
const maxIndirect = 8

// Normalize strips pointer indirections and returns the named type underneath,
// or an error if the result is not a named type.
//
//	*Foo   -> Foo
//	**Foo  -> Foo
//	[]Foo  -> ErrReflectTypeNotNamed
func Normalize(t reflect.Type) (reflect.Type, error) {
	if t == nil {
		return nil, ErrReflectNilType
	}
	t = Indirect(t)
	if t.Name() == "" {
		return nil, ErrReflectTypeNotNamed
	}
	return t, nil
}

// Indirect strips pointer indirections from t.
func Indirect(t reflect.Type) reflect.Type {
	for i := 0; t != nil && t.Kind() == reflect.Pointer && i < maxIndirect; i++ {
		t = t.Elem()
	}
	return t
}

// Implements reports whether t or *t implements the interface iface.
func Implements(t, iface reflect.Type) bool {
	if t == nil || iface == nil || iface.Kind() != reflect.Interface {
		return false
	}
	if t.Implements(iface) {
		return true
	}
	return t.Kind() != reflect.Pointer && reflect.PointerTo(t).Implements(iface)
}

// FullName returns "<pkgpath>.<Name>" for named types and t.String() otherwise.
func FullName(t reflect.Type) string {
	if t == nil {
		return ""
	}
	if p := t.PkgPath(); p != "" && t.Name() != "" {
		return p + "." + t.Name()
	}
	return t.String()
}

// IsSystemType reports whether t is declared by the Go standard library (or is
// predeclared), or by a package matching one of the extra path prefixes.
// See IsSystemPackage for the path rules.
func IsSystemType(t reflect.Type, extra []string) bool {
	if t == nil {
		return false
	}
	p := t.PkgPath()
	if p == "" {
		return true
	}
	return IsSystemPackage(p, extra)
}

// programPackages are import paths the go command assigns to program code
// rather than to the standard library.
var programPackages = map[string]struct{}{
	"main":                   {},
	"command-line-arguments": {},
}

// IsSystemPackage reports whether the import path p belongs to the standard
// library or matches one of the extra path prefixes.
//
// A path is part of the standard library when the first element contains no
// dot, it is not a program package (main, command-line-arguments or their
// external test packages) and it does not belong to the main module.
func IsSystemPackage(p string, extra []string) bool {
	if p == "" {
		return false
	}
	for _, prefix := range extra {
		if prefix != "" && (p == prefix || strings.HasPrefix(p, strings.TrimSuffix(prefix, "/")+"/")) {
			return true
		}
	}
	if _, ok := programPackages[strings.TrimSuffix(p, "_test")]; ok {
		return false
	}
	if m := mainModule(); m != "" && (p == m || strings.HasPrefix(p, m+"/")) {
		return false
	}
	first, _, _ := strings.Cut(p, "/")
	return !strings.Contains(first, ".")
}

// mainModule returns the main module path from the build info, if known.
var mainModule = sync.OnceValue(func() string {
	if bi, ok := debug.ReadBuildInfo(); ok {
		return bi.Main.Path
	}
	return ""
})
