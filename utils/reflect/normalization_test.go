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

package reflect_test

import (
	"fmt"
	"io"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	uref "dirpx.dev/dtx/utils/reflect"
)

type named struct{}

type shape interface{ Area() float64 }

type square struct{ side float64 }

func (s *square) Area() float64 { return s.side * s.side }

type circle struct{ r float64 }

func (c circle) Area() float64 { return 3 * c.r * c.r }

func TestNormalize(t *testing.T) {
	cases := []struct {
		name string
		typ  reflect.Type
		want reflect.Type
		err  error
	}{
		{"nil", nil, nil, uref.ErrReflectNilType},
		{"plain", reflect.TypeFor[named](), reflect.TypeFor[named](), nil},
		{"ptr", reflect.TypeFor[*named](), reflect.TypeFor[named](), nil},
		{"ptr ptr", reflect.TypeFor[**named](), reflect.TypeFor[named](), nil},
		{"interface", reflect.TypeFor[shape](), reflect.TypeFor[shape](), nil},
		{"slice", reflect.TypeFor[[]named](), nil, uref.ErrReflectTypeNotNamed},
		{"anonymous struct", reflect.TypeFor[struct{ A int }](), nil, uref.ErrReflectTypeNotNamed},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := uref.Normalize(tc.typ)
			if tc.err != nil {
				require.ErrorIs(t, err, tc.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestImplements(t *testing.T) {
	iface := reflect.TypeFor[shape]()

	assert.True(t, uref.Implements(reflect.TypeFor[square](), iface), "pointer receiver via *T")
	assert.True(t, uref.Implements(reflect.TypeFor[*square](), iface))
	assert.True(t, uref.Implements(reflect.TypeFor[circle](), iface), "value receiver")
	assert.False(t, uref.Implements(reflect.TypeFor[named](), iface))
	assert.False(t, uref.Implements(reflect.TypeFor[named](), reflect.TypeFor[named]()), "non-interface target")
	assert.False(t, uref.Implements(nil, iface))
}

func TestFullName(t *testing.T) {
	assert.Equal(t, "dirpx.dev/dtx/utils/reflect_test.named", uref.FullName(reflect.TypeFor[named]()))
	assert.Equal(t, "int", uref.FullName(reflect.TypeFor[int]()))
	assert.Equal(t, "[]int", uref.FullName(reflect.TypeFor[[]int]()))
	assert.Equal(t, "", uref.FullName(nil))
}

func TestIsSystemType(t *testing.T) {
	assert.True(t, uref.IsSystemType(reflect.TypeFor[fmt.Stringer](), nil))
	assert.True(t, uref.IsSystemType(reflect.TypeFor[io.Reader](), nil))
	assert.True(t, uref.IsSystemType(reflect.TypeFor[error](), nil), "predeclared")
	assert.False(t, uref.IsSystemType(reflect.TypeFor[shape](), nil))
	assert.True(t, uref.IsSystemType(reflect.TypeFor[shape](), []string{"dirpx.dev/dtx/utils"}))
	assert.True(t, uref.IsSystemType(reflect.TypeFor[shape](), []string{"dirpx.dev/dtx/utils/reflect_test"}))
	assert.False(t, uref.IsSystemType(reflect.TypeFor[shape](), []string{"dirpx.dev/dtx/util"}))
	assert.False(t, uref.IsSystemType(nil, nil))
}

func TestIsSystemPackage(t *testing.T) {
	cases := []struct {
		path  string
		extra []string
		want  bool
	}{
		{path: "fmt", want: true},
		{path: "encoding/json", want: true},
		{path: "net/http/httptest", want: true},
		{path: "main", want: false},
		{path: "main_test", want: false},
		{path: "command-line-arguments", want: false},
		{path: "command-line-arguments_test", want: false},
		{path: "github.com/acme/shapes", want: false},
		{path: "dirpx.dev/dtx/registry", want: false},
		{path: "", want: false},
		{path: "main", extra: []string{"main"}, want: true},
		{path: "github.com/acme/shapes/v2", extra: []string{"github.com/acme/"}, want: true},
	}
	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			assert.Equal(t, tc.want, uref.IsSystemPackage(tc.path, tc.extra))
		})
	}
}
