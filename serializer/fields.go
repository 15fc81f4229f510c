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

package serializer

import (
	"reflect"
	"strings"
)

// field is a serialized struct member.
type field struct {
	name      string
	index     []int
	omitEmpty bool
	tagged    bool
}

// fields returns the cached field plan of struct type t.
func (s *Serializer) fields(t reflect.Type) []field {
	if v, ok := s.plans.Load(t); ok {
		return v.([]field)
	}
	v, _ := s.plans.LoadOrStore(t, s.buildPlan(t))
	return v.([]field)
}

type candidate struct {
	field
	depth int
}

// buildPlan follows the encoding/json visibility rules: exported fields, json tag
// names and "-", untagged embedded structs flattened, and the shallowest field
// winning a name (ties broken by a single tagged field, otherwise dropped).
// Untagged names go through the naming policy.
func (s *Serializer) buildPlan(t reflect.Type) []field {
	var all []candidate
	s.collect(t, nil, 0, map[reflect.Type]bool{t: true}, &all)

	best := make(map[string]int, len(all))
	drop := make(map[string]bool)
	for i, c := range all {
		j, seen := best[c.name]
		if !seen {
			best[c.name] = i
			continue
		}
		prev := all[j]
		switch {
		case c.depth > prev.depth:
		case c.depth < prev.depth:
			best[c.name] = i
			delete(drop, c.name)
		case c.tagged && !prev.tagged:
			best[c.name] = i
			delete(drop, c.name)
		case c.tagged == prev.tagged:
			drop[c.name] = true
		}
	}

	out := make([]field, 0, len(best))
	for i, c := range all {
		if best[c.name] == i && !drop[c.name] {
			out = append(out, c.field)
		}
	}
	return out
}

func (s *Serializer) collect(t reflect.Type, index []int, depth int, visited map[reflect.Type]bool, out *[]candidate) {
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		tag := sf.Tag.Get("json")
		if tag == "-" {
			continue
		}
		name, opts, _ := strings.Cut(tag, ",")
		idx := append(append([]int(nil), index...), i)

		if sf.Anonymous {
			ft := sf.Type
			if ft.Kind() == reflect.Pointer {
				ft = ft.Elem()
			}
			// Fields promoted through unexported embedded types are not settable.
			if !sf.IsExported() {
				continue
			}
			if name == "" && ft.Kind() == reflect.Struct {
				if !visited[ft] {
					visited[ft] = true
					s.collect(ft, idx, depth+1, visited, out)
					delete(visited, ft)
				}
				continue
			}
		} else if !sf.IsExported() {
			continue
		}

		tagged := name != ""
		if !tagged {
			name = s.policy.PropertyName(sf.Name)
		}
		*out = append(*out, candidate{
			field: field{
				name:      name,
				index:     idx,
				omitEmpty: hasOption(opts, "omitempty"),
				tagged:    tagged,
			},
			depth: depth,
		})
	}
}

func hasOption(opts, name string) bool {
	for opts != "" {
		var o string
		o, opts, _ = strings.Cut(opts, ",")
		if o == name {
			return true
		}
	}
	return false
}

// fieldForRead walks index from struct v. It reports false when a nil embedded
// pointer is crossed.
func fieldForRead(v reflect.Value, index []int) (reflect.Value, bool) {
	for i, x := range index {
		if i > 0 && v.Kind() == reflect.Pointer {
			if v.IsNil() {
				return reflect.Value{}, false
			}
			v = v.Elem()
		}
		v = v.Field(x)
	}
	return v, true
}

// fieldForWrite walks index from struct v, allocating nil embedded pointers.
func fieldForWrite(v reflect.Value, index []int) reflect.Value {
	for i, x := range index {
		if i > 0 && v.Kind() == reflect.Pointer {
			if v.IsNil() {
				v.Set(reflect.New(v.Type().Elem()))
			}
			v = v.Elem()
		}
		v = v.Field(x)
	}
	return v
}

func isEmptyValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64,
		reflect.Interface, reflect.Pointer:
		return v.IsZero()
	}
	return false
}

func isNil(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Slice, reflect.Map:
		return v.IsNil()
	}
	return false
}
