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

package apis

import "reflect"

// Catalog answers "which types exist" for type discovery purposes.
// A Catalog is built once and is read-only afterwards.
type Catalog interface {
	// All returns every known type in a stable order.
	All() []reflect.Type
	// TypesDecorated returns the types carrying at least one marker of kind.
	TypesDecorated(kind string) []TypeInfo
	// Interfaces returns the interface types known to the catalog.
	Interfaces() []reflect.Type
	// Implementors returns the concrete types whose value or pointer implements contract.
	Implementors(contract reflect.Type) []reflect.Type
}

// TypeInfo is a catalog type together with the markers declared for it.
type TypeInfo struct {
	// Type is the catalog type. Never a pointer type.
	Type reflect.Type
	// Markers holds the declarations attached to Type.
	Markers []Marker
}

// Marker returns the first marker of kind, if any. Nil markers are skipped.
func (ti TypeInfo) Marker(kind string) (Marker, bool) {
	for _, m := range ti.Markers {
		if isNilMarker(m) {
			continue
		}
		if m.MarkerKind() == kind {
			return m, true
		}
	}
	return nil, false
}

// Marker is a declaration attached to a catalog type.
type Marker interface {
	// MarkerKind identifies the kind of declaration.
	MarkerKind() string
}

func isNilMarker(m Marker) bool {
	if m == nil {
		return true
	}
	v := reflect.ValueOf(m)
	return v.Kind() == reflect.Pointer && v.IsNil()
}
