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

const (
	// DerivedTypeMarkerKind is the kind of DerivedTypeMarker.
	DerivedTypeMarkerKind = "derived-type"

	// DerivedTypeIDProperty is the name of the discriminator field written next to
	// the fields of every serialized derived type.
	DerivedTypeIDProperty = "_derivedTypeId"
)

// DerivedTypeID identifies a derived type. The canonical form is a lowercase,
// hyphenated UUID without braces. Comparison is exact and case-sensitive.
type DerivedTypeID string

// String implements fmt.Stringer.
func (id DerivedTypeID) String() string { return string(id) }

// DerivedTypeMarker declares a concrete type as a derived type of Target.
// A nil Target means the target is inferred from the implemented interfaces.
type DerivedTypeMarker struct {
	Identifier DerivedTypeID
	Target     reflect.Type
}

// MarkerKind implements Marker.
func (DerivedTypeMarker) MarkerKind() string { return DerivedTypeMarkerKind }

// DerivedType can be implemented by a concrete type (value or pointer receiver)
// to declare itself a derived type without an explicit registration.
//
//	type FirstDerivative struct{ Value int }
//
//	func (*FirstDerivative) DerivedTypeID() string { return "ad7593d1-71be-4e26-9026-aedb32fc43d3" }
//
// The method is called on a zero value and must not depend on instance state.
type DerivedType interface {
	DerivedTypeID() string
}

// TargetTyped optionally accompanies DerivedType to declare the target explicitly.
type TargetTyped interface {
	DerivedTypeTarget() reflect.Type
}
