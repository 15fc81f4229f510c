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

// Registry maps target types to their derived types and back.
// Implementations are immutable after construction and safe for concurrent reads.
type Registry interface {
	// DerivedTypeFor returns the concrete type registered under target with id.
	DerivedTypeFor(target reflect.Type, id DerivedTypeID) (reflect.Type, error)
	// TargetTypeFor returns the target type a concrete derived type is registered for.
	TargetTypeFor(concrete reflect.Type) (reflect.Type, error)
	// IdentifierFor returns the identifier a concrete derived type is registered with.
	IdentifierFor(concrete reflect.Type) (DerivedTypeID, error)
	// IsDerivedType reports whether t (or the type t points to) is a registered derived type.
	IsDerivedType(t reflect.Type) bool
	// HasDerivatives reports whether t is a target type with at least one derived type.
	HasDerivatives(t reflect.Type) bool
	// TargetTypesWithDerivatives returns every target type (order is unspecified).
	TargetTypesWithDerivatives() []reflect.Type
	// Entries returns a snapshot of all registrations (order is unspecified).
	Entries() []Entry
	// Count returns the number of registered derived types.
	Count() int
}

// Entry is a single derived type registration.
type Entry struct {
	// Type is the concrete, non-pointer derived type.
	Type reflect.Type
	// Target is the interface the derived type is registered for.
	Target reflect.Type
	// Identifier is the derived type identifier.
	Identifier DerivedTypeID
}
