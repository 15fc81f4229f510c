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

package registry

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"dirpx.dev/dtx/apis"
)

var (
	// ErrNilCatalog is returned by New when no catalog is provided.
	ErrNilCatalog = errors.New("dtx(registry): nil catalog provided")
	// ErrInvalidMarker is returned when a catalog entry has no usable derived type marker.
	ErrInvalidMarker = errors.New("dtx(registry): invalid derived type marker")
	// ErrNotConcrete is returned when an interface type is declared as a derived type.
	ErrNotConcrete = errors.New("dtx(registry): derived type must be a concrete type")
	// ErrAmbiguousIdentifier is the sentinel behind AmbiguousIdentifierError.
	ErrAmbiguousIdentifier = errors.New("dtx(registry): ambiguous derived type identifier")
	// ErrMissingTargetType is the sentinel behind MissingTargetTypeError.
	ErrMissingTargetType = errors.New("dtx(registry): missing target type")
	// ErrAmbiguousTargetType is the sentinel behind AmbiguousTargetTypeError.
	ErrAmbiguousTargetType = errors.New("dtx(registry): ambiguous target type")
	// ErrTargetTypeMismatch is the sentinel behind TargetTypeMismatchError.
	ErrTargetTypeMismatch = errors.New("dtx(registry): target type mismatch")
	// ErrMissingDerivedType is the sentinel behind MissingDerivedTypeError.
	ErrMissingDerivedType = errors.New("dtx(registry): missing derived type")
	// ErrMissingTargetTypeForDerivedType is the sentinel behind MissingTargetTypeForDerivedTypeError.
	ErrMissingTargetTypeForDerivedType = errors.New("dtx(registry): missing target type for derived type")
)

// AmbiguousIdentifierError reports an identifier declared by more than one type.
type AmbiguousIdentifierError struct {
	Identifier apis.DerivedTypeID
	Types      []reflect.Type
}

func (e *AmbiguousIdentifierError) Error() string {
	return fmt.Sprintf("dtx(registry): derived type identifier %s is used by more than one type: %s",
		e.Identifier, typeList(e.Types))
}

func (e *AmbiguousIdentifierError) Unwrap() error { return ErrAmbiguousIdentifier }

// MissingTargetTypeError reports a derived type that implements no eligible interface.
type MissingTargetTypeError struct {
	Type reflect.Type
}

func (e *MissingTargetTypeError) Error() string {
	return fmt.Sprintf("dtx(registry): derived type %s implements no interface that could serve as target type", e.Type)
}

func (e *MissingTargetTypeError) Unwrap() error { return ErrMissingTargetType }

// AmbiguousTargetTypeError reports a derived type that implements several eligible
// interfaces and declares no explicit target.
type AmbiguousTargetTypeError struct {
	Type       reflect.Type
	Candidates []reflect.Type
}

func (e *AmbiguousTargetTypeError) Error() string {
	return fmt.Sprintf("dtx(registry): derived type %s implements more than one candidate target type (%s); declare the target explicitly",
		e.Type, typeList(e.Candidates))
}

func (e *AmbiguousTargetTypeError) Unwrap() error { return ErrAmbiguousTargetType }

// TargetTypeMismatchError reports an explicit target that the derived type does not implement.
type TargetTypeMismatchError struct {
	Type   reflect.Type
	Target reflect.Type
}

func (e *TargetTypeMismatchError) Error() string {
	return fmt.Sprintf("dtx(registry): derived type %s does not implement target type %s", e.Type, e.Target)
}

func (e *TargetTypeMismatchError) Unwrap() error { return ErrTargetTypeMismatch }

// MissingDerivedTypeError reports a lookup of an identifier unknown for a target.
type MissingDerivedTypeError struct {
	Target     reflect.Type
	Identifier apis.DerivedTypeID
}

func (e *MissingDerivedTypeError) Error() string {
	return fmt.Sprintf("dtx(registry): no derived type with identifier %q for target type %s", string(e.Identifier), e.Target)
}

func (e *MissingDerivedTypeError) Unwrap() error { return ErrMissingDerivedType }

// MissingTargetTypeForDerivedTypeError reports a lookup for a type that is not registered.
type MissingTargetTypeForDerivedTypeError struct {
	Type reflect.Type
}

func (e *MissingTargetTypeForDerivedTypeError) Error() string {
	return fmt.Sprintf("dtx(registry): %s is not a registered derived type", e.Type)
}

func (e *MissingTargetTypeForDerivedTypeError) Unwrap() error { return ErrMissingTargetTypeForDerivedType }

func typeList(ts []reflect.Type) string {
	names := make([]string, len(ts))
	for i, t := range ts {
		names[i] = t.String()
	}
	return strings.Join(names, ", ")
}
