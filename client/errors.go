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

package client

import (
	"errors"
	"fmt"

	"dirpx.dev/dtx/apis"
)

var (
	// ErrInvalidDiscriminator is returned when the derived type identifier member is
	// present but is not a JSON string.
	ErrInvalidDiscriminator = errors.New("dtx(client): derived type identifier must be a JSON string")
	// ErrMissingDerivedType is the sentinel behind MissingDerivedTypeError.
	ErrMissingDerivedType = errors.New("dtx(client): missing derived type")
	// ErrTypeMismatch is returned when a JSON value or Go value does not fit the
	// type a field is declared with.
	ErrTypeMismatch = errors.New("dtx(client): type mismatch")
	// ErrUntyped is returned when a value exposes no client type.
	ErrUntyped = errors.New("dtx(client): value has no client type")
)

// MissingDerivedTypeError reports an identifier that matches none of the
// derivatives a field or call allows.
type MissingDerivedTypeError struct {
	Field      string
	Identifier apis.DerivedTypeID
}

func (e *MissingDerivedTypeError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("dtx(client): no derived type with identifier %q", string(e.Identifier))
	}
	return fmt.Sprintf("dtx(client): no derived type with identifier %q for field %s", string(e.Identifier), e.Field)
}

func (e *MissingDerivedTypeError) Unwrap() error { return ErrMissingDerivedType }

// FieldError locates a failure inside an object.
type FieldError struct {
	Type  string
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("dtx(client): %s.%s: %v", e.Type, e.Field, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

func mismatch(want string, got any) error {
	return fmt.Errorf("%w: want %s, got %T", ErrTypeMismatch, want, got)
}
