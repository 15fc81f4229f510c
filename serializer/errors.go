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
	"errors"
	"fmt"
	"reflect"
)

var (
	// ErrMaxDepth is returned when nesting exceeds Config.MaxDepth.
	ErrMaxDepth = errors.New("dtx(serializer): maximum depth exceeded")
	// ErrInvalidTarget is returned by Unmarshal when v is not a non-nil pointer.
	ErrInvalidTarget = errors.New("dtx(serializer): unmarshal target must be a non-nil pointer")
	// ErrInvalidJSON is returned when the input is not valid JSON.
	ErrInvalidJSON = errors.New("dtx(serializer): invalid JSON")
	// ErrUnsupportedType is the sentinel behind UnsupportedTypeError.
	ErrUnsupportedType = errors.New("dtx(serializer): unsupported type")
)

// UnsupportedTypeError reports a type the serializer cannot encode or decode,
// typically an interface no converter accepts.
type UnsupportedTypeError struct {
	Type reflect.Type
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("dtx(serializer): unsupported type %s", e.Type)
}

func (e *UnsupportedTypeError) Unwrap() error { return ErrUnsupportedType }

// TypeError reports a JSON value that does not fit the Go type it is decoded into.
type TypeError struct {
	Type  reflect.Type
	Value string
	Err   error
}

func (e *TypeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("dtx(serializer): cannot decode %s into %s: %v", e.Value, e.Type, e.Err)
	}
	return fmt.Sprintf("dtx(serializer): cannot decode %s into %s", e.Value, e.Type)
}

func (e *TypeError) Unwrap() error { return e.Err }
