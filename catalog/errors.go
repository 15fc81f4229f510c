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

package catalog

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

var (
	// ErrNilType is returned when a nil reflect.Type is provided.
	ErrNilType = errors.New("dtx(catalog): nil reflect.Type provided")
	// ErrInvalidIdentifier is returned when a derived type identifier is not a UUID.
	ErrInvalidIdentifier = errors.New("dtx(catalog): invalid derived type identifier")
	// ErrConflictingDeclaration indicates that the same type was declared twice
	// with a different identifier or target.
	ErrConflictingDeclaration = errors.New("dtx(catalog): conflicting derived type declaration")
	// ErrMultipleTypesFound is the sentinel behind MultipleTypesFoundError.
	ErrMultipleTypesFound = errors.New("dtx(catalog): multiple types found")
	// ErrTypeNotFound is the sentinel behind TypeNotFoundError.
	ErrTypeNotFound = errors.New("dtx(catalog): type not found")
)

// MultipleTypesFoundError is returned by FindSingle when more than one
// implementor exists for a contract.
type MultipleTypesFoundError struct {
	Contract reflect.Type
	Types    []reflect.Type
}

func (e *MultipleTypesFoundError) Error() string {
	names := make([]string, len(e.Types))
	for i, t := range e.Types {
		names[i] = t.String()
	}
	return fmt.Sprintf("dtx(catalog): multiple types found for %s: %s", e.Contract, strings.Join(names, ", "))
}

func (e *MultipleTypesFoundError) Unwrap() error { return ErrMultipleTypesFound }

// TypeNotFoundError is returned by FindByName when no type has the given full name.
type TypeNotFoundError struct {
	Name string
}

func (e *TypeNotFoundError) Error() string {
	return fmt.Sprintf("dtx(catalog): unable to resolve type by name %q", e.Name)
}

func (e *TypeNotFoundError) Unwrap() error { return ErrTypeNotFound }
