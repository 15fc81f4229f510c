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
	"encoding/json"
	"fmt"
)

// Field describes a member of an object type.
type Field struct {
	// Name is the serialized member name.
	Name string
	// Type is the element type. Nil for derived fields, see Derivatives.
	Type *Type
	// Enumerable marks collection fields; Type then describes the elements.
	Enumerable bool
	// Derivatives lists the derived types a polymorphic field accepts.
	Derivatives []*Type

	// encode returns the member value and whether it is present.
	encode func(obj any) (json.RawMessage, bool, error)
	// decode assigns the parsed member value.
	decode func(obj any, parsed any) error
}

// Value declares a field holding a well-known type. V must be the Go type the
// well-known type holds (float64 for Number, time.Time for Date...).
func Value[T, V any](name string, t *Type, at func(*T) *V) Field {
	mustBeWellKnown(name, t)
	return Field{
		Name: name,
		Type: t,
		encode: func(obj any) (json.RawMessage, bool, error) {
			p, err := self[T](obj)
			if err != nil {
				return nil, false, err
			}
			raw, err := t.write(*at(p))
			return raw, true, err
		},
		decode: func(obj any, parsed any) error {
			p, err := self[T](obj)
			if err != nil {
				return err
			}
			v, err := readAs[V](t, parsed)
			if err != nil {
				return err
			}
			*at(p) = v
			return nil
		},
	}
}

// Values declares a collection of a well-known type. A nil slice is not written.
func Values[T, V any](name string, t *Type, at func(*T) *[]V) Field {
	mustBeWellKnown(name, t)
	return collection(name, t, nil, at,
		func(v V) (json.RawMessage, bool, error) {
			raw, err := t.write(v)
			return raw, true, err
		},
		func(parsed any) (V, error) { return readAs[V](t, parsed) },
	)
}

// Object declares a field holding an object of type t by value.
func Object[T, V any](name string, t *Type, at func(*T) *V) Field {
	return Field{
		Name: name,
		Type: t,
		encode: func(obj any) (json.RawMessage, bool, error) {
			p, err := self[T](obj)
			if err != nil {
				return nil, false, err
			}
			raw, err := encodeObject(t, at(p))
			return raw, true, err
		},
		decode: func(obj any, parsed any) error {
			p, err := self[T](obj)
			if err != nil {
				return err
			}
			v, err := objectAs[V](t, parsed)
			if err != nil {
				return err
			}
			*at(p) = v
			return nil
		},
	}
}

// ObjectRef declares a field holding a pointer to an object of type t.
// A nil pointer is not written.
func ObjectRef[T, V any](name string, t *Type, at func(*T) **V) Field {
	return Field{
		Name: name,
		Type: t,
		encode: func(obj any) (json.RawMessage, bool, error) {
			p, err := self[T](obj)
			if err != nil {
				return nil, false, err
			}
			ref := *at(p)
			if ref == nil {
				return nil, false, nil
			}
			raw, err := encodeObject(t, ref)
			return raw, true, err
		},
		decode: func(obj any, parsed any) error {
			p, err := self[T](obj)
			if err != nil {
				return err
			}
			if parsed == nil {
				*at(p) = nil
				return nil
			}
			v, err := objectAs[V](t, parsed)
			if err != nil {
				return err
			}
			*at(p) = &v
			return nil
		},
	}
}

// Objects declares a collection of objects of type t held by value.
func Objects[T, V any](name string, t *Type, at func(*T) *[]V) Field {
	return collection(name, t, nil, at,
		func(v V) (json.RawMessage, bool, error) {
			raw, err := encodeObject(t, &v)
			return raw, true, err
		},
		func(parsed any) (V, error) { return objectAs[V](t, parsed) },
	)
}

// Derived declares a polymorphic field of interface type V. The derived type is
// chosen by identifier among derivatives on decode; on encode the runtime value
// must implement Typed.
func Derived[T, V any](name string, at func(*T) *V, derivatives ...*Type) Field {
	return Field{
		Name:        name,
		Derivatives: derivatives,
		encode: func(obj any) (json.RawMessage, bool, error) {
			p, err := self[T](obj)
			if err != nil {
				return nil, false, err
			}
			return encodeDerived(*at(p))
		},
		decode: func(obj any, parsed any) error {
			p, err := self[T](obj)
			if err != nil {
				return err
			}
			v, err := derivedAs[V](name, derivatives, parsed)
			if err != nil {
				return err
			}
			*at(p) = v
			return nil
		},
	}
}

// DerivedCollection declares a collection of the polymorphic interface type V.
func DerivedCollection[T, V any](name string, at func(*T) *[]V, derivatives ...*Type) Field {
	return collection(name, nil, derivatives, at,
		func(v V) (json.RawMessage, bool, error) { return encodeDerived(v) },
		func(parsed any) (V, error) { return derivedAs[V](name, derivatives, parsed) },
	)
}

func collection[T, V any](
	name string,
	t *Type,
	derivatives []*Type,
	at func(*T) *[]V,
	write func(V) (json.RawMessage, bool, error),
	read func(any) (V, error),
) Field {
	return Field{
		Name:        name,
		Type:        t,
		Enumerable:  true,
		Derivatives: derivatives,
		encode: func(obj any) (json.RawMessage, bool, error) {
			p, err := self[T](obj)
			if err != nil {
				return nil, false, err
			}
			items := *at(p)
			if items == nil {
				return nil, false, nil
			}
			raws := make([]json.RawMessage, len(items))
			for i, item := range items {
				raw, present, err := write(item)
				if err != nil {
					return nil, false, err
				}
				if !present {
					raw = json.RawMessage("null")
				}
				raws[i] = raw
			}
			raw, err := json.Marshal(raws)
			return raw, true, err
		},
		decode: func(obj any, parsed any) error {
			p, err := self[T](obj)
			if err != nil {
				return err
			}
			if parsed == nil {
				*at(p) = nil
				return nil
			}
			list, ok := parsed.([]any)
			if !ok {
				return mismatch("array", parsed)
			}
			items := make([]V, len(list))
			for i, item := range list {
				if items[i], err = read(item); err != nil {
					return fmt.Errorf("[%d]: %w", i, err)
				}
			}
			*at(p) = items
			return nil
		},
	}
}

func self[T any](obj any) (*T, error) {
	p, ok := obj.(*T)
	if !ok || p == nil {
		return nil, mismatch(fmt.Sprintf("non-nil %T", p), obj)
	}
	return p, nil
}

func readAs[V any](t *Type, parsed any) (V, error) {
	var zero V
	if parsed == nil {
		return zero, nil
	}
	v, err := t.read(parsed)
	if err != nil {
		return zero, err
	}
	out, ok := v.(V)
	if !ok {
		return zero, mismatch(fmt.Sprintf("%T", zero), v)
	}
	return out, nil
}

func objectAs[V any](t *Type, parsed any) (V, error) {
	var zero V
	if parsed == nil {
		return zero, nil
	}
	inst, err := decodeObject(t, parsed)
	if err != nil {
		return zero, err
	}
	p, ok := inst.(*V)
	if !ok {
		return zero, mismatch(fmt.Sprintf("*%T", zero), inst)
	}
	return *p, nil
}

func derivedAs[V any](field string, derivatives []*Type, parsed any) (V, error) {
	var zero V
	inst, err := decodeDerived(field, derivatives, parsed)
	if err != nil || inst == nil {
		return zero, err
	}
	out, ok := inst.(V)
	if !ok {
		return zero, mismatch(fmt.Sprintf("%T", (*V)(nil)), inst)
	}
	return out, nil
}

func mustBeWellKnown(name string, t *Type) {
	if t == nil || !t.WellKnown() {
		panic(fmt.Sprintf("dtx(client): field %s requires a well-known type", name))
	}
}
