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
	"bytes"
	"encoding/json"
	"fmt"

	"dirpx.dev/dtx/apis"
)

// Serialize encodes v using its client type. Derived types get their identifier
// appended after their own members.
func Serialize(v Typed) ([]byte, error) {
	if v == nil {
		return []byte("null"), nil
	}
	t := v.ClientType()
	if t == nil {
		return nil, ErrUntyped
	}
	return encodeObject(t, v)
}

// Deserialize decodes data as an instance of t. R is *T for object types and the
// held Go type for well-known types.
func Deserialize[R any](t *Type, data []byte) (R, error) {
	var zero R
	parsed, err := parse(data)
	if err != nil {
		return zero, err
	}
	return DeserializeFromInstance[R](t, parsed)
}

// DeserializeArray decodes a JSON array whose elements are instances of t.
func DeserializeArray[R any](t *Type, data []byte) ([]R, error) {
	parsed, err := parse(data)
	if err != nil {
		return nil, err
	}
	return DeserializeArrayFromInstance[R](t, parsed)
}

// DeserializeFromInstance converts an already parsed JSON value (as produced by
// encoding/json into an any) into an instance of t.
func DeserializeFromInstance[R any](t *Type, parsed any) (R, error) {
	var zero R
	if t == nil {
		return zero, ErrUntyped
	}
	if parsed == nil {
		return zero, nil
	}
	var (
		v   any
		err error
	)
	if t.WellKnown() {
		v, err = t.read(parsed)
	} else {
		v, err = decodeObject(t, parsed)
	}
	if err != nil {
		return zero, err
	}
	out, ok := v.(R)
	if !ok {
		return zero, mismatch(fmt.Sprintf("%T", (*R)(nil)), v)
	}
	return out, nil
}

// DeserializeArrayFromInstance converts a parsed JSON array into instances of t.
func DeserializeArrayFromInstance[R any](t *Type, parsed any) ([]R, error) {
	list, ok := parsed.([]any)
	if !ok {
		return nil, mismatch("array", parsed)
	}
	out := make([]R, 0, len(list))
	for i, item := range list {
		v, err := DeserializeFromInstance[R](t, item)
		if err != nil {
			return nil, fmt.Errorf("[%d]: %w", i, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// DeserializeDerived decodes a polymorphic value: the identifier selects one of
// derivatives. An absent identifier yields the zero R.
func DeserializeDerived[R any](data []byte, derivatives ...*Type) (R, error) {
	var zero R
	parsed, err := parse(data)
	if err != nil {
		return zero, err
	}
	return derivedAs[R]("", derivatives, parsed)
}

func parse(data []byte) (any, error) {
	var parsed any
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("dtx(client): %w", err)
	}
	return parsed, nil
}

func encodeObject(t *Type, obj any) (json.RawMessage, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	n := 0
	member := func(name string, raw json.RawMessage) {
		if n > 0 {
			buf.WriteByte(',')
		}
		n++
		key, _ := json.Marshal(name)
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(raw)
	}
	for _, f := range t.fields {
		if f.Name == apis.DerivedTypeIDProperty {
			continue
		}
		raw, present, err := f.encode(obj)
		if err != nil {
			return nil, &FieldError{Type: t.name, Field: f.Name, Err: err}
		}
		if present {
			member(f.Name, raw)
		}
	}
	if t.id != "" {
		raw, _ := json.Marshal(t.id.String())
		member(apis.DerivedTypeIDProperty, raw)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func decodeObject(t *Type, parsed any) (any, error) {
	if t.alloc == nil {
		return nil, mismatch("object type", t.name)
	}
	members, ok := parsed.(map[string]any)
	if !ok {
		return nil, mismatch("object", parsed)
	}
	obj := t.alloc()
	for _, f := range t.fields {
		value, ok := members[f.Name]
		if !ok {
			continue
		}
		if err := f.decode(obj, value); err != nil {
			return nil, &FieldError{Type: t.name, Field: f.Name, Err: err}
		}
	}
	return obj, nil
}

func encodeDerived(v any) (json.RawMessage, bool, error) {
	if v == nil {
		return nil, false, nil
	}
	tv, ok := v.(Typed)
	if !ok {
		return nil, false, fmt.Errorf("%w: %T", ErrUntyped, v)
	}
	t := tv.ClientType()
	if t == nil {
		return nil, false, fmt.Errorf("%w: %T", ErrUntyped, v)
	}
	raw, err := encodeObject(t, tv)
	return raw, true, err
}

// decodeDerived selects the derivative named by the identifier member.
// An absent identifier yields nil.
func decodeDerived(field string, derivatives []*Type, parsed any) (any, error) {
	if parsed == nil {
		return nil, nil
	}
	members, ok := parsed.(map[string]any)
	if !ok {
		return nil, mismatch("object", parsed)
	}
	rawID, ok := members[apis.DerivedTypeIDProperty]
	if !ok {
		return nil, nil
	}
	s, ok := rawID.(string)
	if !ok {
		return nil, fmt.Errorf("%w, got %T", ErrInvalidDiscriminator, rawID)
	}
	id := apis.DerivedTypeID(s)
	for _, d := range derivatives {
		if d != nil && d.id == id {
			return decodeObject(d, members)
		}
	}
	return nil, &MissingDerivedTypeError{Field: field, Identifier: id}
}
