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

// Package converter provides the serializer converters of dtx.
package converter

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"

	"dirpx.dev/dtx/apis"
)

// ErrInvalidDiscriminator is returned when the derived type identifier member is
// present but is not a JSON string.
var ErrInvalidDiscriminator = errors.New("dtx(converter): derived type identifier must be a JSON string")

// NewDerivedTypes creates a converter that handles target interfaces of reg and
// their registered derived types.
func NewDerivedTypes(reg apis.Registry) apis.Converter {
	return &derivedTypes{reg: reg}
}

// derivedTypes reads and writes the apis.DerivedTypeIDProperty member.
type derivedTypes struct {
	reg apis.Registry
}

// Ensure derivedTypes implements apis.Converter.
var _ apis.Converter = (*derivedTypes)(nil)

// CanConvert accepts target types with derivatives and derived struct types.
func (c *derivedTypes) CanConvert(t reflect.Type) bool {
	if t == nil || c.reg == nil {
		return false
	}
	return c.reg.HasDerivatives(t) || (t.Kind() == reflect.Struct && c.reg.IsDerivedType(t))
}

// Read decodes an object into v.
//
// For a target interface the identifier selects the concrete type; the value
// is assigned as T when T implements the interface and as *T otherwise. Without
// an identifier the interface is set to nil. An unknown identifier fails and v is
// left untouched. For a derived struct the identifier is ignored.
func (c *derivedTypes) Read(dec apis.Decoder, data json.RawMessage, v reflect.Value) error {
	t := v.Type()
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		if t.Kind() == reflect.Interface {
			v.SetZero()
		}
		return nil
	}

	var members map[string]json.RawMessage
	if err := json.Unmarshal(data, &members); err != nil {
		return fmt.Errorf("dtx(converter): %s expects a JSON object: %w", t, err)
	}
	raw, hasID := members[apis.DerivedTypeIDProperty]
	delete(members, apis.DerivedTypeIDProperty)

	if t.Kind() != reflect.Interface {
		return dec.DecodeFields(members, v)
	}
	if !hasID {
		v.SetZero()
		return nil
	}

	id, err := identifier(raw)
	if err != nil {
		return err
	}
	concrete, err := c.reg.DerivedTypeFor(t, id)
	if err != nil {
		return err
	}
	instance := reflect.New(concrete)
	if err := dec.DecodeFields(members, instance.Elem()); err != nil {
		return err
	}
	// Types implementing the target with value receivers keep their value form.
	if concrete.Implements(t) {
		v.Set(instance.Elem())
		return nil
	}
	v.Set(instance)
	return nil
}

// Write encodes the runtime value behind v. Derived types get their identifier
// appended after their own members.
func (c *derivedTypes) Write(enc apis.Encoder, v reflect.Value) (json.RawMessage, error) {
	for v.Kind() == reflect.Interface || v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return json.RawMessage("null"), nil
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct || !c.reg.IsDerivedType(v.Type()) {
		return enc.EncodeValue(v)
	}

	id, err := c.reg.IdentifierFor(v.Type())
	if err != nil {
		return nil, err
	}
	fields, err := enc.EncodeFields(v)
	if err != nil {
		return nil, err
	}
	out := fields[:0]
	for _, f := range fields {
		if f.Name != apis.DerivedTypeIDProperty {
			out = append(out, f)
		}
	}
	idRaw, err := json.Marshal(id.String())
	if err != nil {
		return nil, err
	}
	out = append(out, apis.Field{Name: apis.DerivedTypeIDProperty, Value: idRaw})
	return enc.EncodeObject(out)
}

func identifier(raw json.RawMessage) (apis.DerivedTypeID, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '"' {
		return "", fmt.Errorf("%w, got %s", ErrInvalidDiscriminator, raw)
	}
	var id string
	if err := json.Unmarshal(raw, &id); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidDiscriminator, err)
	}
	return apis.DerivedTypeID(id), nil
}
