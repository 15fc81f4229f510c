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

// Package client is the reflection-free counterpart of the dtx serializer.
//
// Types are described by metadata instead of being discovered: a Type lists its
// fields, and every field knows how to read and write its value on an instance.
// Payloads are wire compatible with the serializer package, including the
// derived type identifier member.
//
//	var FirstDerivativeType = client.NewType[FirstDerivative]("FirstDerivative",
//		client.Value("firstDerivativeProperty", client.Number,
//			func(f *FirstDerivative) *float64 { return &f.FirstDerivativeProperty }),
//	).WithDerivedTypeID("ad7593d1-71be-4e26-9026-aedb32fc43d3")
//
//	func (*FirstDerivative) ClientType() *client.Type { return FirstDerivativeType }
package client

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"dirpx.dev/dtx/apis"
)

// Typed is implemented by object instances so that encoding can find the
// runtime type behind an interface value.
type Typed interface {
	ClientType() *Type
}

// Type describes a client type: either a well-known leaf type or an object.
// Types are built once, usually as package-level variables, and are read-only afterwards.
type Type struct {
	name   string
	id     apis.DerivedTypeID
	fields []Field

	// alloc returns a new *T for object types.
	alloc func() any
	// read and write are set for well-known types.
	read  func(parsed any) (any, error)
	write func(v any) (json.RawMessage, error)
}

// NewType describes the object type T. Instances are always handled as *T.
func NewType[T any](name string, fields ...Field) *Type {
	return &Type{
		name:   name,
		fields: fields,
		alloc:  func() any { return new(T) },
	}
}

// WithDerivedTypeID marks t as a derived type. It panics if id is not a UUID,
// since types are declared at package initialization.
func (t *Type) WithDerivedTypeID(id string) *Type {
	t.id = apis.DerivedTypeID(uuid.MustParse(id).String())
	return t
}

// Name returns the name the type was declared with.
func (t *Type) Name() string { return t.name }

// DerivedTypeID returns the identifier of a derived type, or "".
func (t *Type) DerivedTypeID() apis.DerivedTypeID { return t.id }

// Fields returns the declared fields.
func (t *Type) Fields() []Field { return append([]Field(nil), t.fields...) }

// WellKnown reports whether t is a leaf type such as Number or Date.
func (t *Type) WellKnown() bool { return t.read != nil }

func wellKnown(name string, read func(any) (any, error), write func(any) (json.RawMessage, error)) *Type {
	return &Type{name: name, read: read, write: write}
}

// DateLayout is the layout Date values are written with (UTC, millisecond precision).
const DateLayout = "2006-01-02T15:04:05.000Z07:00"

// Well-known types and the Go type their fields hold.
var (
	// Number holds float64.
	Number = wellKnown("Number", readNumber, marshal)
	// String holds string.
	String = wellKnown("String", readString, marshal)
	// Boolean holds bool.
	Boolean = wellKnown("Boolean", readBoolean, marshal)
	// Date holds time.Time.
	Date = wellKnown("Date", readDate, writeDate)
	// Guid holds uuid.UUID.
	Guid = wellKnown("Guid", readGuid, writeGuid)
	// Any holds the parsed JSON value as produced by encoding/json.
	Any = wellKnown("Any", func(p any) (any, error) { return p, nil }, marshal)
)

func marshal(v any) (json.RawMessage, error) { return json.Marshal(v) }

func readNumber(p any) (any, error) {
	if n, ok := p.(float64); ok {
		return n, nil
	}
	return nil, mismatch("number", p)
}

func readString(p any) (any, error) {
	if s, ok := p.(string); ok {
		return s, nil
	}
	return nil, mismatch("string", p)
}

func readBoolean(p any) (any, error) {
	if b, ok := p.(bool); ok {
		return b, nil
	}
	return nil, mismatch("boolean", p)
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	time.DateOnly,
}

// readDate accepts ISO-8601 strings and milliseconds since the Unix epoch.
func readDate(p any) (any, error) {
	switch v := p.(type) {
	case float64:
		return time.UnixMilli(int64(v)).UTC(), nil
	case string:
		s := strings.TrimSpace(v)
		for _, layout := range dateLayouts {
			if d, err := time.Parse(layout, s); err == nil {
				return d, nil
			}
		}
		return nil, mismatch("date", v)
	}
	return nil, mismatch("date", p)
}

func writeDate(v any) (json.RawMessage, error) {
	d, ok := v.(time.Time)
	if !ok {
		return nil, mismatch("time.Time", v)
	}
	return json.Marshal(d.UTC().Format(DateLayout))
}

func readGuid(p any) (any, error) {
	s, ok := p.(string)
	if !ok {
		return nil, mismatch("guid", p)
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return nil, mismatch("guid", s)
	}
	return u, nil
}

func writeGuid(v any) (json.RawMessage, error) {
	u, ok := v.(uuid.UUID)
	if !ok {
		return nil, mismatch("uuid.UUID", v)
	}
	return json.Marshal(u.String())
}
