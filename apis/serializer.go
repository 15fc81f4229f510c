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

import (
	"encoding/json"
	"reflect"
)

// Serializer encodes Go values to JSON and back, consulting its converters.
type Serializer interface {
	// Marshal returns the JSON encoding of v.
	Marshal(v any) ([]byte, error)
	// Unmarshal decodes data into the value pointed to by v.
	Unmarshal(data []byte, v any) error
}

// Converter takes over encoding and decoding for the types it accepts.
// A serializer asks CanConvert once per distinct type and caches the answer.
type Converter interface {
	// CanConvert reports whether the converter handles values of type t.
	CanConvert(t reflect.Type) bool
	// Read decodes data into v. v is settable and of a type accepted by CanConvert.
	Read(dec Decoder, data json.RawMessage, v reflect.Value) error
	// Write encodes v, whose type was accepted by CanConvert.
	Write(enc Encoder, v reflect.Value) (json.RawMessage, error)
}

// Field is a single encoded object member.
type Field struct {
	Name  string
	Value json.RawMessage
}

// Encoder is the ordinary (converter-aware) encoding primitive handed to converters.
type Encoder interface {
	// EncodeValue encodes v, consulting converters.
	EncodeValue(v reflect.Value) (json.RawMessage, error)
	// EncodeFields encodes the fields of struct v without consulting converters for v itself.
	EncodeFields(v reflect.Value) ([]Field, error)
	// EncodeObject renders fields as a JSON object, in order.
	EncodeObject(fields []Field) (json.RawMessage, error)
}

// Decoder is the ordinary (converter-aware) decoding primitive handed to converters.
type Decoder interface {
	// DecodeValue decodes data into the settable v, consulting converters.
	DecodeValue(data json.RawMessage, v reflect.Value) error
	// DecodeFields assigns members of an object to the fields of struct v without
	// consulting converters for v itself. Unknown members are ignored.
	DecodeFields(members map[string]json.RawMessage, v reflect.Value) error
}
