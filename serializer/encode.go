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
	"bytes"
	"encoding"
	"encoding/json"
	"reflect"
	"slices"
	"strconv"

	"dirpx.dev/dtx/apis"
)

var (
	marshalerType     = reflect.TypeFor[json.Marshaler]()
	textMarshalerType = reflect.TypeFor[encoding.TextMarshaler]()
	null              = []byte("null")
)

// encodeState carries the recursion depth of a single Marshal call.
type encodeState struct {
	s     *Serializer
	depth int
}

// Ensure encodeState implements apis.Encoder.
var _ apis.Encoder = (*encodeState)(nil)

// EncodeValue encodes v, consulting converters.
func (e *encodeState) EncodeValue(v reflect.Value) (json.RawMessage, error) {
	e.depth++
	defer func() { e.depth-- }()
	if e.depth > e.s.cfg.MaxDepth {
		return nil, ErrMaxDepth
	}

	if !v.IsValid() {
		return json.RawMessage("null"), nil
	}
	t := v.Type()
	if c := e.s.converterFor(t); c != nil {
		return c.Write(e, v)
	}
	if isNil(v) {
		return json.RawMessage("null"), nil
	}
	if raw, ok, err := marshalLeaf(v); ok {
		return raw, err
	}

	switch t.Kind() {
	case reflect.Pointer:
		return e.EncodeValue(v.Elem())
	case reflect.Interface:
		if t.NumMethod() > 0 {
			return nil, &UnsupportedTypeError{Type: t}
		}
		return e.EncodeValue(v.Elem())
	case reflect.Struct:
		fields, err := e.EncodeFields(v)
		if err != nil {
			return nil, err
		}
		return e.EncodeObject(fields)
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return json.Marshal(v.Bytes())
		}
		return e.encodeArray(v)
	case reflect.Array:
		return e.encodeArray(v)
	case reflect.Map:
		return e.encodeMap(v)
	case reflect.Bool:
		return json.RawMessage(strconv.FormatBool(v.Bool())), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return json.RawMessage(strconv.FormatInt(v.Int(), 10)), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return json.RawMessage(strconv.FormatUint(v.Uint(), 10)), nil
	case reflect.Float32, reflect.Float64, reflect.String:
		return json.Marshal(v.Interface())
	}
	return nil, &UnsupportedTypeError{Type: t}
}

// EncodeFields encodes the members of struct v without consulting converters for v.
func (e *encodeState) EncodeFields(v reflect.Value) ([]apis.Field, error) {
	plan := e.s.fields(v.Type())
	out := make([]apis.Field, 0, len(plan))
	for _, f := range plan {
		fv, ok := fieldForRead(v, f.index)
		if !ok {
			continue
		}
		if f.omitEmpty && isEmptyValue(fv) {
			continue
		}
		if e.s.cfg.OmitNull && isNil(fv) {
			continue
		}
		raw, err := e.EncodeValue(fv)
		if err != nil {
			return nil, err
		}
		out = append(out, apis.Field{Name: f.name, Value: raw})
	}
	return out, nil
}

// EncodeObject renders fields as a JSON object in the given order.
func (e *encodeState) EncodeObject(fields []apis.Field) (json.RawMessage, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(f.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		if f.Value == nil {
			buf.Write(null)
		} else {
			buf.Write(f.Value)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (e *encodeState) encodeArray(v reflect.Value) (json.RawMessage, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i := 0; i < v.Len(); i++ {
		if i > 0 {
			buf.WriteByte(',')
		}
		raw, err := e.EncodeValue(v.Index(i))
		if err != nil {
			return nil, err
		}
		buf.Write(raw)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

func (e *encodeState) encodeMap(v reflect.Value) (json.RawMessage, error) {
	keys := make([]string, 0, v.Len())
	values := make(map[string]reflect.Value, v.Len())
	iter := v.MapRange()
	for iter.Next() {
		k, err := mapKeyString(iter.Key())
		if err != nil {
			return nil, err
		}
		keys = append(keys, k)
		values[k] = iter.Value()
	}
	slices.Sort(keys)

	fields := make([]apis.Field, 0, len(keys))
	for _, k := range keys {
		raw, err := e.EncodeValue(values[k])
		if err != nil {
			return nil, err
		}
		fields = append(fields, apis.Field{Name: k, Value: raw})
	}
	return e.EncodeObject(fields)
}

// marshalLeaf delegates types implementing json.Marshaler or encoding.TextMarshaler
// to encoding/json. ok is false for every other type.
func marshalLeaf(v reflect.Value) (json.RawMessage, bool, error) {
	t := v.Type()
	if t.Implements(marshalerType) || t.Implements(textMarshalerType) {
		raw, err := json.Marshal(v.Interface())
		return raw, true, err
	}
	if t.Kind() != reflect.Pointer && v.CanAddr() {
		pt := reflect.PointerTo(t)
		if pt.Implements(marshalerType) || pt.Implements(textMarshalerType) {
			raw, err := json.Marshal(v.Addr().Interface())
			return raw, true, err
		}
	}
	return nil, false, nil
}

func mapKeyString(k reflect.Value) (string, error) {
	if k.Kind() == reflect.String {
		return k.String(), nil
	}
	if tm, ok := k.Interface().(encoding.TextMarshaler); ok {
		b, err := tm.MarshalText()
		return string(b), err
	}
	switch k.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(k.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(k.Uint(), 10), nil
	}
	return "", &UnsupportedTypeError{Type: k.Type()}
}
