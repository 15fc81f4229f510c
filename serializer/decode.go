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
	"strconv"

	"dirpx.dev/dtx/apis"
)

var (
	unmarshalerType     = reflect.TypeFor[json.Unmarshaler]()
	textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
)

// decodeState carries the recursion depth of a single Unmarshal call.
type decodeState struct {
	s     *Serializer
	depth int
}

// Ensure decodeState implements apis.Decoder.
var _ apis.Decoder = (*decodeState)(nil)

// DecodeValue decodes data into the settable v, consulting converters.
func (d *decodeState) DecodeValue(data json.RawMessage, v reflect.Value) error {
	d.depth++
	defer func() { d.depth-- }()
	if d.depth > d.s.cfg.MaxDepth {
		return ErrMaxDepth
	}

	t := v.Type()
	if c := d.s.converterFor(t); c != nil {
		return c.Read(d, data, v)
	}
	if isNull(data) {
		switch t.Kind() {
		case reflect.Pointer, reflect.Interface, reflect.Slice, reflect.Map:
			v.SetZero()
		}
		return nil
	}

	if t.Kind() == reflect.Pointer {
		if v.IsNil() {
			v.Set(reflect.New(t.Elem()))
		}
		return d.DecodeValue(data, v.Elem())
	}
	if pt := reflect.PointerTo(t); pt.Implements(unmarshalerType) || pt.Implements(textUnmarshalerType) {
		return json.Unmarshal(data, v.Addr().Interface())
	}

	switch t.Kind() {
	case reflect.Interface:
		if t.NumMethod() > 0 {
			return &UnsupportedTypeError{Type: t}
		}
		var x any
		if err := json.Unmarshal(data, &x); err != nil {
			return err
		}
		v.Set(reflect.ValueOf(&x).Elem())
		return nil
	case reflect.Struct:
		var members map[string]json.RawMessage
		if err := json.Unmarshal(data, &members); err != nil {
			return mismatch(t, data, err)
		}
		return d.DecodeFields(members, v)
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return json.Unmarshal(data, v.Addr().Interface())
		}
		var items []json.RawMessage
		if err := json.Unmarshal(data, &items); err != nil {
			return mismatch(t, data, err)
		}
		out := reflect.MakeSlice(t, len(items), len(items))
		for i, item := range items {
			if err := d.DecodeValue(item, out.Index(i)); err != nil {
				return err
			}
		}
		v.Set(out)
		return nil
	case reflect.Array:
		var items []json.RawMessage
		if err := json.Unmarshal(data, &items); err != nil {
			return mismatch(t, data, err)
		}
		for i := 0; i < v.Len(); i++ {
			if i >= len(items) {
				v.Index(i).SetZero()
				continue
			}
			if err := d.DecodeValue(items[i], v.Index(i)); err != nil {
				return err
			}
		}
		return nil
	case reflect.Map:
		return d.decodeMap(data, v)
	case reflect.Bool, reflect.String, reflect.Float32, reflect.Float64,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if err := json.Unmarshal(data, v.Addr().Interface()); err != nil {
			return mismatch(t, data, err)
		}
		return nil
	}
	return &UnsupportedTypeError{Type: t}
}

// DecodeFields assigns members to the fields of struct v. Names are matched
// exactly; unknown members are ignored.
func (d *decodeState) DecodeFields(members map[string]json.RawMessage, v reflect.Value) error {
	for _, f := range d.s.fields(v.Type()) {
		raw, ok := members[f.name]
		if !ok {
			continue
		}
		if err := d.DecodeValue(raw, fieldForWrite(v, f.index)); err != nil {
			return err
		}
	}
	return nil
}

func (d *decodeState) decodeMap(data json.RawMessage, v reflect.Value) error {
	t := v.Type()
	var members map[string]json.RawMessage
	if err := json.Unmarshal(data, &members); err != nil {
		return mismatch(t, data, err)
	}
	if v.IsNil() {
		v.Set(reflect.MakeMapWithSize(t, len(members)))
	}
	for k, raw := range members {
		key, err := parseMapKey(t.Key(), k)
		if err != nil {
			return err
		}
		elem := reflect.New(t.Elem()).Elem()
		if err := d.DecodeValue(raw, elem); err != nil {
			return err
		}
		v.SetMapIndex(key, elem)
	}
	return nil
}

func parseMapKey(t reflect.Type, s string) (reflect.Value, error) {
	if reflect.PointerTo(t).Implements(textUnmarshalerType) && t.Kind() != reflect.String {
		k := reflect.New(t)
		if err := k.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(s)); err != nil {
			return reflect.Value{}, err
		}
		return k.Elem(), nil
	}
	k := reflect.New(t).Elem()
	switch t.Kind() {
	case reflect.String:
		k.SetString(s)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(s, 10, t.Bits())
		if err != nil {
			return reflect.Value{}, mismatch(t, []byte(strconv.Quote(s)), err)
		}
		k.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		n, err := strconv.ParseUint(s, 10, t.Bits())
		if err != nil {
			return reflect.Value{}, mismatch(t, []byte(strconv.Quote(s)), err)
		}
		k.SetUint(n)
	default:
		return reflect.Value{}, &UnsupportedTypeError{Type: t}
	}
	return k, nil
}

func isNull(data []byte) bool {
	return bytes.Equal(bytes.TrimSpace(data), null)
}

func mismatch(t reflect.Type, data []byte, err error) error {
	const maxShown = 64
	shown := string(data)
	if len(shown) > maxShown {
		shown = shown[:maxShown] + "..."
	}
	return &TypeError{Type: t, Value: shown, Err: err}
}
