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

// Package serializer implements the converter-aware JSON pipeline.
//
// Values are walked with reflection. Converters are consulted first, in order,
// and the answer is cached per type; everything else is encoded field by field,
// with scalars and marshaler types delegated to encoding/json.
package serializer

import (
	"bytes"
	"encoding/json"
	"reflect"
	"sync"

	"dirpx.dev/dtx/apis"
	"dirpx.dev/dtx/config"
	"dirpx.dev/dtx/naming"
)

// Serializer is safe for concurrent use once constructed, provided its converters are.
type Serializer struct {
	cfg        apis.Config
	policy     apis.NamingPolicy
	converters []apis.Converter

	// chosen memoizes the converter selected for a type (nil entry means none).
	chosen sync.Map // map[reflect.Type]choice
	// plans memoizes struct field plans.
	plans sync.Map // map[reflect.Type][]field
}

type choice struct{ c apis.Converter }

// Ensure Serializer implements apis.Serializer.
var _ apis.Serializer = (*Serializer)(nil)

// New constructs a Serializer. A nil policy keeps Go field names; nil converters
// are ignored. A non-positive MaxDepth falls back to config.DefaultMaxDepth.
func New(cfg apis.Config, policy apis.NamingPolicy, converters ...apis.Converter) *Serializer {
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = config.DefaultMaxDepth
	}
	if policy == nil {
		policy = naming.Default()
	}
	out := make([]apis.Converter, 0, len(converters))
	for _, c := range converters {
		if c != nil {
			out = append(out, c)
		}
	}
	return &Serializer{cfg: cfg, policy: policy, converters: out}
}

// Config returns the configuration the serializer was built with.
func (s *Serializer) Config() apis.Config { return s.cfg }

// Marshal returns the JSON encoding of v.
func (s *Serializer) Marshal(v any) ([]byte, error) {
	e := &encodeState{s: s}
	raw, err := e.EncodeValue(reflect.ValueOf(v))
	if err != nil {
		return nil, err
	}
	return raw, nil
}

// Unmarshal decodes data into the value v points to.
func (s *Serializer) Unmarshal(data []byte, v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return ErrInvalidTarget
	}
	data = bytes.TrimSpace(data)
	if !json.Valid(data) {
		return ErrInvalidJSON
	}
	d := &decodeState{s: s}
	return d.DecodeValue(data, rv.Elem())
}

// Decode unmarshals data into a new T. On failure the zero T is returned, so a
// partially decoded value never escapes.
func Decode[T any](s apis.Serializer, data []byte) (T, error) {
	var out T
	if err := s.Unmarshal(data, &out); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// converterFor returns the first converter accepting t, or nil.
func (s *Serializer) converterFor(t reflect.Type) apis.Converter {
	if v, ok := s.chosen.Load(t); ok {
		return v.(choice).c
	}
	var found apis.Converter
	for _, c := range s.converters {
		if c.CanConvert(t) {
			found = c
			break
		}
	}
	v, _ := s.chosen.LoadOrStore(t, choice{c: found})
	return v.(choice).c
}
