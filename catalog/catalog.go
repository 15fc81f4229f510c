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

// Package catalog provides the type catalog consulted by the derived-type registry.
//
// Go has no assembly scanning, so the catalog is fed explicitly: interfaces that act
// as polymorphic targets and concrete types that are declared derived types, either
// through WithDerivedType/Derived or by implementing apis.DerivedType.
package catalog

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"dirpx.dev/dtx/apis"
	uref "dirpx.dev/dtx/utils/reflect"
)

var (
	derivedTypeIface = reflect.TypeFor[apis.DerivedType]()
	targetTypedIface = reflect.TypeFor[apis.TargetTyped]()
)

// Option configures catalog construction.
type Option func(*options)

type options struct {
	decls  []declaration
	logger *zap.Logger
}

type declaration struct {
	t       reflect.Type
	id      string
	target  reflect.Type
	derived bool
}

// WithTypes adds types to the catalog. Pointer types are reduced to their element.
func WithTypes(types ...reflect.Type) Option {
	return func(o *options) {
		for _, t := range types {
			o.decls = append(o.decls, declaration{t: t})
		}
	}
}

// Type adds T to the catalog.
func Type[T any]() Option {
	return WithTypes(reflect.TypeFor[T]())
}

// WithDerivedType declares concrete as a derived type identified by id.
// A nil target is inferred by the registry from the interfaces concrete implements.
func WithDerivedType(concrete reflect.Type, id string, target reflect.Type) Option {
	return func(o *options) {
		o.decls = append(o.decls, declaration{t: concrete, id: id, target: target, derived: true})
	}
}

// Derived declares T as a derived type identified by id, optionally for an explicit target.
//
//	catalog.Derived[FirstDerivative]("ad7593d1-71be-4e26-9026-aedb32fc43d3")
func Derived[T any](id string, target ...reflect.Type) Option {
	var tt reflect.Type
	if len(target) > 0 {
		tt = target[0]
	}
	return WithDerivedType(reflect.TypeFor[T](), id, tt)
}

// WithLogger sets the logger used during construction. nil keeps the no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// Catalog is an immutable, insertion ordered set of types with their markers.
type Catalog struct {
	types   []reflect.Type
	index   map[reflect.Type]struct{}
	markers map[reflect.Type][]apis.Marker
	byName  map[string]reflect.Type

	// impls memoizes Implementors per contract.
	impls sync.Map // map[reflect.Type][]reflect.Type
}

// Ensure Catalog implements apis.Catalog.
var _ apis.Catalog = (*Catalog)(nil)

// New builds a Catalog from opts.
func New(opts ...Option) (*Catalog, error) {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	c, err := build(o.decls)
	if err != nil {
		o.logger.Error("catalog build failed", zap.Error(err))
		return nil, err
	}
	o.logger.Debug("catalog built",
		zap.Int("types", len(c.types)),
		zap.Int("derived", len(c.TypesDecorated(apis.DerivedTypeMarkerKind))),
	)
	return c, nil
}

func build(decls []declaration) (*Catalog, error) {
	c := &Catalog{
		index:   make(map[reflect.Type]struct{}),
		markers: make(map[reflect.Type][]apis.Marker),
		byName:  make(map[string]reflect.Type),
	}
	for _, d := range decls {
		if err := c.add(d); err != nil {
			return nil, err
		}
	}

	// Types implementing apis.DerivedType declare themselves.
	for _, t := range c.types[:len(c.types):len(c.types)] {
		if err := c.discover(t); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Catalog) add(d declaration) error {
	t, err := normalize(d.t)
	if err != nil {
		return err
	}
	c.insert(t)
	if !d.derived {
		return nil
	}

	id, err := CanonicalID(d.id)
	if err != nil {
		return err
	}
	var target reflect.Type
	if d.target != nil {
		if target, err = normalize(d.target); err != nil {
			return err
		}
		c.insert(target)
	}
	return c.declare(t, apis.DerivedTypeMarker{Identifier: id, Target: target})
}

func (c *Catalog) discover(t reflect.Type) error {
	if t.Kind() == reflect.Interface || !reflect.PointerTo(t).Implements(derivedTypeIface) {
		return nil
	}
	v := reflect.New(t).Interface()
	id, err := CanonicalID(v.(apis.DerivedType).DerivedTypeID())
	if err != nil {
		return fmt.Errorf("%w (declared by %s)", err, t)
	}
	var target reflect.Type
	if reflect.PointerTo(t).Implements(targetTypedIface) {
		if tt := v.(apis.TargetTyped).DerivedTypeTarget(); tt != nil {
			if target, err = normalize(tt); err != nil {
				return err
			}
			c.insert(target)
		}
	}
	return c.declare(t, apis.DerivedTypeMarker{Identifier: id, Target: target})
}

func (c *Catalog) insert(t reflect.Type) {
	if _, ok := c.index[t]; ok {
		return
	}
	c.index[t] = struct{}{}
	c.types = append(c.types, t)
	c.byName[uref.FullName(t)] = t
}

func (c *Catalog) declare(t reflect.Type, m apis.DerivedTypeMarker) error {
	for _, existing := range c.markers[t] {
		old, ok := existing.(apis.DerivedTypeMarker)
		if !ok {
			continue
		}
		if old == m {
			return nil
		}
		return fmt.Errorf("%w: %s declared as %s (target %v) and %s (target %v)",
			ErrConflictingDeclaration, t, old.Identifier, old.Target, m.Identifier, m.Target)
	}
	c.markers[t] = append(c.markers[t], m)
	return nil
}

// All returns every type in insertion order.
func (c *Catalog) All() []reflect.Type {
	out := make([]reflect.Type, len(c.types))
	copy(out, c.types)
	return out
}

// TypesDecorated returns the types carrying a marker of kind, in insertion order.
func (c *Catalog) TypesDecorated(kind string) []apis.TypeInfo {
	var out []apis.TypeInfo
	for _, t := range c.types {
		ms := c.markers[t]
		for _, m := range ms {
			if m.MarkerKind() == kind {
				out = append(out, apis.TypeInfo{Type: t, Markers: append([]apis.Marker(nil), ms...)})
				break
			}
		}
	}
	return out
}

// Interfaces returns the interface types of the catalog in insertion order.
func (c *Catalog) Interfaces() []reflect.Type {
	var out []reflect.Type
	for _, t := range c.types {
		if t.Kind() == reflect.Interface {
			out = append(out, t)
		}
	}
	return out
}

// Implementors returns the concrete types whose value or pointer implements contract.
// Non-interface contracts have no implementors.
func (c *Catalog) Implementors(contract reflect.Type) []reflect.Type {
	if contract == nil || contract.Kind() != reflect.Interface {
		return nil
	}
	if v, ok := c.impls.Load(contract); ok {
		return append([]reflect.Type(nil), v.([]reflect.Type)...)
	}
	var found []reflect.Type
	for _, t := range c.types {
		if t.Kind() != reflect.Interface && uref.Implements(t, contract) {
			found = append(found, t)
		}
	}
	v, _ := c.impls.LoadOrStore(contract, found)
	return append([]reflect.Type(nil), v.([]reflect.Type)...)
}

// FindMultiple is an alias of Implementors.
func (c *Catalog) FindMultiple(contract reflect.Type) []reflect.Type {
	return c.Implementors(contract)
}

// FindSingle returns the only implementor of contract, or nil when there is none.
// More than one implementor yields a *MultipleTypesFoundError.
func (c *Catalog) FindSingle(contract reflect.Type) (reflect.Type, error) {
	found := c.Implementors(contract)
	switch len(found) {
	case 0:
		return nil, nil
	case 1:
		return found[0], nil
	}
	return nil, &MultipleTypesFoundError{Contract: contract, Types: found}
}

// FindByName returns the type whose full name ("pkg/path.Name") is name.
func (c *Catalog) FindByName(name string) (reflect.Type, error) {
	if t, ok := c.byName[name]; ok {
		return t, nil
	}
	return nil, &TypeNotFoundError{Name: name}
}

// CanonicalID validates id as a UUID and returns its canonical lowercase form.
func CanonicalID(id string) (apis.DerivedTypeID, error) {
	u, err := uuid.Parse(id)
	if err != nil {
		return "", fmt.Errorf("%w %q: %v", ErrInvalidIdentifier, id, err)
	}
	return apis.DerivedTypeID(u.String()), nil
}

func normalize(t reflect.Type) (reflect.Type, error) {
	if t == nil {
		return nil, ErrNilType
	}
	n, err := uref.Normalize(t)
	if err != nil {
		return nil, fmt.Errorf("dtx(catalog): %s: %w", t, err)
	}
	return n, nil
}
