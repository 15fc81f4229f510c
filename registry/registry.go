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

// Package registry builds the immutable derived-type registry from a catalog.
package registry

import (
	"fmt"
	"reflect"

	"go.uber.org/zap"

	"dirpx.dev/dtx/apis"
	"dirpx.dev/dtx/config"
	uref "dirpx.dev/dtx/utils/reflect"
)

// Option configures registry construction.
type Option func(*options)

type options struct {
	cfg    apis.Config
	logger *zap.Logger
}

// WithConfig sets the configuration (SystemPackages is used for target inference).
func WithConfig(cfg apis.Config) Option {
	return func(o *options) { o.cfg = cfg }
}

// WithLogger sets the logger used during construction. nil keeps the no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// registry is a read-only Registry. Both indexes are filled once by New and never
// written again, so plain maps are safe for concurrent readers.
type registry struct {
	// byTarget maps a target interface to its derived types keyed by identifier.
	byTarget map[reflect.Type]map[apis.DerivedTypeID]reflect.Type
	// byType maps a concrete derived type to its registration.
	byType map[reflect.Type]apis.Entry
	// targets keeps target types in first-registration order.
	targets []reflect.Type
	// entries keeps registrations in catalog order.
	entries []apis.Entry
}

// Ensure registry implements apis.Registry.
var _ apis.Registry = (*registry)(nil)

// New scans cat for derived type declarations and builds a Registry.
// The first invariant violation found is returned and no Registry is produced.
func New(cat apis.Catalog, opts ...Option) (apis.Registry, error) {
	if cat == nil {
		return nil, ErrNilCatalog
	}
	o := options{cfg: config.DefaultConfig(), logger: zap.NewNop()}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	r, err := build(cat, o)
	if err != nil {
		o.logger.Error("registry build failed", zap.Error(err))
		return nil, err
	}
	o.logger.Debug("registry built",
		zap.Int("derived_types", len(r.entries)),
		zap.Int("target_types", len(r.targets)),
	)
	return r, nil
}

// declaration is a derived type marker taken from a catalog entry.
type declaration struct {
	typ    reflect.Type
	marker apis.DerivedTypeMarker
}

func build(cat apis.Catalog, o options) (*registry, error) {
	infos := cat.TypesDecorated(apis.DerivedTypeMarkerKind)
	decls := make([]declaration, 0, len(infos))
	for _, info := range infos {
		m, err := markerOf(info)
		if err != nil {
			return nil, err
		}
		decls = append(decls, declaration{typ: info.Type, marker: m})
	}
	if err := checkIdentifiers(decls); err != nil {
		return nil, err
	}

	r := &registry{
		byTarget: make(map[reflect.Type]map[apis.DerivedTypeID]reflect.Type),
		byType:   make(map[reflect.Type]apis.Entry, len(decls)),
		entries:  make([]apis.Entry, 0, len(decls)),
	}
	ifaces := cat.Interfaces()
	for _, d := range decls {
		target, err := resolveTarget(d.typ, d.marker.Target, ifaces, o.cfg.SystemPackages)
		if err != nil {
			return nil, err
		}
		r.add(apis.Entry{Type: d.typ, Target: target, Identifier: d.marker.Identifier})
		o.logger.Debug("derived type registered",
			zap.Stringer("type", d.typ),
			zap.Stringer("target", target),
			zap.Stringer("id", d.marker.Identifier),
		)
	}
	return r, nil
}

// markerOf extracts the derived type marker of info. Both the value and a
// non-nil pointer form are accepted.
func markerOf(info apis.TypeInfo) (apis.DerivedTypeMarker, error) {
	if info.Type == nil {
		return apis.DerivedTypeMarker{}, fmt.Errorf("%w: entry without type", ErrInvalidMarker)
	}
	m, _ := info.Marker(apis.DerivedTypeMarkerKind)
	switch dm := m.(type) {
	case apis.DerivedTypeMarker:
		return dm, nil
	case *apis.DerivedTypeMarker:
		if dm != nil {
			return *dm, nil
		}
	}
	return apis.DerivedTypeMarker{}, fmt.Errorf("%w: %v carries %T", ErrInvalidMarker, info.Type, m)
}

// checkIdentifiers fails on the first identifier (in catalog order) that is
// declared by more than one type.
func checkIdentifiers(decls []declaration) error {
	var order []apis.DerivedTypeID
	groups := make(map[apis.DerivedTypeID][]reflect.Type, len(decls))
	for _, d := range decls {
		id := d.marker.Identifier
		if _, seen := groups[id]; !seen {
			order = append(order, id)
		}
		groups[id] = append(groups[id], d.typ)
	}
	for _, id := range order {
		if ts := groups[id]; len(ts) > 1 {
			return &AmbiguousIdentifierError{Identifier: id, Types: ts}
		}
	}
	return nil
}

// resolveTarget validates an explicit target or infers one from ifaces.
// Method sets are checked on *t since decoded instances are always pointers.
func resolveTarget(t, explicit reflect.Type, ifaces []reflect.Type, system []string) (reflect.Type, error) {
	if t.Kind() == reflect.Interface {
		return nil, fmt.Errorf("%w: %v", ErrNotConcrete, t)
	}
	pt := reflect.PointerTo(t)

	if explicit != nil {
		if explicit.Kind() != reflect.Interface || !pt.Implements(explicit) {
			return nil, &TargetTypeMismatchError{Type: t, Target: explicit}
		}
		return explicit, nil
	}

	var candidates []reflect.Type
	for _, iface := range ifaces {
		// Method-less interfaces are implemented by everything.
		if iface.NumMethod() == 0 || uref.IsSystemType(iface, system) {
			continue
		}
		if pt.Implements(iface) {
			candidates = append(candidates, iface)
		}
	}
	switch len(candidates) {
	case 0:
		return nil, &MissingTargetTypeError{Type: t}
	case 1:
		return candidates[0], nil
	}
	return nil, &AmbiguousTargetTypeError{Type: t, Candidates: candidates}
}

func (r *registry) add(e apis.Entry) {
	byID, ok := r.byTarget[e.Target]
	if !ok {
		byID = make(map[apis.DerivedTypeID]reflect.Type)
		r.byTarget[e.Target] = byID
		r.targets = append(r.targets, e.Target)
	}
	byID[e.Identifier] = e.Type
	r.byType[e.Type] = e
	r.entries = append(r.entries, e)
}

// DerivedTypeFor returns the concrete type registered for target under id.
func (r *registry) DerivedTypeFor(target reflect.Type, id apis.DerivedTypeID) (reflect.Type, error) {
	if t, ok := r.byTarget[target][id]; ok {
		return t, nil
	}
	return nil, &MissingDerivedTypeError{Target: target, Identifier: id}
}

// TargetTypeFor returns the target the concrete derived type is registered for.
func (r *registry) TargetTypeFor(concrete reflect.Type) (reflect.Type, error) {
	e, ok := r.lookup(concrete)
	if !ok {
		return nil, &MissingTargetTypeForDerivedTypeError{Type: concrete}
	}
	return e.Target, nil
}

// IdentifierFor returns the identifier the concrete derived type is registered with.
func (r *registry) IdentifierFor(concrete reflect.Type) (apis.DerivedTypeID, error) {
	e, ok := r.lookup(concrete)
	if !ok {
		return "", &MissingTargetTypeForDerivedTypeError{Type: concrete}
	}
	return e.Identifier, nil
}

// IsDerivedType reports whether t, or the type t points to, is registered.
func (r *registry) IsDerivedType(t reflect.Type) bool {
	_, ok := r.lookup(t)
	return ok
}

// HasDerivatives reports whether t is a target type.
func (r *registry) HasDerivatives(t reflect.Type) bool {
	if t == nil {
		return false
	}
	_, ok := r.byTarget[t]
	return ok
}

// TargetTypesWithDerivatives returns a copy of all target types.
func (r *registry) TargetTypesWithDerivatives() []reflect.Type {
	return append([]reflect.Type(nil), r.targets...)
}

// Entries returns a snapshot of all registrations.
func (r *registry) Entries() []apis.Entry {
	return append([]apis.Entry(nil), r.entries...)
}

// Count returns the number of registered derived types.
func (r *registry) Count() int { return len(r.entries) }

func (r *registry) lookup(t reflect.Type) (apis.Entry, bool) {
	if t == nil {
		return apis.Entry{}, false
	}
	e, ok := r.byType[uref.Indirect(t)]
	return e, ok
}
