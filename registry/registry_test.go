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

package registry_test

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"dirpx.dev/dtx/apis"
	"dirpx.dev/dtx/catalog"
	"dirpx.dev/dtx/config"
	"dirpx.dev/dtx/registry"
)

const (
	firstID  = "ad7593d1-71be-4e26-9026-aedb32fc43d3"
	secondID = "a038ca48-360e-46a7-8cb2-882ff21bb623"
	thirdID  = "0e0f5c1a-8b38-4f0e-9d5c-3a1b2c3d4e5f"
)

type Interface interface{ Describe() string }

type Named interface{ Name() string }

type Anything interface{}

type FirstDerivative struct{ FirstDerivativeProperty int }

func (*FirstDerivative) Describe() string { return "first" }

type SecondDerivative struct{ SecondDerivativeProperty string }

func (SecondDerivative) Describe() string { return "second" }

type Both struct{}

func (*Both) Describe() string { return "both" }
func (*Both) Name() string     { return "both" }

type Orphan struct{}

type StringerOnly struct{}

func (StringerOnly) String() string { return "stringer" }

var (
	interfaceT = reflect.TypeFor[Interface]()
	namedT     = reflect.TypeFor[Named]()
	firstT     = reflect.TypeFor[FirstDerivative]()
	secondT    = reflect.TypeFor[SecondDerivative]()
)

func mustCatalog(t *testing.T, opts ...catalog.Option) *catalog.Catalog {
	t.Helper()
	c, err := catalog.New(opts...)
	require.NoError(t, err)
	return c
}

func scenarioRegistry(t *testing.T) apis.Registry {
	t.Helper()
	reg, err := registry.New(mustCatalog(t,
		catalog.Type[Interface](),
		catalog.Derived[FirstDerivative](firstID),
		catalog.Derived[SecondDerivative](secondID),
	))
	require.NoError(t, err)
	return reg
}

func TestNew_Scenario(t *testing.T) {
	reg := scenarioRegistry(t)

	got, err := reg.DerivedTypeFor(interfaceT, firstID)
	require.NoError(t, err)
	assert.Equal(t, firstT, got)

	got, err = reg.DerivedTypeFor(interfaceT, secondID)
	require.NoError(t, err)
	assert.Equal(t, secondT, got)

	target, err := reg.TargetTypeFor(reflect.TypeFor[*FirstDerivative]())
	require.NoError(t, err)
	assert.Equal(t, interfaceT, target)

	id, err := reg.IdentifierFor(secondT)
	require.NoError(t, err)
	assert.Equal(t, apis.DerivedTypeID(secondID), id)

	assert.Equal(t, 2, reg.Count())
	assert.Equal(t, []reflect.Type{interfaceT}, reg.TargetTypesWithDerivatives())
	assert.Equal(t, []apis.Entry{
		{Type: firstT, Target: interfaceT, Identifier: firstID},
		{Type: secondT, Target: interfaceT, Identifier: secondID},
	}, reg.Entries())
}

func TestQueries_NeverFail(t *testing.T) {
	reg := scenarioRegistry(t)

	assert.True(t, reg.IsDerivedType(firstT))
	assert.True(t, reg.IsDerivedType(reflect.TypeFor[*FirstDerivative]()))
	assert.False(t, reg.IsDerivedType(interfaceT))
	assert.False(t, reg.IsDerivedType(reflect.TypeFor[Orphan]()))
	assert.False(t, reg.IsDerivedType(nil))

	assert.True(t, reg.HasDerivatives(interfaceT))
	assert.False(t, reg.HasDerivatives(firstT))
	assert.False(t, reg.HasDerivatives(namedT))
	assert.False(t, reg.HasDerivatives(nil))
}

func TestLookups_Errors(t *testing.T) {
	reg := scenarioRegistry(t)

	_, err := reg.DerivedTypeFor(interfaceT, thirdID)
	var missing *registry.MissingDerivedTypeError
	require.ErrorAs(t, err, &missing)
	require.ErrorIs(t, err, registry.ErrMissingDerivedType)
	assert.Equal(t, apis.DerivedTypeID(thirdID), missing.Identifier)
	assert.Equal(t, interfaceT, missing.Target)

	// Identifiers are matched exactly.
	_, err = reg.DerivedTypeFor(interfaceT, "AD7593D1-71BE-4E26-9026-AEDB32FC43D3")
	require.ErrorIs(t, err, registry.ErrMissingDerivedType)

	_, err = reg.DerivedTypeFor(namedT, firstID)
	require.ErrorIs(t, err, registry.ErrMissingDerivedType)

	_, err = reg.TargetTypeFor(reflect.TypeFor[Orphan]())
	require.ErrorIs(t, err, registry.ErrMissingTargetTypeForDerivedType)

	_, err = reg.IdentifierFor(reflect.TypeFor[Orphan]())
	var notDerived *registry.MissingTargetTypeForDerivedTypeError
	require.ErrorAs(t, err, &notDerived)
}

func TestNew_AmbiguousIdentifier(t *testing.T) {
	_, err := registry.New(mustCatalog(t,
		catalog.Type[Interface](),
		catalog.Derived[FirstDerivative](firstID),
		catalog.Derived[SecondDerivative](firstID),
	))

	var amb *registry.AmbiguousIdentifierError
	require.ErrorAs(t, err, &amb)
	require.ErrorIs(t, err, registry.ErrAmbiguousIdentifier)
	assert.Equal(t, apis.DerivedTypeID(firstID), amb.Identifier)
	assert.Equal(t, []reflect.Type{firstT, secondT}, amb.Types)
	assert.Contains(t, err.Error(), "FirstDerivative")
	assert.Contains(t, err.Error(), "SecondDerivative")
}

func TestNew_AmbiguousIdentifier_FirstInCatalogOrder(t *testing.T) {
	_, err := registry.New(mustCatalog(t,
		catalog.Type[Interface](),
		catalog.Derived[Both](secondID, namedT),
		catalog.Derived[FirstDerivative](firstID),
		catalog.Derived[StringerOnly](secondID),
		catalog.Derived[SecondDerivative](firstID),
	))

	var amb *registry.AmbiguousIdentifierError
	require.ErrorAs(t, err, &amb)
	assert.Equal(t, apis.DerivedTypeID(secondID), amb.Identifier)
}

func TestNew_TargetInference(t *testing.T) {
	cases := []struct {
		name string
		opts []catalog.Option
		want error
	}{
		{
			name: "no interface",
			opts: []catalog.Option{catalog.Type[Interface](), catalog.Derived[Orphan](firstID)},
			want: registry.ErrMissingTargetType,
		},
		{
			name: "only system interface",
			opts: []catalog.Option{catalog.Type[fmt.Stringer](), catalog.Derived[StringerOnly](firstID)},
			want: registry.ErrMissingTargetType,
		},
		{
			name: "method-less interface",
			opts: []catalog.Option{catalog.Type[Anything](), catalog.Derived[Orphan](firstID)},
			want: registry.ErrMissingTargetType,
		},
		{
			name: "two candidates",
			opts: []catalog.Option{catalog.Type[Interface](), catalog.Type[Named](), catalog.Derived[Both](firstID)},
			want: registry.ErrAmbiguousTargetType,
		},
		{
			name: "explicit target not implemented",
			opts: []catalog.Option{catalog.Derived[Orphan](firstID, interfaceT)},
			want: registry.ErrTargetTypeMismatch,
		},
		{
			name: "explicit target not an interface",
			opts: []catalog.Option{catalog.Derived[Orphan](firstID, reflect.TypeFor[StringerOnly]())},
			want: registry.ErrTargetTypeMismatch,
		},
		{
			name: "interface declared as derived",
			opts: []catalog.Option{catalog.Type[Interface](), catalog.Derived[Named](firstID)},
			want: registry.ErrNotConcrete,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			reg, err := registry.New(mustCatalog(t, tc.opts...))
			require.ErrorIs(t, err, tc.want)
			assert.Nil(t, reg)
		})
	}
}

func TestNew_AmbiguousTarget_ListsCandidates(t *testing.T) {
	_, err := registry.New(mustCatalog(t,
		catalog.Type[Interface](), catalog.Type[Named](), catalog.Derived[Both](firstID),
	))
	var amb *registry.AmbiguousTargetTypeError
	require.ErrorAs(t, err, &amb)
	assert.Equal(t, []reflect.Type{interfaceT, namedT}, amb.Candidates)
}

func TestNew_ExplicitTargetDisambiguates(t *testing.T) {
	reg, err := registry.New(mustCatalog(t,
		catalog.Type[Interface](), catalog.Type[Named](), catalog.Derived[Both](firstID, namedT),
	))
	require.NoError(t, err)

	target, err := reg.TargetTypeFor(reflect.TypeFor[Both]())
	require.NoError(t, err)
	assert.Equal(t, namedT, target)
	assert.False(t, reg.HasDerivatives(interfaceT))
}

func TestNew_SystemPackagesConfig(t *testing.T) {
	cfg := config.NewConfig(config.WithSystemPackages("dirpx.dev/dtx/registry_test"))
	_, err := registry.New(mustCatalog(t,
		catalog.Type[Interface](), catalog.Derived[FirstDerivative](firstID),
	), registry.WithConfig(cfg))
	require.ErrorIs(t, err, registry.ErrMissingTargetType)
}

func TestNew_NilCatalog(t *testing.T) {
	_, err := registry.New(nil)
	require.True(t, errors.Is(err, registry.ErrNilCatalog))
}

func TestNew_Empty(t *testing.T) {
	reg, err := registry.New(mustCatalog(t))
	require.NoError(t, err)
	assert.Zero(t, reg.Count())
	assert.Empty(t, reg.Entries())
	assert.Empty(t, reg.TargetTypesWithDerivatives())
}

// stubCatalog serves fixed entries as derived type declarations.
type stubCatalog struct {
	infos []apis.TypeInfo
}

func (c stubCatalog) All() []reflect.Type                      { return nil }
func (c stubCatalog) TypesDecorated(string) []apis.TypeInfo    { return c.infos }
func (c stubCatalog) Interfaces() []reflect.Type               { return []reflect.Type{interfaceT} }
func (c stubCatalog) Implementors(reflect.Type) []reflect.Type { return nil }

// foreignMarker claims the derived type kind without being a DerivedTypeMarker.
type foreignMarker struct{}

func (foreignMarker) MarkerKind() string { return apis.DerivedTypeMarkerKind }

func TestNew_PointerMarkerIsAccepted(t *testing.T) {
	reg, err := registry.New(stubCatalog{infos: []apis.TypeInfo{{
		Type:    firstT,
		Markers: []apis.Marker{&apis.DerivedTypeMarker{Identifier: firstID}},
	}}})
	require.NoError(t, err)

	got, err := reg.DerivedTypeFor(interfaceT, firstID)
	require.NoError(t, err)
	assert.Equal(t, firstT, got)
}

func TestNew_InvalidMarkers(t *testing.T) {
	var nilMarker *apis.DerivedTypeMarker
	cases := []struct {
		name string
		info apis.TypeInfo
	}{
		{name: "foreign marker", info: apis.TypeInfo{Type: firstT, Markers: []apis.Marker{foreignMarker{}}}},
		{name: "no marker", info: apis.TypeInfo{Type: firstT}},
		{name: "nil pointer marker", info: apis.TypeInfo{Type: firstT, Markers: []apis.Marker{nilMarker}}},
		{name: "nil type", info: apis.TypeInfo{Markers: []apis.Marker{apis.DerivedTypeMarker{Identifier: firstID}}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var reg apis.Registry
			var err error
			require.NotPanics(t, func() {
				reg, err = registry.New(stubCatalog{infos: []apis.TypeInfo{tc.info}})
			})
			require.ErrorIs(t, err, registry.ErrInvalidMarker)
			assert.Nil(t, reg)
		})
	}
}

func TestNew_LogsFailureAtError(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	_, err := registry.New(mustCatalog(t,
		catalog.Type[Interface](), catalog.Derived[Orphan](firstID),
	), registry.WithLogger(zap.New(core)))
	require.ErrorIs(t, err, registry.ErrMissingTargetType)

	failed := logs.FilterMessage("registry build failed").All()
	require.Len(t, failed, 1)
	assert.Equal(t, zapcore.ErrorLevel, failed[0].Level)
	assert.Equal(t, 0, logs.FilterMessage("registry built").Len())
}
