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

// Package dtx provides polymorphic JSON for Go interfaces.
//
// A value stored in an interface field loses its concrete type when it is
// written as plain JSON. dtx keeps it: every concrete type declared as a
// derived type carries a stable identifier (a UUID), and the identifier is
// written next to the value's own members under "_derivedTypeId". On decode
// the identifier selects the concrete type again.
//
//	type Shape interface{ Area() float64 }
//
//	type Square struct{ Side float64 }
//
//	func (s *Square) Area() float64 { return s.Side * s.Side }
//
//	ctx, err := dtx.NewContext(dtx.WithCatalog(
//		catalog.Type[Shape](),
//		catalog.Derived[Square]("ad7593d1-71be-4e26-9026-aedb32fc43d3"),
//	))
//
//	data, _ := ctx.Marshal(Drawing{Main: &Square{Side: 2}})
//	// {"main":{"side":2,"_derivedTypeId":"ad7593d1-71be-4e26-9026-aedb32fc43d3"}}
//
// # Design
//
// The pieces are layered the same way in every entry point:
//
//   - catalog: which types exist. Go has no assembly scanning, so interfaces
//     and derived types are declared explicitly, or a type declares itself by
//     implementing apis.DerivedType.
//
//   - registry: built once from a catalog. Resolves the target interface of
//     every derived type (explicit, or inferred from the non-system interfaces
//     it implements) and rejects duplicate identifiers and ambiguous targets.
//     Immutable afterwards.
//
//   - converter: the derived-type converter reads and writes the identifier.
//
//   - serializer: the reflection based JSON pipeline that consults converters
//     first and handles everything else field by field.
//
//   - builder: composes registry and serializer from an apis.Config.
//
// The client package is an independent, reflection-free implementation of the
// same wire format driven by declared field metadata.
//
// # Default context
//
// Default() returns a process-wide Context built on first use from the
// declarations made with Declare and from the DTX_* environment variables
// (see config.Usage). The build runs exactly once under a mutex; the
// published snapshot is read lock-free afterwards. A failed build is cached
// and returned to every caller until Reset.
//
//	func init() {
//		_ = dtx.Declare(catalog.Type[Shape](), catalog.Derived[Square]("..."))
//	}
//
//	data, err := dtx.Marshal(v)
//	shape, err := dtx.Decode[Shape](data)
//
// Declare and SetBuilder fail with ErrInitialized once the default context
// exists. Tests use SetDefault and Reset to get deterministic state.
//
// # Decoding policy
//
// An object decoded into a target interface without an identifier yields a
// nil interface and no error. An identifier that is unknown for the target
// fails with registry.MissingDerivedTypeError and nothing is assigned.
package dtx
