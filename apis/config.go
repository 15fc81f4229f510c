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

// Config carries read-only knobs shared by the registry and the serializer.
// It is passed by value and should be treated as immutable by implementations.
type Config struct {
	// NamingPolicy selects the property naming policy applied to struct fields
	// without an explicit json tag name ("camel" or "default").
	NamingPolicy string

	// OmitNull skips nil pointer, interface, slice and map fields when encoding.
	OmitNull bool

	// MaxDepth limits encode/decode recursion depth.
	// Acts as a safety guard against pathological nesting and reference cycles.
	MaxDepth int

	// SystemPackages lists additional package path prefixes whose interfaces are
	// never inferred as target types. Standard library packages are always excluded.
	SystemPackages []string
}
