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

// NamingPolicy converts Go field names into serialized property names.
// Fields with an explicit json tag name are not passed through the policy.
type NamingPolicy interface {
	// Name identifies the policy (e.g. "camel").
	Name() string
	// PropertyName returns the serialized name for a Go field name.
	PropertyName(name string) string
}
