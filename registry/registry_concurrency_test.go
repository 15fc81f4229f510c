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
	"runtime"
	"sync"
	"testing"

	"dirpx.dev/dtx/apis"
)

// TestConcurrentLookups verifies that the read side is race-free and consistent
// under concurrent use.
func TestConcurrentLookups(t *testing.T) {
	reg := scenarioRegistry(t)

	ids := []apis.DerivedTypeID{firstID, secondID}
	wg := sync.WaitGroup{}
	workers := runtime.GOMAXPROCS(0) * 4

	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(id int) {
			defer wg.Done()
			for i := 0; i < 5000; i++ {
				dt, err := reg.DerivedTypeFor(interfaceT, ids[(i+id)%len(ids)])
				if err != nil {
					t.Errorf("DerivedTypeFor: %v", err)
					return
				}
				if !reg.IsDerivedType(dt) {
					t.Errorf("IsDerivedType(%v) = false", dt)
					return
				}
				if target, err := reg.TargetTypeFor(dt); err != nil || target != interfaceT {
					t.Errorf("TargetTypeFor(%v) = (%v, %v)", dt, target, err)
					return
				}
				_ = reg.Entries()
				_ = reg.TargetTypesWithDerivatives()
			}
		}(w)
	}
	wg.Wait()

	if reg.Count() != len(ids) {
		t.Fatalf("count mismatch: got %d want %d", reg.Count(), len(ids))
	}
}
