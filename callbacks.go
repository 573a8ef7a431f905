// Copyright 2023 Ahmad Sameh(asmsh)
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package promise

// Callback is a continuation registered through a Then or a Catch call.
//
// It receives the settled result of the promise it was registered on, the
// fulfillment value or the rejection reason, depending on which slot it
// occupies.
// Its return becomes the fulfillment candidate of the successor promise,
// going through the full resolution procedure, and a panic out of it
// becomes the rejection reason of the successor promise.
type Callback func(v any) any

// ResolveFunc is the function used to fulfill a promise with a value, or,
// when the value is a Promise or a Thenable, to make it adopt that value's
// eventual result.
// It has an effect at most once; later calls are silently ignored.
type ResolveFunc func(v any)

// RejectFunc is the function used to reject a promise with a reason.
// The reason is kept as-is, it's never inspected nor wrapped, and it
// never goes through adoption, even if it's a Promise or a Thenable.
// It has an effect at most once; later calls are silently ignored.
type RejectFunc func(reason any)

// runCallback invokes cb with the settled value, converting a panic out
// of it into a rejection candidate.
func runCallback(cb Callback, value any) (out any, panicV any, panicked bool) {
	defer func() {
		if v := recover(); v != nil {
			panicV = v
			panicked = true
		}
	}()

	out = cb(value)
	return
}
