// Copyright 2020 Ahmad Sameh(asmsh)
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

// Package status represents values for the promise's status.
//
// The value is split into 4 sections, state, fate, chain, and lock, as
// follows, starting from the right:
// - The lock section takes 2 bits.
// - The chain section takes 2 bits.
// - The fate section takes 2 bits.
// - The state section takes 2 bits.
//
// Description of the sections:
//
//   - The lock section.
//     = Although it's named 'lock', it doesn't use any Mutexes.
//     = The lock is implemented through atomic writing, reading, and updating
//     of the status value.
//     = The lock logic is just a way to tell newcomers(that want to update
//     the status) that: "the value is currently being updated by some previous
//     update call, so wait here until it finishes, then you can get your
//     chance to update the status too".
//     = The whole waiting behaviour is passed to the go scheduler(through a
//     call to runtime.Gosched), to decide which goroutine should run
//     now(and hence acquire the lock first).
//     = The lock is acquired for only a small period of time by any call, as
//     the operations done while it's held are very basic(and, or, assign,
//     compare).
//
//   - The chain section carries monotonic facts about the promise's chain.
//     = 1 flag(with 1 more reserved):
//     hasRejectionHandler: whether a callable rejection handler has ever
//     been registered on this promise, through a 'Then' or a 'Catch' call.
//     It feeds the uncaught-rejection check, and it never gets cleared,
//     because the check cares about the whole lifetime of the promise.
//
//   - The fate section describes how far the settlement of the promise has
//     progressed.
//     = 4 mutually exclusive possible modes, represented by 2 bits:
//     unresolved: the promise hasn't been provided with a result yet.
//     resolving: the resolution procedure has claimed the promise, but the
//     final state isn't known yet(an adoption may still be in progress).
//     resolved: the promise has settled, and its state and result are final.
//     handled: the promise has settled, and some rejection handler has
//     consumed its result.
//
//   - The state section holds the promise state per the async-result
//     contract.
//     = 3 mutually exclusive possible modes, represented by 2 bits:
//     pending, fulfilled, and rejected.
//     = The state is pending until the fate reaches resolved, and it never
//     changes after that.
package status
