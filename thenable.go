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

// Thenable is any value that exposes promise-like completion through a
// Then method, even if it's not a Promise of this implementation.
//
// When the resolution procedure meets a Thenable, it calls its Then
// method, for one time, with a one-shot resolve/reject pair bound to the
// promise being resolved. The Thenable reports its result by calling
// either of them, from any goroutine, any time, synchronously or not.
// Calls after the first, on either of the pair, are silently ignored.
//
// If Then panics before either callback fired, the panic value rejects
// the promise being resolved.
type Thenable interface {
	Then(resolve ResolveFunc, reject RejectFunc)
}
