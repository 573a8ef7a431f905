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

package promise

import "context"

// defPipelineCore is used for overriding the value passed to all
// constructors below, for the purpose of testing.
var defPipelineCore *pipelineCore

// New creates a new Promise and invokes the executor synchronously,
// passing it a one-shot resolve/reject pair bound to the new promise,
// before returning.
//
// Calling resolve fulfills the promise with the provided value, or, when
// that value is a Promise or a Thenable, makes the promise adopt its
// eventual result. Calling reject rejects the promise with the provided
// reason, as-is. Only the first call on either of the pair has an effect;
// later calls are silently ignored.
//
// If the executor panics before settling the promise, the panic value
// rejects it. No continuation runs within the New call itself, whatever
// the executor does.
//
// A nil executor leaves the promise pending forever.
func New(executor func(resolve ResolveFunc, reject RejectFunc)) *Promise {
	return newCall(defPipelineCore, executor)
}

// Resolve returns a promise resolved with x.
//
// If x is already a Promise of this implementation, it's returned
// unchanged, without wrapping. If x is a Thenable, the returned promise
// adopts the result that x reports, and a panic out of x's Then method
// rejects the returned promise. Any other value fulfills the returned
// promise directly.
func Resolve(x any) *Promise {
	return resolveCall(defPipelineCore, x)
}

// Reject returns a promise rejected with reason.
//
// The reason is kept as-is, bypassing any adoption inspection, even if
// it's a Promise or a Thenable itself.
func Reject(reason any) *Promise {
	return rejectCall(defPipelineCore, reason)
}

// Go runs the provided function, fun, in a separate goroutine, and
// returns a promise that's settled by its outcome: rejected with the
// returned error if it's non-nil, rejected with the panic value if fun
// panics, or fulfilled with the returned value otherwise.
//
// It will panic if a nil function is passed.
func Go(fun func() (v any, err error)) *Promise {
	return goCall(defPipelineCore, fun)
}

// FromContext returns a promise that is rejected with ctx's error once
// ctx ends. If ctx already ended, the returned promise is already
// rejected.
//
// The promise settles from the context; nothing about the context, or
// the promise, can abort the promise's settlement once it happened.
func FromContext(ctx context.Context) *Promise {
	return fromContextCall(defPipelineCore, ctx)
}
