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

// Package promise provides a faithful rendition of the Promise/A+
// asynchronous-result contract: a Promise represents a value that will
// become available later, and consumers register success/failure
// continuations on it, through Then and Catch calls, without blocking.
//
// Unlike the typed, channel-first promise libraries common in Go, this
// package keeps the contract's dynamic model: results are plain values,
// continuations receive and return plain values, rejection reasons are
// arbitrary values that are never inspected nor wrapped, and resolving
// with a promise-like value makes the promise adopt its eventual result.
// A panic plays the role of a thrown value: a panicking continuation, or
// executor, rejects the dependent promise with the panic value.
//
// A Promise has three states, and it can be in only one of them, at any time:
// Pending: the result of the promise isn't known yet.
// Fulfilled: the promise settled with a success value.
// Rejected: the promise settled with a failure reason.
// The state moves out of Pending for one time only, and never changes
// after that. Later resolve or reject calls on a settled promise are
// silently ignored, first-settle-wins.
//
// Continuations never run synchronously, neither within the call that
// registers them nor within the call that settles the promise, even on a
// promise that already settled. They run deferred, in registration order,
// on the pipeline's Scheduler, after the registering/settling call
// returned. This keeps the observable ordering consistent whether Then is
// called before or after settlement.
//
// A rejection that reaches the end of a chain without any rejection
// handler is silently dropped, by default. A Pipeline can be configured
// with an UncaughtRejectionHandler to surface such rejections as a
// diagnostic, without changing the settlement behavior.
//
// Blocking access is available, the Go way, through the Wait, WaitChan,
// State, Value, and Reason calls, and goroutine-backed construction is
// available through Go and FromContext.
package promise
