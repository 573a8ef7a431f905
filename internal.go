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

import (
	"sync/atomic"

	"github.com/asmsh/aplus/internal/status"
)

// panic messages
const (
	nilCallbackPanicMsg = "promise: the provided callback is nil"
	nilFunctionPanicMsg = "promise: the provided function is nil"
)

// newPromInter creates a new pending Promise which is settled internally.
func newPromInter(core *pipelineCore) *Promise {
	return &Promise{
		core:     core,
		syncChan: make(chan struct{}),
	}
}

// newPromFollow creates a new pending Promise, for one of the follow
// methods, which is settled by a dispatch pass on its parent.
func newPromFollow(core *pipelineCore) *Promise {
	return newPromInter(core)
}

// rethrowReason is the outcome of a continuation that needs to re-reject
// its successor with the wrapped reason, instead of fulfilling it with the
// returned value. It never escapes to user code.
type rethrowReason struct {
	reason any
}

// resolverPair returns the one-shot resolve/reject pair bound to prom.
//
// The latch is a boolean shared between the two returned callbacks, so, at
// most one of them, for one time, has an effect, regardless of how many
// times, or from how many goroutines, they are called.
// This protects against user executors or thenables calling them multiple
// times, including once synchronously and once asynchronously.
func resolverPair(prom *Promise) (ResolveFunc, RejectFunc) {
	latch := new(atomic.Bool)

	resolve := func(v any) {
		if !latch.CompareAndSwap(false, true) {
			return
		}
		resolvePromise(prom, v)
	}

	reject := func(reason any) {
		if !latch.CompareAndSwap(false, true) {
			return
		}
		settleRejected(prom, reason)
	}

	return resolve, reject
}

// resolvePromise runs the resolution procedure on prom, with the candidate
// result x.
//
// It's a no-op if prom already settled. Otherwise, in order: a self
// reference rejects prom with ErrSelfResolve, another Promise of this
// implementation is adopted (by copying its result if it's settled, or by
// subscribing to it if it's still pending), a Thenable is adopted through
// its Then method, and any other value fulfills prom directly.
func resolvePromise(prom *Promise, x any) {
	s := prom.status.Load()
	if status.IsSettled(s) {
		return
	}

	if inner, ok := x.(*Promise); ok {
		if inner == prom {
			// resolving a promise with itself would make it adopt itself,
			// and wait forever. reject instead.
			settleRejected(prom, ErrSelfResolve)
			return
		}
		adoptPromise(prom, inner)
		return
	}

	if t, ok := x.(Thenable); ok {
		adoptThenable(prom, t)
		return
	}

	settleFulfilled(prom, x)
}

// adoptPromise makes prom adopt the eventual state and value of inner.
func adoptPromise(prom, inner *Promise) {
	// claim prom, so its fate reflects that settlement is in progress.
	// the final guard is still inside the settle calls below.
	prom.status.SetResolving()

	inner.mu.Lock()
	s := inner.status.Load()
	if status.IsSettled(s) {
		// no need to wait, copy the result directly.
		value := inner.value
		inner.mu.Unlock()
		if status.IsStateRejected(s) {
			settleRejected(prom, value)
		} else {
			settleFulfilled(prom, value)
		}
		return
	}

	// inner is still pending, subscribe to it with an empty-slot
	// registration, so its dispatch passes its result through onto prom.
	// dispatch runs once per settlement, so prom can't be adopted twice.
	inner.fulfillCallbacks = append(inner.fulfillCallbacks, nil)
	inner.rejectCallbacks = append(inner.rejectCallbacks, nil)
	inner.successors = append(inner.successors, prom)
	inner.mu.Unlock()
}

// adoptThenable makes prom adopt the result that the thenable t reports
// through the one-shot resolve/reject pair passed to its Then method.
//
// If Then panics before either callback fired, the panic value rejects
// prom. Once either callback has fired, the one-shot latch turns a later
// panic-triggered reject call into a no-op.
func adoptThenable(prom *Promise, t Thenable) {
	prom.status.SetResolving()

	resolve, reject := resolverPair(prom)
	defer func() {
		if v := recover(); v != nil {
			reject(v)
		}
	}()
	t.Then(resolve, reject)
}

// settleFulfilled transitions prom from pending to fulfilled with the
// provided value, and schedules a deferred dispatch pass for its
// registered callbacks. It's a no-op if prom already settled.
func settleFulfilled(prom *Promise, value any) {
	prom.mu.Lock()
	if status.IsSettled(prom.status.Load()) {
		prom.mu.Unlock()
		return
	}
	// the value must be in place before the status transition, as readers
	// that observed a settled status read it without the mutex.
	prom.value = value
	prom.status.SetFulfilledResolved()
	hasRegs := len(prom.successors) != 0
	close(prom.syncChan)
	prom.mu.Unlock()

	if hasRegs {
		scheduleDispatch(prom)
	}
}

// settleRejected transitions prom from pending to rejected with the
// provided reason, schedules a deferred dispatch pass for its registered
// callbacks, and, if the pipeline carries an uncaught-rejection handler,
// schedules the uncaught-rejection check to run after that pass.
// It's a no-op if prom already settled.
func settleRejected(prom *Promise, reason any) {
	prom.mu.Lock()
	if status.IsSettled(prom.status.Load()) {
		prom.mu.Unlock()
		return
	}
	// the value must be in place before the status transition, as readers
	// that observed a settled status read it without the mutex.
	prom.value = reason
	prom.status.SetRejectedResolved()
	hasRegs := len(prom.successors) != 0
	close(prom.syncChan)
	prom.mu.Unlock()

	if hasRegs {
		scheduleDispatch(prom)
	}

	// the check is scheduled after the dispatch pass, on the same FIFO
	// scheduler, so by the time it runs, this pass has been delivered.
	if h := prom.core.uncaughtRejHandler(); h != nil {
		prom.core.schedule(func() {
			uncaughtRejectionCheck(prom, h)
		})
	}
}

func scheduleDispatch(prom *Promise) {
	prom.core.schedule(func() {
		dispatch(prom)
	})
}

// dispatch delivers the settled result of prom to its registered
// callbacks, in registration order, feeding each outcome into the
// settlement of the aligned successor.
//
// It atomically snapshots and clears the registration tables, so
// callbacks registered during this pass (e.g. a continuation calling Then
// again on prom) start a fresh, independently-dispatched pass, rather
// than being dropped or run twice.
func dispatch(prom *Promise) {
	prom.mu.Lock()
	s := prom.status.Load()
	if !status.IsSettled(s) {
		// can't happen: dispatch is only scheduled at, or after, settlement
		prom.mu.Unlock()
		panic("promise: internal: dispatch on a pending promise")
	}
	value := prom.value
	fulfillCallbacks := prom.fulfillCallbacks
	rejectCallbacks := prom.rejectCallbacks
	successors := prom.successors
	prom.fulfillCallbacks = nil
	prom.rejectCallbacks = nil
	prom.successors = nil
	prom.mu.Unlock()

	rejected := status.IsStateRejected(s)

	// a rejection that gets delivered anywhere, to a callback or through
	// an empty slot onto a successor, is no longer uncaught on prom.
	if rejected && len(successors) != 0 {
		prom.status.SetHandled()
	}

	for i, nextProm := range successors {
		cb := fulfillCallbacks[i]
		if rejected {
			cb = rejectCallbacks[i]
		}

		// an empty slot passes the settled result through unchanged,
		// keeping its state.
		if cb == nil {
			if rejected {
				settleRejected(nextProm, value)
			} else {
				resolvePromise(nextProm, value)
			}
			continue
		}

		out, panicV, panicked := runCallback(cb, value)
		switch {
		case panicked:
			settleRejected(nextProm, panicV)
		default:
			if rt, ok := out.(rethrowReason); ok {
				settleRejected(nextProm, rt.reason)
				continue
			}
			resolvePromise(nextProm, out)
		}
	}
}

// uncaughtRejectionCheck runs the pipeline's uncaught-rejection handler,
// unless the rejection of prom has been delivered to some callback or
// successor by now, or some callable rejection handler got registered on
// prom at any point of its lifetime.
func uncaughtRejectionCheck(prom *Promise, h func(err error)) {
	s := prom.status.Load()
	if status.HasRejectionHandler(s) || status.IsFateHandled(s) {
		return
	}

	// registrations that arrived after settlement have their own dispatch
	// pass coming, which will deliver the rejection down the chain, and
	// the chain's tail will run its own check.
	prom.mu.Lock()
	pendingRegs := len(prom.successors) != 0
	prom.mu.Unlock()
	if pendingRegs {
		return
	}

	h(newUncaughtRejection(prom.value))
}
