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

import (
	"sync"
	"time"

	"github.com/asmsh/aplus/internal/status"
)

// Promise represents a value that will become available later. Consumers
// register continuations on it, through Then and Catch calls, without
// blocking, or wait for it through Wait and WaitChan calls.
//
// The zero value is a promise that stays pending forever.
type Promise struct {
	core *pipelineCore

	// closed when this promise settles.
	// this channel has one writer (the call that settles the promise),
	// which will close it, but can have multiple readers (waiting calls).
	syncChan chan struct{}

	// mu guards the registration tables below.
	// the value field is written once, before the syncChan is closed, so
	// reads that already observed a settled status may skip the mutex.
	mu sync.Mutex

	// holds the result of the promise, the fulfillment value or the
	// rejection reason.
	// don't read it unless the status is known to be settled.
	value any

	// the registration tables. index-aligned: successors[i] is the promise
	// returned by the Then call that registered fulfillCallbacks[i] and
	// rejectCallbacks[i]. a nil callback is an empty slot, which passes the
	// settled result through to its successor unchanged.
	// appended to by Then, snapshot-and-cleared by dispatch, so callbacks
	// registered during a dispatch pass start a fresh pass.
	fulfillCallbacks []Callback
	rejectCallbacks  []Callback
	successors       []*Promise

	// hold the state, fate, and chain info of the promise.
	// refer to the docs of the PromStatus type for more info.
	//
	// the value field is guaranteed to be immutable, after the fate value
	// is Resolved or Handled, so don't read it before then.
	status status.PromStatus
}

// State returns the current state of the promise, without blocking.
func (p *Promise) State() State {
	s := p.status.Load()
	switch {
	case status.IsStateFulfilled(s):
		return Fulfilled
	case status.IsStateRejected(s):
		return Rejected
	default:
		return Pending
	}
}

// Value returns the fulfillment value of the promise, or nil if the
// promise isn't fulfilled, without blocking.
func (p *Promise) Value() any {
	s := p.status.Load()
	if !status.IsStateFulfilled(s) {
		return nil
	}
	return p.value
}

// Reason returns the rejection reason of the promise, or nil if the
// promise isn't rejected, without blocking.
func (p *Promise) Reason() any {
	s := p.status.Load()
	if !status.IsStateRejected(s) {
		return nil
	}
	return p.value
}

// Wait blocks until the promise settles.
// It doesn't consume the result, and it doesn't count as handling a
// rejection.
func (p *Promise) Wait() {
	s := p.status.Load()

	// if the promise already settled, don't touch the syncChan, as the
	// settled fate is guaranteed to happen after the result is saved, and
	// after the syncChan is closed.
	if status.IsSettled(s) {
		return
	}

	// the chan will always be closed by the settling call, after setting
	// the value and status fields as expected.
	<-p.syncChan
}

// WaitChan returns a newly created channel, which is closed after the
// promise settles.
//
// If it's called on a settled promise, the channel is closed without
// waiting.
func (p *Promise) WaitChan() chan struct{} {
	c := make(chan struct{})

	go func(c chan struct{}) {
		p.Wait()
		close(c)
	}(c)

	return c
}

// Then registers the onFulfilled and onRejected continuations on this
// promise, and returns a new pending promise, whose settlement is driven
// by the registered continuation's outcome.
//
// Either continuation may be nil, which leaves an empty slot: the settled
// result then passes through to the returned promise unchanged, keeping
// its state.
//
// A continuation is invoked with the settled result. If it returns
// normally, the returned value resolves the new promise, going through the
// full resolution procedure, so returning a Promise or a Thenable chains
// into it. If it panics, the panic value rejects the new promise.
//
// Continuations never run synchronously within the Then call, nor within
// the call that settles this promise, even if it's already settled. They
// run deferred, in registration order, on the pipeline's scheduler.
func (p *Promise) Then(onFulfilled, onRejected Callback) *Promise {
	return p.then(onFulfilled, onRejected, onRejected != nil)
}

// then registers the provided continuations, with handlesRejection telling
// whether the registration counts as a rejection handler for the
// uncaught-rejection diagnostic. Finally registers its rejection slot
// without counting, as it re-throws the reason unconsumed.
func (p *Promise) then(onFulfilled, onRejected Callback, handlesRejection bool) *Promise {
	nextProm := newPromFollow(p.core)

	if handlesRejection {
		p.status.RegRejectionHandler()
	}

	p.mu.Lock()
	p.fulfillCallbacks = append(p.fulfillCallbacks, onFulfilled)
	p.rejectCallbacks = append(p.rejectCallbacks, onRejected)
	p.successors = append(p.successors, nextProm)
	settled := status.IsSettled(p.status.Load())
	p.mu.Unlock()

	// if the promise already settled, the just-registered slot needs a
	// fresh dispatch pass to be picked up.
	if settled {
		scheduleDispatch(p)
	}
	return nextProm
}

// Catch registers the onRejected continuation on this promise.
// It's equivalent to Then(nil, onRejected).
func (p *Promise) Catch(onRejected Callback) *Promise {
	return p.Then(nil, onRejected)
}

// Finally registers the finallyCb function to run once this promise
// settles, regardless of its state, and returns a new promise that adopts
// this promise's result unchanged.
//
// The finallyCb observes settlement without consuming it, so it takes no
// arguments and its return is not waited on. If it panics, the returned
// promise is rejected with the panic value instead.
//
// It will panic if a nil callback is passed.
func (p *Promise) Finally(finallyCb func()) *Promise {
	if finallyCb == nil {
		panic(nilCallbackPanicMsg)
	}

	return p.then(func(v any) any {
		finallyCb()
		return v
	}, func(reason any) any {
		finallyCb()
		return rethrowReason{reason: reason}
	}, false)
}

// Delay returns a promise that adopts this promise's state and value, no
// earlier than duration d after this promise settles.
func (p *Promise) Delay(d time.Duration) *Promise {
	// the settled result, a rejection included, is always delivered to the
	// returned promise, so the uncaught-rejection diagnostic moves to it.
	// the delivery happens outside the registration tables, hence the flag.
	p.status.RegRejectionHandler()

	p.core.reserveGoroutine()
	nextProm := newPromFollow(p.core)
	go delayFollowCall(p, nextProm, d)
	return nextProm
}

func delayFollowCall(prevProm, nextProm *Promise, d time.Duration) {
	// make sure we free this goroutine reservation
	defer prevProm.core.freeGoroutine()

	// wait the previous promise to settle
	prevProm.Wait()
	time.Sleep(d)

	// the value field is immutable once the promise settled
	s := prevProm.status.Load()
	if status.IsStateRejected(s) {
		settleRejected(nextProm, prevProm.value)
	} else {
		settleFulfilled(nextProm, prevProm.value)
	}
}
