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

import "context"

type PipelineConfig struct {
	// Scheduler is the deferred-execution capability used for the dispatch
	// of settled callbacks of all promises created through this pipeline.
	// If it's nil, an internal FIFO run queue, shared by all pipelines
	// without their own Scheduler, is used.
	Scheduler Scheduler

	// UncaughtRejectionHandler, if non-nil, is called with an
	// *UncaughtRejection value, once per promise that got rejected with
	// its rejection never delivered to any callback or successor, and no
	// rejection handler ever registered on it.
	// If it's nil, such rejections are silently dropped, which is the
	// default policy.
	// The handler runs on the pipeline's scheduler, after the rejected
	// promise's dispatch pass.
	UncaughtRejectionHandler func(err error)

	// Size is the allowed number of goroutines which this pipeline can run.
	// This covers goroutines created for the Go, FromContext, and Delay
	// calls; it doesn't cover callback dispatch, which needs no goroutine
	// per call.
	// If it's 0 or less, then the pipeline size is unlimited.
	Size int
}

// Pipeline scopes a set of promises to a shared scheduler, an optional
// uncaught-rejection handler, and an optional goroutine limit.
type Pipeline struct {
	core pipelineCore
}

func NewPipeline(c ...*PipelineConfig) *Pipeline {
	pp := &Pipeline{}

	if len(c) != 0 && c[0] != nil {
		if sched := c[0].Scheduler; sched != nil {
			pp.core.scheduler = sched
		}
		if cb := c[0].UncaughtRejectionHandler; cb != nil {
			pp.core.uncaughtRejectionHandler = cb
		}
		if size := c[0].Size; size > 0 {
			pp.core.reserveChan = make(chan struct{}, size)
		}
	}

	return pp
}

// New creates a new Promise, invoking the executor synchronously with a
// one-shot resolve/reject pair bound to it, before returning.
//
// See the package-level New for the executor semantics.
func (pp *Pipeline) New(executor func(resolve ResolveFunc, reject RejectFunc)) *Promise {
	return newCall(&pp.core, executor)
}

// Resolve returns a promise resolved with x.
// See the package-level Resolve.
func (pp *Pipeline) Resolve(x any) *Promise {
	return resolveCall(&pp.core, x)
}

// Reject returns a promise rejected with reason.
// See the package-level Reject.
func (pp *Pipeline) Reject(reason any) *Promise {
	return rejectCall(&pp.core, reason)
}

// Go runs fun in a separate goroutine, and returns a promise settled by
// its outcome.
// See the package-level Go.
func (pp *Pipeline) Go(fun func() (v any, err error)) *Promise {
	return goCall(&pp.core, fun)
}

// FromContext returns a promise that is rejected with ctx's error once
// ctx ends.
// See the package-level FromContext.
func (pp *Pipeline) FromContext(ctx context.Context) *Promise {
	return fromContextCall(&pp.core, ctx)
}

func newCall(pc *pipelineCore, executor func(resolve ResolveFunc, reject RejectFunc)) *Promise {
	p := newPromInter(pc)
	if executor == nil {
		// no executor, the promise can only stay pending
		return p
	}

	resolve, reject := resolverPair(p)
	func() {
		defer func() {
			// a panicking executor rejects the promise, unless it already
			// settled it through an explicit call before panicking.
			if v := recover(); v != nil {
				reject(v)
			}
		}()
		executor(resolve, reject)
	}()
	return p
}

func resolveCall(pc *pipelineCore, x any) *Promise {
	// a promise of this implementation is returned unchanged, not wrapped
	if prom, ok := x.(*Promise); ok {
		return prom
	}

	p := newPromInter(pc)
	if t, ok := x.(Thenable); ok {
		// run the resolution procedure's adoption path on the thenable,
		// its Then method playing the executor role.
		adoptThenable(p, t)
		return p
	}

	settleFulfilled(p, x)
	return p
}

func rejectCall(pc *pipelineCore, reason any) *Promise {
	p := newPromInter(pc)
	// reasons never go through adoption, even promise or thenable ones
	settleRejected(p, reason)
	return p
}

func goCall(pc *pipelineCore, fun func() (v any, err error)) *Promise {
	if fun == nil {
		panic(nilFunctionPanicMsg)
	}

	pc.reserveGoroutine()
	p := newPromInter(pc)
	go goHandler(p, fun)
	return p
}

func goHandler(p *Promise, fun func() (v any, err error)) {
	// make sure we free this goroutine reservation
	defer p.core.freeGoroutine()

	resolve, reject := resolverPair(p)
	defer func() {
		if v := recover(); v != nil {
			reject(v)
		}
	}()

	v, err := fun()
	if err != nil {
		reject(err)
	} else {
		resolve(v)
	}
}

func fromContextCall(pc *pipelineCore, ctx context.Context) *Promise {
	if ctx == nil {
		ctx = context.Background()
	}

	p := newPromInter(pc)
	if err := ctx.Err(); err != nil {
		settleRejected(p, err)
		return p
	}

	pc.reserveGoroutine()
	go func() {
		defer pc.freeGoroutine()
		<-ctx.Done()
		settleRejected(p, ctx.Err())
	}()
	return p
}

type pipelineCore struct {
	scheduler                Scheduler
	uncaughtRejectionHandler func(err error)

	reserveChan chan struct{}
}

// schedule runs fn on the pipeline's scheduler, falling back to the
// default queue for promises created without a pipeline.
func (pc *pipelineCore) schedule(fn func()) {
	if pc != nil && pc.scheduler != nil {
		pc.scheduler.Schedule(fn)
		return
	}
	defScheduler.Schedule(fn)
}

func (pc *pipelineCore) uncaughtRejHandler() func(err error) {
	if pc == nil {
		return nil
	}
	return pc.uncaughtRejectionHandler
}

func (pc *pipelineCore) reserveGoroutine() {
	if pc != nil {
		if pc.reserveChan != nil {
			pc.reserveChan <- struct{}{}
		}
	}
}

func (pc *pipelineCore) freeGoroutine() {
	if pc != nil {
		if pc.reserveChan != nil {
			<-pc.reserveChan
		}
	}
}
