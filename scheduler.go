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

import "sync"

// Scheduler is the deferred-execution capability consumed by the promise
// machinery. Every dispatch pass, and the uncaught-rejection check, runs
// as a function scheduled on one.
//
// Schedule runs fn at some point after the call returns, never inline on
// the caller's stack. Functions scheduled on the same Scheduler run in
// FIFO order, one at a time.
type Scheduler interface {
	Schedule(fn func())
}

// queueScheduler is the default Scheduler, a FIFO run queue drained by at
// most one goroutine at a time. The drainer is started lazily, and it
// exits once the queue is empty, so an idle queue holds no goroutine.
type queueScheduler struct {
	mu       sync.Mutex
	queue    []func()
	draining bool
}

// defScheduler is the queue used by every pipeline that wasn't configured
// with its own Scheduler, playing the role of the host's microtask queue.
var defScheduler = &queueScheduler{}

func (qs *queueScheduler) Schedule(fn func()) {
	if fn == nil {
		return
	}

	qs.mu.Lock()
	qs.queue = append(qs.queue, fn)
	if qs.draining {
		qs.mu.Unlock()
		return
	}
	qs.draining = true
	qs.mu.Unlock()

	go qs.drain()
}

func (qs *queueScheduler) drain() {
	for {
		qs.mu.Lock()
		if len(qs.queue) == 0 {
			qs.draining = false
			qs.mu.Unlock()
			return
		}
		fn := qs.queue[0]
		qs.queue[0] = nil
		qs.queue = qs.queue[1:]
		qs.mu.Unlock()

		fn()
	}
}
