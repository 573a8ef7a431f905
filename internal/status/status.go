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

package status

import (
	"runtime"
	"sync/atomic"
)

var (
	cas  = atomic.CompareAndSwapUint32
	load = atomic.LoadUint32
	swap = atomic.SwapUint32
)

// PromStatus holds the value that defines and represents the behavior and the
// status of the promise.
// It's read and written/updated atomically.
type PromStatus uint32

// the lock's related values and constants, using 2 bits(the [1st : 2nd] bits)
const (
	// lockAcquired is the value of the status when some update call is
	// running(a reg or set method).
	lockAcquired uint32 = 1 << iota
	_                   // reserved
)

// the chain's related values and constants, using 2 bits(the [3rd : 4th] bits)
const (
	// starting with a shift amount of 2, which is the number of bits used by
	// previous sections.

	// chainHasRejectionHandler records that at least one callable rejection
	// handler got registered on the promise, at some point of its lifetime.
	chainHasRejectionHandler uint32 = 1 << 2
	_                               = 1 << 3 // reserved

	chainBitsSetMask = chainHasRejectionHandler
)

// the fate's related values and constants, using 2 bits(the [5th : 6th] bits)
const (
	// starting with a shift amount of 4, which is the number of bits used by
	// previous sections.

	// fate modes, using 2 bits
	fateUnresolved uint32 = iota << 4
	fateResolving  uint32 = iota << 4
	fateResolved   uint32 = iota << 4
	fateHandled    uint32 = iota << 4

	// fateBitsSetMask and fateBitsClrMask are &-ed with the status to get
	// the fate value and clear the fate value, respectively.
	fateBitsSetMask = fateHandled
	fateBitsClrMask = ^fateBitsSetMask
)

// the state's related values and constants, using 2 bits(the [7th : 8th] bits)
const (
	// starting with a shift amount of 6, which is the number of bits used by
	// previous sections.

	// state modes, using 2 bits
	statePending   uint32 = iota << 6
	stateFulfilled uint32 = iota << 6
	stateRejected  uint32 = iota << 6

	// stateBitsSetMask and stateBitsClrMask are &-ed with the status to get
	// the state value and clear the state value, respectively.
	stateBitsSetMask = stateFulfilled | stateRejected
	stateBitsClrMask = ^stateBitsSetMask
)

func (s *PromStatus) readAndAcquireLock() (currentStatus uint32) {
	// read the current status value, and acquire the update lock,
	// by checking if there's any other, previous, update call is
	// still processing, and wait for it to finish.
	cs := swap((*uint32)(s), lockAcquired)
	for cs == lockAcquired {
		// don't actively wait for concurrent update calls, instead,
		// tell the go scheduler to run other goroutines(including the
		// one which has the lock) instead of the current(waiting) one.
		runtime.Gosched()
		cs = swap((*uint32)(s), lockAcquired)
	}
	// at this point, the value of the current status, cs, here is
	// only available to this method and its caller.
	return cs
}

func (s *PromStatus) saveAndReleaseLock(newStatus uint32) {
	// save the new status value, and release the update lock
	if !cas((*uint32)(s), lockAcquired, newStatus) {
		// panic if the status value has been changed unexpectedly
		panic("promise: internal: unexpected status change")
	}
}

// Load returns the current status value, if it's not being updated right now,
// and if it's, it waits until it's updated then return the value.
func (s *PromStatus) Load() (currentStatus uint32) {
	// read the current status value, and return it, as long as the
	// read value is not the locked status, otherwise, wait until the
	// read value becomes different than the locked status.
	cs := load((*uint32)(s))
	for cs == lockAcquired {
		cs = load((*uint32)(s))
	}
	return cs
}

// RegRejectionHandler declares that a callable rejection handler has been
// registered on this promise, through a 'Then' or a 'Catch' call.
// The chain flag is monotonic, so it survives settlement and any number of
// dispatch passes.
func (s *PromStatus) RegRejectionHandler() (firstReg bool, status uint32) {
	// read the current status value, and acquire the update lock
	cs := s.readAndAcquireLock()
	// create a new status value from the current one
	ns := cs

	// set the chain flag, only if it's not already set
	if ns&chainHasRejectionHandler == 0 {
		ns |= chainHasRejectionHandler
		firstReg = true
	}

	// save the new status value, and release the update lock
	s.saveAndReleaseLock(ns)
	return firstReg, ns
}

// SetResolving set the fate to Resolving, only if it's Unresolved.
// This method(and the Resolving fate) is unique to the resolving logic,
// and should be used only for that purpose.
func (s *PromStatus) SetResolving() (set bool, status uint32) {
	// read the current status value, and acquire the update lock
	cs := s.readAndAcquireLock()
	// create a new status value from the current one
	ns := cs

	// set the fate to resolving, only if the fate is unresolved
	if ns&fateBitsSetMask == fateUnresolved {
		ns &= fateBitsClrMask // clear the fate section
		ns |= fateResolving   // set the fate to resolving
		set = true            // this is the first set to resolving
	}

	// save the new status value, and release the update lock
	s.saveAndReleaseLock(ns)
	return set, ns
}

func (s *PromStatus) SetFulfilledResolved() (set bool, status uint32) {
	// read the current status value, and acquire the update lock
	cs := s.readAndAcquireLock()
	// create a new status value from the current one
	ns := cs

	// set the state to fulfilled and the fate to resolved, only if the fate
	// is unresolved or resolving.
	if ns&fateBitsSetMask < fateResolved {
		ns &= stateBitsClrMask // clear the state section
		ns &= fateBitsClrMask  // clear the fate section
		ns |= stateFulfilled   // set the state to fulfilled
		ns |= fateResolved     // set the fate to resolved
		set = true
	}

	// save the new status value, and release the update lock
	s.saveAndReleaseLock(ns)
	return set, ns
}

func (s *PromStatus) SetRejectedResolved() (set bool, status uint32) {
	// read the current status value, and acquire the update lock
	cs := s.readAndAcquireLock()
	// create a new status value from the current one
	ns := cs

	// set the state to rejected and the fate to resolved, only if the fate
	// is unresolved or resolving.
	if ns&fateBitsSetMask < fateResolved {
		ns &= stateBitsClrMask // clear the state section
		ns &= fateBitsClrMask  // clear the fate section
		ns |= stateRejected    // set the state to rejected
		ns |= fateResolved     // set the fate to resolved
		set = true
	}

	// save the new status value, and release the update lock
	s.saveAndReleaseLock(ns)
	return set, ns
}

// SetHandled set the fate to Handled, recording that some rejection handler
// has consumed the settled result, which is what the uncaught-rejection
// check looks for.
func (s *PromStatus) SetHandled() (set bool, status uint32) {
	// read the current status value, and acquire the update lock
	cs := s.readAndAcquireLock()
	// create a new status value from the current one
	ns := cs

	// panic if the state is 'pending', or the fate is neither 'resolved' nor 'handled'
	if ns&stateBitsSetMask == statePending || ns&fateBitsSetMask < fateResolved {
		// release the lock, so if the panic is recovered, the status is unlocked
		s.saveAndReleaseLock(ns)
		panic("promise: internal: unexpected call to SetHandled")
	}

	// set the fate to handled, without changing the state, only if the fate
	// is not handled already.
	if ns&fateBitsSetMask < fateHandled {
		ns &= fateBitsClrMask // clear the fate section
		ns |= fateHandled     // set the fate to handled
		set = true
	}

	// save the new status value, and release the update lock
	s.saveAndReleaseLock(ns)
	return set, ns
}
