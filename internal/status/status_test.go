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
	"sync"
	"testing"
)

// the benchmarks calls the SetFulfilledResolved method, as all methods
// use the same technique, but only sets different variables.

func BenchmarkPromStatus_Setters(b *testing.B) {
	s := PromStatus(0)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.SetFulfilledResolved()
	}
}

func BenchmarkPromStatus_Load(b *testing.B) {
	s := PromStatus(0)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Load()
	}
}

func TestPromStatus_Zero(t *testing.T) {
	s := PromStatus(0)
	cs := s.Load()

	if !IsStatePending(cs) {
		t.Errorf("zero status should be pending")
	}
	if !IsFateUnresolved(cs) {
		t.Errorf("zero status should be unresolved")
	}
	if IsSettled(cs) {
		t.Errorf("zero status should not be settled")
	}
	if HasRejectionHandler(cs) {
		t.Errorf("zero status should have no rejection handler registered")
	}
}

func TestPromStatus_RegRejectionHandler(t *testing.T) {
	s := PromStatus(0)

	firstReg, cs := s.RegRejectionHandler()
	if !firstReg {
		t.Errorf("first RegRejectionHandler call should return firstReg = true")
	}
	if !HasRejectionHandler(cs) {
		t.Errorf("chain flag should be set after RegRejectionHandler")
	}

	firstReg, cs = s.RegRejectionHandler()
	if firstReg {
		t.Errorf("second RegRejectionHandler call should return firstReg = false")
	}
	if !HasRejectionHandler(cs) {
		t.Errorf("chain flag should survive repeated registration")
	}

	// the chain flag should survive settlement
	s.SetRejectedResolved()
	if !HasRejectionHandler(s.Load()) {
		t.Errorf("chain flag should survive settlement")
	}
}

func TestPromStatus_SetResolving(t *testing.T) {
	s := PromStatus(0)

	set, cs := s.SetResolving()
	if !set {
		t.Errorf("first SetResolving call should succeed")
	}
	if !IsFateResolving(cs) {
		t.Errorf("fate should be resolving")
	}
	if !IsStatePending(cs) {
		t.Errorf("resolving fate shouldn't change the pending state")
	}

	set, _ = s.SetResolving()
	if set {
		t.Errorf("second SetResolving call should fail")
	}

	// resolving doesn't block settlement
	set, cs = s.SetFulfilledResolved()
	if !set {
		t.Errorf("settling a resolving status should succeed")
	}
	if !IsStateFulfilled(cs) || !IsFateResolved(cs) {
		t.Errorf("unexpected status after settlement: %b", cs)
	}
}

func TestPromStatus_FirstSettleWins(t *testing.T) {
	tests := []struct {
		name   string
		first  func(s *PromStatus) (bool, uint32)
		second func(s *PromStatus) (bool, uint32)
		state  func(status uint32) bool
	}{
		{
			name:   "fulfill then reject",
			first:  (*PromStatus).SetFulfilledResolved,
			second: (*PromStatus).SetRejectedResolved,
			state:  IsStateFulfilled,
		},
		{
			name:   "reject then fulfill",
			first:  (*PromStatus).SetRejectedResolved,
			second: (*PromStatus).SetFulfilledResolved,
			state:  IsStateRejected,
		},
		{
			name:   "fulfill then fulfill",
			first:  (*PromStatus).SetFulfilledResolved,
			second: (*PromStatus).SetFulfilledResolved,
			state:  IsStateFulfilled,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := PromStatus(0)

			set, cs := tt.first(&s)
			if !set {
				t.Fatalf("first settle should succeed")
			}
			if !tt.state(cs) {
				t.Fatalf("unexpected state after first settle: %b", cs)
			}

			set, cs = tt.second(&s)
			if set {
				t.Fatalf("second settle should be a no-op")
			}
			if !tt.state(cs) {
				t.Fatalf("state changed after second settle: %b", cs)
			}
		})
	}
}

func TestPromStatus_SetHandled(t *testing.T) {
	t.Run("on a pending status", func(t *testing.T) {
		defer func() {
			if v := recover(); v == nil {
				t.Errorf("SetHandled on a pending status should panic")
			}
		}()

		s := PromStatus(0)
		s.SetHandled()
	})

	t.Run("on a settled status", func(t *testing.T) {
		s := PromStatus(0)
		s.SetRejectedResolved()

		set, cs := s.SetHandled()
		if !set {
			t.Errorf("first SetHandled call should succeed")
		}
		if !IsFateHandled(cs) || !IsSettled(cs) {
			t.Errorf("unexpected fate after SetHandled: %b", cs)
		}
		if !IsStateRejected(cs) {
			t.Errorf("SetHandled shouldn't change the state")
		}

		set, _ = s.SetHandled()
		if set {
			t.Errorf("second SetHandled call should fail")
		}
	})
}

func TestPromStatus_ConcurrentSettles(t *testing.T) {
	s := PromStatus(0)

	wg := sync.WaitGroup{}
	wins := make(chan string, 100)
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			if set, _ := s.SetFulfilledResolved(); set {
				wins <- "fulfilled"
			}
		}()
		go func() {
			defer wg.Done()
			if set, _ := s.SetRejectedResolved(); set {
				wins <- "rejected"
			}
		}()
	}
	wg.Wait()
	close(wins)

	n := 0
	for range wins {
		n++
	}
	if n != 1 {
		t.Errorf("expected exactly one settle to win, got: %d", n)
	}
}
