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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWaitAll(t *testing.T) {
	t.Run("no promises", func(t *testing.T) {
		assert.False(t, WaitAll())
	})

	t.Run("settled promises", func(t *testing.T) {
		p1 := Resolve(1)
		p2 := Reject(newStrError())
		p3 := Go(func() (any, error) {
			time.Sleep(10 * time.Millisecond)
			return 3, nil
		})

		assert.True(t, WaitAll(p1, p2, p3))
		assert.Equal(t, Fulfilled, p1.State())
		assert.Equal(t, Rejected, p2.State())
		assert.Equal(t, Fulfilled, p3.State())
	})
}
