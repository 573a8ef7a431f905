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

import "testing"

func BenchmarkResolve(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		Resolve(i)
	}
}

func BenchmarkNew_Resolve(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		p := New(func(resolve ResolveFunc, reject RejectFunc) {
			resolve(i)
		})
		p.Wait()
	}
}

func BenchmarkThen_Chain(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		p := Resolve(i).Then(func(v any) any {
			return v
		}, nil).Then(func(v any) any {
			return v
		}, nil)
		p.Wait()
	}
}

func BenchmarkGo(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		p := Go(func() (any, error) {
			return i, nil
		})
		p.Wait()
	}
}
