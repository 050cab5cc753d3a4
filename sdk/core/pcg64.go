// Copyright 2025 Zintix Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package core implements the PCG64 random number generator.
//
// The PCG algorithm is designed by Melissa O'Neill.
// Bounded sampling (UintN/IntN) is delegated to math/rand/v2.

package core

import (
	r2 "math/rand/v2"
)

// PCG64 以 math/rand/v2 的 PCG 為來源；bounded 取樣走 rand.Rand 的無偏實作。
type PCG64 struct {
	src *r2.PCG
	r   *r2.Rand
}

// newPCG64WithSeed 以 splitmix64 把單一 int64 seed 展開成 PCG 的 128-bit 狀態。
func newPCG64WithSeed(seed int64) *PCG64 {
	x := uint64(seed) ^ 0x9e3779b97f4a7c15
	src := r2.NewPCG(splitmix64(x), splitmix64(x^0xDA942042E4DD58B5))
	return &PCG64{src: src, r: r2.New(src)}
}

func (p *PCG64) Uint64() uint64 { return p.src.Uint64() }

// UintN 回傳 [0,max)，max == 0 回傳 0
func (p *PCG64) UintN(max uint) uint {
	if max == 0 {
		return 0
	}
	return p.r.UintN(max)
}

// IntN 回傳 [0,max)，max <= 0 回傳 -1
func (p *PCG64) IntN(max int) int {
	if max <= 0 {
		return -1
	}
	return p.r.IntN(max)
}

func (p *PCG64) Float64() float64 { return p.r.Float64() }

// Snapshot 取得當下內部狀態
func (p *PCG64) Snapshot() ([]byte, error) { return p.src.MarshalBinary() }

// Restore 恢復內部狀態
func (p *PCG64) Restore(data []byte) error { return p.src.UnmarshalBinary(data) }

func splitmix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}
