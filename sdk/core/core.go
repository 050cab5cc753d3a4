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

package core

import (
	"crypto/rand"
	"encoding/binary"
	"sync"
)

// PRNG 定義 Core 所需的亂數來源，需同時支援取樣與狀態保存/還原。
type PRNG interface {
	RAND
	Restorable
}

// Restorable 定義可快照與還原的狀態介面。
type Restorable interface {
	// Snapshot 回傳可用於還原的序列化狀態。
	Snapshot() ([]byte, error)
	// Restore 依序列化狀態還原 PRNG 內部狀態。
	Restore([]byte) error
}

// RAND 定義核心亂數取樣能力。
//
// bounded 取樣（UintN / IntN）交給 PRNG 自己實作，
// 讓 32-bit 與 64-bit 原生輸出的實作各自走最合適的路徑。
type RAND interface {
	// Uint64 回傳非負 uint64 亂數。
	Uint64() uint64
	// Float64 回傳 [0,1) 的浮點亂數。
	Float64() float64
	// UintN 回傳 [0,max) 的 uint 亂數，若 max == 0 回傳 0。
	UintN(uint) uint
	// IntN 回傳 [0,max) 的 int 亂數，若 max <= 0 回傳 -1。
	IntN(int) int
}

type PRNGFactory interface {
	// New 以指定 seed 建立新的 PRNG。
	//
	// 相同實作下 New(seed) 必須是決定性的：相同 seed 產生相同輸出序列。
	// 測試與模擬器都靠這點重現同一串盤面。
	New(int64) PRNG
}

// DefaultPRNG 實作預設的 PRNGFactory（PCG64）
type DefaultPRNG struct{}

// New 滿足合約
func (d *DefaultPRNG) New(seed int64) PRNG {
	return newPCG64WithSeed(seed)
}

func Default() *DefaultPRNG {
	return &DefaultPRNG{}
}

// NewSeed 以加密隨機來源產生 seed，供未指定 seed 的 session 使用。
func NewSeed() int64 {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic(err)
	}
	return int64(binary.LittleEndian.Uint64(b[:]) >> 1)
}

// Core 封裝 PRNG，並提供常用取樣與工具方法。
//
// PRNG 本身不保證併發安全；Core 以互斥鎖保護，允許同一個 Core
// 同時被計時器 callback 與呼叫端 goroutine 取用。
type Core struct {
	mu  sync.Mutex
	rng PRNG
}

// New 允許使用外部自實現的 PRNG 建立 Core。
func New(rng PRNG) *Core {
	return &Core{rng: rng}
}

// NewWithSeed 以預設 PRNG 與指定 seed 建立 Core
func NewWithSeed(seed int64) *Core {
	return New(Default().New(seed))
}

func (c *Core) Uint64() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rng.Uint64()
}

func (c *Core) Float64() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rng.Float64()
}

func (c *Core) UintN(max uint) uint {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rng.UintN(max)
}

func (c *Core) IntN(max int) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rng.IntN(max)
}

// Snapshot 取得當下 PRNG 狀態
func (c *Core) Snapshot() ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rng.Snapshot()
}

// Restore 還原 PRNG 狀態
func (c *Core) Restore(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rng.Restore(data)
}

// Pick 從列表中等機率選取一個元素的 index，若列表為空回傳 -1
func (c *Core) Pick(n int) int {
	if n <= 0 {
		return -1
	}
	return c.IntN(n)
}

// PickFrom 從 src 中等機率選取一個元素。
// 重複的元素會被重複計入，不做去重或加權。
func PickFrom[T any](c *Core, src []T) (T, bool) {
	var zero T
	idx := c.Pick(len(src))
	if idx < 0 {
		return zero, false
	}
	return src[idx], true
}
