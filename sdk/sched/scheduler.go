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

// Package sched 提供一次性延遲任務的排程抽象，以及「整組撤銷」的取消語意。
package sched

import (
	"sync"
	"time"
)

// Timer 已排程任務的取消控制。
// Stop 回傳 true 表示任務尚未執行且已被撤銷。
type Timer interface {
	Stop() bool
}

// Scheduler 在 d 之後執行 fn。fn 可能在任意 goroutine 上執行，
// 呼叫端需自行保證 fn 內的狀態存取安全。
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Timer
}

// Group 收集同一批次的 Timer，讓它們可以一起撤銷。
type Group struct {
	mu     sync.Mutex
	timers []Timer
}

// Add 將 Timer 加入群組
func (g *Group) Add(t Timer) {
	if t == nil {
		return
	}
	g.mu.Lock()
	g.timers = append(g.timers, t)
	g.mu.Unlock()
}

// After 透過 s 排程並直接加入群組
func (g *Group) After(s Scheduler, d time.Duration, fn func()) Timer {
	t := s.AfterFunc(d, fn)
	g.Add(t)
	return t
}

// CancelAll 撤銷群組內所有 Timer 並清空群組，回傳實際被撤銷（尚未執行）的數量。
func (g *Group) CancelAll() int {
	g.mu.Lock()
	timers := g.timers
	g.timers = nil
	g.mu.Unlock()

	n := 0
	for _, t := range timers {
		if t.Stop() {
			n++
		}
	}
	return n
}

// Len 群組內的 Timer 數量（包含已執行者）
func (g *Group) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.timers)
}
