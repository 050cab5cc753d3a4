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

package sched

import (
	"container/heap"
	"sync"
	"time"
)

// Manual 是手動推進的虛擬時鐘，測試用。
//
// 任務只在 Advance 時於呼叫端 goroutine 上依 (到期時間, 排程順序) 執行；
// 執行中的任務可以再排程新任務，若落在推進範圍內會在同一次 Advance 中執行。
type Manual struct {
	mu    sync.Mutex
	now   time.Duration
	seq   uint64
	queue manualQueue
}

// NewManual 建立虛擬時鐘，時間從 0 開始
func NewManual() *Manual {
	return &Manual{}
}

type manualTask struct {
	at       time.Duration
	seq      uint64
	fn       func()
	index    int
	done     bool
	owner    *Manual
	canceled bool
}

// Stop 實作 Timer
func (t *manualTask) Stop() bool {
	m := t.owner
	m.mu.Lock()
	defer m.mu.Unlock()
	if t.done || t.canceled {
		return false
	}
	t.canceled = true
	if t.index >= 0 {
		heap.Remove(&m.queue, t.index)
	}
	return true
}

// AfterFunc 實作 Scheduler
func (m *Manual) AfterFunc(d time.Duration, fn func()) Timer {
	if d < 0 {
		d = 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	t := &manualTask{at: m.now + d, seq: m.seq, fn: fn, owner: m}
	heap.Push(&m.queue, t)
	return t
}

// Now 目前的虛擬時間
func (m *Manual) Now() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Pending 尚未執行也未撤銷的任務數
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.queue.Len()
}

// Advance 將時鐘往前推 d，並依序執行所有到期任務。回傳執行的任務數。
func (m *Manual) Advance(d time.Duration) int {
	m.mu.Lock()
	target := m.now + d
	m.mu.Unlock()

	fired := 0
	for {
		m.mu.Lock()
		if m.queue.Len() == 0 || m.queue[0].at > target {
			m.now = target
			m.mu.Unlock()
			return fired
		}
		t := heap.Pop(&m.queue).(*manualTask)
		t.done = true
		m.now = t.at
		m.mu.Unlock()

		t.fn()
		fired++
	}
}

// AdvanceTo 將時鐘推進到絕對時間 at（不會倒退）
func (m *Manual) AdvanceTo(at time.Duration) int {
	now := m.Now()
	if at <= now {
		return m.Advance(0)
	}
	return m.Advance(at - now)
}

// manualQueue 以最小堆管理任務
type manualQueue []*manualTask

func (q manualQueue) Len() int { return len(q) }
func (q manualQueue) Less(i, j int) bool {
	if q[i].at != q[j].at {
		return q[i].at < q[j].at
	}
	return q[i].seq < q[j].seq
}
func (q manualQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}
func (q *manualQueue) Push(x any) {
	t := x.(*manualTask)
	t.index = len(*q)
	*q = append(*q, t)
}
func (q *manualQueue) Pop() any {
	old := *q
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*q = old[:n-1]
	return t
}
