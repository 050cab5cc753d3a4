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
	"sync/atomic"
	"testing"
	"time"
)

func TestManualOrder(t *testing.T) {
	m := NewManual()
	var order []int
	for c := 4; c >= 0; c-- {
		c := c
		m.AfterFunc(time.Duration(800+600*c)*time.Millisecond, func() { order = append(order, c) })
	}
	if m.Advance(799*time.Millisecond) != 0 {
		t.Fatalf("nothing should fire before 800ms")
	}
	if m.Advance(time.Millisecond) != 1 || len(order) != 1 || order[0] != 0 {
		t.Fatalf("column 0 must fire at 800ms: %v", order)
	}
	m.Advance(10 * time.Second)
	want := []int{0, 1, 2, 3, 4}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("unexpected order %v", order)
		}
	}
	if m.Now() != 800*time.Millisecond+10*time.Second {
		t.Fatalf("unexpected now %v", m.Now())
	}
}

func TestManualSameInstantKeepsScheduleOrder(t *testing.T) {
	m := NewManual()
	var order []string
	m.AfterFunc(time.Second, func() { order = append(order, "a") })
	m.AfterFunc(time.Second, func() { order = append(order, "b") })
	m.Advance(time.Second)
	if len(order) != 2 || order[0] != "a" || order[1] != "b" {
		t.Fatalf("unexpected order %v", order)
	}
}

func TestManualNestedSchedule(t *testing.T) {
	m := NewManual()
	fired := false
	m.AfterFunc(time.Second, func() {
		m.AfterFunc(time.Second, func() { fired = true })
	})
	m.Advance(3 * time.Second)
	if !fired {
		t.Fatalf("nested task within range must fire in the same Advance")
	}
}

func TestGroupCancelAll(t *testing.T) {
	m := NewManual()
	var g Group
	var fired int
	for i := 1; i <= 5; i++ {
		g.After(m, time.Duration(i)*time.Second, func() { fired++ })
	}
	m.Advance(2 * time.Second)
	if fired != 2 {
		t.Fatalf("expected 2 fired, got %d", fired)
	}
	if n := g.CancelAll(); n != 3 {
		t.Fatalf("expected 3 revoked, got %d", n)
	}
	if g.Len() != 0 || m.Pending() != 0 {
		t.Fatalf("group and queue must be empty after cancel")
	}
	m.Advance(time.Minute)
	if fired != 2 {
		t.Fatalf("revoked timers must never fire")
	}
}

func TestWheelAfterFuncAndStop(t *testing.T) {
	w := NewWheel(time.Millisecond, 32)
	defer w.Close()

	done := make(chan struct{})
	w.AfterFunc(5*time.Millisecond, func() { close(done) })

	var stopped atomic.Bool
	tm := w.AfterFunc(200*time.Millisecond, func() { stopped.Store(true) })
	if !tm.Stop() {
		t.Fatalf("pending timer must be stoppable")
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("wheel task did not fire")
	}
	time.Sleep(300 * time.Millisecond)
	if stopped.Load() {
		t.Fatalf("stopped timer fired")
	}
}

func TestWheelCloseIdempotent(t *testing.T) {
	w := NewWheel(0, 0)
	w.Close()
	w.Close()
}
