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

package reelspin

import (
	"sync"
	"sync/atomic"

	"github.com/zintix-labs/reelspin/errs"
	"github.com/zintix-labs/reelspin/sdk/buf"
)

// EventKind 狀態變化的種類
type EventKind uint8

const (
	EventSpinStarted EventKind = iota
	EventColumnStopped
	EventSpinResolved
	EventWinCleared
	EventRejected
	EventBetChanged
	EventModeChanged
	EventReset
	EventCanceled
	EventClosed
)

var eventKindNames = [...]string{
	EventSpinStarted:   "spin_started",
	EventColumnStopped: "column_stopped",
	EventSpinResolved:  "spin_resolved",
	EventWinCleared:    "win_cleared",
	EventRejected:      "rejected",
	EventBetChanged:    "bet_changed",
	EventModeChanged:   "mode_changed",
	EventReset:         "reset",
	EventCanceled:      "canceled",
	EventClosed:        "closed",
}

func (k EventKind) String() string {
	if int(k) < len(eventKindNames) {
		return eventKindNames[k]
	}
	return "unknown"
}

// MarshalText 讓事件種類以字串輸出
func (k EventKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText 解析事件種類字串，未知值回傳錯誤
func (k *EventKind) UnmarshalText(b []byte) error {
	for i, name := range eventKindNames {
		if name == string(b) {
			*k = EventKind(i)
			return nil
		}
	}
	return errs.Warnf("unknown event kind: %q", b)
}

// Event 是推送給呈現層的狀態變化通知。
//
// Column 只對 EventColumnStopped 有意義，其他事件為 -1。
// Outcome 只在 EventSpinResolved 帶值。State 是事件發生當下的完整快照。
type Event struct {
	Kind    EventKind    `json:"kind"`
	Column  int          `json:"column"`
	Outcome *buf.Outcome `json:"outcome,omitempty"`
	Reason  string       `json:"reason,omitempty"`
	State   Snapshot     `json:"state"`
}

// Observer 接收 session 的狀態變化。
// 所有事件依狀態變動的順序，由同一個背景 goroutine 逐筆送出。
type Observer interface {
	OnEvent(Event)
}

// ObserverFunc 讓一般函式滿足 Observer
type ObserverFunc func(Event)

func (f ObserverFunc) OnEvent(e Event) { f(e) }

// eventDispatcher 非阻塞的事件派送器：
//   - emit 只做 enqueue，不等觀察者
//   - buffer 滿時丟棄並計數，延遲不會傳回 session 的臨界區
//   - close 之後不再接收，並把已排隊的事件送完
type eventDispatcher struct {
	ch     chan Event
	closed chan struct{}
	once   sync.Once
	wg     sync.WaitGroup

	mu        sync.RWMutex
	observers map[uint64]Observer
	order     []uint64
	nextID    uint64

	dropCount atomic.Uint64
}

func newEventDispatcher(buf int, observers []Observer) *eventDispatcher {
	if buf <= 0 {
		buf = 256
	}
	d := &eventDispatcher{
		ch:        make(chan Event, buf),
		closed:    make(chan struct{}),
		observers: make(map[uint64]Observer, len(observers)),
	}
	for _, o := range observers {
		d.subscribe(o)
	}
	d.wg.Add(1)
	go d.worker()
	return d
}

func (d *eventDispatcher) subscribe(o Observer) (cancel func()) {
	if o == nil {
		return func() {}
	}
	d.mu.Lock()
	d.nextID++
	id := d.nextID
	d.observers[id] = o
	d.order = append(d.order, id)
	d.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			d.mu.Lock()
			delete(d.observers, id)
			for i, v := range d.order {
				if v == id {
					d.order = append(d.order[:i], d.order[i+1:]...)
					break
				}
			}
			d.mu.Unlock()
		})
	}
}

func (d *eventDispatcher) emit(e Event) {
	select {
	case <-d.closed:
		d.dropCount.Add(1)
		return
	default:
	}
	select {
	case d.ch <- e:
	default:
		d.dropCount.Add(1)
	}
}

func (d *eventDispatcher) worker() {
	defer d.wg.Done()
	for {
		select {
		case e := <-d.ch:
			d.deliver(e)
		case <-d.closed:
			for {
				select {
				case e := <-d.ch:
					d.deliver(e)
				default:
					return
				}
			}
		}
	}
}

func (d *eventDispatcher) deliver(e Event) {
	d.mu.RLock()
	targets := make([]Observer, 0, len(d.order))
	for _, id := range d.order {
		targets = append(targets, d.observers[id])
	}
	d.mu.RUnlock()
	for _, o := range targets {
		o.OnEvent(e)
	}
}

// close 停止接收並 drain，可重複呼叫
func (d *eventDispatcher) close() {
	d.once.Do(func() { close(d.closed) })
	d.wg.Wait()
}

func (d *eventDispatcher) dropped() uint64 {
	return d.dropCount.Load()
}
