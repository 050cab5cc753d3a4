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

package logger

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
)

const defaultAsyncBuf = 1024

// AsyncHandler 把任意 slog.Handler 轉成非阻塞寫出。
//
// Handle 只把 record 放進隊列，由單一背景 goroutine 寫出。
// 隊列滿或 Close 之後的 record 直接丟棄並計數，不把 I/O 延遲帶回 spin 的路徑。
// WithAttrs / WithGroup 衍生的 handler 共用同一個隊列。
type AsyncHandler struct {
	next slog.Handler
	q    *queue
}

type queue struct {
	items   chan entry
	stop    chan struct{}
	stopped sync.Once
	done    chan struct{}
	dropped atomic.Uint64
}

type entry struct {
	ctx context.Context
	rec slog.Record
	h   slog.Handler
}

// NewAsyncHandler buf <= 0 時使用預設隊列長度
func NewAsyncHandler(next slog.Handler, buf int) *AsyncHandler {
	if next == nil {
		next = handlerFor(ModeDev, nil)
	}
	if buf <= 0 {
		buf = defaultAsyncBuf
	}
	q := &queue{
		items: make(chan entry, buf),
		stop:  make(chan struct{}),
		done:  make(chan struct{}),
	}
	go q.drain()
	return &AsyncHandler{next: next, q: q}
}

func (q *queue) drain() {
	defer close(q.done)
	for {
		select {
		case e := <-q.items:
			_ = e.h.Handle(e.ctx, e.rec)
		case <-q.stop:
			// 收到 stop 後把已排隊的寫完
			for {
				select {
				case e := <-q.items:
					_ = e.h.Handle(e.ctx, e.rec)
				default:
					return
				}
			}
		}
	}
}

// Dropped 因隊列滿或已關閉而丟棄的筆數
func (h *AsyncHandler) Dropped() uint64 {
	if h == nil || h.q == nil {
		return 0
	}
	return h.q.dropped.Load()
}

// Close 停止接收並等待隊列寫完，可重複呼叫
func (h *AsyncHandler) Close() {
	if h == nil || h.q == nil {
		return
	}
	h.q.stopped.Do(func() { close(h.q.stop) })
	<-h.q.done
}

func (h *AsyncHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *AsyncHandler) Handle(ctx context.Context, r slog.Record) error {
	if h == nil || h.q == nil {
		return nil
	}
	select {
	case <-h.q.stop:
		h.q.dropped.Add(1)
		return nil
	default:
	}
	// Record 內含可變的 attr slice，跨 goroutine 前需 Clone
	select {
	case h.q.items <- entry{ctx: ctx, rec: r.Clone(), h: h.next}:
	default:
		h.q.dropped.Add(1)
	}
	return nil
}

func (h *AsyncHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &AsyncHandler{next: h.next.WithAttrs(attrs), q: h.q}
}

func (h *AsyncHandler) WithGroup(name string) slog.Handler {
	return &AsyncHandler{next: h.next.WithGroup(name), q: h.q}
}
