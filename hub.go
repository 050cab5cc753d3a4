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
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/zintix-labs/reelspin/errs"
	"github.com/zintix-labs/reelspin/sdk/sched"
	"github.com/zintix-labs/reelspin/spec"
)

// DefaultMaxSessions Hub 預設的 session 上限
const DefaultMaxSessions = 1024

// Hub 以 id 管理多個 Session，所有 session 共用同一個時間輪。
//
// Hub 本身滿足 app.Component：Run 阻塞到 Shutdown，Shutdown 關閉所有 session 與時間輪。
type Hub struct {
	gs    *spec.GameSetting
	wheel *sched.Wheel
	log   *slog.Logger
	max   int

	mu       sync.RWMutex
	sessions map[string]*Session

	created atomic.Int64
	removed atomic.Int64

	// lifecycle
	done      chan struct{}
	closeOnce sync.Once
	closed    atomic.Bool
	reason    atomic.Value // string
}

// NewHub 建立 Hub。tick <= 0 使用 sched.DefaultTick，max <= 0 使用 DefaultMaxSessions。
func NewHub(gs *spec.GameSetting, tick time.Duration, max int, log *slog.Logger) (*Hub, error) {
	if gs == nil {
		return nil, errs.NewFatal("nil game setting")
	}
	if tick <= 0 {
		tick = sched.DefaultTick
	}
	if max <= 0 {
		max = DefaultMaxSessions
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	h := &Hub{
		gs:       gs,
		wheel:    sched.NewWheel(tick, sched.DefaultWheelSize),
		log:      log,
		max:      max,
		sessions: make(map[string]*Session),
		done:     make(chan struct{}),
	}
	h.reason.Store("")
	return h, nil
}

// Create 建立一個新的 session 並回傳其 id 與初始快照。seed 為 nil 時隨機產生。
func (h *Hub) Create(seed *int64, mode spec.Mode) (string, Snapshot, error) {
	if h.closed.Load() {
		return "", Snapshot{}, errs.ErrSessionClosed.WithExtra("hub closed: " + h.ClosedReason())
	}
	id := uuid.NewString()
	opts := []Option{
		WithScheduler(h.wheel),
		WithMode(mode),
		WithLogger(h.log.With(slog.String("session", id))),
	}
	if seed != nil {
		opts = append(opts, WithSeed(*seed))
	}

	h.mu.Lock()
	// Shutdown 先標記 closed 再於鎖內換掉 map，鎖內重查才不會漏關
	if h.closed.Load() {
		h.mu.Unlock()
		return "", Snapshot{}, errs.ErrSessionClosed.WithExtra("hub closed: " + h.ClosedReason())
	}
	if len(h.sessions) >= h.max {
		h.mu.Unlock()
		return "", Snapshot{}, errs.Warnf("too many sessions: max=%d", h.max)
	}
	s, err := New(h.gs, opts...)
	if err != nil {
		h.mu.Unlock()
		return "", Snapshot{}, err
	}
	h.sessions[id] = s
	h.mu.Unlock()

	h.created.Add(1)
	h.log.Debug("session created", slog.String("session", id), slog.String("mode", mode.String()))
	return id, s.Snapshot(), nil
}

// Get 依 id 取得 session，不存在時回傳 errs.ErrNotFound
func (h *Hub) Get(id string) (*Session, error) {
	h.mu.RLock()
	s, ok := h.sessions[id]
	h.mu.RUnlock()
	if !ok {
		return nil, errs.ErrNotFound.WithExtra("session=" + id)
	}
	return s, nil
}

// Delete 關閉並移除 session
func (h *Hub) Delete(id string) error {
	h.mu.Lock()
	s, ok := h.sessions[id]
	delete(h.sessions, id)
	h.mu.Unlock()
	if !ok {
		return errs.ErrNotFound.WithExtra("session=" + id)
	}
	h.removed.Add(1)
	return s.Close()
}

// Len 目前存活的 session 數
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// Setting 回傳 Hub 使用的遊戲設定
func (h *Hub) Setting() *spec.GameSetting {
	return h.gs
}

// HubMetrics 觀測用快照
type HubMetrics struct {
	Sessions int    `json:"sessions"`
	Max      int    `json:"max"`
	Created  int64  `json:"created"`
	Removed  int64  `json:"removed"`
	Closed   bool   `json:"closed"`
	Reason   string `json:"reason,omitempty"`
}

func (h *Hub) Metrics() HubMetrics {
	return HubMetrics{
		Sessions: h.Len(),
		Max:      h.max,
		Created:  h.created.Load(),
		Removed:  h.removed.Load(),
		Closed:   h.closed.Load(),
		Reason:   h.ClosedReason(),
	}
}

// Run 阻塞到 Hub 被關閉
func (h *Hub) Run() error {
	<-h.done
	return nil
}

// Shutdown 關閉所有 session 並停止時間輪。可重複呼叫。
func (h *Hub) Shutdown(ctx context.Context) error {
	h.closeWithReason("shutdown")

	h.mu.Lock()
	all := h.sessions
	h.sessions = make(map[string]*Session)
	h.mu.Unlock()

	for id, s := range all {
		if err := ctx.Err(); err != nil {
			return errs.Wrap(err, "hub shutdown interrupted")
		}
		if err := s.Close(); err != nil {
			h.log.Warn("close session failed", slog.String("session", id), slog.Any("err", err))
		}
	}
	h.removed.Add(int64(len(all)))
	h.wheel.Close()
	return nil
}

// closeWithReason 進入關閉狀態並記錄原因（reason 只會被寫入一次）
func (h *Hub) closeWithReason(reason string) {
	h.closeOnce.Do(func() {
		if reason == "" {
			reason = "closed"
		}
		h.reason.Store(reason)
		h.closed.Store(true)
		close(h.done)
	})
}

// Closed 回報 Hub 是否已關閉
func (h *Hub) Closed() bool {
	return h.closed.Load()
}

func (h *Hub) ClosedReason() string {
	if v := h.reason.Load(); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
