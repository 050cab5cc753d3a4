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
	"log/slog"

	"github.com/zintix-labs/reelspin/sdk/core"
	"github.com/zintix-labs/reelspin/sdk/sched"
	"github.com/zintix-labs/reelspin/spec"
)

// Option 調整 Session 的建立參數
type Option func(*options)

type options struct {
	scheduler sched.Scheduler
	core      *core.Core
	seed      *int64
	observers []Observer
	logger    *slog.Logger
	mode      spec.Mode
	eventBuf  int
}

// WithScheduler 指定停輪計時器的排程器（多個 session 可共用一個時間輪）。
// 未指定時 session 會自建時間輪，並在 Close 時一併停止。
func WithScheduler(s sched.Scheduler) Option {
	return func(o *options) { o.scheduler = s }
}

// WithCore 指定亂數核心
func WithCore(c *core.Core) Option {
	return func(o *options) { o.core = c }
}

// WithSeed 以指定 seed 建立預設亂數核心，讓盤面可重現
func WithSeed(seed int64) Option {
	return func(o *options) { o.seed = &seed }
}

// WithObserver 註冊狀態變化的觀察者，可多次使用
func WithObserver(obs Observer) Option {
	return func(o *options) {
		if obs != nil {
			o.observers = append(o.observers, obs)
		}
	}
}

// WithLogger 指定 logger，預設全部丟棄
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithMode 指定初始模式
func WithMode(m spec.Mode) Option {
	return func(o *options) { o.mode = m }
}

// WithEventBuffer 指定事件佇列大小
func WithEventBuffer(n int) Option {
	return func(o *options) { o.eventBuf = n }
}
