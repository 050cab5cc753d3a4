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
	"sync"
	"time"

	"github.com/RussellLuo/timingwheel"
)

// 預設時間輪：1ms 精度、64 格
const (
	DefaultTick      = time.Millisecond
	DefaultWheelSize = 64
)

// Wheel 以階層式時間輪實作 Scheduler，適合大量 session 共用。
//
// 到期的任務會在新的 goroutine 上執行。
type Wheel struct {
	tw        *timingwheel.TimingWheel
	closeOnce sync.Once
}

// NewWheel 建立並啟動時間輪。tick 小於 1ms 時改用 1ms。
func NewWheel(tick time.Duration, wheelSize int64) *Wheel {
	if tick < time.Millisecond {
		tick = DefaultTick
	}
	if wheelSize <= 0 {
		wheelSize = DefaultWheelSize
	}
	w := &Wheel{tw: timingwheel.NewTimingWheel(tick, wheelSize)}
	w.tw.Start()
	return w
}

// AfterFunc 實作 Scheduler
func (w *Wheel) AfterFunc(d time.Duration, fn func()) Timer {
	return w.tw.AfterFunc(d, fn)
}

// Close 停止時間輪，尚未到期的任務不會再執行。可重複呼叫。
func (w *Wheel) Close() {
	w.closeOnce.Do(w.tw.Stop)
}
