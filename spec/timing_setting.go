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

package spec

import (
	"time"

	"github.com/zintix-labs/reelspin/errs"
)

// 預設停輪時序：第 c 軸在啟動後 800 + 600*c ms 停下，中獎線顯示 2000 ms
const (
	DefaultStopBaseMs   = 800
	DefaultStopStepMs   = 600
	DefaultWinDisplayMs = 2000
)

// TimingSetting 停輪與中獎顯示的時序設定（毫秒）
type TimingSetting struct {
	StopBaseMs   int `yaml:"stop_base_ms"    json:"stop_base_ms"`
	StopStepMs   int `yaml:"stop_step_ms"    json:"stop_step_ms"`
	WinDisplayMs int `yaml:"win_display_ms"  json:"win_display_ms"`
	initFlag     bool
}

// Init 補上預設值並檢查
func (ts *TimingSetting) Init() error {
	if ts.initFlag {
		return nil
	}
	if ts.StopBaseMs == 0 {
		ts.StopBaseMs = DefaultStopBaseMs
	}
	if ts.StopStepMs == 0 {
		ts.StopStepMs = DefaultStopStepMs
	}
	if ts.WinDisplayMs == 0 {
		ts.WinDisplayMs = DefaultWinDisplayMs
	}
	if ts.StopBaseMs < 0 || ts.WinDisplayMs < 0 {
		return errs.Fatalf("timing must not be negative: base=%d display=%d", ts.StopBaseMs, ts.WinDisplayMs)
	}
	// 軸必須嚴格由左至右停下
	if ts.StopStepMs <= 0 {
		return errs.Fatalf("stop_step_ms must be positive, got %d", ts.StopStepMs)
	}
	ts.initFlag = true
	return nil
}

// StopDelay 回傳第 col 軸從啟動到停下的延遲
func (ts TimingSetting) StopDelay(col int) time.Duration {
	return time.Duration(ts.StopBaseMs+ts.StopStepMs*col) * time.Millisecond
}

// WinDisplay 回傳中獎線保留顯示的時間
func (ts TimingSetting) WinDisplay() time.Duration {
	return time.Duration(ts.WinDisplayMs) * time.Millisecond
}
