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
	"github.com/zintix-labs/reelspin/sdk/grid"
	"github.com/zintix-labs/reelspin/spec"
)

// Snapshot 是 session 對外的唯讀狀態，值拷貝，可安全跨 goroutine 傳遞。
type Snapshot struct {
	SpinID         uint64                    `json:"spin_id"`
	Balance        int                       `json:"balance"`
	Bet            int                       `json:"bet"`
	Mode           spec.Mode                 `json:"mode"`
	Columns        [spec.Columns]grid.Column `json:"columns"`
	Grid           grid.Grid                 `json:"grid"`
	ColumnSpinning [spec.Columns]bool        `json:"column_spinning"`
	Spinning       bool                      `json:"spinning"`
	Message        string                    `json:"message"`
	WinningLines   []spec.Payline            `json:"winning_lines"`
	LastWin        int                       `json:"last_win"`
	Closed         bool                      `json:"closed"`
}

// IsWinningCell 回傳盤面 index 是否在目前顯示中的中獎線上（呈現層高亮用）
func (s Snapshot) IsWinningCell(idx int) bool {
	for _, l := range s.WinningLines {
		if l.Contains(idx) {
			return true
		}
	}
	return false
}

// SpinningColumns 尚在旋轉的軸數
func (s Snapshot) SpinningColumns() int {
	n := 0
	for _, v := range s.ColumnSpinning {
		if v {
			n++
		}
	}
	return n
}
