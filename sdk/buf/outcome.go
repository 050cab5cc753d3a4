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

package buf

import (
	"github.com/zintix-labs/reelspin/spec"
)

// capLineGrow 預配的細項容量（winning mode 最多 12 條線）
const capLineGrow int = 16

// LineWin 單條線的算分細項
type LineWin struct {
	LineID int          `json:"line_id"` // 線表 index
	Line   spec.Payline `json:"line"`    // 線上五格 index
	Symbol spec.Symbol  `json:"symbol"`  // 連線圖標
	Win    int          `json:"win"`     // 本線贏分
}

// Outcome 一次盤面評估的結果。
//
// TotalWin == 0 等價於 WinningLines 為空：沒中不是錯誤，是正常的輸局結果。
type Outcome struct {
	TotalWin     int            `json:"total_win"`
	WinningLines []spec.Payline `json:"winning_lines"`
	Details      []LineWin      `json:"details"`
}

// NewOutcome 建立預配容量的 Outcome
func NewOutcome() *Outcome {
	return &Outcome{
		WinningLines: make([]spec.Payline, 0, capLineGrow),
		Details:      make([]LineWin, 0, capLineGrow),
	}
}

// RecordLine 紀錄一條中獎線並累加總贏分
func (o *Outcome) RecordLine(lineID int, line spec.Payline, sym spec.Symbol, win int) {
	o.TotalWin += win
	o.WinningLines = append(o.WinningLines, line)
	o.Details = append(o.Details, LineWin{LineID: lineID, Line: line, Symbol: sym, Win: win})
}

// IsWin 是否有任何中獎線
func (o *Outcome) IsWin() bool {
	return len(o.WinningLines) > 0
}

// IsWinningCell 回傳盤面 index 是否落在任一中獎線上
func (o *Outcome) IsWinningCell(idx int) bool {
	for _, l := range o.WinningLines {
		if l.Contains(idx) {
			return true
		}
	}
	return false
}

// Reset 清空結果，保留已配置容量（模擬器熱路徑重用）
func (o *Outcome) Reset() {
	o.TotalWin = 0
	o.WinningLines = o.WinningLines[:0]
	o.Details = o.Details[:0]
}

// Clone 深拷貝，讓結果可以安全地交給其他 goroutine
func (o *Outcome) Clone() Outcome {
	cp := Outcome{TotalWin: o.TotalWin}
	cp.WinningLines = append([]spec.Payline(nil), o.WinningLines...)
	cp.Details = append([]LineWin(nil), o.Details...)
	return cp
}
