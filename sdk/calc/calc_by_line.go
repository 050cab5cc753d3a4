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

package calc

import (
	"github.com/zintix-labs/reelspin/sdk/buf"
	"github.com/zintix-labs/reelspin/sdk/grid"
	"github.com/zintix-labs/reelspin/spec"
)

// Evaluate 依線表計算盤面分數。
//
// 一條線五格圖標完全相同才算中（無 wild、無部分連線），
// 贏分 = payTable[symbol] * bet * multiplier。線與線各自獨立計算，
// 共用格子的線都照付。
func Evaluate(g grid.Grid, lines []spec.Payline, pay spec.PayTable, bet int, mult int) buf.Outcome {
	out := buf.NewOutcome()
	EvaluateInto(out, g, lines, pay, bet, mult)
	return *out
}

// EvaluateInto 與 Evaluate 相同，但寫入呼叫端提供的 Outcome（會先 Reset）
func EvaluateInto(out *buf.Outcome, g grid.Grid, lines []spec.Payline, pay spec.PayTable, bet int, mult int) {
	out.Reset()
	for lineIdx, line := range lines {
		sym, ok := matchLine(g, line)
		if !ok {
			continue
		}
		win := pay.Pay(sym) * bet * mult
		// 派彩為 0 的圖標不算中獎
		if win <= 0 {
			continue
		}
		out.RecordLine(lineIdx, line, sym, win)
	}
}

// matchLine 回傳線上五格是否為同一圖標
func matchLine(g grid.Grid, line spec.Payline) (spec.Symbol, bool) {
	first := g[line[0]]
	for pos := 1; pos < len(line); pos++ {
		if g[line[pos]] != first {
			return "", false
		}
	}
	return first, true
}
