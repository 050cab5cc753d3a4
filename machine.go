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
	"github.com/zintix-labs/reelspin/errs"
	"github.com/zintix-labs/reelspin/sdk/buf"
	"github.com/zintix-labs/reelspin/sdk/calc"
	"github.com/zintix-labs/reelspin/sdk/core"
	"github.com/zintix-labs/reelspin/sdk/gen"
	"github.com/zintix-labs/reelspin/sdk/grid"
	"github.com/zintix-labs/reelspin/spec"
)

// Machine 是沒有計時器、沒有帳本的即時結算機台。
//
// 與 Session 使用相同的抽樣順序（第 0 軸到第 4 軸，每軸由上而下），
// 因此同一個 seed 下兩者產生的盤面序列一致。
//
// 並發語意：Machine 內含可重用的 buffer，同一台 Machine 不應被多 goroutine 同時 Spin；
// 併發模擬由 Simulator 建立多台 Machine 分散到不同 worker。
type Machine struct {
	gs       *spec.GameSetting
	core     *core.Core
	columns  [spec.Columns]grid.Column
	grid     grid.Grid
	outcome  *buf.Outcome
	initseed int64 // 出生 seed（便於追溯）
}

// NewMachine 以指定 seed 建立 Machine
func NewMachine(gs *spec.GameSetting, seed int64) (*Machine, error) {
	if gs == nil {
		return nil, errs.NewFatal("nil game setting")
	}
	return &Machine{
		gs:       gs,
		core:     core.NewWithSeed(seed),
		columns:  grid.FillColumns(gs.DefaultSymbol),
		outcome:  buf.NewOutcome(),
		initseed: seed,
	}, nil
}

// SpinInternal 以指定模式與押注跑一局並立即結算。
// 回傳的 Outcome 會在下一次 Spin 被覆寫，需要保留請用 Clone。
func (m *Machine) SpinInternal(mode spec.Mode, bet int) (*buf.Outcome, error) {
	ms := m.gs.ModeSetting(mode)
	if ms == nil {
		return nil, errs.Warnf("unknown mode: %d", mode)
	}
	if bet < 1 {
		return nil, errs.ErrInvalidBet
	}
	for c := range m.columns {
		m.columns[c] = gen.GenerateColumn(m.core, ms.Symbols)
	}
	m.grid = grid.Flatten(m.columns)
	evaluateInto(m.outcome, m.grid, ms, bet, m.gs.LineMultiplier)
	return m.outcome, nil
}

// Grid 最近一局的盤面
func (m *Machine) Grid() grid.Grid {
	return m.grid
}

// InitSeed 建立時使用的 seed
func (m *Machine) InitSeed() int64 {
	return m.initseed
}

// evaluateInto 以單一模式的線表與派彩表評估盤面
func evaluateInto(out *buf.Outcome, g grid.Grid, ms *spec.ModeSetting, bet int, mult int) {
	calc.EvaluateInto(out, g, ms.LineTable, ms.PayTable, bet, mult)
}
