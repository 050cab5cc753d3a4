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

package gen

import (
	"github.com/zintix-labs/reelspin/sdk/core"
	"github.com/zintix-labs/reelspin/sdk/grid"
	"github.com/zintix-labs/reelspin/spec"
)

// ReelGenerator 依目前模式的圖標名單產生轉輪圖標。
//
// 抽樣對名單內每個條目等機率：名單中重複的圖標即是它的權重，
// 不另外建權重表。
type ReelGenerator struct {
	core   *core.Core
	roster spec.Roster
}

// NewReelGenerator 以亂數核心與名單建立生成器
func NewReelGenerator(c *core.Core, roster spec.Roster) *ReelGenerator {
	return &ReelGenerator{core: c, roster: roster}
}

// SetRoster 換掉抽樣名單（模式切換時使用）
func (rg *ReelGenerator) SetRoster(roster spec.Roster) {
	rg.roster = roster
}

// Roster 回傳目前的抽樣名單
func (rg *ReelGenerator) Roster() spec.Roster {
	return rg.roster
}

// NextSymbol 從名單中等機率抽一個圖標
func (rg *ReelGenerator) NextSymbol() spec.Symbol {
	return NextSymbol(rg.core, rg.roster)
}

// GenerateColumn 產生一整軸（上、中、下）三個獨立抽樣的圖標
func (rg *ReelGenerator) GenerateColumn() grid.Column {
	return GenerateColumn(rg.core, rg.roster)
}

// GenerateColumns 一次產生五軸
func (rg *ReelGenerator) GenerateColumns() [spec.Columns]grid.Column {
	var cols [spec.Columns]grid.Column
	for c := range cols {
		cols[c] = rg.GenerateColumn()
	}
	return cols
}

// NextSymbol 是不帶狀態的抽樣版本，供需要固定名單快照的呼叫端使用。
// 名單為空屬於設定錯誤（設定載入時已檢查），此處直接 panic。
func NextSymbol(c *core.Core, roster spec.Roster) spec.Symbol {
	s, ok := core.PickFrom(c, roster)
	if !ok {
		panic("gen: empty roster")
	}
	return s
}

// GenerateColumn 是不帶狀態的整軸生成版本
func GenerateColumn(c *core.Core, roster spec.Roster) grid.Column {
	var col grid.Column
	for row := range col {
		col[row] = NextSymbol(c, roster)
	}
	return col
}
