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
	"fmt"

	"github.com/zintix-labs/reelspin/errs"
)

// Payline 一條線：5 個互不相同的盤面 index（row-major，0..14）。
// 值型別陣列，複製即不可變。
type Payline [Columns]int

// Contains 回傳盤面 index 是否在線上
func (p Payline) Contains(idx int) bool {
	for _, v := range p {
		if v == idx {
			return true
		}
	}
	return false
}

func (p Payline) valid() error {
	var seen [ScreenSize]bool
	for _, idx := range p {
		if idx < 0 || idx >= ScreenSize {
			return errs.NewFatal(fmt.Sprintf("payline %v has out of range index %d", p, idx))
		}
		if seen[idx] {
			return errs.NewFatal(fmt.Sprintf("payline %v has duplicated index %d", p, idx))
		}
		seen[idx] = true
	}
	return nil
}

// HitSetting 描述模式的線表
type HitSetting struct {
	LineTable []Payline `yaml:"line_table"  json:"line_table"`
	initFlag  bool
}

// Init 檢查線表
func (hs *HitSetting) Init() error {
	if hs.initFlag {
		return nil
	}
	if len(hs.LineTable) == 0 {
		return errs.NewFatal("line_table is empty")
	}
	for _, line := range hs.LineTable {
		if err := line.valid(); err != nil {
			return err
		}
	}
	hs.initFlag = true
	return nil
}
