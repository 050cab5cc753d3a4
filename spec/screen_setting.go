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

import "github.com/zintix-labs/reelspin/errs"

// 盤面固定為 5 軸 x 3 列
const (
	Columns    = 5
	Rows       = 3
	ScreenSize = Columns * Rows
)

// ScreenSetting 描述盤面樣式的設定。
//
// Fields:
//   - Columns: 盤面軸數
//   - Rows: 盤面列數
//
// 兩者都只接受固定值，寫在設定檔裡是為了讓設定自我描述。
type ScreenSetting struct {
	Columns  int `yaml:"columns"   json:"columns"`
	Rows     int `yaml:"rows"      json:"rows"`
	initFlag bool
}

// Init 檢查不合法的設定，未填時補上固定值
func (ss *ScreenSetting) Init() error {
	if ss.initFlag {
		return nil
	}
	if ss.Columns == 0 {
		ss.Columns = Columns
	}
	if ss.Rows == 0 {
		ss.Rows = Rows
	}
	if ss.Columns != Columns || ss.Rows != Rows {
		return errs.Fatalf("invalid screen dimensions: cols=%d rows=%d (only %dx%d supported)", ss.Columns, ss.Rows, Columns, Rows)
	}
	ss.initFlag = true
	return nil
}
