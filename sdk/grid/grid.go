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

package grid

import (
	"strings"

	"github.com/zintix-labs/reelspin/spec"
)

// Column 一軸三格（上、中、下）
type Column [spec.Rows]spec.Symbol

// Grid 5x3 盤面，row-major：row 0 = 0..4, row 1 = 5..9, row 2 = 10..14
type Grid [spec.ScreenSize]spec.Symbol

// Flatten 將五軸依 row-major 攤平成盤面：grid[row*5+col] = columns[col][row]
func Flatten(columns [spec.Columns]Column) Grid {
	var g Grid
	const cols = spec.Columns
	for row := 0; row < spec.Rows; row++ {
		for col := 0; col < cols; col++ {
			g[row*cols+col] = columns[col][row]
		}
	}
	return g
}

// FillColumns 建立全部填上同一圖標的五軸
func FillColumns(s spec.Symbol) [spec.Columns]Column {
	var cols [spec.Columns]Column
	for c := range cols {
		for r := range cols[c] {
			cols[c][r] = s
		}
	}
	return cols
}

// Line 取出線上五格的圖標
func (g Grid) Line(p spec.Payline) [spec.Columns]spec.Symbol {
	var out [spec.Columns]spec.Symbol
	for i, idx := range p {
		out[i] = g[idx]
	}
	return out
}

// At 回傳 (row, col) 的圖標，超出範圍會 panic
func (g Grid) At(row, col int) spec.Symbol {
	if row < 0 || row >= spec.Rows || col < 0 || col >= spec.Columns {
		panic("grid: index out of range")
	}
	return g[row*spec.Columns+col]
}

// String 以三列文字輸出盤面
func (g Grid) String() string {
	var sb strings.Builder
	for row := 0; row < spec.Rows; row++ {
		for col := 0; col < spec.Columns; col++ {
			if col > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(string(g[row*spec.Columns+col]))
		}
		if row < spec.Rows-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
