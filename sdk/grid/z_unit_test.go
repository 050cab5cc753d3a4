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
	"testing"

	"github.com/zintix-labs/reelspin/spec"
)

func TestFlattenRowMajor(t *testing.T) {
	var cols [spec.Columns]Column
	names := "ABCDEFGHIJKLMNO"
	for c := 0; c < spec.Columns; c++ {
		for r := 0; r < spec.Rows; r++ {
			cols[c][r] = spec.Symbol(names[c*spec.Rows+r : c*spec.Rows+r+1])
		}
	}
	g := Flatten(cols)
	for r := 0; r < spec.Rows; r++ {
		for c := 0; c < spec.Columns; c++ {
			if g[r*5+c] != cols[c][r] {
				t.Fatalf("flatten mismatch at row=%d col=%d", r, c)
			}
			if g.At(r, c) != cols[c][r] {
				t.Fatalf("At mismatch at row=%d col=%d", r, c)
			}
		}
	}
	// column 0 = A,B,C 對應 index 0,5,10
	if g[0] != "A" || g[5] != "B" || g[10] != "C" || g[1] != "D" {
		t.Fatalf("unexpected layout: %v", g)
	}
}

func TestLineAndString(t *testing.T) {
	g := Flatten(FillColumns("X"))
	for _, s := range g.Line(spec.Payline{0, 6, 12, 8, 4}) {
		if s != "X" {
			t.Fatalf("unexpected line symbol %q", s)
		}
	}
	want := "X X X X X\nX X X X X\nX X X X X"
	if g.String() != want {
		t.Fatalf("got %q", g.String())
	}
}

func TestAtOutOfRangePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	var g Grid
	g.At(3, 0)
}
