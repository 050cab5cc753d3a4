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
	"math"
	"testing"

	"github.com/zintix-labs/reelspin/sdk/core"
	"github.com/zintix-labs/reelspin/spec"
)

func TestGenerateColumnUsesRoster(t *testing.T) {
	rg := NewReelGenerator(core.NewWithSeed(1), spec.Roster{"A", "B"})
	for i := 0; i < 50; i++ {
		col := rg.GenerateColumn()
		for _, s := range col {
			if s != "A" && s != "B" {
				t.Fatalf("symbol %q not in roster", s)
			}
		}
	}
}

func TestGeneratorDeterministic(t *testing.T) {
	r := spec.Roster{"🍒", "🍋", "🔔", "🍇", "⭐", "💎"}
	g1 := NewReelGenerator(core.NewWithSeed(42), r)
	g2 := NewReelGenerator(core.NewWithSeed(42), r)
	if g1.GenerateColumns() != g2.GenerateColumns() {
		t.Fatalf("same seed must generate same columns")
	}
}

func TestSetRoster(t *testing.T) {
	rg := NewReelGenerator(core.NewWithSeed(2), spec.Roster{"A"})
	rg.SetRoster(spec.Roster{"Z"})
	if rg.NextSymbol() != "Z" {
		t.Fatalf("roster swap not applied")
	}
	if len(rg.Roster()) != 1 {
		t.Fatalf("unexpected roster")
	}
}

// 重複條目造成的偏向：4/6 的機率抽到 🍒
func TestDuplicationBias(t *testing.T) {
	r := spec.Roster{"🍒", "🍒", "🍒", "🍒", "⭐", "💎"}
	rg := NewReelGenerator(core.NewWithSeed(7), r)
	const n = 60000
	hits := 0
	for i := 0; i < n; i++ {
		if rg.NextSymbol() == "🍒" {
			hits++
		}
	}
	p := float64(hits) / n
	if math.Abs(p-4.0/6.0) > 0.01 {
		t.Fatalf("cherry frequency want ~0.667 got %.4f", p)
	}
}

func TestEmptyRosterPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on empty roster")
		}
	}()
	NextSymbol(core.NewWithSeed(1), nil)
}
