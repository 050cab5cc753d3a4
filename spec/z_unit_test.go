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
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/zintix-labs/reelspin/errs"
)

func TestDefaultSetting(t *testing.T) {
	gs, err := Default()
	if err != nil {
		t.Fatalf("load default failed: %v", err)
	}
	if gs.InitialBalance != 50 || gs.InitialBet != 1 || gs.LineMultiplier != 5 {
		t.Fatalf("unexpected defaults: balance=%d bet=%d mult=%d", gs.InitialBalance, gs.InitialBet, gs.LineMultiplier)
	}
	if gs.DefaultSymbol != "🍒" {
		t.Fatalf("unexpected default symbol %q", gs.DefaultSymbol)
	}

	std := gs.ModeSetting(Standard)
	win := gs.ModeSetting(Winning)
	if std == nil || win == nil {
		t.Fatalf("both modes must be present")
	}
	if len(std.LineTable) != 5 || len(win.LineTable) != 12 {
		t.Fatalf("unexpected line counts: std=%d win=%d", len(std.LineTable), len(win.LineTable))
	}
	if std.PayTable.Pay("💎") != 20 || std.PayTable.Pay("🍋") != 3 {
		t.Fatalf("unexpected standard pay table: %v", std.PayTable)
	}
	if win.Symbols.Count("🍒") != 4 || win.Symbols.Count("⭐") != 1 {
		t.Fatalf("winning roster must keep duplicated entries: %v", win.Symbols)
	}
	if got := len(win.Symbols.Distinct()); got != 3 {
		t.Fatalf("winning roster distinct symbols want 3 got %d", got)
	}
}

func TestTiming(t *testing.T) {
	ts := TimingSetting{}
	if err := ts.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	for c := 0; c < Columns; c++ {
		want := time.Duration(800+600*c) * time.Millisecond
		if got := ts.StopDelay(c); got != want {
			t.Fatalf("col %d delay want %v got %v", c, want, got)
		}
	}
	if ts.WinDisplay() != 2*time.Second {
		t.Fatalf("unexpected win display %v", ts.WinDisplay())
	}

	bad := TimingSetting{StopStepMs: -1}
	if err := bad.Init(); err == nil {
		t.Fatalf("negative step must be rejected")
	}
}

func TestPaylineValidation(t *testing.T) {
	hs := HitSetting{LineTable: []Payline{{0, 1, 2, 3, 3}}}
	if err := hs.Init(); err == nil {
		t.Fatalf("duplicated index must be rejected")
	}
	hs = HitSetting{LineTable: []Payline{{0, 1, 2, 3, 15}}}
	if err := hs.Init(); err == nil {
		t.Fatalf("out of range index must be rejected")
	}
	if !(Payline{0, 6, 12, 8, 4}).Contains(12) {
		t.Fatalf("contains mismatch")
	}
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode(" Winning ")
	if err != nil || m != Winning {
		t.Fatalf("parse winning failed: %v %v", m, err)
	}
	if _, err := ParseMode("turbo"); err == nil {
		t.Fatalf("unknown mode must fail")
	}
	if Standard.String() != "standard" || Mode(9).String() != "unknown" {
		t.Fatalf("unexpected mode names")
	}
}

const minimalYAML = `
game_name: t
default_symbol: "A"
initial_balance: 10
initial_bet: 1
line_multiplier: 1
modes:
  - mode: standard
    symbols: ["A", "B"]
    pay_table: {"A": 1, "B": 2}
    line_table:
      - [0, 1, 2, 3, 4]
`

const winningYAML = `
  - mode: winning
    symbols: ["A", "A", "B"]
    pay_table: {"A": 1, "B": 2}
    line_table:
      - [5, 6, 7, 8, 9]
`

func TestMinimalYAML(t *testing.T) {
	gs, err := GetGameSettingByYAML([]byte(minimalYAML + winningYAML))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if gs.ScreenSetting.Columns != Columns || gs.Timing.WinDisplayMs != DefaultWinDisplayMs {
		t.Fatalf("defaults not applied: %+v", gs)
	}
	if gs.ModeSetting(Winning).Mode != Winning {
		t.Fatalf("mode enum not resolved")
	}
}

func TestMissingModeRejected(t *testing.T) {
	_, err := GetGameSettingByYAML([]byte(minimalYAML))
	if err == nil {
		t.Fatalf("config without winning mode must fail")
	}
	var e *errs.E
	if !errors.As(err, &e) || e.ErrLv != errs.Fatal {
		t.Fatalf("config errors must be fatal: %v", err)
	}
	if !strings.Contains(err.Error(), "missing mode winning") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDuplicatedModeRejected(t *testing.T) {
	data := minimalYAML + winningYAML + winningYAML
	if _, err := GetGameSettingByYAML([]byte(data)); err == nil {
		t.Fatalf("duplicated mode must fail")
	}
}

func TestUnknownFieldRejected(t *testing.T) {
	data := strings.Replace(minimalYAML+winningYAML, "line_multiplier: 1", "line_multiplier: 1\nline_multipler: 2", 1)
	if _, err := GetGameSettingByYAML([]byte(data)); err == nil {
		t.Fatalf("unknown field must fail")
	}
}

func TestSymbolWithoutPayRejected(t *testing.T) {
	ss := SymbolSetting{Symbols: Roster{"A", "C"}, PayTable: PayTable{"A": 1}}
	if err := ss.Init(); err == nil {
		t.Fatalf("symbol without pay entry must fail")
	}
}

func TestScreenMustBeFixed(t *testing.T) {
	ss := ScreenSetting{Columns: 6, Rows: 3}
	if err := ss.Init(); err == nil {
		t.Fatalf("6x3 must be rejected")
	}
	ss = ScreenSetting{}
	if err := ss.Init(); err != nil || ss.Columns != 5 || ss.Rows != 3 {
		t.Fatalf("empty screen setting must default to 5x3")
	}
}

func TestJSONSetting(t *testing.T) {
	data := `{
  "game_name": "j",
  "default_symbol": "A",
  "initial_balance": 10,
  "initial_bet": 1,
  "line_multiplier": 2,
  "modes": [
    {"mode": "standard", "symbols": ["A"], "pay_table": {"A": 1}, "line_table": [[0,1,2,3,4]]},
    {"mode": "winning", "symbols": ["A","A","B"], "pay_table": {"A": 1, "B": 3}, "line_table": [[5,6,7,8,9]]}
  ]
}`
	gs, err := GetGameSettingByJSON([]byte(data))
	if err != nil {
		t.Fatalf("json load failed: %v", err)
	}
	if gs.ModeSetting(Winning).LineTable[0] != (Payline{5, 6, 7, 8, 9}) {
		t.Fatalf("unexpected winning line table")
	}
	if gs.Timing.StopBaseMs != DefaultStopBaseMs {
		t.Fatalf("timing defaults not applied")
	}
}

func TestModeText(t *testing.T) {
	b, err := Winning.MarshalText()
	if err != nil || string(b) != "winning" {
		t.Fatalf("marshal failed: %s %v", b, err)
	}
	var m Mode
	if err := m.UnmarshalText([]byte("standard")); err != nil || m != Standard {
		t.Fatalf("unmarshal failed: %v %v", m, err)
	}
	if _, err := Mode(7).MarshalText(); err == nil {
		t.Fatalf("unknown mode must not marshal")
	}
}
