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
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/zintix-labs/reelspin/errs"
	"github.com/zintix-labs/reelspin/sdk/grid"
	"github.com/zintix-labs/reelspin/sdk/sched"
	"github.com/zintix-labs/reelspin/spec"
)

// cherryYAML 標準模式只有櫻桃，只有三條橫線；必定 3 線中獎
const cherryYAML = `
game_name: cherry
default_symbol: "🍋"
initial_balance: 50
initial_bet: 1
line_multiplier: 5
modes:
  - mode: standard
    symbols: ["🍒"]
    pay_table: {"🍒": 2}
    line_table:
      - [0, 1, 2, 3, 4]
      - [5, 6, 7, 8, 9]
      - [10, 11, 12, 13, 14]
  - mode: winning
    symbols: ["💎"]
    pay_table: {"💎": 20}
    line_table:
      - [5, 6, 7, 8, 9]
`

// loseYAML 標準模式只有不派彩的檸檬，永遠不會中獎
const loseYAML = `
game_name: lose
default_symbol: "🍒"
initial_balance: 5
initial_bet: 1
line_multiplier: 5
timing: {stop_base_ms: 1, stop_step_ms: 1, win_display_ms: 5}
modes:
  - mode: standard
    symbols: ["🍋"]
    pay_table: {"🍋": 0}
    line_table:
      - [0, 1, 2, 3, 4]
  - mode: winning
    symbols: ["🍒"]
    pay_table: {"🍒": 2}
    line_table:
      - [0, 1, 2, 3, 4]
`

func mustSetting(t *testing.T, data string) *spec.GameSetting {
	t.Helper()
	gs, err := spec.GetGameSettingByYAML([]byte(data))
	if err != nil {
		t.Fatalf("load setting failed: %v", err)
	}
	return gs
}

func mustDefault(t *testing.T) *spec.GameSetting {
	t.Helper()
	gs, err := spec.Default()
	if err != nil {
		t.Fatalf("load default failed: %v", err)
	}
	return gs
}

type eventLog struct {
	mu     sync.Mutex
	events []Event
}

func (l *eventLog) OnEvent(e Event) {
	l.mu.Lock()
	l.events = append(l.events, e)
	l.mu.Unlock()
}

func (l *eventLog) kinds() []EventKind {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]EventKind, 0, len(l.events))
	for _, e := range l.events {
		out = append(out, e.Kind)
	}
	return out
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("condition not met in time")
		}
		time.Sleep(time.Millisecond)
	}
}

func newManualSession(t *testing.T, gs *spec.GameSetting, opts ...Option) (*Session, *sched.Manual) {
	t.Helper()
	clk := sched.NewManual()
	s, err := New(gs, append([]Option{WithScheduler(clk), WithSeed(7)}, opts...)...)
	if err != nil {
		t.Fatalf("new session failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s, clk
}

func TestInitialState(t *testing.T) {
	s, _ := newManualSession(t, mustDefault(t))
	snap := s.Snapshot()
	if snap.Balance != 50 || snap.Bet != 1 || snap.Mode != spec.Standard {
		t.Fatalf("unexpected initial state: %+v", snap)
	}
	if snap.Message != MsgGoodLuck || snap.Spinning {
		t.Fatalf("unexpected initial message %q spinning=%v", snap.Message, snap.Spinning)
	}
	for i, sym := range snap.Grid {
		if sym != "🍒" {
			t.Fatalf("cell %d want default symbol got %q", i, sym)
		}
	}
}

func TestRowsOnlyWin(t *testing.T) {
	s, clk := newManualSession(t, mustSetting(t, cherryYAML))
	if err := s.Spin(); err != nil {
		t.Fatalf("spin failed: %v", err)
	}
	snap := s.Snapshot()
	if snap.Balance != 49 || !snap.Spinning || snap.Message != MsgSpinning || snap.SpinningColumns() != 5 {
		t.Fatalf("unexpected spinning state: %+v", snap)
	}

	clk.Advance(3200 * time.Millisecond)
	snap = s.Snapshot()
	if snap.Spinning || snap.SpinningColumns() != 0 {
		t.Fatalf("spin must be resolved")
	}
	if snap.LastWin != 30 || snap.Balance != 79 {
		t.Fatalf("want win 30 balance 79, got win %d balance %d", snap.LastWin, snap.Balance)
	}
	if snap.Message != "You win 30" || len(snap.WinningLines) != 3 {
		t.Fatalf("unexpected result: %q lines=%d", snap.Message, len(snap.WinningLines))
	}
	if !snap.IsWinningCell(7) {
		t.Fatalf("middle row must be highlighted")
	}
}

func TestColumnStopTiming(t *testing.T) {
	s, clk := newManualSession(t, mustSetting(t, cherryYAML))
	if err := s.Spin(); err != nil {
		t.Fatalf("spin failed: %v", err)
	}
	clk.Advance(799 * time.Millisecond)
	if got := s.Snapshot().SpinningColumns(); got != 5 {
		t.Fatalf("no column may stop before 800ms, spinning=%d", got)
	}
	for c := 0; c < spec.Columns; c++ {
		clk.AdvanceTo(time.Duration(800+600*c) * time.Millisecond)
		snap := s.Snapshot()
		for i := 0; i < spec.Columns; i++ {
			if snap.ColumnSpinning[i] != (i > c) {
				t.Fatalf("after stop %d column %d spinning=%v", c, i, snap.ColumnSpinning[i])
			}
		}
		if c < spec.Columns-1 && !snap.Spinning {
			t.Fatalf("spin resolved too early at column %d", c)
		}
		if c < spec.Columns-1 {
			// 停下的軸已換上新圖標，還在轉的軸保留舊盤面
			if snap.Columns[c] != (grid.Column{"🍒", "🍒", "🍒"}) || snap.Columns[spec.Columns-1][0] != "🍋" {
				t.Fatalf("unexpected columns after stop %d: %v", c, snap.Columns)
			}
		}
	}
	if s.Snapshot().Spinning {
		t.Fatalf("spin must resolve after last column")
	}
}

func TestObserverOrder(t *testing.T) {
	log := new(eventLog)
	s, clk := newManualSession(t, mustSetting(t, cherryYAML), WithObserver(log))
	if err := s.Spin(); err != nil {
		t.Fatalf("spin failed: %v", err)
	}
	clk.Advance(3200 * time.Millisecond)
	s.Close()

	got := log.kinds()
	want := []EventKind{
		EventSpinStarted,
		EventColumnStopped, EventColumnStopped, EventColumnStopped, EventColumnStopped, EventColumnStopped,
		EventSpinResolved,
		EventClosed,
	}
	if len(got) != len(want) {
		t.Fatalf("want %v got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("event %d want %s got %s", i, want[i], got[i])
		}
	}
	for i := 1; i <= 5; i++ {
		if c := log.events[i].Column; c != i-1 {
			t.Fatalf("column events must be left to right, got %d at %d", c, i)
		}
		if n := log.events[i].State.SpinningColumns(); n != 5-i {
			t.Fatalf("event %d snapshot spinning=%d", i, n)
		}
	}
	res := log.events[6]
	if res.Outcome == nil || res.Outcome.TotalWin != 30 || len(res.Outcome.Details) != 3 {
		t.Fatalf("resolved event must carry the outcome: %+v", res.Outcome)
	}
}

func TestInsufficientBalance(t *testing.T) {
	gs := mustSetting(t, loseYAML)
	s, clk := newManualSession(t, gs)
	if err := s.SetBet(10); err != nil {
		t.Fatalf("set bet failed: %v", err)
	}
	err := s.Spin()
	if !errors.Is(err, errs.ErrInsufficientBalance) {
		t.Fatalf("want insufficient balance got %v", err)
	}
	snap := s.Snapshot()
	if snap.Message != MsgInsufficientBalance || snap.Balance != 5 || snap.Spinning {
		t.Fatalf("unexpected state: %+v", snap)
	}
	if clk.Pending() != 0 {
		t.Fatalf("rejected spin must not schedule stops")
	}
}

func TestZeroBet(t *testing.T) {
	s, _ := newManualSession(t, mustDefault(t))
	if err := s.SetBet(0); err != nil {
		t.Fatalf("set bet failed: %v", err)
	}
	if err := s.Spin(); !errors.Is(err, errs.ErrInvalidBet) {
		t.Fatalf("want invalid bet got %v", err)
	}
	snap := s.Snapshot()
	if snap.Message != MsgInvalidBet || snap.Balance != 50 {
		t.Fatalf("unexpected state: %+v", snap)
	}
}

func TestNoWin(t *testing.T) {
	s, clk := newManualSession(t, mustSetting(t, loseYAML))
	if err := s.Spin(); err != nil {
		t.Fatalf("spin failed: %v", err)
	}
	clk.Advance(time.Second)
	snap := s.Snapshot()
	if snap.Message != MsgNoWin || snap.Balance != 4 || snap.LastWin != 0 || len(snap.WinningLines) != 0 {
		t.Fatalf("unexpected state: %+v", snap)
	}
	if clk.Pending() != 0 {
		t.Fatalf("no win must not arm the display timer")
	}
}

func TestSpinDuringSpin(t *testing.T) {
	s, clk := newManualSession(t, mustSetting(t, cherryYAML))
	if err := s.Spin(); err != nil {
		t.Fatalf("spin failed: %v", err)
	}
	clk.Advance(900 * time.Millisecond)
	before := s.Snapshot()
	if err := s.Spin(); !errors.Is(err, errs.ErrSpinInProgress) {
		t.Fatalf("want spin in progress got %v", err)
	}
	snap := s.Snapshot()
	if snap.Balance != 49 || snap.Message != MsgSpinning {
		t.Fatalf("second spin must not change state: %+v", snap)
	}
	if snap.Grid != before.Grid || snap.Columns != before.Columns || snap.Bet != before.Bet {
		t.Fatalf("second spin must not touch grid or bet: before=%+v after=%+v", before, snap)
	}
	if err := s.SetBet(3); !errors.Is(err, errs.ErrSpinInProgress) {
		t.Fatalf("bet change during spin must fail: %v", err)
	}
	if err := s.IncBet(); !errors.Is(err, errs.ErrSpinInProgress) {
		t.Fatalf("bet change during spin must fail: %v", err)
	}
}

func TestModeSwitch(t *testing.T) {
	s, clk := newManualSession(t, mustSetting(t, cherryYAML))
	if err := s.SetMode(spec.Winning); err != nil {
		t.Fatalf("set mode failed: %v", err)
	}
	if snap := s.Snapshot(); snap.Mode != spec.Winning || snap.Message != MsgWinningMode {
		t.Fatalf("unexpected state after switch: %+v", snap)
	}

	if err := s.Spin(); err != nil {
		t.Fatalf("spin failed: %v", err)
	}
	if err := s.SetMode(spec.Standard); !errors.Is(err, errs.ErrModeSwitchDuringSpin) {
		t.Fatalf("want mode switch error got %v", err)
	}
	clk.Advance(3200 * time.Millisecond)

	// 全部為鑽石，只有中間一條線：20 * 1 * 5
	snap := s.Snapshot()
	if snap.Mode != spec.Winning || snap.LastWin != 100 || len(snap.WinningLines) != 1 {
		t.Fatalf("spin must use winning tables: %+v", snap)
	}
	for _, sym := range snap.Grid {
		if sym != "💎" {
			t.Fatalf("winning roster not applied: %v", snap.Grid)
		}
	}

	if err := s.SetMode(spec.Standard); err != nil || s.Snapshot().Message != MsgStandardMode {
		t.Fatalf("switch back failed: %v", err)
	}
}

func TestWinDisplayClears(t *testing.T) {
	s, clk := newManualSession(t, mustSetting(t, cherryYAML))
	if err := s.Spin(); err != nil {
		t.Fatalf("spin failed: %v", err)
	}
	clk.Advance(3200 * time.Millisecond)
	clk.Advance(1999 * time.Millisecond)
	if len(s.Snapshot().WinningLines) == 0 {
		t.Fatalf("winning lines cleared too early")
	}
	clk.Advance(time.Millisecond)
	snap := s.Snapshot()
	if len(snap.WinningLines) != 0 {
		t.Fatalf("winning lines must clear after display time")
	}
	if snap.Message != "You win 30" || snap.Balance != 79 {
		t.Fatalf("clearing lines must not touch other state: %+v", snap)
	}
}

func TestNextSpinRevokesDisplay(t *testing.T) {
	log := new(eventLog)
	s, clk := newManualSession(t, mustSetting(t, cherryYAML), WithObserver(log))
	s.Spin()
	clk.Advance(3200 * time.Millisecond)
	s.Spin()
	clk.Advance(3200 * time.Millisecond)
	s.Close()
	for _, k := range log.kinds() {
		if k == EventWinCleared {
			t.Fatalf("display timer of the first spin must be revoked")
		}
	}
}

func TestCloseRevokesTimers(t *testing.T) {
	s, clk := newManualSession(t, mustSetting(t, cherryYAML))
	if err := s.Spin(); err != nil {
		t.Fatalf("spin failed: %v", err)
	}
	clk.Advance(1500 * time.Millisecond)
	if err := s.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if clk.Pending() != 0 {
		t.Fatalf("close must revoke pending stops, pending=%d", clk.Pending())
	}
	clk.Advance(10 * time.Second)
	snap := s.Snapshot()
	if snap.Balance != 49 || snap.LastWin != 0 || !snap.Closed {
		t.Fatalf("half-fired spin must not pay: %+v", snap)
	}
	if err := s.Spin(); !errors.Is(err, errs.ErrSessionClosed) {
		t.Fatalf("want closed got %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("second close must be a no-op: %v", err)
	}
}

func TestResetDuringSpin(t *testing.T) {
	s, clk := newManualSession(t, mustSetting(t, cherryYAML))
	s.SetMode(spec.Winning)
	s.IncBet()
	if err := s.Spin(); err != nil {
		t.Fatalf("spin failed: %v", err)
	}
	clk.Advance(800 * time.Millisecond)
	if err := s.Reset(); err != nil {
		t.Fatalf("reset failed: %v", err)
	}
	if clk.Pending() != 0 {
		t.Fatalf("reset must revoke pending stops")
	}
	clk.Advance(10 * time.Second)
	snap := s.Snapshot()
	if snap.Balance != 50 || snap.Bet != 1 || snap.Spinning || snap.Message != MsgReset {
		t.Fatalf("unexpected state after reset: %+v", snap)
	}
	if snap.Mode != spec.Winning {
		t.Fatalf("reset keeps the mode")
	}
	for _, sym := range snap.Grid {
		if sym != "🍋" {
			t.Fatalf("grid must be refilled with default symbol: %v", snap.Grid)
		}
	}
}

func TestBetStepping(t *testing.T) {
	s, _ := newManualSession(t, mustSetting(t, loseYAML))
	for i := 0; i < 10; i++ {
		s.IncBet()
	}
	if got := s.Snapshot().Bet; got != 5 {
		t.Fatalf("inc bet must cap at balance, got %d", got)
	}
	for i := 0; i < 10; i++ {
		s.DecBet()
	}
	if got := s.Snapshot().Bet; got != 1 {
		t.Fatalf("dec bet must floor at 1, got %d", got)
	}
}

func TestSessionMatchesMachine(t *testing.T) {
	gs := mustDefault(t)
	s, clk := newManualSession(t, gs)
	m, err := NewMachine(gs, 7)
	if err != nil {
		t.Fatalf("new machine failed: %v", err)
	}
	for i := 0; i < 5; i++ {
		if err := s.Spin(); err != nil {
			t.Fatalf("spin %d failed: %v", i, err)
		}
		clk.Advance(3200 * time.Millisecond)
		out, err := m.SpinInternal(spec.Standard, 1)
		if err != nil {
			t.Fatalf("machine spin failed: %v", err)
		}
		snap := s.Snapshot()
		if snap.Grid != m.Grid() {
			t.Fatalf("spin %d grid mismatch:\n%s\n%s", i, snap.Grid, m.Grid())
		}
		if snap.LastWin != out.TotalWin {
			t.Fatalf("spin %d win mismatch %d vs %d", i, snap.LastWin, out.TotalWin)
		}
		clk.Advance(3 * time.Second)
	}
}

func TestSpinAndWaitWithWheel(t *testing.T) {
	s, err := New(mustSetting(t, loseYAML), WithSeed(1))
	if err != nil {
		t.Fatalf("new session failed: %v", err)
	}
	defer s.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	snap, err := s.SpinAndWait(ctx)
	if err != nil {
		t.Fatalf("spin and wait failed: %v", err)
	}
	if snap.Spinning || snap.Balance != 4 || snap.Message != MsgNoWin {
		t.Fatalf("unexpected state: %+v", snap)
	}
}

func TestUnsubscribe(t *testing.T) {
	log := new(eventLog)
	s, _ := newManualSession(t, mustDefault(t))
	cancel := s.Subscribe(log)
	s.SetBet(2)
	waitFor(t, func() bool { return len(log.kinds()) == 1 })
	cancel()
	s.SetBet(3)
	s.Close()
	if got := log.kinds(); len(got) != 1 || got[0] != EventBetChanged {
		t.Fatalf("want one bet event got %v", got)
	}
}

func TestSimulatorDeterministic(t *testing.T) {
	gs := mustDefault(t)
	a, err := NewSimulatorWithSeed(gs, 99)
	if err != nil {
		t.Fatalf("new simulator failed: %v", err)
	}
	b, _ := NewSimulatorWithSeed(gs, 99)
	ra, _, err := a.Sim(spec.Standard, 1, 2000, false)
	if err != nil {
		t.Fatalf("sim failed: %v", err)
	}
	rb, _, _ := b.Sim(spec.Standard, 1, 2000, false)
	if ra.Summary.TotalWin != rb.Summary.TotalWin || ra.Summary.NoWinRounds != rb.Summary.NoWinRounds {
		t.Fatalf("same seed must give same result")
	}
	if ra.Summary.Rounds != 2000 || ra.Summary.TotalBet != 2000 {
		t.Fatalf("unexpected summary: %+v", ra.Summary)
	}
}

func TestWinningModeFavorsCherry(t *testing.T) {
	gs := mustDefault(t)
	sim, _ := NewSimulatorWithSeed(gs, 5)
	std, _, err := sim.SimMP(spec.Standard, 1, 5000, 4, false)
	if err != nil {
		t.Fatalf("sim standard failed: %v", err)
	}
	win, _, err := sim.SimMP(spec.Winning, 1, 5000, 4, false)
	if err != nil {
		t.Fatalf("sim winning failed: %v", err)
	}
	if win.Summary.Rounds != 20000 {
		t.Fatalf("SimMP must run rounds*workers, got %d", win.Summary.Rounds)
	}
	if win.Summary.HitRate <= std.Summary.HitRate {
		t.Fatalf("winning mode must hit more often: %.4f vs %.4f", win.Summary.HitRate, std.Summary.HitRate)
	}
	if win.Symbols[0].Symbol != "🍒" || win.Symbols[0].Hits == 0 {
		t.Fatalf("cherry must dominate winning mode: %+v", win.Symbols)
	}
}

func TestSimPlayers(t *testing.T) {
	gs := mustDefault(t)
	sim, _ := NewSimulatorWithSeed(gs, 11)
	st, est, _, err := sim.SimPlayers(2, 50, 50, spec.Standard, 1, 200, false)
	if err != nil {
		t.Fatalf("sim players failed: %v", err)
	}
	if st.Summary.Rounds == 0 || st.Summary.Rounds > 50*200 {
		t.Fatalf("unexpected rounds %d", st.Summary.Rounds)
	}
	total := est.SessionStat.Bust.Hat + est.SessionStat.Cashout.Hat + est.SessionStat.Alive.Hat
	if total < 0.999 || total > 1.001 {
		t.Fatalf("session outcomes must partition players, got %.3f", total)
	}
	if _, _, _, err := sim.SimPlayers(1, 1, 0, spec.Standard, 1, 1, false); err == nil {
		t.Fatalf("balance below bet must be rejected")
	}
}

func TestSimRejects(t *testing.T) {
	sim, _ := NewSimulatorWithSeed(mustDefault(t), 1)
	if _, _, err := sim.Sim(spec.Standard, 0, 10, false); !errors.Is(err, errs.ErrInvalidBet) {
		t.Fatalf("want invalid bet got %v", err)
	}
	if _, _, err := sim.Sim(spec.Standard, 1, 0, false); err == nil {
		t.Fatalf("zero rounds must fail")
	}
	if _, _, err := sim.SimMP(spec.Standard, 1, 10, 0, false); err == nil {
		t.Fatalf("zero workers must fail")
	}
}

func TestHubLifecycle(t *testing.T) {
	gs := mustSetting(t, loseYAML)
	h, err := NewHub(gs, time.Millisecond, 2, nil)
	if err != nil {
		t.Fatalf("new hub failed: %v", err)
	}
	seed := int64(3)
	id, snap, err := h.Create(&seed, spec.Winning)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if snap.Mode != spec.Winning || snap.Balance != 5 {
		t.Fatalf("unexpected initial snapshot: %+v", snap)
	}
	if _, _, err := h.Create(nil, spec.Standard); err != nil {
		t.Fatalf("second create failed: %v", err)
	}
	if _, _, err := h.Create(nil, spec.Standard); err == nil {
		t.Fatalf("create beyond max must fail")
	}

	s, err := h.Get(id)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	got, err := s.SpinAndWait(ctx)
	if err != nil || got.Spinning {
		t.Fatalf("spin through shared wheel failed: %+v %v", got, err)
	}

	if err := h.Delete(id); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := h.Get(id); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("deleted session must be not found, got %v", err)
	}
	if err := h.Delete(id); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("double delete must be not found, got %v", err)
	}
	if !s.Snapshot().Closed {
		t.Fatalf("deleted session must be closed")
	}
}

func TestHubShutdown(t *testing.T) {
	h, err := NewHub(mustSetting(t, loseYAML), 0, 0, nil)
	if err != nil {
		t.Fatalf("new hub failed: %v", err)
	}
	id, _, err := h.Create(nil, spec.Standard)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	s, _ := h.Get(id)

	done := make(chan error, 1)
	go func() { done <- h.Run() }()
	if err := h.Shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown failed: %v", err)
	}
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run must return nil, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("run did not return after shutdown")
	}
	if !s.Snapshot().Closed || h.Len() != 0 {
		t.Fatalf("shutdown must close every session")
	}
	if _, _, err := h.Create(nil, spec.Standard); !errors.Is(err, errs.ErrSessionClosed) {
		t.Fatalf("create after shutdown must fail with closed, got %v", err)
	}
	m := h.Metrics()
	if !m.Closed || m.Reason != "shutdown" || m.Created != 1 || m.Removed != 1 {
		t.Fatalf("unexpected metrics: %+v", m)
	}
	if err := h.Shutdown(context.Background()); err != nil {
		t.Fatalf("second shutdown must be a no-op: %v", err)
	}
}

func TestEventJSONRoundTrip(t *testing.T) {
	for k := EventSpinStarted; k <= EventClosed; k++ {
		data, err := json.Marshal(Event{Kind: k, Column: -1})
		if err != nil {
			t.Fatalf("marshal %v failed: %v", k, err)
		}
		var got Event
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatalf("unmarshal %s failed: %v", data, err)
		}
		if got.Kind != k {
			t.Fatalf("kind want %v got %v", k, got.Kind)
		}
	}
	var k EventKind
	if err := k.UnmarshalText([]byte("jackpot")); err == nil {
		t.Fatalf("unknown event kind must fail")
	}
}

// waitSpinning 等到背景 goroutine 的 spin 已經開始
func waitSpinning(t *testing.T, s *Session) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for !s.Snapshot().Spinning {
		if time.Now().After(deadline) {
			t.Fatalf("spin did not start")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestSpinAndWaitCanceledByReset(t *testing.T) {
	s, clk := newManualSession(t, mustSetting(t, cherryYAML))
	done := make(chan error, 1)
	go func() {
		_, err := s.SpinAndWait(context.Background())
		done <- err
	}()
	waitSpinning(t, s)
	clk.Advance(900 * time.Millisecond)
	if err := s.Reset(); err != nil {
		t.Fatalf("reset failed: %v", err)
	}
	select {
	case err := <-done:
		if !errors.Is(err, errs.ErrSpinCanceled) {
			t.Fatalf("want spin canceled got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("spin and wait did not return after reset")
	}
	if snap := s.Snapshot(); snap.LastWin != 0 || snap.Balance != 50 {
		t.Fatalf("canceled spin must not pay: %+v", snap)
	}
}

func TestSpinAndWaitCanceledByClose(t *testing.T) {
	s, _ := newManualSession(t, mustSetting(t, cherryYAML))
	done := make(chan error, 1)
	go func() {
		_, err := s.SpinAndWait(context.Background())
		done <- err
	}()
	waitSpinning(t, s)
	s.Close()
	select {
	case err := <-done:
		if !errors.Is(err, errs.ErrSpinCanceled) {
			t.Fatalf("want spin canceled got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("spin and wait did not return after close")
	}
}

func TestHubCreateRacingShutdown(t *testing.T) {
	h, err := NewHub(mustSetting(t, loseYAML), 0, 0, nil)
	if err != nil {
		t.Fatalf("new hub failed: %v", err)
	}
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			for j := 0; j < 8; j++ {
				if _, _, err := h.Create(nil, spec.Standard); err != nil && !errors.Is(err, errs.ErrSessionClosed) {
					t.Errorf("unexpected create error: %v", err)
				}
			}
		}()
	}
	close(start)
	if err := h.Shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown failed: %v", err)
	}
	wg.Wait()
	m := h.Metrics()
	if h.Len() != 0 || m.Created != m.Removed {
		t.Fatalf("sessions created during shutdown must not leak: len=%d metrics=%+v", h.Len(), m)
	}
}
