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
	"github.com/zintix-labs/reelspin/sdk/grid"
	"github.com/zintix-labs/reelspin/spec"
)

// 停輪序列
//
//	Idle --Spin--> Spinning{0..4} --stop(c)...--> Resolving --> Idle
//
// 第 c 軸在 StopDelay(c) 後停下。延遲隨 c 嚴格遞增，而且任何一軸停下前
// 會先把左邊還在轉的軸停掉，因此停輪順序永遠由左至右。
// 最後一軸停下時以本次 spin 開始時的表格結算。

func (s *Session) startSpinLocked() error {
	if s.closed {
		return errs.ErrSessionClosed
	}
	if s.spinning {
		s.logger.Debug("spin ignored", "reason", "in_progress")
		return errs.ErrSpinInProgress
	}
	if err := s.ledger.Debit(s.bet); err != nil {
		s.message = rejectMessage(err)
		s.logger.Info("spin rejected", "bet", s.bet, "balance", s.ledger.Balance(), "err", err)
		s.emitLocked(EventRejected, -1, errs.CodeOf(err).String())
		return err
	}

	// 上一局的中獎線顯示計時器一併撤銷
	s.display.CancelAll()
	s.winningLines = nil
	s.lastWin = 0

	s.spinSeq++
	seq := s.spinSeq
	s.spinTables = s.active
	s.spinBet = s.bet
	s.gen.SetRoster(s.spinTables.Symbols)
	s.pending = &spinWait{done: make(chan struct{})}
	s.spinning = true
	for c := range s.colSpinning {
		s.colSpinning[c] = true
	}
	s.message = MsgSpinning
	s.logger.Info("spin started", "spin", seq, "bet", s.spinBet, "balance", s.ledger.Balance(), "mode", s.mode.String())
	s.emitLocked(EventSpinStarted, -1, "")

	timing := s.gs.Timing
	for c := 0; c < spec.Columns; c++ {
		col := c
		s.spinTimers.After(s.scheduler, timing.StopDelay(col), func() { s.stopColumn(seq, col) })
	}
	return nil
}

// stopColumn 是停輪計時器的 callback
func (s *Session) stopColumn(seq uint64, col int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || seq != s.spinSeq || !s.spinning {
		return
	}
	for c := 0; c <= col; c++ {
		if s.colSpinning[c] {
			s.landColumnLocked(c)
		}
	}
	for _, v := range s.colSpinning {
		if v {
			return
		}
	}
	s.resolveLocked(seq)
}

// landColumnLocked 換上新生成的一軸並重算盤面
func (s *Session) landColumnLocked(col int) {
	s.columns[col] = s.gen.GenerateColumn()
	s.colSpinning[col] = false
	s.grid = grid.Flatten(s.columns)
	s.logger.Debug("column stopped", "spin", s.spinSeq, "column", col)
	s.emitLocked(EventColumnStopped, col, "")
}

// resolveLocked 結算：評估盤面、派彩、設定訊息與中獎線
func (s *Session) resolveLocked(seq uint64) {
	tables := s.spinTables
	evaluateInto(s.outcome, s.grid, tables, s.spinBet, s.gs.LineMultiplier)
	win := s.outcome.TotalWin
	s.ledger.Credit(win)

	s.lastWin = win
	s.winningLines = append([]spec.Payline(nil), s.outcome.WinningLines...)
	if s.outcome.IsWin() {
		s.message = WinMessage(win)
		s.display.After(s.scheduler, s.gs.Timing.WinDisplay(), func() { s.clearWinningLines(seq) })
	} else {
		s.message = MsgNoWin
	}
	s.spinning = false
	s.spinTables = nil
	s.spinTimers.CancelAll()

	s.logger.Info("spin resolved", "spin", seq, "win", win, "lines", len(s.winningLines), "balance", s.ledger.Balance())
	out := s.outcome.Clone()
	s.events.emit(Event{Kind: EventSpinResolved, Column: -1, Outcome: &out, State: s.snapshotLocked()})
	s.pending.finish(false)
}

// clearWinningLines 是中獎線顯示計時器的 callback
func (s *Session) clearWinningLines(seq uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || seq != s.spinSeq || s.spinning || len(s.winningLines) == 0 {
		return
	}
	s.winningLines = nil
	s.emitLocked(EventWinCleared, -1, "")
}

// cancelSpinLocked 撤銷所有未觸發的計時器並讓既有 callback 失效。
// 半途中止的 spin 不結算，已扣的押注不退回。回傳撤銷的停輪數。
func (s *Session) cancelSpinLocked() int {
	s.spinSeq++
	n := s.spinTimers.CancelAll()
	s.display.CancelAll()
	if s.spinning {
		s.spinning = false
		s.colSpinning = [spec.Columns]bool{}
		s.spinTables = nil
		s.emitLocked(EventCanceled, -1, "")
		s.pending.finish(true)
	}
	return n
}

// spinWait 讓 SpinAndWait 得知該次 spin 是結算完成還是被中止。
// canceled 在 close(done) 之前寫入，等待端在 <-done 之後讀取。
type spinWait struct {
	done     chan struct{}
	canceled bool
}

func (w *spinWait) finish(canceled bool) {
	w.canceled = canceled
	close(w.done)
}
