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
	"fmt"
	"log/slog"
	"sync"

	"github.com/zintix-labs/reelspin/errs"
	"github.com/zintix-labs/reelspin/sdk/buf"
	"github.com/zintix-labs/reelspin/sdk/core"
	"github.com/zintix-labs/reelspin/sdk/gen"
	"github.com/zintix-labs/reelspin/sdk/grid"
	"github.com/zintix-labs/reelspin/sdk/ledger"
	"github.com/zintix-labs/reelspin/sdk/sched"
	"github.com/zintix-labs/reelspin/spec"
)

// Session 持有一位玩家的完整遊戲狀態：餘額、押注、模式、五軸與旋轉狀態。
//
// 並發語意：
//   - 所有狀態由單一互斥鎖保護；呼叫端操作與計時器 callback 走同一條修改路徑。
//   - 操作都不阻塞：Spin 驗證並扣款後立即返回，停輪由排程器在背景觸發。
//   - 計時器 callback 帶著排程當下的 spin 序號，序號過期（Reset / Close 之後）即不做事。
type Session struct {
	mu sync.Mutex

	gs        *spec.GameSetting
	scheduler sched.Scheduler
	ownWheel  *sched.Wheel // 自建的時間輪，Close 時停止
	core      *core.Core
	gen       *gen.ReelGenerator
	ledger    *ledger.Ledger
	logger    *slog.Logger
	events    *eventDispatcher

	bet     int
	mode    spec.Mode
	active  *spec.ModeSetting
	message string

	columns      [spec.Columns]grid.Column
	grid         grid.Grid
	colSpinning  [spec.Columns]bool
	spinning     bool
	winningLines []spec.Payline
	lastWin      int

	// 本次 spin 的快照：表格、押注、計時器
	spinSeq    uint64
	spinTables *spec.ModeSetting
	spinBet    int
	spinTimers sched.Group
	display    sched.Group
	pending    *spinWait
	outcome    *buf.Outcome

	closed bool
}

// New 依遊戲設定建立 Session
func New(gs *spec.GameSetting, opts ...Option) (*Session, error) {
	if gs == nil {
		return nil, errs.NewFatal("nil game setting")
	}
	o := options{mode: spec.Standard}
	for _, opt := range opts {
		opt(&o)
	}
	active := gs.ModeSetting(o.mode)
	if active == nil {
		return nil, errs.NewFatal(fmt.Sprintf("mode %s not configured", o.mode))
	}

	s := &Session{
		gs:      gs,
		core:    o.core,
		logger:  o.logger,
		ledger:  ledger.New(gs.InitialBalance),
		bet:     gs.InitialBet,
		mode:    o.mode,
		active:  active,
		message: MsgGoodLuck,
		outcome: buf.NewOutcome(),
	}
	if s.core == nil {
		seed := core.NewSeed()
		if o.seed != nil {
			seed = *o.seed
		}
		s.core = core.NewWithSeed(seed)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	s.scheduler = o.scheduler
	if s.scheduler == nil {
		s.ownWheel = sched.NewWheel(sched.DefaultTick, sched.DefaultWheelSize)
		s.scheduler = s.ownWheel
	}
	s.gen = gen.NewReelGenerator(s.core, active.Symbols)
	s.columns = grid.FillColumns(gs.DefaultSymbol)
	s.grid = grid.Flatten(s.columns)
	s.events = newEventDispatcher(o.eventBuf, o.observers)
	return s, nil
}

// Spin 開始一次旋轉。
//
// 旋轉中再呼叫會回傳 errs.ErrSpinInProgress 且不改任何狀態（包括訊息）。
// 押注不合法或餘額不足時回傳對應錯誤，只更新訊息。
// 成功時立即扣款、清除上次的中獎線、五軸進入旋轉，然後返回。
func (s *Session) Spin() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.startSpinLocked()
}

// SpinAndWait 開始一次旋轉並等到五軸停下、結算完成後回傳快照。
// ctx 取消時回傳錯誤，但旋轉本身不受影響。
// 旋轉被 Reset / Close 中止時回傳 errs.ErrSpinCanceled，押注不退回。
func (s *Session) SpinAndWait(ctx context.Context) (Snapshot, error) {
	s.mu.Lock()
	if err := s.startSpinLocked(); err != nil {
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return snap, err
	}
	w := s.pending
	s.mu.Unlock()

	select {
	case <-w.done:
		if w.canceled {
			return s.Snapshot(), errs.ErrSpinCanceled
		}
		return s.Snapshot(), nil
	case <-ctx.Done():
		return s.Snapshot(), errs.NewWarn("wait spin canceled/timeout: " + ctx.Err().Error())
	}
}

// SetBet 設定押注。數值原樣保存，合法性在 Spin 時才驗證。
func (s *Session) SetBet(bet int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setBetLocked(bet)
}

// IncBet 押注加一，但不超過目前餘額
func (s *Session) IncBet() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setBetLocked(min(s.ledger.Balance(), s.bet+1))
}

// DecBet 押注減一，最低為 1
func (s *Session) DecBet() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setBetLocked(max(1, s.bet-1))
}

func (s *Session) setBetLocked(bet int) error {
	if err := s.guardIdleLocked(errs.ErrSpinInProgress); err != nil {
		return err
	}
	s.bet = bet
	s.emitLocked(EventBetChanged, -1, "")
	return nil
}

// SetMode 切換模式：名單、派彩表、線表一起換。旋轉中回傳 errs.ErrModeSwitchDuringSpin。
func (s *Session) SetMode(m spec.Mode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guardIdleLocked(errs.ErrModeSwitchDuringSpin); err != nil {
		return err
	}
	ms := s.gs.ModeSetting(m)
	if ms == nil {
		return errs.Warnf("unknown mode: %d", m)
	}
	s.mode = m
	s.active = ms
	s.gen.SetRoster(ms.Symbols)
	s.message = modeMessage(m)
	s.logger.Info("mode changed", "mode", m.String())
	s.emitLocked(EventModeChanged, -1, "")
	return nil
}

// Reset 回到初始餘額與押注、盤面填回預設圖標、清除旋轉與中獎狀態。
// 旋轉中呼叫會撤銷所有未觸發的停輪，該局不結算。模式維持不變。
func (s *Session) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errs.ErrSessionClosed
	}
	if n := s.cancelSpinLocked(); n > 0 {
		s.logger.Debug("pending stops revoked by reset", "count", n)
	}
	s.ledger.Reset()
	s.bet = s.gs.InitialBet
	s.columns = grid.FillColumns(s.gs.DefaultSymbol)
	s.grid = grid.Flatten(s.columns)
	s.colSpinning = [spec.Columns]bool{}
	s.spinning = false
	s.winningLines = nil
	s.lastWin = 0
	s.message = MsgReset
	s.emitLocked(EventReset, -1, "")
	return nil
}

// Close 結束 session：撤銷所有計時器、送完已排隊的事件。之後的操作回傳 errs.ErrSessionClosed。
// 可重複呼叫。
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	n := s.cancelSpinLocked()
	s.closed = true
	s.logger.Debug("session closed", "revoked", n)
	s.emitLocked(EventClosed, -1, "")
	s.mu.Unlock()

	s.events.close()
	if s.ownWheel != nil {
		s.ownWheel.Close()
	}
	return nil
}

// Subscribe 動態註冊觀察者，回傳取消函式
func (s *Session) Subscribe(o Observer) (cancel func()) {
	return s.events.subscribe(o)
}

// Snapshot 回傳目前狀態的拷貝
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Mode 目前模式
func (s *Session) Mode() spec.Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// DroppedEvents 因佇列滿而丟棄的事件數
func (s *Session) DroppedEvents() uint64 {
	return s.events.dropped()
}

// Setting 回傳遊戲設定（唯讀）
func (s *Session) Setting() *spec.GameSetting {
	return s.gs
}

func (s *Session) guardIdleLocked(busy *errs.E) error {
	if s.closed {
		return errs.ErrSessionClosed
	}
	if s.spinning {
		return busy
	}
	return nil
}

func (s *Session) snapshotLocked() Snapshot {
	snap := Snapshot{
		SpinID:         s.spinSeq,
		Balance:        s.ledger.Balance(),
		Bet:            s.bet,
		Mode:           s.mode,
		Columns:        s.columns,
		Grid:           s.grid,
		ColumnSpinning: s.colSpinning,
		Spinning:       s.spinning,
		Message:        s.message,
		WinningLines:   append([]spec.Payline{}, s.winningLines...),
		LastWin:        s.lastWin,
		Closed:         s.closed,
	}
	return snap
}

func (s *Session) emitLocked(kind EventKind, col int, reason string) {
	s.events.emit(Event{Kind: kind, Column: col, Reason: reason, State: s.snapshotLocked()})
}
