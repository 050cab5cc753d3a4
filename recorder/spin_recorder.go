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

package recorder

import (
	"fmt"

	"github.com/zintix-labs/reelspin/errs"
	"github.com/zintix-labs/reelspin/sdk/buf"
	"github.com/zintix-labs/reelspin/spec"
	"github.com/zintix-labs/reelspin/stats"
)

// SpinRecorder 遊戲紀錄員
//
// SpinRecorder 負責紀錄遊戲結果，並透過Done輸出統計報表
type SpinRecorder struct {
	GameName       string
	Mode           spec.Mode
	Bet            int
	LineMultiplier int
	InitBalance    int
	Basic          *BasicRecord
	Dist           *DistRecord
	Symbols        *SymbolRecord
	Lines          []int // 依線表 index 的中獎次數
	Player         *PlayerRecord

	lineTable []spec.Payline
}

// BasicRecord 基本遊戲資料紀錄
type BasicRecord struct {
	TotalBet    int
	TotalWin    int
	WinSqSum    int // 平方和
	MaxWin      int
	Rounds      int
	NoWinRounds int
	LinesHit    int
}

// DistRecord 分數區間落點統計
//
// 紀錄時紀錄int資訊
type DistRecord struct {
	Bucket     *stats.WinBucket
	WinCollect []int
}

// SymbolRecord 各連線圖標的統計，index 與 Order 對齊
type SymbolRecord struct {
	Order []spec.Symbol
	Hits  []int
	Win   []int
	index map[spec.Symbol]int
}

// PlayerRecord 玩家統計
type PlayerRecord struct {
	leaveLine   int
	InitBalance int
	Balance     int
	MaxBalance  int
	MinBalance  int
	Spins       int
	Bust        bool
	Cashout     bool
	Alive       bool
}

// NewSpinRecorder 建立指定模式與押注的紀錄員，initBalance 為玩家模擬的起始餘額
func NewSpinRecorder(gs *spec.GameSetting, mode spec.Mode, bet int, initBalance int) (*SpinRecorder, error) {
	s := new(SpinRecorder)
	if gs == nil {
		return s, errs.NewFatal("nil game setting")
	}
	ms := gs.ModeSetting(mode)
	if ms == nil {
		return s, errs.NewFatal(fmt.Sprintf("mode err %d", mode))
	}
	if bet < 1 {
		return s, errs.NewFatal(fmt.Sprintf("bet must be at least 1, got: %d", bet))
	}
	if initBalance < 0 {
		return s, errs.NewFatal(fmt.Sprintf("init balance must not negative integer, got: %d", initBalance))
	}
	// 通過valid
	s.GameName = gs.GameName
	s.Mode = mode
	s.Bet = bet
	s.LineMultiplier = gs.LineMultiplier
	s.InitBalance = initBalance
	s.Basic = new(BasicRecord)
	s.Dist = newDistRecord(bet)
	s.Symbols = newSymbolRecord(ms.Symbols.Distinct())
	s.Lines = make([]int, len(ms.LineTable))
	s.Player = newPlayerRecord(initBalance)
	s.lineTable = ms.LineTable

	return s, nil
}

// MergeSpinRecorder 合併多個 worker 的紀錄（玩家紀錄不合併）
func MergeSpinRecorder(gs *spec.GameSetting, r []*SpinRecorder) (*SpinRecorder, error) {
	if len(r) == 0 {
		return nil, errs.NewFatal("merge spin record err : empty recorders")
	}
	r0 := r[0]
	s, err := NewSpinRecorder(gs, r0.Mode, r0.Bet, r0.InitBalance)
	if err != nil {
		return s, err
	}
	for _, v := range r {
		if v.GameName != r0.GameName {
			return s, errs.NewFatal("merge spin record err : different game name")
		}
		if v.Mode != r0.Mode {
			return s, errs.NewFatal("merge spin record err : different mode")
		}
		if v.Bet != r0.Bet {
			return s, errs.NewFatal("merge spin record err : different bet")
		}
		s.Basic.TotalBet += v.Basic.TotalBet
		s.Basic.TotalWin += v.Basic.TotalWin
		s.Basic.WinSqSum += v.Basic.WinSqSum
		s.Basic.MaxWin = max(s.Basic.MaxWin, v.Basic.MaxWin)
		s.Basic.Rounds += v.Basic.Rounds
		s.Basic.NoWinRounds += v.Basic.NoWinRounds
		s.Basic.LinesHit += v.Basic.LinesHit

		// 整合Dist
		for i := range len(v.Dist.WinCollect) {
			s.Dist.WinCollect[i] += v.Dist.WinCollect[i]
		}
		for i := range v.Symbols.Order {
			s.Symbols.Hits[i] += v.Symbols.Hits[i]
			s.Symbols.Win[i] += v.Symbols.Win[i]
		}
		for i := range v.Lines {
			s.Lines[i] += v.Lines[i]
		}
	}
	return s, nil
}

// Record 以單次 Outcome 更新基本統計（不含玩家）
func (s *SpinRecorder) Record(out *buf.Outcome) {
	s.recordBasic(out)
	s.recordDist(out)
	s.recordLines(out)
}

// RecordWithPlayer 在 Record 的基礎上，進一步更新玩家餘額／離場狀態，並回傳玩家是否停止遊戲。
func (s *SpinRecorder) RecordWithPlayer(out *buf.Outcome) bool {
	if s.Player.Balance < s.Bet {
		s.Player.Bust = true
		return true
	}
	s.Record(out)
	return s.recordPlayer(out)
}

// Done 輸出統計報表
func (s *SpinRecorder) Done() *stats.StatReport {
	bf := float64(s.Bet)

	report := &stats.StatReport{
		Summary: &stats.SummaryReport{
			GameName:       s.GameName,
			Mode:           s.Mode.String(),
			Bet:            s.Bet,
			LineMultiplier: s.LineMultiplier,
			TotalBet:       s.Basic.TotalBet,
			TotalWin:       s.Basic.TotalWin,
			NoWinRounds:    s.Basic.NoWinRounds,
			LinesHit:       s.Basic.LinesHit,
			MaxWin:         s.Basic.MaxWin,
			Rounds:         s.Basic.Rounds,
		},
		Mult: &stats.MultReport{
			TotalWinMult:      float64(s.Basic.TotalWin) / bf,
			TotalWinMultSqSum: float64(s.Basic.WinSqSum) / (bf * bf),
			MaxWinMult:        float64(s.Basic.MaxWin) / bf,
		},
		Dist: &stats.DistReport{
			WinBucket:  stats.Buckets.WinBucketStr(),
			WinCollect: s.Dist.WinCollect,
		},
		Symbols: make([]stats.SymbolReport, len(s.Symbols.Order)),
		Lines:   make([]stats.LineReport, len(s.Lines)),
		Player: &stats.PlayerReport{
			InitBalance: s.Player.InitBalance,
			Balance:     s.Player.Balance,
			MaxBalance:  s.Player.MaxBalance,
			MinBalance:  s.Player.MinBalance,
			Spins:       s.Player.Spins,
			Bust:        s.Player.Bust,
			Cashout:     s.Player.Cashout,
		},
	}
	for i, sym := range s.Symbols.Order {
		report.Symbols[i] = stats.SymbolReport{Symbol: string(sym), Hits: s.Symbols.Hits[i], Win: s.Symbols.Win[i]}
	}
	for i, hits := range s.Lines {
		report.Lines[i] = stats.LineReport{LineID: i, Line: s.lineTable[i], Hits: hits}
	}
	report.Done()
	return report
}

func (s *SpinRecorder) recordBasic(out *buf.Outcome) {
	w := out.TotalWin

	s.Basic.TotalBet += s.Bet
	s.Basic.TotalWin += w
	s.Basic.WinSqSum += w * w
	if w > s.Basic.MaxWin {
		s.Basic.MaxWin = w
	}
	if !out.IsWin() {
		s.Basic.NoWinRounds++
	}
	s.Basic.LinesHit += len(out.Details)
	s.Basic.Rounds++
}

func (s *SpinRecorder) recordDist(out *buf.Outcome) {
	s.Dist.WinCollect[s.Dist.Bucket.Index(out.TotalWin)]++
}

func (s *SpinRecorder) recordLines(out *buf.Outcome) {
	for _, d := range out.Details {
		if d.LineID >= 0 && d.LineID < len(s.Lines) {
			s.Lines[d.LineID]++
		}
		if i, ok := s.Symbols.index[d.Symbol]; ok {
			s.Symbols.Hits[i]++
			s.Symbols.Win[i] += d.Win
		}
	}
}

func (s *SpinRecorder) recordPlayer(out *buf.Outcome) bool {
	p := s.Player
	b := s.Bet

	// 更新資金
	p.Balance -= b
	p.Balance += out.TotalWin
	p.Spins++

	if p.Balance > p.MaxBalance {
		p.MaxBalance = p.Balance
	}
	if p.Balance < p.MinBalance {
		p.MinBalance = p.Balance
	}

	// 更新結局
	leave := false
	if p.Balance < b {
		p.Bust = true
		leave = true
	}
	if p.leaveLine > 0 && p.Balance >= p.leaveLine {
		p.Cashout = true
		leave = true
	}
	return leave
}

func newDistRecord(bet int) *DistRecord {
	d := new(DistRecord)
	d.Bucket = stats.Buckets.GetBucketByBet(bet)
	d.WinCollect = make([]int, len(stats.Buckets.WinBucketStr()))
	return d
}

func newSymbolRecord(order []spec.Symbol) *SymbolRecord {
	r := &SymbolRecord{
		Order: order,
		Hits:  make([]int, len(order)),
		Win:   make([]int, len(order)),
		index: make(map[spec.Symbol]int, len(order)),
	}
	for i, sym := range order {
		r.index[sym] = i
	}
	return r
}

func newPlayerRecord(balance int) *PlayerRecord {
	p := new(PlayerRecord)
	p.InitBalance = balance
	p.Balance = balance
	p.MaxBalance = balance
	p.MinBalance = balance
	p.leaveLine = 3 * balance // 設定離場條件(3倍本金)
	return p
}
