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
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/zintix-labs/reelspin/errs"
	"github.com/zintix-labs/reelspin/recorder"
	"github.com/zintix-labs/reelspin/sdk/core"
	"github.com/zintix-labs/reelspin/spec"
	"github.com/zintix-labs/reelspin/stats"
)

const capPrepare int = 100

// Simulator 用於模擬遊戲行為，可建立多台機台並平行紀錄統計。
type Simulator struct {
	GameName    string                   // 遊戲名稱
	initBalance int                      // 玩家帶入的餘額(僅Players需要)
	gs          *spec.GameSetting        // 方便重用建立Recorder
	initSeed    int64                    // 初始下的種子
	seedmaker   *seedMaker               // 種子生成器
	mBuf        []*Machine               // 併發執行機台實例
	rBuf        []*recorder.SpinRecorder // 併發遊戲紀錄員
	sBuf        []*stats.StatReport      // 併發統計結果報表(僅Players需要)
}

// NewSimulator 以隨機種子建立模擬器
func NewSimulator(gs *spec.GameSetting) (*Simulator, error) {
	return NewSimulatorWithSeed(gs, core.NewSeed())
}

// NewSimulatorWithSeed 以指定種子建立模擬器。第一台機台直接使用 seed，
// 之後的機台由 seedMaker 推導，所以單線 Sim 與同 seed 的 Session 盤面一致。
func NewSimulatorWithSeed(gs *spec.GameSetting, seed int64) (*Simulator, error) {
	if gs == nil {
		return nil, errs.NewFatal("nil game setting")
	}
	s := &Simulator{
		GameName:  gs.GameName,
		gs:        gs,
		initSeed:  seed,
		seedmaker: newSeedMaker(seed),
		mBuf:      make([]*Machine, 1, capPrepare),
		rBuf:      make([]*recorder.SpinRecorder, 0, capPrepare),
		sBuf:      make([]*stats.StatReport, 0, capPrepare),
	}
	m, err := NewMachine(gs, s.initSeed)
	if err != nil {
		return nil, err
	}
	s.mBuf[0] = m
	return s, nil
}

// InitSeed 建立時使用的種子
func (s *Simulator) InitSeed() int64 {
	return s.initSeed
}

// Sim 單線模擬器：以一台機台連續跑指定 round 並回傳統計結果與用時
func (s *Simulator) Sim(mode spec.Mode, bet int, round int, showpb bool) (*stats.StatReport, time.Duration, error) {
	defer s.reset()
	if err := s.valid(mode, bet, round); err != nil {
		return nil, 0, err
	}
	r, err := recorder.NewSpinRecorder(s.gs, mode, bet, s.initBalance)
	if err != nil {
		return nil, 0, err
	}
	s.rBuf = append(s.rBuf, r)
	m := s.mBuf[0]

	bar := newBar(round, showpb)
	for i := 0; i < round; i++ {
		out, err := m.SpinInternal(mode, bet)
		if err != nil {
			bar.Finish()
			return nil, 0, err
		}
		r.Record(out)
		bar.Increment()
	}
	used := time.Since(bar.StartTime())
	bar.Finish()

	return r.Done(), used, nil
}

// SimMP 平行執行多個機台，總計 rounds*mp 次 spin，合併統計結果後 回傳統計結果與用時
func (s *Simulator) SimMP(mode spec.Mode, bet int, rounds int, mp int, showpb bool) (*stats.StatReport, time.Duration, error) {
	defer s.reset()
	if mp <= 0 {
		return nil, 0, errs.NewWarn("workers must > 0")
	}
	if err := s.valid(mode, bet, rounds); err != nil {
		return nil, 0, err
	}
	if err := s.prepareMachines(mp); err != nil {
		return nil, 0, err
	}
	for len(s.rBuf) < mp {
		r, err := recorder.NewSpinRecorder(s.gs, mode, bet, s.initBalance)
		if err != nil {
			return nil, 0, err
		}
		s.rBuf = append(s.rBuf, r)
	}

	wg := new(sync.WaitGroup)
	wg.Add(mp)
	bar := newBar(rounds*mp, showpb)
	for i := 0; i < mp; i++ {
		go func(i int) {
			defer wg.Done()
			g := s.mBuf[i]
			st := s.rBuf[i]
			for r := 0; r < rounds; r++ {
				// 參數已在進入前檢查，這裡不會失敗
				out, _ := g.SpinInternal(mode, bet)
				st.Record(out)
				bar.Increment()
			}
		}(i)
	}
	wg.Wait()
	used := time.Since(bar.StartTime())
	bar.Finish()

	st, err := recorder.MergeSpinRecorder(s.gs, s.rBuf)
	if err != nil {
		return nil, 0, err
	}
	return st.Done(), used, nil
}

// SimPlayers 模擬多個玩家各自帶入初始餘額的遊戲歷程，並產出機台報表與玩家報表。
//
// 每位玩家最多轉 rounds 次，餘額不足押注即破產離場，達 3 倍初始餘額即贏滿離場。
func (s *Simulator) SimPlayers(mp int, players int, initBalance int, mode spec.Mode, bet int, rounds int, showpb bool) (*stats.StatReport, *stats.EstimatorPlayers, time.Duration, error) {
	defer s.reset()
	if players < 1 || initBalance < bet || mp < 1 {
		return nil, nil, 0, errs.NewWarn("invalid param")
	}
	if err := s.valid(mode, bet, rounds); err != nil {
		return nil, nil, 0, err
	}
	s.initBalance = initBalance

	if err := s.prepareMachines(mp); err != nil {
		return nil, nil, 0, err
	}

	// 準備玩家
	s.sBuf = make([]*stats.StatReport, players)
	for len(s.rBuf) < players {
		r, err := recorder.NewSpinRecorder(s.gs, mode, bet, s.initBalance)
		if err != nil {
			return nil, nil, 0, err
		}
		s.rBuf = append(s.rBuf, r)
	}
	// 作一個2048大小的緩衝channel 使player依序處理
	jobs := make(chan *recorder.SpinRecorder, 2048)

	wg := new(sync.WaitGroup)
	wg.Add(mp)

	bar := newBar(players, showpb)
	for w := 0; w < mp; w++ {
		go simPlayer(wg, s.mBuf[w], jobs, mode, bet, rounds, bar)
	}
	for _, j := range s.rBuf {
		jobs <- j
	}
	close(jobs) // 玩家送完處理完畢關閉通道 通知所有機台不會再有新資料
	wg.Wait()
	used := time.Since(bar.StartTime())
	bar.Finish()

	// 機台基準報表
	record, err := recorder.MergeSpinRecorder(s.gs, s.rBuf)
	if err != nil {
		return nil, nil, 0, err
	}
	st := record.Done()

	// 玩家分析報表
	for i, r := range s.rBuf {
		s.sBuf[i] = r.Done()
	}
	est := stats.EstimatorPlayerExp(s.sBuf)
	return st, est, used, nil
}

func simPlayer(wg *sync.WaitGroup, m *Machine, jobs chan *recorder.SpinRecorder, mode spec.Mode, bet int, rounds int, bar *pb.ProgressBar) {
	defer wg.Done()
	for j := range jobs {
		for range rounds {
			out, _ := m.SpinInternal(mode, bet)
			if j.RecordWithPlayer(out) {
				break
			}
		}
		bar.Increment()
	}
}

func (s *Simulator) valid(mode spec.Mode, bet int, rounds int) error {
	if s.gs.ModeSetting(mode) == nil {
		return errs.Warnf("unknown mode: %d", mode)
	}
	if bet < 1 {
		return errs.ErrInvalidBet
	}
	if rounds < 1 {
		return errs.NewWarn("round must > 0")
	}
	return nil
}

func (s *Simulator) prepareMachines(mp int) error {
	for len(s.mBuf) < mp {
		m, err := NewMachine(s.gs, s.seedmaker.next())
		if err != nil {
			return err
		}
		s.mBuf = append(s.mBuf, m)
	}
	return nil
}

func (s *Simulator) reset() {
	s.rBuf = s.rBuf[:0]
	s.sBuf = s.sBuf[:0]
	s.initBalance = 0
}

func newBar(total int, show bool) *pb.ProgressBar {
	bar := pb.StartNew(total)
	if !show {
		bar.SetWriter(io.Discard)
	}
	return bar
}

const mask63 = uint64(1<<63) - 1

type seedMaker struct {
	state atomic.Uint64 // always in [0, 2^63)
}

func newSeedMaker(seed int64) *seedMaker {
	s := &seedMaker{}
	s.state.Store(uint64(seed) & mask63)
	return s
}

// next 以全週期 LCG 推進 state，再用可逆 mix63 打散。
//
// 可能被多個 goroutine 同時呼叫（例如 hub 建立 session），state 以 CAS 推進以確保每次取得唯一值。
func (s *seedMaker) next() int64 {
	for {
		old := s.state.Load()
		next := (old*6364136223846793005 + 1442695040888963407) & mask63 // full-period LCG mod 2^63
		if s.state.CompareAndSwap(old, next) {
			return int64(mix63(next))
		}
	}
}

// mix63：只用「可逆」的 bit 操作 + 乘奇數（mod 2^63）
func mix63(x uint64) uint64 {
	x &= mask63
	x ^= x >> 30
	x = (x * 0xBF58476D1CE4E5B9) & mask63
	x ^= x >> 27
	x = (x * 0x94D049BB133111EB) & mask63
	x ^= x >> 31
	return x & mask63
}
