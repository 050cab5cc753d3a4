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

package stats

import (
	"fmt"
	"io"
	"os"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"
)

// ============================================================
// ** 結構宣告 **
// ============================================================

// 用戶體驗評估
type EstimatorPlayers struct {
	RtpStat     RtpStat
	EventStat   EventStat
	SessionStat SessionStat
	BalanceStat BalanceStat
}

// Rtp敘事
type RtpStat struct {
	ExpMedian PointStat // 描述體驗的中位數
	ExpPerc   ExpPerc   // 描述玩家的分布(對應RTP)
	RtpPerc   RtpPerc   // 描述Rtp的分布(對應多少比例的玩家)
}

// 用玩家體驗分位數視角看: 最差10％玩家的RTP 最差33%玩家的RTP ...
type ExpPerc struct {
	ExpP10 PointStat
	ExpP33 PointStat
	ExpP67 PointStat
	ExpP90 PointStat
}

// 用Rtp分位數視角看玩家: 有多少玩家體驗到了30%RTP 有多少玩家體驗到了50%RTP ...
type RtpPerc struct {
	Rtp30  PointStat
	Rtp50  PointStat
	Rtp70  PointStat
	Rtp100 PointStat
}

// PointStat 點估計 回傳 估計值 以及信賴區間
type PointStat struct {
	Hat float64
	CI  CI
}

// 事件敘事
type EventStat struct {
	Bucket BucketEvent
}

// 事件點估計
type EventCount struct {
	Zero PointStat
	One  PointStat
	Two  PointStat
	More PointStat
}

// 對應分桶的統計
type BucketEvent struct {
	BucketLable []string     // 分桶標籤
	BucketCount []EventCount // 分桶事件點估計
}

// 對應結果敘事
type SessionStat struct {
	Bust    PointStat // 破產
	Cashout PointStat // 贏滿離場
	Alive   PointStat // 活到最後
	Spins   PointStat // 離場前的轉數中位數
}

// 餘額敘事：離場時與過程中的最高餘額（以起始餘額的倍數表示）
type BalanceStat struct {
	FinalMedian PointStat
	PeakMedian  PointStat
}

// ============================================================
// ** 對外 : 用戶體驗評估 **
// ============================================================

// EstimatorPlayerExp 用戶體驗評估
//
// 1. RTP 敘事 : 描述用戶大致的RTP分布
//
// 2. Event 敘事 : 描述用戶在各贏倍區間中過幾次所對應的機率
//
// 3. Session 敘事 : 描述用戶最終贏到滿足離場、破產離場、打累了離場的機率
//
// 4. 餘額敘事 : 離場餘額與最高餘額的中位數
func EstimatorPlayerExp(sts []*StatReport) *EstimatorPlayers {
	n := len(sts)
	out := &EstimatorPlayers{}
	if n == 0 {
		return out
	}

	// 1) RTP 敘事
	rtp := make([]float64, n)
	for i, s := range sts {
		rtp[i] = s.Rtp()
	}
	sort.Float64s(rtp)
	out.RtpStat = RtpStat{
		ExpMedian: quantileStat(rtp, 0.5),
		ExpPerc: ExpPerc{
			ExpP10: quantileStat(rtp, 0.10),
			ExpP33: quantileStat(rtp, 1.0/3.0),
			ExpP67: quantileStat(rtp, 2.0/3.0),
			ExpP90: quantileStat(rtp, 0.90),
		},
		RtpPerc: RtpPerc{
			Rtp30:  belowStat(rtp, 0.30),
			Rtp50:  belowStat(rtp, 0.50),
			Rtp70:  belowStat(rtp, 0.70),
			Rtp100: belowStat(rtp, 1.00),
		},
	}

	// 2) Event 敘事：每個贏分桶中過 0/1/2/3+ 次的玩家比例
	labels := Buckets.WinBucketStr()
	out.EventStat.Bucket = BucketEvent{BucketLable: labels, BucketCount: make([]EventCount, len(labels))}
	for bi := range labels {
		var hist [4]int
		for _, s := range sts {
			cnt := 0
			if s.Dist != nil && bi < len(s.Dist.WinCollect) {
				cnt = s.Dist.WinCollect[bi]
			}
			hist[min(cnt, 3)]++
		}
		out.EventStat.Bucket.BucketCount[bi] = EventCount{
			Zero: proportionStat(hist[0], n),
			One:  proportionStat(hist[1], n),
			Two:  proportionStat(hist[2], n),
			More: proportionStat(hist[3], n),
		}
	}

	// 3) Session 敘事 + 4) 餘額敘事，沒有玩家資料的報表不計
	var bustK, cashK, aliveK int
	spins := make([]float64, 0, n)
	final := make([]float64, 0, n)
	peak := make([]float64, 0, n)
	for _, s := range sts {
		p := s.Player
		if p == nil {
			continue
		}
		if p.Bust {
			bustK++
		}
		if p.Cashout {
			cashK++
		}
		if p.Alive {
			aliveK++
		}
		spins = append(spins, float64(p.Spins))
		if p.InitBalance > 0 {
			final = append(final, float64(p.Balance)/float64(p.InitBalance))
			peak = append(peak, float64(p.MaxBalance)/float64(p.InitBalance))
		}
	}
	sort.Float64s(spins)
	sort.Float64s(final)
	sort.Float64s(peak)
	out.SessionStat = SessionStat{
		Bust:    proportionStat(bustK, n),
		Cashout: proportionStat(cashK, n),
		Alive:   proportionStat(aliveK, n),
		Spins:   quantileStat(spins, 0.5),
	}
	out.BalanceStat = BalanceStat{
		FinalMedian: quantileStat(final, 0.5),
		PeakMedian:  quantileStat(peak, 0.5),
	}
	return out
}

// ============================================================
// ** 內部統計函數 **
// ============================================================

// quantileStat sorted 需已排序
func quantileStat(sorted []float64, q float64) PointStat {
	lo, hi := quantileCI(sorted, q, confidence)
	return PointStat{Hat: quantilePoint(sorted, q), CI: CI{Lo: lo, Hi: hi}}
}

func belowStat(data []float64, x0 float64) PointStat {
	hat, ci := percentileCIForValue(data, x0, confidence)
	return PointStat{Hat: hat, CI: ci}
}

func proportionStat(k, n int) PointStat {
	hat, ci := proportionCICP(k, n, confidence)
	return PointStat{Hat: hat, CI: ci}
}

// Clopper–Pearson exact CI for binomial proportion (k successes out of n)
func proportionCICP(k int, n int, confidence float64) (pHat float64, ci CI) {
	if n == 0 {
		return 0, CI{0, 1}
	}
	alpha := 1 - confidence
	pHat = float64(k) / float64(n)

	// Beta PPF 映射，處理邊界
	if k == 0 {
		ci.Lo = 0
	} else {
		b := distuv.Beta{Alpha: float64(k), Beta: float64(n - k + 1)}
		ci.Lo = b.Quantile(alpha / 2)
	}
	if k == n {
		ci.Hi = 1
	} else {
		b := distuv.Beta{Alpha: float64(k + 1), Beta: float64(n - k)}
		ci.Hi = b.Quantile(1 - alpha/2)
	}
	return
}

// 問題：給定樣本 data 與門檻 x0，估計 p = P(X ≤ x0) 的點估計與 CI 區間
// 回傳 (pHat, CI)
func percentileCIForValue(data []float64, x0 float64, confidence float64) (pHat float64, ci CI) {
	n := len(data)
	if n == 0 {
		return 0, CI{Lo: 0, Hi: 0}
	}
	// k = 數到 <= x0 的個數
	k := 0
	for _, v := range data {
		if v <= x0 {
			k++
		}
	}
	return proportionCICP(k, n, confidence)
}

// quantileCI 第 q 分位的上下界：把 order statistic 的秩視為二項，
// 以 Beta 反推 p 的範圍再轉回樣本索引。sorted 需已排序。
func quantileCI(sorted []float64, q, confidence float64) (float64, float64) {
	n := len(sorted)
	if n == 0 {
		return 0, 0
	}
	if n == 1 {
		return sorted[0], sorted[0]
	}
	alpha := 1 - confidence
	k := min(max(int(q*float64(n)), 1), n-1)

	pLo := distuv.Beta{Alpha: float64(k), Beta: float64(n - k + 1)}.Quantile(alpha / 2)
	pHi := distuv.Beta{Alpha: float64(k + 1), Beta: float64(n - k)}.Quantile(1 - alpha/2)

	li := min(max(int(pLo*float64(n)), 0), n-1)
	ui := min(max(int(pHi*float64(n))-1, 0), n-1)
	return sorted[li], sorted[ui]
}

// quantilePoint 最近秩法的分位點估計，sorted 需已排序
func quantilePoint(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	return sorted[min(max(int(q*float64(n)), 0), n-1)]
}

// ============================================================
// ** 輸出函數 **
// ============================================================

// WriteWith 以指定格式輸出
func (est *EstimatorPlayers) WriteWith(w io.Writer, rep EstimatorRender) error {
	return rep.Write(w, est)
}

// Out 以表格輸出到標準輸出
func (est *EstimatorPlayers) Out() {
	est.WriteText(os.Stdout)
}

// WriteText 以表格輸出玩家體驗評估
func (est *EstimatorPlayers) WriteText(w io.Writer) {
	rtpKeys := []string{
		"Median RTP",
		"P10 RTP",
		"P33 RTP",
		"P67 RTP",
		"P90 RTP",
		"≤30% RTP (players)",
		"≤50% RTP (players)",
		"≤70% RTP (players)",
		"≤100% RTP (players)",
	}
	rtpMsg := map[string]string{
		"Median RTP":          fmtHatCIpct01(est.RtpStat.ExpMedian.Hat, est.RtpStat.ExpMedian.CI),
		"P10 RTP":             fmtHatCIpct01(est.RtpStat.ExpPerc.ExpP10.Hat, est.RtpStat.ExpPerc.ExpP10.CI),
		"P33 RTP":             fmtHatCIpct01(est.RtpStat.ExpPerc.ExpP33.Hat, est.RtpStat.ExpPerc.ExpP33.CI),
		"P67 RTP":             fmtHatCIpct01(est.RtpStat.ExpPerc.ExpP67.Hat, est.RtpStat.ExpPerc.ExpP67.CI),
		"P90 RTP":             fmtHatCIpct01(est.RtpStat.ExpPerc.ExpP90.Hat, est.RtpStat.ExpPerc.ExpP90.CI),
		"≤30% RTP (players)":  fmtHatCIpct01(est.RtpStat.RtpPerc.Rtp30.Hat, est.RtpStat.RtpPerc.Rtp30.CI),
		"≤50% RTP (players)":  fmtHatCIpct01(est.RtpStat.RtpPerc.Rtp50.Hat, est.RtpStat.RtpPerc.Rtp50.CI),
		"≤70% RTP (players)":  fmtHatCIpct01(est.RtpStat.RtpPerc.Rtp70.Hat, est.RtpStat.RtpPerc.Rtp70.CI),
		"≤100% RTP (players)": fmtHatCIpct01(est.RtpStat.RtpPerc.Rtp100.Hat, est.RtpStat.RtpPerc.Rtp100.CI),
	}
	fmt.Fprintln(w, fmtTable("RTP (Player Experience)", rtpKeys, rtpMsg))

	bucketMsg := make(map[string]string, len(est.EventStat.Bucket.BucketLable))
	for i, label := range est.EventStat.Bucket.BucketLable {
		bucketMsg[label] = fmtEventCount(est.EventStat.Bucket.BucketCount[i])
	}
	fmt.Fprintln(w, fmtTable("Events: Buckets (per player hits in bucket)", est.EventStat.Bucket.BucketLable, bucketMsg))

	sessionKeys := []string{"Bust", "Cashout", "Alive", "Median Spins"}
	sessionMsg := map[string]string{
		"Bust":         fmtHatCIpct01(est.SessionStat.Bust.Hat, est.SessionStat.Bust.CI),
		"Cashout":      fmtHatCIpct01(est.SessionStat.Cashout.Hat, est.SessionStat.Cashout.CI),
		"Alive":        fmtHatCIpct01(est.SessionStat.Alive.Hat, est.SessionStat.Alive.CI),
		"Median Spins": fmt.Sprintf("%.0f [%.0f, %.0f]", est.SessionStat.Spins.Hat, est.SessionStat.Spins.CI.Lo, est.SessionStat.Spins.CI.Hi),
	}
	fmt.Fprintln(w, fmtTable("Session Outcome", sessionKeys, sessionMsg))

	balanceKeys := []string{"Median Final Balance", "Median Peak Balance"}
	balanceMsg := map[string]string{
		"Median Final Balance": fmtMultCI(est.BalanceStat.FinalMedian),
		"Median Peak Balance":  fmtMultCI(est.BalanceStat.PeakMedian),
	}
	fmt.Fprintln(w, fmtTable("Balance (x initial)", balanceKeys, balanceMsg))
}

func fmtMultCI(p PointStat) string {
	return fmt.Sprintf("%.2fx [%.2fx, %.2fx]", p.Hat, p.CI.Lo, p.CI.Hi)
}

func fmtPct01(x float64) string {
	return fmt.Sprintf("%.2f%%", x*100)
}

func fmtHatCIpct01(hat float64, ci CI) string {
	return fmt.Sprintf("%s [%s, %s]", fmtPct01(hat), fmtPct01(ci.Lo), fmtPct01(ci.Hi))
}

func fmtEventCount(ec EventCount) string {
	return fmt.Sprintf("0x: %s | 1x: %s | 2x: %s | 3+x: %s",
		fmtHatCIpct01(ec.Zero.Hat, ec.Zero.CI),
		fmtHatCIpct01(ec.One.Hat, ec.One.CI),
		fmtHatCIpct01(ec.Two.Hat, ec.Two.CI),
		fmtHatCIpct01(ec.More.Hat, ec.More.CI),
	)
}
