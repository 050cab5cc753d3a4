package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gonum.org/v1/gonum/stat/distuv"
)

var lang language.Tag = language.English

// 信賴水準
const confidence = 0.95

// 信賴區間
type CI struct {
	Lo float64 `json:"Lo"`
	Hi float64 `json:"Hi"`
}

// StatReport 遊戲統計報告
type StatReport struct {
	Summary *SummaryReport `json:"Summary"`
	Mult    *MultReport    `json:"Mult"`
	Dist    *DistReport    `json:"Dist"`
	Symbols []SymbolReport `json:"Symbols"`
	Lines   []LineReport   `json:"Lines"`
	Player  *PlayerReport  `json:"Player,omitzero"`
	isDone  bool
}

type SummaryReport struct {
	GameName       string  `json:"GameName"`
	Mode           string  `json:"Mode"`
	Bet            int     `json:"Bet"`
	LineMultiplier int     `json:"LineMultiplier"`
	TotalBet       int     `json:"TotalBet"`
	TotalWin       int     `json:"TotalWin"`
	RTP            float64 `json:"RTP"`
	RtpCI          CI      `json:"RtpCI"`
	Std            float64 `json:"Std"`
	Cv             float64 `json:"Cv"`
	NoWinRounds    int     `json:"NoWinRounds"`
	HitRate        float64 `json:"HitRate"`
	HitRateCI      CI      `json:"HitRateCI"`
	LinesHit       int     `json:"LinesHit"`
	MaxWin         int     `json:"MaxWin"`
	Rounds         int     `json:"Rounds"`
}

// MultReport 贏倍統計（以押注為單位）
//
// 紀錄時不紀錄，避免轉型成本。紀錄完成後由 recorder 整理填入
type MultReport struct {
	TotalWinMult      float64 `json:"TotalWinMult"`
	TotalWinMultSqSum float64 `json:"TotalWinMultSqSum"` // 平方和
	MaxWinMult        float64 `json:"MaxWinMult"`
}

// DistReport 分數區間落點統計
type DistReport struct {
	WinBucket  []string  `json:"WinBucket"`
	WinCollect []int     `json:"WinCollect"`
	WinDist    []float64 `json:"WinDist"`
}

// SymbolReport 各圖標的連線次數與贏分
type SymbolReport struct {
	Symbol string  `json:"Symbol"`
	Hits   int     `json:"Hits"`
	Win    int     `json:"Win"`
	Share  float64 `json:"Share"` // 佔總贏分比例
}

// LineReport 各線的中獎次數
type LineReport struct {
	LineID  int     `json:"LineID"`
	Line    [5]int  `json:"Line"`
	Hits    int     `json:"Hits"`
	HitRate float64 `json:"HitRate"`
}

// PlayerReport 玩家統計
//
// 需使用PlayerRecord 才會統計
type PlayerReport struct {
	InitBalance int  `json:"InitBalance"`
	Balance     int  `json:"Balance"`
	MaxBalance  int  `json:"MaxBalance"`
	MinBalance  int  `json:"MinBalance"`
	Spins       int  `json:"Spins"`
	Bust        bool `json:"Bust"`
	Cashout     bool `json:"Cashout"`
	Alive       bool `json:"Alive"`
}

// ============================================================
// ** 公開方法 **
// ============================================================

// Done 將累積計數轉換為最終統計結果並鎖定 isDone 標記。
//
// 所有遊戲統計過程因為性能原因只處理int的紀錄，所以統計完成後
//
// 請使用 Done 來通知統計已經完成，可以一次性計算統計結果
func (s *StatReport) Done() {
	if s.isDone {
		return
	}
	// Summary
	s.Summary.RTP = s.Rtp()
	s.Summary.RtpCI = s.Ci()
	s.Summary.Std = s.Std()
	s.Summary.Cv = s.Cv()
	s.Summary.HitRate, s.Summary.HitRateCI = s.HitRate()

	// Dist
	if s.Summary.Rounds > 0 {
		s.Dist.WinDist = make([]float64, len(s.Dist.WinCollect))
		for i, c := range s.Dist.WinCollect {
			s.Dist.WinDist[i] = float64(c) / float64(s.Summary.Rounds)
		}
	}

	// Share
	for i := range s.Symbols {
		if s.Summary.TotalWin > 0 {
			s.Symbols[i].Share = float64(s.Symbols[i].Win) / float64(s.Summary.TotalWin)
		}
	}
	for i := range s.Lines {
		if s.Summary.Rounds > 0 {
			s.Lines[i].HitRate = float64(s.Lines[i].Hits) / float64(s.Summary.Rounds)
		}
	}

	// Player
	if s.Player != nil {
		s.Player.Alive = !(s.Player.Bust || s.Player.Cashout)
	}

	s.isDone = true
}

// Rtp 回傳整體 RTP（總贏分 / 總押注）
func (s *StatReport) Rtp() float64 {
	if s.Summary.Rounds == 0 || s.Summary.TotalBet == 0 {
		return 0
	}
	return (float64(s.Summary.TotalWin) / float64(s.Summary.TotalBet))
}

// Std 回傳單局贏倍的樣本標準差
func (s *StatReport) Std() float64 {
	if s.Summary.Rounds < 2 || s.Summary.Bet == 0 {
		return 0
	}
	rounds := float64(s.Summary.Rounds)

	winMultPow := s.Mult.TotalWinMult * s.Mult.TotalWinMult
	variance := (s.Mult.TotalWinMultSqSum - winMultPow/rounds) / (rounds - 1)

	if variance < 0 {
		variance = 0
	}
	return math.Sqrt(variance)
}

// Cv 回傳單局贏倍的變異係數
func (s *StatReport) Cv() float64 {
	rtp := s.Rtp()
	if rtp <= 0 {
		return 0
	}
	return (s.Std() / rtp)
}

// Ci 回傳 95% RTP 常態近似信賴區間
func (s *StatReport) Ci() CI {
	rtp := s.Rtp()
	rtpSe := float64(0)
	if s.Summary.Rounds > 1 {
		rtpSe = s.Std() / math.Sqrt(float64(s.Summary.Rounds))
	}
	z := distuv.UnitNormal.Quantile(1 - (1-confidence)/2)
	return CI{
		Lo: max(rtp-z*rtpSe, 0.0),
		Hi: rtp + z*rtpSe,
	}
}

// HitRate 回傳中獎局比例與 Clopper-Pearson 信賴區間
func (s *StatReport) HitRate() (float64, CI) {
	n := s.Summary.Rounds
	return proportionCICP(n-s.Summary.NoWinRounds, n, confidence)
}

func (s *StatReport) WriteWith(w io.Writer, rep StatReportRender) error {
	s.Done()
	return rep.Write(w, s)
}

// StdOut 以表格輸出到標準輸出
func (s *StatReport) StdOut(ut time.Duration) {
	s.WriteText(os.Stdout, ut)
}

// WriteText 以表格輸出：基本統計、圖標貢獻、各線命中率
func (s *StatReport) WriteText(w io.Writer, ut time.Duration) {
	s.Done()
	p := message.NewPrinter(lang)
	p.Fprint(w, formatDuration(ut, s.Summary.Rounds))
	sk, sm := s.fmtBasic()
	p.Fprintln(w, fmtTable(s.Summary.GameName+" / "+s.Summary.Mode, sk, sm))
	yk, ym := s.fmtSymbols()
	p.Fprintln(w, fmtTable("Symbols", yk, ym))
	lk, lm := s.fmtLines()
	p.Fprintln(w, fmtTable("Lines", lk, lm))
}

// ============================================================
// ** 內部方法 **
// ============================================================

func formatDuration(d time.Duration, spins int) string {
	p := message.NewPrinter(lang)
	if d < 0 {
		d = -d
	}
	sec := d.Seconds()
	if sec <= 0 {
		sec = 1e-9
	}
	sps := int(float64(spins) / sec)
	if sec < 60.0 {
		return p.Sprintf("used: %.2f seconds\nsps : %d spins/sec\n", sec, sps)
	}
	sc := int(d.Seconds()) % 60
	m := int(d.Minutes()) % 60
	h := int(d.Hours())
	if h == 0 {
		return p.Sprintf("used: %dm %ds\nsps : %d spins/sec\n", m, sc, sps)
	}
	return p.Sprintf("used: %dh:%dm:%ds\nsps : %d spins/sec\n", h, m, sc, sps)
}

func (s *StatReport) fmtBasic() ([]string, map[string]string) {
	p := message.NewPrinter(lang)
	basic := map[string]string{
		"Game Name":     p.Sprintf("%s", s.Summary.GameName),
		"Mode":          p.Sprintf("%s", s.Summary.Mode),
		"Bet":           p.Sprintf("%d", s.Summary.Bet),
		"Total Rounds":  p.Sprintf("%d", s.Summary.Rounds),
		"Total RTP":     p.Sprintf("%.2f %%", 100.0*s.Summary.RTP),
		"RTP 95% CI":    p.Sprintf("[%.2f%%,%.2f%%]", 100.0*s.Summary.RtpCI.Lo, 100.0*s.Summary.RtpCI.Hi),
		"Total Bet":     p.Sprintf("%d", s.Summary.TotalBet),
		"Total Win":     p.Sprintf("%d", s.Summary.TotalWin),
		"Hit Rate":      p.Sprintf("%.2f %%", 100.0*s.Summary.HitRate),
		"Hit Rate CI":   p.Sprintf("[%.2f%%,%.2f%%]", 100.0*s.Summary.HitRateCI.Lo, 100.0*s.Summary.HitRateCI.Hi),
		"NoWin Rounds":  p.Sprintf("%d", s.Summary.NoWinRounds),
		"Lines Hit":     p.Sprintf("%d", s.Summary.LinesHit),
		"Max Win":       p.Sprintf("%d", s.Summary.MaxWin),
		"STD":           p.Sprintf("%.3f", s.Summary.Std),
		"CV":            p.Sprintf("%.3f", s.Summary.Cv),
		"Line Multiple": p.Sprintf("%d", s.Summary.LineMultiplier),
	}
	keys := []string{"Game Name", "Mode", "Bet", "Line Multiple", "Total Rounds", "Total RTP", "RTP 95% CI", "Total Bet", "Total Win", "Hit Rate", "Hit Rate CI", "NoWin Rounds", "Lines Hit", "Max Win", "STD", "CV"}
	return keys, basic
}

func (s *StatReport) fmtSymbols() ([]string, map[string]string) {
	p := message.NewPrinter(lang)
	keys := make([]string, 0, len(s.Symbols))
	msg := make(map[string]string, len(s.Symbols))
	for _, sr := range s.Symbols {
		keys = append(keys, sr.Symbol)
		msg[sr.Symbol] = p.Sprintf("hits %d  win %d  (%.2f%%)", sr.Hits, sr.Win, 100.0*sr.Share)
	}
	return keys, msg
}

func (s *StatReport) fmtLines() ([]string, map[string]string) {
	p := message.NewPrinter(lang)
	keys := make([]string, 0, len(s.Lines))
	msg := make(map[string]string, len(s.Lines))
	for _, lr := range s.Lines {
		k := fmt.Sprintf("#%d %v", lr.LineID, lr.Line)
		keys = append(keys, k)
		msg[k] = p.Sprintf("%d  (%.3f%%)", lr.Hits, 100.0*lr.HitRate)
	}
	return keys, msg
}

func fmtTable(title string, keys []string, msg map[string]string) string {
	maxKeyLen := runewidth.StringWidth(title)
	maxValLen := 0
	for k, m := range msg {
		if w := runewidth.StringWidth(k); w > maxKeyLen {
			maxKeyLen = w
		}
		if w := runewidth.StringWidth(m); w > maxValLen {
			maxValLen = w
		}
	}
	maxKeyLen += 2
	maxValLen += 2

	divider := "+" + strings.Repeat("-", maxKeyLen) + "+" + strings.Repeat("-", maxValLen) + "+\n"
	top := "+" + strings.Repeat("-", maxKeyLen+1+maxValLen) + "+\n"

	totalInner := maxKeyLen + maxValLen + 1
	titleW := runewidth.StringWidth(title)

	left := (totalInner - titleW) / 2
	right := totalInner - titleW - left

	var sb strings.Builder
	sb.WriteString(top)
	sb.WriteString("|" + blank(left) + title + blank(right) + "|\n")
	sb.WriteString(divider)
	for _, k := range keys {
		kw := runewidth.StringWidth(k)
		vw := runewidth.StringWidth(msg[k])
		sb.WriteString("| " + k + blank(maxKeyLen-2-kw) + " | " + msg[k] + blank(maxValLen-2-vw) + " |\n")
	}
	sb.WriteString(divider)
	return sb.String()
}

func blank(w int) string {
	if w < 1 {
		return ""
	}
	return strings.Repeat(" ", w)
}
