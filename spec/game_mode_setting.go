package spec

import (
	"strings"

	"github.com/zintix-labs/reelspin/errs"
)

// Mode 遊戲模式：決定抽樣名單、派彩表與線表的組合
type Mode uint8

const (
	Standard Mode = iota
	Winning
)

// ModeStr 是設定檔 / API 中使用的模式字串
type ModeStr string

const (
	ModeStandard ModeStr = "standard"
	ModeWinning  ModeStr = "winning"
)

var modeMap = map[ModeStr]Mode{
	ModeStandard: Standard,
	ModeWinning:  Winning,
}

var modeNames = [...]ModeStr{
	Standard: ModeStandard,
	Winning:  ModeWinning,
}

func (m Mode) String() string {
	if int(m) < len(modeNames) {
		return string(modeNames[m])
	}
	return "unknown"
}

// Valid 回傳模式是否為已知值
func (m Mode) Valid() bool {
	return int(m) < len(modeNames)
}

// MarshalText 讓 Mode 以字串形式輸出（JSON / YAML）
func (m Mode) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, errs.Warnf("unknown mode: %d", m)
	}
	return []byte(m.String()), nil
}

// UnmarshalText 解析模式字串
func (m *Mode) UnmarshalText(b []byte) error {
	v, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// ParseMode 將字串轉為 Mode（大小寫不敏感）
func ParseMode(s string) (Mode, error) {
	m, ok := modeMap[ModeStr(strings.ToLower(strings.TrimSpace(s)))]
	if !ok {
		return Standard, errs.Warnf("unknown mode: %q", s)
	}
	return m, nil
}

// ModeSetting 將單一模式所需的圖標與線表設定統整在一起。
//
// 一個模式的三張表（名單、派彩表、線表）必須一起切換，
// 所以它們被綁在同一個值裡，由呼叫端一次取用。
type ModeSetting struct {
	ModeStr       ModeStr `yaml:"mode"  json:"mode"`
	Mode          Mode    `yaml:"-"     json:"-"`
	SymbolSetting `yaml:",inline"`
	HitSetting    `yaml:",inline"`
}

func (ms *ModeSetting) init() error {
	m, err := ParseMode(string(ms.ModeStr))
	if err != nil {
		return errs.Wrap(err, "invalid mode setting")
	}
	ms.Mode = m
	if err := ms.SymbolSetting.Init(); err != nil {
		return errs.WrapWithExtra(err, "invalid symbol setting", "mode="+m.String())
	}
	if err := ms.HitSetting.Init(); err != nil {
		return errs.WrapWithExtra(err, "invalid hit setting", "mode="+m.String())
	}
	return nil
}
