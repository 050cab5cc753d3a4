package spec

import (
	"fmt"

	"github.com/zintix-labs/reelspin/errs"
)

// GameSetting 包含啟動一個 session 所需的所有高階設定。
type GameSetting struct {
	GameName       string        `yaml:"game_name"        json:"game_name"`
	ScreenSetting  ScreenSetting `yaml:"screen_setting"   json:"screen_setting"`
	DefaultSymbol  Symbol        `yaml:"default_symbol"   json:"default_symbol"`
	InitialBalance int           `yaml:"initial_balance"  json:"initial_balance"`
	InitialBet     int           `yaml:"initial_bet"      json:"initial_bet"`
	LineMultiplier int           `yaml:"line_multiplier"  json:"line_multiplier"`
	Timing         TimingSetting `yaml:"timing"           json:"timing"`
	ModeSettings   []ModeSetting `yaml:"modes"            json:"modes"`

	modes [len(modeNames)]*ModeSetting
}

// ModeSetting 回傳指定模式的設定，init 之後保證兩種模式都存在。
func (gs *GameSetting) ModeSetting(m Mode) *ModeSetting {
	if !m.Valid() {
		return nil
	}
	return gs.modes[m]
}

// init
func (gs *GameSetting) init() error {
	if err := gs.ScreenSetting.Init(); err != nil {
		return err
	}
	if err := gs.Timing.Init(); err != nil {
		return err
	}
	for i := range gs.ModeSettings {
		ms := &gs.ModeSettings[i]
		if err := ms.init(); err != nil {
			return err
		}
		if gs.modes[ms.Mode] != nil {
			return errs.NewFatal(fmt.Sprintf("game_name: %s err:duplicated mode %s", gs.GameName, ms.Mode))
		}
		gs.modes[ms.Mode] = ms
	}
	return gs.valid()
}

// valid 執行最基本的設定檔檢查，如需更多驗證可在此擴充。
func (gs *GameSetting) valid() error {
	if len(gs.ModeSettings) == 0 {
		return errs.NewFatal("empty modes")
	}
	for i, ms := range gs.modes {
		if ms == nil {
			return errs.NewFatal(fmt.Sprintf("game_name: %s err:missing mode %s", gs.GameName, Mode(i)))
		}
	}
	if gs.DefaultSymbol == "" {
		return errs.NewFatal(fmt.Sprintf("game_name: %s err:empty default_symbol", gs.GameName))
	}
	if gs.InitialBalance < 0 {
		return errs.NewFatal(fmt.Sprintf("game_name: %s err:negative initial_balance", gs.GameName))
	}
	if gs.InitialBet < 1 {
		return errs.NewFatal(fmt.Sprintf("game_name: %s err:initial_bet must be at least 1", gs.GameName))
	}
	if gs.LineMultiplier < 1 {
		return errs.NewFatal(fmt.Sprintf("game_name: %s err:line_multiplier must be at least 1", gs.GameName))
	}
	return nil
}
