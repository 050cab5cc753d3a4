package spec

import (
	"bytes"
	"encoding/json"
	"io/fs"

	"github.com/zintix-labs/reelspin/configs"
	"github.com/zintix-labs/reelspin/errs"
	"gopkg.in/yaml.v3"
)

// DefaultConfig 內建設定檔名稱
const DefaultConfig = "reels_5x3.yaml"

// GetGameSettingByYAML
// 會讀取 YAML 設定、初始化各子設定並執行基本檢查後回傳。
// 未知欄位視為錯誤，避免拼錯的 key 被默默忽略。
func GetGameSettingByYAML(data []byte) (*GameSetting, error) {
	gs := &GameSetting{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(gs); err != nil {
		return nil, errs.Wrap(err, "failed to unmarshall yaml")
	}

	// 設定檔初始化
	if err := gs.init(); err != nil {
		return nil, errs.Wrap(err, "game setting initialized err")
	}

	return gs, nil
}

// GetGameSettingByJSON
// 會讀取 Json 設定、初始化各子設定並執行基本檢查後回傳
func GetGameSettingByJSON(data []byte) (*GameSetting, error) {
	gs := &GameSetting{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(gs); err != nil {
		return nil, errs.Wrap(err, "can not unmarshall json byte")
	}

	// 設定檔初始化
	if err := gs.init(); err != nil {
		return nil, errs.Wrap(err, "game setting initialized err")
	}

	return gs, nil
}

// GetGameSettingByFS 從任意 fs.FS 讀取 YAML 設定
func GetGameSettingByFS(fsys fs.FS, name string) (*GameSetting, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, errs.Wrap(err, "read config failed: "+name)
	}
	return GetGameSettingByYAML(data)
}

// Default 讀取內建的 5x3 設定
func Default() (*GameSetting, error) {
	return GetGameSettingByFS(configs.FS, DefaultConfig)
}
