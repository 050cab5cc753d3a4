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


package svrcfg

import (
	"log/slog"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/zintix-labs/reelspin/errs"
	"github.com/zintix-labs/reelspin/server/logger"
	"github.com/zintix-labs/reelspin/spec"
)

// EnvPrefix 環境變數前綴，例如 RS_ADDR
const EnvPrefix = "RS"

// Env 是可由環境變數覆寫的啟動參數
type Env struct {
	Addr           string   `envconfig:"ADDR"            default:":5808"`
	LogMode        string   `envconfig:"LOG_MODE"        default:"dev"`
	AllowedOrigins []string `envconfig:"ALLOWED_ORIGINS" default:"*"`
	MaxSessions    int      `envconfig:"MAX_SESSIONS"    default:"1024"`
	TickMs         int      `envconfig:"TICK_MS"         default:"1"`
	Config         string   `envconfig:"CONFIG"`
}

// FromEnv 讀取 RS_* 環境變數
func FromEnv() (*Env, error) {
	env := new(Env)
	if err := envconfig.Process(EnvPrefix, env); err != nil {
		return nil, errs.Wrap(err, "load env config failed")
	}
	return env, nil
}

// SvrCfg 是組裝 server 所需的全部依賴
type SvrCfg struct {
	Log            *slog.Logger
	Setting        *spec.GameSetting
	Addr           string
	AllowedOrigins []string
	MaxSessions    int
	Tick           time.Duration
}

// New 以 Env 與遊戲設定建立 SvrCfg
func New(env *Env, gs *spec.GameSetting, log *slog.Logger) *SvrCfg {
	sc := &SvrCfg{Log: log, Setting: gs}
	if env != nil {
		sc.Addr = env.Addr
		sc.AllowedOrigins = env.AllowedOrigins
		sc.MaxSessions = env.MaxSessions
		sc.Tick = time.Duration(env.TickMs) * time.Millisecond
	}
	return sc
}

func (sc *SvrCfg) Vaild() error {
	if sc.Log == nil {
		sc.Log = logger.NewDefaultLogger(logger.ModeSilence)
	}
	if sc.Setting == nil {
		return errs.NewFatal("game setting is required")
	}
	if sc.Addr == "" {
		sc.Addr = ":5808"
	}
	if len(sc.AllowedOrigins) == 0 {
		sc.AllowedOrigins = []string{"*"}
	}

	// 1 <= MaxSessions <= 65536，for 資源管理
	sc.MaxSessions = max(1, sc.MaxSessions)
	sc.MaxSessions = min(65536, sc.MaxSessions)
	if sc.Tick < time.Millisecond {
		sc.Tick = time.Millisecond
	}
	return nil
}
