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

package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/zintix-labs/reelspin/server"
	"github.com/zintix-labs/reelspin/server/logger"
	"github.com/zintix-labs/reelspin/server/svrcfg"
	"github.com/zintix-labs/reelspin/spec"
)

// lab server 入口：環境變數（RS_*）提供預設值，flag 覆寫。
func main() {
	cfg, closeLog, err := loadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer closeLog()
	if err := server.Run(cfg); err != nil {
		closeLog()
		os.Exit(1)
	}
}

func loadConfig() (*svrcfg.SvrCfg, func(), error) {
	env, err := svrcfg.FromEnv()
	if err != nil {
		return nil, nil, err
	}
	origins := strings.Join(env.AllowedOrigins, ",")
	flag.StringVar(&env.Addr, "addr", env.Addr, "listen address")
	flag.StringVar(&env.LogMode, "log-mode", env.LogMode, "log mode: dev|prod|silence")
	flag.StringVar(&origins, "origins", origins, "comma separated allowed origins")
	flag.IntVar(&env.MaxSessions, "max-sessions", env.MaxSessions, "max live sessions")
	flag.IntVar(&env.TickMs, "tick-ms", env.TickMs, "timing wheel tick in ms")
	flag.StringVar(&env.Config, "config", env.Config, "yaml game setting path (default: built-in 5x3)")
	flag.Parse()
	env.AllowedOrigins = strings.Split(origins, ",")

	mode, err := logger.ParseLogMode(env.LogMode)
	if err != nil {
		return nil, nil, err
	}
	log, ah := logger.NewAsync(4096, mode)

	var gs *spec.GameSetting
	if env.Config == "" {
		gs, err = spec.Default()
	} else {
		gs, err = spec.GetGameSettingByFS(os.DirFS("."), env.Config)
	}
	if err != nil {
		ah.Close()
		return nil, nil, err
	}
	return svrcfg.New(env, gs, log), ah.Close, nil
}
