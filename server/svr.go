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

package server

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/zintix-labs/reelspin"
	"github.com/zintix-labs/reelspin/errs"
	"github.com/zintix-labs/reelspin/server/api"
	"github.com/zintix-labs/reelspin/server/app"
	"github.com/zintix-labs/reelspin/server/netsvr"
	"github.com/zintix-labs/reelspin/server/svrcfg"
)

// Run 是 server 套件的「組裝器（assembler）」與「啟動入口（runtime entry）」。
//
// 它負責：
//  1. 驗證輸入的 SvrCfg（包含必要依賴，例如 logger 與遊戲設定）。
//  2. 建立 HTTP server（netsvr）與 session Hub。
//  3. 註冊路由與 middleware（api.RegisterRoutes）。
//  4. 啟動 app.Run() 並回傳停止原因。
//
// Run 不綁定任何「檔案路徑」或「環境變數」策略；所有依賴都應透過 SvrCfg 明確注入。
func Run(sCfg *svrcfg.SvrCfg) error {
	if err := sCfg.Vaild(); err != nil {
		// 防止外層傳入的logger不可用
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	return RunWithSvr(sCfg, netsvr.NewChiServer(sCfg.Addr))
}

// RunWithSvr 與 Run() 相同，差別在於允許呼叫端注入自訂的 NetSvr
// （例如自訂 listener、TLS 或 timeout）。
//
//   - svr 必須非 nil。
//   - 關閉順序：先停 HTTP 入口，再關閉所有 session 與共用時間輪。
func RunWithSvr(sCfg *svrcfg.SvrCfg, svr netsvr.NetSvr) error {
	if err := sCfg.Vaild(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	if svr == nil {
		err := errs.NewFatal("svr is required")
		sCfg.Log.Error(err.Error())
		return err
	}

	hub, err := reelspin.NewHub(sCfg.Setting, sCfg.Tick, sCfg.MaxSessions, sCfg.Log)
	if err != nil {
		sCfg.Log.Error("build hub failed", slog.Any("err", err))
		return err
	}

	// 註冊 Api
	if err := api.RegisterRoutes(svr, sCfg, hub); err != nil {
		sCfg.Log.Error("register routes failed", slog.Any("err", err))
		return err
	}

	// 運行
	a := app.NewWith(svr, hub).WithLogger(sCfg.Log)
	sCfg.Log.Info("[reelspin] listening",
		slog.String("addr", sCfg.Addr),
		slog.String("game", sCfg.Setting.GameName),
		slog.Int("max_sessions", sCfg.MaxSessions),
	)
	if err := a.Run(); err != nil {
		sCfg.Log.Error("app stopped:", slog.Any("err", err))
		return err
	}
	return nil
}
