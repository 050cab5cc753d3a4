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

package api

import (
	"encoding/json"
	"net/http"

	"github.com/zintix-labs/reelspin"
	v1 "github.com/zintix-labs/reelspin/server/api/v1"
	"github.com/zintix-labs/reelspin/server/netsvr"
	"github.com/zintix-labs/reelspin/server/netsvr/middleware"
	"github.com/zintix-labs/reelspin/server/svrcfg"
)

// RegisterRoutes 註冊
func RegisterRoutes(svr netsvr.NetSvr, sCfg *svrcfg.SvrCfg, hub *reelspin.Hub) error {
	registerMiddleware(svr, sCfg)        // 1. 註冊 middleware
	registerHealth(svr, hub)             // 2. 健康檢查
	return registerV1API(svr, sCfg, hub) // 3. 註冊 v1 api
}

// 註冊 middleware
func registerMiddleware(svr netsvr.NetSvr, sCfg *svrcfg.SvrCfg) {
	svr.Use(middleware.RequestID)
	svr.Use(middleware.AccessLog(sCfg.Log))
	svr.Use(middleware.Recover(sCfg.Log))
	svr.Use(middleware.CORS(sCfg.AllowedOrigins))
	svr.Use(middleware.Compression)
}

// 註冊健康檢查：hub 關閉後回 503
func registerHealth(svr netsvr.NetSvr, hub *reelspin.Hub) {
	svr.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		status := http.StatusOK
		if hub.Closed() {
			status = http.StatusServiceUnavailable
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(hub.Metrics())
	})
}

// 註冊 v1 api
func registerV1API(svr netsvr.NetSvr, sCfg *svrcfg.SvrCfg, hub *reelspin.Hub) error {
	sh, err := v1.NewSessionHandler(hub, sCfg.Log)
	if err != nil {
		return err
	}
	wh, err := v1.NewWSHandler(hub, sCfg.AllowedOrigins, sCfg.Log)
	if err != nil {
		return err
	}
	sim, err := v1.NewSimHandler(sCfg.Setting)
	if err != nil {
		return err
	}
	svr.Group("/v1", func(vOne netsvr.NetRouter) {
		vOne.Post("/sessions", sh.Create)
		vOne.Get("/sessions/{id}", sh.State)
		vOne.Delete("/sessions/{id}", sh.Delete)
		vOne.Post("/sessions/{id}/spin", sh.Spin)
		vOne.Handle("/sessions/{id}/bet", sh.Bet, http.MethodGet, http.MethodPost)
		vOne.Post("/sessions/{id}/bet/inc", sh.IncBet)
		vOne.Post("/sessions/{id}/bet/dec", sh.DecBet)
		vOne.Handle("/sessions/{id}/mode", sh.Mode, http.MethodGet, http.MethodPost)
		vOne.Post("/sessions/{id}/reset", sh.Reset)
		vOne.Get("/sessions/{id}/ws", wh.Serve)

		vOne.Handle("/sim", sim.Sim, http.MethodGet, http.MethodPost)
		vOne.Post("/simbycfg", sim.SimByCfg)
	})
	return nil
}
