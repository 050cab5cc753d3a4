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

package buf

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/zintix-labs/reelspin/errs"
)

// 防止 body 過大（1MiB）
const maxBody = 1 << 20

// BetRequest 設定押注的請求
type BetRequest struct {
	Bet int `json:"bet"` // 押注額（原樣保存，spin 時才驗證）
}

// ModeRequest 切換模式的請求
type ModeRequest struct {
	Mode string `json:"mode"` // standard / winning
}

// SessionRequest 建立 session 的請求，欄位皆可省略
type SessionRequest struct {
	Seed *int64 `json:"seed,omitempty"` // 指定 seed 以重現盤面
	Mode string `json:"mode,omitempty"` // 初始模式
}

// DecodeBetRequest 會把 HTTP 請求解碼成 BetRequest。
//
// 支援：
//   - GET：從 query string 讀取 bet。
//   - POST：從 JSON body 反序列化。
//
// 這裡只負責解碼與型別轉換，不做押注合法性校驗。
func DecodeBetRequest(r *http.Request) (*BetRequest, error) {
	if r == nil {
		return nil, errs.NewWarn("nil request")
	}
	req := new(BetRequest)
	switch r.Method {
	case http.MethodGet:
		s := r.URL.Query().Get("bet")
		if s == "" {
			return nil, errs.NewWarn("missing bet")
		}
		v, err := strconv.Atoi(s)
		if err != nil {
			return nil, errs.NewWarn(fmt.Sprintf("invalid bet: %v", err))
		}
		req.Bet = v
		return req, nil
	case http.MethodPost:
		if err := decodeJSON(r, req); err != nil {
			return nil, err
		}
		return req, nil
	default:
		return nil, errs.NewWarn("method not allowed")
	}
}

// DecodeModeRequest 會把 HTTP 請求解碼成 ModeRequest（GET query 或 POST JSON）。
func DecodeModeRequest(r *http.Request) (*ModeRequest, error) {
	if r == nil {
		return nil, errs.NewWarn("nil request")
	}
	req := new(ModeRequest)
	switch r.Method {
	case http.MethodGet:
		req.Mode = r.URL.Query().Get("mode")
	case http.MethodPost:
		if err := decodeJSON(r, req); err != nil {
			return nil, err
		}
	default:
		return nil, errs.NewWarn("method not allowed")
	}
	if req.Mode == "" {
		return nil, errs.NewWarn("missing mode")
	}
	return req, nil
}

// DecodeSessionRequest 解碼建立 session 的請求；空 body 視為全部預設。
func DecodeSessionRequest(r *http.Request) (*SessionRequest, error) {
	if r == nil {
		return nil, errs.NewWarn("nil request")
	}
	req := new(SessionRequest)
	if r.Body == nil || r.ContentLength == 0 {
		return req, nil
	}
	if err := decodeJSON(r, req); err != nil {
		return nil, err
	}
	return req, nil
}

// SimRequest 模擬請求。Players > 0 時改跑玩家模擬，InitBalance 為每位玩家的起始餘額。
type SimRequest struct {
	Mode        string `json:"mode"`
	Bet         int    `json:"bet"`
	Rounds      int    `json:"rounds"`
	Workers     int    `json:"workers,omitempty"`
	Players     int    `json:"players,omitempty"`
	InitBalance int    `json:"init_balance,omitempty"`
	Seed        *int64 `json:"seed,omitempty"`
}

// SimByCfgRequest 以呼叫端自帶的 JSON 遊戲設定模擬
type SimByCfgRequest struct {
	SimRequest
	GameSetting json.RawMessage `json:"cfg"`
}

// DecodeSimRequest 解碼模擬請求（GET query 或 POST JSON），不做範圍檢查。
func DecodeSimRequest(r *http.Request) (*SimRequest, error) {
	if r == nil {
		return nil, errs.NewWarn("nil request")
	}
	req := &SimRequest{Mode: "standard", Bet: 1}
	switch r.Method {
	case http.MethodGet:
		q := r.URL.Query()
		if s := q.Get("mode"); s != "" {
			req.Mode = s
		}
		ints := []struct {
			key string
			dst *int
		}{
			{"bet", &req.Bet},
			{"rounds", &req.Rounds},
			{"workers", &req.Workers},
			{"players", &req.Players},
			{"init_balance", &req.InitBalance},
		}
		for _, it := range ints {
			s := q.Get(it.key)
			if s == "" {
				continue
			}
			v, err := strconv.Atoi(s)
			if err != nil {
				return nil, errs.NewWarn(fmt.Sprintf("%s must be integer", it.key))
			}
			*it.dst = v
		}
		if s := q.Get("seed"); s != "" {
			v, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				return nil, errs.NewWarn("seed must be int64")
			}
			req.Seed = &v
		}
	case http.MethodPost:
		if err := decodeJSON(r, req); err != nil {
			return nil, err
		}
	default:
		return nil, errs.NewWarn("method not allowed")
	}
	return req, nil
}

// DecodeSimByCfgRequest 只接受 POST JSON
func DecodeSimByCfgRequest(r *http.Request) (*SimByCfgRequest, error) {
	if r == nil {
		return nil, errs.NewWarn("nil request")
	}
	if r.Method != http.MethodPost {
		return nil, errs.NewWarn("method not allowed")
	}
	req := &SimByCfgRequest{SimRequest: SimRequest{Mode: "standard", Bet: 1}}
	if err := decodeJSON(r, req); err != nil {
		return nil, err
	}
	if len(req.GameSetting) == 0 {
		return nil, errs.NewWarn("missing cfg")
	}
	return req, nil
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errs.NewWarn(fmt.Sprintf("invalid json: %v", err))
	}
	return nil
}
