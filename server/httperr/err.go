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

package httperr

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/zintix-labs/reelspin/errs"
)

// StatusCode 將錯誤映射成 HTTP status code。
//
// 規則（邊界層最小映射、可預期）：
//   - ctx timeout/cancel        → 504/408（請求生命週期問題）
//   - 旋轉中的操作衝突、旋轉被中止 → 409
//   - 找不到 session             → 404
//   - session 已關閉             → 410
//   - 其他 errs.Warn             → 400（請求/參數問題）
//   - errs.Fatal                 → 500（系統/不可恢復問題）
//
// 本函數屬於 HTTP 邊界層，核心錯誤包不依賴 net/http。
func StatusCode(err error) int {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusRequestTimeout
	}

	switch errs.CodeOf(err) {
	case errs.CodeSpinInProgress, errs.CodeModeSwitchDuringSpin, errs.CodeSpinCanceled:
		return http.StatusConflict
	case errs.CodeNotFound:
		return http.StatusNotFound
	case errs.CodeSessionClosed:
		return http.StatusGone
	}

	var e *errs.E
	if errors.As(err, &e) && e.ErrLv == errs.Warn {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// Body 是錯誤回應的 JSON 格式
type Body struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// Errs 決定 status code 並寫回 JSON 錯誤
func Errs(w http.ResponseWriter, err error) {
	if err == nil {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(StatusCode(err))
	_ = json.NewEncoder(w).Encode(Body{Error: err.Error(), Code: errs.CodeOf(err).String()})
}

// Log 依 status 決定 log 等級；4xx 的請求錯誤不記錄
func Log(log *slog.Logger, msg string, err error) {
	if err == nil || log == nil {
		return
	}
	status := StatusCode(err)
	if (status == 408) || (status == 409) || (status == 429) {
		log.Warn(msg, slog.Any("err", err))
	} else if (status >= 500) && (status < 600) {
		log.Error(msg, slog.Any("err", err))
	}
}
