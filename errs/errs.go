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

package errs

import (
	"errors"
	"fmt"
)

// ErrLevel : Error 分級，使最上層理解問題嚴重程度
type ErrLevel uint8

const (
	None ErrLevel = iota
	Fatal
	Warn
	Log
)

var errLvMap = map[ErrLevel]string{
	None:  "",
	Fatal: "fatal",
	Warn:  "warn",
	Log:   "log",
}

func ErrLv(errlv ErrLevel) string {
	if str, ok := errLvMap[errlv]; ok {
		return str
	}
	return ""
}

// Code 標記可預期的業務錯誤種類，讓呼叫端不必比對字串。
// CodeNone 代表一般錯誤（沒有對應的業務語意）。
type Code uint8

const (
	CodeNone Code = iota
	CodeInvalidBet
	CodeInsufficientBalance
	CodeSpinInProgress
	CodeModeSwitchDuringSpin
	CodeSessionClosed
	CodeNotFound
	CodeSpinCanceled
)

var codeMap = map[Code]string{
	CodeNone:                 "",
	CodeInvalidBet:           "invalid_bet",
	CodeInsufficientBalance:  "insufficient_balance",
	CodeSpinInProgress:       "spin_in_progress",
	CodeModeSwitchDuringSpin: "mode_switch_during_spin",
	CodeSessionClosed:        "session_closed",
	CodeNotFound:             "not_found",
	CodeSpinCanceled:         "spin_canceled",
}

func (c Code) String() string {
	if str, ok := codeMap[c]; ok {
		return str
	}
	return ""
}

// 本地驗證錯誤：全部屬於 Warn（可恢復，狀態維持不變）。
// 請用 errors.Is 比對，比對依據是 Code 而不是指標。
var (
	ErrInvalidBet           = NewCode(Warn, CodeInvalidBet, "bet must be at least 1")
	ErrInsufficientBalance  = NewCode(Warn, CodeInsufficientBalance, "not enough balance")
	ErrSpinInProgress       = NewCode(Warn, CodeSpinInProgress, "spin already in progress")
	ErrModeSwitchDuringSpin = NewCode(Warn, CodeModeSwitchDuringSpin, "mode switch is not allowed while spinning")
	ErrSessionClosed        = NewCode(Warn, CodeSessionClosed, "session closed")
	ErrNotFound             = NewCode(Warn, CodeNotFound, "not found")
	ErrSpinCanceled         = NewCode(Warn, CodeSpinCanceled, "spin canceled before it resolved")
)

// E 是統一的錯誤型別。
// Message 為主訊息；Extra 為呼叫端可追加的額外上下文；
// Cause 可串接下層錯誤（wrap）；ErrLv 表示嚴重度；Code 表示業務錯誤種類。
type E struct {
	Message string
	Extra   string
	Cause   error
	ErrLv   ErrLevel
	Code    Code
}

// Error 實作 error 介面並回傳格式化後的錯誤訊息。
func (e *E) Error() string {
	base := fmt.Sprintf("errlv=%s %s", ErrLv(e.ErrLv), e.Message)
	if e.Code != CodeNone {
		base = fmt.Sprintf("errlv=%s code=%s %s", ErrLv(e.ErrLv), e.Code, e.Message)
	}
	if e.Extra != "" {
		base += " | extra: " + e.Extra
	}
	if e.Cause != nil {
		base += fmt.Sprintf(" (cause: %v)", e.Cause)
	}
	return base
}

// Unwrap 讓 errors.Is / errors.As 能夠向下展開。
func (e *E) Unwrap() error { return e.Cause }

// Is 只要雙方都帶有相同的 Code 就視為同一種錯誤。
func (e *E) Is(target error) bool {
	t, ok := target.(*E)
	if !ok || t == nil {
		return false
	}
	if e.Code == CodeNone || t.Code == CodeNone {
		return e == t
	}
	return e.Code == t.Code
}

// New 依錯誤等級與訊息建立錯誤
func New(errLv ErrLevel, msg string) *E {
	return &E{Message: msg, ErrLv: errLv}
}

// NewCode 建立帶有業務錯誤種類的錯誤
func NewCode(errLv ErrLevel, code Code, msg string) *E {
	return &E{Message: msg, ErrLv: errLv, Code: code}
}

func NewFatal(msg string) *E {
	return &E{Message: msg, ErrLv: Fatal}
}

func NewWarn(msg string) *E {
	return &E{Message: msg, ErrLv: Warn}
}

func NewLog(msg string) *E {
	return &E{Message: msg, ErrLv: Log}
}

func Fatalf(format string, a ...any) *E {
	return NewFatal(fmt.Sprintf(format, a...))
}

func Warnf(format string, a ...any) *E {
	return NewWarn(fmt.Sprintf(format, a...))
}

func Logf(format string, a ...any) *E {
	return NewLog(fmt.Sprintf(format, a...))
}

// NewWithExtra 與 New 相同，但可附加額外上下文字串（不影響主訊息）。
func NewWithExtra(errLv ErrLevel, msg string, extra string) *E {
	e := New(errLv, msg)
	e.Extra = extra
	return e
}

// WithExtra 複製一份帶有上下文的錯誤，保留 Code 與等級。
// 用於對 sentinel 錯誤追加資訊而不改動 sentinel 本身。
func (e *E) WithExtra(extra string) *E {
	cp := *e
	cp.Extra = extra
	return &cp
}

// Wrap 使用給定的訊息包裝底層錯誤，建立一個 *E。
//
// ErrLevel 規則：
//   - 若 cause 已經是 *E，則沿用其 ErrLv 與 Code（保持原本嚴重度）。
//   - 若 cause 不是本包定義的 *E（多半是標準庫或三方依賴錯誤），則 ErrLv 一律視為 Fatal。
func Wrap(cause error, msg string) *E {
	var e *E
	errLv := Fatal
	code := CodeNone
	if errors.As(cause, &e) {
		errLv = e.ErrLv
		code = e.Code
	}
	r := NewCode(errLv, code, msg)
	r.Cause = cause
	return r
}

// WrapWithExtra 與 Wrap 相同，另外附加上下文。
func WrapWithExtra(cause error, msg string, extra string) *E {
	r := Wrap(cause, msg)
	r.Extra = extra
	return r
}

func AsErr(err error) (*E, bool) {
	var e *E
	if errors.As(err, &e) {
		return e, true
	}
	return e, false
}

// CodeOf 取出錯誤鏈上的第一個 Code，找不到回傳 CodeNone。
func CodeOf(err error) Code {
	if e, ok := AsErr(err); ok {
		return e.Code
	}
	return CodeNone
}
