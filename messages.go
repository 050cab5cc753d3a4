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

package reelspin

import (
	"errors"
	"fmt"

	"github.com/zintix-labs/reelspin/errs"
	"github.com/zintix-labs/reelspin/spec"
)

// 給呈現層的狀態訊息
const (
	MsgGoodLuck            = "Good luck!"
	MsgSpinning            = "Spinning..."
	MsgNoWin               = "No win — try again!"
	MsgReset               = "Game reset. Good luck!"
	MsgWinningMode         = "Winning mode activated! Try your luck!"
	MsgStandardMode        = "Standard mode activated."
	MsgInvalidBet          = "Bet must be at least 1"
	MsgInsufficientBalance = "Not enough balance"
)

// WinMessage 中獎訊息
func WinMessage(win int) string {
	return fmt.Sprintf("You win %d", win)
}

func modeMessage(m spec.Mode) string {
	if m == spec.Winning {
		return MsgWinningMode
	}
	return MsgStandardMode
}

// rejectMessage 回傳驗證錯誤對應的訊息，沒有對應時回傳空字串（不改訊息）
func rejectMessage(err error) string {
	switch {
	case errors.Is(err, errs.ErrInvalidBet):
		return MsgInvalidBet
	case errors.Is(err, errs.ErrInsufficientBalance):
		return MsgInsufficientBalance
	default:
		return ""
	}
}
