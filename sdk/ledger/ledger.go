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

package ledger

import (
	"fmt"

	"github.com/zintix-labs/reelspin/errs"
)

// Ledger 單一 session 的點數帳本。
//
// 只是一個可變計數器：扣款前必須先通過驗證，所以不需要回滾。
// 未加鎖，由持有者（Session）負責序列化存取。
type Ledger struct {
	balance int
	initial int
}

// New 以初始點數建立帳本
func New(initial int) *Ledger {
	return &Ledger{balance: initial, initial: initial}
}

// Balance 目前餘額
func (l *Ledger) Balance() int {
	return l.balance
}

// Validate 檢查押注是否可以扣款
func (l *Ledger) Validate(bet int) error {
	if bet < 1 {
		return errs.ErrInvalidBet.WithExtra(fmt.Sprintf("bet=%d", bet))
	}
	if bet > l.balance {
		return errs.ErrInsufficientBalance.WithExtra(fmt.Sprintf("bet=%d balance=%d", bet, l.balance))
	}
	return nil
}

// CanCover 回傳餘額是否足以支付押注
func (l *Ledger) CanCover(bet int) bool {
	return l.Validate(bet) == nil
}

// Debit 扣款，條件不符時回傳錯誤且不變動餘額
func (l *Ledger) Debit(amount int) error {
	if err := l.Validate(amount); err != nil {
		return err
	}
	l.balance -= amount
	return nil
}

// Credit 派彩入帳，負值視為程式錯誤
func (l *Ledger) Credit(amount int) {
	if amount < 0 {
		panic("ledger: negative credit")
	}
	l.balance += amount
}

// Reset 回到初始餘額
func (l *Ledger) Reset() {
	l.balance = l.initial
}
