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
	"errors"
	"testing"

	"github.com/zintix-labs/reelspin/errs"
)

func TestDebitCredit(t *testing.T) {
	l := New(50)
	if err := l.Debit(1); err != nil {
		t.Fatalf("debit failed: %v", err)
	}
	l.Credit(30)
	if l.Balance() != 79 {
		t.Fatalf("expected 79, got %d", l.Balance())
	}
	l.Reset()
	if l.Balance() != 50 {
		t.Fatalf("reset must restore initial balance")
	}
}

func TestDebitRejects(t *testing.T) {
	l := New(5)
	if err := l.Debit(10); !errors.Is(err, errs.ErrInsufficientBalance) {
		t.Fatalf("expected insufficient balance, got %v", err)
	}
	if err := l.Debit(0); !errors.Is(err, errs.ErrInvalidBet) {
		t.Fatalf("expected invalid bet, got %v", err)
	}
	if err := l.Debit(-3); !errors.Is(err, errs.ErrInvalidBet) {
		t.Fatalf("expected invalid bet, got %v", err)
	}
	if l.Balance() != 5 {
		t.Fatalf("rejected debit must not change balance")
	}
	if !l.CanCover(5) || l.CanCover(6) {
		t.Fatalf("CanCover mismatch")
	}
}

func TestNegativeCreditPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	New(1).Credit(-1)
}
