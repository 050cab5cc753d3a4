package spec

import (
	"fmt"

	"github.com/zintix-labs/reelspin/errs"
)

// Symbol 是圖標的不透明鍵值（設定檔中直接寫圖標字串，例如 "🍒"）。
// 比對只看字串是否相等，沒有 wild 之類的替代規則。
type Symbol string

// PayTable 每個圖標五連線的派彩倍數
type PayTable map[Symbol]int

// Pay 回傳圖標派彩倍數，不在表內回傳 0。
func (pt PayTable) Pay(s Symbol) int {
	return pt[s]
}

// Roster 是抽樣用的圖標名單。
//
// 同一個圖標可以重複出現：抽樣時對名單「等機率」挑選，
// 所以重複次數就是該圖標的實際權重（winning mode 的偏向正是靠這個）。
type Roster []Symbol

// Count 回傳圖標在名單中出現的次數
func (r Roster) Count(s Symbol) int {
	n := 0
	for _, v := range r {
		if v == s {
			n++
		}
	}
	return n
}

// Distinct 依首次出現順序回傳不重複的圖標
func (r Roster) Distinct() []Symbol {
	seen := make(map[Symbol]struct{}, len(r))
	out := make([]Symbol, 0, len(r))
	for _, v := range r {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// Contains 回傳圖標是否在名單內
func (r Roster) Contains(s Symbol) bool {
	return r.Count(s) > 0
}

// SymbolSetting 描述一個模式下的圖標名單與派彩表。
type SymbolSetting struct {
	Symbols  Roster   `yaml:"symbols"    json:"symbols"`
	PayTable PayTable `yaml:"pay_table"  json:"pay_table"`
	initFlag bool
}

// Init 檢查名單與派彩表的一致性
func (ss *SymbolSetting) Init() error {
	if ss.initFlag {
		return nil
	}
	if len(ss.Symbols) == 0 {
		return errs.NewFatal("symbols is empty")
	}
	if len(ss.PayTable) == 0 {
		return errs.NewFatal("pay_table is empty")
	}
	for _, s := range ss.Symbols {
		if s == "" {
			return errs.NewFatal("symbols has empty elem")
		}
		if _, ok := ss.PayTable[s]; !ok {
			return errs.NewFatal(fmt.Sprintf("symbol %s has no pay_table entry", s))
		}
	}
	for s, v := range ss.PayTable {
		if v < 0 {
			return errs.NewFatal(fmt.Sprintf("pay_table %s must not be negative, got %d", s, v))
		}
	}
	ss.initFlag = true
	return nil
}
