package stats

import (
	"sort"
	"sync"
)

// 以押注倍數表示的分桶下界，請勿修改：
// [0,0], (0,10), [10,20), [20,40), [40,100), [100,200), [200,500), [500,1200), [1200,+inf)
//
// 單線最低派彩為 2 x 線倍數 5，所以 (0,10) 通常為空
var (
	bucketMults  = []int{10, 20, 40, 100, 200, 500, 1200}
	bucketLabels = []string{"[0,0]", "(0,10)", "[10,20)", "[20,40)", "[40,100)", "[100,200)", "[200,500)", "[500,1200)", "[1200,+inf)"}
)

// WinBuckets 依押注快取換算好的贏分邊界
type WinBuckets struct {
	byBet sync.Map // int -> *WinBucket
}

// WinBucket 單一押注下的贏分邊界
type WinBucket struct {
	bounds []int
}

// Buckets 以押注為單位的贏倍分桶
var Buckets = &WinBuckets{}

func (b *WinBuckets) WinBucketStr() []string {
	return bucketLabels
}

// GetBucketByBet bet < 1 視為 1
func (b *WinBuckets) GetBucketByBet(bet int) *WinBucket {
	bet = max(bet, 1)
	if v, ok := b.byBet.Load(bet); ok {
		return v.(*WinBucket)
	}
	bounds := make([]int, len(bucketMults))
	for i, m := range bucketMults {
		bounds[i] = m * bet
	}
	v, _ := b.byBet.LoadOrStore(bet, &WinBucket{bounds: bounds})
	return v.(*WinBucket)
}

// Index 回傳 win 所屬分桶，0 分獨立一桶
func (wb *WinBucket) Index(win int) int {
	if win <= 0 {
		return 0
	}
	// 不大於 win 的邊界數量
	return 1 + sort.SearchInts(wb.bounds, win+1)
}
