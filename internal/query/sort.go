package query

import (
	"bankadmin/internal/model"
)

// SortMode 排序方式，对应面板上的四个互斥单选项
type SortMode string

const (
	SortBalanceDesc SortMode = "bal_d"   // 余额从高到低
	SortBalanceAsc  SortMode = "bal_a"   // 余额从低到高
	SortDailyDesc   SortMode = "daily_d" // 最近领奖时间从新到旧
	SortDailyAsc    SortMode = "daily_a" // 最近领奖时间从旧到新
)

// ParseSortMode 校验并转换排序参数
func ParseSortMode(s string) (SortMode, bool) {
	switch SortMode(s) {
	case SortBalanceDesc, SortBalanceAsc, SortDailyDesc, SortDailyAsc:
		return SortMode(s), true
	}
	return "", false
}

// Less 返回指定排序方式下的比较函数，供稳定排序使用。
//
// 【关键点】按领奖时间排序时，从未领奖（LastDailyAward 为 NULL）的账户
// 无论升序降序都排在所有有时间的账户之后。这是业务规则，
// 不是对称的数值比较：两个方向都必须保持"无时间垫底"。
func Less(mode SortMode) func(a, b *model.Account) bool {
	switch mode {
	case SortBalanceAsc:
		return func(a, b *model.Account) bool { return a.Balance < b.Balance }
	case SortDailyDesc:
		return func(a, b *model.Account) bool {
			if a.LastDailyAward == nil {
				return false
			}
			if b.LastDailyAward == nil {
				return true
			}
			return a.LastDailyAward.After(*b.LastDailyAward)
		}
	case SortDailyAsc:
		return func(a, b *model.Account) bool {
			if a.LastDailyAward == nil {
				return false
			}
			if b.LastDailyAward == nil {
				return true
			}
			return a.LastDailyAward.Before(*b.LastDailyAward)
		}
	default: // SortBalanceDesc
		return func(a, b *model.Account) bool { return a.Balance > b.Balance }
	}
}
