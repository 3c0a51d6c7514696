package query

import (
	"fmt"
	"sort"

	"bankadmin/internal/model"
)

// DefaultResultCap 默认单次查询最多展示的账户数
const DefaultResultCap = 300

// Notify 截断提示回调，一次管线运行最多触发一次
type Notify func(message string)

// Result 一次查询管线的产出。只在本次渲染内有效，不落库。
type Result struct {
	Shown        []*model.Account // 截断后的展示列表，长度不超过上限
	Truncated    bool             // 是否发生截断
	TotalMatches int              // 截断前的命中总数
}

// Run 执行完整的查询管线：过滤 -> 稳定排序 -> 截断。
// 结果的顺序与成员完全由 (搜索文本, 排序方式, 账户快照, 银行家快照) 决定，
// 不依赖任何隐藏状态。
//
// limit <= 0 时使用 DefaultResultCap。发生截断时调用一次 notify，
// 提示内容包含上限与命中总数；未截断时不调用。
func Run(raw string, mode SortMode, records []*model.Account, bankers map[string]bool, limit int, notify Notify) Result {
	if limit <= 0 {
		limit = DefaultResultCap
	}

	pred := Parse(raw, bankers)

	matched := make([]*model.Account, 0, len(records))
	for _, rec := range records {
		if pred(rec) {
			matched = append(matched, rec)
		}
	}

	// 稳定排序：余额或时间相同的账户保持原有相对顺序
	less := Less(mode)
	sort.SliceStable(matched, func(i, j int) bool { return less(matched[i], matched[j]) })

	total := len(matched)
	if total > limit {
		if notify != nil {
			notify(fmt.Sprintf("匹配账户过多，仅展示前 %d 条（共命中 %d 条）", limit, total))
		}
		return Result{Shown: matched[:limit], Truncated: true, TotalMatches: total}
	}

	return Result{Shown: matched, Truncated: false, TotalMatches: total}
}
