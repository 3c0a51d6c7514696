package panel

import (
	"time"

	"bankadmin/internal/model"
)

// Row 面板上的一行账户展示数据
type Row struct {
	Name           string `json:"name"`
	Balance        int64  `json:"balance"`          // 可编辑的数字输入框初值
	LastDailyAward string `json:"last_daily_award"` // 格式化后的领奖时间，从未领取显示 Never
	IsBanker       bool   `json:"is_banker"`        // 银行家复选框初值
}

// FormatAwardTime 领奖时间展示格式，NULL 显示 Never
func FormatAwardTime(t *time.Time) string {
	if t == nil {
		return "Never"
	}
	return t.Local().Format("2006-01-02 15:04:05")
}

func buildRows(records []*model.Account, bankers map[string]bool) []Row {
	rows := make([]Row, 0, len(records))
	for _, rec := range records {
		rows = append(rows, Row{
			Name:           rec.Name,
			Balance:        rec.Balance,
			LastDailyAward: FormatAwardTime(rec.LastDailyAward),
			IsBanker:       bankers[rec.Name],
		})
	}
	return rows
}

// Renderer 把查询结果投影为展示行，由宿主 UI（HTTP 层）实现
type Renderer interface {
	Render(rows []Row, truncated bool, totalMatches int)
}

// Choice 确认弹窗里的一个按钮
type Choice struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Style string `json:"style"`
}

// Confirmer 确认弹窗通道：展示消息与按钮，用户选择后异步回调 resolve。
// 宿主 UI 负责真正的展示与收集，核心只依赖这个接口。
type Confirmer interface {
	Confirm(message string, choices []Choice, resolve func(choiceID string))
}
